package sources

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/gridlot/mastermatch/pkg/catalog"
	"github.com/gridlot/mastermatch/pkg/errors"
)

// document is the on-disk catalog layout. Either list may be used; both are
// read when present.
type document struct {
	Entries []catalog.Entry `json:"entries" yaml:"entries"`
	Makes   []makeNode      `json:"makes" yaml:"makes"`
}

type makeNode struct {
	Name   string      `json:"name" yaml:"name"`
	Models []modelNode `json:"models" yaml:"models"`
}

type modelNode struct {
	Name     string   `json:"name" yaml:"name"`
	Variants []string `json:"variants" yaml:"variants"`
}

func (d document) flatten() []catalog.Entry {
	out := make([]catalog.Entry, 0, len(d.Entries))
	out = append(out, d.Entries...)
	for _, mk := range d.Makes {
		for _, md := range mk.Models {
			for _, vr := range md.Variants {
				out = append(out, catalog.Entry{Make: mk.Name, Model: md.Name, Variant: vr})
			}
		}
	}
	return out
}

// File reads canonical entries from a YAML or JSON document.
type File struct {
	path string
}

// NewFile creates a file source. The format follows the extension; files
// without .json are read as YAML.
func NewFile(path string) *File {
	return &File{path: path}
}

// ID returns "file:<path>".
func (f *File) ID() ID {
	return ID(string(KindFile) + ":" + f.path)
}

// Load reads and decodes the file.
func (f *File) Load(ctx context.Context) ([]catalog.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, errors.WrapIO("read", f.path, err)
	}
	return Decode(data, formatOf(f.path), f.path)
}

// Decode parses a catalog document. format is "json" or "yaml"; name is
// used in error messages only.
func Decode(data []byte, format, name string) ([]catalog.Entry, error) {
	var doc document
	var err error
	switch format {
	case "json":
		err = json.Unmarshal(data, &doc)
	case "yaml":
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, &errors.ParseError{
			Format:  format,
			File:    name,
			Message: "unsupported catalog format",
			Err:     errors.ErrUnsupportedFormat,
		}
	}
	if err != nil {
		return nil, errors.WrapParse(format, name, err)
	}
	return doc.flatten(), nil
}

func formatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "yaml"
}
