// Package importer reads submitted inventory sheets into resolver rows.
//
// Spreadsheets (.xlsx), CSV and YAML/JSON row lists are supported. Tabular
// formats need a header row; headers are matched case-insensitively with
// common aliases (brand for make, trim for variant, ...). Each row's
// RowIndex is its 1-based data row number unless the sheet carries its own
// row column.
package importer

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gridlot/mastermatch/pkg/errors"
	"github.com/gridlot/mastermatch/pkg/resolver"
)

// Format is a supported input format.
type Format string

// Supported formats.
const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Formats returns all supported formats.
func Formats() []Format {
	return []Format{FormatXLSX, FormatCSV, FormatYAML, FormatJSON}
}

// FormatOf returns the format implied by a file name's extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", &errors.ParseError{
			Format:  strings.TrimPrefix(filepath.Ext(name), "."),
			File:    name,
			Message: "unsupported row file format",
			Err:     errors.ErrUnsupportedFormat,
		}
	}
}

type options struct {
	sheet     string
	delimiter rune
}

// Option configures reading.
type Option func(*options)

// WithSheet selects the spreadsheet sheet to read. The first sheet is
// read by default.
func WithSheet(name string) Option {
	return func(o *options) {
		o.sheet = name
	}
}

// WithDelimiter sets the CSV field delimiter. The default is a comma.
func WithDelimiter(r rune) Option {
	return func(o *options) {
		o.delimiter = r
	}
}

func newOptions(opts []Option) *options {
	o := &options{delimiter: ','}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Read reads rows from the file at path, choosing the format from its
// extension.
func Read(ctx context.Context, path string, opts ...Option) ([]resolver.Row, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return Decode(ctx, bytes.NewReader(data), format, path, opts...)
}

// Decode reads rows of the given format from r. name labels errors.
func Decode(ctx context.Context, r io.Reader, format Format, name string, opts ...Option) ([]resolver.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o := newOptions(opts)

	switch format {
	case FormatXLSX:
		return decodeXLSX(r, name, o)
	case FormatCSV:
		return decodeCSV(r, name, o)
	case FormatYAML, FormatJSON:
		return decodeDocument(r, format, name)
	default:
		return nil, &errors.ParseError{
			Format:  string(format),
			File:    name,
			Message: "unsupported row file format",
			Err:     errors.ErrUnsupportedFormat,
		}
	}
}
