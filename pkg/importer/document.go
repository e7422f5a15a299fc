package importer

import (
	"encoding/json"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/gridlot/mastermatch/pkg/errors"
	"github.com/gridlot/mastermatch/pkg/resolver"
)

type docRow struct {
	RowIndex *int   `json:"rowIndex" yaml:"row_index"`
	Make     string `json:"make" yaml:"make"`
	Model    string `json:"model" yaml:"model"`
	Variant  string `json:"variant" yaml:"variant"`
}

type rowDocument struct {
	Rows []docRow `json:"rows" yaml:"rows"`
}

// decodeDocument accepts either {rows: [...]} or a bare list of rows.
func decodeDocument(r io.Reader, format Format, name string) ([]resolver.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", name, err)
	}

	unmarshal := func(v any) error { return yaml.Unmarshal(data, v) }
	if format == FormatJSON {
		unmarshal = func(v any) error { return json.Unmarshal(data, v) }
	}

	var doc rowDocument
	var list []docRow
	if err := unmarshal(&doc); err == nil {
		list = doc.Rows
	} else if lerr := unmarshal(&list); lerr != nil {
		return nil, errors.WrapParse(string(format), name, err)
	}

	rows := make([]resolver.Row, len(list))
	for i, d := range list {
		rows[i] = resolver.Row{
			RowIndex: i + 1,
			Make:     d.Make,
			Model:    d.Model,
			Variant:  d.Variant,
		}
		if d.RowIndex != nil {
			rows[i].RowIndex = *d.RowIndex
		}
	}
	return rows, nil
}
