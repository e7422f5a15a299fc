package importer

import (
	"encoding/csv"
	stderrors "errors"
	"io"

	"github.com/gridlot/mastermatch/pkg/errors"
	"github.com/gridlot/mastermatch/pkg/resolver"
)

func decodeCSV(r io.Reader, name string, o *options) ([]resolver.Row, error) {
	cr := csv.NewReader(r)
	cr.Comma = o.delimiter
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		perr := &errors.ParseError{Format: string(FormatCSV), File: name, Message: err.Error(), Err: err}
		var csvErr *csv.ParseError
		if stderrors.As(err, &csvErr) {
			perr.Line = csvErr.Line
			perr.Message = csvErr.Err.Error()
		}
		return nil, perr
	}
	if len(records) == 0 {
		return []resolver.Row{}, nil
	}

	l, err := parseHeader(records[0], FormatCSV, name)
	if err != nil {
		return nil, err
	}
	return l.rows(records[1:], FormatCSV, name, 2)
}
