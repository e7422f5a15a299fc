package importer

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/gridlot/mastermatch/pkg/errors"
	"github.com/gridlot/mastermatch/pkg/resolver"
)

func decodeXLSX(r io.Reader, name string, o *options) ([]resolver.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.WrapParse(string(FormatXLSX), name, err)
	}
	defer func() { _ = f.Close() }()

	sheet := o.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, &errors.ParseError{
			Format:  string(FormatXLSX),
			File:    name,
			Message: "sheet " + sheet + " not found",
			Err:     errors.NewNotFoundError("sheet", sheet),
		}
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.WrapParse(string(FormatXLSX), name, err)
	}
	if len(records) == 0 {
		return []resolver.Row{}, nil
	}

	l, err := parseHeader(records[0], FormatXLSX, name)
	if err != nil {
		return nil, err
	}
	return l.rows(records[1:], FormatXLSX, name, 2)
}
