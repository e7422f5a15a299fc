package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gridlot/mastermatch/pkg/errors"
	"github.com/gridlot/mastermatch/pkg/normalize"
	"github.com/gridlot/mastermatch/pkg/resolver"
)

type column int

const (
	colMake column = iota
	colModel
	colVariant
	colRow
)

var headerAliases = map[string]column{
	"make":         colMake,
	"brand":        colMake,
	"manufacturer": colMake,
	"model":        colModel,
	"variant":      colVariant,
	"trim":         colVariant,
	"version":      colVariant,
	"row":          colRow,
	"row index":    colRow,
	"rowindex":     colRow,
}

var requiredColumns = []struct {
	col   column
	label string
}{
	{colMake, "make"},
	{colModel, "model"},
	{colVariant, "variant"},
}

// layout maps each known column to its position in a record.
type layout map[column]int

func parseHeader(header []string, format Format, name string) (layout, error) {
	l := layout{}
	for i, h := range header {
		col, ok := headerAliases[normalize.String(h)]
		if !ok {
			continue
		}
		if _, seen := l[col]; !seen {
			l[col] = i
		}
	}

	var missing []string
	for _, req := range requiredColumns {
		if _, ok := l[req.col]; !ok {
			missing = append(missing, req.label)
		}
	}
	if len(missing) > 0 {
		return nil, &errors.ParseError{
			Format:  string(format),
			File:    name,
			Line:    1,
			Message: "missing required column(s): " + strings.Join(missing, ", "),
		}
	}
	return l, nil
}

// rows converts data records into resolver rows. line is the 1-based file
// line of the first record.
func (l layout) rows(records [][]string, format Format, name string, line int) ([]resolver.Row, error) {
	out := make([]resolver.Row, 0, len(records))
	for i, rec := range records {
		if blank(rec) {
			continue
		}
		row := resolver.Row{
			RowIndex: i + 1,
			Make:     cell(rec, l[colMake]),
			Model:    cell(rec, l[colModel]),
			Variant:  cell(rec, l[colVariant]),
		}
		if pos, ok := l[colRow]; ok {
			if raw := strings.TrimSpace(cell(rec, pos)); raw != "" {
				n, err := strconv.Atoi(raw)
				if err != nil {
					return nil, &errors.ParseError{
						Format:  string(format),
						File:    name,
						Line:    line + i,
						Message: fmt.Sprintf("row column is not an integer: %q", raw),
						Err:     err,
					}
				}
				row.RowIndex = n
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func cell(rec []string, pos int) string {
	if pos < len(rec) {
		return strings.TrimSpace(rec[pos])
	}
	return ""
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
