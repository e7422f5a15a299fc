package resolver

import (
	"fmt"
	"strings"

	"github.com/gridlot/mastermatch/pkg/errors"
	"github.com/gridlot/mastermatch/pkg/matcher"
)

// Field names one column of a row.
type Field string

// Row fields in cascade order.
const (
	FieldMake    Field = "make"
	FieldModel   Field = "model"
	FieldVariant Field = "variant"
)

// Fields returns the fields in cascade order.
func Fields() []Field {
	return []Field{FieldMake, FieldModel, FieldVariant}
}

// ParseField parses a field name case-insensitively.
func ParseField(name string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(name)))
	switch f {
	case FieldMake, FieldModel, FieldVariant:
		return f, nil
	}
	return "", errors.NewValidationError("field", name, fmt.Sprintf("unknown field %q (want make, model or variant)", name))
}

// MatchField resolves only as much of row as field depends on and returns
// that field's result. Parents narrow the pool exactly as in Resolve.
func (r *Resolver) MatchField(field Field, row Row) (matcher.Result, error) {
	switch field {
	case FieldMake:
		return r.MatchMake(row.Make), nil
	case FieldModel:
		return r.MatchModel(row.Model, effective(r.MatchMake(row.Make))), nil
	case FieldVariant:
		mk := effective(r.MatchMake(row.Make))
		md := effective(r.MatchModel(row.Model, mk))
		return r.MatchVariant(row.Variant, mk, md), nil
	default:
		return matcher.Result{}, errors.NewValidationError("field", string(field), fmt.Sprintf("unknown field %q", field))
	}
}
