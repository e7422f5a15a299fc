package sources

import (
	"context"
	"slices"

	"github.com/gridlot/mastermatch/pkg/catalog"
)

// Static serves a fixed in-memory snapshot.
type Static struct {
	name    string
	entries []catalog.Entry
}

// NewStatic creates a source returning a copy of entries on every load.
func NewStatic(name string, entries ...catalog.Entry) *Static {
	return &Static{name: name, entries: slices.Clone(entries)}
}

// ID returns "static:<name>".
func (s *Static) ID() ID {
	return ID(string(KindStatic) + ":" + s.name)
}

// Load returns the snapshot.
func (s *Static) Load(ctx context.Context) ([]catalog.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(s.entries), nil
}
