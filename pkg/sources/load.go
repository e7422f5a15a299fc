package sources

import (
	"context"
	"strings"
	"time"

	"github.com/gridlot/mastermatch/pkg/catalog"
	"github.com/gridlot/mastermatch/pkg/errors"
	"github.com/gridlot/mastermatch/pkg/logging"
)

// LoadAll loads every source in order and concatenates their snapshots.
// Overlapping entries are left in place; catalog.Build collapses them with
// the first-loaded display form winning. Any failing source fails the load.
func LoadAll(ctx context.Context, srcs ...Source) ([]catalog.Entry, error) {
	var all []catalog.Entry
	for _, src := range srcs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id := src.ID()
		srcCtx := logging.WithSource(ctx, id.String(), string(id.Kind()))

		start := time.Now()
		entries, err := src.Load(srcCtx)
		if err != nil {
			return nil, errors.WrapResource("load", "source", id.String(), err)
		}

		logging.FromContext(srcCtx).Debug().
			Int("entries", len(entries)).
			Dur("elapsed", time.Since(start)).
			Msg("Loaded source")

		all = append(all, entries...)
	}
	return all, nil
}

// Parse builds a source from a location string:
//
//	""  or "embedded"         bundled catalog
//	"sqlite:<dsn>"            SQLite master table
//	"file:<path>" or "<path>" YAML/JSON file
func Parse(location string) (Source, error) {
	location = strings.TrimSpace(location)
	kind, rest, found := strings.Cut(location, ":")

	switch {
	case location == "" || location == string(KindEmbedded):
		return NewEmbedded(), nil
	case found && Kind(kind) == KindSQLite:
		if rest == "" {
			return nil, errors.NewValidationError("catalog", location, "sqlite source needs a database path")
		}
		return NewSQLite(rest)
	case found && Kind(kind) == KindFile:
		return NewFile(rest), nil
	default:
		return NewFile(location), nil
	}
}

// ParseAll parses a list of locations, preserving order.
func ParseAll(locations []string) ([]Source, error) {
	if len(locations) == 0 {
		return []Source{NewEmbedded()}, nil
	}
	out := make([]Source, 0, len(locations))
	for _, loc := range locations {
		src, err := Parse(loc)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}
