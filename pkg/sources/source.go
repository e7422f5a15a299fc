// Package sources loads snapshots of canonical vehicle entries from the
// places master data lives: YAML or JSON files, a SQLite "master vehicle
// data" table, the catalog bundled into the binary, or memory.
//
// Sources are read-only. A load returns the raw snapshot; deduplication,
// dropping of incomplete entries and indexing happen in catalog.Build.
//
// Example usage:
//
//	src, err := sources.Parse("sqlite:/var/lib/mastermatch/master.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	entries, err := src.Load(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	idx := catalog.Build(entries, catalog.WithSourceName(src.ID().String()))
package sources

import (
	"context"
	"strings"

	"github.com/gridlot/mastermatch/pkg/catalog"
)

// ID identifies a configured source, for example "file:catalog.yaml".
type ID string

// String returns the string representation of a source ID.
func (id ID) String() string {
	return string(id)
}

// Kind returns the scheme part of the ID.
func (id ID) Kind() Kind {
	kind, _, _ := strings.Cut(string(id), ":")
	return Kind(kind)
}

// Kind is the type of a source.
type Kind string

// Source kinds.
const (
	KindFile     Kind = "file"
	KindSQLite   Kind = "sqlite"
	KindEmbedded Kind = "embedded"
	KindStatic   Kind = "static"
)

// Source produces snapshots of canonical entries.
type Source interface {
	// ID identifies the source in logs and reports.
	ID() ID

	// Load reads a complete snapshot.
	Load(ctx context.Context) ([]catalog.Entry, error)
}
