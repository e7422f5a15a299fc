package sources

import (
	"context"

	"github.com/gridlot/mastermatch/internal/embedded"
	"github.com/gridlot/mastermatch/pkg/catalog"
	"github.com/gridlot/mastermatch/pkg/errors"
)

// Embedded reads the catalog compiled into the binary.
type Embedded struct{}

// NewEmbedded creates the bundled catalog source.
func NewEmbedded() *Embedded {
	return &Embedded{}
}

// ID returns "embedded".
func (e *Embedded) ID() ID {
	return ID(KindEmbedded)
}

// Load decodes the bundled catalog.
func (e *Embedded) Load(ctx context.Context) ([]catalog.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := embedded.FS.ReadFile(embedded.CatalogFile)
	if err != nil {
		return nil, errors.WrapIO("read", embedded.CatalogFile, err)
	}
	return Decode(data, "yaml", embedded.CatalogFile)
}
