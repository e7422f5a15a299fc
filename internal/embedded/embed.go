// Package embedded carries the reference catalog compiled into the binary.
// It is the fallback source when no catalog is configured.
package embedded

import (
	"embed"
)

// CatalogFile is the path of the bundled catalog inside FS.
const CatalogFile = "catalog/vehicles.yaml"

// FS embeds the bundled reference catalog.
//
//go:embed catalog/*.yaml
var FS embed.FS
