// Package constants provides shared constants used throughout the mastermatch
// codebase: matching defaults, batch limits, timeouts and file permissions
// that must stay consistent between the library, the CLI and the server.
package constants

import "time"

// Matching defaults
const (
	// DefaultAutoCorrectThreshold is the minimum confidence accepted without review
	DefaultAutoCorrectThreshold = 90.0

	// DefaultReviewThreshold is the minimum confidence offered for human review
	DefaultReviewThreshold = 70.0

	// DefaultMaxSuggestions is the number of ranked candidates attached to each field result
	DefaultMaxSuggestions = 3

	// MaxConfidence is the upper bound of every confidence score
	MaxConfidence = 100.0

	// MinPrefixRunes is the shortest common prefix that earns a prefix bonus
	MinPrefixRunes = 3
)

// Batch limits
const (
	// MaxBatchRows is the largest batch a single validation call accepts
	MaxBatchRows = 1000

	// DefaultWorkers is the default number of rows resolved concurrently (1 = sequential)
	DefaultWorkers = 1

	// MaxWorkers caps the worker pool regardless of configuration
	MaxWorkers = 64
)

// Timeout constants
const (
	// DefaultRefreshInterval is the default interval between reference index refreshes
	DefaultRefreshInterval = 15 * time.Minute

	// RefreshTimeout bounds a single source load + index build
	RefreshTimeout = 2 * time.Minute

	// ShutdownTimeout is how long the CLI waits for graceful shutdown
	ShutdownTimeout = 5 * time.Second

	// ReadHeaderTimeout is the HTTP server read header timeout
	ReadHeaderTimeout = 10 * time.Second
)

// Cache constants
const (
	// CacheTTL is the default time-to-live for cached candidate listings
	CacheTTL = 5 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 10 * time.Minute
)

// File permission constants
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Source defaults
const (
	// DefaultMasterTable is the table holding canonical vehicle data
	DefaultMasterTable = "master_vehicle_data"
)
