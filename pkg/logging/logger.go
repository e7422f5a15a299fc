// Package logging carries the zerolog loggers used across mastermatch.
//
// Loggers travel in contexts. A validation batch tags its logger with the
// batch ID, every resolved row with its row index and every catalog load
// with the source being read, so a debug line can be traced back to the
// upload and row that produced it:
//
//	ctx = logging.WithBatch(ctx, batchID)
//	logging.FromContext(logging.WithRow(ctx, 12)).Debug().Msg("Resolved row")
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger is used when neither an option nor a context supplies one.
var defaultLogger = NewLoggerFromConfig(envConfig(&Config{}))

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// DebugEnabled reports whether logger would write a debug event. Per-row
// tagging is skipped when it would not.
func DebugEnabled(logger *zerolog.Logger) bool {
	return logger.GetLevel() <= zerolog.DebugLevel && zerolog.GlobalLevel() <= zerolog.DebugLevel
}
