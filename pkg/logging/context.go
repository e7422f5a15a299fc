package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey int

const (
	loggerKey contextKey = iota
	requestIDKey
)

// WithLogger stores logger in ctx. A nil logger stores the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return FromContextOr(ctx, Default())
}

// FromContextOr returns the logger stored in ctx, or fallback when ctx
// carries none.
func FromContextOr(ctx context.Context, fallback *zerolog.Logger) *zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
			return logger
		}
	}
	return fallback
}

// Ensure returns ctx unchanged when it already carries a logger and
// otherwise stores fallback in it. Components that were built with their
// own logger use it to honour a caller's request-scoped logger first.
func Ensure(ctx context.Context, fallback *zerolog.Logger) context.Context {
	if _, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok {
		return ctx
	}
	return WithLogger(ctx, fallback)
}

// WithRequestID records an HTTP request ID and tags the context logger.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return tag(ctx, func(c zerolog.Context) zerolog.Context { return c.Str("request_id", requestID) })
}

// RequestID returns the request ID stored by WithRequestID.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithBatch tags the context logger with a validation batch ID.
func WithBatch(ctx context.Context, batchID string) context.Context {
	return tag(ctx, func(c zerolog.Context) zerolog.Context { return c.Str("batch_id", batchID) })
}

// WithRow tags the context logger with a batch row index.
func WithRow(ctx context.Context, rowIndex int) context.Context {
	return tag(ctx, func(c zerolog.Context) zerolog.Context { return c.Int("row_index", rowIndex) })
}

// WithSource tags the context logger with the catalog source being loaded.
func WithSource(ctx context.Context, sourceID, kind string) context.Context {
	return tag(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("source", sourceID).Str("source_kind", kind)
	})
}

func tag(ctx context.Context, fn func(zerolog.Context) zerolog.Context) context.Context {
	logger := fn(FromContext(ctx).With()).Logger()
	return WithLogger(ctx, &logger)
}
