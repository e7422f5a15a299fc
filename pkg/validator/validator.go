// Package validator applies the row resolver to whole batches.
//
// Rows are independent: each verdict depends only on its own row and the
// resolver's index, so a batch may be fanned out over several goroutines.
// Output always has the same length and order as the input.
package validator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gridlot/mastermatch/pkg/constants"
	"github.com/gridlot/mastermatch/pkg/errors"
	"github.com/gridlot/mastermatch/pkg/logging"
	"github.com/gridlot/mastermatch/pkg/resolver"
)

// Validator validates batches of rows with one resolver.
type Validator struct {
	resolver *resolver.Resolver
	workers  int
	maxRows  int
	logger   *zerolog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithWorkers sets how many rows are resolved concurrently. Values below 1
// mean sequential; values above constants.MaxWorkers are capped.
func WithWorkers(n int) Option {
	return func(v *Validator) {
		v.workers = min(max(n, 1), constants.MaxWorkers)
	}
}

// WithMaxRows sets the largest accepted batch. Zero or less, the default,
// accepts any size.
func WithMaxRows(n int) Option {
	return func(v *Validator) {
		v.maxRows = n
	}
}

// WithLogger sets the logger for batch events.
func WithLogger(logger *zerolog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// New creates a Validator.
func New(r *resolver.Resolver, opts ...Option) *Validator {
	v := &Validator{
		resolver: r,
		workers:  constants.DefaultWorkers,
		logger:   logging.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Resolver returns the resolver used for each row.
func (v *Validator) Resolver() *resolver.Resolver {
	return v.resolver
}

// ValidateBatch resolves every row and returns one verdict per row, in
// input order. The context is checked between rows only; a row that has
// started always completes. On cancellation the partial output is discarded
// and a CanceledError wrapping the context error is returned.
func (v *Validator) ValidateBatch(ctx context.Context, rows []resolver.Row) ([]resolver.Verdict, error) {
	if v.maxRows > 0 && len(rows) > v.maxRows {
		return nil, errors.NewValidationError("rows", len(rows),
			fmt.Sprintf("batch of %d rows exceeds the limit of %d", len(rows), v.maxRows))
	}

	ctx = logging.Ensure(ctx, v.logger)
	start := time.Now()
	verdicts := make([]resolver.Verdict, len(rows))

	var err error
	if v.workers <= 1 || len(rows) < 2 {
		err = v.sequential(ctx, rows, verdicts)
	} else {
		err = v.parallel(ctx, rows, verdicts)
	}
	if err != nil {
		return nil, errors.Canceled("batch validation", err)
	}

	summary := Summarize(verdicts)
	logging.FromContext(ctx).Debug().
		Int("rows", summary.Total).
		Int("valid", summary.Valid).
		Int("needs_review", summary.NeedsReview).
		Int("invalid", summary.Invalid).
		Int("workers", v.workers).
		Dur("elapsed", time.Since(start)).
		Msg("Batch validated")

	return verdicts, nil
}

func (v *Validator) sequential(ctx context.Context, rows []resolver.Row, out []resolver.Verdict) error {
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		out[i] = v.resolver.ResolveContext(ctx, row)
	}
	return nil
}

// parallel writes each verdict into its own slot, so no locking is needed.
func (v *Validator) parallel(ctx context.Context, rows []resolver.Row, out []resolver.Verdict) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.workers)

	for i := range rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = v.resolver.ResolveContext(gctx, rows[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
