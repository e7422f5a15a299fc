package mastermatch

import (
	"context"
	"time"

	"github.com/gridlot/mastermatch/pkg/catalog"
	"github.com/gridlot/mastermatch/pkg/errors"
	"github.com/gridlot/mastermatch/pkg/logging"
	"github.com/gridlot/mastermatch/pkg/matcher"
	"github.com/gridlot/mastermatch/pkg/resolver"
	"github.com/gridlot/mastermatch/pkg/sources"
	"github.com/gridlot/mastermatch/pkg/validator"
)

// Compile-time interface check to ensure proper implementation.
var _ Refresher = (*client)(nil)

// Refresher rebuilds the reference index.
type Refresher interface {
	// Refresh loads all sources, builds a new index and swaps it in
	Refresh(ctx context.Context) (*RefreshEvent, error)
}

// RefreshEvent describes a completed refresh.
type RefreshEvent struct {
	Generation uint64              `json:"generation" yaml:"generation"`
	Stats      catalog.Stats       `json:"stats" yaml:"stats"`
	Report     catalog.BuildReport `json:"report" yaml:"report"`
	Sources    []string            `json:"sources" yaml:"sources"`
	BuiltAt    time.Time           `json:"builtAt" yaml:"built_at"`
	Elapsed    time.Duration       `json:"elapsed" yaml:"elapsed"`
}

// Refresh loads a new snapshot and swaps it in. On failure the previous
// snapshot stays live, the failure hooks run and the error is returned as
// a ResourceError. Each call is bounded by WithRefreshTimeout; running past
// it yields an error that satisfies errors.IsTimeout.
//
// Hooks run after the refresh lock is released, so a hook may call Refresh.
func (c *client) Refresh(ctx context.Context) (*RefreshEvent, error) {
	event, err := c.refresh(ctx)
	if err != nil {
		c.hooks.triggerFailed(err)
		return nil, err
	}
	c.hooks.triggerRefreshed(*event)
	return event, nil
}

func (c *client) refresh(ctx context.Context) (*RefreshEvent, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	start := c.options.now()
	logger := c.options.logger

	if c.options.refreshTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.options.refreshTimeout)
		defer cancel()
	}

	entries, err := sources.LoadAll(logging.WithLogger(ctx, logger), c.options.sources...)
	if err != nil {
		err = errors.WrapResource("refresh", "index", "", c.contextError(ctx, err))
		logger.Error().Err(err).Msg("Index refresh failed, keeping previous index")
		return nil, err
	}

	ids := make([]string, len(c.options.sources))
	for i, src := range c.options.sources {
		ids[i] = src.ID().String()
	}

	idx := catalog.Build(entries,
		catalog.WithLogger(logger),
		catalog.WithSourceName(joinIDs(ids)),
		catalog.WithClock(c.options.now),
	)

	snap, err := c.newSnapshot(idx, ids)
	if err != nil {
		return nil, err
	}
	c.current.Store(snap)

	event := RefreshEvent{
		Generation: snap.generation,
		Stats:      idx.Stats(),
		Report:     idx.Report(),
		Sources:    ids,
		BuiltAt:    idx.BuiltAt(),
		Elapsed:    c.options.now().Sub(start),
	}

	logger.Info().
		Uint64("generation", event.Generation).
		Int("makes", event.Stats.Makes).
		Int("models", event.Stats.Models).
		Int("variants", event.Stats.Variants).
		Int("dropped", event.Report.DroppedCount()).
		Dur("elapsed", event.Elapsed).
		Msg("Reference index refreshed")

	return &event, nil
}

// contextError replaces a load failure caused by ctx ending with a
// TimeoutError or CanceledError.
func (c *client) contextError(ctx context.Context, err error) error {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return errors.NewTimeoutError("index refresh", c.options.refreshTimeout, err)
	case context.Canceled:
		return errors.Canceled("index refresh", err)
	}
	return err
}

// newSnapshot wires a resolver and validator over idx. Callers hold refreshMu.
func (c *client) newSnapshot(idx *catalog.Index, ids []string) (*Snapshot, error) {
	m, err := matcher.New(c.options.matcherConfig)
	if err != nil {
		return nil, err
	}
	r := resolver.New(idx, m, resolver.WithLogger(c.options.logger))
	v := validator.New(r,
		validator.WithWorkers(c.options.workers),
		validator.WithMaxRows(c.options.maxRows),
		validator.WithLogger(c.options.logger),
	)

	c.generation++
	return &Snapshot{
		index:      idx,
		resolver:   r,
		validator:  v,
		generation: c.generation,
		loadedAt:   c.options.now(),
		sources:    ids,
		logger:     c.options.logger,
	}, nil
}

func joinIDs(ids []string) string {
	switch len(ids) {
	case 0:
		return ""
	case 1:
		return ids[0]
	}
	out := ids[0]
	for _, id := range ids[1:] {
		out += "," + id
	}
	return out
}
