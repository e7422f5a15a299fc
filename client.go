// Package mastermatch reconciles free-text vehicle Make / Model / Variant
// rows against canonical reference data.
//
// A Client owns the current reference index. Refreshing loads a new
// snapshot from the configured sources, builds a fresh immutable index and
// swaps it in atomically; validations already running keep the snapshot
// they started with and never observe a partially built index.
//
// Example usage:
//
//	mm, err := mastermatch.New(
//	    mastermatch.WithSources(sources.NewFile("catalog.yaml")),
//	    mastermatch.WithAutoRefreshInterval(30*time.Minute),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer mm.AutoRefreshOff()
//
//	mm.OnIndexRefreshed(func(ev mastermatch.RefreshEvent) {
//	    log.Printf("index generation %d: %d makes", ev.Generation, ev.Stats.Makes)
//	})
//
//	result, err := mm.Validate(ctx, rows)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d valid, %d to review, %d invalid\n",
//	    result.Summary.Valid, result.Summary.NeedsReview, result.Summary.Invalid)
package mastermatch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gridlot/mastermatch/pkg/errors"
	"github.com/gridlot/mastermatch/pkg/matcher"
	"github.com/gridlot/mastermatch/pkg/resolver"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Reader gives access to the current snapshot.
type Reader interface {
	// Snapshot returns the current snapshot, or ErrIndexNotLoaded.
	Snapshot() (*Snapshot, error)

	// Ready reports whether an index has been loaded.
	Ready() bool
}

// Validator validates rows against the current snapshot.
type Validator interface {
	// Validate resolves a batch of rows.
	Validate(ctx context.Context, rows []resolver.Row) (*BatchResult, error)

	// Match resolves a single field of row, narrowing by its parents.
	Match(field resolver.Field, row resolver.Row) (matcher.Result, error)
}

// Client manages the reference index with refreshes and event hooks.
type Client interface {
	Reader
	Validator

	// Refresher rebuilds the index from the configured sources
	Refresher

	// AutoRefresher provides access to periodic refresh controls
	AutoRefresher

	// Hooks provides access to event callback registration
	Hooks
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options

	// current holds the live snapshot; refreshMu serializes rebuilds
	current    atomic.Pointer[Snapshot]
	refreshMu  sync.Mutex
	generation uint64

	// auto refresh state
	autoMu        sync.Mutex
	refreshTicker *time.Ticker
	stopCh        chan struct{}
	refreshCancel context.CancelFunc

	hooks *hooks
}

// New creates a Client. Unless WithLazyLoad is given, the sources are loaded
// and the first index is built before New returns.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	c := &client{
		options: o,
		stopCh:  make(chan struct{}),
		hooks:   newHooks(),
	}
	close(c.stopCh)

	if !o.lazyLoad {
		if _, err := c.Refresh(context.Background()); err != nil {
			return nil, err
		}
	}

	if o.autoRefreshEnabled {
		if err := c.AutoRefreshOn(); err != nil {
			return nil, errors.WrapResource("start", "auto-refresh", "", err)
		}
	}

	return c, nil
}

// Snapshot returns the current snapshot.
func (c *client) Snapshot() (*Snapshot, error) {
	snap := c.current.Load()
	if snap == nil {
		return nil, errors.ErrIndexNotLoaded
	}
	return snap, nil
}

// Ready reports whether an index has been loaded.
func (c *client) Ready() bool {
	return c.current.Load() != nil
}

// Validate resolves rows against the snapshot current at call time.
func (c *client) Validate(ctx context.Context, rows []resolver.Row) (*BatchResult, error) {
	snap, err := c.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Validate(ctx, rows)
}

// Match resolves one field against the current snapshot.
func (c *client) Match(field resolver.Field, row resolver.Row) (matcher.Result, error) {
	snap, err := c.Snapshot()
	if err != nil {
		return matcher.Result{}, err
	}
	return snap.Match(field, row)
}
