package mastermatch

import (
	"sync"
)

// Hook function types for index events
type (
	// IndexRefreshedHook is called after a new index has been swapped in
	IndexRefreshedHook func(event RefreshEvent)

	// RefreshFailedHook is called when a refresh fails and the previous
	// index stays live
	RefreshFailedHook func(err error)
)

// Hooks registers callbacks for index events.
type Hooks interface {
	// OnIndexRefreshed registers a callback for successful refreshes.
	// Hooks run outside the refresh lock and may call Refresh.
	OnIndexRefreshed(fn IndexRefreshedHook)

	// OnRefreshFailed registers a callback for failed refreshes
	OnRefreshFailed(fn RefreshFailedHook)
}

// hooks manages event callbacks for index refreshes
type hooks struct {
	mu               sync.RWMutex
	onIndexRefreshed []IndexRefreshedHook
	onRefreshFailed  []RefreshFailedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnIndexRefreshed registers a callback for successful refreshes
func (c *client) OnIndexRefreshed(fn IndexRefreshedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onIndexRefreshed = append(c.hooks.onIndexRefreshed, fn)
}

// OnRefreshFailed registers a callback for failed refreshes
func (c *client) OnRefreshFailed(fn RefreshFailedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onRefreshFailed = append(c.hooks.onRefreshFailed, fn)
}

// triggerRefreshed runs the refresh hooks in registration order
func (h *hooks) triggerRefreshed(event RefreshEvent) {
	h.mu.RLock()
	fns := append([]IndexRefreshedHook(nil), h.onIndexRefreshed...)
	h.mu.RUnlock()
	for _, hook := range fns {
		hook(event)
	}
}

// triggerFailed runs the failure hooks in registration order
func (h *hooks) triggerFailed(err error) {
	h.mu.RLock()
	fns := append([]RefreshFailedHook(nil), h.onRefreshFailed...)
	h.mu.RUnlock()
	for _, hook := range fns {
		hook(err)
	}
}
