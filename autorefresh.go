package mastermatch

import (
	"context"
	"time"

	"github.com/gridlot/mastermatch/pkg/errors"
)

// Compile-time interface check to ensure proper implementation.
var _ AutoRefresher = (*client)(nil)

// AutoRefresher provides controls for periodic index refreshes.
type AutoRefresher interface {
	// AutoRefreshOn starts periodic refreshes
	AutoRefreshOn() error

	// AutoRefreshOff stops periodic refreshes
	AutoRefreshOff() error
}

// AutoRefreshOn starts refreshing the index every configured interval.
// Failed refreshes are logged and the loop keeps running.
func (c *client) AutoRefreshOn() error {
	interval := c.options.autoRefreshInterval
	if interval <= 0 {
		return &errors.ValidationError{
			Field:   "autoRefreshInterval",
			Value:   interval,
			Message: "refresh interval must be positive",
		}
	}

	// Stop any running loop before starting a new one
	if err := c.AutoRefreshOff(); err != nil {
		return err
	}

	c.autoMu.Lock()
	defer c.autoMu.Unlock()

	stopCh := make(chan struct{})
	ticker := time.NewTicker(interval)
	ctx, cancel := context.WithCancel(context.Background())
	c.stopCh = stopCh
	c.refreshTicker = ticker
	c.refreshCancel = cancel

	go func() {
		for {
			select {
			case <-ticker.C:
				_, err := c.Refresh(ctx)
				if err != nil && ctx.Err() != nil {
					return
				}
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			}
		}
	}()

	c.options.logger.Debug().Dur("interval", interval).Msg("Auto refresh started")
	return nil
}

// AutoRefreshOff stops periodic refreshes. It is safe to call repeatedly.
func (c *client) AutoRefreshOff() error {
	c.autoMu.Lock()
	defer c.autoMu.Unlock()

	if c.refreshTicker != nil {
		c.refreshTicker.Stop()
		c.refreshTicker = nil
	}
	if c.refreshCancel != nil {
		c.refreshCancel()
		c.refreshCancel = nil
	}
	select {
	case <-c.stopCh:
		// Already closed
	default:
		close(c.stopCh)
	}
	return nil
}
