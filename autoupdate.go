package midivault

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/midivault/midivault/pkg/constants"
	"github.com/midivault/midivault/pkg/errors"
	"github.com/midivault/midivault/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ AutoUpdater = (*client)(nil)

// AutoUpdater provides controls for background index updates.
type AutoUpdater interface {
	// AutoUpdatesOn begins background index updates
	AutoUpdatesOn() error

	// AutoUpdatesOff stops background index updates
	AutoUpdatesOff() error
}

// AutoUpdatesOn begins background index updates on the configured interval.
// Each tick runs Update with its own timeout; a failed update is logged and
// the ticker keeps going. Calling it again restarts the ticker.
func (c *client) AutoUpdatesOn() error {
	if err := c.ensureOpen("auto-update"); err != nil {
		return err
	}
	if c.options.autoUpdateInterval <= 0 {
		return errors.NewValidationError("auto_update_interval", c.options.autoUpdateInterval, "update interval must be positive")
	}

	// Stop any running ticker so two loops never race on one client.
	if err := c.AutoUpdatesOff(); err != nil {
		return err
	}
	c.stopCh = make(chan struct{})
	c.updateTicker = time.NewTicker(c.options.autoUpdateInterval)

	ctx, cancel := context.WithCancel(context.Background())
	c.updateCancel = cancel

	go func(parentCtx context.Context) {
		for {
			select {
			case <-c.updateTicker.C:
				updateCtx, updateCancel := context.WithTimeout(parentCtx, constants.UpdateTimeout)
				err := c.Update(updateCtx)
				updateCancel()

				if err != nil {
					if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
						return
					}
					logging.Error().Err(err).Msg("background index update failed")
				}
			case <-parentCtx.Done():
				return
			case <-c.stopCh:
				return
			}
		}
	}(ctx)

	return nil
}

// AutoUpdatesOff stops background index updates.
func (c *client) AutoUpdatesOff() error {
	if c.updateTicker != nil {
		c.updateTicker.Stop()
		c.updateTicker = nil
	}
	if c.updateCancel != nil {
		c.updateCancel()
		c.updateCancel = nil
	}
	select {
	case <-c.stopCh:
		// Already closed
	default:
		close(c.stopCh)
	}
	return nil
}
