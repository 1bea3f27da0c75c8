package midivault

import (
	stderrors "errors"

	"github.com/midivault/midivault/pkg/logging"
)

// Close stops background updates and releases the shared transport. Closing
// is idempotent. Catalog data already populated stays readable, but
// operations that would reach the archive fail with ErrClosed afterwards.
func (c *client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)

		var errs []error
		if offErr := c.AutoUpdatesOff(); offErr != nil {
			errs = append(errs, offErr)
		}
		if catErr := c.Catalog().Close(); catErr != nil {
			errs = append(errs, catErr)
		}
		if c.transport != nil {
			if tErr := c.transport.Close(); tErr != nil {
				errs = append(errs, tErr)
			}
		}
		err = stderrors.Join(errs...)

		logging.Debug().Msg("midivault client closed")
	})
	return err
}
