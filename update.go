package midivault

import (
	"context"

	"github.com/midivault/midivault/pkg/catalog"
	"github.com/midivault/midivault/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ Updater = (*client)(nil)

// Update fetches the archive index and installs a catalog covering it.
// Systems the current catalog has already populated carry their data over
// and stay populated, even when the index no longer lists them; systems new
// to the index start lazy. Nothing is fetched beyond the index page itself.
func (c *client) Update(ctx context.Context) error {
	if err := c.ensureOpen("update"); err != nil {
		return err
	}

	infos, err := c.fetcher.FetchIndex(ctx)
	if err != nil {
		return err
	}

	// PopulatedSnapshot performs no fetch, so this carries cached data
	// into the new catalog without touching lazy systems.
	seed, err := c.Catalog().PopulatedSnapshot(ctx)
	if err != nil {
		return err
	}

	next, err := catalog.New(
		catalog.WithSnapshot(seed),
		catalog.WithSystems(infos...),
		catalog.WithFetcher(c.fetcher),
	)
	if err != nil {
		return err
	}

	logging.Ctx(ctx).Debug().
		Int("indexed", len(infos)).
		Int("carried", len(seed)).
		Msg("merged archive index into catalog")

	c.swap(next)
	return nil
}

// Refresh rebuilds the catalog from the live archive index, dropping all
// cached system data. Every system comes back lazy and repopulates on next
// access.
func (c *client) Refresh(ctx context.Context) error {
	if err := c.ensureOpen("refresh"); err != nil {
		return err
	}

	infos, err := c.fetcher.FetchIndex(ctx)
	if err != nil {
		return err
	}

	next, err := catalog.New(
		catalog.WithSystems(infos...),
		catalog.WithFetcher(c.fetcher),
	)
	if err != nil {
		return err
	}

	logging.Ctx(ctx).Debug().
		Int("indexed", len(infos)).
		Msg("rebuilt catalog from archive index")

	c.swap(next)
	return nil
}
