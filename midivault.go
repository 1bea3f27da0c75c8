// Package midivault provides the main entry point for the midivault VGMusic
// archive client. It ties together the lazily populated catalog, the archive
// index and page fetchers, snapshot persistence and the shared HTTP
// transport behind a single Client.
//
// The Client wraps the catalog layer with additional features including:
// - Snapshot cache files (JSON or YAML) loaded at startup and saved on demand
// - Index updates that merge newly listed systems without dropping cached data
// - Full rebuilds from the live archive index
// - Event hooks for systems appearing in or vanishing from the index
// - Optional background index updates on a ticker
//
// Example usage:
//
//	// Create a client backed by a snapshot cache file
//	mv, err := midivault.New(midivault.WithCache("catalog.json"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer mv.Close()
//
//	// Point query: populates just that system
//	system, err := mv.Catalog().System(ctx, "Nintendo 64")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	games, _ := system.Games(ctx)
//
//	// Search across the whole archive
//	matches, err := mv.Catalog().SearchRegexp(ctx, map[string]string{
//	    "title": "(?i)zelda",
//	})
//
//	// Pick up newly listed systems, then persist the cache
//	if err := mv.Update(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if err := mv.Save(ctx); err != nil {
//	    log.Fatal(err)
//	}
package midivault

import (
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/midivault/midivault/internal/transport"
	"github.com/midivault/midivault/pkg/catalog"
	"github.com/midivault/midivault/pkg/errors"
	"github.com/midivault/midivault/pkg/logging"
	"github.com/midivault/midivault/pkg/vgmusic"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Cataloger provides access to the current catalog.
type Cataloger interface {
	Catalog() *catalog.Catalog
}

// Updater refreshes the catalog from the live archive index.
type Updater interface {
	// Update fetches the archive index and merges newly listed systems
	// into the catalog; systems already populated keep their data.
	Update(ctx context.Context) error

	// Refresh discards all cached data and rebuilds the catalog from the
	// live archive index.
	Refresh(ctx context.Context) error
}

// Client manages a catalog of the VGMusic archive with snapshot
// persistence, index updates and event hooks.
type Client interface {

	// Cataloger provides access to the current catalog
	Cataloger

	// Updater refreshes the catalog from the live archive index
	Updater

	// Persistence reads and writes snapshot cache files
	Persistence

	// AutoUpdater provides access to background index update controls
	AutoUpdater

	// Hooks provides access to event callback registration
	Hooks

	// Closer releases the transport; the catalog stays readable
	io.Closer
}

// client is the internal implementation of the Client interface.
type client struct {

	// options are the configured options for the client
	options *options

	// fetcher retrieves the archive index and system pages
	fetcher catalog.Fetcher

	// transport is the shared HTTP client, nil when a custom fetcher
	// was injected without one
	transport *transport.Client

	// cat is the working catalog, swapped wholesale by Update/Refresh
	mu  sync.RWMutex
	cat *catalog.Catalog

	// auto update state
	updateTicker *time.Ticker
	stopCh       chan struct{}
	updateCancel context.CancelFunc

	// hooks fire when an index update changes the system set
	hooks *hooks

	closeOnce sync.Once
	closed    atomic.Bool
}

// New creates a new Client instance with the given options. When a cache
// path is configured and the file exists, the catalog is seeded from it
// with no network access; otherwise the catalog starts empty until Update
// or Refresh fetches the live index.
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

	// Use the injected fetcher or build the real archive client.
	if o.fetcher != nil {
		c.fetcher = o.fetcher
		c.transport = o.transport
	} else {
		if o.transport == nil {
			o.transport = transport.NewDefault()
		}
		c.transport = o.transport
		var vopts []vgmusic.Option
		if o.baseURL != "" {
			vopts = append(vopts, vgmusic.WithBaseURL(o.baseURL))
		}
		c.fetcher = vgmusic.New(o.transport, vopts...)
	}

	snap := o.snapshot
	if snap == nil && o.cachePath != "" {
		if _, statErr := os.Stat(o.cachePath); statErr == nil {
			if snap, err = ReadSnapshotFile(o.cachePath); err != nil {
				return nil, err
			}
			logging.Debug().
				Str("cache", o.cachePath).
				Int("systems", len(snap)).
				Msg("loaded snapshot cache")
		}
	}

	copts := []catalog.Option{catalog.WithFetcher(c.fetcher)}
	if snap != nil {
		copts = append(copts, catalog.WithSnapshot(snap))
	}
	if c.cat, err = catalog.New(copts...); err != nil {
		return nil, err
	}

	logging.Debug().
		Int("systems", c.cat.Len()).
		Msg("catalog ready")

	if o.autoUpdatesEnabled {
		if err := c.AutoUpdatesOn(); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Catalog returns the current catalog. The catalog is safe for concurrent
// use; a catalog obtained before an Update or Refresh stays valid but no
// longer reflects the index.
func (c *client) Catalog() *catalog.Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cat
}

// swap installs a new catalog and fires hooks for system set changes.
func (c *client) swap(next *catalog.Catalog) {
	c.mu.Lock()
	old := c.cat
	c.cat = next
	c.mu.Unlock()

	c.hooks.triggerCatalogSwap(old, next)
}

// ensureOpen reports the operation as failed when the client is closed.
func (c *client) ensureOpen(operation string) error {
	if c.closed.Load() {
		return errors.NewResourceError(operation, "client", "", errors.ErrClosed)
	}
	return nil
}
