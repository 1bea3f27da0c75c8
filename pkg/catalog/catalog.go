// Package catalog provides the core caching model for the VGMusic MIDI
// archive: a Catalog of Systems, each holding games and songs parsed from
// one archive listing page.
//
// The set of system names is fixed when the catalog is constructed, but
// each system's data is fetched lazily: point queries populate one system,
// aggregate operations (Snapshot, Search, TotalSongs) force population of
// every system. A catalog can also be restored from a previously
// serialized snapshot, in which case restored systems never touch the
// network.
//
// Example usage:
//
//	// Lazy catalog over a live index
//	c, err := catalog.New(
//	    catalog.WithSystems(infos...),
//	    catalog.WithFetcher(client),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Point query populates just that system
//	system, err := c.System(ctx, "Nintendo 64")
//
//	// Restore from a snapshot, zero network access
//	c, err := catalog.New(catalog.WithSnapshot(snap))
package catalog

import (
	"context"
	"io"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/midivault/midivault/pkg/constants"
	"github.com/midivault/midivault/pkg/errors"
)

// Catalog holds the full set of systems known to the archive. The system
// set is immutable after construction; only per-system population state
// changes, under each system's own guard, so catalog lookups need no lock.
type Catalog struct {
	systems   map[string]*System
	fetcher   PageFetcher
	transport io.Closer

	closeOnce sync.Once
	closed    atomic.Bool
}

// New creates a catalog from the given options. Snapshot systems are
// restored populated; index systems absent from the snapshot stay lazy.
// A malformed snapshot returns a FormatError.
func New(opts ...Option) (*Catalog, error) {
	o := (&catalogOptions{}).apply(opts...)

	if err := o.snapshot.Validate(); err != nil {
		return nil, err
	}

	systems := make(map[string]*System, len(o.snapshot)+len(o.systems))
	for name, snap := range o.snapshot {
		systems[name] = systemFromSnapshot(name, snap, o.fetcher)
	}
	for _, info := range o.systems {
		if _, ok := systems[info.Name]; ok {
			continue
		}
		systems[info.Name] = newSystem(info, o.fetcher)
	}

	return &Catalog{
		systems:   systems,
		fetcher:   o.fetcher,
		transport: o.transport,
	}, nil
}

// FromSnapshot restores a catalog from a serialized snapshot. Every
// restored system is populated immediately with no fetch; the fetcher is
// only used if the catalog is later asked about systems it does not know.
func FromSnapshot(snapshot Snapshot, fetcher PageFetcher, transport io.Closer) (*Catalog, error) {
	return New(
		WithSnapshot(snapshot),
		WithFetcher(fetcher),
		WithTransport(transport),
	)
}

// System returns the named system, populated. Unknown names return a
// NotFoundError without any fetch.
func (c *Catalog) System(ctx context.Context, name string) (*System, error) {
	system, ok := c.systems[name]
	if !ok {
		return nil, errors.NewNotFoundError("system", name)
	}
	if c.closed.Load() {
		return nil, errors.NewResourceError("populate", "catalog", "", errors.ErrClosed)
	}
	if err := system.populate(ctx); err != nil {
		return nil, err
	}
	return system, nil
}

// Peek returns the named system without populating it, or false when the
// catalog does not know the name. Callers that need populated data should
// use System instead.
func (c *Catalog) Peek(name string) (*System, bool) {
	system, ok := c.systems[name]
	return system, ok
}

// Names returns every known system name, sorted. It never triggers a
// fetch.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.systems))
	for name := range c.systems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of systems in the catalog.
func (c *Catalog) Len() int {
	return len(c.systems)
}

// TotalSongs returns the number of songs across every system, forcing
// population of the whole catalog first.
func (c *Catalog) TotalSongs(ctx context.Context) (int, error) {
	if err := c.ForceAll(ctx); err != nil {
		return 0, err
	}
	total := 0
	for _, system := range c.systems {
		n, err := system.TotalSongs(ctx)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// Snapshot serializes the whole catalog, forcing population of every
// system first so the snapshot never contains partial entries.
func (c *Catalog) Snapshot(ctx context.Context) (Snapshot, error) {
	if err := c.ForceAll(ctx); err != nil {
		return nil, err
	}
	snapshot := make(Snapshot, len(c.systems))
	for name, system := range c.systems {
		snap, err := system.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		snapshot[name] = snap
	}
	return snapshot, nil
}

// PopulatedSnapshot serializes only the systems that are already
// populated, performing no fetches. Lazy systems are left out entirely,
// so restoring the result yields a catalog that knows fewer names than
// this one unless it is also given the index.
func (c *Catalog) PopulatedSnapshot(ctx context.Context) (Snapshot, error) {
	snapshot := Snapshot{}
	for name, system := range c.systems {
		if !system.Populated() {
			continue
		}
		snap, err := system.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		snapshot[name] = snap
	}
	return snapshot, nil
}

// ForceAll eagerly populates every system in the catalog, fetching at
// most a bounded number of pages concurrently. Already-populated systems
// are skipped. The first population failure is returned, but the
// remaining systems keep whatever they individually fetched; failed
// systems stay unpopulated and retry on next access.
func (c *Catalog) ForceAll(ctx context.Context) error {
	if c.closed.Load() {
		return errors.NewResourceError("populate", "catalog", "", errors.ErrClosed)
	}
	var g errgroup.Group
	g.SetLimit(constants.MaxConcurrentRefresh)
	for _, system := range c.systems {
		g.Go(func() error {
			return system.populate(ctx)
		})
	}
	return g.Wait()
}

// Close releases the catalog's transport. Closing is idempotent; queries
// that would fetch fail with ErrClosed afterwards, while already-populated
// data stays readable through systems obtained earlier.
func (c *Catalog) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		if c.transport != nil {
			err = c.transport.Close()
		}
	})
	return err
}
