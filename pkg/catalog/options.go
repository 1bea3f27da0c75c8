package catalog

import (
	"io"
)

// catalogOptions is a struct that contains the options for the catalog.
type catalogOptions struct {
	systems   []SystemInfo // Index entries, populated lazily on first access
	snapshot  Snapshot     // Restored systems, populated with no fetch
	fetcher   PageFetcher  // Page fetcher shared by every lazy system
	transport io.Closer    // Shared transport released by Close
}

// apply applies the given options to the catalog options.
func (c *catalogOptions) apply(opts ...Option) *catalogOptions {
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures a catalog.
type Option func(*catalogOptions)

// WithSystems seeds the catalog with index entries. Systems added this way
// are unpopulated and fetch their page lazily on first access. Entries
// whose name already exists in the snapshot are ignored; the restored data
// wins.
func WithSystems(systems ...SystemInfo) Option {
	return func(c *catalogOptions) {
		c.systems = append(c.systems, systems...)
	}
}

// WithSnapshot seeds the catalog from a previously serialized snapshot.
// Every system in the snapshot is restored fully populated with no fetch.
func WithSnapshot(snapshot Snapshot) Option {
	return func(c *catalogOptions) {
		c.snapshot = snapshot
	}
}

// WithFetcher sets the page fetcher used to populate lazy systems. A
// catalog built purely from a snapshot works without one.
func WithFetcher(fetcher PageFetcher) Option {
	return func(c *catalogOptions) {
		c.fetcher = fetcher
	}
}

// WithTransport hands the catalog ownership of the shared transport, to be
// released when the catalog is closed.
func WithTransport(transport io.Closer) Option {
	return func(c *catalogOptions) {
		c.transport = transport
	}
}
