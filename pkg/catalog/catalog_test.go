package catalog_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midivault/midivault/pkg/catalog"
	"github.com/midivault/midivault/pkg/errors"
)

// fakeFetcher is a scriptable PageFetcher that records how often each URL
// was fetched.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]*catalog.Page
	errs  map[string]error
	calls map[string]int
	total atomic.Int64
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages: make(map[string]*catalog.Page),
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

func (f *fakeFetcher) FetchPage(_ context.Context, url string) (*catalog.Page, error) {
	f.total.Add(1)
	f.mu.Lock()
	f.calls[url]++
	err := f.errs[url]
	page := f.pages[url]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, errors.NewParseError(url, "no page scripted for url", nil)
	}
	return page, nil
}

func (f *fakeFetcher) setPage(url string, page *catalog.Page) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[url] = page
}

func (f *fakeFetcher) setError(url string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[url] = err
}

func (f *fakeFetcher) clearError(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.errs, url)
}

func (f *fakeFetcher) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func song(title, url string, size int, author, checksum string) catalog.Song {
	return catalog.Song{URL: url, Title: title, Size: size, Author: author, Checksum: checksum}
}

func entry(game string, s catalog.Song) catalog.PageEntry {
	return catalog.PageEntry{Game: game, Song: s}
}

// testSystems returns the bootstrap index used by most tests.
func testSystems() []catalog.SystemInfo {
	return []catalog.SystemInfo{
		{Name: "Nintendo 64", URL: "http://archive.test/n64.html", Section: "Nintendo"},
		{Name: "Game Boy", URL: "http://archive.test/gameboy.html", Section: "Nintendo"},
		{Name: "Genesis", URL: "http://archive.test/genesis.html", Section: "Sega"},
	}
}

// testFetcher returns a fetcher scripted with pages for every system in
// testSystems.
func testFetcher() *fakeFetcher {
	f := newFakeFetcher()
	f.setPage("http://archive.test/n64.html", &catalog.Page{
		Entries: []catalog.PageEntry{
			entry("Super Mario 64", song("Dire Dire Docks", "http://archive.test/ddd.mid", 25854, "M. Powell", "f30b51b2a0bf953c2031ab1fbd7a4dcf")),
			entry("The Legend of Zelda: Ocarina of Time", song("Gerudo Valley", "http://archive.test/gerudo.mid", 23813, "T. Hewitt", "b60fc73c0efbb73e8185a46ed9e02055")),
			entry("The Legend of Zelda: Ocarina of Time", song("Lost Woods", "http://archive.test/woods.mid", 4801, "", "63f29467973b3b8ba07e586ba24d1a71")),
		},
		Section: "Nintendo",
	})
	f.setPage("http://archive.test/gameboy.html", &catalog.Page{
		Entries: []catalog.PageEntry{
			entry("Pokemon Red/Blue", song("Pallet Town", "http://archive.test/pallet.mid", 6029, "J. Ruiz", "3410d1c7dcbb7ee24d4e17521f4b0f81")),
		},
		Section: "Nintendo",
	})
	f.setPage("http://archive.test/genesis.html", &catalog.Page{
		Entries: []catalog.PageEntry{
			entry("Sonic the Hedgehog", song("Green Hill Zone", "http://archive.test/ghz.mid", 12480, "A. Khan", "0f1ad8e4ec98e0b2a73c3416c0eb9e9f")),
			entry("Streets of Rage 2", song("Go Straight", "http://archive.test/gostraight.mid", 31774, "", "8d21c2a8e11ba11f2ee1f0c81ed7dbd3")),
		},
		Section: "Sega",
	})
	return f
}

func newTestCatalog(t *testing.T, f *fakeFetcher) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(
		catalog.WithSystems(testSystems()...),
		catalog.WithFetcher(f),
	)
	require.NoError(t, err)
	return c
}

func TestCatalogNew(t *testing.T) {
	t.Run("systems_start_unpopulated", func(t *testing.T) {
		f := testFetcher()
		c := newTestCatalog(t, f)

		assert.Equal(t, 3, c.Len())
		assert.Equal(t, int64(0), f.total.Load(), "construction must not fetch")
	})

	t.Run("names_sorted_without_fetch", func(t *testing.T) {
		f := testFetcher()
		c := newTestCatalog(t, f)

		assert.Equal(t, []string{"Game Boy", "Genesis", "Nintendo 64"}, c.Names())
		assert.Equal(t, int64(0), f.total.Load())
	})

	t.Run("snapshot_systems_win_over_index_entries", func(t *testing.T) {
		f := testFetcher()
		snap := catalog.Snapshot{
			"Nintendo 64": {
				URL:     "http://archive.test/n64.html",
				Section: "Nintendo",
				Games: map[string][]catalog.Song{
					"Super Mario 64": {song("Bob-omb Battlefield", "http://archive.test/bobomb.mid", 28700, "M. Powell", "0af7e0a1cf1b71a279de0b2b2c4de687")},
				},
			},
		}
		c, err := catalog.New(
			catalog.WithSystems(testSystems()...),
			catalog.WithSnapshot(snap),
			catalog.WithFetcher(f),
		)
		require.NoError(t, err)
		assert.Equal(t, 3, c.Len())

		ctx := context.Background()
		system, err := c.System(ctx, "Nintendo 64")
		require.NoError(t, err)

		games, err := system.Games(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Super Mario 64"}, games, "restored data must shadow the index entry")
		assert.Equal(t, 0, f.count("http://archive.test/n64.html"))
	})

	t.Run("malformed_snapshot_rejected", func(t *testing.T) {
		snap := catalog.Snapshot{
			"Broken": {Section: "Nintendo"},
		}
		_, err := catalog.New(catalog.WithSnapshot(snap))
		require.Error(t, err)
		var formatErr *errors.FormatError
		assert.ErrorAs(t, err, &formatErr)
	})
}

func TestCatalogSystem(t *testing.T) {
	t.Run("point_query_populates_one_system", func(t *testing.T) {
		f := testFetcher()
		c := newTestCatalog(t, f)
		ctx := context.Background()

		system, err := c.System(ctx, "Nintendo 64")
		require.NoError(t, err)
		assert.True(t, system.Populated())
		assert.Equal(t, 1, f.count("http://archive.test/n64.html"))
		assert.Equal(t, 0, f.count("http://archive.test/gameboy.html"))
		assert.Equal(t, 0, f.count("http://archive.test/genesis.html"))
	})

	t.Run("repeat_queries_fetch_once", func(t *testing.T) {
		f := testFetcher()
		c := newTestCatalog(t, f)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			_, err := c.System(ctx, "Genesis")
			require.NoError(t, err)
		}
		assert.Equal(t, 1, f.count("http://archive.test/genesis.html"))
	})

	t.Run("unknown_system_not_found", func(t *testing.T) {
		f := testFetcher()
		c := newTestCatalog(t, f)

		_, err := c.System(context.Background(), "Neo Geo")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
		assert.Equal(t, int64(0), f.total.Load())
	})

	t.Run("peek_never_populates", func(t *testing.T) {
		f := testFetcher()
		c := newTestCatalog(t, f)

		system, ok := c.Peek("Game Boy")
		require.True(t, ok)
		assert.False(t, system.Populated())
		assert.Equal(t, int64(0), f.total.Load())

		_, ok = c.Peek("Neo Geo")
		assert.False(t, ok)
	})

	t.Run("fetch_failure_propagates_and_leaves_unpopulated", func(t *testing.T) {
		f := testFetcher()
		f.setError("http://archive.test/n64.html", errors.NewTransportError("http://archive.test/n64.html", 503, "service unavailable"))
		c := newTestCatalog(t, f)
		ctx := context.Background()

		_, err := c.System(ctx, "Nintendo 64")
		require.Error(t, err)
		var transportErr *errors.TransportError
		assert.ErrorAs(t, err, &transportErr)
		assert.True(t, errors.IsArchiveUnavailable(err))

		// The failure is not cached: the next query retries the fetch.
		f.clearError("http://archive.test/n64.html")
		system, err := c.System(ctx, "Nintendo 64")
		require.NoError(t, err)
		assert.True(t, system.Populated())
		assert.Equal(t, 2, f.count("http://archive.test/n64.html"))
	})
}

func TestCatalogAggregates(t *testing.T) {
	t.Run("total_songs_forces_full_population", func(t *testing.T) {
		f := testFetcher()
		c := newTestCatalog(t, f)

		total, err := c.TotalSongs(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 6, total)
		assert.Equal(t, int64(3), f.total.Load())
	})

	t.Run("force_all_skips_populated_systems", func(t *testing.T) {
		f := testFetcher()
		c := newTestCatalog(t, f)
		ctx := context.Background()

		_, err := c.System(ctx, "Game Boy")
		require.NoError(t, err)
		require.NoError(t, c.ForceAll(ctx))
		require.NoError(t, c.ForceAll(ctx))

		assert.Equal(t, int64(3), f.total.Load(), "each page is fetched exactly once")
	})

	t.Run("populated_snapshot_skips_lazy_systems", func(t *testing.T) {
		f := testFetcher()
		c := newTestCatalog(t, f)
		ctx := context.Background()

		_, err := c.System(ctx, "Game Boy")
		require.NoError(t, err)

		snap, err := c.PopulatedSnapshot(ctx)
		require.NoError(t, err)
		require.Len(t, snap, 1)
		assert.Contains(t, snap, "Game Boy")
		assert.Equal(t, int64(1), f.total.Load(), "serializing must not populate lazy systems")
	})

	t.Run("force_all_returns_first_error_but_populates_the_rest", func(t *testing.T) {
		f := testFetcher()
		f.setError("http://archive.test/gameboy.html", errors.NewTransportError("http://archive.test/gameboy.html", 500, "internal error"))
		c := newTestCatalog(t, f)
		ctx := context.Background()

		err := c.ForceAll(ctx)
		require.Error(t, err)

		// Siblings keep their results despite the failure.
		n64, err := c.System(ctx, "Nintendo 64")
		require.NoError(t, err)
		assert.True(t, n64.Populated())
		assert.Equal(t, 1, f.count("http://archive.test/n64.html"))
		assert.Equal(t, 1, f.count("http://archive.test/genesis.html"))

		// The failed system retries once the archive recovers.
		f.clearError("http://archive.test/gameboy.html")
		require.NoError(t, c.ForceAll(ctx))
		total, err := c.TotalSongs(ctx)
		require.NoError(t, err)
		assert.Equal(t, 6, total)
	})
}

func TestCatalogClose(t *testing.T) {
	t.Run("close_is_idempotent", func(t *testing.T) {
		f := testFetcher()
		transport := &countingCloser{}
		c, err := catalog.New(
			catalog.WithSystems(testSystems()...),
			catalog.WithFetcher(f),
			catalog.WithTransport(transport),
		)
		require.NoError(t, err)

		require.NoError(t, c.Close())
		require.NoError(t, c.Close())
		assert.Equal(t, int64(1), transport.closes.Load())
	})

	t.Run("fetching_after_close_fails", func(t *testing.T) {
		f := testFetcher()
		c := newTestCatalog(t, f)
		require.NoError(t, c.Close())

		_, err := c.System(context.Background(), "Nintendo 64")
		require.Error(t, err)
		assert.True(t, errors.IsClosed(err))
		assert.Equal(t, int64(0), f.total.Load())

		err = c.ForceAll(context.Background())
		assert.True(t, errors.IsClosed(err))
	})

	t.Run("close_without_transport", func(t *testing.T) {
		c, err := catalog.New(catalog.WithSystems(testSystems()...))
		require.NoError(t, err)
		assert.NoError(t, c.Close())
	})
}

// countingCloser records how many times Close was called.
type countingCloser struct {
	closes atomic.Int64
}

func (c *countingCloser) Close() error {
	c.closes.Add(1)
	return nil
}
