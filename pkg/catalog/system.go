package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/agentstation/utc"

	"github.com/midivault/midivault/pkg/errors"
)

// System is one console's catalog of games and songs, backed by a single
// listing page on the archive. A System starts out empty and populates
// itself on first query by fetching and parsing its page exactly once.
// Population is guarded so that concurrent first access from multiple
// goroutines performs one fetch; a failed fetch leaves the System
// unpopulated and the next query retries.
type System struct {
	name string
	url  string

	fetcher PageFetcher

	mu             sync.Mutex
	populated      bool
	section        string
	games          map[string][]Song
	lastUpdated    *utc.Time
	revision       string
	indexerVersion string
}

// newSystem returns an unpopulated System for an index entry.
func newSystem(info SystemInfo, fetcher PageFetcher) *System {
	return &System{
		name:    info.Name,
		url:     info.URL,
		section: info.Section,
		fetcher: fetcher,
	}
}

// systemFromSnapshot reconstructs a populated System without any fetch.
// The snapshot is assumed valid; Snapshot.Validate gates malformed input.
func systemFromSnapshot(name string, snap *SystemSnapshot, fetcher PageFetcher) *System {
	games := make(map[string][]Song, len(snap.Games))
	for game, songs := range snap.Games {
		games[game] = append([]Song(nil), songs...)
	}
	return &System{
		name:           name,
		url:            snap.URL,
		section:        snap.Section,
		fetcher:        fetcher,
		populated:      true,
		games:          games,
		lastUpdated:    snap.LastUpdated,
		revision:       snap.Revision,
		indexerVersion: snap.IndexerVersion,
	}
}

// Name returns the system's display name.
func (s *System) Name() string {
	return s.name
}

// URL returns the system's listing page URL.
func (s *System) URL() string {
	return s.url
}

// Section returns the console family heading the system is listed under.
func (s *System) Section() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.section
}

// Populated reports whether the system's page has been fetched and parsed
// (or restored from a snapshot). It never triggers a fetch.
func (s *System) Populated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.populated
}

// LastUpdated returns the page's Last-Modified timestamp, if known.
func (s *System) LastUpdated() *utc.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpdated
}

// Revision returns the page's cleaned ETag, if known.
func (s *System) Revision() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// IndexerVersion returns the archive indexer version advertised on the
// page, if known.
func (s *System) IndexerVersion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexerVersion
}

// Games returns the sorted game titles in the system, populating first.
func (s *System) Games(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.populateLocked(ctx); err != nil {
		return nil, err
	}
	games := make([]string, 0, len(s.games))
	for game := range s.games {
		games = append(games, game)
	}
	sort.Strings(games)
	return games, nil
}

// Songs returns the songs listed under one game in parser order,
// populating first. Unknown games return a NotFoundError.
func (s *System) Songs(ctx context.Context, game string) ([]Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.populateLocked(ctx); err != nil {
		return nil, err
	}
	songs, ok := s.games[game]
	if !ok {
		return nil, errors.NewNotFoundError("game", game)
	}
	return append([]Song(nil), songs...), nil
}

// TotalSongs returns the number of songs across every game in the system,
// populating first.
func (s *System) TotalSongs(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.populateLocked(ctx); err != nil {
		return 0, err
	}
	total := 0
	for _, songs := range s.games {
		total += len(songs)
	}
	return total, nil
}

// Snapshot returns a serializable copy of the system's state. Serializing
// forces population so a snapshot never contains a partial entry.
func (s *System) Snapshot(ctx context.Context) (*SystemSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.populateLocked(ctx); err != nil {
		return nil, err
	}
	games := make(map[string][]Song, len(s.games))
	for game, songs := range s.games {
		games[game] = append([]Song(nil), songs...)
	}
	return &SystemSnapshot{
		URL:            s.url,
		Section:        s.section,
		Games:          games,
		LastUpdated:    s.lastUpdated,
		Revision:       s.revision,
		IndexerVersion: s.indexerVersion,
	}, nil
}

// populate fetches and parses the system's page if it has not been
// populated yet.
func (s *System) populate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.populateLocked(ctx)
}

// populateLocked performs the single guarded fetch. The caller must hold
// s.mu. The populated flag is only set after a successful parse, so a
// failed fetch leaves the system unpopulated and retryable.
func (s *System) populateLocked(ctx context.Context) error {
	if s.populated {
		return nil
	}
	if s.fetcher == nil {
		return errors.NewResourceError("populate", "system", s.name, errors.ErrNotPopulated)
	}
	page, err := s.fetcher.FetchPage(ctx, s.url)
	if err != nil {
		return errors.WrapResource("populate", "system", s.name, err)
	}

	games := make(map[string][]Song)
	for _, entry := range page.Entries {
		games[entry.Game] = append(games[entry.Game], entry.Song)
	}
	s.games = games
	if page.Section != "" {
		s.section = page.Section
	}
	if page.LastUpdated != nil {
		s.lastUpdated = page.LastUpdated
	}
	if page.Revision != "" {
		s.revision = page.Revision
	}
	if page.IndexerVersion != "" {
		s.indexerVersion = page.IndexerVersion
	}
	s.populated = true
	return nil
}
