package catalog

import (
	"context"

	"github.com/agentstation/utc"
)

// SystemInfo identifies one system discovered on the archive's index page.
type SystemInfo struct {
	Name    string `json:"name" yaml:"name"`       // Display name, e.g. "Nintendo 64"
	URL     string `json:"url" yaml:"url"`         // Absolute URL of the system's listing page
	Section string `json:"section" yaml:"section"` // Console family heading, e.g. "Nintendo"
}

// PageEntry is one row produced by the system page parser: a song together
// with the game heading it was listed under.
type PageEntry struct {
	Game string
	Song Song
}

// Page is the parsed form of one system listing page.
type Page struct {
	Entries        []PageEntry // Songs in document order, grouped under game headings
	Section        string      // Console family heading, when the page carries one
	LastUpdated    *utc.Time   // Last-Modified response header, when present
	Revision       string      // Cleaned ETag of the page
	IndexerVersion string      // Version of the archive's indexing script, when advertised
}

// IndexFetcher enumerates the systems listed on the archive's index page.
type IndexFetcher interface {
	FetchIndex(ctx context.Context) ([]SystemInfo, error)
}

// PageFetcher retrieves and parses a single system listing page.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (*Page, error)
}

// Fetcher combines index and page fetching, the full surface the archive
// client implements.
type Fetcher interface {
	IndexFetcher
	PageFetcher
}
