// Package vgmusic talks to the VGMusic archive: it fetches the front-page
// system index and the per-system listing pages, and parses both into the
// catalog's data model. It implements catalog.IndexFetcher and
// catalog.PageFetcher over a shared transport.
package vgmusic

import (
	"context"
	"net/http"
	"net/url"

	"github.com/agentstation/utc"

	"github.com/midivault/midivault/internal/transport"
	"github.com/midivault/midivault/pkg/catalog"
	"github.com/midivault/midivault/pkg/constants"
	"github.com/midivault/midivault/pkg/errors"
	"github.com/midivault/midivault/pkg/logging"
)

// Compile-time interface checks to ensure proper implementation.
var (
	_ catalog.IndexFetcher = (*Client)(nil)
	_ catalog.PageFetcher  = (*Client)(nil)
	_ catalog.Fetcher      = (*Client)(nil)
)

// Client fetches and parses archive pages.
type Client struct {
	transport *transport.Client
	base      string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different archive root, typically a
// test server.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.base = base
	}
}

// New creates an archive client on top of the shared transport.
func New(t *transport.Client, opts ...Option) *Client {
	c := &Client{
		transport: t,
		base:      constants.ArchiveBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the archive root the client fetches the index from.
func (c *Client) BaseURL() string {
	return c.base
}

// FetchIndex retrieves the archive's front page and parses the system
// menus into index entries. The first menu is the site's own navigation
// and carries no systems; a page with no system menus at all is a
// ParseError.
func (c *Client) FetchIndex(ctx context.Context) ([]catalog.SystemInfo, error) {
	base, err := url.Parse(c.base)
	if err != nil {
		return nil, errors.NewValidationError("base_url", c.base, "invalid archive base URL")
	}

	resp, err := c.transport.Get(ctx, c.base)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	infos, err := parseIndex(resp.Body, base)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Debug().
		Int("systems", len(infos)).
		Str("url", c.base).
		Msg("parsed archive index")
	return infos, nil
}

// FetchPage retrieves one system listing page and parses it. The response
// ETag becomes the page revision and Last-Modified its update timestamp.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (*catalog.Page, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, errors.NewValidationError("url", pageURL, "invalid system page URL")
	}

	resp, err := c.transport.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	page, err := parsePage(resp.Body, u)
	if err != nil {
		return nil, err
	}

	page.Revision = transport.CleanETag(resp.Header.Get("ETag"))
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			updated := utc.New(t)
			page.LastUpdated = &updated
		}
	}

	logging.Ctx(ctx).Debug().
		Int("songs", len(page.Entries)).
		Str("url", pageURL).
		Str("revision", page.Revision).
		Msg("parsed system page")
	return page, nil
}
