package midivault

import (
	"time"

	"github.com/midivault/midivault/internal/transport"
	"github.com/midivault/midivault/pkg/catalog"
	"github.com/midivault/midivault/pkg/constants"
	"github.com/midivault/midivault/pkg/errors"
)

// options holds the resolved client configuration.
type options struct {
	cachePath string
	baseURL   string
	snapshot  catalog.Snapshot
	fetcher   catalog.Fetcher
	transport *transport.Client

	autoUpdatesEnabled bool
	autoUpdateInterval time.Duration
}

// defaults returns the configuration used when no Option overrides it.
func defaults() *options {
	return &options{
		autoUpdateInterval: constants.DefaultUpdateInterval,
	}
}

// apply runs each option against o, stopping at the first error.
func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Option is a function that configures a Client instance.
type Option func(*options) error

// WithCache sets the snapshot cache file. The file is loaded at New when it
// exists and is the target of Save. The extension picks the format: .json,
// .yaml or .yml.
func WithCache(path string) Option {
	return func(o *options) error {
		o.cachePath = path
		return nil
	}
}

// WithBaseURL overrides the archive base URL, mainly for tests against a
// local server.
func WithBaseURL(url string) Option {
	return func(o *options) error {
		o.baseURL = url
		return nil
	}
}

// WithSnapshot seeds the catalog from an already decoded snapshot instead
// of a cache file.
func WithSnapshot(snapshot catalog.Snapshot) Option {
	return func(o *options) error {
		o.snapshot = snapshot
		return nil
	}
}

// WithFetcher replaces the archive fetcher. The client then performs no
// HTTP traffic of its own unless a transport is also provided.
func WithFetcher(fetcher catalog.Fetcher) Option {
	return func(o *options) error {
		o.fetcher = fetcher
		return nil
	}
}

// WithTransport sets the HTTP client used for archive traffic. The client
// takes ownership and closes it on Close.
func WithTransport(t *transport.Client) Option {
	return func(o *options) error {
		o.transport = t
		return nil
	}
}

// WithAutoUpdates configures whether background index updates start
// immediately. They run Update on a ticker until Close or AutoUpdatesOff.
func WithAutoUpdates(enabled bool) Option {
	return func(o *options) error {
		o.autoUpdatesEnabled = enabled
		return nil
	}
}

// WithAutoUpdateInterval configures how often background index updates run.
func WithAutoUpdateInterval(interval time.Duration) Option {
	return func(o *options) error {
		if interval <= 0 {
			return errors.NewValidationError("auto_update_interval", interval, "update interval must be positive")
		}
		o.autoUpdateInterval = interval
		return nil
	}
}
