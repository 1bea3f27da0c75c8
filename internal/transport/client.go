// Package transport provides the shared HTTP client used for all archive
// traffic. Every fetch and download in the repo goes through one Client so
// connection pooling, timeouts, retries and the User-Agent are consistent.
package transport

import (
	"context"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/midivault/midivault/pkg/constants"
	"github.com/midivault/midivault/pkg/errors"
)

// UserAgent identifies midivault to the archive.
const UserAgent = "midivault/1.0 (+https://github.com/midivault/midivault)"

// Options configures the HTTP client.
type Options struct {
	// Timeout for individual requests.
	// Default: 30s
	Timeout time.Duration

	// RetryAttempts is the maximum number of retry attempts for
	// network errors and 5xx responses.
	// Default: 3
	RetryAttempts int

	// RetryBackoff is the initial backoff duration.
	// Default: 1s
	RetryBackoff time.Duration

	// RetryMaxBackoff is the maximum backoff duration.
	// Default: 30s
	RetryMaxBackoff time.Duration

	// MaxIdleConnsPerHost sets the maximum idle connections per host.
	// Default: 10
	MaxIdleConnsPerHost int

	// UserAgent overrides the default User-Agent header.
	UserAgent string
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Timeout:             constants.DefaultHTTPTimeout,
		RetryAttempts:       constants.MaxRetries,
		RetryBackoff:        constants.RetryBackoff,
		RetryMaxBackoff:     constants.MaxRetryBackoff,
		MaxIdleConnsPerHost: constants.MaxConnectionsPerHost,
		UserAgent:           UserAgent,
	}
}

// Client provides HTTP client functionality for the archive.
type Client struct {
	http *http.Client
	opts Options
}

// New creates a new transport client with the given options.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultHTTPTimeout
	}
	if opts.RetryAttempts < 0 {
		opts.RetryAttempts = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = constants.RetryBackoff
	}
	if opts.RetryMaxBackoff <= 0 {
		opts.RetryMaxBackoff = constants.MaxRetryBackoff
	}
	if opts.MaxIdleConnsPerHost <= 0 {
		opts.MaxIdleConnsPerHost = constants.MaxConnectionsPerHost
	}
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}

	transport := &http.Transport{
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		MaxIdleConns:        constants.MaxIdleConnections,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		opts: opts,
	}
}

// NewDefault creates a transport client with default options.
func NewDefault() *Client {
	return New(DefaultOptions())
}

// Get performs a GET request against the archive. Network errors and 5xx
// responses are retried with jittered exponential backoff; the final failure
// is returned as a TransportError. On success the response body is open and
// the caller owns closing it.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.opts.RetryAttempts; attempt++ {
		if attempt > 0 {
			if err := c.backoff(ctx, attempt); err != nil {
				return nil, errors.WrapTransport(url, 0, err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, errors.WrapResource("create", "request", "GET "+url, err)
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.WrapTransport(url, 0, ctx.Err())
			}
			lastErr = err
			continue
		}

		// Server errors are retryable
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = errors.NewTransportError(url, resp.StatusCode, resp.Status)
			continue
		}

		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, errors.NewTransportError(url, resp.StatusCode, http.StatusText(resp.StatusCode))
		}

		return resp, nil
	}

	if terr, ok := lastErr.(*errors.TransportError); ok {
		return nil, terr
	}
	return nil, errors.WrapTransport(url, 0, lastErr)
}

// Close releases idle connections held by the client. It always returns
// nil; the error return satisfies io.Closer so callers can hand the
// client to anything that releases transports on shutdown.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// backoff waits for an exponentially increasing duration with jitter.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	backoff := c.opts.RetryBackoff * time.Duration(1<<uint(attempt-1))
	if backoff > c.opts.RetryMaxBackoff {
		backoff = c.opts.RetryMaxBackoff
	}

	// Jitter: 0.5 to 1.5 of backoff
	jitter := time.Duration(float64(backoff) * (0.5 + rand.Float64()))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(jitter):
		return nil
	}
}

// CleanETag removes quotes and the weak-validator prefix from an ETag value.
func CleanETag(etag string) string {
	etag = strings.TrimPrefix(etag, "W/")
	return strings.Trim(etag, `"`)
}
