// Package constants provides shared constants used throughout the midivault codebase.
// This includes timeouts, limits, file permissions, and other configuration values
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the archive
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// RefreshTimeout is the timeout for refreshing every system page in the catalog
	RefreshTimeout = 30 * time.Minute

	// DownloadTimeout is the timeout for downloading a single MIDI file
	DownloadTimeout = 2 * time.Minute

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// ShutdownTimeout is the grace period for draining the REST server on shutdown
	ShutdownTimeout = 10 * time.Second

	// RetryBackoff is the base backoff duration for retries
	RetryBackoff = 1 * time.Second

	// MaxRetryBackoff is the maximum backoff duration for retries
	MaxRetryBackoff = 30 * time.Second

	// DefaultUpdateInterval is how often automatic index updates run
	DefaultUpdateInterval = 24 * time.Hour

	// UpdateTimeout bounds a single automatic index update
	UpdateTimeout = 5 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries = 3

	// DefaultDownloadWorkers is the default number of concurrent download workers
	DefaultDownloadWorkers = 5

	// MaxDownloadWorkers is the ceiling on concurrent download workers
	MaxDownloadWorkers = 32

	// MaxConcurrentRefresh is the maximum number of system pages refreshed concurrently
	MaxConcurrentRefresh = 5

	// WriteBufferSize is the default buffer size for write operations
	WriteBufferSize = 4096
)

// Network constants
const (
	// DialTimeout is the timeout for establishing network connections
	DialTimeout = 10 * time.Second

	// KeepAliveInterval is the interval between keep-alive probes
	KeepAliveInterval = 30 * time.Second

	// MaxIdleConnections is the maximum number of idle connections in the pool
	MaxIdleConnections = 100

	// MaxConnectionsPerHost is the maximum number of connections per host
	MaxConnectionsPerHost = 10
)

// Archive constants describe the VGMusic archive itself
const (
	// ArchiveBaseURL is the root of the VGMusic archive. The front page
	// carries the full system index.
	ArchiveBaseURL = "https://www.vgmusic.com"

	// MIDIExtension is the file extension given to downloaded songs
	MIDIExtension = ".mid"
)

// Path constants
const (
	// DefaultVaultPath is the default directory for midivault state
	DefaultVaultPath = "~/.midivault"

	// DefaultSnapshotPath is the default path for the catalog snapshot
	DefaultSnapshotPath = "~/.midivault/catalog.json"

	// DefaultDownloadPath is the default directory for downloaded songs
	DefaultDownloadPath = "~/.midivault/songs"
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format
	TimeFormatISO8601 = time.RFC3339

	// TimeFormatArchive is the format used by the archive's "Last updated" lines
	TimeFormatArchive = "January 2, 2006"

	// TimeFormatFilename is the format used in generated filenames
	TimeFormatFilename = "20060102-150405"
)
