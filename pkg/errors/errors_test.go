package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/midivault/midivault/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "system",
			ID:       "Nintendo 64",
		}
		assert.Equal(t, `system "Nintendo 64" not found`, err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("game", "Chrono Trigger")
		assert.Equal(t, `game "Chrono Trigger" not found`, err.Error())
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("system", "test")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "title",
			Message: "invalid regular expression",
		}
		assert.Equal(t, "validation failed for field title: invalid regular expression", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Message: "no search criteria given",
		}
		assert.Equal(t, "validation failed: no search criteria given", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewValidationError("concurrency", 0, "must be positive")
		assert.Contains(t, err.Error(), "concurrency")
		assert.Contains(t, err.Error(), "must be positive")
	})
}

func TestTransportError(t *testing.T) {
	t.Run("with status code", func(t *testing.T) {
		err := &pkgerrors.TransportError{
			URL:        "https://www.vgmusic.com/music/console/nintendo/nes/",
			StatusCode: 503,
			Message:    "service unavailable",
		}
		assert.Contains(t, err.Error(), "vgmusic.com")
		assert.Contains(t, err.Error(), "503")
		assert.Contains(t, err.Error(), "service unavailable")
	})

	t.Run("with wrapped error", func(t *testing.T) {
		baseErr := errors.New("connection refused")
		err := &pkgerrors.TransportError{
			URL:     "https://www.vgmusic.com/music/",
			Message: "request failed",
			Err:     baseErr,
		}
		assert.Contains(t, err.Error(), "request failed")
		assert.NotContains(t, err.Error(), "status")
		assert.Equal(t, baseErr, err.Unwrap())
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewTransportError("https://www.vgmusic.com/file.mid", 500, "internal server error")
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("status 404 is not found", func(t *testing.T) {
		err := pkgerrors.NewTransportError("https://www.vgmusic.com/missing/", 404, "not found")
		assert.True(t, pkgerrors.IsNotFound(err))
		assert.False(t, pkgerrors.IsArchiveUnavailable(err))
	})

	t.Run("status 429 is rate limited", func(t *testing.T) {
		err := pkgerrors.NewTransportError("https://www.vgmusic.com/music/", 429, "too many requests")
		assert.True(t, pkgerrors.IsRateLimited(err))
	})

	t.Run("status 5xx is archive unavailable", func(t *testing.T) {
		err := pkgerrors.NewTransportError("https://www.vgmusic.com/music/", 502, "bad gateway")
		assert.True(t, pkgerrors.IsArchiveUnavailable(err))
		assert.False(t, pkgerrors.IsNotFound(err))
	})
}

func TestConfigError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.ConfigError{
			Component: "cache",
			Message:   "path: invalid format",
		}
		assert.Contains(t, err.Error(), "cache")
		assert.Contains(t, err.Error(), "path")
		assert.Contains(t, err.Error(), "invalid format")
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewConfigError("server", "address cannot be empty", nil)
		assert.Contains(t, err.Error(), "server")
		assert.Contains(t, err.Error(), "cannot be empty")
	})
}

func TestIOError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.IOError{
			Operation: "read",
			Path:      "/tmp/catalog.json",
			Message:   "permission denied",
			Err:       errors.New("permission denied"),
		}
		assert.Contains(t, err.Error(), "read")
		assert.Contains(t, err.Error(), "/tmp/catalog.json")
		assert.Contains(t, err.Error(), "permission denied")
	})

	t.Run("unwrap", func(t *testing.T) {
		baseErr := errors.New("disk full")
		err := pkgerrors.NewIOError("write", "/data/songs/tune.mid", baseErr)
		assert.Equal(t, baseErr, err.Unwrap())
	})

	t.Run("wrap helper", func(t *testing.T) {
		baseErr := errors.New("network error")
		err := pkgerrors.WrapIO("download", "/data/songs", baseErr)
		ioErr, ok := err.(*pkgerrors.IOError)
		require.True(t, ok)
		assert.Equal(t, "download", ioErr.Operation)
		assert.Equal(t, "/data/songs", ioErr.Path)
	})
}

func TestResourceError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.ResourceError{
			Operation: "populate",
			Resource:  "system",
			ID:        "Game Boy",
			Message:   "archive unavailable",
			Err:       pkgerrors.ErrArchiveUnavailable,
		}
		assert.Contains(t, err.Error(), "populate")
		assert.Contains(t, err.Error(), "system")
		assert.Contains(t, err.Error(), "Game Boy")
		assert.True(t, errors.Is(err, pkgerrors.ErrArchiveUnavailable))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewResourceError("refresh", "catalog", "", errors.New("offline"))
		assert.Contains(t, err.Error(), "refresh")
		assert.Contains(t, err.Error(), "catalog")
	})

	t.Run("wrap helper", func(t *testing.T) {
		err := pkgerrors.WrapResource("restore", "snapshot", "/tmp/cache.json", errors.New("truncated"))
		resErr, ok := err.(*pkgerrors.ResourceError)
		require.True(t, ok)
		assert.Equal(t, "restore", resErr.Operation)
		assert.Equal(t, "snapshot", resErr.Resource)
	})
}

func TestParseError(t *testing.T) {
	t.Run("with url", func(t *testing.T) {
		err := &pkgerrors.ParseError{
			URL:     "https://www.vgmusic.com/music/console/nintendo/nes/",
			Message: "page has no song tables",
		}
		assert.Contains(t, err.Error(), "vgmusic.com")
		assert.Contains(t, err.Error(), "no song tables")
	})

	t.Run("without url", func(t *testing.T) {
		err := &pkgerrors.ParseError{
			Message: "malformed document",
		}
		assert.Equal(t, "parse error: malformed document", err.Error())
	})

	t.Run("constructor and wrap", func(t *testing.T) {
		baseErr := errors.New("unexpected EOF")
		err := pkgerrors.NewParseError("https://www.vgmusic.com/music/", "truncated page", baseErr)
		assert.Contains(t, err.Error(), "truncated page")
		assert.Equal(t, baseErr, err.Unwrap())

		wrapped := pkgerrors.WrapParse("https://www.vgmusic.com/music/", baseErr)
		parseErr, ok := wrapped.(*pkgerrors.ParseError)
		require.True(t, ok)
		assert.Equal(t, "https://www.vgmusic.com/music/", parseErr.URL)
	})
}

func TestFormatError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.FormatError{
			Field:   "size",
			Message: "expected integer",
		}
		assert.Equal(t, "malformed snapshot field size: expected integer", err.Error())
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.FormatError{
			Message: "not a JSON object",
		}
		assert.Equal(t, "malformed snapshot: not a JSON object", err.Error())
	})

	t.Run("constructor and wrap", func(t *testing.T) {
		baseErr := errors.New("invalid character")
		err := pkgerrors.NewFormatError("games", "bad value", baseErr)
		assert.Equal(t, baseErr, err.Unwrap())

		wrapped := pkgerrors.WrapFormat("url", baseErr)
		fmtErr, ok := wrapped.(*pkgerrors.FormatError)
		require.True(t, ok)
		assert.Equal(t, "url", fmtErr.Field)
	})
}

func TestVerificationError(t *testing.T) {
	t.Run("size mismatch", func(t *testing.T) {
		err := &pkgerrors.VerificationError{
			Title:    "Overworld Theme",
			WantSize: 24576,
			GotSize:  1031,
		}
		assert.Contains(t, err.Error(), "Overworld Theme")
		assert.Contains(t, err.Error(), "1031")
		assert.Contains(t, err.Error(), "24576")
		assert.True(t, errors.Is(err, pkgerrors.ErrVerificationFailed))
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		err := pkgerrors.NewVerificationError("Battle Theme", 100, 100, "abc123", "def456")
		assert.Contains(t, err.Error(), "checksum")
		assert.Contains(t, err.Error(), "abc123")
		assert.Contains(t, err.Error(), "def456")
		assert.True(t, pkgerrors.IsVerificationFailed(err))
	})
}

func TestHelperFunctions(t *testing.T) {
	t.Run("IsNotFound", func(t *testing.T) {
		err1 := pkgerrors.NewNotFoundError("system", "test")
		err2 := errors.New("not found")
		err3 := pkgerrors.ErrNotFound

		assert.True(t, pkgerrors.IsNotFound(err1))
		assert.False(t, pkgerrors.IsNotFound(err2))
		assert.True(t, pkgerrors.IsNotFound(err3))
	})

	t.Run("IsNotPopulated", func(t *testing.T) {
		err := pkgerrors.WrapResource("query", "system", "NES", pkgerrors.ErrNotPopulated)
		assert.True(t, pkgerrors.IsNotPopulated(err))
	})

	t.Run("IsClosed", func(t *testing.T) {
		err := pkgerrors.ErrClosed
		assert.True(t, pkgerrors.IsClosed(err))
		assert.False(t, pkgerrors.IsClosed(pkgerrors.ErrNotFound))
	})

	t.Run("IsRateLimited", func(t *testing.T) {
		err := pkgerrors.ErrRateLimited
		assert.True(t, pkgerrors.IsRateLimited(err))
	})

	t.Run("IsArchiveUnavailable", func(t *testing.T) {
		err := pkgerrors.ErrArchiveUnavailable
		assert.True(t, pkgerrors.IsArchiveUnavailable(err))
	})
}

func TestWrapHelpers(t *testing.T) {
	t.Run("WrapValidation", func(t *testing.T) {
		err := pkgerrors.WrapValidation("pattern", errors.New("missing closing bracket"))
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "pattern")
		assert.Contains(t, err.Error(), "missing closing bracket")

		// nil error returns nil
		assert.Nil(t, pkgerrors.WrapValidation("field", nil))
	})

	t.Run("WrapIO", func(t *testing.T) {
		err := pkgerrors.WrapIO("write", "/tmp/file", errors.New("disk full"))
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "write")
		assert.Contains(t, err.Error(), "/tmp/file")

		assert.Nil(t, pkgerrors.WrapIO("read", "file", nil))
	})

	t.Run("WrapResource", func(t *testing.T) {
		err := pkgerrors.WrapResource("populate", "system", "SNES", errors.New("fetch failed"))
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "populate")
		assert.Contains(t, err.Error(), "SNES")

		assert.Nil(t, pkgerrors.WrapResource("populate", "system", "test", nil))
	})

	t.Run("WrapParse", func(t *testing.T) {
		err := pkgerrors.WrapParse("https://www.vgmusic.com/music/", errors.New("invalid HTML"))
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "invalid HTML")

		assert.Nil(t, pkgerrors.WrapParse("https://example.com", nil))
	})

	t.Run("WrapFormat", func(t *testing.T) {
		err := pkgerrors.WrapFormat("size", errors.New("not a number"))
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "size")

		assert.Nil(t, pkgerrors.WrapFormat("size", nil))
	})

	t.Run("WrapTransport", func(t *testing.T) {
		err := pkgerrors.WrapTransport("https://www.vgmusic.com/music/", 429, errors.New("too many requests"))
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "429")
		assert.True(t, pkgerrors.IsRateLimited(err))

		assert.Nil(t, pkgerrors.WrapTransport("https://example.com", 200, nil))
	})
}

func TestErrorChaining(t *testing.T) {
	t.Run("multiple wrapping", func(t *testing.T) {
		baseErr := errors.New("connection refused")
		ioErr := pkgerrors.WrapIO("connect", "www.vgmusic.com", baseErr)
		transportErr := &pkgerrors.TransportError{
			URL:     "https://www.vgmusic.com/music/",
			Message: "failed to connect",
			Err:     ioErr,
		}
		resErr := &pkgerrors.ResourceError{
			Operation: "populate",
			Resource:  "system",
			ID:        "NES",
			Err:       transportErr,
		}

		// Check unwrapping chain
		assert.Equal(t, transportErr, resErr.Unwrap())
		assert.Equal(t, ioErr, transportErr.Unwrap())

		// errors.As should work through the chain
		var targetIOErr *pkgerrors.IOError
		assert.True(t, errors.As(resErr, &targetIOErr))
		assert.Equal(t, "connect", targetIOErr.Operation)
	})
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", pkgerrors.ErrNotFound},
		{"ErrInvalidInput", pkgerrors.ErrInvalidInput},
		{"ErrNotPopulated", pkgerrors.ErrNotPopulated},
		{"ErrClosed", pkgerrors.ErrClosed},
		{"ErrRateLimited", pkgerrors.ErrRateLimited},
		{"ErrArchiveUnavailable", pkgerrors.ErrArchiveUnavailable},
		{"ErrVerificationFailed", pkgerrors.ErrVerificationFailed},
	}

	for _, tc := range sentinels {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotNil(t, tc.err)
			assert.NotEmpty(t, tc.err.Error())
		})
	}
}
