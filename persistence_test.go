package midivault

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midivault/midivault/pkg/errors"
)

func TestSnapshotFiles(t *testing.T) {
	t.Run("json_round_trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.json")
		want := sampleSnapshot()

		require.NoError(t, WriteSnapshotFile(path, want))
		got, err := ReadSnapshotFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("yaml_round_trip", func(t *testing.T) {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(t.TempDir(), "catalog"+ext)
			want := sampleSnapshot()

			require.NoError(t, WriteSnapshotFile(path, want))
			got, err := ReadSnapshotFile(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("creates_parent_directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state", "midivault", "catalog.json")
		require.NoError(t, WriteSnapshotFile(path, sampleSnapshot()))
		assert.FileExists(t, path)
	})

	t.Run("unsupported_extension_rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.toml")

		err := WriteSnapshotFile(path, sampleSnapshot())
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))

		_, err = ReadSnapshotFile(path)
		assert.Error(t, err)
	})

	t.Run("missing_file_wraps_io_error", func(t *testing.T) {
		_, err := ReadSnapshotFile(filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
		var ioErr *errors.IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "read", ioErr.Operation)
	})

	t.Run("yaml_decode_validates_fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		broken := "Broken:\n  section: Consoles\n  games: {}\n"
		require.NoError(t, os.WriteFile(path, []byte(broken), 0o644))

		_, err := ReadSnapshotFile(path)
		require.Error(t, err)
		var formatErr *errors.FormatError
		require.ErrorAs(t, err, &formatErr)
		assert.Equal(t, "Broken.url", formatErr.Field)
	})
}

func TestSave(t *testing.T) {
	ctx := context.Background()

	t.Run("save_writes_configured_cache", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.json")
		mv, err := New(
			WithCache(path),
			WithFetcher(newFakeFetcher()),
			WithSnapshot(sampleSnapshot()),
		)
		require.NoError(t, err)
		defer mv.Close()

		require.NoError(t, mv.Save(ctx))

		got, err := ReadSnapshotFile(path)
		require.NoError(t, err)
		assert.Equal(t, sampleSnapshot(), got)
	})

	t.Run("save_without_cache_path_fails", func(t *testing.T) {
		mv, err := New(WithFetcher(newFakeFetcher()))
		require.NoError(t, err)
		defer mv.Close()

		err = mv.Save(ctx)
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("save_as_picks_format_by_extension", func(t *testing.T) {
		mv, err := New(WithFetcher(newFakeFetcher()), WithSnapshot(sampleSnapshot()))
		require.NoError(t, err)
		defer mv.Close()

		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, mv.SaveAs(ctx, path))

		got, err := ReadSnapshotFile(path)
		require.NoError(t, err)
		assert.Equal(t, sampleSnapshot(), got)
	})
}
