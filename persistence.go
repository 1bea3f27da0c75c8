package midivault

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/midivault/midivault/pkg/catalog"
	"github.com/midivault/midivault/pkg/constants"
	"github.com/midivault/midivault/pkg/errors"
)

// Compile-time interface check to ensure proper implementation.
var _ Persistence = (*client)(nil)

// Persistence handles snapshot cache files.
type Persistence interface {
	// Save writes the catalog snapshot to the configured cache file.
	Save(ctx context.Context) error

	// SaveAs writes the catalog snapshot to path, picking JSON or YAML
	// by file extension.
	SaveAs(ctx context.Context, path string) error
}

// Save persists the catalog to the configured cache file. Serialization
// forces population of every system first, so a fresh catalog will fetch
// the whole archive here.
func (c *client) Save(ctx context.Context) error {
	if c.options.cachePath == "" {
		return errors.NewValidationError("cache", "", "no cache path configured")
	}
	return c.SaveAs(ctx, c.options.cachePath)
}

// SaveAs persists the catalog snapshot to path.
func (c *client) SaveAs(ctx context.Context, path string) error {
	snapshot, err := c.Catalog().Snapshot(ctx)
	if err != nil {
		return err
	}
	return WriteSnapshotFile(path, snapshot)
}

// ReadSnapshotFile loads and validates a snapshot from path, decoding JSON
// or YAML by file extension. Malformed content returns a FormatError naming
// the offending field.
func ReadSnapshotFile(path string) (catalog.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	switch snapshotFormat(path) {
	case formatJSON:
		return catalog.DecodeSnapshot(data)
	case formatYAML:
		var snapshot catalog.Snapshot
		if err := yaml.Unmarshal(data, &snapshot); err != nil {
			return nil, errors.WrapFormat("snapshot", err)
		}
		if err := snapshot.Validate(); err != nil {
			return nil, err
		}
		return snapshot, nil
	default:
		return nil, errors.NewValidationError("cache", path, "unsupported snapshot format, want .json, .yaml or .yml")
	}
}

// WriteSnapshotFile writes a snapshot to path, encoding JSON or YAML by
// file extension and creating parent directories as needed.
func WriteSnapshotFile(path string, snapshot catalog.Snapshot) error {
	var (
		data []byte
		err  error
	)
	switch snapshotFormat(path) {
	case formatJSON:
		data, err = snapshot.Encode()
	case formatYAML:
		if data, err = yaml.Marshal(snapshot); err != nil {
			err = errors.WrapFormat("snapshot", err)
		}
	default:
		return errors.NewValidationError("cache", path, "unsupported snapshot format, want .json, .yaml or .yml")
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("mkdir", dir, err)
		}
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

const (
	formatUnknown = iota
	formatJSON
	formatYAML
)

func snapshotFormat(path string) int {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatUnknown
	}
}
