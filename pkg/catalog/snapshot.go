package catalog

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"

	"github.com/agentstation/utc"

	"github.com/midivault/midivault/pkg/errors"
)

// Snapshot is the serialized form of a whole catalog: system name to
// serialized system. It round-trips through JSON (and YAML) exactly, and
// encoding is deterministic because map keys are emitted sorted.
type Snapshot map[string]*SystemSnapshot

// SystemSnapshot is the serialized form of one populated system.
type SystemSnapshot struct {
	URL            string            `json:"url" yaml:"url"`
	Section        string            `json:"section" yaml:"section"`
	Games          map[string][]Song `json:"games" yaml:"games"`
	LastUpdated    *utc.Time         `json:"last_updated,omitempty" yaml:"last_updated,omitempty"`
	Revision       string            `json:"revision,omitempty" yaml:"revision,omitempty"`
	IndexerVersion string            `json:"indexer_version,omitempty" yaml:"indexer_version,omitempty"`
}

// TotalSongs returns the number of songs across every game in the
// snapshot.
func (s *SystemSnapshot) TotalSongs() int {
	total := 0
	for _, songs := range s.Games {
		total += len(songs)
	}
	return total
}

// Names returns the snapshot's system names, sorted.
func (snap Snapshot) Names() []string {
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every system entry carries the fields required to
// reconstruct it without a fetch. It returns a FormatError naming the
// first offending field, walking systems in sorted order so the error is
// deterministic.
func (snap Snapshot) Validate() error {
	for _, name := range snap.Names() {
		system := snap[name]
		if system == nil {
			return errors.NewFormatError(name, "missing system entry", nil)
		}
		if err := system.validate(name); err != nil {
			return err
		}
	}
	return nil
}

func (s *SystemSnapshot) validate(name string) error {
	if s.URL == "" {
		return errors.NewFormatError(name+".url", "missing required field", nil)
	}
	games := make([]string, 0, len(s.Games))
	for game := range s.Games {
		games = append(games, game)
	}
	sort.Strings(games)
	for _, game := range games {
		for i, song := range s.Games[game] {
			field := fmt.Sprintf("%s.games[%s][%d]", name, game, i)
			if song.URL == "" {
				return errors.NewFormatError(field+".url", "missing required field", nil)
			}
			if song.Title == "" {
				return errors.NewFormatError(field+".title", "missing required field", nil)
			}
			if song.Size < 0 {
				return errors.NewFormatError(field+".size", "size must not be negative", nil)
			}
		}
	}
	return nil
}

// Encode renders the snapshot as indented JSON. Output is deterministic:
// system names, game titles, and song fields are always emitted in the
// same order for the same snapshot.
func (snap Snapshot) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, errors.WrapFormat("snapshot", err)
	}
	return data, nil
}

// DecodeSnapshot parses a JSON snapshot and validates it. Malformed
// input, whether structurally (not JSON, wrong types) or semantically
// (missing required fields), returns a FormatError.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		var typeErr *json.UnmarshalTypeError
		if stderrors.As(err, &typeErr) {
			return nil, errors.NewFormatError(typeErr.Field, fmt.Sprintf("expected %s", typeErr.Type), err)
		}
		return nil, errors.WrapFormat("snapshot", err)
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}
