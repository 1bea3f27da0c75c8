package catalog

import (
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/midivault/midivault/pkg/constants"
)

// Song represents a single MIDI file in the archive.
type Song struct {
	URL      string `json:"url" yaml:"url"`           // Absolute download URL
	Title    string `json:"title" yaml:"title"`       // Display title as listed on the system page
	Size     int    `json:"size" yaml:"size"`         // File size in bytes
	Author   string `json:"author" yaml:"author"`     // Sequencer credit (may be empty)
	Checksum string `json:"checksum" yaml:"checksum"` // Archive MD5 of the file bytes, lowercase hex
}

// Filename derives a filesystem-safe name for the song. Letters, digits,
// and spaces from the title are kept, everything else is dropped, and the
// original extension from the URL is preserved. Songs whose titles strip
// down to nothing fall back to the checksum.
func (s Song) Filename() string {
	var b strings.Builder
	for _, r := range s.Title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	name := strings.TrimSpace(b.String())
	if name == "" {
		name = s.Checksum
	}
	ext := path.Ext(s.URL)
	if ext == "" {
		ext = constants.MIDIExtension
	}
	return name + ext
}

// String returns a human-readable description of the song.
func (s Song) String() string {
	if s.Author != "" {
		return fmt.Sprintf("%s by %s (%d bytes)", s.Title, s.Author, s.Size)
	}
	return fmt.Sprintf("%s (%d bytes)", s.Title, s.Size)
}
