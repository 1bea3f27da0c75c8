package catalog

import (
	"context"
	"regexp"
	"sort"
	"strconv"

	"github.com/midivault/midivault/pkg/errors"
)

// Predicate decides whether a song matches a search. It receives the
// system name, the game title, and the song itself.
type Predicate func(system, game string, song Song) bool

// Match is one search hit: a song together with the system and game it
// was found under.
type Match struct {
	System string `json:"system" yaml:"system"`
	Game   string `json:"game" yaml:"game"`
	Song   Song   `json:"song" yaml:"song"`
}

// searchFields are the pattern keys SearchRegexp recognizes.
var searchFields = map[string]func(system, game string, song Song) string{
	"system":   func(system, _ string, _ Song) string { return system },
	"game":     func(_, game string, _ Song) string { return game },
	"url":      func(_, _ string, song Song) string { return song.URL },
	"title":    func(_, _ string, song Song) string { return song.Title },
	"size":     func(_, _ string, song Song) string { return strconv.Itoa(song.Size) },
	"author":   func(_, _ string, song Song) string { return song.Author },
	"checksum": func(_, _ string, song Song) string { return song.Checksum },
}

// Search returns every song for which the predicate is true, forcing
// population of the whole catalog first. Matches are ordered by system
// name, then game title, then parser order within the game.
func (c *Catalog) Search(ctx context.Context, fn Predicate) ([]Match, error) {
	if c.closed.Load() {
		return nil, errors.NewResourceError("search", "catalog", "", errors.ErrClosed)
	}
	if err := c.ForceAll(ctx); err != nil {
		return nil, err
	}

	var matches []Match
	for _, name := range c.Names() {
		system := c.systems[name]
		games, err := system.Games(ctx)
		if err != nil {
			return nil, err
		}
		for _, game := range games {
			songs, err := system.Songs(ctx, game)
			if err != nil {
				return nil, err
			}
			for _, song := range songs {
				if fn(name, game, song) {
					matches = append(matches, Match{System: name, Game: game, Song: song})
				}
			}
		}
	}
	return matches, nil
}

// SearchRegexp returns every song whose fields match all of the given
// patterns. Keys select the field to match: "system", "game", "url",
// "title", "size", "author", or "checksum"; unknown keys are ignored.
// Patterns are unanchored, so "Zelda" matches anywhere in a title. An
// empty pattern map matches every song in the archive exactly once. An
// invalid pattern returns a ValidationError before anything is fetched.
func (c *Catalog) SearchRegexp(ctx context.Context, patterns map[string]string) ([]Match, error) {
	type matcher struct {
		value func(system, game string, song Song) string
		rx    *regexp.Regexp
	}

	keys := make([]string, 0, len(patterns))
	for key := range patterns {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	matchers := make([]matcher, 0, len(keys))
	for _, key := range keys {
		value, ok := searchFields[key]
		if !ok {
			continue
		}
		rx, err := regexp.Compile(patterns[key])
		if err != nil {
			return nil, errors.NewValidationError(key, patterns[key], "invalid regular expression")
		}
		matchers = append(matchers, matcher{value: value, rx: rx})
	}

	return c.Search(ctx, func(system, game string, song Song) bool {
		for _, m := range matchers {
			if !m.rx.MatchString(m.value(system, game, song)) {
				return false
			}
		}
		return true
	})
}
