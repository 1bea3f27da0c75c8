package cmdutil

import (
	"strings"

	"github.com/midivault/midivault/pkg/errors"
)

// ParseQuery turns command line search arguments of the form
// "field=regex" into a pattern map for catalog.SearchRegexp. An argument
// without "=" is a ValidationError; a repeated field keeps the last
// value. Patterns are passed through uninterpreted, the catalog compiles
// and validates them.
func ParseQuery(args []string) (map[string]string, error) {
	patterns := make(map[string]string, len(args))
	for _, arg := range args {
		field, pattern, ok := strings.Cut(arg, "=")
		if !ok || field == "" {
			return nil, errors.NewValidationError("query", arg, "search terms take the form field=regex")
		}
		patterns[field] = pattern
	}
	return patterns, nil
}
