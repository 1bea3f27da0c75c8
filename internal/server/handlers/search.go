package handlers

import (
	"net/http"

	"github.com/midivault/midivault/internal/server/response"
	"github.com/midivault/midivault/pkg/catalog"
)

// HandleSearch handles GET /api/v1/search. Every query parameter is an
// unanchored regular expression matched against the field of the same
// name ("system", "game", "title", "author", "url", "size", "checksum");
// a song must match all of them. No parameters matches the entire
// archive, which forces a full crawl before the response is written.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	patterns := make(map[string]string, len(query))
	for key, values := range query {
		if len(values) > 0 {
			patterns[key] = values[0]
		}
	}

	matches, err := h.client.Catalog().SearchRegexp(r.Context(), patterns)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	if matches == nil {
		matches = []catalog.Match{}
	}

	response.OK(w, matches)
}
