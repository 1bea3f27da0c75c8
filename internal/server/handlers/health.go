package handlers

import (
	"net/http"
	"time"

	"github.com/midivault/midivault/internal/server/response"
)

// HandleHealth handles GET /healthz. It reports liveness only and never
// touches the archive.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "midivault-api",
		"systems": h.client.Catalog().Len(),
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
	})
}
