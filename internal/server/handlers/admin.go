package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/midivault/midivault/internal/server/response"
)

// HandleRefresh handles POST /api/v1/refresh. It re-reads the archive
// index, keeping cached data for systems that are already populated.
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.client.Update(r.Context()); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, map[string]any{
		"status":  "completed",
		"systems": h.client.Catalog().Len(),
	})
}

// HandleStats handles GET /api/v1/stats. Song counts only cover
// populated systems; counting the rest would force a crawl of the whole
// archive.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	cat := h.client.Catalog()

	populated := 0
	songs := 0
	for _, name := range cat.Names() {
		system, ok := cat.Peek(name)
		if !ok || !system.Populated() {
			continue
		}
		populated++
		n, err := system.TotalSongs(r.Context())
		if err != nil {
			response.ErrorFromType(w, err)
			return
		}
		songs += n
	}

	// Get runtime stats
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response.OK(w, map[string]any{
		"runtime": map[string]any{
			"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
			"goroutines":     runtime.NumGoroutine(),
			"memory_mb":      memStats.Alloc / 1024 / 1024,
		},
		"catalog": map[string]any{
			"systems_total":     cat.Len(),
			"systems_populated": populated,
			"songs_cached":      songs,
		},
	})
}
