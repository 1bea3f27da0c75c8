package handlers

import (
	"net/http"

	"github.com/midivault/midivault/internal/server/response"
	"github.com/midivault/midivault/pkg/catalog"
)

// systemPayload is a serialized system together with its name. The
// snapshot keys systems by name, so the name has to be added back when a
// single system is returned on its own.
type systemPayload struct {
	Name string `json:"name"`
	*catalog.SystemSnapshot
}

// HandleListSystems handles GET /api/v1/systems. It returns the known
// system names without populating anything.
func (h *Handlers) HandleListSystems(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, h.client.Catalog().Names())
}

// HandleGetSystem handles GET /api/v1/systems/{name}. The system is
// populated on first access; unknown names return 404.
func (h *Handlers) HandleGetSystem(w http.ResponseWriter, r *http.Request, name string) {
	system, err := h.client.Catalog().System(r.Context(), name)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	snapshot, err := system.Snapshot(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, systemPayload{Name: system.Name(), SystemSnapshot: snapshot})
}
