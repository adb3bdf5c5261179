package dashboard

import (
	"net/http"
	"time"

	"sapaghor/internal/api"
	"sapaghor/internal/workflow"
)

type Handlers struct {
	Dashboard *Repository
}

func (h Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	s, err := h.Dashboard.Stats(r.Context(), time.Now().UTC())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, s)
}

// OrdersByStatus feeds the workflow sidebar: always the full stage sequence
// plus cancelled, zero-filled, regardless of what the counts query returned.
func (h Handlers) OrdersByStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Dashboard.StatusCounts(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"stages": workflow.ProjectCounts(counts)})
}
