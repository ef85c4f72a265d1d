package handlers

import (
	"net/http"

	"github.com/facegate/facegate/internal/gallery"
)

// StatsHandler reports gallery statistics.
type StatsHandler struct {
	svc *gallery.Service
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(svc *gallery.Service) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// Get returns gallery counts and the active threshold policy.
// GET /api/v1/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.CountPeople(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	thresholds := h.svc.Thresholds()
	respondJSON(w, http.StatusOK, map[string]any{
		"people": count,
		"thresholds": map[string]float64{
			"search": thresholds.Search,
			"update": thresholds.Update,
		},
	})
}
