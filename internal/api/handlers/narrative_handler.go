package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/application/services"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
)

// NarrativeHandler handles AI narrative generation endpoints
type NarrativeHandler struct {
	narratives *services.NarrativeService
}

// NewNarrativeHandler creates a new narrative handler. The service may be nil
// when no AI provider is configured.
func NewNarrativeHandler(narratives *services.NarrativeService) *NarrativeHandler {
	return &NarrativeHandler{narratives: narratives}
}

type narrativeRequest struct {
	Stats     entities.Stats      `json:"stats"`
	Conflicts []entities.Conflict `json:"conflicts"`
}

// GenerateNarrative handles POST /api/reports/narrative
func (h *NarrativeHandler) GenerateNarrative(w http.ResponseWriter, r *http.Request) {
	if h.narratives == nil {
		respondWithError(w, http.StatusServiceUnavailable, "narrative generation is not configured")
		return
	}

	var req narrativeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid narrative payload")
		return
	}

	narrative, err := h.narratives.Generate(r.Context(), req.Stats, req.Conflicts)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"narrative": narrative,
	})
}
