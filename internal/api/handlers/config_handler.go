package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/application/services"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
)

// ConfigHandler handles report configuration endpoints
type ConfigHandler struct {
	configs *services.ConfigService
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(configs *services.ConfigService) *ConfigHandler {
	return &ConfigHandler{configs: configs}
}

// GetConfig handles GET /api/config
func (h *ConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.configs.Get(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load configuration")
		return
	}

	respondWithJSON(w, http.StatusOK, cfg)
}

// UpdateConfig handles PUT /api/config
func (h *ConfigHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg entities.ReportConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid configuration payload")
		return
	}

	merged, err := h.configs.Update(r.Context(), &cfg)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, merged)
}
