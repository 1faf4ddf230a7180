package handlers

import (
	"encoding/json"
	"net/http"

	"dha-governance/internal/middleware"
	"dha-governance/internal/service"
)

// SettingsRequest represents the request body for updating governance settings
type SettingsRequest struct {
	GovernanceEnabled bool `json:"governance_enabled"`
}

// SettingsHandler handles governance settings requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// GetSettings retrieves the governance settings
// @Summary Get governance settings
// @Description Get the global governance configuration
// @Tags Governance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.GovernanceSettings
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Governance not available"
// @Router /governance/settings [get]
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.GetSettings()
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, settings)
}

// UpdateSettings updates the governance settings
// @Summary Update governance settings
// @Description Enable or disable governance globally
// @Tags Governance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SettingsRequest true "Settings"
// @Success 200 {object} models.GovernanceSettings
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Permission denied"
// @Router /governance/settings [put]
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	actorOID, ok := middleware.GetUserOID(r)
	if !ok {
		http.Error(w, ErrMsgUserOIDNotFound, http.StatusUnauthorized)
		return
	}

	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, ErrMsgInvalidRequestBody, http.StatusBadRequest)
		return
	}

	settings, err := h.settingsService.UpdateSettings(req.GovernanceEnabled, actorOID)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, settings)
}
