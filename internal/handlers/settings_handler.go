package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/negari/backend/internal/middleware"
	"github.com/negari/backend/internal/models"
	"github.com/negari/backend/internal/services"
)

type SettingsHandler struct {
	settingsService services.SettingsService
}

func NewSettingsHandler(settingsService services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// ListSettings is public: the landing pages read footer links and contact
// addresses from here without a session.
func (h *SettingsHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestCtx(r)
	defer cancel()

	settings, err := h.settingsService.List(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load settings"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(settings))
}

// SetSettings bulk-upserts key/value pairs. Admin-gated by the router.
func (h *SettingsHandler) SetSettings(w http.ResponseWriter, r *http.Request) {
	var req models.SetSiteSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := requestCtx(r)
	defer cancel()

	settings, err := h.settingsService.BulkUpsert(ctx, middleware.GetUserID(r.Context()), req.Settings)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to save settings"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(settings))
}
