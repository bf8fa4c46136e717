package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/negari/backend/internal/middleware"
	"github.com/negari/backend/internal/models"
	"github.com/negari/backend/internal/services"
)

type ApplicationHandler struct {
	applicationService services.ApplicationService
	scholarshipService services.ScholarshipService
}

func NewApplicationHandler(applicationService services.ApplicationService, scholarshipService services.ScholarshipService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
		scholarshipService: scholarshipService,
	}
}

// TrackApplication records that the caller started applying to a scholarship.
// The scholarship must exist in the catalogue.
func (h *ApplicationHandler) TrackApplication(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.TrackApplicationRequest
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

	scholarship, err := h.scholarshipService.GetByID(ctx, req.ScholarshipID)
	if err != nil {
		if err == services.ErrScholarshipNotFound {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Unknown scholarship"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to track application"))
		return
	}

	app, err := h.applicationService.Track(ctx, userID, scholarship, req.Notes)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to track application"))
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(app))
}

func (h *ApplicationHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	ctx, cancel := requestCtx(r)
	defer cancel()

	apps, err := h.applicationService.ListForUser(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load applications"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(apps))
}
