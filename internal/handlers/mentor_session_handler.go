package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/negari/backend/internal/middleware"
	"github.com/negari/backend/internal/models"
	"github.com/negari/backend/internal/services"
)

type MentorSessionHandler struct {
	sessionService services.MentorSessionService
	profileService services.ProfileService
}

func NewMentorSessionHandler(sessionService services.MentorSessionService, profileService services.ProfileService) *MentorSessionHandler {
	return &MentorSessionHandler{sessionService: sessionService, profileService: profileService}
}

// BookSession creates a session request against a mentor. The target must
// actually be a mentor profile.
func (h *MentorSessionHandler) BookSession(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.BookSessionRequest
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

	mentor, err := h.profileService.GetByUserID(ctx, req.MentorID)
	if err != nil || mentor.UserType != models.UserTypeMentor {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Unknown mentor"))
		return
	}

	session, err := h.sessionService.Book(ctx, userID, &req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to book session"))
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(session))
}

func (h *MentorSessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	ctx, cancel := requestCtx(r)
	defer cancel()

	sessions, err := h.sessionService.ListForUser(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load sessions"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(sessions))
}
