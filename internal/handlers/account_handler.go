package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/negari/backend/internal/logger"
	"github.com/negari/backend/internal/middleware"
	"github.com/negari/backend/internal/models"
	"github.com/negari/backend/internal/services"
)

const deleteConfirmPhrase = "DELETE"

type AccountHandler struct {
	accountService     services.AccountService
	profileService     services.ProfileService
	applicationService services.ApplicationService
	messageService     services.MessageService
	sessionService     services.MentorSessionService
}

func NewAccountHandler(
	accountService services.AccountService,
	profileService services.ProfileService,
	applicationService services.ApplicationService,
	messageService services.MessageService,
	sessionService services.MentorSessionService,
) *AccountHandler {
	return &AccountHandler{
		accountService:     accountService,
		profileService:     profileService,
		applicationService: applicationService,
		messageService:     messageService,
		sessionService:     sessionService,
	}
}

// ExportData bundles everything stored under the caller's account into one
// JSON document. Partial reads degrade to empty sections rather than failing
// the whole export.
func (h *AccountHandler) ExportData(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	ctx, cancel := requestCtx(r)
	defer cancel()
	log := logger.FromRequest(r)

	export := models.AccountExport{
		ExportedAt:     time.Now().UTC(),
		UserID:         userID,
		Applications:   []models.Application{},
		MentorSessions: []models.MentorSession{},
		Messages:       []models.Message{},
	}

	if prof, err := h.profileService.GetByUserID(ctx, userID); err == nil {
		export.Profile = prof
	} else if err != services.ErrProfileNotFound {
		log.Warn().Err(err).Msg("export: profile read failed")
	}
	if apps, err := h.applicationService.ListForUser(ctx, userID); err == nil {
		export.Applications = apps
	} else {
		log.Warn().Err(err).Msg("export: applications read failed")
	}
	if sessions, err := h.sessionService.ListForUser(ctx, userID); err == nil {
		export.MentorSessions = sessions
	} else {
		log.Warn().Err(err).Msg("export: sessions read failed")
	}
	if messages, err := h.messageService.ListForUser(ctx, userID, 0); err == nil {
		export.Messages = messages
	} else {
		log.Warn().Err(err).Msg("export: messages read failed")
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(export))
}

// DeleteAccount removes the caller's account and every row that references
// it. The client must echo the confirmation phrase; nothing is touched until
// it matches.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.DeleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if req.Confirm != deleteConfirmPhrase {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Confirmation phrase does not match"))
		return
	}

	ctx, cancel := requestCtx(r)
	defer cancel()

	if err := h.accountService.DeleteAccount(ctx, userID); err != nil {
		if err == services.ErrUserNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete account"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]bool{"deleted": true}))
}
