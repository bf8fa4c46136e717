package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/negari/backend/internal/logger"
	"github.com/negari/backend/internal/models"
	"github.com/negari/backend/internal/services"
)

type AdminHandler struct {
	userService    services.UserService
	profileService services.ProfileService
	tokens         *services.TokenService
	mailer         services.Mailer
}

func NewAdminHandler(userService services.UserService, profileService services.ProfileService, tokens *services.TokenService, mailer services.Mailer) *AdminHandler {
	return &AdminHandler{
		userService:    userService,
		profileService: profileService,
		tokens:         tokens,
		mailer:         mailer,
	}
}

// InviteUser creates a passwordless account, seeds its profile, and mails a
// set-password link. Optionally grants the admin flag.
func (h *AdminHandler) InviteUser(w http.ResponseWriter, r *http.Request) {
	var req models.InviteUserRequest
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

	user, err := h.userService.Invite(ctx, &req)
	if err != nil {
		if err == services.ErrEmailExists {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("A user with this email address has already been registered"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create user"))
		return
	}

	profileReq := profileRequestFromMetadata(user.Metadata)
	if req.Phone != "" {
		profileReq.Phone = &req.Phone
	}
	if req.City != "" {
		profileReq.City = &req.City
	}
	if _, err := h.profileService.Upsert(ctx, user.ID, user.Email, profileReq); err != nil {
		logger.FromRequest(r).Warn().Err(err).Str("user_id", user.ID).Msg("profile seed failed on invite")
	}
	if req.IsAdmin {
		if err := h.profileService.SetAdminFlags(ctx, user.ID, true, false); err != nil {
			logger.FromRequest(r).Warn().Err(err).Str("user_id", user.ID).Msg("failed to set admin flag on invite")
		}
	}

	token, err := h.tokens.IssueResetToken(ctx, user.ID)
	if err != nil {
		logger.FromRequest(r).Error().Err(err).Str("user_id", user.ID).Msg("failed to issue invite token")
	} else if err := h.mailer.SendInvite(ctx, user.Email, req.FirstName, token); err != nil {
		logger.FromRequest(r).Error().Err(err).Str("user_id", user.ID).Msg("failed to send invite email")
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(user))
}

// ListUsers returns the admin directory: the auth record merged with the
// profile's name and user type.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	ctx, cancel := requestCtx(r)
	defer cancel()

	users, err := h.userService.List(ctx, page, perPage)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load users"))
		return
	}

	directory := make([]models.DirectoryUser, 0, len(users))
	for i := range users {
		u := &users[i]
		row := models.DirectoryUser{
			ID:               u.ID,
			Email:            u.Email,
			InvitedAt:        u.InvitedAt,
			EmailConfirmedAt: u.EmailConfirmedAt,
			LastSignInAt:     u.LastSignInAt,
			CreatedAt:        u.CreatedAt,
		}
		if prof, err := h.profileService.GetByUserID(ctx, u.ID); err == nil {
			row.UserType = prof.UserType
			row.FirstName = prof.FirstName
			row.LastName = prof.LastName
		} else {
			// Fall back to sign-up metadata for accounts without a profile.
			row.UserType = u.Metadata["user_type"]
			row.FirstName = u.Metadata["first_name"]
			row.LastName = u.Metadata["last_name"]
		}
		directory = append(directory, row)
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(directory))
}
