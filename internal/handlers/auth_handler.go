package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/negari/backend/internal/logger"
	"github.com/negari/backend/internal/middleware"
	"github.com/negari/backend/internal/models"
	"github.com/negari/backend/internal/services"
)

type AuthHandler struct {
	userService    services.UserService
	profileService services.ProfileService
	tokens         *services.TokenService
	mailer         services.Mailer
}

func NewAuthHandler(userService services.UserService, profileService services.ProfileService, tokens *services.TokenService, mailer services.Mailer) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		profileService: profileService,
		tokens:         tokens,
		mailer:         mailer,
	}
}

// Register creates the auth user and seeds the profile row from the sign-up
// metadata. Profile seeding is best effort: a profile write failure does not
// fail the registration, sign-in backfills the row later.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
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

	user, err := h.userService.Register(ctx, &req)
	if err != nil {
		if err == services.ErrEmailExists {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Email already registered"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create user"))
		return
	}

	profileReq := profileRequestFromMetadata(req.Metadata)
	if _, err := h.profileService.Upsert(ctx, user.ID, user.Email, profileReq); err != nil {
		logger.FromRequest(r).Warn().Err(err).Str("user_id", user.ID).Msg("profile seed failed on register")
	}

	resp, err := h.issueSession(ctx, user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to generate token"))
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(resp))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
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

	user, err := h.userService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		switch err {
		case services.ErrUserNotFound, services.ErrInvalidPassword, services.ErrPasswordNotSet:
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Invalid email or password"))
		default:
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Login failed"))
		}
		return
	}

	// Accounts created before profile rows existed get a minimal row now.
	// An existing row is never touched by a login.
	if _, err := h.profileService.EnsureExists(ctx, user.ID, user.Email); err != nil {
		logger.FromRequest(r).Warn().Err(err).Str("user_id", user.ID).Msg("profile backfill failed on login")
	}

	resp, err := h.issueSession(ctx, user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to generate token"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(resp))
}

// Refresh rotates the refresh token and issues a fresh access token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	ctx, cancel := requestCtx(r)
	defer cancel()

	userID, newToken, err := h.tokens.RotateRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if err == services.ErrInvalidToken {
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Invalid or expired refresh token"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to refresh session"))
		return
	}

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Invalid or expired refresh token"))
		return
	}

	access, expiresAt, err := h.tokens.IssueAccessToken(user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to generate token"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.AuthResponse{
		AccessToken:  access,
		RefreshToken: newToken,
		ExpiresAt:    expiresAt,
		User:         *user,
	}))
}

// Logout revokes the presented refresh token. Revoking an unknown token still
// succeeds so a client can always clear its session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	ctx, cancel := requestCtx(r)
	defer cancel()

	if err := h.tokens.RevokeRefreshToken(ctx, req.RefreshToken); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to sign out"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]bool{"signed_out": true}))
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	ctx, cancel := requestCtx(r)
	defer cancel()

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(user))
}

// UpdateUser changes the account email and/or password after re-verifying the
// current password.
func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.UpdateUserRequest
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

	user, err := h.userService.UpdateCredentials(ctx, userID, &req)
	if err != nil {
		switch err {
		case services.ErrInvalidPassword, services.ErrPasswordNotSet:
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Current password is incorrect"))
		case services.ErrEmailExists:
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Email already registered"))
		case services.ErrUserNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
		default:
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update account"))
		}
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(user))
}

// RequestPasswordReset mails a reset link. The response never reveals whether
// the address had an account.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
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

	accepted := models.NewSuccessResponse(map[string]bool{"accepted": true})

	user, err := h.userService.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, services.ErrUserNotFound) {
			logger.FromRequest(r).Error().Err(err).Msg("reset lookup failed")
		}
		writeJSON(w, http.StatusOK, accepted)
		return
	}

	token, err := h.tokens.IssueResetToken(ctx, user.ID)
	if err != nil {
		logger.FromRequest(r).Error().Err(err).Str("user_id", user.ID).Msg("failed to issue reset token")
		writeJSON(w, http.StatusOK, accepted)
		return
	}
	if err := h.mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
		logger.FromRequest(r).Error().Err(err).Str("user_id", user.ID).Msg("failed to send reset email")
	}

	writeJSON(w, http.StatusOK, accepted)
}

// ConfirmPasswordReset redeems a reset token and installs the new password.
// The same flow completes invite acceptance.
func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req models.ConfirmResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if req.Token == "" || len(req.NewPassword) < 6 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(map[string]string{
			"new_password": "Password must be at least 6 characters",
		}))
		return
	}

	ctx, cancel := requestCtx(r)
	defer cancel()

	userID, err := h.tokens.ConsumeResetToken(ctx, req.Token)
	if err != nil {
		if err == services.ErrInvalidToken {
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Invalid or expired reset token"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to reset password"))
		return
	}

	if err := h.userService.SetPassword(ctx, userID, req.NewPassword); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to reset password"))
		return
	}

	// Stolen-token hygiene: a password change ends every other session.
	_ = h.tokens.RevokeAllForUser(ctx, userID)

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]bool{"reset": true}))
}

func (h *AuthHandler) issueSession(ctx context.Context, user *models.User) (*models.AuthResponse, error) {
	access, expiresAt, err := h.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := h.tokens.IssueRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		User:         *user,
	}, nil
}

// profileRequestFromMetadata maps the free-form sign-up metadata onto the
// profile fields the web client collects at registration.
func profileRequestFromMetadata(metadata map[string]string) *models.UpsertProfileRequest {
	req := &models.UpsertProfileRequest{}
	if metadata == nil {
		return req
	}

	assign := func(key string, dst **string) {
		if v, ok := metadata[key]; ok && v != "" {
			val := v
			*dst = &val
		}
	}
	assign("first_name", &req.FirstName)
	assign("last_name", &req.LastName)
	assign("full_name", &req.FullName)
	assign("phone", &req.Phone)
	assign("city", &req.City)
	assign("country", &req.Country)
	assign("school_name", &req.SchoolName)
	assign("education_level", &req.EducationLevel)
	assign("school_type", &req.SchoolType)
	assign("user_type", &req.UserType)
	return req
}
