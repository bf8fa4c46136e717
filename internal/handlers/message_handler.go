package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/negari/backend/internal/middleware"
	"github.com/negari/backend/internal/models"
	"github.com/negari/backend/internal/services"
)

type MessageHandler struct {
	messageService services.MessageService
}

func NewMessageHandler(messageService services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}
	if req.RecipientID == userID {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Cannot message yourself"))
		return
	}

	ctx, cancel := requestCtx(r)
	defer cancel()

	msg, err := h.messageService.Send(ctx, userID, &req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to send message"))
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(msg))
}

func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	ctx, cancel := requestCtx(r)
	defer cancel()

	messages, err := h.messageService.ListForUser(ctx, userID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load messages"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(messages))
}

func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	messageID := chi.URLParam(r, "id")
	if messageID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Message id required"))
		return
	}

	ctx, cancel := requestCtx(r)
	defer cancel()

	if err := h.messageService.MarkRead(ctx, userID, messageID); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update message"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]bool{"read": true}))
}
