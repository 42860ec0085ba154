package handlers

import (
	"net/http"
	"time"

	"github.com/nikhil/teamhub/internal/apperrors"
	"github.com/nikhil/teamhub/internal/middleware"
	"github.com/nikhil/teamhub/internal/response"
	messageService "github.com/nikhil/teamhub/internal/service/messages"
)

type MessageHandler struct {
	Responder
	Service *messageService.MessageService
}

func NewMessageHandler(service *messageService.MessageService, rs Responder) *MessageHandler {
	return &MessageHandler{Responder: rs, Service: service}
}

// List pages backwards through the team channel using the before cursor.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	var before time.Time
	if raw := r.URL.Query().Get("before"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			h.fail(w, r, apperrors.Validation("Invalid before timestamp",
				apperrors.FieldError{Field: "before", Message: "before must be an RFC3339 timestamp"}))
			return
		}
		before = t
	}

	messages, err := h.Service.List(r.Context(), middleware.CurrentUser(r.Context()), before, queryInt(r, "limit"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, messages)
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req messageService.SendMessageRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	message, err := h.Service.Send(r.Context(), middleware.CurrentUser(r.Context()), req.Content)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, message)
}
