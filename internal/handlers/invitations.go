package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikhil/teamhub/internal/middleware"
	"github.com/nikhil/teamhub/internal/response"
	invitationService "github.com/nikhil/teamhub/internal/service/invitations"
)

type InvitationHandler struct {
	Responder
	Service *invitationService.InvitationService
}

func NewInvitationHandler(service *invitationService.InvitationService, rs Responder) *InvitationHandler {
	return &InvitationHandler{Responder: rs, Service: service}
}

func (h *InvitationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req invitationService.CreateInvitationRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	created, err := h.Service.Create(r.Context(), middleware.CurrentUser(r.Context()), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *InvitationHandler) List(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.Service.List(r.Context(), middleware.CurrentUser(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, invitations)
}

// Validate is public so an invitee can preview the team before signing in.
func (h *InvitationHandler) Validate(w http.ResponseWriter, r *http.Request) {
	preview, err := h.Service.Validate(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, preview)
}

func (h *InvitationHandler) Use(w http.ResponseWriter, r *http.Request) {
	var req invitationService.UseInvitationRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.Service.Use(r.Context(), middleware.CurrentUser(r.Context()), req.Code)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, user)
}

func (h *InvitationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), middleware.CurrentUser(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "Invitation deleted successfully"})
}
