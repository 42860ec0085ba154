package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikhil/teamhub/internal/middleware"
	"github.com/nikhil/teamhub/internal/response"
	teamService "github.com/nikhil/teamhub/internal/service/team"
	userService "github.com/nikhil/teamhub/internal/service/users"
)

type UserHandler struct {
	Responder
	Service *userService.UserService
	Teams   *teamService.TeamService
}

func NewUserHandler(service *userService.UserService, teams *teamService.TeamService, rs Responder) *UserHandler {
	return &UserHandler{Responder: rs, Service: service, Teams: teams}
}

func (h *UserHandler) TeamMembers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.TeamMembers(r.Context(), middleware.CurrentUser(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, users)
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req userService.UpdateRoleRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.Service.UpdateRole(r.Context(), middleware.CurrentUser(r.Context()), mux.Vars(r)["id"], req.Role)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, user)
}

// DebugTeam repairs unassigned users and reports default team membership.
func (h *UserHandler) DebugTeam(w http.ResponseWriter, r *http.Request) {
	diag, err := h.Teams.RepairMembership(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, diag)
}
