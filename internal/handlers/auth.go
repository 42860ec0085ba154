package handlers

import (
	"net/http"

	"github.com/nikhil/teamhub/internal/middleware"
	"github.com/nikhil/teamhub/internal/models"
	"github.com/nikhil/teamhub/internal/response"
	authService "github.com/nikhil/teamhub/internal/service/auth"
	teamService "github.com/nikhil/teamhub/internal/service/team"
)

type AuthHandler struct {
	Responder
	Service *authService.AuthService
	Teams   *teamService.TeamService
}

func NewAuthHandler(service *authService.AuthService, teams *teamService.TeamService, rs Responder) *AuthHandler {
	return &AuthHandler{Responder: rs, Service: service, Teams: teams}
}

// Register creates the local account for the verified identity.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req authService.RegisterRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.Service.Register(r.Context(), middleware.CurrentIdentity(r.Context()), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	code := http.StatusOK
	if result.Created {
		code = http.StatusCreated
	}
	response.JSON(w, code, result)
}

// Login returns the resolved caller.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, middleware.CurrentUser(r.Context()))
}

type meResponse struct {
	User *models.User `json:"user"`
	Team *models.Team `json:"team,omitempty"`
}

// Me returns the caller together with their team.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	resp := meResponse{User: user}
	if user.HasTeam() {
		team, err := h.Teams.GetTeam(r.Context(), user.TeamID)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		resp.Team = team
	}
	response.JSON(w, http.StatusOK, resp)
}
