package handlers

import (
	"net/http"

	"github.com/nikhil/teamhub/internal/middleware"
	"github.com/nikhil/teamhub/internal/response"
	activityService "github.com/nikhil/teamhub/internal/service/activity"
)

type ActivityHandler struct {
	Responder
	Service *activityService.ActivityService
}

func NewActivityHandler(service *activityService.ActivityService, rs Responder) *ActivityHandler {
	return &ActivityHandler{Responder: rs, Service: service}
}

func (h *ActivityHandler) Team(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	activities, err := h.Service.ForTeam(r.Context(), user.TeamID, queryInt(r, "limit"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, activities)
}

func (h *ActivityHandler) User(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	activities, err := h.Service.ForUser(r.Context(), user.ID, queryInt(r, "limit"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, activities)
}
