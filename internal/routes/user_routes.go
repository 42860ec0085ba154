package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikhil/teamhub/internal/models"
)

func UserRoutes(router *mux.Router, d *Deps) {
	h := d.UserHandler

	router.Handle("/users/team", methods{http.MethodGet: d.protected(h.TeamMembers)})
	router.Handle("/users/debug-team", methods{http.MethodGet: d.protected(h.DebugTeam, models.RoleAdmin)})
	router.Handle("/users/{id}/role", methods{http.MethodPut: d.protected(h.UpdateRole, models.RoleAdmin)})
}
