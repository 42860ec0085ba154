package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikhil/teamhub/internal/models"
)

func ProjectRoutes(router *mux.Router, d *Deps) {
	h := d.ProjectHandler

	router.Handle("/projects", methods{
		http.MethodGet:  d.protected(h.List),
		http.MethodPost: d.protected(h.Create, models.RoleAdmin, models.RoleManager),
	})
	router.Handle("/projects/{id}", methods{
		http.MethodGet:    d.protected(h.Get),
		http.MethodPut:    d.protected(h.Update, models.RoleAdmin, models.RoleManager),
		http.MethodDelete: d.protected(h.Delete, models.RoleAdmin),
	})
}
