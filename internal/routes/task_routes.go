package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikhil/teamhub/internal/models"
)

func TaskRoutes(router *mux.Router, d *Deps) {
	h := d.TaskHandler
	managers := []models.Role{models.RoleAdmin, models.RoleManager}

	router.Handle("/tasks", methods{
		http.MethodGet:  d.protected(h.List),
		http.MethodPost: d.protected(h.Create, managers...),
	})
	// Registered before /{id} so "stats" is not taken as an id.
	router.Handle("/tasks/stats", methods{http.MethodGet: d.protected(h.Stats)})
	router.Handle("/tasks/{id}", methods{
		http.MethodGet:    d.protected(h.Get),
		http.MethodPut:    d.protected(h.Update),
		http.MethodDelete: d.protected(h.Delete, managers...),
	})
}
