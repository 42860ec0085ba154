package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikhil/teamhub/internal/middleware"
	"github.com/nikhil/teamhub/internal/models"
)

func InvitationRoutes(router *mux.Router, d *Deps) {
	h := d.InvitationHandler
	managers := []models.Role{models.RoleAdmin, models.RoleManager}

	router.Handle("/invitations/validate/{code}", methods{
		http.MethodGet: middleware.ResponseWrapperMiddleware(http.HandlerFunc(h.Validate)),
	})
	// Registered before /{id} so "use" is not taken as an id.
	router.Handle("/invitations/use", methods{http.MethodPost: d.protected(h.Use)})
	router.Handle("/invitations", methods{
		http.MethodGet:  d.protected(h.List, managers...),
		http.MethodPost: d.protected(h.Create, managers...),
	})
	router.Handle("/invitations/{id}", methods{http.MethodDelete: d.protected(h.Delete, managers...)})
}
