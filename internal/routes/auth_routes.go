package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikhil/teamhub/internal/middleware"
)

func AuthRoutes(router *mux.Router, d *Deps) {
	h := d.AuthHandler

	// Register only needs a verified credential; the local user may not exist.
	router.Handle("/auth/register", methods{
		http.MethodPost: middleware.ResponseWrapperMiddleware(d.Auth.RequireIdentity(http.HandlerFunc(h.Register))),
	})
	router.Handle("/auth/login", methods{http.MethodGet: d.protected(h.Login)})
	router.Handle("/auth/me", methods{http.MethodGet: d.protected(h.Me)})
}
