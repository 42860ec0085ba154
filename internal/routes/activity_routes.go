package routes

import (
	"net/http"

	"github.com/gorilla/mux"
)

func ActivityRoutes(router *mux.Router, d *Deps) {
	h := d.ActivityHandler
	router.Handle("/activities/team", methods{http.MethodGet: d.protected(h.Team)})
	router.Handle("/activities/user", methods{http.MethodGet: d.protected(h.User)})
}
