package routes

import (
	"net/http"

	"github.com/gorilla/mux"
)

func MessageRoutes(router *mux.Router, d *Deps) {
	h := d.MessageHandler
	router.Handle("/messages", methods{
		http.MethodGet:  d.protected(h.List),
		http.MethodPost: d.protected(h.Send),
	})
}
