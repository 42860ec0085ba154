package routes

import (
	"net/http"

	"github.com/gorilla/mux"
)

// WebSocketRoutes registers the realtime endpoint. The token may come from
// the query string since browsers cannot set headers on upgrades.
func WebSocketRoutes(router *mux.Router, d *Deps) {
	router.Handle("/ws", methods{
		http.MethodGet: d.Auth.AuthenticateWebSocket(http.HandlerFunc(d.WebSocketHandler.HandleWebSocket)),
	})
}
