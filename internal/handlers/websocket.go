package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/nikhil/teamhub/internal/middleware"
	"github.com/nikhil/teamhub/internal/realtime"
)

// WebSocketHandler upgrades authenticated requests and hands the connection
// to the hub.
type WebSocketHandler struct {
	Responder
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *realtime.Hub, origins []string, rs Responder) *WebSocketHandler {
	return &WebSocketHandler{
		Responder: rs,
		hub:       hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return middleware.OriginAllowed(origins, r.Header.Get("Origin"))
			},
		},
	}
}

func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.Log.WithContext(r.Context()).Warn("Error upgrading connection", "error", err)
		return
	}

	client := realtime.NewClient(h.hub, conn, user.ID, user.TeamID, h.Log.WithUser(user.ID))
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
