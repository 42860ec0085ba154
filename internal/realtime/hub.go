package realtime

import (
	"context"
	"encoding/json"

	"github.com/nikhil/teamhub/internal/logger"
)

// Event names pushed to and accepted from clients.
const (
	EventMessageReceived = "message-received"
	EventTaskUpdate      = "task-update-received"
	EventProjectUpdate   = "project-update-received"
	EventJoinTeam        = "join-team"
	EventLeaveTeam       = "leave-team"
	EventJoinedTeam      = "joined-team"
	EventError           = "error"
)

// Frame is the wire envelope for every websocket message.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Broadcaster pushes an event to everyone in a team's room.
type Broadcaster interface {
	BroadcastToTeam(teamID, event string, payload any)
}

type joinRequest struct {
	client *Client
	teamID string
}

type teamFrame struct {
	teamID  string
	payload []byte
}

type sizeRequest struct {
	teamID string
	reply  chan int
}

// Hub is the process-local registry of team rooms. All room state is owned by
// the Run goroutine; other goroutines talk to it over channels.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	join       chan joinRequest
	leave      chan *Client
	broadcast  chan teamFrame
	size       chan sizeRequest
	done       chan struct{}

	// client -> joined team id ("" until join-team)
	clients map[*Client]string
	rooms   map[string]map[*Client]struct{}

	log *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan joinRequest),
		leave:      make(chan *Client),
		broadcast:  make(chan teamFrame, 256),
		size:       make(chan sizeRequest),
		done:       make(chan struct{}),
		clients:    make(map[*Client]string),
		rooms:      make(map[string]map[*Client]struct{}),
		log:        log,
	}
}

// Run serves hub requests until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = ""

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}

		case req := <-h.join:
			h.handleJoin(req)

		case client := <-h.leave:
			if _, ok := h.clients[client]; ok {
				h.removeFromRoom(client)
				h.clients[client] = ""
			}

		case frame := <-h.broadcast:
			for client := range h.rooms[frame.teamID] {
				select {
				case client.send <- frame.payload:
				default:
					h.log.Warn("Dropping slow websocket client", "user_id", client.UserID, "team_id", frame.teamID)
					h.drop(client)
				}
			}

		case req := <-h.size:
			req.reply <- len(h.rooms[req.teamID])
		}
	}
}

func (h *Hub) handleJoin(req joinRequest) {
	client := req.client
	if _, ok := h.clients[client]; !ok {
		return
	}

	if req.teamID == "" || req.teamID != client.TeamID {
		h.reply(client, Frame{Event: EventError, Data: "Cannot join another team's room"})
		return
	}

	h.removeFromRoom(client)
	room, ok := h.rooms[req.teamID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[req.teamID] = room
	}
	room[client] = struct{}{}
	h.clients[client] = req.teamID

	h.log.Debug("Client joined team room", "user_id", client.UserID, "team_id", req.teamID)
	h.reply(client, Frame{Event: EventJoinedTeam, Data: req.teamID})
}

func (h *Hub) reply(client *Client, frame Frame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		return
	}
	select {
	case client.send <- payload:
	default:
		h.drop(client)
	}
}

func (h *Hub) removeFromRoom(client *Client) {
	teamID := h.clients[client]
	if room, ok := h.rooms[teamID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, teamID)
		}
	}
}

// drop forgets the client and closes its send channel. Only Run calls it.
func (h *Hub) drop(client *Client) {
	h.removeFromRoom(client)
	delete(h.clients, client)
	close(client.send)
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Join asks for client to enter teamID's room. Only the client's own team is
// accepted; the outcome is sent back to the client as an event.
func (h *Hub) Join(client *Client, teamID string) {
	select {
	case h.join <- joinRequest{client: client, teamID: teamID}:
	case <-h.done:
	}
}

func (h *Hub) Leave(client *Client) {
	select {
	case h.leave <- client:
	case <-h.done:
	}
}

// BroadcastToTeam is fire-and-forget: clients that are not in the room, or
// cannot keep up, miss the event.
func (h *Hub) BroadcastToTeam(teamID, event string, payload any) {
	data, err := json.Marshal(Frame{Event: event, Data: payload})
	if err != nil {
		h.log.Error("Failed to encode broadcast", "error", err, "event", event)
		return
	}
	select {
	case h.broadcast <- teamFrame{teamID: teamID, payload: data}:
	case <-h.done:
	}
}

// roomSize reports how many clients are in teamID's room.
func (h *Hub) roomSize(teamID string) int {
	reply := make(chan int, 1)
	select {
	case h.size <- sizeRequest{teamID: teamID, reply: reply}:
		return <-reply
	case <-h.done:
		return 0
	}
}
