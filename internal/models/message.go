package models

import "time"

// MaxMessageLength bounds chat message content.
const MaxMessageLength = 1000

type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	SenderID  string    `json:"senderId"`
	TeamID    string    `json:"teamId"`
	Timestamp time.Time `json:"timestamp"`

	Sender *UserSummary `json:"sender,omitempty"`
}
