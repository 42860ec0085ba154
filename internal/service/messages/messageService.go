package messageService

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/nikhil/teamhub/internal/apperrors"
	"github.com/nikhil/teamhub/internal/logger"
	"github.com/nikhil/teamhub/internal/models"
	"github.com/nikhil/teamhub/internal/realtime"
	activityService "github.com/nikhil/teamhub/internal/service/activity"
	"github.com/nikhil/teamhub/internal/store"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

type MessageService struct {
	Store     store.Store
	Activity  activityService.Recorder
	Broadcast realtime.Broadcaster
	Log       *logger.Logger
	Now       func() time.Time
}

func NewMessageService(s store.Store, activity activityService.Recorder, broadcast realtime.Broadcaster, log *logger.Logger) *MessageService {
	return &MessageService{Store: s, Activity: activity, Broadcast: broadcast, Log: log, Now: time.Now}
}

// List returns the newest limit messages sent before the cursor, oldest
// first. A zero cursor means now.
func (ms *MessageService) List(ctx context.Context, actor *models.User, before time.Time, limit int) ([]*models.Message, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	messages, err := ms.Store.Messages().ListBefore(ctx, actor.TeamID, before, limit)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to fetch messages", err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.SenderID)
	}
	senders, err := ms.Store.Users().Summaries(ctx, ids)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to fetch message senders", err)
	}
	for _, m := range messages {
		m.Sender = senders[m.SenderID]
	}
	return messages, nil
}

// Send stores a chat message and pushes it to the team room.
func (ms *MessageService) Send(ctx context.Context, actor *models.User, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.Validation("Message content is required",
			apperrors.FieldError{Field: "content", Message: "content is required"})
	}
	if utf8.RuneCountInString(content) > models.MaxMessageLength {
		return nil, apperrors.Validation("Message is too long",
			apperrors.FieldError{Field: "content", Message: "content must be at most 1000 characters long"})
	}

	msg := &models.Message{
		ID:        uuid.NewString(),
		Content:   content,
		SenderID:  actor.ID,
		TeamID:    actor.TeamID,
		Timestamp: ms.Now().UTC(),
	}
	if err := ms.Store.Messages().Create(ctx, msg); err != nil {
		return nil, apperrors.Unexpected("Failed to send message", err)
	}
	msg.Sender = actor.Summary()

	ms.Broadcast.BroadcastToTeam(actor.TeamID, realtime.EventMessageReceived, msg)
	ms.Activity.Record(ctx, activityService.Entry{
		Type:        models.ActivityMessageSent,
		Description: actor.Name + " sent a message",
		UserID:      actor.ID,
		TeamID:      actor.TeamID,
		EntityID:    msg.ID,
		EntityType:  models.EntityMessage,
	})
	return msg, nil
}
