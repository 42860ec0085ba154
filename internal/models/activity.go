package models

import "time"

type ActivityType string

const (
	ActivityProjectCreated    ActivityType = "project_created"
	ActivityProjectUpdated    ActivityType = "project_updated"
	ActivityTaskCreated       ActivityType = "task_created"
	ActivityTaskUpdated       ActivityType = "task_updated"
	ActivityTaskAssigned      ActivityType = "task_assigned"
	ActivityMessageSent       ActivityType = "message_sent"
	ActivityUserJoined        ActivityType = "user_joined"
	ActivityInvitationCreated ActivityType = "invitation_created"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityProjectCreated, ActivityProjectUpdated, ActivityTaskCreated,
		ActivityTaskUpdated, ActivityTaskAssigned, ActivityMessageSent,
		ActivityUserJoined, ActivityInvitationCreated:
		return true
	}
	return false
}

type EntityType string

const (
	EntityProject    EntityType = "project"
	EntityTask       EntityType = "task"
	EntityMessage    EntityType = "message"
	EntityUser       EntityType = "user"
	EntityInvitation EntityType = "invitation"
)

// Activity is an immutable audit record.
type Activity struct {
	ID          string         `json:"id"`
	Type        ActivityType   `json:"type"`
	Description string         `json:"description"`
	UserID      string         `json:"userId"`
	TeamID      string         `json:"teamId"`
	EntityID    string         `json:"entityId,omitempty"`
	EntityType  EntityType     `json:"entityType,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`

	User *UserSummary `json:"user,omitempty"`
}
