package activityService

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nikhil/teamhub/internal/apperrors"
	"github.com/nikhil/teamhub/internal/logger"
	"github.com/nikhil/teamhub/internal/models"
	"github.com/nikhil/teamhub/internal/store"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Entry is one audit event to record.
type Entry struct {
	Type        models.ActivityType
	Description string
	UserID      string
	TeamID      string
	EntityID    string
	EntityType  models.EntityType
	Metadata    map[string]any
}

// Recorder appends audit events. Recording never fails the caller.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

type ActivityService struct {
	Store store.Store
	Log   *logger.Logger
	Now   func() time.Time
}

func NewActivityService(s store.Store, log *logger.Logger) *ActivityService {
	return &ActivityService{Store: s, Log: log, Now: time.Now}
}

// Record appends e. Failures are logged and swallowed.
func (as *ActivityService) Record(ctx context.Context, e Entry) {
	if !e.Type.Valid() {
		as.Log.Warn("Skipping activity with unknown type", "type", e.Type)
		return
	}

	a := &models.Activity{
		ID:          uuid.NewString(),
		Type:        e.Type,
		Description: e.Description,
		UserID:      e.UserID,
		TeamID:      e.TeamID,
		EntityID:    e.EntityID,
		EntityType:  e.EntityType,
		Metadata:    e.Metadata,
		Timestamp:   as.Now().UTC(),
	}
	if err := as.Store.Activities().Create(ctx, a); err != nil {
		as.Log.WithContext(ctx).Error("Failed to record activity", "error", err, "type", e.Type, "team_id", e.TeamID)
	}
}

// ClampLimit applies the default and the upper bound to a requested limit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func (as *ActivityService) ForTeam(ctx context.Context, teamID string, limit int) ([]*models.Activity, error) {
	activities, err := as.Store.Activities().ListByTeam(ctx, teamID, ClampLimit(limit))
	if err != nil {
		return nil, apperrors.Unexpected("Failed to fetch team activities", err)
	}
	return as.populate(ctx, activities)
}

func (as *ActivityService) ForUser(ctx context.Context, userID string, limit int) ([]*models.Activity, error) {
	activities, err := as.Store.Activities().ListByUser(ctx, userID, ClampLimit(limit))
	if err != nil {
		return nil, apperrors.Unexpected("Failed to fetch user activities", err)
	}
	return as.populate(ctx, activities)
}

func (as *ActivityService) populate(ctx context.Context, activities []*models.Activity) ([]*models.Activity, error) {
	ids := make([]string, 0, len(activities))
	for _, a := range activities {
		ids = append(ids, a.UserID)
	}
	users, err := as.Store.Users().Summaries(ctx, ids)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to fetch activity authors", err)
	}
	for _, a := range activities {
		a.User = users[a.UserID]
	}
	return activities, nil
}
