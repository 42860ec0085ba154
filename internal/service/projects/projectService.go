package projectService

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nikhil/teamhub/internal/apperrors"
	"github.com/nikhil/teamhub/internal/logger"
	"github.com/nikhil/teamhub/internal/models"
	"github.com/nikhil/teamhub/internal/realtime"
	activityService "github.com/nikhil/teamhub/internal/service/activity"
	"github.com/nikhil/teamhub/internal/store"
)

type CreateProjectRequest struct {
	Name        string               `json:"name" validate:"required,min=3,max=100"`
	Description string               `json:"description" validate:"max=500"`
	Status      models.ProjectStatus `json:"status,omitempty" validate:"omitempty,oneof=active in-progress completed on-hold"`
}

// UpdateProjectRequest carries only the fields the caller sent.
type UpdateProjectRequest struct {
	Name        *string               `json:"name,omitempty" validate:"omitempty,min=3,max=100"`
	Description *string               `json:"description,omitempty" validate:"omitempty,max=500"`
	Status      *models.ProjectStatus `json:"status,omitempty" validate:"omitempty,oneof=active in-progress completed on-hold"`
}

type ProjectService struct {
	Store     store.Store
	Activity  activityService.Recorder
	Broadcast realtime.Broadcaster
	Log       *logger.Logger
	Now       func() time.Time
}

func NewProjectService(s store.Store, activity activityService.Recorder, broadcast realtime.Broadcaster, log *logger.Logger) *ProjectService {
	return &ProjectService{Store: s, Activity: activity, Broadcast: broadcast, Log: log, Now: time.Now}
}

func (ps *ProjectService) List(ctx context.Context, actor *models.User) ([]*models.Project, error) {
	projects, err := ps.Store.Projects().ListByTeam(ctx, actor.TeamID)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to fetch projects", err)
	}
	return projects, nil
}

func (ps *ProjectService) Get(ctx context.Context, actor *models.User, id string) (*models.Project, error) {
	project, err := ps.Store.Projects().GetForTeam(ctx, id, actor.TeamID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound("Project not found")
	}
	if err != nil {
		return nil, apperrors.Unexpected("Failed to fetch project", err)
	}
	return project, nil
}

func (ps *ProjectService) Create(ctx context.Context, actor *models.User, req CreateProjectRequest) (*models.Project, error) {
	now := ps.Now().UTC()
	status := req.Status
	if status == "" {
		status = models.ProjectActive
	}

	project := &models.Project{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		TeamID:      actor.TeamID,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := ps.Store.Projects().Create(ctx, project); err != nil {
		return nil, apperrors.Unexpected("Failed to create project", err)
	}

	ps.Log.Info("Project created", "project_id", project.ID, "team_id", project.TeamID, "user_id", actor.ID)
	ps.Activity.Record(ctx, activityService.Entry{
		Type:        models.ActivityProjectCreated,
		Description: fmt.Sprintf("%s created project %q", actor.Name, project.Name),
		UserID:      actor.ID,
		TeamID:      actor.TeamID,
		EntityID:    project.ID,
		EntityType:  models.EntityProject,
	})
	return project, nil
}

func (ps *ProjectService) Update(ctx context.Context, actor *models.User, id string, req UpdateProjectRequest) (*models.Project, error) {
	project, err := ps.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	project.UpdatedAt = ps.Now().UTC()

	if err := ps.Store.Projects().Update(ctx, project); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Project not found")
		}
		return nil, apperrors.Unexpected("Failed to update project", err)
	}

	ps.Broadcast.BroadcastToTeam(actor.TeamID, realtime.EventProjectUpdate, project)
	ps.Activity.Record(ctx, activityService.Entry{
		Type:        models.ActivityProjectUpdated,
		Description: fmt.Sprintf("%s updated project %q", actor.Name, project.Name),
		UserID:      actor.ID,
		TeamID:      actor.TeamID,
		EntityID:    project.ID,
		EntityType:  models.EntityProject,
		Metadata:    map[string]any{"status": project.Status},
	})
	return project, nil
}

// Delete removes the project and its tasks.
func (ps *ProjectService) Delete(ctx context.Context, actor *models.User, id string) error {
	err := ps.Store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		if err := tx.Projects().Delete(ctx, id, actor.TeamID); err != nil {
			return err
		}
		return tx.Tasks().DeleteByProject(ctx, id)
	})
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound("Project not found")
	}
	if err != nil {
		return apperrors.Unexpected("Failed to delete project", err)
	}

	ps.Log.Info("Project deleted", "project_id", id, "team_id", actor.TeamID, "user_id", actor.ID)
	return nil
}
