package taskService

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nikhil/teamhub/internal/access"
	"github.com/nikhil/teamhub/internal/apperrors"
	"github.com/nikhil/teamhub/internal/logger"
	"github.com/nikhil/teamhub/internal/models"
	"github.com/nikhil/teamhub/internal/realtime"
	activityService "github.com/nikhil/teamhub/internal/service/activity"
	"github.com/nikhil/teamhub/internal/store"
)

type CreateTaskRequest struct {
	Title       string            `json:"title" validate:"required,min=3,max=200"`
	Description string            `json:"description" validate:"max=1000"`
	Status      models.TaskStatus `json:"status,omitempty" validate:"omitempty,oneof=todo in-progress done"`
	ProjectID   string            `json:"projectId" validate:"required"`
	AssignedTo  string            `json:"assignedTo"`
}

// UpdateTaskRequest carries only the fields the caller sent.
type UpdateTaskRequest struct {
	Title       *string            `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description *string            `json:"description,omitempty" validate:"omitempty,max=1000"`
	Status      *models.TaskStatus `json:"status,omitempty" validate:"omitempty,oneof=todo in-progress done"`
	AssignedTo  *string            `json:"assignedTo,omitempty"`

	// Submitted holds every key of the request body, known or not.
	Submitted []string `json:"-"`
}

// Fields lists the submitted field names for the field policy. Keys the
// struct does not carry still count, so they cannot slip past the policy.
func (r UpdateTaskRequest) Fields() []string {
	if r.Submitted != nil {
		return r.Submitted
	}
	var fields []string
	if r.Title != nil {
		fields = append(fields, "title")
	}
	if r.Description != nil {
		fields = append(fields, "description")
	}
	if r.Status != nil {
		fields = append(fields, "status")
	}
	if r.AssignedTo != nil {
		fields = append(fields, "assignedTo")
	}
	return fields
}

// ListTasksRequest holds the query-string filters of GET /tasks.
type ListTasksRequest struct {
	ProjectID  string
	Status     models.TaskStatus
	AssignedTo string
	Search     string
	SortBy     string
	SortOrder  string
}

type TaskService struct {
	Store     store.Store
	Activity  activityService.Recorder
	Broadcast realtime.Broadcaster
	Log       *logger.Logger
	Now       func() time.Time
}

func NewTaskService(s store.Store, activity activityService.Recorder, broadcast realtime.Broadcaster, log *logger.Logger) *TaskService {
	return &TaskService{Store: s, Activity: activity, Broadcast: broadcast, Log: log, Now: time.Now}
}

func (ts *TaskService) query(actor *models.User, req ListTasksRequest) store.TaskQuery {
	q := store.TaskQuery{
		TeamID:     actor.TeamID,
		ProjectID:  req.ProjectID,
		Status:     req.Status,
		AssignedTo: req.AssignedTo,
		Search:     req.Search,
		SortBy:     req.SortBy,
		Ascending:  req.SortOrder == "asc",
	}
	switch q.SortBy {
	case store.TaskSortCreatedAt, store.TaskSortUpdatedAt, store.TaskSortTitle, store.TaskSortStatus:
	default:
		q.SortBy = store.TaskSortCreatedAt
	}
	// Members only ever see their own tasks.
	if actor.Role == models.RoleMember {
		q.AssignedTo = actor.ID
	}
	return q
}

func (ts *TaskService) List(ctx context.Context, actor *models.User, req ListTasksRequest) ([]*models.Task, error) {
	if req.ProjectID != "" {
		if _, err := ts.project(ctx, actor, req.ProjectID, "Project not found"); err != nil {
			return nil, err
		}
	}

	tasks, err := ts.Store.Tasks().List(ctx, ts.query(actor, req))
	if err != nil {
		return nil, apperrors.Unexpected("Failed to fetch tasks", err)
	}
	if err := ts.populate(ctx, tasks...); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (ts *TaskService) Stats(ctx context.Context, actor *models.User) (models.TaskStats, error) {
	stats, err := ts.Store.Tasks().CountByStatus(ctx, ts.query(actor, ListTasksRequest{}))
	if err != nil {
		return stats, apperrors.Unexpected("Failed to fetch task statistics", err)
	}
	return stats, nil
}

// load returns the task when its project belongs to the caller's team.
func (ts *TaskService) load(ctx context.Context, actor *models.User, id string) (*models.Task, *models.Project, error) {
	task, err := ts.Store.Tasks().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, apperrors.NotFound("Task not found")
	}
	if err != nil {
		return nil, nil, apperrors.Unexpected("Failed to fetch task", err)
	}

	project, err := ts.project(ctx, actor, task.ProjectID, "Task not found")
	if err != nil {
		return nil, nil, err
	}
	return task, project, nil
}

func (ts *TaskService) project(ctx context.Context, actor *models.User, projectID, notFound string) (*models.Project, error) {
	project, err := ts.Store.Projects().GetForTeam(ctx, projectID, actor.TeamID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound(notFound)
	}
	if err != nil {
		return nil, apperrors.Unexpected("Failed to fetch project", err)
	}
	return project, nil
}

// checkAssignee rejects assignees outside the caller's team.
func (ts *TaskService) checkAssignee(ctx context.Context, actor *models.User, userID string) error {
	if userID == "" {
		return nil
	}
	user, err := ts.Store.Users().GetByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && user.TeamID != actor.TeamID) {
		return apperrors.Validation("Assigned user not found in team",
			apperrors.FieldError{Field: "assignedTo", Message: "assignedTo must be a member of your team"})
	}
	if err != nil {
		return apperrors.Unexpected("Failed to fetch assignee", err)
	}
	return nil
}

func (ts *TaskService) Get(ctx context.Context, actor *models.User, id string) (*models.Task, error) {
	task, _, err := ts.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := ts.populate(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (ts *TaskService) Create(ctx context.Context, actor *models.User, req CreateTaskRequest) (*models.Task, error) {
	project, err := ts.project(ctx, actor, req.ProjectID, "Project not found or access denied")
	if err != nil {
		return nil, err
	}
	if err := ts.checkAssignee(ctx, actor, req.AssignedTo); err != nil {
		return nil, err
	}

	now := ts.Now().UTC()
	status := req.Status
	if status == "" {
		status = models.TaskTodo
	}
	task := &models.Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		ProjectID:   project.ID,
		AssignedTo:  req.AssignedTo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := ts.Store.Tasks().Create(ctx, task); err != nil {
		return nil, apperrors.Unexpected("Failed to create task", err)
	}
	if err := ts.populate(ctx, task); err != nil {
		return nil, err
	}

	ts.Activity.Record(ctx, activityService.Entry{
		Type:        models.ActivityTaskCreated,
		Description: fmt.Sprintf("%s created task %q", actor.Name, task.Title),
		UserID:      actor.ID,
		TeamID:      actor.TeamID,
		EntityID:    task.ID,
		EntityType:  models.EntityTask,
		Metadata:    map[string]any{"projectName": project.Name},
	})
	return task, nil
}

func (ts *TaskService) Update(ctx context.Context, actor *models.User, id string, req UpdateTaskRequest) (*models.Task, error) {
	task, project, err := ts.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if actor.Role == models.RoleMember && task.AssignedTo != actor.ID {
		return nil, apperrors.Forbidden("You can only update tasks assigned to you")
	}
	if field, ok := access.TaskFields.Check(actor.Role, req.Fields()); !ok {
		ts.Log.Warn("Rejected task field change", "user_id", actor.ID, "task_id", id, "field", field)
		return nil, apperrors.Forbidden("You can only update task status")
	}
	if req.AssignedTo != nil {
		if err := ts.checkAssignee(ctx, actor, *req.AssignedTo); err != nil {
			return nil, err
		}
	}

	previousAssignee := task.AssignedTo
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.AssignedTo != nil {
		task.AssignedTo = *req.AssignedTo
	}
	task.UpdatedAt = ts.Now().UTC()

	if err := ts.Store.Tasks().Update(ctx, task); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Task not found")
		}
		return nil, apperrors.Unexpected("Failed to update task", err)
	}
	if err := ts.populate(ctx, task); err != nil {
		return nil, err
	}

	ts.Broadcast.BroadcastToTeam(actor.TeamID, realtime.EventTaskUpdate, task)

	entry := activityService.Entry{
		Type:        models.ActivityTaskUpdated,
		Description: fmt.Sprintf("%s updated task %q", actor.Name, task.Title),
		UserID:      actor.ID,
		TeamID:      actor.TeamID,
		EntityID:    task.ID,
		EntityType:  models.EntityTask,
		Metadata: map[string]any{
			"projectName": project.Name,
			"status":      task.Status,
			"assignedTo":  task.AssignedTo,
		},
	}
	if task.AssignedTo != "" && task.AssignedTo != previousAssignee {
		entry.Type = models.ActivityTaskAssigned
		entry.Description = fmt.Sprintf("%s assigned task %q", actor.Name, task.Title)
	}
	ts.Activity.Record(ctx, entry)
	return task, nil
}

func (ts *TaskService) Delete(ctx context.Context, actor *models.User, id string) error {
	if _, _, err := ts.load(ctx, actor, id); err != nil {
		return err
	}
	if err := ts.Store.Tasks().Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Task not found")
		}
		return apperrors.Unexpected("Failed to delete task", err)
	}
	ts.Log.Info("Task deleted", "task_id", id, "user_id", actor.ID)
	return nil
}

// populate fills the project and assignee summaries.
func (ts *TaskService) populate(ctx context.Context, tasks ...*models.Task) error {
	projectIDs := make([]string, 0, len(tasks))
	userIDs := make([]string, 0, len(tasks))
	for _, t := range tasks {
		projectIDs = append(projectIDs, t.ProjectID)
		if t.AssignedTo != "" {
			userIDs = append(userIDs, t.AssignedTo)
		}
	}

	projects, err := ts.Store.Projects().Summaries(ctx, projectIDs)
	if err != nil {
		return apperrors.Unexpected("Failed to fetch task projects", err)
	}
	users, err := ts.Store.Users().Summaries(ctx, userIDs)
	if err != nil {
		return apperrors.Unexpected("Failed to fetch task assignees", err)
	}

	for _, t := range tasks {
		t.Project = projects[t.ProjectID]
		t.Assignee = users[t.AssignedTo]
	}
	return nil
}
