// Package store defines the persistence contract. Implementations return the
// sentinel errors below and leave translation to the services.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/nikhil/teamhub/internal/models"
)

var (
	ErrNotFound = errors.New("store: not found")
	ErrConflict = errors.New("store: conflict")
)

type Users interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetBySubject(ctx context.Context, subject string) (*models.User, error)
	// GetByEmailOrSubject matches either unique key.
	GetByEmailOrSubject(ctx context.Context, email, subject string) (*models.User, error)
	Count(ctx context.Context) (int, error)
	// ListByTeam returns team users ordered by role rank then name.
	ListByTeam(ctx context.Context, teamID string) ([]*models.User, error)
	ListAll(ctx context.Context) ([]*models.User, error)
	ListWithoutTeam(ctx context.Context) ([]*models.User, error)
	CountByTeamAndRole(ctx context.Context, teamID string, role models.Role) (int, error)
	UpdateRole(ctx context.Context, id string, role models.Role) error
	SetTeam(ctx context.Context, id, teamID string, role models.Role) error
	Summaries(ctx context.Context, ids []string) (map[string]*models.UserSummary, error)
}

type Teams interface {
	Create(ctx context.Context, t *models.Team) error
	GetByID(ctx context.Context, id string) (*models.Team, error)
	GetDefault(ctx context.Context) (*models.Team, error)
	// ListAll returns every team, oldest first.
	ListAll(ctx context.Context) ([]*models.Team, error)
	// AddMember is idempotent; adding an existing member is a no-op.
	AddMember(ctx context.Context, teamID, userID string) error
	RemoveMember(ctx context.Context, teamID, userID string) error
}

type Projects interface {
	Create(ctx context.Context, p *models.Project) error
	GetForTeam(ctx context.Context, id, teamID string) (*models.Project, error)
	ListByTeam(ctx context.Context, teamID string) ([]*models.Project, error)
	Update(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id, teamID string) error
	Summaries(ctx context.Context, ids []string) (map[string]*models.ProjectSummary, error)
}

// Sort keys accepted by TaskQuery.
const (
	TaskSortCreatedAt = "createdAt"
	TaskSortUpdatedAt = "updatedAt"
	TaskSortTitle     = "title"
	TaskSortStatus    = "status"
)

// TaskQuery filters tasks to those whose project belongs to TeamID.
type TaskQuery struct {
	TeamID     string
	ProjectID  string
	Status     models.TaskStatus
	AssignedTo string
	Search     string
	SortBy     string
	Ascending  bool
}

type Tasks interface {
	Create(ctx context.Context, t *models.Task) error
	GetByID(ctx context.Context, id string) (*models.Task, error)
	List(ctx context.Context, q TaskQuery) ([]*models.Task, error)
	CountByStatus(ctx context.Context, q TaskQuery) (models.TaskStats, error)
	Update(ctx context.Context, t *models.Task) error
	Delete(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) error
}

type Messages interface {
	Create(ctx context.Context, m *models.Message) error
	// ListBefore returns up to limit messages older than before (zero means
	// now), newest first.
	ListBefore(ctx context.Context, teamID string, before time.Time, limit int) ([]*models.Message, error)
}

type Invitations interface {
	Create(ctx context.Context, inv *models.Invitation) error
	// GetActiveByCode only matches unused invitations that expire after now.
	GetActiveByCode(ctx context.Context, code string, now time.Time) (*models.Invitation, error)
	// MarkUsed flips an active invitation to used. It returns ErrNotFound when
	// the invitation was already used or has expired.
	MarkUsed(ctx context.Context, id, userID string, now time.Time) error
	ListActiveByTeam(ctx context.Context, teamID string, now time.Time) ([]*models.Invitation, error)
	Delete(ctx context.Context, id, teamID string) error
}

type Activities interface {
	Create(ctx context.Context, a *models.Activity) error
	ListByTeam(ctx context.Context, teamID string, limit int) ([]*models.Activity, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Activity, error)
}

// Store groups the repositories. WithTx runs fn against a transactional view;
// fn's error rolls everything back.
type Store interface {
	Users() Users
	Teams() Teams
	Projects() Projects
	Tasks() Tasks
	Messages() Messages
	Invitations() Invitations
	Activities() Activities
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
	Ping(ctx context.Context) error
}
