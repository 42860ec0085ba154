package teamService

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nikhil/teamhub/internal/apperrors"
	"github.com/nikhil/teamhub/internal/logger"
	"github.com/nikhil/teamhub/internal/models"
	activityService "github.com/nikhil/teamhub/internal/service/activity"
	"github.com/nikhil/teamhub/internal/store"
)

const defaultTeamDescription = "Main company team for all employees"

// TeamService owns the default team and keeps User.TeamID in step with the
// team's member set.
type TeamService struct {
	Store           store.Store
	Activity        activityService.Recorder
	Log             *logger.Logger
	DefaultTeamName string
	Now             func() time.Time
}

func NewTeamService(s store.Store, activity activityService.Recorder, defaultTeamName string, log *logger.Logger) *TeamService {
	return &TeamService{
		Store:           s,
		Activity:        activity,
		Log:             log,
		DefaultTeamName: defaultTeamName,
		Now:             time.Now,
	}
}

// NewDefaultTeam builds the default team with admin as its only member.
func (ts *TeamService) NewDefaultTeam(admin *models.User) *models.Team {
	return &models.Team{
		ID:          uuid.NewString(),
		Name:        ts.DefaultTeamName,
		Description: defaultTeamDescription,
		AdminID:     admin.ID,
		IsDefault:   true,
		Members:     []string{admin.ID},
		CreatedAt:   ts.Now().UTC(),
	}
}

// JoinDefaultTeam places user in the default team inside tx, creating the
// team with user as ADMIN when none exists. It returns the team.
func (ts *TeamService) JoinDefaultTeam(ctx context.Context, tx store.Store, user *models.User) (*models.Team, error) {
	team, err := tx.Teams().GetDefault(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		team = ts.NewDefaultTeam(user)
		if err := tx.Teams().Create(ctx, team); err != nil {
			return nil, fmt.Errorf("creating default team: %w", err)
		}
		user.Role = models.RoleAdmin
		ts.Log.Info("Created default team", "team_id", team.ID, "admin_id", user.ID)
	case err != nil:
		return nil, fmt.Errorf("loading default team: %w", err)
	default:
		if err := tx.Teams().AddMember(ctx, team.ID, user.ID); err != nil {
			return nil, fmt.Errorf("adding team member: %w", err)
		}
		if !team.HasMember(user.ID) {
			team.Members = append(team.Members, user.ID)
		}
	}

	if err := tx.Users().SetTeam(ctx, user.ID, team.ID, user.Role); err != nil {
		return nil, fmt.Errorf("assigning user team: %w", err)
	}
	user.TeamID = team.ID
	return team, nil
}

// EnsureMembership repairs a user without a team. Users already in a team
// are returned unchanged.
func (ts *TeamService) EnsureMembership(ctx context.Context, user *models.User) (*models.User, error) {
	if user.HasTeam() {
		return user, nil
	}

	var joined *models.Team
	attempt := func() error {
		u := *user
		return ts.Store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
			team, err := ts.JoinDefaultTeam(ctx, tx, &u)
			if err != nil {
				return err
			}
			joined = team
			*user = u
			return nil
		})
	}

	err := attempt()
	if errors.Is(err, store.ErrConflict) {
		// Another request created the default team first; join it instead.
		err = attempt()
	}
	if err != nil {
		return nil, apperrors.Unexpected("Failed to assign user to team", err)
	}

	ts.Activity.Record(ctx, activityService.Entry{
		Type:        models.ActivityUserJoined,
		Description: fmt.Sprintf("%s joined the company team", user.Name),
		UserID:      user.ID,
		TeamID:      joined.ID,
		EntityID:    user.ID,
		EntityType:  models.EntityUser,
	})
	return user, nil
}

// GetTeam loads the caller's team.
func (ts *TeamService) GetTeam(ctx context.Context, teamID string) (*models.Team, error) {
	team, err := ts.Store.Teams().GetByID(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound("Team not found")
	}
	if err != nil {
		return nil, apperrors.Unexpected("Failed to load team", err)
	}
	return team, nil
}

// Diagnostic is the result of a membership repair run.
type Diagnostic struct {
	TotalUsers         int             `json:"totalUsers"`
	UsersInCompanyTeam int             `json:"usersInCompanyTeam"`
	UsersFixed         int             `json:"usersFixed"`
	CompanyTeam        *models.Team    `json:"companyTeam"`
	AllUsers           []*models.User  `json:"allUsers"`
	AllTeams           []*TeamOverview `json:"allTeams"`
}

// TeamOverview is a team with its member ids resolved to users.
type TeamOverview struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	AdminID   string         `json:"adminId"`
	IsDefault bool           `json:"isDefault"`
	Members   []*models.User `json:"members"`
}

// RepairMembership moves every unassigned user into the default team and
// reports the resulting state.
func (ts *TeamService) RepairMembership(ctx context.Context) (*Diagnostic, error) {
	orphans, err := ts.Store.Users().ListWithoutTeam(ctx)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to list unassigned users", err)
	}

	fixed := 0
	for _, u := range orphans {
		if _, err := ts.EnsureMembership(ctx, u); err != nil {
			ts.Log.Error("Failed to repair user membership", "error", err, "user_id", u.ID)
			continue
		}
		fixed++
	}

	all, err := ts.Store.Users().ListAll(ctx)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to list users", err)
	}

	teams, err := ts.Store.Teams().ListAll(ctx)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to list teams", err)
	}

	diag := &Diagnostic{TotalUsers: len(all), UsersFixed: fixed, AllUsers: all, AllTeams: overview(teams, all)}
	team, err := ts.Store.Teams().GetDefault(ctx)
	switch {
	case err == nil:
		diag.CompanyTeam = team
		diag.UsersInCompanyTeam = len(team.Members)
	case !errors.Is(err, store.ErrNotFound):
		return nil, apperrors.Unexpected("Failed to load default team", err)
	}

	ts.Log.Info("Membership repair finished", "total_users", diag.TotalUsers, "users_fixed", fixed)
	return diag, nil
}

func overview(teams []*models.Team, users []*models.User) []*TeamOverview {
	byID := make(map[string]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]*TeamOverview, 0, len(teams))
	for _, t := range teams {
		o := &TeamOverview{ID: t.ID, Name: t.Name, AdminID: t.AdminID, IsDefault: t.IsDefault, Members: []*models.User{}}
		for _, id := range t.Members {
			if u, ok := byID[id]; ok {
				o.Members = append(o.Members, u)
			}
		}
		out = append(out, o)
	}
	return out
}
