package authService

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nikhil/teamhub/internal/apperrors"
	"github.com/nikhil/teamhub/internal/identity"
	"github.com/nikhil/teamhub/internal/logger"
	"github.com/nikhil/teamhub/internal/models"
	activityService "github.com/nikhil/teamhub/internal/service/activity"
	teamService "github.com/nikhil/teamhub/internal/service/team"
	"github.com/nikhil/teamhub/internal/store"
)

// AuthService maps verified identities onto local users.
type AuthService struct {
	Store              store.Store
	Teams              *teamService.TeamService
	Activity           activityService.Recorder
	Log                *logger.Logger
	AllowRequestedRole bool
	Now                func() time.Time
}

func NewAuthService(s store.Store, teams *teamService.TeamService, activity activityService.Recorder, allowRequestedRole bool, log *logger.Logger) *AuthService {
	return &AuthService{
		Store:              s,
		Teams:              teams,
		Activity:           activity,
		Log:                log,
		AllowRequestedRole: allowRequestedRole,
		Now:                time.Now,
	}
}

// Resolve returns the user for id, creating a MEMBER on first sight, and
// makes sure the user belongs to a team.
func (as *AuthService) Resolve(ctx context.Context, id *identity.Identity) (*models.User, error) {
	user, err := as.Store.Users().GetBySubject(ctx, id.Subject)
	if errors.Is(err, store.ErrNotFound) {
		user = &models.User{
			ID:        uuid.NewString(),
			Subject:   id.Subject,
			Email:     normalizeEmail(id.Email),
			Name:      id.DisplayName(),
			Role:      models.RoleMember,
			CreatedAt: as.Now().UTC(),
		}
		err = as.Store.Users().Create(ctx, user)
		if errors.Is(err, store.ErrConflict) {
			// Lost a race with a concurrent first request for the same subject.
			user, err = as.Store.Users().GetBySubject(ctx, id.Subject)
		}
		if err == nil {
			as.Log.Info("Created user from identity", "user_id", user.ID)
		}
	}
	if errors.Is(err, store.ErrConflict) {
		return nil, apperrors.Conflict("User account could not be created", err)
	}
	if err != nil {
		return nil, apperrors.Unexpected("Failed to resolve user", err)
	}

	return as.Teams.EnsureMembership(ctx, user)
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email string      `json:"email" validate:"required,email"`
	Name  string      `json:"name" validate:"required,min=2,max=50"`
	Role  models.Role `json:"role,omitempty" validate:"omitempty,oneof=ADMIN MANAGER MEMBER"`
}

type RegisterResult struct {
	User    *models.User `json:"user"`
	Team    *models.Team `json:"team,omitempty"`
	Created bool         `json:"-"`
}

// Register creates the local account for id. An existing account matching
// the e-mail or subject is returned as is. The first account ever created
// becomes ADMIN of a fresh default team.
func (as *AuthService) Register(ctx context.Context, id *identity.Identity, req RegisterRequest) (*RegisterResult, error) {
	email := normalizeEmail(req.Email)
	if id.Email != "" && normalizeEmail(id.Email) != email {
		return nil, apperrors.Forbidden("Email does not match the signed-in account")
	}

	existing, err := as.Store.Users().GetByEmailOrSubject(ctx, email, id.Subject)
	if err == nil {
		return &RegisterResult{User: existing}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.Unexpected("Failed to look up user", err)
	}

	role := models.RoleMember
	if as.AllowRequestedRole && req.Role.Valid() {
		role = req.Role
	}

	user := &models.User{
		ID:        uuid.NewString(),
		Subject:   id.Subject,
		Email:     email,
		Name:      strings.TrimSpace(req.Name),
		Role:      role,
		CreatedAt: as.Now().UTC(),
	}

	var team *models.Team
	for attempt := 0; ; attempt++ {
		err = as.Store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
			count, err := tx.Users().Count(ctx)
			if err != nil {
				return err
			}
			if err := tx.Users().Create(ctx, user); err != nil {
				return err
			}
			if count == 0 {
				user.Role = models.RoleAdmin
			}
			team, err = as.Teams.JoinDefaultTeam(ctx, tx, user)
			return err
		})
		if !errors.Is(err, store.ErrConflict) || attempt > 0 {
			break
		}
		// A concurrent registration won either the account or the default team.
		if existing, lookupErr := as.Store.Users().GetByEmailOrSubject(ctx, email, id.Subject); lookupErr == nil {
			return &RegisterResult{User: existing}, nil
		}
		user.Role, user.TeamID = role, ""
	}
	if errors.Is(err, store.ErrConflict) {
		return nil, apperrors.Conflict("User already exists", err)
	}
	if err != nil {
		return nil, apperrors.Unexpected("Failed to register user", err)
	}

	as.Log.Info("User registered", "user_id", user.ID, "role", user.Role, "team_id", team.ID)
	as.Activity.Record(ctx, activityService.Entry{
		Type:        models.ActivityUserJoined,
		Description: user.Name + " joined the company team",
		UserID:      user.ID,
		TeamID:      team.ID,
		EntityID:    user.ID,
		EntityType:  models.EntityUser,
	})

	return &RegisterResult{User: user, Team: team, Created: true}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
