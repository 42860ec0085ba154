package userService

import (
	"context"
	"errors"

	"github.com/nikhil/teamhub/internal/apperrors"
	"github.com/nikhil/teamhub/internal/logger"
	"github.com/nikhil/teamhub/internal/models"
	"github.com/nikhil/teamhub/internal/store"
)

type UpdateRoleRequest struct {
	Role models.Role `json:"role" validate:"required"`
}

type UserService struct {
	Store store.Store
	Log   *logger.Logger
}

func NewUserService(s store.Store, log *logger.Logger) *UserService {
	return &UserService{Store: s, Log: log}
}

// TeamMembers lists the caller's team ordered by role then name.
func (us *UserService) TeamMembers(ctx context.Context, actor *models.User) ([]*models.User, error) {
	users, err := us.Store.Users().ListByTeam(ctx, actor.TeamID)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to fetch team members", err)
	}
	return users, nil
}

// UpdateRole changes a teammate's role. The team's last ADMIN cannot demote
// themselves.
func (us *UserService) UpdateRole(ctx context.Context, actor *models.User, targetID string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, apperrors.Validation("Invalid role",
			apperrors.FieldError{Field: "role", Message: "role must be one of [ADMIN MANAGER MEMBER]"})
	}

	var target *models.User
	err := us.Store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		u, err := tx.Users().GetByID(ctx, targetID)
		if errors.Is(err, store.ErrNotFound) || (err == nil && u.TeamID != actor.TeamID) {
			return apperrors.NotFound("User not found in your team")
		}
		if err != nil {
			return err
		}

		if u.ID == actor.ID && u.Role == models.RoleAdmin && role != models.RoleAdmin {
			admins, err := tx.Users().CountByTeamAndRole(ctx, actor.TeamID, models.RoleAdmin)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return apperrors.Validation("Cannot remove the only admin from team")
			}
		}

		if err := tx.Users().UpdateRole(ctx, u.ID, role); err != nil {
			return err
		}
		u.Role = role
		target = u
		return nil
	})
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindUnexpected {
			return nil, err
		}
		return nil, apperrors.Unexpected("Failed to update user role", err)
	}

	us.Log.Audit("User role changed", "actor_id", actor.ID, "user_id", target.ID, "role", role)
	return target, nil
}
