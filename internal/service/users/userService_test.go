package userService

import (
	"context"
	"testing"

	"github.com/nikhil/teamhub/internal/apperrors"
	"github.com/nikhil/teamhub/internal/logger"
	"github.com/nikhil/teamhub/internal/models"
	"github.com/nikhil/teamhub/internal/service/servicetest"
	"github.com/nikhil/teamhub/internal/store/memstore"
)

func TestTeamMembers_SortedByRoleThenName(t *testing.T) {
	s := memstore.New()
	fx := servicetest.SeedTeam(t, s, "a", "Alpha", true)
	servicetest.SeedTeam(t, s, "b", "Beta", false)
	svc := NewUserService(s, logger.Nop())

	users, err := svc.TeamMembers(context.Background(), fx.Member)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	want := []models.Role{models.RoleAdmin, models.RoleManager, models.RoleMember}
	if len(users) != len(want) {
		t.Fatalf("expected %d members, got %d", len(want), len(users))
	}
	for i, u := range users {
		if u.Role != want[i] || u.TeamID != fx.Team.ID {
			t.Errorf("position %d: got %s in %s", i, u.Role, u.TeamID)
		}
	}
}

func TestUpdateRole(t *testing.T) {
	s := memstore.New()
	fx := servicetest.SeedTeam(t, s, "a", "Alpha", true)
	other := servicetest.SeedTeam(t, s, "b", "Beta", false)
	svc := NewUserService(s, logger.Nop())
	ctx := context.Background()

	if _, err := svc.UpdateRole(ctx, fx.Admin, fx.Member.ID, models.Role("OWNER")); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("expected invalid role to be rejected, got %v", err)
	}
	if _, err := svc.UpdateRole(ctx, fx.Admin, other.Member.ID, models.RoleManager); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("expected outsider to be not found, got %v", err)
	}

	_, err := svc.UpdateRole(ctx, fx.Admin, fx.Admin.ID, models.RoleMember)
	if apperrors.KindOf(err) != apperrors.KindValidation || err.Error() != "Cannot remove the only admin from team" {
		t.Errorf("expected only-admin guard, got %v", err)
	}

	promoted, err := svc.UpdateRole(ctx, fx.Admin, fx.Manager.ID, models.RoleAdmin)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if promoted.Role != models.RoleAdmin {
		t.Errorf("expected ADMIN, got %s", promoted.Role)
	}

	// With a second admin the self-demotion is allowed.
	demoted, err := svc.UpdateRole(ctx, fx.Admin, fx.Admin.ID, models.RoleMember)
	if err != nil {
		t.Fatalf("demote: %v", err)
	}
	if demoted.Role != models.RoleMember {
		t.Errorf("expected MEMBER, got %s", demoted.Role)
	}
}
