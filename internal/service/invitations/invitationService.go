package invitationService

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nikhil/teamhub/internal/apperrors"
	"github.com/nikhil/teamhub/internal/logger"
	"github.com/nikhil/teamhub/internal/mailer"
	"github.com/nikhil/teamhub/internal/models"
	activityService "github.com/nikhil/teamhub/internal/service/activity"
	"github.com/nikhil/teamhub/internal/store"
)

const codeBytes = 16

type CreateInvitationRequest struct {
	Email string      `json:"email,omitempty" validate:"omitempty,email"`
	Role  models.Role `json:"role,omitempty" validate:"omitempty,oneof=ADMIN MANAGER MEMBER"`
}

type UseInvitationRequest struct {
	Code string `json:"code" validate:"required"`
}

type CreatedInvitation struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	InvitationURL string    `json:"invitationUrl"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// InvitationPreview is what an invitee sees before accepting.
type InvitationPreview struct {
	TeamName        string      `json:"teamName"`
	TeamDescription string      `json:"teamDescription"`
	Role            models.Role `json:"role"`
	Email           string      `json:"email,omitempty"`
}

type InvitationService struct {
	Store       store.Store
	Activity    activityService.Recorder
	Mailer      mailer.Mailer
	Log         *logger.Logger
	FrontendURL string
	TTL         time.Duration
	Now         func() time.Time
}

func NewInvitationService(s store.Store, activity activityService.Recorder, m mailer.Mailer, frontendURL string, ttl time.Duration, log *logger.Logger) *InvitationService {
	return &InvitationService{
		Store:       s,
		Activity:    activity,
		Mailer:      m,
		Log:         log,
		FrontendURL: frontendURL,
		TTL:         ttl,
		Now:         time.Now,
	}
}

// NewCode returns an unguessable hex invitation code.
func NewCode() (string, error) {
	b := make([]byte, codeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (is *InvitationService) URL(code string) string {
	return is.FrontendURL + "/join/" + code
}

func (is *InvitationService) Create(ctx context.Context, actor *models.User, req CreateInvitationRequest) (*CreatedInvitation, error) {
	code, err := NewCode()
	if err != nil {
		return nil, apperrors.Unexpected("Failed to generate invitation code", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleMember
	}
	// Lower rank is more privileged.
	if role.Rank() < actor.Role.Rank() {
		return nil, apperrors.Forbidden("You cannot invite users with a role above your own")
	}
	now := is.Now().UTC()
	inv := &models.Invitation{
		ID:        uuid.NewString(),
		Code:      code,
		TeamID:    actor.TeamID,
		CreatedBy: actor.ID,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Role:      role,
		ExpiresAt: now.Add(is.TTL),
		CreatedAt: now,
	}
	if err := is.Store.Invitations().Create(ctx, inv); err != nil {
		return nil, apperrors.Unexpected("Failed to create invitation", err)
	}

	created := &CreatedInvitation{ID: inv.ID, Code: code, InvitationURL: is.URL(code), ExpiresAt: inv.ExpiresAt}

	is.Activity.Record(ctx, activityService.Entry{
		Type:        models.ActivityInvitationCreated,
		Description: fmt.Sprintf("%s created an invitation for %s", actor.Name, describeTarget(inv)),
		UserID:      actor.ID,
		TeamID:      actor.TeamID,
		EntityID:    inv.ID,
		EntityType:  models.EntityInvitation,
		Metadata:    map[string]any{"role": role},
	})

	if inv.Email != "" {
		is.sendMail(ctx, actor, inv, created.InvitationURL)
	}
	return created, nil
}

func describeTarget(inv *models.Invitation) string {
	if inv.Email != "" {
		return inv.Email
	}
	return "a new " + strings.ToLower(string(inv.Role))
}

// sendMail is best effort; the invitation stands even if delivery fails.
func (is *InvitationService) sendMail(ctx context.Context, actor *models.User, inv *models.Invitation, url string) {
	teamName := ""
	if team, err := is.Store.Teams().GetByID(ctx, inv.TeamID); err == nil {
		teamName = team.Name
	}
	err := is.Mailer.SendInvitation(ctx, mailer.Invitation{
		To:            inv.Email,
		TeamName:      teamName,
		InviterName:   actor.Name,
		Role:          string(inv.Role),
		InvitationURL: url,
	})
	if err != nil {
		is.Log.Warn("Failed to send invitation e-mail", "error", err, "invitation_id", inv.ID)
	}
}

// List returns the team's unexpired invitations, used ones included.
func (is *InvitationService) List(ctx context.Context, actor *models.User) ([]*models.Invitation, error) {
	invitations, err := is.Store.Invitations().ListActiveByTeam(ctx, actor.TeamID, is.Now().UTC())
	if err != nil {
		return nil, apperrors.Unexpected("Failed to fetch invitations", err)
	}

	ids := make([]string, 0, len(invitations)*2)
	for _, inv := range invitations {
		ids = append(ids, inv.CreatedBy)
		if inv.UsedBy != "" {
			ids = append(ids, inv.UsedBy)
		}
	}
	users, err := is.Store.Users().Summaries(ctx, ids)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to fetch invitation users", err)
	}
	for _, inv := range invitations {
		inv.Creator = users[inv.CreatedBy]
		inv.Consumer = users[inv.UsedBy]
	}
	return invitations, nil
}

// Validate previews an active invitation without changing it.
func (is *InvitationService) Validate(ctx context.Context, code string) (*InvitationPreview, error) {
	inv, err := is.active(ctx, is.Store, code)
	if err != nil {
		return nil, err
	}
	team, err := is.Store.Teams().GetByID(ctx, inv.TeamID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound("Invalid or expired invitation code")
	}
	if err != nil {
		return nil, apperrors.Unexpected("Failed to load team", err)
	}
	return &InvitationPreview{
		TeamName:        team.Name,
		TeamDescription: team.Description,
		Role:            inv.Role,
		Email:           inv.Email,
	}, nil
}

func (is *InvitationService) active(ctx context.Context, s store.Store, code string) (*models.Invitation, error) {
	inv, err := s.Invitations().GetActiveByCode(ctx, code, is.Now().UTC())
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound("Invalid or expired invitation code")
	}
	if err != nil {
		return nil, apperrors.Unexpected("Failed to load invitation", err)
	}
	return inv, nil
}

// Use consumes the invitation for actor and moves them into its team with
// the granted role. A code can be consumed once.
func (is *InvitationService) Use(ctx context.Context, actor *models.User, code string) (*models.User, error) {
	var team *models.Team
	user := *actor

	err := is.Store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		inv, err := is.active(ctx, tx, code)
		if err != nil {
			return err
		}
		if inv.Email != "" && !strings.EqualFold(inv.Email, actor.Email) {
			return apperrors.Forbidden("This invitation is for a different email address")
		}
		if err := is.checkLastAdmin(ctx, tx, actor, inv); err != nil {
			return err
		}

		if err := tx.Invitations().MarkUsed(ctx, inv.ID, actor.ID, is.Now().UTC()); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperrors.NotFound("Invalid or expired invitation code")
			}
			return err
		}

		if actor.HasTeam() && actor.TeamID != inv.TeamID {
			if err := tx.Teams().RemoveMember(ctx, actor.TeamID, actor.ID); err != nil {
				return err
			}
		}
		if err := tx.Teams().AddMember(ctx, inv.TeamID, actor.ID); err != nil {
			return err
		}
		if err := tx.Users().SetTeam(ctx, actor.ID, inv.TeamID, inv.Role); err != nil {
			return err
		}

		team, err = tx.Teams().GetByID(ctx, inv.TeamID)
		if err != nil {
			return err
		}
		user.TeamID, user.Role = inv.TeamID, inv.Role
		return nil
	})
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindUnexpected {
			return nil, err
		}
		return nil, apperrors.Unexpected("Failed to join team", err)
	}

	is.Log.Audit("Invitation used", "user_id", user.ID, "team_id", team.ID, "role", user.Role)
	is.Activity.Record(ctx, activityService.Entry{
		Type:        models.ActivityUserJoined,
		Description: fmt.Sprintf("%s joined the team via invitation", user.Name),
		UserID:      user.ID,
		TeamID:      team.ID,
		EntityID:    user.ID,
		EntityType:  models.EntityUser,
	})
	return &user, nil
}

// checkLastAdmin stops the only ADMIN of a team from leaving it, or from
// taking a lesser role in it, by redeeming an invitation.
func (is *InvitationService) checkLastAdmin(ctx context.Context, tx store.Store, actor *models.User, inv *models.Invitation) error {
	if actor.Role != models.RoleAdmin || !actor.HasTeam() {
		return nil
	}
	if actor.TeamID == inv.TeamID && inv.Role == models.RoleAdmin {
		return nil
	}
	admins, err := tx.Users().CountByTeamAndRole(ctx, actor.TeamID, models.RoleAdmin)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return apperrors.Validation("Cannot remove the only admin from team")
	}
	return nil
}

func (is *InvitationService) Delete(ctx context.Context, actor *models.User, id string) error {
	err := is.Store.Invitations().Delete(ctx, id, actor.TeamID)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound("Invitation not found")
	}
	if err != nil {
		return apperrors.Unexpected("Failed to delete invitation", err)
	}
	return nil
}
