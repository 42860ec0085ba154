package invitationService

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nikhil/teamhub/internal/apperrors"
	"github.com/nikhil/teamhub/internal/logger"
	"github.com/nikhil/teamhub/internal/mailer"
	"github.com/nikhil/teamhub/internal/models"
	"github.com/nikhil/teamhub/internal/service/servicetest"
	"github.com/nikhil/teamhub/internal/store/memstore"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Invitation
	err  error
}

func (m *fakeMailer) SendInvitation(_ context.Context, inv mailer.Invitation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, inv)
	return m.err
}

type fixture struct {
	svc   *InvitationService
	store *memstore.Store
	rec   *servicetest.Recorder
	mail  *fakeMailer
	clock *servicetest.Clock
	alpha *servicetest.Team
	beta  *servicetest.Team
}

func setup(t *testing.T) *fixture {
	t.Helper()
	s := memstore.New()
	fx := &fixture{
		store: s,
		rec:   &servicetest.Recorder{},
		mail:  &fakeMailer{},
		clock: servicetest.NewClock(),
		alpha: servicetest.SeedTeam(t, s, "a", "Alpha", true),
		beta:  servicetest.SeedTeam(t, s, "b", "Beta", false),
	}
	fx.svc = NewInvitationService(s, fx.rec, fx.mail, "https://app.example.com", 7*24*time.Hour, logger.Nop())
	fx.svc.Now = fx.clock.Now
	return fx
}

func TestNewCode_IsHexAndUnique(t *testing.T) {
	a, err := NewCode()
	if err != nil {
		t.Fatalf("code: %v", err)
	}
	b, _ := NewCode()
	if len(a) != 32 || strings.Trim(a, "0123456789abcdef") != "" {
		t.Errorf("expected 32 hex chars, got %q", a)
	}
	if a == b {
		t.Error("expected distinct codes")
	}
}

func TestCreate_ReturnsLinkAndMails(t *testing.T) {
	fx := setup(t)

	created, err := fx.svc.Create(context.Background(), fx.alpha.Manager, CreateInvitationRequest{Email: " New@Example.com "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.InvitationURL != "https://app.example.com/join/"+created.Code {
		t.Errorf("unexpected url %q", created.InvitationURL)
	}
	if !created.ExpiresAt.Equal(fx.clock.Now().Add(7 * 24 * time.Hour)) {
		t.Errorf("unexpected expiry %v", created.ExpiresAt)
	}

	if len(fx.mail.sent) != 1 {
		t.Fatalf("expected one e-mail, got %d", len(fx.mail.sent))
	}
	sent := fx.mail.sent[0]
	if sent.To != "new@example.com" || sent.TeamName != "Alpha" || sent.Role != "MEMBER" {
		t.Errorf("unexpected mail %+v", sent)
	}
	if e := fx.rec.Last(); e.Type != models.ActivityInvitationCreated {
		t.Errorf("expected invitation_created, got %s", e.Type)
	}
}

func TestCreate_MailFailureDoesNotFail(t *testing.T) {
	fx := setup(t)
	fx.mail.err = errors.New("smtp down")

	if _, err := fx.svc.Create(context.Background(), fx.alpha.Admin, CreateInvitationRequest{Email: "x@example.com"}); err != nil {
		t.Fatalf("mail failure must not fail creation: %v", err)
	}
}

func TestValidate_ExpiredAndUnknown(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, fx.alpha.Admin, CreateInvitationRequest{Role: models.RoleManager})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(fx.mail.sent) != 0 {
		t.Error("no e-mail expected without a target address")
	}

	preview, err := fx.svc.Validate(ctx, created.Code)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if preview.TeamName != "Alpha" || preview.Role != models.RoleManager {
		t.Errorf("unexpected preview %+v", preview)
	}

	if _, err := fx.svc.Validate(ctx, "nope"); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("expected not found for unknown code, got %v", err)
	}

	fx.clock.Advance(8 * 24 * time.Hour)
	if _, err := fx.svc.Validate(ctx, created.Code); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("expected not found for expired code, got %v", err)
	}
}

func TestUse_MovesUserAndIsSingleUse(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, fx.alpha.Admin, CreateInvitationRequest{Role: models.RoleManager})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	joiner := fx.beta.Member
	user, err := fx.svc.Use(ctx, joiner, created.Code)
	if err != nil {
		t.Fatalf("use: %v", err)
	}
	if user.TeamID != fx.alpha.Team.ID || user.Role != models.RoleManager {
		t.Errorf("unexpected user after use %+v", user)
	}

	stored, _ := fx.store.Users().GetByID(ctx, joiner.ID)
	if stored.TeamID != fx.alpha.Team.ID || stored.Role != models.RoleManager {
		t.Errorf("stored user out of sync %+v", stored)
	}
	alpha, _ := fx.store.Teams().GetByID(ctx, fx.alpha.Team.ID)
	beta, _ := fx.store.Teams().GetByID(ctx, fx.beta.Team.ID)
	if !alpha.HasMember(joiner.ID) || beta.HasMember(joiner.ID) {
		t.Errorf("expected user moved from beta to alpha, alpha=%v beta=%v", alpha.Members, beta.Members)
	}
	if e := fx.rec.Last(); e.Type != models.ActivityUserJoined || e.Description != "b member joined the team via invitation" {
		t.Errorf("unexpected activity %+v", e)
	}

	if _, err := fx.svc.Use(ctx, fx.beta.Manager, created.Code); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("expected a used code to be rejected, got %v", err)
	}

	list, err := fx.svc.List(ctx, fx.alpha.Admin)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || !list[0].Used || list[0].Consumer == nil || list[0].Consumer.ID != joiner.ID {
		t.Errorf("expected used invitation with consumer populated, got %+v", list)
	}
	if list[0].Creator == nil || list[0].Creator.ID != fx.alpha.Admin.ID {
		t.Errorf("expected creator populated, got %+v", list[0].Creator)
	}
}

func TestUse_ConcurrentRedemptionSucceedsOnce(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, fx.alpha.Admin, CreateInvitationRequest{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	users := []*models.User{fx.beta.Manager, fx.beta.Member, fx.alpha.Member}
	var wg sync.WaitGroup
	errs := make([]error, len(users))
	for i, u := range users {
		wg.Add(1)
		go func(i int, u *models.User) {
			defer wg.Done()
			_, errs[i] = fx.svc.Use(ctx, u, created.Code)
		}(i, u)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else if apperrors.KindOf(err) != apperrors.KindNotFound {
			t.Errorf("unexpected error %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("expected exactly one successful redemption, got %d", ok)
	}
}

func TestUse_EmailMismatchForbidden(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, fx.alpha.Admin, CreateInvitationRequest{Email: "someone@example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := fx.svc.Use(ctx, fx.beta.Member, created.Code); apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Errorf("expected forbidden, got %v", err)
	}
	if _, err := fx.svc.Validate(ctx, created.Code); err != nil {
		t.Errorf("a rejected use must leave the code active: %v", err)
	}
}

func TestCreate_RoleCappedAtCreatorRole(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	if _, err := fx.svc.Create(ctx, fx.alpha.Manager, CreateInvitationRequest{Role: models.RoleAdmin}); apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Errorf("expected forbidden for a manager granting ADMIN, got %v", err)
	}
	if _, err := fx.svc.Create(ctx, fx.alpha.Manager, CreateInvitationRequest{Role: models.RoleManager}); err != nil {
		t.Errorf("manager may grant MANAGER: %v", err)
	}
	if _, err := fx.svc.Create(ctx, fx.alpha.Admin, CreateInvitationRequest{Role: models.RoleAdmin}); err != nil {
		t.Errorf("admin may grant ADMIN: %v", err)
	}
	if n := fx.rec.Count(models.ActivityInvitationCreated); n != 2 {
		t.Errorf("expected 2 invitation_created activities, got %d", n)
	}
}

func TestUse_OnlyAdminCannotLeaveOrStepDown(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	elsewhere, err := fx.svc.Create(ctx, fx.alpha.Admin, CreateInvitationRequest{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := fx.svc.Use(ctx, fx.beta.Admin, elsewhere.Code); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("expected the only beta admin to be kept, got %v", err)
	}

	demotion, err := fx.svc.Create(ctx, fx.alpha.Manager, CreateInvitationRequest{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := fx.svc.Use(ctx, fx.alpha.Admin, demotion.Code); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("expected the only alpha admin to keep the role, got %v", err)
	}

	stored, _ := fx.store.Users().GetByID(ctx, fx.alpha.Admin.ID)
	if stored.Role != models.RoleAdmin || stored.TeamID != fx.alpha.Team.ID {
		t.Errorf("admin must be unchanged, got %+v", stored)
	}
	if _, err := fx.svc.Validate(ctx, demotion.Code); err != nil {
		t.Errorf("a rejected use must leave the code active: %v", err)
	}

	// With a second admin in beta, its first admin may leave.
	if err := fx.store.Users().UpdateRole(ctx, fx.beta.Manager.ID, models.RoleAdmin); err != nil {
		t.Fatalf("promote: %v", err)
	}
	user, err := fx.svc.Use(ctx, fx.beta.Admin, elsewhere.Code)
	if err != nil {
		t.Fatalf("use with a second admin: %v", err)
	}
	if user.TeamID != fx.alpha.Team.ID || user.Role != models.RoleMember {
		t.Errorf("unexpected user after use %+v", user)
	}
}

func TestDelete_TeamScoped(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, fx.alpha.Admin, CreateInvitationRequest{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := fx.svc.Delete(ctx, fx.beta.Admin, created.ID); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("expected not found across teams, got %v", err)
	}
	if err := fx.svc.Delete(ctx, fx.alpha.Manager, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := fx.svc.Validate(ctx, created.Code); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("expected deleted code to be invalid, got %v", err)
	}
}
