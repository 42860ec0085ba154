package messageService

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nikhil/teamhub/internal/apperrors"
	"github.com/nikhil/teamhub/internal/logger"
	"github.com/nikhil/teamhub/internal/models"
	"github.com/nikhil/teamhub/internal/realtime"
	activityService "github.com/nikhil/teamhub/internal/service/activity"
	"github.com/nikhil/teamhub/internal/service/servicetest"
	"github.com/nikhil/teamhub/internal/store"
	"github.com/nikhil/teamhub/internal/store/memstore"
)

// downActivities fails every audit write.
type downActivities struct{ store.Activities }

func (downActivities) Create(context.Context, *models.Activity) error {
	return errors.New("activity table unavailable")
}

type auditDownStore struct{ *memstore.Store }

func (s auditDownStore) Activities() store.Activities {
	return downActivities{s.Store.Activities()}
}

func TestSend_RejectsBlankAndOversizedContent(t *testing.T) {
	s := memstore.New()
	fx := servicetest.SeedTeam(t, s, "a", "Alpha", true)
	bc := &servicetest.Broadcaster{}
	svc := NewMessageService(s, &servicetest.Recorder{}, bc, logger.Nop())
	ctx := context.Background()

	if _, err := svc.Send(ctx, fx.Member, "   \n\t "); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("expected validation error for blank content, got %v", err)
	}
	if _, err := svc.Send(ctx, fx.Member, strings.Repeat("é", models.MaxMessageLength+1)); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("expected validation error for long content, got %v", err)
	}
	if _, err := svc.Send(ctx, fx.Member, strings.Repeat("é", models.MaxMessageLength)); err != nil {
		t.Errorf("content at the limit must be accepted: %v", err)
	}

	msgs, _ := svc.List(ctx, fx.Member, time.Time{}, 0)
	if len(msgs) != 1 {
		t.Errorf("rejected messages must not be stored, got %d", len(msgs))
	}
	if len(bc.Sent) != 1 {
		t.Errorf("expected one broadcast, got %d", len(bc.Sent))
	}
}

func TestSend_BroadcastsAndRecords(t *testing.T) {
	s := memstore.New()
	fx := servicetest.SeedTeam(t, s, "a", "Alpha", true)
	rec := &servicetest.Recorder{}
	bc := &servicetest.Broadcaster{}
	svc := NewMessageService(s, rec, bc, logger.Nop())

	msg, err := svc.Send(context.Background(), fx.Member, "  hello team  ")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.Content != "hello team" {
		t.Errorf("expected trimmed content, got %q", msg.Content)
	}
	if msg.Sender == nil || msg.Sender.ID != fx.Member.ID {
		t.Errorf("expected sender populated, got %+v", msg.Sender)
	}
	if bc.Sent[0].Event != realtime.EventMessageReceived || bc.Sent[0].TeamID != fx.Team.ID {
		t.Errorf("unexpected broadcast %+v", bc.Sent[0])
	}
	if e := rec.Last(); e.Type != models.ActivityMessageSent || e.Description != "a member sent a message" {
		t.Errorf("unexpected activity %+v", e)
	}
}

func TestSend_SurvivesFailedAuditWrite(t *testing.T) {
	s := memstore.New()
	fx := servicetest.SeedTeam(t, s, "a", "Alpha", true)
	bc := &servicetest.Broadcaster{}
	audit := activityService.NewActivityService(auditDownStore{s}, logger.Nop())
	svc := NewMessageService(s, audit, bc, logger.Nop())
	ctx := context.Background()

	msg, err := svc.Send(ctx, fx.Member, "still here")
	if err != nil {
		t.Fatalf("send must not fail when the audit write does: %v", err)
	}
	if msg == nil || msg.Content != "still here" {
		t.Fatalf("expected the stored message, got %+v", msg)
	}
	if len(bc.Sent) != 1 {
		t.Errorf("expected one broadcast, got %d", len(bc.Sent))
	}

	msgs, err := svc.List(ctx, fx.Member, time.Time{}, 0)
	if err != nil || len(msgs) != 1 {
		t.Errorf("expected the message persisted, got %d %v", len(msgs), err)
	}
	if acts, _ := s.Activities().ListByTeam(ctx, fx.Team.ID, 10); len(acts) != 0 {
		t.Errorf("expected no activity rows, got %d", len(acts))
	}
}

func TestList_PagesBackwardsOldestFirst(t *testing.T) {
	s := memstore.New()
	alpha := servicetest.SeedTeam(t, s, "a", "Alpha", true)
	beta := servicetest.SeedTeam(t, s, "b", "Beta", false)
	clock := servicetest.NewClock()
	svc := NewMessageService(s, &servicetest.Recorder{}, &servicetest.Broadcaster{}, logger.Nop())
	svc.Now = clock.Now
	ctx := context.Background()

	var sent []*models.Message
	for _, body := range []string{"one", "two", "three", "four"} {
		clock.Advance(time.Second)
		m, err := svc.Send(ctx, alpha.Member, body)
		if err != nil {
			t.Fatalf("send: %v", err)
		}
		sent = append(sent, m)
	}
	if _, err := svc.Send(ctx, beta.Member, "elsewhere"); err != nil {
		t.Fatalf("send: %v", err)
	}

	page, err := svc.List(ctx, alpha.Admin, time.Time{}, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 || page[0].Content != "three" || page[1].Content != "four" {
		t.Fatalf("expected newest two oldest-first, got %v", contents(page))
	}
	if page[0].Sender == nil || page[0].Sender.Name != "a member" {
		t.Errorf("expected populated sender, got %+v", page[0].Sender)
	}

	older, err := svc.List(ctx, alpha.Admin, page[0].Timestamp, 10)
	if err != nil {
		t.Fatalf("list older: %v", err)
	}
	if got := contents(older); len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Errorf("expected [one two], got %v", got)
	}
}

func contents(msgs []*models.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Content)
	}
	return out
}
