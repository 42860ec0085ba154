package mailer

import (
	"context"
	"strings"
	"testing"

	"github.com/nikhil/teamhub/internal/logger"
)

func TestBuildMessage(t *testing.T) {
	inv := Invitation{
		To:            "new@example.com",
		TeamName:      "Company Team",
		InviterName:   "Ann <admin>",
		Role:          "MEMBER",
		InvitationURL: "http://localhost:3000/join/abc",
	}

	msg := buildMessage("no-reply@example.com", inv)

	if msg.Subject != "You're invited to join Company Team" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	if len(msg.Personalizations) != 1 || msg.Personalizations[0].To[0].Address != "new@example.com" {
		t.Errorf("unexpected recipients: %+v", msg.Personalizations)
	}
	if len(msg.Content) != 2 {
		t.Fatalf("expected text and html content, got %d", len(msg.Content))
	}
	if !strings.Contains(msg.Content[0].Value, "/join/abc") {
		t.Errorf("expected text body to carry the link, got %q", msg.Content[0].Value)
	}
	if strings.Contains(msg.Content[1].Value, "<admin>") {
		t.Error("expected html body to be escaped")
	}
}

func TestNewSendGridMailer_RequiresKey(t *testing.T) {
	if _, err := NewSendGridMailer("", "from@example.com", logger.Nop()); err == nil {
		t.Error("expected error for empty api key")
	}
}

func TestLogMailer(t *testing.T) {
	m := LogMailer{Log: logger.Nop()}
	if err := m.SendInvitation(context.Background(), Invitation{To: "x@example.com"}); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
