// Package mailer delivers invitation e-mails.
package mailer

import (
	"context"
	"fmt"

	"github.com/nikhil/teamhub/internal/logger"
)

// Invitation is the content of one invitation e-mail.
type Invitation struct {
	To            string
	TeamName      string
	InviterName   string
	Role          string
	InvitationURL string
}

func (inv Invitation) Subject() string {
	return fmt.Sprintf("You're invited to join %s", inv.TeamName)
}

func (inv Invitation) Body() string {
	return fmt.Sprintf(
		"%s invited you to join %s as %s.\n\nAccept the invitation:\n%s\n\nThis link expires in 7 days.",
		inv.InviterName, inv.TeamName, inv.Role, inv.InvitationURL,
	)
}

type Mailer interface {
	SendInvitation(ctx context.Context, inv Invitation) error
}

// LogMailer records invitations in the log instead of sending them.
type LogMailer struct {
	Log *logger.Logger
}

func (m LogMailer) SendInvitation(_ context.Context, inv Invitation) error {
	m.Log.Info("Invitation e-mail not sent, no mail provider configured",
		"to", inv.To, "team", inv.TeamName, "url", inv.InvitationURL)
	return nil
}
