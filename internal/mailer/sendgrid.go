package mailer

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/nikhil/teamhub/internal/logger"
)

// SendGridMailer sends invitations through the SendGrid v3 API.
type SendGridMailer struct {
	client *sendgrid.Client
	from   string
	log    *logger.Logger
}

func NewSendGridMailer(apiKey, from string, log *logger.Logger) (*SendGridMailer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sendgrid api key is empty")
	}
	if from == "" {
		return nil, fmt.Errorf("from address is empty")
	}
	return &SendGridMailer{client: sendgrid.NewSendClient(apiKey), from: from, log: log}, nil
}

func (m *SendGridMailer) SendInvitation(ctx context.Context, inv Invitation) error {
	if inv.To == "" {
		return fmt.Errorf("to address is empty")
	}

	response, err := m.client.SendWithContext(ctx, buildMessage(m.from, inv))
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	m.log.Info("Invitation e-mail sent", "to", inv.To, "status", response.StatusCode)
	return nil
}

func buildMessage(from string, inv Invitation) *mail.SGMailV3 {
	body := inv.Body()
	return mail.NewSingleEmail(
		mail.NewEmail("TeamHub", from),
		inv.Subject(),
		mail.NewEmail("", inv.To),
		body,
		fmt.Sprintf("<pre>%s</pre>", html.EscapeString(body)),
	)
}
