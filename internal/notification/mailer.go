package notification

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Email is a single outgoing HTML message.
type Email struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Mailer delivers emails and returns the provider message ID.
type Mailer interface {
	Send(ctx context.Context, email Email) (string, error)
}

// emailSender is the part of the Resend client used for delivery.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendMailer delivers emails through the Resend API.
type ResendMailer struct {
	emails emailSender
	logger zerolog.Logger
}

// NewResendMailer creates a mailer authenticated with apiKey.
func NewResendMailer(apiKey string, logger zerolog.Logger) *ResendMailer {
	client := resend.NewClient(apiKey)
	return newResendMailer(client.Emails, logger)
}

func newResendMailer(emails emailSender, logger zerolog.Logger) *ResendMailer {
	return &ResendMailer{
		emails: emails,
		logger: logger.With().Str("component", "mailer").Logger(),
	}
}

// Send delivers email in a single attempt.
func (m *ResendMailer) Send(ctx context.Context, email Email) (string, error) {
	resp, err := m.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    email.From,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("failed to send email %q: %w", email.Subject, err)
	}

	m.logger.Debug().
		Str("email_id", resp.Id).
		Strs("to", email.To).
		Msg("email sent")

	return resp.Id, nil
}
