// Package mailer builds and sends account emails.
package mailer

import (
	"context"

	"go.uber.org/zap"
)

// Email is a rendered message ready to send.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer delivers emails.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// LogMailer writes emails to the log instead of delivering them.
type LogMailer struct {
	logger *zap.SugaredLogger
}

// NewLogMailer creates a mailer that logs every message at info level.
func NewLogMailer(logger *zap.SugaredLogger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the email.
func (m *LogMailer) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.logger.Infow("Email sent",
		"to", email.To,
		"subject", email.Subject,
		"body", email.TextBody,
	)
	return nil
}
