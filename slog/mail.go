package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/findmystore"
)

var _ findmystore.Mailer = (*LoggingMailer)(nil)

// LoggingMailer wraps a Mailer with logging. Recipients are logged; bodies
// are not.
type LoggingMailer struct {
	next   findmystore.Mailer
	logger *slog.Logger
}

// NewLoggingMailer creates a new LoggingMailer.
func NewLoggingMailer(next findmystore.Mailer, logger *slog.Logger) *LoggingMailer {
	return &LoggingMailer{next: next, logger: logger}
}

// SendEmail delegates and logs the outcome.
func (m *LoggingMailer) SendEmail(ctx context.Context, email *findmystore.Email) (id string, err error) {
	defer func(begin time.Time) {
		m.logger.Info("send email",
			"to", email.To,
			"subject", email.Subject,
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return m.next.SendEmail(ctx, email)
}
