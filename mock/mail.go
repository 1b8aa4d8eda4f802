package mock

import (
	"context"

	"github.com/fwojciec/findmystore"
)

var _ findmystore.Mailer = (*Mailer)(nil)

// Mailer is a mock implementation of findmystore.Mailer.
type Mailer struct {
	SendEmailFn func(ctx context.Context, email *findmystore.Email) (string, error)
}

func (m *Mailer) SendEmail(ctx context.Context, email *findmystore.Email) (string, error) {
	return m.SendEmailFn(ctx, email)
}
