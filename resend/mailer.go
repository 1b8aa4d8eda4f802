// Package resend implements findmystore.Mailer with the Resend email API.
package resend

import (
	"context"
	"net/url"
	"strings"

	"github.com/fwojciec/findmystore"
	"github.com/resend/resend-go/v2"
	"golang.org/x/time/rate"
)

// DefaultRateLimit matches the Resend API default of 2 requests per second.
const DefaultRateLimit = 2

var _ findmystore.Mailer = (*Mailer)(nil)

// Mailer sends email through Resend.
type Mailer struct {
	client  *resend.Client
	limiter *rate.Limiter
}

// Option configures a Mailer.
type Option func(*Mailer) error

// WithBaseURL points the client at a different API host.
func WithBaseURL(rawURL string) Option {
	return func(m *Mailer) error {
		if !strings.HasSuffix(rawURL, "/") {
			rawURL += "/"
		}
		u, err := url.Parse(rawURL)
		if err != nil {
			return findmystore.Errorf(findmystore.EINVALID, "invalid resend base URL: %v", err)
		}
		m.client.BaseURL = u
		return nil
	}
}

// WithRateLimit sets the maximum sends per second.
func WithRateLimit(rps float64) Option {
	return func(m *Mailer) error {
		m.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		return nil
	}
}

// NewMailer creates a Mailer for the given API key.
func NewMailer(apiKey string, opts ...Option) (*Mailer, error) {
	if apiKey == "" {
		return nil, findmystore.Errorf(findmystore.EINVALID, "resend API key required")
	}
	m := &Mailer{
		client:  resend.NewClient(apiKey),
		limiter: rate.NewLimiter(DefaultRateLimit, 1),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SendEmail validates and sends the email, waiting for the rate limiter.
func (m *Mailer) SendEmail(ctx context.Context, email *findmystore.Email) (string, error) {
	if err := email.Validate(); err != nil {
		return "", err
	}
	if err := m.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    email.From,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	})
	if err != nil {
		return "", findmystore.Errorf(findmystore.EUNAVAILABLE, "send email: %v", err)
	}
	return resp.Id, nil
}
