package findmystore

import "context"

// Email is an outgoing email message.
type Email struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`
}

// Validate returns an error if the email contains invalid fields.
func (e *Email) Validate() error {
	if e.From == "" {
		return Errorf(EINVALID, "email sender required")
	}
	if len(e.To) == 0 {
		return Errorf(EINVALID, "email recipient required")
	}
	if e.Subject == "" {
		return Errorf(EINVALID, "email subject required")
	}
	if e.Text == "" && e.HTML == "" {
		return Errorf(EINVALID, "email body required")
	}
	return nil
}

// Mailer sends email.
type Mailer interface {
	// SendEmail delivers the message and returns the provider's message ID.
	SendEmail(ctx context.Context, email *Email) (string, error)
}
