package email

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

// EmailSender represents an interface for sending emails.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) (Receipt, error)
}

// Pinger is implemented by senders that can verify their transport without sending.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Address is a mailbox with an optional display name.
type Address struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// String formats the address for a header, quoting the name when needed.
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return (&mail.Address{Name: a.Name, Address: a.Email}).String()
}

// IsZero reports whether no email is set.
func (a Address) IsZero() bool {
	return strings.TrimSpace(a.Email) == ""
}

// SendEmailParams represents the parameters for sending an email.
type SendEmailParams struct {
	From     Address   `json:"from"`
	SendTo   []Address `json:"send_to"`
	Cc       []Address `json:"cc,omitempty"`
	ReplyTo  Address   `json:"reply_to,omitzero"`
	Subject  string    `json:"subject"`
	BodyHTML string    `json:"body_html"`
	BodyText string    `json:"body_text,omitempty"`
	Tags     []string  `json:"tags,omitempty"`
}

// Receipt describes an accepted message.
type Receipt struct {
	MessageID string         `json:"message_id"`
	Provider  string         `json:"provider"`
	Details   map[string]any `json:"details,omitempty"`
}

// emailRegex mirrors the permissive local@domain.tld check used for bookings.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidAddress reports whether s has the local@domain.tld shape.
func IsValidAddress(s string) bool {
	return emailRegex.MatchString(s)
}

// Validate checks the parameters. Failures wrap ErrInvalidParams.
func (p SendEmailParams) Validate() error {
	var errs []error
	if p.From.IsZero() {
		errs = append(errs, errors.New("From is required"))
	} else if !IsValidAddress(p.From.Email) {
		errs = append(errs, errors.New("From must be a valid email address"))
	}
	if len(p.SendTo) == 0 {
		errs = append(errs, errors.New("SendTo is required"))
	}
	for _, a := range p.SendTo {
		if !IsValidAddress(a.Email) {
			errs = append(errs, fmt.Errorf("SendTo must be a valid email address: %q", a.Email))
		}
	}
	for _, a := range p.Cc {
		if !IsValidAddress(a.Email) {
			errs = append(errs, fmt.Errorf("Cc must be a valid email address: %q", a.Email))
		}
	}
	if !p.ReplyTo.IsZero() && !IsValidAddress(p.ReplyTo.Email) {
		errs = append(errs, errors.New("ReplyTo must be a valid email address"))
	}
	if strings.TrimSpace(p.Subject) == "" {
		errs = append(errs, errors.New("Subject is required"))
	}
	if strings.TrimSpace(p.BodyHTML) == "" && strings.TrimSpace(p.BodyText) == "" {
		errs = append(errs, errors.New("BodyHTML or BodyText is required"))
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrInvalidParams}, errs...)...)
}

func joinAddresses(list []Address) string {
	parts := make([]string, 0, len(list))
	for _, a := range list {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, ", ")
}
