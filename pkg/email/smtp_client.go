package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// ProviderSMTP is the Receipt.Provider value of SMTPClient.
const ProviderSMTP = "smtp"

// SMTPDialer is the subset of *gomail.Dialer used by SMTPClient.
type SMTPDialer interface {
	Dial() (gomail.SendCloser, error)
}

// SMTPOption configures an SMTPClient.
type SMTPOption func(*SMTPClient)

// WithSMTPDialer replaces the gomail dialer, mostly for tests.
func WithSMTPDialer(d SMTPDialer) SMTPOption {
	return func(c *SMTPClient) {
		if d != nil {
			c.dialer = d
		}
	}
}

// SMTPClient sends through an authenticated SMTP account (STARTTLS on 587,
// implicit TLS on 465).
type SMTPClient struct {
	dialer SMTPDialer
	host   string
}

// NewSMTPClient creates an SMTP-backed email sender.
func NewSMTPClient(cfg SMTPConfig, opts ...SMTPOption) (*SMTPClient, error) {
	username, password := cfg.Credentials()
	switch {
	case strings.TrimSpace(cfg.Host) == "":
		return nil, fmt.Errorf("%w: SMTP host is required", ErrInvalidConfig)
	case cfg.Port <= 0:
		return nil, fmt.Errorf("%w: SMTP port must be positive", ErrInvalidConfig)
	case strings.TrimSpace(username) == "":
		return nil, fmt.Errorf("%w: SMTP username is required", ErrInvalidConfig)
	case strings.TrimSpace(password) == "":
		return nil, fmt.Errorf("%w: SMTP password is required", ErrInvalidConfig)
	}

	c := &SMTPClient{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, username, password),
		host:   cfg.Host,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SendEmail implements EmailSender. gomail has no context support, so ctx
// is honoured in two phases. If ctx ends while dialing, the connection is
// closed unused and nothing is sent. If it ends after the message was
// handed to the server, the error wraps ErrDeliveryUnknown: the transfer
// keeps running and may still deliver.
func (c *SMTPClient) SendEmail(ctx context.Context, params SendEmailParams) (Receipt, error) {
	if err := params.Validate(); err != nil {
		return Receipt{}, err
	}

	messageID := newMessageID(params.From.Email)
	msg := buildMessage(params, messageID)

	var (
		mu        sync.Mutex
		abandoned bool
		sending   bool
	)
	done := make(chan error, 1)
	go func() {
		sc, err := c.dialer.Dial()
		if err != nil {
			done <- err
			return
		}

		mu.Lock()
		if abandoned {
			mu.Unlock()
			_ = sc.Close()
			return
		}
		sending = true
		mu.Unlock()

		err = gomail.Send(sc, msg)
		// QUIT failures after an accepted message do not undo delivery.
		_ = sc.Close()
		done <- err
	}()

	select {
	case err := <-done:
		return c.receipt(messageID, err)
	case <-ctx.Done():
	}

	mu.Lock()
	abandoned = true
	inFlight := sending
	mu.Unlock()

	select {
	case err := <-done:
		return c.receipt(messageID, err)
	default:
	}
	if inFlight {
		return Receipt{MessageID: messageID, Provider: ProviderSMTP},
			errors.Join(ErrDeliveryUnknown, ctx.Err())
	}
	return Receipt{}, errors.Join(ErrFailedToSendEmail, ctx.Err())
}

func (c *SMTPClient) receipt(messageID string, err error) (Receipt, error) {
	if err != nil {
		return Receipt{}, errors.Join(ErrFailedToSendEmail, err)
	}
	return Receipt{
		MessageID: messageID,
		Provider:  ProviderSMTP,
		Details:   map[string]any{"host": c.host},
	}, nil
}

// Ping dials the server and authenticates, then closes the connection.
func (c *SMTPClient) Ping(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		sc, err := c.dialer.Dial()
		if err != nil {
			done <- err
			return
		}
		done <- sc.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp ping %s: %w", c.host, err)
		}
		return nil
	}
}

func buildMessage(params SendEmailParams, messageID string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("Message-ID", messageID)
	m.SetAddressHeader("From", params.From.Email, params.From.Name)
	m.SetHeader("To", formatAll(m, params.SendTo)...)
	if len(params.Cc) > 0 {
		m.SetHeader("Cc", formatAll(m, params.Cc)...)
	}
	if !params.ReplyTo.IsZero() {
		m.SetAddressHeader("Reply-To", params.ReplyTo.Email, params.ReplyTo.Name)
	}
	if len(params.Tags) > 0 {
		m.SetHeader("X-Tags", strings.Join(params.Tags, ","))
	}
	m.SetHeader("Subject", params.Subject)

	switch {
	case params.BodyText != "" && params.BodyHTML != "":
		m.SetBody("text/plain", params.BodyText)
		m.AddAlternative("text/html", params.BodyHTML)
	case params.BodyHTML != "":
		m.SetBody("text/html", params.BodyHTML)
	default:
		m.SetBody("text/plain", params.BodyText)
	}
	return m
}

func formatAll(m *gomail.Message, list []Address) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, m.FormatAddress(a.Email, a.Name))
	}
	return out
}

// newMessageID builds an RFC 5322 Message-ID using the sender's domain.
func newMessageID(from string) string {
	domain := "localhost"
	if i := strings.LastIndex(from, "@"); i >= 0 && i < len(from)-1 {
		domain = from[i+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}
