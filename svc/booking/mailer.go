package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/holafishing/charters/pkg/email"
	"github.com/holafishing/charters/pkg/logger"
)

// Mailer delivers booking notifications through one provider.
type Mailer interface {
	// IsConfigured reports whether every setting needed to send is present.
	// It has no side effects.
	IsConfigured() bool
	// SendBookingEmail makes exactly one delivery attempt. Failures are
	// reported in the result, never as a panic.
	SendBookingEmail(ctx context.Context, data EmailData) SendResult
}

// Pinger is implemented by mailers that can test their transport.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DefaultTags categorize booking emails at the provider.
var DefaultTags = []string{"booking", "fishing-charter", "new-reservation"}

// SenderMailer adapts an email.EmailSender to Mailer. The business is the
// primary recipient; the customer is copied and set as Reply-To.
type SenderMailer struct {
	provider     string
	sender       email.EmailSender
	from         email.Address
	recipient    email.Address
	missing      []string
	secrets      []string
	businessName string
	loc          *time.Location
	timeout      time.Duration
	log          *slog.Logger
}

// MailerOption configures a SenderMailer.
type MailerOption func(*mailerOptions)

type mailerOptions struct {
	loc      *time.Location
	log      *slog.Logger
	timeout  *time.Duration
	smtp     []email.SMTPOption
	postmark []email.PostmarkOption
}

// WithMailerLocation sets the timezone used to format dates in emails.
func WithMailerLocation(loc *time.Location) MailerOption {
	return func(o *mailerOptions) { o.loc = loc }
}

// WithMailerLogger sets the logger.
func WithMailerLogger(l *slog.Logger) MailerOption {
	return func(o *mailerOptions) { o.log = l }
}

// WithSendTimeout bounds each delivery attempt. Zero disables the bound.
func WithSendTimeout(d time.Duration) MailerOption {
	return func(o *mailerOptions) { o.timeout = &d }
}

// WithSMTPOptions passes options to the SMTP client, e.g. a test dialer.
func WithSMTPOptions(opts ...email.SMTPOption) MailerOption {
	return func(o *mailerOptions) { o.smtp = append(o.smtp, opts...) }
}

// WithPostmarkOptions passes options to the Postmark client.
func WithPostmarkOptions(opts ...email.PostmarkOption) MailerOption {
	return func(o *mailerOptions) { o.postmark = append(o.postmark, opts...) }
}

func collectOptions(opts []MailerOption) mailerOptions {
	var o mailerOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewSenderMailer wraps sender. A nil sender yields an unconfigured mailer.
func NewSenderMailer(provider string, sender email.EmailSender, from, recipient email.Address, opts ...MailerOption) *SenderMailer {
	o := collectOptions(opts)
	m := &SenderMailer{
		provider:     provider,
		sender:       sender,
		from:         from,
		recipient:    recipient,
		businessName: from.Name,
		loc:          time.UTC,
		log:          logger.Nop(),
	}
	if o.loc != nil {
		m.loc = o.loc
	}
	if o.log != nil {
		m.log = o.log
	}
	if o.timeout != nil {
		m.timeout = *o.timeout
	}
	return m
}

// NewSMTPMailer builds the authenticated-SMTP variant. The sender is
// SMTP_FROM, else the SMTP username when it is an address (Gmail), else
// BUSINESS_EMAIL. The recipient defaults to the sender when
// BOOKING_RECIPIENT_EMAIL is unset.
func NewSMTPMailer(cfg Config, opts ...MailerOption) *SenderMailer {
	username, password := cfg.SMTP.Credentials()
	from := smtpSender(cfg, username)
	recipient := firstNonEmpty(cfg.RecipientEmail, from)

	var missing []string
	if strings.TrimSpace(username) == "" {
		missing = append(missing, "SMTP_USERNAME (or GMAIL_EMAIL)")
	}
	if strings.TrimSpace(password) == "" {
		missing = append(missing, "SMTP_PASSWORD (or GMAIL_APP_PASSWORD)")
	}
	if !email.IsValidAddress(from) {
		missing = append(missing, "SMTP_FROM (or BUSINESS_EMAIL)")
	}
	if !email.IsValidAddress(recipient) {
		missing = append(missing, "BOOKING_RECIPIENT_EMAIL")
	}

	var sender email.EmailSender
	if len(missing) == 0 {
		c, err := email.NewSMTPClient(cfg.SMTP, collectOptions(opts).smtp...)
		if err != nil {
			missing = append(missing, "SMTP_HOST/SMTP_PORT")
		} else {
			sender = c
		}
	}

	m := NewSenderMailer(ProviderSMTP, sender,
		email.Address{Name: cfg.BusinessName, Email: from},
		email.Address{Name: cfg.BusinessName, Email: recipient},
		append([]MailerOption{WithSendTimeout(cfg.SendTimeout)}, opts...)...,
	)
	m.missing = missing
	m.secrets = []string{password}
	return m
}

func smtpSender(cfg Config, username string) string {
	if from := strings.TrimSpace(cfg.SMTP.From); from != "" {
		return from
	}
	if u := strings.TrimSpace(username); email.IsValidAddress(u) {
		return u
	}
	return strings.TrimSpace(cfg.BusinessEmail)
}

// NewPostmarkMailer builds the transactional-API variant. The sender is
// BUSINESS_EMAIL; the recipient defaults to it when
// BOOKING_RECIPIENT_EMAIL is unset.
func NewPostmarkMailer(cfg Config, opts ...MailerOption) *SenderMailer {
	recipient := firstNonEmpty(cfg.RecipientEmail, cfg.BusinessEmail)

	var missing []string
	if strings.TrimSpace(cfg.Postmark.ServerToken) == "" {
		missing = append(missing, "POSTMARK_SERVER_TOKEN")
	}
	if !email.IsValidAddress(strings.TrimSpace(cfg.BusinessEmail)) {
		missing = append(missing, "BUSINESS_EMAIL")
	}
	if !email.IsValidAddress(recipient) {
		missing = append(missing, "BOOKING_RECIPIENT_EMAIL")
	}

	var sender email.EmailSender
	if len(missing) == 0 {
		c, err := email.NewPostmarkClient(cfg.Postmark, collectOptions(opts).postmark...)
		if err != nil {
			missing = append(missing, "POSTMARK_SERVER_TOKEN")
		} else {
			sender = c
		}
	}

	m := NewSenderMailer(ProviderPostmark, sender,
		email.Address{Name: cfg.BusinessName, Email: strings.TrimSpace(cfg.BusinessEmail)},
		email.Address{Name: cfg.BusinessName, Email: recipient},
		append([]MailerOption{WithSendTimeout(cfg.SendTimeout)}, opts...)...,
	)
	m.missing = missing
	m.secrets = []string{cfg.Postmark.ServerToken, cfg.Postmark.AccountToken}
	return m
}

// NewDevMailer builds a mailer that writes messages to DEV_EMAIL_DIR.
func NewDevMailer(cfg Config, opts ...MailerOption) *SenderMailer {
	recipient := firstNonEmpty(cfg.RecipientEmail, cfg.BusinessEmail)

	var missing []string
	var sender email.EmailSender
	if s, err := email.NewDevSender(cfg.DevEmailDir); err == nil {
		sender = s
	} else {
		missing = append(missing, "DEV_EMAIL_DIR")
	}
	if !email.IsValidAddress(strings.TrimSpace(cfg.BusinessEmail)) {
		missing = append(missing, "BUSINESS_EMAIL")
	}
	if !email.IsValidAddress(recipient) {
		missing = append(missing, "BOOKING_RECIPIENT_EMAIL")
	}

	m := NewSenderMailer(ProviderDev, sender,
		email.Address{Name: cfg.BusinessName, Email: strings.TrimSpace(cfg.BusinessEmail)},
		email.Address{Name: cfg.BusinessName, Email: recipient},
		opts...,
	)
	m.missing = missing
	return m
}

// Provider returns the provider name.
func (m *SenderMailer) Provider() string {
	return m.provider
}

// Missing lists the settings that keep the mailer unconfigured.
func (m *SenderMailer) Missing() []string {
	return append([]string(nil), m.missing...)
}

// IsConfigured implements Mailer. Constructors record every absent or
// malformed setting in missing, so this agrees with Missing.
func (m *SenderMailer) IsConfigured() bool {
	if len(m.missing) > 0 || m.sender == nil {
		return false
	}
	return email.IsValidAddress(m.from.Email) && email.IsValidAddress(m.recipient.Email)
}

// Ping checks the transport when the provider supports it.
func (m *SenderMailer) Ping(ctx context.Context) error {
	if !m.IsConfigured() {
		return ErrMailerNotConfigured
	}
	if p, ok := m.sender.(email.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// SendBookingEmail implements Mailer.
func (m *SenderMailer) SendBookingEmail(ctx context.Context, data EmailData) (result SendResult) {
	log := m.log.With(logger.Provider(m.provider), logger.Component("booking_mailer"))

	defer func() {
		if rec := recover(); rec != nil {
			log.ErrorContext(ctx, "booking email delivery panicked", slog.Any("panic", rec))
			result = SendResult{Error: "unexpected error sending email"}
		}
	}()

	if !m.IsConfigured() {
		log.ErrorContext(ctx, "booking email service not configured", slog.Any("missing", m.missing))
		return SendResult{Error: m.notConfiguredMessage()}
	}

	tpl, err := GenerateEmail(ctx, data, m.loc, WithBusinessName(m.businessName))
	if err != nil {
		log.ErrorContext(ctx, "failed to render booking email", logger.Error(err))
		return SendResult{Error: "failed to render booking email"}
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	customer := email.Address{Name: data.Customer.FullName, Email: data.Customer.Email}
	start := time.Now()
	receipt, err := m.sender.SendEmail(ctx, email.SendEmailParams{
		From:     m.from,
		SendTo:   []email.Address{m.recipient},
		Cc:       []email.Address{customer},
		ReplyTo:  customer,
		Subject:  tpl.Subject,
		BodyHTML: tpl.HTMLContent,
		BodyText: tpl.TextContent,
		Tags:     DefaultTags,
	})
	if errors.Is(err, email.ErrDeliveryUnknown) {
		log.ErrorContext(ctx, "booking email outcome unknown",
			logger.MessageID(receipt.MessageID),
			logger.Error(err),
			logger.Duration(time.Since(start)),
		)
		return SendResult{
			OutcomeUnknown: true,
			MessageID:      receipt.MessageID,
			Error:          "delivery outcome unknown: " + m.sanitize(err),
			Details:        map[string]any{"provider": m.provider},
		}
	}
	if err != nil {
		log.ErrorContext(ctx, "booking email delivery failed",
			logger.Error(err),
			logger.Duration(time.Since(start)),
		)
		return SendResult{
			Error:   m.sanitize(err),
			Details: map[string]any{"provider": m.provider},
		}
	}

	log.InfoContext(ctx, "booking email delivered",
		logger.MessageID(receipt.MessageID),
		logger.Duration(time.Since(start)),
	)
	return SendResult{
		Success:   true,
		MessageID: receipt.MessageID,
		Details:   receipt.Details,
	}
}

func (m *SenderMailer) notConfiguredMessage() string {
	if len(m.missing) == 0 {
		return fmt.Sprintf("%s email service not properly configured", m.provider)
	}
	return fmt.Sprintf("%s email service not properly configured. Check %s",
		m.provider, strings.Join(m.missing, ", "))
}

// sanitize flattens err into one line and masks configured secrets.
func (m *SenderMailer) sanitize(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{email.ErrFailedToSendEmail, email.ErrDeliveryUnknown} {
		msg = strings.ReplaceAll(msg, sentinel.Error(), "")
	}
	msg = strings.Join(strings.Fields(msg), " ")
	for _, s := range m.secrets {
		if strings.TrimSpace(s) != "" {
			msg = strings.ReplaceAll(msg, s, "[redacted]")
		}
	}
	if msg == "" {
		msg = "failed to send email"
	}
	return msg
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
