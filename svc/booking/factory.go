package booking

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/holafishing/charters/pkg/config"
	"github.com/holafishing/charters/pkg/logger"
)

// NewMailer builds the mailer selected by cfg.Provider and logs which
// settings are present. Values are never logged.
func NewMailer(cfg Config, log *slog.Logger, opts ...MailerOption) (*SenderMailer, error) {
	if log == nil {
		log = logger.Nop()
	}
	provider, err := cfg.NormalizedProvider()
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Warn("falling back to UTC for booking emails", logger.Error(err))
		loc = nil
	}
	opts = append([]MailerOption{WithMailerLocation(loc), WithMailerLogger(log)}, opts...)

	var m *SenderMailer
	switch provider {
	case ProviderPostmark:
		m = NewPostmarkMailer(cfg, opts...)
	case ProviderDev:
		m = NewDevMailer(cfg, opts...)
	default:
		m = NewSMTPMailer(cfg, opts...)
	}

	log.Info("booking mailer initialized",
		logger.Provider(provider),
		logger.Component("booking_mailer"),
		slog.Bool("configured", m.IsConfigured()),
		logger.Group("settings", settingsStatus(cfg, provider)...),
	)
	return m, nil
}

func settingsStatus(cfg Config, provider string) []slog.Attr {
	status := func(v string) string {
		if strings.TrimSpace(v) != "" {
			return "set"
		}
		return "missing"
	}
	attrs := []slog.Attr{
		slog.String("EMAIL_PROVIDER", status(cfg.Provider)),
		slog.String("BOOKING_RECIPIENT_EMAIL", status(cfg.RecipientEmail)),
	}
	switch provider {
	case ProviderSMTP:
		user, pass := cfg.SMTP.Credentials()
		attrs = append(attrs,
			slog.String("SMTP_USERNAME", status(user)),
			slog.String("SMTP_PASSWORD", status(pass)),
			slog.String("SMTP_FROM", status(cfg.SMTP.From)),
		)
	case ProviderPostmark:
		attrs = append(attrs,
			slog.String("POSTMARK_SERVER_TOKEN", status(cfg.Postmark.ServerToken)),
			slog.String("BUSINESS_EMAIL", status(cfg.BusinessEmail)),
		)
	case ProviderDev:
		attrs = append(attrs, slog.String("DEV_EMAIL_DIR", status(cfg.DevEmailDir)))
	}
	return attrs
}

// unconfiguredMailer stands in when the provider cannot be built at all.
type unconfiguredMailer struct{ reason string }

func (unconfiguredMailer) IsConfigured() bool { return false }

func (u unconfiguredMailer) SendBookingEmail(context.Context, EmailData) SendResult {
	return SendResult{Error: u.reason}
}

func (unconfiguredMailer) Ping(context.Context) error { return ErrMailerNotConfigured }

var defaultMailer atomic.Pointer[Mailer]

// DefaultMailer returns the process-wide mailer, building it from the
// environment on first use. Concurrent first calls may each build one; the
// first stored instance wins and every caller receives it.
func DefaultMailer() Mailer {
	if m := defaultMailer.Load(); m != nil {
		return *m
	}
	m := buildDefaultMailer()
	defaultMailer.CompareAndSwap(nil, &m)
	return *defaultMailer.Load()
}

// SetMailer replaces the process-wide mailer, e.g. with a test double.
func SetMailer(m Mailer) {
	if m == nil {
		ResetMailer()
		return
	}
	defaultMailer.Store(&m)
}

// ResetMailer drops the cached mailer so the next DefaultMailer call rebuilds it.
func ResetMailer() {
	defaultMailer.Store(nil)
}

func buildDefaultMailer() Mailer {
	log := slog.Default()

	var cfg Config
	if err := config.Load(&cfg); err != nil {
		log.Error("failed to load booking mailer config", logger.Error(err))
		return unconfiguredMailer{reason: "email service configuration could not be loaded"}
	}
	m, err := NewMailer(cfg, log)
	if err != nil {
		log.Error("failed to build booking mailer", logger.Error(err))
		return unconfiguredMailer{reason: err.Error()}
	}
	return m
}

// Ready reports ErrMailerNotConfigured unless the mailer returned by source is
// configured. It never contacts the provider.
func Ready(source func() Mailer) func(context.Context) error {
	if source == nil {
		source = DefaultMailer
	}
	return func(context.Context) error {
		if m := source(); m == nil || !m.IsConfigured() {
			return ErrMailerNotConfigured
		}
		return nil
	}
}
