package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/holafishing/charters/pkg/email"
)

// Provider names accepted by EMAIL_PROVIDER.
const (
	ProviderSMTP     = "smtp"
	ProviderGmail    = "gmail"
	ProviderPostmark = "postmark"
	ProviderDev      = "dev"
)

// Config configures delivery and the endpoint. It is read from the
// environment through pkg/config.
type Config struct {
	Provider       string        `env:"EMAIL_PROVIDER" envDefault:"smtp"`
	BusinessName   string        `env:"BUSINESS_NAME" envDefault:"Hola Fishing Charters PR"`
	BusinessEmail  string        `env:"BUSINESS_EMAIL" envDefault:"info@holafishingcharters.com"`
	BusinessPhone  string        `env:"BUSINESS_PHONE" envDefault:"239.309.3133"`
	ContactEmail   string        `env:"BUSINESS_CONTACT_EMAIL" envDefault:"danjhack@gmail.com"`
	RecipientEmail string        `env:"BOOKING_RECIPIENT_EMAIL"`
	Timezone       string        `env:"BOOKING_TIMEZONE" envDefault:"America/Puerto_Rico"`
	SendTimeout    time.Duration `env:"EMAIL_SEND_TIMEOUT" envDefault:"15s"`
	DevEmailDir    string        `env:"DEV_EMAIL_DIR" envDefault:"tmp/emails"`

	Postmark email.PostmarkConfig
	SMTP     email.SMTPConfig
}

// NormalizedProvider maps EMAIL_PROVIDER to a canonical provider name.
// "gmail" is an alias of "smtp" and an empty value selects smtp.
func (c Config) NormalizedProvider() (string, error) {
	switch p := strings.ToLower(strings.TrimSpace(c.Provider)); p {
	case "", ProviderSMTP, ProviderGmail:
		return ProviderSMTP, nil
	case ProviderPostmark, ProviderDev:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
}

// Location loads BOOKING_TIMEZONE. An empty value means UTC.
func (c Config) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Timezone) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("booking: load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Contact is the direct-contact fallback shown when delivery is unavailable.
func (c Config) Contact() Contact {
	return Contact{Phone: c.BusinessPhone, Email: c.ContactEmail}
}

// Contact holds direct-contact details for the business.
type Contact struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}
