package booking

import (
	"errors"
	"fmt"

	"github.com/holafishing/charters/pkg/email"
)

var (
	// ErrUnknownProvider is returned for unsupported EMAIL_PROVIDER values.
	ErrUnknownProvider = errors.New("booking: unknown email provider")
	// ErrMailerNotConfigured reports missing delivery settings.
	ErrMailerNotConfigured = fmt.Errorf("booking: %w", email.ErrNotConfigured)
)
