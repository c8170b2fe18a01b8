package email

import "errors"

var (
	ErrFailedToSendEmail = errors.New("mailer.errors.failed_to_send_email")
	ErrInvalidConfig     = errors.New("mailer.errors.invalid_config")
	ErrInvalidParams     = errors.New("mailer.errors.invalid_params")
	ErrNotConfigured     = errors.New("mailer.errors.not_configured")
	// ErrDeliveryUnknown means the message was handed to the transport but
	// the attempt was abandoned before the result came back. It may still
	// be delivered and must not be retried blindly.
	ErrDeliveryUnknown = errors.New("mailer.errors.delivery_outcome_unknown")
)
