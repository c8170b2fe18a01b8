package client

import (
	"errors"
	"fmt"
)

var (
	ErrModalClosed      = errors.New("client: booking dialog is closed")
	ErrSubmitInProgress = errors.New("client: a submission is already in progress")
	ErrAlreadySubmitted = errors.New("client: booking already submitted")
	ErrInvalidDraft     = errors.New("client: draft has validation errors")
	ErrUnknownField     = errors.New("client: unknown field")
	ErrRequestFailed    = errors.New("client: booking request failed")
)

// APIError is a non-success answer from the booking API. Message is the
// server's curated text and is safe to show to the user.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("booking api: %d %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return ErrRequestFailed }
