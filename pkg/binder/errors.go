package binder

import "errors"

// Common binding errors
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON request body")
	ErrBodyTooLarge         = errors.New("request body too large")
	ErrEmptyBody            = errors.New("empty request body")
)

// IsBindError reports whether err came from a binder, i.e. the client sent a
// body that could not be decoded.
func IsBindError(err error) bool {
	return errors.Is(err, ErrUnsupportedMediaType) ||
		errors.Is(err, ErrFailedToParseJSON) ||
		errors.Is(err, ErrBodyTooLarge) ||
		errors.Is(err, ErrEmptyBody)
}
