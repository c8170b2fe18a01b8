package handler

import (
	"errors"
	"net/http"
)

// ErrNilResponse indicates a handler returned nil instead of a Response.
var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError is an error with a fixed status code and a client-facing message.
type HTTPError struct {
	Code    int
	Message string
}

func (e HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates an HTTPError.
func NewHTTPError(code int, message string) HTTPError {
	return HTTPError{Code: code, Message: message}
}

var (
	ErrBadRequest          = HTTPError{Code: http.StatusBadRequest, Message: http.StatusText(http.StatusBadRequest)}
	ErrNotFound            = HTTPError{Code: http.StatusNotFound, Message: http.StatusText(http.StatusNotFound)}
	ErrMethodNotAllowed    = HTTPError{Code: http.StatusMethodNotAllowed, Message: http.StatusText(http.StatusMethodNotAllowed)}
	ErrServiceUnavailable  = HTTPError{Code: http.StatusServiceUnavailable, Message: http.StatusText(http.StatusServiceUnavailable)}
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Message: http.StatusText(http.StatusInternalServerError)}
)
