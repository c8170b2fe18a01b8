package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/holafishing/charters/pkg/binder"
	"github.com/holafishing/charters/pkg/environment"
	"github.com/holafishing/charters/pkg/logger"
	"github.com/holafishing/charters/pkg/requestid"
	"github.com/holafishing/charters/pkg/validator"
)

// ErrorBody is the JSON envelope for every failed API request.
type ErrorBody struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Details any               `json:"details,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// ErrorHandlerConfig configures NewErrorHandler.
type ErrorHandlerConfig struct {
	// BadRequestMessage is returned for bodies that cannot be decoded.
	BadRequestMessage string
	// ValidationMessage is returned alongside per-field validation errors.
	ValidationMessage string
	// InternalMessage is returned for every unclassified error.
	InternalMessage string
}

func setConfigDefaults(cfg ErrorHandlerConfig) ErrorHandlerConfig {
	if cfg.BadRequestMessage == "" {
		cfg.BadRequestMessage = "Invalid request body"
	}
	if cfg.ValidationMessage == "" {
		cfg.ValidationMessage = "Validation failed"
	}
	if cfg.InternalMessage == "" {
		cfg.InternalMessage = http.StatusText(http.StatusInternalServerError)
	}
	return cfg
}

// ErrorInfo contains classified error information.
type ErrorInfo struct {
	StatusCode int
	Body       ErrorBody
	LogLevel   slog.Level
}

// Classify maps err to a status code and response body. Raw error text is
// only attached to unclassified errors, and only when exposeDetails is set.
func Classify(err error, cfg ErrorHandlerConfig, exposeDetails bool) ErrorInfo {
	cfg = setConfigDefaults(cfg)
	info := ErrorInfo{
		StatusCode: http.StatusInternalServerError,
		Body:       ErrorBody{Message: cfg.InternalMessage},
	}

	var httpErr HTTPError
	switch {
	case binder.IsBindError(err):
		info.StatusCode = http.StatusBadRequest
		info.Body.Message = cfg.BadRequestMessage
	case validator.IsValidationError(err):
		info.StatusCode = http.StatusBadRequest
		info.Body.Message = cfg.ValidationMessage
		info.Body.Errors = validator.ExtractValidationErrors(err).First()
	case errors.As(err, &httpErr):
		info.StatusCode = httpErr.Code
		info.Body.Message = httpErr.Message
	default:
		if exposeDetails && err != nil {
			info.Body.Details = err.Error()
		}
	}

	info.LogLevel = slog.LevelError
	if info.StatusCode < http.StatusInternalServerError {
		info.LogLevel = slog.LevelWarn
	}
	return info
}

// NewErrorHandler creates a JSON error handler. Details of unclassified
// errors are hidden when the request context carries the production environment.
func NewErrorHandler(log *slog.Logger, cfg ErrorHandlerConfig) ErrorHandler[Context] {
	cfg = setConfigDefaults(cfg)
	if log == nil {
		log = slog.Default()
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		info := Classify(err, cfg, !environment.IsProduction(r.Context()))

		log.LogAttrs(r.Context(), info.LogLevel, "request error",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(err),
			slog.Int("status_code", info.StatusCode),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if werr := WriteJSON(ctx.ResponseWriter(), info.StatusCode, info.Body); werr != nil {
			log.ErrorContext(r.Context(), "failed to write error response",
				logger.Error(werr),
				logger.Event("write_error_response"),
			)
		}
	}
}
