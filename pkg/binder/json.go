package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// DefaultMaxJSONSize is the default maximum size for JSON request bodies (64KB).
const DefaultMaxJSONSize = 64 << 10

// JSONOption configures the JSON binder.
type JSONOption func(*jsonConfig)

type jsonConfig struct {
	maxSize            int64
	disallowUnknown    bool
	requireContentType bool
}

// WithMaxSize limits the number of bytes read from the body.
func WithMaxSize(n int64) JSONOption {
	return func(c *jsonConfig) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// WithStrictFields rejects bodies containing fields unknown to the target struct.
func WithStrictFields() JSONOption {
	return func(c *jsonConfig) { c.disallowUnknown = true }
}

// WithRequiredContentType rejects requests without a Content-Type header.
// By default a missing header is treated as JSON.
func WithRequiredContentType() JSONOption {
	return func(c *jsonConfig) { c.requireContentType = true }
}

// JSON creates a JSON binder function.
func JSON(opts ...JSONOption) func(r *http.Request, v any) error {
	cfg := jsonConfig{maxSize: DefaultMaxJSONSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(r *http.Request, v any) error {
		if err := r.Context().Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
		}

		contentType := r.Header.Get("Content-Type")
		switch {
		case contentType == "" && cfg.requireContentType:
			return fmt.Errorf("%w: missing content-type header, expected application/json", ErrUnsupportedMediaType)
		case contentType != "":
			mediaType, _, err := mime.ParseMediaType(contentType)
			if err != nil || mediaType != "application/json" {
				return fmt.Errorf("%w: got %q, expected application/json", ErrUnsupportedMediaType, contentType)
			}
		}

		if r.Body == nil {
			return ErrEmptyBody
		}
		body, err := io.ReadAll(io.LimitReader(r.Body, cfg.maxSize+1))
		if err != nil {
			return fmt.Errorf("%w: failed to read request body: %v", ErrFailedToParseJSON, err)
		}
		if int64(len(body)) > cfg.maxSize {
			return fmt.Errorf("%w: max %d bytes", ErrBodyTooLarge, cfg.maxSize)
		}
		if len(bytes.TrimSpace(body)) == 0 {
			return ErrEmptyBody
		}

		decoder := json.NewDecoder(bytes.NewReader(body))
		if cfg.disallowUnknown {
			decoder.DisallowUnknownFields()
		}
		if err := decoder.Decode(v); err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
		}

		// Ensure entire body was consumed
		var extra json.RawMessage
		if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: unexpected data after JSON object", ErrFailedToParseJSON)
		}
		return nil
	}
}
