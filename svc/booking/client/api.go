package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/holafishing/charters/svc/booking"
)

// maxResponseSize bounds how much of a response body is read.
const maxResponseSize = 1 << 20

// API submits bookings.
type API interface {
	SubmitBooking(ctx context.Context, s booking.Submission) (booking.Response, error)
}

// HTTPClient talks to the booking endpoint over HTTP.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// HTTPClientOption configures an HTTPClient.
type HTTPClientOption func(*HTTPClient)

// WithHTTPClient replaces the default *http.Client (30s timeout).
func WithHTTPClient(c *http.Client) HTTPClientOption {
	return func(h *HTTPClient) {
		if c != nil {
			h.http = c
		}
	}
}

// NewHTTPClient creates a client for the API rooted at baseURL,
// e.g. "https://holafishingcharters.com".
func NewHTTPClient(baseURL string, opts ...HTTPClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmitBooking posts s to /api/booking. Any answer other than a 200 with
// success=true is returned as an *APIError alongside the decoded body.
func (c *HTTPClient) SubmitBooking(ctx context.Context, s booking.Submission) (booking.Response, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return booking.Response{}, fmt.Errorf("%w: encode: %v", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/booking", bytes.NewReader(body))
	if err != nil {
		return booking.Response{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return booking.Response{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer res.Body.Close()

	var resp booking.Response
	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseSize))
	if err != nil {
		return booking.Response{}, fmt.Errorf("%w: read response: %v", ErrRequestFailed, err)
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return booking.Response{}, &APIError{StatusCode: res.StatusCode, Message: http.StatusText(res.StatusCode)}
	}

	if res.StatusCode != http.StatusOK || !resp.Success {
		return resp, &APIError{StatusCode: res.StatusCode, Message: resp.Message}
	}
	return resp, nil
}

// Ping checks that the server answers its liveness probe.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health/live", nil)
	if err != nil {
		return err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxResponseSize))

	if res.StatusCode != http.StatusOK {
		return &APIError{StatusCode: res.StatusCode, Message: http.StatusText(res.StatusCode)}
	}
	return nil
}

// Packages fetches the package catalog.
func (c *HTTPClient) Packages(ctx context.Context) ([]booking.Package, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/packages", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: res.StatusCode, Message: http.StatusText(res.StatusCode)}
	}
	var out struct {
		Data []booking.Package `json:"data"`
	}
	if err := json.NewDecoder(io.LimitReader(res.Body, maxResponseSize)).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode packages: %v", ErrRequestFailed, err)
	}
	return out.Data, nil
}
