package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holafishing/charters/pkg/environment"
	"github.com/holafishing/charters/pkg/logger"
	"github.com/holafishing/charters/pkg/requestid"
	"github.com/holafishing/charters/svc/booking"
)

type staticMailer bool

func (m staticMailer) IsConfigured() bool { return bool(m) }

func (m staticMailer) SendBookingEmail(context.Context, booking.EmailData) booking.SendResult {
	return booking.SendResult{Success: bool(m), MessageID: "m-1"}
}

func testRouter(m booking.Mailer) http.Handler {
	h := booking.NewHandler(booking.WithMailer(func() booking.Mailer { return m }))
	return newRouter(environment.Development, logger.Nop(), h, 0, func() booking.Mailer { return m })
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		mailer     booking.Mailer
		path       string
		wantStatus int
		wantBody   string
	}{
		{"live", staticMailer(false), "/health/live", http.StatusOK, "alive"},
		{"ready", staticMailer(true), "/health/ready", http.StatusOK, "ready"},
		{"not ready", staticMailer(false), "/health/ready", http.StatusServiceUnavailable, "not_ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			testRouter(tt.mailer).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body struct {
				Status string `json:"status"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body.Status)
		})
	}
}

func TestRouter_RequestIDAndNotFound(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	testRouter(staticMailer(true)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestid.Header))
	assert.Contains(t, rec.Body.String(), "Not Found")
}

func TestRouter_BookingMounted(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	testRouter(staticMailer(true)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/booking", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	testRouter(staticMailer(true)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/packages", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
