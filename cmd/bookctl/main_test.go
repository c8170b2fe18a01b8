package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holafishing/charters/pkg/httpserver"
	"github.com/holafishing/charters/svc/booking"
	"github.com/holafishing/charters/svc/booking/client"
)

type okMailer struct{}

func (okMailer) IsConfigured() bool { return true }

func (okMailer) SendBookingEmail(context.Context, booking.EmailData) booking.SendResult {
	return booking.SendResult{Success: true, MessageID: "m-1"}
}

func newServer(t *testing.T) string {
	t.Helper()
	r := booking.Router(booking.NewHandler(booking.WithMailer(func() booking.Mailer { return okMailer{} })))
	mux := http.NewServeMux()
	mux.Handle("/api/", r)
	mux.Handle("/health/live", httpserver.LivenessHandler())
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestRun_Submit(t *testing.T) {
	t.Parallel()

	url := newServer(t)
	date := time.Now().AddDate(0, 0, 7).Format(time.DateOnly)
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{
		"submit", "--url", url,
		"--package", "reef-snorkeling-tour",
		"--name", "Ana Rivera",
		"--phone", "787-555-0123",
		"--email", "ana@example.com",
		"--date", date,
		"--people", "3",
	}, &stdout, &stderr)

	require.NoError(t, err, stderr.String())
	assert.Contains(t, stdout.String(), booking.MsgBookingSent)
}

func TestRun_SubmitInvalidDraft(t *testing.T) {
	t.Parallel()

	url := newServer(t)
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{
		"submit", "--url", url,
		"--package", "Custom trip",
		"--name", "Ana Rivera",
		"--email", "ana@example",
	}, &stdout, &stderr)

	require.ErrorIs(t, err, client.ErrInvalidDraft)
	assert.Contains(t, stderr.String(), client.MsgCorrectErrors)
	assert.Contains(t, stderr.String(), "email: "+booking.MsgEmailInvalid)
	assert.Contains(t, stderr.String(), "phone: "+booking.MsgPhoneRequired)
}

func TestRun_PackagesAndPing(t *testing.T) {
	t.Parallel()

	url := newServer(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"packages", "--url", url}, &out, &out))
	assert.Contains(t, out.String(), "full-day-offshore-fishing")
	assert.Contains(t, out.String(), "$1,600")

	out.Reset()
	require.NoError(t, run(context.Background(), []string{"ping", "--url", url}, &out, &out))
	assert.Equal(t, "ok\n", out.String())
}

func TestRun_UnknownCommand(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	assert.Error(t, run(context.Background(), []string{"launch"}, &out, &out))
	assert.Contains(t, out.String(), "usage: bookctl")
	assert.Error(t, run(context.Background(), nil, &out, &out))
}
