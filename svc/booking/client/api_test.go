package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holafishing/charters/svc/booking"
	"github.com/holafishing/charters/svc/booking/client"
)

type stubMailer struct {
	configured bool
	result     booking.SendResult
}

func (s stubMailer) IsConfigured() bool { return s.configured }

func (s stubMailer) SendBookingEmail(context.Context, booking.EmailData) booking.SendResult {
	return s.result
}

func newServer(t *testing.T, m booking.Mailer) *httptest.Server {
	t.Helper()
	h := booking.NewHandler(
		booking.WithMailer(func() booking.Mailer { return m }),
		booking.WithClock(func() time.Time { return testNow }),
	)
	srv := httptest.NewServer(booking.Router(h))
	t.Cleanup(srv.Close)
	return srv
}

func validSubmission() booking.Submission {
	return booking.Submission{
		Draft: booking.Draft{
			FullName:        "Ana Rivera",
			Phone:           "787-555-0123",
			Email:           "ana@example.com",
			SelectedPackage: "NEARSHORE REEF FISHING",
			PreferredDate:   "2025-06-20",
			NumberOfPeople:  2,
		},
		SubmittedAt: "2025-06-14T15:30:00Z",
	}
}

func TestHTTPClient_SubmitBooking(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		mailer     booking.Mailer
		mutate     func(*booking.Submission)
		wantStatus int
		wantMsg    string
	}{
		{
			name:    "accepted",
			mailer:  stubMailer{configured: true, result: booking.SendResult{Success: true, MessageID: "m-1"}},
			wantMsg: booking.MsgBookingSent,
		},
		{
			name:       "unavailable",
			mailer:     stubMailer{},
			wantStatus: http.StatusServiceUnavailable,
			wantMsg:    booking.MsgServiceUnavailable,
		},
		{
			name:       "delivery failed",
			mailer:     stubMailer{configured: true, result: booking.SendResult{Error: "boom"}},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    booking.MsgSendFailed,
		},
		{
			name:       "past date",
			mailer:     stubMailer{configured: true},
			mutate:     func(s *booking.Submission) { s.PreferredDate = "2025-06-13" },
			wantStatus: http.StatusBadRequest,
			wantMsg:    booking.MsgDateNotFuture,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := client.NewHTTPClient(newServer(t, tt.mailer).URL + "/")
			s := validSubmission()
			if tt.mutate != nil {
				tt.mutate(&s)
			}

			resp, err := c.SubmitBooking(context.Background(), s)
			assert.Equal(t, tt.wantMsg, resp.Message)
			if tt.wantStatus == 0 {
				require.NoError(t, err)
				assert.True(t, resp.Success)
				require.NotNil(t, resp.Data)
				assert.Equal(t, "m-1", resp.Data.MessageID)
				return
			}

			var apiErr *client.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.ErrorIs(t, err, client.ErrRequestFailed)
		})
	}
}

func TestHTTPClient_NonJSONResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := client.NewHTTPClient(srv.URL).SubmitBooking(context.Background(), validSubmission())
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestHTTPClient_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := client.NewHTTPClient(url).SubmitBooking(context.Background(), validSubmission())
	assert.ErrorIs(t, err, client.ErrRequestFailed)
}

func TestHTTPClient_Packages(t *testing.T) {
	t.Parallel()

	c := client.NewHTTPClient(newServer(t, stubMailer{}).URL)
	pkgs, err := c.Packages(context.Background())
	require.NoError(t, err)
	require.Len(t, pkgs, 5)
	assert.Equal(t, "sunset-booze-cruise", pkgs[0].ID)
}

func TestController_EndToEnd(t *testing.T) {
	t.Parallel()

	srv := newServer(t, stubMailer{configured: true, result: booking.SendResult{Success: true, MessageID: "m-2"}})
	notifier := &recordingNotifier{}
	c := client.NewController(client.NewHTTPClient(srv.URL),
		client.WithNotifier(notifier),
		client.WithClock(func() time.Time { return testNow }),
		client.WithLocation(time.UTC),
		client.WithScheduler(func(time.Duration, func()) {}),
	)

	pkg, ok := booking.DefaultCatalog().ByID("nearshore-reef-fishing")
	require.True(t, ok)
	info := pkg.Info()
	c.OpenModal(&info)
	fillValid(t, c)

	require.NoError(t, c.Submit(context.Background()))
	assert.Equal(t, client.StatusSuccess, c.Status())
	assert.Equal(t, []string{booking.MsgBookingSent}, notifier.successes)
}
