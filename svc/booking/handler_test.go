package booking_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/holafishing/charters/pkg/email"
	"github.com/holafishing/charters/pkg/environment"
	"github.com/holafishing/charters/svc/booking"
)

func newTestRouter(m booking.Mailer, opts ...booking.HandlerOption) http.Handler {
	opts = append([]booking.HandlerOption{
		booking.WithMailer(func() booking.Mailer { return m }),
		booking.WithClock(func() time.Time { return testNow }),
		booking.WithLocation(time.UTC),
		booking.WithContact(booking.Contact{Phone: "239.309.3133", Email: "captain@holafishing.test"}),
	}, opts...)
	return booking.Router(booking.NewHandler(opts...))
}

func postBooking(t *testing.T, h http.Handler, body any) (*httptest.ResponseRecorder, booking.Response) {
	t.Helper()

	var raw []byte
	switch b := body.(type) {
	case string:
		raw = []byte(b)
	default:
		var err error
		raw, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/booking", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp booking.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec, resp
}

func validSubmission() booking.Submission {
	return booking.Submission{Draft: validDraft(), SubmittedAt: "2025-06-14T15:29:58Z"}
}

func TestSubmit_Success(t *testing.T) {
	t.Parallel()

	m := &mockMailer{}
	m.On("IsConfigured").Return(true)
	m.On("SendBookingEmail", mock.Anything, mock.MatchedBy(func(d booking.EmailData) bool {
		return d.Customer.FullName == "Ana Rivera" &&
			d.Reservation.PackageName == "SUNSET / BOOZE CRUISE" &&
			d.SubmissionDate == "2025-06-14T15:29:58Z"
	})).Return(booking.SendResult{Success: true, MessageID: "msg-1"}).Once()

	rec, resp := postBooking(t, newTestRouter(m), validSubmission())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, booking.MsgBookingSent, resp.Message)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "msg-1", resp.Data.MessageID)
	assert.Equal(t, "2025-06-14T15:29:58Z", resp.Data.SubmittedAt)
	assert.Equal(t, "Ana Rivera", resp.Data.Customer)
	assert.Equal(t, "SUNSET / BOOZE CRUISE", resp.Data.Package)
	m.AssertExpectations(t)
}

func TestSubmit_FillsMissingSubmittedAt(t *testing.T) {
	t.Parallel()

	m := &mockMailer{}
	m.On("IsConfigured").Return(true)
	m.On("SendBookingEmail", mock.Anything, mock.MatchedBy(func(d booking.EmailData) bool {
		return d.SubmissionDate == "2025-06-14T15:30:00Z"
	})).Return(booking.SendResult{Success: true, MessageID: "msg-2"}).Once()

	s := validSubmission()
	s.SubmittedAt = ""
	rec, resp := postBooking(t, newTestRouter(m), s)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-06-14T15:30:00Z", resp.Data.SubmittedAt)
	m.AssertExpectations(t)
}

func TestSubmit_NotConfigured(t *testing.T) {
	t.Parallel()

	m := &mockMailer{}
	m.On("IsConfigured").Return(false)

	rec, resp := postBooking(t, newTestRouter(m), validSubmission())

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, booking.MsgServiceUnavailable, resp.Message)
	require.NotNil(t, resp.Contact)
	assert.Equal(t, "239.309.3133", resp.Contact.Phone)
	m.AssertNotCalled(t, "SendBookingEmail", mock.Anything, mock.Anything)
}

func TestSubmit_NilMailerIsUnavailable(t *testing.T) {
	t.Parallel()

	rec, resp := postBooking(t, newTestRouter(nil), validSubmission())
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, booking.MsgServiceUnavailable, resp.Message)
}

func TestSubmit_DeliveryFailureHidesCredentials(t *testing.T) {
	t.Parallel()

	dialer := &fakeDialer{err: errors.New("535 auth failed: app-secret-1234 rejected")}
	m := booking.NewSMTPMailer(smtpBookingConfig(), booking.WithSMTPOptions(email.WithSMTPDialer(dialer)))

	rec, resp := postBooking(t, newTestRouter(m), validSubmission())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, booking.MsgSendFailed, resp.Message)
	assert.NotEmpty(t, resp.Details)
	assert.NotContains(t, rec.Body.String(), "app-secret-1234")
	assert.Len(t, dialer.messages(), 1)
}

func TestSubmit_PastDate(t *testing.T) {
	t.Parallel()

	m := &mockMailer{}
	s := validSubmission()
	s.PreferredDate = testNow.AddDate(0, 0, -1).Format(time.DateOnly)

	rec, resp := postBooking(t, newTestRouter(m), s)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, booking.MsgDateNotFuture, resp.Message)
	m.AssertNotCalled(t, "IsConfigured")
	m.AssertNotCalled(t, "SendBookingEmail", mock.Anything, mock.Anything)
}

func TestSubmit_TodayIsAccepted(t *testing.T) {
	t.Parallel()

	m := &mockMailer{}
	m.On("IsConfigured").Return(true)
	m.On("SendBookingEmail", mock.Anything, mock.Anything).Return(booking.SendResult{Success: true, MessageID: "m"})

	s := validSubmission()
	s.PreferredDate = testNow.Format(time.DateOnly)
	rec, _ := postBooking(t, newTestRouter(m), s)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmit_BadRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        any
		wantMessage string
		wantMissing []string
		wantErrors  booking.FieldErrors
	}{
		{
			name: "missing fields",
			body: func() booking.Submission {
				s := validSubmission()
				s.Phone = ""
				s.Email = " "
				return s
			}(),
			wantMessage: "Missing required fields: phone, email",
			wantMissing: []string{"phone", "email"},
		},
		{
			name:        "empty object",
			body:        `{}`,
			wantMessage: "Missing required fields: fullName, phone, email, selectedPackage, preferredDate, numberOfPeople",
			wantMissing: []string{"fullName", "phone", "email", "selectedPackage", "preferredDate", "numberOfPeople"},
		},
		{
			name: "bad email",
			body: func() booking.Submission {
				s := validSubmission()
				s.Email = "ana@example"
				return s
			}(),
			wantMessage: booking.MsgInvalidEmail,
		},
		{
			name: "unparseable date",
			body: func() booking.Submission {
				s := validSubmission()
				s.PreferredDate = "someday"
				return s
			}(),
			wantMessage: booking.MsgDateInvalid,
		},
		{
			name: "too many people",
			body: func() booking.Submission {
				s := validSubmission()
				s.NumberOfPeople = 13
				return s
			}(),
			wantMessage: booking.MsgInvalidDetails,
			wantErrors:  booking.FieldErrors{booking.FieldNumberOfPeople: booking.MsgTooManyPeople},
		},
		{
			name:        "malformed json",
			body:        `{"fullName": "Ana"`,
			wantMessage: booking.MsgInvalidBody,
		},
		{
			name:        "wrong type",
			body:        `{"numberOfPeople": "four"}`,
			wantMessage: booking.MsgInvalidBody,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := &mockMailer{}
			rec, resp := postBooking(t, newTestRouter(m), tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantMessage, resp.Message)
			assert.Equal(t, tt.wantMissing, resp.MissingFields)
			assert.Equal(t, tt.wantErrors, resp.Errors)
			m.AssertNotCalled(t, "SendBookingEmail", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmit_DeliveryFailureDetailsHiddenInProduction(t *testing.T) {
	t.Parallel()

	m := &mockMailer{}
	m.On("IsConfigured").Return(true)
	m.On("SendBookingEmail", mock.Anything, mock.Anything).
		Return(booking.SendResult{Error: "421 smtp.gmail.com service not available"})

	h := environment.Middleware(environment.Production)(newTestRouter(m))
	rec, resp := postBooking(t, h, validSubmission())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, booking.MsgSendFailed, resp.Message)
	assert.Nil(t, resp.Details)
	assert.NotContains(t, rec.Body.String(), "smtp.gmail.com")
}

func TestSubmit_UnconfirmedDeliveryAsksNotToResubmit(t *testing.T) {
	t.Parallel()

	dialer := &fakeDialer{sendBlock: make(chan struct{})}
	m := booking.NewSMTPMailer(smtpBookingConfig(),
		booking.WithSMTPOptions(email.WithSMTPDialer(dialer)),
		booking.WithSendTimeout(20*time.Millisecond),
	)

	rec, resp := postBooking(t, newTestRouter(m), validSubmission())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, booking.MsgDeliveryUnconfirmed, resp.Message)
	require.NotNil(t, resp.Contact)
	assert.Equal(t, "239.309.3133", resp.Contact.Phone)
	assert.NotContains(t, rec.Body.String(), "app-secret-1234")

	close(dialer.sendBlock)
	assert.Eventually(t, func() bool { return len(dialer.messages()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestSubmit_PanicBecomesInternalError(t *testing.T) {
	t.Parallel()

	m := &mockMailer{}
	m.On("IsConfigured").Return(true)
	m.On("SendBookingEmail", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("boom")
	}).Return(booking.SendResult{})

	t.Run("development exposes details", func(t *testing.T) {
		t.Parallel()
		rec, resp := postBooking(t, newTestRouter(m), validSubmission())
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, booking.MsgInternalError, resp.Message)
		assert.Contains(t, resp.Details, "boom")
	})

	t.Run("production hides details", func(t *testing.T) {
		t.Parallel()
		h := environment.Middleware(environment.Production)(newTestRouter(m))
		rec, resp := postBooking(t, h, validSubmission())
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, booking.MsgInternalError, resp.Message)
		assert.Nil(t, resp.Details)
	})
}

func TestBookingRoute_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	h := newTestRouter(&mockMailer{})
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(method, "/api/booking", nil))

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.JSONEq(t, `{"message":"Método no permitido"}`, rec.Body.String())
		})
	}
}

func TestPackagesRoutes(t *testing.T) {
	t.Parallel()

	h := newTestRouter(&mockMailer{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/packages", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Success bool              `json:"success"`
		Data    []booking.Package `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.True(t, list.Success)
	assert.Len(t, list.Data, 5)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/packages/nearshore-reef-fishing", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"price":800`))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/packages/submarine", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), booking.MsgPackageNotFound)
}
