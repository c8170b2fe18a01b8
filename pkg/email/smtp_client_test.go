package email_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/holafishing/charters/pkg/email"
)

// fakeDialer records messages passed to the connection it hands out.
// dialBlock holds Dial and sendBlock holds Send until they are closed.
type fakeDialer struct {
	mu        sync.Mutex
	sent      []*gomail.Message
	err       error
	dialErr   error
	dialBlock chan struct{}
	sendBlock chan struct{}
	dialed    int
	closed    int
}

func (f *fakeDialer) Dial() (gomail.SendCloser, error) {
	if f.dialBlock != nil {
		<-f.dialBlock
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dialed++
	if f.dialErr != nil {
		return nil, f.dialErr
	}
	return &fakeConn{d: f}, nil
}

func (f *fakeDialer) messages() []*gomail.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*gomail.Message(nil), f.sent...)
}

func (f *fakeDialer) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeConn struct{ d *fakeDialer }

func (c *fakeConn) Send(_ string, _ []string, msg io.WriterTo) error {
	if c.d.sendBlock != nil {
		<-c.d.sendBlock
	}
	c.d.mu.Lock()
	defer c.d.mu.Unlock()
	if c.d.err != nil {
		return c.d.err
	}
	if m, ok := msg.(*gomail.Message); ok {
		c.d.sent = append(c.d.sent, m)
	}
	return nil
}

func (c *fakeConn) Close() error {
	c.d.mu.Lock()
	defer c.d.mu.Unlock()
	c.d.closed++
	return nil
}

func smtpConfig() email.SMTPConfig {
	return email.SMTPConfig{Host: "smtp.gmail.com", Port: 587, GmailEmail: "owner@gmail.com", GmailPassword: "app-password"}
}

func TestNewSMTPClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     email.SMTPConfig
		wantErr bool
	}{
		{"gmail fallback credentials", smtpConfig(), false},
		{"explicit credentials", email.SMTPConfig{Host: "mail.test", Port: 465, Username: "u", Password: "p"}, false},
		{"missing host", email.SMTPConfig{Port: 587, Username: "u", Password: "p"}, true},
		{"missing port", email.SMTPConfig{Host: "mail.test", Username: "u", Password: "p"}, true},
		{"missing username", email.SMTPConfig{Host: "mail.test", Port: 587, Password: "p"}, true},
		{"missing password", email.SMTPConfig{Host: "mail.test", Port: 587, Username: "u"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := email.NewSMTPClient(tt.cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, email.ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSMTPClient_SendEmail(t *testing.T) {
	t.Parallel()

	t.Run("builds multipart message", func(t *testing.T) {
		t.Parallel()

		d := &fakeDialer{}
		c, err := email.NewSMTPClient(smtpConfig(), email.WithSMTPDialer(d))
		require.NoError(t, err)

		receipt, err := c.SendEmail(context.Background(), validParams())
		require.NoError(t, err)
		assert.Equal(t, email.ProviderSMTP, receipt.Provider)
		assert.True(t, strings.HasPrefix(receipt.MessageID, "<"))
		assert.True(t, strings.HasSuffix(receipt.MessageID, "@holafishing.test>"))

		sent := d.messages()
		require.Len(t, sent, 1)
		msg := sent[0]
		assert.Equal(t, []string{receipt.MessageID}, msg.GetHeader("Message-ID"))
		assert.Equal(t, []string{"New Booking - Sunset Booze Cruise"}, msg.GetHeader("Subject"))
		assert.Equal(t, []string{"captain@holafishing.test"}, msg.GetHeader("To"))
		require.Len(t, msg.GetHeader("Reply-To"), 1)
		assert.Contains(t, msg.GetHeader("Reply-To")[0], "ana@example.com")

		var body strings.Builder
		_, err = msg.WriteTo(&body)
		require.NoError(t, err)
		assert.Contains(t, body.String(), "multipart/alternative")
	})

	t.Run("dial failure", func(t *testing.T) {
		t.Parallel()

		d := &fakeDialer{err: errors.New("535 5.7.8 Username and Password not accepted")}
		c, err := email.NewSMTPClient(smtpConfig(), email.WithSMTPDialer(d))
		require.NoError(t, err)

		_, err = c.SendEmail(context.Background(), validParams())
		require.Error(t, err)
		assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
	})

	t.Run("deadline while dialing sends nothing", func(t *testing.T) {
		t.Parallel()

		d := &fakeDialer{dialBlock: make(chan struct{})}
		c, err := email.NewSMTPClient(smtpConfig(), email.WithSMTPDialer(d))
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err = c.SendEmail(ctx, validParams())
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
		assert.NotErrorIs(t, err, email.ErrDeliveryUnknown)

		close(d.dialBlock)
		assert.Eventually(t, func() bool { return d.closeCount() == 1 }, time.Second, 5*time.Millisecond)
		assert.Empty(t, d.messages(), "a connection opened after the deadline must not be used")
	})

	t.Run("deadline mid-transfer reports unknown outcome", func(t *testing.T) {
		t.Parallel()

		d := &fakeDialer{sendBlock: make(chan struct{})}
		c, err := email.NewSMTPClient(smtpConfig(), email.WithSMTPDialer(d))
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		receipt, err := c.SendEmail(ctx, validParams())
		require.Error(t, err)
		assert.ErrorIs(t, err, email.ErrDeliveryUnknown)
		assert.NotErrorIs(t, err, email.ErrFailedToSendEmail)
		assert.NotEmpty(t, receipt.MessageID)

		close(d.sendBlock)
		assert.Eventually(t, func() bool { return len(d.messages()) == 1 }, time.Second, 5*time.Millisecond)
	})
}

func TestSMTPClient_Ping(t *testing.T) {
	t.Parallel()

	ok := &fakeDialer{}
	c, err := email.NewSMTPClient(smtpConfig(), email.WithSMTPDialer(ok))
	require.NoError(t, err)
	assert.NoError(t, c.Ping(context.Background()))
	assert.Equal(t, 1, ok.dialed)

	bad := &fakeDialer{dialErr: errors.New("dial tcp: i/o timeout")}
	c, err = email.NewSMTPClient(smtpConfig(), email.WithSMTPDialer(bad))
	require.NoError(t, err)
	assert.ErrorContains(t, c.Ping(context.Background()), "smtp ping smtp.gmail.com")
}
