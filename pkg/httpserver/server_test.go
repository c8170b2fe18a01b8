package httpserver_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holafishing/charters/pkg/httpserver"
)

func TestRunAndShutdown(t *testing.T) {
	t.Parallel()

	var started, stopped atomic.Bool
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithShutdownTimeout(time.Second),
		httpserver.WithStartHook(func(*slog.Logger, string) { started.Store(true) }),
		httpserver.WithStopHook(func(*slog.Logger) { stopped.Store(true) }),
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "ok")
		}))
	}()

	select {
	case <-srv.Ready():
	case <-time.After(2 * time.Second):
		require.Fail(t, "server did not bind")
	}

	resp, err := http.Get("http://" + srv.Addr().String())
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		require.Fail(t, "run did not finish")
	}
	assert.True(t, started.Load())
	assert.True(t, stopped.Load())
	assert.NoError(t, srv.Shutdown(context.Background()))
}

func TestRun_BindError(t *testing.T) {
	t.Parallel()

	first := httpserver.New(httpserver.WithAddr("127.0.0.1:0"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = first.Run(ctx, nil) }()
	<-first.Ready()

	second := httpserver.New(httpserver.WithAddr(first.Addr().String()))
	err := second.Run(context.Background(), nil)
	assert.ErrorIs(t, err, httpserver.ErrStart)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()
	srv := httpserver.NewFromConfig(httpserver.Config{Addr: "127.0.0.1:0"})
	assert.Nil(t, srv.Addr())
	assert.NoError(t, srv.Shutdown(context.Background()))
}

func TestOptionsPanicOnInvalidValues(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { httpserver.WithAddr("") })
	assert.Panics(t, func() { httpserver.WithReadTimeout(0) })
	assert.Panics(t, func() { httpserver.WithShutdownTimeout(-time.Second) })
	assert.Panics(t, func() { httpserver.WithStopHook(nil) })
}

func TestHealthHandlers(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	httpserver.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())

	ok := httpserver.Check{Name: "mailer", Fn: func(context.Context) error { return nil }}
	rec = httptest.NewRecorder()
	httpserver.ReadinessHandler(nil, time.Second, ok)(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"mailer":"ok"}}`, rec.Body.String())

	bad := httpserver.Check{Name: "smtp", Fn: func(context.Context) error { return errors.New("535 auth failed") }}
	rec = httptest.NewRecorder()
	httpserver.ReadinessHandler(nil, time.Second, ok, bad)(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"not_ready","checks":{"mailer":"ok","smtp":"fail"}}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "535")
}
