// Command server runs the booking API.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/holafishing/charters/handler"
	"github.com/holafishing/charters/pkg/config"
	"github.com/holafishing/charters/pkg/environment"
	"github.com/holafishing/charters/pkg/httpserver"
	"github.com/holafishing/charters/pkg/logger"
	"github.com/holafishing/charters/pkg/requestid"
	"github.com/holafishing/charters/svc/booking"
)

// AppConfig holds process-wide settings.
type AppConfig struct {
	Env          string        `env:"APP_ENV" envDefault:"development"`
	Name         string        `env:"APP_NAME" envDefault:"hola-fishing-charters"`
	ReadyTimeout time.Duration `env:"READY_CHECK_TIMEOUT" envDefault:"2s"`
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// A missing .env file is fine; real deployments use the environment.
	_ = config.LoadEnv()

	var app AppConfig
	if err := config.Load(&app); err != nil {
		return err
	}
	var httpCfg httpserver.Config
	if err := config.Load(&httpCfg); err != nil {
		return err
	}
	var bookingCfg booking.Config
	if err := config.Load(&bookingCfg); err != nil {
		return err
	}

	env := environment.Parse(app.Env)
	log := logger.New(
		logger.WithEnvironment(env, app.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	loc, err := bookingCfg.Location()
	if err != nil {
		log.Warn("invalid BOOKING_TIMEZONE, using UTC", logger.Error(err))
		loc = time.UTC
	}

	// Resolve the mailer once at startup so configuration problems show up
	// in the logs before the first booking arrives.
	mailer := booking.DefaultMailer()
	if !mailer.IsConfigured() {
		log.Warn("booking email delivery is not configured; bookings will be answered with 503")
	}

	h := booking.NewHandler(
		booking.WithLocation(loc),
		booking.WithContact(bookingCfg.Contact()),
		booking.WithLogger(log),
	)

	r := newRouter(env, log, h, app.ReadyTimeout, booking.DefaultMailer)

	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger, addr string) {
			l.Info("booking api listening", slog.String("addr", addr), slog.String("env", string(env)))
		}),
		httpserver.WithStopHook(func(l *slog.Logger) {
			l.Info("booking api stopped")
		}),
	)
	return srv.Run(ctx, r)
}

func newRouter(env environment.Environment, log *slog.Logger, h *booking.Handler, readyTimeout time.Duration, mailer func() booking.Mailer) http.Handler {
	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		environment.Middleware(env),
		middleware.RealIP,
		middleware.CleanPath,
	)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = handler.WriteJSON(w, http.StatusNotFound, handler.ErrorBody{Message: http.StatusText(http.StatusNotFound)})
	})
	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log, readyTimeout,
		httpserver.Check{Name: "mailer", Fn: booking.Ready(mailer)},
	))
	r.Mount("/", booking.Router(h))
	return r
}
