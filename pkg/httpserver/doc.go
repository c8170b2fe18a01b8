// Package httpserver wraps net/http with graceful shutdown, timeouts loaded
// from the environment, life-cycle hooks and health-check handlers.
//
// Run binds the listener, serves until ctx is cancelled or SIGINT/SIGTERM
// arrives, then shuts down within the configured deadline:
//
//	var cfg httpserver.Config
//	config.MustLoad(&cfg)
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Errors are wrapped with ErrStart and ErrShutdown.
package httpserver
