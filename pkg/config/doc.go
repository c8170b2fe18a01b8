// Package config loads typed configuration structs from the process environment.
//
// It wraps github.com/joho/godotenv (optional .env files) and
// github.com/caarlos0/env/v11 (struct tag parsing). Every configuration type is
// parsed once and cached for the lifetime of the process, which matches how the
// booking service resolves its delivery backend: once, at start-up.
//
// # Usage
//
//	type BookingConfig struct {
//	    Provider string `env:"EMAIL_PROVIDER" envDefault:"smtp"`
//	}
//
//	var cfg BookingConfig
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// Use LoadEnv before the first Load to read one or more explicit .env files.
// Later files take precedence over earlier ones, and real environment
// variables are never overwritten.
//
// # Testing
//
// ResetCache drops every cached struct. ForceReloadConfig re-parses a single
// type after t.Setenv has changed the environment.
package config
