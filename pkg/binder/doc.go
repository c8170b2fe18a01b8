// Package binder decodes HTTP request bodies into typed values.
//
// Binders share the signature func(r *http.Request, v any) error so they can
// be plugged into handler.Wrap:
//
//	http.Handle("/api/booking", handler.Wrap(h,
//	    handler.WithBinder[handler.Context, booking.Submission](binder.JSON()),
//	))
//
// Every failure wraps one of the sentinel errors in errors.go, so callers can
// tell a malformed body from a server fault with errors.Is.
package binder
