// Package handler provides type-safe HTTP request handling.
//
// Handlers are generic functions that receive a bound request value and
// return a Response. Wrap adapts them to http.HandlerFunc:
//
//	func submit(ctx handler.Context, req booking.Submission) handler.Response {
//		if err := svc.Submit(ctx, req); err != nil {
//			return handler.Fail(err)
//		}
//		return handler.JSON(http.StatusOK, result)
//	}
//
//	r.Post("/api/booking", handler.Wrap(submit,
//		handler.WithBinder[handler.Context, booking.Submission](binder.JSON()),
//		handler.WithErrorHandler[handler.Context, booking.Submission](errHandler),
//		handler.WithDecorators(handler.Recover[handler.Context, booking.Submission]()),
//	))
//
// Binding errors, render errors and Fail responses are routed to the
// configured ErrorHandler. NewErrorHandler classifies them into a JSON
// envelope and only exposes raw error detail outside production.
package handler
