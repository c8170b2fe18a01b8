package handler

import (
	"errors"
	"net/http"
)

// HandlerFunc handles a decoded request of type R.
type HandlerFunc[C Context, R any] func(ctx C, req R) Response

// Response writes itself to w.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind decodes r into v.
type Bind func(r *http.Request, v any) error

// ErrorHandler reports bind and render failures to the client.
type ErrorHandler[C Context] func(ctx C, err error)

// Decorator wraps a HandlerFunc.
type Decorator[C Context, R any] func(HandlerFunc[C, R]) HandlerFunc[C, R]

// WrapOption configures Wrap.
type WrapOption[C Context, R any] func(*wrapConfig[C, R])

type wrapConfig[C Context, R any] struct {
	bind         Bind
	errorHandler ErrorHandler[C]
	decorators   []Decorator[C, R]
}

// WithBinder sets the function that decodes the request into R.
// Without one, handlers receive the zero value.
func WithBinder[C Context, R any](b Bind) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.bind = b
	}
}

// WithErrorHandler replaces the plain-text default error handler.
func WithErrorHandler[C Context, R any](h ErrorHandler[C]) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithDecorators wraps the handler. The first decorator is the outermost.
func WithDecorators[C Context, R any](decorators ...Decorator[C, R]) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.decorators = append(c.decorators, decorators...)
	}
}

func plainErrorHandler[C Context](ctx C, err error) {
	status := http.StatusInternalServerError
	msg := http.StatusText(status)

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		status, msg = httpErr.Code, httpErr.Message
	}
	http.Error(ctx.ResponseWriter(), msg, status)
}

// Wrap adapts a typed handler to http.HandlerFunc. C must be satisfied by
// the value NewContext returns.
func Wrap[C Context, R any](h HandlerFunc[C, R], opts ...WrapOption[C, R]) http.HandlerFunc {
	cfg := &wrapConfig[C, R]{errorHandler: plainErrorHandler[C]}
	for _, opt := range opts {
		opt(cfg)
	}

	next := h
	for i := len(cfg.decorators) - 1; i >= 0; i-- {
		next = cfg.decorators[i](next)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, ok := NewContext(w, r).(C)
		if !ok {
			panic("handler: context type is not produced by NewContext")
		}

		var req R
		if cfg.bind != nil {
			if err := cfg.bind(r, &req); err != nil {
				cfg.errorHandler(ctx, err)
				return
			}
		}

		resp := next(ctx, req)
		if resp == nil {
			cfg.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := resp.Render(w, r); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}
