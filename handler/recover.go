package handler

import (
	"errors"
	"fmt"
)

// ErrPanic wraps values recovered from a panicking handler.
var ErrPanic = errors.New("handler panicked")

// Recover converts a panic inside the handler chain into a Fail response so
// the error handler answers with a 500 instead of dropping the connection.
func Recover[C Context, R any]() Decorator[C, R] {
	return func(next HandlerFunc[C, R]) HandlerFunc[C, R] {
		return func(ctx C, req R) (resp Response) {
			defer func() {
				if rec := recover(); rec != nil {
					if err, ok := rec.(error); ok {
						resp = Fail(fmt.Errorf("%w: %w", ErrPanic, err))
						return
					}
					resp = Fail(fmt.Errorf("%w: %v", ErrPanic, rec))
				}
			}()
			return next(ctx, req)
		}
	}
}
