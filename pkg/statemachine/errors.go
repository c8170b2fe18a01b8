package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrNilInitialState   = errors.New("statemachine: initial state is nil")
	ErrInvalidTransition = errors.New("statemachine: transition needs from, to and event")
	ErrInvalidEvent      = errors.New("statemachine: event is nil")
)

// NoTransitionError is returned when the current state has no transition
// for the fired event.
type NoTransitionError struct {
	State string
	Event string
}

func (e *NoTransitionError) Error() string {
	return fmt.Sprintf("statemachine: no transition from %q on %q", e.State, e.Event)
}

// RejectedError is returned when every candidate transition was blocked
// by a guard.
type RejectedError struct {
	State string
	Event string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("statemachine: guards rejected %q from %q", e.Event, e.State)
}

// IsNoTransitionAvailableError reports whether err wraps a NoTransitionError.
func IsNoTransitionAvailableError(err error) bool {
	var e *NoTransitionError
	return errors.As(err, &e)
}
