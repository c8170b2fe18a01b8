package statemachine

import (
	"context"
)

// State is a named machine state.
type State interface {
	Name() string
}

// Event is a named trigger.
type Event interface {
	Name() string
}

// Guard decides whether a candidate transition may be taken.
type Guard func(ctx context.Context, from State, event Event, data any) bool

// Hook observes a completed transition.
type Hook func(from, to State, event Event)

// Transition is a single edge of the machine. All guards must pass.
type Transition struct {
	From   State
	To     State
	Event  Event
	Guards []Guard
}

// StateMachine is the behaviour shared by every machine implementation.
type StateMachine interface {
	Current() State
	AddTransition(from, to State, event Event, guards ...Guard) error
	Fire(ctx context.Context, event Event, data any) error
	CanFire(ctx context.Context, event Event, data any) bool
	Is(state State) bool
}

// StringState is a State backed by its own name.
type StringState string

func (s StringState) Name() string { return string(s) }

// StringEvent is an Event backed by its own name.
type StringEvent string

func (e StringEvent) Name() string { return string(e) }
