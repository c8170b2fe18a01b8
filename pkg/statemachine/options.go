package statemachine

import (
	"fmt"
)

// Option configures a Machine built by New.
type Option func(*Machine) error

// TransitionDef describes one transition for WithTransitions.
type TransitionDef struct {
	From   State
	To     State
	Event  Event
	Guards []Guard
}

// New builds a machine positioned at initial and applies opts in order.
func New(initial State, opts ...Option) (StateMachine, error) {
	if initial == nil {
		return nil, ErrNilInitialState
	}

	m := NewMachine(initial)
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNew is New that panics on a bad definition. Machine tables are
// static, so a failure here is a programming error.
func MustNew(initial State, opts ...Option) StateMachine {
	m, err := New(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("statemachine: %v", err))
	}
	return m
}

// WithTransitions registers a transition table.
func WithTransitions(defs []TransitionDef) Option {
	return func(m *Machine) error {
		for i, d := range defs {
			if err := m.AddTransition(d.From, d.To, d.Event, d.Guards...); err != nil {
				return fmt.Errorf("transition[%d] %s -> %s on %s: %w", i, name(d.From), name(d.To), name(d.Event), err)
			}
		}
		return nil
	}
}

// WithHook registers a callback run after every successful transition.
// Hooks run under the machine lock and must not call back into it.
func WithHook(h Hook) Option {
	return func(m *Machine) error {
		if h != nil {
			m.hooks = append(m.hooks, h)
		}
		return nil
	}
}

func name(n interface{ Name() string }) string {
	if n == nil {
		return "<nil>"
	}
	return n.Name()
}
