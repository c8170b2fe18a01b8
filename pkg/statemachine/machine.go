package statemachine

import (
	"context"
	"sync"
)

// Machine is the in-memory StateMachine. Transitions are indexed by
// from-state name, then event name.
type Machine struct {
	mu          sync.RWMutex
	current     State
	transitions map[string]map[string][]Transition
	hooks       []Hook
}

// NewMachine returns a machine with no transitions, positioned at initial.
func NewMachine(initial State) *Machine {
	return &Machine{
		current:     initial,
		transitions: make(map[string]map[string][]Transition),
	}
}

func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// AddTransition registers a transition. Several transitions may share a
// from/event pair; they are tried in registration order.
func (m *Machine) AddTransition(from, to State, event Event, guards ...Guard) error {
	if from == nil || to == nil || event == nil {
		return ErrInvalidTransition
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	byEvent, ok := m.transitions[from.Name()]
	if !ok {
		byEvent = make(map[string][]Transition)
		m.transitions[from.Name()] = byEvent
	}
	byEvent[event.Name()] = append(byEvent[event.Name()], Transition{
		From:   from,
		To:     to,
		Event:  event,
		Guards: guards,
	})
	return nil
}

// Fire moves the machine along the first transition whose guards pass.
// Guards and hooks run under the machine lock.
func (m *Machine) Fire(ctx context.Context, event Event, data any) error {
	if event == nil {
		return ErrInvalidEvent
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.match(ctx, event, data)
	if err != nil {
		return err
	}

	from := m.current
	m.current = t.To
	for _, h := range m.hooks {
		h(from, t.To, event)
	}
	return nil
}

// CanFire reports whether Fire would find a transition for event.
func (m *Machine) CanFire(ctx context.Context, event Event, data any) bool {
	if event == nil {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := m.match(ctx, event, data)
	return err == nil
}

// Is reports whether the machine is currently in state.
func (m *Machine) Is(state State) bool {
	return state != nil && m.Current().Name() == state.Name()
}

// match must be called with m.mu held.
func (m *Machine) match(ctx context.Context, event Event, data any) (*Transition, error) {
	state, name := m.current.Name(), event.Name()

	candidates := m.transitions[state][name]
	if len(candidates) == 0 {
		return nil, &NoTransitionError{State: state, Event: name}
	}

	for i := range candidates {
		if guardsPass(ctx, candidates[i].Guards, m.current, event, data) {
			return &candidates[i], nil
		}
	}
	return nil, &RejectedError{State: state, Event: name}
}

func guardsPass(ctx context.Context, guards []Guard, from State, event Event, data any) bool {
	for _, guard := range guards {
		if guard != nil && !guard(ctx, from, event, data) {
			return false
		}
	}
	return true
}
