// Package statemachine implements a small, concurrency-safe finite state machine.
//
// States and events are anything with a Name. Transitions are looked up in a
// map[from][event][]Transition and the first transition whose guards all
// pass wins. A guard sees the data passed to Fire, so callers can gate an
// edge on state the machine does not own.
//
//	sm := statemachine.MustNew(Idle,
//	    statemachine.WithTransitions([]statemachine.TransitionDef{
//	        {From: Idle, To: Loading, Event: Submit, Guards: []statemachine.Guard{isOpen}},
//	        {From: Loading, To: Success, Event: Succeed},
//	        {From: Loading, To: Failed, Event: Fail},
//	    }),
//	    statemachine.WithHook(func(from, to statemachine.State, ev statemachine.Event) {
//	        log.Debug("transition", "from", from.Name(), "to", to.Name())
//	    }),
//	)
//	if !sm.CanFire(ctx, Submit, open) {
//	    // closed or already loading
//	}
//
// Fire returns a *NoTransitionError when the current state has no edge for
// the event and a *RejectedError when guards blocked every candidate. Hooks
// run after the state changes.
package statemachine
