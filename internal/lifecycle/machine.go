// Package lifecycle provides a small state-machine builder on top of
// qmuntal/stateless, generalized from the teacher's project-lifecycle
// machine (libs/project/machine.go, builder.go) so it can back both the
// task state machine (spec.md §4.3 layer 4, §4.6) and the session state
// machine (spec.md §4.5).
package lifecycle

import (
	"context"
	"fmt"

	"github.com/qmuntal/stateless"
)

// State is a state machine state.
type State string

// Event is a trigger that causes a state transition.
type Event string

// Guard is a condition function that must hold for a transition to fire.
type Guard func() bool

// Action runs as a transition's state is entered or exited.
type Action func(ctx context.Context) error

// Machine wraps a qmuntal/stateless state machine with typed State/Event
// accessors.
type Machine struct {
	fsm *stateless.StateMachine
}

// NewMachine wraps an already-configured stateless.StateMachine.
func NewMachine(fsm *stateless.StateMachine) *Machine {
	return &Machine{fsm: fsm}
}

// State returns the current state.
func (m *Machine) State() State {
	s, _ := m.fsm.MustState().(string)
	return State(s)
}

// Fire triggers event, returning an error if the transition is not allowed
// from the current state.
func (m *Machine) Fire(ctx context.Context, event Event) error {
	if err := m.fsm.FireCtx(ctx, string(event)); err != nil {
		return fmt.Errorf("transition not allowed: cannot fire %q from state %q: %w", event, m.State(), err)
	}
	return nil
}

// CanFire reports whether event can legally fire from the current state.
func (m *Machine) CanFire(event Event) bool {
	can, _ := m.fsm.CanFire(string(event))
	return can
}

// PermittedTriggers returns every event that can legally fire from the
// current state.
func (m *Machine) PermittedTriggers() []Event {
	triggers, _ := m.fsm.PermittedTriggers()
	out := make([]Event, 0, len(triggers))
	for _, t := range triggers {
		if s, ok := t.(string); ok {
			out = append(out, Event(s))
		}
	}
	return out
}
