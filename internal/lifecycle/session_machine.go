package lifecycle

import "context"

// Session lifecycle states and events (spec.md §3.3, §3.7, §4.5).
const (
	SessionActiveState    State = "active"
	SessionSuspendedState State = "suspended"
	SessionEndedState     State = "ended"
	SessionOrphanedState  State = "orphaned"
)

const (
	EventSuspend Event = "suspend"
	EventResume  Event = "resume"
	EventEnd     Event = "end"
	EventOrphan  Event = "orphan"
)

var sessionEventTarget = map[Event]State{
	EventSuspend: SessionSuspendedState,
	EventResume:  SessionActiveState,
	EventEnd:     SessionEndedState,
	EventOrphan:  SessionOrphanedState,
}

// NewSessionMachine builds the session status state machine (spec.md §3.7):
// active->suspended->active, active/suspended->ended, ended->orphaned via
// garbage collection of stale ended sessions.
func NewSessionMachine(initial State) *Machine {
	b := NewBuilder(initial)
	b.AddTransition(SessionActiveState, SessionSuspendedState, EventSuspend)
	b.AddTransition(SessionSuspendedState, SessionActiveState, EventResume)
	b.AddTransition(SessionActiveState, SessionEndedState, EventEnd)
	b.AddTransition(SessionSuspendedState, SessionEndedState, EventEnd)
	b.AddTransition(SessionEndedState, SessionOrphanedState, EventOrphan)
	return b.Build()
}

// FireSessionEvent fires event on m, treating a fire that targets the
// machine's current state as a no-op success.
func FireSessionEvent(ctx context.Context, m *Machine, event Event) error {
	if target, ok := sessionEventTarget[event]; ok && m.State() == target {
		return nil
	}
	return m.Fire(ctx, event)
}
