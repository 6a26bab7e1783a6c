package lifecycle

import "context"

// Task lifecycle states and events (spec.md §4.3 layer 4, §3.1).
const (
	TaskPending State = "pending"
	TaskActive  State = "active"
	TaskBlocked State = "blocked"
	TaskDone    State = "done"
)

const (
	EventStart    Event = "start"
	EventBlock    Event = "block"
	EventUnblock  Event = "unblock"
	EventComplete Event = "complete"
	EventReopen   Event = "reopen"
)

// taskEventTarget maps each task event to the state it drives toward, used
// to detect same-state (idempotent) fires before consulting the FSM.
var taskEventTarget = map[Event]State{
	EventStart:    TaskActive,
	EventBlock:    TaskBlocked,
	EventUnblock:  TaskActive,
	EventComplete: TaskDone,
	EventReopen:   TaskPending,
}

// NewTaskMachine builds the status state machine shared by every task
// (spec.md §4.3 layer 4): pending->active, active<->blocked, active->done,
// done->pending (reopen); there is no active->pending transition. Cancellation is handled outside this machine
// (internal/task) since it is legal from any state and uncancel restores an
// arbitrary pre-cancel status, which does not fit a static transition table.
func NewTaskMachine(initial State) *Machine {
	b := NewBuilder(initial)
	b.AddTransition(TaskPending, TaskActive, EventStart)
	b.AddTransition(TaskBlocked, TaskActive, EventUnblock)
	b.AddTransition(TaskActive, TaskBlocked, EventBlock)
	b.AddTransition(TaskActive, TaskDone, EventComplete)
	b.AddTransition(TaskDone, TaskPending, EventReopen)
	return b.Build()
}

// FireTaskEvent fires event on m, treating a fire that targets the
// machine's current state as a no-op success rather than an illegal
// transition (spec.md §4.3: "same-state transitions are allowed").
func FireTaskEvent(ctx context.Context, m *Machine, event Event) error {
	if target, ok := taskEventTarget[event]; ok && m.State() == target {
		return nil
	}
	return m.Fire(ctx, event)
}
