package validate

import (
	"context"
	"fmt"

	"github.com/cleo-run/cleo/internal/lifecycle"
	"github.com/cleo-run/cleo/internal/model"
)

// taskEventForTransition maps a (from, to) status pair to the lifecycle
// event that models it. Cancel/uncancel are legal from/to any status and
// are checked separately below (spec.md §4.3 layer 4).
var taskEventForTransition = map[[2]model.Status]lifecycle.Event{
	{model.StatusPending, model.StatusActive}: lifecycle.EventStart,
	{model.StatusBlocked, model.StatusActive}: lifecycle.EventUnblock,
	{model.StatusActive, model.StatusBlocked}: lifecycle.EventBlock,
	{model.StatusActive, model.StatusDone}:    lifecycle.EventComplete,
	{model.StatusDone, model.StatusPending}:   lifecycle.EventReopen,
}

// TaskTransition reports whether moving a task from `from` to `to` is a
// legal state-machine transition (spec.md §4.3 layer 4). Same-state
// transitions are always legal (idempotence); any->cancelled and
// cancelled->previous are always legal since they are handled outside the
// static machine (internal/lifecycle).
func TaskTransition(from, to model.Status) error {
	if from == to {
		return nil
	}
	if to == model.StatusCancelled {
		return nil
	}
	if from == model.StatusCancelled {
		return nil
	}
	event, ok := taskEventForTransition[[2]model.Status{from, to}]
	if !ok {
		return fmt.Errorf("illegal task transition: %s -> %s has no matching event", from, to)
	}
	m := lifecycle.NewTaskMachine(lifecycle.State(from))
	return lifecycle.FireTaskEvent(context.Background(), m, event)
}

// circularValidationBypass lists agent identifiers exempt from the
// circular-validation check (spec.md §4.3: "special identifiers user,
// system, legacy bypass").
var circularValidationBypass = map[string]bool{
	"user":   true,
	"system": true,
	"legacy": true,
}

// CircularValidation enforces that a task's creator never also validates or
// tests the same gate, and that validator and tester differ, unless one of
// the bypass identifiers is used (spec.md §4.3: circular-validation
// prevention, applied at verification gate writes).
func CircularValidation(createdBy, validator, tester string) error {
	if createdBy != "" && !circularValidationBypass[createdBy] {
		if createdBy == validator {
			return fmt.Errorf("circular validation: creator %q may not also validate this gate", createdBy)
		}
		if createdBy == tester {
			return fmt.Errorf("circular validation: creator %q may not also test this gate", createdBy)
		}
	}
	if validator != "" && tester != "" && validator == tester &&
		!circularValidationBypass[validator] {
		return fmt.Errorf("circular validation: validator and tester must differ, both are %q", validator)
	}
	return nil
}
