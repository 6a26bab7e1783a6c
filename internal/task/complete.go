package task

import (
	"fmt"
	"time"

	"github.com/cleo-run/cleo/internal/model"
	"github.com/cleo-run/cleo/internal/validate"
)

// childrenAllDone reports whether every direct child of parentID in byID is
// status done (spec.md §4.6: "all remaining children are done", not merely
// terminal — see DESIGN.md's note on the flagged open question).
func childrenAllDone(parentID string, tasks []model.Task) (bool, bool) {
	found := false
	for _, t := range tasks {
		if t.ParentID != nil && *t.ParentID == parentID {
			found = true
			if t.Status != model.StatusDone {
				return false, true
			}
		}
	}
	return true, found
}

// Complete marks taskID done and walks its ancestors bottom-up,
// auto-completing any parent whose remaining children are now all done
// (spec.md §4.6).
func Complete(tasks []model.Task, taskID string, now time.Time) ([]model.Task, error) {
	byID := make(map[string]*model.Task, len(tasks))
	for i := range tasks {
		byID[tasks[i].ID] = &tasks[i]
	}
	target, ok := byID[taskID]
	if !ok {
		return tasks, fmt.Errorf("%w: %s", ErrNotFound, taskID)
	}
	if err := validate.TaskTransition(target.Status, model.StatusDone); err != nil {
		return tasks, err
	}

	target.Status = model.StatusDone
	target.CompletedAt = &now
	target.UpdatedAt = now

	cur := target
	for cur.ParentID != nil {
		parent, ok := byID[*cur.ParentID]
		if !ok {
			break
		}
		allDone, hasChildren := childrenAllDone(parent.ID, tasks)
		if !hasChildren || !allDone || parent.Status == model.StatusDone {
			break
		}
		parent.Status = model.StatusDone
		parent.CompletedAt = &now
		parent.UpdatedAt = now
		parent.AutoCompleted = true
		cur = parent
	}

	return tasks, nil
}

// Reopen inverts Complete: taskID returns to pending, and any ancestor that
// was auto-completed as a consequence is also reopened, walking up while
// AutoCompleted holds (spec.md §4.6).
func Reopen(tasks []model.Task, taskID string, now time.Time) ([]model.Task, error) {
	byID := make(map[string]*model.Task, len(tasks))
	for i := range tasks {
		byID[tasks[i].ID] = &tasks[i]
	}
	target, ok := byID[taskID]
	if !ok {
		return tasks, fmt.Errorf("%w: %s", ErrNotFound, taskID)
	}
	if target.Status != model.StatusDone {
		return tasks, ErrNotDone
	}

	target.Status = model.StatusPending
	target.CompletedAt = nil
	target.AutoCompleted = false
	target.UpdatedAt = now

	cur := target
	for cur.ParentID != nil {
		parent, ok := byID[*cur.ParentID]
		if !ok || !parent.AutoCompleted {
			break
		}
		parent.Status = model.StatusPending
		parent.CompletedAt = nil
		parent.AutoCompleted = false
		parent.UpdatedAt = now
		cur = parent
	}

	return tasks, nil
}
