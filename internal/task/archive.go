package task

import (
	"fmt"

	"github.com/cleo-run/cleo/internal/model"
)

// Archive moves a terminal (done or cancelled) task from active to archive
// (spec.md §4.6: "archive: moves a done or cancelled task out of the active
// document"). Non-terminal tasks are refused.
func Archive(active, archive []model.Task, taskID string) ([]model.Task, []model.Task, error) {
	idx := -1
	for i, t := range active {
		if t.ID == taskID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return active, archive, fmt.Errorf("%w: %s", ErrNotFound, taskID)
	}
	t := active[idx]
	if !t.IsTerminal() {
		return active, archive, ErrNotDone
	}

	newActive := append(append([]model.Task(nil), active[:idx]...), active[idx+1:]...)
	newArchive := append(append([]model.Task(nil), archive...), t)
	return newActive, newArchive, nil
}

// Unarchive moves a task back from archive to active.
func Unarchive(active, archive []model.Task, taskID string) ([]model.Task, []model.Task, error) {
	idx := -1
	for i, t := range archive {
		if t.ID == taskID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return active, archive, fmt.Errorf("%w: %s", ErrNotArchived, taskID)
	}
	t := archive[idx]

	newArchive := append(append([]model.Task(nil), archive[:idx]...), archive[idx+1:]...)
	newActive := append(append([]model.Task(nil), active...), t)
	return newActive, newArchive, nil
}
