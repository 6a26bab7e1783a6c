package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/cleo-run/cleo/internal/model"
)

const minReasonRunes = 3

// ChildStrategy is the configured handling for a cancel/delete of a task
// with children (spec.md §4.6).
type ChildStrategy string

const (
	ChildBlock   ChildStrategy = "block"
	ChildCascade ChildStrategy = "cascade"
	ChildOrphan  ChildStrategy = "orphan"
)

func directChildren(parentID string, tasks []model.Task) []string {
	var out []string
	for _, t := range tasks {
		if t.ParentID != nil && *t.ParentID == parentID {
			out = append(out, t.ID)
		}
	}
	return out
}

// descendants returns every transitive descendant id of rootID.
func descendants(rootID string, tasks []model.Task) []string {
	var out []string
	frontier := []string{rootID}
	for len(frontier) > 0 {
		next := frontier[0]
		frontier = frontier[1:]
		children := directChildren(next, tasks)
		out = append(out, children...)
		frontier = append(frontier, children...)
	}
	return out
}

func validReason(reason string) bool {
	return len([]rune(strings.TrimSpace(reason))) >= minReasonRunes
}

// Cancel cancels taskID, requiring a non-trivial reason and respecting the
// configured child strategy; cascade refuses above cascadeThreshold unless
// force is set (spec.md §4.6, testable property #3).
func Cancel(tasks []model.Task, taskID, reason string, strategy ChildStrategy, cascadeThreshold int, force bool, now time.Time) ([]model.Task, int, error) {
	if !validReason(reason) {
		return tasks, 0, ErrReasonTooShort
	}
	byID := make(map[string]*model.Task, len(tasks))
	for i := range tasks {
		byID[tasks[i].ID] = &tasks[i]
	}
	target, ok := byID[taskID]
	if !ok {
		return tasks, 0, fmt.Errorf("%w: %s", ErrNotFound, taskID)
	}

	children := directChildren(taskID, tasks)
	affected := 0

	if len(children) > 0 {
		switch strategy {
		case ChildBlock, "":
			return tasks, 0, ErrHasChildren
		case ChildCascade:
			desc := descendants(taskID, tasks)
			if cascadeThreshold > 0 && len(desc) > cascadeThreshold && !force {
				return tasks, len(desc), ErrCascadeThresholdExceeded
			}
			for _, id := range desc {
				d := byID[id]
				if d.IsTerminal() {
					continue
				}
				d.PreCancelStatus = d.Status
				d.Status = model.StatusCancelled
				d.CancellationReason = reason
				d.CancelledAt = &now
				d.UpdatedAt = now
				affected++
			}
		case ChildOrphan:
			for _, id := range children {
				byID[id].ParentID = nil
				byID[id].UpdatedAt = now
			}
		default:
			return tasks, 0, fmt.Errorf("%w: %s", ErrUnknownChildStrategy, strategy)
		}
	}

	target.PreCancelStatus = target.Status
	target.Status = model.StatusCancelled
	target.CancellationReason = reason
	target.CancelledAt = &now
	target.UpdatedAt = now
	affected++

	return tasks, affected, nil
}

// Uncancel restores taskID to its pre-cancel status (spec.md §4.6:
// "uncancel restores a cancelled task to its pre-cancel status").
func Uncancel(tasks []model.Task, taskID string, now time.Time) ([]model.Task, error) {
	byID := make(map[string]*model.Task, len(tasks))
	for i := range tasks {
		byID[tasks[i].ID] = &tasks[i]
	}
	target, ok := byID[taskID]
	if !ok {
		return tasks, fmt.Errorf("%w: %s", ErrNotFound, taskID)
	}
	if target.Status != model.StatusCancelled {
		return tasks, ErrNotCancelled
	}

	restored := target.PreCancelStatus
	if restored == "" {
		restored = model.StatusPending
	}
	target.Status = restored
	target.CancellationReason = ""
	target.CancelledAt = nil
	target.PreCancelStatus = ""
	target.UpdatedAt = now
	return tasks, nil
}

// Delete removes taskID from tasks entirely (not archived), honoring the
// same three child strategies as Cancel (spec.md §4.6).
func Delete(tasks []model.Task, taskID string, strategy ChildStrategy, cascadeThreshold int, force bool) ([]model.Task, int, error) {
	byID := make(map[string]*model.Task, len(tasks))
	for i := range tasks {
		byID[tasks[i].ID] = &tasks[i]
	}
	if _, ok := byID[taskID]; !ok {
		return tasks, 0, fmt.Errorf("%w: %s", ErrNotFound, taskID)
	}

	children := directChildren(taskID, tasks)
	toDelete := map[string]bool{taskID: true}

	if len(children) > 0 {
		switch strategy {
		case ChildBlock, "":
			return tasks, 0, ErrHasChildren
		case ChildCascade:
			desc := descendants(taskID, tasks)
			if cascadeThreshold > 0 && len(desc) > cascadeThreshold && !force {
				return tasks, len(desc), ErrCascadeThresholdExceeded
			}
			for _, id := range desc {
				toDelete[id] = true
			}
		case ChildOrphan:
			for _, id := range children {
				byID[id].ParentID = nil
			}
		default:
			return tasks, 0, fmt.Errorf("%w: %s", ErrUnknownChildStrategy, strategy)
		}
	}

	var out []model.Task
	for _, t := range tasks {
		if !toDelete[t.ID] {
			out = append(out, t)
		}
	}
	return out, len(toDelete), nil
}
