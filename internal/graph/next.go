package graph

import (
	"sort"

	"github.com/cleo-run/cleo/internal/model"
)

// depsSatisfied reports whether every dependency of t is done or cancelled;
// a dependency not present in tasks (an archived task) counts as satisfied.
func depsSatisfied(t *model.Task, idx byID) bool {
	for _, dep := range t.Depends {
		d, ok := idx[dep]
		if !ok {
			continue
		}
		if d.Status != model.StatusDone && d.Status != model.StatusCancelled {
			return false
		}
	}
	return true
}

// Next selects the single best next task: filter active-status tasks whose
// dependencies are all satisfied, sort already-active tasks first (they
// continue), then by priority, then by id; returns nil if none qualify
// (spec.md §4.4).
func Next(tasks []model.Task) *model.Task {
	idx := indexByID(tasks)

	var candidates []model.Task
	for _, t := range tasks {
		if t.Status == model.StatusDone || t.Status == model.StatusCancelled {
			continue
		}
		if depsSatisfied(&t, idx) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		aActive, bActive := a.Status == model.StatusActive, b.Status == model.StatusActive
		if aActive != bActive {
			return aActive
		}
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		return a.ID < b.ID
	})
	return candidates[0].Clone()
}
