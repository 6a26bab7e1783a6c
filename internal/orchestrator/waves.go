package orchestrator

import (
	"errors"

	"github.com/cleo-run/cleo/internal/graph"
	"github.com/cleo-run/cleo/internal/model"
)

// ErrEpicNotFound is returned when the given epic id has no matching task.
var ErrEpicNotFound = errors.New("orchestrator: epic not found")

// Subtree returns epicID and every task reachable from it by following
// ParentID, restricting wave computation and selection to one epic
// (spec.md §4.7: "load active tasks in the epic's subtree").
func Subtree(tasks []model.Task, epicID string) ([]model.Task, error) {
	byParent := make(map[string][]model.Task)
	var epic *model.Task
	for _, t := range tasks {
		if t.ID == epicID {
			cp := t
			epic = &cp
		}
		if t.ParentID != nil {
			byParent[*t.ParentID] = append(byParent[*t.ParentID], t)
		}
	}
	if epic == nil {
		return nil, ErrEpicNotFound
	}

	out := []model.Task{*epic}
	queue := []string{epicID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range byParent[id] {
			out = append(out, child)
			queue = append(queue, child.ID)
		}
	}
	return out, nil
}

// Waves computes dependency waves restricted to the epic's subtree, leaving
// out the epic task itself (spec.md §4.7 step 2, reusing
// internal/graph.ComputeWaves).
func Waves(tasks []model.Task, epicID string) ([][]model.Task, error) {
	subtree, err := Subtree(tasks, epicID)
	if err != nil {
		return nil, err
	}
	var members []model.Task
	for _, t := range subtree {
		if t.ID != epicID {
			members = append(members, t)
		}
	}
	return graph.ComputeWaves(members), nil
}

// Ready returns wave 0 of the epic's subtree (spec.md §4.7 step 3).
func Ready(tasks []model.Task, epicID string) ([]model.Task, error) {
	waves, err := Waves(tasks, epicID)
	if err != nil {
		return nil, err
	}
	if len(waves) == 0 {
		return nil, nil
	}
	return waves[0], nil
}

// Next picks the highest-leverage ready task using the analyze ordering
// (spec.md §4.7 step 4, reusing internal/graph.Analyze).
func Next(tasks []model.Task, epicID string, phases map[string]*model.Phase, currentPhase string, strategy graph.SizeStrategy) (*model.Task, error) {
	ready, err := Ready(tasks, epicID)
	if err != nil {
		return nil, err
	}
	if len(ready) == 0 {
		return nil, nil
	}
	ranked := graph.Analyze(ready, phases, currentPhase, strategy)
	if len(ranked) == 0 {
		return nil, nil
	}
	for i := range ready {
		if ready[i].ID == ranked[0].TaskID {
			return &ready[i], nil
		}
	}
	return nil, nil
}
