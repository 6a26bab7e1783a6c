// Package graph implements the task-graph algorithms of spec.md §4.4 over
// the fixed in-memory active task list: topological ordering, dependency
// waves, next-task selection, critical path, leverage scoring, and
// staleness classification.
package graph

import (
	"sort"

	"github.com/cleo-run/cleo/internal/model"
)

// byID indexes tasks for O(1) lookup by id.
type byID map[string]*model.Task

func indexByID(tasks []model.Task) byID {
	idx := make(byID, len(tasks))
	for i := range tasks {
		idx[tasks[i].ID] = &tasks[i]
	}
	return idx
}

// TopoSort returns tasks ordered by Kahn's algorithm over `depends`. If a
// cycle prevents a full ordering, the remaining unordered tasks are
// appended sorted by priority rank then id (spec.md §4.4: "cycles yield a
// fallback ordering sorted by priority").
func TopoSort(tasks []model.Task) []model.Task {
	idx := indexByID(tasks)
	inDegree := make(map[string]int, len(tasks))
	dependents := make(map[string][]string, len(tasks))

	for _, t := range tasks {
		if _, ok := inDegree[t.ID]; !ok {
			inDegree[t.ID] = 0
		}
		for _, dep := range t.Depends {
			if _, ok := idx[dep]; !ok {
				continue // dangling reference; validation layer's concern
			}
			inDegree[t.ID]++
			dependents[dep] = append(dependents[dep], t.ID)
		}
	}

	var ready []string
	for _, t := range tasks {
		if inDegree[t.ID] == 0 {
			ready = append(ready, t.ID)
		}
	}
	sort.Strings(ready)

	var ordered []model.Task
	visited := make(map[string]bool, len(tasks))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		ordered = append(ordered, *idx[id])

		var nextReady []string
		for _, dep := range dependents[id] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				nextReady = append(nextReady, dep)
			}
		}
		sort.Strings(nextReady)
		ready = append(ready, nextReady...)
		sort.Strings(ready)
	}

	if len(ordered) == len(tasks) {
		return ordered
	}

	var remaining []model.Task
	for _, t := range tasks {
		if !visited[t.ID] {
			remaining = append(remaining, t)
		}
	}
	sort.Slice(remaining, func(i, j int) bool {
		if remaining[i].Priority.Rank() != remaining[j].Priority.Rank() {
			return remaining[i].Priority.Rank() < remaining[j].Priority.Rank()
		}
		return remaining[i].ID < remaining[j].ID
	})
	return append(ordered, remaining...)
}
