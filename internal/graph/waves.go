package graph

import (
	"sort"

	"github.com/cleo-run/cleo/internal/model"
)

// ComputeWaves groups active tasks into dependency waves: each wave is the
// set of not-yet-assigned tasks whose in-degree — counting only
// dependencies on other active tasks, since a done/cancelled dependency is
// already satisfied (spec.md §4.4) — has dropped to zero. Assigning a wave
// decrements the in-degree of its dependents, the same live-counter
// technique `TopoSort` uses, so a dependency resolved in an earlier wave
// never holds its dependent back. If progress stalls with tasks remaining
// (a cycle), they are emitted as one final wave (spec.md §4.4, §8 testable
// property: every dependency of a task in Wᵢ lies in some Wⱼ, j < i, unless
// unresolved — the cyclic wave).
func ComputeWaves(tasks []model.Task) [][]model.Task {
	var active []model.Task
	for _, t := range tasks {
		if t.Status != model.StatusDone && t.Status != model.StatusCancelled {
			active = append(active, t)
		}
	}
	idx := indexByID(active)

	inDegree := make(map[string]int, len(active))
	dependents := make(map[string][]string, len(active))
	for _, t := range active {
		for _, dep := range t.Depends {
			if _, ok := idx[dep]; !ok {
				continue
			}
			inDegree[t.ID]++
			dependents[dep] = append(dependents[dep], t.ID)
		}
	}

	assigned := make(map[string]bool, len(active))
	var waves [][]model.Task

	for len(assigned) < len(active) {
		var wave []model.Task
		for _, t := range active {
			if assigned[t.ID] || inDegree[t.ID] > 0 {
				continue
			}
			wave = append(wave, t)
		}
		if len(wave) == 0 {
			var remaining []model.Task
			for _, t := range active {
				if !assigned[t.ID] {
					remaining = append(remaining, t)
				}
			}
			sort.Slice(remaining, func(i, j int) bool { return remaining[i].ID < remaining[j].ID })
			waves = append(waves, remaining)
			break
		}
		sort.Slice(wave, func(i, j int) bool { return wave[i].ID < wave[j].ID })
		for _, t := range wave {
			assigned[t.ID] = true
			for _, dependent := range dependents[t.ID] {
				inDegree[dependent]--
			}
		}
		waves = append(waves, wave)
	}
	return waves
}
