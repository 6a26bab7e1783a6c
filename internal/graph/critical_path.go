package graph

import "github.com/cleo-run/cleo/internal/model"

// CriticalPath returns the ordered ids of one longest chain through the
// dependency graph, computed by dynamic programming over the topological
// order: dist[t] = 1 + max(dist[dep] for dep in t.Depends), ties broken by
// preferring the predecessor with the highest id (spec.md §4.4).
func CriticalPath(tasks []model.Task) []string {
	order := TopoSort(tasks)
	idx := indexByID(tasks)

	dist := make(map[string]int, len(order))
	prev := make(map[string]string, len(order))

	for _, t := range order {
		best := 0
		var bestDep string
		for _, dep := range t.Depends {
			if _, ok := idx[dep]; !ok {
				continue
			}
			d := dist[dep]
			if d > best || (d == best && dep > bestDep) {
				best = d
				bestDep = dep
			}
		}
		dist[t.ID] = best + 1
		if bestDep != "" {
			prev[t.ID] = bestDep
		}
	}

	var end string
	endDist := -1
	for _, t := range order {
		if dist[t.ID] > endDist || (dist[t.ID] == endDist && t.ID > end) {
			endDist = dist[t.ID]
			end = t.ID
		}
	}
	if end == "" {
		return nil
	}

	var chain []string
	for id := end; id != ""; {
		chain = append([]string{id}, chain...)
		id = prev[id]
	}
	return chain
}
