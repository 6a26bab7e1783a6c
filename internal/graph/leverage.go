package graph

import (
	"sort"

	"github.com/cleo-run/cleo/internal/model"
)

// SizeStrategy selects one of the three fixed leverage weighting tables
// (spec.md §4.4).
type SizeStrategy string

const (
	StrategyQuickWins SizeStrategy = "quick-wins"
	StrategyBigImpact SizeStrategy = "big-impact"
	StrategyBalanced  SizeStrategy = "balanced"
)

var sizeWeights = map[SizeStrategy]map[model.Size]float64{
	StrategyQuickWins: {model.SizeSmall: 3, model.SizeMedium: 2, model.SizeLarge: 1},
	StrategyBigImpact: {model.SizeSmall: 1, model.SizeMedium: 2, model.SizeLarge: 3},
	StrategyBalanced:  {model.SizeSmall: 1, model.SizeMedium: 1, model.SizeLarge: 1},
}

func sizeWeight(strategy SizeStrategy, size model.Size) float64 {
	table, ok := sizeWeights[strategy]
	if !ok {
		table = sizeWeights[StrategyBalanced]
	}
	w, ok := table[size]
	if !ok {
		return table[model.SizeMedium]
	}
	return w
}

// phaseBoost multiplies priority tasks in the current phase (x1.5) and
// tasks whose phase is adjacent in the project's phase ordering (x1.25),
// all others unboosted (spec.md §4.4).
func phaseBoost(task model.Task, phases map[string]*model.Phase, currentPhase string) float64 {
	if currentPhase == "" || task.Phase == "" {
		return 1.0
	}
	if task.Phase == currentPhase {
		return 1.5
	}
	cur, okCur := phases[currentPhase]
	tp, okTP := phases[task.Phase]
	if okCur && okTP {
		diff := tp.Order - cur.Order
		if diff == 1 || diff == -1 {
			return 1.25
		}
	}
	return 1.0
}

// descendantsUnblockedOnCompletion counts the tasks whose entire depends
// set, absent t, would be satisfied once t completes — i.e. t is their last
// remaining unmet active dependency.
func descendantsUnblockedOnCompletion(t model.Task, tasks []model.Task, idx byID) int {
	n := 0
	for _, other := range tasks {
		if other.ID == t.ID {
			continue
		}
		if other.Status == model.StatusDone || other.Status == model.StatusCancelled {
			continue
		}
		dependsOnT := false
		allOthersSatisfied := true
		for _, dep := range other.Depends {
			if dep == t.ID {
				dependsOnT = true
				continue
			}
			d, ok := idx[dep]
			if !ok {
				continue
			}
			if d.Status != model.StatusDone && d.Status != model.StatusCancelled {
				allOthersSatisfied = false
			}
		}
		if dependsOnT && allOthersSatisfied {
			n++
		}
	}
	return n
}

// Recommendation is one leverage-ranked entry returned by Analyze.
type Recommendation struct {
	TaskID     string  `json:"taskId"`
	Leverage   float64 `json:"leverage"`
	Confidence float64 `json:"confidence"`
}

// Analyze ranks active, non-terminal tasks by leverage = descendants
// unblocked on completion x size weight x phase boost, ordered leverage
// desc, then priority, then id (spec.md §4.4).
func Analyze(tasks []model.Task, phases map[string]*model.Phase, currentPhase string, strategy SizeStrategy) []Recommendation {
	idx := indexByID(tasks)

	var recs []Recommendation
	byTask := make(map[string]model.Task, len(tasks))
	for _, t := range tasks {
		if t.Status == model.StatusDone || t.Status == model.StatusCancelled || t.IsEpic() {
			continue
		}
		byTask[t.ID] = t
		descendants := descendantsUnblockedOnCompletion(t, tasks, idx)
		leverage := float64(descendants) * sizeWeight(strategy, t.Size) * phaseBoost(t, phases, currentPhase)
		confidence := 1.0
		if descendants == 0 {
			confidence = 0.5
		}
		recs = append(recs, Recommendation{TaskID: t.ID, Leverage: leverage, Confidence: confidence})
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Leverage != recs[j].Leverage {
			return recs[i].Leverage > recs[j].Leverage
		}
		ti, tj := byTask[recs[i].TaskID], byTask[recs[j].TaskID]
		if ti.Priority.Rank() != tj.Priority.Rank() {
			return ti.Priority.Rank() < tj.Priority.Rank()
		}
		return recs[i].TaskID < recs[j].TaskID
	})
	return recs
}
