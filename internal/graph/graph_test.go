package graph

import (
	"testing"
	"time"

	"github.com/cleo-run/cleo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkTask(id string, status model.Status, priority model.Priority, depends ...string) model.Task {
	return model.Task{ID: id, Title: id, Status: status, Priority: priority, Type: model.TypeTask, Depends: depends, CreatedAt: time.Now(), UpdatedAt: time.Now()}
}

func TestTopoSortOrdersByDependency(t *testing.T) {
	tasks := []model.Task{
		mkTask("T3", model.StatusPending, model.PriorityMedium, "T1", "T2"),
		mkTask("T1", model.StatusPending, model.PriorityMedium),
		mkTask("T2", model.StatusPending, model.PriorityMedium, "T1"),
	}
	order := TopoSort(tasks)
	pos := make(map[string]int, len(order))
	for i, t := range order {
		pos[t.ID] = i
	}
	assert.Less(t, pos["T1"], pos["T2"])
	assert.Less(t, pos["T2"], pos["T3"])
}

func TestTopoSortFallsBackOnCycle(t *testing.T) {
	tasks := []model.Task{
		mkTask("T1", model.StatusPending, model.PriorityHigh, "T2"),
		mkTask("T2", model.StatusPending, model.PriorityCritical, "T1"),
	}
	order := TopoSort(tasks)
	require.Len(t, order, 2)
	assert.Equal(t, "T2", order[0].ID) // critical sorts before high in the fallback
}

func TestComputeWavesTreatsCompletedDepsAsSatisfied(t *testing.T) {
	tasks := []model.Task{
		mkTask("T1", model.StatusDone, model.PriorityMedium),
		mkTask("T2", model.StatusActive, model.PriorityMedium, "T1"),
		mkTask("T3", model.StatusActive, model.PriorityMedium, "T2"),
	}
	waves := ComputeWaves(tasks)
	require.Len(t, waves, 2)
	assert.Equal(t, "T2", waves[0][0].ID)
	assert.Equal(t, "T3", waves[1][0].ID)
}

func TestComputeWavesSeparatesEachLinkOfADeepChain(t *testing.T) {
	tasks := []model.Task{
		mkTask("T2", model.StatusActive, model.PriorityMedium),
		mkTask("T3", model.StatusActive, model.PriorityMedium, "T2"),
		mkTask("T4", model.StatusActive, model.PriorityMedium, "T3"),
	}
	waves := ComputeWaves(tasks)
	require.Len(t, waves, 3)
	assert.Equal(t, "T2", waves[0][0].ID)
	assert.Equal(t, "T3", waves[1][0].ID)
	assert.Equal(t, "T4", waves[2][0].ID)
}

func TestComputeWavesEmitsCyclicWaveOnStall(t *testing.T) {
	tasks := []model.Task{
		mkTask("T1", model.StatusActive, model.PriorityMedium, "T2"),
		mkTask("T2", model.StatusActive, model.PriorityMedium, "T1"),
	}
	waves := ComputeWaves(tasks)
	require.Len(t, waves, 1)
	assert.Len(t, waves[0], 2)
}

func TestNextPrefersAlreadyActiveThenPriority(t *testing.T) {
	tasks := []model.Task{
		mkTask("T1", model.StatusPending, model.PriorityCritical),
		mkTask("T2", model.StatusActive, model.PriorityLow),
	}
	next := Next(tasks)
	require.NotNil(t, next)
	assert.Equal(t, "T2", next.ID)
}

func TestNextSkipsTasksWithUnsatisfiedDeps(t *testing.T) {
	tasks := []model.Task{
		mkTask("T1", model.StatusBlocked, model.PriorityMedium, "T2"),
		mkTask("T2", model.StatusActive, model.PriorityMedium),
	}
	next := Next(tasks)
	require.NotNil(t, next)
	assert.Equal(t, "T2", next.ID) // T1's dep on T2 is unsatisfied; T2 itself qualifies
}

func TestNextReturnsNilWhenNoneQualify(t *testing.T) {
	tasks := []model.Task{
		mkTask("T1", model.StatusBlocked, model.PriorityMedium, "T2"),
		mkTask("T2", model.StatusBlocked, model.PriorityMedium, "T1"),
	}
	next := Next(tasks)
	assert.Nil(t, next)
}

func TestCriticalPathReturnsLongestChain(t *testing.T) {
	tasks := []model.Task{
		mkTask("T1", model.StatusPending, model.PriorityMedium),
		mkTask("T2", model.StatusPending, model.PriorityMedium, "T1"),
		mkTask("T3", model.StatusPending, model.PriorityMedium, "T2"),
	}
	chain := CriticalPath(tasks)
	assert.Equal(t, []string{"T1", "T2", "T3"}, chain)
}

func TestStalenessClassifiesByDaysSinceActivity(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	task := model.Task{Status: model.StatusActive, CreatedAt: now.AddDate(0, 0, -20), UpdatedAt: now.AddDate(0, 0, -20)}
	assert.Equal(t, Critical, Staleness(task, now, Thresholds{}))
}

func TestStalenessTerminalTasksAreFresh(t *testing.T) {
	now := time.Now()
	task := model.Task{Status: model.StatusDone, CreatedAt: now.AddDate(0, 0, -100), UpdatedAt: now.AddDate(0, 0, -100)}
	assert.Equal(t, Fresh, Staleness(task, now, Thresholds{}))
}

func TestAnalyzeOrdersByLeverageThenPriority(t *testing.T) {
	tasks := []model.Task{
		mkTask("T1", model.StatusPending, model.PriorityLow),
		mkTask("T2", model.StatusPending, model.PriorityCritical, "T1"),
	}
	recs := Analyze(tasks, nil, "", StrategyBalanced)
	require.Len(t, recs, 2)
	assert.Equal(t, "T1", recs[0].TaskID) // unblocks T2 on completion
}
