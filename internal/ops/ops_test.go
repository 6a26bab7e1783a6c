package ops

import (
	"context"
	"testing"
	"time"

	"github.com/cleo-run/cleo/internal/graph"
	"github.com/cleo-run/cleo/internal/model"
	"github.com/cleo-run/cleo/internal/session"
	"github.com/cleo-run/cleo/internal/store"
	"github.com/cleo-run/cleo/internal/task"
	"github.com/stretchr/testify/require"
)

func newTestSurface(t *testing.T) *Surface {
	t.Helper()
	acc := store.NewMemoryAccessor()
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	return NewSurface(acc, func() time.Time { return now }, Config{
		Version:          "1.0.0",
		MaxDepth:         5,
		ChildStrategy:    task.ChildCascade,
		CascadeThreshold: 10,
		SizeStrategy:     graph.StrategyBalanced,
		SpawnDeadline:    time.Hour,
	})
}

func TestDispatchAddAndListRoundTrip(t *testing.T) {
	s := newTestSurface(t)
	ctx := context.Background()

	add := s.Dispatch(ctx, Request{
		Name:  OpAdd,
		Actor: "agent-1",
		Params: map[string]any{
			"title": "Write the onboarding doc",
			"type":  "task",
		},
	})
	require.True(t, add.Success)
	require.Nil(t, add.Error)

	list := s.Dispatch(ctx, Request{Name: OpList, Actor: "agent-1"})
	require.True(t, list.Success)
	tasks, ok := list.Data.([]model.Task)
	require.True(t, ok)
	require.Len(t, tasks, 1)
	require.Equal(t, "Write the onboarding doc", tasks[0].Title)
}

func TestDispatchShowUnknownTaskReturnsNotFound(t *testing.T) {
	s := newTestSurface(t)
	resp := s.Dispatch(context.Background(), Request{
		Name:   OpShow,
		Actor:  "agent-1",
		Params: map[string]any{"taskId": "T99"},
	})
	require.False(t, resp.Success)
	require.Equal(t, CodeNotFound, resp.Error.Code)
	require.Equal(t, 3, resp.Error.ExitCode)
}

func TestDispatchUnknownOperation(t *testing.T) {
	s := newTestSurface(t)
	resp := s.Dispatch(context.Background(), Request{Name: Name("bogus")})
	require.False(t, resp.Success)
	require.Equal(t, CodeInternal, resp.Error.Code)
}

func TestDispatchFocusSetAndShow(t *testing.T) {
	s := newTestSurface(t)
	ctx := context.Background()

	add := s.Dispatch(ctx, Request{
		Name:   OpAdd,
		Actor:  "agent-1",
		Params: map[string]any{"title": "Implement the gate checker"},
	})
	require.True(t, add.Success)
	taskID := add.Data.(*model.Task).ID

	start := s.Dispatch(ctx, Request{
		Name:  OpSessionStart,
		Actor: "agent-1",
		Params: map[string]any{
			"name":      "session-1",
			"scopeType": "global",
			"rootId":    "root",
		},
	})
	require.True(t, start.Success)
	result := start.Data.(*session.StartResult)
	sessionID := result.Session.ID

	focusSet := s.Dispatch(ctx, Request{
		Name:      OpFocusSet,
		SessionID: sessionID,
		Params:    map[string]any{"taskId": taskID},
	})
	require.True(t, focusSet.Success)

	focusShow := s.Dispatch(ctx, Request{Name: OpFocusShow, SessionID: sessionID})
	require.True(t, focusShow.Success)
	require.Equal(t, taskID, focusShow.Data)
}

func TestDispatchMigrateIsIdempotent(t *testing.T) {
	s := newTestSurface(t)
	ctx := context.Background()

	first := s.Dispatch(ctx, Request{Name: OpMigrate})
	require.True(t, first.Success)

	second := s.Dispatch(ctx, Request{Name: OpMigrate})
	require.True(t, second.Success)
	report := second.Data.(*migrateReport)
	require.False(t, report.TasksMigrated)
}

func TestDispatchValidateReportsHealthyNewProject(t *testing.T) {
	s := newTestSurface(t)
	resp := s.Dispatch(context.Background(), Request{Name: OpValidate})
	require.True(t, resp.Success)
	result := resp.Data.(*validateResult)
	require.True(t, result.Valid)
}

func TestDispatchDoctorRunsWithoutError(t *testing.T) {
	s := newTestSurface(t)
	resp := s.Dispatch(context.Background(), Request{Name: OpDoctor})
	require.True(t, resp.Success)
	report := resp.Data.(*doctorReport)
	require.True(t, report.TasksValid)
	require.True(t, report.SessionsValid)
}

func TestDispatchMetricsSummaryOnEmptyProject(t *testing.T) {
	s := newTestSurface(t)
	resp := s.Dispatch(context.Background(), Request{Name: OpMetricsSummary})
	require.True(t, resp.Success)
	report := resp.Data.(*metricsSummaryReport)
	require.Zero(t, report.TotalTokens)
}

func TestDispatchResearchAppendRequiresIDAndTitle(t *testing.T) {
	s := newTestSurface(t)
	resp := s.Dispatch(context.Background(), Request{
		Name:   OpResearchAppend,
		Params: map[string]any{"title": "missing id"},
	})
	require.False(t, resp.Success)
	require.Equal(t, CodeInvalidInput, resp.Error.Code)
}

func TestDispatchResearchAppendSucceeds(t *testing.T) {
	s := newTestSurface(t)
	resp := s.Dispatch(context.Background(), Request{
		Name: OpResearchAppend,
		Params: map[string]any{
			"id":    "R1",
			"title": "Survey caching backends",
		},
	})
	require.True(t, resp.Success)
	entry := resp.Data.(*model.ManifestEntry)
	require.Equal(t, "review", entry.Status)
}

func TestClassifyMapsSentinelErrors(t *testing.T) {
	e := Classify(task.ErrNotFound)
	require.Equal(t, CodeNotFound, e.Code)
	require.Equal(t, 3, e.ExitCode)
}

func TestDispatchCancelReportsAffectedCount(t *testing.T) {
	s := newTestSurface(t)
	ctx := context.Background()

	add := s.Dispatch(ctx, Request{
		Name:   OpAdd,
		Actor:  "agent-1",
		Params: map[string]any{"title": "Spike on queueing"},
	})
	require.True(t, add.Success)
	taskID := add.Data.(*model.Task).ID

	cancel := s.Dispatch(ctx, Request{
		Name:  OpCancel,
		Actor: "agent-1",
		Params: map[string]any{
			"taskId": taskID,
			"reason": "superseded by T-other",
		},
	})
	require.True(t, cancel.Success)
	result := cancel.Data.(map[string]any)
	require.Equal(t, 1, result["affected"])
}
