package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cleo-run/cleo/internal/model"
	"github.com/cleo-run/cleo/internal/store"
	"github.com/stretchr/testify/require"
)

func TestEstimateTextRoundsUp(t *testing.T) {
	require.Equal(t, 0, EstimateText(""))
	require.Equal(t, 1, EstimateText("abc"))
	require.Equal(t, 3, EstimateText("0123456789"))
}

func TestEstimateFileUsesSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o644))
	n, err := EstimateFile(path)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestMeasuredUsageSumsByAttribute(t *testing.T) {
	dir := t.TempDir()
	payload := `{
		"ScopeMetrics": [{
			"Metrics": [{
				"Name": "claude_code.token.usage",
				"Data": {"DataPoints": [
					{"Attributes": [{"Key": "type", "Value": {"Type": "STRING", "Value": "input"}}], "Value": 100},
					{"Attributes": [{"Key": "type", "Value": {"Type": "STRING", "Value": "output"}}], "Value": 40},
					{"Attributes": [{"Key": "type", "Value": {"Type": "STRING", "Value": "input"}}], "Value": 5}
				]}
			}]
		}]
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "export.json"), []byte(payload), 0o644))

	totals, err := MeasuredUsage(dir)
	require.NoError(t, err)
	require.Equal(t, 105, totals["input"])
	require.Equal(t, 40, totals["output"])
}

func TestMeasuredUsageErrorsOnEmptyDir(t *testing.T) {
	_, err := MeasuredUsage(t.TempDir())
	require.Error(t, err)
}

func TestSessionConsumedComputesDelta(t *testing.T) {
	snapshots := []model.SessionTokenSnapshot{
		{SessionID: "s1", Phase: "start", Tokens: 100},
		{SessionID: "s1", Phase: "end", Tokens: 340},
		{SessionID: "s2", Phase: "start", Tokens: 50},
	}
	delta, ok := SessionConsumed(snapshots, "s1")
	require.True(t, ok)
	require.Equal(t, int64(240), delta)

	_, ok = SessionConsumed(snapshots, "s2")
	require.False(t, ok)
}

func TestServiceTierLoggingAndDisabledNoOp(t *testing.T) {
	acc := store.NewMemoryAccessor()
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	svc := &Service{Accessor: acc, Now: func() time.Time { return now }}
	ctx := context.Background()

	require.NoError(t, svc.SessionStart(ctx, "s1", 100))
	require.NoError(t, svc.SessionEnd(ctx, "s1", 220))
	snapshots, err := acc.ReadSessionSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)

	require.NoError(t, svc.SpawnPrompt(ctx, "T1", "s1", "some prompt text here"))
	usage, err := acc.ReadTokenUsage(ctx)
	require.NoError(t, err)
	require.Len(t, usage, 1)

	svc.Disabled = true
	require.NoError(t, svc.SessionStart(ctx, "s2", 0))
	snapshots, err = acc.ReadSessionSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
}

func TestCompareAssignsVerdict(t *testing.T) {
	snapshots := []model.SessionTokenSnapshot{
		{SessionID: "cleo", Phase: "start", Tokens: 0},
		{SessionID: "cleo", Phase: "end", Tokens: 800},
		{SessionID: "base", Phase: "start", Tokens: 0},
		{SessionID: "base", Phase: "end", Tokens: 1000},
	}
	test := model.ABTest{ID: "ab1", CleoSessionID: "cleo", BaselineSessionID: "base"}

	cmp := Compare(test, snapshots, 5, 5, 9, 10, DefaultABVerdictThresholds)
	require.Equal(t, int64(200), cmp.TokenDelta)
	require.Equal(t, "improved", cmp.Verdict)

	regressed := Compare(test, snapshots, 5, 5, 2, 10, DefaultABVerdictThresholds)
	require.Equal(t, "regressed", regressed.Verdict)
}

func TestCreateAndCompleteABTest(t *testing.T) {
	acc := store.NewMemoryAccessor()
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	svc := &Service{Accessor: acc, Now: func() time.Time { return now }}
	ctx := context.Background()

	test, err := svc.CreateABTest(ctx, "release-7", "cleo1", "base1")
	require.NoError(t, err)
	require.NotEmpty(t, test.ID)

	require.NoError(t, svc.CompleteABTest(ctx, test))
	tests, err := acc.ReadABTests(ctx)
	require.NoError(t, err)

	latest, ok := LatestABTest(tests, test.ID)
	require.True(t, ok)
	require.NotNil(t, latest.CompletedAt)
}

func TestSyncIsIdempotent(t *testing.T) {
	acc := store.NewMemoryAccessor()
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	svc := &Service{Accessor: acc, Now: func() time.Time { return now }}
	ctx := context.Background()

	require.NoError(t, acc.AppendCompliance(ctx, model.ComplianceEvent{TS: now, TaskID: "T1"}))
	require.NoError(t, acc.AppendSessionSnapshot(ctx, model.SessionTokenSnapshot{TS: now, SessionID: "s1", Phase: "start"}))

	require.NoError(t, svc.Sync(ctx, "proj-a"))
	require.NoError(t, svc.Sync(ctx, "proj-a"))

	aggregates, err := acc.ReadGlobalAggregates(ctx)
	require.NoError(t, err)
	require.Len(t, aggregates, 2)
}
