package audit

import (
	"context"
	"testing"
	"time"

	"github.com/cleo-run/cleo/internal/model"
	"github.com/cleo-run/cleo/internal/store"
	"github.com/stretchr/testify/require"
)

func TestLogAppendAndHistory(t *testing.T) {
	acc := store.NewMemoryAccessor()
	frozen := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	log := &Log{Accessor: acc, Now: func() time.Time { return frozen }}
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, Entry{Op: OpAdd, Actor: "user", TaskID: "T1", After: model.Task{ID: "T1"}}))
	require.NoError(t, log.Append(ctx, Entry{Op: OpComplete, Actor: "user", TaskID: "T1"}))
	require.NoError(t, log.Append(ctx, Entry{Op: OpAdd, Actor: "user", TaskID: "T2"}))

	all, err := log.History(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, string(OpAdd), all[0].Op)
	require.Equal(t, frozen, all[0].TS)

	forT1, err := log.ForTask(ctx, "T1")
	require.NoError(t, err)
	require.Len(t, forT1, 2)
}
