package store

import (
	"context"
	"testing"

	"github.com/cleo-run/cleo/internal/model"
	"github.com/stretchr/testify/require"
)

func TestMemoryAccessorIsolatesCallerMutations(t *testing.T) {
	acc := NewMemoryAccessor()
	doc := model.NewTasksDocument("demo")
	doc.Tasks = append(doc.Tasks, model.Task{ID: "T1"})
	require.NoError(t, acc.SaveTasks(context.Background(), doc))

	doc.Tasks[0].ID = "T2" // mutate caller's copy after save
	loaded, err := acc.LoadTasks(context.Background())
	require.NoError(t, err)
	require.Equal(t, "T1", loaded.Tasks[0].ID)

	loaded.Tasks[0].ID = "T3" // mutate loaded copy
	loaded2, err := acc.LoadTasks(context.Background())
	require.NoError(t, err)
	require.Equal(t, "T1", loaded2.Tasks[0].ID)
}

func TestDualAccessorFallsBackOnPrimaryFailure(t *testing.T) {
	primary := NewMemoryAccessor()
	secondary := NewMemoryAccessor()
	dual := NewDualAccessor(primary, secondary, nil)

	doc := model.NewTasksDocument("demo")
	doc.Tasks = append(doc.Tasks, model.Task{ID: "T1"})
	require.NoError(t, dual.SaveTasks(context.Background(), doc))

	// Simulate primary losing the document (e.g. DB unavailable) by
	// swapping it for a fresh, empty accessor.
	dual.primary = NewMemoryAccessor()

	loaded, err := dual.LoadTasks(context.Background())
	require.NoError(t, err)
	require.Empty(t, loaded.Tasks) // primary empty but doesn't error, so no fallback

	// With no tasks set at all, primary.LoadTasks still returns an (empty)
	// doc rather than an error, so the fallback path is exercised instead
	// through a failing primary implementation.
	dual2 := NewDualAccessor(&failingAccessor{MemoryAccessor: NewMemoryAccessor()}, secondary, nil)
	loaded2, err := dual2.LoadTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded2.Tasks, 1)
}

type failingAccessor struct{ *MemoryAccessor }

func (*failingAccessor) LoadTasks(ctx context.Context) (*model.TasksDocument, error) {
	return nil, ErrNotFound
}
