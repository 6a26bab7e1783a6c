package task

import (
	"testing"
	"time"

	"github.com/cleo-run/cleo/internal/model"
	"github.com/stretchr/testify/require"
)

func mkTask(id string, status model.Status, parent *string) model.Task {
	return model.Task{
		ID:        id,
		Title:     id + " title",
		Status:    status,
		Priority:  model.PriorityMedium,
		Type:      model.TypeTask,
		ParentID:  parent,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func strp(s string) *string { return &s }

func TestNextTaskIDUsesHighestSuffixAcrossActiveAndArchive(t *testing.T) {
	active := []model.Task{mkTask("T1", model.StatusPending, nil), mkTask("T5", model.StatusPending, nil)}
	archived := []model.Task{mkTask("T12", model.StatusDone, nil)}
	require.Equal(t, "T13", NextTaskID(active, archived))
}

func TestAddRejectsMissingParent(t *testing.T) {
	_, err := Add(nil, nil, AddRequest{Title: "x", ParentID: "T9"}, 5, time.Now())
	require.ErrorIs(t, err, ErrParentNotFound)
}

func TestAddEnforcesMaxDepth(t *testing.T) {
	active := []model.Task{
		mkTask("T1", model.StatusPending, nil),
		mkTask("T2", model.StatusPending, strp("T1")),
	}
	_, err := Add(active, nil, AddRequest{Title: "x", ParentID: "T2"}, 1, time.Now())
	require.ErrorIs(t, err, ErrMaxDepthExceeded)
}

func TestAddNormalizesLabelsAndSeedsVerification(t *testing.T) {
	tk, err := Add(nil, nil, AddRequest{Title: "x", Labels: []string{" Needs Review "}}, 0, time.Now())
	require.NoError(t, err)
	require.Equal(t, []string{"needs-review"}, tk.Labels)
	require.NotNil(t, tk.Verification)
}

func TestCompleteCascadesAutoCompleteToParent(t *testing.T) {
	parentID := "T1"
	tasks := []model.Task{
		mkTask("T1", model.StatusActive, nil),
		mkTask("T2", model.StatusActive, &parentID),
	}
	tasks, err := Complete(tasks, "T2", time.Now())
	require.NoError(t, err)
	parent := findTask(tasks, "T1")
	require.Equal(t, model.StatusDone, parent.Status)
	require.True(t, parent.AutoCompleted)
}

func TestReopenCascadesThroughAutoCompletedAncestors(t *testing.T) {
	parentID := "T1"
	tasks := []model.Task{
		mkTask("T1", model.StatusActive, nil),
		mkTask("T2", model.StatusActive, &parentID),
	}
	tasks, err := Complete(tasks, "T2", time.Now())
	require.NoError(t, err)

	tasks, err = Reopen(tasks, "T2", time.Now())
	require.NoError(t, err)
	parent := findTask(tasks, "T1")
	require.Equal(t, model.StatusPending, parent.Status)
	require.False(t, parent.AutoCompleted)
}

func TestCancelBlockStrategyRefusesWithChildren(t *testing.T) {
	parentID := "T1"
	tasks := []model.Task{
		mkTask("T1", model.StatusActive, nil),
		mkTask("T2", model.StatusActive, &parentID),
	}
	_, _, err := Cancel(tasks, "T1", "no longer needed", ChildBlock, 0, false, time.Now())
	require.ErrorIs(t, err, ErrHasChildren)
}

func TestCancelRequiresNonTrivialReason(t *testing.T) {
	tasks := []model.Task{mkTask("T1", model.StatusPending, nil)}
	_, _, err := Cancel(tasks, "T1", "no", ChildBlock, 0, false, time.Now())
	require.ErrorIs(t, err, ErrReasonTooShort)
}

func TestCancelCascadeAffectsAllDescendants(t *testing.T) {
	parentID := "T1"
	tasks := []model.Task{
		mkTask("T1", model.StatusActive, nil),
		mkTask("T2", model.StatusActive, &parentID),
	}
	tasks, affected, err := Cancel(tasks, "T1", "scope cut", ChildCascade, 0, false, time.Now())
	require.NoError(t, err)
	require.Equal(t, 2, affected)
	require.Equal(t, model.StatusCancelled, findTask(tasks, "T2").Status)
}

func TestCancelCascadeRefusesAboveThresholdUnlessForced(t *testing.T) {
	parentID := "T1"
	tasks := []model.Task{
		mkTask("T1", model.StatusActive, nil),
		mkTask("T2", model.StatusActive, &parentID),
		mkTask("T3", model.StatusActive, &parentID),
	}
	_, _, err := Cancel(tasks, "T1", "scope cut", ChildCascade, 1, false, time.Now())
	require.ErrorIs(t, err, ErrCascadeThresholdExceeded)

	tasks, affected, err := Cancel(tasks, "T1", "scope cut", ChildCascade, 1, true, time.Now())
	require.NoError(t, err)
	require.Equal(t, 3, affected)
}

func TestCancelOrphanDetachesChildren(t *testing.T) {
	parentID := "T1"
	tasks := []model.Task{
		mkTask("T1", model.StatusActive, nil),
		mkTask("T2", model.StatusActive, &parentID),
	}
	tasks, _, err := Cancel(tasks, "T1", "scope cut", ChildOrphan, 0, false, time.Now())
	require.NoError(t, err)
	require.Nil(t, findTask(tasks, "T2").ParentID)
}

func TestUncancelRestoresPreCancelStatus(t *testing.T) {
	tasks := []model.Task{mkTask("T1", model.StatusBlocked, nil)}
	tasks, _, err := Cancel(tasks, "T1", "paused work", ChildBlock, 0, false, time.Now())
	require.NoError(t, err)

	tasks, err = Uncancel(tasks, "T1", time.Now())
	require.NoError(t, err)
	require.Equal(t, model.StatusBlocked, findTask(tasks, "T1").Status)
}

func TestUncancelRejectsNonCancelledTask(t *testing.T) {
	tasks := []model.Task{mkTask("T1", model.StatusPending, nil)}
	_, err := Uncancel(tasks, "T1", time.Now())
	require.ErrorIs(t, err, ErrNotCancelled)
}

func TestDeleteOrphanKeepsChildren(t *testing.T) {
	parentID := "T1"
	tasks := []model.Task{
		mkTask("T1", model.StatusActive, nil),
		mkTask("T2", model.StatusActive, &parentID),
	}
	tasks, affected, err := Delete(tasks, "T1", ChildOrphan, 0, false)
	require.NoError(t, err)
	require.Equal(t, 1, affected)
	require.Len(t, tasks, 1)
	require.Nil(t, findTask(tasks, "T2").ParentID)
}

func TestArchiveRefusesNonTerminalTask(t *testing.T) {
	active := []model.Task{mkTask("T1", model.StatusActive, nil)}
	_, _, err := Archive(active, nil, "T1")
	require.ErrorIs(t, err, ErrNotDone)
}

func TestArchiveAndUnarchiveRoundTrip(t *testing.T) {
	active := []model.Task{mkTask("T1", model.StatusDone, nil)}
	active, archived, err := Archive(active, nil, "T1")
	require.NoError(t, err)
	require.Empty(t, active)
	require.Len(t, archived, 1)

	active, archived, err = Unarchive(active, archived, "T1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Empty(t, archived)
}

func TestSetGateEnforcesOrderedChain(t *testing.T) {
	tasks := []model.Task{mkTask("T1", model.StatusActive, nil)}
	tasks[0].Verification = model.NewVerification("user")
	_, err := SetGate(tasks, "T1", model.GateTestsPassed, "agent-a", "", true, time.Now())
	require.ErrorIs(t, err, ErrGatePredecessorUnmet)
}

func TestSetGateFailureResetsDownstreamAndIncrementsRound(t *testing.T) {
	tasks := []model.Task{mkTask("T1", model.StatusActive, nil)}
	tasks[0].Verification = model.NewVerification("user")
	tasks[0].Verification.MaxRounds = 5

	tasks, err := SetGate(tasks, "T1", model.GateImplemented, "agent-a", "", true, time.Now())
	require.NoError(t, err)
	tasks, err = SetGate(tasks, "T1", model.GateTestsPassed, "agent-a", "", true, time.Now())
	require.NoError(t, err)
	tasks, err = SetGate(tasks, "T1", model.GateQAPassed, "agent-b", "", true, time.Now())
	require.NoError(t, err)

	tasks, err = SetGate(tasks, "T1", model.GateTestsPassed, "agent-a", "regression found", false, time.Now())
	require.NoError(t, err)

	v := findTask(tasks, "T1").Verification
	require.Equal(t, 1, v.Round)
	require.Nil(t, v.Gates[model.GateQAPassed])
	require.Len(t, v.Failures, 1)
}

func TestSetGateRejectsSameValidatorAndTester(t *testing.T) {
	tasks := []model.Task{mkTask("T1", model.StatusActive, nil)}
	tasks[0].Verification = model.NewVerification("user")

	tasks, err := SetGate(tasks, "T1", model.GateImplemented, "agent-a", "", true, time.Now())
	require.NoError(t, err)
	tasks, err = SetGate(tasks, "T1", model.GateTestsPassed, "agent-a", "", true, time.Now())
	require.NoError(t, err)

	_, err = SetGate(tasks, "T1", model.GateQAPassed, "agent-a", "", true, time.Now())
	require.Error(t, err)
}

func TestSetGateRejectsOnEpic(t *testing.T) {
	epic := mkTask("T1", model.StatusActive, nil)
	epic.Type = model.TypeEpic
	_, err := SetGate([]model.Task{epic}, "T1", model.GateImplemented, "agent-a", "", true, time.Now())
	require.ErrorIs(t, err, ErrEpicHasNoGates)
}

func TestUpdatePatchesOnlyProvidedFields(t *testing.T) {
	tasks := []model.Task{mkTask("T1", model.StatusPending, nil)}
	title := "new title"
	tasks, err := Update(tasks, "T1", UpdateRequest{Title: &title}, time.Now())
	require.NoError(t, err)
	require.Equal(t, "new title", findTask(tasks, "T1").Title)
	require.Equal(t, model.PriorityMedium, findTask(tasks, "T1").Priority)
}

func TestAddNoteAppendsToLog(t *testing.T) {
	tasks := []model.Task{mkTask("T1", model.StatusPending, nil)}
	tasks, err := AddNote(tasks, "T1", "checked in with reviewer", time.Now())
	require.NoError(t, err)
	require.Len(t, findTask(tasks, "T1").Notes, 1)
}
