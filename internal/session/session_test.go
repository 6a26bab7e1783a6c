package session

import (
	"testing"
	"time"

	"github.com/cleo-run/cleo/internal/model"
	"github.com/stretchr/testify/require"
)

func mkTask(id string, parent *string) model.Task {
	return model.Task{ID: id, Title: id, Status: model.StatusPending, ParentID: parent, CreatedAt: time.Now(), UpdatedAt: time.Now()}
}

func strp(s string) *string { return &s }

func TestStartRejectsHardConflictOnIdenticalScope(t *testing.T) {
	tasks := []model.Task{mkTask("T1", nil)}
	sessions, res, err := Start(nil, tasks, StartRequest{Name: "s1", Scope: model.Scope{Type: model.ScopeEpic, EpicID: "T1"}}, time.Now())
	require.NoError(t, err)
	require.NotNil(t, res)

	_, _, err = Start(sessions, tasks, StartRequest{Name: "s2", Scope: model.Scope{Type: model.ScopeEpic, EpicID: "T1"}}, time.Now())
	require.ErrorIs(t, err, ErrScopeConflict)
}

func TestStartAllowsSoftConflictWithWarning(t *testing.T) {
	parentID := "T1"
	tasks := []model.Task{
		mkTask("T1", nil),
		mkTask("T2", &parentID),
		mkTask("T3", &parentID),
	}
	sessions, _, err := Start(nil, tasks, StartRequest{Name: "s1", Scope: model.Scope{Type: model.ScopeSubtree, RootID: "T2"}}, time.Now())
	require.NoError(t, err)

	_, res, err := Start(sessions, tasks, StartRequest{Name: "s2", Scope: model.Scope{Type: model.ScopeSubtree, RootID: "T3"}}, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, res.Warning)
}

func TestStartGlobalAcceptedWithWarningAgainstNarrowerScope(t *testing.T) {
	tasks := []model.Task{mkTask("T1", nil)}
	sessions, _, err := Start(nil, tasks, StartRequest{Name: "s1", Scope: model.Scope{Type: model.ScopeEpic, EpicID: "T1"}}, time.Now())
	require.NoError(t, err)

	_, res, err := Start(sessions, tasks, StartRequest{Name: "s2", Scope: model.Scope{Type: model.ScopeGlobal}}, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, res.Warning)
}

func TestStartGlobalConflictsWithAnotherActiveGlobalSession(t *testing.T) {
	var tasks []model.Task
	sessions, _, err := Start(nil, tasks, StartRequest{Name: "s1", Scope: model.Scope{Type: model.ScopeGlobal}}, time.Now())
	require.NoError(t, err)

	_, _, err = Start(sessions, tasks, StartRequest{Name: "s2", Scope: model.Scope{Type: model.ScopeGlobal}}, time.Now())
	require.ErrorIs(t, err, ErrScopeConflict)
}

func TestCustomScopesOnlyConflictByLabel(t *testing.T) {
	var tasks []model.Task
	sessions, _, err := Start(nil, tasks, StartRequest{Name: "s1", Scope: model.Scope{Type: model.ScopeCustom, Label: "docs"}}, time.Now())
	require.NoError(t, err)

	_, _, err = Start(sessions, tasks, StartRequest{Name: "s2", Scope: model.Scope{Type: model.ScopeCustom, Label: "infra"}}, time.Now())
	require.NoError(t, err)

	_, _, err = Start(sessions, tasks, StartRequest{Name: "s3", Scope: model.Scope{Type: model.ScopeCustom, Label: "docs"}}, time.Now())
	require.ErrorIs(t, err, ErrScopeConflict)
}

func TestSuspendResumeEndTransitions(t *testing.T) {
	var tasks []model.Task
	sessions, res, err := Start(nil, tasks, StartRequest{Name: "s1", Scope: model.Scope{Type: model.ScopeGlobal}}, time.Now())
	require.NoError(t, err)
	id := res.Session.ID

	sessions, err = Suspend(sessions, id, time.Now())
	require.NoError(t, err)
	require.Equal(t, model.SessionSuspended, sessions[findSession(sessions, id)].Status)

	sessions, err = Resume(sessions, id, time.Now())
	require.NoError(t, err)
	require.Equal(t, model.SessionActive, sessions[findSession(sessions, id)].Status)

	sessions, err = End(sessions, id, time.Now())
	require.NoError(t, err)
	require.Equal(t, model.SessionEnded, sessions[findSession(sessions, id)].Status)
	require.NotNil(t, sessions[findSession(sessions, id)].EndedAt)
}

func TestGCOrphansStaleEndedSessions(t *testing.T) {
	now := time.Now()
	old := now.AddDate(0, 0, -40)
	sessions := []model.Session{
		{ID: "s1", Status: model.SessionEnded, EndedAt: &old},
		{ID: "s2", Status: model.SessionEnded, EndedAt: &now},
	}
	sessions, n := GC(sessions, 30, now)
	require.Equal(t, 1, n)
	require.Equal(t, model.SessionOrphaned, sessions[0].Status)
	require.Equal(t, model.SessionEnded, sessions[1].Status)
}

func TestSetFocusClosesPriorRowAndStartsTask(t *testing.T) {
	tasks := []model.Task{mkTask("T1", nil), mkTask("T2", nil)}
	sessions, res, err := Start(nil, tasks, StartRequest{Name: "s1", Scope: model.Scope{Type: model.ScopeGlobal}}, time.Now())
	require.NoError(t, err)
	id := res.Session.ID

	sessions, tasks, err = SetFocus(sessions, tasks, id, "T1", time.Now())
	require.NoError(t, err)
	sessions, tasks, err = SetFocus(sessions, tasks, id, "T2", time.Now())
	require.NoError(t, err)

	s := sessions[findSession(sessions, id)]
	require.Len(t, s.FocusHistory, 2)
	require.NotNil(t, s.FocusHistory[0].ClearedAt)
	require.Nil(t, s.FocusHistory[1].ClearedAt)
	require.Equal(t, "T2", *s.Focus.TaskID)

	for _, tk := range tasks {
		if tk.ID == "T2" {
			require.Equal(t, model.StatusActive, tk.Status)
		}
	}
}

func TestClearFocusRequiresOpenRow(t *testing.T) {
	var tasks []model.Task
	sessions, res, err := Start(nil, tasks, StartRequest{Name: "s1", Scope: model.Scope{Type: model.ScopeGlobal}}, time.Now())
	require.NoError(t, err)
	id := res.Session.ID

	_, err = ClearFocus(sessions, id, time.Now())
	require.ErrorIs(t, err, ErrNoOpenFocus)
}

func TestShowAndHistoryReflectFocusLog(t *testing.T) {
	tasks := []model.Task{mkTask("T1", nil)}
	sessions, res, err := Start(nil, tasks, StartRequest{Name: "s1", Scope: model.Scope{Type: model.ScopeGlobal}, Focus: "T1"}, time.Now())
	require.NoError(t, err)
	id := res.Session.ID

	cur, err := ShowFocus(sessions, id)
	require.NoError(t, err)
	require.Equal(t, "T1", cur)

	hist, err := History(sessions, id)
	require.NoError(t, err)
	require.Len(t, hist, 1)
}
