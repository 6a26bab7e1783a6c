package validate

import (
	"testing"
	"time"

	"github.com/cleo-run/cleo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frozenNow() time.Time { return time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC) }

func baseTask(id string) model.Task {
	return model.Task{
		ID:        id,
		Title:     "a valid title",
		Status:    model.StatusPending,
		Priority:  model.PriorityMedium,
		Type:      model.TypeTask,
		CreatedAt: frozenNow().Add(-time.Hour),
		UpdatedAt: frozenNow().Add(-time.Hour),
	}
}

func TestValidateTasksDocumentAcceptsWellFormedDocument(t *testing.T) {
	doc := model.NewTasksDocument("demo")
	doc.Meta.SchemaVersion = model.SchemaVersion
	doc.Meta.LastUpdated = frozenNow()
	doc.Tasks = []model.Task{baseTask("T1")}

	v := &Validator{Now: frozenNow}
	r := v.ValidateTasksDocument(doc, nil)
	require.Empty(t, r.Errors)
	assert.True(t, r.Valid)
}

func TestValidateTasksDocumentRejectsEmptyTitle(t *testing.T) {
	doc := model.NewTasksDocument("demo")
	doc.Meta.SchemaVersion = model.SchemaVersion
	doc.Meta.LastUpdated = frozenNow()
	bad := baseTask("T1")
	bad.Title = ""
	doc.Tasks = []model.Task{bad}

	v := &Validator{Now: frozenNow}
	r := v.ValidateTasksDocument(doc, nil)
	assert.False(t, r.Valid)
}

func TestValidateTasksDocumentRejectsFutureTimestamp(t *testing.T) {
	doc := model.NewTasksDocument("demo")
	doc.Meta.SchemaVersion = model.SchemaVersion
	doc.Meta.LastUpdated = frozenNow()
	bad := baseTask("T1")
	bad.CreatedAt = frozenNow().Add(time.Hour)
	doc.Tasks = []model.Task{bad}

	v := &Validator{Now: frozenNow}
	r := v.ValidateTasksDocument(doc, nil)
	assert.False(t, r.Valid)
	found := false
	for _, e := range r.Errors {
		if e.Code == "TIMESTAMP_IN_FUTURE" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateTasksDocumentDetectsDependencyCycle(t *testing.T) {
	doc := model.NewTasksDocument("demo")
	doc.Meta.SchemaVersion = model.SchemaVersion
	doc.Meta.LastUpdated = frozenNow()

	a := baseTask("T1")
	a.Depends = []string{"T2"}
	b := baseTask("T2")
	b.Depends = []string{"T1"}
	doc.Tasks = []model.Task{a, b}

	v := &Validator{Now: frozenNow}
	r := v.ValidateTasksDocument(doc, nil)
	assert.False(t, r.Valid)
	found := false
	for _, e := range r.Errors {
		if e.Code == "DEPENDENCY_CYCLE" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateTasksDocumentDetectsDanglingParent(t *testing.T) {
	doc := model.NewTasksDocument("demo")
	doc.Meta.SchemaVersion = model.SchemaVersion
	doc.Meta.LastUpdated = frozenNow()

	orphan := baseTask("T1")
	missing := "T99"
	orphan.ParentID = &missing
	doc.Tasks = []model.Task{orphan}

	v := &Validator{Now: frozenNow}
	r := v.ValidateTasksDocument(doc, nil)
	assert.False(t, r.Valid)
}

func TestValidateTasksDocumentRejectsMultipleActivePhases(t *testing.T) {
	doc := model.NewTasksDocument("demo")
	doc.Meta.SchemaVersion = model.SchemaVersion
	doc.Meta.LastUpdated = frozenNow()
	doc.Tasks = []model.Task{baseTask("T1")}
	doc.Project.Phases = map[string]*model.Phase{
		"alpha": {Name: "alpha", Status: model.PhaseStatusActive},
		"beta":  {Name: "beta", Status: model.PhaseStatusActive},
	}

	v := &Validator{Now: frozenNow}
	r := v.ValidateTasksDocument(doc, nil)
	assert.False(t, r.Valid)
}

func TestTaskTransitionLegalAndIllegal(t *testing.T) {
	require.NoError(t, TaskTransition(model.StatusPending, model.StatusActive))
	require.NoError(t, TaskTransition(model.StatusActive, model.StatusActive))
	require.NoError(t, TaskTransition(model.StatusPending, model.StatusCancelled))
	require.NoError(t, TaskTransition(model.StatusCancelled, model.StatusPending))
	require.Error(t, TaskTransition(model.StatusPending, model.StatusDone))
}

func TestCircularValidation(t *testing.T) {
	require.Error(t, CircularValidation("alice", "alice", "bob"))
	require.Error(t, CircularValidation("alice", "bob", "alice"))
	require.Error(t, CircularValidation("alice", "bob", "bob"))
	require.NoError(t, CircularValidation("alice", "bob", "carol"))
	require.NoError(t, CircularValidation("system", "system", "system"))
}
