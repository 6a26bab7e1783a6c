// Package validate implements CLEO's four-layer document validator
// (spec.md §4.3): schema, field semantics, cross-entity invariants, and
// state-machine legality, each gating the next.
package validate

import (
	"time"

	"github.com/cleo-run/cleo/internal/model"
)

// Validator runs the document layers (1-3) over a loaded document in order,
// and layer 4 per transition via TaskTransition, aborting at the first
// layer that reports any error (spec.md §4.3: "any layer's
// failure aborts the write and the later layers are not run").
type Validator struct {
	// Now supplies the current time for field-semantics checks; tests and
	// deterministic operations inject a frozen clock (spec.md §4.10).
	Now func() time.Time
}

// NewValidator returns a Validator using the real wall clock.
func NewValidator() *Validator {
	return &Validator{Now: time.Now}
}

// ValidateTasksDocument runs layers 1-3 over doc together with archive (for
// id-uniqueness). Layer 4 is checked per-transition via TaskTransition, not
// here, since a document load has no "previous status" to compare against.
func (v *Validator) ValidateTasksDocument(doc *model.TasksDocument, archive *model.ArchiveDocument) *Result {
	r := newResult()

	if errs := schemaValidate(kindTasksDocument, doc); len(errs) > 0 {
		r.Valid = false
		r.Errors = append(r.Errors, errs...)
		return r
	}

	now := v.now()
	for i := range doc.Tasks {
		fieldSemantics(&doc.Tasks[i], now, r)
	}
	if !r.Valid {
		return r
	}

	var archiveTasks []model.Task
	if archive != nil {
		archiveTasks = archive.Tasks
	}
	crossEntityTasks(doc.Tasks, archiveTasks, &doc.Project, r)
	return r
}

// ValidateSessionsDocument runs layers 1 and 3 over a sessions document;
// sessions have no field-semantics (layer 2) pass.
func (v *Validator) ValidateSessionsDocument(doc *model.SessionsDocument) *Result {
	r := newResult()

	if errs := schemaValidate(kindSessionsDoc, doc); len(errs) > 0 {
		r.Valid = false
		r.Errors = append(r.Errors, errs...)
		return r
	}

	crossEntitySessions(doc.Sessions, r)
	return r
}

// ValidateArchiveDocument runs layer 1 (schema) over an archive document;
// cross-entity checks for archived tasks are folded into
// ValidateTasksDocument's id-uniqueness pass.
func (v *Validator) ValidateArchiveDocument(doc *model.ArchiveDocument) *Result {
	r := newResult()
	if errs := schemaValidate(kindArchiveDocument, doc); len(errs) > 0 {
		r.Valid = false
		r.Errors = append(r.Errors, errs...)
	}
	return r
}

func (v *Validator) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}
