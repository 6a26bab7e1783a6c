package validate

import (
	"fmt"
	"strings"

	"github.com/cleo-run/cleo/internal/model"
)

// StoreAdapter implements internal/store.DocValidator, translating a *Result
// into the single error that FileAccessor's write path expects. It is the
// seam between the store's plain error-returning contract and this
// package's richer multi-error Result.
type StoreAdapter struct {
	V *Validator
}

// NewStoreAdapter returns a StoreAdapter using the real wall clock.
func NewStoreAdapter() *StoreAdapter {
	return &StoreAdapter{V: NewValidator()}
}

func (a *StoreAdapter) ValidateTasks(doc *model.TasksDocument) error {
	return resultToError(a.V.ValidateTasksDocument(doc, nil))
}

func (a *StoreAdapter) ValidateArchive(doc *model.ArchiveDocument) error {
	return resultToError(a.V.ValidateArchiveDocument(doc))
}

func (a *StoreAdapter) ValidateSessions(doc *model.SessionsDocument) error {
	return resultToError(a.V.ValidateSessionsDocument(doc))
}

func resultToError(r *Result) error {
	if r.Valid {
		return nil
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s (%s)", e.Path, e.Message, e.Code))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}
