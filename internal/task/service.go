package task

import (
	"context"
	"fmt"
	"time"

	"github.com/cleo-run/cleo/internal/audit"
	"github.com/cleo-run/cleo/internal/model"
	"github.com/cleo-run/cleo/internal/store"
	"github.com/cleo-run/cleo/internal/validate"
)

// Service wires the pure task operations to a store.Accessor, a
// validate.Validator, and an audit.Log, giving every exported method the
// load -> mutate -> validate -> save -> audit cycle spec.md §4.6 requires
// of every mutating operation.
type Service struct {
	Accessor  store.Accessor
	Validator *validate.Validator
	Audit     *audit.Log
	Now       func() time.Time
	MaxDepth  int
}

// NewService returns a Service using the real wall clock.
func NewService(accessor store.Accessor, validator *validate.Validator, auditLog *audit.Log, maxDepth int) *Service {
	return &Service{
		Accessor:  accessor,
		Validator: validator,
		Audit:     auditLog,
		Now:       func() time.Time { return time.Now().UTC() },
		MaxDepth:  maxDepth,
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Service) loadDocs(ctx context.Context) (*model.TasksDocument, *model.ArchiveDocument, error) {
	doc, err := s.Accessor.LoadTasks(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load tasks: %w", err)
	}
	archive, err := s.Accessor.LoadArchive(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load archive: %w", err)
	}
	return doc, archive, nil
}

func (s *Service) validateAndSave(ctx context.Context, doc *model.TasksDocument, archive *model.ArchiveDocument) error {
	if r := s.Validator.ValidateTasksDocument(doc, archive); !r.Valid {
		return fmt.Errorf("validation failed: %v", r.Errors)
	}
	doc.Meta.LastUpdated = s.now()
	return s.Accessor.SaveTasks(ctx, doc)
}

func (s *Service) saveArchive(ctx context.Context, archive *model.ArchiveDocument) error {
	archive.Meta.LastUpdated = s.now()
	return s.Accessor.SaveArchive(ctx, archive)
}

func findTask(tasks []model.Task, id string) *model.Task {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i]
		}
	}
	return nil
}

// Add creates a new task and persists it.
func (s *Service) Add(ctx context.Context, actor string, req AddRequest) (*model.Task, error) {
	doc, archive, err := s.loadDocs(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	t, err := Add(doc.Tasks, archive.Tasks, req, s.MaxDepth, now)
	if err != nil {
		return nil, err
	}
	doc.Tasks = append(doc.Tasks, *t)
	if err := s.validateAndSave(ctx, doc, archive); err != nil {
		return nil, err
	}
	_ = s.Audit.Append(ctx, audit.Entry{Op: audit.OpAdd, Actor: actor, TaskID: t.ID, After: *t})
	return t, nil
}

// Complete marks taskID done, cascading auto-completion upward.
func (s *Service) Complete(ctx context.Context, actor, taskID string) error {
	doc, archive, err := s.loadDocs(ctx)
	if err != nil {
		return err
	}
	before := findTask(doc.Tasks, taskID)
	if before == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, taskID)
	}
	beforeSnapshot := *before
	tasks, err := Complete(doc.Tasks, taskID, s.now())
	if err != nil {
		return err
	}
	doc.Tasks = tasks
	if err := s.validateAndSave(ctx, doc, archive); err != nil {
		return err
	}
	after := findTask(doc.Tasks, taskID)
	_ = s.Audit.Append(ctx, audit.Entry{Op: audit.OpComplete, Actor: actor, TaskID: taskID, Before: beforeSnapshot, After: *after})
	return nil
}

// Reopen reverts a done task back to pending.
func (s *Service) Reopen(ctx context.Context, actor, taskID string) error {
	doc, archive, err := s.loadDocs(ctx)
	if err != nil {
		return err
	}
	before := findTask(doc.Tasks, taskID)
	if before == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, taskID)
	}
	beforeSnapshot := *before
	tasks, err := Reopen(doc.Tasks, taskID, s.now())
	if err != nil {
		return err
	}
	doc.Tasks = tasks
	if err := s.validateAndSave(ctx, doc, archive); err != nil {
		return err
	}
	after := findTask(doc.Tasks, taskID)
	_ = s.Audit.Append(ctx, audit.Entry{Op: audit.OpReopen, Actor: actor, TaskID: taskID, Before: beforeSnapshot, After: *after})
	return nil
}

// Cancel cancels taskID, honoring the configured child strategy.
func (s *Service) Cancel(ctx context.Context, actor, taskID, reason string, strategy ChildStrategy, cascadeThreshold int, force bool) (int, error) {
	doc, archive, err := s.loadDocs(ctx)
	if err != nil {
		return 0, err
	}
	before := findTask(doc.Tasks, taskID)
	if before == nil {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, taskID)
	}
	beforeSnapshot := *before
	tasks, affected, err := Cancel(doc.Tasks, taskID, reason, strategy, cascadeThreshold, force, s.now())
	if err != nil {
		return affected, err
	}
	doc.Tasks = tasks
	if err := s.validateAndSave(ctx, doc, archive); err != nil {
		return affected, err
	}
	after := findTask(doc.Tasks, taskID)
	_ = s.Audit.Append(ctx, audit.Entry{Op: audit.OpCancel, Actor: actor, TaskID: taskID, Before: beforeSnapshot, After: *after})
	return affected, nil
}

// Uncancel restores a cancelled task to its pre-cancel status.
func (s *Service) Uncancel(ctx context.Context, actor, taskID string) error {
	doc, archive, err := s.loadDocs(ctx)
	if err != nil {
		return err
	}
	before := findTask(doc.Tasks, taskID)
	if before == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, taskID)
	}
	beforeSnapshot := *before
	tasks, err := Uncancel(doc.Tasks, taskID, s.now())
	if err != nil {
		return err
	}
	doc.Tasks = tasks
	if err := s.validateAndSave(ctx, doc, archive); err != nil {
		return err
	}
	after := findTask(doc.Tasks, taskID)
	_ = s.Audit.Append(ctx, audit.Entry{Op: audit.OpUncancel, Actor: actor, TaskID: taskID, Before: beforeSnapshot, After: *after})
	return nil
}

// Delete removes taskID from the active document permanently.
func (s *Service) Delete(ctx context.Context, actor, taskID string, strategy ChildStrategy, cascadeThreshold int, force bool) (int, error) {
	doc, archive, err := s.loadDocs(ctx)
	if err != nil {
		return 0, err
	}
	before := findTask(doc.Tasks, taskID)
	if before == nil {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, taskID)
	}
	beforeSnapshot := *before
	tasks, affected, err := Delete(doc.Tasks, taskID, strategy, cascadeThreshold, force)
	if err != nil {
		return affected, err
	}
	doc.Tasks = tasks
	if err := s.validateAndSave(ctx, doc, archive); err != nil {
		return affected, err
	}
	_ = s.Audit.Append(ctx, audit.Entry{Op: audit.OpDelete, Actor: actor, TaskID: taskID, Before: beforeSnapshot})
	return affected, nil
}

// Archive moves a terminal task from active to the archive document.
func (s *Service) Archive(ctx context.Context, actor, taskID string) error {
	doc, archive, err := s.loadDocs(ctx)
	if err != nil {
		return err
	}
	before := findTask(doc.Tasks, taskID)
	if before == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, taskID)
	}
	beforeSnapshot := *before
	activeTasks, archiveTasks, err := Archive(doc.Tasks, archive.Tasks, taskID)
	if err != nil {
		return err
	}
	doc.Tasks = activeTasks
	archive.Tasks = archiveTasks
	if r := s.Validator.ValidateArchiveDocument(archive); !r.Valid {
		return fmt.Errorf("archive validation failed: %v", r.Errors)
	}
	if err := s.validateAndSave(ctx, doc, archive); err != nil {
		return err
	}
	if err := s.saveArchive(ctx, archive); err != nil {
		return err
	}
	_ = s.Audit.Append(ctx, audit.Entry{Op: audit.OpArchive, Actor: actor, TaskID: taskID, Before: beforeSnapshot})
	return nil
}

// Unarchive moves taskID back from the archive document to active.
func (s *Service) Unarchive(ctx context.Context, actor, taskID string) error {
	doc, archive, err := s.loadDocs(ctx)
	if err != nil {
		return err
	}
	activeTasks, archiveTasks, err := Unarchive(doc.Tasks, archive.Tasks, taskID)
	if err != nil {
		return err
	}
	doc.Tasks = activeTasks
	archive.Tasks = archiveTasks
	if err := s.validateAndSave(ctx, doc, archive); err != nil {
		return err
	}
	if err := s.saveArchive(ctx, archive); err != nil {
		return err
	}
	after := findTask(doc.Tasks, taskID)
	var afterVal any
	if after != nil {
		afterVal = *after
	}
	_ = s.Audit.Append(ctx, audit.Entry{Op: audit.OpUnarchive, Actor: actor, TaskID: taskID, After: afterVal})
	return nil
}

// SetGate records a verification gate verdict for taskID.
func (s *Service) SetGate(ctx context.Context, actor, taskID string, gate model.GateName, reason string, passed bool) error {
	doc, archive, err := s.loadDocs(ctx)
	if err != nil {
		return err
	}
	before := findTask(doc.Tasks, taskID)
	if before == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, taskID)
	}
	beforeSnapshot := *before
	tasks, err := SetGate(doc.Tasks, taskID, gate, actor, reason, passed, s.now())
	if err != nil {
		return err
	}
	doc.Tasks = tasks
	if err := s.validateAndSave(ctx, doc, archive); err != nil {
		return err
	}
	after := findTask(doc.Tasks, taskID)
	_ = s.Audit.Append(ctx, audit.Entry{Op: audit.OpGateUpdate, Actor: actor, TaskID: taskID, Before: beforeSnapshot, After: *after})
	return nil
}

// Update applies a partial patch to taskID.
func (s *Service) Update(ctx context.Context, actor, taskID string, req UpdateRequest) error {
	doc, archive, err := s.loadDocs(ctx)
	if err != nil {
		return err
	}
	before := findTask(doc.Tasks, taskID)
	if before == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, taskID)
	}
	beforeSnapshot := *before
	tasks, err := Update(doc.Tasks, taskID, req, s.now())
	if err != nil {
		return err
	}
	doc.Tasks = tasks
	if err := s.validateAndSave(ctx, doc, archive); err != nil {
		return err
	}
	after := findTask(doc.Tasks, taskID)
	_ = s.Audit.Append(ctx, audit.Entry{Op: audit.OpUpdate, Actor: actor, TaskID: taskID, Before: beforeSnapshot, After: *after})
	return nil
}
