package session

import (
	"context"
	"fmt"
	"time"

	"github.com/cleo-run/cleo/internal/audit"
	"github.com/cleo-run/cleo/internal/model"
	"github.com/cleo-run/cleo/internal/store"
	"github.com/cleo-run/cleo/internal/validate"
)

// Service wires the pure session operations to a store.Accessor, a
// validate.Validator, and an audit.Log (spec.md §4.5, mirroring
// internal/task.Service's load -> mutate -> validate -> save -> audit
// cycle).
type Service struct {
	Accessor     store.Accessor
	Validator    *validate.Validator
	Audit        *audit.Log
	Now          func() time.Time
	GCMaxAgeDays int
}

func NewService(accessor store.Accessor, validator *validate.Validator, auditLog *audit.Log, gcMaxAgeDays int) *Service {
	return &Service{
		Accessor:     accessor,
		Validator:    validator,
		Audit:        auditLog,
		Now:          func() time.Time { return time.Now().UTC() },
		GCMaxAgeDays: gcMaxAgeDays,
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Service) saveSessions(ctx context.Context, doc *model.SessionsDocument) error {
	if r := s.Validator.ValidateSessionsDocument(doc); !r.Valid {
		return fmt.Errorf("validation failed: %v", r.Errors)
	}
	doc.Meta.LastUpdated = s.now()
	return s.Accessor.SaveSessions(ctx, doc)
}

func (s *Service) saveTasks(ctx context.Context, doc *model.TasksDocument, archive *model.ArchiveDocument) error {
	if r := s.Validator.ValidateTasksDocument(doc, archive); !r.Valid {
		return fmt.Errorf("validation failed: %v", r.Errors)
	}
	doc.Meta.LastUpdated = s.now()
	return s.Accessor.SaveTasks(ctx, doc)
}

// Start begins a new session, optionally setting an initial focus.
func (s *Service) Start(ctx context.Context, req StartRequest) (*StartResult, error) {
	sessDoc, err := s.Accessor.LoadSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	tasksDoc, err := s.Accessor.LoadTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	archive, err := s.Accessor.LoadArchive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load archive: %w", err)
	}

	sessions, result, err := Start(sessDoc.Sessions, tasksDoc.Tasks, req, s.now())
	if err != nil {
		return nil, err
	}
	sessDoc.Sessions = sessions

	if err := s.saveSessions(ctx, sessDoc); err != nil {
		return nil, err
	}
	if err := s.saveTasks(ctx, tasksDoc, archive); err != nil {
		return nil, err
	}
	_ = s.Audit.Append(ctx, audit.Entry{Op: audit.OpSessionStart, SessionID: result.Session.ID, After: *result.Session})
	return result, nil
}

// Suspend suspends an active session.
func (s *Service) Suspend(ctx context.Context, sessionID string) error {
	doc, err := s.Accessor.LoadSessions(ctx)
	if err != nil {
		return err
	}
	sessions, err := Suspend(doc.Sessions, sessionID, s.now())
	if err != nil {
		return err
	}
	doc.Sessions = sessions
	if err := s.saveSessions(ctx, doc); err != nil {
		return err
	}
	_ = s.Audit.Append(ctx, audit.Entry{Op: audit.OpSessionSuspend, SessionID: sessionID})
	return nil
}

// Resume resumes a suspended session.
func (s *Service) Resume(ctx context.Context, sessionID string) error {
	doc, err := s.Accessor.LoadSessions(ctx)
	if err != nil {
		return err
	}
	sessions, err := Resume(doc.Sessions, sessionID, s.now())
	if err != nil {
		return err
	}
	doc.Sessions = sessions
	if err := s.saveSessions(ctx, doc); err != nil {
		return err
	}
	_ = s.Audit.Append(ctx, audit.Entry{Op: audit.OpSessionResume, SessionID: sessionID})
	return nil
}

// End ends an active or suspended session.
func (s *Service) End(ctx context.Context, sessionID string) error {
	doc, err := s.Accessor.LoadSessions(ctx)
	if err != nil {
		return err
	}
	sessions, err := End(doc.Sessions, sessionID, s.now())
	if err != nil {
		return err
	}
	doc.Sessions = sessions
	if err := s.saveSessions(ctx, doc); err != nil {
		return err
	}
	_ = s.Audit.Append(ctx, audit.Entry{Op: audit.OpSessionEnd, SessionID: sessionID})
	return nil
}

// GC orphans every stale ended session.
func (s *Service) GC(ctx context.Context) (int, error) {
	doc, err := s.Accessor.LoadSessions(ctx)
	if err != nil {
		return 0, err
	}
	sessions, n := GC(doc.Sessions, s.GCMaxAgeDays, s.now())
	if n == 0 {
		return 0, nil
	}
	doc.Sessions = sessions
	if err := s.saveSessions(ctx, doc); err != nil {
		return 0, err
	}
	return n, nil
}

// SetFocus sets sessionID's current focus and persists both documents,
// since focusing a task may start it.
func (s *Service) SetFocus(ctx context.Context, sessionID, taskID string) error {
	sessDoc, err := s.Accessor.LoadSessions(ctx)
	if err != nil {
		return err
	}
	tasksDoc, err := s.Accessor.LoadTasks(ctx)
	if err != nil {
		return err
	}
	archive, err := s.Accessor.LoadArchive(ctx)
	if err != nil {
		return err
	}

	sessions, tasks, err := SetFocus(sessDoc.Sessions, tasksDoc.Tasks, sessionID, taskID, s.now())
	if err != nil {
		return err
	}
	sessDoc.Sessions = sessions
	tasksDoc.Tasks = tasks

	if err := s.saveSessions(ctx, sessDoc); err != nil {
		return err
	}
	if err := s.saveTasks(ctx, tasksDoc, archive); err != nil {
		return err
	}
	_ = s.Audit.Append(ctx, audit.Entry{Op: audit.OpFocusSet, SessionID: sessionID, TaskID: taskID})
	return nil
}

// ClearFocus clears sessionID's current focus.
func (s *Service) ClearFocus(ctx context.Context, sessionID string) error {
	doc, err := s.Accessor.LoadSessions(ctx)
	if err != nil {
		return err
	}
	sessions, err := ClearFocus(doc.Sessions, sessionID, s.now())
	if err != nil {
		return err
	}
	doc.Sessions = sessions
	if err := s.saveSessions(ctx, doc); err != nil {
		return err
	}
	_ = s.Audit.Append(ctx, audit.Entry{Op: audit.OpFocusClear, SessionID: sessionID})
	return nil
}
