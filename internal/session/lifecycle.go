package session

import (
	"context"
	"fmt"
	"time"

	"github.com/cleo-run/cleo/internal/lifecycle"
	"github.com/cleo-run/cleo/internal/model"
)

// StartRequest carries the caller-supplied fields for a new session.
type StartRequest struct {
	Name  string
	Scope model.Scope
	Agent string
	Focus string
}

// StartResult reports the created session plus any soft-conflict warning.
type StartResult struct {
	Session *model.Session
	Warning string
}

// Start validates scope against every other active session, rejecting on
// a hard conflict, warning on a soft one, and assigns the new session an
// id (spec.md §4.5).
func Start(sessions []model.Session, tasks []model.Task, req StartRequest, now time.Time) ([]model.Session, *StartResult, error) {
	if req.Scope.Type == "" {
		return sessions, nil, ErrEmptyScope
	}

	var warning string
	for _, s := range sessions {
		if s.Status != model.SessionActive {
			continue
		}
		switch DetectConflict(s.Scope, req.Scope, tasks) {
		case HardConflict:
			return sessions, nil, fmt.Errorf("%w: conflicts with session %s", ErrScopeConflict, s.ID)
		case SoftConflict:
			warning = fmt.Sprintf("scope shares an ancestor with active session %s", s.ID)
		}
	}

	id, err := model.NewSessionID(now)
	if err != nil {
		return sessions, nil, fmt.Errorf("generate session id: %w", err)
	}

	sess := model.Session{
		ID:        id,
		Name:      req.Name,
		Status:    model.SessionActive,
		Scope:     req.Scope,
		Agent:     req.Agent,
		StartedAt: now,
	}
	sessions = append(sessions, sess)

	if req.Focus != "" {
		idx := len(sessions) - 1
		if _, err := setFocusAt(sessions, idx, tasks, req.Focus, now); err != nil {
			return sessions, nil, err
		}
	}

	return sessions, &StartResult{Session: &sessions[len(sessions)-1], Warning: warning}, nil
}

func findSession(sessions []model.Session, id string) int {
	for i := range sessions {
		if sessions[i].ID == id {
			return i
		}
	}
	return -1
}

func fireStatus(sessions []model.Session, idx int, event lifecycle.Event, now time.Time) error {
	m := lifecycle.NewSessionMachine(lifecycle.State(sessions[idx].Status))
	if err := lifecycle.FireSessionEvent(context.Background(), m, event); err != nil {
		return err
	}
	sessions[idx].Status = model.SessionStatus(m.State())
	if sessions[idx].Status == model.SessionEnded {
		sessions[idx].EndedAt = &now
	}
	return nil
}

// Suspend transitions sessionID from active to suspended.
func Suspend(sessions []model.Session, sessionID string, now time.Time) ([]model.Session, error) {
	idx := findSession(sessions, sessionID)
	if idx == -1 {
		return sessions, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	return sessions, fireStatus(sessions, idx, lifecycle.EventSuspend, now)
}

// Resume transitions sessionID from suspended back to active.
func Resume(sessions []model.Session, sessionID string, now time.Time) ([]model.Session, error) {
	idx := findSession(sessions, sessionID)
	if idx == -1 {
		return sessions, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	return sessions, fireStatus(sessions, idx, lifecycle.EventResume, now)
}

// End transitions sessionID (active or suspended) to ended, stamping
// endedAt.
func End(sessions []model.Session, sessionID string, now time.Time) ([]model.Session, error) {
	idx := findSession(sessions, sessionID)
	if idx == -1 {
		return sessions, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	return sessions, fireStatus(sessions, idx, lifecycle.EventEnd, now)
}

// GC rewrites every ended session whose endedAt predates
// now - maxAgeDays as orphaned, returning the count rewritten (spec.md
// §4.5: "GC").
func GC(sessions []model.Session, maxAgeDays int, now time.Time) ([]model.Session, int) {
	cutoff := now.AddDate(0, 0, -maxAgeDays)
	n := 0
	for i := range sessions {
		if sessions[i].Status != model.SessionEnded || sessions[i].EndedAt == nil {
			continue
		}
		if sessions[i].EndedAt.Before(cutoff) {
			_ = fireStatus(sessions, i, lifecycle.EventOrphan, now)
			n++
		}
	}
	return sessions, n
}
