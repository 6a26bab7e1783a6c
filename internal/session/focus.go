package session

import (
	"fmt"
	"time"

	"github.com/cleo-run/cleo/internal/model"
	"github.com/cleo-run/cleo/internal/validate"
)

// setFocusAt closes any open focus-history row on sessions[idx], appends a
// new row, and starts the target task if it isn't already terminal
// (spec.md §4.5: "Set").
func setFocusAt(sessions []model.Session, idx int, tasks []model.Task, taskID string, now time.Time) ([]model.Task, error) {
	s := &sessions[idx]
	if open := s.OpenFocusRow(); open != -1 {
		s.FocusHistory[open].ClearedAt = &now
	}
	s.FocusHistory = append(s.FocusHistory, model.FocusHistoryEntry{TaskID: taskID, SetAt: now})
	s.Focus = model.Focus{TaskID: &taskID, SetAt: &now}

	for i := range tasks {
		if tasks[i].ID != taskID {
			continue
		}
		if tasks[i].IsTerminal() {
			break
		}
		if err := validate.TaskTransition(tasks[i].Status, model.StatusActive); err == nil {
			tasks[i].Status = model.StatusActive
			tasks[i].UpdatedAt = now
		}
		break
	}
	return tasks, nil
}

// SetFocus sets sessionID's current focus to taskID (spec.md §4.5).
func SetFocus(sessions []model.Session, tasks []model.Task, sessionID, taskID string, now time.Time) ([]model.Session, []model.Task, error) {
	idx := findSession(sessions, sessionID)
	if idx == -1 {
		return sessions, tasks, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	if sessions[idx].Status != model.SessionActive {
		return sessions, tasks, ErrNotActive
	}
	tasks, err := setFocusAt(sessions, idx, tasks, taskID, now)
	return sessions, tasks, err
}

// ClearFocus closes the open focus-history row and nulls the session's
// current focus (spec.md §4.5).
func ClearFocus(sessions []model.Session, sessionID string, now time.Time) ([]model.Session, error) {
	idx := findSession(sessions, sessionID)
	if idx == -1 {
		return sessions, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	s := &sessions[idx]
	open := s.OpenFocusRow()
	if open == -1 {
		return sessions, ErrNoOpenFocus
	}
	s.FocusHistory[open].ClearedAt = &now
	s.Focus = model.Focus{}
	return sessions, nil
}

// ShowFocus returns sessionID's current focus task id, or "" if none is set.
func ShowFocus(sessions []model.Session, sessionID string) (string, error) {
	idx := findSession(sessions, sessionID)
	if idx == -1 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	if sessions[idx].Focus.TaskID == nil {
		return "", nil
	}
	return *sessions[idx].Focus.TaskID, nil
}

// History returns sessionID's full focus-history log in append order.
func History(sessions []model.Session, sessionID string) ([]model.FocusHistoryEntry, error) {
	idx := findSession(sessions, sessionID)
	if idx == -1 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	return sessions[idx].FocusHistory, nil
}
