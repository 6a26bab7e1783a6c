package model

import "time"

// SessionStatus is a session's lifecycle state (spec.md §3.3, §3.7).
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionSuspended SessionStatus = "suspended"
	SessionEnded     SessionStatus = "ended"
	SessionOrphaned  SessionStatus = "orphaned"
)

// ScopeType discriminates the tagged union in spec.md §3.3.
type ScopeType string

const (
	ScopeGlobal  ScopeType = "global"
	ScopeEpic    ScopeType = "epic"
	ScopeSubtree ScopeType = "subtree"
	ScopeCustom  ScopeType = "custom"
)

// Scope is the subset of the task graph a session may modify.
type Scope struct {
	Type   ScopeType `json:"type"`
	EpicID string    `json:"epicId,omitempty"`
	// RootID is used by ScopeSubtree and is the task id that roots the
	// subtree; for ScopeEpic it is equivalent to EpicID.
	RootID string `json:"rootId,omitempty"`
	// Label names a ScopeCustom scope for display purposes only; custom
	// scopes are treated as hard-conflicting only with themselves (by label).
	Label string `json:"label,omitempty"`
}

// RootTaskID returns the task id that roots this scope's subtree, or "" for
// global/custom scopes.
func (s Scope) RootTaskID() string {
	switch s.Type {
	case ScopeEpic:
		return s.EpicID
	case ScopeSubtree:
		return s.RootID
	default:
		return ""
	}
}

// Focus is the session's pointer to its single current task.
type Focus struct {
	TaskID *string    `json:"taskId"`
	SetAt  *time.Time `json:"setAt"`
}

// FocusHistoryEntry is one append-only row of a session's focus history
// (spec.md §3.4).
type FocusHistoryEntry struct {
	TaskID    string     `json:"taskId"`
	SetAt     time.Time  `json:"setAt"`
	ClearedAt *time.Time `json:"clearedAt"`
}

// Session is one entry of the sessions document (spec.md §3.3).
type Session struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Status          SessionStatus `json:"status"`
	Scope           Scope         `json:"scope"`
	Focus           Focus         `json:"focus"`
	Agent           string        `json:"agent,omitempty"`
	StartedAt       time.Time     `json:"startedAt"`
	EndedAt         *time.Time    `json:"endedAt,omitempty"`
	Notes           []Note        `json:"notes,omitempty"`
	TasksCompleted  []string      `json:"tasksCompleted,omitempty"`
	TasksCreated    []string      `json:"tasksCreated,omitempty"`

	// FocusHistory is this session's append-only focus log (spec.md §3.4).
	FocusHistory []FocusHistoryEntry `json:"focusHistory,omitempty"`
}

// IsActive reports whether the session is usable for new work.
func (s *Session) IsActive() bool { return s.Status == SessionActive }

// OpenFocusRow returns the index of the focus-history row with ClearedAt ==
// nil, or -1 if none is open. At most one such row may exist per session
// (spec.md §3.4, §4.5).
func (s *Session) OpenFocusRow() int {
	for i := len(s.FocusHistory) - 1; i >= 0; i-- {
		if s.FocusHistory[i].ClearedAt == nil {
			return i
		}
	}
	return -1
}
