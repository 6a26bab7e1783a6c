// Package session implements the session and focus manager of spec.md
// §4.5 (component G): session start/status/resume/suspend/end, scope
// conflict detection, garbage collection of stale ended sessions, and the
// per-session single-current-focus log. As with internal/task, every
// operation is a pure transformation over an in-memory document; callers
// are responsible for load -> validate -> save -> audit.
package session

import "errors"

var (
	ErrNotFound            = errors.New("session not found")
	ErrNotActive           = errors.New("session is not active")
	ErrNotSuspended        = errors.New("session is not suspended")
	ErrScopeConflict       = errors.New("scope conflicts with an active session")
	ErrNoOpenFocus         = errors.New("session has no open focus")
	ErrEmptyScope          = errors.New("scope requires a type")
)
