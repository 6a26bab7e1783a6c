// Package task implements the task lifecycle operations of spec.md §4.6
// (component F): add, update, complete, reopen, cancel, uncancel, delete,
// archive, unarchive, and verification-gate updates. Every operation is a
// pure transformation over an in-memory document; callers (internal/ops)
// are responsible for load -> validate -> save -> audit via internal/store
// and internal/audit.
package task

import "errors"

var (
	ErrNotFound               = errors.New("task not found")
	ErrParentNotFound         = errors.New("parent task not found")
	ErrMaxDepthExceeded       = errors.New("task hierarchy depth exceeded")
	ErrReasonTooShort         = errors.New("reason is required and must be non-trivial")
	ErrHasChildren            = errors.New("task has children; refusing to cancel or delete")
	ErrCascadeThresholdExceeded = errors.New("cascade would affect more descendants than the configured threshold")
	ErrNotCancelled           = errors.New("task is not cancelled")
	ErrNotDone                = errors.New("task is not done")
	ErrAlreadyArchived        = errors.New("task is already archived")
	ErrNotArchived            = errors.New("task is not archived")
	ErrEpicHasNoGates         = errors.New("epics do not carry verification gates")
	ErrGatePredecessorUnmet   = errors.New("gate predecessor has not passed")
	ErrMaxRoundsExceeded      = errors.New("verification round limit exceeded")
	ErrUnknownChildStrategy   = errors.New("unknown child-handling strategy")
)
