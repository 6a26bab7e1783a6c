package ops

import (
	"errors"
	"strings"

	"github.com/cleo-run/cleo/internal/session"
	"github.com/cleo-run/cleo/internal/store"
	"github.com/cleo-run/cleo/internal/task"
)

// Code names the closed error taxonomy every surfaced failure maps to
// (spec.md §7).
type Code string

const (
	CodeInvalidInput         Code = "INVALID_INPUT"
	CodeNotFound             Code = "NOT_FOUND"
	CodeValidationError      Code = "VALIDATION_ERROR"
	CodeStateConflict        Code = "STATE_CONFLICT"
	CodeLockFailed           Code = "LOCK_FAILED"
	CodeChecksumMismatch     Code = "CHECKSUM_MISMATCH"
	CodeCircularValidation   Code = "CIRCULAR_VALIDATION"
	CodeCascadeThreshold     Code = "CASCADE_THRESHOLD_EXCEEDED"
	CodeLifecycleGateBlocked Code = "LIFECYCLE_GATE_BLOCKED"
	CodeContextLimit         Code = "CONTEXT_LIMIT"
	CodeInternal             Code = "INTERNAL"
)

// exitCode maps a Code to its binary-stable exit code family (spec.md
// §6: "0 success; 1 generic error; 2 invalid input; 3-22 domain errors;
// ...; 80 lifecycle gate block").
var exitCode = map[Code]int{
	CodeInvalidInput:         2,
	CodeNotFound:             3,
	CodeValidationError:      4,
	CodeStateConflict:        5,
	CodeLockFailed:           6,
	CodeChecksumMismatch:     7,
	CodeCircularValidation:   8,
	CodeCascadeThreshold:     9,
	CodeLifecycleGateBlocked: 80,
	CodeContextLimit:         50,
	CodeInternal:             1,
}

// OpError is the error shape the response envelope's "error" field
// carries (spec.md §6 JSON response envelope, §7 "a machine code, a
// human message, an optional fix suggestion, and a list of
// alternatives").
type OpError struct {
	Code         Code     `json:"code"`
	Message      string   `json:"message"`
	Fix          string   `json:"fix,omitempty"`
	Alternatives []string `json:"alternatives,omitempty"`
	ExitCode     int      `json:"exitCode"`
}

func (e *OpError) Error() string {
	return e.Message
}

// Classify maps a returned error to the closed taxonomy by matching it
// against the core packages' sentinel errors with errors.Is, falling
// back to CodeInternal for anything unrecognized.
func Classify(err error) *OpError {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, task.ErrNotFound),
		errors.Is(err, task.ErrParentNotFound),
		errors.Is(err, session.ErrNotFound),
		errors.Is(err, store.ErrNotFound):
		return &OpError{Code: CodeNotFound, Message: err.Error(), ExitCode: exitCode[CodeNotFound]}

	case errors.Is(err, task.ErrMaxDepthExceeded),
		errors.Is(err, task.ErrReasonTooShort),
		errors.Is(err, task.ErrUnknownChildStrategy),
		errors.Is(err, session.ErrEmptyScope),
		errors.Is(err, errInvalidInput):
		return &OpError{Code: CodeInvalidInput, Message: err.Error(), ExitCode: exitCode[CodeInvalidInput]}

	case errors.Is(err, task.ErrCascadeThresholdExceeded):
		return &OpError{
			Code: CodeCascadeThreshold, Message: err.Error(),
			Fix: "pass --force to proceed, or lower the affected count by narrowing scope",
			ExitCode: exitCode[CodeCascadeThreshold],
		}

	case errors.Is(err, task.ErrHasChildren),
		errors.Is(err, task.ErrNotCancelled),
		errors.Is(err, task.ErrNotDone),
		errors.Is(err, task.ErrAlreadyArchived),
		errors.Is(err, task.ErrNotArchived),
		errors.Is(err, task.ErrEpicHasNoGates),
		errors.Is(err, task.ErrGatePredecessorUnmet),
		errors.Is(err, session.ErrNotActive),
		errors.Is(err, session.ErrNotSuspended),
		errors.Is(err, session.ErrScopeConflict),
		errors.Is(err, session.ErrNoOpenFocus):
		return &OpError{Code: CodeStateConflict, Message: err.Error(), ExitCode: exitCode[CodeStateConflict]}

	case errors.Is(err, task.ErrMaxRoundsExceeded):
		return &OpError{Code: CodeLifecycleGateBlocked, Message: err.Error(), ExitCode: exitCode[CodeLifecycleGateBlocked]}

	case errors.Is(err, store.ErrLockFailed):
		return &OpError{Code: CodeLockFailed, Message: err.Error(), ExitCode: exitCode[CodeLockFailed]}

	case errors.Is(err, store.ErrChecksumMismatch):
		return &OpError{Code: CodeChecksumMismatch, Message: err.Error(), ExitCode: exitCode[CodeChecksumMismatch]}

	case errors.Is(err, store.ErrValidation):
		return &OpError{Code: CodeValidationError, Message: err.Error(), ExitCode: exitCode[CodeValidationError]}

	case strings.Contains(err.Error(), "circular validation"):
		return &OpError{Code: CodeCircularValidation, Message: err.Error(), ExitCode: exitCode[CodeCircularValidation]}

	case strings.Contains(err.Error(), "validation failed"):
		return &OpError{Code: CodeValidationError, Message: err.Error(), ExitCode: exitCode[CodeValidationError]}

	default:
		return &OpError{Code: CodeInternal, Message: err.Error(), ExitCode: exitCode[CodeInternal]}
	}
}
