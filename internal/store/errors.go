package store

import "errors"

// Sentinel errors for the atomic file store (spec.md §4.1), named after the
// error taxonomy in spec.md §7.
var (
	// ErrNotFound indicates the requested document does not exist on disk.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates the caller-supplied validator rejected a write.
	ErrValidation = errors.New("validation error")

	// ErrLockFailed indicates the advisory lock could not be acquired before
	// the configured timeout elapsed.
	ErrLockFailed = errors.New("lock failed")

	// ErrChecksumMismatch indicates a loaded document's stored checksum does
	// not match its content, signalling concurrent external modification.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)
