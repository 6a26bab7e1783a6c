package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// lockEntry tracks one file's advisory lock plus in-process reentrancy state.
// A single goroutine (or a chain of calls on the same owner key) may acquire
// the same path's lock repeatedly without deadlocking itself, matching
// spec.md §4.1's "reentrant per owner" requirement.
type lockEntry struct {
	mu       sync.Mutex
	fl       *flock.Flock
	holder   string
	depth    int
}

// LockManager serializes writers to the files under one project's state
// directory, per spec.md §5. Writers take an exclusive lock for the
// duration of load-modify-save; reads take no lock.
type LockManager struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

// NewLockManager returns a LockManager with no locks held.
func NewLockManager() *LockManager {
	return &LockManager{entries: make(map[string]*lockEntry)}
}

func (m *LockManager) entryFor(path string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[path]
	if !ok {
		e = &lockEntry{fl: flock.New(path + ".lock")}
		m.entries[path] = e
	}
	return e
}

// unlockFunc releases a lock taken by Acquire; callers use the function
// Acquire returns.
type unlockFunc func()

// Acquire takes the exclusive lock for path, identified by owner for
// reentrancy, waiting up to timeout. It returns ErrLockFailed on timeout.
func (m *LockManager) Acquire(ctx context.Context, path, owner string, timeout time.Duration) (unlockFunc, error) {
	e := m.entryFor(path)

	e.mu.Lock()
	if e.holder == owner && e.depth > 0 {
		e.depth++
		e.mu.Unlock()
		return func() { m.release(e, owner) }, nil
	}
	e.mu.Unlock()

	deadlineCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	locked, err := e.fl.TryLockContext(deadlineCtx, 10*time.Millisecond)
	if err != nil || !locked {
		return nil, fmt.Errorf("acquire lock on %s: %w", path, ErrLockFailed)
	}

	e.mu.Lock()
	e.holder = owner
	e.depth = 1
	e.mu.Unlock()

	return func() { m.release(e, owner) }, nil
}

func (m *LockManager) release(e *lockEntry, owner string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.holder != owner {
		return
	}
	e.depth--
	if e.depth <= 0 {
		e.depth = 0
		e.holder = ""
		_ = e.fl.Unlock()
	}
}
