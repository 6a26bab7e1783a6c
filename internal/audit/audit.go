// Package audit wraps internal/store's append-only JSONL log primitives
// with CLEO's specific operation vocabulary and before/after snapshotting
// (spec.md §3.5, §5: every mutating operation appends exactly one audit
// entry, in the order operations were applied).
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cleo-run/cleo/internal/model"
	"github.com/cleo-run/cleo/internal/store"
)

// Op names the closed set of audit-logged operations (spec.md §6's verb
// list, restricted to the mutating subset).
type Op string

const (
	OpAdd        Op = "add"
	OpUpdate     Op = "update"
	OpComplete   Op = "complete"
	OpReopen     Op = "reopen"
	OpCancel     Op = "cancel"
	OpUncancel   Op = "uncancel"
	OpDelete     Op = "delete"
	OpArchive    Op = "archive"
	OpUnarchive  Op = "unarchive"
	OpGateUpdate Op = "gate-update"
	OpFocusSet   Op = "focus-set"
	OpFocusClear Op = "focus-clear"
	OpSessionStart   Op = "session-start"
	OpSessionEnd     Op = "session-end"
	OpSessionResume  Op = "session-resume"
	OpSessionSuspend Op = "session-suspend"
	OpMigrate        Op = "migrate"
	OpRestore        Op = "restore"

	OpOrchestratorSpawn  Op = "orchestrator-spawn"
	OpOrchestratorReturn Op = "orchestrator-return"
)

// Entry describes one audit record to be appended; Before/After are
// marshaled to JSON as-is, allowing nil for operations with no prior state
// (e.g. add).
type Entry struct {
	Op        Op
	Actor     string
	TaskID    string
	SessionID string
	Before    any
	After     any
}

// Log appends entries to a project's audit log via accessor, in the
// author's call order (the accessor's own file lock serializes concurrent
// writers — spec.md §5).
type Log struct {
	Accessor store.Accessor
	Now      func() time.Time
}

// NewLog returns a Log using the real wall clock.
func NewLog(accessor store.Accessor) *Log {
	return &Log{Accessor: accessor, Now: func() time.Time { return time.Now().UTC() }}
}

// Append records one audit entry.
func (l *Log) Append(ctx context.Context, e Entry) error {
	before, err := marshalOrNil(e.Before)
	if err != nil {
		return fmt.Errorf("marshal audit before: %w", err)
	}
	after, err := marshalOrNil(e.After)
	if err != nil {
		return fmt.Errorf("marshal audit after: %w", err)
	}

	now := time.Now().UTC()
	if l.Now != nil {
		now = l.Now()
	}

	return l.Accessor.AppendAuditLog(ctx, model.AuditEntry{
		TS:        now,
		Op:        string(e.Op),
		Actor:     e.Actor,
		TaskID:    e.TaskID,
		SessionID: e.SessionID,
		Before:    before,
		After:     after,
	})
}

// History returns every audit entry in append order.
func (l *Log) History(ctx context.Context) ([]model.AuditEntry, error) {
	return l.Accessor.ReadAuditLog(ctx)
}

// ForTask filters History to entries touching one task id.
func (l *Log) ForTask(ctx context.Context, taskID string) ([]model.AuditEntry, error) {
	all, err := l.Accessor.ReadAuditLog(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.AuditEntry
	for _, e := range all {
		if e.TaskID == taskID {
			out = append(out, e)
		}
	}
	return out, nil
}

func marshalOrNil(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
