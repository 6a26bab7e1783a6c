package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cleo-run/cleo/internal/model"
)

// DocValidator validates a decoded document's semantics before it is
// written (the schema/semantic/cross-entity/state-machine layers of
// spec.md §4.3 live in internal/validate and are plugged in here).
type DocValidator interface {
	ValidateTasks(doc *model.TasksDocument) error
	ValidateArchive(doc *model.ArchiveDocument) error
	ValidateSessions(doc *model.SessionsDocument) error
}

// noopValidator accepts everything; used when a caller wants raw storage
// access without the semantic layers (e.g. migration tooling).
type noopValidator struct{}

func (noopValidator) ValidateTasks(*model.TasksDocument) error       { return nil }
func (noopValidator) ValidateArchive(*model.ArchiveDocument) error   { return nil }
func (noopValidator) ValidateSessions(*model.SessionsDocument) error { return nil }

// FileAccessor implements Accessor over the three JSON documents and the
// JSONL logs of spec.md §6, backed by a Store for locking/atomicity.
//
// This is the file-only back-end spec.md §4.2 names. The package's other
// Accessor implementations are MemoryAccessor and DualAccessor; there is
// no embedded-SQL back-end.
type FileAccessor struct {
	store     *Store
	layout    Layout
	validator DocValidator
	now       func() time.Time
}

// NewFileAccessor returns a FileAccessor rooted at layout, validating every
// write with validator (pass nil to skip semantic validation).
func NewFileAccessor(layout Layout, validator DocValidator, now func() time.Time) *FileAccessor {
	if validator == nil {
		validator = noopValidator{}
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &FileAccessor{store: New(now), layout: layout, validator: validator, now: now}
}

var _ Accessor = (*FileAccessor)(nil)

func (a *FileAccessor) LoadTasks(ctx context.Context) (*model.TasksDocument, error) {
	doc := model.NewTasksDocument("")
	if err := a.store.ReadJSON(a.layout.TasksPath, doc); err != nil {
		if isNotFound(err) {
			return model.NewTasksDocument(""), nil
		}
		return nil, err
	}
	if err := verifyChecksum(doc.Meta.Checksum, tasksChecksumPayload(doc)); err != nil {
		return nil, err
	}
	return doc, nil
}

func (a *FileAccessor) SaveTasks(ctx context.Context, doc *model.TasksDocument) error {
	doc.Meta.LastUpdated = a.now()
	sum, err := Checksum(tasksChecksumPayload(doc))
	if err != nil {
		return err
	}
	doc.Meta.Checksum = sum
	return a.store.SaveJSON(ctx, a.layout.TasksPath, doc, SaveOptions{
		BackupDir:       a.layout.OperationalBackupDir,
		BackupRetention: 20,
		Owner:           "tasks",
		Validate: func(v any) error {
			return a.validator.ValidateTasks(v.(*model.TasksDocument))
		},
	})
}

func (a *FileAccessor) LoadArchive(ctx context.Context) (*model.ArchiveDocument, error) {
	doc := model.NewArchiveDocument()
	if err := a.store.ReadJSON(a.layout.ArchivePath, doc); err != nil {
		if isNotFound(err) {
			return model.NewArchiveDocument(), nil
		}
		return nil, err
	}
	if err := verifyChecksum(doc.Meta.Checksum, archiveChecksumPayload(doc)); err != nil {
		return nil, err
	}
	return doc, nil
}

func (a *FileAccessor) SaveArchive(ctx context.Context, doc *model.ArchiveDocument) error {
	doc.Meta.LastUpdated = a.now()
	sum, err := Checksum(archiveChecksumPayload(doc))
	if err != nil {
		return err
	}
	doc.Meta.Checksum = sum
	return a.store.SaveJSON(ctx, a.layout.ArchivePath, doc, SaveOptions{
		BackupDir:       a.layout.OperationalBackupDir,
		BackupRetention: 20,
		Owner:           "archive",
		Validate: func(v any) error {
			return a.validator.ValidateArchive(v.(*model.ArchiveDocument))
		},
	})
}

func (a *FileAccessor) LoadSessions(ctx context.Context) (*model.SessionsDocument, error) {
	doc := model.NewSessionsDocument()
	if err := a.store.ReadJSON(a.layout.SessionsPath, doc); err != nil {
		if isNotFound(err) {
			return model.NewSessionsDocument(), nil
		}
		return nil, err
	}
	if err := verifyChecksum(doc.Meta.Checksum, sessionsChecksumPayload(doc)); err != nil {
		return nil, err
	}
	return doc, nil
}

func (a *FileAccessor) SaveSessions(ctx context.Context, doc *model.SessionsDocument) error {
	doc.Meta.LastUpdated = a.now()
	sum, err := Checksum(sessionsChecksumPayload(doc))
	if err != nil {
		return err
	}
	doc.Meta.Checksum = sum
	return a.store.SaveJSON(ctx, a.layout.SessionsPath, doc, SaveOptions{
		BackupDir:       a.layout.OperationalBackupDir,
		BackupRetention: 20,
		Owner:           "sessions",
		Validate: func(v any) error {
			return a.validator.ValidateSessions(v.(*model.SessionsDocument))
		},
	})
}

func (a *FileAccessor) AppendAuditLog(ctx context.Context, entry model.AuditEntry) error {
	return a.store.AppendJSONL(ctx, a.layout.AuditLogPath, entry, "audit")
}

func (a *FileAccessor) ReadAuditLog(ctx context.Context) ([]model.AuditEntry, error) {
	raw, err := a.store.ReadLogEntries(a.layout.AuditLogPath)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.AuditEntry](raw), nil
}

func (a *FileAccessor) AppendManifest(ctx context.Context, entry model.ManifestEntry) error {
	return a.store.AppendJSONL(ctx, a.layout.ManifestLogPath, entry, "manifest")
}

func (a *FileAccessor) ReadManifest(ctx context.Context) ([]model.ManifestEntry, error) {
	raw, err := a.store.ReadLogEntries(a.layout.ManifestLogPath)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.ManifestEntry](raw), nil
}

func (a *FileAccessor) AppendCompliance(ctx context.Context, entry model.ComplianceEvent) error {
	return a.store.AppendJSONL(ctx, a.layout.CompliancePath, entry, "compliance")
}

func (a *FileAccessor) ReadCompliance(ctx context.Context) ([]model.ComplianceEvent, error) {
	raw, err := a.store.ReadLogEntries(a.layout.CompliancePath)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.ComplianceEvent](raw), nil
}

func (a *FileAccessor) AppendViolation(ctx context.Context, entry model.ViolationEvent) error {
	return a.store.AppendJSONL(ctx, a.layout.ViolationsPath, entry, "violations")
}

func (a *FileAccessor) ReadViolations(ctx context.Context) ([]model.ViolationEvent, error) {
	raw, err := a.store.ReadLogEntries(a.layout.ViolationsPath)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.ViolationEvent](raw), nil
}

func (a *FileAccessor) AppendTokenUsage(ctx context.Context, entry model.TokenUsageEvent) error {
	return a.store.AppendJSONL(ctx, a.layout.TokenUsagePath, entry, "token-usage")
}

func (a *FileAccessor) ReadTokenUsage(ctx context.Context) ([]model.TokenUsageEvent, error) {
	raw, err := a.store.ReadLogEntries(a.layout.TokenUsagePath)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.TokenUsageEvent](raw), nil
}

func (a *FileAccessor) AppendSessionSnapshot(ctx context.Context, entry model.SessionTokenSnapshot) error {
	return a.store.AppendJSONL(ctx, a.layout.SessionsMetricsPath, entry, "session-metrics")
}

func (a *FileAccessor) ReadSessionSnapshots(ctx context.Context) ([]model.SessionTokenSnapshot, error) {
	raw, err := a.store.ReadLogEntries(a.layout.SessionsMetricsPath)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.SessionTokenSnapshot](raw), nil
}

func (a *FileAccessor) AppendGlobalAggregate(ctx context.Context, entry model.GlobalAggregateEvent) error {
	return a.store.AppendJSONL(ctx, a.layout.GlobalMetricsPath, entry, "global-metrics")
}

func (a *FileAccessor) ReadGlobalAggregates(ctx context.Context) ([]model.GlobalAggregateEvent, error) {
	raw, err := a.store.ReadLogEntries(a.layout.GlobalMetricsPath)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.GlobalAggregateEvent](raw), nil
}

func (a *FileAccessor) AppendABTest(ctx context.Context, entry model.ABTest) error {
	return a.store.AppendJSONL(ctx, a.layout.ABTestsPath, entry, "ab-tests")
}

func (a *FileAccessor) ReadABTests(ctx context.Context) ([]model.ABTest, error) {
	raw, err := a.store.ReadLogEntries(a.layout.ABTestsPath)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.ABTest](raw), nil
}

func (a *FileAccessor) Close() error { return nil }

func isNotFound(err error) bool {
	return err != nil && errors.Is(err, ErrNotFound)
}

// verifyChecksum re-derives the checksum over payload and compares it to
// stored; an empty stored checksum (legacy documents, spec.md §6 "readers
// must tolerate the _meta object being absent") is treated as trivially
// valid.
func verifyChecksum(stored string, payload any) error {
	if stored == "" {
		return nil
	}
	sum, err := Checksum(payload)
	if err != nil {
		return err
	}
	if sum != stored {
		return fmt.Errorf("%w: stored %s computed %s", ErrChecksumMismatch, stored, sum)
	}
	return nil
}

// tasksChecksumPayload/etc. exclude the checksum field itself, per spec.md
// §3 "checksum over their canonical JSON form" (the checksum cannot cover
// its own value).
func tasksChecksumPayload(doc *model.TasksDocument) any {
	clone := *doc
	clone.Meta.Checksum = ""
	return clone
}

func archiveChecksumPayload(doc *model.ArchiveDocument) any {
	clone := *doc
	clone.Meta.Checksum = ""
	return clone
}

func sessionsChecksumPayload(doc *model.SessionsDocument) any {
	clone := *doc
	clone.Meta.Checksum = ""
	return clone
}
