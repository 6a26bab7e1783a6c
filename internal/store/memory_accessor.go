package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/cleo-run/cleo/internal/model"
)

// MemoryAccessor implements Accessor entirely in memory. It stands in for
// the "embedded-SQL-only" back-end spec.md §4.2 contemplates: reads and
// writes never touch disk, state does not survive process exit, and every
// Load returns a deep copy so callers cannot mutate the stored value by
// aliasing (mirrors the teacher's MemoryBackend deep-copy discipline).
type MemoryAccessor struct {
	mu       sync.RWMutex
	tasks    *model.TasksDocument
	archive  *model.ArchiveDocument
	sessions *model.SessionsDocument
	audit    []model.AuditEntry
	manifest []model.ManifestEntry
	compliance []model.ComplianceEvent
	violations []model.ViolationEvent
	tokenUsage []model.TokenUsageEvent
	sessionSnapshots []model.SessionTokenSnapshot
	globalAggregates []model.GlobalAggregateEvent
	abTests []model.ABTest
}

// NewMemoryAccessor returns an empty in-memory accessor.
func NewMemoryAccessor() *MemoryAccessor {
	return &MemoryAccessor{
		tasks:    model.NewTasksDocument(""),
		archive:  model.NewArchiveDocument(),
		sessions: model.NewSessionsDocument(),
	}
}

var _ Accessor = (*MemoryAccessor)(nil)

func deepCopy[T any](v T) T {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

func (m *MemoryAccessor) LoadTasks(ctx context.Context) (*model.TasksDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return deepCopy(m.tasks), nil
}

func (m *MemoryAccessor) SaveTasks(ctx context.Context, doc *model.TasksDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = deepCopy(doc)
	return nil
}

func (m *MemoryAccessor) LoadArchive(ctx context.Context) (*model.ArchiveDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return deepCopy(m.archive), nil
}

func (m *MemoryAccessor) SaveArchive(ctx context.Context, doc *model.ArchiveDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.archive = deepCopy(doc)
	return nil
}

func (m *MemoryAccessor) LoadSessions(ctx context.Context) (*model.SessionsDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return deepCopy(m.sessions), nil
}

func (m *MemoryAccessor) SaveSessions(ctx context.Context, doc *model.SessionsDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = deepCopy(doc)
	return nil
}

func (m *MemoryAccessor) AppendAuditLog(ctx context.Context, entry model.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audit = append(m.audit, deepCopy(entry))
	return nil
}

func (m *MemoryAccessor) ReadAuditLog(ctx context.Context) ([]model.AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.AuditEntry(nil), m.audit...), nil
}

func (m *MemoryAccessor) AppendManifest(ctx context.Context, entry model.ManifestEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manifest = append(m.manifest, deepCopy(entry))
	return nil
}

func (m *MemoryAccessor) ReadManifest(ctx context.Context) ([]model.ManifestEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.ManifestEntry(nil), m.manifest...), nil
}

func (m *MemoryAccessor) AppendCompliance(ctx context.Context, entry model.ComplianceEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.compliance = append(m.compliance, deepCopy(entry))
	return nil
}

func (m *MemoryAccessor) ReadCompliance(ctx context.Context) ([]model.ComplianceEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.ComplianceEvent(nil), m.compliance...), nil
}

func (m *MemoryAccessor) AppendViolation(ctx context.Context, entry model.ViolationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.violations = append(m.violations, deepCopy(entry))
	return nil
}

func (m *MemoryAccessor) ReadViolations(ctx context.Context) ([]model.ViolationEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.ViolationEvent(nil), m.violations...), nil
}

func (m *MemoryAccessor) AppendTokenUsage(ctx context.Context, entry model.TokenUsageEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokenUsage = append(m.tokenUsage, deepCopy(entry))
	return nil
}

func (m *MemoryAccessor) ReadTokenUsage(ctx context.Context) ([]model.TokenUsageEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.TokenUsageEvent(nil), m.tokenUsage...), nil
}

func (m *MemoryAccessor) AppendSessionSnapshot(ctx context.Context, entry model.SessionTokenSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionSnapshots = append(m.sessionSnapshots, deepCopy(entry))
	return nil
}

func (m *MemoryAccessor) ReadSessionSnapshots(ctx context.Context) ([]model.SessionTokenSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.SessionTokenSnapshot(nil), m.sessionSnapshots...), nil
}

func (m *MemoryAccessor) AppendGlobalAggregate(ctx context.Context, entry model.GlobalAggregateEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.globalAggregates = append(m.globalAggregates, deepCopy(entry))
	return nil
}

func (m *MemoryAccessor) ReadGlobalAggregates(ctx context.Context) ([]model.GlobalAggregateEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.GlobalAggregateEvent(nil), m.globalAggregates...), nil
}

func (m *MemoryAccessor) AppendABTest(ctx context.Context, entry model.ABTest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.abTests = append(m.abTests, deepCopy(entry))
	return nil
}

func (m *MemoryAccessor) ReadABTests(ctx context.Context) ([]model.ABTest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.ABTest(nil), m.abTests...), nil
}

func (m *MemoryAccessor) Close() error { return nil }
