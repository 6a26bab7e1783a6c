package store

import (
	"context"
	"encoding/json"

	"github.com/cleo-run/cleo/internal/model"
)

// Accessor is the data accessor of spec.md §4.2: it hides whether state
// lives in separate JSON files or in some other back-end, and is threaded
// explicitly through every core operation — never a package-level global,
// mirroring the teacher's state.Backend (libs/project/state/backend.go)
// generalized from one document to CLEO's four.
type Accessor interface {
	LoadTasks(ctx context.Context) (*model.TasksDocument, error)
	SaveTasks(ctx context.Context, doc *model.TasksDocument) error

	LoadArchive(ctx context.Context) (*model.ArchiveDocument, error)
	SaveArchive(ctx context.Context, doc *model.ArchiveDocument) error

	LoadSessions(ctx context.Context) (*model.SessionsDocument, error)
	SaveSessions(ctx context.Context, doc *model.SessionsDocument) error

	AppendAuditLog(ctx context.Context, entry model.AuditEntry) error
	ReadAuditLog(ctx context.Context) ([]model.AuditEntry, error)

	AppendManifest(ctx context.Context, entry model.ManifestEntry) error
	ReadManifest(ctx context.Context) ([]model.ManifestEntry, error)

	AppendCompliance(ctx context.Context, entry model.ComplianceEvent) error
	ReadCompliance(ctx context.Context) ([]model.ComplianceEvent, error)

	AppendViolation(ctx context.Context, entry model.ViolationEvent) error
	ReadViolations(ctx context.Context) ([]model.ViolationEvent, error)

	AppendTokenUsage(ctx context.Context, entry model.TokenUsageEvent) error
	ReadTokenUsage(ctx context.Context) ([]model.TokenUsageEvent, error)

	AppendSessionSnapshot(ctx context.Context, entry model.SessionTokenSnapshot) error
	ReadSessionSnapshots(ctx context.Context) ([]model.SessionTokenSnapshot, error)

	AppendGlobalAggregate(ctx context.Context, entry model.GlobalAggregateEvent) error
	ReadGlobalAggregates(ctx context.Context) ([]model.GlobalAggregateEvent, error)

	AppendABTest(ctx context.Context, entry model.ABTest) error
	ReadABTests(ctx context.Context) ([]model.ABTest, error)

	Close() error
}

// decodeAll unmarshals each raw JSONL entry in raw into a slice of T,
// skipping entries that fail to decode (the tolerant-reader contract
// already decided these bytes were "a JSON value"; a shape mismatch here is
// treated the same as a corrupt line rather than aborting the whole read).
func decodeAll[T any](raw []json.RawMessage) []T {
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
