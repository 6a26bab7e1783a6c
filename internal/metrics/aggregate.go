package metrics

import (
	"context"
	"fmt"

	"github.com/cleo-run/cleo/internal/model"
)

// Sync rewrites a project's compliance and session-snapshot entries into
// the shared global stream, tagging each with project so a global
// accessor can tell sources apart, and deduplicating by (timestamp,
// sourceId) so repeated syncs are idempotent (spec.md §4.9: "on sync,
// rewrite each project's compliance and session entries into the global
// stream with a project label, deduplicated by (timestamp, sourceId)").
func (s *Service) Sync(ctx context.Context, project string) error {
	if s.Disabled {
		return nil
	}

	existing, err := s.Accessor.ReadGlobalAggregates(ctx)
	if err != nil {
		return fmt.Errorf("read global aggregates: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[aggregateKey(e)] = true
	}

	compliance, err := s.Accessor.ReadCompliance(ctx)
	if err != nil {
		return fmt.Errorf("read compliance: %w", err)
	}
	for _, c := range compliance {
		event := model.GlobalAggregateEvent{
			TS: c.TS, Project: project, SourceID: c.TaskID, Kind: "compliance", Payload: c,
		}
		if seen[aggregateKey(event)] {
			continue
		}
		if err := s.Accessor.AppendGlobalAggregate(ctx, event); err != nil {
			return fmt.Errorf("append global aggregate: %w", err)
		}
		seen[aggregateKey(event)] = true
	}

	snapshots, err := s.Accessor.ReadSessionSnapshots(ctx)
	if err != nil {
		return fmt.Errorf("read session snapshots: %w", err)
	}
	for _, snap := range snapshots {
		event := model.GlobalAggregateEvent{
			TS: snap.TS, Project: project, SourceID: snap.SessionID, Kind: "session", Payload: snap,
		}
		if seen[aggregateKey(event)] {
			continue
		}
		if err := s.Accessor.AppendGlobalAggregate(ctx, event); err != nil {
			return fmt.Errorf("append global aggregate: %w", err)
		}
		seen[aggregateKey(event)] = true
	}
	return nil
}

func aggregateKey(e model.GlobalAggregateEvent) string {
	return fmt.Sprintf("%d|%s", e.TS.UnixNano(), e.SourceID)
}
