package compliance

import (
	"context"
	"time"

	"github.com/cleo-run/cleo/internal/model"
	"github.com/cleo-run/cleo/internal/store"
)

// Service wires the pure scoring functions to a store.Accessor, appending
// each scoring event to the compliance stream and, when a rule fails, to
// the violations stream (spec.md §4.8).
type Service struct {
	Accessor store.Accessor
	Now      func() time.Time
}

func NewService(accessor store.Accessor) *Service {
	return &Service{Accessor: accessor, Now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// RecordReturn scores a subagent return and persists the resulting
// compliance and (if any) violation events.
func (s *Service) RecordReturn(ctx context.Context, taskID string, entry *model.ManifestEntry, returnText string) (model.ComplianceEvent, error) {
	event, violations := ScoreReturn(taskID, entry, returnText, s.now())
	if err := s.Accessor.AppendCompliance(ctx, event); err != nil {
		return event, err
	}
	for _, v := range violations {
		if err := s.Accessor.AppendViolation(ctx, v); err != nil {
			return event, err
		}
	}
	return event, nil
}

// GapAnalysis loads review-status manifest entries and reports gaps
// against corpus.
func (s *Service) GapAnalysis(ctx context.Context, corpus string) (model.GapAnalysis, error) {
	all, err := s.Accessor.ReadManifest(ctx)
	if err != nil {
		return model.GapAnalysis{}, err
	}
	var review []model.ManifestEntry
	for _, e := range all {
		if e.Status == "review" {
			review = append(review, e)
		}
	}
	return AnalyzeGaps(review, corpus), nil
}
