package metrics

import (
	"context"
	"time"

	"github.com/cleo-run/cleo/internal/model"
	"github.com/cleo-run/cleo/internal/store"
)

// Service wires token-usage estimation/measurement to a store.Accessor,
// honoring a single opt-out flag that turns every write into a no-op
// (spec.md §4.9).
type Service struct {
	Accessor store.Accessor
	Now      func() time.Time
	Disabled bool
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

// LogEstimate records an estimated token count from text.
func (s *Service) LogEstimate(ctx context.Context, taskID, sessionID string, event model.TokenEventType, text string) error {
	if s.Disabled {
		return nil
	}
	return s.Accessor.AppendTokenUsage(ctx, model.TokenUsageEvent{
		TS: s.now(), Event: event, Tokens: int64(EstimateText(text)),
		TaskID: taskID, SessionID: sessionID, Source: "estimate",
	})
}

// LogMeasured records a measured OTel token count.
func (s *Service) LogMeasured(ctx context.Context, taskID, sessionID string, event model.TokenEventType, otel model.OTelProvenance) error {
	if s.Disabled {
		return nil
	}
	total := otel.Input + otel.Output + otel.CacheRead + otel.CacheCreation
	return s.Accessor.AppendTokenUsage(ctx, model.TokenUsageEvent{
		TS: s.now(), Event: event, Tokens: total, Measured: true,
		TaskID: taskID, SessionID: sessionID, Source: "otel", OTel: &otel,
	})
}

// SessionStart records a session-tier start snapshot (spec.md §4.9).
func (s *Service) SessionStart(ctx context.Context, sessionID string, tokens int64) error {
	if s.Disabled {
		return nil
	}
	return s.Accessor.AppendSessionSnapshot(ctx, model.SessionTokenSnapshot{
		TS: s.now(), SessionID: sessionID, Phase: "start", Tokens: tokens,
	})
}

// SessionEnd records a session-tier end snapshot; callers compute
// consumed = end - start by reading both snapshots back.
func (s *Service) SessionEnd(ctx context.Context, sessionID string, tokens int64) error {
	if s.Disabled {
		return nil
	}
	return s.Accessor.AppendSessionSnapshot(ctx, model.SessionTokenSnapshot{
		TS: s.now(), SessionID: sessionID, Phase: "end", Tokens: tokens,
	})
}

// SessionConsumed computes consumed = end - start for sessionID from the
// recorded snapshots, or (0, false) if either is missing.
func SessionConsumed(snapshots []model.SessionTokenSnapshot, sessionID string) (int64, bool) {
	var start, end *model.SessionTokenSnapshot
	for i := range snapshots {
		snap := &snapshots[i]
		if snap.SessionID != sessionID {
			continue
		}
		switch snap.Phase {
		case "start":
			start = snap
		case "end":
			end = snap
		}
	}
	if start == nil || end == nil {
		return 0, false
	}
	return end.Tokens - start.Tokens, true
}

// SpawnPrompt logs prompt tokens on an orchestrator spawn (spec.md §4.9:
// "Spawn tier").
func (s *Service) SpawnPrompt(ctx context.Context, taskID, sessionID, promptText string) error {
	return s.LogEstimate(ctx, taskID, sessionID, model.EventTokenUsage, promptText)
}

// SpawnReturn logs output tokens on a subagent return.
func (s *Service) SpawnReturn(ctx context.Context, taskID, sessionID, returnText string) error {
	return s.LogEstimate(ctx, taskID, sessionID, model.EventTokenUsage, returnText)
}
