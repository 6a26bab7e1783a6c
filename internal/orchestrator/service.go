package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/cleo-run/cleo/internal/audit"
	"github.com/cleo-run/cleo/internal/compliance"
	"github.com/cleo-run/cleo/internal/graph"
	"github.com/cleo-run/cleo/internal/metrics"
	"github.com/cleo-run/cleo/internal/model"
	"github.com/cleo-run/cleo/internal/store"
	"github.com/cleo-run/cleo/internal/validate"
)

// Service wires wave computation, spawn-prompt assembly, and return
// handling to a store.Accessor, the compliance and metrics engines, and
// an audit log (spec.md §4.7).
type Service struct {
	Accessor   store.Accessor
	Validator  *validate.Validator
	Audit      *audit.Log
	Compliance *compliance.Service
	Metrics    *metrics.Service
	Now        func() time.Time

	// SpawnDeadline holds the configured spawn deadline. The service runs no
	// timer against it; a miss is recorded only when ReportDeadlineMiss is
	// called.
	SpawnDeadline time.Duration
}

func NewService(accessor store.Accessor, validator *validate.Validator, auditLog *audit.Log, complianceSvc *compliance.Service, metricsSvc *metrics.Service) *Service {
	return &Service{
		Accessor:   accessor,
		Validator:  validator,
		Audit:      auditLog,
		Compliance: complianceSvc,
		Metrics:    metricsSvc,
		Now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Ready returns wave 0 of the epic's subtree.
func (s *Service) Ready(ctx context.Context, epicID string) ([]model.Task, error) {
	doc, err := s.Accessor.LoadTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	return Ready(doc.Tasks, epicID)
}

// Next picks the highest-leverage ready task in the epic.
func (s *Service) Next(ctx context.Context, epicID, currentPhase string, strategy graph.SizeStrategy) (*model.Task, error) {
	doc, err := s.Accessor.LoadTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	return Next(doc.Tasks, epicID, doc.Project.Phases, currentPhase, strategy)
}

// Spawn assembles a fully-resolved spawn prompt for taskID, refusing to
// proceed if any token is left unbound, then logs the prompt tokens
// toward the spawn tier (spec.md §4.7 step 5, §4.9 "Spawn tier").
func (s *Service) Spawn(ctx context.Context, actor, sessionID, epicID, taskID string) (*SpawnPrompt, error) {
	doc, err := s.Accessor.LoadTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	prompt, err := BuildSpawnPrompt(doc.Tasks, epicID, taskID, s.now())
	if err != nil {
		return nil, err
	}
	if err := RequireResolved(prompt); err != nil {
		return nil, err
	}
	if s.Metrics != nil {
		_ = s.Metrics.SpawnPrompt(ctx, taskID, sessionID, prompt.Text)
	}
	_ = s.Audit.Append(ctx, audit.Entry{
		Op: audit.OpOrchestratorSpawn, Actor: actor, TaskID: taskID, SessionID: sessionID,
		After: map[string]any{"protocol": prompt.Protocol, "epicId": epicID},
	})
	return prompt, nil
}

// RecordReturn appends a manifest entry, runs compliance scoring, logs
// the return's output tokens, and updates the task's lifecycle stage
// (spec.md §4.7 step 6).
func (s *Service) RecordReturn(ctx context.Context, actor, sessionID, taskID string, entry model.ManifestEntry, returnText string) (model.ComplianceEvent, error) {
	entry.TS = s.now()
	if err := s.Accessor.AppendManifest(ctx, entry); err != nil {
		return model.ComplianceEvent{}, fmt.Errorf("append manifest: %w", err)
	}

	event, err := s.Compliance.RecordReturn(ctx, taskID, &entry, returnText)
	if err != nil {
		return event, fmt.Errorf("record compliance: %w", err)
	}

	if s.Metrics != nil {
		_ = s.Metrics.SpawnReturn(ctx, taskID, sessionID, returnText)
	}

	doc, err := s.Accessor.LoadTasks(ctx)
	if err != nil {
		return event, fmt.Errorf("load tasks: %w", err)
	}
	before := findTask(doc.Tasks, taskID)
	var beforeSnapshot any
	if before != nil {
		beforeSnapshot = *before
	}
	tasks, err := ApplyReturn(doc.Tasks, taskID, returnText, s.now())
	if err != nil {
		return event, err
	}
	doc.Tasks = tasks
	if r := s.Validator.ValidateTasksDocument(doc, nil); !r.Valid {
		return event, fmt.Errorf("validation failed: %v", r.Errors)
	}
	doc.Meta.LastUpdated = s.now()
	if err := s.Accessor.SaveTasks(ctx, doc); err != nil {
		return event, fmt.Errorf("save tasks: %w", err)
	}
	after := findTask(doc.Tasks, taskID)
	var afterSnapshot any
	if after != nil {
		afterSnapshot = *after
	}
	_ = s.Audit.Append(ctx, audit.Entry{
		Op: audit.OpOrchestratorReturn, Actor: actor, TaskID: taskID, SessionID: sessionID,
		Before: beforeSnapshot, After: afterSnapshot,
	})
	return event, nil
}

// ReportDeadlineMiss records the failure model for a subagent that never
// returned within SpawnDeadline: no task mutation, just a logged
// violation (spec.md §4.7: "leaves the task in its prior state").
func (s *Service) ReportDeadlineMiss(ctx context.Context, taskID string) error {
	violation := ApplyDeadlineMiss(taskID, s.now())
	return s.Accessor.AppendViolation(ctx, violation)
}

func findTask(tasks []model.Task, id string) *model.Task {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i]
		}
	}
	return nil
}
