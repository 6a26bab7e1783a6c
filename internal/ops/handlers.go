package ops

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cleo-run/cleo/internal/graph"
	"github.com/cleo-run/cleo/internal/model"
	"github.com/cleo-run/cleo/internal/orchestrator"
	"github.com/cleo-run/cleo/internal/session"
	"github.com/cleo-run/cleo/internal/task"
)

var errUnknownOp = errors.New("ops: unknown operation")

func optStr(p map[string]any, key string) *string {
	v, ok := p[key].(string)
	if !ok {
		return nil
	}
	return &v
}

func (s *Surface) updateRequest(p map[string]any) task.UpdateRequest {
	req := task.UpdateRequest{
		Title:       optStr(p, "title"),
		Description: optStr(p, "description"),
		Phase:       optStr(p, "phase"),
		Labels:      strSlice(p, "labels"),
		Files:       strSlice(p, "files"),
		Depends:     strSlice(p, "depends"),
	}
	if v, ok := p["priority"].(string); ok {
		pr := model.Priority(v)
		req.Priority = &pr
	}
	if v, ok := p["size"].(string); ok {
		sz := model.Size(v)
		req.Size = &sz
	}
	return req
}

func (s *Surface) show(ctx context.Context, taskID string) (*model.Task, error) {
	doc, err := s.Accessor.LoadTasks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range doc.Tasks {
		if doc.Tasks[i].ID == taskID {
			return &doc.Tasks[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", task.ErrNotFound, taskID)
}

func (s *Surface) list(ctx context.Context) ([]model.Task, error) {
	doc, err := s.Accessor.LoadTasks(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Tasks, nil
}

func (s *Surface) find(ctx context.Context, query string) ([]model.Task, error) {
	doc, err := s.Accessor.LoadTasks(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	var out []model.Task
	for _, t := range doc.Tasks {
		if strings.Contains(strings.ToLower(t.Title), q) || strings.Contains(strings.ToLower(t.Description), q) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Surface) focusShow(ctx context.Context, sessionID string) (string, error) {
	doc, err := s.Accessor.LoadSessions(ctx)
	if err != nil {
		return "", err
	}
	return session.ShowFocus(doc.Sessions, sessionID)
}

func (s *Surface) sessionStatus(ctx context.Context, sessionID string) (*model.Session, error) {
	doc, err := s.Accessor.LoadSessions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range doc.Sessions {
		if doc.Sessions[i].ID == sessionID {
			return &doc.Sessions[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", session.ErrNotFound, sessionID)
}

func (s *Surface) analyze(ctx context.Context, currentPhase string) ([]graph.Recommendation, error) {
	doc, err := s.Accessor.LoadTasks(ctx)
	if err != nil {
		return nil, err
	}
	return graph.Analyze(doc.Tasks, doc.Project.Phases, currentPhase, s.Config.SizeStrategy), nil
}

func (s *Surface) deps(ctx context.Context) ([]string, error) {
	doc, err := s.Accessor.LoadTasks(ctx)
	if err != nil {
		return nil, err
	}
	return graph.CriticalPath(doc.Tasks), nil
}

func (s *Surface) waves(ctx context.Context, epicID string) ([][]model.Task, error) {
	doc, err := s.Accessor.LoadTasks(ctx)
	if err != nil {
		return nil, err
	}
	if epicID == "" {
		return graph.ComputeWaves(doc.Tasks), nil
	}
	return orchestrator.Waves(doc.Tasks, epicID)
}

func (s *Surface) next(ctx context.Context, epicID, currentPhase string) (*model.Task, error) {
	if epicID != "" {
		return s.Orchestrator.Next(ctx, epicID, currentPhase, s.Config.SizeStrategy)
	}
	doc, err := s.Accessor.LoadTasks(ctx)
	if err != nil {
		return nil, err
	}
	return graph.Next(doc.Tasks), nil
}

func (s *Surface) validateProject(ctx context.Context) (*validateResult, error) {
	doc, err := s.Accessor.LoadTasks(ctx)
	if err != nil {
		return nil, err
	}
	archive, err := s.Accessor.LoadArchive(ctx)
	if err != nil {
		return nil, err
	}
	r := s.Validator.ValidateTasksDocument(doc, archive)
	return &validateResult{Valid: r.Valid, Errors: r.Errors, Warnings: r.Warnings}, nil
}

// validateResult mirrors validate.Result without importing its FieldError
// type directly into the envelope's JSON surface.
type validateResult struct {
	Valid    bool `json:"valid"`
	Errors   any  `json:"errors,omitempty"`
	Warnings any  `json:"warnings,omitempty"`
}

// doctorReport summarizes the health checks doctor runs: document
// validity and checksum/lock reachability (spec.md §6 CLI surface:
// "doctor").
type doctorReport struct {
	TasksValid    bool `json:"tasksValid"`
	SessionsValid bool `json:"sessionsValid"`
	Issues        []string `json:"issues,omitempty"`
}

func (s *Surface) doctor(ctx context.Context) (*doctorReport, error) {
	report := &doctorReport{TasksValid: true, SessionsValid: true}

	doc, err := s.Accessor.LoadTasks(ctx)
	if err != nil {
		report.TasksValid = false
		report.Issues = append(report.Issues, fmt.Sprintf("load tasks: %v", err))
	} else {
		archive, archErr := s.Accessor.LoadArchive(ctx)
		if archErr != nil {
			report.TasksValid = false
			report.Issues = append(report.Issues, fmt.Sprintf("load archive: %v", archErr))
		} else if r := s.Validator.ValidateTasksDocument(doc, archive); !r.Valid {
			report.TasksValid = false
			for _, e := range r.Errors {
				report.Issues = append(report.Issues, e.Path+": "+e.Message)
			}
		}
	}

	sessDoc, err := s.Accessor.LoadSessions(ctx)
	if err != nil {
		report.SessionsValid = false
		report.Issues = append(report.Issues, fmt.Sprintf("load sessions: %v", err))
	} else if r := s.Validator.ValidateSessionsDocument(sessDoc); !r.Valid {
		report.SessionsValid = false
		for _, e := range r.Errors {
			report.Issues = append(report.Issues, e.Path+": "+e.Message)
		}
	}

	return report, nil
}

// migrate stamps every document to the current schema version,
// idempotently (spec.md §7: "migration from any schema version to the
// current is idempotent and additive").
func (s *Surface) migrate(ctx context.Context) (*migrateReport, error) {
	report := &migrateReport{}

	doc, err := s.Accessor.LoadTasks(ctx)
	if err != nil {
		return nil, err
	}
	if doc.Version != model.SchemaVersion {
		report.TasksMigrated = true
		doc.Version = model.SchemaVersion
		if err := s.Accessor.SaveTasks(ctx, doc); err != nil {
			return nil, err
		}
	}

	archive, err := s.Accessor.LoadArchive(ctx)
	if err != nil {
		return nil, err
	}
	if archive.Version != model.SchemaVersion {
		report.ArchiveMigrated = true
		archive.Version = model.SchemaVersion
		if err := s.Accessor.SaveArchive(ctx, archive); err != nil {
			return nil, err
		}
	}

	sessDoc, err := s.Accessor.LoadSessions(ctx)
	if err != nil {
		return nil, err
	}
	if sessDoc.Version != model.SchemaVersion {
		report.SessionsMigrated = true
		sessDoc.Version = model.SchemaVersion
		if err := s.Accessor.SaveSessions(ctx, sessDoc); err != nil {
			return nil, err
		}
	}

	return report, nil
}

type migrateReport struct {
	TasksMigrated    bool `json:"tasksMigrated"`
	ArchiveMigrated  bool `json:"archiveMigrated"`
	SessionsMigrated bool `json:"sessionsMigrated"`
}

func (s *Surface) researchAppend(ctx context.Context, p map[string]any) (*model.ManifestEntry, error) {
	entry := model.ManifestEntry{
		ID:              str(p, "id"),
		Title:           str(p, "title"),
		File:            str(p, "file"),
		Topics:          strSlice(p, "topics"),
		LinkedTasks:     strSlice(p, "linkedTasks"),
		Status:          "review",
		FindingsSummary: str(p, "findingsSummary"),
		TS:              s.now(),
	}
	if entry.ID == "" || entry.Title == "" {
		return nil, fmt.Errorf("%w: research entry requires id and title", errInvalidInput)
	}
	if err := s.Accessor.AppendManifest(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

var errInvalidInput = errors.New("invalid input")

type metricsSummaryReport struct {
	TotalTokens      int64 `json:"totalTokens"`
	MeasuredTokens   int64 `json:"measuredTokens"`
	EstimatedTokens  int64 `json:"estimatedTokens"`
	ComplianceEvents int   `json:"complianceEvents"`
	Violations       int   `json:"violations"`
}

func (s *Surface) metricsSummary(ctx context.Context) (*metricsSummaryReport, error) {
	usage, err := s.Accessor.ReadTokenUsage(ctx)
	if err != nil {
		return nil, err
	}
	report := &metricsSummaryReport{}
	for _, e := range usage {
		report.TotalTokens += e.Tokens
		if e.Measured {
			report.MeasuredTokens += e.Tokens
		} else {
			report.EstimatedTokens += e.Tokens
		}
	}

	compliance, err := s.Accessor.ReadCompliance(ctx)
	if err != nil {
		return nil, err
	}
	report.ComplianceEvents = len(compliance)

	violations, err := s.Accessor.ReadViolations(ctx)
	if err != nil {
		return nil, err
	}
	report.Violations = len(violations)

	return report, nil
}
