// Package ops implements the public operation surface of spec.md §4.10
// (component L): a closed set of named operations, each of the form
// Op(request, accessor, clock, config) -> {response | error}, wired to
// the task/session/orchestrator/compliance/metrics engines so that the
// CLI dispatcher and the MCP server are both thin adapters that cannot
// bypass validation or audit logging.
package ops

import (
	"context"
	"fmt"
	"time"

	"github.com/cleo-run/cleo/internal/audit"
	"github.com/cleo-run/cleo/internal/compliance"
	"github.com/cleo-run/cleo/internal/graph"
	"github.com/cleo-run/cleo/internal/metrics"
	"github.com/cleo-run/cleo/internal/model"
	"github.com/cleo-run/cleo/internal/orchestrator"
	"github.com/cleo-run/cleo/internal/session"
	"github.com/cleo-run/cleo/internal/store"
	"github.com/cleo-run/cleo/internal/task"
	"github.com/cleo-run/cleo/internal/validate"
)

// Name is one of the closed set of named operations (spec.md §4.10).
type Name string

const (
	OpAdd        Name = "add"
	OpShow       Name = "show"
	OpList       Name = "list"
	OpFind       Name = "find"
	OpUpdate     Name = "update"
	OpComplete   Name = "complete"
	OpReopen     Name = "reopen"
	OpCancel     Name = "cancel"
	OpUncancel   Name = "uncancel"
	OpDelete     Name = "delete"
	OpArchive    Name = "archive"
	OpUnarchive  Name = "unarchive"
	OpSetGate    Name = "set-gate"
	OpFocusSet   Name = "focus-set"
	OpFocusShow  Name = "focus-show"
	OpFocusClear Name = "focus-clear"

	OpSessionStart   Name = "session-start"
	OpSessionEnd     Name = "session-end"
	OpSessionResume  Name = "session-resume"
	OpSessionSuspend Name = "session-suspend"
	OpSessionStatus  Name = "session-status"

	OpAnalyze  Name = "analyze"
	OpDeps     Name = "deps"
	OpWaves    Name = "waves"
	OpNext     Name = "next"
	OpValidate Name = "validate"
	OpDoctor   Name = "doctor"
	OpMigrate  Name = "migrate"

	OpOrchestratorSpawn  Name = "orchestrator-spawn"
	OpOrchestratorReady  Name = "orchestrator-ready"
	OpOrchestratorNext   Name = "orchestrator-next"
	OpOrchestratorReturn Name = "orchestrator-return"

	OpResearchAppend Name = "research-append"
	OpMetricsSummary Name = "metrics-summary"
)

// Request is a single operation invocation; Params is a loosely-typed
// bag keyed by operation-specific argument names, mirroring how the CLI
// and MCP adapters both pass through untyped user input.
type Request struct {
	Name      Name
	Actor     string
	SessionID string
	Params    map[string]any
}

func str(params map[string]any, key string) string {
	v, _ := params[key].(string)
	return v
}

func strSlice(params map[string]any, key string) []string {
	v, ok := params[key].([]string)
	if !ok {
		return nil
	}
	return v
}

func boolean(params map[string]any, key string) bool {
	v, _ := params[key].(bool)
	return v
}

func integer(params map[string]any, key string, def int) int {
	v, ok := params[key].(int)
	if !ok {
		return def
	}
	return v
}

// Config carries the per-project settings every operation needs (spec.md
// §4.10's `config` parameter), mirroring model.Project's tunables.
type Config struct {
	Version          string
	MaxDepth         int
	ChildStrategy    task.ChildStrategy
	CascadeThreshold int
	SizeStrategy     graph.SizeStrategy
	SpawnDeadline    time.Duration
}

// Surface wires every core engine to a single store.Accessor and clock,
// closing over the `accessor, clock, config` parameters spec.md §4.10
// describes so that Dispatch's signature reduces to (ctx, Request).
type Surface struct {
	Accessor   store.Accessor
	Now        func() time.Time
	Config     Config

	Task         *task.Service
	Session      *session.Service
	Orchestrator *orchestrator.Service
	Compliance   *compliance.Service
	Metrics      *metrics.Service
	Validator    *validate.Validator
}

// NewSurface wires a full operation surface from a single accessor,
// sharing one clock and one audit log across every engine.
func NewSurface(accessor store.Accessor, now func() time.Time, config Config) *Surface {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	validator := &validate.Validator{Now: now}
	auditLog := &audit.Log{Accessor: accessor, Now: now}
	complianceSvc := &compliance.Service{Accessor: accessor, Now: now}
	metricsSvc := &metrics.Service{Accessor: accessor, Now: now}

	taskSvc := task.NewService(accessor, validator, auditLog, config.MaxDepth)
	taskSvc.Now = now
	sessionSvc := session.NewService(accessor, validator, auditLog, 30)
	sessionSvc.Now = now
	orchestratorSvc := orchestrator.NewService(accessor, validator, auditLog, complianceSvc, metricsSvc)
	orchestratorSvc.Now = now
	orchestratorSvc.SpawnDeadline = config.SpawnDeadline

	return &Surface{
		Accessor:     accessor,
		Now:          now,
		Config:       config,
		Task:         taskSvc,
		Session:      sessionSvc,
		Orchestrator: orchestratorSvc,
		Compliance:   complianceSvc,
		Metrics:      metricsSvc,
		Validator:    validator,
	}
}

func (s *Surface) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Dispatch runs a single named operation and always returns a response
// envelope, success or failure (spec.md §4.10).
func (s *Surface) Dispatch(ctx context.Context, req Request) *Response {
	data, err := s.run(ctx, req)
	if err != nil {
		return fail(string(req.Name), s.Config.Version, s.now(), err)
	}
	return ok(string(req.Name), s.Config.Version, s.now(), data)
}

func (s *Surface) run(ctx context.Context, req Request) (any, error) {
	p := req.Params
	switch req.Name {

	case OpAdd:
		return s.Task.Add(ctx, req.Actor, task.AddRequest{
			Title:       str(p, "title"),
			Description: str(p, "description"),
			Priority:    model.Priority(str(p, "priority")),
			Type:        model.Type(str(p, "type")),
			ParentID:    str(p, "parentId"),
			Depends:     strSlice(p, "depends"),
			Labels:      strSlice(p, "labels"),
			Phase:       str(p, "phase"),
			Size:        model.Size(str(p, "size")),
		})

	case OpShow:
		return s.show(ctx, str(p, "taskId"))

	case OpList:
		return s.list(ctx)

	case OpFind:
		return s.find(ctx, str(p, "query"))

	case OpUpdate:
		return nil, s.Task.Update(ctx, req.Actor, str(p, "taskId"), s.updateRequest(p))

	case OpComplete:
		return nil, s.Task.Complete(ctx, req.Actor, str(p, "taskId"))

	case OpReopen:
		return nil, s.Task.Reopen(ctx, req.Actor, str(p, "taskId"))

	case OpCancel:
		strategy := s.childStrategy(p)
		affected, err := s.Task.Cancel(ctx, req.Actor, str(p, "taskId"), str(p, "reason"), strategy, s.cascadeThreshold(p), boolean(p, "force"))
		return map[string]any{"affected": affected}, err

	case OpUncancel:
		return nil, s.Task.Uncancel(ctx, req.Actor, str(p, "taskId"))

	case OpDelete:
		strategy := s.childStrategy(p)
		affected, err := s.Task.Delete(ctx, req.Actor, str(p, "taskId"), strategy, s.cascadeThreshold(p), boolean(p, "force"))
		return map[string]any{"affected": affected}, err

	case OpArchive:
		return nil, s.Task.Archive(ctx, req.Actor, str(p, "taskId"))

	case OpUnarchive:
		return nil, s.Task.Unarchive(ctx, req.Actor, str(p, "taskId"))

	case OpSetGate:
		return nil, s.Task.SetGate(ctx, req.Actor, str(p, "taskId"), model.GateName(str(p, "gate")), str(p, "reason"), boolean(p, "passed"))

	case OpFocusSet:
		return nil, s.Session.SetFocus(ctx, req.SessionID, str(p, "taskId"))

	case OpFocusShow:
		return s.focusShow(ctx, req.SessionID)

	case OpFocusClear:
		return nil, s.Session.ClearFocus(ctx, req.SessionID)

	case OpSessionStart:
		return s.Session.Start(ctx, session.StartRequest{
			Name:  str(p, "name"),
			Agent: req.Actor,
			Focus: str(p, "focus"),
			Scope: model.Scope{
				Type:   model.ScopeType(str(p, "scopeType")),
				RootID: str(p, "rootId"),
				Label:  str(p, "label"),
			},
		})

	case OpSessionEnd:
		return nil, s.Session.End(ctx, req.SessionID)

	case OpSessionSuspend:
		return nil, s.Session.Suspend(ctx, req.SessionID)

	case OpSessionResume:
		return nil, s.Session.Resume(ctx, req.SessionID)

	case OpSessionStatus:
		return s.sessionStatus(ctx, req.SessionID)

	case OpAnalyze:
		return s.analyze(ctx, str(p, "phase"))

	case OpDeps:
		return s.deps(ctx)

	case OpWaves:
		return s.waves(ctx, str(p, "epicId"))

	case OpNext:
		return s.next(ctx, str(p, "epicId"), str(p, "phase"))

	case OpValidate:
		return s.validateProject(ctx)

	case OpDoctor:
		return s.doctor(ctx)

	case OpMigrate:
		return s.migrate(ctx)

	case OpOrchestratorSpawn:
		return s.Orchestrator.Spawn(ctx, req.Actor, req.SessionID, str(p, "epicId"), str(p, "taskId"))

	case OpOrchestratorReady:
		return s.Orchestrator.Ready(ctx, str(p, "epicId"))

	case OpOrchestratorNext:
		return s.Orchestrator.Next(ctx, str(p, "epicId"), str(p, "phase"), s.Config.SizeStrategy)

	case OpOrchestratorReturn:
		entry := model.ManifestEntry{
			ID:          str(p, "id"),
			Title:       str(p, "title"),
			LinkedTasks: strSlice(p, "linkedTasks"),
			Status:      str(p, "status"),
		}
		return s.Orchestrator.RecordReturn(ctx, req.Actor, req.SessionID, str(p, "taskId"), entry, str(p, "returnText"))

	case OpResearchAppend:
		return s.researchAppend(ctx, p)

	case OpMetricsSummary:
		return s.metricsSummary(ctx)

	default:
		return nil, fmt.Errorf("%w: unknown operation %q", errUnknownOp, req.Name)
	}
}

func (s *Surface) childStrategy(p map[string]any) task.ChildStrategy {
	v := str(p, "childStrategy")
	if v == "" {
		return s.Config.ChildStrategy
	}
	return task.ChildStrategy(v)
}

func (s *Surface) cascadeThreshold(p map[string]any) int {
	return integer(p, "cascadeThreshold", s.Config.CascadeThreshold)
}
