package validate

import (
	"fmt"

	"github.com/cleo-run/cleo/internal/model"
)

// crossEntityTasks checks layer 3 invariants over the active task list plus
// the archive, which together form the id-uniqueness universe (spec.md §4.3
// layer 3).
func crossEntityTasks(active, archive []model.Task, project *model.Project, r *Result) {
	ids := make(map[string]bool, len(active)+len(archive))
	for _, t := range archive {
		ids[t.ID] = true
	}

	byID := make(map[string]*model.Task, len(active))
	for i := range active {
		t := &active[i]
		if ids[t.ID] {
			r.addError(fmt.Sprintf("tasks[%s].id", t.ID), "DUPLICATE_ID", "task id is used by an active and an archived task")
		}
		if byID[t.ID] != nil {
			r.addError(fmt.Sprintf("tasks[%s].id", t.ID), "DUPLICATE_ID", "task id is used by more than one active task")
		}
		byID[t.ID] = t
		ids[t.ID] = true
	}

	for _, t := range active {
		path := fmt.Sprintf("tasks[%s]", t.ID)
		if t.ParentID != nil {
			if _, ok := byID[*t.ParentID]; !ok {
				r.addError(path+".parentId", "DANGLING_REFERENCE", fmt.Sprintf("parent %q does not exist among active tasks", *t.ParentID))
			}
		}
		for i, dep := range t.Depends {
			if _, ok := byID[dep]; !ok {
				if !ids[dep] {
					r.addError(fmt.Sprintf("%s.depends[%d]", path, i), "DANGLING_REFERENCE", fmt.Sprintf("dependency %q does not resolve", dep))
				}
			}
		}
		if t.Verification != nil {
			checkGateChainConsistency(&t, r)
		}
	}

	checkNoCycles(byID, r)

	if project != nil {
		if n := project.ActivePhaseCount(); n > 1 {
			r.addError("project.phases", "MULTIPLE_ACTIVE_PHASES", fmt.Sprintf("expected at most one active phase, found %d", n))
		}
		if project.CurrentPhase != nil {
			if ph, ok := project.Phases[*project.CurrentPhase]; !ok {
				r.addError("project.currentPhase", "UNKNOWN_PHASE", fmt.Sprintf("currentPhase %q is not defined in phases", *project.CurrentPhase))
			} else if ph.Status != model.PhaseStatusActive {
				r.addError("project.currentPhase", "PHASE_STATUS_MISMATCH", fmt.Sprintf("currentPhase %q has status %q, expected active", *project.CurrentPhase, ph.Status))
			}
		}
	}
}

// checkGateChainConsistency verifies that no gate later in GateChain is set
// while an earlier gate is unset or false (spec.md §4.4/§4.6).
func checkGateChainConsistency(t *model.Task, r *Result) {
	v := t.Verification
	seenUnsatisfied := false
	for _, g := range model.GateChain {
		val := v.Gates[g]
		if val == nil || !*val {
			seenUnsatisfied = true
			continue
		}
		if seenUnsatisfied {
			r.addError(fmt.Sprintf("tasks[%s].verification.gates.%s", t.ID, g), "GATE_CHAIN_INCONSISTENT", "gate is set while an earlier gate in the chain is not")
		}
	}
}

// checkNoCycles runs a DFS-based cycle check over the depends graph
// restricted to active tasks; completed/cancelled predecessors never
// participate in a cycle relevant to scheduling, but the validator treats
// any depends cycle among active tasks as an error regardless of status to
// keep the stored graph itself acyclic (spec.md §4.3 layer 3: "no cycles").
func checkNoCycles(byID map[string]*model.Task, r *Result) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(byID))
	var visit func(id string) bool
	visit = func(id string) bool {
		t, ok := byID[id]
		if !ok {
			return false
		}
		color[id] = gray
		for _, dep := range t.Depends {
			switch color[dep] {
			case gray:
				return true
			case white:
				if visit(dep) {
					return true
				}
			}
		}
		color[id] = black
		return false
	}
	for id := range byID {
		if color[id] == white {
			if visit(id) {
				r.addError(fmt.Sprintf("tasks[%s].depends", id), "DEPENDENCY_CYCLE", "task participates in a dependency cycle")
			}
		}
	}
}

// crossEntitySessions checks the exactly-one-active-focus-row invariant for
// every session (spec.md §4.3 layer 3, §4.5).
func crossEntitySessions(sessions []model.Session, r *Result) {
	for _, s := range sessions {
		open := 0
		for _, row := range s.FocusHistory {
			if row.ClearedAt == nil {
				open++
			}
		}
		if open > 1 {
			r.addError(fmt.Sprintf("sessions[%s].focusHistory", s.ID), "MULTIPLE_OPEN_FOCUS_ROWS", fmt.Sprintf("expected at most one open focus-history row, found %d", open))
		}
		if (s.Focus.TaskID != nil) != (open == 1) && s.IsActive() {
			r.addWarning(fmt.Sprintf("sessions[%s].focus", s.ID), "FOCUS_HISTORY_MISMATCH", "session focus does not match the open focus-history row")
		}
	}
}
