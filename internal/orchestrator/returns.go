package orchestrator

import (
	"strings"
	"time"

	"github.com/cleo-run/cleo/internal/model"
)

// returnIndicatesBlocked reports whether a return's leading line contains
// "blocked", deciding
// whether the task's lifecycle stage moves to blocked (spec.md §4.7
// step 6: "updates the task's lifecycle stage").
func returnIndicatesBlocked(returnText string) bool {
	line := strings.ToLower(strings.TrimSpace(firstLine(returnText)))
	return strings.Contains(line, "blocked")
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		return s[:idx]
	}
	return s
}

// ApplyReturn updates taskID's lifecycle stage from a subagent's return
// text: a "blocked" return moves an active task to blocked, recording
// the return's first line as the block reason; any other return leaves
// status untouched, since gate verdicts (done-readiness) are set
// separately via the verification chain (§4.6).
func ApplyReturn(tasks []model.Task, taskID, returnText string, now time.Time) ([]model.Task, error) {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		if out[i].ID != taskID {
			continue
		}
		if returnIndicatesBlocked(returnText) && out[i].Status == model.StatusActive {
			out[i].Status = model.StatusBlocked
			out[i].BlockedBy = strings.TrimSpace(firstLine(returnText))
			out[i].UpdatedAt = now
		}
		break
	}
	return out, nil
}

// ApplyDeadlineMiss builds the spawn-deadline violation for a subagent that
// never returned within the configured deadline. It does not touch the
// task: its recorded state stays as it was and it is not marked blocked
// (spec.md §4.7: "leaves the task in its prior state, and logs a violation").
func ApplyDeadlineMiss(taskID string, now time.Time) model.ViolationEvent {
	return model.ViolationEvent{
		TS:       now,
		TaskID:   taskID,
		Rule:     "spawn-deadline",
		Severity: model.SeverityHigh,
		Detail:   "subagent did not return a manifest entry within the configured deadline",
	}
}
