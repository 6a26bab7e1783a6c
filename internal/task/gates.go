package task

import (
	"fmt"
	"time"

	"github.com/cleo-run/cleo/internal/model"
	"github.com/cleo-run/cleo/internal/validate"
)

func gateIndex(gate model.GateName) int {
	for i, g := range model.GateChain {
		if g == gate {
			return i
		}
	}
	return -1
}

// predecessorsMet reports whether every gate preceding gate in the chain
// has passed (spec.md §4.6: "ordered chain enforcement").
func predecessorsMet(v *model.Verification, gate model.GateName) bool {
	idx := gateIndex(gate)
	for i := 0; i < idx; i++ {
		val := v.Gates[model.GateChain[i]]
		if val == nil || !*val {
			return false
		}
	}
	return true
}

// resetDownstream clears every gate after gate in the chain, since they
// depended on it having passed (spec.md §4.6: "downstream gate reset on
// false").
func resetDownstream(v *model.Verification, gate model.GateName) {
	idx := gateIndex(gate)
	for i := idx + 1; i < len(model.GateChain); i++ {
		v.Gates[model.GateChain[i]] = nil
		delete(v.GateAgents, model.GateChain[i])
	}
}

// SetGate records a pass/fail verdict for one gate of taskID's verification
// chain, enforcing ordering, the circular-validation rule, and the
// max-rounds bound (spec.md §4.6).
func SetGate(tasks []model.Task, taskID string, gate model.GateName, agent, reason string, passed bool, now time.Time) ([]model.Task, error) {
	byID := make(map[string]*model.Task, len(tasks))
	for i := range tasks {
		byID[tasks[i].ID] = &tasks[i]
	}
	t, ok := byID[taskID]
	if !ok {
		return tasks, fmt.Errorf("%w: %s", ErrNotFound, taskID)
	}
	if t.IsEpic() {
		return tasks, ErrEpicHasNoGates
	}
	if t.Verification == nil {
		t.Verification = model.NewVerification(agent)
	}
	v := t.Verification

	if gateIndex(gate) == -1 {
		return tasks, fmt.Errorf("unknown gate: %s", gate)
	}
	if !predecessorsMet(v, gate) {
		return tasks, ErrGatePredecessorUnmet
	}

	validator := agent
	tester := ""
	if gate == model.GateQAPassed {
		tester = agent
		validator = v.GateAgents[model.GateTestsPassed]
	}
	if err := validate.CircularValidation(v.CreatedBy, validator, tester); err != nil {
		return tasks, err
	}

	if passed {
		val := true
		v.Gates[gate] = &val
		if v.GateAgents == nil {
			v.GateAgents = make(map[model.GateName]string)
		}
		v.GateAgents[gate] = agent
		t.UpdatedAt = now
		return tasks, nil
	}

	val := false
	v.Gates[gate] = &val
	resetDownstream(v, gate)
	v.Round++
	v.Failures = append(v.Failures, model.GateFailure{
		Gate:      gate,
		Agent:     agent,
		Reason:    reason,
		Timestamp: now,
		Round:     v.Round,
	})
	t.UpdatedAt = now
	if v.MaxRounds > 0 && v.Round > v.MaxRounds {
		return tasks, ErrMaxRoundsExceeded
	}
	return tasks, nil
}
