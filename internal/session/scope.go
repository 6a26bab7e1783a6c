package session

import "github.com/cleo-run/cleo/internal/model"

// ConflictLevel classifies how strongly two session scopes overlap
// (spec.md §4.5: "HARD: identical scope or one subtree-contains the
// other; SOFT: shared ancestor — accepted with a warning").
type ConflictLevel int

const (
	NoConflict ConflictLevel = iota
	SoftConflict
	HardConflict
)

func parentOf(taskID string, byID map[string]*model.Task) (string, bool) {
	t, ok := byID[taskID]
	if !ok || t.ParentID == nil {
		return "", false
	}
	return *t.ParentID, true
}

// ancestorChain returns taskID and every ancestor above it, root-exclusive
// of nothing (taskID itself is included first).
func ancestorChain(taskID string, byID map[string]*model.Task) []string {
	chain := []string{taskID}
	cur := taskID
	seen := map[string]bool{taskID: true}
	for {
		p, ok := parentOf(cur, byID)
		if !ok || seen[p] {
			return chain
		}
		chain = append(chain, p)
		seen[p] = true
		cur = p
	}
}

func contains(chain []string, id string) bool {
	for _, c := range chain {
		if c == id {
			return true
		}
	}
	return false
}

// DetectConflict classifies the overlap between an existing active
// session's scope and a candidate scope about to be started.
func DetectConflict(existing, candidate model.Scope, tasks []model.Task) ConflictLevel {
	if existing.Type == model.ScopeGlobal && candidate.Type == model.ScopeGlobal {
		return HardConflict
	}
	if existing.Type == model.ScopeGlobal || candidate.Type == model.ScopeGlobal {
		return SoftConflict
	}
	if existing.Type == model.ScopeCustom || candidate.Type == model.ScopeCustom {
		if existing.Type == model.ScopeCustom && candidate.Type == model.ScopeCustom && existing.Label == candidate.Label {
			return HardConflict
		}
		return NoConflict
	}

	a := existing.RootTaskID()
	b := candidate.RootTaskID()
	if a == "" || b == "" {
		return NoConflict
	}
	if a == b {
		return HardConflict
	}

	byID := make(map[string]*model.Task, len(tasks))
	for i := range tasks {
		byID[tasks[i].ID] = &tasks[i]
	}
	chainA := ancestorChain(a, byID)
	chainB := ancestorChain(b, byID)
	if contains(chainB, a) || contains(chainA, b) {
		return HardConflict
	}
	for _, anc := range chainA[1:] {
		if contains(chainB[1:], anc) {
			return SoftConflict
		}
	}
	return NoConflict
}
