package task

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cleo-run/cleo/internal/model"
)

// AddRequest carries the caller-supplied fields for a new task; zero values
// fall back to spec.md defaults.
type AddRequest struct {
	Title       string
	Description string
	Priority    model.Priority
	Type        model.Type
	ParentID    string
	Depends     []string
	Labels      []string
	Phase       string
	Size        model.Size
}

// NextTaskID returns "T" + 1 + the highest existing numeric suffix across
// both active and archived tasks (spec.md §4.6: "regardless of archive").
func NextTaskID(active, archived []model.Task) string {
	max := 0
	scan := func(tasks []model.Task) {
		for _, t := range tasks {
			if !strings.HasPrefix(t.ID, "T") {
				continue
			}
			if n, err := strconv.Atoi(t.ID[1:]); err == nil && n > max {
				max = n
			}
		}
	}
	scan(active)
	scan(archived)
	return model.FormatTaskID(max + 1)
}

// normalizeLabel lowercases and replaces whitespace with "-", matching the
// kebab-case shape internal/validate's field-semantics layer requires.
func normalizeLabel(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	return strings.Join(strings.Fields(l), "-")
}

// depth returns a task's distance from a root (parentId == nil), following
// parent pointers through byID.
func depth(t *model.Task, byID map[string]*model.Task) int {
	n := 0
	cur := t
	seen := map[string]bool{}
	for cur.ParentID != nil {
		if seen[cur.ID] {
			break // cycle guard; parent cycles are a validation-layer concern
		}
		seen[cur.ID] = true
		parent, ok := byID[*cur.ParentID]
		if !ok {
			break
		}
		n++
		cur = parent
	}
	return n
}

// Add assigns a new task its id and defaults and appends it to active,
// enforcing the parent-existence and max-depth constraints (spec.md §4.6).
func Add(active, archived []model.Task, req AddRequest, maxDepth int, now time.Time) (*model.Task, error) {
	byID := make(map[string]*model.Task, len(active))
	for i := range active {
		byID[active[i].ID] = &active[i]
	}

	id := NextTaskID(active, archived)

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	typ := req.Type
	if typ == "" {
		typ = model.TypeTask
	}

	t := &model.Task{
		ID:          id,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      model.StatusPending,
		Priority:    priority,
		Type:        typ,
		Depends:     append([]string(nil), req.Depends...),
		Phase:       req.Phase,
		Size:        req.Size,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, l := range req.Labels {
		t.Labels = append(t.Labels, normalizeLabel(l))
	}
	if !t.IsEpic() {
		t.Verification = model.NewVerification("system")
	}

	if req.ParentID != "" {
		parent, ok := byID[req.ParentID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrParentNotFound, req.ParentID)
		}
		pid := req.ParentID
		t.ParentID = &pid

		byID[t.ID] = t // so depth() can walk through the not-yet-appended task
		if maxDepth > 0 && depth(t, byID) > maxDepth {
			return nil, fmt.Errorf("%w: max depth %d", ErrMaxDepthExceeded, maxDepth)
		}
		_ = parent
	}

	return t, nil
}
