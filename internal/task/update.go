package task

import (
	"fmt"
	"time"

	"github.com/cleo-run/cleo/internal/model"
)

// UpdateRequest carries optional field updates; nil/zero fields are left
// untouched (spec.md §4.6: "update: patches any mutable field").
type UpdateRequest struct {
	Title       *string
	Description *string
	Priority    *model.Priority
	Size        *model.Size
	Phase       *string
	Labels      []string
	Files       []string
	Depends     []string
}

// Update applies a partial patch to taskID.
func Update(tasks []model.Task, taskID string, req UpdateRequest, now time.Time) ([]model.Task, error) {
	for i := range tasks {
		if tasks[i].ID != taskID {
			continue
		}
		t := &tasks[i]
		if req.Title != nil {
			t.Title = *req.Title
		}
		if req.Description != nil {
			t.Description = *req.Description
		}
		if req.Priority != nil {
			t.Priority = *req.Priority
		}
		if req.Size != nil {
			t.Size = *req.Size
		}
		if req.Phase != nil {
			t.Phase = *req.Phase
		}
		if req.Labels != nil {
			labels := make([]string, 0, len(req.Labels))
			for _, l := range req.Labels {
				labels = append(labels, normalizeLabel(l))
			}
			t.Labels = labels
		}
		if req.Files != nil {
			t.Files = append([]string(nil), req.Files...)
		}
		if req.Depends != nil {
			t.Depends = append([]string(nil), req.Depends...)
		}
		t.UpdatedAt = now
		return tasks, nil
	}
	return tasks, fmt.Errorf("%w: %s", ErrNotFound, taskID)
}

// AddNote appends a timestamped note to taskID's log (spec.md §4.6:
// "notes are append-only").
func AddNote(tasks []model.Task, taskID, text string, now time.Time) ([]model.Task, error) {
	for i := range tasks {
		if tasks[i].ID != taskID {
			continue
		}
		tasks[i].Notes = append(tasks[i].Notes, model.Note{TS: now, Text: text})
		tasks[i].UpdatedAt = now
		return tasks, nil
	}
	return tasks, fmt.Errorf("%w: %s", ErrNotFound, taskID)
}

// AddRelation appends a relationship entry to taskID (spec.md §4.6).
func AddRelation(tasks []model.Task, taskID string, rel model.Relation, now time.Time) ([]model.Task, error) {
	for i := range tasks {
		if tasks[i].ID != taskID {
			continue
		}
		tasks[i].Relates = append(tasks[i].Relates, rel)
		tasks[i].UpdatedAt = now
		return tasks, nil
	}
	return tasks, fmt.Errorf("%w: %s", ErrNotFound, taskID)
}
