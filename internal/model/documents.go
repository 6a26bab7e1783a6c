package model

import "time"

// SchemaVersion is the current version stamped into every document's _meta
// and used by migration (spec.md §7 "Recovery").
const SchemaVersion = "1.0.0"

// Meta is the envelope every state document carries (spec.md §6).
type Meta struct {
	SchemaVersion string    `json:"schemaVersion"`
	LastUpdated   time.Time `json:"lastUpdated"`
	Checksum      string    `json:"checksum,omitempty"`
}

// TasksDocument is the contents of .cleo/todo.json.
type TasksDocument struct {
	Schema  string   `json:"$schema,omitempty"`
	Version string   `json:"version"`
	Meta    Meta     `json:"_meta"`
	Project Project  `json:"project"`
	Tasks   []Task   `json:"tasks"`
}

// ArchiveDocument is the contents of .cleo/todo-archive.json.
type ArchiveDocument struct {
	Schema  string  `json:"$schema,omitempty"`
	Version string  `json:"version"`
	Meta    Meta    `json:"_meta"`
	Tasks   []Task  `json:"tasks"`
}

// SessionsDocument is the contents of .cleo/sessions.json.
type SessionsDocument struct {
	Schema   string    `json:"$schema,omitempty"`
	Version  string    `json:"version"`
	Meta     Meta      `json:"_meta"`
	Sessions []Session `json:"sessions"`
}

// NewTasksDocument returns an empty, schema-stamped tasks document.
func NewTasksDocument(projectName string) *TasksDocument {
	return &TasksDocument{
		Version: SchemaVersion,
		Project: Project{
			Name:   projectName,
			Phases: map[string]*Phase{},
		},
		Tasks: []Task{},
	}
}

// NewArchiveDocument returns an empty, schema-stamped archive document.
func NewArchiveDocument() *ArchiveDocument {
	return &ArchiveDocument{Version: SchemaVersion, Tasks: []Task{}}
}

// NewSessionsDocument returns an empty, schema-stamped sessions document.
func NewSessionsDocument() *SessionsDocument {
	return &SessionsDocument{Version: SchemaVersion, Sessions: []Session{}}
}
