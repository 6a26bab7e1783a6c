package model

import (
	"encoding/json"
	"time"
)

// AuditEntry is one record of the append-only audit log (spec.md §3.5).
type AuditEntry struct {
	TS        time.Time       `json:"ts"`
	Op        string          `json:"op"`
	Actor     string          `json:"actor"`
	TaskID    string          `json:"taskId,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
	Before    json.RawMessage `json:"before,omitempty"`
	After     json.RawMessage `json:"after,omitempty"`
}

// ManifestEntry is one record of the subagent-output manifest log
// (spec.md §3.5, §4.8).
type ManifestEntry struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	File            string    `json:"file,omitempty"`
	Topics          []string  `json:"topics,omitempty"`
	LinkedTasks     []string  `json:"linked_tasks"`
	Status          string    `json:"status"`
	FindingsSummary string    `json:"findings_summary,omitempty"`
	KeyFindings     []string  `json:"key_findings,omitempty"`
	AgentType       string    `json:"agent_type,omitempty"`
	TS              time.Time `json:"ts"`
}

// Summary returns FindingsSummary if set, else a joined KeyFindings, for
// callers that must accept either legacy shape (spec.md §3.5).
func (m ManifestEntry) Summary() string {
	if m.FindingsSummary != "" {
		return m.FindingsSummary
	}
	out := ""
	for i, f := range m.KeyFindings {
		if i > 0 {
			out += "; "
		}
		out += f
	}
	return out
}
