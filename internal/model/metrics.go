package model

import "time"

// TokenEventType enumerates the metrics streams of spec.md §3.6.
type TokenEventType string

const (
	EventTokenUsage TokenEventType = "TOKEN_USAGE"
	EventSession    TokenEventType = "SESSIONS"
	EventGlobal     TokenEventType = "GLOBAL"
)

// OTelProvenance records where a measured (as opposed to estimated) token
// count came from (spec.md §3.6, §4.9).
type OTelProvenance struct {
	Input        int64 `json:"input,omitempty"`
	Output       int64 `json:"output,omitempty"`
	CacheRead    int64 `json:"cacheRead,omitempty"`
	CacheCreation int64 `json:"cacheCreation,omitempty"`
}

// TokenUsageEvent is one entry of metrics/TOKEN_USAGE.jsonl.
type TokenUsageEvent struct {
	TS        time.Time       `json:"ts"`
	Event     TokenEventType  `json:"event"`
	Tokens    int64           `json:"tokens"`
	Measured  bool            `json:"measured"`
	TaskID    string          `json:"taskId,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
	Source    string          `json:"source,omitempty"` // "estimate" | "otel"
	OTel      *OTelProvenance `json:"otel,omitempty"`
}

// SessionTokenSnapshot is one entry of metrics/SESSIONS.jsonl.
type SessionTokenSnapshot struct {
	TS        time.Time `json:"ts"`
	SessionID string    `json:"sessionId"`
	Phase     string    `json:"phase"` // "start" | "end"
	Tokens    int64     `json:"tokens"`
}

// GlobalAggregateEvent is one entry of the global ~/.cleo/metrics/GLOBAL.jsonl
// stream produced on sync (spec.md §4.9).
type GlobalAggregateEvent struct {
	TS        time.Time `json:"ts"`
	Project   string    `json:"project"`
	SourceID  string    `json:"sourceId"`
	Kind      string    `json:"kind"` // "compliance" | "session"
	Payload   any       `json:"payload"`
}

// ABTest pairs a cleo session with a baseline session for comparison
// (spec.md §4.9).
type ABTest struct {
	ID               string     `json:"id"`
	Label            string     `json:"label"`
	CleoSessionID    string     `json:"cleoSessionId"`
	BaselineSessionID string    `json:"baselineSessionId"`
	CreatedAt        time.Time  `json:"createdAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}
