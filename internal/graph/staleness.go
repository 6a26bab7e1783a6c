package graph

import (
	"time"

	"github.com/cleo-run/cleo/internal/model"
)

// StalenessClass classifies how long an active task has gone without
// activity (spec.md §4.4).
type StalenessClass string

const (
	Fresh     StalenessClass = "fresh"
	Stale     StalenessClass = "stale"
	Critical  StalenessClass = "critical"
	Abandoned StalenessClass = "abandoned"
)

// Thresholds holds the configurable day boundaries; zero values fall back
// to spec.md's defaults (7/14/30 days).
type Thresholds struct {
	StaleDays     int
	CriticalDays  int
	AbandonedDays int
}

func (t Thresholds) resolve() (int, int, int) {
	stale, critical, abandoned := t.StaleDays, t.CriticalDays, t.AbandonedDays
	if stale <= 0 {
		stale = 7
	}
	if critical <= 0 {
		critical = 14
	}
	if abandoned <= 0 {
		abandoned = 30
	}
	return stale, critical, abandoned
}

// lastActivity returns max(updatedAt, completedAt if set, createdAt).
func lastActivity(t model.Task) time.Time {
	last := t.CreatedAt
	if t.UpdatedAt.After(last) {
		last = t.UpdatedAt
	}
	if t.CompletedAt != nil && t.CompletedAt.After(last) {
		last = *t.CompletedAt
	}
	return last
}

// Staleness classifies t's staleness as of now; terminal tasks always
// report fresh (spec.md §4.4).
func Staleness(t model.Task, now time.Time, thresholds Thresholds) StalenessClass {
	if t.IsTerminal() {
		return Fresh
	}
	stale, critical, abandoned := thresholds.resolve()
	days := int(now.Sub(lastActivity(t)).Hours() / 24)

	switch {
	case days >= abandoned:
		return Abandoned
	case days >= critical:
		return Critical
	case days >= stale:
		return Stale
	default:
		return Fresh
	}
}
