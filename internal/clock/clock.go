// Package clock supplies time to every operation so the core stays
// deterministic under a frozen clock, per spec.md §4.10.
package clock

import "time"

// Clock abstracts the current time so operations can be tested with a
// frozen instant instead of wall-clock time.
type Clock interface {
	Now() time.Time
}

// Real returns the system clock.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// Frozen is a Clock that always returns the same instant. Tests use it to
// get reproducible timestamps.
type Frozen struct {
	At time.Time
}

// NewFrozen returns a Clock frozen at t (converted to UTC).
func NewFrozen(t time.Time) Frozen { return Frozen{At: t.UTC()} }

// Now implements Clock.
func (f Frozen) Now() time.Time { return f.At }
