package domain

import "time"

// Window is the rolling acceptance range for review timestamps, anchored
// once at the start of a run.
type Window struct {
	Cutoff time.Time
}

// NewWindow anchors a window at now reaching back the given number of
// days. The cutoff sits at midnight UTC so the comparison is a whole-day
// one: every review from the cutoff's calendar day stays in regardless
// of when during the day the run started.
func NewWindow(now time.Time, days int) Window {
	return Window{Cutoff: Day(now.UTC().Add(-time.Duration(days) * 24 * time.Hour))}
}

// Contains reports whether t falls inside the window. The cutoff boundary
// itself is inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.UTC().Before(w.Cutoff)
}
