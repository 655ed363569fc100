package services

import "time"

// Clock abstracts "now" so rest-day and today checks are testable with fixed
// dates. Production code uses SystemClock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the ambient wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// DateOf truncates a time to its calendar date in the local zone. Attendance
// keys are dates, not instants.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDate reports whether two times fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
