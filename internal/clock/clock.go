package clock

import "time"

// Clock abstracts time so that date-based rules stay deterministic in tests
type Clock interface {
	Now() time.Time
}

// System reads the wall clock in local time. Calendar dates for activity
// and streaks are local dates
type System struct{}

// Now returns the current local time
func (System) Now() time.Time {
	return time.Now()
}

// Manual is a settable clock
type Manual struct {
	T time.Time
}

// Now returns the time the clock was last set to
func (m *Manual) Now() time.Time {
	return m.T
}

// Set moves the clock to t
func (m *Manual) Set(t time.Time) {
	m.T = t
}

// Advance moves the clock forward by d
func (m *Manual) Advance(d time.Duration) {
	m.T = m.T.Add(d)
}

// StartOfDay truncates t to local midnight of its calendar day
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
