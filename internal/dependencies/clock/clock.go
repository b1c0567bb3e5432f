package clock

import "time"

// Clock provides the server time used to stamp entries and sessions.
// It can be mocked for testing.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time in UTC, so stored timestamps compare the same
// no matter which backend round-trips them
func (c *RealClock) Now() time.Time {
	return time.Now().UTC()
}
