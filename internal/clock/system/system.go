// Package system provides the wall clock used to time pipeline stages.
package system

import "time"

// Clock implements showcase.Clock on top of the real wall clock. Now is
// reported in UTC; Since keeps using the monotonic reading.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current UTC time.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}

// Since returns the time elapsed since start.
func (Clock) Since(start time.Time) time.Duration {
	return time.Since(start)
}
