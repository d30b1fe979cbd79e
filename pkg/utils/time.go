package utils

import "time"

// SimTime tracks simulated time as an offset from the start of a profiling
// run. The profiling loop is strictly sequential, so no locking is needed.
type SimTime struct {
	current time.Duration
}

// NewSimTime creates a simulation clock starting at zero.
func NewSimTime() *SimTime {
	return &SimTime{}
}

// Now returns the current simulated time offset
func (st *SimTime) Now() time.Duration {
	return st.current
}

// Advance advances the simulated time by the given duration
func (st *SimTime) Advance(d time.Duration) {
	st.current += d
}

// Set sets the simulated time to the given offset.
// Time never moves backwards; earlier offsets are ignored.
func (st *SimTime) Set(t time.Duration) {
	if t > st.current {
		st.current = t
	}
}

// Seconds returns the current simulated time in seconds
func (st *SimTime) Seconds() float64 {
	return st.current.Seconds()
}

// MsToTime converts milliseconds to time.Duration
func MsToTime(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// SecondsToTime converts seconds to time.Duration
func SecondsToTime(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.String()
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	if d < time.Minute {
		return d.Round(10 * time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}
