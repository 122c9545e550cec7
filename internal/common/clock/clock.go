package clock

import "time"

// Clock tells the current time. Session creation stamps and the calendar's
// "today" marker read from it so tests can pin the date.
//
//go:generate mockgen -package=mocks -destination=mocks/mock_clock.go github.com/KirkDiggler/lenslink/internal/common/clock Clock
type Clock interface {
	Now() time.Time
}

// DefaultClock implements the Clock interface using the system clock
type DefaultClock struct{}

// New returns the system clock
func New() *DefaultClock {
	return &DefaultClock{}
}

// Now returns the current time
func (c *DefaultClock) Now() time.Time {
	return time.Now()
}

// Millis returns t as epoch milliseconds
func Millis(t time.Time) int64 {
	return t.UnixNano() / int64(time.Millisecond)
}
