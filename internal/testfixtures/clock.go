package testfixtures

import (
	"sync"
	"time"

	"github.com/example/homework-scheduler/internal/scheduler"
)

// Clock is a settable school-day clock. Tests drive it a day at a time and
// hand Today to calendar and upcoming views.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock returns a clock at start, or at ReferenceTime when start is zero.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

// Now returns the current instant.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NowFunc exposes Now for injection into services. A nil clock yields
// time.Now.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Today returns the calendar day of the current instant at midnight UTC.
func (c *Clock) Today() time.Time {
	return scheduler.StartOfDay(c.Now())
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// AdvanceDays moves the clock by n calendar days, keeping the time of day,
// and returns the new day.
func (c *Clock) AdvanceDays(n int) time.Time {
	c.mu.Lock()
	c.current = c.current.AddDate(0, 0, n)
	day := scheduler.StartOfDay(c.current)
	c.mu.Unlock()
	return day
}
