package sim

import (
	"fmt"
	"time"
)

// Clock owns the current simulated instant. Time only moves forward;
// Advance never rewinds. The Clock itself is not goroutine-safe; the
// engine serializes access under its own lock.
type Clock struct {
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start.UTC()}
}

func (c *Clock) Now() time.Time { return c.now }

func (c *Clock) Advance(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("advance by negative duration %v", d)
	}
	c.now = c.now.Add(d)
	return nil
}
