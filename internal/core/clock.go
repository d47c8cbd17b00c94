package core

import "time"

// Clock reports time elapsed since a cart was booted.
type Clock struct {
	now   func() time.Time
	start time.Time
}

// NewClock starts a clock at the current wall time.
func NewClock() *Clock {
	return NewClockWith(time.Now)
}

// NewClockWith starts a clock driven by the given time source.
func NewClockWith(now func() time.Time) *Clock {
	return &Clock{now: now, start: now()}
}

// Elapsed returns seconds since the clock was started or last reset.
func (c *Clock) Elapsed() float64 {
	return c.now().Sub(c.start).Seconds()
}

// Reset restarts the clock from the current time.
func (c *Clock) Reset() {
	c.start = c.now()
}
