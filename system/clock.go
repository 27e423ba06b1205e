package system

import "time"

// Clock measures time since Reset and between frames.
type Clock struct {
	now     func() time.Time
	start   time.Time
	frame   time.Time
	elapsed time.Duration
}

// NewClock creates a clock reading now, or the wall clock when now is nil.
// The clock starts reset.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	c := &Clock{now: now}
	c.Reset()
	return c
}

// Reset restarts the clock.
func (c *Clock) Reset() {
	c.start = c.now()
	c.frame = c.start
	c.elapsed = 0
}

// FrameStart marks the beginning of a frame.
func (c *Clock) FrameStart() {
	t := c.now()
	c.elapsed = t.Sub(c.frame)
	c.frame = t
}

// Time returns seconds since Reset.
func (c *Clock) Time() float64 {
	return c.now().Sub(c.start).Seconds()
}

// Elapsed returns seconds between the last two frame starts.
func (c *Clock) Elapsed() float64 {
	return c.elapsed.Seconds()
}
