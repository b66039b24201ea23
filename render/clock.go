package render

import (
	"time"

	"github.com/loov/hrtime"
)

// Clock measures frame times with the high resolution timer.
type Clock struct {
	start time.Duration
	last  time.Duration

	windowStart  time.Duration
	windowFrames int
}

func NewClock() *Clock {
	c := &Clock{}
	c.reset(hrtime.Now())
	return c
}

func (c *Clock) reset(now time.Duration) {
	c.start, c.last, c.windowStart = now, now, now
	c.windowFrames = 0
}

// Tick marks the start of a frame. It returns seconds since the clock was
// created and since the previous tick.
func (c *Clock) Tick() (elapsed, delta float64) {
	return c.tick(hrtime.Now())
}

func (c *Clock) tick(now time.Duration) (elapsed, delta float64) {
	delta = (now - c.last).Seconds()
	c.last = now
	c.windowFrames++
	return (now - c.start).Seconds(), delta
}

// FPS returns the frame rate over the last second once a second has passed
// since the previous report, and false otherwise.
func (c *Clock) FPS() (float64, bool) {
	window := c.last - c.windowStart
	if window < time.Second {
		return 0, false
	}
	fps := float64(c.windowFrames) / window.Seconds()
	c.windowStart = c.last
	c.windowFrames = 0
	return fps, true
}
