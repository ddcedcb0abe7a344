// internal/engine/clock.go
package engine

import "time"

// WallClock is a settable wall clock anchored to the monotonic clock.
// SET DATE moves the wall time; elapsed time between sets is measured
// monotonically so a host adjusting its own clock cannot skew the device.
type WallClock struct {
	base time.Time // wall time at the moment of Set
	at   time.Time // monotonic anchor of Set
}

// NewWallClock returns an unset clock reading the epoch.
func NewWallClock() *WallClock {
	return &WallClock{}
}

// Now returns the current wall-clock time, or the epoch when unset.
func (c *WallClock) Now() time.Time {
	if c.base.IsZero() {
		return time.Unix(0, 0).UTC()
	}
	return c.base.Add(time.Since(c.at))
}

// Set moves the wall clock to t.
func (c *WallClock) Set(t time.Time) {
	c.base = t.UTC()
	c.at = time.Now()
}
