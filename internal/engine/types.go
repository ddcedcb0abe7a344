// internal/engine/types.go
package engine

import "time"

// Clock is the settable wall clock the engine stamps events with.
// Before the first Set the clock reads the epoch; the engine refuses to
// fire on an unset clock.
type Clock interface {
	Now() time.Time
	Set(t time.Time)
}

// ResetLine is the pulsed digital output driving the host reset MOSFET.
type ResetLine interface {
	// Pulse holds the line HIGH for d, then LOW. Blocking.
	Pulse(d time.Duration) error
}

// Config is the engine's immutable wiring config.
type Config struct {
	Version    string        // firmware version stamped into events
	Interval   time.Duration // initial ping timeout
	PulseWidth time.Duration // reset pulse duration
	TestMode   bool          // fire without pulsing
}

// Interval bounds enforced on every change, in seconds.
const (
	MinIntervalSec = 1
	MaxIntervalSec = 3600
)

// DefaultInterval is the ping timeout a fresh engine starts with.
const DefaultInterval = 60 * time.Second
