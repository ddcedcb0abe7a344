// internal/engine/engine.go
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/tamzrod/nanowatchdog/internal/event"
	"github.com/tamzrod/nanowatchdog/internal/eventlog"
	"github.com/tamzrod/nanowatchdog/internal/reason"
)

// ErrDateNotSet is returned when arming is attempted before the wall
// clock has been set.
var ErrDateNotSet = errors.New("date not set")

// Engine is the watchdog state machine. It owns "enabled", the ping
// timeout and the last ping time, and turns missed pings and external
// reset commands into reset pulses and log entries.
//
// The engine is driven by exactly one cooperative loop; it takes no
// locks.
type Engine struct {
	cfg   Config
	clock Clock
	line  ResetLine
	log   *eventlog.Log

	enabled  bool
	dateSet  bool
	testMode bool
	interval time.Duration
	lastPing time.Time // zero means no ping since enable
}

// New creates an engine with immutable wiring.
func New(cfg Config, clock Clock, line ResetLine, log *eventlog.Log) (*Engine, error) {
	if clock == nil {
		return nil, errors.New("engine: clock required")
	}
	if line == nil {
		return nil, errors.New("engine: reset line required")
	}
	if log == nil {
		return nil, errors.New("engine: event log required")
	}
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}
	if err := checkInterval(cfg.Interval); err != nil {
		return nil, err
	}
	if cfg.PulseWidth <= 0 {
		return nil, errors.New("engine: pulse width must be > 0")
	}

	return &Engine{
		cfg:      cfg,
		clock:    clock,
		line:     line,
		log:      log,
		testMode: cfg.TestMode,
		interval: cfg.Interval,
	}, nil
}

// Tick evaluates whether a reset is due. Called repeatedly by the run
// loop.
func (e *Engine) Tick() error {
	if !e.enabled {
		return nil
	}
	// Refuse to act on an unset wall clock: a reset the firmware cannot
	// timestamp is worse than no reset.
	if !e.dateSet {
		return nil
	}

	now := e.clock.Now()

	// Grace window: the first tick after enable starts the countdown.
	if e.lastPing.IsZero() {
		e.lastPing = now
		return nil
	}

	if now.Sub(e.lastPing) >= e.interval {
		return e.Fire(reason.NoPing)
	}
	return nil
}

// Fire records an event with the given reason and, outside test mode,
// pulses the reset output. The engine always disarms afterwards: an
// operator must observe the event and rearm, so one dead host cannot
// cause a reset storm.
//
// The timestamp is sampled before the store write.
func (e *Engine) Fire(r reason.Code) error {
	ev := event.NewWithReason(e.cfg.Version, e.clock.Now(), r)

	insErr := e.log.Insert(ev)

	var pulseErr error
	if !e.testMode {
		pulseErr = e.line.Pulse(e.cfg.PulseWidth)
	}

	e.enabled = false

	if insErr != nil {
		return fmt.Errorf("engine: log insert: %w", insErr)
	}
	if pulseErr != nil {
		return fmt.Errorf("engine: reset pulse: %w", pulseErr)
	}
	return nil
}

// Ping records host liveness.
func (e *Engine) Ping() {
	e.lastPing = e.clock.Now()
}

// SetDate sets the wall clock. Arming becomes possible afterwards.
func (e *Engine) SetDate(t time.Time) {
	e.clock.Set(t)
	e.dateSet = true
}

// SetInterval changes the ping timeout, bounds-checked.
func (e *Engine) SetInterval(d time.Duration) error {
	if err := checkInterval(d); err != nil {
		return err
	}
	e.interval = d
	return nil
}

// SetTestMode toggles test mode: fires still log but do not pulse.
func (e *Engine) SetTestMode(on bool) {
	e.testMode = on
}

// Start arms the watchdog and opens a fresh grace window.
func (e *Engine) Start() error {
	if !e.dateSet {
		return ErrDateNotSet
	}
	e.enabled = true
	e.lastPing = time.Time{}
	return nil
}

// Stop disarms the watchdog.
func (e *Engine) Stop() {
	e.enabled = false
}

// ---- accessors ----

func (e *Engine) Enabled() bool           { return e.enabled }
func (e *Engine) DateSet() bool           { return e.dateSet }
func (e *Engine) TestMode() bool          { return e.testMode }
func (e *Engine) Interval() time.Duration { return e.interval }
func (e *Engine) Now() time.Time          { return e.clock.Now() }

func checkInterval(d time.Duration) error {
	sec := int(d / time.Second)
	if d%time.Second != 0 || sec < MinIntervalSec || sec > MaxIntervalSec {
		return fmt.Errorf("engine: interval out of range: %v", d)
	}
	return nil
}
