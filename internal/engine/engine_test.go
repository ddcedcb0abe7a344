// internal/engine/engine_test.go
package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/tamzrod/nanowatchdog/internal/eventlog"
	"github.com/tamzrod/nanowatchdog/internal/reason"
)

// ---- fakes ----

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time  { return f.t }
func (f *fakeClock) Set(t time.Time) { f.t = t }

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

type fakeLine struct {
	pulses []time.Duration
}

func (f *fakeLine) Pulse(d time.Duration) error {
	f.pulses = append(f.pulses, d)
	return nil
}

type fakeStore struct {
	data []byte
}

func (f *fakeStore) ReadAt(addr int, dst []byte) error {
	copy(dst, f.data[addr:addr+len(dst)])
	return nil
}

func (f *fakeStore) WriteAt(addr int, src []byte) error {
	copy(f.data[addr:addr+len(src)], src)
	return nil
}

func (f *fakeStore) Size() int { return len(f.data) }

func newTestEngine(t *testing.T, cfg Config) (*Engine, *fakeClock, *fakeLine, *eventlog.Log) {
	t.Helper()

	store := &fakeStore{data: make([]byte, 1024)}
	for i := range store.data {
		store.data[i] = 0xFF
	}
	lg, err := eventlog.New(store)
	if err != nil {
		t.Fatalf("eventlog.New() err=%v", err)
	}
	if _, err := lg.Format("v-test"); err != nil {
		t.Fatalf("Format() err=%v", err)
	}

	if cfg.Version == "" {
		cfg.Version = "v-test"
	}
	if cfg.PulseWidth == 0 {
		cfg.PulseWidth = 300 * time.Millisecond
	}

	clock := &fakeClock{}
	line := &fakeLine{}
	eng, err := New(cfg, clock, line, lg)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	return eng, clock, line, lg
}

var epoch2024 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// ---- tests ----

func TestStart_RequiresDate(t *testing.T) {
	eng, _, _, _ := newTestEngine(t, Config{})

	if err := eng.Start(); !errors.Is(err, ErrDateNotSet) {
		t.Fatalf("expected ErrDateNotSet, got %v", err)
	}
	if eng.Enabled() {
		t.Fatalf("engine must stay disarmed")
	}
}

func TestTick_DisabledIsNoop(t *testing.T) {
	eng, clock, line, lg := newTestEngine(t, Config{Interval: 5 * time.Second})

	eng.SetDate(epoch2024)
	clock.advance(time.Hour)

	if err := eng.Tick(); err != nil {
		t.Fatalf("Tick() err=%v", err)
	}
	if len(line.pulses) != 0 {
		t.Fatalf("disabled tick must not pulse")
	}
	count, _ := lg.ResetCount()
	if count != 0 {
		t.Fatalf("disabled tick must not log, count=%d", count)
	}
}

func TestTick_GraceThenFire(t *testing.T) {
	eng, clock, line, lg := newTestEngine(t, Config{Interval: 5 * time.Second})

	eng.SetDate(epoch2024)
	if err := eng.Start(); err != nil {
		t.Fatalf("Start() err=%v", err)
	}

	// First tick after enable opens the grace window.
	if err := eng.Tick(); err != nil {
		t.Fatalf("Tick() err=%v", err)
	}
	if len(line.pulses) != 0 {
		t.Fatalf("grace tick must not pulse")
	}

	clock.advance(6 * time.Second)
	if err := eng.Tick(); err != nil {
		t.Fatalf("Tick() err=%v", err)
	}

	if len(line.pulses) != 1 {
		t.Fatalf("expected exactly one pulse, got %d", len(line.pulses))
	}
	if line.pulses[0] != 300*time.Millisecond {
		t.Fatalf("pulse width: got %v", line.pulses[0])
	}
	if eng.Enabled() {
		t.Fatalf("engine must disarm after fire")
	}

	count, _ := lg.ResetCount()
	if count != 1 {
		t.Fatalf("count: got %d want 1", count)
	}
	ev, _ := lg.ResetEvent(0)
	if ev.Reason != reason.NoPing {
		t.Fatalf("reason: got %d want %d", ev.Reason, reason.NoPing)
	}
	if ev.Stamp != uint32(epoch2024.Add(6*time.Second).Unix()) {
		t.Fatalf("stamp: got %d", ev.Stamp)
	}
	if ev.Acked {
		t.Fatalf("fresh event must not be acked")
	}

	// Disarmed: further ticks stay quiet.
	clock.advance(time.Hour)
	if err := eng.Tick(); err != nil {
		t.Fatalf("Tick() err=%v", err)
	}
	if len(line.pulses) != 1 {
		t.Fatalf("disarmed engine fired again")
	}
}

func TestTick_PingPreventsFire(t *testing.T) {
	eng, clock, line, _ := newTestEngine(t, Config{Interval: 5 * time.Second})

	eng.SetDate(epoch2024)
	if err := eng.Start(); err != nil {
		t.Fatalf("Start() err=%v", err)
	}
	eng.Tick()

	// Ping inside every window shorter than the interval.
	for i := 0; i < 20; i++ {
		clock.advance(4 * time.Second)
		eng.Ping()
		if err := eng.Tick(); err != nil {
			t.Fatalf("Tick() err=%v", err)
		}
	}

	if len(line.pulses) != 0 {
		t.Fatalf("pinged engine fired %d times", len(line.pulses))
	}
	if !eng.Enabled() {
		t.Fatalf("engine must stay armed")
	}
}

func TestFire_TestModeLogsWithoutPulse(t *testing.T) {
	eng, clock, line, lg := newTestEngine(t, Config{Interval: 5 * time.Second, TestMode: true})

	eng.SetDate(epoch2024)
	clock.advance(time.Second)

	if err := eng.Fire(reason.CommandStart); err != nil {
		t.Fatalf("Fire() err=%v", err)
	}

	if len(line.pulses) != 0 {
		t.Fatalf("test mode fired a real pulse")
	}
	count, _ := lg.ResetCount()
	if count != 1 {
		t.Fatalf("count: got %d want 1", count)
	}
	ev, _ := lg.ResetEvent(0)
	if ev.Reason != reason.CommandStart {
		t.Fatalf("reason: got %d", ev.Reason)
	}
}

func TestFire_AlwaysDisarms(t *testing.T) {
	eng, _, _, _ := newTestEngine(t, Config{Interval: 5 * time.Second, TestMode: true})

	eng.SetDate(epoch2024)
	if err := eng.Start(); err != nil {
		t.Fatalf("Start() err=%v", err)
	}
	if err := eng.Fire(reason.CommandStart); err != nil {
		t.Fatalf("Fire() err=%v", err)
	}
	if eng.Enabled() {
		t.Fatalf("fire must disarm")
	}

	// Rearm opens a fresh grace window.
	if err := eng.Start(); err != nil {
		t.Fatalf("Start() err=%v", err)
	}
	if !eng.Enabled() {
		t.Fatalf("restart must rearm")
	}
}

func TestSetInterval_Bounds(t *testing.T) {
	eng, _, _, _ := newTestEngine(t, Config{})

	if err := eng.SetInterval(0); err == nil {
		t.Fatalf("expected error for 0")
	}
	if err := eng.SetInterval(3601 * time.Second); err == nil {
		t.Fatalf("expected error for 3601s")
	}
	if err := eng.SetInterval(time.Second); err != nil {
		t.Fatalf("unexpected error for 1s: %v", err)
	}
	if err := eng.SetInterval(3600 * time.Second); err != nil {
		t.Fatalf("unexpected error for 3600s: %v", err)
	}
	if eng.Interval() != 3600*time.Second {
		t.Fatalf("interval not applied: %v", eng.Interval())
	}
}

func TestWallClock_SetAndRead(t *testing.T) {
	c := NewWallClock()

	if got := c.Now(); got.Unix() != 0 {
		t.Fatalf("unset clock must read the epoch, got %v", got)
	}

	c.Set(epoch2024)
	got := c.Now()
	if got.Before(epoch2024) || got.After(epoch2024.Add(time.Second)) {
		t.Fatalf("set clock reads %v", got)
	}
}
