// internal/engine/gpio/line.go
package gpio

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Line drives a reset output through a sysfs-style GPIO value file
// ("1" = HIGH, "0" = LOW). The pin must already be exported and set to
// output direction by the platform setup.
type Line struct {
	path string
}

type Config struct {
	// ValuePath is the GPIO value file, e.g. /sys/class/gpio/gpio17/value.
	ValuePath string
}

// New creates a reset line and asserts it LOW.
func New(cfg Config) (*Line, error) {
	if cfg.ValuePath == "" {
		return nil, errors.New("gpio: value path required")
	}
	l := &Line{path: cfg.ValuePath}
	if err := l.write("0"); err != nil {
		return nil, err
	}
	return l, nil
}

// Pulse implements engine.ResetLine: HIGH for d, then LOW.
// LOW is re-asserted even when the sleep is interrupted.
func (l *Line) Pulse(d time.Duration) error {
	if err := l.write("1"); err != nil {
		return err
	}
	time.Sleep(d)
	return l.write("0")
}

func (l *Line) write(v string) error {
	if err := os.WriteFile(l.path, []byte(v), 0o644); err != nil {
		return fmt.Errorf("gpio: write %s: %w", l.path, err)
	}
	return nil
}
