// internal/config/validate.go
package config

import (
	"fmt"
)

// allowedBauds are the link rates the device side supports.
var allowedBauds = map[int]bool{
	1200: true, 2400: true, 4800: true, 9600: true,
	19200: true, 38400: true, 57600: true, 115200: true,
}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	w := cfg.Watchdog

	// ------------------------------------------------------------
	// SERIAL LINK
	// ------------------------------------------------------------

	if w.Serial.Device == "" {
		return fmt.Errorf("serial.device is required")
	}
	if w.Serial.Baud != 0 && !allowedBauds[w.Serial.Baud] {
		return fmt.Errorf("serial.baud %d is not a supported rate", w.Serial.Baud)
	}
	if w.Serial.DataBits != 0 && w.Serial.DataBits != 7 && w.Serial.DataBits != 8 {
		return fmt.Errorf("serial.data_bits must be 7 or 8, got %d", w.Serial.DataBits)
	}
	if w.Serial.StopBits != 0 && w.Serial.StopBits != 1 && w.Serial.StopBits != 2 {
		return fmt.Errorf("serial.stop_bits must be 1 or 2, got %d", w.Serial.StopBits)
	}
	switch w.Serial.Parity {
	case "", "N", "E", "O":
	default:
		return fmt.Errorf("serial.parity must be N, E or O, got %q", w.Serial.Parity)
	}
	if w.Serial.TimeoutMs < 0 {
		return fmt.Errorf("serial.timeout_ms must be >= 0, got %d", w.Serial.TimeoutMs)
	}

	// ------------------------------------------------------------
	// NON-VOLATILE STORE
	// ------------------------------------------------------------

	if w.Nvm.Path == "" {
		return fmt.Errorf("nvm.path is required")
	}

	// ------------------------------------------------------------
	// RESET OUTPUT
	// ------------------------------------------------------------

	// Without test mode a missing reset output means the device could
	// log a fire it cannot execute. Refuse the config.
	if w.Reset.GpioValuePath == "" && !w.Engine.TestMode {
		return fmt.Errorf("reset.gpio_value_path is required unless engine.test_mode is set")
	}
	if w.Reset.PulseMs < 0 {
		return fmt.Errorf("reset.pulse_ms must be >= 0, got %d", w.Reset.PulseMs)
	}

	// ------------------------------------------------------------
	// ENGINE
	// ------------------------------------------------------------

	if w.Engine.IntervalS != 0 && (w.Engine.IntervalS < 1 || w.Engine.IntervalS > 3600) {
		return fmt.Errorf("engine.interval_s must be within 1..3600, got %d", w.Engine.IntervalS)
	}

	// ------------------------------------------------------------
	// LOOP
	// ------------------------------------------------------------

	if w.Loop.TickMs < 0 {
		return fmt.Errorf("loop.tick_ms must be >= 0, got %d", w.Loop.TickMs)
	}

	return nil
}
