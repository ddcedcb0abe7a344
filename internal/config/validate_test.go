// internal/config/validate_test.go
package config

import "testing"

// helper to build a valid config quickly
func base() *Config {
	return &Config{
		Watchdog: WatchdogConfig{
			Serial: SerialConfig{
				Device: "/dev/ttyUSB0",
			},
			Nvm: NvmConfig{
				Path: "/var/lib/nanowatchdog/nvm.bin",
			},
			Reset: ResetConfig{
				GpioValuePath: "/sys/class/gpio/gpio17/value",
			},
		},
	}
}

// ---- tests ----

func TestValidate_MinimalConfig(t *testing.T) {
	if err := Validate(base()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MissingDevice(t *testing.T) {
	cfg := base()
	cfg.Watchdog.Serial.Device = ""

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestValidate_MissingNvmPath(t *testing.T) {
	cfg := base()
	cfg.Watchdog.Nvm.Path = ""

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestValidate_UnsupportedBaud(t *testing.T) {
	cfg := base()
	cfg.Watchdog.Serial.Baud = 31337

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestValidate_MissingGpioRequiresTestMode(t *testing.T) {
	cfg := base()
	cfg.Watchdog.Reset.GpioValuePath = ""

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error, got nil")
	}

	cfg.Watchdog.Engine.TestMode = true
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_IntervalBounds(t *testing.T) {
	cfg := base()

	cfg.Watchdog.Engine.IntervalS = 3601
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for 3601, got nil")
	}

	cfg.Watchdog.Engine.IntervalS = -1
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for -1, got nil")
	}

	cfg.Watchdog.Engine.IntervalS = 3600
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := base()
	Normalize(cfg)

	w := cfg.Watchdog
	if w.Serial.Baud != 19200 || w.Serial.DataBits != 8 || w.Serial.StopBits != 1 || w.Serial.Parity != "N" {
		t.Fatalf("serial defaults wrong: %+v", w.Serial)
	}
	if w.Reset.PulseMs != 300 {
		t.Fatalf("expected pulse_ms 300, got %d", w.Reset.PulseMs)
	}
	if w.Engine.IntervalS != 60 {
		t.Fatalf("expected interval_s 60, got %d", w.Engine.IntervalS)
	}
	if w.Loop.TickMs != 100 {
		t.Fatalf("expected tick_ms 100, got %d", w.Loop.TickMs)
	}
}
