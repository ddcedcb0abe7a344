// internal/config/normalize.go
package config

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	w := &cfg.Watchdog

	// ------------------------------------------------------------
	// SERIAL LINK (typical link: 19200 8N1)
	// ------------------------------------------------------------

	if w.Serial.Baud == 0 {
		w.Serial.Baud = 19200
	}
	if w.Serial.DataBits == 0 {
		w.Serial.DataBits = 8
	}
	if w.Serial.StopBits == 0 {
		w.Serial.StopBits = 1
	}
	if w.Serial.Parity == "" {
		w.Serial.Parity = "N"
	}
	if w.Serial.TimeoutMs == 0 {
		w.Serial.TimeoutMs = 100
	}

	// ------------------------------------------------------------
	// RESET OUTPUT
	// ------------------------------------------------------------

	if w.Reset.PulseMs == 0 {
		w.Reset.PulseMs = 300
	}

	// ------------------------------------------------------------
	// ENGINE + LOOP
	// ------------------------------------------------------------

	if w.Engine.IntervalS == 0 {
		w.Engine.IntervalS = 60
	}
	if w.Loop.TickMs == 0 {
		w.Loop.TickMs = 100
	}
}
