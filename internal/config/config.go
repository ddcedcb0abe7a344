// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Watchdog WatchdogConfig `yaml:"watchdog"`
}

type WatchdogConfig struct {
	Serial SerialConfig `yaml:"serial"`
	Nvm    NvmConfig    `yaml:"nvm"`
	Reset  ResetConfig  `yaml:"reset"`
	Engine EngineConfig `yaml:"engine"`
	Loop   LoopConfig   `yaml:"loop"`
}

// ---- SERIAL LINK ----

type SerialConfig struct {
	Device    string `yaml:"device"`
	Baud      int    `yaml:"baud"`
	DataBits  int    `yaml:"data_bits"`
	StopBits  int    `yaml:"stop_bits"`
	Parity    string `yaml:"parity"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- NON-VOLATILE STORE ----

type NvmConfig struct {
	Path string `yaml:"path"`
}

// ---- RESET OUTPUT ----

type ResetConfig struct {
	// GpioValuePath is the sysfs value file of the reset pin.
	// May be left empty when engine.test_mode is set.
	GpioValuePath string `yaml:"gpio_value_path"`
	PulseMs       int    `yaml:"pulse_ms"`
}

// ---- ENGINE ----

type EngineConfig struct {
	IntervalS int  `yaml:"interval_s"`
	TestMode  bool `yaml:"test_mode"`
}

// ---- LOOP ----

type LoopConfig struct {
	TickMs int `yaml:"tick_ms"`
}

// Load reads and decodes the YAML config, then applies environment
// overrides for deployment-local paths. A .env file in the working
// directory is honored when present.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}

	_ = godotenv.Load()

	cfg.Watchdog.Serial.Device = getEnv("NW_SERIAL_DEVICE", cfg.Watchdog.Serial.Device)
	cfg.Watchdog.Nvm.Path = getEnv("NW_NVM_PATH", cfg.Watchdog.Nvm.Path)
	cfg.Watchdog.Reset.GpioValuePath = getEnv("NW_RESET_GPIO", cfg.Watchdog.Reset.GpioValuePath)

	return &cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
