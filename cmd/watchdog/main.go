// cmd/watchdog/main.go
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tamzrod/nanowatchdog/internal/config"
	"github.com/tamzrod/nanowatchdog/internal/console"
	wserial "github.com/tamzrod/nanowatchdog/internal/console/serial"
	"github.com/tamzrod/nanowatchdog/internal/engine"
	"github.com/tamzrod/nanowatchdog/internal/engine/gpio"
	"github.com/tamzrod/nanowatchdog/internal/eventlog"
	"github.com/tamzrod/nanowatchdog/internal/eventlog/nvmfile"
	"github.com/tamzrod/nanowatchdog/internal/firmware"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: watchdog <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	w := cfg.Watchdog

	// --------------------
	// Non-volatile store + event log
	// --------------------

	store, err := nvmfile.Open(nvmfile.Config{Path: w.Nvm.Path})
	if err != nil {
		log.Fatalf("nvm open failed: %v", err)
	}
	defer store.Close()

	lg, err := eventlog.New(store)
	if err != nil {
		log.Fatalf("event log failed: %v", err)
	}

	formatted, err := lg.Format(firmware.Version)
	if err != nil {
		log.Fatalf("event log format failed: %v", err)
	}
	if formatted {
		log.Printf("nvm: virgin store at %s formatted", w.Nvm.Path)
	}

	// --------------------
	// Reset output
	// --------------------

	var line engine.ResetLine
	if w.Reset.GpioValuePath != "" {
		line, err = gpio.New(gpio.Config{ValuePath: w.Reset.GpioValuePath})
		if err != nil {
			log.Fatalf("reset line failed: %v", err)
		}
	} else {
		// Validate() only allows this in test mode.
		line = nullLine{}
	}

	// --------------------
	// Engine
	// --------------------

	clock := engine.NewWallClock()

	eng, err := engine.New(engine.Config{
		Version:    firmware.Version,
		Interval:   time.Duration(w.Engine.IntervalS) * time.Second,
		PulseWidth: time.Duration(w.Reset.PulseMs) * time.Millisecond,
		TestMode:   w.Engine.TestMode,
	}, clock, line, lg)
	if err != nil {
		log.Fatalf("engine failed: %v", err)
	}

	// --------------------
	// Serial console
	// --------------------

	port, err := wserial.Open(wserial.Config{
		Device:   w.Serial.Device,
		Baud:     w.Serial.Baud,
		DataBits: w.Serial.DataBits,
		StopBits: w.Serial.StopBits,
		Parity:   w.Serial.Parity,
		Timeout:  time.Duration(w.Serial.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		log.Fatalf("serial open failed: %v", err)
	}
	defer port.Close()

	it, err := console.New(firmware.Version, eng, lg)
	if err != nil {
		log.Fatalf("console failed: %v", err)
	}

	// --------------------
	// Cooperative loop until signalled
	// --------------------

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("%s serving on %s", firmware.Version, w.Serial.Device)

	err = console.Run(ctx, it, eng, port, time.Duration(w.Loop.TickMs)*time.Millisecond)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("loop failed: %v", err)
	}
}

// nullLine stands in for the reset output when none is configured.
// Reachable only in test mode, where fires never pulse.
type nullLine struct{}

func (nullLine) Pulse(d time.Duration) error {
	time.Sleep(d)
	return nil
}
