// internal/console/serial/client.go
package serial

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goburrow/serial"

	"github.com/tamzrod/nanowatchdog/internal/console"
)

// Port implements console.Port over a serial device.
// Reads are bounded by the configured timeout so the cooperative loop
// never stalls waiting for input; bytes are accumulated across calls
// and surfaced as complete lines.
type Port struct {
	p serial.Port

	line    []byte   // partial line under accumulation
	pending []string // complete lines awaiting delivery
}

type Config struct {
	Device   string
	Baud     int
	DataBits int
	StopBits int
	Parity   string // "N", "E", "O"
	Timeout  time.Duration
}

// Open opens the serial device.
func Open(cfg Config) (*Port, error) {
	if cfg.Device == "" {
		return nil, errors.New("serial: device required")
	}

	p, err := serial.Open(&serial.Config{
		Address:  cfg.Device,
		BaudRate: cfg.Baud,
		DataBits: cfg.DataBits,
		StopBits: cfg.StopBits,
		Parity:   cfg.Parity,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", cfg.Device, err)
	}

	return &Port{p: p}, nil
}

// Close closes the device.
func (s *Port) Close() error {
	if s == nil || s.p == nil {
		return nil
	}
	return s.p.Close()
}

// ReadLine implements console.Port. It drains whatever the device has
// buffered, then returns the oldest complete line, or console.ErrNoLine
// when none has terminated yet.
func (s *Port) ReadLine() (string, error) {
	if line, ok := s.pop(); ok {
		return line, nil
	}

	var chunk [64]byte
	n, err := s.p.Read(chunk[:])
	if n > 0 {
		s.feed(chunk[:n])
	}
	if err != nil && !errors.Is(err, serial.ErrTimeout) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("serial: read: %w", err)
	}

	if line, ok := s.pop(); ok {
		return line, nil
	}
	return "", console.ErrNoLine
}

// WriteLine implements console.Port, terminating with CRLF.
func (s *Port) WriteLine(line string) error {
	buf := append([]byte(line), '\r', '\n')
	for len(buf) > 0 {
		n, err := s.p.Write(buf)
		if err != nil {
			return fmt.Errorf("serial: write: %w", err)
		}
		buf = buf[n:]
	}
	return nil
}

// feed splits raw bytes into lines: CR is ignored, LF terminates.
// Input beyond the request cap is truncated at the cap.
func (s *Port) feed(data []byte) {
	for _, b := range data {
		switch b {
		case '\n':
			s.pending = append(s.pending, string(s.line))
			s.line = s.line[:0]
		case '\r':
			// ignore
		default:
			if len(s.line) < console.MaxRequestLen {
				s.line = append(s.line, b)
			}
		}
	}
}

func (s *Port) pop() (string, bool) {
	if len(s.pending) == 0 {
		return "", false
	}
	line := s.pending[0]
	s.pending = s.pending[1:]
	return line, true
}
