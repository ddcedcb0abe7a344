// internal/eventlog/nvmfile/client.go
package nvmfile

import (
	"errors"
	"fmt"
	"os"
)

// StoreSize mirrors the EEPROM capacity of the original device.
const StoreSize = 1024

// Store is a file-backed non-volatile store.
// A missing file is created erased (0xFF-filled), which is what a blank
// EEPROM reads as. Writes are synced before returning.
type Store struct {
	f    *os.File
	size int
}

type Config struct {
	Path string
	Size int // 0 => StoreSize
}

// Open opens or creates the backing file.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("nvmfile: path required")
	}
	size := cfg.Size
	if size <= 0 {
		size = StoreSize
	}

	f, err := os.OpenFile(cfg.Path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("nvmfile: open: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("nvmfile: stat: %w", err)
	}

	// Erase-fill anything the file does not cover yet.
	if fi.Size() < int64(size) {
		blank := make([]byte, int64(size)-fi.Size())
		for i := range blank {
			blank[i] = 0xFF
		}
		if _, err := f.WriteAt(blank, fi.Size()); err != nil {
			f.Close()
			return nil, fmt.Errorf("nvmfile: erase-fill: %w", err)
		}
		if err := f.Sync(); err != nil {
			f.Close()
			return nil, fmt.Errorf("nvmfile: sync: %w", err)
		}
	}

	return &Store{f: f, size: size}, nil
}

// Close closes the backing file.
func (s *Store) Close() error {
	if s == nil || s.f == nil {
		return nil
	}
	return s.f.Close()
}

// Size returns the store capacity in bytes.
func (s *Store) Size() int {
	return s.size
}

// ReadAt implements eventlog.Store.
func (s *Store) ReadAt(addr int, dst []byte) error {
	if err := s.check(addr, len(dst)); err != nil {
		return err
	}
	if _, err := s.f.ReadAt(dst, int64(addr)); err != nil {
		return fmt.Errorf("nvmfile: read addr=%d len=%d: %w", addr, len(dst), err)
	}
	return nil
}

// WriteAt implements eventlog.Store.
func (s *Store) WriteAt(addr int, src []byte) error {
	if err := s.check(addr, len(src)); err != nil {
		return err
	}
	if _, err := s.f.WriteAt(src, int64(addr)); err != nil {
		return fmt.Errorf("nvmfile: write addr=%d len=%d: %w", addr, len(src), err)
	}
	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("nvmfile: sync: %w", err)
	}
	return nil
}

func (s *Store) check(addr, n int) error {
	if addr < 0 || n < 0 || addr+n > s.size {
		return fmt.Errorf("nvmfile: access out of range: addr=%d len=%d size=%d", addr, n, s.size)
	}
	return nil
}
