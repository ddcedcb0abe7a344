// internal/eventlog/log.go
package eventlog

import (
	"errors"
	"fmt"

	"github.com/tamzrod/nanowatchdog/internal/event"
	"github.com/tamzrod/nanowatchdog/internal/reason"
)

// Non-volatile layout constants.
// These values define the on-device format and MUST NOT be configurable.
//
//	address  size  content
//	-------  ----  --------------------------------------
//	      0    37  initialization event
//	     37     2  count of stored reset events (0..10)
//	     39   370  10 x 37-byte reset events, slot 0 newest
//	    409   ...  reserved, untouched

// InitEventAddr is the address of the initialization event.
const InitEventAddr = 0

// ResetCountAddr is the address of the 2-byte reset event count.
const ResetCountAddr = InitEventAddr + event.EncodedSize

// ResetEventAddr is the address of slot 0 of the reset event ring.
const ResetEventAddr = ResetCountAddr + 2

// MaxResetEvents is the ring capacity.
const MaxResetEvents = 10

// UsedSize is the number of store bytes the log occupies.
const UsedSize = ResetEventAddr + MaxResetEvents*event.EncodedSize

// Log is the fixed-address event log over a non-volatile store.
type Log struct {
	store Store
}

// New creates a log over store. The store must cover the full layout.
func New(store Store) (*Log, error) {
	if store == nil {
		return nil, errors.New("eventlog: store required")
	}
	if store.Size() < UsedSize {
		return nil, fmt.Errorf("eventlog: store too small: got=%d want>=%d", store.Size(), UsedSize)
	}
	return &Log{store: store}, nil
}

// InitEvent reads the initialization event.
func (l *Log) InitEvent() (event.Record, error) {
	return l.readRecord(InitEventAddr)
}

// SetInitEvent writes the initialization event.
func (l *Log) SetInitEvent(ev event.Record) error {
	return l.writeRecord(InitEventAddr, ev)
}

// ResetCount reads the count of stored reset events.
// Out-of-range values (0xFFFF from erased flash, torn writes) read as 0:
// the count is re-read and re-judged on every operation.
func (l *Log) ResetCount() (int, error) {
	var b [2]byte
	if err := l.store.ReadAt(ResetCountAddr, b[:]); err != nil {
		return 0, err
	}
	count := int(b[0]) | int(b[1])<<8
	if count < 0 || count > MaxResetEvents {
		return 0, nil
	}
	return count, nil
}

// ResetEvent reads reset event slot index.
// Slot 0 is the most recent event; slots at or beyond the stored count
// hold unspecified content.
func (l *Log) ResetEvent(index int) (event.Record, error) {
	if index < 0 || index >= MaxResetEvents {
		return event.Record{}, fmt.Errorf("eventlog: slot index %d out of range", index)
	}
	return l.readRecord(slotAddr(index))
}

// SetResetEvent overwrites slot index in place, without shifting.
// Used to acknowledge a stored event.
func (l *Log) SetResetEvent(ev event.Record, index int) error {
	if index < 0 || index >= MaxResetEvents {
		return fmt.Errorf("eventlog: slot index %d out of range", index)
	}
	return l.writeRecord(slotAddr(index), ev)
}

// Insert writes ev as the newest reset event.
// Older slots shift one place down; when the ring is full the oldest
// event is dropped. The count saturates at MaxResetEvents.
func (l *Log) Insert(ev event.Record) error {
	count, err := l.ResetCount()
	if err != nil {
		return err
	}

	// About to drop the oldest slot.
	if count == MaxResetEvents {
		count--
	}

	for i := count; i > 0; i-- {
		prev, err := l.ResetEvent(i - 1)
		if err != nil {
			return err
		}
		if err := l.SetResetEvent(prev, i); err != nil {
			return err
		}
	}

	if err := l.SetResetEvent(ev, 0); err != nil {
		return err
	}

	return l.writeCount(count + 1)
}

// Reinit wipes the log: writes init as the initialization event and
// zeroes the stored count. Ring slots are left as-is; the count makes
// them unreachable.
func (l *Log) Reinit(init event.Record) error {
	if err := l.SetInitEvent(init); err != nil {
		return err
	}
	return l.writeCount(0)
}

// Format prepares a virgin (erased) store for use: a null initialization
// event and a zero count. A store that already carries an in-range count
// is left untouched. Returns whether formatting happened.
func (l *Log) Format(version string) (bool, error) {
	var b [2]byte
	if err := l.store.ReadAt(ResetCountAddr, b[:]); err != nil {
		return false, err
	}
	count := int(b[0]) | int(b[1])<<8
	if count >= 0 && count <= MaxResetEvents {
		return false, nil
	}

	init := event.Record{Version: version, Reason: reason.Init}
	if err := l.Reinit(init); err != nil {
		return false, err
	}
	return true, nil
}

// ---- internal helpers ----

func slotAddr(index int) int {
	return ResetEventAddr + index*event.EncodedSize
}

func (l *Log) readRecord(addr int) (event.Record, error) {
	buf := make([]byte, event.EncodedSize)
	if err := l.store.ReadAt(addr, buf); err != nil {
		return event.Record{}, err
	}
	return event.Decode(buf)
}

func (l *Log) writeRecord(addr int, ev event.Record) error {
	buf := ev.Encode()
	return l.store.WriteAt(addr, buf[:])
}

func (l *Log) writeCount(count int) error {
	b := [2]byte{byte(count), byte(count >> 8)}
	return l.store.WriteAt(ResetCountAddr, b[:])
}
