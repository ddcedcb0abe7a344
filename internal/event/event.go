// internal/event/event.go
package event

import (
	"fmt"
	"time"

	"github.com/tamzrod/nanowatchdog/internal/firmware"
	"github.com/tamzrod/nanowatchdog/internal/reason"
)

// Serialized record layout. Protocol-locked: hosts re-flashed with newer
// firmware still parse logs written by older firmware.
//
//	offset  size  content
//	------  ----  -------------------------------------------
//	     0    32  version, null-terminated ASCII, zero-padded
//	    32     4  timestamp, seconds since epoch, little-endian
//	    36     1  b7 = acknowledged, b6..b0 = reason code

// EncodedSize is the serialized size of one record.
const EncodedSize = firmware.VersionSize + 4 + 1

const (
	stampOffset = firmware.VersionSize
	flagsOffset = firmware.VersionSize + 4
)

// Record is one stored watchdog event.
// Bit packing is a storage concern only: in memory the acknowledgement
// is a bool and the reason an integer.
type Record struct {
	Version string
	Stamp   uint32 // wall-clock seconds since epoch; 0 means null/unset
	Reason  reason.Code
	Acked   bool
}

// New builds a record with the default reason, stamped at now.
// The clock value is passed in so callers own the time source.
func New(version string, now time.Time) Record {
	return NewWithReason(version, now, reason.Default)
}

// NewWithReason builds a record with a specific reason code.
func NewWithReason(version string, now time.Time, r reason.Code) Record {
	return Record{
		Version: version,
		Stamp:   stampOf(now),
		Reason:  r & reason.Max,
	}
}

// Encode serializes the record into its fixed 37-byte layout.
func (r Record) Encode() [EncodedSize]byte {
	var out [EncodedSize]byte

	v := []byte(r.Version)
	if len(v) > firmware.VersionSize-1 {
		v = v[:firmware.VersionSize-1]
	}
	copy(out[:firmware.VersionSize], v)

	out[stampOffset+0] = byte(r.Stamp)
	out[stampOffset+1] = byte(r.Stamp >> 8)
	out[stampOffset+2] = byte(r.Stamp >> 16)
	out[stampOffset+3] = byte(r.Stamp >> 24)

	flags := byte(r.Reason) & 0x7F
	if r.Acked {
		flags |= 0x80
	}
	out[flagsOffset] = flags

	return out
}

// Decode deserializes a record from src.
// Content is accepted byte-for-byte beyond the bit split: the store is
// trusted, not validated.
func Decode(src []byte) (Record, error) {
	if len(src) < EncodedSize {
		return Record{}, fmt.Errorf("event: short record: got=%d want=%d", len(src), EncodedSize)
	}

	var r Record

	end := 0
	for end < firmware.VersionSize && src[end] != 0 {
		end++
	}
	r.Version = string(src[:end])

	r.Stamp = uint32(src[stampOffset]) |
		uint32(src[stampOffset+1])<<8 |
		uint32(src[stampOffset+2])<<16 |
		uint32(src[stampOffset+3])<<24

	r.Reason = reason.Code(src[flagsOffset] & 0x7F)
	r.Acked = src[flagsOffset]>>7 != 0

	return r, nil
}

// Acknowledge sets the acknowledgement flag.
func (r *Record) Acknowledge(ack bool) {
	r.Acked = ack
}

// IsNull reports whether the record is unset.
func (r Record) IsNull() bool {
	return r.Stamp == 0
}

// Time returns the record timestamp as a UTC wall-clock time.
func (r Record) Time() time.Time {
	return time.Unix(int64(r.Stamp), 0).UTC()
}

// DisplayLines renders the record as four human-readable lines, each
// starting with prefix. Column layout matches what existing hosts parse.
func (r Record) DisplayLines(prefix string) []string {
	ack := "no"
	if r.Acked {
		ack = "yes"
	}
	return []string{
		prefix + "version:      " + r.Version,
		prefix + "date:         " + TimeString(r.Time()),
		prefix + fmt.Sprintf("reason:       %d (%s)", r.Reason, reason.Label(r.Reason)),
		prefix + "acknowledged: " + ack,
	}
}

// TimeString renders a wall-clock time as `yyyy-mm-dd hh:mm:ss UTC`.
func TimeString(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05") + " UTC"
}

func stampOf(t time.Time) uint32 {
	s := t.Unix()
	if s < 0 {
		return 0
	}
	return uint32(s)
}
