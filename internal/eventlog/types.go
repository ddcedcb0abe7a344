// internal/eventlog/types.go
package eventlog

// Store abstracts the byte-addressable non-volatile memory the log
// lives in. The log depends on addressed reads and writes only.
type Store interface {
	// ReadAt fills dst from the store starting at addr.
	ReadAt(addr int, dst []byte) error
	// WriteAt persists src to the store starting at addr.
	WriteAt(addr int, src []byte) error
	// Size returns the store capacity in bytes.
	Size() int
}
