// internal/console/types.go
package console

import "errors"

// MaxRequestLen is the longest accepted request line, in bytes.
// Longer input is truncated at this boundary.
const MaxRequestLen = 80

// ErrNoLine is returned by Port.ReadLine when no complete line is
// pending. The run loop treats it as "nothing to do this pass".
var ErrNoLine = errors.New("console: no line pending")

// Port is the line-oriented duplex text channel the interpreter is
// driven from.
type Port interface {
	// ReadLine returns the next complete request line without its
	// terminator, or ErrNoLine when none is pending yet.
	ReadLine() (string, error)
	// WriteLine sends one response line, appending the terminator.
	WriteLine(s string) error
}
