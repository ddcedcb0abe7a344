// internal/reason/constants.go
package reason

// Code is the reason code of a stored event.
// It is serialized in the low 7 bits of the trailing record byte,
// which limits it to 127.
type Code uint8

// ---- FIRMWARE-ASSIGNED CODES ----

// Init marks an initialization of the event log.
const Init Code = 0

// NoPing marks a reset fired because the host stopped pinging.
const NoPing Code = 1

// Default is the reason a freshly constructed event carries.
const Default Code = NoPing

// ---- EXTERNAL COMMAND BAND ----

// CommandStart is the first code of the externally-commanded band.
// Everything at or above it was requested by the management daemon;
// the firmware does not interpret the sub-meaning.
const CommandStart Code = 16

// Daemon-internal sub-meanings of the command band.
// Kept for the host side of the wire; the firmware displays them all
// as "external command".
const (
	MaxLoad1       Code = CommandStart + iota // 16
	MaxLoad5                                  // 17
	MaxLoad15                                 // 18
	MinMemory                                 // 19
	MaxTemperature                            // 20
	Pidfile                                   // 21
	Ping                                      // 22
	Interface                                 // 23
)

// Max is the highest encodable reason code.
const Max Code = 127

// ---- DISPLAY ----

// Label returns the human-readable label for a reason code.
// Used only for display and list output.
func Label(c Code) string {
	switch {
	case c == Init:
		return "initialization"
	case c == NoPing:
		return "no ping"
	case c >= CommandStart:
		return "external command"
	default:
		return "unknown reason code"
	}
}
