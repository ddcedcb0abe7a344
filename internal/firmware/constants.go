// internal/firmware/constants.go
package firmware

import "time"

// Firmware identity constants.
// These values are part of the device identity and MUST NOT be configurable.

// ---- VERSION ----

// Version is the fixed version string stored in the firmware image.
// It prefixes every serial reply and stamps every stored event.
const Version = "NanoWatchdog v11.2017"

// VersionSize is the serialized size of the version string,
// including the null terminator.
const VersionSize = 32

// ---- RESET PULSE ----

// DefaultPulseWidth is how long the reset output is held HIGH when firing.
const DefaultPulseWidth = 300 * time.Millisecond
