package ringclock

import "fmt"

// Mode is the top level mode of the ring clock. Modes are cycled through in
// order with a long press.
type Mode uint8

const (
	// Off keeps the ring dark.
	Off Mode = iota
	// Clock shows the time of day as three hands.
	Clock
	// Timer dials in and counts down a timer.
	Timer
	// Ambient shows the ambient patterns.
	Ambient

	numModes
)

// Next returns the mode after m, wrapping back to Off after the last mode.
func (m Mode) Next() Mode {
	return (m + 1) % numModes
}

// Valid returns true if m is a known mode.
func (m Mode) Valid() bool {
	return m < numModes
}

func (m Mode) String() string {
	switch m {
	case Off:
		return "off"
	case Clock:
		return "clock"
	case Timer:
		return "timer"
	case Ambient:
		return "ambient"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}
