package pattern

import (
	"math/rand"
	"time"

	"libdb.so/ringclock/internal/led"
)

// State is the ambient animation state shared by all patterns. It survives
// pattern switches. Copying a State snapshots it, except for Rand which is
// shared.
type State struct {
	// Hue is the rotating base hue. It is advanced on its own cadence by the
	// owner of the State, not by the patterns.
	Hue uint8
	// Palette is the active color palette.
	Palette led.Palette
	// Counter is the next LED touched by patterns that walk the ring.
	Counter int
	// Speed is the beats per minute of the oscillating patterns.
	Speed uint16
	// Now is the animation time, since an arbitrary epoch.
	Now time.Duration
	// Rand is used by the patterns that sparkle.
	Rand *rand.Rand

	analog    led.RGBColor
	hasAnalog bool

	pride      waveState
	colorWaves waveState
	sinelonPos int
}

// waveState is the phase of a pride-like pattern.
type waveState struct {
	pseudoTime uint16
	lastMillis uint16
	hue16      uint16
}

// NewState creates a new ambient state.
func NewState(palette led.Palette, speed uint16, seed int64) *State {
	return &State{
		Hue:     160,
		Palette: palette,
		Speed:   speed,
		Rand:    rand.New(rand.NewSource(seed)),
	}
}

// TakeAnalog returns the color last picked for the analog side lights and
// forgets it. Only some patterns pick one.
func (s *State) TakeAnalog() (led.RGBColor, bool) {
	c, ok := s.analog, s.hasAnalog
	s.hasAnalog = false
	return c, ok
}

func (s *State) setAnalog(c led.RGBColor) {
	s.analog = c
	s.hasAnalog = true
}

func (s *State) random8() uint8 {
	return uint8(s.Rand.Intn(256))
}

func (s *State) randomN(n int) int {
	if n <= 0 {
		return 0
	}
	return s.Rand.Intn(n)
}
