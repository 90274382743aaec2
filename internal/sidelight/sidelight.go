// Package sidelight breathes the three auxiliary PWM lights through every
// combination of their colors.
package sidelight

import "fmt"

// Channel is one of the three side light colors.
type Channel uint8

const (
	Red Channel = iota
	Green
	Blue
	NumChannels
)

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return fmt.Sprintf("Channel(%d)", c)
	}
}

// Writer sets the PWM intensity of a side light channel.
type Writer interface {
	SetSideLight(ch Channel, intensity uint8) error
}

// combos is the order in which channels breathe together.
var combos = [...][NumChannels]bool{
	{true, false, false},
	{false, true, false},
	{false, false, true},
	{true, true, false},
	{false, true, true},
	{true, false, true},
	{true, true, true},
}

// Config configures a Breather.
type Config struct {
	// Step is the duty cycle change per step.
	Step uint8
	// Peak is the duty cycle at the top of a breath.
	Peak uint8
	// ActiveHigh is true if a higher PWM value makes the light brighter. The
	// default is active low, as with common anode LEDs.
	ActiveHigh bool
}

// DefaultConfig breathes in 50 steps up and 50 steps down.
var DefaultConfig = Config{Step: 5, Peak: 250}

// Breather is the breathing animation state.
type Breather struct {
	cfg     Config
	duty    uint8
	falling bool
	combo   int
}

// NewBreather creates a new breather starting dark on the red channel.
func NewBreather(cfg Config) *Breather {
	if cfg.Step == 0 {
		cfg.Step = DefaultConfig.Step
	}
	if cfg.Peak == 0 {
		cfg.Peak = DefaultConfig.Peak
	}
	return &Breather{cfg: cfg}
}

// Step advances the breath by one step. After a full breath the next channel
// combination is selected.
func (b *Breather) Step() {
	if !b.falling {
		if b.cfg.Peak-b.duty <= b.cfg.Step {
			b.duty = b.cfg.Peak
			b.falling = true
		} else {
			b.duty += b.cfg.Step
		}
		return
	}

	if b.duty <= b.cfg.Step {
		b.duty = 0
		b.falling = false
		b.combo = (b.combo + 1) % len(combos)
	} else {
		b.duty -= b.cfg.Step
	}
}

// Duty returns the current duty cycle of the active channels.
func (b *Breather) Duty() uint8 { return b.duty }

// Levels returns the PWM value of each channel.
func (b *Breather) Levels() [NumChannels]uint8 {
	var levels [NumChannels]uint8
	for ch, on := range combos[b.combo] {
		var v uint8
		if on {
			v = b.duty
		}
		if !b.cfg.ActiveHigh {
			v = 0xFF - v
		}
		levels[ch] = v
	}
	return levels
}

// Apply writes the current levels to w.
func (b *Breather) Apply(w Writer) error {
	for ch, v := range b.Levels() {
		if err := w.SetSideLight(Channel(ch), v); err != nil {
			return err
		}
	}
	return nil
}

// WriteColor shows a single color on the side lights, one channel per color
// component.
func WriteColor(w Writer, rgb [NumChannels]uint8, activeHigh bool) error {
	for ch, v := range rgb {
		if !activeHigh {
			v = 0xFF - v
		}
		if err := w.SetSideLight(Channel(ch), v); err != nil {
			return err
		}
	}
	return nil
}
