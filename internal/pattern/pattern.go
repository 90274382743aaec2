// Package pattern contains the ambient animations. Each pattern draws one
// frame per call into the given LEDs, reading and updating the shared State.
package pattern

import (
	"math"

	"libdb.so/ringclock/internal/led"
	"libdb.so/ringclock/internal/wave"
)

// Pattern is a single ambient animation.
type Pattern interface {
	// Name returns the name of the pattern as used in configuration.
	Name() string
	// Draw draws one frame into leds. Patterns that fade or blend build on
	// the previous frame; others overwrite it.
	Draw(leds led.LEDs, s *State)
}

// Library is an ordered list of patterns.
type Library []Pattern

// DefaultArc is the fraction of the ring spanned by one rainbow hue cycle.
const DefaultArc = 0.6

// NewLibrary returns every pattern in its canonical order.
func NewLibrary(rainbowArc float64) Library {
	rainbow := Rainbow{Arc: rainbowArc}
	return Library{
		Spin{Fade: 13},
		SolidPalette{},
		ClockwisePalette{},
		Pride{},
		ColorWaves{},
		rainbow,
		RainbowWithGlitter{Rainbow: rainbow, Chance: 80},
		Confetti{Fade: 10},
		Sinelon{Fade: 20},
		Juggle{Fade: 20},
		BPM{},
	}
}

// At returns the pattern at index i, wrapping around in both directions.
func (l Library) At(i int) Pattern {
	n := len(l)
	i %= n
	if i < 0 {
		i += n
	}
	return l[i]
}

// Index returns the index of the pattern with the given name.
func (l Library) Index(name string) (int, bool) {
	for i, p := range l {
		if p.Name() == name {
			return i, true
		}
	}
	return 0, false
}

// Names returns the names of all patterns in order.
func (l Library) Names() []string {
	names := make([]string, len(l))
	for i, p := range l {
		names[i] = p.Name()
	}
	return names
}

// Spin walks a single palette colored LED around the ring over a fading
// trail.
type Spin struct {
	Fade uint8
}

func (Spin) Name() string { return "spin" }

func (p Spin) Draw(leds led.LEDs, s *State) {
	c := s.Palette.Color(s.Hue, 0xFF)
	leds.Set(s.Counter, c)
	s.setAnalog(c)
	leds.FadeToBlackBy(p.Fade)
	s.Counter = leds.Index(s.Counter + 1)
}

// SolidPalette fills the ring with the palette color at the base hue.
type SolidPalette struct{}

func (SolidPalette) Name() string { return "solidPalette" }

func (SolidPalette) Draw(leds led.LEDs, s *State) {
	c := s.Palette.Color(s.Hue, 0xFF)
	leds.Fill(c)
	s.setAnalog(c)
	s.Counter = leds.Index(s.Counter + 1)
}

// ClockwisePalette spreads the whole palette around the ring, offset by the
// base hue, so that it rotates as the hue advances.
type ClockwisePalette struct{}

func (ClockwisePalette) Name() string { return "clockwisePalette" }

func (ClockwisePalette) Draw(leds led.LEDs, s *State) {
	n := leds.Len()
	for i := range leds {
		angle := uint8(i * 256 / n)
		leds[i] = s.Palette.Color(s.Hue+angle, 0xFF)
	}
}

// Confetti lights random LEDs in hues near the base hue that fade out.
type Confetti struct {
	Fade uint8
}

func (Confetti) Name() string { return "confetti" }

func (p Confetti) Draw(leds led.LEDs, s *State) {
	leds.FadeToBlackBy(p.Fade)
	pos := s.randomN(leds.Len())
	leds.Add(pos, led.HSV(s.Hue+uint8(s.randomN(64)), 200, 0xFF))
}

// Rainbow fills the ring with a hue gradient starting at the base hue. Arc is
// the fraction of the ring that spans one full hue cycle.
type Rainbow struct {
	Arc float64
}

func (Rainbow) Name() string { return "rainbow" }

func (p Rainbow) Draw(leds led.LEDs, s *State) {
	led.FillRainbow(leds, s.Hue, p.deltaHue(leds.Len()))
}

func (p Rainbow) deltaHue(n int) uint8 {
	arc := p.Arc
	if arc <= 0 {
		arc = DefaultArc
	}
	span := arc * float64(n)
	if span < 1 {
		return 0xFF
	}
	d := math.Round(256 / span)
	if d > 0xFF {
		return 0xFF
	}
	return uint8(d)
}

// RainbowWithGlitter is Rainbow with a chance/256 chance per frame of a white
// sparkle.
type RainbowWithGlitter struct {
	Rainbow Rainbow
	Chance  uint8
}

func (RainbowWithGlitter) Name() string { return "rainbowWithGlitter" }

func (p RainbowWithGlitter) Draw(leds led.LEDs, s *State) {
	p.Rainbow.Draw(leds, s)
	if s.random8() < p.Chance {
		leds.Add(s.randomN(leds.Len()), led.White)
	}
}

// Sinelon sweeps a palette colored dot back and forth with a fading trail.
type Sinelon struct {
	Fade uint8
}

func (Sinelon) Name() string { return "sinelon" }

func (p Sinelon) Draw(leds led.LEDs, s *State) {
	n := leds.Len()
	leds.FadeToBlackBy(p.Fade)

	pos := int(wave.BeatSin16(s.Speed, 0, uint16(n-1), s.Now))
	prev := min(s.sinelonPos, n-1)
	color := s.Palette.Color(s.Hue, 0xFF)

	from, to := min(pos, prev), max(pos, prev)
	for i := from; i <= to; i++ {
		leds[i] = color
	}
	s.sinelonPos = pos
}

// BPM pulses palette colored stripes at Speed beats per minute.
type BPM struct{}

func (BPM) Name() string { return "bpm" }

func (BPM) Draw(leds led.LEDs, s *State) {
	beat := wave.BeatSin8(s.Speed, 64, 0xFF, s.Now)
	for i := range leds {
		leds[i] = s.Palette.Color(s.Hue+uint8(i*2), beat-s.Hue+uint8(i*10))
	}
}

// Juggle weaves three colored dots in and out of sync with each other.
type Juggle struct {
	Fade uint8
}

func (Juggle) Name() string { return "juggle" }

func (p Juggle) Draw(leds led.LEDs, s *State) {
	n := leds.Len()
	leds.FadeToBlackBy(p.Fade)

	var hue uint8
	for i := uint16(0); i < 3; i++ {
		pos := wave.BeatSin16(s.Speed+i, 0, uint16(n-1), s.Now)
		leds.Add(int(pos), led.HSV(hue, 200, 0xFF))
		hue += 80
	}
}
