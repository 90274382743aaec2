// Package clockface draws the time of day as three hand pixels on the ring.
package clockface

import (
	"fmt"

	"libdb.so/ringclock/internal/led"
)

// Time is a wall clock reading.
type Time struct {
	Hour   int // 0-23
	Minute int // 0-59
	Second int // 0-59
}

// Valid returns true if every field is within its range.
func (t Time) Valid() bool {
	return t.Hour >= 0 && t.Hour < 24 &&
		t.Minute >= 0 && t.Minute < 60 &&
		t.Second >= 0 && t.Second < 60
}

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Colors are the colors of each hand.
type Colors struct {
	Hour         led.RGBColor
	HourNeighbor led.RGBColor
	Minute       led.RGBColor
	MinuteTrail  led.RGBColor
	Second       led.RGBColor
}

// DefaultColors puts each hand on its own channel: blue hours, red minutes
// and green seconds.
var DefaultColors = Colors{
	Hour:         led.Blue,
	HourNeighbor: led.Hex(0x000030),
	Minute:       led.Red,
	MinuteTrail:  led.Hex(0x300000),
	Second:       led.Green,
}

// HourIndex returns the hour hand position on a ring of n LEDs. The hand
// moves between hour marks as the minutes pass; on a 60 LED ring that is
// (hour%12)*5 + minute/12.
func HourIndex(n int, t Time) int {
	return ((t.Hour%12)*60 + t.Minute) * n / (12 * 60) % n
}

// MinuteIndex returns the minute hand position on a ring of n LEDs.
func MinuteIndex(n int, t Time) int {
	return t.Minute * n / 60 % n
}

// SecondIndex returns the second hand position on a ring of n LEDs.
func SecondIndex(n int, t Time) int {
	return t.Second * n / 60 % n
}

// Renderer draws clock frames.
type Renderer struct {
	Colors Colors
}

// NewRenderer creates a new clock renderer.
func NewRenderer(colors Colors) *Renderer {
	return &Renderer{Colors: colors}
}

// Render clears leds and draws the hands for t. Minute and second hands are
// added onto whatever is already lit so that overlapping hands mix instead of
// hiding each other.
func (r *Renderer) Render(leds led.LEDs, t Time) {
	leds.Clear()

	n := leds.Len()
	if n == 0 {
		return
	}

	h := HourIndex(n, t)
	leds.Set(h, r.Colors.Hour)
	leds.Set(h+1, r.Colors.HourNeighbor)
	leds.Set(h-1, r.Colors.HourNeighbor)

	m := MinuteIndex(n, t)
	leds.Add(m, r.Colors.Minute)
	leds.Add(m-1, r.Colors.MinuteTrail)

	leds.Add(SecondIndex(n, t), r.Colors.Second)
}
