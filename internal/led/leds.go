// Package led contains the pixel buffer and color primitives used by every
// renderer.
package led

import "unsafe"

// LEDs describes a ring of LEDs. It is a preallocated slice of RGBColor.
// Methods that take an index wrap it around the ring, so callers may pass
// negative or overflowing positions.
type LEDs []RGBColor

// NewLEDs creates a new ring of LEDs. Colors are initialized to black
// (off).
func NewLEDs(numLEDs int) LEDs {
	return make(LEDs, numLEDs)
}

// Len returns the number of LEDs in the ring.
func (l LEDs) Len() int { return len(l) }

// Index wraps i into [0, Len()).
func (l LEDs) Index(i int) int {
	n := len(l)
	if n == 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// At returns the color of the LED at the given (wrapped) index.
func (l LEDs) At(i int) RGBColor {
	return l[l.Index(i)]
}

// AsPixels returns the LED ring as a slice of uint8 values. Each LED is
// represented by three values, one for each color channel. The returned slice
// aliases l.
func (l LEDs) AsPixels() []uint8 {
	if len(l) == 0 {
		return nil
	}
	return unsafe.Slice((*uint8)(unsafe.Pointer(&l[0])), 3*len(l))
}

// Copy returns a copy of the ring.
func (l LEDs) Copy() LEDs {
	c := make(LEDs, len(l))
	copy(c, l)
	return c
}

// Set sets the color of the LED at the given index.
func (l LEDs) Set(i int, c RGBColor) {
	l[l.Index(i)] = c
}

// Add adds c onto the LED at the given index, saturating each channel.
func (l LEDs) Add(i int, c RGBColor) {
	i = l.Index(i)
	l[i] = l[i].Add(c)
}

// Blend moves the LED at the given index towards c by amount/256.
func (l LEDs) Blend(i int, c RGBColor, amount uint8) {
	i = l.Index(i)
	l[i] = l[i].Blend(c, amount)
}

// SetRange sets the color of the LEDs in the given range. The range is
// clamped to the ring.
func (l LEDs) SetRange(start, end int, c RGBColor) {
	if start < 0 {
		start = 0
	}
	if end > len(l) {
		end = len(l)
	}
	for i := start; i < end; i++ {
		l[i] = c
	}
}

// Fill sets every LED to c.
func (l LEDs) Fill(c RGBColor) {
	for i := range l {
		l[i] = c
	}
}

// Clear turns every LED off.
func (l LEDs) Clear() {
	l.Fill(RGBColor{})
}

// Scale scales every LED down to scale/256 of its brightness.
func (l LEDs) Scale(scale uint8) {
	for i := range l {
		l[i] = l[i].Scale(scale)
	}
}

// FadeToBlackBy dims every LED by amount/256.
func (l LEDs) FadeToBlackBy(amount uint8) {
	l.Scale(255 - amount)
}

// FillRainbow fills the ring with a hue gradient starting at startHue and
// advancing deltaHue per LED.
func FillRainbow(l LEDs, startHue, deltaHue uint8) {
	hue := startHue
	for i := range l {
		l[i] = HSV(hue, 240, 255)
		hue += deltaHue
	}
}
