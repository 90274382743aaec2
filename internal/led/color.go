package led

import (
	"encoding"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// RGBColor is a color with 8-bit red, green and blue channels.
type RGBColor [3]uint8

var (
	_ encoding.TextUnmarshaler = (*RGBColor)(nil)
	_ encoding.TextMarshaler   = (*RGBColor)(nil)
)

// Some commonly used colors.
var (
	Black = RGBColor{0x00, 0x00, 0x00}
	White = RGBColor{0xFF, 0xFF, 0xFF}
	Red   = RGBColor{0xFF, 0x00, 0x00}
	Green = RGBColor{0x00, 0xFF, 0x00}
	Blue  = RGBColor{0x00, 0x00, 0xFF}
)

// RGB creates a color from its channels.
func RGB(r, g, b uint8) RGBColor { return RGBColor{r, g, b} }

// Hex creates a color from a 0xRRGGBB value.
func Hex(v uint32) RGBColor {
	return RGBColor{uint8(v >> 16), uint8(v >> 8), uint8(v)}
}

// R returns the red channel.
func (c RGBColor) R() uint8 { return c[0] }

// G returns the green channel.
func (c RGBColor) G() uint8 { return c[1] }

// B returns the blue channel.
func (c RGBColor) B() uint8 { return c[2] }

// IsBlack returns true if every channel is zero.
func (c RGBColor) IsBlack() bool { return c == Black }

// Add adds the two colors channel by channel, saturating at 0xFF.
func (c RGBColor) Add(other RGBColor) RGBColor {
	for i := range c {
		c[i] = qadd8(c[i], other[i])
	}
	return c
}

// Scale scales the color down to scale/256 of its brightness. A scale of
// 0xFF leaves the color unchanged.
func (c RGBColor) Scale(scale uint8) RGBColor {
	for i := range c {
		c[i] = uint8((uint16(c[i]) * (1 + uint16(scale))) >> 8)
	}
	return c
}

// Blend moves c towards other by amount/256.
func (c RGBColor) Blend(other RGBColor, amount uint8) RGBColor {
	for i := range c {
		c[i] = blend8(c[i], other[i], amount)
	}
	return c
}

// String returns the color as #rrggbb.
func (c RGBColor) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// MarshalText implements encoding.TextMarshaler.
func (c RGBColor) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts #rrggbb and
// #rgb.
func (c *RGBColor) UnmarshalText(text []byte) error {
	col, err := colorful.Hex(string(text))
	if err != nil {
		return errors.Wrapf(err, "invalid color %q", text)
	}
	r, g, b := col.RGB255()
	*c = RGBColor{r, g, b}
	return nil
}

// HSV converts an 8-bit hue, saturation and value into an RGBColor. A full
// hue circle spans 0..255.
func HSV(h, s, v uint8) RGBColor {
	col := colorful.Hsv(float64(h)*360/256, float64(s)/255, float64(v)/255)
	r, g, b := col.Clamped().RGB255()
	return RGBColor{r, g, b}
}

func qadd8(a, b uint8) uint8 {
	sum := uint16(a) + uint16(b)
	if sum > 0xFF {
		return 0xFF
	}
	return uint8(sum)
}

func blend8(a, b, amount uint8) uint8 {
	if amount == 0 {
		return a
	}
	v := uint32(a)*uint32(256-uint16(amount)) + uint32(b)*uint32(amount)
	return uint8(v >> 8)
}
