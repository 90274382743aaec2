package led

import (
	"sort"

	"github.com/pkg/errors"
)

// Palette is a 16-entry color palette. Lookups blend linearly between
// neighboring entries, wrapping from the last entry back to the first.
type Palette [16]RGBColor

// Color looks up the palette at index (0..255 spans the whole palette) and
// scales the result to brightness/256.
func (p *Palette) Color(index, brightness uint8) RGBColor {
	hi := index >> 4
	lo := index & 0x0F

	c := p[hi]
	if lo != 0 {
		c = c.Blend(p[(hi+1)&0x0F], lo<<4)
	}
	if brightness != 0xFF {
		c = c.Scale(brightness)
	}
	return c
}

func paletteFromHex(v [16]uint32) Palette {
	var p Palette
	for i, x := range v {
		p[i] = Hex(x)
	}
	return p
}

var palettes = map[string]Palette{
	"rainbow": paletteFromHex([16]uint32{
		0xFF0000, 0xD52A00, 0xAB5500, 0xAB7F00,
		0xABAB00, 0x56D500, 0x00FF00, 0x00D52A,
		0x00AB55, 0x0056AA, 0x0000FF, 0x2A00D5,
		0x5500AB, 0x7F0081, 0xAB0055, 0xD5002B,
	}),
	"party": paletteFromHex([16]uint32{
		0x5500AB, 0x84007C, 0xB5004B, 0xE5001B,
		0xE81700, 0xB84700, 0xAB7700, 0xABAB00,
		0xAB5500, 0xDD2200, 0xF2000E, 0xC2003E,
		0x8F0071, 0x5F00A1, 0x2F00D0, 0x0007F9,
	}),
	"ocean": paletteFromHex([16]uint32{
		0x191970, 0x00008B, 0x191970, 0x000080,
		0x00008B, 0x0000CD, 0x2E8B57, 0x008080,
		0x5F9EA0, 0x0000FF, 0x008B8B, 0x6495ED,
		0x7FFFD4, 0x2E8B57, 0x00FFFF, 0x87CEFA,
	}),
	"lava": paletteFromHex([16]uint32{
		0x000000, 0x800000, 0x000000, 0x800000,
		0x8B0000, 0x8B0000, 0x800000, 0x8B0000,
		0x8B0000, 0x8B0000, 0xFF0000, 0xFFA500,
		0xFFFFFF, 0xFFA500, 0xFF0000, 0x8B0000,
	}),
	"forest": paletteFromHex([16]uint32{
		0x006400, 0x006400, 0x556B2F, 0x006400,
		0x008000, 0x228B22, 0x6B8E23, 0x008000,
		0x2E8B57, 0x66CDAA, 0x32CD32, 0x9ACD32,
		0x90EE90, 0x7CFC00, 0x66CDAA, 0x228B22,
	}),
	"cloud": paletteFromHex([16]uint32{
		0x0000FF, 0x00008B, 0x00008B, 0x00008B,
		0x00008B, 0x00008B, 0x00008B, 0x00008B,
		0x0000FF, 0x00008B, 0x87CEEB, 0x87CEEB,
		0xADD8E6, 0xFFFFFF, 0xADD8E6, 0x87CEEB,
	}),
	"heat": paletteFromHex([16]uint32{
		0x000000, 0x330000, 0x660000, 0x990000,
		0xCC0000, 0xFF0000, 0xFF3300, 0xFF6600,
		0xFF9900, 0xFFCC00, 0xFFFF00, 0xFFFF33,
		0xFFFF66, 0xFFFF99, 0xFFFFCC, 0xFFFFFF,
	}),
}

// PaletteByName returns the named built-in palette.
func PaletteByName(name string) (Palette, error) {
	p, ok := palettes[name]
	if !ok {
		return Palette{}, errors.Errorf("unknown palette %q", name)
	}
	return p, nil
}

// PaletteNames returns the names of all built-in palettes, sorted.
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
