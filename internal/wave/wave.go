// Package wave implements the 8- and 16-bit fixed point oscillators used by
// the ambient patterns. A full turn is 256 (8-bit) or 65536 (16-bit) units.
//
// Beat functions take the current animation time as a duration since an
// arbitrary epoch instead of reading a clock, so that frames can be
// reproduced exactly.
package wave

import (
	"math"
	"time"
)

// Sin16 returns the sine of theta in [-32767, 32767].
func Sin16(theta uint16) int16 {
	return int16(math.Round(math.Sin(float64(theta) / 65536 * 2 * math.Pi) * 32767))
}

// Sin8 returns the sine of theta mapped onto [0, 255] with 128 as zero.
func Sin8(theta uint8) uint8 {
	return uint8(int(Sin16(uint16(theta)<<8)>>8) + 128)
}

// Triwave8 returns a triangle wave: 0 at 0, 254 at 127 and back down.
func Triwave8(in uint8) uint8 {
	if in&0x80 != 0 {
		in = 255 - in
	}
	return in << 1
}

// Scale8 scales i by scale/256.
func Scale8(i, scale uint8) uint8 {
	return uint8((uint16(i) * (1 + uint16(scale))) >> 8)
}

// Scale16 scales i by scale/65536.
func Scale16(i, scale uint16) uint16 {
	return uint16((uint32(i) * (1 + uint32(scale))) >> 16)
}

// Beat88 returns a sawtooth that completes bpm88/256 cycles per minute. The
// bpm is given in Q8.8 fixed point.
func Beat88(bpm88 uint16, now time.Duration) uint16 {
	ms := uint32(now.Milliseconds())
	return uint16((ms * uint32(bpm88) * 280) >> 16)
}

// Beat16 is Beat88 that also accepts a plain integer bpm below 256.
func Beat16(bpm uint16, now time.Duration) uint16 {
	if bpm < 256 {
		bpm <<= 8
	}
	return Beat88(bpm, now)
}

// Beat8 is the 8-bit version of Beat16.
func Beat8(bpm uint16, now time.Duration) uint8 {
	return uint8(Beat16(bpm, now) >> 8)
}

// BeatSin88 returns a sine wave oscillating between low and high at the
// given Q8.8 bpm.
func BeatSin88(bpm88, low, high uint16, now time.Duration) uint16 {
	return sinRange16(Beat88(bpm88, now), low, high)
}

// BeatSin16 returns a sine wave oscillating between low and high.
func BeatSin16(bpm, low, high uint16, now time.Duration) uint16 {
	return sinRange16(Beat16(bpm, now), low, high)
}

// BeatSin8 returns a sine wave oscillating between low and high.
func BeatSin8(bpm uint16, low, high uint8, now time.Duration) uint8 {
	beat := Beat8(bpm, now)
	return low + Scale8(Sin8(beat), high-low)
}

func sinRange16(beat, low, high uint16) uint16 {
	s := uint16(int32(Sin16(beat)) + 32768)
	return low + Scale16(s, high-low)
}
