package pattern

import (
	"time"

	"libdb.so/ringclock/internal/led"
	"libdb.so/ringclock/internal/wave"
)

// Pride draws rainbows with an ever-changing, widely-varying set of
// parameters, after Mark Kriegsman's Pride2015. It blends into the previous
// frame instead of overwriting it.
type Pride struct{}

func (Pride) Name() string { return "pride" }

func (Pride) Draw(leds led.LEDs, s *State) {
	// The side lights follow the first LED of the previous frame.
	s.setAnalog(leds.At(0))

	now := s.Now
	st := &s.pride

	sat8 := uint8(wave.BeatSin88(43, 220, 250, now))
	brightDepth := uint8(wave.BeatSin88(171, 96, 224, now))
	brightThetaInc16 := wave.BeatSin88(102, 25*256, 40*256, now)
	msMultiplier := wave.BeatSin88(74, 23, 72, now)

	hue16 := st.hue16
	hueInc16 := wave.BeatSin88(57, 1, 128, now)

	st.advance(now, msMultiplier, wave.BeatSin88(200, 5, 9, now))

	brightTheta16 := st.pseudoTime
	n := leds.Len()
	for i := 0; i < n; i++ {
		hue16 += hueInc16
		hue8 := uint8(hue16 / 256)

		brightTheta16 += brightThetaInc16
		bri8 := waveBrightness(brightTheta16, brightDepth)

		leds.Blend(n-1-i, led.HSV(hue8, sat8, bri8), 64)
	}
}

// ColorWaves is Pride sampling the palette with a folded index instead of the
// raw hue, after Mark Kriegsman's ColorWavesWithPalettes.
type ColorWaves struct{}

func (ColorWaves) Name() string { return "colorWaves" }

func (ColorWaves) Draw(leds led.LEDs, s *State) {
	s.setAnalog(leds.At(0))

	now := s.Now
	st := &s.colorWaves

	brightDepth := uint8(wave.BeatSin88(341, 96, 224, now))
	brightThetaInc16 := wave.BeatSin88(203, 25*256, 40*256, now)
	msMultiplier := wave.BeatSin88(147, 23, 72, now)

	hue16 := st.hue16
	hueInc16 := wave.BeatSin88(113, 300, 1500, now)

	st.advance(now, msMultiplier, wave.BeatSin88(400, 5, 9, now))

	brightTheta16 := st.pseudoTime
	n := leds.Len()
	for i := 0; i < n; i++ {
		hue16 += hueInc16

		var hue8 uint8
		h128 := hue16 >> 7
		if h128&0x100 != 0 {
			hue8 = 255 - uint8(h128>>1)
		} else {
			hue8 = uint8(h128 >> 1)
		}

		brightTheta16 += brightThetaInc16
		bri8 := waveBrightness(brightTheta16, brightDepth)

		index := wave.Scale8(hue8, 240)
		leds.Blend(n-1-i, s.Palette.Color(index, bri8), 128)
	}
}

// advance moves the pseudo time and hue accumulators forward by the real time
// elapsed since the last frame.
func (st *waveState) advance(now time.Duration, msMultiplier, hueMultiplier uint16) {
	ms := uint16(now.Milliseconds())
	deltaMs := ms - st.lastMillis
	st.lastMillis = ms
	st.pseudoTime += deltaMs * msMultiplier
	st.hue16 += deltaMs * hueMultiplier
}

// waveBrightness maps a brightness phase onto a squared sine envelope whose
// floor is 255-depth.
func waveBrightness(theta uint16, depth uint8) uint8 {
	b16 := uint32(uint16(int32(wave.Sin16(theta)) + 32768))
	bri16 := (b16 * b16) / 65536
	bri8 := uint8((bri16 * uint32(depth)) / 65536)
	return bri8 + (255 - depth)
}
