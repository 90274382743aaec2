package pattern

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libdb.so/ringclock/internal/led"
)

func newTestState(t *testing.T) *State {
	t.Helper()

	palette, err := led.PaletteByName("party")
	require.NoError(t, err)

	s := NewState(palette, 30, 1)
	s.Now = 1234 * time.Millisecond
	return s
}

func noise(n int) led.LEDs {
	leds := led.NewLEDs(n)
	for i := range leds {
		leds[i] = led.RGB(uint8(i*37), uint8(i*11), uint8(255-i*5))
	}
	return leds
}

func TestLibraryOrder(t *testing.T) {
	lib := NewLibrary(DefaultArc)
	assert.Equal(t, []string{
		"spin",
		"solidPalette",
		"clockwisePalette",
		"pride",
		"colorWaves",
		"rainbow",
		"rainbowWithGlitter",
		"confetti",
		"sinelon",
		"juggle",
		"bpm",
	}, lib.Names())
}

func TestLibraryAtWraps(t *testing.T) {
	lib := NewLibrary(DefaultArc)
	n := len(lib)

	assert.Equal(t, lib[0], lib.At(n))
	assert.Equal(t, lib[3], lib.At(n+3))
	assert.Equal(t, lib[n-1], lib.At(-1))

	i, ok := lib.Index("sinelon")
	assert.True(t, ok)
	assert.Equal(t, "sinelon", lib.At(i).Name())

	_, ok = lib.Index("strobe")
	assert.False(t, ok)
}

func TestPatternsAreDeterministic(t *testing.T) {
	random := map[string]bool{
		"confetti":           true,
		"rainbowWithGlitter": true,
	}

	for _, ringSize := range []int{60, 24} {
		for _, p := range NewLibrary(DefaultArc) {
			if random[p.Name()] {
				continue
			}

			t.Run(p.Name(), func(t *testing.T) {
				s1 := newTestState(t)
				s2 := *s1

				leds1 := noise(ringSize)
				leds2 := leds1.Copy()

				p.Draw(leds1, s1)
				p.Draw(leds2, &s2)

				assert.Equal(t, leds1, leds2)
			})
		}
	}
}

func TestPatternsStayOnRing(t *testing.T) {
	for _, ringSize := range []int{1, 7, 60, 72} {
		for _, p := range NewLibrary(DefaultArc) {
			s := newTestState(t)
			leds := led.NewLEDs(ringSize)
			for frame := 0; frame < 300; frame++ {
				s.Now += 50 * time.Millisecond
				s.Hue++
				p.Draw(leds, s)
			}
			assert.Len(t, leds, ringSize, p.Name())
		}
	}
}

func TestSpinWalksRing(t *testing.T) {
	s := newTestState(t)
	leds := led.NewLEDs(12)

	for i := 0; i < 12; i++ {
		assert.Equal(t, i, s.Counter)
		Spin{Fade: 13}.Draw(leds, s)
		assert.False(t, leds[i].IsBlack())
	}
	assert.Equal(t, 0, s.Counter, "counter wraps at the ring size")

	// Older LEDs are dimmer.
	assert.Greater(t, sum(leds[11]), sum(leds[0]))
}

func TestSolidPalette(t *testing.T) {
	s := newTestState(t)
	leds := noise(10)
	SolidPalette{}.Draw(leds, s)

	want := s.Palette.Color(s.Hue, 0xFF)
	for _, c := range leds {
		assert.Equal(t, want, c)
	}
}

func TestAnalogColor(t *testing.T) {
	s := newTestState(t)
	leds := noise(10)

	_, ok := s.TakeAnalog()
	assert.False(t, ok)

	SolidPalette{}.Draw(leds, s)
	c, ok := s.TakeAnalog()
	require.True(t, ok)
	assert.Equal(t, s.Palette.Color(s.Hue, 0xFF), c)

	_, ok = s.TakeAnalog()
	assert.False(t, ok, "taking the color forgets it")

	leds.Fill(led.Blue)
	Pride{}.Draw(leds, s)
	c, ok = s.TakeAnalog()
	require.True(t, ok)
	assert.Equal(t, led.Blue, c, "pride follows the first LED of the previous frame")

	Confetti{Fade: 10}.Draw(leds, s)
	_, ok = s.TakeAnalog()
	assert.False(t, ok, "confetti picks no color")
}

func TestClockwisePaletteRotates(t *testing.T) {
	s := newTestState(t)
	s.Hue = 0

	a := led.NewLEDs(16)
	ClockwisePalette{}.Draw(a, s)
	assert.Equal(t, s.Palette[0], a[0])
	assert.Equal(t, s.Palette[5], a[5])

	// Advancing the hue by one palette entry rotates the ring by one LED.
	s.Hue = 16
	b := led.NewLEDs(16)
	ClockwisePalette{}.Draw(b, s)
	assert.Equal(t, a[1], b[0])
	assert.Equal(t, a[0], b[15])
}

func TestRainbowArc(t *testing.T) {
	assert.Equal(t, uint8(7), Rainbow{Arc: DefaultArc}.deltaHue(60))
	assert.Equal(t, uint8(4), Rainbow{Arc: 1}.deltaHue(64))
	assert.Equal(t, uint8(0xFF), Rainbow{Arc: 0.5}.deltaHue(1))
}

func TestRainbowWithGlitterSparkles(t *testing.T) {
	s := newTestState(t)
	p := RainbowWithGlitter{Rainbow: Rainbow{Arc: DefaultArc}, Chance: 0xFF}

	plain := led.NewLEDs(60)
	p.Rainbow.Draw(plain, s)

	var sparkled bool
	for i := 0; i < 20 && !sparkled; i++ {
		leds := led.NewLEDs(60)
		p.Draw(leds, s)
		sparkled = !assert.ObjectsAreEqual(plain, leds)
	}
	assert.True(t, sparkled)
}

func TestConfettiLightsOneLED(t *testing.T) {
	s := newTestState(t)
	leds := led.NewLEDs(60)
	Confetti{Fade: 10}.Draw(leds, s)

	var lit int
	for _, c := range leds {
		if !c.IsBlack() {
			lit++
		}
	}
	assert.Equal(t, 1, lit)
}

func TestPrideBlendsIntoPreviousFrame(t *testing.T) {
	s := newTestState(t)
	leds := led.NewLEDs(60)
	leds.Fill(led.White)

	Pride{}.Draw(leds, s)

	for i, c := range leds {
		for ch := 0; ch < 3; ch++ {
			assert.GreaterOrEqual(t, c[ch], uint8(191), "led %d keeps 3/4 of the previous frame", i)
		}
	}
}

func TestPrideAdvancesWithTime(t *testing.T) {
	s := newTestState(t)
	Pride{}.Draw(led.NewLEDs(60), s)
	before := s.pride

	s.Now += 20 * time.Millisecond
	Pride{}.Draw(led.NewLEDs(60), s)

	assert.NotEqual(t, before, s.pride)
	assert.Equal(t, uint16(s.Now.Milliseconds()), s.pride.lastMillis)
}

func TestSinelonFillsGap(t *testing.T) {
	s := newTestState(t)
	s.Now = 0
	s.sinelonPos = 10

	leds := led.NewLEDs(60)
	Sinelon{Fade: 20}.Draw(leds, s)

	// At time zero the dot is in the middle of the ring.
	assert.Equal(t, 30, s.sinelonPos)
	color := s.Palette.Color(s.Hue, 0xFF)
	for i := 10; i <= 30; i++ {
		assert.Equal(t, color, leds[i], "led %d", i)
	}
	assert.True(t, leds[9].IsBlack())
	assert.True(t, leds[31].IsBlack())
}

func TestJuggleAddsThreeDots(t *testing.T) {
	s := newTestState(t)
	s.Now = 0
	leds := led.NewLEDs(60)
	Juggle{Fade: 20}.Draw(leds, s)

	// All three dots start in the middle and add up.
	mid := leds[30]
	assert.Equal(t, led.HSV(0, 200, 0xFF).Add(led.HSV(80, 200, 0xFF)).Add(led.HSV(160, 200, 0xFF)), mid)
}

func sum(c led.RGBColor) int {
	return int(c[0]) + int(c[1]) + int(c[2])
}
