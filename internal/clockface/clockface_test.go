package clockface

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"libdb.so/ringclock/internal/led"
)

func TestHourIndexFormula(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		for minute := 0; minute < 60; minute++ {
			tm := Time{Hour: hour, Minute: minute}

			want := ((hour%12)*5 + minute/12) % 60
			got := HourIndex(60, tm)
			if !assert.Equal(t, want, got, "time %s", tm) {
				return
			}
		}
	}
}

func TestIndicesInRangeForOtherRings(t *testing.T) {
	for _, n := range []int{12, 24, 35, 72, 144} {
		for hour := 0; hour < 24; hour++ {
			for minute := 0; minute < 60; minute++ {
				tm := Time{Hour: hour, Minute: minute, Second: minute}

				for _, i := range []int{HourIndex(n, tm), MinuteIndex(n, tm), SecondIndex(n, tm)} {
					if i < 0 || i >= n {
						t.Fatalf("ring %d: index %d out of range at %s", n, i, tm)
					}
				}
			}
		}
	}

	// 24 LEDs: every two LEDs is one hour.
	assert.Equal(t, 6, HourIndex(24, Time{Hour: 3}))
	assert.Equal(t, 12, MinuteIndex(24, Time{Minute: 30}))
}

func TestRenderThreeOhFive(t *testing.T) {
	leds := led.NewLEDs(60)
	leds.Fill(led.White) // stale frame

	r := NewRenderer(DefaultColors)
	r.Render(leds, Time{Hour: 3, Minute: 5, Second: 10})

	assert.Equal(t, led.Blue, leds[15], "hour hand")
	assert.Equal(t, led.Hex(0x000030), leds[14], "hour neighbor before")
	assert.Equal(t, led.Hex(0x000030), leds[16], "hour neighbor after")
	assert.Equal(t, led.Red, leds[5], "minute hand")
	assert.Equal(t, led.Hex(0x300000), leds[4], "minute trail")
	assert.Equal(t, led.Green, leds[10], "second hand")

	lit := 0
	for _, c := range leds {
		if !c.IsBlack() {
			lit++
		}
	}
	assert.Equal(t, 6, lit, "everything else is cleared")

	// Each hand occupies its own channel.
	assert.Zero(t, leds[15].R()+leds[15].G())
	assert.Zero(t, leds[5].G()+leds[5].B())
	assert.Zero(t, leds[10].R()+leds[10].B())
}

func TestRenderOverlapIsAdditive(t *testing.T) {
	leds := led.NewLEDs(60)
	r := NewRenderer(DefaultColors)

	// 00:00:00 puts all three hands on LED 0.
	r.Render(leds, Time{})
	assert.Equal(t, led.RGB(0xFF, 0xFF, 0xFF), leds[0])
	assert.Equal(t, led.RGB(0x30, 0x00, 0x30), leds[59], "minute trail adds onto hour neighbor")
	assert.Equal(t, led.Hex(0x000030), leds[1])

	for sec := 0; sec < 60; sec++ {
		tm := Time{Hour: 6, Minute: 30, Second: sec}
		r.Render(leds, tm)

		s := leds[SecondIndex(60, tm)]
		assert.Equal(t, uint8(0xFF), s.G(), "second hand never loses its channel at %s", tm)
		m := leds[MinuteIndex(60, tm)]
		assert.Equal(t, uint8(0xFF), m.R(), "minute hand never loses its channel at %s", tm)
	}
}

func TestTimeValid(t *testing.T) {
	assert.True(t, Time{23, 59, 59}.Valid())
	assert.False(t, Time{24, 0, 0}.Valid())
	assert.False(t, Time{0, -1, 0}.Valid())
	assert.False(t, Time{0, 0, 60}.Valid())
}
