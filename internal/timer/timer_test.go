package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libdb.so/ringclock/internal/gesture"
	"libdb.so/ringclock/internal/led"
)

func TestRenderBar125(t *testing.T) {
	leds := led.NewLEDs(60)
	leds.Fill(led.Red)

	RenderBar(leds, 125, DefaultBarColors)

	minutes, secs := BarLengths(60, 125)
	assert.Equal(t, 2, minutes)
	assert.Equal(t, 5, secs)

	both := led.Hex(0xCCCCCC).Add(led.Hex(0x202020))
	assert.Equal(t, both, leds[0])
	assert.Equal(t, both, leds[1])
	for i := 2; i < 5; i++ {
		assert.Equal(t, led.Hex(0x202020), leds[i], "led %d", i)
	}
	for i := 5; i < 60; i++ {
		assert.True(t, leds[i].IsBlack(), "led %d", i)
	}
}

func TestBarLengthsScaleWithRing(t *testing.T) {
	minutes, secs := BarLengths(24, 30*60+30)
	assert.Equal(t, 12, minutes)
	assert.Equal(t, 12, secs)

	minutes, secs = BarLengths(12, 59*60+59)
	assert.LessOrEqual(t, minutes, 12)
	assert.LessOrEqual(t, secs, 12)

	minutes, secs = BarLengths(60, -5)
	assert.Zero(t, minutes)
	assert.Zero(t, secs)
}

func tickN(tm *Timer, n int) []Action {
	actions := make([]Action, n)
	for i := range actions {
		actions[i] = tm.Tick(gesture.None)
	}
	return actions
}

func TestTimerDwellStartsCountdown(t *testing.T) {
	tm := New(DefaultConfig)
	assert.Equal(t, Idle, tm.State())
	assert.Equal(t, 1, tm.Preset())

	tickN(tm, 99)
	assert.Equal(t, Idle, tm.State())

	tickN(tm, 1)
	require.Equal(t, Running, tm.State())
	assert.Equal(t, 60, tm.Remaining())

	tickN(tm, 19)
	assert.Equal(t, 60, tm.Remaining())
	tickN(tm, 1)
	assert.Equal(t, 59, tm.Remaining())
}

func TestTimerShortPressDialsPreset(t *testing.T) {
	tm := New(DefaultConfig)

	tickN(tm, 90)
	tm.Tick(gesture.ShortPress)
	assert.Equal(t, Setting, tm.State())
	assert.Equal(t, 2, tm.Preset())

	// The press restarted the dwell.
	tickN(tm, 99)
	assert.Equal(t, Setting, tm.State())
	tickN(tm, 1)
	assert.Equal(t, Running, tm.State())
	assert.Equal(t, 120, tm.Remaining())

	// Presses are ignored once running.
	tm.Tick(gesture.ShortPress)
	assert.Equal(t, Running, tm.State())
	assert.Equal(t, 2, tm.Preset())
}

func TestTimerPresetWraps(t *testing.T) {
	tm := New(DefaultConfig)
	for i := 0; i < 58; i++ {
		tm.Tick(gesture.ShortPress)
	}
	assert.Equal(t, 59, tm.Preset())

	tm.Tick(gesture.ShortPress)
	assert.Equal(t, 0, tm.Preset())

	// A zero preset expires as soon as it starts.
	tickN(tm, 100)
	assert.Equal(t, Expired, tm.State())
}

func TestTimerExpiresAndSoundsAlarm(t *testing.T) {
	cfg := DefaultConfig
	cfg.Dwell = 1
	cfg.Second = 1
	tm := New(cfg)

	tickN(tm, 1)
	require.Equal(t, Running, tm.State())

	tickN(tm, 59)
	assert.Equal(t, 1, tm.Remaining())
	tickN(tm, 1)
	require.Equal(t, Expired, tm.State())

	var beeps int
	var ticks int
	for {
		ticks++
		require.Less(t, ticks, 1000, "alarm never finished")

		a := tm.Tick(gesture.None)
		if a.Done {
			break
		}
		if a.Beep > 0 {
			assert.Equal(t, 100*time.Millisecond, a.Beep)
			beeps++
		}
	}

	assert.Equal(t, 20, beeps, "4 pulses repeated 5 times")
	assert.Equal(t, DefaultAlarm.Len()+1, ticks)
}

func TestTimerRender(t *testing.T) {
	leds := led.NewLEDs(60)
	tm := New(DefaultConfig)

	tm.Render(leds)
	assert.Equal(t, led.Hex(0xCCCCCC), leds[0], "idle shows the preset")
	assert.True(t, leds[1].IsBlack())

	tm.Reset()
	tm.Tick(gesture.ShortPress)
	tm.Tick(gesture.ShortPress)
	tm.Render(leds)
	assert.False(t, leds[2].IsBlack())
	assert.True(t, leds[3].IsBlack())
}

func TestAlarmStep(t *testing.T) {
	a := Alarm{Repeats: 2, Pulses: 2, Pulse: time.Millisecond, PulseGap: 1, RepeatGap: 3}
	var pattern []bool
	for i := 0; i < a.Len(); i++ {
		pattern = append(pattern, a.Step(i).Beep > 0)
	}
	assert.Equal(t, []bool{
		true, false, true, false, false, false, false,
		true, false, true, false, false, false, false,
	}, pattern)
	assert.True(t, a.Step(a.Len()).Done)
}
