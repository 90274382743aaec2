// Package timer implements the countdown timer: dialing in a duration with
// short presses, counting it down on a bar display and sounding the alarm.
package timer

import (
	"fmt"
	"time"

	"libdb.so/ringclock/internal/gesture"
	"libdb.so/ringclock/internal/led"
)

// State is the state of a Timer.
type State uint8

const (
	// Idle means the timer was just entered and shows the initial preset.
	Idle State = iota
	// Setting means the user is dialing in the duration with short presses.
	Setting
	// Running means the timer is counting down.
	Running
	// Expired means the countdown reached zero and the alarm is sounding.
	Expired
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Setting:
		return "setting"
	case Running:
		return "running"
	case Expired:
		return "expired"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// MaxMinutes is the number of presets before dialing wraps back to zero.
const MaxMinutes = 60

// Alarm describes the buzzer pattern played when the timer expires: Repeats
// groups of Pulses beeps. Gaps are in ticks.
type Alarm struct {
	Repeats   int
	Pulses    int
	Pulse     time.Duration
	PulseGap  int
	RepeatGap int
}

// DefaultAlarm is 5 groups of 4 100ms beeps.
var DefaultAlarm = Alarm{
	Repeats:   5,
	Pulses:    4,
	Pulse:     100 * time.Millisecond,
	PulseGap:  2,
	RepeatGap: 10,
}

func (a Alarm) pulsesLen() int { return a.Pulses * (1 + a.PulseGap) }
func (a Alarm) cycleLen() int  { return a.pulsesLen() + a.RepeatGap }

// Len returns the length of the whole alarm in ticks.
func (a Alarm) Len() int { return a.Repeats * a.cycleLen() }

// Step returns what to do on the given tick of the alarm.
func (a Alarm) Step(tick int) Action {
	if tick >= a.Len() {
		return Action{Done: true}
	}
	within := tick % a.cycleLen()
	if within < a.pulsesLen() && within%(1+a.PulseGap) == 0 {
		return Action{Beep: a.Pulse}
	}
	return Action{}
}

// BarColors are the colors of the bar display.
type BarColors struct {
	// Minute fills one LED per remaining minute.
	Minute led.RGBColor
	// Second is added onto one LED per remaining second of the current
	// minute.
	Second led.RGBColor
}

// DefaultBarColors draws minutes in a bright neutral and seconds as a faint
// overlay.
var DefaultBarColors = BarColors{
	Minute: led.Hex(0xCCCCCC),
	Second: led.Hex(0x202020),
}

// Config configures a Timer. Durations are in ticks.
type Config struct {
	// Preset is the duration in minutes shown when the timer is entered.
	Preset int
	// Dwell is how long to wait without a short press before starting.
	Dwell int
	// Second is the number of ticks in one countdown second.
	Second int
	Alarm  Alarm
	Colors BarColors
}

// DefaultConfig matches a 50ms tick.
var DefaultConfig = Config{
	Preset: 1,
	Dwell:  100,
	Second: 20,
	Alarm:  DefaultAlarm,
	Colors: DefaultBarColors,
}

// Action is what the caller should do after a tick.
type Action struct {
	// Beep is the buzzer duration to sound, if any.
	Beep time.Duration
	// Done is true once the alarm has finished. The timer should then be
	// left.
	Done bool
}

// Timer is the countdown timer state. The zero value is not usable; use New.
type Timer struct {
	cfg       Config
	state     State
	preset    int
	remaining int
	ticks     int
}

// New creates a new timer in the Idle state.
func New(cfg Config) *Timer {
	t := &Timer{cfg: cfg}
	t.Reset()
	return t
}

// Reset puts the timer back into the Idle state with the initial preset.
func (t *Timer) Reset() {
	t.state = Idle
	t.preset = t.cfg.Preset % MaxMinutes
	t.remaining = 0
	t.ticks = 0
}

// State returns the current state.
func (t *Timer) State() State { return t.state }

// Preset returns the dialed-in duration in minutes.
func (t *Timer) Preset() int { return t.preset }

// Remaining returns the remaining seconds while running.
func (t *Timer) Remaining() int { return t.remaining }

// Tick advances the timer by one tick, consuming the gesture event of that
// tick.
func (t *Timer) Tick(ev gesture.Event) Action {
	t.ticks++

	switch t.state {
	case Idle, Setting:
		if ev == gesture.ShortPress {
			t.preset = (t.preset + 1) % MaxMinutes
			t.state = Setting
			t.ticks = 0
			return Action{}
		}
		if t.ticks >= t.cfg.Dwell {
			t.start()
		}

	case Running:
		if t.ticks >= t.cfg.Second {
			t.ticks = 0
			t.remaining--
			if t.remaining <= 0 {
				t.expire()
			}
		}

	case Expired:
		return t.cfg.Alarm.Step(t.ticks - 1)
	}

	return Action{}
}

func (t *Timer) start() {
	t.state = Running
	t.remaining = t.preset * 60
	t.ticks = 0
	if t.remaining <= 0 {
		t.expire()
	}
}

func (t *Timer) expire() {
	t.state = Expired
	t.remaining = 0
	t.ticks = 0
}

// Render draws the timer into leds.
func (t *Timer) Render(leds led.LEDs) {
	switch t.state {
	case Idle, Setting:
		RenderBar(leds, t.preset*60, t.cfg.Colors)
	case Running:
		RenderBar(leds, t.remaining, t.cfg.Colors)
	default:
		leds.Clear()
	}
}

// BarLengths returns how many LEDs of a ring of n are covered by the minute
// fill and the second overlay for the given number of seconds.
func BarLengths(n, seconds int) (minutes, secs int) {
	if seconds < 0 {
		seconds = 0
	}
	minutes = min(seconds/60*n/60, n)
	secs = (seconds % 60) * n / 60
	return minutes, secs
}

// RenderBar clears leds and draws the two tier bar display for the given
// number of seconds.
func RenderBar(leds led.LEDs, seconds int, colors BarColors) {
	leds.Clear()

	minutes, secs := BarLengths(leds.Len(), seconds)
	leds.SetRange(0, minutes, colors.Minute)
	for i := 0; i < secs; i++ {
		leds.Add(i, colors.Second)
	}
}
