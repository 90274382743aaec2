package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// press holds the line for n ticks, releases it, and returns every event that
// was not None along with the tick it fired on (1-based; n+1 is the release).
func press(d *Decoder, n int) map[int]Event {
	events := make(map[int]Event)
	for i := 1; i <= n; i++ {
		if ev := d.Sample(true); ev != None {
			events[i] = ev
		}
	}
	if ev := d.Sample(false); ev != None {
		events[n+1] = ev
	}
	return events
}

func TestDecoderPressLengths(t *testing.T) {
	tests := []struct {
		name   string
		held   int
		events map[int]Event
	}{
		{"tap", 1, map[int]Event{}},
		{"just below short", 14, map[int]Event{}},
		{"exactly short", 15, map[int]Event{16: ShortPress}},
		{"between", 30, map[int]Event{31: ShortPress}},
		{"just below long", 49, map[int]Event{50: ShortPress}},
		{"exactly long", 50, map[int]Event{50: LongPress}},
		{"held forever", 500, map[int]Event{50: LongPress}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d := NewDecoder(DefaultThresholds)
			assert.Equal(t, test.events, press(d, test.held))
			assert.Equal(t, 0, d.Held(), "release resets the press")
		})
	}
}

func TestDecoderConsecutivePresses(t *testing.T) {
	d := NewDecoder(Thresholds{Short: 2, Long: 4})

	assert.Equal(t, map[int]Event{4: ShortPress}, press(d, 3))
	assert.Equal(t, map[int]Event{4: LongPress}, press(d, 6))
	assert.Equal(t, map[int]Event{3: ShortPress}, press(d, 2))
	assert.Equal(t, map[int]Event{}, press(d, 1))
}

func TestDecoderIdleLine(t *testing.T) {
	d := NewDecoder(DefaultThresholds)
	for i := 0; i < 100; i++ {
		assert.Equal(t, None, d.Sample(false))
	}
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "long-press", LongPress.String())
	assert.Equal(t, "Event(9)", Event(9).String())
}
