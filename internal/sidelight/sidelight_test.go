package sidelight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder map[Channel]uint8

func (r recorder) SetSideLight(ch Channel, v uint8) error {
	r[ch] = v
	return nil
}

func TestBreatherBreath(t *testing.T) {
	b := NewBreather(DefaultConfig)

	for i := 0; i < 50; i++ {
		b.Step()
	}
	assert.Equal(t, uint8(250), b.Duty())
	assert.Equal(t, [NumChannels]uint8{5, 255, 255}, b.Levels(), "active low red at peak")

	for i := 0; i < 50; i++ {
		b.Step()
	}
	assert.Equal(t, uint8(0), b.Duty())
	assert.Equal(t, 1, b.combo, "green breathes next")
}

func TestBreatherCyclesCombos(t *testing.T) {
	b := NewBreather(Config{Step: 125, Peak: 250, ActiveHigh: true})

	var seen [][NumChannels]bool
	for i := 0; i < 7; i++ {
		b.Step()
		b.Step()

		levels := b.Levels()
		seen = append(seen, [NumChannels]bool{levels[0] > 0, levels[1] > 0, levels[2] > 0})

		b.Step()
		b.Step()
	}

	assert.Equal(t, combos[:], seen)
	assert.Equal(t, 0, b.combo, "wraps after the last combination")
}

func TestBreatherApply(t *testing.T) {
	b := NewBreather(Config{ActiveHigh: true})
	b.Step()

	r := recorder{}
	require.NoError(t, b.Apply(r))
	assert.Equal(t, recorder{Red: 5, Green: 0, Blue: 0}, r)
}

func TestWriteColor(t *testing.T) {
	r := recorder{}
	require.NoError(t, WriteColor(r, [NumChannels]uint8{255, 128, 0}, false))
	assert.Equal(t, recorder{Red: 0, Green: 127, Blue: 255}, r)

	require.NoError(t, WriteColor(r, [NumChannels]uint8{255, 128, 0}, true))
	assert.Equal(t, recorder{Red: 255, Green: 128, Blue: 0}, r)
}

func TestChannelString(t *testing.T) {
	assert.Equal(t, "blue", Blue.String())
	assert.Equal(t, "Channel(7)", Channel(7).String())
}
