package ringclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"libdb.so/ringclock/internal/clockface"
)

func TestModeNext(t *testing.T) {
	m := Off
	for _, want := range []Mode{Clock, Timer, Ambient, Off} {
		m = m.Next()
		assert.Equal(t, want, m)
	}

	assert.True(t, Ambient.Valid())
	assert.False(t, numModes.Valid())
	assert.Equal(t, "timer", Timer.String())
	assert.Equal(t, "Mode(9)", Mode(9).String())
}

func TestSystemClock(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 5, 10, 0, time.UTC)
	clock := &SystemClock{
		Location: time.FixedZone("", 60*60),
		NowFunc:  func() time.Time { return now },
	}

	got, err := clock.Now()
	require.NoError(t, err)
	assert.Equal(t, clockface.Time{Hour: 4, Minute: 5, Second: 10}, got)

	clock.Location = nil
	got, err = clock.Now()
	require.NoError(t, err)
	assert.Equal(t, 3, got.Hour)

	now = time.Time{}
	_, err = clock.Now()
	assert.Error(t, err)
}
