package cadence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvery(t *testing.T) {
	t0 := time.Unix(1000, 0)
	e := Every{Period: 5 * time.Millisecond}

	assert.Equal(t, 0, e.Due(t0), "first call starts the clock")
	assert.Equal(t, 0, e.Due(t0.Add(4*time.Millisecond)))
	assert.Equal(t, 1, e.Due(t0.Add(5*time.Millisecond)))
	assert.Equal(t, 10, e.Due(t0.Add(57*time.Millisecond)))
	// The remainder of the previous call is kept.
	assert.Equal(t, 1, e.Due(t0.Add(60*time.Millisecond)))
}

func TestEveryCatchUpBound(t *testing.T) {
	t0 := time.Unix(1000, 0)
	e := Every{Period: time.Millisecond, MaxCatchUp: 20}

	e.Due(t0)
	assert.Equal(t, 20, e.Due(t0.Add(time.Second)))
	assert.Equal(t, 0, e.Due(t0.Add(time.Second)), "the skipped periods are dropped")
}

func TestEveryDisabledAndReset(t *testing.T) {
	t0 := time.Unix(1000, 0)

	var disabled Every
	disabled.Due(t0)
	assert.Equal(t, 0, disabled.Due(t0.Add(time.Hour)))

	e := Every{Period: time.Second}
	e.Due(t0)
	e.Reset()
	assert.Equal(t, 0, e.Due(t0.Add(time.Hour)))
	assert.Equal(t, 1, e.Due(t0.Add(time.Hour+time.Second)))
}
