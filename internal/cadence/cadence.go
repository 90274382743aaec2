// Package cadence runs periodic work from a tick loop whose period is
// unrelated to the work's period.
package cadence

import "time"

// Every fires once per Period of monotonic time. It is polled from the tick
// loop instead of running on its own timer, so the work it guards never runs
// concurrently with a tick.
type Every struct {
	// Period is the firing period. A zero or negative period never fires.
	Period time.Duration
	// MaxCatchUp bounds how many periods are reported at once after a long
	// stall. Zero means no bound.
	MaxCatchUp int

	last    time.Time
	started bool
}

// Due returns the number of whole periods that elapsed since the last time
// Due fired. The first call only starts the clock and returns 0.
func (e *Every) Due(now time.Time) int {
	if e.Period <= 0 {
		return 0
	}
	if !e.started {
		e.started = true
		e.last = now
		return 0
	}

	elapsed := now.Sub(e.last)
	if elapsed < e.Period {
		return 0
	}

	n := int(elapsed / e.Period)
	e.last = e.last.Add(time.Duration(n) * e.Period)

	if e.MaxCatchUp > 0 && n > e.MaxCatchUp {
		n = e.MaxCatchUp
	}
	return n
}

// Reset restarts the clock on the next call to Due.
func (e *Every) Reset() {
	e.started = false
}
