// Package gesture turns a sampled touch line into press events.
package gesture

import "fmt"

// Event is a classified touch gesture.
type Event uint8

const (
	// None means that nothing happened this tick.
	None Event = iota
	// ShortPress is emitted on release after the line was held for at least
	// the short threshold but less than the long threshold.
	ShortPress
	// LongPress is emitted as soon as the line has been held for the long
	// threshold, without waiting for the release.
	LongPress
)

func (e Event) String() string {
	switch e {
	case None:
		return "none"
	case ShortPress:
		return "short-press"
	case LongPress:
		return "long-press"
	default:
		return fmt.Sprintf("Event(%d)", e)
	}
}

// Thresholds are the press lengths, in ticks, that classify a press.
type Thresholds struct {
	Short int
	Long  int
}

// DefaultThresholds matches a 50ms tick: 750ms for a short press and 2.5s
// for a long press.
var DefaultThresholds = Thresholds{Short: 15, Long: 50}

// Decoder debounces a raw touch level into at most one Event per physical
// press. It must be sampled exactly once per tick.
type Decoder struct {
	th    Thresholds
	count int
	fired bool
}

// NewDecoder creates a new decoder.
func NewDecoder(th Thresholds) *Decoder {
	return &Decoder{th: th}
}

// Sample feeds the touch level for the current tick into the decoder.
func (d *Decoder) Sample(raw bool) Event {
	if !raw {
		count, fired := d.count, d.fired
		d.Reset()
		if !fired && count >= d.th.Short {
			return ShortPress
		}
		return None
	}

	// Still held after a long press; wait for the release.
	if d.fired {
		return None
	}

	d.count++
	if d.count >= d.th.Long {
		d.fired = true
		return LongPress
	}
	return None
}

// Held returns the number of consecutive active ticks of the current press.
func (d *Decoder) Held() int { return d.count }

// Reset forgets the current press.
func (d *Decoder) Reset() {
	d.count = 0
	d.fired = false
}
