package ringclock

import (
	"time"

	"github.com/pkg/errors"
	"libdb.so/ringclock/internal/clockface"
	"libdb.so/ringclock/internal/led"
	"libdb.so/ringclock/internal/sidelight"
)

// Strip is the LED ring. A frame only becomes visible on Flush.
type Strip interface {
	// WritePixel sets the color of the i'th LED.
	WritePixel(i int, c led.RGBColor) error
	// ClearAll sets every LED to black.
	ClearAll() error
	// Flush shows the written frame.
	Flush() error
}

// SideLight is the three auxiliary PWM lights.
type SideLight interface {
	sidelight.Writer
}

// Buzzer is the alarm buzzer.
type Buzzer interface {
	// Sound turns the buzzer on for d. The buzzer is off again once the
	// duration elapses, even if Sound returns early.
	Sound(d time.Duration) error
}

// TouchSensor is the capacitive touch input.
type TouchSensor interface {
	// TouchLevel returns true while the sensor is touched.
	TouchLevel() (bool, error)
}

// TimeSource returns the time of day to show on the clock face.
type TimeSource interface {
	Now() (clockface.Time, error)
}

// Hardware bundles everything the controller drives.
type Hardware struct {
	Strip     Strip
	SideLight SideLight // optional
	Buzzer    Buzzer
	Touch     TouchSensor
	Time      TimeSource
}

func (hw Hardware) validate() error {
	switch {
	case hw.Strip == nil:
		return errors.New("missing LED strip")
	case hw.Buzzer == nil:
		return errors.New("missing buzzer")
	case hw.Touch == nil:
		return errors.New("missing touch sensor")
	case hw.Time == nil:
		return errors.New("missing time source")
	}
	return nil
}

// SystemClock is a TimeSource reading the system clock, which is expected
// to be kept in sync by the operating system.
type SystemClock struct {
	// Location is the time zone of the clock. Nil means UTC.
	Location *time.Location
	// NowFunc overrides time.Now if not nil.
	NowFunc func() time.Time
}

var _ TimeSource = (*SystemClock)(nil)

// Now returns the current time of day.
func (c *SystemClock) Now() (clockface.Time, error) {
	now := time.Now
	if c.NowFunc != nil {
		now = c.NowFunc
	}

	t := now()
	if t.IsZero() {
		return clockface.Time{}, errors.New("clock not set")
	}

	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)

	return clockface.Time{
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}, nil
}
