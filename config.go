package ringclock

import (
	"encoding"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"libdb.so/ringclock/internal/clockface"
	"libdb.so/ringclock/internal/gesture"
	"libdb.so/ringclock/internal/led"
	"libdb.so/ringclock/internal/pattern"
	"libdb.so/ringclock/internal/sidelight"
	"libdb.so/ringclock/internal/timer"
)

// Driver is the hardware driver used to reach the ring.
type Driver string

const (
	// SerialDriver talks to a microcontroller over a serial port using the
	// ledserial protocol.
	SerialDriver Driver = "serial"
	// SPIDriver drives the ring directly over SPI and the rest of the
	// hardware over GPIO.
	SPIDriver Driver = "spi"
)

// Config is the configuration for the ring clock.
type Config struct {
	// Driver is the hardware driver to use. It defaults to serial.
	Driver Driver `toml:"driver" yaml:"driver"`
	// Device is the path to the device file of the serial driver.
	// This is usually /dev/ttyUSB0 or /dev/ttyACM0.
	Device string `toml:"device" yaml:"device"`
	// Baud is the baud rate for the serial connection.
	Baud int `toml:"baud" yaml:"baud"`
	// Tick is the period of the control loop. All durations below are
	// rounded to a whole number of ticks.
	Tick TOMLDuration `toml:"tick" yaml:"tick"`
	// RingSize is the number of LEDs in the ring.
	RingSize int `toml:"ring_size" yaml:"ring_size"`
	// Timezone is the IANA time zone of the clock. If empty, UTCOffset is
	// used instead.
	Timezone string `toml:"timezone" yaml:"timezone"`
	// UTCOffset is a fixed offset from UTC.
	UTCOffset TOMLDuration `toml:"utc_offset" yaml:"utc_offset"`
	// Brightness is the master brightness of the ring, out of 255. It
	// defaults to 45.
	Brightness uint8 `toml:"brightness" yaml:"brightness"`

	Touch     TouchConfig     `toml:"touch" yaml:"touch"`
	Clock     ClockConfig     `toml:"clock" yaml:"clock"`
	Timer     TimerConfig     `toml:"timer" yaml:"timer"`
	Wipe      WipeConfig      `toml:"wipe" yaml:"wipe"`
	Ambient   AmbientConfig   `toml:"ambient" yaml:"ambient"`
	SideLight SideLightConfig `toml:"side_light" yaml:"side_light"`
	SPI       SPIConfig       `toml:"spi" yaml:"spi"`
}

// TouchConfig is the configuration for gesture decoding.
type TouchConfig struct {
	// Short is how long the sensor must be held for a short press.
	Short TOMLDuration `toml:"short" yaml:"short"`
	// Long is how long the sensor must be held for a long press.
	Long TOMLDuration `toml:"long" yaml:"long"`
	// ConfirmBeep is the length of the beep confirming a long press.
	ConfirmBeep TOMLDuration `toml:"confirm_beep" yaml:"confirm_beep"`
}

// ClockConfig is the configuration for the clock face.
type ClockConfig struct {
	Hour         *led.RGBColor `toml:"hour,omitempty" yaml:"hour,omitempty"`
	HourNeighbor *led.RGBColor `toml:"hour_neighbor,omitempty" yaml:"hour_neighbor,omitempty"`
	Minute       *led.RGBColor `toml:"minute,omitempty" yaml:"minute,omitempty"`
	MinuteTrail  *led.RGBColor `toml:"minute_trail,omitempty" yaml:"minute_trail,omitempty"`
	Second       *led.RGBColor `toml:"second,omitempty" yaml:"second,omitempty"`
}

// TimerConfig is the configuration for the countdown timer.
type TimerConfig struct {
	// Preset is the duration in minutes shown when the timer is entered.
	Preset *int `toml:"preset,omitempty" yaml:"preset,omitempty"`
	// Dwell is how long to wait after the last short press before the
	// countdown starts.
	Dwell TOMLDuration `toml:"dwell" yaml:"dwell"`
	// Second is the length of one countdown second. It exists for testing
	// and demonstrations.
	Second TOMLDuration `toml:"second" yaml:"second"`
	// MinuteColor is the color of the minute fill.
	MinuteColor *led.RGBColor `toml:"minute_color,omitempty" yaml:"minute_color,omitempty"`
	// SecondColor is the color added for the seconds.
	SecondColor *led.RGBColor `toml:"second_color,omitempty" yaml:"second_color,omitempty"`

	Alarm AlarmConfig `toml:"alarm" yaml:"alarm"`
}

// AlarmConfig is the configuration for the buzzer pattern of an expired
// timer.
type AlarmConfig struct {
	Repeats   int          `toml:"repeats" yaml:"repeats"`
	Pulses    int          `toml:"pulses" yaml:"pulses"`
	Pulse     TOMLDuration `toml:"pulse" yaml:"pulse"`
	PulseGap  TOMLDuration `toml:"pulse_gap" yaml:"pulse_gap"`
	RepeatGap TOMLDuration `toml:"repeat_gap" yaml:"repeat_gap"`
}

// WipeConfig is the configuration for the mode transition animation.
type WipeConfig struct {
	// PixelsPerTick is how many LEDs the wipe advances per tick.
	PixelsPerTick int `toml:"pixels_per_tick" yaml:"pixels_per_tick"`
	// HueStep is the hue increment per LED.
	HueStep uint8 `toml:"hue_step" yaml:"hue_step"`
	// Fade is the scale applied to the whole ring after each LED.
	Fade uint8 `toml:"fade" yaml:"fade"`
}

// AmbientConfig is the configuration for the ambient patterns.
type AmbientConfig struct {
	// Pattern is the pattern shown when ambient mode is first entered.
	Pattern string `toml:"pattern" yaml:"pattern"`
	// Palette is the palette used by palette patterns.
	Palette string `toml:"palette" yaml:"palette"`
	// Cycle is how often to advance to the next pattern. Zero disables it.
	Cycle TOMLDuration `toml:"cycle" yaml:"cycle"`
	// PaletteCycle is how often to advance to the next palette. Zero
	// disables it.
	PaletteCycle TOMLDuration `toml:"palette_cycle" yaml:"palette_cycle"`
	// HuePeriod is how often the rotating hue is incremented.
	HuePeriod TOMLDuration `toml:"hue_period" yaml:"hue_period"`
	// Speed is the beats per minute of the oscillating patterns.
	Speed uint16 `toml:"speed" yaml:"speed"`
	// RainbowArc is the fraction of a hue cycle spread across the ring by
	// the rainbow patterns.
	RainbowArc float64 `toml:"rainbow_arc" yaml:"rainbow_arc"`
	// Seed seeds the sparkle patterns. Zero seeds from the clock.
	Seed int64 `toml:"seed" yaml:"seed"`
}

// SideLightConfig is the configuration for the breathing side lights.
type SideLightConfig struct {
	// Disabled turns the side lights off.
	Disabled bool `toml:"disabled" yaml:"disabled"`
	// Period is the time between two breathing steps.
	Period TOMLDuration `toml:"period" yaml:"period"`
	// Step is the duty cycle change per step.
	Step uint8 `toml:"step" yaml:"step"`
	// Peak is the duty cycle at the top of a breath.
	Peak uint8 `toml:"peak" yaml:"peak"`
	// ActiveHigh is true if the side lights are wired active high.
	ActiveHigh bool `toml:"active_high" yaml:"active_high"`
	// FollowAmbient makes the side lights show the color of the ambient
	// pattern instead of breathing, for the patterns that pick one.
	FollowAmbient bool `toml:"follow_ambient" yaml:"follow_ambient"`
}

// SPIConfig is the configuration for the spi driver.
type SPIConfig struct {
	// Port is the SPI port name. Empty means the first available port.
	Port string `toml:"port" yaml:"port"`
	// Freq is the NRZ bit rate in Hz.
	Freq int64 `toml:"freq" yaml:"freq"`
	// BuzzerPin is the GPIO pin of the buzzer.
	BuzzerPin string `toml:"buzzer_pin" yaml:"buzzer_pin"`
	// TouchPin is the GPIO pin of the touch sensor.
	TouchPin string `toml:"touch_pin" yaml:"touch_pin"`
	// SideLightPins are the red, green and blue PWM pins.
	SideLightPins [3]string `toml:"side_light_pins" yaml:"side_light_pins"`
	// PWMFreq is the PWM frequency of the side lights in Hz.
	PWMFreq int64 `toml:"pwm_freq" yaml:"pwm_freq"`
}

// DefaultConfig returns a configuration with every default filled in.
func DefaultConfig() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

func (c *Config) setDefaults() {
	setDefault(&c.Driver, SerialDriver)
	setDefault(&c.Device, "/dev/ttyACM0")
	setDefault(&c.Baud, 115200)
	setDefault(&c.Tick, TOMLDuration(50*time.Millisecond))
	setDefault(&c.RingSize, 60)
	setDefault(&c.Brightness, 45)

	setDefault(&c.Touch.Short, TOMLDuration(750*time.Millisecond))
	setDefault(&c.Touch.Long, TOMLDuration(2500*time.Millisecond))
	setDefault(&c.Touch.ConfirmBeep, TOMLDuration(200*time.Millisecond))

	setDefault(&c.Timer.Dwell, TOMLDuration(5*time.Second))
	setDefault(&c.Timer.Second, TOMLDuration(time.Second))
	setDefault(&c.Timer.Alarm.Repeats, timer.DefaultAlarm.Repeats)
	setDefault(&c.Timer.Alarm.Pulses, timer.DefaultAlarm.Pulses)
	setDefault(&c.Timer.Alarm.Pulse, TOMLDuration(timer.DefaultAlarm.Pulse))
	setDefault(&c.Timer.Alarm.PulseGap, TOMLDuration(100*time.Millisecond))
	setDefault(&c.Timer.Alarm.RepeatGap, TOMLDuration(500*time.Millisecond))
	if c.Timer.Preset == nil {
		preset := timer.DefaultConfig.Preset
		c.Timer.Preset = &preset
	}

	setDefault(&c.Wipe.PixelsPerTick, 2)
	setDefault(&c.Wipe.HueStep, 4)
	setDefault(&c.Wipe.Fade, 250)

	setDefault(&c.Ambient.Pattern, "spin")
	setDefault(&c.Ambient.Palette, "rainbow")
	setDefault(&c.Ambient.HuePeriod, TOMLDuration(5*time.Millisecond))
	setDefault(&c.Ambient.Speed, 62)
	setDefault(&c.Ambient.RainbowArc, pattern.DefaultArc)

	setDefault(&c.SideLight.Period, TOMLDuration(5*time.Millisecond))
	setDefault(&c.SideLight.Step, sidelight.DefaultConfig.Step)
	setDefault(&c.SideLight.Peak, sidelight.DefaultConfig.Peak)

	setDefault(&c.SPI.Freq, 2_500_000)
	setDefault(&c.SPI.BuzzerPin, "GPIO17")
	setDefault(&c.SPI.TouchPin, "GPIO27")
	setDefault(&c.SPI.SideLightPins, [3]string{"GPIO12", "GPIO13", "GPIO19"})
	setDefault(&c.SPI.PWMFreq, 1000)
}

func setDefault[T comparable](v *T, def T) {
	var zero T
	if *v == zero {
		*v = def
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Driver {
	case SerialDriver:
		if c.Device == "" {
			return errors.New("serial driver requires a device")
		}
		if c.Baud <= 0 {
			return fmt.Errorf("invalid baud rate %d", c.Baud)
		}
	case SPIDriver:
		if c.SPI.Freq <= 0 {
			return fmt.Errorf("invalid SPI frequency %d", c.SPI.Freq)
		}
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}

	if c.RingSize <= 0 || c.RingSize > math.MaxUint16 {
		return fmt.Errorf("invalid ring size %d", c.RingSize)
	}
	if c.Tick <= 0 {
		return errors.New("tick must be positive")
	}

	th := c.Thresholds()
	if th.Short >= th.Long {
		return fmt.Errorf(
			"short press (%s) must be shorter than long press (%s)",
			c.Touch.Short, c.Touch.Long)
	}

	if c.Timer.Preset != nil && (*c.Timer.Preset < 0 || *c.Timer.Preset >= timer.MaxMinutes) {
		return fmt.Errorf("timer preset must be within [0, %d) minutes", timer.MaxMinutes)
	}
	if c.Timer.Alarm.Repeats < 0 || c.Timer.Alarm.Pulses < 0 {
		return errors.New("alarm repeats and pulses must not be negative")
	}

	if c.Wipe.PixelsPerTick <= 0 {
		return errors.New("wipe pixels per tick must be positive")
	}

	if _, err := led.PaletteByName(c.Ambient.Palette); err != nil {
		return errors.Wrap(err, "invalid ambient palette")
	}
	if _, ok := pattern.NewLibrary(c.Ambient.RainbowArc).Index(c.Ambient.Pattern); !ok {
		return fmt.Errorf("unknown ambient pattern %q", c.Ambient.Pattern)
	}
	if c.Ambient.RainbowArc <= 0 {
		return errors.New("rainbow arc must be positive")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// Location returns the time zone of the clock.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone != "" {
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid timezone %q", c.Timezone)
		}
		return loc, nil
	}
	if c.UTCOffset == 0 {
		return time.UTC, nil
	}
	return time.FixedZone("", int(time.Duration(c.UTCOffset).Seconds())), nil
}

// Ticks converts a duration into a whole number of ticks, rounding to the
// nearest tick. A positive duration is always at least one tick.
func (c *Config) Ticks(d TOMLDuration) int {
	if d <= 0 || c.Tick <= 0 {
		return 0
	}
	n := int((d + c.Tick/2) / c.Tick)
	return max(n, 1)
}

// Thresholds returns the gesture thresholds in ticks.
func (c *Config) Thresholds() gesture.Thresholds {
	return gesture.Thresholds{
		Short: c.Ticks(c.Touch.Short),
		Long:  c.Ticks(c.Touch.Long),
	}
}

// ClockColors returns the colors of the clock hands.
func (c *Config) ClockColors() clockface.Colors {
	def := clockface.DefaultColors
	return clockface.Colors{
		Hour:         colorOr(c.Clock.Hour, def.Hour),
		HourNeighbor: colorOr(c.Clock.HourNeighbor, def.HourNeighbor),
		Minute:       colorOr(c.Clock.Minute, def.Minute),
		MinuteTrail:  colorOr(c.Clock.MinuteTrail, def.MinuteTrail),
		Second:       colorOr(c.Clock.Second, def.Second),
	}
}

// TimerConfig returns the timer configuration in ticks.
func (c *Config) TimerConfig() timer.Config {
	preset := timer.DefaultConfig.Preset
	if c.Timer.Preset != nil {
		preset = *c.Timer.Preset
	}
	return timer.Config{
		Preset: preset,
		Dwell:  c.Ticks(c.Timer.Dwell),
		Second: c.Ticks(c.Timer.Second),
		Alarm: timer.Alarm{
			Repeats:   c.Timer.Alarm.Repeats,
			Pulses:    c.Timer.Alarm.Pulses,
			Pulse:     time.Duration(c.Timer.Alarm.Pulse),
			PulseGap:  c.Ticks(c.Timer.Alarm.PulseGap),
			RepeatGap: c.Ticks(c.Timer.Alarm.RepeatGap),
		},
		Colors: timer.BarColors{
			Minute: colorOr(c.Timer.MinuteColor, timer.DefaultBarColors.Minute),
			Second: colorOr(c.Timer.SecondColor, timer.DefaultBarColors.Second),
		},
	}
}

// SideLightConfig returns the breathing configuration of the side lights.
func (c *Config) SideLightConfig() sidelight.Config {
	return sidelight.Config{
		Step:       c.SideLight.Step,
		Peak:       c.SideLight.Peak,
		ActiveHigh: c.SideLight.ActiveHigh,
	}
}

func colorOr(c *led.RGBColor, def led.RGBColor) led.RGBColor {
	if c == nil {
		return def
	}
	return *c
}

// TOMLDuration is a duration that can be parsed from TOML or YAML.
type TOMLDuration time.Duration

var (
	_ encoding.TextUnmarshaler = (*TOMLDuration)(nil)
	_ encoding.TextMarshaler   = (*TOMLDuration)(nil)
)

func (d *TOMLDuration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = TOMLDuration(duration)
	return nil
}

func (d TOMLDuration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d TOMLDuration) String() string {
	return time.Duration(d).String()
}

// ParseConfig parses a TOML configuration from a reader. Defaults are filled
// in for every unset field.
func ParseConfig(r io.Reader) (*Config, error) {
	var config Config
	if err := toml.NewDecoder(r).Decode(&config); err != nil {
		return nil, err
	}
	config.setDefaults()
	return &config, nil
}

// ParseYAMLConfig parses a YAML configuration from a reader. Defaults are
// filled in for every unset field.
func ParseYAMLConfig(r io.Reader) (*Config, error) {
	var config Config
	if err := yaml.NewDecoder(r).Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	config.setDefaults()
	return &config, nil
}

// LoadConfig reads the configuration file at the given path. Files ending in
// .yaml or .yml are parsed as YAML, everything else as TOML.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open config file")
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAMLConfig(f)
	default:
		return ParseConfig(f)
	}
}
