// Package spiring drives the ring clock hardware directly from a Linux board:
// the ring through an NRZ encoder on an SPI port, and the buzzer, touch
// sensor and side lights through GPIO pins.
package spiring

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"libdb.so/ringclock/internal/led"
	"libdb.so/ringclock/internal/sidelight"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// Config is the configuration of the board.
type Config struct {
	// Port is the SPI port name. Empty means the first available port.
	Port string
	// Freq is the NRZ bit rate.
	Freq physic.Frequency
	// NumLEDs is the size of the ring.
	NumLEDs int
	// BuzzerPin, TouchPin and SideLightPins are GPIO pin names.
	BuzzerPin     string
	TouchPin      string
	SideLightPins [sidelight.NumChannels]string
	// PWMFreq is the PWM frequency of the side lights.
	PWMFreq physic.Frequency
}

// Pins are the GPIO pins used next to the ring.
type Pins struct {
	Buzzer     gpio.PinOut
	Touch      gpio.PinIn
	SideLights [sidelight.NumChannels]gpio.PinOut
}

// Ring is the hardware attached to the board.
type Ring struct {
	logger  *slog.Logger
	dev     *nrzled.Dev
	closer  io.Closer
	pins    Pins
	pix     led.LEDs
	pwmFreq physic.Frequency
}

// Open initializes the host drivers and opens the configured SPI port and
// pins.
func Open(cfg Config, logger *slog.Logger) (*Ring, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize host drivers")
	}

	var pins Pins
	var err error

	if pins.Buzzer, err = pinByName(cfg.BuzzerPin); err != nil {
		return nil, errors.Wrap(err, "buzzer")
	}
	if pins.Touch, err = pinByName(cfg.TouchPin); err != nil {
		return nil, errors.Wrap(err, "touch sensor")
	}
	for ch, name := range cfg.SideLightPins {
		if pins.SideLights[ch], err = pinByName(name); err != nil {
			return nil, errors.Wrapf(err, "%s side light", sidelight.Channel(ch))
		}
	}

	port, err := spireg.Open(cfg.Port)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open SPI port")
	}

	r, err := New(port, pins, cfg, logger)
	if err != nil {
		port.Close()
		return nil, err
	}
	r.closer = port

	return r, nil
}

func pinByName(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, errors.Errorf("unknown pin %q", name)
	}
	return p, nil
}

// New drives the ring through an already opened SPI port and the given pins.
// The port is not closed by Close.
func New(port spi.Port, pins Pins, cfg Config, logger *slog.Logger) (*Ring, error) {
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: cfg.NumLEDs,
		Channels:  3,
		Freq:      cfg.Freq,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create NRZ LED driver")
	}

	if err := pins.Touch.In(gpio.PullDown, gpio.NoEdge); err != nil {
		return nil, errors.Wrap(err, "failed to set up touch pin")
	}
	if err := pins.Buzzer.Out(gpio.Low); err != nil {
		return nil, errors.Wrap(err, "failed to set up buzzer pin")
	}

	logger.Debug("opened SPI ring", "device", dev.String(), "num_leds", cfg.NumLEDs)

	return &Ring{
		logger:  logger,
		dev:     dev,
		pins:    pins,
		pix:     led.NewLEDs(cfg.NumLEDs),
		pwmFreq: cfg.PWMFreq,
	}, nil
}

// WritePixel sets the i'th LED of the next frame.
func (r *Ring) WritePixel(i int, c led.RGBColor) error {
	if i < 0 || i >= r.pix.Len() {
		return errors.Errorf("LED %d out of range", i)
	}
	r.pix.Set(i, c)
	return nil
}

// ClearAll blanks the next frame.
func (r *Ring) ClearAll() error {
	r.pix.Clear()
	return nil
}

// Flush shows the frame.
func (r *Ring) Flush() error {
	_, err := r.dev.Write(r.pix.AsPixels())
	return errors.Wrap(err, "failed to write frame")
}

// SetSideLight sets the PWM duty cycle of a side light channel.
func (r *Ring) SetSideLight(ch sidelight.Channel, intensity uint8) error {
	if ch >= sidelight.NumChannels {
		return errors.Errorf("invalid side light channel %d", ch)
	}
	duty := gpio.Duty(uint64(intensity) * uint64(gpio.DutyMax) / 0xFF)
	return r.pins.SideLights[ch].PWM(duty, r.pwmFreq)
}

// Sound drives the buzzer pin high for d. It blocks until the buzzer is off
// again.
func (r *Ring) Sound(d time.Duration) (err error) {
	if err := r.pins.Buzzer.Out(gpio.High); err != nil {
		return errors.Wrap(err, "failed to turn on buzzer")
	}
	defer func() {
		if offErr := r.pins.Buzzer.Out(gpio.Low); offErr != nil && err == nil {
			err = errors.Wrap(offErr, "failed to turn off buzzer")
		}
	}()

	time.Sleep(d)
	return nil
}

// TouchLevel reads the touch sensor pin.
func (r *Ring) TouchLevel() (bool, error) {
	return r.pins.Touch.Read() == gpio.High, nil
}

// Run waits for the context to be canceled. Everything is driven
// synchronously, so there is nothing to read in the background.
func (r *Ring) Run(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// Close turns off the ring and the buzzer, and closes the SPI port if it was
// opened by Open.
func (r *Ring) Close() error {
	if err := r.dev.Halt(); err != nil {
		return errors.Wrap(err, "failed to halt ring")
	}
	if err := r.pins.Buzzer.Out(gpio.Low); err != nil {
		return errors.Wrap(err, "failed to turn off buzzer")
	}
	if r.closer != nil {
		return errors.Wrap(r.closer.Close(), "failed to close SPI port")
	}
	return nil
}
