// Package ringclock is a clock, countdown timer and ambient light built from
// a ring of addressable LEDs and a single touch sensor. Long presses cycle
// through the modes; short presses dial in the timer.
package ringclock

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"libdb.so/ringclock/internal/transport/serialport"
	"libdb.so/ringclock/internal/transport/spiring"
	"periph.io/x/conn/v3/physic"
)

// driver is the hardware behind one of the configured drivers.
type driver interface {
	Strip
	SideLight
	Buzzer
	TouchSensor
	Close() error
}

// Daemon is the main ring clock daemon.
type Daemon struct {
	cfg    *Config
	logger *slog.Logger
}

// NewDaemon creates a new ring clock daemon.
func NewDaemon(cfg *Config, logger *slog.Logger) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &Daemon{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Run opens the hardware and runs the clock. It blocks until the given
// context is canceled or the hardware fails.
func (d *Daemon) Run(ctx context.Context) error {
	loc, err := d.cfg.Location()
	if err != nil {
		return err
	}

	drv, readLoop, err := d.openDriver()
	if err != nil {
		return err
	}

	return d.run(ctx, drv, readLoop, &SystemClock{Location: loc})
}

// run drives the opened hardware until ctx is canceled. The driver is closed
// only once the controller has stopped, so no frame is written after the
// ring was turned off. Closing the driver also stops the read loop.
func (d *Daemon) run(ctx context.Context, drv driver, readLoop func(context.Context) error, clock TimeSource) error {
	ctrl, err := NewController(d.cfg, Hardware{
		Strip:     drv,
		SideLight: drv,
		Buzzer:    drv,
		Touch:     drv,
		Time:      clock,
	}, d.logger)
	if err != nil {
		drv.Close()
		return errors.Wrap(err, "failed to create controller")
	}

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		return readLoop(ctx)
	})
	errg.Go(func() error {
		runErr := ctrl.Run(ctx)

		d.logger.Debug("closing driver", "driver", d.cfg.Driver)
		if err := drv.Close(); err != nil {
			return errors.Wrap(err, "failed to close driver")
		}
		return runErr
	})

	return errg.Wait()
}

func (d *Daemon) openDriver() (driver, func(context.Context) error, error) {
	logger := d.logger.With("driver", d.cfg.Driver)

	switch d.cfg.Driver {
	case SerialDriver:
		port, err := serialport.Open(serialport.Config{
			Device:  d.cfg.Device,
			Baud:    d.cfg.Baud,
			NumLEDs: d.cfg.RingSize,
		}, logger)
		if err != nil {
			return nil, nil, err
		}

		readLoop := func(ctx context.Context) error {
			if err := port.Run(); err != nil {
				return err
			}
			return ctx.Err()
		}

		return port, readLoop, nil

	case SPIDriver:
		ring, err := spiring.Open(spiring.Config{
			Port:          d.cfg.SPI.Port,
			Freq:          physic.Frequency(d.cfg.SPI.Freq) * physic.Hertz,
			NumLEDs:       d.cfg.RingSize,
			BuzzerPin:     d.cfg.SPI.BuzzerPin,
			TouchPin:      d.cfg.SPI.TouchPin,
			SideLightPins: d.cfg.SPI.SideLightPins,
			PWMFreq:       physic.Frequency(d.cfg.SPI.PWMFreq) * physic.Hertz,
		}, logger)
		if err != nil {
			return nil, nil, err
		}

		return ring, ring.Run, nil

	default:
		return nil, nil, errors.Errorf("unknown driver %q", d.cfg.Driver)
	}
}
