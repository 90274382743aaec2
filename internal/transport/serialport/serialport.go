// Package serialport drives the ring clock hardware through a
// microcontroller on a serial port, speaking the ledserial protocol.
package serialport

import (
	"io"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"libdb.so/ringclock/internal/led"
	"libdb.so/ringclock/internal/sidelight"
	"libdb.so/ringclock/ledserial"
)

// Backoff bounds between reads that hit the end of the stream.
const (
	minEOFBackoff = time.Millisecond
	maxEOFBackoff = 250 * time.Millisecond
)

// Config is the configuration of a serial port.
type Config struct {
	// Device is the path to the serial device.
	Device string
	// Baud is the baud rate.
	Baud int
	// NumLEDs is the size of the ring.
	NumLEDs int
}

// Port is the hardware behind a serial port. Drawing methods are meant to be
// called from one goroutine while Run reads from another.
type Port struct {
	conn   io.ReadWriteCloser
	logger *slog.Logger
	pix    led.LEDs

	writeMu sync.Mutex
	touched atomic.Bool
	closed  atomic.Bool
}

// Open opens the serial device and initializes the microcontroller.
func Open(cfg Config, logger *slog.Logger) (*Port, error) {
	port, err := serial.Open(cfg.Device, &serial.Mode{
		BaudRate: cfg.Baud,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open serial port")
	}

	if err := port.SetReadTimeout(serial.NoTimeout); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "failed to reset read timeout")
	}

	p, err := New(port, cfg.NumLEDs, logger)
	if err != nil {
		port.Close()
		return nil, err
	}

	return p, nil
}

// New wraps an already open connection and initializes the microcontroller
// on the other end.
func New(conn io.ReadWriteCloser, numLEDs int, logger *slog.Logger) (*Port, error) {
	if numLEDs < 1 || numLEDs > math.MaxUint16 {
		return nil, errors.Errorf("invalid number of LEDs %d", numLEDs)
	}

	p := &Port{
		conn:   conn,
		logger: logger,
		pix:    led.NewLEDs(numLEDs),
	}

	logger.Debug("sending initialize packet", "num_leds", numLEDs)
	if err := p.writePacket(ledserial.InitializePacket{NumLEDs: uint16(numLEDs)}); err != nil {
		return nil, errors.Wrap(err, "failed to initialize LEDs")
	}

	return p, nil
}

// Close closes the serial connection, which also stops Run.
func (p *Port) Close() error {
	p.closed.Store(true)
	return p.conn.Close()
}

// WritePixel sets the i'th LED of the next frame.
func (p *Port) WritePixel(i int, c led.RGBColor) error {
	if i < 0 || i >= p.pix.Len() {
		return errors.Errorf("LED %d out of range", i)
	}
	p.pix.Set(i, c)
	return nil
}

// ClearAll blanks the next frame.
func (p *Port) ClearAll() error {
	p.pix.Clear()
	return nil
}

// Flush sends the frame to the microcontroller. An all black frame is sent
// as a clear packet.
func (p *Port) Flush() error {
	for _, c := range p.pix {
		if !c.IsBlack() {
			return p.writePacket(ledserial.SetPacket{Pix: p.pix.AsPixels()})
		}
	}
	return p.writePacket(ledserial.ClearPacket{})
}

// SetSideLight sets the PWM level of a side light channel.
func (p *Port) SetSideLight(ch sidelight.Channel, intensity uint8) error {
	return p.writePacket(ledserial.SideLightPacket{
		Channel: uint8(ch),
		Level:   intensity,
	})
}

// Sound asks the microcontroller to sound the buzzer for d. It returns
// without waiting for the beep to end.
func (p *Port) Sound(d time.Duration) error {
	ms := d.Milliseconds()
	if ms <= 0 {
		return nil
	}
	return p.writePacket(ledserial.BuzzPacket{
		DurationMs: uint16(min(ms, math.MaxUint16)),
	})
}

// TouchLevel returns the last touch level reported by the microcontroller.
func (p *Port) TouchLevel() (bool, error) {
	if p.closed.Load() {
		return false, errors.New("serial port closed")
	}
	return p.touched.Load(), nil
}

// Run reads packets from the microcontroller until the connection is closed
// or the microcontroller panics.
func (p *Port) Run() error {
	var backoff time.Duration
	for {
		pkt, err := ledserial.ReadOutgoingPacket(p.conn)
		if err != nil {
			if p.closed.Load() {
				return nil
			}
			// A short read indicates a timeout, but a device that went away
			// reads EOF forever. Back off until packets flow again.
			if errors.Is(err, io.EOF) {
				backoff = min(max(2*backoff, minEOFBackoff), maxEOFBackoff)
				time.Sleep(backoff)
				continue
			}
			return errors.Wrap(err, "failed to read packet")
		}
		backoff = 0

		if err := p.handlePacket(pkt); err != nil {
			return err
		}
	}
}

func (p *Port) handlePacket(pkt ledserial.OutgoingPacket) error {
	switch pkt := pkt.(type) {
	case ledserial.AckPacket:
		p.logger.Debug(
			"received ack packet from controller",
			"acked_for", pkt.IncomingPacketType)

	case ledserial.TouchPacket:
		p.logger.Debug(
			"received touch packet from controller",
			"active", pkt.Active)
		p.touched.Store(pkt.Active)

	case ledserial.ErrorPacket:
		p.logger.Warn(
			"received error packet from controller",
			"message", pkt.Message)

	case ledserial.PanicPacket:
		p.logger.Error("controller unrecoverably panicked")
		return errors.New("controller panicked")

	case ledserial.LogPacket:
		p.logger.Info(
			"received log packet from controller",
			"message", pkt.Message)

	default:
		return errors.Errorf("received unknown packet from controller: %s", pkt.Type())
	}

	return nil
}

func (p *Port) writePacket(pkt ledserial.IncomingPacket) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.logger.Debug(
		"writing packet",
		"type", pkt.Type())

	if err := ledserial.WriteIncomingPacket(p.conn, pkt); err != nil {
		return errors.Wrapf(err, "failed to write %s packet", pkt.Type())
	}

	return nil
}
