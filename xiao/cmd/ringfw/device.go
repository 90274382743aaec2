package main

import (
	"fmt"
	"machine"
	"sync"
	"time"

	"libdb.so/ringclock/ledserial"
	"tinygo.org/x/drivers/ws2812"
)

// PWM is a PWM slice of the RP2040.
type PWM interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Set(channel uint8, value uint32)
	Top() uint32
}

// SideLightPin is a side light output and the PWM slice behind it.
type SideLightPin struct {
	Pin machine.Pin
	PWM PWM
}

// Pins are the pins of the ring clock hardware.
type Pins struct {
	Ring       machine.Pin
	Buzzer     machine.Pin
	Touch      machine.Pin
	SideLights [3]SideLightPin
}

type sideLight struct {
	pwm PWM
	ch  uint8
}

// Device stores the current state of the device.
type Device struct {
	serial  SerialReadWriter
	writeMu sync.Mutex

	ring    ws2812.Device
	numLEDs uint16
	buzzer  machine.Pin
	buzz    chan time.Duration
	touch   machine.Pin
	side    [3]sideLight
}

// NewDevice configures the pins and creates a new device.
func NewDevice(serial machine.Serialer, pins Pins) (*Device, error) {
	pins.Ring.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pins.Buzzer.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pins.Buzzer.Low()
	pins.Touch.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})

	d := &Device{
		serial: WrapSerial(serial),
		ring:   ws2812.New(pins.Ring),
		buzzer: pins.Buzzer,
		buzz:   make(chan time.Duration, 1),
		touch:  pins.Touch,
	}

	for i, sl := range pins.SideLights {
		if err := sl.PWM.Configure(machine.PWMConfig{Period: uint64(time.Millisecond)}); err != nil {
			return nil, fmt.Errorf("failed to configure side light %d: %w", i, err)
		}
		ch, err := sl.PWM.Channel(sl.Pin)
		if err != nil {
			return nil, fmt.Errorf("failed to get PWM channel of side light %d: %w", i, err)
		}
		d.side[i] = sideLight{pwm: sl.PWM, ch: ch}
	}

	return d, nil
}

// Run runs the device loop forever.
func (d *Device) Run() {
	for {
		p, err := d.readPacket()
		if err != nil {
			d.logError(err)
			continue
		}

		if err := d.handlePacket(p); err != nil {
			d.logError(err)
		}
	}
}

// RunBuzzer sounds the buzzer for every requested duration. It never
// returns.
func (d *Device) RunBuzzer() {
	for duration := range d.buzz {
		d.buzzer.High()
		time.Sleep(duration)
		d.buzzer.Low()
	}
}

// RunTouch reports every change of the touch pin to the host. It never
// returns.
func (d *Device) RunTouch(poll time.Duration) {
	last := false
	d.sendPacket(ledserial.TouchPacket{Active: last})

	for {
		if level := d.touch.Get(); level != last {
			last = level
			d.sendPacket(ledserial.TouchPacket{Active: level})
		}
		time.Sleep(poll)
	}
}

func (d *Device) logError(err error) {
	d.sendPacket(ledserial.ErrorPacket{Message: err.Error()})
}

func (d *Device) sendPacket(p ledserial.OutgoingPacket) {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	ledserial.WriteOutgoingPacket(d.serial, p)
}

func (d *Device) readPacket() (ledserial.IncomingPacket, error) {
	p, err := ledserial.ReadIncomingPacket(d.serial, ledserial.ReadContext{
		NumLEDs: d.numLEDs,
	})
	if err == nil {
		blinkStatusLED(0, 0, 32)
	}
	return p, err
}

func (d *Device) handlePacket(p ledserial.IncomingPacket) error {
	switch p := p.(type) {
	case ledserial.InitializePacket:
		if p.NumLEDs < 1 {
			return fmt.Errorf("invalid number of LEDs: %d", p.NumLEDs)
		}
		d.numLEDs = p.NumLEDs
		d.clearRing()

	case ledserial.ClearPacket:
		d.clearRing()

	case ledserial.SetPacket:
		for i := 0; i+2 < len(p.Pix); i += 3 {
			writeRGB(d.ring, p.Pix[i], p.Pix[i+1], p.Pix[i+2])
		}

	case ledserial.SideLightPacket:
		if int(p.Channel) >= len(d.side) {
			return fmt.Errorf("invalid side light channel: %d", p.Channel)
		}
		sl := d.side[p.Channel]
		sl.pwm.Set(sl.ch, sl.pwm.Top()*uint32(p.Level)/0xFF)

	case ledserial.BuzzPacket:
		select {
		case d.buzz <- time.Duration(p.DurationMs) * time.Millisecond:
		default:
			// Already beeping; drop it.
		}

	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	d.sendPacket(ledserial.AckPacket{
		IncomingPacketType: p.Type(),
	})
	return nil
}

func (d *Device) clearRing() {
	for i := 0; i < int(d.numLEDs); i++ {
		writeRGB(d.ring, 0, 0, 0)
	}
}

// writeRGB writes one pixel. WS2812 LEDs take green first.
func writeRGB(led ws2812.Device, r, g, b uint8) {
	led.WriteByte(g)
	led.WriteByte(r)
	led.WriteByte(b)
}
