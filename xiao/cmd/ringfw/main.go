// Command ringfw is the firmware of the Seeed XIAO RP2040 driving the ring
// clock hardware on behalf of the host daemon.
package main

import (
	"machine"
	"time"
)

// Pin assignments.
var (
	ringPin   = machine.GPIO3  // D10
	buzzerPin = machine.GPIO29 // D3
	touchPin  = machine.GPIO1  // D7

	redPin   = machine.GPIO26 // D0
	greenPin = machine.GPIO27 // D1
	bluePin  = machine.GPIO28 // D2
)

// touchPoll is how often the touch pin is sampled.
const touchPoll = 10 * time.Millisecond

func main() {
	d, err := NewDevice(machine.Serial, Pins{
		Ring:   ringPin,
		Buzzer: buzzerPin,
		Touch:  touchPin,
		SideLights: [3]SideLightPin{
			{Pin: redPin, PWM: machine.PWM5},
			{Pin: greenPin, PWM: machine.PWM5},
			{Pin: bluePin, PWM: machine.PWM6},
		},
	})
	if err != nil {
		for {
			blinkStatusLED(255, 0, 0)
		}
	}

	go d.RunBuzzer()
	go d.RunTouch(touchPoll)
	d.Run()
}
