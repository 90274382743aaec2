package main

import (
	"machine"

	"tinygo.org/x/drivers/ws2812"
)

// The XIAO RP2040 has an onboard NeoPixel behind a power pin.
// https://wiki.seeedstudio.com/XIAO-RP2040-with-Arduino/
var (
	statusLED            ws2812.Device
	statusLEDPower       = machine.GPIO11
	statusLEDData        = machine.GPIO12
	statusLEDInitialized bool
)

func initStatusLED() {
	if statusLEDInitialized {
		return
	}

	statusLEDPower.Configure(machine.PinConfig{Mode: machine.PinOutput})
	statusLEDPower.Low()

	statusLEDData.Configure(machine.PinConfig{Mode: machine.PinOutput})
	statusLED = ws2812.New(statusLEDData)

	statusLEDInitialized = true
}

// blinkStatusLED flashes the onboard LED in the given color.
func blinkStatusLED(r, g, b uint8) {
	initStatusLED()
	statusLEDPower.High()
	writeRGB(statusLED, r, g, b)
	statusLEDPower.Low()
}
