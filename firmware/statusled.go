package firmware

import (
	"machine"

	"libdb.so/lectern/internal/led"
	"tinygo.org/x/drivers/ws2812"
)

// StatusLED is the onboard RGB LED of the XIAO RP2040.
// See https://wiki.seeedstudio.com/XIAO-RP2040-with-Arduino/.
type StatusLED struct {
	power machine.Pin
	dev   ws2812.Device
	last  led.Color
	on    bool
}

// NewStatusLED configures the onboard LED. It starts off.
func NewStatusLED() *StatusLED {
	power := machine.GPIO11
	power.Configure(machine.PinConfig{Mode: machine.PinOutput})
	power.Low()

	machine.GPIO12.Configure(machine.PinConfig{Mode: machine.PinOutput})

	return &StatusLED{
		power: power,
		dev:   ws2812.New(machine.GPIO12),
	}
}

// Set shows c, or turns the LED off if c is led.Off. Repeated calls with the
// same color do nothing.
func (s *StatusLED) Set(c led.Color) {
	if c == led.Off {
		if s.on {
			s.power.Low()
			s.on = false
		}
		return
	}

	if s.on && c == s.last {
		return
	}

	s.power.High()
	critical(func() {
		s.dev.WriteByte(c.R())
		s.dev.WriteByte(c.G())
		s.dev.WriteByte(c.B())
	})
	s.last = c
	s.on = true
}
