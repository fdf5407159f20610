package firmware

import (
	"image/color"
	"machine"
	"runtime/interrupt"

	"libdb.so/lectern/internal/led"
	"tinygo.org/x/drivers/ws2812"
)

// Strip is a WS2812 strip. The white channel is dropped.
type Strip struct {
	dev ws2812.Device
	buf []color.RGBA
}

var _ led.Device = (*Strip)(nil)

// NewStrip creates a strip on the given data pin.
func NewStrip(pin machine.Pin) *Strip {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &Strip{dev: ws2812.New(pin)}
}

// Show implements led.Device.
func (s *Strip) Show(leds led.LEDs) error {
	if cap(s.buf) < len(leds) {
		s.buf = make([]color.RGBA, len(leds))
	}
	s.buf = s.buf[:len(leds)]

	for i, c := range leds {
		s.buf[i] = color.RGBA{R: c.R(), G: c.G(), B: c.B(), A: 0xFF}
	}

	var err error
	critical(func() { err = s.dev.WriteColors(s.buf) })
	return err
}

// critical runs f with interrupts disabled. WS2812 timing does not survive
// being interrupted.
func critical(f func()) {
	state := interrupt.Disable()
	f()
	interrupt.Restore(state)
}
