package firmware

import (
	"machine"
	"time"

	"libdb.so/lectern/firmware/debounce"
)

// Button is an active-low push button.
type Button struct {
	pin machine.Pin
	deb *debounce.Debouncer
}

// NewButton configures pin with a pull-up.
func NewButton(pin machine.Pin) *Button {
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return &Button{
		pin: pin,
		deb: debounce.New(20 * time.Millisecond),
	}
}

// Pressed polls the button and reports a new press.
func (b *Button) Pressed(now time.Duration) bool {
	return b.deb.Update(!b.pin.Get(), now)
}
