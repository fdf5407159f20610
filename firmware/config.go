// Package firmware holds the board support shared by the lectern's
// XIAO RP2040 programs.
package firmware

import "machine"

// NumLEDs is the number of LEDs on the lectern strip.
const NumLEDs = 39

var (
	// StripPin drives the WS2812 data line.
	StripPin = machine.D10
	// WinPin, LosePin and WarningPin are the trigger buttons. They are
	// wired to ground and pulled up.
	WinPin     = machine.D1
	LosePin    = machine.D2
	WarningPin = machine.D3
)
