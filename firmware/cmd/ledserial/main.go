// Command ledserial turns the board into an LED controller driven by the
// host over USB serial.
package main

import (
	"machine"

	"libdb.so/lectern/firmware"
)

func main() {
	d := NewDevice(machine.Serial, firmware.StripPin)
	d.Run()
}
