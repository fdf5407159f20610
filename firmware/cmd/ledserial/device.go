package main

import (
	"fmt"
	"machine"

	"libdb.so/lectern/firmware"
	"libdb.so/lectern/internal/led"
	"libdb.so/lectern/ledserial"
)

// Device stores the current state of the device.
type Device struct {
	serial firmware.SerialReadWriter
	strip  *firmware.Strip
	status *firmware.StatusLED

	ctx  ledserial.ReadContext
	leds led.LEDs
}

// NewDevice creates a new device.
func NewDevice(serial machine.Serialer, stripPin machine.Pin) *Device {
	return &Device{
		serial: firmware.WrapSerial(serial),
		strip:  firmware.NewStrip(stripPin),
		status: firmware.NewStatusLED(),
	}
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

func (d *Device) log(msg string) {
	d.sendPacket(ledserial.LogPacket{Message: msg})
}

func (d *Device) logError(err error) {
	d.sendPacket(ledserial.ErrorPacket{Message: err.Error()})
}

func (d *Device) sendPacket(p ledserial.OutgoingPacket) {
	ledserial.WriteOutgoingPacket(d.serial, p)
}

func (d *Device) readPacket() (ledserial.IncomingPacket, error) {
	d.status.Set(led.RGB(0x10, 0x10, 0x10))
	defer d.status.Set(led.Off)

	return ledserial.ReadIncomingPacket(d.serial, d.ctx)
}

func (d *Device) handlePacket(p ledserial.IncomingPacket) error {
	switch p := p.(type) {
	case ledserial.InitializePacket:
		if p.NumLEDs < 1 {
			return fmt.Errorf("invalid number of LEDs: %d", p.NumLEDs)
		}
		d.ctx.NumLEDs = p.NumLEDs
		d.leds = led.NewLEDs(int(p.NumLEDs))
		d.log(fmt.Sprintf("initialized %d LEDs", p.NumLEDs))

		// Red at the head and blue at the tail show the strip is ready.
		d.leds.Set(0, led.RGB(0xFF, 0, 0))
		d.leds.Set(len(d.leds)-1, led.RGB(0, 0, 0xFF))
		if err := d.strip.Show(d.leds); err != nil {
			return err
		}

	case ledserial.ClearPacket:
		d.leds.Fill(led.Off)
		if err := d.strip.Show(d.leds); err != nil {
			return err
		}

	case ledserial.SetPacket:
		if d.leds == nil {
			return fmt.Errorf("set before initialize")
		}
		for i, c := range p.Colors {
			d.leds[i] = led.Color(c)
		}
		if err := d.strip.Show(d.leds); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	d.sendPacket(ledserial.AckPacket{
		IncomingPacketType: p.Type(),
	})
	return nil
}
