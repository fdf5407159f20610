// Package opc drives a Fadecandy (or any Open Pixel Control server) as an LED
// device.
package opc

import (
	"log/slog"

	"github.com/kellydunn/go-opc"
	"github.com/pkg/errors"
	"libdb.so/lectern/internal/led"
)

// Device sends frames to an OPC server over TCP.
type Device struct {
	client  *opc.Client
	channel uint8
	logger  *slog.Logger
	last    led.LEDs
}

var _ led.Device = (*Device)(nil)

// Dial connects to the OPC server at addr. Frames are sent on the given OPC
// channel; channel 0 broadcasts to every strip on the server.
func Dial(addr string, channel uint8, logger *slog.Logger) (*Device, error) {
	client := opc.NewClient()
	if err := client.Connect("tcp", addr); err != nil {
		return nil, errors.Wrapf(err, "failed to connect to OPC server %s", addr)
	}

	logger.Debug(
		"connected to OPC server",
		"addr", addr,
		"channel", channel)

	return &Device{
		client:  client,
		channel: channel,
		logger:  logger,
	}, nil
}

// Show implements led.Device. Frames equal to the last one sent are skipped.
func (d *Device) Show(leds led.LEDs) error {
	if d.last.Equal(leds) {
		return nil
	}

	m := opc.NewMessage(d.channel)
	m.SetLength(uint16(3 * len(leds)))
	for i, c := range leds {
		m.SetPixelColor(i, c.R(), c.G(), c.B())
	}

	if err := d.client.Send(m); err != nil {
		return errors.Wrap(err, "failed to send OPC frame")
	}

	d.last = leds.Clone()
	return nil
}
