package lectern

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"libdb.so/lectern/internal/led"
	"libdb.so/lectern/ledserial"
)

// SerialDevice is an LED device behind a controller speaking ledserial.
//
// The controller acknowledges every packet. Only one packet is in flight at a
// time: frames shown while waiting for an ack replace each other and the
// latest one is sent when the ack arrives.
type SerialDevice struct {
	port       io.ReadWriter
	logger     *slog.Logger
	numLEDs    int
	ackTimeout time.Duration

	mu          sync.Mutex
	initialized bool
	inflight    bool
	sentAt      time.Time
	pending     led.LEDs // nil if nothing is waiting
	last        led.LEDs
	failed      error
}

var _ led.Device = (*SerialDevice)(nil)

// OpenSerial opens the serial port described by cfg.
func OpenSerial(cfg OutputConfig, numLEDs int, logger *slog.Logger) (*SerialDevice, serial.Port, error) {
	port, err := serial.Open(cfg.Device, &serial.Mode{
		BaudRate: cfg.Baud,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open serial port")
	}

	if err := port.SetReadTimeout(serial.NoTimeout); err != nil {
		port.Close()
		return nil, nil, errors.Wrap(err, "failed to reset read timeout")
	}

	return NewSerialDevice(port, numLEDs, time.Duration(cfg.AckTimeout), logger), port, nil
}

// NewSerialDevice creates a device talking to a controller over port.
// Nothing is sent until Run is called.
func NewSerialDevice(port io.ReadWriter, numLEDs int, ackTimeout time.Duration, logger *slog.Logger) *SerialDevice {
	return &SerialDevice{
		port:       port,
		logger:     logger,
		numLEDs:    numLEDs,
		ackTimeout: ackTimeout,
	}
}

// Run initializes the controller and handles its packets until ctx is
// canceled or the controller fails. Frames shown before the controller
// acknowledges the initialization are held back.
func (d *SerialDevice) Run(ctx context.Context) error {
	d.logger.Debug("sending initialize packet", "num_leds", d.numLEDs)
	if err := d.write(ledserial.InitializePacket{NumLEDs: uint16(d.numLEDs)}); err != nil {
		return d.fail(errors.Wrap(err, "failed to initialize LEDs"))
	}

	for ctx.Err() == nil {
		p, err := ledserial.ReadOutgoingPacket(d.port)
		if err != nil {
			// A short read indicates a timeout. This is expected.
			// Ignore the error and try again.
			if errors.Is(err, io.EOF) {
				continue
			}
			if ctx.Err() != nil {
				// The port was closed under us.
				break
			}
			return d.fail(errors.Wrap(err, "failed to read packet"))
		}

		if err := d.handlePacket(p); err != nil {
			return d.fail(err)
		}
	}

	return ctx.Err()
}

func (d *SerialDevice) handlePacket(p ledserial.OutgoingPacket) error {
	switch p := p.(type) {
	case ledserial.AckPacket:
		d.logger.Debug(
			"received ack packet from controller",
			"acked_for", p.IncomingPacketType)
		return d.acked()

	case ledserial.ErrorPacket:
		d.logger.Warn(
			"received error packet from controller",
			"message", p.Message)
		return errors.New("controller reported error")

	case ledserial.PanicPacket:
		d.logger.Error("controller unrecoverably panicked")
		return errors.New("controller panicked")

	case ledserial.LogPacket:
		d.logger.Info(
			"received log packet from controller",
			"message", p.Message)
		return nil

	default:
		return errors.Errorf("received unknown packet from controller: %s", p.Type())
	}
}

// acked clears the in-flight packet and sends the pending frame, if any.
func (d *SerialDevice) acked() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.initialized = true
	d.inflight = false

	frame := d.pending
	d.pending = nil
	if frame == nil || frame.Equal(d.last) {
		return nil
	}
	return d.send(frame)
}

// Show implements led.Device. It never waits for the controller.
func (d *SerialDevice) Show(leds led.LEDs) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failed != nil {
		return d.failed
	}

	if !d.initialized {
		d.pending = leds.Clone()
		return nil
	}

	if d.inflight {
		if time.Since(d.sentAt) < d.ackTimeout {
			d.pending = leds.Clone()
			return nil
		}
		d.logger.Warn(
			"controller did not acknowledge in time",
			"timeout", d.ackTimeout)
		d.inflight = false
		d.pending = nil
	}

	if d.last.Equal(leds) {
		return nil
	}

	return d.send(leds.Clone())
}

// send writes a frame. d.mu must be held.
func (d *SerialDevice) send(frame led.LEDs) error {
	colors := make([]uint32, len(frame))
	for i, c := range frame {
		colors[i] = uint32(c)
	}

	if err := d.write(ledserial.SetPacket{Colors: colors}); err != nil {
		d.logger.Warn(
			"failed to write packet",
			"packet", ledserial.TypeSetPacket,
			"error", err)
		return err
	}

	d.inflight = true
	d.sentAt = time.Now()
	d.last = frame
	return nil
}

func (d *SerialDevice) write(p ledserial.IncomingPacket) error {
	d.logger.Debug(
		"writing packet",
		"type", p.Type())
	return ledserial.WriteIncomingPacket(d.port, p)
}

// fail makes every following Show return err.
func (d *SerialDevice) fail(err error) error {
	d.mu.Lock()
	d.failed = err
	d.mu.Unlock()
	return err
}
