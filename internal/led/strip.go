package led

import (
	"github.com/pkg/errors"
)

// Device is an output that can display a frame of LEDs.
type Device interface {
	// Show pushes the frame to the hardware. Implementations must not retain
	// leds after Show returns.
	Show(leds LEDs) error
}

// Strip is the in-memory pixel buffer in front of a Device. Writes only touch
// the buffer; nothing reaches the hardware until Flush is called. It owns no
// animation state.
type Strip struct {
	leds  LEDs
	dev   Device
	dirty bool
}

// NewStrip creates a strip of numLEDs pixels, all off, that flushes to dev.
func NewStrip(numLEDs int, dev Device) (*Strip, error) {
	if numLEDs < 1 {
		return nil, errors.Errorf("invalid number of LEDs: %d", numLEDs)
	}
	if dev == nil {
		return nil, errors.New("nil LED device")
	}
	return &Strip{
		leds: NewLEDs(numLEDs),
		dev:  dev,
	}, nil
}

// Len returns the number of pixels in the strip.
func (s *Strip) Len() int { return len(s.leds) }

// SetAll sets every pixel to c.
func (s *Strip) SetAll(c Color) {
	s.leds.Fill(c)
	s.dirty = true
}

// SetPixel sets pixel i to c. Out of range indices are ignored.
func (s *Strip) SetPixel(i int, c Color) {
	s.leds.Set(i, c)
	s.dirty = true
}

// SetRange sets the pixels in [start, end) to c.
func (s *Strip) SetRange(start, end int, c Color) {
	s.leds.SetRange(start, end, c)
	s.dirty = true
}

// Clear turns every pixel off without flushing.
func (s *Strip) Clear() {
	s.SetAll(Off)
}

// Pixel returns the buffered color of pixel i, or Off if i is out of range.
func (s *Strip) Pixel(i int) Color {
	if i < 0 || i >= len(s.leds) {
		return Off
	}
	return s.leds[i]
}

// Dirty reports whether the buffer was written since the last Flush.
func (s *Strip) Dirty() bool { return s.dirty }

// Flush pushes the buffer to the device.
func (s *Strip) Flush() error {
	s.dirty = false
	if err := s.dev.Show(s.leds); err != nil {
		return errors.Wrap(err, "failed to show LEDs")
	}
	return nil
}
