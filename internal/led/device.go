package led

import (
	"log/slog"
	"sync"
)

// Recorder is a Device that keeps a copy of every frame it is shown.
type Recorder struct {
	mu     sync.Mutex
	frames []LEDs
	err    error
}

var _ Device = (*Recorder)(nil)

// Show implements Device.
func (r *Recorder) Show(leds LEDs) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	r.frames = append(r.frames, leds.Clone())
	return nil
}

// FailWith makes every following Show return err.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

// Frames returns every frame shown so far.
func (r *Recorder) Frames() []LEDs {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]LEDs(nil), r.frames...)
}

// Last returns the most recent frame, or nil if nothing was shown.
func (r *Recorder) Last() LEDs {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

// LogDevice is a Device that logs frames instead of driving hardware. Only
// frames that differ from the previous one are logged.
type LogDevice struct {
	logger *slog.Logger
	last   LEDs
}

var _ Device = (*LogDevice)(nil)

// NewLogDevice creates a new LogDevice.
func NewLogDevice(logger *slog.Logger) *LogDevice {
	return &LogDevice{logger: logger}
}

// Show implements Device.
func (d *LogDevice) Show(leds LEDs) error {
	if d.last.Equal(leds) {
		return nil
	}
	d.last = leds.Clone()

	var lit int
	for _, c := range leds {
		if c != Off {
			lit++
		}
	}

	d.logger.Debug(
		"frame",
		"first", leds[0],
		"lit", lit)
	return nil
}
