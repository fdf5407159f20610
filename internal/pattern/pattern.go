// Package pattern implements the feedback animations as resumable state
// machines. A machine never waits: each Step inspects the time elapsed since
// its last event, maybe repaints the strip, and returns straight away.
package pattern

import (
	"fmt"
	"time"

	"libdb.so/lectern/internal/led"
)

// Phase is a stage of a pattern's state machine.
type Phase uint8

const (
	FadeIn Phase = iota
	AlternateColors
	CrossFade
	Solid
	Hold
	Flicker
	TheaterChase
	FadeOut
	Done
)

// String returns a string representation of the phase.
func (p Phase) String() string {
	switch p {
	case FadeIn:
		return "fade-in"
	case AlternateColors:
		return "alternate-colors"
	case CrossFade:
		return "crossfade"
	case Solid:
		return "solid"
	case Hold:
		return "hold"
	case Flicker:
		return "flicker"
	case TheaterChase:
		return "theater-chase"
	case FadeOut:
		return "fade-out"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("Phase(%d)", p)
	}
}

// Status is what a Step reports back to the scheduler.
type Status int8

const (
	// Finished means the pattern reached Done, turned the strip off and is
	// ready to be started again.
	Finished Status = -1
	// Running means the pattern wants more steps.
	Running Status = 0
)

// Pattern is a single feedback animation.
type Pattern interface {
	// Name returns the name of the pattern.
	Name() string
	// Start rewinds the pattern to its first phase. now is the clock reading
	// the pattern's timings are measured from.
	Start(now time.Duration)
	// Step advances the pattern to now. It must never block.
	Step(now time.Duration) (Status, error)
	// Phase returns the current phase.
	Phase() Phase
}

// Observer is called on every phase transition within a run. It is not
// called for the silent rewind to FadeIn that follows Done.
type Observer func(pattern string, from, to Phase, now time.Duration)

// machine holds the bookkeeping shared by every pattern.
type machine struct {
	name    string
	strip   *led.Strip
	observe Observer

	phase Phase
	// mark is the clock reading of the last event: a phase change or a
	// periodic repaint. Gates compare now-mark against their interval.
	mark time.Duration
}

func (m *machine) Name() string { return m.name }

func (m *machine) Phase() Phase { return m.phase }

func (m *machine) rewind(now time.Duration) {
	m.phase = FadeIn
	m.mark = now
}

func (m *machine) enter(p Phase, now time.Duration) {
	from := m.phase
	m.phase = p
	m.mark = now
	if m.observe != nil {
		m.observe(m.name, from, p, now)
	}
}

func (m *machine) elapsed(now time.Duration) time.Duration {
	return now - m.mark
}

// show flushes the strip if this step painted anything.
func (m *machine) show() (Status, error) {
	if !m.strip.Dirty() {
		return Running, nil
	}
	return Running, m.strip.Flush()
}

// finish turns the strip off and rewinds for the next Start.
func (m *machine) finish(now time.Duration) (Status, error) {
	if m.phase != Done {
		m.enter(Done, now)
	}
	m.rewind(now)
	m.strip.SetAll(led.Off)
	return Finished, m.strip.Flush()
}

// ramp maps elapsed in [0, length) onto a level in [0, 255].
func ramp(elapsed, length time.Duration) uint8 {
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= length {
		return led.MaxIntensity
	}
	return uint8(int64(elapsed) * led.MaxIntensity / int64(length))
}
