package pattern

import (
	"time"

	"github.com/pkg/errors"
	"libdb.so/lectern/internal/led"
)

// WarningParams configures the Warning pattern.
type WarningParams struct {
	// FadeInStep gates each of the 256 fade-in levels.
	FadeInStep time.Duration
	// FadeOutStep gates each of the 256 fade-out levels.
	FadeOutStep time.Duration
	// Blink is how long each color is shown while alternating.
	Blink time.Duration
	// Blinks is the number of Color1/Color2 pairs shown.
	Blinks int
	// ChaseStep is how long each theater chase frame is shown.
	ChaseStep time.Duration
	// Chase is the length of the whole theater chase.
	Chase time.Duration

	Color1 led.Color
	Color2 led.Color
}

// DefaultWarning blinks amber and red, then chases into solid red.
var DefaultWarning = WarningParams{
	FadeInStep:  5 * time.Millisecond,
	FadeOutStep: 5 * time.Millisecond,
	Blink:       400 * time.Millisecond,
	Blinks:      4,
	ChaseStep:   50 * time.Millisecond,
	Chase:       3000 * time.Millisecond,
	Color1:      0x007F7F00,
	Color2:      0x00FF0000,
}

// Warning fades in, blinks between two colors, runs a theater chase that
// floods into Color2 and fades out.
type Warning struct {
	machine
	p          WarningParams
	chaseSteps int

	level int
	count int
	chase int
}

var _ Pattern = (*Warning)(nil)

// NewWarning creates a Warning pattern drawing onto strip.
func NewWarning(strip *led.Strip, p WarningParams, observe Observer) (*Warning, error) {
	if p.ChaseStep <= 0 {
		return nil, errors.New("warning pattern chase step must be positive")
	}
	if p.FadeInStep < 0 || p.FadeOutStep < 0 || p.Blink < 0 || p.Blinks < 0 || p.Chase < 0 {
		return nil, errors.New("warning pattern timings must not be negative")
	}
	return &Warning{
		machine:    machine{name: "warning", strip: strip, observe: observe},
		p:          p,
		chaseSteps: int(p.Chase / p.ChaseStep),
	}, nil
}

// ChaseSteps returns the number of theater chase frames.
func (w *Warning) ChaseSteps() int { return w.chaseSteps }

// Start implements Pattern.
func (w *Warning) Start(now time.Duration) {
	w.rewind(now)
	w.level = 0
	w.count = 0
	w.chase = 0
}

// Step implements Pattern.
func (w *Warning) Step(now time.Duration) (Status, error) {
	elapsed := w.elapsed(now)

	switch w.phase {
	case FadeIn:
		if elapsed >= w.p.FadeInStep {
			w.strip.SetAll(led.Scale(w.p.Color1, uint8(w.level)))
			w.level++
			w.mark = now
			if w.level > led.MaxIntensity {
				w.count = 0
				w.enter(AlternateColors, now)
			}
		}

	case AlternateColors:
		if elapsed >= w.p.Blink {
			c := w.p.Color1
			if w.count%2 != 0 {
				c = w.p.Color2
			}
			w.strip.SetAll(c)
			w.count++
			w.mark = now
			if w.count >= 2*w.p.Blinks {
				w.chase = 0
				w.enter(TheaterChase, now)
			}
		}

	case TheaterChase:
		if elapsed >= w.p.ChaseStep {
			w.paintChase()
			w.chase++
			w.mark = now
			if w.chase >= w.chaseSteps {
				w.level = led.MaxIntensity
				w.enter(FadeOut, now)
			}
		}

	case FadeOut:
		if elapsed >= w.p.FadeOutStep {
			w.strip.SetAll(led.Scale(w.p.Color2, uint8(w.level)))
			w.level--
			w.mark = now
			if w.level < 0 {
				w.enter(Done, now)
			}
		}

	case Done:
		return w.finish(now)
	}

	return w.show()
}

// paintChase lights every third LED, offset by the chase index, and fills
// the rest with Color2. The lit LEDs switch from Color1 to Color2 for the
// final strip-length frames so the chase floods into solid Color2.
func (w *Warning) paintChase() {
	n := w.strip.Len()
	head := w.p.Color2
	if w.chase < w.chaseSteps-n {
		head = w.p.Color1
	}

	w.strip.Clear()
	for i := 0; i < n; i++ {
		if (i+w.chase)%3 == 0 {
			w.strip.SetPixel(i, head)
		} else {
			w.strip.SetPixel(i, w.p.Color2)
		}
	}
}
