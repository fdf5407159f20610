package pattern

import (
	"time"

	"github.com/pkg/errors"
	"libdb.so/lectern/internal/led"
)

// WinChunks is the number of contiguous blocks the strip is split into while
// the Win bells ring.
const WinChunks = 5

// WinParams configures the Win pattern.
type WinParams struct {
	// FadeIn is how long Color1 takes to come up from off.
	FadeIn time.Duration
	// FadeOut is how long Color2 takes to go down to off.
	FadeOut time.Duration
	// Bell is the length of a single ring. It also times the crossfade.
	Bell time.Duration
	// Rings is the number of rings after the first.
	Rings int
	// Hold is how long Color2 is held before fading out.
	Hold time.Duration

	Color1 led.Color
	Color2 led.Color
}

// DefaultWin rings green and blue, then settles on blue.
var DefaultWin = WinParams{
	FadeIn:  300 * time.Millisecond,
	FadeOut: 4000 * time.Millisecond,
	Bell:    137 * time.Millisecond,
	Rings:   34,
	Hold:    2000 * time.Millisecond,
	Color1:  0x0000FF00,
	Color2:  0x000000FF,
}

// Win fades in, rings alternating chunks of two colors, crossfades to the
// second color, holds it and fades out.
type Win struct {
	machine
	p     WinParams
	rings int
}

var _ Pattern = (*Win)(nil)

// NewWin creates a Win pattern drawing onto strip.
func NewWin(strip *led.Strip, p WinParams, observe Observer) (*Win, error) {
	if strip.Len() < WinChunks {
		return nil, errors.Errorf("win pattern needs at least %d LEDs, got %d", WinChunks, strip.Len())
	}
	if p.FadeIn <= 0 || p.FadeOut <= 0 || p.Bell <= 0 {
		return nil, errors.New("win pattern fade and bell lengths must be positive")
	}
	if p.Rings < 0 || p.Hold < 0 {
		return nil, errors.New("win pattern rings and hold must not be negative")
	}
	return &Win{
		machine: machine{name: "win", strip: strip, observe: observe},
		p:       p,
	}, nil
}

// Start implements Pattern.
func (w *Win) Start(now time.Duration) {
	w.rewind(now)
	w.rings = 0
}

// Step implements Pattern.
func (w *Win) Step(now time.Duration) (Status, error) {
	elapsed := w.elapsed(now)

	switch w.phase {
	case FadeIn:
		if elapsed < w.p.FadeIn {
			w.strip.SetAll(led.Scale(w.p.Color1, ramp(elapsed, w.p.FadeIn)))
		} else {
			w.rings = 0
			w.enter(AlternateColors, now)
		}

	case AlternateColors:
		if elapsed > w.p.Bell {
			w.mark = now
			even, odd := w.p.Color1, w.p.Color2
			if w.rings%2 != 0 {
				even, odd = odd, even
			}
			w.rings++
			w.paintChunks(even, odd)

			if w.rings > w.p.Rings {
				w.enter(CrossFade, now)
			}
		}

	case CrossFade:
		if elapsed < w.p.Bell {
			w.strip.SetAll(led.Lerp(w.p.Color1, w.p.Color2, ramp(elapsed, w.p.Bell)))
		} else {
			w.strip.SetAll(w.p.Color2)
			w.enter(Solid, now)
		}

	case Solid:
		if elapsed >= w.p.Hold {
			w.enter(FadeOut, now)
		}

	case FadeOut:
		if elapsed < w.p.FadeOut {
			w.strip.SetAll(led.Scale(w.p.Color2, led.MaxIntensity-ramp(elapsed, w.p.FadeOut)))
		} else {
			w.enter(Done, now)
		}

	case Done:
		return w.finish(now)
	}

	return w.show()
}

// paintChunks splits the strip into WinChunks contiguous blocks. Block k
// covers [k*n/WinChunks, (k+1)*n/WinChunks), so block sizes differ by at most
// one LED when n is not a multiple of WinChunks.
func (w *Win) paintChunks(even, odd led.Color) {
	n := w.strip.Len()
	for k := 0; k < WinChunks; k++ {
		c := even
		if k%2 != 0 {
			c = odd
		}
		w.strip.SetRange(k*n/WinChunks, (k+1)*n/WinChunks, c)
	}
}
