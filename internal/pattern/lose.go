package pattern

import (
	"time"

	"github.com/pkg/errors"
	"libdb.so/lectern/internal/led"
)

// LoseParams configures the Lose pattern.
type LoseParams struct {
	Color led.Color
	// Hold is how long Color stays at full brightness before flickering.
	Hold    time.Duration
	Flicker FlickerTable
}

// DefaultLose glows red, then dies like a failing bulb.
var DefaultLose = LoseParams{
	Color:   0x00FF0000,
	Hold:    1000 * time.Millisecond,
	Flicker: DefaultFlicker,
}

// Lose fades in one brightness level per step, holds, then flickers through
// its FlickerTable until it goes dark.
type Lose struct {
	machine
	p     LoseParams
	level int
	index int
	lit   bool
}

var _ Pattern = (*Lose)(nil)

// NewLose creates a Lose pattern drawing onto strip.
func NewLose(strip *led.Strip, p LoseParams, observe Observer) (*Lose, error) {
	if p.Flicker.Len() == 0 {
		return nil, errors.New("lose pattern needs a flicker table")
	}
	if p.Hold < 0 {
		return nil, errors.New("lose pattern hold must not be negative")
	}
	return &Lose{
		machine: machine{name: "lose", strip: strip, observe: observe},
		p:       p,
	}, nil
}

// Start implements Pattern.
func (l *Lose) Start(now time.Duration) {
	l.rewind(now)
	l.level = 0
	l.index = 0
	l.lit = true
}

// Step implements Pattern.
func (l *Lose) Step(now time.Duration) (Status, error) {
	elapsed := l.elapsed(now)

	switch l.phase {
	case FadeIn:
		// Not time sliced: every call is one level brighter.
		l.strip.SetAll(led.Scale(l.p.Color, uint8(l.level)))
		l.level++
		l.mark = now
		if l.level > led.MaxIntensity {
			l.enter(Hold, now)
		}

	case Hold:
		if elapsed >= l.p.Hold {
			l.index = 0
			l.lit = true
			l.enter(Flicker, now)
		}

	case Flicker:
		on, off := l.p.Flicker.Pair(l.index)
		switch {
		case l.lit && elapsed >= on:
			l.strip.SetAll(led.Off)
			l.lit = false
			l.mark = now

		case !l.lit && elapsed >= off:
			l.index++
			if l.index >= l.p.Flicker.Len() {
				return l.finish(now)
			}
			l.strip.SetAll(l.p.Color)
			l.lit = true
			l.mark = now
		}

	case Done:
		return l.finish(now)
	}

	return l.show()
}
