package pattern

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"libdb.so/lectern/internal/led"
)

var (
	green = led.Color(0x0000FF00)
	blue  = led.Color(0x000000FF)
)

func TestNewWinValidates(t *testing.T) {
	h := newHarness(t, WinChunks-1)
	_, err := NewWin(h.strip, DefaultWin, nil)
	assert.Error(t, err, "strip shorter than the chunk count")

	h = newHarness(t, testLEDs)
	p := DefaultWin
	p.Bell = 0
	_, err = NewWin(h.strip, p, nil)
	assert.Error(t, err, "zero bell length")
}

func TestWinPhases(t *testing.T) {
	h := newHarness(t, testLEDs)
	win, err := NewWin(h.strip, DefaultWin, h.observer())
	require.NoError(t, err)

	finished := h.run(win, time.Millisecond, nil)

	assert.Equal(t,
		[]Phase{AlternateColors, CrossFade, Solid, FadeOut, Done},
		h.phases())

	// With one step per millisecond: the fade in ends on its 300ms step,
	// each of the 35 rings waits for more than 137ms, the crossfade takes
	// 137ms, the hold 2000ms, the fade out 4000ms, and Done takes one more
	// step.
	assert.Equal(t, testStart+300*time.Millisecond, h.enteredAt(AlternateColors))
	assert.Equal(t, h.enteredAt(AlternateColors)+35*138*time.Millisecond, h.enteredAt(CrossFade))
	assert.Equal(t, h.enteredAt(CrossFade)+137*time.Millisecond, h.enteredAt(Solid))
	assert.Equal(t, h.enteredAt(Solid)+2000*time.Millisecond, h.enteredAt(FadeOut))
	assert.Equal(t, h.enteredAt(FadeOut)+4000*time.Millisecond, h.enteredAt(Done))
	assert.Equal(t, h.enteredAt(Done)+time.Millisecond, finished)

	p := DefaultWin
	bound := p.FadeIn + time.Duration(p.Rings+1)*(p.Bell+time.Millisecond) + p.Bell + p.Hold + p.FadeOut
	assert.LessOrEqual(t, finished-testStart, bound+time.Millisecond)

	h.assertAll(led.Off)
	assert.Equal(t, FadeIn, win.Phase(), "rewound for the next start")
}

func TestWinFrames(t *testing.T) {
	h := newHarness(t, testLEDs)
	win, err := NewWin(h.strip, DefaultWin, h.observer())
	require.NoError(t, err)

	var rings int
	checked := map[string]bool{}

	h.run(win, time.Millisecond, func(now time.Duration) {
		switch {
		case now == testStart+150*time.Millisecond:
			// 150 * 255 / 300
			h.assertAll(led.RGB(0, 127, 0))
			checked["fade-in"] = true

		case win.Phase() == AlternateColors && now == h.enteredAt(AlternateColors)+time.Duration(rings+1)*138*time.Millisecond:
			even, odd := green, blue
			if rings%2 != 0 {
				even, odd = blue, green
			}
			// 39 LEDs split at 7, 15, 23 and 31.
			assert.Equal(t, even, h.strip.Pixel(0))
			assert.Equal(t, even, h.strip.Pixel(6))
			assert.Equal(t, odd, h.strip.Pixel(7))
			assert.Equal(t, odd, h.strip.Pixel(14))
			assert.Equal(t, even, h.strip.Pixel(15))
			assert.Equal(t, odd, h.strip.Pixel(30))
			assert.Equal(t, even, h.strip.Pixel(31))
			assert.Equal(t, even, h.strip.Pixel(38))
			rings++
			checked["alternate"] = true

		case win.Phase() == CrossFade && now == h.enteredAt(CrossFade)+68*time.Millisecond:
			// 68 * 255 / 137 = 126
			h.assertAll(led.RGB(0, 129, 126))
			checked["crossfade"] = true

		case win.Phase() == Solid && now == h.enteredAt(Solid):
			h.assertAll(blue)
			checked["solid"] = true

		case win.Phase() == FadeOut && now == h.enteredAt(FadeOut)+2000*time.Millisecond:
			// 255 - 2000 * 255 / 4000
			h.assertAll(led.RGB(0, 0, 128))
			checked["fade-out"] = true
		}
	})

	assert.Equal(t, 34, rings, "the ring completing the phase is not seen as AlternateColors")
	assert.Len(t, checked, 5)
	assert.Equal(t, led.NewLEDs(testLEDs), h.rec.Last())
}

func TestWinRestartIsIdentical(t *testing.T) {
	h := newHarness(t, testLEDs)
	win, err := NewWin(h.strip, DefaultWin, h.observer())
	require.NoError(t, err)

	start1 := h.clock.Now()
	end1 := h.run(win, time.Millisecond, nil)
	frames1 := len(h.rec.Frames())
	transitions1 := h.transitions

	h.transitions = nil
	h.clock.Advance(time.Millisecond)

	start2 := h.clock.Now()
	end2 := h.run(win, time.Millisecond, nil)
	frames2 := len(h.rec.Frames()) - frames1

	assert.Equal(t, end1-start1, end2-start2)
	assert.Equal(t, frames1, frames2)
	require.Len(t, h.transitions, len(transitions1))
	for i := range transitions1 {
		assert.Equal(t, transitions1[i].to, h.transitions[i].to)
		assert.Equal(t, transitions1[i].at-start1, h.transitions[i].at-start2)
	}
}

func TestWinRestartMidway(t *testing.T) {
	h := newHarness(t, testLEDs)
	win, err := NewWin(h.strip, DefaultWin, nil)
	require.NoError(t, err)

	win.Start(h.clock.Now())
	for i := 0; i < 1000; i++ {
		_, err := win.Step(h.clock.Advance(time.Millisecond))
		require.NoError(t, err)
	}
	require.Equal(t, AlternateColors, win.Phase())

	win.Start(h.clock.Now())
	assert.Equal(t, FadeIn, win.Phase())

	_, err = win.Step(h.clock.Advance(150 * time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, FadeIn, win.Phase())
	h.assertAll(led.RGB(0, 127, 0))
}
