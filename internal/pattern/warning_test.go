package pattern

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"libdb.so/lectern/internal/led"
)

var amber = led.Color(0x007F7F00)

func TestNewWarningValidates(t *testing.T) {
	h := newHarness(t, testLEDs)
	p := DefaultWarning
	p.ChaseStep = 0
	_, err := NewWarning(h.strip, p, nil)
	assert.Error(t, err)

	w, err := NewWarning(h.strip, DefaultWarning, nil)
	require.NoError(t, err)
	assert.Equal(t, 60, w.ChaseSteps())
}

func TestWarningPhases(t *testing.T) {
	h := newHarness(t, testLEDs)
	warning, err := NewWarning(h.strip, DefaultWarning, h.observer())
	require.NoError(t, err)

	finished := h.run(warning, time.Millisecond, nil)

	assert.Equal(t,
		[]Phase{AlternateColors, TheaterChase, FadeOut, Done},
		h.phases())

	ms := time.Millisecond
	assert.Equal(t, testStart+256*5*ms, h.enteredAt(AlternateColors))
	assert.Equal(t, h.enteredAt(AlternateColors)+8*400*ms, h.enteredAt(TheaterChase))
	assert.Equal(t, h.enteredAt(TheaterChase)+60*50*ms, h.enteredAt(FadeOut))
	assert.Equal(t, h.enteredAt(FadeOut)+256*5*ms, h.enteredAt(Done))
	assert.Equal(t, h.enteredAt(Done)+ms, finished)

	h.assertAll(led.Off)
	assert.Equal(t, FadeIn, warning.Phase())
}

func TestWarningFrames(t *testing.T) {
	h := newHarness(t, testLEDs)
	warning, err := NewWarning(h.strip, DefaultWarning, h.observer())
	require.NoError(t, err)

	var blinks, chases, fades int

	h.run(warning, time.Millisecond, func(now time.Duration) {
		switch warning.Phase() {
		case FadeIn:
			// Nothing before the first gate.
			if now < testStart+5*time.Millisecond {
				assert.Empty(t, h.rec.Frames())
			}

		case AlternateColors:
			if now == h.enteredAt(AlternateColors) {
				h.assertAll(amber) // last fade-in level
				return
			}
			if (now-h.enteredAt(AlternateColors))%(400*time.Millisecond) == 0 {
				want := amber
				if blinks%2 != 0 {
					want = red
				}
				h.assertAll(want)
				blinks++
			}

		case TheaterChase:
			if now == h.enteredAt(TheaterChase) {
				h.assertAll(red) // last blink
				return
			}
			if (now-h.enteredAt(TheaterChase))%(50*time.Millisecond) != 0 {
				return
			}
			chase := chases
			head := red
			if chase < 60-testLEDs {
				head = amber
			}
			for i := 0; i < testLEDs; i++ {
				want := red
				if (i+chase)%3 == 0 {
					want = head
				}
				if !assert.Equal(t, want, h.strip.Pixel(i), "chase %d pixel %d", chase, i) {
					return
				}
			}
			chases++

		case FadeOut:
			if now == h.enteredAt(FadeOut) {
				h.assertAll(red) // last chase frame is solid
				return
			}
			if (now-h.enteredAt(FadeOut))%(5*time.Millisecond) == 0 {
				h.assertAll(led.Scale(red, uint8(255-fades)))
				fades++
			}
		}
	})

	assert.Equal(t, 7, blinks, "the last blink hands over to the chase")
	assert.Equal(t, 59, chases, "the last chase frame hands over to the fade out")
	assert.Equal(t, 255, fades, "the last fade level hands over to done")
}
