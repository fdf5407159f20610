package led

import "slices"

// LEDs describes a strip of LEDs. It is a preallocated slice of Color.
type LEDs []Color

// NewLEDs creates a new strip of LEDs. Colors are initialized to Off.
func NewLEDs(numLEDs int) LEDs {
	return make(LEDs, numLEDs)
}

// Set sets the color of the LED at the given index. Indices outside the strip
// are ignored.
func (l LEDs) Set(i int, c Color) {
	if i >= 0 && i < len(l) {
		l[i] = c
	}
}

// SetRange sets the color of the LEDs in the range [start, end), clipped to
// the strip.
func (l LEDs) SetRange(start, end int, c Color) {
	start = max(start, 0)
	end = min(end, len(l))
	for i := start; i < end; i++ {
		l[i] = c
	}
}

// Fill sets every LED to c.
func (l LEDs) Fill(c Color) {
	for i := range l {
		l[i] = c
	}
}

// Clone returns a copy of the strip.
func (l LEDs) Clone() LEDs {
	return slices.Clone(l)
}

// Equal reports whether both strips hold the same colors.
func (l LEDs) Equal(other LEDs) bool {
	return slices.Equal(l, other)
}
