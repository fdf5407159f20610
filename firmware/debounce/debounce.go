// Package debounce turns noisy button levels into clean presses.
package debounce

import "time"

// Debouncer reports a press once the button has been held down for a full
// settle period. It is fed raw levels along with a monotonic timestamp.
type Debouncer struct {
	settle time.Duration

	raw     bool
	changed time.Duration
	stable  bool
}

// New creates a debouncer that needs the level to hold for settle.
func New(settle time.Duration) *Debouncer {
	return &Debouncer{settle: settle}
}

// Update feeds the current level, true meaning pressed. It returns true
// exactly once per press, on the first update after the press settles.
func (d *Debouncer) Update(down bool, now time.Duration) bool {
	if down != d.raw {
		d.raw = down
		d.changed = now
		return false
	}

	if d.raw == d.stable || now-d.changed < d.settle {
		return false
	}

	d.stable = d.raw
	return d.stable
}
