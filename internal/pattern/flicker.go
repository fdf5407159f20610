package pattern

import (
	"time"

	"github.com/pkg/errors"
)

// FlickerTable is a pair of parallel on/off duration sequences. Entry i is
// shown as on[i] lit followed by off[i] dark.
type FlickerTable struct {
	on  []time.Duration
	off []time.Duration
}

// DefaultFlicker is the stutter of a failing light.
var DefaultFlicker = mustFlickerTable(
	[]time.Duration{50, 10, 600, 100, 20, 40, 25},
	[]time.Duration{200, 150, 30, 200, 80, 30, 60},
	time.Millisecond,
)

// NewFlickerTable creates a table from parallel on and off sequences. Both
// must be the same, non-zero length.
func NewFlickerTable(on, off []time.Duration) (FlickerTable, error) {
	if len(on) != len(off) {
		return FlickerTable{}, errors.Errorf(
			"flicker table has %d on-times but %d off-times", len(on), len(off))
	}
	if len(on) == 0 {
		return FlickerTable{}, errors.New("empty flicker table")
	}
	for i := range on {
		if on[i] < 0 || off[i] < 0 {
			return FlickerTable{}, errors.Errorf("negative flicker duration at index %d", i)
		}
	}
	return FlickerTable{
		on:  append([]time.Duration(nil), on...),
		off: append([]time.Duration(nil), off...),
	}, nil
}

func mustFlickerTable(on, off []time.Duration, unit time.Duration) FlickerTable {
	scaled := func(ds []time.Duration) []time.Duration {
		out := make([]time.Duration, len(ds))
		for i, d := range ds {
			out[i] = d * unit
		}
		return out
	}
	t, err := NewFlickerTable(scaled(on), scaled(off))
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of on/off pairs.
func (t FlickerTable) Len() int { return len(t.on) }

// Pair returns the on and off durations of entry i.
func (t FlickerTable) Pair(i int) (on, off time.Duration) {
	return t.on[i], t.off[i]
}

// Total returns the sum of every on and off duration.
func (t FlickerTable) Total() time.Duration {
	var total time.Duration
	for i := range t.on {
		total += t.on[i] + t.off[i]
	}
	return total
}
