package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual(t *testing.T) {
	c := NewManual(5 * time.Millisecond)
	assert.Equal(t, 5*time.Millisecond, c.Now())

	assert.Equal(t, 7*time.Millisecond, c.Advance(2*time.Millisecond))
	assert.Equal(t, 7*time.Millisecond, c.Advance(-time.Second))
	assert.Equal(t, 7*time.Millisecond, c.Now())
}

func TestSystemIsMonotonic(t *testing.T) {
	c := NewSystem()
	a := c.Now()
	b := c.Now()
	assert.GreaterOrEqual(t, a, time.Duration(0))
	assert.GreaterOrEqual(t, b, a)
}
