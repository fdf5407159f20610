package led

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackRoundTrip(t *testing.T) {
	samples := []uint8{0, 1, 0x7F, 0x80, 0xFE, 0xFF}
	for _, r := range samples {
		for _, g := range samples {
			for _, b := range samples {
				for _, w := range samples {
					c := Pack(r, g, b, w)
					if c.R() != r || c.G() != g || c.B() != b || c.W() != w {
						t.Fatalf("Pack(%d, %d, %d, %d) = %08x, channels %d %d %d %d",
							r, g, b, w, uint32(c), c.R(), c.G(), c.B(), c.W())
					}
				}
			}
		}
	}
}

func TestPackLayout(t *testing.T) {
	assert.Equal(t, Color(0x0000FF00), RGB(0, 0xFF, 0), "green")
	assert.Equal(t, Color(0x000000FF), RGB(0, 0, 0xFF), "blue")
	assert.Equal(t, Color(0x00FF0000), RGB(0xFF, 0, 0), "red")
	assert.Equal(t, Color(0xAA000000), Pack(0, 0, 0, 0xAA), "white")
}

func TestLerpBoundaries(t *testing.T) {
	colors := []Color{
		Off,
		0x00FFFFFF,
		0x0000FF00,
		0x000000FF,
		0x007F7F00,
		0x12345678,
		0xFFFFFFFF,
	}
	for _, c1 := range colors {
		for _, c2 := range colors {
			assert.Equal(t, c1, Lerp(c1, c2, 0), "Lerp(%s, %s, 0)", c1, c2)
			assert.Equal(t, c2, Lerp(c1, c2, 255), "Lerp(%s, %s, 255)", c1, c2)
		}
	}
}

func TestLerpTruncates(t *testing.T) {
	// R: (127*255 + 128*0) / 255, G: (127*0 + 128*255) / 255
	c := Lerp(RGB(0xFF, 0, 0), RGB(0, 0xFF, 0), 128)
	assert.Equal(t, uint8(127), c.R())
	assert.Equal(t, uint8(128), c.G())

	// (254*1 + 1*2) / 255 = 1
	assert.Equal(t, uint8(1), Lerp(RGB(1, 0, 0), RGB(2, 0, 0), 1).R())
}

func TestScale(t *testing.T) {
	c := RGB(0xFF, 0x7F, 0x01)
	assert.Equal(t, Off, Scale(c, 0))
	assert.Equal(t, c, Scale(c, 255))

	half := Scale(c, 128)
	assert.Equal(t, uint8(128), half.R())
	assert.Equal(t, uint8(63), half.G())
	assert.Equal(t, uint8(0), half.B())
}

func TestColorHex(t *testing.T) {
	assert.Equal(t, "#00ff00", RGB(0, 0xFF, 0).Hex())
	assert.Equal(t, "#7f7f00", Color(0x007F7F00).Hex())
	assert.Equal(t, "#000000/wff", Pack(0, 0, 0, 0xFF).String())
}
