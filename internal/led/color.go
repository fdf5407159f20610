// Package led contains the color and pixel buffer primitives shared by every
// pattern and output device.
package led

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a packed 32-bit color. From the most significant byte down, the
// channels are W, R, G and B. The W channel is carried along but no device
// currently drives it.
type Color uint32

// Off is the color of an unlit LED.
const Off Color = 0

// MaxIntensity is the largest channel value and the full-scale level used by
// Scale and Lerp.
const MaxIntensity = 0xFF

// Pack composes a Color from its four channels.
func Pack(r, g, b, w uint8) Color {
	return Color(w)<<24 | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// RGB composes a Color with an empty W channel.
func RGB(r, g, b uint8) Color {
	return Pack(r, g, b, 0)
}

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c & 0xFF) }

// W returns the white channel.
func (c Color) W() uint8 { return uint8(c >> 24) }

// Scale returns c with every channel multiplied by level/255. The result is
// truncated, so Scale(c, 0) is Off and Scale(c, 255) is c.
func Scale(c Color, level uint8) Color {
	l := uint32(level)
	return Pack(
		uint8(uint32(c.R())*l/MaxIntensity),
		uint8(uint32(c.G())*l/MaxIntensity),
		uint8(uint32(c.B())*l/MaxIntensity),
		uint8(uint32(c.W())*l/MaxIntensity),
	)
}

// Lerp blends c1 into c2. Each channel is ((255-t)*c1 + t*c2) / 255,
// truncated.
func Lerp(c1, c2 Color, t uint8) Color {
	return Pack(
		lerp(c1.R(), c2.R(), t),
		lerp(c1.G(), c2.G(), t),
		lerp(c1.B(), c2.B(), t),
		lerp(c1.W(), c2.W(), t),
	)
}

func lerp(a, b, t uint8) uint8 {
	u := uint32(t)
	return uint8(((MaxIntensity-u)*uint32(a) + u*uint32(b)) / MaxIntensity)
}

// Hex returns the color as a #rrggbb string. The W channel is not included.
func (c Color) Hex() string {
	return colorful.Color{
		R: float64(c.R()) / MaxIntensity,
		G: float64(c.G()) / MaxIntensity,
		B: float64(c.B()) / MaxIntensity,
	}.Hex()
}

// String implements fmt.Stringer.
func (c Color) String() string {
	if w := c.W(); w != 0 {
		return fmt.Sprintf("%s/w%02x", c.Hex(), w)
	}
	return c.Hex()
}
