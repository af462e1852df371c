package tryi

import (
	"image/color"
	"math/rand/v2"
)

// Color is a non-premultiplied RGBA colour with one byte per channel.
type Color struct {
	R, G, B, A uint8
}

// RGBA creates a colour from byte components.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// RandomColor returns a colour with uniformly random channels, alpha
// included.
func RandomColor(r *rand.Rand) Color {
	v := r.Uint32()
	return Color{R: uint8(v), G: uint8(v >> 8), B: uint8(v >> 16), A: uint8(v >> 24)}
}

// Mutate returns a new colour with all four channels mutated by amount.
func (c Color) Mutate(r *rand.Rand, amount float64) Color {
	return Color{
		R: MutateByte(r, c.R, amount),
		G: MutateByte(r, c.G, amount),
		B: MutateByte(r, c.B, amount),
		A: MutateByte(r, c.A, amount),
	}
}

// NRGBA converts the colour to the standard library's non-premultiplied
// colour type.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// ARGB returns the colour packed as 0xAARRGGBB.
func (c Color) ARGB() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Premultiplied returns the channels multiplied by alpha.
func (c Color) Premultiplied() (r, g, b, a uint8) {
	return mulDiv255(c.R, c.A), mulDiv255(c.G, c.A), mulDiv255(c.B, c.A), c.A
}

// Common colors
var (
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
	Transparent = Color{0, 0, 0, 0}
)
