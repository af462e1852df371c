package tryi

import "math/rand/v2"

// Point is a position on the canonical 255x255 canvas.
type Point struct {
	X, Y uint8
}

// Pt is a convenience function to create a Point.
func Pt(x, y uint8) Point {
	return Point{X: x, Y: y}
}

// RandomPoint returns a uniformly random point on the canvas.
func RandomPoint(r *rand.Rand) Point {
	v := r.Uint32()
	return Point{X: uint8(v), Y: uint8(v >> 8)}
}

// Mutate returns a new point with both coordinates mutated by amount.
func (p Point) Mutate(r *rand.Rand, amount float64) Point {
	return Point{
		X: MutateByte(r, p.X, amount),
		Y: MutateByte(r, p.Y, amount),
	}
}

// Scaled returns the point mapped onto a raster of the given size.
// Canvas coordinate 255 maps to width (or height).
func (p Point) Scaled(width, height int) (x, y float64) {
	return float64(p.X) * float64(width) / Canvas, float64(p.Y) * float64(height) / Canvas
}
