// Package color provides lookup tables for per-pixel colour arithmetic.
//
// The fitness function touches every channel of every pixel for every
// candidate genome, so the few operations it needs (compositing a
// non-premultiplied channel over black, squaring a channel difference) are
// precomputed once and replaced with array lookups.
package color

import "math"

// compositeLUT[a<<8|c] holds c composited over black with alpha a:
// floor(a/255 * c/255 * 255). 64KB.
var compositeLUT [256 * 256]uint8

// squareLUT[d] holds d*d for a channel difference d in [0, 255].
var squareLUT [256]uint32

func init() {
	for a := 0; a < 256; a++ {
		for c := 0; c < 256; c++ {
			//nolint:gosec // G115: a*c/255 is in [0,255]
			compositeLUT[a<<8|c] = uint8(a * c / 255)
		}
	}
	for d := 0; d < 256; d++ {
		squareLUT[d] = uint32(d * d)
	}
}

// Composite returns channel c of a non-premultiplied pixel with alpha a as
// displayed over a black background.
//
// Example:
//
//	Composite(255, 200) // 200
//	Composite(128, 200) // 100
func Composite(a, c uint8) uint8 {
	return compositeLUT[int(a)<<8|int(c)]
}

// CompositeRow returns the 256-entry slice of the composite table for
// alpha a, so hot loops can index it by channel directly.
func CompositeRow(a uint8) *[256]uint8 {
	return (*[256]uint8)(compositeLUT[int(a)<<8:])
}

// CompositeSlow computes Composite in floating point.
//
// This is the reference implementation. Used for testing and verification
// only.
func CompositeSlow(a, c uint8) uint8 {
	v := float64(a) / 255 * (float64(c) / 255) * 255
	v = math.Floor(v + 1e-9)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Square returns d*d for a channel difference d.
func Square(d uint8) uint32 {
	return squareLUT[d]
}

// AbsDiff returns |a - b|.
func AbsDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
