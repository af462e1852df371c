package tryi

// div255 divides by 255 using the fast approximation (x + 255) >> 8.
// Exact for x = a*b with a, b in [0, 255] when one operand is 0 or 255.
func div255(x uint16) uint16 {
	return (x + 255) >> 8
}

// mulDiv255 multiplies two bytes and divides by 255.
func mulDiv255(a, b uint8) uint8 {
	return uint8(div255(uint16(a) * uint16(b)))
}

// sourceOver composites the non-premultiplied colour s over the
// non-premultiplied destination pixel d and returns the non-premultiplied
// result.
//
// In premultiplied terms the result is S + D*(1-Sa). Numerator and
// denominator are both scaled by 255*255 so the division back to straight
// alpha happens once, in integers.
func sourceOver(s Color, dr, dg, db, da uint8) (r, g, b, a uint8) {
	sa := uint32(s.A)
	inv := 255 - sa
	dw := uint32(da) * inv // destination weight, scaled by 255

	den := sa*255 + dw
	if den == 0 {
		return 0, 0, 0, 0
	}
	half := den / 2
	r = uint8((uint32(s.R)*sa*255 + uint32(dr)*dw + half) / den)
	g = uint8((uint32(s.G)*sa*255 + uint32(dg)*dw + half) / den)
	b = uint8((uint32(s.B)*sa*255 + uint32(db)*dw + half) / den)
	a = uint8((den + 127) / 255)
	return r, g, b, a
}
