package tryi

import "math/rand/v2"

// TriangleBytes is the serialized size of one triangle.
const TriangleBytes = 10

// Triangle is a single gene: three corners and a fill colour.
type Triangle struct {
	P1, P2, P3 Point
	Color      Color
}

// RandomTriangle returns a triangle with random corners and colour.
func RandomTriangle(r *rand.Rand) Triangle {
	return Triangle{
		P1:    RandomPoint(r),
		P2:    RandomPoint(r),
		P3:    RandomPoint(r),
		Color: RandomColor(r),
	}
}

// TriangleFromBytes decodes a triangle from its 10-byte form.
func TriangleFromBytes(b [TriangleBytes]byte) Triangle {
	return Triangle{
		P1:    Point{b[0], b[1]},
		P2:    Point{b[2], b[3]},
		P3:    Point{b[4], b[5]},
		Color: Color{b[6], b[7], b[8], b[9]},
	}
}

// Bytes returns the serialization order: p1.x p1.y p2.x p2.y p3.x p3.y r g b a.
func (t Triangle) Bytes() [TriangleBytes]byte {
	return [TriangleBytes]byte{
		t.P1.X, t.P1.Y, t.P2.X, t.P2.Y, t.P3.X, t.P3.Y,
		t.Color.R, t.Color.G, t.Color.B, t.Color.A,
	}
}

// Xs returns the x coordinates of the corners.
func (t Triangle) Xs() [3]int {
	return [3]int{int(t.P1.X), int(t.P2.X), int(t.P3.X)}
}

// Ys returns the y coordinates of the corners.
func (t Triangle) Ys() [3]int {
	return [3]int{int(t.P1.Y), int(t.P2.Y), int(t.P3.Y)}
}

// Mutate returns a mutated copy of the triangle according to policy.
//
// With MutateFull the whole triangle mutates with probability chance.
// With MutateGene each of the ten values mutates independently with
// probability chance. Unknown policies return t unchanged.
func (t Triangle) Mutate(r *rand.Rand, policy MutationType, chance, amount float64) Triangle {
	switch policy {
	case MutateFull:
		if !roll(r, chance) {
			return t
		}
		return Triangle{
			P1:    t.P1.Mutate(r, amount),
			P2:    t.P2.Mutate(r, amount),
			P3:    t.P3.Mutate(r, amount),
			Color: t.Color.Mutate(r, amount),
		}
	case MutateGene:
		b := t.Bytes()
		for i := range b {
			if roll(r, chance) {
				b[i] = MutateByte(r, b[i], amount)
			}
		}
		return TriangleFromBytes(b)
	default:
		return t
	}
}
