package tryi

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// MutateByte returns v moved by a uniform random step in [-d, +d], where
// d = max(round(v*amount), 1), clamped to [0, 255].
//
// amount is a fraction of the current value, not an absolute delta. The
// minimum step of 1 keeps values at or near zero mutable.
func MutateByte(r *rand.Rand, v uint8, amount float64) uint8 {
	d := int(math.Round(float64(v) * amount))
	if d < 1 {
		d = 1
	}
	return clampByte(int(v) + r.IntN(2*d+1) - d)
}

// clampByte clamps an int to the [0, 255] range.
func clampByte(x int) uint8 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return uint8(x)
}

// roll reports whether an event with probability chance happens.
// A chance of 0 never fires, a chance of 1 always does.
func roll(r *rand.Rand, chance float64) bool {
	return r.Float64() < chance
}

// MutationType selects how a triangle mutates.
type MutationType uint8

const (
	// MutateFull mutates all ten values of a triangle together, with
	// probability chance. Otherwise the triangle is unchanged.
	MutateFull MutationType = iota

	// MutateGene mutates each of the ten values of a triangle
	// independently, each with probability chance.
	MutateGene
)

// String returns the configuration name of the mutation type.
func (m MutationType) String() string {
	switch m {
	case MutateFull:
		return "full"
	case MutateGene:
		return "gene"
	default:
		return fmt.Sprintf("MutationType(%d)", uint8(m))
	}
}

// ParseMutationType parses "full" or "gene".
func ParseMutationType(s string) (MutationType, error) {
	switch s {
	case "full", "FULL":
		return MutateFull, nil
	case "gene", "GENE":
		return MutateGene, nil
	}
	return 0, fmt.Errorf("tryi: unknown mutation type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m MutationType) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MutationType) UnmarshalText(b []byte) error {
	v, err := ParseMutationType(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
