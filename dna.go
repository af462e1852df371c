package tryi

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// dnaVertices is the only polygon shape ReadDNA accepts.
const dnaVertices = 3

// ReadDNA imports the plain-text polygon format
//
//	3 <count> [r g b a x1 y1 x2 y2 x3 y3]...
//
// Colour channels are integers in [0, 255], alpha is a float in [0, 1]
// scaled to a byte, coordinates are numbers in [0, 255] rounded to the
// nearest canvas position. Tokens may be separated by any whitespace.
// The format is read-only: genomes are never written back as DNA.
func ReadDNA(s string, opts ...Option) (*Tryi, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: missing header", ErrInvalidDNA)
	}
	if fields[0] != strconv.Itoa(dnaVertices) {
		return nil, fmt.Errorf("%w: unsupported primitive %q, want %d vertices", ErrInvalidDNA, fields[0], dnaVertices)
	}
	count, err := strconv.Atoi(fields[1])
	values := fields[2:]
	if err != nil || count < 0 || count > len(values)/TriangleBytes {
		return nil, fmt.Errorf("%w: invalid polygon count %q", ErrInvalidDNA, fields[1])
	}

	if len(values) != count*TriangleBytes {
		return nil, fmt.Errorf("%w: %d polygons need %d values, got %d",
			ErrInvalidDNA, count, count*TriangleBytes, len(values))
	}

	triangles := make([]Triangle, count)
	for i := range triangles {
		v := values[i*TriangleBytes : (i+1)*TriangleBytes]
		var b [TriangleBytes]byte

		// colour: r g b as bytes, alpha as a fraction
		for c := range 3 {
			n, err := strconv.Atoi(v[c])
			if err != nil || n < 0 || n > 255 {
				return nil, fmt.Errorf("%w: polygon %d: colour component %q", ErrInvalidDNA, i, v[c])
			}
			b[6+c] = uint8(n)
		}
		alpha, err := strconv.ParseFloat(v[3], 64)
		if err != nil || alpha < 0 || alpha > 1 || math.IsNaN(alpha) {
			return nil, fmt.Errorf("%w: polygon %d: alpha %q", ErrInvalidDNA, i, v[3])
		}
		b[9] = uint8(math.Round(alpha * 255))

		// vertices
		for c := range 6 {
			f, err := strconv.ParseFloat(v[4+c], 64)
			if err != nil || f < 0 || f > 255 || math.IsNaN(f) {
				return nil, fmt.Errorf("%w: polygon %d: coordinate %q", ErrInvalidDNA, i, v[4+c])
			}
			b[c] = uint8(math.Round(f))
		}
		triangles[i] = TriangleFromBytes(b)
	}
	return build(triangles, newOptions(opts)), nil
}
