// Package diff measures how far a rendered genome is from its target.
//
// Every algorithm returns a dissimilarity in [0, 1]: 0 for identical
// rasters, 1 for maximally different ones. Algorithms are not
// interchangeable within a run: Euclidean is steeper than the linear
// metrics, so a fitness threshold tuned for one does not carry over to
// the other.
package diff

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/tryi"
	"github.com/gogpu/tryi/internal/color"
)

var (
	// ErrSizeMismatch is returned when the two rasters differ in width or
	// height.
	ErrSizeMismatch = errors.New("diff: raster sizes differ")

	// ErrTooLarge is returned when a raster has so many pixels that the
	// integer accumulator could overflow.
	ErrTooLarge = errors.New("diff: raster too large")
)

// MaxPixels is the largest pixel count any algorithm accepts.
const MaxPixels = math.MaxInt64 / 3 / 255

// Algorithm selects a difference implementation.
type Algorithm uint8

const (
	// Composite compares colours as displayed over black: each channel is
	// first scaled by its pixel's alpha. This is the default.
	Composite Algorithm = iota

	// Flat compares raw channels in a single pass over the pixel slices.
	// Alpha is ignored.
	Flat

	// Naive compares raw channels pixel by pixel through Raster.Pixel,
	// keeping a running mean. Alpha is ignored. It is the slowest variant
	// and exists as a reference.
	Naive

	// Euclidean measures the per-pixel RGB distance of composited colours,
	// normalized by sqrt(3)*255.
	Euclidean
)

// Diff returns the Composite difference of a and b.
func Diff(a, b *tryi.Raster) (float64, error) {
	return Composite.Diff(a, b)
}

// Diff returns the difference of a and b in [0, 1].
func (alg Algorithm) Diff(a, b *tryi.Raster) (float64, error) {
	if err := check(a, b); err != nil {
		return 0, err
	}
	switch alg {
	case Composite:
		return composite(a.Pix(), b.Pix()), nil
	case Flat:
		return flat(a.Pix(), b.Pix()), nil
	case Naive:
		return naive(a, b), nil
	case Euclidean:
		return euclidean(a.Pix(), b.Pix()), nil
	}
	return 0, fmt.Errorf("diff: unknown algorithm %d", uint8(alg))
}

func check(a, b *tryi.Raster) error {
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch,
			a.Width(), a.Height(), b.Width(), b.Height())
	}
	if n := a.Width() * a.Height(); n > MaxPixels {
		return fmt.Errorf("%w: %d pixels", ErrTooLarge, n)
	}
	return nil
}

// String returns the configuration name of the algorithm.
func (alg Algorithm) String() string {
	switch alg {
	case Composite:
		return "composite"
	case Flat:
		return "flat"
	case Naive:
		return "naive"
	case Euclidean:
		return "euclidean"
	default:
		return fmt.Sprintf("Algorithm(%d)", uint8(alg))
	}
}

// ParseAlgorithm parses an algorithm name. The empty string selects
// Composite.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "", "composite":
		return Composite, nil
	case "flat":
		return Flat, nil
	case "naive":
		return Naive, nil
	case "euclidean":
		return Euclidean, nil
	}
	return 0, fmt.Errorf("diff: unknown algorithm %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (alg Algorithm) MarshalText() ([]byte, error) {
	return []byte(alg.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (alg *Algorithm) UnmarshalText(b []byte) error {
	v, err := ParseAlgorithm(string(b))
	if err != nil {
		return err
	}
	*alg = v
	return nil
}

func naive(a, b *tryi.Raster) float64 {
	var mean float64
	n := 0
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			pa, pb := a.Pixel(x, y), b.Pixel(x, y)
			d := int(color.AbsDiff(pa.R, pb.R)) +
				int(color.AbsDiff(pa.G, pb.G)) +
				int(color.AbsDiff(pa.B, pb.B))
			n++
			mean += (float64(d)/(3*255) - mean) / float64(n)
		}
	}
	return mean
}

func flat(a, b []uint8) float64 {
	if len(a) == 0 {
		return 0
	}
	var sum uint64
	for i := 0; i < len(a); i += 4 {
		sum += uint64(color.AbsDiff(a[i+0], b[i+0]))
		sum += uint64(color.AbsDiff(a[i+1], b[i+1]))
		sum += uint64(color.AbsDiff(a[i+2], b[i+2]))
	}
	return float64(sum) / (float64(len(a)/4) * 3 * 255)
}

func composite(a, b []uint8) float64 {
	if len(a) == 0 {
		return 0
	}
	var sum uint64
	for i := 0; i < len(a); i += 4 {
		ra := color.CompositeRow(a[i+3])
		rb := color.CompositeRow(b[i+3])
		sum += uint64(color.AbsDiff(ra[a[i+0]], rb[b[i+0]]))
		sum += uint64(color.AbsDiff(ra[a[i+1]], rb[b[i+1]]))
		sum += uint64(color.AbsDiff(ra[a[i+2]], rb[b[i+2]]))
	}
	return float64(sum) / (float64(len(a)/4) * 3 * 255)
}

func euclidean(a, b []uint8) float64 {
	if len(a) == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < len(a); i += 4 {
		ra := color.CompositeRow(a[i+3])
		rb := color.CompositeRow(b[i+3])
		sq := color.Square(color.AbsDiff(ra[a[i+0]], rb[b[i+0]])) +
			color.Square(color.AbsDiff(ra[a[i+1]], rb[b[i+1]])) +
			color.Square(color.AbsDiff(ra[a[i+2]], rb[b[i+2]]))
		sum += math.Sqrt(float64(sq))
	}
	return sum / (float64(len(a)/4) * math.Sqrt(3) * 255)
}
