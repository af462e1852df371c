package diff

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/gogpu/tryi"
)

var algorithms = []Algorithm{Composite, Flat, Naive, Euclidean}

func solid(w, h int, c tryi.Color) *tryi.Raster {
	r := tryi.NewRaster(w, h)
	r.Fill(c)
	return r
}

func noise(seed uint64, w, h int, opaque bool) *tryi.Raster {
	rng := rand.New(rand.NewPCG(seed, seed))
	r := tryi.NewRaster(w, h)
	pix := r.Pix()
	for i := range pix {
		pix[i] = uint8(rng.IntN(256))
		if opaque && i%4 == 3 {
			pix[i] = 255
		}
	}
	return r
}

func TestDiff_Identical(t *testing.T) {
	r := noise(1, 64, 48, false)
	for _, alg := range algorithms {
		got, err := alg.Diff(r, r.Clone())
		if err != nil {
			t.Fatalf("%v: %v", alg, err)
		}
		if got != 0 {
			t.Errorf("%v.Diff(R, R) = %v, want 0", alg, got)
		}
	}
}

func TestDiff_Symmetric(t *testing.T) {
	a := noise(2, 40, 30, false)
	b := noise(3, 40, 30, false)
	for _, alg := range algorithms {
		ab, err := alg.Diff(a, b)
		if err != nil {
			t.Fatal(err)
		}
		ba, _ := alg.Diff(b, a)
		if ab != ba {
			t.Errorf("%v: diff(a,b)=%v, diff(b,a)=%v", alg, ab, ba)
		}
		if ab <= 0 || ab > 1 {
			t.Errorf("%v: diff out of (0, 1]: %v", alg, ab)
		}
	}
}

func TestDiff_Extremes(t *testing.T) {
	black := solid(10, 10, tryi.Black)
	white := solid(10, 10, tryi.White)
	for _, alg := range algorithms {
		got, err := alg.Diff(black, white)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-1) > 1e-12 {
			t.Errorf("%v.Diff(black, white) = %v, want 1", alg, got)
		}
	}
}

func TestDiff_KnownValues(t *testing.T) {
	red := solid(4, 4, tryi.RGBA(255, 0, 0, 255))
	black := solid(4, 4, tryi.Black)

	tests := []struct {
		alg  Algorithm
		want float64
	}{
		{Composite, 1.0 / 3},
		{Flat, 1.0 / 3},
		{Naive, 1.0 / 3},
		{Euclidean, 1 / math.Sqrt(3)},
	}
	for _, tt := range tests {
		got, err := tt.alg.Diff(red, black)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%v = %v, want %v", tt.alg, got, tt.want)
		}
	}
}

// Transparent pixels display as black, so only Composite and Euclidean
// see through them.
func TestDiff_CompositeIgnoresHiddenColour(t *testing.T) {
	hidden := solid(8, 8, tryi.RGBA(255, 255, 255, 0))
	black := solid(8, 8, tryi.Transparent)

	for _, alg := range []Algorithm{Composite, Euclidean} {
		if got, _ := alg.Diff(hidden, black); got != 0 {
			t.Errorf("%v: invisible colour should not count, got %v", alg, got)
		}
	}
	if got, _ := Flat.Diff(hidden, black); got != 1 {
		t.Errorf("Flat compares raw channels, got %v, want 1", got)
	}
}

func TestDiff_VariantsAgreeOnOpaque(t *testing.T) {
	a := noise(4, 33, 17, true)
	b := noise(5, 33, 17, true)

	c, _ := Composite.Diff(a, b)
	f, _ := Flat.Diff(a, b)
	n, _ := Naive.Diff(a, b)
	if c != f {
		t.Errorf("Composite %v != Flat %v on opaque rasters", c, f)
	}
	if math.Abs(n-f) > 1e-9 {
		t.Errorf("Naive %v differs from Flat %v", n, f)
	}
}

func TestDiff_Default(t *testing.T) {
	a := noise(6, 16, 16, false)
	b := noise(7, 16, 16, false)
	d, err := Diff(a, b)
	if err != nil {
		t.Fatal(err)
	}
	c, _ := Composite.Diff(a, b)
	if d != c {
		t.Errorf("Diff() = %v, want Composite %v", d, c)
	}
}

func TestDiff_Errors(t *testing.T) {
	a := tryi.NewRaster(10, 10)
	for _, b := range []*tryi.Raster{tryi.NewRaster(11, 10), tryi.NewRaster(10, 9)} {
		for _, alg := range algorithms {
			_, err := alg.Diff(a, b)
			if !errors.Is(err, ErrSizeMismatch) {
				t.Errorf("%v: error = %v, want ErrSizeMismatch", alg, err)
			}
		}
	}
	if _, err := Algorithm(200).Diff(a, a); err == nil {
		t.Error("unknown algorithm should fail")
	}
}

func TestDiff_Empty(t *testing.T) {
	a := tryi.NewRaster(0, 0)
	for _, alg := range algorithms {
		if got, err := alg.Diff(a, a); err != nil || got != 0 {
			t.Errorf("%v on empty raster = %v, %v", alg, got, err)
		}
	}
}

func TestParseAlgorithm(t *testing.T) {
	for _, alg := range algorithms {
		got, err := ParseAlgorithm(alg.String())
		if err != nil || got != alg {
			t.Errorf("ParseAlgorithm(%q) = %v, %v", alg.String(), got, err)
		}
	}
	if got, _ := ParseAlgorithm(""); got != Composite {
		t.Errorf("empty name = %v, want composite", got)
	}
	if _, err := ParseAlgorithm("manhattan"); err == nil {
		t.Error("unknown name should fail")
	}

	var alg Algorithm
	if err := alg.UnmarshalText([]byte("euclidean")); err != nil || alg != Euclidean {
		t.Errorf("UnmarshalText = %v, %v", alg, err)
	}
}

func benchmarkDiff(b *testing.B, alg Algorithm) {
	x := noise(8, tryi.Canvas, tryi.Canvas, false)
	y := noise(9, tryi.Canvas, tryi.Canvas, false)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = alg.Diff(x, y)
	}
}

func BenchmarkDiff_Naive(b *testing.B)     { benchmarkDiff(b, Naive) }
func BenchmarkDiff_Flat(b *testing.B)      { benchmarkDiff(b, Flat) }
func BenchmarkDiff_Composite(b *testing.B) { benchmarkDiff(b, Composite) }
func BenchmarkDiff_Euclidean(b *testing.B) { benchmarkDiff(b, Euclidean) }
