package tryi

import (
	"math/rand/v2"
	"slices"
)

// Tryi is a genome: an ordered list of triangles and their rendered raster.
//
// A Tryi is immutable. Its raster is rendered once, when the genome is
// created, and every derived genome gets its own raster.
type Tryi struct {
	triangles []Triangle
	raster    *Raster
	opts      options
}

// New creates a genome from triangles and renders it onto a transparent
// raster. The slice is copied.
func New(triangles []Triangle, opts ...Option) *Tryi {
	return build(slices.Clone(triangles), newOptions(opts))
}

// Empty returns a genome with no triangles over a blank raster.
func Empty(opts ...Option) *Tryi {
	o := newOptions(opts)
	return &Tryi{
		raster: NewRaster(o.width, o.height),
		opts:   o,
	}
}

// Random returns a genome of n random triangles.
func Random(r *rand.Rand, n int, opts ...Option) *Tryi {
	triangles := make([]Triangle, n)
	for i := range triangles {
		triangles[i] = RandomTriangle(r)
	}
	return build(triangles, newOptions(opts))
}

// build takes ownership of triangles.
func build(triangles []Triangle, o options) *Tryi {
	raster := NewRaster(o.width, o.height)
	o.renderer.Render(raster, triangles)
	return &Tryi{triangles: triangles, raster: raster, opts: o}
}

// Derive creates a new genome from triangles with the same size and
// renderer as t. The slice is copied.
func (t *Tryi) Derive(triangles []Triangle) *Tryi {
	return build(slices.Clone(triangles), t.opts)
}

// With returns a new genome with tri painted on top of t. Only tri is
// rendered: t's raster is copied, never modified.
func (t *Tryi) With(tri Triangle) *Tryi {
	triangles := make([]Triangle, len(t.triangles), len(t.triangles)+1)
	copy(triangles, t.triangles)
	triangles = append(triangles, tri)

	raster := t.raster.Clone()
	t.opts.renderer.Render(raster, []Triangle{tri})
	return &Tryi{triangles: triangles, raster: raster, opts: t.opts}
}

// Len returns the number of triangles.
func (t *Tryi) Len() int {
	return len(t.triangles)
}

// Triangle returns the i-th triangle.
func (t *Tryi) Triangle(i int) Triangle {
	return t.triangles[i]
}

// Triangles returns a copy of the triangle list.
func (t *Tryi) Triangles() []Triangle {
	return slices.Clone(t.triangles)
}

// All iterates over the triangles in paint order without copying.
func (t *Tryi) All(yield func(int, Triangle) bool) {
	for i, tri := range t.triangles {
		if !yield(i, tri) {
			return
		}
	}
}

// Raster returns the rendered raster. It must not be modified.
func (t *Tryi) Raster() *Raster {
	return t.raster
}

// Width returns the raster width.
func (t *Tryi) Width() int {
	return t.raster.width
}

// Height returns the raster height.
func (t *Tryi) Height() int {
	return t.raster.height
}

// Equal reports whether both genomes have the same triangles in the same
// order.
func (t *Tryi) Equal(o *Tryi) bool {
	return slices.Equal(t.triangles, o.triangles)
}
