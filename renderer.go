package tryi

import (
	"image"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/vector"
)

// Renderer paints triangles, in order, source-over onto a raster.
//
// Implementations must be safe for concurrent use on distinct
// destination rasters: the evolver renders many candidates in parallel.
type Renderer interface {
	Render(dst *Raster, triangles []Triangle)
}

// ScanlineRenderer is an aliased scanline triangle filler. A pixel is
// covered when its centre lies inside the triangle. It allocates nothing
// per call and is the default renderer during search.
type ScanlineRenderer struct{}

// Render implements Renderer.
func (ScanlineRenderer) Render(dst *Raster, triangles []Triangle) {
	for _, t := range triangles {
		fillTriangle(dst, t)
	}
}

type edge struct {
	x0, y0 float64 // top endpoint
	x1, y1 float64 // bottom endpoint
}

// fillTriangle rasterizes one triangle with the half-open top-left rule:
// an edge covers scanline centres in [y0, y1).
func fillTriangle(dst *Raster, t Triangle) {
	if t.Color.A == 0 {
		return
	}

	var pts [3][2]float64
	pts[0][0], pts[0][1] = t.P1.Scaled(dst.width, dst.height)
	pts[1][0], pts[1][1] = t.P2.Scaled(dst.width, dst.height)
	pts[2][0], pts[2][1] = t.P3.Scaled(dst.width, dst.height)

	var edges [3]edge
	n := 0
	yMin, yMax := math.MaxFloat64, -math.MaxFloat64
	for i := range 3 {
		a, b := pts[i], pts[(i+1)%3]
		yMin = min(yMin, a[1])
		yMax = max(yMax, a[1])

		// Skip horizontal edges
		if a[1] == b[1] {
			continue
		}
		if a[1] > b[1] {
			a, b = b, a
		}
		edges[n] = edge{x0: a[0], y0: a[1], x1: b[0], y1: b[1]}
		n++
	}
	if n == 0 {
		return
	}

	// Clamp to raster bounds
	yStart := max(int(math.Floor(yMin)), 0)
	yEnd := min(int(math.Ceil(yMax)), dst.height)

	for y := yStart; y < yEnd; y++ {
		scanY := float64(y) + 0.5
		xl, xr := math.MaxFloat64, -math.MaxFloat64
		hits := 0
		for _, e := range edges[:n] {
			if scanY < e.y0 || scanY >= e.y1 {
				continue
			}
			x := e.x0 + (scanY-e.y0)*(e.x1-e.x0)/(e.y1-e.y0)
			xl = min(xl, x)
			xr = max(xr, x)
			hits++
		}
		if hits < 2 {
			continue
		}
		dst.FillSpan(int(math.Ceil(xl-0.5)), int(math.Ceil(xr-0.5)), y, t.Color)
	}
}

// VectorRenderer renders anti-aliased triangles using exact area coverage
// from golang.org/x/image/vector.
type VectorRenderer struct {
	pool sync.Pool
}

// Render implements Renderer.
func (v *VectorRenderer) Render(dst *Raster, triangles []Triangle) {
	w, h := dst.width, dst.height
	z, _ := v.pool.Get().(*vector.Rasterizer)
	if z == nil {
		z = vector.NewRasterizer(w, h)
	}
	defer v.pool.Put(z)

	img := dst.Image()
	bounds := img.Bounds()
	for _, t := range triangles {
		if t.Color.A == 0 {
			continue
		}
		z.Reset(w, h)
		z.DrawOp = draw.Over

		x1, y1 := t.P1.Scaled(w, h)
		x2, y2 := t.P2.Scaled(w, h)
		x3, y3 := t.P3.Scaled(w, h)
		z.MoveTo(float32(x1), float32(y1))
		z.LineTo(float32(x2), float32(y2))
		z.LineTo(float32(x3), float32(y3))
		z.ClosePath()

		z.Draw(img, bounds, image.NewUniform(t.Color.NRGBA()), image.Point{})
	}
}

// defaultRenderer is used when no renderer option is given.
var defaultRenderer Renderer = ScanlineRenderer{}

// ParseRenderer returns the renderer for a configuration name:
// "scanline" (or "") or "vector".
func ParseRenderer(name string) (Renderer, bool) {
	switch name {
	case "", "scanline":
		return ScanlineRenderer{}, true
	case "vector":
		return &VectorRenderer{}, true
	}
	return nil, false
}
