package tryi

import "testing"

var halfCanvas = Triangle{Pt(0, 0), Pt(255, 0), Pt(0, 255), RGBA(255, 0, 0, 255)}

func TestScanlineRenderer_Coverage(t *testing.T) {
	r := NewRaster(Canvas, Canvas)
	ScanlineRenderer{}.Render(r, []Triangle{halfCanvas})

	if got := r.Pixel(10, 10); got != RGBA(255, 0, 0, 255) {
		t.Errorf("inside pixel = %v, want opaque red", got)
	}
	if got := r.Pixel(250, 250); got != Transparent {
		t.Errorf("outside pixel = %v, want transparent", got)
	}
	if got := r.Pixel(0, 253); got != RGBA(255, 0, 0, 255) {
		t.Errorf("left edge pixel = %v, want opaque red", got)
	}
}

func TestScanlineRenderer_PaintOrder(t *testing.T) {
	blue := halfCanvas
	blue.Color = RGBA(0, 0, 255, 255)

	r := NewRaster(Canvas, Canvas)
	ScanlineRenderer{}.Render(r, []Triangle{halfCanvas, blue})
	if got := r.Pixel(10, 10); got != blue.Color {
		t.Errorf("pixel = %v, want later triangle %v on top", got, blue.Color)
	}

	r = NewRaster(Canvas, Canvas)
	ScanlineRenderer{}.Render(r, []Triangle{blue, halfCanvas})
	if got := r.Pixel(10, 10); got != halfCanvas.Color {
		t.Errorf("pixel = %v, want later triangle %v on top", got, halfCanvas.Color)
	}
}

func TestScanlineRenderer_Translucent(t *testing.T) {
	tri := halfCanvas
	tri.Color = RGBA(200, 100, 50, 128)

	r := NewRaster(Canvas, Canvas)
	ScanlineRenderer{}.Render(r, []Triangle{tri})
	if got := r.Pixel(10, 10); got != tri.Color {
		t.Errorf("translucent over transparent = %v, want %v", got, tri.Color)
	}

	// Over an opaque black background the colour is composited.
	r.Fill(Black)
	ScanlineRenderer{}.Render(r, []Triangle{tri})
	got := r.Pixel(10, 10)
	if got.A != 255 {
		t.Errorf("alpha over opaque = %d, want 255", got.A)
	}
	if d := int(got.R) - 100; d < -1 || d > 1 {
		t.Errorf("red over black = %d, want ~100", got.R)
	}
}

func TestScanlineRenderer_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		tri  Triangle
	}{
		{"point", Triangle{Pt(5, 5), Pt(5, 5), Pt(5, 5), White}},
		{"horizontal line", Triangle{Pt(0, 5), Pt(100, 5), Pt(200, 5), White}},
		{"invisible", Triangle{Pt(0, 0), Pt(255, 0), Pt(0, 255), RGBA(255, 255, 255, 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRaster(Canvas, Canvas)
			ScanlineRenderer{}.Render(r, []Triangle{tt.tri})
			if !r.Equal(NewRaster(Canvas, Canvas)) {
				t.Error("degenerate triangle painted pixels")
			}
		})
	}
}

func TestScanlineRenderer_Scaled(t *testing.T) {
	r := NewRaster(510, 100)
	ScanlineRenderer{}.Render(r, []Triangle{halfCanvas})
	if got := r.Pixel(20, 5); got != halfCanvas.Color {
		t.Errorf("scaled inside pixel = %v, want %v", got, halfCanvas.Color)
	}
	if got := r.Pixel(500, 95); got != Transparent {
		t.Errorf("scaled outside pixel = %v, want transparent", got)
	}
}

func TestVectorRenderer_Coverage(t *testing.T) {
	r := NewRaster(Canvas, Canvas)
	(&VectorRenderer{}).Render(r, []Triangle{halfCanvas})

	got := r.Pixel(10, 10)
	if got.R < 254 || got.G > 1 || got.B > 1 || got.A < 254 {
		t.Errorf("inside pixel = %v, want opaque red", got)
	}
	if got := r.Pixel(250, 250); got != Transparent {
		t.Errorf("outside pixel = %v, want transparent", got)
	}
}

func TestParseRenderer(t *testing.T) {
	for _, name := range []string{"", "scanline", "vector"} {
		if _, ok := ParseRenderer(name); !ok {
			t.Errorf("ParseRenderer(%q) not found", name)
		}
	}
	if _, ok := ParseRenderer("opengl"); ok {
		t.Error("ParseRenderer(opengl) should fail")
	}
}

func BenchmarkScanlineRenderer(b *testing.B) {
	r := newRand(9)
	g := Random(r, 150)
	dst := NewRaster(Canvas, Canvas)
	tris := g.Triangles()
	b.ResetTimer()
	for range b.N {
		ScanlineRenderer{}.Render(dst, tris)
	}
}

func BenchmarkVectorRenderer(b *testing.B) {
	r := newRand(9)
	g := Random(r, 150)
	dst := NewRaster(Canvas, Canvas)
	tris := g.Triangles()
	vr := &VectorRenderer{}
	b.ResetTimer()
	for range b.N {
		vr.Render(dst, tris)
	}
}
