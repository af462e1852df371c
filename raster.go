package tryi

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
)

// Raster is a rectangular, non-premultiplied RGBA pixel buffer.
//
// A Raster owned by a [Tryi] must be treated as read-only: the genome
// guarantees that its raster is the render of its triangles.
type Raster struct {
	width  int
	height int
	pix    []uint8 // NRGBA, 4 bytes per pixel, row-major
}

// NewRaster creates a fully transparent raster with the given dimensions.
func NewRaster(width, height int) *Raster {
	return &Raster{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*4),
	}
}

// RasterFromImage copies img into a new raster.
func RasterFromImage(img image.Image) *Raster {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &Raster{width: b.Dx(), height: b.Dy(), pix: dst.Pix}
}

// Width returns the width of the raster.
func (r *Raster) Width() int {
	return r.width
}

// Height returns the height of the raster.
func (r *Raster) Height() int {
	return r.height
}

// Pix returns the raw pixel data (NRGBA, row-major).
func (r *Raster) Pix() []uint8 {
	return r.pix
}

// Clone returns a deep copy of the raster.
func (r *Raster) Clone() *Raster {
	return &Raster{
		width:  r.width,
		height: r.height,
		pix:    bytes.Clone(r.pix),
	}
}

// Equal reports whether both rasters have the same size and pixels.
func (r *Raster) Equal(o *Raster) bool {
	return r.width == o.width && r.height == o.height && bytes.Equal(r.pix, o.pix)
}

// Fill replaces every pixel with c.
func (r *Raster) Fill(c Color) {
	for i := 0; i < len(r.pix); i += 4 {
		r.pix[i+0] = c.R
		r.pix[i+1] = c.G
		r.pix[i+2] = c.B
		r.pix[i+3] = c.A
	}
}

// Pixel returns the colour of a single pixel. Out-of-bounds reads return
// Transparent.
func (r *Raster) Pixel(x, y int) Color {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return Transparent
	}
	i := (y*r.width + x) * 4
	return Color{r.pix[i], r.pix[i+1], r.pix[i+2], r.pix[i+3]}
}

// SetPixel sets the colour of a single pixel. Out-of-bounds writes are
// ignored.
func (r *Raster) SetPixel(x, y int, c Color) {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return
	}
	i := (y*r.width + x) * 4
	r.pix[i+0] = c.R
	r.pix[i+1] = c.G
	r.pix[i+2] = c.B
	r.pix[i+3] = c.A
}

// FillSpan composites c source-over onto pixels [x1, x2) of row y.
// The span is clipped to the raster.
func (r *Raster) FillSpan(x1, x2, y int, c Color) {
	if y < 0 || y >= r.height || c.A == 0 {
		return
	}
	if x1 < 0 {
		x1 = 0
	}
	if x2 > r.width {
		x2 = r.width
	}
	if x1 >= x2 {
		return
	}

	row := r.pix[(y*r.width+x1)*4 : (y*r.width+x2)*4]
	if c.A == 255 {
		for i := 0; i < len(row); i += 4 {
			row[i+0] = c.R
			row[i+1] = c.G
			row[i+2] = c.B
			row[i+3] = 255
		}
		return
	}
	for i := 0; i < len(row); i += 4 {
		row[i+0], row[i+1], row[i+2], row[i+3] = sourceOver(c, row[i+0], row[i+1], row[i+2], row[i+3])
	}
}

// Image returns an *image.NRGBA sharing the raster's pixels.
func (r *Raster) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    r.pix,
		Stride: r.width * 4,
		Rect:   image.Rect(0, 0, r.width, r.height),
	}
}

// At implements the image.Image interface.
func (r *Raster) At(x, y int) color.Color {
	return r.Pixel(x, y).NRGBA()
}

// Bounds implements the image.Image interface.
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.width, r.height)
}

// ColorModel implements the image.Image interface.
func (r *Raster) ColorModel() color.Model {
	return color.NRGBAModel
}
