// Package imageio loads target images and writes rendered genomes.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // register decoder

	"github.com/gogpu/tryi"
)

// ErrUnknownFormat is returned for an output format that cannot be written.
var ErrUnknownFormat = errors.New("imageio: unknown image format")

// Decode decodes a PNG, JPEG, GIF, BMP, TIFF or WebP image.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode: %w", err)
	}
	return img, nil
}

// Load decodes the image file at path.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("imageio: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Scale resamples img to width x height with Catmull-Rom interpolation.
func Scale(img image.Image, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Target scales img to width x height and returns it as a raster.
func Target(img image.Image, width, height int) *tryi.Raster {
	return tryi.RasterFromImage(Scale(img, width, height))
}

// LoadTarget loads path and scales it to width x height. It also returns
// the size of the original image.
func LoadTarget(path string, width, height int) (*tryi.Raster, image.Point, error) {
	img, err := Load(path)
	if err != nil {
		return nil, image.Point{}, err
	}
	return Target(img, width, height), img.Bounds().Size(), nil
}

// Export renders t at width x height over background with renderer. The
// triangle coordinates scale from the working canvas to the output size.
// A nil renderer selects the scanline renderer.
func Export(t *tryi.Tryi, width, height int, background tryi.Color, renderer tryi.Renderer) *tryi.Raster {
	if renderer == nil {
		renderer = tryi.ScanlineRenderer{}
	}
	r := tryi.NewRaster(width, height)
	r.Fill(background)
	renderer.Render(r, t.Triangles())
	return r
}

// Format is an output image format.
type Format string

// Output formats.
const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// FormatFromPath returns the format named by the extension of path.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}

// Encode writes img in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img)
	case JPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case GIF:
		err = gif.Encode(w, img, nil)
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return fmt.Errorf("imageio: encode %s: %w", f, err)
	}
	return nil
}

// WritePNG writes r as PNG.
func WritePNG(w io.Writer, r *tryi.Raster) error {
	return Encode(w, r.Image(), PNG)
}

// Save writes img to path in the format named by its extension.
func Save(path string, img image.Image) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return fmt.Errorf("imageio: %w", err)
	}
	if err := Encode(out, img, f); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("imageio: %w", err)
	}
	return nil
}
