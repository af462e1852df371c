package preview

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gogpu/tryi"
	"github.com/gogpu/tryi/evolve"
	"github.com/gogpu/tryi/imageio"
)

// PNGFile writes every preview update to a PNG file. The file is replaced
// atomically, so viewers never see a partial image.
type PNGFile struct {
	Path   string
	Logger *slog.Logger
}

var _ evolve.Preview = (*PNGFile)(nil)

// Update implements evolve.Preview. Write failures are logged.
func (p *PNGFile) Update(r *tryi.Raster) {
	logger := p.Logger
	if logger == nil {
		logger = tryi.Logger()
	}
	if err := p.write(r); err != nil {
		logger.Warn("preview: write png", "path", p.Path, "error", err)
	}
}

func (p *PNGFile) write(r *tryi.Raster) error {
	var buf bytes.Buffer
	if err := imageio.WritePNG(&buf, r); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p.Path), ".preview-*.png")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p.Path)
}

// Multi fans a preview update out to several sinks.
type Multi []evolve.Preview

// Update implements evolve.Preview.
func (m Multi) Update(r *tryi.Raster) {
	for _, p := range m {
		p.Update(r)
	}
}
