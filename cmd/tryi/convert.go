package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/tryi"
	"github.com/gogpu/tryi/imageio"
	"github.com/gogpu/tryi/store"
)

type convertFlags struct {
	width      int
	height     int
	renderer   string
	background string
}

func newConvertCmd(a *app) *cobra.Command {
	f := &convertFlags{}
	cmd := &cobra.Command{
		Use:   "convert [flags] <input> <output>",
		Short: "Convert a genome to another genome file or an image",
		Long: `Convert reads a .tryi genome or a .dna polygon file and writes a .tryi
genome or an image. The image format follows the output extension: png,
jpeg, gif, bmp or tiff. Images are rendered at the size stored in the
genome unless --width and --height are given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(f, args[0], args[1])
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&f.width, "width", 0, "output width, 0 for the stored width")
	fl.IntVar(&f.height, "height", 0, "output height, 0 for the stored height")
	fl.StringVar(&f.renderer, "renderer", "", "triangle renderer: scanline or vector (default from config)")
	fl.StringVar(&f.background, "background", "white", "image background: white, black or transparent")
	return cmd
}

func (a *app) runConvert(f *convertFlags, in, out string) error {
	name := f.renderer
	if name == "" {
		name = a.cfg.Renderer
	}
	renderer, ok := tryi.ParseRenderer(name)
	if !ok {
		return fmt.Errorf("unknown renderer %q", name)
	}
	background, err := parseBackground(f.background)
	if err != nil {
		return err
	}

	width, height, t, err := readGenome(in)
	if err != nil {
		return err
	}
	if f.width > 0 {
		width = f.width
	}
	if f.height > 0 {
		height = f.height
	}
	if width > tryi.MaxOutput || height > tryi.MaxOutput {
		return fmt.Errorf("%w: %dx%d exceeds %d", tryi.ErrInvalidSize, width, height, tryi.MaxOutput)
	}

	if strings.EqualFold(filepath.Ext(out), store.Ext) {
		if err := os.WriteFile(out, []byte(tryi.EncodeSized(width, height, t)), 0o600); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
	} else {
		img := imageio.Export(t, width, height, background, renderer)
		if err := imageio.Save(out, img.Image()); err != nil {
			return err
		}
	}
	a.logger.Info("converted", "in", in, "out", out, "width", width, "height", height,
		"triangles", len(t.Triangles()))
	return nil
}

// readGenome reads a .tryi or .dna file. DNA files carry no size and
// report the working canvas.
func readGenome(path string) (width, height int, t *tryi.Tryi, err error) {
	if !strings.EqualFold(filepath.Ext(path), ".dna") {
		return store.ReadFile(path)
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return 0, 0, nil, err
	}
	t, err = tryi.ReadDNA(string(data))
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%s: %w", path, err)
	}
	return tryi.Canvas, tryi.Canvas, t, nil
}

func parseBackground(name string) (tryi.Color, error) {
	switch name {
	case "white":
		return tryi.White, nil
	case "black":
		return tryi.Black, nil
	case "transparent":
		return tryi.Transparent, nil
	}
	return tryi.Color{}, fmt.Errorf("unknown background %q", name)
}
