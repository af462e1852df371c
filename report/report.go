// Package report records the fitness of a run and plots it.
package report

import (
	"errors"
	"fmt"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/gogpu/tryi/evolve"
)

// ErrEmpty is returned when plotting a history with no steps.
var ErrEmpty = errors.New("report: empty history")

// History records the best fitness after every step of a run.
type History struct {
	mu    sync.Mutex
	steps []evolve.Stats
}

var _ evolve.Observer = (*History)(nil)

// Observe implements evolve.Observer.
func (h *History) Observe(s evolve.Stats) {
	h.mu.Lock()
	h.steps = append(h.steps, s)
	h.mu.Unlock()
}

// Steps returns a copy of the recorded steps.
func (h *History) Steps() []evolve.Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]evolve.Stats, len(h.steps))
	copy(out, h.steps)
	return out
}

// Points returns (step index, fitness) pairs of one phase. Step indexes
// count bootstrap rounds first, then generations, so both phases share an
// x axis.
func (h *History) Points(phase evolve.Phase) plotter.XYs {
	var pts plotter.XYs
	for i, s := range h.Steps() {
		if s.Phase == phase {
			pts = append(pts, plotter.XY{X: float64(i + 1), Y: 1 - s.Diff})
		}
	}
	return pts
}

// Plot draws fitness over steps and saves it to path. The image format
// follows the extension of path (png, svg, pdf, ...).
func (h *History) Plot(path, title string) error {
	boot := h.Points(evolve.PhaseBootstrap)
	gens := h.Points(evolve.PhaseEvolve)
	if len(boot) == 0 && len(gens) == 0 {
		return ErrEmpty
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Step"
	p.Y.Label.Text = "Fitness"
	p.Legend.Top = false
	p.Legend.Left = false

	for _, series := range []struct {
		name string
		pts  plotter.XYs
	}{
		{"bootstrap", boot},
		{"evolve", gens},
	} {
		if len(series.pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(series.pts)
		if err != nil {
			return fmt.Errorf("report: %s line: %w", series.name, err)
		}
		if series.name == "evolve" {
			line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		}
		p.Add(line)
		p.Legend.Add(series.name, line)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("report: save %s: %w", path, err)
	}
	return nil
}
