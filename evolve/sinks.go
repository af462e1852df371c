package evolve

import (
	"context"
	"time"

	"github.com/gogpu/tryi"
)

// Preview receives the raster of every new best genome.
//
// Update is called from the evolver goroutine at most once per generation,
// and only when the generation improved. The raster must not be modified.
type Preview interface {
	Update(raster *tryi.Raster)
}

// NopPreview is a Preview that discards updates.
type NopPreview struct{}

// Update implements Preview.
func (NopPreview) Update(*tryi.Raster) {}

// Checkpoint is a snapshot of the best genome.
type Checkpoint struct {
	// RunID identifies the evolution run. Empty when unset.
	RunID string

	// Generation is the generation the snapshot was taken after. Bootstrap
	// is generation 0.
	Generation int

	Match Match

	// Final is set for the snapshot taken when Evolve returns.
	Final bool
}

// Checkpointer persists checkpoints. A Save error aborts the run.
type Checkpointer interface {
	Save(ctx context.Context, cp Checkpoint) error
}

// NopCheckpointer is a Checkpointer that stores nothing.
type NopCheckpointer struct{}

// Save implements Checkpointer.
func (NopCheckpointer) Save(context.Context, Checkpoint) error { return nil }

// Phase names the stage of a run.
type Phase uint8

const (
	// PhaseBootstrap is the greedy construction of the initial genome.
	// Its steps count triangles, not generations.
	PhaseBootstrap Phase = iota

	// PhaseEvolve is the generation loop.
	PhaseEvolve
)

// String returns "bootstrap" or "evolve".
func (p Phase) String() string {
	if p == PhaseBootstrap {
		return "bootstrap"
	}
	return "evolve"
}

// Stats describes one finished step of a run.
type Stats struct {
	Phase Phase

	// Step is the generation number, or the triangle count during
	// bootstrap.
	Step int

	// Diff is the best diff after the step.
	Diff float64

	// Improved reports whether the step replaced the best genome.
	Improved bool

	// Duration is how long the step took.
	Duration time.Duration
}

// Observer is notified after every step. Observe is called from the
// evolver goroutine and should return quickly.
type Observer interface {
	Observe(s Stats)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Stats)

// Observe implements Observer.
func (f ObserverFunc) Observe(s Stats) { f(s) }

type observers []Observer

func (o observers) Observe(s Stats) {
	for _, ob := range o {
		ob.Observe(s)
	}
}
