// Package evolve searches for a triangle genome that approximates a target
// raster.
//
// Both strategies start from a genome built greedily by [Bootstrap] (or
// from a supplied genome, see [WithInitial]) and then run generations until
// the genome's fitness, 1 - diff, reaches Config.FitnessThreshold:
//
//   - [SingleParent] is a hill climber over mutated copies of one genome.
//   - [MultiParent] breeds a population with selection and crossover.
//
// Candidates of a round are rendered and scored in parallel. Each candidate
// gets its own random generator seeded before the round starts, so runs
// with [WithSeed] are reproducible whatever the number of workers.
//
// Example:
//
//	ev, err := evolve.NewSingleParent(target, evolve.DefaultConfig(),
//	    evolve.WithPreview(sink),
//	    evolve.WithCheckpointer(store))
//	if err != nil {
//	    return err
//	}
//	best, err := ev.Evolve(ctx)
package evolve

import (
	"context"
	"fmt"

	"github.com/gogpu/tryi"
)

// Evolver runs a search to completion.
type Evolver interface {
	Evolve(ctx context.Context) (Match, error)
}

var (
	_ Evolver = (*SingleParent)(nil)
	_ Evolver = (*MultiParent)(nil)
)

// Strategy names accepted by New.
const (
	StrategySingle = "single"
	StrategyMulti  = "multi"
)

// New returns the evolver for strategy, "single" or "multi".
func New(strategy string, target *tryi.Raster, cfg Config, opts ...Option) (Evolver, error) {
	switch strategy {
	case StrategySingle, "":
		ev, err := NewSingleParent(target, cfg, opts...)
		if err != nil {
			return nil, err
		}
		return ev, nil
	case StrategyMulti:
		ev, err := NewMultiParent(target, cfg, opts...)
		if err != nil {
			return nil, err
		}
		return ev, nil
	}
	return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, strategy)
}
