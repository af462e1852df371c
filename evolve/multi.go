package evolve

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/gogpu/tryi"
	"github.com/gogpu/tryi/internal/parallel"
)

// MultiParent is a population search. Every generation breeds
// PopulationSize children by selection and crossover. If the best child
// beats the current best, the children replace the whole population;
// otherwise the generation is discarded.
type MultiParent struct {
	cfg      Config
	selector Selector
	env      *env
}

// NewMultiParent returns a population search approximating target.
func NewMultiParent(target *tryi.Raster, cfg Config, opts ...Option) (*MultiParent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e, err := newEnv(target, opts)
	if err != nil {
		return nil, err
	}
	return &MultiParent{cfg: cfg, selector: cfg.Selector(), env: e}, nil
}

// Evolve runs until the fitness threshold is reached, the generation cap
// is hit, or ctx is cancelled. On cancellation it returns the best match
// so far with ctx.Err().
func (m *MultiParent) Evolve(ctx context.Context) (Match, error) {
	e := m.env
	pool, release := e.acquire()
	defer release()

	pop, err := m.initial(ctx, pool)
	if err != nil {
		if len(pop) == 0 {
			return Match{}, err
		}
		return e.finish(ctx, 0, pop.Best(), err)
	}
	e.preview.Update(pop.Best().Genome.Raster())

	p := &progress{start: time.Now()}
	gen := 0
	for !m.cfg.done(pop.Best()) && !m.cfg.exhausted(gen+1) {
		if err := ctx.Err(); err != nil {
			return e.finish(ctx, gen, pop.Best(), err)
		}
		gen++
		start := time.Now()

		next, err := m.breed(pool, pop)
		if err != nil {
			return pop.Best(), err
		}
		improved := next.Best().Diff < pop.Best().Diff
		if improved {
			pop = next
			e.preview.Update(pop.Best().Genome.Raster())
		}
		e.report(p, gen, pop.Best(), improved, time.Since(start))

		if err := e.checkpoint(ctx, m.cfg.OutputRate, gen, pop.Best(), false); err != nil {
			return pop.Best(), err
		}
	}
	return e.finish(ctx, gen, pop.Best(), nil)
}

// breed produces a sorted generation of PopulationSize children of pop.
func (m *MultiParent) breed(pool *parallel.WorkerPool, pop Population) (Population, error) {
	children, err := m.env.evaluate(pool, m.cfg.PopulationSize, func(r *rand.Rand, _ int) (*tryi.Tryi, error) {
		p1, p2 := m.selector.Select(r, pop)
		child, err := Crossover(r, p1.Genome.Triangles(), p2.Genome.Triangles(), m.cfg.Mutation)
		if err != nil {
			return nil, err
		}
		return p1.Genome.Derive(child), nil
	})
	if err != nil {
		return nil, err
	}
	next := Population(children)
	next.Sort()
	return next, nil
}

// initial builds the starting population, sorted. With WithInitial the
// given genome is one of the members. If ctx is cancelled while members are
// bootstrapped, the members built so far are returned with ctx.Err().
func (m *MultiParent) initial(ctx context.Context, pool *parallel.WorkerPool) (Population, error) {
	e := m.env
	size := m.cfg.PopulationSize
	pop := make(Population, 0, size)

	if e.initial != nil {
		if e.initial.Len() != m.cfg.Triangles {
			return nil, fmt.Errorf("%w: initial genome has %d triangles, want %d",
				ErrInvalidConfig, e.initial.Len(), m.cfg.Triangles)
		}
		seed, err := e.score(e.newGenome(e.initial.Triangles()))
		if err != nil {
			return nil, err
		}
		pop = append(pop, seed)
	}

	if m.cfg.InitBootstrap {
		e.logger.Info("bootstrapping population", "size", size, "triangles", m.cfg.Triangles)
		for len(pop) < size {
			g, err := e.bootstrap(ctx, pool, m.cfg.Triangles, size)
			if err != nil {
				pop.Sort()
				return pop, err
			}
			pop = append(pop, g)
		}
		pop.Sort()
		return pop, nil
	}

	n := size - len(pop)
	random, err := e.evaluate(pool, n, func(r *rand.Rand, _ int) (*tryi.Tryi, error) {
		triangles := make([]tryi.Triangle, m.cfg.Triangles)
		for i := range triangles {
			triangles[i] = e.spawn(r)
		}
		return e.newGenome(triangles), nil
	})
	if err != nil {
		return nil, fmt.Errorf("evolve: initial population: %w", err)
	}
	pop = append(pop, random...)
	pop.Sort()
	return pop, nil
}
