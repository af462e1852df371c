package evolve

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/gogpu/tryi"
)

// SingleParent is a hill climber. Every generation mutates the current
// genome Children times and keeps the best child only if it is strictly
// better, so the diff never increases.
type SingleParent struct {
	cfg Config
	env *env
}

// NewSingleParent returns a hill climber approximating target.
func NewSingleParent(target *tryi.Raster, cfg Config, opts ...Option) (*SingleParent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e, err := newEnv(target, opts)
	if err != nil {
		return nil, err
	}
	return &SingleParent{cfg: cfg, env: e}, nil
}

// Evolve runs until the fitness threshold is reached, the generation cap
// is hit, or ctx is cancelled. On cancellation it returns the best match
// so far with ctx.Err().
func (s *SingleParent) Evolve(ctx context.Context) (Match, error) {
	e := s.env
	pool, release := e.acquire()
	defer release()

	var best Match
	var err error
	if e.initial != nil {
		best, err = e.score(e.newGenome(e.initial.Triangles()))
		if err != nil {
			return Match{}, err
		}
		e.logger.Info("resuming", "triangles", best.Genome.Len(), "correct", best.Fitness()*100)
	} else {
		e.logger.Info("bootstrapping", "triangles", s.cfg.Triangles, "children", s.cfg.Children)
		best, err = e.bootstrap(ctx, pool, s.cfg.Triangles, s.cfg.Children)
		if err != nil {
			if best.Genome == nil {
				return best, err
			}
			return e.finish(ctx, 0, best, err)
		}
	}
	e.preview.Update(best.Genome.Raster())

	p := &progress{start: time.Now()}
	gen := 0
	for !s.cfg.done(best) && !s.cfg.exhausted(gen+1) {
		if err := ctx.Err(); err != nil {
			return e.finish(ctx, gen, best, err)
		}
		gen++
		start := time.Now()

		parent := best.Genome
		triangles := parent.Triangles()
		children, err := e.evaluate(pool, s.cfg.Children, func(r *rand.Rand, _ int) (*tryi.Tryi, error) {
			return parent.Derive(s.cfg.Mutation.MutateAll(r, triangles)), nil
		})
		if err != nil {
			return best, err
		}

		child := children[bestIndex(children)]
		improved := child.Diff < best.Diff
		if improved {
			best = child
			e.preview.Update(best.Genome.Raster())
		}
		e.report(p, gen, best, improved, time.Since(start))

		if err := e.checkpoint(ctx, s.cfg.OutputRate, gen, best, false); err != nil {
			return best, err
		}
	}
	return e.finish(ctx, gen, best, nil)
}
