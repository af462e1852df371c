package evolve

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/gogpu/tryi"
	"github.com/gogpu/tryi/diff"
	"github.com/gogpu/tryi/internal/parallel"
)

// env is the state shared by the bootstrap phase and both strategies.
type env struct {
	options
	target *tryi.Raster
	genome []tryi.Option
	rng    *rand.Rand
}

func newEnv(target *tryi.Raster, opts []Option) (*env, error) {
	if target == nil || target.Width() <= 0 || target.Height() <= 0 {
		return nil, fmt.Errorf("%w: empty target", ErrInvalidConfig)
	}
	if n := target.Width() * target.Height(); n > diff.MaxPixels {
		return nil, fmt.Errorf("evolve: target of %d pixels: %w", n, diff.ErrTooLarge)
	}

	o := newOptions(opts)
	e := &env{
		options: o,
		target:  target,
		genome:  []tryi.Option{tryi.WithSize(target.Width(), target.Height())},
	}
	if o.renderer != nil {
		e.genome = append(e.genome, tryi.WithRenderer(o.renderer))
	}
	if o.seed != nil {
		e.rng = rand.New(rand.NewPCG(o.seed[0], o.seed[1]))
	} else {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e, nil
}

// acquire returns the pool to evaluate on and a func that releases it.
func (e *env) acquire() (*parallel.WorkerPool, func()) {
	if e.pool != nil {
		return e.pool, func() {}
	}
	p := parallel.NewWorkerPool(e.workers)
	return p, p.Close
}

// newGenome renders triangles at the target's size.
func (e *env) newGenome(triangles []tryi.Triangle) *tryi.Tryi {
	return tryi.New(triangles, e.genome...)
}

func (e *env) score(g *tryi.Tryi) (Match, error) {
	d, err := e.algorithm.Diff(e.target, g.Raster())
	if err != nil {
		return Match{}, err
	}
	return Match{Genome: g, Diff: d}, nil
}

type scored struct {
	match Match
	err   error
}

// evaluate builds and scores n candidates in parallel. Each candidate gets
// its own generator, seeded from e.rng before the round starts. Results
// are indexed by candidate.
func (e *env) evaluate(pool *parallel.WorkerPool, n int, build func(r *rand.Rand, i int) (*tryi.Tryi, error)) ([]Match, error) {
	seeds := make([][2]uint64, n)
	for i := range seeds {
		seeds[i] = [2]uint64{e.rng.Uint64(), e.rng.Uint64()}
	}

	results := parallel.Map(pool, n, func(i int) scored {
		r := rand.New(rand.NewPCG(seeds[i][0], seeds[i][1]))
		g, err := build(r, i)
		if err != nil {
			return scored{err: err}
		}
		m, err := e.score(g)
		return scored{match: m, err: err}
	})

	matches := make([]Match, n)
	for i, res := range results {
		if res.err != nil {
			return nil, res.err
		}
		matches[i] = res.match
	}
	return matches, nil
}

// checkpoint saves best when gen is due, or unconditionally when final.
func (e *env) checkpoint(ctx context.Context, rate, gen int, best Match, final bool) error {
	if !final && (rate <= 0 || gen%rate != 0) {
		return nil
	}
	if final {
		// The final snapshot is taken even when ctx was cancelled.
		ctx = context.WithoutCancel(ctx)
	}
	cp := Checkpoint{RunID: e.runID, Generation: gen, Match: best, Final: final}
	if err := e.checkpointer.Save(ctx, cp); err != nil {
		return fmt.Errorf("evolve: checkpoint generation %d: %w", gen, err)
	}
	return nil
}

// progress tracks generation throughput for log messages.
type progress struct {
	start time.Time
	gens  int
}

func (p *progress) rate() float64 {
	elapsed := time.Since(p.start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(p.gens) / elapsed
}

// report logs and observes one finished generation.
func (e *env) report(p *progress, gen int, best Match, improved bool, took time.Duration) {
	p.gens++
	if improved {
		e.logger.Info("good",
			"generation", gen,
			"correct", best.Fitness()*100,
			"rate", p.rate())
	} else {
		e.logger.Debug("bad",
			"generation", gen,
			"correct", best.Fitness()*100,
			"rate", p.rate())
	}
	e.observers.Observe(Stats{
		Phase:    PhaseEvolve,
		Step:     gen,
		Diff:     best.Diff,
		Improved: improved,
		Duration: took,
	})
}

// finish takes the final checkpoint and returns best with cause, or with
// the checkpoint error if saving failed.
func (e *env) finish(ctx context.Context, gen int, best Match, cause error) (Match, error) {
	if err := e.checkpoint(ctx, 0, gen, best, true); err != nil {
		return best, err
	}
	e.logger.Info("evolution finished",
		"generation", gen,
		"correct", best.Fitness()*100,
		"triangles", best.Genome.Len())
	return best, cause
}
