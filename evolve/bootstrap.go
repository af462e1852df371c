package evolve

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/gogpu/tryi"
	"github.com/gogpu/tryi/internal/parallel"
)

// Bootstrap builds a genome of numTriangles triangles greedily. Each round
// tries numChildren random triangles on top of the current genome and keeps
// the one that brings it closest to target.
//
// If ctx is cancelled between rounds, Bootstrap returns the partial genome
// with ctx.Err().
func Bootstrap(ctx context.Context, target *tryi.Raster, numTriangles, numChildren int, opts ...Option) (Match, error) {
	if numTriangles < 0 || numChildren < 1 {
		return Match{}, fmt.Errorf("%w: bootstrap of %d triangles with %d children",
			ErrInvalidConfig, numTriangles, numChildren)
	}
	e, err := newEnv(target, opts)
	if err != nil {
		return Match{}, err
	}
	pool, release := e.acquire()
	defer release()
	return e.bootstrap(ctx, pool, numTriangles, numChildren)
}

func (e *env) bootstrap(ctx context.Context, pool *parallel.WorkerPool, numTriangles, numChildren int) (Match, error) {
	best, err := e.score(tryi.Empty(e.genome...))
	if err != nil {
		return Match{}, err
	}

	for best.Genome.Len() < numTriangles {
		if err := ctx.Err(); err != nil {
			return best, err
		}
		start := time.Now()

		parent := best.Genome
		children, err := e.evaluate(pool, numChildren, func(r *rand.Rand, _ int) (*tryi.Tryi, error) {
			return parent.With(e.spawn(r)), nil
		})
		if err != nil {
			return best, err
		}

		prev := best.Diff
		best = children[bestIndex(children)]

		e.logger.Debug("bootstrap",
			"triangles", best.Genome.Len(),
			"correct", best.Fitness()*100)
		e.observers.Observe(Stats{
			Phase:    PhaseBootstrap,
			Step:     best.Genome.Len(),
			Diff:     best.Diff,
			Improved: best.Diff < prev,
			Duration: time.Since(start),
		})
	}
	return best, nil
}
