package evolve

import (
	"log/slog"
	"math/rand/v2"

	"github.com/gogpu/tryi"
	"github.com/gogpu/tryi/diff"
	"github.com/gogpu/tryi/internal/parallel"
)

// Option configures an evolver.
type Option func(*options)

type options struct {
	logger       *slog.Logger
	pool         *parallel.WorkerPool
	workers      int
	preview      Preview
	checkpointer Checkpointer
	observers    observers
	algorithm    diff.Algorithm
	renderer     tryi.Renderer
	seed         *[2]uint64
	initial      *tryi.Tryi
	spawn        func(r *rand.Rand) tryi.Triangle
	runID        string
}

func defaultOptions() options {
	return options{
		preview:      NopPreview{},
		checkpointer: NopCheckpointer{},
		algorithm:    diff.Composite,
		spawn:        tryi.RandomTriangle,
	}
}

func newOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = tryi.Logger()
	}
	return o
}

// WithLogger sets the logger for progress messages. By default the
// package-wide tryi.Logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithWorkers sets the number of evaluation goroutines. 0 means
// GOMAXPROCS. Ignored when WithPool is given.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithPool evaluates candidates on an existing pool. The evolver does not
// close it.
func WithPool(p *parallel.WorkerPool) Option {
	return func(o *options) {
		o.pool = p
	}
}

// WithPreview sets the preview sink. nil keeps NopPreview.
func WithPreview(p Preview) Option {
	return func(o *options) {
		if p != nil {
			o.preview = p
		}
	}
}

// WithCheckpointer sets the checkpoint store. nil keeps NopCheckpointer.
func WithCheckpointer(c Checkpointer) Option {
	return func(o *options) {
		if c != nil {
			o.checkpointer = c
		}
	}
}

// WithObserver adds an observer. May be given more than once.
func WithObserver(ob Observer) Option {
	return func(o *options) {
		if ob != nil {
			o.observers = append(o.observers, ob)
		}
	}
}

// WithDiff selects the difference algorithm.
func WithDiff(alg diff.Algorithm) Option {
	return func(o *options) {
		o.algorithm = alg
	}
}

// WithRenderer selects the triangle renderer for every genome.
func WithRenderer(r tryi.Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// WithSeed makes the run reproducible.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = &[2]uint64{seed, seed ^ 0x9e3779b97f4a7c15}
	}
}

// WithInitial starts the search from t instead of bootstrapping. Only the
// triangles are used: the genome is rendered again at the target's size.
// The multi-parent strategy seeds its population with t.
func WithInitial(t *tryi.Tryi) Option {
	return func(o *options) {
		o.initial = t
	}
}

// WithSpawn replaces the random triangle generator of the bootstrap phase.
func WithSpawn(fn func(r *rand.Rand) tryi.Triangle) Option {
	return func(o *options) {
		if fn != nil {
			o.spawn = fn
		}
	}
}

// WithRunID tags every checkpoint with id.
func WithRunID(id string) Option {
	return func(o *options) {
		o.runID = id
	}
}
