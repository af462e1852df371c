package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/tryi"
	"github.com/gogpu/tryi/config"
	"github.com/gogpu/tryi/diff"
	"github.com/gogpu/tryi/evolve"
	"github.com/gogpu/tryi/imageio"
	"github.com/gogpu/tryi/metrics"
	"github.com/gogpu/tryi/preview"
	"github.com/gogpu/tryi/report"
	"github.com/gogpu/tryi/store"
)

// evolveFlags override configuration values when set on the command line.
type evolveFlags struct {
	strategy       string
	triangles      int
	children       int
	population     int
	chance         float64
	amount         float64
	mutation       string
	selection      string
	cutoff         float64
	tournament     int
	threshold      float64
	maxGenerations int
	outputRate     int
	initBootstrap  bool
	renderer       string
	diff           string
	workers        int
	seed           uint64

	out        string
	width      int
	height     int
	plot       string
	previewPNG string
	addr       string
	storePath  string

	resume    string
	resumeRun string
}

func newEvolveCmd(a *app) *cobra.Command {
	f := &evolveFlags{}
	cmd := &cobra.Command{
		Use:   "evolve [flags] <image>",
		Short: "Evolve a triangle genome approximating an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if err := f.apply(cmd, &cfg); err != nil {
				return err
			}
			return a.runEvolve(cmd, cfg, f, args[0])
		},
	}

	def := config.Default()
	fl := cmd.Flags()
	fl.StringVarP(&f.strategy, "strategy", "s", def.Strategy, "search strategy: single or multi")
	fl.IntVarP(&f.triangles, "triangles", "t", def.Evolve.Triangles, "number of triangles")
	fl.IntVar(&f.children, "children", def.Evolve.Children, "candidates per round")
	fl.IntVar(&f.population, "population", def.Evolve.PopulationSize, "population size (multi)")
	fl.Float64Var(&f.chance, "chance", def.Evolve.Mutation.Chance, "mutation chance per triangle")
	fl.Float64Var(&f.amount, "amount", def.Evolve.Mutation.Amount, "mutation amount")
	fl.StringVar(&f.mutation, "mutation", def.Evolve.Mutation.Policy.String(), "mutation policy: full or gene")
	fl.StringVar(&f.selection, "selection", def.Evolve.Selection, "parent selection: truncation or tournament (multi)")
	fl.Float64Var(&f.cutoff, "cutoff", def.Evolve.Cutoff, "truncation cutoff")
	fl.IntVar(&f.tournament, "tournament-size", def.Evolve.TournamentSize, "tournament size")
	fl.Float64Var(&f.threshold, "threshold", def.Evolve.FitnessThreshold, "fitness at which to stop")
	fl.IntVar(&f.maxGenerations, "max-generations", def.Evolve.MaxGenerations, "stop after this many generations, 0 for no limit")
	fl.IntVar(&f.outputRate, "output-rate", def.Evolve.OutputRate, "checkpoint every n generations, 0 for final only")
	fl.BoolVar(&f.initBootstrap, "init-bootstrap", def.Evolve.InitBootstrap, "bootstrap every population member (multi)")
	fl.StringVar(&f.renderer, "renderer", def.Renderer, "triangle renderer: scanline or vector")
	fl.StringVar(&f.diff, "diff", def.Diff.String(), "difference algorithm: composite, flat, naive or euclidean")
	fl.IntVarP(&f.workers, "workers", "w", def.Workers, "evaluation goroutines, 0 for GOMAXPROCS")
	fl.Uint64Var(&f.seed, "seed", def.Seed, "random seed, 0 for a random run")

	fl.StringVarP(&f.out, "out", "o", def.Output.Base, "checkpoint path prefix")
	fl.IntVar(&f.width, "width", def.Output.Width, "output width recorded in genome files, 0 for the image width")
	fl.IntVar(&f.height, "height", def.Output.Height, "output height recorded in genome files, 0 for the image height")
	fl.StringVar(&f.plot, "plot", def.Output.Plot, "write a fitness plot to this file when done")
	fl.StringVar(&f.previewPNG, "png", def.Preview.PNG, "rewrite this PNG file on every improvement")
	fl.StringVar(&f.addr, "preview", def.Preview.Addr, "serve a live preview on this address")
	fl.StringVar(&f.storePath, "store", def.Store.Path, "checkpoint database directory")

	fl.StringVar(&f.resume, "resume", "", "continue from a .tryi file")
	fl.StringVar(&f.resumeRun, "resume-run", "", "continue from the latest checkpoint of a stored run")
	return cmd
}

// apply copies every flag given on the command line into cfg and
// validates the result.
func (f *evolveFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	fl := cmd.Flags()
	set := func(name string, fn func()) {
		if fl.Changed(name) {
			fn()
		}
	}
	set("strategy", func() { cfg.Strategy = f.strategy })
	set("triangles", func() { cfg.Evolve.Triangles = f.triangles })
	set("children", func() { cfg.Evolve.Children = f.children })
	set("population", func() { cfg.Evolve.PopulationSize = f.population })
	set("chance", func() { cfg.Evolve.Mutation.Chance = f.chance })
	set("amount", func() { cfg.Evolve.Mutation.Amount = f.amount })
	set("selection", func() { cfg.Evolve.Selection = f.selection })
	set("cutoff", func() { cfg.Evolve.Cutoff = f.cutoff })
	set("tournament-size", func() { cfg.Evolve.TournamentSize = f.tournament })
	set("threshold", func() { cfg.Evolve.FitnessThreshold = f.threshold })
	set("max-generations", func() { cfg.Evolve.MaxGenerations = f.maxGenerations })
	set("output-rate", func() { cfg.Evolve.OutputRate = f.outputRate })
	set("init-bootstrap", func() { cfg.Evolve.InitBootstrap = f.initBootstrap })
	set("renderer", func() { cfg.Renderer = f.renderer })
	set("workers", func() { cfg.Workers = f.workers })
	set("seed", func() { cfg.Seed = f.seed })
	set("out", func() { cfg.Output.Base = f.out })
	set("width", func() { cfg.Output.Width = f.width })
	set("height", func() { cfg.Output.Height = f.height })
	set("plot", func() { cfg.Output.Plot = f.plot })
	set("png", func() { cfg.Preview.PNG = f.previewPNG })
	set("preview", func() { cfg.Preview.Addr = f.addr })
	set("store", func() { cfg.Store.Path = f.storePath })

	if fl.Changed("mutation") {
		policy, err := tryi.ParseMutationType(f.mutation)
		if err != nil {
			return err
		}
		cfg.Evolve.Mutation.Policy = policy
	}
	if fl.Changed("diff") {
		alg, err := diff.ParseAlgorithm(f.diff)
		if err != nil {
			return err
		}
		cfg.Diff = alg
	}
	if f.resume != "" && f.resumeRun != "" {
		return errors.New("--resume and --resume-run are exclusive")
	}
	if f.resumeRun != "" && cfg.Store.Path == "" {
		return errors.New("--resume-run needs a checkpoint database, see --store")
	}
	return cfg.Validate()
}

func (a *app) runEvolve(cmd *cobra.Command, cfg config.Config, f *evolveFlags, path string) error {
	renderer, ok := tryi.ParseRenderer(cfg.Renderer)
	if !ok {
		return fmt.Errorf("unknown renderer %q", cfg.Renderer)
	}
	target, size, err := imageio.LoadTarget(path, tryi.Canvas, tryi.Canvas)
	if err != nil {
		return err
	}
	width, height := cfg.Output.Width, cfg.Output.Height
	if width == 0 {
		width = size.X
	}
	if height == 0 {
		height = size.Y
	}
	if width > tryi.MaxOutput || height > tryi.MaxOutput {
		return fmt.Errorf("%w: output %dx%d exceeds %d, see --width and --height",
			tryi.ErrInvalidSize, width, height, tryi.MaxOutput)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	history := &report.History{}
	opts := []evolve.Option{
		evolve.WithLogger(a.logger),
		evolve.WithWorkers(cfg.Workers),
		evolve.WithDiff(cfg.Diff),
		evolve.WithRenderer(renderer),
		evolve.WithObserver(metrics.New(reg)),
		evolve.WithObserver(history),
	}
	if cfg.Seed != 0 {
		opts = append(opts, evolve.WithSeed(cfg.Seed))
	}

	var (
		sinks    store.Tee
		previews preview.Multi
		server   *preview.Server
	)
	if cfg.Output.Base != "" {
		sinks = append(sinks, store.NewFile(cfg.Output.Base, width, height))
	}
	if cfg.Store.Path != "" {
		sc := store.DefaultConfig()
		sc.Path = cfg.Store.Path
		sc.SyncWrites = cfg.Store.SyncWrites
		sc.Width, sc.Height = width, height
		sc.Logger = a.logger.With("component", "badger")
		db, err := store.OpenBadger(sc)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				a.logger.Error("close checkpoint database", "err", err)
			}
		}()
		sinks = append(sinks, db)
		opts = append(opts, evolve.WithRunID(db.RunID()))

		if f.resumeRun != "" {
			initial, err := latestGenome(ctx, db, f.resumeRun, renderer)
			if err != nil {
				return err
			}
			opts = append(opts, evolve.WithInitial(initial))
		}
	}
	if f.resume != "" {
		_, _, initial, err := store.ReadFile(f.resume, tryi.WithRenderer(renderer))
		if err != nil {
			return err
		}
		opts = append(opts, evolve.WithInitial(initial))
	}
	if cfg.Preview.Addr != "" {
		server = preview.NewServer(a.logger, reg, width, height)
		previews = append(previews, server)
		sinks = append(sinks, server)
	}
	if cfg.Preview.PNG != "" {
		previews = append(previews, &preview.PNGFile{Path: cfg.Preview.PNG, Logger: a.logger})
	}
	if len(previews) > 0 {
		opts = append(opts, evolve.WithPreview(previews))
	}
	if len(sinks) > 0 {
		opts = append(opts, evolve.WithCheckpointer(sinks))
	}

	ev, err := evolve.New(cfg.Strategy, target, cfg.Evolve, opts...)
	if err != nil {
		return err
	}

	start := time.Now()
	var best evolve.Match
	g, gctx := errgroup.WithContext(ctx)
	serveCtx, stopServe := context.WithCancel(gctx)
	defer stopServe()
	if server != nil {
		g.Go(func() error {
			return server.ListenAndServe(serveCtx, cfg.Preview.Addr)
		})
	}
	g.Go(func() error {
		defer stopServe()
		var err error
		best, err = ev.Evolve(gctx)
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			a.logger.Info("interrupted")
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if cfg.Output.Plot != "" {
		title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if err := history.Plot(cfg.Output.Plot, title); err != nil {
			return err
		}
	}
	return printSummary(cmd, best, history, time.Since(start))
}

// latestGenome loads the most recent genome of a stored run.
func latestGenome(ctx context.Context, db *store.Badger, runID string, renderer tryi.Renderer) (*tryi.Tryi, error) {
	rec, err := db.Latest(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("resume run %s: %w", runID, err)
	}
	_, _, t, err := rec.Decode(tryi.WithRenderer(renderer))
	if err != nil {
		return nil, fmt.Errorf("resume run %s: %w", runID, err)
	}
	return t, nil
}

func printSummary(cmd *cobra.Command, best evolve.Match, history *report.History, elapsed time.Duration) error {
	if best.Genome == nil {
		return nil
	}
	gens := 0
	for _, s := range history.Steps() {
		if s.Phase == evolve.PhaseEvolve {
			gens = s.Step
		}
	}
	p := message.NewPrinter(language.English)
	_, err := p.Fprintf(cmd.OutOrStdout(), "fitness %.3f%% after %d generations (%d triangles, %v)\n",
		best.Fitness()*100, gens, len(best.Genome.Triangles()), elapsed.Round(time.Millisecond))
	return err
}
