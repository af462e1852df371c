package store

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/tryi"
	"github.com/gogpu/tryi/evolve"
)

func genome(seed uint64, n int) *tryi.Tryi {
	return tryi.Random(rand.New(rand.NewPCG(seed, seed)), n)
}

func checkpoint(gen int, final bool, g *tryi.Tryi) evolve.Checkpoint {
	return evolve.Checkpoint{
		Generation: gen,
		Match:      evolve.Match{Genome: g, Diff: 0.25},
		Final:      final,
	}
}

// TestFile_Paths verifies periodic and final file naming.
func TestFile_Paths(t *testing.T) {
	f := NewFile("out/mona.tryi", 640, 480)
	assert.Equal(t, "out/mona", f.Base)
	assert.Equal(t, "out/mona-300.tryi", f.Path(checkpoint(300, false, nil)))
	assert.Equal(t, "out/mona.tryi", f.Path(checkpoint(300, true, nil)))
}

// TestFile_SaveAndRead verifies a checkpoint round-trips through disk.
func TestFile_SaveAndRead(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(filepath.Join(dir, "nested", "run"), 800, 600)
	g := genome(1, 12)

	require.NoError(t, f.Save(context.Background(), checkpoint(100, false, g)))
	require.NoError(t, f.Save(context.Background(), checkpoint(150, true, g)))

	data, err := os.ReadFile(filepath.Join(dir, "nested", "run-100.tryi"))
	require.NoError(t, err)
	assert.Equal(t, tryi.EncodeSized(800, 600, g), string(data))

	w, h, back, err := ReadFile(filepath.Join(dir, "nested", "run.tryi"))
	require.NoError(t, err)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.True(t, back.Equal(g))
}

// TestReadFile_Errors verifies missing and malformed files are reported.
func TestReadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, _, err := ReadFile(filepath.Join(dir, "missing.tryi"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.tryi")
	require.NoError(t, os.WriteFile(bad, []byte("10;x;AAAA"), 0o600))
	_, _, _, err = ReadFile(bad)
	assert.ErrorIs(t, err, tryi.ErrInvalidSize)
}

type failing struct{ err error }

func (f failing) Save(context.Context, evolve.Checkpoint) error { return f.err }

type counting struct{ n int }

func (c *counting) Save(context.Context, evolve.Checkpoint) error {
	c.n++
	return nil
}

// TestTee verifies fan-out and early stop on error.
func TestTee(t *testing.T) {
	a, b := &counting{}, &counting{}
	require.NoError(t, Tee{a, b}.Save(context.Background(), checkpoint(1, false, genome(2, 1))))
	assert.Equal(t, 1, a.n)
	assert.Equal(t, 1, b.n)

	errBoom := errors.New("boom")
	c := &counting{}
	err := Tee{failing{errBoom}, c}.Save(context.Background(), checkpoint(2, false, genome(3, 1)))
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 0, c.n)
}

func openMemory(t *testing.T) *Badger {
	t.Helper()
	cfg := InMemoryConfig()
	cfg.Width, cfg.Height = 320, 200
	b, err := OpenBadger(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

// TestBadger_SaveLatestLoad verifies checkpoints are retrievable by run.
func TestBadger_SaveLatestLoad(t *testing.T) {
	ctx := context.Background()
	b := openMemory(t)
	first, second := genome(4, 5), genome(5, 5)

	require.NoError(t, b.Save(ctx, checkpoint(10, false, first)))
	require.NoError(t, b.Save(ctx, checkpoint(20, true, second)))

	latest, err := b.Latest(ctx, b.RunID())
	require.NoError(t, err)
	assert.Equal(t, 20, latest.Generation)
	assert.True(t, latest.Final)
	assert.Equal(t, b.RunID(), latest.RunID)

	w, h, g, err := latest.Decode()
	require.NoError(t, err)
	assert.Equal(t, 320, w)
	assert.Equal(t, 200, h)
	assert.True(t, g.Equal(second))

	rec, err := b.Load(ctx, b.RunID(), 10)
	require.NoError(t, err)
	_, _, g, err = rec.Decode()
	require.NoError(t, err)
	assert.True(t, g.Equal(first))
	assert.InDelta(t, 0.25, rec.Diff, 1e-12)
}

// TestBadger_NotFound verifies lookups of unknown keys.
func TestBadger_NotFound(t *testing.T) {
	ctx := context.Background()
	b := openMemory(t)

	_, err := b.Latest(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = b.Load(ctx, b.RunID(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestBadger_HistoryAndRuns verifies ordering and run listing.
func TestBadger_HistoryAndRuns(t *testing.T) {
	ctx := context.Background()
	b := openMemory(t)

	for _, gen := range []int{100, 5, 20} {
		cp := checkpoint(gen, false, genome(uint64(gen), 2))
		cp.RunID = "alpha"
		require.NoError(t, b.Save(ctx, cp))
	}
	require.NoError(t, b.Save(ctx, checkpoint(1, false, genome(6, 2))))

	history, err := b.History(ctx, "alpha")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 5, history[0].Generation)
	assert.Equal(t, 20, history[1].Generation)
	assert.Equal(t, 100, history[2].Generation)

	runs, err := b.Runs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alpha", b.RunID()}, runs)
}

// TestBadger_CancelledContext verifies Save honours cancellation.
func TestBadger_CancelledContext(t *testing.T) {
	b := openMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, b.Save(ctx, checkpoint(1, false, genome(7, 1))), context.Canceled)
}

// TestOpenBadger_RequiresPath verifies persistent mode needs a directory.
func TestOpenBadger_RequiresPath(t *testing.T) {
	_, err := OpenBadger(DefaultConfig())
	assert.Error(t, err)
}

// TestOpenBadger_Persistent verifies records survive a reopen.
func TestOpenBadger_Persistent(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Path = t.TempDir()
	cfg.SyncWrites = false

	b, err := OpenBadger(cfg)
	require.NoError(t, err)
	g := genome(8, 3)
	cp := checkpoint(42, true, g)
	cp.RunID = "persist"
	require.NoError(t, b.Save(ctx, cp))
	require.NoError(t, b.Close())

	b2, err := OpenBadger(cfg)
	require.NoError(t, err)
	defer b2.Close()

	rec, err := b2.Latest(ctx, "persist")
	require.NoError(t, err)
	assert.Equal(t, 42, rec.Generation)
}

// TestEvolve_WithBadger runs a short search against the in-memory store.
func TestEvolve_WithBadger(t *testing.T) {
	ctx := context.Background()
	b := openMemory(t)

	cfg := evolve.DefaultConfig()
	cfg.Triangles = 3
	cfg.Children = 2
	cfg.MaxGenerations = 4
	cfg.OutputRate = 2
	cfg.FitnessThreshold = 1

	target := genome(9, 4).Raster()
	ev, err := evolve.NewSingleParent(target, cfg, evolve.WithCheckpointer(b), evolve.WithSeed(1))
	require.NoError(t, err)
	best, err := ev.Evolve(ctx)
	require.NoError(t, err)

	history, err := b.History(ctx, b.RunID())
	require.NoError(t, err)
	gens := make([]int, len(history))
	for i, r := range history {
		gens[i] = r.Generation
	}
	assert.Equal(t, []int{2, 4}, gens)

	latest, err := b.Latest(ctx, b.RunID())
	require.NoError(t, err)
	assert.True(t, latest.Final)
	_, _, g, err := latest.Decode()
	require.NoError(t, err)
	assert.True(t, g.Equal(best.Genome))
}
