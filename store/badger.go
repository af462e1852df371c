package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/gogpu/tryi"
	"github.com/gogpu/tryi/evolve"
)

// Config configures the Badger checkpoint store.
type Config struct {
	// Path is the database directory. Required unless InMemory is set.
	Path string `yaml:"path"`

	// InMemory keeps the database in memory. For tests.
	InMemory bool `yaml:"in_memory"`

	// SyncWrites makes every Save durable before it returns.
	SyncWrites bool `yaml:"sync_writes"`

	// Width and Height are the output size recorded with every genome.
	Width  int `yaml:"-"`
	Height int `yaml:"-"`

	// Logger receives Badger's internal messages. nil disables them.
	Logger *slog.Logger `yaml:"-"`
}

// DefaultConfig returns a durable on-disk configuration.
func DefaultConfig() Config {
	return Config{
		SyncWrites: true,
		Width:      tryi.Canvas,
		Height:     tryi.Canvas,
	}
}

// InMemoryConfig returns a configuration for an in-memory database.
func InMemoryConfig() Config {
	return Config{
		InMemory: true,
		Width:    tryi.Canvas,
		Height:   tryi.Canvas,
	}
}

// badgerLogger adapts slog.Logger to badger.Logger.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Record is a stored checkpoint.
type Record struct {
	RunID      string    `json:"run_id"`
	Generation int       `json:"generation"`
	Diff       float64   `json:"diff"`
	Final      bool      `json:"final"`
	Genome     string    `json:"genome"` // sized form
	SavedAt    time.Time `json:"saved_at"`
}

// Decode returns the record's output size and genome.
func (r Record) Decode(opts ...tryi.Option) (width, height int, t *tryi.Tryi, err error) {
	return tryi.DecodeSized(r.Genome, opts...)
}

// Badger stores checkpoints of many runs in a Badger database.
//
// Keys:
//
//	run/<id>/gen/<generation, 10 digits>  Record
//	run/<id>/latest                       Record
type Badger struct {
	db     *badger.DB
	runID  string
	width  int
	height int
}

var _ evolve.Checkpointer = (*Badger)(nil)

// OpenBadger opens or creates the database described by cfg. Checkpoints
// without a run id are stored under a fresh one, see RunID.
func OpenBadger(cfg Config) (*Badger, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("store: path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("store: create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: open badger database: %w", err)
	}

	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		w, h = tryi.Canvas, tryi.Canvas
	}
	return &Badger{db: db, runID: uuid.NewString(), width: w, height: h}, nil
}

// RunID returns the id used for checkpoints that carry none.
func (b *Badger) RunID() string {
	return b.runID
}

// Close closes the database.
func (b *Badger) Close() error {
	return b.db.Close()
}

func genKey(runID string, gen int) []byte {
	return fmt.Appendf(nil, "run/%s/gen/%010d", runID, gen)
}

func latestKey(runID string) []byte {
	return []byte("run/" + runID + "/latest")
}

// Save implements evolve.Checkpointer.
func (b *Badger) Save(ctx context.Context, cp evolve.Checkpoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runID := cp.RunID
	if runID == "" {
		runID = b.runID
	}
	rec := Record{
		RunID:      runID,
		Generation: cp.Generation,
		Diff:       cp.Match.Diff,
		Final:      cp.Final,
		Genome:     tryi.EncodeSized(b.width, b.height, cp.Match.Genome),
		SavedAt:    time.Now().UTC(),
	}
	val, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: encode checkpoint: %w", err)
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(genKey(runID, cp.Generation), val); err != nil {
			return err
		}
		return txn.Set(latestKey(runID), val)
	})
	if err != nil {
		return fmt.Errorf("store: save generation %d of run %s: %w", cp.Generation, runID, err)
	}
	return nil
}

// Latest returns the most recent checkpoint of a run.
func (b *Badger) Latest(ctx context.Context, runID string) (Record, error) {
	return b.get(ctx, latestKey(runID))
}

// Load returns the checkpoint of a run taken after generation gen.
func (b *Badger) Load(ctx context.Context, runID string, gen int) (Record, error) {
	return b.get(ctx, genKey(runID, gen))
}

func (b *Badger) get(ctx context.Context, key []byte) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	var rec Record
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return Record{}, fmt.Errorf("store: read %s: %w", key, err)
	}
	return rec, nil
}

// History returns every checkpoint of a run ordered by generation.
func (b *Badger) History(ctx context.Context, runID string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix := []byte("run/" + runID + "/gen/")
	var out []Record
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: history of run %s: %w", runID, err)
	}
	return out, nil
}

// Runs returns the ids of all stored runs.
func (b *Badger) Runs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var ids []string
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte("run/")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			if id, ok := strings.CutSuffix(strings.TrimPrefix(key, "run/"), "/latest"); ok {
				ids = append(ids, id)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	return ids, nil
}
