// Package config loads the settings of the tryi command.
//
// Settings come from, in increasing priority: Default, a YAML file, and
// TRYI_* environment variables. Command-line flags are applied on top by
// the command itself.
//
// Example file:
//
//	strategy: multi
//	renderer: vector
//	diff: composite
//	evolve:
//	  triangles: 200
//	  population: 60
//	  selection: tournament
//	  tournament_size: 4
//	  mutation:
//	    policy: gene
//	    chance: 0.02
//	    amount: 0.1
//	output:
//	  base: out/mona
//	preview:
//	  addr: 127.0.0.1:8080
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/tryi/diff"
	"github.com/gogpu/tryi/evolve"
)

// ErrInvalid is returned for settings that fail validation.
var ErrInvalid = errors.New("config: invalid settings")

// Config is the complete command configuration.
type Config struct {
	// Strategy is "single" or "multi".
	Strategy string `yaml:"strategy" validate:"oneof=single multi"`

	// Renderer is "scanline" or "vector".
	Renderer string `yaml:"renderer" validate:"oneof=scanline vector"`

	// Diff is the difference algorithm. Switching between a linear
	// algorithm and "euclidean" needs a new fitness threshold.
	Diff diff.Algorithm `yaml:"diff"`

	// Workers is the number of evaluation goroutines. 0 means GOMAXPROCS.
	Workers int `yaml:"workers" validate:"gte=0"`

	// Seed fixes the random sequence. 0 picks a random seed.
	Seed uint64 `yaml:"seed"`

	// Evolve is validated by evolve.Config.Validate.
	Evolve  evolve.Config `yaml:"evolve" validate:"-"`
	Output  Output        `yaml:"output"`
	Preview Preview       `yaml:"preview"`
	Store   Store         `yaml:"store"`
	Log     Log           `yaml:"log"`
}

// Output controls the files written by a run.
type Output struct {
	// Base is the path prefix of checkpoint files. Empty disables them.
	Base string `yaml:"base"`

	// Width and Height are the output size recorded in genome files.
	// 0 uses the size of the source image.
	Width  int `yaml:"width" validate:"gte=0,lte=8192"`
	Height int `yaml:"height" validate:"gte=0,lte=8192"`

	// Plot is the path of a fitness plot written when the run ends.
	Plot string `yaml:"plot"`
}

// Preview controls live preview sinks.
type Preview struct {
	// Addr is the listen address of the preview server. Empty disables it.
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`

	// PNG is a file rewritten on every improvement. Empty disables it.
	PNG string `yaml:"png"`
}

// Store controls the checkpoint database.
type Store struct {
	// Path is the Badger directory. Empty disables the database.
	Path string `yaml:"path"`

	// SyncWrites makes every checkpoint durable before the run continues.
	SyncWrites bool `yaml:"sync_writes"`
}

// Log controls the process logger.
type Log struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`

	// Format is "auto" (text on a terminal, JSON otherwise), "text" or
	// "json".
	Format string `yaml:"format" validate:"oneof=auto text json"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Strategy: evolve.StrategySingle,
		Renderer: "scanline",
		Diff:     diff.Composite,
		Evolve:   evolve.DefaultConfig(),
		Log: Log{
			Level:  "info",
			Format: "auto",
		},
	}
}

var validate = validator.New()

// Validate checks every setting. Errors wrap ErrInvalid.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.Evolve.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Diff > diff.Euclidean {
		return fmt.Errorf("%w: unknown diff algorithm %d", ErrInvalid, uint8(c.Diff))
	}
	return nil
}

// Load returns Default overlaid with the YAML file at path (if path is not
// empty) and the environment, validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := loadEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// loadEnv applies TRYI_* overrides.
func loadEnv(cfg *Config) error {
	if v := os.Getenv("TRYI_STRATEGY"); v != "" {
		cfg.Strategy = v
	}
	if v := os.Getenv("TRYI_RENDERER"); v != "" {
		cfg.Renderer = v
	}
	if v := os.Getenv("TRYI_DIFF"); v != "" {
		if err := cfg.Diff.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("config: TRYI_DIFF: %w", err)
		}
	}
	if v := os.Getenv("TRYI_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: TRYI_WORKERS: %w", err)
		}
		cfg.Workers = n
	}
	if v := os.Getenv("TRYI_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: TRYI_SEED: %w", err)
		}
		cfg.Seed = n
	}
	if v := os.Getenv("TRYI_PREVIEW_ADDR"); v != "" {
		cfg.Preview.Addr = v
	}
	if v := os.Getenv("TRYI_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("TRYI_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TRYI_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	return nil
}

// Marshal returns cfg as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
