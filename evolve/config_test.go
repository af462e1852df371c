package evolve

import (
	"errors"
	"testing"

	"github.com/gogpu/tryi"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.Triangles != 150 || cfg.Children != 50 || cfg.FitnessThreshold != 0.99 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"no children", func(c *Config) { c.Children = 0 }},
		{"negative triangles", func(c *Config) { c.Triangles = -1 }},
		{"empty population", func(c *Config) { c.PopulationSize = 0 }},
		{"chance above one", func(c *Config) { c.Mutation.Chance = 1.5 }},
		{"negative amount", func(c *Config) { c.Mutation.Amount = -0.1 }},
		{"unknown policy", func(c *Config) { c.Mutation.Policy = tryi.MutationType(9) }},
		{"unknown selection", func(c *Config) { c.Selection = "roulette" }},
		{"zero cutoff", func(c *Config) { c.Cutoff = 0 }},
		{"zero tournament", func(c *Config) { c.TournamentSize = 0 }},
		{"threshold above one", func(c *Config) { c.FitnessThreshold = 1.1 }},
		{"negative generations", func(c *Config) { c.MaxGenerations = -1 }},
		{"negative output rate", func(c *Config) { c.OutputRate = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfig_Selector(t *testing.T) {
	cfg := DefaultConfig()
	if s, ok := cfg.Selector().(Truncation); !ok || s.Cutoff != cfg.Cutoff {
		t.Errorf("Selector() = %#v, want Truncation", cfg.Selector())
	}
	cfg.Selection = SelectTournament
	cfg.TournamentSize = 4
	if s, ok := cfg.Selector().(Tournament); !ok || s.K != 4 {
		t.Errorf("Selector() = %#v, want Tournament{4}", cfg.Selector())
	}
}

func TestConfig_Termination(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.done(Match{Diff: 0.005}) {
		t.Error("fitness 0.995 should meet the default threshold")
	}
	if cfg.done(Match{Diff: 0.02}) {
		t.Error("fitness 0.98 should not meet the default threshold")
	}
	if cfg.exhausted(1_000_000) {
		t.Error("MaxGenerations 0 means no limit")
	}
	cfg.MaxGenerations = 3
	if cfg.exhausted(3) || !cfg.exhausted(4) {
		t.Error("MaxGenerations 3 allows generations 1 to 3")
	}
}

func TestNew_Strategies(t *testing.T) {
	target := tryi.NewRaster(8, 8)
	cfg := DefaultConfig()

	if ev, err := New(StrategySingle, target, cfg); err != nil {
		t.Errorf("single: %v", err)
	} else if _, ok := ev.(*SingleParent); !ok {
		t.Errorf("single: got %T", ev)
	}
	if ev, err := New(StrategyMulti, target, cfg); err != nil {
		t.Errorf("multi: %v", err)
	} else if _, ok := ev.(*MultiParent); !ok {
		t.Errorf("multi: got %T", ev)
	}
	if _, err := New("annealing", target, cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("unknown strategy error = %v", err)
	}
	if _, err := New(StrategySingle, nil, cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("nil target error = %v", err)
	}
}
