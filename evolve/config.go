package evolve

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/gogpu/tryi"
)

var (
	// ErrLengthMismatch is returned by Crossover for parents of different
	// lengths.
	ErrLengthMismatch = errors.New("evolve: parents differ in length")

	// ErrInvalidConfig is returned for a configuration that fails
	// validation.
	ErrInvalidConfig = errors.New("evolve: invalid config")
)

// Selection names accepted by Config.Selection.
const (
	SelectTruncation = "truncation"
	SelectTournament = "tournament"
)

// Config holds the search parameters shared by both strategies.
type Config struct {
	// Triangles is the genome length.
	Triangles int `yaml:"triangles" validate:"gte=0"`

	// Children is the number of candidates per bootstrap round and per
	// single-parent generation.
	Children int `yaml:"children" validate:"gte=1"`

	// PopulationSize is the multi-parent population size.
	PopulationSize int `yaml:"population" validate:"gte=1"`

	Mutation Mutation `yaml:"mutation"`

	// Selection is "truncation" or "tournament".
	Selection string `yaml:"selection" validate:"oneof=truncation tournament"`

	// Cutoff is the share of the population truncation selection draws from.
	Cutoff float64 `yaml:"cutoff" validate:"gt=0,lte=1"`

	// TournamentSize is the number of members per tournament.
	TournamentSize int `yaml:"tournament_size" validate:"gte=1"`

	// FitnessThreshold stops the run once 1 - diff reaches it. A threshold
	// tuned for the linear metrics does not apply to the Euclidean one:
	// its diffs are larger for the same image.
	FitnessThreshold float64 `yaml:"fitness_threshold" validate:"gt=0,lte=1"`

	// MaxGenerations stops the run after that many generations. 0 means
	// no limit.
	MaxGenerations int `yaml:"max_generations" validate:"gte=0"`

	// OutputRate is the checkpoint interval in generations. 0 disables
	// periodic checkpoints; the final one is always taken.
	OutputRate int `yaml:"output_rate" validate:"gte=0"`

	// InitBootstrap builds every member of the initial multi-parent
	// population by bootstrap instead of at random.
	InitBootstrap bool `yaml:"init_bootstrap"`
}

// DefaultConfig returns the defaults: 150 triangles, 50 children, a
// population of 50, full mutation with chance 0.01 and amount 0.10,
// truncation at 0.15, and a fitness threshold of 0.99.
func DefaultConfig() Config {
	return Config{
		Triangles:      150,
		Children:       50,
		PopulationSize: 50,
		Mutation: Mutation{
			Policy: tryi.MutateFull,
			Chance: 0.01,
			Amount: 0.10,
		},
		Selection:        SelectTruncation,
		Cutoff:           0.15,
		TournamentSize:   3,
		FitnessThreshold: 0.99,
		OutputRate:       100,
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("mutation_policy", validateMutationPolicy)
}

func validateMutationPolicy(fl validator.FieldLevel) bool {
	switch tryi.MutationType(fl.Field().Uint()) {
	case tryi.MutateFull, tryi.MutateGene:
		return true
	}
	return false
}

// Validate checks every field. Errors wrap ErrInvalidConfig.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Selector returns the configured selection operator.
func (c Config) Selector() Selector {
	if c.Selection == SelectTournament {
		return Tournament{K: c.TournamentSize}
	}
	return Truncation{Cutoff: c.Cutoff}
}

// done reports whether best is good enough to stop.
func (c Config) done(best Match) bool {
	return best.Fitness() >= c.FitnessThreshold
}

// exhausted reports whether generation gen may not run.
func (c Config) exhausted(gen int) bool {
	return c.MaxGenerations > 0 && gen > c.MaxGenerations
}
