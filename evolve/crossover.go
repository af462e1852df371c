package evolve

import (
	"fmt"
	"math/rand/v2"

	"github.com/gogpu/tryi"
)

// Mutation bundles a triangle mutation policy with its parameters.
type Mutation struct {
	// Policy is "full" or "gene".
	Policy tryi.MutationType `yaml:"policy" validate:"mutation_policy"`

	// Chance is the probability in [0, 1] that a triangle (full) or a
	// single value (gene) mutates.
	Chance float64 `yaml:"chance" validate:"gte=0,lte=1"`

	// Amount is the step size as a fraction of the current value.
	Amount float64 `yaml:"amount" validate:"gte=0,lte=1"`
}

// Apply returns tri mutated under m.
func (m Mutation) Apply(r *rand.Rand, tri tryi.Triangle) tryi.Triangle {
	return tri.Mutate(r, m.Policy, m.Chance, m.Amount)
}

// MutateAll returns a mutated copy of triangles.
func (m Mutation) MutateAll(r *rand.Rand, triangles []tryi.Triangle) []tryi.Triangle {
	out := make([]tryi.Triangle, len(triangles))
	for i, tri := range triangles {
		out[i] = m.Apply(r, tri)
	}
	return out
}

// Crossover builds a child of two equally long parents. Each triangle is
// taken from either parent with probability 1/2 and then mutated under m.
func Crossover(r *rand.Rand, p1, p2 []tryi.Triangle, m Mutation) ([]tryi.Triangle, error) {
	if len(p1) != len(p2) {
		return nil, fmt.Errorf("%w: %d and %d triangles", ErrLengthMismatch, len(p1), len(p2))
	}
	child := make([]tryi.Triangle, len(p1))
	for i := range p1 {
		base := p2[i]
		if r.Float64() < 0.5 {
			base = p1[i]
		}
		child[i] = m.Apply(r, base)
	}
	return child, nil
}
