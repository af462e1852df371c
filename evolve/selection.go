package evolve

import (
	"math"
	"math/rand/v2"
)

// Selector picks two parents from a population sorted best first.
type Selector interface {
	Select(r *rand.Rand, pop Population) (Match, Match)
}

// Truncation selects two distinct parents uniformly from the best
// ceil(len*Cutoff) members of the population, at least one.
// With a single candidate, both parents are that candidate.
type Truncation struct {
	Cutoff float64
}

// Select implements Selector.
func (t Truncation) Select(r *rand.Rand, pop Population) (Match, Match) {
	n := t.candidates(len(pop))
	if n == 1 {
		return pop[0], pop[0]
	}
	i := r.IntN(n)
	j := r.IntN(n - 1)
	if j >= i {
		j++
	}
	return pop[i], pop[j]
}

// cutoffEpsilon absorbs rounding in size*Cutoff, so 100*0.07 gives 7.
const cutoffEpsilon = 1e-9

func (t Truncation) candidates(size int) int {
	n := int(math.Ceil(float64(size)*t.Cutoff - cutoffEpsilon))
	return min(max(n, 1), size)
}

// Tournament runs two independent tournaments of K distinct members each
// and returns both winners, which may be the same genome. K is clamped to
// [1, len(pop)].
type Tournament struct {
	K int
}

// Select implements Selector.
func (t Tournament) Select(r *rand.Rand, pop Population) (Match, Match) {
	k := min(max(t.K, 1), len(pop))
	idx := make([]int, len(pop))
	return t.round(r, pop, idx, k), t.round(r, pop, idx, k)
}

// round samples k members without replacement by a partial shuffle.
func (t Tournament) round(r *rand.Rand, pop Population, idx []int, k int) Match {
	for i := range idx {
		idx[i] = i
	}
	winner := -1
	for i := 0; i < k; i++ {
		j := i + r.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		if winner < 0 || pop[idx[i]].Diff < pop[winner].Diff {
			winner = idx[i]
		}
	}
	return pop[winner]
}
