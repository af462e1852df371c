package evolve

import (
	"cmp"
	"slices"

	"github.com/gogpu/tryi"
)

// Match is a genome together with its difference from the target.
type Match struct {
	Genome *tryi.Tryi
	Diff   float64
}

// Fitness returns 1 - Diff, the share of the target the genome reproduces.
func (m Match) Fitness() float64 {
	return 1 - m.Diff
}

// Population is a set of matches. Selection expects it sorted best first.
type Population []Match

// Sort orders the population ascending by Diff. Equal diffs keep their
// relative order.
func (p Population) Sort() {
	slices.SortStableFunc(p, func(a, b Match) int {
		return cmp.Compare(a.Diff, b.Diff)
	})
}

// IsSorted reports whether the population is ascending by Diff.
func (p Population) IsSorted() bool {
	return slices.IsSortedFunc(p, func(a, b Match) int {
		return cmp.Compare(a.Diff, b.Diff)
	})
}

// Best returns the first match of a sorted population.
func (p Population) Best() Match {
	return p[0]
}

// bestIndex returns the index of the lowest Diff, the lowest index on ties.
func bestIndex(ms []Match) int {
	best := 0
	for i := 1; i < len(ms); i++ {
		if ms[i].Diff < ms[best].Diff {
			best = i
		}
	}
	return best
}
