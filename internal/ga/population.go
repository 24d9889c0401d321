package ga

import (
	"fmt"
	"sort"

	"bitevolve/internal/rng"
)

// Population is an ordered set of genomes that share one length
type Population struct {
	Members []Genome
}

// InitPopulation creates a random population sized by the run config
func InitPopulation(cfg RunConfig, src *rng.Source) Population {
	p := Population{
		Members: make([]Genome, cfg.PopulationSize),
	}

	for i := 0; i < cfg.PopulationSize; i++ {
		p.Members[i] = RandomGenome(cfg.GenomeLength, src)
	}

	return p
}

// NewPopulation checks that members match the expected shape and copies them
func NewPopulation(members []Genome, size, genomeLength int) (Population, error) {
	if len(members) != size {
		return Population{}, fmt.Errorf("%w: population has %d members, want %d", ErrInvalidArgument, len(members), size)
	}
	p := Population{Members: make([]Genome, size)}
	for i, g := range members {
		if g.Len() != genomeLength {
			return Population{}, fmt.Errorf("%w: member %d has length %d, want %d", ErrInvalidArgument, i, g.Len(), genomeLength)
		}
		p.Members[i] = g.Clone()
	}
	return p, nil
}

// Size returns the population size
func (p Population) Size() int {
	return len(p.Members)
}

// BestIndex returns the index of the highest score, lowest index on ties
func BestIndex(scores []float64) int {
	if len(scores) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}

// TopK returns the indices of the k highest scores in descending score order.
// Equal scores keep their population order, so the lower index ranks first.
func TopK(scores []float64, k int) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	if k > len(order) {
		k = len(order)
	}
	if k < 0 {
		k = 0
	}
	return order[:k]
}

// Elites copies the top-k genomes of the population
func (p Population) Elites(scores []float64, k int) []Genome {
	idx := TopK(scores, k)
	elites := make([]Genome, len(idx))
	for i, j := range idx {
		elites[i] = p.Members[j].Clone()
	}
	return elites
}
