package ga

import (
	"fmt"

	"bitevolve/internal/rng"
)

// TournamentSelect draws k distinct members and returns a copy of the fittest.
// Ties go to the candidate drawn first.
func TournamentSelect(pop Population, scores []float64, k int, src *rng.Source) (Genome, error) {
	if len(scores) != pop.Size() {
		return Genome{}, fmt.Errorf("%w: %d scores for %d members", ErrInvalidArgument, len(scores), pop.Size())
	}
	if k < 1 || k > pop.Size() {
		return Genome{}, fmt.Errorf("%w: tournament size %d with %d candidates", ErrInvalidArgument, k, pop.Size())
	}

	idx, err := src.ChooseKIndices(pop.Size(), k)
	if err != nil {
		return Genome{}, err
	}

	best := idx[0]
	for _, candidate := range idx[1:] {
		if scores[candidate] > scores[best] {
			best = candidate
		}
	}
	return pop.Members[best].Clone(), nil
}

// SelectParents runs two independent tournaments
func SelectParents(pop Population, scores []float64, k int, src *rng.Source) (Genome, Genome, error) {
	p1, err := TournamentSelect(pop, scores, k, src)
	if err != nil {
		return Genome{}, Genome{}, err
	}
	p2, err := TournamentSelect(pop, scores, k, src)
	if err != nil {
		return Genome{}, Genome{}, err
	}
	return p1, p2, nil
}
