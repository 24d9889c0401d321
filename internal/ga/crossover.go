package ga

import (
	"bitevolve/internal/rng"
)

// Crossover performs single-point crossover with probability rate.
// The cut point is drawn from [1, length-1]; otherwise the parents are copied.
func Crossover(p1, p2 Genome, rate float64, src *rng.Source) (Genome, Genome) {
	if src.UniformFloat() >= rate || p1.Len() < 2 {
		return p1.Clone(), p2.Clone()
	}

	point := src.UniformInt(1, p1.Len())
	return CrossoverAt(p1, p2, point)
}

// CrossoverAt splices p1[:point]+p2[point:] and p2[:point]+p1[point:]
func CrossoverAt(p1, p2 Genome, point int) (Genome, Genome) {
	size := p1.Len()

	c1 := make([]byte, size)
	c2 := make([]byte, size)

	copy(c1[:point], p1.bits[:point])
	copy(c1[point:], p2.bits[point:])
	copy(c2[:point], p2.bits[:point])
	copy(c2[point:], p1.bits[point:])

	return Genome{bits: c1}, Genome{bits: c2}
}
