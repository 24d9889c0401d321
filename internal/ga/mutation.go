package ga

import (
	"bitevolve/internal/rng"
)

// Mutate flips each bit independently with probability rate and returns the
// result as a new genome. One draw is consumed per locus regardless of rate.
func Mutate(g Genome, rate float64, src *rng.Source) Genome {
	out := g.Bits()
	for i := range out {
		if src.UniformFloat() < rate {
			out[i] ^= 1
		}
	}
	return Genome{bits: out}
}
