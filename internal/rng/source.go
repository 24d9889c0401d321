package rng

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrInvalidArgument is returned when a draw is requested with impossible bounds.
var ErrInvalidArgument = errors.New("invalid argument")

// Source is a seeded PCG generator. Two sources built from the same seed
// produce the same sequence of draws on every platform.
type Source struct {
	seed uint64
	r    *rand.Rand
}

// New creates a deterministic source for the given seed
func New(seed uint64) *Source {
	return &Source{
		seed: seed,
		r:    rand.New(rand.NewPCG(seed, 0)),
	}
}

// Seed returns the seed the source was created with
func (s *Source) Seed() uint64 {
	return s.seed
}

// Split derives an independent source on its own PCG stream.
// The parent source is not advanced.
func (s *Source) Split(stream uint64) *Source {
	return &Source{
		seed: s.seed,
		r:    rand.New(rand.NewPCG(s.seed, stream+1)),
	}
}

// UniformInt returns an integer in [low, high).
// It panics if high <= low.
func (s *Source) UniformInt(low, high int) int {
	if high <= low {
		panic(fmt.Sprintf("rng: empty range [%d, %d)", low, high))
	}
	return low + s.r.IntN(high-low)
}

// UniformFloat returns a float in [0, 1)
func (s *Source) UniformFloat() float64 {
	return s.r.Float64()
}

// ChooseKIndices samples k distinct indices from [0, n) using a partial
// Fisher-Yates shuffle. The order of the result is the draw order.
// Only displaced slots are tracked, so a call costs O(k) regardless of n.
func (s *Source) ChooseKIndices(n, k int) ([]int, error) {
	if n < 0 || k < 0 || k > n {
		return nil, fmt.Errorf("%w: cannot choose %d of %d indices", ErrInvalidArgument, k, n)
	}

	displaced := make(map[int]int, k)
	slot := func(i int) int {
		if v, ok := displaced[i]; ok {
			return v
		}
		return i
	}

	out := make([]int, k)
	for i := 0; i < k; i++ {
		j := i + s.r.IntN(n-i)
		out[i] = slot(j)
		displaced[j] = slot(i)
	}
	return out, nil
}
