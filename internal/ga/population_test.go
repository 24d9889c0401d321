package ga

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitevolve/internal/rng"
)

func TestInitPopulationShape(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.PopulationSize = 25
	cfg.GenomeLength = 12

	pop := InitPopulation(cfg, rng.New(1))
	require.Equal(t, 25, pop.Size())
	for _, g := range pop.Members {
		assert.Equal(t, 12, g.Len())
	}

	again := InitPopulation(cfg, rng.New(1))
	for i := range pop.Members {
		assert.True(t, pop.Members[i].Equal(again.Members[i]))
	}
}

func TestNewPopulationValidatesShape(t *testing.T) {
	members := []Genome{MustParseGenome("01"), MustParseGenome("10")}

	pop, err := NewPopulation(members, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, pop.Size())

	_, err = NewPopulation(members, 3, 2)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = NewPopulation(members, 2, 3)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestTopKPrefersLowerIndexOnTies(t *testing.T) {
	scores := []float64{3, 5, 5, 1, 5}

	assert.Equal(t, []int{1, 2}, TopK(scores, 2))
	assert.Equal(t, []int{1, 2, 4, 0}, TopK(scores, 4))
	assert.Empty(t, TopK(scores, 0))
	assert.Len(t, TopK(scores, 10), 5)
}

func TestBestIndex(t *testing.T) {
	assert.Equal(t, -1, BestIndex(nil))
	assert.Equal(t, 1, BestIndex([]float64{1, 4, 4, 2}))
}

func TestElitesAreCopies(t *testing.T) {
	pop := Population{Members: []Genome{
		MustParseGenome("00"),
		MustParseGenome("11"),
		MustParseGenome("01"),
	}}
	elites := pop.Elites([]float64{0, 2, 1}, 2)

	require.Len(t, elites, 2)
	assert.Equal(t, "11", elites[0].String())
	assert.Equal(t, "01", elites[1].String())

	elites[0].bits[0] = 0
	assert.Equal(t, "11", pop.Members[1].String())
}
