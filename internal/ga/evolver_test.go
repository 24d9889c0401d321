package ga

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"bitevolve/internal/rng"
)

func countOnes(g Genome) float64 {
	return float64(g.Ones())
}

func smallConfig() RunConfig {
	cfg := DefaultRunConfig()
	cfg.PopulationSize = 40
	cfg.GenomeLength = 24
	cfg.Generations = 15
	return cfg
}

func TestRunEvolutionIsDeterministic(t *testing.T) {
	cfg := smallConfig()

	a, err := RunEvolution(context.Background(), cfg, countOnes)
	require.NoError(t, err)
	b, err := RunEvolution(context.Background(), cfg, countOnes)
	require.NoError(t, err)

	assert.Equal(t, a.History, b.History)
	assert.Equal(t, a.Best.String(), b.Best.String())
	assert.Equal(t, a.BestScore, b.BestScore)
	assert.Len(t, a.History, cfg.Generations)
}

func TestDifferentSeedsProduceDifferentRuns(t *testing.T) {
	cfg := smallConfig()
	a, err := RunEvolution(context.Background(), cfg, countOnes)
	require.NoError(t, err)

	cfg.Seed = 43
	b, err := RunEvolution(context.Background(), cfg, countOnes)
	require.NoError(t, err)

	assert.NotEqual(t, a.History, b.History)
}

func TestPopulationSizeIsInvariant(t *testing.T) {
	for _, tc := range []struct {
		size, elitism int
	}{
		{10, 1}, // odd remainder
		{10, 2},
		{7, 0},
		{5, 4},
	} {
		cfg := smallConfig()
		cfg.PopulationSize = tc.size
		cfg.Elitism = tc.elitism
		cfg.TournamentSize = 2

		var reports []GenerationReport
		res, err := RunEvolution(context.Background(), cfg, countOnes, WithObserver(func(r GenerationReport) {
			reports = append(reports, r)
		}))
		require.NoError(t, err)

		require.Len(t, reports, cfg.Generations)
		for i, r := range reports {
			assert.Equal(t, i+1, r.Stat.Generation)
			assert.Equal(t, tc.elitism, r.Elites)
			assert.Equal(t, cfg.PopulationSize, r.Elites+r.Offspring)
		}
		assert.Equal(t, cfg.PopulationSize, res.Population.Size())
		assert.Len(t, res.Scores, cfg.PopulationSize)
	}
}

func TestBestFitnessNeverDecreasesWithElitism(t *testing.T) {
	cfg := smallConfig()
	cfg.Elitism = 1
	cfg.MutationRate = 0.2

	res, err := RunEvolution(context.Background(), cfg, countOnes)
	require.NoError(t, err)

	for i := 1; i < len(res.History); i++ {
		assert.GreaterOrEqual(t, res.History[i].BestFitness, res.History[i-1].BestFitness,
			"generation %d lost its best genome", i+1)
	}
}

func TestHistoryBounds(t *testing.T) {
	cfg := smallConfig()
	res, err := RunEvolution(context.Background(), cfg, countOnes)
	require.NoError(t, err)

	for _, s := range res.History {
		assert.GreaterOrEqual(t, s.BestFitness, s.MeanFitness)
		assert.GreaterOrEqual(t, s.MeanFitness, s.WorstFitness)
		assert.GreaterOrEqual(t, s.WorstFitness, 0.0)
		assert.LessOrEqual(t, s.BestFitness, float64(cfg.GenomeLength))
		assert.LessOrEqual(t, res.BestScore, float64(cfg.GenomeLength))
		assert.GreaterOrEqual(t, res.BestScore, s.BestFitness)
	}
	assert.Equal(t, float64(res.Best.Ones()), res.BestScore)
	assert.Equal(t, cfg.GenomeLength, res.Best.Len())
}

func TestReferenceRunConverges(t *testing.T) {
	res, err := RunEvolution(context.Background(), DefaultRunConfig(), countOnes)
	require.NoError(t, err)

	require.Len(t, res.History, 50)
	assert.Greater(t, res.BestScore, res.History[0].BestFitness)
	assert.GreaterOrEqual(t, res.BestScore, 65.0)
	assert.Greater(t, res.History[49].MeanFitness, res.History[0].MeanFitness)
}

func TestNoRecombinationCopiesTournamentWinners(t *testing.T) {
	cfg := RunConfig{
		PopulationSize: 10,
		GenomeLength:   8,
		Generations:    1,
		CrossoverRate:  0,
		MutationRate:   0,
		Elitism:        1,
		TournamentSize: 3,
		Seed:           7,
	}
	res, err := RunEvolution(context.Background(), cfg, countOnes)
	require.NoError(t, err)

	// replay the same stream by hand
	src := rng.New(7)
	initial := InitPopulation(cfg, src)
	scores := make([]float64, initial.Size())
	for i, g := range initial.Members {
		scores[i] = countOnes(g)
	}

	var expected []Genome
	for len(expected) < cfg.Offspring() {
		p1, p2, err := SelectParents(initial, scores, cfg.TournamentSize, src)
		require.NoError(t, err)
		c1, c2 := Crossover(p1, p2, cfg.CrossoverRate, src)
		expected = append(expected, Mutate(c1, 0, src))
		if len(expected) < cfg.Offspring() {
			expected = append(expected, Mutate(c2, 0, src))
		}
	}

	next := res.Population.Members
	require.Len(t, next, 10)
	for i := 0; i < 9; i++ {
		assert.Equal(t, expected[i].String(), next[i].String())
		assert.True(t, containsGenome(initial.Members, next[i]), "offspring %d is not a copy of a parent", i)
	}

	elite := initial.Members[BestIndex(scores)]
	assert.Equal(t, elite.String(), next[9].String())
	assert.Equal(t, scores[BestIndex(scores)], res.Scores[9])
}

func TestOptimalGenomeIsPreserved(t *testing.T) {
	initial := []Genome{
		MustParseGenome("0000"),
		MustParseGenome("0101"),
		MustParseGenome("1111"),
		MustParseGenome("1000"),
	}

	for seed := uint64(0); seed < 25; seed++ {
		cfg := DefaultRunConfig()
		cfg.GenomeLength = 4
		cfg.PopulationSize = 4
		cfg.Generations = 1
		cfg.Seed = seed

		res, err := RunEvolution(context.Background(), cfg, countOnes, WithInitialPopulation(initial))
		require.NoError(t, err)
		assert.Equal(t, 4.0, res.BestScore)
		assert.Equal(t, "1111", res.Best.String())
	}
}

func TestInvalidConfigFailsBeforeAnyGeneration(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.PopulationSize = 3
	cfg.Elitism = 1
	cfg.TournamentSize = 5

	calls := 0
	observed := 0
	_, err := RunEvolution(context.Background(), cfg, func(g Genome) float64 {
		calls++
		return 0
	}, WithObserver(func(GenerationReport) { observed++ }))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Zero(t, calls)
	assert.Zero(t, observed)
}

func TestNewEvolverRejectsBadInputs(t *testing.T) {
	_, err := NewEvolver(smallConfig(), nil)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = NewEvolver(smallConfig(), countOnes, WithInitialPopulation([]Genome{MustParseGenome("1")}))
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestEvolverStateMachine(t *testing.T) {
	cfg := smallConfig()
	cfg.Generations = 3

	var e *Evolver
	var during []State
	e, err := NewEvolver(cfg, countOnes, WithObserver(func(GenerationReport) {
		during = append(during, e.State())
	}))
	require.NoError(t, err)
	assert.Equal(t, StateInitialized, e.State())

	_, err = e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, e.State())
	assert.Equal(t, []State{StateRunning, StateRunning, StateRunning}, during)

	_, err = e.Run(context.Background())
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, "completed", e.State().String())
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunEvolution(ctx, smallConfig(), countOnes)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCancelledRunEndsAborted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	generations := 0
	e, err := NewEvolver(smallConfig(), countOnes, WithObserver(func(GenerationReport) {
		generations++
		if generations == 2 {
			cancel()
		}
	}))
	require.NoError(t, err)

	_, err = e.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, generations)
	assert.Equal(t, StateAborted, e.State())
	assert.Equal(t, "aborted", e.State().String())

	_, err = e.Run(context.Background())
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, StateAborted, e.State())
}

func TestEvaluatorErrorAbortsRun(t *testing.T) {
	e, err := NewEvolver(smallConfig(), nil, WithEvaluator(shortEvaluator{}))
	require.NoError(t, err)

	_, err = e.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateAborted, e.State())
}

type shortEvaluator struct{}

func (shortEvaluator) Evaluate(_ context.Context, genomes []Genome) ([]float64, error) {
	return make([]float64, len(genomes)-1), nil
}

func TestRunRejectsMisalignedScores(t *testing.T) {
	_, err := RunEvolution(context.Background(), smallConfig(), nil, WithEvaluator(shortEvaluator{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scores")
}

func TestRunRejectsNonFiniteScores(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{"nan", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			fitness := func(g Genome) float64 {
				calls++
				if calls == 1 {
					return tt.value
				}
				return float64(g.Ones())
			}

			res, err := RunEvolution(context.Background(), smallConfig(), fitness)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "non-finite")
			assert.Zero(t, res.BestScore)
		})
	}
}

func TestRunLogsEachGeneration(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	cfg := smallConfig()
	cfg.Generations = 4

	_, err := RunEvolution(context.Background(), cfg, countOnes, WithLogger(zap.New(core)))
	require.NoError(t, err)

	assert.Equal(t, 4, logs.FilterMessage("generation complete").Len())
	assert.Equal(t, 1, logs.FilterMessage("evolution started").Len())
	assert.Equal(t, 1, logs.FilterMessage("evolution completed").Len())
}

func containsGenome(members []Genome, g Genome) bool {
	for _, m := range members {
		if m.Equal(g) {
			return true
		}
	}
	return false
}
