package ga

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"bitevolve/internal/rng"
)

// FitnessFunc scores a genome; higher is better. It must be pure.
type FitnessFunc func(Genome) float64

// Evaluator scores a batch of genomes. The returned slice is aligned with
// the input by index.
type Evaluator interface {
	Evaluate(ctx context.Context, genomes []Genome) ([]float64, error)
}

// SequentialEvaluator applies a fitness function in population order
type SequentialEvaluator struct {
	Fitness FitnessFunc
}

// Evaluate implements Evaluator
func (s SequentialEvaluator) Evaluate(ctx context.Context, genomes []Genome) ([]float64, error) {
	scores := make([]float64, len(genomes))
	for i, g := range genomes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		scores[i] = s.Fitness(g)
	}
	return scores, nil
}

// State is the lifecycle stage of an Evolver
type State int32

const (
	StateInitialized State = iota
	StateRunning
	StateCompleted
	// StateAborted marks a run that stopped on cancellation or an evaluator error
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// GenerationReport is handed to observers after each generation is bred
type GenerationReport struct {
	Stat       GenerationStat
	Best       Genome
	Elites     int
	Offspring  int
	Evaluation time.Duration
	Duration   time.Duration
}

// Observer receives one report per generation, in order
type Observer func(GenerationReport)

// Result is the outcome of a completed run
type Result struct {
	History   RunHistory
	Best      Genome
	BestScore float64
	// Population and Scores describe the final, evaluated population
	Population Population
	Scores     []float64
}

// Option configures an Evolver
type Option func(*Evolver)

// WithLogger sets the structured logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Evolver) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithEvaluator replaces the default sequential evaluator
func WithEvaluator(ev Evaluator) Option {
	return func(e *Evolver) {
		e.evaluator = ev
	}
}

// WithObserver registers a per-generation callback
func WithObserver(obs Observer) Option {
	return func(e *Evolver) {
		if obs != nil {
			e.observers = append(e.observers, obs)
		}
	}
}

// WithInitialPopulation seeds the run with the given members instead of a
// random population
func WithInitialPopulation(members []Genome) Option {
	return func(e *Evolver) {
		e.initial = members
	}
}

// Evolver runs the generational loop for a single configuration.
// An Evolver runs at most once.
type Evolver struct {
	cfg       RunConfig
	src       *rng.Source
	evaluator Evaluator
	logger    *zap.Logger
	observers []Observer
	initial   []Genome

	state atomic.Int32

	best      Genome
	bestScore float64
	hasBest   bool
}

// NewEvolver validates cfg and prepares a run
func NewEvolver(cfg RunConfig, fitness FitnessFunc, opts ...Option) (*Evolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Evolver{
		cfg:    cfg,
		src:    rng.New(cfg.Seed),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.evaluator == nil {
		if fitness == nil {
			return nil, fmt.Errorf("%w: fitness function is required", ErrInvalidArgument)
		}
		e.evaluator = SequentialEvaluator{Fitness: fitness}
	}
	if e.initial != nil {
		if _, err := NewPopulation(e.initial, cfg.PopulationSize, cfg.GenomeLength); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// State reports the current lifecycle stage
func (e *Evolver) State() State {
	return State(e.state.Load())
}

// Run executes every configured generation and returns the history and the
// best genome observed.
func (e *Evolver) Run(ctx context.Context) (Result, error) {
	if !e.state.CompareAndSwap(int32(StateInitialized), int32(StateRunning)) {
		return Result{}, fmt.Errorf("%w: evolver is %s", ErrInvalidArgument, e.State())
	}

	result, err := e.run(ctx)
	if err != nil {
		e.state.Store(int32(StateAborted))
		return Result{}, err
	}
	e.state.Store(int32(StateCompleted))
	return result, nil
}

func (e *Evolver) run(ctx context.Context) (Result, error) {
	var pop Population
	if e.initial != nil {
		pop, _ = NewPopulation(e.initial, e.cfg.PopulationSize, e.cfg.GenomeLength)
	} else {
		pop = InitPopulation(e.cfg, e.src)
	}

	e.logger.Info("evolution started",
		zap.Int("population", e.cfg.PopulationSize),
		zap.Int("genome_length", e.cfg.GenomeLength),
		zap.Int("generations", e.cfg.Generations),
		zap.Uint64("seed", e.cfg.Seed),
	)
	startTime := time.Now()

	history := make(RunHistory, 0, e.cfg.Generations)
	for gen := 1; gen <= e.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		genStart := time.Now()

		// 1. Evaluate
		scores, err := e.evaluate(ctx, pop)
		if err != nil {
			return Result{}, err
		}
		evalTime := time.Since(genStart)

		// 2. Record
		stat := summarize(gen, scores)
		history = append(history, stat)

		// 3-5. Elitism, breeding, replacement
		next, elites, err := e.nextGeneration(pop, scores)
		if err != nil {
			return Result{}, err
		}

		report := GenerationReport{
			Stat:       stat,
			Best:       pop.Members[BestIndex(scores)],
			Elites:     elites,
			Offspring:  next.Size() - elites,
			Evaluation: evalTime,
			Duration:   time.Since(genStart),
		}
		e.logger.Debug("generation complete",
			zap.Int("generation", gen),
			zap.Float64("best", stat.BestFitness),
			zap.Float64("mean", stat.MeanFitness),
			zap.Duration("duration", report.Duration),
		)
		for _, obs := range e.observers {
			obs(report)
		}

		pop = next
	}

	scores, err := e.evaluate(ctx, pop)
	if err != nil {
		return Result{}, err
	}

	e.logger.Info("evolution completed",
		zap.Float64("best_score", e.bestScore),
		zap.String("best_genome", e.best.String()),
		zap.Duration("elapsed", time.Since(startTime)),
	)

	return Result{
		History:    history,
		Best:       e.best.Clone(),
		BestScore:  e.bestScore,
		Population: pop,
		Scores:     scores,
	}, nil
}

// evaluate scores the population and tracks the best genome seen so far
func (e *Evolver) evaluate(ctx context.Context, pop Population) ([]float64, error) {
	scores, err := e.evaluator.Evaluate(ctx, pop.Members)
	if err != nil {
		return nil, err
	}
	if len(scores) != pop.Size() {
		return nil, fmt.Errorf("evaluator returned %d scores for %d genomes", len(scores), pop.Size())
	}
	for i, v := range scores {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("evaluator returned non-finite score %v for genome %d", v, i)
		}
	}

	i := BestIndex(scores)
	if !e.hasBest || scores[i] > e.bestScore {
		e.best = pop.Members[i].Clone()
		e.bestScore = scores[i]
		e.hasBest = true
	}
	return scores, nil
}

// nextGeneration builds the replacement population: offspring first, then
// the unchanged elites. It returns the number of elites carried over.
func (e *Evolver) nextGeneration(pop Population, scores []float64) (Population, int, error) {
	elites := pop.Elites(scores, e.cfg.Elitism)
	target := e.cfg.Offspring()

	members := make([]Genome, 0, e.cfg.PopulationSize)
	for len(members) < target {
		p1, p2, err := SelectParents(pop, scores, e.cfg.TournamentSize, e.src)
		if err != nil {
			return Population{}, 0, err
		}

		c1, c2 := Crossover(p1, p2, e.cfg.CrossoverRate, e.src)
		members = append(members, Mutate(c1, e.cfg.MutationRate, e.src))
		// An odd remainder drops the second child unmutated
		if len(members) < target {
			members = append(members, Mutate(c2, e.cfg.MutationRate, e.src))
		}
	}

	members = append(members, elites...)
	return Population{Members: members}, len(elites), nil
}

// RunEvolution validates cfg, runs it to completion and returns the result.
// Validation failures wrap ErrInvalidArgument and no generation is executed.
func RunEvolution(ctx context.Context, cfg RunConfig, fitness FitnessFunc, opts ...Option) (Result, error) {
	e, err := NewEvolver(cfg, fitness, opts...)
	if err != nil {
		return Result{}, err
	}
	return e.Run(ctx)
}
