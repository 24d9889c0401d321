// Package bitevolve is the public entry point for running the bit-string
// genetic algorithm from other modules.
package bitevolve

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"bitevolve/internal/eval"
	"bitevolve/internal/ga"
)

type (
	RunConfig        = ga.RunConfig
	Genome           = ga.Genome
	FitnessFunc      = ga.FitnessFunc
	GenerationStat   = ga.GenerationStat
	RunHistory       = ga.RunHistory
	GenerationReport = ga.GenerationReport
	Result           = ga.Result
	Option           = ga.Option
)

var (
	ErrInvalidArgument = ga.ErrInvalidArgument

	DefaultRunConfig = ga.DefaultRunConfig
	ParseGenome      = ga.ParseGenome
	NewGenome        = ga.NewGenome

	WithLogger            = ga.WithLogger
	WithObserver          = ga.WithObserver
	WithEvaluator         = ga.WithEvaluator
	WithInitialPopulation = ga.WithInitialPopulation
)

// OneMax counts the 1-bits of g
func OneMax(g Genome) float64 {
	return eval.OneMax(g)
}

// RunEvolution runs cfg to completion with the given fitness function
func RunEvolution(ctx context.Context, cfg RunConfig, fitness FitnessFunc, opts ...Option) (Result, error) {
	return ga.RunEvolution(ctx, cfg, fitness, opts...)
}

type RunRequest struct {
	Config RunConfig
	// Fitness is one of onemax, leading_ones, target or trap
	Fitness string
	Target  string
	TrapK   int
	Workers int
	Logger  *zap.Logger
}

type RunSummary struct {
	BestByGeneration []float64
	FinalBestFitness float64
	MaxFitness       float64
	Best             Genome
	History          RunHistory
}

// Run resolves a named fitness function, evaluates in parallel and
// summarizes the finished run.
func Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	fitness, err := eval.Lookup(eval.Spec{Mode: req.Fitness, Target: req.Target, TrapK: req.TrapK}, req.Config.GenomeLength)
	if err != nil {
		return RunSummary{}, err
	}
	evaluator := eval.NewParallelEvaluator(fitness, req.Workers)

	result, err := ga.RunEvolution(ctx, req.Config, fitness,
		ga.WithEvaluator(evaluator),
		ga.WithLogger(req.Logger),
	)
	if err != nil {
		return RunSummary{}, fmt.Errorf("run %s: %w", req.Fitness, err)
	}

	return RunSummary{
		BestByGeneration: result.History.BestSoFar(),
		FinalBestFitness: result.BestScore,
		MaxFitness:       eval.MaxScore(req.Config.GenomeLength),
		Best:             result.Best,
		History:          result.History,
	}, nil
}

// FitnessModes lists the names accepted by RunRequest.Fitness
func FitnessModes() []string {
	return eval.Modes()
}
