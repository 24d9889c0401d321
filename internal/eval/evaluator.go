package eval

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"bitevolve/internal/ga"
)

// ParallelEvaluator scores genomes on a bounded pool of goroutines.
// The fitness function must be pure; results are written by index so the
// output order always matches the input order.
type ParallelEvaluator struct {
	fitness ga.FitnessFunc
	workers int
}

// NewParallelEvaluator creates an evaluator. workers <= 0 uses one worker per CPU.
func NewParallelEvaluator(fitness ga.FitnessFunc, workers int) *ParallelEvaluator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &ParallelEvaluator{
		fitness: fitness,
		workers: workers,
	}
}

// Workers returns the concurrency limit
func (e *ParallelEvaluator) Workers() int {
	return e.workers
}

// Evaluate implements ga.Evaluator
func (e *ParallelEvaluator) Evaluate(ctx context.Context, genomes []ga.Genome) ([]float64, error) {
	if e.workers == 1 {
		return ga.SequentialEvaluator{Fitness: e.fitness}.Evaluate(ctx, genomes)
	}

	scores := make([]float64, len(genomes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := range genomes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			scores[i] = e.fitness(genomes[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}
