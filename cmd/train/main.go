package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bitevolve/internal/config"
	"bitevolve/internal/eval"
	"bitevolve/internal/ga"
	"bitevolve/internal/logging"
	"bitevolve/internal/metrics"
	"bitevolve/internal/storage"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "path to config file (defaults to the reference run)")
	generations := flag.Int("generations", 0, "override the number of generations")
	seed := flag.Uint64("seed", 0, "override the random seed")
	flag.Parse()

	cfg, err := loadConfig(*configPath, *generations, passedSeed(flag.CommandLine, seed))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := train(ctx, cfg, logger); err != nil {
		logger.Error("training failed", zap.Error(err))
		os.Exit(1)
	}
}

// passedSeed returns seed only when -seed was set on the command line
func passedSeed(fs *flag.FlagSet, seed *uint64) *uint64 {
	var out *uint64
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			out = seed
		}
	})
	return out
}

// loadConfig applies the flag overrides; a nil seed keeps the configured one
func loadConfig(path string, generations int, seed *uint64) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if generations > 0 {
		cfg.GA.Generations = generations
	}
	if seed != nil {
		cfg.Seed = *seed
	}
	return cfg, cfg.Validate()
}

func train(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	runID := uuid.NewString()
	runCfg := cfg.RunConfig()
	logger = logger.With(zap.String("run_id", runID))

	fitness, err := eval.Lookup(cfg.FitnessSpec(), runCfg.GenomeLength)
	if err != nil {
		return err
	}
	evaluator := eval.NewParallelEvaluator(fitness, cfg.Eval.Workers)

	store, err := storage.NewStore(cfg.Storage.Kind, cfg.Storage.SQLitePath)
	if err != nil {
		return err
	}
	if err := store.Init(ctx); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer storage.CloseIfSupported(store)

	history, err := logging.NewHistoryWriter(cfg.Logging.CSVPath, cfg.Logging.JSONPath, logger)
	if err != nil {
		return fmt.Errorf("open history files: %w", err)
	}
	collector := metrics.NewCollector("bitevolve")

	logger.Info("training",
		zap.String("fitness", cfg.Fitness.Mode),
		zap.Int("workers", evaluator.Workers()),
		zap.String("store", cfg.Storage.Kind),
	)

	startTime := time.Now()
	result, err := ga.RunEvolution(ctx, runCfg, nil,
		ga.WithEvaluator(evaluator),
		ga.WithLogger(logger),
		ga.WithObserver(history.Observe),
		ga.WithObserver(collector.Observe),
		ga.WithObserver(func(r ga.GenerationReport) {
			fmt.Printf("Gen %4d | Best: %6.1f | Mean: %6.2f | Std: %5.2f | %v\n",
				r.Stat.Generation, r.Stat.BestFitness, r.Stat.MeanFitness, r.Stat.StdDevFitness, r.Duration)
		}),
	)
	if closeErr := history.Close(); closeErr != nil {
		logger.Warn("history output incomplete", zap.Error(closeErr))
	}
	if err != nil {
		return err
	}

	maxScore := eval.MaxScore(runCfg.GenomeLength)
	fmt.Println("---")
	fmt.Printf("Training complete! %d generations in %v\n", runCfg.Generations, time.Since(startTime))
	fmt.Printf("Best Fitness: %.0f / %.0f\n", result.BestScore, maxScore)
	fmt.Printf("Best Solution: %s\n", result.Best)

	// Save final champion
	if cfg.Logging.ChampionPath != "" {
		champion := logging.Champion{
			RunID:        runID,
			Generation:   runCfg.Generations,
			Fitness:      result.BestScore,
			MaxFitness:   maxScore,
			GenomeLength: runCfg.GenomeLength,
			Genome:       result.Best,
		}
		if err := logging.SaveChampion(cfg.Logging.ChampionPath, champion); err != nil {
			logger.Warn("failed to save champion", zap.Error(err))
		}
	}

	if cfg.Logging.MetricsPath != "" {
		if err := collector.WriteTextfile(cfg.Logging.MetricsPath); err != nil {
			logger.Warn("failed to write metrics", zap.Error(err))
		}
	}

	record := storage.NewRunRecord(runID)
	record.CreatedAt = startTime.UTC()
	record.Config = runCfg
	record.FitnessMode = cfg.Fitness.Mode
	record.BestGenome = result.Best
	record.BestScore = result.BestScore
	if err := store.SaveRun(ctx, record); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	if err := store.SaveHistory(ctx, runID, result.History); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
