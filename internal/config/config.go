package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"bitevolve/internal/eval"
	"bitevolve/internal/ga"
)

var validate = validator.New()

// Config is the root configuration structure
type Config struct {
	Seed    uint64        `yaml:"seed"`
	GA      GAConfig      `yaml:"ga"`
	Fitness FitnessConfig `yaml:"fitness"`
	Eval    EvalConfig    `yaml:"eval"`
	Logging LogConfig     `yaml:"logging"`
	Storage StorageConfig `yaml:"storage"`
}

// GAConfig defines genetic algorithm parameters
type GAConfig struct {
	Population    int     `yaml:"population"`
	GenomeLength  int     `yaml:"genome_length"`
	Generations   int     `yaml:"generations"`
	CrossoverRate float64 `yaml:"crossover_rate"`
	MutationRate  float64 `yaml:"mutation_rate"`
	Elitism       int     `yaml:"elitism"`
	TournamentK   int     `yaml:"tournament_k"`
}

// FitnessConfig selects the fitness function
type FitnessConfig struct {
	Mode   string `yaml:"mode" validate:"oneof=onemax leading_ones target trap"`
	Target string `yaml:"target"`
	TrapK  int    `yaml:"trap_k" validate:"min=0"`
}

// EvalConfig defines evaluation parameters
type EvalConfig struct {
	Workers int `yaml:"workers" validate:"min=0"`
}

// LogConfig defines logging and artifact output
type LogConfig struct {
	Level        string `yaml:"level" validate:"oneof=debug info warn error"`
	Format       string `yaml:"format" validate:"oneof=json console"`
	CSVPath      string `yaml:"csv_path"`
	JSONPath     string `yaml:"json_path"`
	ChampionPath string `yaml:"champion_path"`
	MetricsPath  string `yaml:"metrics_path"`
}

// StorageConfig selects where finished runs are recorded
type StorageConfig struct {
	Kind       string `yaml:"kind" validate:"oneof=memory sqlite"`
	SQLitePath string `yaml:"sqlite_path" validate:"required_if=Kind sqlite"`
}

// Default returns the reference configuration
func Default() *Config {
	run := ga.DefaultRunConfig()
	return &Config{
		Seed: run.Seed,
		GA: GAConfig{
			Population:    run.PopulationSize,
			GenomeLength:  run.GenomeLength,
			Generations:   run.Generations,
			CrossoverRate: run.CrossoverRate,
			MutationRate:  run.MutationRate,
			Elitism:       run.Elitism,
			TournamentK:   run.TournamentSize,
		},
		Fitness: FitnessConfig{
			Mode: eval.ModeOneMax,
		},
		Logging: LogConfig{
			Level:        "info",
			Format:       "console",
			CSVPath:      "runs/run.csv",
			JSONPath:     "runs/run.jsonl",
			ChampionPath: "artifacts/champion.json",
		},
		Storage: StorageConfig{
			Kind:       "memory",
			SQLitePath: "runs/bitevolve.db",
		},
	}
}

// Load reads a YAML config file. Keys missing from the file keep their
// default values, so an explicit zero (for example mutation_rate: 0) is kept.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML onto the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section, including the run parameters
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ga.ErrInvalidArgument, err)
	}
	if err := c.RunConfig().Validate(); err != nil {
		return err
	}
	if _, err := eval.Lookup(c.FitnessSpec(), c.GA.GenomeLength); err != nil {
		return err
	}
	return nil
}

// RunConfig maps the GA section onto the evolver's configuration
func (c *Config) RunConfig() ga.RunConfig {
	return ga.RunConfig{
		PopulationSize: c.GA.Population,
		GenomeLength:   c.GA.GenomeLength,
		Generations:    c.GA.Generations,
		CrossoverRate:  c.GA.CrossoverRate,
		MutationRate:   c.GA.MutationRate,
		Elitism:        c.GA.Elitism,
		TournamentSize: c.GA.TournamentK,
		Seed:           c.Seed,
	}
}

// FitnessSpec returns the fitness selection for eval.Lookup
func (c *Config) FitnessSpec() eval.Spec {
	return eval.Spec{
		Mode:   c.Fitness.Mode,
		Target: c.Fitness.Target,
		TrapK:  c.Fitness.TrapK,
	}
}
