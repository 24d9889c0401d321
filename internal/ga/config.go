package ga

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RunConfig holds the parameters of a single evolution run
type RunConfig struct {
	PopulationSize int     `json:"population_size" validate:"gtfield=Elitism"`
	GenomeLength   int     `json:"genome_length" validate:"min=1"`
	Generations    int     `json:"generations" validate:"min=1"`
	CrossoverRate  float64 `json:"crossover_rate" validate:"gte=0,lte=1"`
	MutationRate   float64 `json:"mutation_rate" validate:"gte=0,lte=1"`
	Elitism        int     `json:"elitism" validate:"min=0"`
	TournamentSize int     `json:"tournament_size" validate:"min=1,ltefield=PopulationSize"`
	Seed           uint64  `json:"seed"`
}

// DefaultRunConfig mirrors the reference OneMax run
func DefaultRunConfig() RunConfig {
	return RunConfig{
		PopulationSize: 300,
		GenomeLength:   80,
		Generations:    50,
		CrossoverRate:  0.9,
		MutationRate:   0.01,
		Elitism:        2,
		TournamentSize: 3,
		Seed:           42,
	}
}

// Offspring is the number of bred members per generation
func (c RunConfig) Offspring() int {
	return c.PopulationSize - c.Elitism
}

// Validate rejects configurations the evolver cannot run.
// Every failure wraps ErrInvalidArgument.
func (c RunConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidArgument, formatValidationError(err))
	}
	return nil
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, formatFieldError(e))
	}
	return strings.Join(msgs, "; ")
}

func formatFieldError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s, got %v", field, e.Param(), e.Value())
	case "gte":
		return fmt.Sprintf("%s must be >= %s, got %v", field, e.Param(), e.Value())
	case "lte":
		return fmt.Sprintf("%s must be <= %s, got %v", field, e.Param(), e.Value())
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s, got %v", field, e.Param(), e.Value())
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s, got %v", field, e.Param(), e.Value())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
