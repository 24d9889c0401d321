package ga

import (
	"gonum.org/v1/gonum/stat"
)

// GenerationStat summarizes the scores of one generation
type GenerationStat struct {
	Generation    int     `json:"generation"`
	BestFitness   float64 `json:"best_fitness"`
	MeanFitness   float64 `json:"mean_fitness"`
	WorstFitness  float64 `json:"worst_fitness"`
	StdDevFitness float64 `json:"stddev_fitness"`
}

// RunHistory is the append-only, generation-ordered list of stats
type RunHistory []GenerationStat

// Best returns the highest BestFitness in the history
func (h RunHistory) Best() (GenerationStat, bool) {
	if len(h) == 0 {
		return GenerationStat{}, false
	}
	best := h[0]
	for _, s := range h[1:] {
		if s.BestFitness > best.BestFitness {
			best = s
		}
	}
	return best, true
}

// Last returns the most recent entry
func (h RunHistory) Last() (GenerationStat, bool) {
	if len(h) == 0 {
		return GenerationStat{}, false
	}
	return h[len(h)-1], true
}

// BestSoFar returns the running maximum of BestFitness per generation
func (h RunHistory) BestSoFar() []float64 {
	out := make([]float64, len(h))
	for i, s := range h {
		out[i] = s.BestFitness
		if i > 0 && out[i-1] > out[i] {
			out[i] = out[i-1]
		}
	}
	return out
}

func summarize(generation int, scores []float64) GenerationStat {
	s := GenerationStat{Generation: generation}
	if len(scores) == 0 {
		return s
	}

	s.BestFitness, s.WorstFitness = scores[0], scores[0]
	for _, v := range scores[1:] {
		if v > s.BestFitness {
			s.BestFitness = v
		}
		if v < s.WorstFitness {
			s.WorstFitness = v
		}
	}
	if len(scores) == 1 {
		s.MeanFitness = scores[0]
		return s
	}
	s.MeanFitness, s.StdDevFitness = stat.PopMeanStdDev(scores, nil)
	return s
}
