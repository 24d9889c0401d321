package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"bitevolve/internal/ga"
)

// Collector holds the Prometheus metrics for evolution runs
type Collector struct {
	registry *prometheus.Registry

	Generations        prometheus.Counter
	BestFitness        prometheus.Gauge
	MeanFitness        prometheus.Gauge
	GenerationDuration prometheus.Histogram
	EvaluationDuration prometheus.Histogram
}

// NewCollector creates a collector on its own registry
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	generations := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Total number of generations evolved",
		},
	)

	bestFitness := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_fitness",
			Help:      "Best fitness in the most recent generation",
		},
	)

	meanFitness := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mean_fitness",
			Help:      "Mean fitness in the most recent generation",
		},
	)

	generationDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Wall time spent on one generation",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)

	evaluationDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Wall time spent scoring one population",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)

	registry.MustRegister(
		generations,
		bestFitness,
		meanFitness,
		generationDuration,
		evaluationDuration,
	)

	return &Collector{
		registry:           registry,
		Generations:        generations,
		BestFitness:        bestFitness,
		MeanFitness:        meanFitness,
		GenerationDuration: generationDuration,
		EvaluationDuration: evaluationDuration,
	}
}

// Registry returns the registry holding the metrics
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Observe records one generation; it has the ga.Observer signature
func (c *Collector) Observe(report ga.GenerationReport) {
	c.Generations.Inc()
	c.BestFitness.Set(report.Stat.BestFitness)
	c.MeanFitness.Set(report.Stat.MeanFitness)
	c.GenerationDuration.Observe(report.Duration.Seconds())
	c.EvaluationDuration.Observe(report.Evaluation.Seconds())
}

// WriteTextfile dumps the registry in the text exposition format
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
