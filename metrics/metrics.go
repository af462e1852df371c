// Package metrics exports evolution progress as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gogpu/tryi/evolve"
)

// Collector records every step reported by an evolver.
type Collector struct {
	steps      *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	diff       prometheus.Gauge
	fitness    prometheus.Gauge
	generation prometheus.Gauge
}

var _ evolve.Observer = (*Collector)(nil)

// New registers the metrics on reg. A nil reg uses
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Collector{
		steps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tryi",
			Name:      "steps_total",
			Help:      "Finished steps by phase and outcome",
		}, []string{"phase", "result"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tryi",
			Name:      "step_duration_seconds",
			Help:      "Wall time of a bootstrap round or generation",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 16),
		}, []string{"phase"}),
		diff: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "tryi",
			Name:      "best_diff",
			Help:      "Difference between the best genome and the target",
		}),
		fitness: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "tryi",
			Name:      "best_fitness",
			Help:      "Fitness (1 - diff) of the best genome",
		}),
		generation: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "tryi",
			Name:      "generation",
			Help:      "Last finished generation",
		}),
	}
}

// Observe implements evolve.Observer.
func (c *Collector) Observe(s evolve.Stats) {
	result := "bad"
	if s.Improved {
		result = "good"
	}
	phase := s.Phase.String()
	c.steps.WithLabelValues(phase, result).Inc()
	c.duration.WithLabelValues(phase).Observe(s.Duration.Seconds())
	c.diff.Set(s.Diff)
	c.fitness.Set(1 - s.Diff)
	if s.Phase == evolve.PhaseEvolve {
		c.generation.Set(float64(s.Step))
	}
}
