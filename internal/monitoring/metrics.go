package monitoring

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	configsEvaluated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweep_configs_evaluated_total",
			Help: "Configurations evaluated, by validity outcome",
		},
		[]string{"outcome"},
	)

	configDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sweep_config_duration_seconds",
			Help:    "Wall time to evaluate one configuration",
			Buckets: prometheus.DefBuckets,
		},
	)

	configsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweep_configs_skipped_total",
			Help: "Configurations skipped before evaluation",
		},
		[]string{"reason"},
	)

	sweepProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sweep_progress_ratio",
			Help: "Fraction of the grid evaluated so far",
		},
	)
)

func init() {
	prometheus.MustRegister(configsEvaluated)
	prometheus.MustRegister(configDuration)
	prometheus.MustRegister(configsSkipped)
	prometheus.MustRegister(sweepProgress)
}

// SweepObserver feeds orchestrator events into the Prometheus registry.
// Implements sweep.Observer; safe for concurrent workers.
type SweepObserver struct {
	total     int64
	evaluated atomic.Int64
}

// NewSweepObserver creates an observer for a grid of the given size.
func NewSweepObserver(gridSize int) *SweepObserver {
	sweepProgress.Set(0)
	return &SweepObserver{total: int64(gridSize)}
}

// ObserveConfig records one evaluated configuration.
func (o *SweepObserver) ObserveConfig(valid bool, duration time.Duration) {
	outcome := "valid"
	if !valid {
		outcome = "invalid"
	}
	configsEvaluated.WithLabelValues(outcome).Inc()
	configDuration.Observe(duration.Seconds())

	done := o.evaluated.Add(1)
	if o.total > 0 {
		sweepProgress.Set(float64(done) / float64(o.total))
	}
}

// ObserveSkip records a configuration skipped before evaluation.
func (o *SweepObserver) ObserveSkip(reason string) {
	configsSkipped.WithLabelValues(reason).Inc()
}
