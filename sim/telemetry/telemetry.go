// Package telemetry exports pricing-game step statistics as Prometheus
// metrics. A Recorder owns its registry so several simulations can run in
// one process without colliding on the default registerer.
package telemetry

import (
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/pricing-sim/pricing-sim/sim"
)

const namespace = "pricing_sim"

// Recorder implements sim.StepObserver and sim.ErrorObserver using Prometheus.
type Recorder struct {
	registry     *prometheus.Registry
	steps        *prometheus.CounterVec
	degenerate   *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	rewards      *prometheus.HistogramVec
	revenue      prometheus.Histogram
	averagePrice prometheus.Gauge
}

// New creates a Recorder with a private registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		steps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "steps_total",
				Help:      "Total number of evaluated steps",
			},
			[]string{"policy"},
		),
		degenerate: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "degenerate_steps_total",
				Help:      "Steps whose revenues were all equal under the normalization policy",
			},
			[]string{"policy"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of rejected steps",
			},
			[]string{"kind"},
		),
		rewards: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "reward",
				Help:      "Distribution of per-agent rewards",
				Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
			},
			[]string{"policy"},
		),
		revenue: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "revenue",
				Help:      "Distribution of per-agent revenues",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 16),
			},
		),
		averagePrice: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "average_price",
				Help:      "Average chosen price of the last evaluated step",
			},
		),
	}
}

// ObserveStep records a successful step.
func (r *Recorder) ObserveStep(res *sim.StepResult) {
	r.steps.WithLabelValues(res.Policy).Inc()
	if res.Degenerate {
		r.degenerate.WithLabelValues(res.Policy).Inc()
	}
	for _, v := range res.Rewards {
		r.rewards.WithLabelValues(res.Policy).Observe(v)
	}
	for _, v := range res.Revenues {
		r.revenue.Observe(v)
	}
	r.averagePrice.Set(res.AveragePrice)
}

// ObserveError records a rejected step, labelled by its error kind.
func (r *Recorder) ObserveError(err error) {
	r.errorsTotal.WithLabelValues(ErrorKind(err)).Inc()
}

// ErrorKind maps an error onto the sentinel it wraps.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, sim.ErrInvalidChoice):
		return "invalid_choice"
	case errors.Is(err, sim.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, sim.ErrInvariantViolation):
		return "invariant_violation"
	case errors.Is(err, sim.ErrConfig):
		return "config"
	default:
		return "other"
	}
}

// Gather returns the current metric families.
func (r *Recorder) Gather() ([]*dto.MetricFamily, error) {
	return r.registry.Gather()
}

// WriteText writes all metrics in the Prometheus text exposition format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
