// Package metrics exposes Prometheus instrumentation for card generation.
package metrics

import (
	"context"
	"net/http"

	"github.com/ferrerallan/christmas-card-chain/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry      *prometheus.Registry
	stageRuns     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	cards         *prometheus.CounterVec
}

var _ pipeline.Observer = (*Metrics)(nil)

// New creates and registers the card generation collectors together with
// the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stageRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardchain_stage_runs_total",
				Help: "Pipeline stage executions by stage, backend and outcome.",
			},
			[]string{"stage", "backend", "outcome"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cardchain_stage_duration_seconds",
				Help:    "Duration of pipeline stage executions.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"stage", "backend"},
		),
		cards: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardchain_cards_total",
				Help: "Card generation requests by outcome.",
			},
			[]string{"outcome"},
		),
	}

	m.registry.MustRegister(
		m.stageRuns,
		m.stageDuration,
		m.cards,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// StageStarted implements pipeline.Observer.
func (m *Metrics) StageStarted(context.Context, pipeline.StageEvent) {}

// StageFinished implements pipeline.Observer.
func (m *Metrics) StageFinished(_ context.Context, e pipeline.StageEvent) {
	m.stageRuns.WithLabelValues(e.OutputKey, e.Backend, outcome(e.Err)).Inc()
	m.stageDuration.WithLabelValues(e.OutputKey, e.Backend).Observe(e.Duration.Seconds())
}

// CardGenerated records the outcome of one card request.
func (m *Metrics) CardGenerated(err error) {
	m.cards.WithLabelValues(outcome(err)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
