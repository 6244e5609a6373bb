// Package metrics exposes run and provider metrics to Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"PortfolioSentinel/internal/model"
)

// Registry holds all PortfolioSentinel metrics on a private registry.
type Registry struct {
	reg *prometheus.Registry

	Runs           *prometheus.CounterVec
	Evaluated      *prometheus.CounterVec
	SymbolFailures *prometheus.CounterVec
	FetchDuration  *prometheus.HistogramVec
	LastRun        prometheus.Gauge
	RunDuration    prometheus.Histogram
}

// NewRegistry creates and registers every metric.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinel_runs_total",
				Help: "Portfolio runs by trigger and result",
			},
			[]string{"trigger", "result"},
		),

		Evaluated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinel_holdings_evaluated_total",
				Help: "Holdings evaluated by resulting classification",
			},
			[]string{"classification"},
		),

		SymbolFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinel_symbol_failures_total",
				Help: "Holdings that could not be analyzed, by error kind",
			},
			[]string{"kind"},
		),

		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sentinel_fetch_duration_seconds",
				Help:    "Provider call latency",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"provider", "op", "result"},
		),

		LastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sentinel_last_run_timestamp_seconds",
				Help: "Unix time the last run finished",
			},
		),

		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sentinel_run_duration_seconds",
				Help:    "Wall time of a full portfolio run",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
	}

	r.reg.MustRegister(
		r.Runs, r.Evaluated, r.SymbolFailures, r.FetchDuration, r.LastRun, r.RunDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// ObserveFetch matches collector.Observer.
func (r *Registry) ObserveFetch(provider, op string, elapsed time.Duration, err error) {
	result := "ok"
	switch {
	case errors.Is(err, model.ErrDataUnavailable):
		result = "unavailable"
	case err != nil:
		result = "error"
	}
	r.FetchDuration.WithLabelValues(provider, op, result).Observe(elapsed.Seconds())
}

// ObserveRun records a finished run. err is the run-level error, if any.
func (r *Registry) ObserveRun(trigger model.RunTrigger, report *model.RunReport, err error) {
	if err != nil || report == nil {
		r.Runs.WithLabelValues(string(trigger), "error").Inc()
		return
	}
	r.Runs.WithLabelValues(string(trigger), "ok").Inc()
	for _, a := range report.Holdings {
		if a.Failed() {
			r.SymbolFailures.WithLabelValues(a.ErrorKind).Inc()
		}
		r.Evaluated.WithLabelValues(string(a.Recommendation.Classification)).Inc()
	}
	r.LastRun.Set(float64(report.FinishedAt.Unix()))
	r.RunDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())
}
