// Package observability defines the Prometheus instrumentation for the
// simulation and forecast paths.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the collectors the twin records into.
type Metrics struct {
	TicksTotal       *prometheus.CounterVec
	Interventions    prometheus.Counter
	ForecastDuration prometheus.Histogram
	ForecastFailures prometheus.Counter
	ActiveSessions   prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TicksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drumtwin_ticks_total",
				Help: "Total simulation ticks, labeled by resulting status",
			},
			[]string{"status"},
		),
		Interventions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "drumtwin_supervisor_interventions_total",
				Help: "Total fire-intensity overrides applied by the supervisor",
			},
		),
		ForecastDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "drumtwin_forecast_duration_seconds",
				Help:    "Duration of temperature forecast computations",
				Buckets: prometheus.DefBuckets,
			},
		),
		ForecastFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "drumtwin_forecast_failures_total",
				Help: "Total forecasts that failed (model or schema errors)",
			},
		),
		ActiveSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "drumtwin_active_sessions",
				Help: "Number of live simulation sessions",
			},
		),
	}
	reg.MustRegister(
		m.TicksTotal,
		m.Interventions,
		m.ForecastDuration,
		m.ForecastFailures,
		m.ActiveSessions,
	)
	return m
}

// NewNopMetrics creates unregistered collectors, for callers that do not
// export metrics (CLI runs, tests).
func NewNopMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
