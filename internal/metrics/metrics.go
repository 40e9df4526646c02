// Package metrics exposes Prometheus counters for figure rebuilds and
// the local recoveries the dashboard performs instead of failing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tipsdash"

// Metrics holds the dashboard collectors on a private registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	rebuilds         *prometheus.CounterVec
	rebuildFailures  *prometheus.CounterVec
	rebuildDuration  *prometheus.HistogramVec
	fallbacks        *prometheus.CounterVec
	paletteOverflows *prometheus.CounterVec
}

// New registers the collectors, plus the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rebuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "figure_rebuilds_total",
			Help:      "Figures rebuilt, by figure id.",
		}, []string{"figure"}),
		rebuildFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "figure_rebuild_failures_total",
			Help:      "Figure rebuilds that failed and kept the previous figure.",
		}, []string{"figure"}),
		rebuildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "figure_rebuild_duration_seconds",
			Help:      "Time spent rebuilding a figure.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		}, []string{"figure"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selector_fallbacks_total",
			Help:      "Selector values outside their domain replaced by the default.",
		}, []string{"control"}),
		paletteOverflows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "palette_overflows_total",
			Help:      "Series whose color was reused because the palette was too short.",
		}, []string{"column"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.rebuilds,
		m.rebuildFailures,
		m.rebuildDuration,
		m.fallbacks,
		m.paletteOverflows,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRebuild records one rebuild of figure that started at start.
func (m *Metrics) ObserveRebuild(figure string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.rebuilds.WithLabelValues(figure).Inc()
	m.rebuildDuration.WithLabelValues(figure).Observe(time.Since(start).Seconds())
	if err != nil {
		m.rebuildFailures.WithLabelValues(figure).Inc()
	}
}

// Fallback records a selector value replaced by its default.
func (m *Metrics) Fallback(control string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(control).Inc()
}

// PaletteOverflow records a series colored by cycling the palette.
func (m *Metrics) PaletteOverflow(column string) {
	if m == nil {
		return
	}
	m.paletteOverflows.WithLabelValues(column).Inc()
}
