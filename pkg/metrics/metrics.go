// Package metrics exposes Prometheus counters for import, export and assistant traffic.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry       *prometheus.Registry
	imports        *prometheus.CounterVec
	importDuration prometheus.Histogram
	importedRows   *prometheus.CounterVec
	exports        *prometheus.CounterVec
	assistant      *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agrimind",
			Name:      "imports_total",
			Help:      "Import attempts by outcome.",
		}, []string{"status"}),
		importDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agrimind",
			Name:      "import_duration_seconds",
			Help:      "Wall time of import attempts.",
			Buckets:   prometheus.DefBuckets,
		}),
		importedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agrimind",
			Name:      "imported_rows_total",
			Help:      "Rows created by successful imports, per collection.",
		}, []string{"collection"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agrimind",
			Name:      "exports_total",
			Help:      "Exports served by format.",
		}, []string{"format"}),
		assistant: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agrimind",
			Name:      "assistant_requests_total",
			Help:      "Assistant requests by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		m.imports, m.importDuration, m.importedRows, m.exports, m.assistant,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveImport records one attempt; counts are added only for successful runs.
func (m *Metrics) ObserveImport(status string, d time.Duration, counts map[string]int) {
	if m == nil {
		return
	}
	m.imports.WithLabelValues(status).Inc()
	m.importDuration.Observe(d.Seconds())
	for k, n := range counts {
		m.importedRows.WithLabelValues(k).Add(float64(n))
	}
}

func (m *Metrics) IncExport(format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format).Inc()
}

func (m *Metrics) IncAssistant(outcome string) {
	if m == nil {
		return
	}
	m.assistant.WithLabelValues(outcome).Inc()
}
