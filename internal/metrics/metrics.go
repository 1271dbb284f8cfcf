package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "eventboard"

// Metrics holds the run metrics. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	fetchPages    prometheus.Counter
	fetchRecords  prometheus.Counter
	published     prometheus.Gauge
	runs          *prometheus.CounterVec
	lastSuccessTS prometheus.Gauge
}

// New creates the metrics on a private registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.fetchPages = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_pages_total",
		Help:      "Database query pages pulled",
	})
	m.fetchRecords = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_records_total",
		Help:      "Database rows pulled",
	})
	m.published = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "published_events",
		Help:      "Events in the currently published feed",
	})
	m.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Pipeline runs by result",
	}, []string{"result"})
	m.lastSuccessTS = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last successful run",
	})

	m.registry.MustRegister(
		m.fetchPages, m.fetchRecords, m.published, m.runs, m.lastSuccessTS,
	)
	return m
}

// ObservePage records one pulled page of rows.
func (m *Metrics) ObservePage(rows int) {
	if m == nil {
		return
	}
	m.fetchPages.Inc()
	m.fetchRecords.Add(float64(rows))
}

// ObserveRun records the outcome of a pipeline run. A failed run publishes
// an empty feed, so the gauge drops to zero either way.
func (m *Metrics) ObserveRun(published int, err error, at time.Time) {
	if m == nil {
		return
	}
	m.published.Set(float64(published))
	if err != nil {
		m.runs.WithLabelValues("error").Inc()
		return
	}
	m.runs.WithLabelValues("success").Inc()
	m.lastSuccessTS.Set(float64(at.Unix()))
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the metrics for the node exporter textfile
// collector. The write is atomic.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
