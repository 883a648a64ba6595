// Package prometheus records docscout service metrics with the Prometheus
// client library.
package prometheus

import (
	"net/http"
	"time"

	"github.com/fwojciec/docscout"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "docscout"

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// UnknownType labels requested document types missing from the pattern
// table. Request labels are caller input and never become series of their own.
const UnknownType = "unknown"

// Metrics holds the collectors of one process. Each Metrics has its own
// registry so instances never collide.
type Metrics struct {
	registry *prometheus.Registry
	known    map[string]bool

	scrapes   *prometheus.CounterVec
	matches   *prometheus.CounterVec
	unmatched *prometheus.CounterVec
	downloads *prometheus.CounterVec
	bytes     prometheus.Counter
	duration  *prometheus.HistogramVec
}

// NewMetrics creates and registers the docscout collectors along with the
// Go runtime and process collectors. documentTypes lists the labels that may
// appear in the type label of unmatched_total; others count as UnknownType.
func NewMetrics(documentTypes ...string) *Metrics {
	known := make(map[string]bool, len(documentTypes))
	for _, t := range documentTypes {
		known[t] = true
	}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		known:    known,
		scrapes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrapes_total",
			Help:      "Number of page scrapes by outcome.",
		}, []string{"outcome"}),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Number of matched documents by type and confidence.",
		}, []string{"type", "confidence"}),
		unmatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unmatched_total",
			Help:      "Number of requested document types without a match.",
		}, []string{"type"}),
		downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloads_total",
			Help:      "Number of PDF downloads by outcome.",
		}, []string{"outcome"}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloaded_bytes_total",
			Help:      "Bytes of validated PDF content downloaded.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of scrape and download operations.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		}, []string{"operation"}),
	}
	m.registry.MustRegister(
		m.scrapes,
		m.matches,
		m.unmatched,
		m.downloads,
		m.bytes,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeScrape(result *docscout.ScrapeResult, err error, d time.Duration) {
	m.duration.WithLabelValues("scrape").Observe(d.Seconds())
	if err != nil {
		m.scrapes.WithLabelValues(OutcomeError).Inc()
		return
	}
	m.scrapes.WithLabelValues(OutcomeSuccess).Inc()
	for _, match := range result.Matches {
		m.matches.WithLabelValues(match.DocumentType, string(match.Confidence())).Inc()
	}
	for _, t := range result.Unmatched {
		m.unmatched.WithLabelValues(m.typeLabel(t)).Inc()
	}
}

// typeLabel bounds the document type label to the known types.
func (m *Metrics) typeLabel(documentType string) string {
	if m.known[documentType] {
		return documentType
	}
	return UnknownType
}

func (m *Metrics) observeDownload(dl *docscout.Download, err error, d time.Duration) {
	m.duration.WithLabelValues("download").Observe(d.Seconds())
	if err != nil {
		m.downloads.WithLabelValues(docscout.ErrorCode(err)).Inc()
		return
	}
	m.downloads.WithLabelValues(OutcomeSuccess).Inc()
	m.bytes.Add(float64(dl.Size))
}
