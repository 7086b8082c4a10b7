// Package metrics records deck reads and writes as Prometheus metrics.
package metrics

import (
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

const namespace = "keydeck"

// Metrics holds the Prometheus metrics of deck I/O. It implements
// deck.Recorder and is safe for concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	// Reader metrics
	keywordsDecoded *prometheus.CounterVec
	issues          *prometheus.CounterVec
	readDuration    prometheus.Histogram
	linesRead       prometheus.Counter
	reads           prometheus.Counter

	// Writer metrics
	writeDuration prometheus.Histogram
	bytesWritten  prometheus.Counter
	writes        prometheus.Counter
}

// New creates the metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		keywordsDecoded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "keywords_decoded_total",
				Help:      "Total number of keyword blocks decoded, by keyword name",
			},
			[]string{"keyword"},
		),

		issues: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "issues_total",
				Help:      "Total number of issues reported while reading",
			},
			[]string{"kind", "severity"},
		),

		readDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "read_duration_seconds",
				Help:      "Deck read duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),

		linesRead: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lines_read_total",
				Help:      "Total number of deck lines read",
			},
		),

		reads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reads_total",
				Help:      "Total number of decks read",
			},
		),

		writeDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "write_duration_seconds",
				Help:      "Deck write duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),

		bytesWritten: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bytes_written_total",
				Help:      "Total number of deck bytes written",
			},
		),

		writes: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "writes_total",
				Help:      "Total number of decks written",
			},
		),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// KeywordDecoded records one decoded keyword block
func (m *Metrics) KeywordDecoded(name string) {
	m.keywordsDecoded.WithLabelValues(name).Inc()
}

// IssueReported records a reader issue
func (m *Metrics) IssueReported(kind, severity string) {
	m.issues.WithLabelValues(kind, severity).Inc()
}

// ReadFinished records a completed read
func (m *Metrics) ReadFinished(d time.Duration, lines int) {
	m.reads.Inc()
	m.readDuration.Observe(d.Seconds())
	m.linesRead.Add(float64(lines))
}

// WriteFinished records a completed write
func (m *Metrics) WriteFinished(d time.Duration, bytes int) {
	m.writes.Inc()
	m.writeDuration.Observe(d.Seconds())
	m.bytesWritten.Add(float64(bytes))
}

// WriteText writes every metric in the Prometheus text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

// Handler serves the metrics for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
