// Package metrics holds the Prometheus collectors for clustering runs.
//
// Each Metrics owns its registry, so tests and batch runs never share
// state through the default registerer. A nil *Metrics is valid and records
// nothing.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for AlignTotal.
const (
	OutcomeOK              = "ok"
	OutcomeInvalidArgument = "invalid_argument"
	OutcomeIO              = "io"
	OutcomeEncoding        = "encoding"
	OutcomeEngine          = "engine"
	OutcomeFormat          = "format"
	OutcomeCancelled       = "cancelled"
	OutcomeError           = "error"
)

type Metrics struct {
	reg *prometheus.Registry

	alignTotal    *prometheus.CounterVec
	alignDuration prometheus.Histogram
	clusters      prometheus.Histogram
	sequences     prometheus.Counter
	sessions      prometheus.Counter
	nativeLeaks   prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		alignTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "starclust_align_total",
			Help: "Clustering runs by outcome",
		}, []string{"outcome"}),
		alignDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "starclust_align_duration_seconds",
			Help:    "Wall time of one clustering run",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 16), // 1ms to ~30s
		}),
		clusters: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "starclust_align_clusters",
			Help:    "Clusters produced per successful run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		sequences: f.NewCounter(prometheus.CounterOpts{
			Name: "starclust_sequences_total",
			Help: "Distinct sequences submitted to the engine",
		}),
		sessions: f.NewCounter(prometheus.CounterOpts{
			Name: "starclust_sessions_total",
			Help: "Engine sessions opened",
		}),
		nativeLeaks: f.NewCounter(prometheus.CounterOpts{
			Name: "starclust_native_leaks_total",
			Help: "Native buffers still live when a session was released (debug builds only)",
		}),
	}
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// ObserveAlign records one finished run.
func (m *Metrics) ObserveAlign(outcome string, d time.Duration, sequences, clusters int) {
	if m == nil {
		return
	}
	m.alignTotal.WithLabelValues(outcome).Inc()
	m.alignDuration.Observe(d.Seconds())
	m.sequences.Add(float64(sequences))
	if outcome == OutcomeOK {
		m.clusters.Observe(float64(clusters))
	}
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

// NativeLeak records n buffers found live at release.
func (m *Metrics) NativeLeak(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.nativeLeaks.Add(float64(n))
}

// WriteTextfile writes all collectors in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
