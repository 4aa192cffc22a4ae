package export

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects per-run export counters on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	pathways   *prometheus.CounterVec
	reactions  *prometheus.CounterVec
	ambiguous  *prometheus.CounterVec
	mismatches prometheus.Counter
	duration   prometheus.Histogram
}

// NewMetrics registers the export metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		pathways: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pwyexport_pathways_total",
			Help: "Pathways processed by result",
		}, []string{"result"}), // "written" or "skipped"
		reactions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pwyexport_reactions_total",
			Help: "Leaf reactions by kind",
		}, []string{"kind"}), // "annotated", "spontaneous" or "missing"
		ambiguous: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pwyexport_ambiguous_annotations_total",
			Help: "Annotations resolved from more than one candidate",
		}, []string{"kind"}),
		mismatches: f.NewCounter(prometheus.CounterOpts{
			Name: "pwyexport_status_mismatch_total",
			Help: "Rows whose reaction count does not match the EC entries",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pwyexport_pathway_duration_seconds",
			Help:    "Time to expand, annotate and write one pathway",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		}),
	}
}

func (m *Metrics) written(res *Result, d time.Duration) {
	if m == nil {
		return
	}
	m.pathways.WithLabelValues("written").Inc()
	m.duration.Observe(d.Seconds())
	for _, a := range res.Annotations {
		if a.Spontaneous {
			m.reactions.WithLabelValues("spontaneous").Inc()
			continue
		}
		m.reactions.WithLabelValues("annotated").Inc()
		if a.AmbiguousName {
			m.ambiguous.WithLabelValues("name").Inc()
		}
		if a.AmbiguousEC {
			m.ambiguous.WithLabelValues("ec").Inc()
		}
	}
	m.reactions.WithLabelValues("missing").Add(float64(len(res.Missing)))
	if !res.Row.Status {
		m.mismatches.Inc()
	}
}

func (m *Metrics) skipped() {
	if m == nil {
		return
	}
	m.pathways.WithLabelValues("skipped").Inc()
}

// WriteTextfile writes the registry in the node exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
