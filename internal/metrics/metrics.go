// Package metrics records run counters in a private Prometheus registry and
// exports them to a node-exporter textfile.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dgallion1/regsplit/internal/provision"
)

// Recorder holds the run's collectors.
type Recorder struct {
	reg       *prometheus.Registry
	documents *prometheus.CounterVec
	rows      *prometheus.CounterVec
	dropped   *prometheus.CounterVec
	segment   prometheus.Histogram
	durations *Durations
}

func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "regsplit_documents_total",
			Help: "Documents processed, by outcome.",
		}, []string{"status"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "regsplit_provisions_total",
			Help: "Provision rows written, by language and type.",
		}, []string{"lang", "type"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "regsplit_fragments_dropped_total",
			Help: "Fragments that matched no rule in the active zone.",
		}, []string{"lang"}),
		segment: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "regsplit_segment_duration_seconds",
			Help:    "Time spent parsing and segmenting one document.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		durations: NewDurations(),
	}
	r.reg.MustRegister(r.documents, r.rows, r.dropped, r.segment)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Document counts one processed document.
func (r *Recorder) Document(status string) {
	r.documents.WithLabelValues(status).Inc()
}

// Provisions adds the per-type row counts of one language.
func (r *Recorder) Provisions(lang string, byType map[provision.Type]int) {
	for typ, n := range byType {
		r.rows.WithLabelValues(lang, string(typ)).Add(float64(n))
	}
}

// Dropped adds dropped fragments for lang.
func (r *Recorder) Dropped(lang string, n int) {
	r.dropped.WithLabelValues(lang).Add(float64(n))
}

// Segment observes one document's processing time.
func (r *Recorder) Segment(d time.Duration) {
	r.segment.Observe(d.Seconds())
	r.durations.Record(d)
}

// Durations returns the latency summary of all observed documents.
func (r *Recorder) Durations() Snapshot {
	return r.durations.Snapshot()
}

// WriteFile writes all metrics in text exposition format.
func (r *Recorder) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
