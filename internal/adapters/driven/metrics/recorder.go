// Package metrics exports processing counters in the Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

const namespace = "fitedit"

// Recorder counts file results, batches and watch events on its own registry.
type Recorder struct {
	registry      *prometheus.Registry
	files         *prometheus.CounterVec
	batches       *prometheus.CounterVec
	conflicts     prometheus.Counter
	watchEvents   prometheus.Counter
	batchDuration prometheus.Histogram
}

// NewRecorder creates a recorder with Go runtime and process collectors
// registered alongside the fitedit metrics.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Activity files processed, by final state.",
		}, []string{"state"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Directory batches completed, by mode.",
		}, []string{"mode"}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_conflicts_total",
			Help:      "Uploads the service reported as already existing.",
		}),
		watchEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "watch_events_total",
			Help:      "Activity file creation events seen by the watcher.",
		}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time of directory batches.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.files,
		r.batches,
		r.conflicts,
		r.watchEvents,
		r.batchDuration,
	)
	return r
}

// FileProcessed counts one file result.
func (r *Recorder) FileProcessed(res domain.FileResult) {
	r.files.WithLabelValues(string(res.State)).Inc()
	if res.Conflict {
		r.conflicts.Inc()
	}
}

// BatchCompleted counts a finished batch and observes its duration.
func (r *Recorder) BatchCompleted(report *domain.BatchReport) {
	r.batches.WithLabelValues(report.Mode.String()).Inc()
	r.batchDuration.Observe(report.Duration().Seconds())
}

// WatchEvent counts a qualifying filesystem event.
func (r *Recorder) WatchEvent() {
	r.watchEvents.Inc()
}

// Handler serves the registry for scraping.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
