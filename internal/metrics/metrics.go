// Package metrics counts what generator, scanner and filter runs did and
// writes the counters in the Prometheus text format, for node_exporter's
// textfile collector or for a quick look after a batch run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/logsift/logsift/internal/errors"
)

// Component names used as the "component" label.
const (
	Generator = "generator"
	Scanner   = "scanner"
	Filter    = "filter"
)

// Sample is what one run reports.
type Sample struct {
	BytesRead    uint64
	Lines        uint64
	Matches      uint64
	BytesWritten uint64
	Duration     time.Duration
}

// Collector holds the counters of all runs of a process.
type Collector struct {
	registry *prometheus.Registry

	runs         *prometheus.CounterVec
	bytesRead    *prometheus.CounterVec
	lines        *prometheus.CounterVec
	matches      *prometheus.CounterVec
	bytesWritten *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// New creates a collector with its own registry.
func New() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,

		runs: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "logsift_runs_total",
				Help: "Total number of runs by outcome",
			},
			[]string{"component", "outcome"},
		),
		bytesRead: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "logsift_source_bytes_total",
				Help: "Uncompressed bytes read from sources",
			},
			[]string{"component"},
		),
		lines: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "logsift_lines_total",
				Help: "Lines generated or evaluated against the marker",
			},
			[]string{"component"},
		),
		matches: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "logsift_matched_lines_total",
				Help: "Lines containing the marker",
			},
			[]string{"component"},
		),
		bytesWritten: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "logsift_sink_bytes_total",
				Help: "Bytes written to sinks, after compression",
			},
			[]string{"component"},
		),
		duration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "logsift_run_duration_seconds",
				Help:    "Run duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
			},
			[]string{"component"},
		),
	}
}

// Registry returns the registry the counters live in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Observe records a finished run. Counters of failed runs are recorded too,
// as far as the run got.
func (c *Collector) Observe(component string, s Sample, err error) {
	if c == nil {
		return
	}
	c.runs.WithLabelValues(component, Outcome(err)).Inc()
	c.bytesRead.WithLabelValues(component).Add(float64(s.BytesRead))
	c.lines.WithLabelValues(component).Add(float64(s.Lines))
	c.matches.WithLabelValues(component).Add(float64(s.Matches))
	c.bytesWritten.WithLabelValues(component).Add(float64(s.BytesWritten))
	c.duration.WithLabelValues(component).Observe(s.Duration.Seconds())
}

// WriteTextfile writes all counters to path in the text exposition format.
// The file is replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return errors.Wrapf(errors.ErrSinkWrite, "writing metrics to %s: %v", path, err)
	}
	return nil
}

// Outcome maps an error to the "outcome" label value.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	switch errors.Kind(err) {
	case errors.ErrCanceled:
		return "canceled"
	case errors.ErrInvalidConfig:
		return "invalid_config"
	case errors.ErrFileNotFound:
		return "file_not_found"
	case errors.ErrSourceRead:
		return "source_error"
	case errors.ErrCompression:
		return "compression_error"
	case errors.ErrSinkWrite:
		return "sink_error"
	default:
		return "error"
	}
}
