// Package metrics provides Prometheus metrics for go-pipeline-lag.
//
// The analyzer is a batch tool: the scan counters are set once when the
// directory walk finishes, and the /metrics endpoint exposes them for the
// lifetime of the process (long analyses can be watched mid-run as files
// complete).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/randomizedcoder/go-pipeline-lag/internal/scan"
)

var (
	filesScanned = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pipeline_lag_files_scanned",
		Help: "Log files scanned in this analysis run",
	})

	filesSkipped = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pipeline_lag_files_skipped",
		Help: "Files skipped due to read errors",
	})

	linesProcessed = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pipeline_lag_lines_processed",
		Help: "Total log lines examined",
	})

	eventsRecorded = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pipeline_lag_events_recorded",
		Help: "Total (event, request id) pairs recorded",
	})

	continuationLines = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pipeline_lag_continuation_lines",
		Help: "Lines that inherited timestamp and level from a previous line",
	})

	unparseableLines = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pipeline_lag_unparseable_lines",
		Help: "Lines skipped with no carried timestamp context",
	})

	badTimestamps = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pipeline_lag_bad_timestamps",
		Help: "Full-shaped lines skipped because the timestamp failed to parse",
	})

	uniqueRequests = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pipeline_lag_unique_requests",
		Help: "Unique request ids in the event store",
	})

	duplicateEvents = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pipeline_lag_duplicate_events",
		Help: "Duplicate (request id, event) occurrences overwritten",
	})
)

// Register registers all analyzer metrics with the default registry.
func Register() {
	prometheus.MustRegister(
		filesScanned,
		filesSkipped,
		linesProcessed,
		eventsRecorded,
		continuationLines,
		unparseableLines,
		badTimestamps,
		uniqueRequests,
		duplicateEvents,
	)
}

// SetScanCounters publishes the finished scan's counters.
func SetScanCounters(c scan.Counters, unique int, duplicates int64) {
	filesScanned.Set(float64(c.FilesScanned))
	filesSkipped.Set(float64(c.FilesSkipped))
	linesProcessed.Set(float64(c.LinesProcessed))
	eventsRecorded.Set(float64(c.EventsRecorded))
	continuationLines.Set(float64(c.ContinuationLines))
	unparseableLines.Set(float64(c.UnparseableLines))
	badTimestamps.Set(float64(c.BadTimestamps))
	uniqueRequests.Set(float64(unique))
	duplicateEvents.Set(float64(duplicates))
}
