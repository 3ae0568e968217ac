package latency

import (
	"time"

	"github.com/influxdata/tdigest"
)

// Throughput returns requests per second over the observed span of the
// intervals: count / (max exit − min enter).
//
// Returns 0 for an empty interval set or a non-positive span (single
// request, zero duration); division by zero never propagates.
func Throughput(intervals []Interval) float64 {
	if len(intervals) == 0 {
		return 0
	}

	minEnter := intervals[0].Enter
	maxExit := intervals[0].Exit
	for _, iv := range intervals[1:] {
		if iv.Enter.Before(minEnter) {
			minEnter = iv.Enter
		}
		if iv.Exit.After(maxExit) {
			maxExit = iv.Exit
		}
	}

	span := maxExit.Sub(minEnter).Seconds()
	if span <= 0 {
		return 0
	}
	return float64(len(intervals)) / span
}

// StageSummary holds the aggregate figures for one pipeline stage.
type StageSummary struct {
	Stage            string
	Count            int
	AvgLatencyMs     float64
	MedianLatencyMs  float64
	P95LatencyMs     float64
	ThroughputPerSec float64
}

// Summarize aggregates the intervals of one stage.
//
// The average covers every interval. Median and p95 are computed with a
// T-Digest and may skip the first warmupSkip intervals (in enter-time
// order) so cold-start requests don't dominate the percentiles. Intervals
// must already be sorted by enter time, as returned by IntervalsForStage.
func Summarize(stage string, intervals []Interval, warmupSkip int) StageSummary {
	sum := StageSummary{
		Stage:            stage,
		Count:            len(intervals),
		ThroughputPerSec: Throughput(intervals),
	}
	if len(intervals) == 0 {
		return sum
	}

	var totalMs float64
	for _, iv := range intervals {
		totalMs += durationMs(iv.Latency)
	}
	sum.AvgLatencyMs = totalMs / float64(len(intervals))

	tail := intervals
	if warmupSkip > 0 && warmupSkip < len(intervals) {
		tail = intervals[warmupSkip:]
	}

	td := tdigest.NewWithCompression(100)
	for _, iv := range tail {
		td.Add(durationMs(iv.Latency), 1)
	}
	sum.MedianLatencyMs = td.Quantile(0.50)
	sum.P95LatencyMs = td.Quantile(0.95)

	return sum
}

// durationMs converts a duration to fractional milliseconds.
func durationMs(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}
