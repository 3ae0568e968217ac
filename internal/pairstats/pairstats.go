// Package pairstats computes descriptive statistics over the time
// differences between two named events across a request population.
package pairstats

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/influxdata/tdigest"

	"github.com/randomizedcoder/go-pipeline-lag/internal/store"
)

// Diff is one per-request time difference in seconds.
type Diff struct {
	RequestID string
	Seconds   float64
}

// Result holds the statistics for one event pair.
//
// All statistics are in seconds. Diffs are signed: event B occurring before
// event A yields a negative difference, which is valid and retained.
// Stdev is the sample standard deviation and is only defined for two or
// more samples; HasStdev distinguishes "undefined" from "computed as zero".
type Result struct {
	EventA string
	EventB string

	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64

	Stdev    float64
	HasStdev bool

	// Percentiles from T-Digest over the diff population.
	P50 float64
	P95 float64

	// Diffs lists every qualifying request, sorted by request id for
	// reproducible output.
	Diffs []Diff
}

// Empty reports whether no request had both events. Callers must treat an
// empty result as "no data", not as an error or as zero-valued statistics.
func (r Result) Empty() bool {
	return r.Count == 0
}

// Compute calculates the time differences timestamp(eventB) −
// timestamp(eventA) for every request that recorded both events.
func Compute(st *store.RequestEventStore, eventA, eventB string) Result {
	res := Result{EventA: eventA, EventB: eventB}

	st.ForEach(func(requestID string, events map[string]time.Time) {
		ta, okA := events[eventA]
		tb, okB := events[eventB]
		if !okA || !okB {
			return
		}
		res.Diffs = append(res.Diffs, Diff{
			RequestID: requestID,
			Seconds:   tb.Sub(ta).Seconds(),
		})
	})

	if len(res.Diffs) == 0 {
		return res
	}

	sort.Slice(res.Diffs, func(i, j int) bool {
		return res.Diffs[i].RequestID < res.Diffs[j].RequestID
	})

	values := make([]float64, len(res.Diffs))
	td := tdigest.NewWithCompression(100)
	var sum float64
	for i, d := range res.Diffs {
		values[i] = d.Seconds
		sum += d.Seconds
		td.Add(d.Seconds, 1)
	}
	sort.Float64s(values)

	res.Count = len(values)
	res.Min = values[0]
	res.Max = values[len(values)-1]
	res.Mean = sum / float64(res.Count)
	res.Median = median(values)
	res.P50 = td.Quantile(0.50)
	res.P95 = td.Quantile(0.95)

	if res.Count >= 2 {
		res.Stdev = sampleStdev(values, res.Mean)
		res.HasStdev = true
	}

	return res
}

// PairLabel is the deterministic key for a pair in batch results.
func PairLabel(eventA, eventB string) string {
	return eventA + " → " + eventB
}

// ComputePairs computes one Result per pair. The returned labels preserve
// the input order so batch output is deterministic.
func ComputePairs(st *store.RequestEventStore, pairs [][2]string) ([]string, map[string]Result) {
	labels := make([]string, 0, len(pairs))
	results := make(map[string]Result, len(pairs))

	for _, p := range pairs {
		label := PairLabel(p[0], p[1])
		labels = append(labels, label)
		results[label] = Compute(st, p[0], p[1])
	}
	return labels, results
}

// ParsePairs parses a "A:B,C:D" pair list as given on the command line.
func ParsePairs(s string) ([][2]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var pairs [][2]string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		a, b, ok := strings.Cut(part, ":")
		a, b = strings.TrimSpace(a), strings.TrimSpace(b)
		if !ok || a == "" || b == "" {
			return nil, fmt.Errorf("invalid event pair %q (want EventA:EventB)", part)
		}
		pairs = append(pairs, [2]string{a, b})
	}
	return pairs, nil
}

// median returns the median of a sorted slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// sampleStdev returns the sample standard deviation (N−1 denominator).
func sampleStdev(values []float64, mean float64) float64 {
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}
