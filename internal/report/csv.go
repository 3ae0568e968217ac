// Package report writes the analysis outputs: per-stage latency CSVs, the
// summary CSV, and the formatted text summaries shown to the operator.
//
// The CSV files are the only inputs the chart renderer and downstream
// tooling consume; nothing reads the in-memory structures directly.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/randomizedcoder/go-pipeline-lag/internal/latency"
)

// enterTimeLayout formats interval enter times in the latency CSVs.
const enterTimeLayout = "2006-01-02 15:04:05.000"

// WriteStageLatenciesCSV writes "<stage>_latencies.csv" under dir with one
// row per correlated interval: id, enter time, latency in milliseconds.
// Returns the path written. Nothing is written for an empty interval set.
func WriteStageLatenciesCSV(dir, stage string, intervals []latency.Interval) (string, error) {
	if len(intervals) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, stage+"_latencies.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "enter_time_str", "latency"}); err != nil {
		return "", err
	}

	for _, iv := range intervals {
		row := []string{
			iv.RequestID,
			iv.Enter.Format(enterTimeLayout),
			strconv.FormatFloat(float64(iv.Latency.Nanoseconds())/1e6, 'f', 3, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}

// WriteSummaryCSV writes "summary.csv" under dir with one row per stage.
func WriteSummaryCSV(dir string, summaries []latency.StageSummary) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, "summary.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Step", "TotalRequests", "AvgLatency_ms", "Throughput_reqPerSec"}); err != nil {
		return "", err
	}

	for _, s := range summaries {
		row := []string{
			s.Stage,
			fmt.Sprintf("%d", s.Count),
			strconv.FormatFloat(s.AvgLatencyMs, 'f', 2, 64),
			strconv.FormatFloat(s.ThroughputPerSec, 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}
