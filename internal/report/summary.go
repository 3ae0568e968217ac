package report

import (
	"fmt"
	"strings"

	"github.com/randomizedcoder/go-pipeline-lag/internal/latency"
	"github.com/randomizedcoder/go-pipeline-lag/internal/pairstats"
	"github.com/randomizedcoder/go-pipeline-lag/internal/scan"
)

const rule = "───────────────────────────────────────────────────────────────────────────────\n"

// ScanSummary holds the scan-level figures shown in the exit summary.
type ScanSummary struct {
	Counters       scan.Counters
	UniqueRequests int
	Duplicates     int64
	Warnings       []string // most recent scan warnings, oldest first
	TotalWarnings  int64
}

// FormatScanSummary renders the scan statistics block.
func FormatScanSummary(s ScanSummary) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(rule)
	b.WriteString("                               Scan Statistics\n")
	b.WriteString(rule)
	b.WriteString("\n")

	fmt.Fprintf(&b, "  Files scanned:        %d\n", s.Counters.FilesScanned)
	if s.Counters.FilesSkipped > 0 {
		fmt.Fprintf(&b, "  Files skipped:        %d\n", s.Counters.FilesSkipped)
	}
	fmt.Fprintf(&b, "  Lines processed:      %s\n", FormatNumber(s.Counters.LinesProcessed))
	fmt.Fprintf(&b, "  Events recorded:      %s\n", FormatNumber(s.Counters.EventsRecorded))
	fmt.Fprintf(&b, "  Unique request IDs:   %d\n", s.UniqueRequests)
	fmt.Fprintf(&b, "  Duplicate events:     %d\n", s.Duplicates)
	if s.Counters.BadTimestamps > 0 {
		fmt.Fprintf(&b, "  Bad timestamps:       %d\n", s.Counters.BadTimestamps)
	}
	if s.Counters.UnparseableLines > 0 {
		fmt.Fprintf(&b, "  Unparseable lines:    %s\n", FormatNumber(s.Counters.UnparseableLines))
	}
	b.WriteString("\n")

	if s.TotalWarnings > 0 {
		fmt.Fprintf(&b, "  Warnings: %d", s.TotalWarnings)
		if n := len(s.Warnings); n > 0 {
			fmt.Fprintf(&b, " (last %d shown)", n)
		}
		b.WriteString("\n")
		for _, w := range s.Warnings {
			fmt.Fprintf(&b, "    %s\n", w)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// FormatPairResult renders the detailed statistics of one event pair, in
// seconds.
func FormatPairResult(r pairstats.Result) string {
	if r.Empty() {
		return fmt.Sprintf("No matching event pairs found for %s and %s\n", r.EventA, r.EventB)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Time statistics between %s and %s:\n", r.EventA, r.EventB)
	fmt.Fprintf(&b, "  Count: %d request IDs\n", r.Count)
	fmt.Fprintf(&b, "  Min: %.4f seconds\n", r.Min)
	fmt.Fprintf(&b, "  Max: %.4f seconds\n", r.Max)
	fmt.Fprintf(&b, "  Mean: %.4f seconds\n", r.Mean)
	fmt.Fprintf(&b, "  Median: %.4f seconds\n", r.Median)
	fmt.Fprintf(&b, "  P95: %.4f seconds\n", r.P95)
	if r.HasStdev {
		fmt.Fprintf(&b, "  Standard Deviation: %.4f seconds\n", r.Stdev)
	}
	return b.String()
}

// FormatPairResultMs renders one event pair of a batch report, in
// milliseconds.
func FormatPairResultMs(label string, r pairstats.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Event Pair: %s\n", label)
	if r.Empty() {
		b.WriteString("  (no matching requests)\n")
		return b.String()
	}
	fmt.Fprintf(&b, "  Count: %d\n", r.Count)
	fmt.Fprintf(&b, "  Min: %.1f ms\n", r.Min*1000)
	fmt.Fprintf(&b, "  Max: %.1f ms\n", r.Max*1000)
	fmt.Fprintf(&b, "  Mean: %.1f ms\n", r.Mean*1000)
	fmt.Fprintf(&b, "  Median: %.1f ms\n", r.Median*1000)
	fmt.Fprintf(&b, "  P95: %.1f ms\n", r.P95*1000)
	if r.HasStdev {
		fmt.Fprintf(&b, "  Standard Deviation: %.1f ms\n", r.Stdev*1000)
	}
	return b.String()
}

// FormatStageSummaries renders the per-stage table shown after a report run.
func FormatStageSummaries(summaries []latency.StageSummary) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(rule)
	b.WriteString("                               Stage Summary\n")
	b.WriteString(rule)
	b.WriteString("\n")

	fmt.Fprintf(&b, "  %-16s %10s %14s %14s %12s %14s\n",
		"Stage", "Requests", "Avg (ms)", "Median (ms)", "P95 (ms)", "Req/sec")
	b.WriteString("  " + strings.Repeat("─", 84) + "\n")

	for _, s := range summaries {
		if s.Count == 0 {
			fmt.Fprintf(&b, "  %-16s %10s %14s %14s %12s %14s\n",
				s.Stage, "0", "-", "-", "-", "-")
			continue
		}
		fmt.Fprintf(&b, "  %-16s %10d %14.2f %14.2f %12.2f %14.2f\n",
			s.Stage, s.Count, s.AvgLatencyMs, s.MedianLatencyMs, s.P95LatencyMs, s.ThroughputPerSec)
	}
	b.WriteString("\n")

	return b.String()
}

// FormatNumber formats a count with K/M suffixes for readability.
func FormatNumber(n int64) string {
	if n >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	}
	if n >= 1_000 {
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return fmt.Sprintf("%d", n)
}
