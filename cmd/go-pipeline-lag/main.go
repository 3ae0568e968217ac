// Package main provides the go-pipeline-lag CLI entry point.
//
// go-pipeline-lag reconstructs per-request lifecycle events from the text
// logs of a multi-stage request pipeline and reports inter-event latencies
// and per-stage throughput.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/randomizedcoder/go-pipeline-lag/internal/charts"
	"github.com/randomizedcoder/go-pipeline-lag/internal/config"
	"github.com/randomizedcoder/go-pipeline-lag/internal/latency"
	"github.com/randomizedcoder/go-pipeline-lag/internal/logging"
	"github.com/randomizedcoder/go-pipeline-lag/internal/metrics"
	"github.com/randomizedcoder/go-pipeline-lag/internal/pairstats"
	"github.com/randomizedcoder/go-pipeline-lag/internal/report"
	"github.com/randomizedcoder/go-pipeline-lag/internal/scan"
	"github.com/randomizedcoder/go-pipeline-lag/internal/store"
	"github.com/randomizedcoder/go-pipeline-lag/internal/tui"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/go-pipeline-lag
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Handle version flag early (before flag parsing)
	if len(os.Args) > 1 {
		arg := os.Args[1]
		if arg == "-version" || arg == "--version" || arg == "version" {
			fmt.Printf("go-pipeline-lag %s\n", version)
			return 0
		}
	}

	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		return 1
	}

	// When the TUI is enabled, suppress logs so they don't fight the
	// terminal renderer.
	var logger *slog.Logger
	if cfg.TUIEnabled {
		logger = logging.NewWithWriter(io.Discard, "json", false)
	} else {
		logger = logging.New(cfg.LogFormat, cfg.Verbose)
	}
	logging.SetDefault(logger)

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	pairs, err := pairstats.ParsePairs(cfg.Pairs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}
	if cfg.Event1 != "" && cfg.Event2 != "" {
		pairs = append(pairs, [2]string{cfg.Event1, cfg.Event2})
	}

	if !cfg.ListEvents && !cfg.Report && len(pairs) == 0 {
		fmt.Println("Please specify both -event1 and -event2, or use -list-events to see available events")
		return 0
	}

	// Optional metrics exposure while the analysis runs.
	var metricsServer *metrics.Server
	if cfg.MetricsAddr != "" {
		metrics.Register()
		metricsServer = metrics.NewServer(cfg.MetricsAddr, logger)
		metricsServer.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			metricsServer.Shutdown(ctx)
		}()
	}

	logger.Info("starting",
		"version", version,
		"log_dir", cfg.LogDir,
		"pattern", cfg.Pattern,
		"stages", cfg.Stages,
	)

	// Build the store (and, for report/TUI runs, the per-stage intervals)
	// in a single pass over the files.
	st := store.New(logger)
	var correlator *latency.Correlator
	sinks := []scan.Sink{st}
	if cfg.Report || cfg.TUIEnabled {
		correlator = latency.NewCorrelator(cfg.Stages)
		sinks = append(sinks, correlator)
	}

	scanner := scan.NewScanner(cfg.Pattern, scanStages(cfg), logger, sinks...)
	counters, err := scanner.ScanDir(cfg.LogDir)
	if err != nil {
		logger.Error("scan_failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if metricsServer != nil {
		metrics.SetScanCounters(counters, st.RequestCount(), st.DuplicateCount())
	}

	if cfg.ListEvents {
		fmt.Println("Available events:")
		for _, name := range st.EventNames() {
			fmt.Printf("  %s\n", name)
		}
		return 0
	}

	labels, results := pairstats.ComputePairs(st, pairs)

	var summaries []latency.StageSummary
	if correlator != nil {
		for _, stage := range cfg.Stages {
			ivs := correlator.IntervalsForStage(stage)
			summaries = append(summaries, latency.Summarize(stage, ivs, cfg.WarmupSkip))
		}
	}

	if cfg.TUIEnabled {
		if err := tui.Run(tui.Config{
			LogDir:      cfg.LogDir,
			PairLabels:  labels,
			PairResults: results,
			Stages:      summaries,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	printPairResults(cfg, labels, results)

	if cfg.Report {
		if err := writeReport(cfg, correlator, summaries, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Print(report.FormatStageSummaries(summaries))
	}

	fmt.Print(report.FormatScanSummary(report.ScanSummary{
		Counters:       counters,
		UniqueRequests: st.RequestCount(),
		Duplicates:     st.DuplicateCount(),
		Warnings:       scanner.Warnings().Recent(10),
		TotalWarnings:  scanner.Warnings().Total(),
	}))

	return 0
}

// scanStages returns the stage filter for file discovery. Explicit query
// runs scan every matching file; only report runs restrict discovery to
// files mentioning a known stage.
func scanStages(cfg *config.Config) []string {
	if cfg.Report {
		return cfg.Stages
	}
	return nil
}

// printPairResults prints the event-pair queries the user asked for.
func printPairResults(cfg *config.Config, labels []string, results map[string]pairstats.Result) {
	// Single explicit pair: mirror the query surface exactly.
	if cfg.Event1 != "" && cfg.Event2 != "" && cfg.Pairs == "" {
		r := results[pairstats.PairLabel(cfg.Event1, cfg.Event2)]
		if cfg.ShowStats {
			fmt.Print(report.FormatPairResult(r))
		} else if r.Empty() {
			fmt.Printf("No matching event pairs found for %s and %s\n", cfg.Event1, cfg.Event2)
		} else {
			fmt.Printf("Average time between %s and %s: %.4f seconds\n", cfg.Event1, cfg.Event2, r.Mean)
		}
		return
	}

	for _, label := range labels {
		fmt.Print(report.FormatPairResultMs(label, results[label]))
		fmt.Println()
	}
}

// writeReport writes the per-stage CSVs and, when requested, the charts.
func writeReport(cfg *config.Config, correlator *latency.Correlator, summaries []latency.StageSummary, logger *slog.Logger) error {
	for _, stage := range cfg.Stages {
		ivs := correlator.IntervalsForStage(stage)

		path, err := report.WriteStageLatenciesCSV(cfg.OutputDir, stage, ivs)
		if err != nil {
			return err
		}
		if path != "" {
			logger.Info("wrote_latency_csv", "stage", stage, "path", path)
		}

		if cfg.Charts {
			if _, err := charts.LatencyChart(cfg.OutputDir, stage, ivs); err != nil {
				return err
			}
			if _, err := charts.LatencyHistogram(cfg.OutputDir, stage, ivs); err != nil {
				return err
			}
		}
	}

	path, err := report.WriteSummaryCSV(cfg.OutputDir, summaries)
	if err != nil {
		return err
	}
	logger.Info("wrote_summary_csv", "path", path)

	if cfg.Charts {
		if _, err := charts.ThroughputChart(cfg.OutputDir, summaries); err != nil {
			return err
		}
		if _, err := charts.AvgLatencyChart(cfg.OutputDir, summaries); err != nil {
			return err
		}
	}

	return nil
}
