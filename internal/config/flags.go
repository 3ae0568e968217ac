package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// stageList is a custom flag type for a comma-separated stage name list.
type stageList []string

func (s *stageList) String() string {
	return strings.Join(*s, ",")
}

func (s *stageList) Set(value string) error {
	*s = (*s)[:0]
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

// ParseFlags parses command-line flags and returns a Config.
func ParseFlags() (*Config, error) {
	cfg := DefaultConfig()
	stages := stageList(cfg.Stages)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `go-pipeline-lag - pipeline log latency and throughput analysis

Usage:
  go-pipeline-lag [flags] <LOG_DIR>

Input Flags:
`)
		printFlagCategory([]string{"pattern", "stages"})

		fmt.Fprintf(os.Stderr, "\nQueries:\n")
		printFlagCategory([]string{"list-events", "event1", "event2", "stats", "pairs"})

		fmt.Fprintf(os.Stderr, "\nReport:\n")
		printFlagCategory([]string{"report", "out", "charts", "warmup-skip"})

		fmt.Fprintf(os.Stderr, "\nObservability:\n")
		printFlagCategory([]string{"metrics", "v", "log-format"})

		fmt.Fprintf(os.Stderr, "\nDashboard:\n")
		printFlagCategory([]string{"tui"})

		fmt.Fprintf(os.Stderr, `
Examples:
  # Discover event names
  go-pipeline-lag -list-events ./logs

  # Detailed statistics between two events
  go-pipeline-lag -event1 Ingress_Enter -event2 Ingress_Exit -stats ./logs

  # Batch statistics over several pairs
  go-pipeline-lag -pairs "Client_Send:Ingress_Enter,StepA_Exit:StepD_Enter" ./logs

  # Per-stage latency/throughput report with CSVs and charts
  go-pipeline-lag -report -charts -out ./charts ./logs

`)
	}

	// Input
	flag.StringVar(&cfg.Pattern, "pattern", cfg.Pattern, "Glob pattern for matching file names")
	flag.Var(&stages, "stages", "Comma-separated pipeline stage names")

	// Queries
	flag.BoolVar(&cfg.ListEvents, "list-events", cfg.ListEvents, "List all available events and exit")
	flag.StringVar(&cfg.Event1, "event1", cfg.Event1, "First event name")
	flag.StringVar(&cfg.Event2, "event2", cfg.Event2, "Second event name")
	flag.BoolVar(&cfg.ShowStats, "stats", cfg.ShowStats, "Show detailed statistics for the event pair")
	flag.StringVar(&cfg.Pairs, "pairs", cfg.Pairs, `Batch event pairs, e.g. "A:B,C:D"`)

	// Report
	flag.BoolVar(&cfg.Report, "report", cfg.Report, "Write per-stage latency CSVs and summary CSV")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Output directory for CSVs and charts")
	flag.BoolVar(&cfg.Charts, "charts", cfg.Charts, "Render PNG charts from the report data (implies -report)")
	flag.IntVar(&cfg.WarmupSkip, "warmup-skip", cfg.WarmupSkip, "Intervals to skip before computing stage percentiles")

	// Observability
	flag.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "Prometheus metrics address (empty = disabled)")
	flag.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose logging")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, `Log format: "json" or "text"`)

	// Dashboard
	flag.BoolVar(&cfg.TUIEnabled, "tui", cfg.TUIEnabled, "Browse results in an interactive terminal dashboard")

	flag.Parse()

	cfg.Stages = stages
	if cfg.Charts {
		cfg.Report = true
	}

	// Positional argument: log directory
	if args := flag.Args(); len(args) >= 1 {
		cfg.LogDir = args[0]
	}

	return cfg, nil
}

// printFlagCategory prints flags matching the given names (helper for usage).
func printFlagCategory(names []string) {
	flag.VisitAll(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				fmt.Fprintf(os.Stderr, "  -%s\n    \t%s", f.Name, f.Usage)
				if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
					fmt.Fprintf(os.Stderr, " (default %s)", f.DefValue)
				}
				fmt.Fprintln(os.Stderr)
				return
			}
		}
	})
}
