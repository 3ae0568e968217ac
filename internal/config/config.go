// Package config provides configuration management for go-pipeline-lag.
package config

// Config holds all configuration options for an analysis run.
type Config struct {
	// Input
	LogDir  string   `json:"log_dir"`
	Pattern string   `json:"pattern"` // glob on base file names
	Stages  []string `json:"stages"`  // known pipeline stage names

	// Queries
	Event1     string `json:"event1"`
	Event2     string `json:"event2"`
	Pairs      string `json:"pairs"` // "A:B,C:D"
	ListEvents bool   `json:"list_events"`
	ShowStats  bool   `json:"show_stats"`

	// Report
	Report     bool   `json:"report"`
	OutputDir  string `json:"output_dir"`
	Charts     bool   `json:"charts"`
	WarmupSkip int    `json:"warmup_skip"` // intervals skipped before stage percentiles

	// Observability
	MetricsAddr string `json:"metrics_addr"` // empty = disabled
	Verbose     bool   `json:"verbose"`
	LogFormat   string `json:"log_format"` // json, text

	// Dashboard
	TUIEnabled bool `json:"tui"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		// Input
		Pattern: "*",
		Stages:  []string{"Ingress", "StepA", "StepB", "StepC", "StepD", "StepE"},

		// Report
		OutputDir:  "charts",
		WarmupSkip: 0,

		// Observability
		LogFormat: "text",
	}
}
