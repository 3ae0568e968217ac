package config

import (
	"errors"
	"fmt"
	"path"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors and inconsistencies.
// Returns nil if valid, or an error describing every problem found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogDir == "" {
		errs = append(errs, ValidationError{
			Field:   "log_dir",
			Message: "log directory is required",
		})
	}

	// Reject malformed glob patterns up front; path.Match only reports
	// syntax errors, so the probe string is irrelevant.
	if _, err := path.Match(cfg.Pattern, "probe"); err != nil {
		errs = append(errs, ValidationError{
			Field:   "pattern",
			Message: fmt.Sprintf("invalid glob pattern %q", cfg.Pattern),
		})
	}

	if cfg.Report && len(cfg.Stages) == 0 {
		errs = append(errs, ValidationError{
			Field:   "stages",
			Message: "at least one stage name is required for -report",
		})
	}

	if cfg.WarmupSkip < 0 {
		errs = append(errs, ValidationError{
			Field:   "warmup_skip",
			Message: "must not be negative",
		})
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, ValidationError{
			Field:   "log_format",
			Message: fmt.Sprintf(`must be "json" or "text" (got %q)`, cfg.LogFormat),
		})
	}

	// One of the two events without the other can never run a query.
	if (cfg.Event1 == "") != (cfg.Event2 == "") {
		errs = append(errs, ValidationError{
			Field:   "event1/event2",
			Message: "both -event1 and -event2 must be given together",
		})
	}

	return errors.Join(errs...)
}
