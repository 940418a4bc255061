package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/vk/sdfsched/internal/render"
	"github.com/vk/sdfsched/internal/sdf"
	"go.uber.org/multierr"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// GraphPaths are graph files or directories searched for graph files.
	GraphPaths []string

	// Criterion is the default objective; a graph may override it.
	Criterion string
	Format    string
	Compact   bool
	Verify    bool
	// Run fires profiled actors along each schedule after it is found.
	Run bool

	Memoize   bool
	MaxStates int
	// Timeout bounds the search for a single graph. Zero disables it.
	Timeout     time.Duration
	WorkerCount int

	MetricsFile     string
	Watch           bool
	HealthcheckPort int

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults for empty optional fields.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.GraphPaths) == 0 {
		return nil, errors.New("at least one graph path is required")
	}
	if cfg.Criterion == "" {
		cfg.Criterion = sdf.BufferSize.String()
	}
	if cfg.Format == "" {
		cfg.Format = string(render.FormatText)
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 1
	}

	var errs error
	if _, err := sdf.ParseCriterion(cfg.Criterion); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := render.ParseFormat(cfg.Format); err != nil {
		errs = multierr.Append(errs, err)
	}
	if cfg.MaxStates < 0 {
		errs = multierr.Append(errs, fmt.Errorf("max states must not be negative, got %d", cfg.MaxStates))
	}
	if cfg.Timeout < 0 {
		errs = multierr.Append(errs, fmt.Errorf("timeout must not be negative, got %s", cfg.Timeout))
	}
	if cfg.WorkerCount < 0 {
		errs = multierr.Append(errs, fmt.Errorf("worker count must be positive, got %d", cfg.WorkerCount))
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		errs = multierr.Append(errs, fmt.Errorf("healthcheck port must be between 0 and 65535, got %d", cfg.HealthcheckPort))
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		errs = multierr.Append(errs, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat))
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		return nil, errs
	}
	return &cfg, nil
}
