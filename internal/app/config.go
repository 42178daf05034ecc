package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/burstmatrix/internal/dispatch"
	"github.com/specialistvlad/burstmatrix/internal/plan"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	WorkflowPaths []string // hcl and yaml files or directories

	Format    string // plan output format
	LogFormat string
	LogLevel  string

	// Platforms are accepted in addition to model.DefaultPlatforms.
	Platforms   []string
	CachePrefix string

	// Dispatch is nil when the plan is only printed.
	Dispatch *dispatch.Config
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.WorkflowPaths) == 0 {
		return nil, errors.New("WorkflowPaths is a required configuration field and cannot be empty")
	}

	switch cfg.Format {
	case "":
		cfg.Format = plan.FormatText
	case plan.FormatText, plan.FormatJSON:
	default:
		return nil, fmt.Errorf("invalid format %q: must be '%s' or '%s'", cfg.Format, plan.FormatText, plan.FormatJSON)
	}

	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	return &cfg, nil
}
