package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/burstmatrix/internal/app"
	"github.com/specialistvlad/burstmatrix/internal/dispatch"
	"github.com/specialistvlad/burstmatrix/internal/model"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("burstmatrix", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
burstmatrix - CI job-matrix expansion and cache-key resolution.

Usage:
  burstmatrix [options] [WORKFLOW_PATH...]

Arguments:
  WORKFLOW_PATH
    Path to a workflow file (.hcl, .yml, .yaml) or a directory containing them.

Options:
`)
		flagSet.PrintDefaults()
	}

	workflowFlag := flagSet.String("workflow", "", "Path to the workflow file or directory.")
	wFlag := flagSet.String("w", "", "Path to the workflow file or directory (shorthand).")
	formatFlag := flagSet.String("format", "text", "Plan output format. Options: 'text' or 'json'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	platformsFlag := flagSet.String("platforms", "", "Comma-separated runner platforms accepted in addition to the built-in ones.")
	cachePrefixFlag := flagSet.String("cache-prefix", "", "Prefix applied to every cache key, e.g. a cache version like 'v1'.")
	dispatchURLFlag := flagSet.String("dispatch-url", "", "Socket.io endpoint the plan is dispatched to. Empty disables dispatch.")
	dispatchNSFlag := flagSet.String("dispatch-namespace", dispatch.DefaultNamespace, "Socket.io namespace used for dispatch.")
	dispatchEventFlag := flagSet.String("dispatch-event", dispatch.DefaultEvent, "Event the plan is emitted on.")
	dispatchAckFlag := flagSet.String("dispatch-ack-event", dispatch.DefaultAckEvent, "Event the orchestrator acknowledges the plan on.")
	dispatchTimeoutFlag := flagSet.Duration("dispatch-timeout", dispatch.DefaultTimeout, "Timeout of a single dispatch attempt.")
	dispatchRetriesFlag := flagSet.Uint64("dispatch-retries", dispatch.DefaultMaxRetries, "Number of dispatch retries after the first attempt.")
	dispatchInsecureFlag := flagSet.Bool("dispatch-insecure", false, "Skip TLS certificate verification when dispatching.")
	versionFlag := flagSet.Bool("version", false, "Print the engine version and exit.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if *versionFlag {
		fmt.Fprintf(output, "burstmatrix %s\n", model.EngineVersion)
		return nil, true, nil
	}

	var paths []string
	if *workflowFlag != "" {
		paths = append(paths, *workflowFlag)
	} else if *wFlag != "" {
		paths = append(paths, *wFlag)
	}
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Workflow paths determined.", "paths", paths)

	if len(paths) == 0 {
		slog.Debug("No workflow path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	cfg := app.Config{
		WorkflowPaths: paths,
		Format:        strings.ToLower(*formatFlag),
		LogFormat:     strings.ToLower(*logFormatFlag),
		LogLevel:      strings.ToLower(*logLevelFlag),
		Platforms:     splitList(*platformsFlag),
		CachePrefix:   *cachePrefixFlag,
	}
	if *dispatchURLFlag != "" {
		cfg.Dispatch = &dispatch.Config{
			URL:                *dispatchURLFlag,
			Namespace:          *dispatchNSFlag,
			Event:              *dispatchEventFlag,
			AckEvent:           *dispatchAckFlag,
			Timeout:            *dispatchTimeoutFlag,
			InsecureSkipVerify: *dispatchInsecureFlag,
			MaxRetries:         *dispatchRetriesFlag,
		}
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// splitList splits a comma-separated flag value, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
