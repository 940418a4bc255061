package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/vk/sdfsched/internal/app"
	"github.com/vk/sdfsched/internal/sdf"
	"go.uber.org/multierr"
)

// Process exit codes.
const (
	ExitFailure       = 1
	ExitUsage         = 2
	ExitUnschedulable = 3
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

// AsExitError maps an application error to the exit code the process should
// end with. Errors that already are an *ExitError are returned unchanged.
// ExitUnschedulable is used only when every combined error is a graph that
// could not be scheduled; any other failure yields ExitFailure.
func AsExitError(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	code := ExitUnschedulable
	for _, e := range multierr.Errors(err) {
		if !errors.Is(e, sdf.ErrNotSchedulable) {
			code = ExitFailure
			break
		}
	}
	return &ExitError{Code: code, Message: err.Error()}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := pflag.NewFlagSet("sdfsched", pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.SortFlags = false

	flagSet.Usage = func() {
		fmt.Fprint(output, `
sdfsched - Static scheduler for synchronous dataflow graphs.

Finds a firing order for one iteration of every graph that minimizes the
peak buffer occupancy or the total execution time.

Usage:
  sdfsched [options] [GRAPH_PATH...]

Arguments:
  GRAPH_PATH
    Path to a graph file (.hcl, .yaml, .yml) or a directory containing them.

Options:
`)
		flagSet.PrintDefaults()
	}

	graphFlag := flagSet.StringArrayP("graph", "g", nil, "Path to a graph file or directory. May be repeated.")
	criterionFlag := flagSet.StringP("criterion", "c", "buffer", "Objective to minimize. Options: 'buffer' or 'time'.")
	formatFlag := flagSet.StringP("format", "f", "text", "Output format. Options: 'text', 'json' or 'yaml'.")
	compactFlag := flagSet.Bool("compact", false, "Merge consecutive firings of the same actor and mode into looped entries.")
	verifyFlag := flagSet.Bool("verify", true, "Replay every schedule against its graph before printing it.")
	runFlag := flagSet.Bool("run", false, "Fire profiled actors along each schedule after it is found.")
	noMemoFlag := flagSet.Bool("no-memo", false, "Disable the closed set of already expanded states.")
	maxStatesFlag := flagSet.Int("max-states", 0, "Maximum number of search states per graph. 0 is unlimited.")
	workersFlag := flagSet.Int("workers", 4, "Number of graphs scheduled concurrently.")
	timeoutFlag := flagSet.Duration("timeout", 0, "Search time limit per graph, e.g. '30s'. 0 is unlimited.")
	metricsFileFlag := flagSet.String("metrics-file", "", "Write search metrics to this file in Prometheus text format.")
	watchFlag := flagSet.BoolP("watch", "w", false, "Reschedule whenever a graph file changes.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	paths := append(append([]string{}, *graphFlag...), flagSet.Args()...)
	slog.Debug("Graph paths determined.", "paths", paths)

	if len(paths) == 0 {
		slog.Debug("No graph path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(app.Config{
		GraphPaths:      paths,
		Criterion:       strings.ToLower(*criterionFlag),
		Format:          strings.ToLower(*formatFlag),
		Compact:         *compactFlag,
		Verify:          *verifyFlag,
		Run:             *runFlag,
		Memoize:         !*noMemoFlag,
		MaxStates:       *maxStatesFlag,
		WorkerCount:     *workersFlag,
		Timeout:         *timeoutFlag,
		MetricsFile:     *metricsFileFlag,
		Watch:           *watchFlag,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       strings.ToLower(*logFormatFlag),
		LogLevel:        strings.ToLower(*logLevelFlag),
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
