package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/sdfsched/internal/config"
	"github.com/vk/sdfsched/internal/ctxlog"
	"github.com/vk/sdfsched/internal/metrics"
	"github.com/vk/sdfsched/internal/render"
	"github.com/vk/sdfsched/internal/sdf"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	loader  config.Loader
	metrics *metrics.Registry

	criterion sdf.Criterion
	format    render.Format

	httpServer *http.Server
}

// NewApp is the constructor for the main application. Schedules are written
// to outW and logs to logW. cfg must come from NewConfig.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	// NewConfig has already validated both values.
	criterion, _ := sdf.ParseCriterion(cfg.Criterion)
	format, _ := render.ParseFormat(cfg.Format)

	return &App{
		outW:      outW,
		logger:    logger,
		config:    cfg,
		loader:    loader,
		metrics:   metrics.NewRegistry(),
		criterion: criterion,
		format:    format,
	}
}

// Metrics returns the application's metrics registry. This is primarily for
// testing.
func (a *App) Metrics() *metrics.Registry {
	return a.metrics
}

// Run executes the application: a single scheduling pass, or a pass per
// change of the graph files in watch mode.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		if err := a.startHealthcheckServer(ctx); err != nil {
			return err
		}
		defer a.closeHealthcheckServer(ctx)
	}

	if a.config.Watch {
		return a.watch(ctx)
	}
	_, err := a.RunOnce(ctx)
	a.logger.Debug("App.Run method finished.")
	return err
}
