package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vk/sdfsched/internal/config"
	"github.com/vk/sdfsched/internal/ctxlog"
	"github.com/vk/sdfsched/internal/dataflow"
	"github.com/vk/sdfsched/internal/render"
	"github.com/vk/sdfsched/internal/sdf"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// verifySchedule replays a found schedule before it is reported.
var verifySchedule = sdf.Verify

// RunOnce loads every graph, schedules them concurrently and writes the
// results in load order. A graph that fails does not stop the others; all
// failures are returned combined.
func (a *App) RunOnce(ctx context.Context) ([]*render.Result, error) {
	ctx, logger := ctxlog.With(ctx, "run_id", uuid.NewString())
	start := time.Now()
	logger.Info("Scheduling run started.", "paths", a.config.GraphPaths)

	model, err := a.loader.Load(ctx, a.config.GraphPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load graphs: %w", err)
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid graph configuration: %w", err)
	}
	logger.Debug("Graphs loaded.", "count", len(model.Graphs))

	results := make([]*render.Result, len(model.Graphs))
	errs := make([]error, len(model.Graphs))

	var g errgroup.Group
	g.SetLimit(a.config.WorkerCount)
	for i, cg := range model.Graphs {
		i, cg := i, cg
		g.Go(func() error {
			results[i], errs[i] = a.scheduleGraph(ctx, cg)
			return nil
		})
	}
	_ = g.Wait()

	if err := render.Write(a.outW, a.format, results); err != nil {
		return results, fmt.Errorf("failed to write results: %w", err)
	}
	if a.config.MetricsFile != "" {
		if err := a.metrics.WriteTextfile(a.config.MetricsFile); err != nil {
			return results, fmt.Errorf("failed to write metrics file: %w", err)
		}
	}

	runErr := multierr.Combine(errs...)
	logger.Info("Scheduling run finished.",
		"graphs", len(results),
		"failed", len(multierr.Errors(runErr)),
		"elapsed", time.Since(start),
	)
	return results, runErr
}

// scheduleGraph builds, schedules and optionally verifies and runs one graph.
// It always returns a result; on failure the result carries the error text.
func (a *App) scheduleGraph(ctx context.Context, cg *config.Graph) (*render.Result, error) {
	ctx, logger := ctxlog.With(ctx, "graph", cg.Name)

	criterion := a.criterion
	if cg.Criterion != "" {
		// Validated together with the rest of the model.
		criterion, _ = sdf.ParseCriterion(cg.Criterion)
	}
	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	fail := func(err error) (*render.Result, error) {
		a.metrics.ObserveFailure(cg.Name, criterion, errors.Is(err, sdf.ErrNotSchedulable))
		logger.Error("Graph could not be scheduled.", "error", err)
		return render.NewFailure(cg.Name, cg.Source, err), fmt.Errorf("graph %q: %w", cg.Name, err)
	}

	g, err := dataflow.Build(ctx, cg)
	if err != nil {
		return fail(err)
	}

	scheduler := sdf.New(
		sdf.WithCriterion(criterion),
		sdf.WithMemoization(a.config.Memoize),
		sdf.WithMaxStates(a.config.MaxStates),
	)
	sched, err := scheduler.Schedule(ctx, g)
	if err != nil {
		return fail(err)
	}
	result := render.NewResult(cg.Name, cg.Source, sched, a.config.Compact)
	if a.config.Verify {
		if err := verifySchedule(ctx, g, sched); err != nil {
			return fail(err)
		}
		result.Verified = true
	}
	if a.config.Run {
		if err := sched.Compact().Run(ctx); err != nil {
			return fail(fmt.Errorf("failed to run schedule: %w", err))
		}
		logger.Debug("Schedule executed.", "profiled_actors", len(g.Profiled()))
	}

	a.metrics.ObserveSchedule(cg.Name, sched)
	logger.Info("Graph scheduled.",
		"criterion", criterion,
		"value", sched.Value,
		"firings", sched.Len(),
		"expanded", sched.Stats.Expanded,
	)
	return result, nil
}
