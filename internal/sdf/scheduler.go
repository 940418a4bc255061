package sdf

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/sdfsched/internal/ctxlog"
)

// Scheduler computes static schedules. A Scheduler holds only its options
// and may be shared between goroutines; every call builds its own model.
type Scheduler struct {
	opts options
}

// New creates a Scheduler. Without options it minimizes buffer size with
// memoization on and no state limit.
func New(opts ...Option) *Scheduler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Scheduler{opts: o}
}

// Criterion returns the objective the scheduler minimizes.
func (s *Scheduler) Criterion() Criterion {
	return s.opts.criterion
}

// Schedule returns a firing order in which every actor of g fires exactly
// g.Repetitions(actor) times and the configured objective is minimal. It
// never returns a partial schedule: on failure the error wraps
// ErrMalformedGraph, ErrInvalidGraph, ErrNotSchedulable, ErrStateLimit or
// the context error.
func (s *Scheduler) Schedule(ctx context.Context, g Graph) (*Schedule, error) {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()

	m, err := buildModel(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis model: %w", err)
	}

	e := newExplorer(m, s.opts)
	end, err := e.run(ctx)
	elapsed := time.Since(start)
	if err != nil {
		logger.Debug("Search ended without a schedule.",
			"criterion", s.opts.criterion,
			"generated", e.stats.Generated,
			"expanded", e.stats.Expanded,
			"error", err,
		)
		return nil, err
	}

	sched := &Schedule{
		Criterion: s.opts.criterion,
		Value:     end.value,
		Firings:   m.firings(e.path(end)),
		Stats:     e.stats,
		Elapsed:   elapsed,
	}
	logger.Debug("Schedule found.",
		"criterion", s.opts.criterion,
		"value", sched.Value,
		"firings", len(sched.Firings),
		"generated", e.stats.Generated,
		"expanded", e.stats.Expanded,
		"pruned", e.stats.Pruned,
		"peak_frontier", e.stats.PeakFrontier,
		"elapsed", elapsed,
	)
	return sched, nil
}
