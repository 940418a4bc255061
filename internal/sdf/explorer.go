package sdf

import (
	"container/heap"
	"context"
	"fmt"
)

// cancelCheckInterval is how many expansions pass between context checks.
const cancelCheckInterval = 256

// Stats describes the work done by one search.
type Stats struct {
	Generated    int `json:"generated" yaml:"generated"`
	Expanded     int `json:"expanded" yaml:"expanded"`
	Pruned       int `json:"pruned" yaml:"pruned"`
	PeakFrontier int `json:"peak_frontier" yaml:"peak_frontier"`
}

// explorer runs the best-first search over the states of one model.
type explorer struct {
	m      *model
	opts   options
	arena  []*state
	open   frontier
	closed *closedSet // nil when memoization is off
	stats  Stats
}

func newExplorer(m *model, opts options) *explorer {
	e := &explorer{m: m, opts: opts}
	if opts.memoize {
		e.closed = newClosedSet()
	}
	return e
}

// run searches until the first terminal state is dequeued and returns it.
func (e *explorer) run(ctx context.Context) (*state, error) {
	if err := e.push(e.m.initialState(e.opts.criterion)); err != nil {
		return nil, err
	}

	for e.open.Len() > 0 {
		if e.stats.Expanded%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("search interrupted after %d expansions: %w", e.stats.Expanded, err)
			}
		}

		s := heap.Pop(&e.open).(*state)
		if s.terminal() {
			return s, nil
		}
		if e.closed != nil && !e.closed.add(s) {
			e.stats.Pruned++
			s.release()
			continue
		}
		if err := e.expand(s); err != nil {
			return nil, err
		}
		if e.closed == nil {
			s.release()
		}
	}
	return nil, ErrNotSchedulable
}

// expand pushes every successor of s. Exclusive firings are generated
// before shared ones so they win exact ties.
func (e *explorer) expand(s *state) error {
	e.stats.Expanded++
	for _, a := range e.m.actors {
		if a.exclusiveEnabled(s) {
			if err := e.push(e.m.fire(e.opts.criterion, s, a, true)); err != nil {
				return err
			}
		}
		if a.enabled(s) {
			if err := e.push(e.m.fire(e.opts.criterion, s, a, false)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *explorer) push(s *state) error {
	// Anything already expanded was dequeued with a value no larger than
	// the one s carries now.
	if e.closed != nil && e.closed.contains(s) {
		e.stats.Pruned++
		return nil
	}
	if e.opts.maxStates > 0 && len(e.arena) >= e.opts.maxStates {
		return fmt.Errorf("%w: generated %d states", ErrStateLimit, len(e.arena))
	}
	s.id = len(e.arena)
	e.arena = append(e.arena, s)
	heap.Push(&e.open, s)
	e.stats.Generated++
	e.stats.PeakFrontier = max(e.stats.PeakFrontier, e.open.Len())
	return nil
}

// path walks the predecessor links from end back to the initial state and
// returns the firing states in forward order.
func (e *explorer) path(end *state) []*state {
	var rev []*state
	for s := end; s.parent >= 0; s = e.arena[s.parent] {
		rev = append(rev, s)
	}
	fwd := make([]*state, len(rev))
	for i, s := range rev {
		fwd[len(rev)-1-i] = s
	}
	return fwd
}
