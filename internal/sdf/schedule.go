package sdf

import (
	"context"
	"fmt"
	"time"
)

// Firing is one entry of a schedule.
type Firing struct {
	Actor      Actor
	Iterations int
	// Exclusive selects the exclusive mode. It is only ever set for
	// actors that implement BufferingProfile.
	Exclusive bool
	// Profiled reports whether the actor implements BufferingProfile.
	Profiled bool
}

func (f Firing) String() string {
	s := f.Actor.Name()
	if f.Iterations != 1 {
		s = fmt.Sprintf("%d*%s", f.Iterations, s)
	}
	if f.Profiled {
		if f.Exclusive {
			return s + "(exclusive)"
		}
		return s + "(shared)"
	}
	return s
}

// Schedule is an ordered, mode-annotated firing sequence for one graph
// iteration.
type Schedule struct {
	Criterion Criterion
	// Value is the objective value of the schedule: the buffer high-water
	// mark or the accumulated execution time.
	Value   int
	Firings []Firing
	Stats   Stats
	Elapsed time.Duration
}

// Len returns the number of single firings, expanding looped entries.
func (s *Schedule) Len() int {
	n := 0
	for _, f := range s.Firings {
		n += f.Iterations
	}
	return n
}

// Counts returns the number of firings per actor.
func (s *Schedule) Counts() map[Actor]int {
	counts := make(map[Actor]int)
	for _, f := range s.Firings {
		counts[f.Actor] += f.Iterations
	}
	return counts
}

// Compact returns a copy of s in which runs of consecutive firings of the
// same actor in the same mode are merged into one looped entry.
func (s *Schedule) Compact() *Schedule {
	out := *s
	out.Firings = make([]Firing, 0, len(s.Firings))
	for _, f := range s.Firings {
		if n := len(out.Firings); n > 0 {
			last := &out.Firings[n-1]
			if last.Actor == f.Actor && last.Exclusive == f.Exclusive {
				last.Iterations += f.Iterations
				continue
			}
		}
		out.Firings = append(out.Firings, f)
	}
	return &out
}

// Run invokes the firing entry point of every profiled actor in schedule
// order. Actors without the capability have no entry point and are skipped.
func (s *Schedule) Run(ctx context.Context) error {
	for i, f := range s.Firings {
		if err := ctx.Err(); err != nil {
			return err
		}
		bp, ok := f.Actor.(BufferingProfile)
		if !ok {
			continue
		}
		if err := bp.Fire(ctx, f.Iterations, f.Exclusive); err != nil {
			return fmt.Errorf("firing %d (%s): %w", i, f.Actor.Name(), err)
		}
	}
	return nil
}

// firings converts the winning chain of states into schedule entries.
func (m *model) firings(path []*state) []Firing {
	out := make([]Firing, len(path))
	for i, s := range path {
		a := m.actors[s.actor]
		out[i] = Firing{
			Actor:      m.external[a.index],
			Iterations: 1,
			Exclusive:  s.exclusive,
			Profiled:   a.profile.eligible,
		}
	}
	return out
}
