package sdf

import (
	"context"
	"fmt"
	"slices"
)

// Verify replays sched against a fresh model of g. It checks that every
// firing is enabled in its recorded mode, that no occupancy counter drops
// below zero, that every actor fires exactly its repetition count and that
// the replayed objective equals sched.Value. Looped entries are replayed
// Iterations times.
func Verify(ctx context.Context, g Graph, sched *Schedule) error {
	m, err := buildModel(ctx, g)
	if err != nil {
		return fmt.Errorf("failed to build analysis model: %w", err)
	}

	cur := m.initialState(sched.Criterion)
	for i, f := range sched.Firings {
		idx, ok := m.actorIndex[f.Actor]
		if !ok {
			return &VerificationError{Step: i, Actor: f.Actor.Name(), Reason: "actor is not scheduled in this graph"}
		}
		a := m.actors[idx]
		if f.Exclusive && !a.profile.eligible {
			return &VerificationError{Step: i, Actor: a.name, Reason: "exclusive firing of an actor without a buffering profile"}
		}
		if f.Iterations < 1 {
			return &VerificationError{Step: i, Actor: a.name, Reason: fmt.Sprintf("invalid iteration count %d", f.Iterations)}
		}
		for n := 0; n < f.Iterations; n++ {
			if cur.remaining[a.index] == 0 {
				return &VerificationError{Step: i, Actor: a.name, Reason: fmt.Sprintf("fires more than %d times", a.required)}
			}
			if !a.enabled(cur) {
				return &VerificationError{Step: i, Actor: a.name, Reason: "not enough tokens on an input"}
			}
			if f.Exclusive && !a.exclusiveEnabled(cur) {
				return &VerificationError{Step: i, Actor: a.name, Reason: "not enabled for an exclusive firing"}
			}
			cur = m.fire(sched.Criterion, cur, a, f.Exclusive)
			if slices.ContainsFunc(cur.occupancy, func(v int) bool { return v < 0 }) {
				return &VerificationError{Step: i, Actor: a.name, Reason: "channel occupancy dropped below zero"}
			}
		}
	}

	for _, a := range m.actors {
		if r := cur.remaining[a.index]; r != 0 {
			return &VerificationError{
				Step:   -1,
				Actor:  a.name,
				Reason: fmt.Sprintf("actor %s fires %d of %d times", a.name, a.required-r, a.required),
			}
		}
	}
	if cur.value != sched.Value {
		return &VerificationError{
			Step:   -1,
			Reason: fmt.Sprintf("replayed %s objective is %d, schedule records %d", sched.Criterion, cur.value, sched.Value),
		}
	}
	return nil
}
