package dataflow

import (
	"context"
	"sync"

	"github.com/vk/sdfsched/internal/ctxlog"
	"github.com/vk/sdfsched/internal/sdf"
)

// Actor is a node of the graph that only fires in shared mode.
type Actor struct {
	name    string
	inputs  []*InputPort
	outputs []*OutputPort
}

func (a *Actor) Name() string { return a.name }

func (a *Actor) Inputs() []sdf.InputPort {
	out := make([]sdf.InputPort, len(a.inputs))
	for i, p := range a.inputs {
		out[i] = p
	}
	return out
}

func (a *Actor) Outputs() []sdf.OutputPort {
	out := make([]sdf.OutputPort, len(a.outputs))
	for i, p := range a.outputs {
		out[i] = p
	}
	return out
}

func (a *Actor) input(name string) *InputPort {
	for _, p := range a.inputs {
		if p.name == name {
			return p
		}
	}
	return nil
}

func (a *Actor) output(name string) *OutputPort {
	for _, p := range a.outputs {
		if p.name == name {
			return p
		}
	}
	return nil
}

// FireCounts tallies the iterations a profiled actor was fired for, per mode.
type FireCounts struct {
	Shared    int
	Exclusive int
}

// ProfiledActor is an actor with a buffering profile.
type ProfiledActor struct {
	*Actor
	costs sdf.Costs

	mu    sync.Mutex
	fired FireCounts
}

// Costs implements sdf.BufferingProfile.
func (a *ProfiledActor) Costs() sdf.Costs { return a.costs }

// Fire implements sdf.BufferingProfile.
func (a *ProfiledActor) Fire(ctx context.Context, iterations int, exclusive bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mode := "shared"
	a.mu.Lock()
	if exclusive {
		mode = "exclusive"
		a.fired.Exclusive += iterations
	} else {
		a.fired.Shared += iterations
	}
	a.mu.Unlock()

	ctxlog.FromContext(ctx).Debug("Actor fired.", "actor", a.name, "iterations", iterations, "mode", mode)
	return nil
}

// Fired returns how many iterations the actor has been fired for so far.
func (a *ProfiledActor) Fired() FireCounts {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fired
}

var (
	_ sdf.Actor            = (*Actor)(nil)
	_ sdf.Actor            = (*ProfiledActor)(nil)
	_ sdf.BufferingProfile = (*ProfiledActor)(nil)
)
