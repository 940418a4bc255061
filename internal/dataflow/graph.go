package dataflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vk/sdfsched/internal/config"
	"github.com/vk/sdfsched/internal/ctxlog"
	"github.com/vk/sdfsched/internal/portref"
	"github.com/vk/sdfsched/internal/sdf"
)

// ErrUnresolvedConnection is returned by Build when a connection names a
// port that does not exist.
var ErrUnresolvedConnection = errors.New("unresolved connection")

// Graph is a dataflow graph with its repetition vector.
type Graph struct {
	name   string
	actors []sdf.Actor
	byName map[string]sdf.Actor
	bases  map[string]*Actor
	reps   map[sdf.Actor]int
}

// Name returns the graph's name.
func (g *Graph) Name() string { return g.name }

// Actors implements sdf.Graph. Actors are returned in declaration order.
func (g *Graph) Actors() []sdf.Actor { return g.actors }

// Repetitions implements sdf.Graph.
func (g *Graph) Repetitions(a sdf.Actor) int { return g.reps[a] }

// Actor looks an actor up by name.
func (g *Graph) Actor(name string) (sdf.Actor, bool) {
	a, ok := g.byName[name]
	return a, ok
}

// Profiled returns the actors that carry a buffering profile.
func (g *Graph) Profiled() []*ProfiledActor {
	var out []*ProfiledActor
	for _, a := range g.actors {
		if p, ok := a.(*ProfiledActor); ok {
			out = append(out, p)
		}
	}
	return out
}

// Build creates a graph from its configuration. A connection whose source
// actor is not part of the graph leaves the input as a boundary input.
// Several connections into the same input are all kept; the scheduler
// reports such graphs as malformed.
func Build(ctx context.Context, cg *config.Graph) (*Graph, error) {
	logger := ctxlog.FromContext(ctx).With("graph", cg.Name)

	g := &Graph{
		name:   cg.Name,
		byName: make(map[string]sdf.Actor, len(cg.Actors)),
		bases:  make(map[string]*Actor, len(cg.Actors)),
		reps:   make(map[sdf.Actor]int, len(cg.Actors)),
	}

	for _, ca := range cg.Actors {
		if _, dup := g.bases[ca.Name]; dup {
			return nil, fmt.Errorf("actor %q is defined twice", ca.Name)
		}
		a := &Actor{name: ca.Name}
		for _, in := range ca.Inputs {
			a.inputs = append(a.inputs, &InputPort{owner: ca.Name, name: in.Name, rate: in.Rate})
		}
		for _, out := range ca.Outputs {
			a.outputs = append(a.outputs, &OutputPort{owner: ca.Name, name: out.Name, rate: out.Rate, initial: out.InitialTokens})
		}

		var node sdf.Actor = a
		if p := ca.Profile; p != nil {
			node = &ProfiledActor{Actor: a, costs: sdf.Costs{
				SharedBuffer:    p.SharedBuffer,
				ExclusiveBuffer: p.ExclusiveBuffer,
				SharedTime:      p.SharedTime,
				ExclusiveTime:   p.ExclusiveTime,
			}}
		}
		g.actors = append(g.actors, node)
		g.byName[ca.Name] = node
		g.bases[ca.Name] = a
		g.reps[node] = ca.Repetitions
	}

	for _, c := range cg.Connections {
		if err := g.connect(logger, c); err != nil {
			return nil, fmt.Errorf("connection %s -> %s: %w", c.From, c.To, err)
		}
	}

	logger.Debug("Dataflow graph built.", "actors", len(g.actors), "connections", len(cg.Connections))
	return g, nil
}

func (g *Graph) connect(logger *slog.Logger, c *config.Connection) error {
	from, err := portref.Parse(c.From)
	if err != nil {
		return err
	}
	to, err := portref.Parse(c.To)
	if err != nil {
		return err
	}

	dst, ok := g.bases[to.Actor]
	if !ok {
		return fmt.Errorf("%w: unknown actor %q", ErrUnresolvedConnection, to.Actor)
	}
	in := dst.input(to.Port)
	if in == nil {
		return fmt.Errorf("%w: actor %q has no input port %q", ErrUnresolvedConnection, to.Actor, to.Port)
	}

	src, ok := g.bases[from.Actor]
	if !ok {
		logger.Warn("Connection source is outside the graph, input left as a boundary input.", "from", from.String(), "to", to.String())
		return nil
	}
	out := src.output(from.Port)
	if out == nil {
		return fmt.Errorf("%w: actor %q has no output port %q", ErrUnresolvedConnection, from.Actor, from.Port)
	}
	in.sources = append(in.sources, out)
	return nil
}

var _ sdf.Graph = (*Graph)(nil)
