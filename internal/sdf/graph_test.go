package sdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// In-package fakes of the host framework.

type testOutput struct {
	name    string
	rate    int
	initial int
}

func (p *testOutput) Name() string { return p.name }
func (p *testOutput) Rate() int { return p.rate }
func (p *testOutput) InitialTokens() int { return p.initial }

type testInput struct {
	name    string
	rate    int
	sources []OutputPort
}

func (p *testInput) Name() string { return p.name }
func (p *testInput) Rate() int { return p.rate }
func (p *testInput) Sources() []OutputPort { return p.sources }

type testActor struct {
	name    string
	inputs  []InputPort
	outputs []OutputPort
}

func (a *testActor) Name() string { return a.name }
func (a *testActor) Inputs() []InputPort { return a.inputs }
func (a *testActor) Outputs() []OutputPort { return a.outputs }

func (a *testActor) out(name string, rate, initial int) *testOutput {
	p := &testOutput{name: name, rate: rate, initial: initial}
	a.outputs = append(a.outputs, p)
	return p
}

func (a *testActor) in(name string, rate int, sources ...*testOutput) *testInput {
	p := &testInput{name: name, rate: rate}
	for _, s := range sources {
		p.sources = append(p.sources, s)
	}
	a.inputs = append(a.inputs, p)
	return p
}

type firedCall struct {
	iterations int
	exclusive  bool
}

type testProfiled struct {
	*testActor
	costs Costs
	calls []firedCall
	err   error
}

func (a *testProfiled) Costs() Costs { return a.costs }

func (a *testProfiled) Fire(_ context.Context, iterations int, exclusive bool) error {
	a.calls = append(a.calls, firedCall{iterations: iterations, exclusive: exclusive})
	return a.err
}

type testGraph struct {
	actors []Actor
	reps   map[Actor]int
}

func newTestGraph() *testGraph {
	return &testGraph{reps: make(map[Actor]int)}
}

func (g *testGraph) Actors() []Actor { return g.actors }
func (g *testGraph) Repetitions(a Actor) int { return g.reps[a] }

func (g *testGraph) actor(name string, reps int) *testActor {
	a := &testActor{name: name}
	g.actors = append(g.actors, a)
	g.reps[a] = reps
	return a
}

func (g *testGraph) profiled(name string, reps int, costs Costs) *testProfiled {
	a := &testProfiled{testActor: &testActor{name: name}, costs: costs}
	g.actors = append(g.actors, a)
	g.reps[a] = reps
	return a
}

func names(s *Schedule) []string {
	out := make([]string, len(s.Firings))
	for i, f := range s.Firings {
		out[i] = f.String()
	}
	return out
}

// scenarioA is a producer and a consumer with rate one on both sides.
func scenarioA(producerReps, consumerReps int) *testGraph {
	g := newTestGraph()
	a := g.actor("A", producerReps)
	out := a.out("out", 1, 0)
	g.actor("B", consumerReps).in("in", 1, out)
	return g
}

// scenarioB feeds a profiled consumer C from a plain producer A.
func scenarioB() (*testGraph, *testProfiled) {
	g := newTestGraph()
	out := g.actor("A", 2).out("out", 1, 0)
	c := g.profiled("C", 2, Costs{SharedBuffer: 1, ExclusiveBuffer: 0, SharedTime: 1, ExclusiveTime: 2})
	c.in("in", 1, out)
	return g, c
}

func mustSchedule(t *testing.T, g Graph, opts ...Option) *Schedule {
	t.Helper()
	sched, err := New(opts...).Schedule(context.Background(), g)
	require.NoError(t, err)
	return sched
}
