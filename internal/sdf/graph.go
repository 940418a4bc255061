package sdf

import "context"

// Graph is the scheduler's view of a dataflow graph owned by a host
// framework.
type Graph interface {
	// Actors returns the actors in a stable order. The order fixes the
	// layout of the state vectors for one scheduling call.
	Actors() []Actor
	// Repetitions returns how often the actor fires in one iteration.
	// Actors with a count of zero are not part of the analysis.
	Repetitions(Actor) int
}

// Actor is one schedulable unit of the host graph.
type Actor interface {
	Name() string
	Inputs() []InputPort
	Outputs() []OutputPort
}

// OutputPort produces Rate tokens per firing. InitialTokens are present on
// the channel before the first firing of an iteration.
type OutputPort interface {
	Name() string
	Rate() int
	InitialTokens() int
}

// InputPort consumes Rate tokens per firing from its upstream source.
type InputPort interface {
	Name() string
	Rate() int
	// Sources lists the output ports wired to this input. A well-formed
	// graph has at most one.
	Sources() []OutputPort
}

// Costs are the per-firing costs of the two firing modes.
type Costs struct {
	SharedBuffer    int `json:"shared_buffer" yaml:"shared_buffer"`
	ExclusiveBuffer int `json:"exclusive_buffer" yaml:"exclusive_buffer"`
	SharedTime      int `json:"shared_time" yaml:"shared_time"`
	ExclusiveTime   int `json:"exclusive_time" yaml:"exclusive_time"`
}

// BufferingProfile is the optional capability of an Actor that can fire in
// both shared and exclusive mode.
type BufferingProfile interface {
	Costs() Costs
	// Fire executes the actor for the given number of iterations in the
	// selected mode.
	Fire(ctx context.Context, iterations int, exclusive bool) error
}
