package config

// Model is the unified, format-agnostic representation of every graph found
// in the loaded files.
type Model struct {
	Graphs []*Graph
}

// Graph is one dataflow graph together with its repetition vector.
type Graph struct {
	Name string
	// Criterion optionally overrides the objective selected on the command
	// line. Empty means no override.
	Criterion   string
	Actors      []*Actor
	Connections []*Connection
	// Source is the file the graph was loaded from.
	Source string
}

// Actor is the format-agnostic representation of an `actor` block.
type Actor struct {
	Name string
	// Repetitions is the actor's entry of the repetition vector.
	Repetitions int
	Inputs      []*Input
	Outputs     []*Output
	// Profile is nil for actors that only fire in shared mode.
	Profile *Profile
}

// Input is a consuming port. Rate is the number of tokens consumed per firing.
type Input struct {
	Name string
	Rate int
}

// Output is a producing port.
type Output struct {
	Name          string
	Rate          int
	InitialTokens int
}

// Profile holds the buffering-profile costs of an actor.
type Profile struct {
	SharedBuffer    int
	ExclusiveBuffer int
	SharedTime      int
	ExclusiveTime   int
}

// Connection wires an output port to an input port. Both ends are
// `actor.port` references.
type Connection struct {
	From string
	To   string
}

// Merge appends the graphs of other to m.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	m.Graphs = append(m.Graphs, other.Graphs...)
}

// DefaultRate is used for ports that do not declare a rate.
const DefaultRate = 1
