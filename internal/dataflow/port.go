package dataflow

import "github.com/vk/sdfsched/internal/sdf"

// OutputPort is a producing port of an actor.
type OutputPort struct {
	owner   string
	name    string
	rate    int
	initial int
}

func (p *OutputPort) Name() string { return p.name }
func (p *OutputPort) Rate() int { return p.rate }
func (p *OutputPort) InitialTokens() int { return p.initial }

// Owner returns the name of the actor the port belongs to.
func (p *OutputPort) Owner() string { return p.owner }

// InputPort is a consuming port of an actor.
type InputPort struct {
	owner   string
	name    string
	rate    int
	sources []*OutputPort
}

func (p *InputPort) Name() string { return p.name }
func (p *InputPort) Rate() int { return p.rate }

// Owner returns the name of the actor the port belongs to.
func (p *InputPort) Owner() string { return p.owner }

// Sources returns the output ports connected to this input, in declaration
// order.
func (p *InputPort) Sources() []sdf.OutputPort {
	out := make([]sdf.OutputPort, len(p.sources))
	for i, s := range p.sources {
		out[i] = s
	}
	return out
}

var (
	_ sdf.OutputPort = (*OutputPort)(nil)
	_ sdf.InputPort  = (*InputPort)(nil)
)
