package sdf

import (
	"context"
	"fmt"

	"github.com/vk/sdfsched/internal/ctxlog"
)

// model is the analysis model built for one scheduling call. It is read-only
// once buildModel returns.
type model struct {
	actors   []*actor
	channels []*channel
	// slots is the length of the occupancy vector.
	slots int

	// Forward and backward identity maps between external handles and
	// internal indices.
	actorIndex   map[Actor]int
	channelIndex map[OutputPort]int
	external     []Actor
	sources      []OutputPort
}

// buildModel instantiates actors, channels and ports for every actor with a
// positive repetition count. Index assignment follows g.Actors() order, then
// port declaration order, so two builds of the same graph lay out their
// state vectors identically.
func buildModel(ctx context.Context, g Graph) (*model, error) {
	logger := ctxlog.FromContext(ctx)
	m := &model{
		actorIndex:   make(map[Actor]int),
		channelIndex: make(map[OutputPort]int),
	}

	for _, ext := range g.Actors() {
		reps := g.Repetitions(ext)
		if reps < 0 {
			return nil, fmt.Errorf("%w: actor %s has negative repetition count %d", ErrInvalidGraph, ext.Name(), reps)
		}
		if reps == 0 {
			logger.Debug("Actor has no firings this iteration, leaving it out of the analysis.", "actor", ext.Name())
			continue
		}
		if _, dup := m.actorIndex[ext]; dup {
			return nil, fmt.Errorf("%w: actor %s is listed twice", ErrInvalidGraph, ext.Name())
		}
		prof := profileOf(ext)
		if err := validateCosts(ext.Name(), prof.costs); err != nil {
			return nil, err
		}
		a := &actor{
			index:    len(m.actors),
			name:     ext.Name(),
			required: reps,
			profile:  prof,
		}
		m.actorIndex[ext] = a.index
		m.actors = append(m.actors, a)
		m.external = append(m.external, ext)
	}

	// Channels first, so that every input can be resolved regardless of
	// actor order.
	for _, a := range m.actors {
		for _, out := range m.external[a.index].Outputs() {
			if out.Rate() < 0 {
				return nil, fmt.Errorf("%w: output port %s.%s has negative rate %d", ErrInvalidGraph, a.name, out.Name(), out.Rate())
			}
			if out.InitialTokens() < 0 {
				return nil, fmt.Errorf("%w: output port %s.%s has negative initial tokens %d", ErrInvalidGraph, a.name, out.Name(), out.InitialTokens())
			}
			ch := &channel{
				index:    len(m.channels),
				producer: a.index,
				rate:     out.Rate(),
				initial:  out.InitialTokens(),
			}
			m.channelIndex[out] = ch.index
			m.channels = append(m.channels, ch)
			m.sources = append(m.sources, out)
		}
	}

	for _, a := range m.actors {
		ext := m.external[a.index]
		for _, in := range ext.Inputs() {
			if in.Rate() < 0 {
				return nil, fmt.Errorf("%w: input port %s.%s has negative rate %d", ErrInvalidGraph, a.name, in.Name(), in.Rate())
			}
			src, err := uniqueSource(a.name, in)
			if err != nil {
				return nil, err
			}
			if src == nil {
				continue
			}
			idx, ok := m.channelIndex[src]
			if !ok {
				logger.Debug("Input is fed from outside the iteration, ignoring it.", "actor", a.name, "port", in.Name())
				continue
			}
			ch := m.channels[idx]
			consumer := ch.addConsumer(a.index, in.Rate())
			a.ports = append(a.ports, newConsumer(ch, consumer, in.Rate()))
		}
		for _, out := range ext.Outputs() {
			a.ports = append(a.ports, newProducer(m.channels[m.channelIndex[out]], out.Rate()))
		}
	}

	for _, ch := range m.channels {
		ch.offset = m.slots
		m.slots += ch.consumers
	}

	if err := m.checkBalance(); err != nil {
		return nil, err
	}

	logger.Debug("Analysis model built.", "actors", len(m.actors), "channels", len(m.channels), "occupancy_slots", m.slots)
	return m, nil
}

func uniqueSource(actorName string, in InputPort) (OutputPort, error) {
	sources := in.Sources()
	switch len(sources) {
	case 0:
		return nil, nil
	case 1:
		return sources[0], nil
	}
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name()
	}
	return nil, &SourceConflictError{Actor: actorName, Port: in.Name(), Sources: names}
}

func validateCosts(name string, c Costs) error {
	if c.SharedBuffer < 0 || c.ExclusiveBuffer < 0 || c.SharedTime < 0 || c.ExclusiveTime < 0 {
		return fmt.Errorf("%w: actor %s has a negative buffering-profile cost %+v", ErrInvalidGraph, name, c)
	}
	return nil
}

// checkBalance rejects repetition vectors under which some channel would
// not return to its initial occupancy after one iteration.
func (m *model) checkBalance() error {
	for _, ch := range m.channels {
		producer := m.actors[ch.producer]
		produced := ch.rate * producer.required
		for _, r := range ch.readers {
			consumer := m.actors[r.actor]
			consumed := r.rate * consumer.required
			if produced != consumed {
				return &UnbalancedChannelError{
					Producer: producer.name + "." + m.sources[ch.index].Name(),
					Consumer: consumer.name,
					Produced: produced,
					Consumed: consumed,
				}
			}
		}
	}
	return nil
}

// initialState sets every remaining count to the repetition count and every
// occupancy counter to its channel's initial tokens.
func (m *model) initialState(c Criterion) *state {
	s := &state{
		id:        -1,
		remaining: make([]int, len(m.actors)),
		occupancy: make([]int, m.slots),
		parent:    -1,
		actor:     -1,
	}
	for _, a := range m.actors {
		s.remaining[a.index] = a.required
	}
	for _, ch := range m.channels {
		for i := 0; i < ch.consumers; i++ {
			s.occupancy[ch.offset+i] = ch.initial
		}
	}
	if c == BufferSize {
		s.value = m.footprint(s)
	}
	return s
}

// footprint is the total memory held by all channels in s.
func (m *model) footprint(s *state) int {
	total := 0
	for _, ch := range m.channels {
		total += ch.size(s)
	}
	return total
}

// objective computes the value of next, reached from a state valued prev by
// firing a in the given mode.
func (m *model) objective(c Criterion, prev int, next *state, a *actor, exclusive bool) int {
	if c == ExecutionTime {
		return prev + a.timeDelta(exclusive)
	}
	return max(prev, m.footprint(next)+a.bufferDelta(exclusive))
}

// fire returns the successor of s after firing a.
func (m *model) fire(c Criterion, s *state, a *actor, exclusive bool) *state {
	next := s.successor()
	a.fire(next)
	next.actor = a.index
	next.exclusive = exclusive
	next.value = m.objective(c, s.value, next, a, exclusive)
	return next
}
