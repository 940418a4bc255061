package sdf

// channel is one output port as seen by the analysis. Every consumer reads
// through its own occupancy counter; a produced token becomes visible to all
// consumers at once.
type channel struct {
	index    int
	producer int // internal actor index
	rate     int // tokens produced per firing
	initial  int
	// offset is the first slot of this channel in state.occupancy. It is
	// assigned once all consumers are known.
	offset    int
	consumers int
	readers   []reader
}

// reader records a consumer for the balance check.
type reader struct {
	actor int
	rate  int // tokens consumed per firing
}

// addConsumer registers a consumer and returns its index.
func (c *channel) addConsumer(actor, rate int) int {
	c.readers = append(c.readers, reader{actor: actor, rate: rate})
	c.consumers++
	return c.consumers - 1
}

// tokens returns the tokens available to one consumer.
func (c *channel) tokens(consumer int, s *state) int {
	return s.occupancy[c.offset+consumer]
}

// exclusiveTokens returns how many tokens the consumer may take without any
// other consumer's view ever dropping below zero.
func (c *channel) exclusiveTokens(consumer int, s *state) int {
	mine := c.tokens(consumer, s)
	avail := mine
	for other := 0; other < c.consumers; other++ {
		if other == consumer {
			continue
		}
		if d := mine - c.tokens(other, s); d < avail {
			avail = d
		}
	}
	return max(avail, 0)
}

// addTokens broadcasts rate new tokens to every consumer.
func (c *channel) addTokens(rate int, s *state) {
	for i := 0; i < c.consumers; i++ {
		s.occupancy[c.offset+i] += rate
	}
}

// removeTokens applies a negative consumption rate to one consumer.
func (c *channel) removeTokens(consumer, rate int, s *state) {
	s.occupancy[c.offset+consumer] += rate
}

// size is the memory footprint of the channel. Consumers share one physical
// buffer, so the footprint is the largest occupancy, not the sum.
func (c *channel) size(s *state) int {
	size := 0
	for i := 0; i < c.consumers; i++ {
		size = max(size, s.occupancy[c.offset+i])
	}
	return size
}
