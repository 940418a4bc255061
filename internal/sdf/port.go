package sdf

// port is one terminal of an analysis actor.
type port struct {
	// rate is signed: negative consumes, positive produces.
	rate    int
	channel *channel
	// consumer is the index into the channel's occupancy counters, or -1
	// for a producing port.
	consumer int
}

func newProducer(ch *channel, rate int) *port {
	return &port{rate: rate, channel: ch, consumer: -1}
}

func newConsumer(ch *channel, consumer, rate int) *port {
	return &port{rate: -rate, channel: ch, consumer: consumer}
}

func (p *port) consuming() bool { return p.consumer >= 0 }

func (p *port) enabled(s *state) bool {
	if !p.consuming() {
		return true
	}
	return p.channel.tokens(p.consumer, s)+p.rate >= 0
}

func (p *port) exclusiveEnabled(s *state) bool {
	if !p.consuming() {
		return true
	}
	return p.channel.exclusiveTokens(p.consumer, s)+p.rate >= 0
}

func (p *port) fire(s *state) {
	if p.consuming() {
		p.channel.removeTokens(p.consumer, p.rate, s)
		return
	}
	p.channel.addTokens(p.rate, s)
}
