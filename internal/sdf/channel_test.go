package sdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannel(t *testing.T) {
	ch := &channel{offset: 1}
	ch.addConsumer(0, 1)
	ch.addConsumer(1, 2)
	ch.addConsumer(2, 1)
	// Slot 0 belongs to some other channel.
	s := &state{occupancy: []int{9, 4, 1, 3}}

	t.Run("tokens", func(t *testing.T) {
		assert.Equal(t, 4, ch.tokens(0, s))
		assert.Equal(t, 1, ch.tokens(1, s))
		assert.Equal(t, 3, ch.tokens(2, s))
	})

	t.Run("exclusiveTokens", func(t *testing.T) {
		// min(4, 4-1, 4-3)
		assert.Equal(t, 1, ch.exclusiveTokens(0, s))
		// 1-4 and 1-3 are negative, floored at zero.
		assert.Equal(t, 0, ch.exclusiveTokens(1, s))
		// min(3, 3-4, 3-1) = -1, floored at zero.
		assert.Equal(t, 0, ch.exclusiveTokens(2, s))
	})

	t.Run("size is the largest view", func(t *testing.T) {
		assert.Equal(t, 4, ch.size(s))
	})

	t.Run("addTokens broadcasts", func(t *testing.T) {
		next := &state{occupancy: []int{9, 4, 1, 3}}
		ch.addTokens(2, next)
		assert.Equal(t, []int{9, 6, 3, 5}, next.occupancy)
	})

	t.Run("removeTokens touches one consumer", func(t *testing.T) {
		next := &state{occupancy: []int{9, 4, 1, 3}}
		ch.removeTokens(2, -3, next)
		assert.Equal(t, []int{9, 4, 1, 0}, next.occupancy)
	})
}

func TestChannel_SingleConsumerExclusiveTokens(t *testing.T) {
	ch := &channel{}
	ch.addConsumer(0, 1)
	s := &state{occupancy: []int{5}}
	assert.Equal(t, 5, ch.exclusiveTokens(0, s))
}

func TestChannel_NoConsumers(t *testing.T) {
	ch := &channel{}
	s := &state{}
	ch.addTokens(3, s)
	assert.Zero(t, ch.size(s))
}

func TestPort(t *testing.T) {
	ch := &channel{}
	ch.addConsumer(0, 2)
	consumer := newConsumer(ch, 0, 2)
	producer := newProducer(ch, 1)

	assert.Equal(t, -2, consumer.rate)
	assert.Equal(t, 1, producer.rate)

	s := &state{occupancy: []int{1}}
	assert.False(t, consumer.enabled(s))
	assert.True(t, producer.enabled(s))

	producer.fire(s)
	assert.True(t, consumer.enabled(s))
	assert.True(t, consumer.exclusiveEnabled(s))
	consumer.fire(s)
	assert.Equal(t, []int{0}, s.occupancy)
}
