package sdf

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// frontier is a min-heap of states for container/heap. Ties on the state
// order fall back to arena id, so of two indistinguishable states the one
// generated first is expanded first.
type frontier []*state

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if c := compareStates(f[i], f[j]); c != 0 {
		return c < 0
	}
	return f[i].id < f[j].id
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(*state)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	s := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return s
}

// closedSet remembers the (occupancy, remaining) vectors of expanded
// states. Buckets are keyed by an xxhash of the vectors; members of a bucket
// are compared in full.
type closedSet struct {
	buckets map[uint64][]*state
	buf     []byte
	size    int
}

func newClosedSet() *closedSet {
	return &closedSet{buckets: make(map[uint64][]*state)}
}

func (c *closedSet) hash(s *state) uint64 {
	c.buf = c.buf[:0]
	for _, v := range s.occupancy {
		c.buf = binary.AppendVarint(c.buf, int64(v))
	}
	for _, v := range s.remaining {
		c.buf = binary.AppendVarint(c.buf, int64(v))
	}
	return xxhash.Sum64(c.buf)
}

func (c *closedSet) contains(s *state) bool {
	for _, member := range c.buckets[c.hash(s)] {
		if sameVectors(member, s) {
			return true
		}
	}
	return false
}

// add inserts s and reports whether it was not yet present.
func (c *closedSet) add(s *state) bool {
	h := c.hash(s)
	for _, member := range c.buckets[h] {
		if sameVectors(member, s) {
			return false
		}
	}
	c.buckets[h] = append(c.buckets[h], s)
	c.size++
	return true
}
