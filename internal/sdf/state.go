package sdf

import (
	"cmp"
	"slices"
)

// state is one point of the search space. States are stored in the
// explorer's arena and refer to their predecessor by arena index.
type state struct {
	id        int
	remaining []int
	occupancy []int
	value     int

	parent    int // -1 for the initial state
	actor     int // internal index of the actor that produced this state
	exclusive bool
}

func (s *state) terminal() bool {
	for _, r := range s.remaining {
		if r != 0 {
			return false
		}
	}
	return true
}

// successor clones the vectors of s into a new state linked to s.
func (s *state) successor() *state {
	return &state{
		id:        -1,
		remaining: slices.Clone(s.remaining),
		occupancy: slices.Clone(s.occupancy),
		value:     s.value,
		parent:    s.id,
		actor:     -1,
	}
}

// release drops the vectors of a state that will not be expanded again.
// Only the predecessor link is needed to rebuild a schedule.
func (s *state) release() {
	s.remaining = nil
	s.occupancy = nil
}

// sameVectors reports whether a and b are the same point of the search
// space, regardless of how they were reached.
func sameVectors(a, b *state) bool {
	return slices.Equal(a.occupancy, b.occupancy) && slices.Equal(a.remaining, b.remaining)
}

// compareStates orders by objective value, then occupancy, then remaining
// counts. The vector comparison only makes the order total.
func compareStates(a, b *state) int {
	if c := cmp.Compare(a.value, b.value); c != 0 {
		return c
	}
	if c := slices.Compare(a.occupancy, b.occupancy); c != 0 {
		return c
	}
	return slices.Compare(a.remaining, b.remaining)
}
