package sdf

// profile is the outcome of the capability check on an external actor.
// Actors without the capability get the zero record: no costs, shared
// firing only.
type profile struct {
	costs    Costs
	eligible bool
}

func profileOf(a Actor) profile {
	if bp, ok := a.(BufferingProfile); ok {
		return profile{costs: bp.Costs(), eligible: true}
	}
	return profile{}
}

// actor is the analysis view of one scheduled actor. index is both its slot
// in state.remaining and its position in model.external.
type actor struct {
	index    int
	name     string
	required int
	ports    []*port
	profile  profile
}

func (a *actor) enabled(s *state) bool {
	if s.remaining[a.index] == 0 {
		return false
	}
	for _, p := range a.ports {
		if !p.enabled(s) {
			return false
		}
	}
	return true
}

func (a *actor) exclusiveEnabled(s *state) bool {
	if !a.profile.eligible || s.remaining[a.index] == 0 {
		return false
	}
	for _, p := range a.ports {
		if !p.exclusiveEnabled(s) {
			return false
		}
	}
	return true
}

// fire applies one firing to s in place. Callers pass a fresh successor.
func (a *actor) fire(s *state) {
	for _, p := range a.ports {
		p.fire(s)
	}
	s.remaining[a.index]--
}

func (a *actor) bufferDelta(exclusive bool) int {
	if exclusive {
		return a.profile.costs.ExclusiveBuffer
	}
	return a.profile.costs.SharedBuffer
}

func (a *actor) timeDelta(exclusive bool) int {
	if exclusive {
		return a.profile.costs.ExclusiveTime
	}
	return a.profile.costs.SharedTime
}
