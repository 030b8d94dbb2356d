package agent

import "outpost/internal/grid"

type slot struct {
	generation uint16
	live       bool
	colonist   Colonist
}

// Arena owns every colonist, indexed by the slot/generation pair packed
// into grid.AgentID. Removed slots are reused with a bumped generation,
// so an old id held by a cell reservation fails the generation check in
// Get rather than resolving to the new occupant.
type Arena struct {
	slots []slot
	count int
}

// NewArena returns an empty colonist arena.
func NewArena() *Arena {
	return &Arena{}
}

// Len returns the number of live colonists.
func (a *Arena) Len() int { return a.count }

// Spawn places a new colonist at (x, y) and returns it. The first free
// slot is reused; otherwise the arena grows by one. The returned pointer
// addresses the arena's slot storage, which a later Spawn or Restore that
// grows the arena moves; resolve the id through Get after that.
func (a *Arena) Spawn(x, y float64) *Colonist {
	idx := -1
	for i := range a.slots {
		if !a.slots[i].live {
			idx = i
			break
		}
	}
	if idx < 0 {
		a.slots = append(a.slots, slot{})
		idx = len(a.slots) - 1
	}
	s := &a.slots[idx]
	s.live = true
	s.colonist = Colonist{
		ID:    grid.NewAgentID(uint16(idx), s.generation),
		X:     x,
		Y:     y,
		State: StateIdle,
	}
	a.count++
	return &s.colonist
}

// Get resolves an id to its live colonist. A stale id (slot reused under
// a newer generation, or slot dead) resolves to nothing.
func (a *Arena) Get(id grid.AgentID) (*Colonist, bool) {
	if !id.Valid() {
		return nil, false
	}
	idx := int(id.Index())
	if idx >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[idx]
	if !s.live || s.generation != id.Generation() {
		return nil, false
	}
	return &s.colonist, true
}

// Remove kills the colonist with the given id, bumping the slot's
// generation so the id can never resolve again. It reports whether the
// id was live.
func (a *Arena) Remove(id grid.AgentID) bool {
	c, ok := a.Get(id)
	if !ok {
		return false
	}
	s := &a.slots[c.ID.Index()]
	s.live = false
	s.generation++
	a.count--
	return true
}

// Restore inserts a colonist at the exact slot and generation its ID
// names, growing the arena as needed. Used by save loading, which must
// reproduce ids byte-for-byte so cell reservations keep resolving.
func (a *Arena) Restore(c Colonist) {
	idx := int(c.ID.Index())
	for idx >= len(a.slots) {
		a.slots = append(a.slots, slot{})
	}
	s := &a.slots[idx]
	if !s.live {
		a.count++
	}
	s.live = true
	s.generation = c.ID.Generation()
	s.colonist = c
}

// ForEach visits live colonists in ascending slot order, i.e. ascending
// AgentID.Index(). This matches ascending numeric AgentID order only while
// no slot has been reused under a newer generation. The tick loop relies
// on this fixed order to linearize two agents racing for the same cell.
func (a *Arena) ForEach(fn func(*Colonist)) {
	for i := range a.slots {
		if a.slots[i].live {
			fn(&a.slots[i].colonist)
		}
	}
}
