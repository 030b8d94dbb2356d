package grid

// AgentID identifies a colonist by arena slot, packed as generation in the
// high 16 bits and index in the low 16 bits so a stale id left over in a
// Cell.ReservedBy field after the agent's slot is reused can be detected
// and ignored rather than silently reattached to the wrong colonist.
type AgentID int32

// NoAgent marks a cell as unreserved.
const NoAgent AgentID = -1

// NewAgentID packs an arena index and generation into an AgentID.
func NewAgentID(index, generation uint16) AgentID {
	return AgentID(uint32(generation)<<16 | uint32(index))
}

// Index returns the arena slot this id was issued for.
func (id AgentID) Index() uint16 {
	return uint16(uint32(id) & 0xFFFF)
}

// Generation returns the arena generation this id was issued under.
func (id AgentID) Generation() uint16 {
	return uint16(uint32(id) >> 16)
}

// Valid reports whether id is anything other than NoAgent. It does not by
// itself prove the id's generation is still live; callers holding an
// arena compare Generation() against the slot's current generation for
// that.
func (id AgentID) Valid() bool {
	return id != NoAgent
}
