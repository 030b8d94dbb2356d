package grid

// Cell is one tile's full state: what is actually built, what is planned
// to replace it, how much work remains on that plan, and which colonist
// (if any) currently holds the tile's work reservation.
type Cell struct {
	Built         TileType
	Planned       TileType
	PlanPriority  uint8
	WorkRemaining float64
	ReservedBy    AgentID
}

// IsPlanned reports whether this cell has an active plan distinct from
// what is already built. A cell whose Planned equals Built is considered
// unplanned, whether or not that shared value is Empty.
func (c *Cell) IsPlanned() bool {
	return c.Planned != c.Built
}

// Snapshot captures the fields an undo/redo entry needs to restore.
func (c *Cell) Snapshot() TileSnapshot {
	return TileSnapshot{
		Built:         c.Built,
		Planned:       c.Planned,
		PlanPriority:  c.PlanPriority,
		WorkRemaining: c.WorkRemaining,
		ReservedBy:    c.ReservedBy,
	}
}

// Restore writes a previously captured snapshot back onto the cell, used
// by plan history undo/redo.
func (c *Cell) Restore(s TileSnapshot) {
	c.Built = s.Built
	c.Planned = s.Planned
	c.PlanPriority = s.PlanPriority
	c.WorkRemaining = s.WorkRemaining
	c.ReservedBy = s.ReservedBy
}

// TileSnapshot is an immutable copy of a Cell's fields, stored in plan
// history undo/redo entries.
type TileSnapshot struct {
	Built         TileType
	Planned       TileType
	PlanPriority  uint8
	WorkRemaining float64
	ReservedBy    AgentID
}

// TileChange records a before/after pair for one cell, returned by
// PlacePlan and consumed by the plan package's command/undo stack.
type TileChange struct {
	X, Y   int
	Before TileSnapshot
	After  TileSnapshot
}
