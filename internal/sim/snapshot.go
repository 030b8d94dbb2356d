package sim

import (
	"outpost/internal/agent"
	"outpost/internal/grid"
	"outpost/internal/nav"
)

// CellSnapshot is one cell's render-facing state.
type CellSnapshot struct {
	Built         grid.TileType
	Planned       grid.TileType
	PlanPriority  uint8
	WorkRemaining float64
	ReservedBy    grid.AgentID
}

// AgentSnapshot is one colonist's render-facing state, including a copy
// of its remaining path for overlay drawing.
type AgentSnapshot struct {
	ID     grid.AgentID
	X, Y   float64
	State  agent.State
	Target *nav.Coord
	Path   []nav.Coord
}

// WorldSnapshot is the immutable copy of simulation state handed to the
// presentation layer after a tick completes. Nothing in it aliases live
// simulation memory.
type WorldSnapshot struct {
	Width, Height int
	Cells         []CellSnapshot
	Agents        []AgentSnapshot
	Inventory     grid.Inventory
	SimTime       float64
}

// Snapshot captures the current world, agent, and inventory state.
// simTime is supplied by the loop that drives this simulation.
func (s *Simulation) Snapshot(simTime float64) *WorldSnapshot {
	snap := &WorldSnapshot{
		Width:     s.World.Width(),
		Height:    s.World.Height(),
		Cells:     make([]CellSnapshot, 0, s.World.Width()*s.World.Height()),
		Inventory: s.World.Inventory,
		SimTime:   simTime,
	}
	s.World.ForEachCell(func(x, y int, c *grid.Cell) {
		snap.Cells = append(snap.Cells, CellSnapshot{
			Built:         c.Built,
			Planned:       c.Planned,
			PlanPriority:  c.PlanPriority,
			WorkRemaining: c.WorkRemaining,
			ReservedBy:    c.ReservedBy,
		})
	})
	s.Colonists.ForEach(func(c *agent.Colonist) {
		a := AgentSnapshot{
			ID:    c.ID,
			X:     c.X,
			Y:     c.Y,
			State: c.State,
		}
		if c.Target != nil {
			t := *c.Target
			a.Target = &t
		}
		if remaining := c.Path[c.PathIndex:]; len(remaining) > 0 {
			a.Path = make([]nav.Coord, len(remaining))
			copy(a.Path, remaining)
		}
		snap.Agents = append(snap.Agents, a)
	})
	return snap
}
