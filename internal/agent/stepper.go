package agent

import (
	"math"

	"outpost/internal/grid"
	"outpost/internal/nav"
	"outpost/internal/plan"
)

// StepConfig carries the per-tick tuning the stepper needs.
type StepConfig struct {
	MoveSpeed float64 // cells per second along the refined path
	WorkRate  float64 // work units per second while building
}

// Event reports what, if anything, noteworthy happened during one
// colonist step. The simulation layer turns these into status-line
// messages and HUD counters; the stepper itself never formats text.
type Event uint8

const (
	EventNone Event = iota
	// EventReserved means an idle colonist claimed a planned tile.
	EventReserved
	// EventUnreachable means a claimed tile had no walkable path; the
	// reservation was released and the colonist parked idle.
	EventUnreachable
	// EventCompleted means the colonist finished a build this step.
	EventCompleted
)

// Step advances one colonist by dt seconds. Idle colonists try to claim
// the best available job; walking colonists advance along their path;
// working colonists bill work against the reserved tile and complete the
// build when it runs out. A reservation that vanished underneath the
// colonist (brush commit, undo, another completion) drops it back to
// idle so it re-acquires next tick.
func Step(c *Colonist, world *grid.World, navigator *nav.Navigator, cfg StepConfig, dt float64) Event {
	switch c.State {
	case StateIdle:
		return stepIdle(c, world, navigator)
	case StateWalking:
		return stepWalking(c, world, cfg, dt)
	case StateWorking:
		return stepWorking(c, world, navigator, cfg, dt)
	}
	return EventNone
}

func stepIdle(c *Colonist, world *grid.World, navigator *nav.Navigator) Event {
	// An idle colonist that still holds a reservation (a save was loaded
	// mid-walk, or its path was dropped) re-paths to the reserved tile
	// instead of leaking the claim.
	if c.Target != nil {
		if holdsReservation(world, c) {
			path, found := navigator.FindPath(c.Cell(), *c.Target)
			if found {
				c.Path = path
				c.PathIndex = 0
				c.State = StateWalking
				return EventNone
			}
			releaseReservation(world, *c.Target, c.ID)
			c.dropTarget()
			return EventUnreachable
		}
		c.dropTarget()
	}

	from := c.Cell()
	job, ok := plan.SelectJob(world, navigator, from)
	if !ok {
		return EventNone
	}
	if !plan.ReserveJob(world, job.X, job.Y, c.ID) {
		// Raced: an earlier colonist in this tick claimed it. Try again
		// next tick rather than re-scanning within the same one.
		return EventNone
	}
	target := nav.Coord{X: job.X, Y: job.Y}
	path, found := navigator.FindPath(from, target)
	if !found {
		// SelectJob's reachability check passed, so this only happens if
		// the grid changed between the scan and the claim.
		releaseReservation(world, target, c.ID)
		c.dropTarget()
		return EventUnreachable
	}
	c.Target = &target
	c.Path = path
	c.PathIndex = 0
	c.State = StateWalking
	return EventReserved
}

func stepWalking(c *Colonist, world *grid.World, cfg StepConfig, dt float64) Event {
	if !holdsReservation(world, c) {
		c.dropTarget()
		return EventNone
	}
	budget := cfg.MoveSpeed * dt
	for budget > 0 && c.PathIndex < len(c.Path) {
		next := c.Path[c.PathIndex]
		dx := float64(next.X) - c.X
		dy := float64(next.Y) - c.Y
		dist := math.Hypot(dx, dy)
		if dist <= budget {
			c.X = float64(next.X)
			c.Y = float64(next.Y)
			budget -= dist
			c.PathIndex++
			continue
		}
		c.X += dx / dist * budget
		c.Y += dy / dist * budget
		budget = 0
	}
	if c.PathIndex >= len(c.Path) {
		c.State = StateWorking
	}
	return EventNone
}

func stepWorking(c *Colonist, world *grid.World, navigator *nav.Navigator, cfg StepConfig, dt float64) Event {
	if c.Target == nil || !holdsReservation(world, c) {
		c.dropTarget()
		return EventNone
	}
	done := plan.TickWork(world, navigator, c.Target.X, c.Target.Y, cfg.WorkRate, dt)
	if !done {
		return EventNone
	}
	c.dropTarget()
	return EventCompleted
}

// holdsReservation reports whether the colonist's target cell still names
// it as the reservation holder.
func holdsReservation(world *grid.World, c *Colonist) bool {
	if c.Target == nil {
		return false
	}
	cell, ok := world.CellAt(c.Target.X, c.Target.Y)
	return ok && cell.ReservedBy == c.ID
}

func releaseReservation(world *grid.World, at nav.Coord, id grid.AgentID) {
	if cell, ok := world.CellAt(at.X, at.Y); ok && cell.ReservedBy == id {
		cell.ReservedBy = grid.NoAgent
	}
}
