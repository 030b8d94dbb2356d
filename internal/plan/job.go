package plan

import (
	"sort"

	"outpost/internal/grid"
	"outpost/internal/nav"
)

// JobCandidate describes one reachable planned cell a colonist could
// claim.
type JobCandidate struct {
	X, Y     int
	Priority uint8
	Distance float64
}

// SelectJob scans every planned, unreserved cell reachable from `from`
// and returns the one job dispatch should award: higher plan_priority
// first, then nearer by octile lower bound, then lexicographic (x, y)
// order so selection stays deterministic when priority and distance
// both tie.
func SelectJob(world *grid.World, navigator *nav.Navigator, from nav.Coord) (JobCandidate, bool) {
	var candidates []JobCandidate
	world.ForEachCell(func(x, y int, c *grid.Cell) {
		if !c.IsPlanned() || c.ReservedBy.Valid() {
			return
		}
		to := nav.Coord{X: x, Y: y}
		if _, ok := navigator.FindPath(from, to); !ok {
			return
		}
		candidates = append(candidates, JobCandidate{
			X:        x,
			Y:        y,
			Priority: c.PlanPriority,
			Distance: nav.Octile(from, to),
		})
	})
	if len(candidates) == 0 {
		return JobCandidate{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
	return candidates[0], true
}

// ReserveJob claims (x, y) for agent if it is still an active, unreserved
// plan. It reports false if the plan was completed, cleared, or already
// claimed by another agent earlier in the same tick — the race two idle
// colonists run against each other for the same tile.
func ReserveJob(world *grid.World, x, y int, agent grid.AgentID) bool {
	c, ok := world.CellAt(x, y)
	if !ok || !c.IsPlanned() || c.ReservedBy.Valid() {
		return false
	}
	c.ReservedBy = agent
	return true
}

// TickWork advances the work remaining on a reserved tile by work_rate *
// dt seconds. When the tile finishes, it completes the build, releases
// the reservation, and notifies the navigator to rebuild the affected
// cluster if the build changed the tile's passability. It reports
// whether the tile completed on this call.
func TickWork(world *grid.World, navigator *nav.Navigator, x, y int, workRate, dt float64) bool {
	c, ok := world.CellAt(x, y)
	if !ok {
		return false
	}
	c.WorkRemaining -= workRate * dt
	if c.WorkRemaining > 0 {
		return false
	}
	wasPassable := world.Passable(x, y)
	world.CompleteBuild(x, y)
	isPassable := world.Passable(x, y)
	if wasPassable != isPassable {
		navigator.RebuildClusterAt(x, y)
	}
	return true
}
