package plan

import (
	"outpost/internal/grid"
	"outpost/internal/mathutil"
)

// RectResult summarizes one rectangle brush apply: how many cells were
// attempted versus actually changed, and whether the attempt ran out of
// wood partway through.
type RectResult struct {
	Attempted     int
	Changed       int
	NotEnoughWood bool
	Committed     bool
}

// clampPriority keeps a brush-selected priority within the 0..3 range the
// Cell.PlanPriority field uses.
func clampPriority(p int) uint8 {
	if p < 0 {
		p = 0
	}
	if p > 3 {
		p = 3
	}
	return uint8(p)
}

// ApplyPlanRect stamps a single plan type over every cell in the
// rectangle spanning (x0,y0)-(x1,y1), recording the whole rectangle as
// one undoable command. stopOnNotEnoughWood mirrors the brush tool's
// "report and stop" mode: once true, the first NotEnoughWood failure
// ends the sweep early since every remaining positive-cost placement
// would fail the same way. The returned RectResult has Committed false
// if nothing in the rectangle actually changed (the frame is discarded
// rather than committed in that case).
func ApplyPlanRect(world *grid.World, history *History, x0, y0, x1, y1 int, plan grid.TileType, priority int, stopOnNotEnoughWood bool) RectResult {
	rx0, rx1 := mathutil.IntMin(x0, x1), mathutil.IntMax(x0, x1)
	ry0, ry1 := mathutil.IntMin(y0, y1), mathutil.IntMax(y0, y1)

	if history.HasActiveCommand() {
		history.CommitCommand(world.Inventory.Wood)
	}
	history.BeginCommand(world.Inventory.Wood)

	clamped := clampPriority(priority)
	result := RectResult{}

	for y := ry0; y <= ry1; y++ {
		for x := rx0; x <= rx1; x++ {
			if !world.InBounds(x, y) {
				continue
			}
			result.Attempted++
			change, err := world.PlacePlan(x, y, plan, clamped)
			if err == nil {
				result.Changed++
				history.RecordChange(change)
				continue
			}
			if pe, ok := err.(*grid.PlanError); ok && pe.Kind == grid.ErrKindNotEnoughWood {
				result.NotEnoughWood = true
				if stopOnNotEnoughWood {
					goto done
				}
			}
		}
	}

done:
	if result.Attempted == 0 {
		history.CancelCommand()
		return result
	}
	result.Committed = history.CommitCommand(world.Inventory.Wood)
	if result.Committed {
		world.CancelAllJobsAndClearReservations()
	}
	return result
}
