package grid

// World is the tile grid plus the shared inventory it debits against. It
// is the authority the plan, nav, and agent packages all read through;
// none of them hold their own copy of tile state.
type World struct {
	width, height int
	cells         []Cell
	Inventory     Inventory
	economics     *Economics
}

// NewWorld allocates a width x height grid of unbuilt, unplanned cells.
func NewWorld(width, height int, economics *Economics) *World {
	if economics == nil {
		economics = DefaultEconomics()
	}
	return &World{
		width:     width,
		height:    height,
		cells:     make([]Cell, width*height),
		economics: economics,
	}
}

// Width returns the grid's column count.
func (w *World) Width() int { return w.width }

// Height returns the grid's row count.
func (w *World) Height() int { return w.height }

// Economics exposes the resolved tile cost table, primarily for the plan
// package's UI-facing cost previews.
func (w *World) Economics() *Economics { return w.economics }

// InBounds reports whether (x, y) names an existing cell.
func (w *World) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < w.width && y < w.height
}

func (w *World) index(x, y int) int {
	return y*w.width + x
}

// Cell returns a pointer to the live cell at (x, y). Callers must check
// InBounds first; Cell panics on an out-of-range coordinate the same way
// slice indexing would.
func (w *World) Cell(x, y int) *Cell {
	return &w.cells[w.index(x, y)]
}

// CellAt is the bounds-checked variant, used by nav and agent code that
// walks coordinates it did not itself validate.
func (w *World) CellAt(x, y int) (*Cell, bool) {
	if !w.InBounds(x, y) {
		return nil, false
	}
	return w.Cell(x, y), true
}

// Passable reports whether a colonist can currently stand on (x, y),
// based on what is built there — an in-progress plan never blocks
// movement until it is committed by World.CompleteBuild.
func (w *World) Passable(x, y int) bool {
	c, ok := w.CellAt(x, y)
	if !ok {
		return false
	}
	return c.Built.Passable()
}

// EntryCost returns the per-cell movement cost multiplier the navigator
// applies to a step landing on (x, y). Floors are paved and cheaper to
// cross than bare ground; an out-of-bounds cell reports an arbitrarily
// high cost since Passable already rejects it before this is consulted.
func (w *World) EntryCost(x, y int) float64 {
	c, ok := w.CellAt(x, y)
	if !ok {
		return 1e9
	}
	if c.Built == TileFloor {
		return 0.8
	}
	return 1.0
}

// PlacePlan sets or clears the plan at (x, y), debiting or refunding wood
// for the difference between the new and previously planned tile cost. It
// fails with a *PlanError when the coordinate is out of bounds, the
// inventory cannot cover the wood delta, or the requested plan already
// matches what is built and no other plan is active (a brush no-op, not a
// user-facing error). Requesting the built type over an active plan, e.g.
// Empty on an unbuilt cell, clears that plan and refunds its cost.
func (w *World) PlacePlan(x, y int, plan TileType, priority uint8) (TileChange, error) {
	if !w.InBounds(x, y) {
		return TileChange{}, newPlanError(ErrKindOutOfBounds, x, y)
	}
	cell := w.Cell(x, y)
	if cell.Built == plan && !cell.IsPlanned() {
		return TileChange{}, newPlanError(ErrKindPlanAlreadyMatchesBuilt, x, y)
	}

	oldPlan := cell.Planned
	delta := w.economics.Cost(plan) - w.economics.Cost(oldPlan)
	if delta > 0 && w.Inventory.Wood < delta {
		return TileChange{}, newPlanError(ErrKindNotEnoughWood, x, y)
	}

	before := cell.Snapshot()
	cell.Planned = plan
	cell.PlanPriority = priority
	cell.WorkRemaining = w.economics.BuildTime(plan)
	cell.ReservedBy = NoAgent
	w.Inventory.Wood -= delta
	after := cell.Snapshot()

	return TileChange{X: x, Y: y, Before: before, After: after}, nil
}

// SetPlanPriority changes the priority of an already-active plan without
// touching its tile type, cost, or work progress. It fails with
// *PlanError(ErrKindPlanAlreadyMatchesBuilt) if the cell has no active
// plan, since there is nothing to reprioritize.
func (w *World) SetPlanPriority(x, y int, priority uint8) (TileChange, error) {
	if !w.InBounds(x, y) {
		return TileChange{}, newPlanError(ErrKindOutOfBounds, x, y)
	}
	cell := w.Cell(x, y)
	if !cell.IsPlanned() {
		return TileChange{}, newPlanError(ErrKindPlanAlreadyMatchesBuilt, x, y)
	}
	before := cell.Snapshot()
	cell.PlanPriority = priority
	after := cell.Snapshot()
	return TileChange{X: x, Y: y, Before: before, After: after}, nil
}

// ApplyChange restores a cell to the state recorded in change, used by
// plan history undo/redo. It refunds or re-debits wood so the inventory
// stays consistent with whichever side of the change (Before or After) is
// applied.
func (w *World) ApplyChange(change TileChange, useBefore bool) {
	if !w.InBounds(change.X, change.Y) {
		return
	}
	cell := w.Cell(change.X, change.Y)
	cur := cell.Snapshot()
	target := change.After
	if useBefore {
		target = change.Before
	}
	delta := w.economics.Cost(target.Planned) - w.economics.Cost(cur.Planned)
	cell.Restore(target)
	w.Inventory.Wood -= delta
}

// CompleteBuild finishes a cell's active plan: Built becomes Planned and
// the reservation is released. Called by the job-ticking pass in the plan
// package once WorkRemaining reaches zero.
func (w *World) CompleteBuild(x, y int) {
	c, ok := w.CellAt(x, y)
	if !ok {
		return
	}
	c.Built = c.Planned
	c.WorkRemaining = 0
	c.ReservedBy = NoAgent
}

// CancelAllJobsAndClearReservations releases every cell's reservation
// without touching work_remaining or the plan itself. It runs after any
// committed plan-history change (new plans may have invalidated an
// in-flight colonist's path); agents must re-acquire their target on the
// next tick.
func (w *World) CancelAllJobsAndClearReservations() {
	for i := range w.cells {
		w.cells[i].ReservedBy = NoAgent
	}
}

// ForEachCell visits every cell in row-major order. fn must not retain the
// *Cell pointer past its call.
func (w *World) ForEachCell(fn func(x, y int, c *Cell)) {
	for y := 0; y < w.height; y++ {
		for x := 0; x < w.width; x++ {
			fn(x, y, w.Cell(x, y))
		}
	}
}
