package agent

import (
	"testing"

	"outpost/internal/grid"
	"outpost/internal/nav"
)

func testWorldAndNav(t *testing.T, w, h int) (*grid.World, *nav.Navigator) {
	t.Helper()
	world := grid.NewWorld(w, h, nil)
	world.Inventory.Wood = 100
	navigator := nav.NewNavigator(world, 8, 5, true, false, true)
	navigator.RebuildAll()
	return world, navigator
}

func TestArenaSpawnRemoveGeneration(t *testing.T) {
	arena := NewArena()
	a := arena.Spawn(1, 1)
	b := arena.Spawn(2, 2)
	if a.ID == b.ID {
		t.Fatalf("two live colonists share id %v", a.ID)
	}
	if arena.Len() != 2 {
		t.Fatalf("Len = %d, want 2", arena.Len())
	}

	stale := a.ID
	if !arena.Remove(stale) {
		t.Fatal("Remove reported a live colonist as missing")
	}
	if _, ok := arena.Get(stale); ok {
		t.Fatal("stale id still resolves after Remove")
	}

	// The slot is reused under a new generation; the old id must not
	// resolve to the new occupant.
	c := arena.Spawn(3, 3)
	if c.ID.Index() != stale.Index() {
		t.Fatalf("expected slot reuse, got index %d want %d", c.ID.Index(), stale.Index())
	}
	if c.ID.Generation() == stale.Generation() {
		t.Fatal("reused slot kept its old generation")
	}
	if _, ok := arena.Get(stale); ok {
		t.Fatal("stale id resolves to the slot's new occupant")
	}
	if got, ok := arena.Get(c.ID); !ok || got != c {
		t.Fatal("fresh id does not resolve to its colonist")
	}
}

func TestArenaRestoreReproducesIDs(t *testing.T) {
	arena := NewArena()
	id := grid.NewAgentID(3, 7)
	arena.Restore(Colonist{ID: id, X: 5, Y: 6, State: StateWalking})
	got, ok := arena.Get(id)
	if !ok {
		t.Fatalf("restored id %v does not resolve", id)
	}
	if got.X != 5 || got.Y != 6 || got.State != StateWalking {
		t.Fatalf("restored colonist mismatch: %+v", got)
	}
}

// TestTwoColonistsOneJob exercises the reservation race: two idle
// colonists, one unreserved Wall plan. After stepping both once in
// ascending id order, exactly one holds the reservation and the other is
// still idle.
func TestTwoColonistsOneJob(t *testing.T) {
	world, navigator := testWorldAndNav(t, 16, 16)
	if _, err := world.PlacePlan(5, 5, grid.TileWall, 1); err != nil {
		t.Fatalf("PlacePlan: %v", err)
	}

	arena := NewArena()
	arena.Spawn(0, 0)
	arena.Spawn(10, 10)

	cfg := StepConfig{MoveSpeed: 3, WorkRate: 1}
	var reserved []grid.AgentID
	arena.ForEach(func(c *Colonist) {
		if Step(c, world, navigator, cfg, 1.0/60) == EventReserved {
			reserved = append(reserved, c.ID)
		}
	})

	if len(reserved) != 1 {
		t.Fatalf("want exactly one reservation, got %d", len(reserved))
	}
	cell := world.Cell(5, 5)
	if cell.ReservedBy != reserved[0] {
		t.Fatalf("cell reserved by %v, want %v", cell.ReservedBy, reserved[0])
	}
	arena.ForEach(func(c *Colonist) {
		if c.ID == reserved[0] {
			if c.State != StateWalking {
				t.Fatalf("winner state = %v, want Walking", c.State)
			}
		} else if c.State != StateIdle {
			t.Fatalf("loser state = %v, want Idle", c.State)
		}
	})
}

// TestColonistBuildsWallEndToEnd drives one colonist through the full
// claim -> walk -> work -> complete cycle and checks the wall lands in
// the grid and the navigator sees it as an obstacle.
func TestColonistBuildsWallEndToEnd(t *testing.T) {
	world, navigator := testWorldAndNav(t, 16, 16)
	if _, err := world.PlacePlan(4, 0, grid.TileWall, 1); err != nil {
		t.Fatalf("PlacePlan: %v", err)
	}

	arena := NewArena()
	c := arena.Spawn(0, 0)
	cfg := StepConfig{MoveSpeed: 8, WorkRate: 4}

	dt := 1.0 / 60
	completed := false
	for i := 0; i < 600 && !completed; i++ {
		if Step(c, world, navigator, cfg, dt) == EventCompleted {
			completed = true
		}
	}
	if !completed {
		t.Fatalf("build never completed; state=%v target=%v", c.State, c.Target)
	}

	cell := world.Cell(4, 0)
	if cell.Built != grid.TileWall {
		t.Fatalf("Built = %v, want TileWall", cell.Built)
	}
	if cell.ReservedBy.Valid() {
		t.Fatalf("reservation not released: %v", cell.ReservedBy)
	}
	if cell.IsPlanned() {
		t.Fatal("completed cell still reads as planned")
	}
	if c.State != StateIdle {
		t.Fatalf("colonist state = %v, want Idle after completion", c.State)
	}
	if world.Passable(4, 0) {
		t.Fatal("built wall is still passable")
	}
}

// TestWalkingColonistDropsLostReservation simulates a brush commit
// clearing reservations mid-walk: the colonist must park idle and
// re-acquire instead of finishing a job it no longer owns.
func TestWalkingColonistDropsLostReservation(t *testing.T) {
	world, navigator := testWorldAndNav(t, 16, 16)
	if _, err := world.PlacePlan(8, 8, grid.TileFloor, 0); err != nil {
		t.Fatalf("PlacePlan: %v", err)
	}

	arena := NewArena()
	c := arena.Spawn(0, 0)
	cfg := StepConfig{MoveSpeed: 2, WorkRate: 1}

	if ev := Step(c, world, navigator, cfg, 1.0/60); ev != EventReserved {
		t.Fatalf("first step event = %v, want EventReserved", ev)
	}
	world.CancelAllJobsAndClearReservations()

	Step(c, world, navigator, cfg, 1.0/60)
	if c.State == StateWorking {
		t.Fatal("colonist kept working a cancelled reservation")
	}
	if c.State == StateWalking && c.Target != nil {
		t.Fatal("colonist kept walking toward a cancelled reservation")
	}
}

func TestGrowthHarvestsMatureFarms(t *testing.T) {
	world := grid.NewWorld(8, 8, nil)
	world.Cell(2, 3).Built = grid.TileFarm
	world.Cell(5, 5).Built = grid.TileFarm

	g := NewGrowth(world, 1.0, 2.0, 3.0)
	for i := 0; i < 3; i++ {
		g.Tick(world, nil, 0, 1.0)
	}

	// After 2 seconds both farms mature and harvest; the third tick
	// restarts them from zero.
	if world.Inventory.Food != 6.0 {
		t.Fatalf("Food = %v, want 6.0 after two harvests", world.Inventory.Food)
	}
	if g.Progress(2, 3) != 1.0 {
		t.Fatalf("post-harvest regrowth = %v, want 1.0", g.Progress(2, 3))
	}
	if g.Progress(0, 0) != 0 {
		t.Fatalf("non-farm cell accumulated growth: %v", g.Progress(0, 0))
	}
}

func TestGrowthResetsWhenFarmRemoved(t *testing.T) {
	world := grid.NewWorld(8, 8, nil)
	world.Cell(1, 1).Built = grid.TileFarm

	g := NewGrowth(world, 1.0, 10.0, 1.0)
	g.Tick(world, nil, 0, 3.0)
	if g.Progress(1, 1) != 3.0 {
		t.Fatalf("Progress = %v, want 3.0", g.Progress(1, 1))
	}

	world.Cell(1, 1).Built = grid.TileEmpty
	g.Tick(world, nil, 0, 1.0)
	if g.Progress(1, 1) != 0 {
		t.Fatalf("Progress = %v, want 0 after the farm was removed", g.Progress(1, 1))
	}
}
