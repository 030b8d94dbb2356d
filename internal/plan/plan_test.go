package plan

import (
	"os"
	"path/filepath"
	"testing"

	"outpost/internal/grid"
	"outpost/internal/nav"
)

func testEconomics(t *testing.T) *grid.Economics {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tiles.yaml")
	data := []byte("tiles:\n  wall:\n    build_time_seconds: 2.0\n    wood_cost: 3\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write tiles.yaml: %v", err)
	}
	econ, err := grid.LoadEconomics(path)
	if err != nil {
		t.Fatalf("LoadEconomics: %v", err)
	}
	return econ
}

// TestBrushPlanWallThenUndoRestoresWoodAndPlan exercises scenario 4: place
// a priority-1 Wall plan at (5,5) against an inventory of 10 wood and a
// wall cost of 3, then undo, expecting an exact restore of both the tile
// state and the wood balance.
func TestBrushPlanWallThenUndoRestoresWoodAndPlan(t *testing.T) {
	world := grid.NewWorld(16, 16, testEconomics(t))
	world.Inventory.Wood = 10
	history := NewHistory()

	result := ApplyPlanRect(world, history, 5, 5, 5, 5, grid.TileWall, 1, true)
	if !result.Committed || result.Changed != 1 {
		t.Fatalf("expected one committed change, got %+v", result)
	}

	cell := world.Cell(5, 5)
	if cell.Planned != grid.TileWall {
		t.Fatalf("Planned = %v, want TileWall", cell.Planned)
	}
	if cell.PlanPriority != 1 {
		t.Fatalf("PlanPriority = %d, want 1", cell.PlanPriority)
	}
	if cell.WorkRemaining != world.Economics().BuildTime(grid.TileWall) {
		t.Fatalf("WorkRemaining = %v, want %v", cell.WorkRemaining, world.Economics().BuildTime(grid.TileWall))
	}
	if world.Inventory.Wood != 7 {
		t.Fatalf("Wood = %d, want 7", world.Inventory.Wood)
	}

	if !history.Undo(world) {
		t.Fatal("Undo reported nothing to undo")
	}
	cell = world.Cell(5, 5)
	if cell.Planned != grid.TileEmpty {
		t.Fatalf("after undo, Planned = %v, want TileEmpty", cell.Planned)
	}
	if world.Inventory.Wood != 10 {
		t.Fatalf("after undo, Wood = %d, want 10", world.Inventory.Wood)
	}
}

// TestUndoRedoRoundTrip checks redo reverses an undo exactly, matching
// undo(commit(C)) == state_before(C) and redo(undo(commit(C))) == commit(C).
func TestUndoRedoRoundTrip(t *testing.T) {
	world := grid.NewWorld(8, 8, testEconomics(t))
	world.Inventory.Wood = 10
	history := NewHistory()
	ApplyPlanRect(world, history, 2, 2, 2, 2, grid.TileWall, 0, true)

	woodAfterCommit := world.Inventory.Wood
	plannedAfterCommit := world.Cell(2, 2).Planned

	history.Undo(world)
	if world.Inventory.Wood != 10 {
		t.Fatalf("after undo, Wood = %d, want 10", world.Inventory.Wood)
	}

	if !history.Redo(world) {
		t.Fatal("Redo reported nothing to redo")
	}
	if world.Inventory.Wood != woodAfterCommit {
		t.Fatalf("after redo, Wood = %d, want %d", world.Inventory.Wood, woodAfterCommit)
	}
	if world.Cell(2, 2).Planned != plannedAfterCommit {
		t.Fatalf("after redo, Planned = %v, want %v", world.Cell(2, 2).Planned, plannedAfterCommit)
	}
}

// TestCommitClearsRedoStack ensures a fresh committed command discards
// any pending redo history, the usual editor-undo rule.
func TestCommitClearsRedoStack(t *testing.T) {
	world := grid.NewWorld(8, 8, testEconomics(t))
	world.Inventory.Wood = 10
	history := NewHistory()
	ApplyPlanRect(world, history, 1, 1, 1, 1, grid.TileWall, 0, true)
	history.Undo(world)

	ApplyPlanRect(world, history, 3, 3, 3, 3, grid.TileWall, 0, true)
	if history.Redo(world) {
		t.Fatal("Redo should report false after a new command discards the redo stack")
	}
}

// TestCancelCommandDiscardsEmptyFrame checks that a rectangle apply over
// cells that are already the requested plan records nothing and cancels
// rather than committing an empty command.
func TestCancelCommandDiscardsEmptyFrame(t *testing.T) {
	world := grid.NewWorld(8, 8, testEconomics(t))
	world.Inventory.Wood = 10
	history := NewHistory()

	// Placing Empty over already-Empty cells is a no-op everywhere.
	result := ApplyPlanRect(world, history, 0, 0, 2, 2, grid.TileEmpty, 0, true)
	if result.Committed {
		t.Fatal("expected an empty-change rectangle not to commit")
	}
	if history.Undo(world) {
		t.Fatal("nothing should be on the undo stack")
	}
}

func newCorridorNavigator(w *grid.World) *nav.Navigator {
	navigator := nav.NewNavigator(w, 8, 5, true, false, true)
	navigator.RebuildAll()
	return navigator
}

// TestSelectJobPrefersHigherPriority checks selection order point 1:
// higher plan_priority wins regardless of distance.
func TestSelectJobPrefersHigherPriority(t *testing.T) {
	world := grid.NewWorld(20, 20, testEconomics(t))
	world.Inventory.Wood = 100
	navigator := newCorridorNavigator(world)

	if _, err := world.PlacePlan(2, 2, grid.TileWall, 0); err != nil {
		t.Fatalf("near low-priority plan: %v", err)
	}
	if _, err := world.PlacePlan(18, 18, grid.TileWall, 3); err != nil {
		t.Fatalf("far high-priority plan: %v", err)
	}

	job, ok := SelectJob(world, navigator, nav.Coord{X: 0, Y: 0})
	if !ok {
		t.Fatal("expected a job")
	}
	if job.X != 18 || job.Y != 18 {
		t.Fatalf("expected the higher-priority far job, got (%d,%d)", job.X, job.Y)
	}
}

// TestSelectJobPrefersNearerAtEqualPriority checks selection order point
// 2: among equal-priority plans, the nearer one by octile lower bound
// wins.
func TestSelectJobPrefersNearerAtEqualPriority(t *testing.T) {
	world := grid.NewWorld(20, 20, testEconomics(t))
	world.Inventory.Wood = 100
	navigator := newCorridorNavigator(world)

	world.PlacePlan(15, 15, grid.TileWall, 1)
	world.PlacePlan(3, 3, grid.TileWall, 1)

	job, ok := SelectJob(world, navigator, nav.Coord{X: 0, Y: 0})
	if !ok {
		t.Fatal("expected a job")
	}
	if job.X != 3 || job.Y != 3 {
		t.Fatalf("expected the nearer equal-priority job, got (%d,%d)", job.X, job.Y)
	}
}

// TestTwoColonistsRaceForOneReservation exercises scenario 5: two
// colonists both select the single unreserved plan, but within one tick
// only the first reservation call wins.
func TestTwoColonistsRaceForOneReservation(t *testing.T) {
	world := grid.NewWorld(20, 20, testEconomics(t))
	world.Inventory.Wood = 100
	navigator := newCorridorNavigator(world)
	world.PlacePlan(5, 5, grid.TileWall, 1)

	first := grid.NewAgentID(0, 0)
	second := grid.NewAgentID(1, 0)

	jobA, okA := SelectJob(world, navigator, nav.Coord{X: 0, Y: 0})
	jobB, okB := SelectJob(world, navigator, nav.Coord{X: 10, Y: 10})
	if !okA || !okB || jobA != jobB {
		t.Fatalf("expected both colonists to target the same job, got %+v (ok=%v) and %+v (ok=%v)", jobA, okA, jobB, okB)
	}

	wonFirst := ReserveJob(world, jobA.X, jobA.Y, first)
	wonSecond := ReserveJob(world, jobB.X, jobB.Y, second)

	if !wonFirst {
		t.Fatal("expected the first reservation attempt to win")
	}
	if wonSecond {
		t.Fatal("expected the second reservation attempt to lose the race")
	}
	if world.Cell(5, 5).ReservedBy != first {
		t.Fatalf("ReservedBy = %v, want %v", world.Cell(5, 5).ReservedBy, first)
	}
}

// TestTickWorkCompletesBuildAndRebuildsCluster checks that finishing a
// Wall plan flips passability and triggers a navigator rebuild, closing
// the one gap in a wall row that the still-planned wall left open.
func TestTickWorkCompletesBuildAndRebuildsCluster(t *testing.T) {
	world := grid.NewWorld(16, 16, testEconomics(t))
	world.Inventory.Wood = 100
	navigator := newCorridorNavigator(world)

	for x := 0; x < 16; x++ {
		if x != 8 {
			world.PlacePlan(x, 5, grid.TileWall, 0)
			world.CompleteBuild(x, 5)
		}
	}
	navigator.RebuildAll()

	if _, err := world.PlacePlan(8, 5, grid.TileWall, 2); err != nil {
		t.Fatalf("plan gap wall: %v", err)
	}
	agent := grid.NewAgentID(0, 0)
	if !ReserveJob(world, 8, 5, agent) {
		t.Fatal("expected to reserve the gap wall")
	}

	cell := world.Cell(8, 5)
	for cell.WorkRemaining > 0 {
		TickWork(world, navigator, 8, 5, 1.0, 0.5)
	}

	if cell.Built != grid.TileWall {
		t.Fatalf("Built = %v, want TileWall", cell.Built)
	}
	if cell.ReservedBy != grid.NoAgent {
		t.Fatalf("ReservedBy = %v, want NoAgent", cell.ReservedBy)
	}
	if cell.Planned != cell.Built {
		t.Fatalf("Planned (%v) should equal Built (%v) after completion", cell.Planned, cell.Built)
	}

	if _, ok := navigator.FindPath(nav.Coord{X: 0, Y: 0}, nav.Coord{X: 15, Y: 10}); ok {
		t.Fatal("expected the rebuilt wall row to block the crossing path")
	}
}
