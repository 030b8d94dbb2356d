package sim

import (
	"log"

	"outpost/internal/agent"
	"outpost/internal/config"
	"outpost/internal/grid"
	"outpost/internal/nav"
	"outpost/internal/plan"
	"outpost/internal/threading/core"
	"outpost/internal/worldgen"
)

// Simulation owns every core subsystem for one world: the tile grid, the
// navigator abstraction over it, the plan history, the colonist arena,
// and the farm growth pass. One Simulation is driven by one Loop; all
// mutation happens inside Update on the tick thread.
type Simulation struct {
	Cfg  *config.Config
	Seed uint64

	World     *grid.World
	Terrain   *worldgen.Heightfield
	Navigator *nav.Navigator
	History   *plan.History
	Colonists *agent.Arena
	Growth    *agent.Growth
	Ctx       *Context

	pool *core.WorkerPool
}

// New generates a world from seed and wires every subsystem around it.
// Terrain blocked by the generator (ocean, high rock) is seeded as built
// walls so the navigator treats it as obstacles from the first query.
// economics may be nil to use the built-in tile table.
func New(cfg *config.Config, seed uint64, economics *grid.Economics, logger *log.Logger) *Simulation {
	if cfg == nil {
		cfg = config.Default()
	}
	pool := core.CreateDefaultWorkerPool()

	width, height := cfg.World.Width, cfg.World.Height
	terrain := worldgen.Generate(&cfg.Generation, seed, width, height, pool)

	world := grid.NewWorld(width, height, economics)
	world.Inventory.Wood = cfg.World.StartWood
	world.Inventory.Food = float64(cfg.World.StartFood)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if terrain.ImpassableAt(x, y) {
				world.Cell(x, y).Built = grid.TileWall
			}
		}
	}

	navigator := nav.NewNavigator(world,
		cfg.Navigation.ClusterSize,
		cfg.Navigation.EntranceSplitThreshold,
		cfg.Navigation.AllowDiagonal,
		cfg.Navigation.SmoothPaths,
		cfg.Navigation.StoreIntraPaths)
	navigator.RebuildAll()

	s := &Simulation{
		Cfg:       cfg,
		Seed:      seed,
		World:     world,
		Terrain:   terrain,
		Navigator: navigator,
		History:   plan.NewHistory(),
		Colonists: agent.NewArena(),
		Growth: agent.NewGrowth(world,
			cfg.Agents.GrowthRate,
			cfg.Agents.GrowthMatureAt,
			cfg.Agents.FoodPerHarvest),
		Ctx:  NewContext(logger),
		pool: pool,
	}
	s.spawnStartingColonists(cfg.Agents.StartColonists)
	return s
}

// NewFromWorld wires the subsystems around an already-built world and
// colonist arena, the load path for saves. Terrain is nil: heightfield
// layers are derived data and are not persisted, only their built-wall
// imprint on the grid is.
func NewFromWorld(cfg *config.Config, seed uint64, world *grid.World, colonists *agent.Arena, logger *log.Logger) *Simulation {
	if cfg == nil {
		cfg = config.Default()
	}
	if colonists == nil {
		colonists = agent.NewArena()
	}
	navigator := nav.NewNavigator(world,
		cfg.Navigation.ClusterSize,
		cfg.Navigation.EntranceSplitThreshold,
		cfg.Navigation.AllowDiagonal,
		cfg.Navigation.SmoothPaths,
		cfg.Navigation.StoreIntraPaths)
	navigator.RebuildAll()

	return &Simulation{
		Cfg:       cfg,
		Seed:      seed,
		World:     world,
		Navigator: navigator,
		History:   plan.NewHistory(),
		Colonists: colonists,
		Growth: agent.NewGrowth(world,
			cfg.Agents.GrowthRate,
			cfg.Agents.GrowthMatureAt,
			cfg.Agents.FoodPerHarvest),
		Ctx:  NewContext(logger),
		pool: core.CreateDefaultWorkerPool(),
	}
}

// spawnStartingColonists places n colonists on the first passable cells
// scanned outward row by row from the world center, so identical seeds
// always produce identical starting positions.
func (s *Simulation) spawnStartingColonists(n int) {
	if n <= 0 {
		return
	}
	cx, cy := s.World.Width()/2, s.World.Height()/2
	for radius := 0; radius < s.World.Width()+s.World.Height() && s.Colonists.Len() < n; radius++ {
		for y := cy - radius; y <= cy+radius && s.Colonists.Len() < n; y++ {
			for x := cx - radius; x <= cx+radius && s.Colonists.Len() < n; x++ {
				if !onRing(x, y, cx, cy, radius) {
					continue
				}
				if s.World.Passable(x, y) {
					s.Colonists.Spawn(float64(x), float64(y))
				}
			}
		}
	}
}

func onRing(x, y, cx, cy, radius int) bool {
	dx, dy := x-cx, y-cy
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx == radius || dy == radius || radius == 0
}

// Update advances the simulation by one fixed step. Subsystem order is
// fixed: brush effects have already been applied by the caller between
// ticks, then colonists step in ascending AgentID order (job acquisition,
// movement, and work commits; the navigator is invalidated from inside
// work completion), then the growth pass runs, then status lines age.
func (s *Simulation) Update(dt float64) {
	stepCfg := agent.StepConfig{
		MoveSpeed: s.Cfg.Agents.MoveSpeed,
		WorkRate:  s.Cfg.Plan.WorkRatePerSecond,
	}
	s.Colonists.ForEach(func(c *agent.Colonist) {
		switch agent.Step(c, s.World, s.Navigator, stepCfg, dt) {
		case agent.EventUnreachable:
			s.Ctx.PushStatus("Unreachable")
		case agent.EventCompleted:
			s.Ctx.Logf("sim: colonist %d completed build at (%d,%d) area", c.ID, int(c.X), int(c.Y))
		}
	})

	s.Growth.Tick(s.World, s.pool, s.Cfg.Generation.ChunkSize, dt)
	s.Ctx.TickStatus(dt)
}

// ApplyBrushRect stamps a plan rectangle as one undoable command,
// surfacing a status line when the sweep ran out of wood.
func (s *Simulation) ApplyBrushRect(x0, y0, x1, y1 int, tile grid.TileType, priority int) plan.RectResult {
	result := plan.ApplyPlanRect(s.World, s.History, x0, y0, x1, y1, tile, priority, true)
	if result.NotEnoughWood {
		s.Ctx.PushStatus("Not enough wood")
	}
	return result
}

// Undo rolls back the most recent brush command.
func (s *Simulation) Undo() bool { return s.History.Undo(s.World) }

// Redo re-applies the most recently undone brush command.
func (s *Simulation) Redo() bool { return s.History.Redo(s.World) }

// NavQuery resolves a path for an external caller (HUD probes, the CLI).
// The returned slice is the caller's to keep; the navigator retains
// nothing.
func (s *Simulation) NavQuery(start, goal nav.Coord) ([]nav.Coord, bool) {
	path, ok := s.Navigator.FindPath(start, goal)
	if !ok {
		return nil, false
	}
	out := make([]nav.Coord, len(path))
	copy(out, path)
	return out, true
}

// Shutdown stops the worker pool. The Simulation must not be updated
// afterward.
func (s *Simulation) Shutdown() {
	if s.pool != nil {
		s.pool.Stop()
		s.pool = nil
	}
}
