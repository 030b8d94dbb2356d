package agent

import (
	"outpost/internal/grid"
	"outpost/internal/threading/core"
)

// Growth is the per-tile farm growth pass: every built Farm accumulates
// progress each tick, and mature farms are harvested into the colony's
// food stock. The accumulation pass writes disjoint row ranges and may
// fan out across the worker pool; the harvest pass mutates the shared
// Inventory and always runs sequentially on the tick thread.
type Growth struct {
	width, height int
	progress      []float64

	Rate           float64 // progress per second on a built Farm
	MatureAt       float64 // progress at which a farm is harvestable
	FoodPerHarvest float64
}

// NewGrowth returns a growth tracker sized to the world.
func NewGrowth(world *grid.World, rate, matureAt, foodPerHarvest float64) *Growth {
	return &Growth{
		width:          world.Width(),
		height:         world.Height(),
		progress:       make([]float64, world.Width()*world.Height()),
		Rate:           rate,
		MatureAt:       matureAt,
		FoodPerHarvest: foodPerHarvest,
	}
}

// Progress returns the growth scalar at (x, y), for snapshots and tests.
func (g *Growth) Progress(x, y int) float64 {
	return g.progress[y*g.width+x]
}

// Tick advances every farm's growth by dt seconds, then harvests mature
// farms into world.Inventory.Food. A non-nil pool shards the growth pass
// by row chunks; chunkSize <= 0 keeps it sequential.
func (g *Growth) Tick(world *grid.World, pool *core.WorkerPool, chunkSize int, dt float64) int {
	grow := func(j core.ChunkJob) {
		for y := j.StartRow; y < j.EndRow; y++ {
			for x := 0; x < g.width; x++ {
				i := y*g.width + x
				if world.Cell(x, y).Built == grid.TileFarm {
					g.progress[i] += g.Rate * dt
				} else if g.progress[i] != 0 {
					g.progress[i] = 0
				}
			}
		}
	}

	jobs := growthChunks(g.height, chunkSize)
	if pool != nil && len(jobs) > 1 {
		pool.ParallelFor(0, len(jobs), func(k int) { grow(jobs[k]) })
	} else {
		for _, j := range jobs {
			grow(j)
		}
	}

	harvested := 0
	for i := range g.progress {
		if g.progress[i] >= g.MatureAt {
			g.progress[i] = 0
			world.Inventory.Food += g.FoodPerHarvest
			harvested++
		}
	}
	return harvested
}

func growthChunks(height, chunkSize int) []core.ChunkJob {
	if chunkSize <= 0 {
		chunkSize = height
	}
	var jobs []core.ChunkJob
	for start := 0; start < height; start += chunkSize {
		end := start + chunkSize
		if end > height {
			end = height
		}
		jobs = append(jobs, core.ChunkJob{StartRow: start, EndRow: end})
	}
	return jobs
}
