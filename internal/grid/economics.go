package grid

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// tileCost holds the build-time and wood-cost economics for one non-Empty
// TileType, loaded from assets/tiles.yaml.
type tileCost struct {
	BuildTimeSeconds float64 `yaml:"build_time_seconds"`
	WoodCost         int32   `yaml:"wood_cost"`
}

// tilesFile mirrors the on-disk YAML shape: a flat map keyed by tile name.
type tilesFile struct {
	Tiles map[string]tileCost `yaml:"tiles"`
}

// Economics is the resolved build_time/wood_cost table, indexed by
// TileType for O(1) lookup during plan placement and job ticking.
type Economics struct {
	buildTime [tileTypeCount]float64
	woodCost  [tileTypeCount]int32
}

// BuildTime returns the work_remaining a freshly placed plan of this type
// starts with. Empty is always free and instantaneous.
func (e *Economics) BuildTime(t TileType) float64 {
	if int(t) >= len(e.buildTime) {
		return 0
	}
	return e.buildTime[t]
}

// Cost returns the wood debited when a plan of this type is placed.
func (e *Economics) Cost(t TileType) int32 {
	if int(t) >= len(e.woodCost) {
		return 0
	}
	return e.woodCost[t]
}

// DefaultEconomics returns a built-in tile table, used when no
// assets/tiles.yaml is supplied (headless tests, ad-hoc CLI runs).
func DefaultEconomics() *Economics {
	e := &Economics{}
	e.set(TileFloor, 1.5, 2)
	e.set(TileWall, 3.0, 4)
	e.set(TileFarm, 6.0, 6)
	e.set(TileStockpile, 2.0, 3)
	return e
}

func (e *Economics) set(t TileType, buildTime float64, woodCost int32) {
	e.buildTime[t] = buildTime
	e.woodCost[t] = woodCost
}

// LoadEconomics reads a tiles.yaml data table and resolves it into an
// Economics lookup table. Unknown tile names in the file are rejected
// rather than silently ignored.
func LoadEconomics(path string) (*Economics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("grid: read tile economics %q: %w", path, err)
	}
	var tf tilesFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("grid: parse tile economics %q: %w", path, err)
	}
	e := &Economics{}
	for name, cost := range tf.Tiles {
		t, ok := ParseTileType(name)
		if !ok || t == TileEmpty {
			return nil, fmt.Errorf("grid: tile economics %q: unknown tile name %q", path, name)
		}
		e.set(t, cost.BuildTimeSeconds, cost.WoodCost)
	}
	return e, nil
}
