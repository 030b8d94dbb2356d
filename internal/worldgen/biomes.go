package worldgen

// Biome classifies a cell by its temperature and moisture once the
// heightfield and hydrology passes have run.
type Biome uint8

const (
	BiomeTundra Biome = iota
	BiomeShrubland
	BiomeBorealForest
	BiomeGrassland
	BiomeTemperateForest
	BiomeDesert
	BiomeTemperateRainforest
	BiomeSavanna
	BiomeTropicalRainforest
	BiomeOcean
)

func (b Biome) String() string {
	switch b {
	case BiomeTundra:
		return "Tundra"
	case BiomeShrubland:
		return "Shrubland"
	case BiomeBorealForest:
		return "BorealForest"
	case BiomeGrassland:
		return "Grassland"
	case BiomeTemperateForest:
		return "TemperateForest"
	case BiomeDesert:
		return "Desert"
	case BiomeTemperateRainforest:
		return "TemperateRainforest"
	case BiomeSavanna:
		return "Savanna"
	case BiomeTropicalRainforest:
		return "TropicalRainforest"
	case BiomeOcean:
		return "Ocean"
	default:
		return "Unknown"
	}
}

// BiomeThresholds are the temperature/moisture cut points used by
// classifyBiome.
type BiomeThresholds struct {
	Cold, Cool, Warm float64
	Wet1, Wet2       float64
	SeaLevel         float64
}

// DefaultBiomeThresholds returns the built-in cut points.
func DefaultBiomeThresholds() BiomeThresholds {
	return BiomeThresholds{
		Cold: 0.25, Cool: 0.5, Warm: 0.75,
		Wet1: 0.33, Wet2: 0.66,
		SeaLevel: -0.1,
	}
}

// classifyBiome maps a (temperature, moisture) pair to a Biome over a
// four-band temperature grid; the sea-level override is applied by the
// caller before this is reached.
func classifyBiome(t, m float64, b BiomeThresholds) Biome {
	switch {
	case t < b.Cold:
		switch {
		case m < b.Wet1:
			return BiomeTundra
		case m < b.Wet2:
			return BiomeShrubland
		default:
			return BiomeBorealForest
		}
	case t < b.Cool:
		switch {
		case m < b.Wet1:
			return BiomeShrubland
		case m < b.Wet2:
			return BiomeGrassland
		default:
			return BiomeTemperateForest
		}
	case t < b.Warm:
		switch {
		case m < b.Wet1:
			return BiomeDesert
		case m < b.Wet2:
			return BiomeGrassland
		default:
			return BiomeTemperateRainforest
		}
	default:
		switch {
		case m < b.Wet1:
			return BiomeDesert
		case m < b.Wet2:
			return BiomeSavanna
		default:
			return BiomeTropicalRainforest
		}
	}
}

// splatForBiome derives the four-way surface mask for a classified cell.
// Weights always sum to 1; river cells are nudged toward sand by the
// caller after this returns.
func splatForBiome(b Biome, elevation float64) Splat {
	switch b {
	case BiomeOcean:
		return Splat{Sand: 1}
	case BiomeTundra:
		return Splat{Snow: 0.7, Rock: 0.3}
	case BiomeBorealForest, BiomeTemperateForest, BiomeTemperateRainforest, BiomeTropicalRainforest:
		return Splat{Grass: 0.85, Rock: 0.15}
	case BiomeGrassland, BiomeSavanna, BiomeShrubland:
		return Splat{Grass: 0.95, Sand: 0.05}
	case BiomeDesert:
		return Splat{Sand: 0.9, Rock: 0.1}
	default:
		return Splat{Grass: 1}
	}
}

// applyMountainRock moves grass and sand weight onto snow as elevation
// climbs past the snow line, renormalizing so the four weights still sum
// to 1. The rock weight is left as splatForBiome set it.
func applyMountainRock(s Splat, elevation, snowLine float64) Splat {
	if elevation < snowLine {
		return s
	}
	t := (elevation - snowLine) / (1 - snowLine)
	if t > 1 {
		t = 1
	}
	s.Snow += t * (s.Grass + s.Sand)
	s.Rock += t * 0
	s.Grass *= 1 - t
	s.Sand *= 1 - t
	return normalizeSplat(s)
}

func normalizeSplat(s Splat) Splat {
	sum := s.Grass + s.Rock + s.Sand + s.Snow
	if sum <= 0 {
		return Splat{Grass: 1}
	}
	inv := 1 / sum
	return Splat{
		Grass: s.Grass * inv,
		Rock:  s.Rock * inv,
		Sand:  s.Sand * inv,
		Snow:  s.Snow * inv,
	}
}
