package worldgen

import (
	"outpost/internal/config"
	"outpost/internal/rng"
	"outpost/internal/threading/core"
)

const snowLine = 0.62

func chunkJobs(height, chunkSize int) []core.ChunkJob {
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

// Generate builds a full Heightfield for a width x height world from
// worldSeed: a heightfield (base FBM blended with a ridged layer for
// mountain ridgelines, both sampled at unwarped cell coordinates; no
// domain warping is applied), temperature and moisture fields, D8 flow
// accumulation, carved rivers, and per-cell biome/splat classification.
//
// If pool is non-nil, the heightfield and biome passes fan out across it
// in disjoint row-range chunks; flow accumulation and river carving are
// inherently sequential (each depends on a global height ordering) and
// always run on the calling goroutine.
func Generate(cfg *config.GenerationConfig, worldSeed uint64, width, height int, pool *core.WorkerPool) *Heightfield {
	hf := newHeightfield(width, height)

	heightNoise := rng.NewPerlin(rng.Make(worldSeed, 0, 0, "height"))
	ridgeNoise := rng.NewPerlin(rng.Make(worldSeed, 0, 0, "ridge"))
	tempNoise := rng.NewPerlin(rng.Make(worldSeed, 0, 0, "temperature"))
	moistureNoise := rng.NewPerlin(rng.Make(worldSeed, 0, 0, "moisture"))

	heightScale := nonZero(cfg.HeightScale, 64)
	tempScale := nonZero(cfg.TemperatureScale, 96)
	moistureScale := nonZero(cfg.MoistureScale, 80)
	octaves := cfg.Octaves
	if octaves <= 0 {
		octaves = 5
	}
	lacunarity := nonZero(cfg.Lacunarity, 2.0)
	gain := nonZero(cfg.Gain, 0.5)

	fillRows := func(j core.ChunkJob) {
		for y := j.StartRow; y < j.EndRow; y++ {
			for x := 0; x < width; x++ {
				i := hf.index(x, y)
				fx, fy := float64(x)/heightScale, float64(y)/heightScale
				base := heightNoise.FBM(fx, fy, octaves, lacunarity, gain)
				ridge := ridgeNoise.RidgedFBM(fx*0.5, fy*0.5, octaves, lacunarity, gain)
				hf.Elevation[i] = 0.65*base + 0.45*ridge

				hf.Temperature[i] = clamp01(tempNoise.FBM(float64(x)/tempScale, float64(y)/tempScale, 4, 2.0, 0.5)*0.5 + 0.5)
				hf.Moisture[i] = clamp01(moistureNoise.FBM(float64(x)/moistureScale, float64(y)/moistureScale, 4, 2.0, 0.5)*0.5 + 0.5)
			}
		}
	}

	jobs := chunkJobs(height, cfg.ChunkSize)
	if pool != nil && len(jobs) > 1 {
		pool.ParallelFor(0, len(jobs), func(k int) { fillRows(jobs[k]) })
	} else {
		for _, j := range jobs {
			fillRows(j)
		}
	}

	hf.Flow = computeFlowAccumulation(hf.Elevation, width, height)
	threshold := cfg.RiverFlowThreshold
	if threshold <= 0 {
		threshold = 40
	}
	hf.River = carveRivers(hf.Elevation, hf.Flow, width, height, threshold)

	thresholds := DefaultBiomeThresholds()
	classifyRows := func(j core.ChunkJob) {
		for y := j.StartRow; y < j.EndRow; y++ {
			for x := 0; x < width; x++ {
				i := hf.index(x, y)
				var b Biome
				if hf.Elevation[i] < thresholds.SeaLevel {
					b = BiomeOcean
				} else {
					b = classifyBiome(hf.Temperature[i], hf.Moisture[i], thresholds)
				}
				hf.Biome[i] = b

				splat := splatForBiome(b, hf.Elevation[i])
				splat = applyMountainRock(splat, hf.Elevation[i], snowLine)
				if hf.River[i] {
					splat.Sand += 0.3
					splat = normalizeSplat(splat)
				}
				hf.Splat[i] = splat
			}
		}
	}

	if pool != nil && len(jobs) > 1 {
		pool.ParallelFor(0, len(jobs), func(k int) { classifyRows(jobs[k]) })
	} else {
		for _, j := range jobs {
			classifyRows(j)
		}
	}

	return hf
}

func nonZero(v, fallback float64) float64 {
	if v <= 0 {
		return fallback
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
