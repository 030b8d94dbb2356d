// Package worldgen builds the deterministic procedural heightfield,
// hydrology, and biome layers that seed a fresh World: terrain height,
// temperature, moisture, flow accumulation, biome ids, and splat masks,
// all derived solely from a world seed through internal/rng.
package worldgen

// Heightfield holds the row-major w*h scalar layers produced by
// Generate. All slices are indexed by y*Width+x.
type Heightfield struct {
	Width, Height int

	Elevation   []float64
	Temperature []float64
	Moisture    []float64
	Flow        []float64
	River       []bool

	Biome []Biome
	Splat []Splat
}

func newHeightfield(w, h int) *Heightfield {
	n := w * h
	return &Heightfield{
		Width:       w,
		Height:      h,
		Elevation:   make([]float64, n),
		Temperature: make([]float64, n),
		Moisture:    make([]float64, n),
		Flow:        make([]float64, n),
		River:       make([]bool, n),
		Biome:       make([]Biome, n),
		Splat:       make([]Splat, n),
	}
}

func (hf *Heightfield) index(x, y int) int {
	return y*hf.Width + x
}

// At returns the index for (x, y), used by callers that want to read
// several layers for the same cell without repeating the multiply.
func (hf *Heightfield) At(x, y int) int {
	return hf.index(x, y)
}

// ImpassableAt reports whether the generated terrain at (x, y) should
// seed the world as blocked: open water, or rock above the snow line.
func (hf *Heightfield) ImpassableAt(x, y int) bool {
	i := hf.index(x, y)
	return hf.Biome[i] == BiomeOcean || hf.Elevation[i] >= snowLine
}

// Splat is the four-way terrain surface weighting for one cell. The
// weights always sum to 1 for a non-river cell; river cells bias toward
// sand at the bank.
type Splat struct {
	Grass, Rock, Sand, Snow float64
}
