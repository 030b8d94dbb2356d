package rng

import "math"

// Perlin is a classic Perlin-noise permutation table seeded with an Rng, so
// the same (world seed, coordinate, namespace) tuple that built the Rng
// also determines the noise field.
type Perlin struct {
	perm [512]int
}

// NewPerlin builds a permutation table by Fisher-Yates shuffling 0..255
// with the given Rng.
func NewPerlin(r *Rng) *Perlin {
	var p Perlin
	var perm [256]int
	for i := range perm {
		perm[i] = i
	}
	for i := 255; i > 0; i-- {
		j := r.RangeI32(0, int32(i))
		perm[i], perm[j] = perm[j], perm[i]
	}
	for i := range p.perm {
		p.perm[i] = perm[i&255]
	}
	return &p
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func grad(hash int, x, y, z float64) float64 {
	h := hash & 15
	var u float64
	if h < 8 {
		u = x
	} else {
		u = y
	}
	var v float64
	switch {
	case h < 4:
		v = y
	case h == 12 || h == 14:
		v = x
	default:
		v = z
	}
	var res float64
	if h&1 != 0 {
		res = -u
	} else {
		res = u
	}
	if h&2 != 0 {
		res -= v
	} else {
		res += v
	}
	return res
}

// Noise2D returns a 2D Perlin sample in [-1, 1]. Identical seed and
// coordinates always yield the identical value.
func (p *Perlin) Noise2D(x, y float64) float64 {
	return p.Noise3D(x, y, 0)
}

// Noise3D returns a 3D Perlin sample in [-1, 1].
func (p *Perlin) Noise3D(x, y, z float64) float64 {
	X := int(math.Floor(x)) & 255
	Y := int(math.Floor(y)) & 255
	Z := int(math.Floor(z)) & 255
	x -= math.Floor(x)
	y -= math.Floor(y)
	z -= math.Floor(z)
	u, v, w := fade(x), fade(y), fade(z)

	perm := p.perm[:]
	AA, AB := perm[perm[X]+Y]+Z, perm[perm[X]+Y+1]+Z
	BA, BB := perm[perm[X+1]+Y]+Z, perm[perm[X+1]+Y+1]+Z

	return lerp(
		lerp(
			lerp(grad(perm[AA], x, y, z), grad(perm[BA], x-1, y, z), u),
			lerp(grad(perm[AB], x, y-1, z), grad(perm[BB], x-1, y-1, z), u),
			v,
		),
		lerp(
			lerp(grad(perm[AA+1], x, y, z-1), grad(perm[BA+1], x-1, y, z-1), u),
			lerp(grad(perm[AB+1], x, y-1, z-1), grad(perm[BB+1], x-1, y-1, z-1), u),
			v,
		),
		w,
	)
}

// FBM sums octaves of 2D noise at increasing frequency and decreasing
// amplitude (fractal Brownian motion), normalized so the result stays in
// roughly [-1, 1] regardless of octave count.
func (p *Perlin) FBM(x, y float64, octaves int, lacunarity, gain float64) float64 {
	var sum, amp, freq, norm float64
	amp, freq = 0.5, 1.0
	for i := 0; i < octaves; i++ {
		sum += amp * p.Noise2D(x*freq, y*freq)
		norm += amp
		freq *= lacunarity
		amp *= gain
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// RidgedFBM produces ridged multifractal noise: each octave is folded with
// 1-|n| before being squared, which emphasizes sharp ridgelines — used for
// mountain-like terrain features layered on top of the base heightfield.
func (p *Perlin) RidgedFBM(x, y float64, octaves int, lacunarity, gain float64) float64 {
	var sum, amp, freq, norm float64
	amp, freq = 0.5, 1.0
	for i := 0; i < octaves; i++ {
		n := 1 - math.Abs(p.Noise2D(x*freq, y*freq))
		sum += amp * (n * n)
		norm += amp
		freq *= lacunarity
		amp *= gain
	}
	if norm == 0 {
		return 0
	}
	return (sum / norm)
}
