package nav

import "outpost/internal/mathutil"

// smoothPath greedily shortcuts a cell path using line-of-sight checks:
// from each kept point, it looks as far ahead as possible for another
// point with a clear straight line and jumps directly there, dropping
// everything in between. Only points within bounds are eligible
// endpoints for a shortcut, keeping smoothing scoped to the start
// cluster. The shortcut cost is not recomputed against the stitched
// path's cost; downstream consumers only read the cell sequence.
func smoothPath(g Grid, path []Coord, bounds *Bounds) []Coord {
	if len(path) < 3 {
		return path
	}
	out := []Coord{path[0]}
	i := 0
	for i < len(path)-1 {
		next := i + 1
		for j := len(path) - 1; j > i+1; j-- {
			if !bounds.contains(path[j].X, path[j].Y) {
				continue
			}
			if hasLineOfSight(g, path[i], path[j]) {
				next = j
				break
			}
		}
		out = append(out, path[next])
		i = next
	}
	return out
}

// hasLineOfSight walks a Bresenham line between a and b, requiring every
// sampled cell to be passable and every diagonal step along the way to
// respect the same no-corner-cutting rule local search uses.
func hasLineOfSight(g Grid, a, b Coord) bool {
	x0, y0 := a.X, a.Y
	x1, y1 := b.X, b.Y

	dx := mathutil.IntAbs(x1 - x0)
	dy := -mathutil.IntAbs(y1 - y0)
	sx, sy := 1, 1
	if x0 >= x1 {
		sx = -1
	}
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		if !g.Passable(x, y) {
			return false
		}
		if x == x1 && y == y1 {
			return true
		}
		e2 := 2 * err
		stepX, stepY := false, false
		if e2 >= dy {
			err += dy
			x += sx
			stepX = true
		}
		if e2 <= dx {
			err += dx
			y += sy
			stepY = true
		}
		if stepX && stepY {
			if !g.Passable(x-sx, y) || !g.Passable(x, y-sy) {
				return false
			}
		}
	}
}
