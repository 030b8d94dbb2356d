package nav

import (
	"math"

	"outpost/internal/mathutil"
)

const (
	costStraight = 1.0
	costDiagonal = math.Sqrt2
)

// Octile is the admissible distance estimate for 8-connected movement:
// diagonal steps cover both axes at once, so the estimate pays the
// diagonal rate for the shared distance and the straight rate for the
// remainder.
func Octile(a, b Coord) float64 {
	dx := mathutil.IntAbs(a.X - b.X)
	dy := mathutil.IntAbs(a.Y - b.Y)
	mn, mx := dx, dy
	if mx < mn {
		mn, mx = mx, mn
	}
	return costDiagonal*float64(mn) + costStraight*float64(mx-mn)
}

// Manhattan is the admissible estimate for 4-connected movement.
func Manhattan(a, b Coord) float64 {
	return float64(mathutil.IntAbs(a.X-b.X) + mathutil.IntAbs(a.Y-b.Y))
}

