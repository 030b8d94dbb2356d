package nav

import (
	"container/heap"

	"outpost/internal/mathutil"
)

// FindPathJPS runs Jump Point Search (Harabor & Grastien 2011) from start
// to goal, used for same-cluster refinement when the bounded region is
// large enough that jump pruning pays for itself over plain A*. It honors
// the same bounding box and corner-cutting rule as FindPathAStar and
// returns a fully expanded cell sequence (not just jump points), so
// callers can treat it as a drop-in replacement for FindPathAStar.
func FindPathJPS(g Grid, start, goal Coord, opt SearchOptions) ([]Coord, bool) {
	if !g.Passable(start.X, start.Y) || !g.Passable(goal.X, goal.Y) {
		return nil, false
	}
	if !opt.Bounds.contains(start.X, start.Y) || !opt.Bounds.contains(goal.X, goal.Y) {
		return nil, false
	}
	if start == goal {
		return []Coord{start}, true
	}

	gScore := map[Coord]float64{start: 0}
	parent := map[Coord]Coord{}
	seq := 0

	open := &nodeHeap{}
	heap.Init(open)
	heap.Push(open, &searchNode{coord: start, g: 0, f: Octile(start, goal), seq: seq})
	visited := map[Coord]bool{}

	for open.Len() > 0 {
		cur := heap.Pop(open).(*searchNode)
		if visited[cur.coord] {
			continue
		}
		visited[cur.coord] = true

		if cur.coord == goal {
			return expandJumpPath(reconstruct(start, goal, parent)), true
		}

		for _, d := range prunedDirections(cur.coord, parent, opt) {
			dx, dy := d[0], d[1]
			if dx != 0 && dy != 0 && !opt.AllowDiagonal {
				continue
			}
			if dx != 0 && dy != 0 && !canStep(g, opt.Bounds, cur.coord, Coord{cur.coord.X + dx, cur.coord.Y + dy}) {
				continue
			}
			jp, ok := jump(g, cur.coord, goal, dx, dy, opt)
			if !ok {
				continue
			}
			steps := mathutil.IntMax(mathutil.IntAbs(jp.X-cur.coord.X), mathutil.IntAbs(jp.Y-cur.coord.Y))
			step := costStraight
			if dx != 0 && dy != 0 {
				step = costDiagonal
			}
			tentative := cur.g + step*float64(steps)*g.EntryCost(jp.X, jp.Y)
			if best, ok := gScore[jp]; ok && tentative >= best {
				continue
			}
			gScore[jp] = tentative
			parent[jp] = cur.coord
			seq++
			heap.Push(open, &searchNode{coord: jp, g: tentative, f: tentative + Octile(jp, goal), seq: seq})
		}
	}
	return nil, false
}

// jump recursively walks in direction (dx, dy) from curr until it hits
// the goal, a forced neighbor, or a dead end, returning the jump point
// reached if any.
func jump(g Grid, curr, goal Coord, dx, dy int, opt SearchOptions) (Coord, bool) {
	n := Coord{curr.X + dx, curr.Y + dy}
	if !canStep(g, opt.Bounds, curr, n) {
		return Coord{}, false
	}
	if n == goal {
		return n, true
	}

	switch {
	case dx != 0 && dy == 0:
		if (!g.Passable(n.X, n.Y+1) && g.Passable(n.X-dx, n.Y+1)) ||
			(!g.Passable(n.X, n.Y-1) && g.Passable(n.X-dx, n.Y-1)) {
			return n, true
		}
	case dy != 0 && dx == 0:
		if (!g.Passable(n.X+1, n.Y) && g.Passable(n.X+1, n.Y-dy)) ||
			(!g.Passable(n.X-1, n.Y) && g.Passable(n.X-1, n.Y-dy)) {
			return n, true
		}
	default:
		if !opt.AllowDiagonal {
			return Coord{}, false
		}
		if (!g.Passable(n.X-dx, n.Y) && g.Passable(n.X-dx, n.Y+dy)) ||
			(!g.Passable(n.X, n.Y-dy) && g.Passable(n.X+dx, n.Y-dy)) {
			return n, true
		}
		if _, ok := jump(g, n, goal, dx, 0, opt); ok {
			return n, true
		}
		if _, ok := jump(g, n, goal, 0, dy, opt); ok {
			return n, true
		}
	}
	return jump(g, n, goal, dx, dy, opt)
}

// prunedDirections returns the natural-plus-forced candidate directions
// from c, given its parent in the search tree (none for the start node,
// which considers all eight).
func prunedDirections(c Coord, parent map[Coord]Coord, opt SearchOptions) [][2]int {
	p, hasParent := parent[c]
	if !hasParent {
		if opt.AllowDiagonal {
			return dir8[:]
		}
		return dir4[:]
	}
	dx := mathutil.IntSign(c.X - p.X)
	dy := mathutil.IntSign(c.Y - p.Y)

	switch {
	case dx != 0 && dy != 0:
		return [][2]int{{dx, dy}, {dx, 0}, {0, dy}}
	case dx != 0:
		return [][2]int{{dx, 0}, {dx, 1}, {dx, -1}}
	default:
		return [][2]int{{0, dy}, {1, dy}, {-1, dy}}
	}
}

// expandJumpPath fills in every intermediate cell between consecutive
// jump points so the result is a uniform per-cell sequence like
// FindPathAStar produces.
func expandJumpPath(jumps []Coord) []Coord {
	if len(jumps) < 2 {
		return jumps
	}
	out := []Coord{jumps[0]}
	for i := 1; i < len(jumps); i++ {
		a, b := jumps[i-1], jumps[i]
		dx, dy := mathutil.IntSign(b.X-a.X), mathutil.IntSign(b.Y-a.Y)
		cur := a
		for cur != b {
			cur = Coord{cur.X + dx, cur.Y + dy}
			out = append(out, cur)
		}
	}
	return out
}

