package nav

import (
	"container/heap"

	"outpost/internal/mathutil"
)

// Bounds restricts a local search to a sub-rectangle of the grid, used
// when refining inside a single HPA* cluster. A nil *Bounds means the
// whole grid is fair game.
type Bounds struct {
	X0, Y0, X1, Y1 int
}

func (b *Bounds) contains(x, y int) bool {
	if b == nil {
		return true
	}
	return x >= b.X0 && x < b.X1 && y >= b.Y0 && y < b.Y1
}

// SearchOptions configures a local A*/JPS search.
type SearchOptions struct {
	AllowDiagonal bool
	Bounds        *Bounds
}

var dir8 = [8][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
var dir4 = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

func heuristicFor(opt SearchOptions) func(a, b Coord) float64 {
	if opt.AllowDiagonal {
		return Octile
	}
	return Manhattan
}

// canStep reports whether a move from a to its neighbor b is legal:
// b must be in bounds and passable, and a diagonal step must not cut a
// corner — both cardinal neighbors adjacent to the move have to be
// passable too.
func canStep(g Grid, bounds *Bounds, a, b Coord) bool {
	if !bounds.contains(b.X, b.Y) || !g.Passable(b.X, b.Y) {
		return false
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	if dx == 0 || dy == 0 {
		return true
	}
	return g.Passable(a.X+dx, a.Y) && g.Passable(a.X, a.Y+dy)
}

type searchNode struct {
	coord Coord
	g, f  float64
	seq   int
}

// nodeHeap is a binary min-heap ordered by f, breaking ties by insertion
// order so the search is deterministic across runs.
type nodeHeap []*searchNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(*searchNode)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// FindPathAStar runs a local A* search from start to goal, 8-connected
// when opt.AllowDiagonal, 4-connected otherwise, optionally restricted to
// opt.Bounds. It returns the cell sequence including both endpoints, or
// ok=false if no path exists.
func FindPathAStar(g Grid, start, goal Coord, opt SearchOptions) ([]Coord, bool) {
	if !g.Passable(start.X, start.Y) || !g.Passable(goal.X, goal.Y) {
		return nil, false
	}
	if !opt.Bounds.contains(start.X, start.Y) || !opt.Bounds.contains(goal.X, goal.Y) {
		return nil, false
	}
	if start == goal {
		return []Coord{start}, true
	}

	heuristic := heuristicFor(opt)
	dirs := dir4[:]
	if opt.AllowDiagonal {
		dirs = dir8[:]
	}

	gScore := map[Coord]float64{start: 0}
	parent := map[Coord]Coord{}
	seq := 0

	open := &nodeHeap{}
	heap.Init(open)
	heap.Push(open, &searchNode{coord: start, g: 0, f: heuristic(start, goal), seq: seq})

	visited := map[Coord]bool{}

	for open.Len() > 0 {
		cur := heap.Pop(open).(*searchNode)
		if visited[cur.coord] {
			continue
		}
		visited[cur.coord] = true

		if cur.coord == goal {
			return reconstruct(start, goal, parent), true
		}

		for _, d := range dirs {
			next := Coord{X: cur.coord.X + d[0], Y: cur.coord.Y + d[1]}
			if !canStep(g, opt.Bounds, cur.coord, next) {
				continue
			}
			step := costStraight
			if d[0] != 0 && d[1] != 0 {
				step = costDiagonal
			}
			tentative := cur.g + step*g.EntryCost(next.X, next.Y)
			if best, ok := gScore[next]; ok && tentative >= best {
				continue
			}
			gScore[next] = tentative
			parent[next] = cur.coord
			seq++
			heap.Push(open, &searchNode{coord: next, g: tentative, f: tentative + heuristic(next, goal), seq: seq})
		}
	}
	return nil, false
}

func reconstruct(start, goal Coord, parent map[Coord]Coord) []Coord {
	path := []Coord{goal}
	cur := goal
	for cur != start {
		cur = parent[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathCost sums the step costs along an already-found path the same way
// FindPathAStar accrued them, used when stitching cached intra-cluster
// segments that were stored without their cost.
func PathCost(g Grid, path []Coord) float64 {
	if len(path) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(path); i++ {
		dx := mathutil.IntAbs(path[i].X - path[i-1].X)
		dy := mathutil.IntAbs(path[i].Y - path[i-1].Y)
		step := costStraight
		if dx != 0 && dy != 0 {
			step = costDiagonal
		}
		total += step * g.EntryCost(path[i].X, path[i].Y)
	}
	return total
}
