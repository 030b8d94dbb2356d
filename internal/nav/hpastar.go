package nav

import "outpost/internal/mathutil"

// Navigator is the HPA* abstraction over a Grid: clusters, the portal
// graph built across their shared borders, and the query/refinement
// pipeline that turns a coarse portal chain into a walkable cell
// sequence.
type Navigator struct {
	grid Grid

	clusterSize           int
	entranceSplitThreshold int
	allowDiagonal          bool
	smoothPaths            bool
	storeIntraPaths        bool

	clustersWide, clustersHigh int
	clusters                   []Cluster

	arena nodeArena
	edges map[NodeID][]Edge
	cache map[intraKey][]Coord
}

type intraKey struct {
	A, B NodeID
}

func sortedIntraKey(a, b NodeID) intraKey {
	if a <= b {
		return intraKey{a, b}
	}
	return intraKey{b, a}
}

// jpsAreaThreshold is the bounded-search cell count above which local
// refinement switches from plain A* to JPS; below it the jump-point
// bookkeeping costs more than it saves.
const jpsAreaThreshold = 256

// NewNavigator constructs a Navigator over g with the given tuning. Call
// RebuildAll before issuing any FindPath query.
func NewNavigator(g Grid, clusterSize, entranceSplitThreshold int, allowDiagonal, smoothPaths, storeIntraPaths bool) *Navigator {
	if clusterSize <= 0 {
		clusterSize = 32
	}
	if entranceSplitThreshold <= 0 {
		entranceSplitThreshold = 5
	}
	return &Navigator{
		grid:                   g,
		clusterSize:            clusterSize,
		entranceSplitThreshold: entranceSplitThreshold,
		allowDiagonal:          allowDiagonal,
		smoothPaths:            smoothPaths,
		storeIntraPaths:        storeIntraPaths,
		edges:                  map[NodeID][]Edge{},
		cache:                  map[intraKey][]Coord{},
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func (n *Navigator) bounds(c *Cluster) Bounds {
	return Bounds{X0: c.X0, Y0: c.Y0, X1: c.X1, Y1: c.Y1}
}

// clusterIndexAt returns the cluster containing (x, y), or -1 if out of
// bounds.
func (n *Navigator) clusterIndexAt(x, y int) int {
	if x < 0 || y < 0 || x >= n.grid.Width() || y >= n.grid.Height() {
		return -1
	}
	cx, cy := x/n.clusterSize, y/n.clusterSize
	if cx >= n.clustersWide || cy >= n.clustersHigh {
		return -1
	}
	return cy*n.clustersWide + cx
}

func (n *Navigator) layoutClusters() {
	w, h := n.grid.Width(), n.grid.Height()
	n.clustersWide = ceilDiv(w, n.clusterSize)
	n.clustersHigh = ceilDiv(h, n.clusterSize)
	n.clusters = make([]Cluster, n.clustersWide*n.clustersHigh)
	for cy := 0; cy < n.clustersHigh; cy++ {
		for cx := 0; cx < n.clustersWide; cx++ {
			x0, y0 := cx*n.clusterSize, cy*n.clusterSize
			x1, y1 := x0+n.clusterSize, y0+n.clusterSize
			if x1 > w {
				x1 = w
			}
			if y1 > h {
				y1 = h
			}
			n.clusters[cy*n.clustersWide+cx] = Cluster{X0: x0, Y0: y0, X1: x1, Y1: y1}
		}
	}
}

// RebuildAll performs the full build pipeline: partition into clusters,
// scan every shared border for entrance segments and place portals, then
// compute intra-cluster edges for every cluster.
func (n *Navigator) RebuildAll() {
	n.arena.reset()
	n.edges = map[NodeID][]Edge{}
	n.cache = map[intraKey][]Coord{}
	n.layoutClusters()

	for cy := 0; cy < n.clustersHigh; cy++ {
		for cx := 0; cx < n.clustersWide; cx++ {
			idx := cy*n.clustersWide + cx
			if cx+1 < n.clustersWide {
				n.scanVerticalBorder(idx, idx+1)
			}
			if cy+1 < n.clustersHigh {
				n.scanHorizontalBorder(idx, idx+n.clustersWide)
			}
		}
	}

	for i := range n.clusters {
		n.buildIntraEdges(i)
	}
}

// RebuildClusterAt recomputes the portal graph for the cluster containing
// (x, y) and its four orthogonal neighbors. Only portals and edges on
// borders shared between two affected clusters are torn down and
// recreated; a portal shared with a cluster outside the affected set
// (and that cluster's own portal ids) are left untouched, so ids remain
// stable for every cluster this rebuild doesn't actually touch.
func (n *Navigator) RebuildClusterAt(x, y int) {
	center := n.clusterIndexAt(x, y)
	if center < 0 {
		return
	}
	cx, cy := center%n.clustersWide, center/n.clustersWide

	affected := []int{center}
	neighborOffsets := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for _, off := range neighborOffsets {
		nx, ny := cx+off[0], cy+off[1]
		if nx < 0 || ny < 0 || nx >= n.clustersWide || ny >= n.clustersHigh {
			continue
		}
		affected = append(affected, ny*n.clustersWide+nx)
	}

	affectedSet := map[int]bool{}
	for _, idx := range affected {
		affectedSet[idx] = true
	}

	for _, idx := range affected {
		n.tearDownCluster(idx, affectedSet)
	}

	for _, idx := range affected {
		acx, acy := idx%n.clustersWide, idx/n.clustersWide
		if acx+1 < n.clustersWide && affectedSet[idx+1] {
			n.scanVerticalBorder(idx, idx+1)
		}
		if acy+1 < n.clustersHigh && affectedSet[idx+n.clustersWide] {
			n.scanHorizontalBorder(idx, idx+n.clustersWide)
		}
	}

	for _, idx := range affected {
		n.buildIntraEdges(idx)
	}
}

// tearDownCluster removes a cluster's portals and incident edges, except
// for portals that pair across a border to a cluster outside affected —
// those are preserved exactly as-is, since this rebuild has no mandate to
// touch the other side of that border.
func (n *Navigator) tearDownCluster(idx int, affected map[int]bool) {
	c := &n.clusters[idx]

	var keep, destroy []NodeID
	for _, pid := range c.Portals {
		preserve := false
		for _, e := range n.edges[pid] {
			if !e.InterCluster {
				continue
			}
			if other, ok := n.arena.get(e.To); ok && !affected[other.ClusterIdx] {
				preserve = true
			}
		}
		if preserve {
			keep = append(keep, pid)
		} else {
			destroy = append(destroy, pid)
		}
	}

	for _, pid := range destroy {
		for _, e := range n.edges[pid] {
			n.removeEdge(e.To, pid)
		}
		delete(n.edges, pid)
		n.arena.tombstone(pid)
	}

	// Preserved portals drop every intra edge — buildIntraEdges recreates
	// them for the rebuilt cluster, and leaving the old ones in place
	// would duplicate each pair on every incremental rebuild. The single
	// inter-cluster edge to the outside-affected neighbor survives.
	for _, pid := range keep {
		edges := n.edges[pid]
		live := edges[:0]
		for _, e := range edges {
			if !e.InterCluster {
				continue
			}
			if _, ok := n.arena.get(e.To); ok {
				live = append(live, e)
			}
		}
		n.edges[pid] = live
	}

	c.Portals = keep
}

func (n *Navigator) removeEdge(from, to NodeID) {
	edges := n.edges[from]
	out := edges[:0]
	for _, e := range edges {
		if e.To != to {
			out = append(out, e)
		}
	}
	n.edges[from] = out
}

func (n *Navigator) addEdge(a, b NodeID, weight float64, interCluster bool) {
	n.edges[a] = append(n.edges[a], Edge{To: b, Weight: weight, InterCluster: interCluster})
	n.edges[b] = append(n.edges[b], Edge{To: a, Weight: weight, InterCluster: interCluster})
}

// scanVerticalBorder scans the shared vertical border between
// horizontally adjacent clusters left and right, placing portal pairs on
// every entrance segment found.
func (n *Navigator) scanVerticalBorder(leftIdx, rightIdx int) {
	left, right := &n.clusters[leftIdx], &n.clusters[rightIdx]
	if left.X1 != right.X0 {
		return
	}
	lx, rx := left.X1-1, right.X0
	y0 := mathutil.IntMax(left.Y0, right.Y0)
	y1 := mathutil.IntMin(left.Y1, right.Y1)

	runStart := -1
	flush := func(end int) {
		if runStart < 0 {
			return
		}
		n.placeEntrance(leftIdx, rightIdx, func(y int) (Coord, Coord) {
			return Coord{lx, y}, Coord{rx, y}
		}, runStart, end)
		runStart = -1
	}
	for y := y0; y < y1; y++ {
		if n.grid.Passable(lx, y) && n.grid.Passable(rx, y) {
			if runStart < 0 {
				runStart = y
			}
		} else {
			flush(y - 1)
		}
	}
	flush(y1 - 1)
}

// scanHorizontalBorder mirrors scanVerticalBorder for vertically adjacent
// clusters top and bottom.
func (n *Navigator) scanHorizontalBorder(topIdx, bottomIdx int) {
	top, bottom := &n.clusters[topIdx], &n.clusters[bottomIdx]
	if top.Y1 != bottom.Y0 {
		return
	}
	ty, by := top.Y1-1, bottom.Y0
	x0 := mathutil.IntMax(top.X0, bottom.X0)
	x1 := mathutil.IntMin(top.X1, bottom.X1)

	runStart := -1
	flush := func(end int) {
		if runStart < 0 {
			return
		}
		n.placeEntrance(topIdx, bottomIdx, func(x int) (Coord, Coord) {
			return Coord{x, ty}, Coord{x, by}
		}, runStart, end)
		runStart = -1
	}
	for x := x0; x < x1; x++ {
		if n.grid.Passable(x, ty) && n.grid.Passable(x, by) {
			if runStart < 0 {
				runStart = x
			}
		} else {
			flush(x - 1)
		}
	}
	flush(x1 - 1)
}

// placeEntrance creates portals for one entrance segment [start, end]
// along the scanned axis: a single midpoint portal pair when the segment
// is short, two end portal pairs otherwise.
func (n *Navigator) placeEntrance(clusterA, clusterB int, cellsAt func(pos int) (Coord, Coord), start, end int) {
	if end < start {
		return
	}
	length := end - start + 1
	place := func(pos int) {
		ca, cb := cellsAt(pos)
		pidA := n.arena.add(ca, clusterA)
		pidB := n.arena.add(cb, clusterB)
		n.clusters[clusterA].Portals = append(n.clusters[clusterA].Portals, pidA)
		n.clusters[clusterB].Portals = append(n.clusters[clusterB].Portals, pidB)
		weight := 0.5 * (n.grid.EntryCost(ca.X, ca.Y) + n.grid.EntryCost(cb.X, cb.Y))
		n.addEdge(pidA, pidB, weight, true)
	}
	if length <= n.entranceSplitThreshold {
		place(start + length/2)
		return
	}
	place(start)
	place(end)
}

// buildIntraEdges runs a bounded local search between every pair of a
// cluster's portals, adding a bidirectional edge (and optionally caching
// the stitched cell path) wherever one exists.
func (n *Navigator) buildIntraEdges(clusterIdx int) {
	c := &n.clusters[clusterIdx]
	bounds := n.bounds(c)
	for i := 0; i < len(c.Portals); i++ {
		for j := i + 1; j < len(c.Portals); j++ {
			a, b := c.Portals[i], c.Portals[j]
			na, ok := n.arena.get(a)
			if !ok {
				continue
			}
			nb, ok := n.arena.get(b)
			if !ok {
				continue
			}
			path, found := localSearchRaw(n.grid, na.Cell, nb.Cell, &bounds, n.allowDiagonal)
			if !found {
				continue
			}
			weight := PathCost(n.grid, path)
			n.addEdge(a, b, weight, false)
			if n.storeIntraPaths {
				n.cache[sortedIntraKey(a, b)] = path
			}
		}
	}
}

func localSearchRaw(g Grid, start, goal Coord, bounds *Bounds, allowDiagonal bool) ([]Coord, bool) {
	opt := SearchOptions{AllowDiagonal: allowDiagonal, Bounds: bounds}
	area := (bounds.X1 - bounds.X0) * (bounds.Y1 - bounds.Y0)
	if area > jpsAreaThreshold {
		return FindPathJPS(g, start, goal, opt)
	}
	return FindPathAStar(g, start, goal, opt)
}

