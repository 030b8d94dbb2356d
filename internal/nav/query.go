package nav

import "container/heap"

type abstractNode struct {
	id   NodeID
	g, f float64
	seq  int
}

type abstractHeap []*abstractNode

func (h abstractHeap) Len() int { return len(h) }
func (h abstractHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h abstractHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *abstractHeap) Push(x interface{}) { *h = append(*h, x.(*abstractNode)) }
func (h *abstractHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// FindPath resolves a path from start to goal. Both endpoints must be
// passable; if they land in the same cluster the query resolves with a
// single bounded local search, otherwise it runs the abstract search over
// the portal graph and stitches the resulting chain into a full cell
// sequence.
func (n *Navigator) FindPath(start, goal Coord) ([]Coord, bool) {
	if !n.grid.Passable(start.X, start.Y) || !n.grid.Passable(goal.X, goal.Y) {
		return nil, false
	}
	sci := n.clusterIndexAt(start.X, start.Y)
	gci := n.clusterIndexAt(goal.X, goal.Y)
	if sci < 0 || gci < 0 {
		return nil, false
	}

	if sci == gci {
		bounds := n.bounds(&n.clusters[sci])
		path, ok := localSearchRaw(n.grid, start, goal, &bounds, n.allowDiagonal)
		if !ok {
			return nil, false
		}
		return n.maybeSmooth(path, &bounds), true
	}

	startCluster := &n.clusters[sci]
	startBounds := n.bounds(startCluster)

	virtualG := map[NodeID]float64{}
	for _, pid := range startCluster.Portals {
		node, ok := n.arena.get(pid)
		if !ok {
			continue
		}
		path, ok := localSearchRaw(n.grid, start, node.Cell, &startBounds, n.allowDiagonal)
		if !ok {
			continue
		}
		virtualG[pid] = PathCost(n.grid, path)
	}
	if len(virtualG) == 0 {
		return nil, false
	}

	goalCluster := &n.clusters[gci]
	terminal := map[NodeID]bool{}
	for _, pid := range goalCluster.Portals {
		terminal[pid] = true
	}

	parent := map[NodeID]NodeID{}
	hasParent := map[NodeID]bool{}
	gScore := map[NodeID]float64{}
	visited := map[NodeID]bool{}
	open := &abstractHeap{}
	heap.Init(open)
	seq := 0
	// Seed in portal-list order rather than map order so equal-f ties break
	// the same way on every run.
	for _, pid := range startCluster.Portals {
		w, ok := virtualG[pid]
		if !ok {
			continue
		}
		node, _ := n.arena.get(pid)
		gScore[pid] = w
		heap.Push(open, &abstractNode{id: pid, g: w, f: w + Octile(node.Cell, goal), seq: seq})
		seq++
	}

	reached := InvalidNode
	for open.Len() > 0 {
		cur := heap.Pop(open).(*abstractNode)
		if visited[cur.id] {
			continue
		}
		visited[cur.id] = true
		if terminal[cur.id] {
			reached = cur.id
			break
		}
		for _, e := range n.edges[cur.id] {
			if _, ok := n.arena.get(e.To); !ok {
				continue
			}
			tentative := cur.g + e.Weight
			if best, ok := gScore[e.To]; ok && tentative >= best {
				continue
			}
			gScore[e.To] = tentative
			parent[e.To] = cur.id
			hasParent[e.To] = true
			toNode, _ := n.arena.get(e.To)
			seq++
			heap.Push(open, &abstractNode{id: e.To, g: tentative, f: tentative + Octile(toNode.Cell, goal), seq: seq})
		}
	}
	if reached == InvalidNode {
		return nil, false
	}

	chain := []NodeID{reached}
	cur := reached
	for hasParent[cur] {
		cur = parent[cur]
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	full := []Coord{start}
	firstNode, _ := n.arena.get(chain[0])
	seg, ok := localSearchRaw(n.grid, start, firstNode.Cell, &startBounds, n.allowDiagonal)
	if !ok {
		return nil, false
	}
	full = appendSegment(full, seg)

	for i := 0; i < len(chain)-1; i++ {
		a, b := chain[i], chain[i+1]
		na, _ := n.arena.get(a)
		nb, _ := n.arena.get(b)
		if na.ClusterIdx == nb.ClusterIdx {
			seg := n.intraPath(a, b, na.ClusterIdx)
			if seg == nil {
				return nil, false
			}
			full = appendSegment(full, seg)
		} else {
			full = append(full, nb.Cell)
		}
	}

	lastNode, _ := n.arena.get(chain[len(chain)-1])
	goalBounds := n.bounds(goalCluster)
	finalSeg, ok := localSearchRaw(n.grid, lastNode.Cell, goal, &goalBounds, n.allowDiagonal)
	if !ok {
		return nil, false
	}
	full = appendSegment(full, finalSeg)

	return n.maybeSmooth(full, &startBounds), true
}

// intraPath returns the cached stitched path between two portals of the
// same cluster, computing and (if enabled) caching it on first use.
func (n *Navigator) intraPath(a, b NodeID, clusterIdx int) []Coord {
	key := sortedIntraKey(a, b)
	if cached, ok := n.cache[key]; ok {
		return orientPath(cached, a, b, n.arena)
	}
	na, _ := n.arena.get(a)
	nb, _ := n.arena.get(b)
	bounds := n.bounds(&n.clusters[clusterIdx])
	path, ok := localSearchRaw(n.grid, na.Cell, nb.Cell, &bounds, n.allowDiagonal)
	if !ok {
		return nil
	}
	if n.storeIntraPaths {
		n.cache[key] = path
	}
	return path
}

// orientPath returns a cached intra path in the direction from a to b,
// reversing it if it was cached the other way around (cache keys are
// unordered).
func orientPath(path []Coord, a, b NodeID, arena nodeArena) []Coord {
	na, ok := arena.get(a)
	if !ok || len(path) == 0 {
		return path
	}
	if path[0] == na.Cell {
		return path
	}
	reversed := make([]Coord, len(path))
	for i, c := range path {
		reversed[len(path)-1-i] = c
	}
	return reversed
}

func appendSegment(full, seg []Coord) []Coord {
	if len(seg) == 0 {
		return full
	}
	if len(full) > 0 && full[len(full)-1] == seg[0] {
		seg = seg[1:]
	}
	return append(full, seg...)
}

func (n *Navigator) maybeSmooth(path []Coord, bounds *Bounds) []Coord {
	if !n.smoothPaths {
		return path
	}
	return smoothPath(n.grid, path, bounds)
}
