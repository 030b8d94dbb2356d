// Package nav implements the hierarchical pathfinder: clusters, a portal
// graph built over cluster borders, shared local A*/JPS search, and
// incremental rebuild on obstacle edits. It is polymorphic only over a
// small capability trio — width, height, passability, entry cost — so it
// never imports the grid package directly; World satisfies Grid.
package nav

// Coord is an integer cell coordinate.
type Coord struct {
	X, Y int
}

// Grid is the capability trio the navigator needs from whatever owns the
// tile data. grid.World satisfies this without nav importing grid,
// keeping the dependency one-directional.
type Grid interface {
	Width() int
	Height() int
	Passable(x, y int) bool
	EntryCost(x, y int) float64
}

// NodeID identifies a PortalNode by arena slot, packed as generation in
// the high 16 bits and index in the low 16 bits, the same stale-handle
// scheme grid.AgentID uses. An incremental rebuild tombstones freed slots
// instead of compacting them, so an id captured before it is either still
// valid or detectably stale — never silently reattached to a different
// portal. A full RebuildAll starts the arena over, so ids do not carry
// across it.
type NodeID int32

// InvalidNode marks the absence of a portal reference.
const InvalidNode NodeID = -1

func newNodeID(index, generation int) NodeID {
	return NodeID(int32(generation)<<16 | int32(index&0xFFFF))
}

// Index returns the arena slot this id was issued for.
func (id NodeID) Index() int {
	return int(int32(id) & 0xFFFF)
}

// Generation returns the arena generation this id was issued under.
func (id NodeID) Generation() int {
	return int(int32(id) >> 16)
}

// PortalNode is one portal endpoint: a passable border cell, owned by
// exactly one cluster. Every entrance segment creates a pair of these,
// one per side of the border.
type PortalNode struct {
	id         NodeID
	generation int
	tombstoned bool

	Cell       Coord
	ClusterIdx int
}

// Edge connects two portals, either within a cluster (intra, built from
// local A* between that cluster's own portals) or across a shared border
// (inter, one per paired portal placement).
type Edge struct {
	To             NodeID
	Weight         float64
	InterCluster   bool
}

// Cluster is a rectangular abstraction cell: the grid partitioned into
// cluster_size x cluster_size regions, truncated at the world's right and
// bottom edges.
type Cluster struct {
	X0, Y0, X1, Y1 int // [X0,X1) x [Y0,Y1)
	Portals        []NodeID
}

// Contains reports whether (x, y) lies within this cluster's bounds.
func (c *Cluster) Contains(x, y int) bool {
	return x >= c.X0 && x < c.X1 && y >= c.Y0 && y < c.Y1
}

func (c *Cluster) Index() (cw, ch int) {
	return c.X1 - c.X0, c.Y1 - c.Y0
}
