package pathfinding

import (
	"math"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/world"
)

// Unvisited is the g-cost of a node the current search has not reached.
const Unvisited = math.MaxInt32

// Node is the search vertex for one map tile. GCost, HCost and Previous are
// scratch state owned by the most recent search; BubbleID and BubbleID2
// persist until the graph's bubbles are invalidated.
type Node struct {
	X, Y int

	GCost    int
	HCost    int
	Previous *Node

	BubbleID  int
	BubbleID2 int

	// FakeClear lets an otherwise blocked tile act as passable so it can
	// anchor a search. The click interpreter sets and clears it.
	FakeClear bool

	index  int
	search uint64
}

// FCost is GCost + HCost.
func (n *Node) FCost() int {
	if n.GCost == Unvisited {
		return Unvisited
	}
	return n.GCost + n.HCost
}

// Tile returns the tile address of the node.
func (n *Node) Tile() world.Tile {
	return world.Tile{X: n.X, Y: n.Y}
}

var cardinalOffsets = [...]world.Tile{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
}

var diagonalOffsets = [...]world.Tile{
	{X: 1, Y: -1},
	{X: 1, Y: 1},
	{X: -1, Y: 1},
	{X: -1, Y: -1},
}

// Graph is the node grid of one map. It is owned by a single location's
// pathfinding context and must not be shared across goroutines.
type Graph struct {
	world world.World
	cols  int
	rows  int
	nodes []Node

	bubblesValid bool
	search       uint64
	lastExpanded int
}

// NewGraph builds a node for every tile of the world.
func NewGraph(w world.World) *Graph {
	cols, rows := 0, 0
	if w != nil {
		cols, rows = w.Size()
	}
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	g := &Graph{
		world: w,
		cols:  cols,
		rows:  rows,
		nodes: make([]Node, cols*rows),
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			n := &g.nodes[y*cols+x]
			n.X = x
			n.Y = y
			n.GCost = Unvisited
			n.index = -1
		}
	}
	return g
}

// World returns the adapter the graph was built from.
func (g *Graph) World() world.World {
	if g == nil {
		return nil
	}
	return g.world
}

// Size reports the grid dimensions.
func (g *Graph) Size() (int, int) {
	if g == nil {
		return 0, 0
	}
	return g.cols, g.rows
}

// NodeAt returns the node at x, y or nil when the coordinates are off the grid.
func (g *Graph) NodeAt(x, y int) *Node {
	if g == nil || x < 0 || y < 0 || x >= g.cols || y >= g.rows {
		return nil
	}
	return &g.nodes[y*g.cols+x]
}

// NodeAtTile is NodeAt for a tile.
func (g *Graph) NodeAtTile(t world.Tile) *Node {
	return g.NodeAt(t.X, t.Y)
}

// Contains reports whether n belongs to this grid. Nodes from a replaced
// grid are stale and fail this check.
func (g *Graph) Contains(n *Node) bool {
	if g == nil || n == nil {
		return false
	}
	return g.NodeAt(n.X, n.Y) == n
}

// IsPassable reports whether the search may step on n. Closed gates count
// as passable since the follower opens them on the way through.
func (g *Graph) IsPassable(n *Node) bool {
	if n == nil {
		return false
	}
	return n.FakeClear || g.walkable(n)
}

// walkable is IsPassable without the fake-clear override.
func (g *Graph) walkable(n *Node) bool {
	if n == nil || g.world == nil {
		return false
	}
	t := n.Tile()
	return g.world.IsPassable(t) || world.IsClosedGate(g.world, t)
}

// IsWater reports whether n is a water tile.
func (g *Graph) IsWater(n *Node) bool {
	return n != nil && g.world != nil && g.world.IsWater(n.Tile())
}

// SetFakeClear flips the fake-clear override of the node at t. It returns
// the node so callers can undo the override after searching.
func (g *Graph) SetFakeClear(t world.Tile, clear bool) *Node {
	n := g.NodeAtTile(t)
	if n != nil {
		n.FakeClear = clear
	}
	return n
}

// ClearFakeClear removes every fake-clear override.
func (g *Graph) ClearFakeClear() {
	if g == nil {
		return
	}
	for i := range g.nodes {
		g.nodes[i].FakeClear = false
	}
}

// InvalidateBubbles marks the connectivity labels stale. They are rebuilt on
// the next bubble-checked search.
func (g *Graph) InvalidateBubbles() {
	if g != nil {
		g.bubblesValid = false
	}
}

// BubblesValid reports whether the labels reflect the current map.
func (g *Graph) BubblesValid() bool {
	return g != nil && g.bubblesValid
}

// LastSearchExpanded reports how many nodes the most recent search popped
// from its open set. A bubble rejection leaves it at zero.
func (g *Graph) LastSearchExpanded() int {
	if g == nil {
		return 0
	}
	return g.lastExpanded
}

func (g *Graph) cardinalNeighbours(n *Node) [4]*Node {
	var out [4]*Node
	for i, off := range cardinalOffsets {
		out[i] = g.NodeAt(n.X+off.X, n.Y+off.Y)
	}
	return out
}

func (g *Graph) diagonalNeighbours(n *Node) [4]*Node {
	var out [4]*Node
	for i, off := range diagonalOffsets {
		out[i] = g.NodeAt(n.X+off.X, n.Y+off.Y)
	}
	return out
}

// touch resets the scratch state of n the first time the current search
// sees it.
func (g *Graph) touch(n *Node) {
	if n.search == g.search {
		return
	}
	n.search = g.search
	n.GCost = Unvisited
	n.HCost = 0
	n.Previous = nil
	n.index = -1
}
