package pathfinding

import "github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/world"

// Path is the ordered list of nodes from the first step after the start to
// the destination. An empty path means the walker is already there.
type Path struct {
	nodes []*Node
}

// NewPath wraps nodes in a Path.
func NewPath(nodes ...*Node) *Path {
	return &Path{nodes: append([]*Node(nil), nodes...)}
}

// newPath walks the Previous links from goal back to start, excluding start.
func newPath(start, goal *Node) *Path {
	var reversed []*Node
	for n := goal; n != nil && n != start; n = n.Previous {
		reversed = append(reversed, n)
	}
	nodes := make([]*Node, len(reversed))
	for i, n := range reversed {
		nodes[len(reversed)-1-i] = n
	}
	return &Path{nodes: nodes}
}

// Len reports the number of nodes left.
func (p *Path) Len() int {
	if p == nil {
		return 0
	}
	return len(p.nodes)
}

// Empty reports whether no nodes remain.
func (p *Path) Empty() bool {
	return p.Len() == 0
}

// Nodes returns a copy of the remaining nodes.
func (p *Path) Nodes() []*Node {
	if p == nil {
		return nil
	}
	return append([]*Node(nil), p.nodes...)
}

// Tiles returns the tiles of the remaining nodes.
func (p *Path) Tiles() []world.Tile {
	if p == nil {
		return nil
	}
	out := make([]world.Tile, len(p.nodes))
	for i, n := range p.nodes {
		out[i] = n.Tile()
	}
	return out
}

// First returns the next node to walk to.
func (p *Path) First() *Node {
	if p.Len() == 0 {
		return nil
	}
	return p.nodes[0]
}

// Last returns the destination node.
func (p *Path) Last() *Node {
	if p.Len() == 0 {
		return nil
	}
	return p.nodes[len(p.nodes)-1]
}

// Pop removes and returns the head node.
func (p *Path) Pop() *Node {
	if p.Len() == 0 {
		return nil
	}
	n := p.nodes[0]
	p.nodes = p.nodes[1:]
	return n
}

// DropLast removes the destination node so the path ends one tile short.
func (p *Path) DropLast() *Node {
	if p.Len() == 0 {
		return nil
	}
	n := p.nodes[len(p.nodes)-1]
	p.nodes = p.nodes[:len(p.nodes)-1]
	return n
}

// SmoothRightAngles removes staircase corners in a single left to right pass.
// For consecutive nodes a, b, c where a-b and b-c are cardinal steps and a, c
// are diagonal neighbours, b is removed when both b and the opposite corner
// tile are passable. The last keepTail nodes are never removed.
func (p *Path) SmoothRightAngles(g *Graph, keepTail int) {
	if p.Len() < 3 || g == nil {
		return
	}
	if keepTail < 0 {
		keepTail = 0
	}
	n := len(p.nodes)
	var removals []int
	for i := 0; i+2 < n; {
		mid := i + 1
		if mid >= n-keepTail {
			break
		}
		a, b, c := p.nodes[i], p.nodes[mid], p.nodes[i+2]
		if g.isCorner(a, b, c) {
			removals = append(removals, mid)
			i += 2
			continue
		}
		i++
	}
	for j := len(removals) - 1; j >= 0; j-- {
		idx := removals[j]
		p.nodes = append(p.nodes[:idx], p.nodes[idx+1:]...)
	}
}

func (g *Graph) isCorner(a, b, c *Node) bool {
	if !cardinalStep(a, b) || !cardinalStep(b, c) {
		return false
	}
	if absInt(a.X-c.X) != 1 || absInt(a.Y-c.Y) != 1 {
		return false
	}
	opposite := g.NodeAt(a.X+c.X-b.X, a.Y+c.Y-b.Y)
	return g.IsPassable(b) && g.IsPassable(opposite)
}

func cardinalStep(a, b *Node) bool {
	return absInt(a.X-b.X)+absInt(a.Y-b.Y) == 1
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ContainsGate returns the first node whose tile holds a closed gate, or nil.
func (p *Path) ContainsGate(w world.World) *Node {
	if p == nil || w == nil {
		return nil
	}
	for _, n := range p.nodes {
		if world.IsClosedGate(w, n.Tile()) {
			return n
		}
	}
	return nil
}
