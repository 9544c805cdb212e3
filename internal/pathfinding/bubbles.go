package pathfinding

// BuildBubbles labels every maximal cardinally connected region of passable
// nodes with its own BubbleID, starting at 1. Impassable nodes keep 0.
// Fake-clear overrides are ignored; an occupied goal is placed by the probe
// instead. The secondary labels are cleared.
func (g *Graph) BuildBubbles() {
	if g == nil {
		return
	}
	for i := range g.nodes {
		g.nodes[i].BubbleID = 0
		g.nodes[i].BubbleID2 = 0
	}
	next := 0
	var stack []*Node
	for i := range g.nodes {
		seed := &g.nodes[i]
		if seed.BubbleID != 0 || !g.walkable(seed) {
			continue
		}
		next++
		seed.BubbleID = next
		stack = append(stack[:0], seed)
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, nb := range g.cardinalNeighbours(n) {
				if nb == nil || nb.BubbleID != 0 || !g.walkable(nb) {
					continue
				}
				nb.BubbleID = next
				stack = append(stack, nb)
			}
		}
	}
	g.bubblesValid = true
}

// EnsureBubbles rebuilds stale labels. Call it before setting fake-clear
// overrides so the rebuild sees the real map.
func (g *Graph) EnsureBubbles() {
	if g != nil && !g.bubblesValid {
		g.BuildBubbles()
	}
}

// probeBubble tries to place an unlabelled goal into the bubble named label
// by looking at its cardinal neighbours. The answer is kept in BubbleID2
// only, so a blocked tile between two regions can be probed from either
// side.
func (g *Graph) probeBubble(goal *Node, label int) bool {
	goal.BubbleID2 = 0
	for _, nb := range g.cardinalNeighbours(goal) {
		if nb != nil && nb.BubbleID == label {
			goal.BubbleID2 = label
			return true
		}
	}
	return false
}

// SameBubble reports whether two nodes carry the same non-zero label.
func SameBubble(a, b *Node) bool {
	return a != nil && b != nil && a.BubbleID != 0 && a.BubbleID == b.BubbleID
}
