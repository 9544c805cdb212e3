package pathfinding

import (
	"container/heap"

	"github.com/zyedidia/generic/mapset"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/world"
)

type openSet []*Node

func (pq openSet) Len() int { return len(pq) }

func (pq openSet) Less(i, j int) bool {
	fi, fj := pq[i].FCost(), pq[j].FCost()
	if fi != fj {
		return fi < fj
	}
	return pq[i].HCost < pq[j].HCost
}

func (pq openSet) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *openSet) Push(x any) {
	n := x.(*Node)
	n.index = len(*pq)
	*pq = append(*pq, n)
}

func (pq *openSet) Pop() any {
	old := *pq
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	n.index = -1
	*pq = old[:last]
	return n
}

func heuristic(a, b *Node) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// FindPath runs A* over cardinal neighbours with unit step cost. It returns
// nil when the goal cannot be reached. Inside interiors, blocking bed tiles
// are skipped unless the goal itself is a bed tile.
func (g *Graph) FindPath(start, goal *Node) *Path {
	if g == nil {
		return nil
	}
	g.lastExpanded = 0
	if !g.Contains(start) || !g.Contains(goal) {
		return nil
	}
	g.search++

	avoidBeds := false
	var interior world.Interior
	if in, ok := g.world.(world.Interior); ok && in.IsInterior() {
		interior = in
		avoidBeds = !in.IsBlockingBed(goal.Tile())
	}

	g.touch(start)
	start.GCost = 0
	start.HCost = heuristic(start, goal)

	open := &openSet{}
	heap.Push(open, start)
	closed := mapset.New[*Node]()

	for open.Len() > 0 {
		current := heap.Pop(open).(*Node)
		g.lastExpanded++
		if current == goal {
			return newPath(start, goal)
		}
		closed.Put(current)

		for _, nb := range g.cardinalNeighbours(current) {
			if nb == nil || closed.Has(nb) || !g.IsPassable(nb) {
				continue
			}
			if avoidBeds && interior.IsBlockingBed(nb.Tile()) {
				continue
			}
			g.touch(nb)
			tentative := current.GCost + 1
			if tentative >= nb.GCost {
				continue
			}
			nb.Previous = current
			nb.GCost = tentative
			nb.HCost = heuristic(nb, goal)
			if nb.index >= 0 {
				heap.Fix(open, nb.index)
			} else {
				heap.Push(open, nb)
			}
		}
	}
	return nil
}

// FindPathWithBubbleCheck rejects goals in a different bubble from the start
// without searching. Unlabelled goals, such as fake-cleared occupied tiles,
// are probed against the start's bubble through their cardinal neighbours.
func (g *Graph) FindPathWithBubbleCheck(start, goal *Node) *Path {
	if g == nil {
		return nil
	}
	g.lastExpanded = 0
	if !g.Contains(start) || !g.Contains(goal) || !g.IsPassable(goal) {
		return nil
	}
	g.EnsureBubbles()
	switch {
	case start.BubbleID == 0:
		return g.FindPath(start, goal)
	case goal.BubbleID == start.BubbleID:
		return g.FindPath(start, goal)
	case goal.BubbleID == 0:
		if g.probeBubble(goal, start.BubbleID) {
			return g.FindPath(start, goal)
		}
		return nil
	default:
		return nil
	}
}

// FindPathToNeighborDiagonalWithBubbleCheck tries every diagonal neighbour of
// goal and returns the path to the reachable one nearest to start.
func (g *Graph) FindPathToNeighborDiagonalWithBubbleCheck(start, goal *Node) *Path {
	if g == nil || !g.Contains(start) || !g.Contains(goal) {
		return nil
	}
	var best *Path
	bestDist := -1
	expanded := 0
	for _, candidate := range g.diagonalNeighbours(goal) {
		if candidate == nil || !g.IsPassable(candidate) {
			continue
		}
		dx := candidate.X - start.X
		dy := candidate.Y - start.Y
		dist := dx*dx + dy*dy
		if best != nil && dist >= bestDist {
			continue
		}
		p := g.FindPathWithBubbleCheck(start, candidate)
		expanded += g.lastExpanded
		if p == nil {
			continue
		}
		best = p
		bestDist = dist
	}
	g.lastExpanded = expanded
	return best
}
