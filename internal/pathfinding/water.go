package pathfinding

// WaterSearchRadius bounds the water utilities, in tiles.
const WaterSearchRadius = 30

func squaredDistance(a, b *Node) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// GetNodeNearestWaterSource returns the water node closest to from within
// WaterSearchRadius, or nil.
func (g *Graph) GetNodeNearestWaterSource(from *Node) *Node {
	if g == nil || !g.Contains(from) {
		return nil
	}
	var best *Node
	bestDist := 0
	for dy := -WaterSearchRadius; dy <= WaterSearchRadius; dy++ {
		for dx := -WaterSearchRadius; dx <= WaterSearchRadius; dx++ {
			n := g.NodeAt(from.X+dx, from.Y+dy)
			if n == nil || !g.IsWater(n) {
				continue
			}
			if d := dx*dx + dy*dy; best == nil || d < bestDist {
				best = n
				bestDist = d
			}
		}
	}
	return best
}

// GetNearestLandNodePerpendicularToWaterSource finds where to stand to face
// water squarely. It walks away from the water tile along each cardinal axis
// to the first land tile and keeps the passable one closest to from. When no
// axis yields land it falls back to the passable shore tile nearest to from.
func (g *Graph) GetNearestLandNodePerpendicularToWaterSource(from, water *Node) *Node {
	if g == nil || !g.Contains(from) || !g.Contains(water) {
		return nil
	}
	var best *Node
	bestDist := 0
	for _, off := range cardinalOffsets {
		for step := 1; step <= WaterSearchRadius; step++ {
			n := g.NodeAt(water.X+off.X*step, water.Y+off.Y*step)
			if n == nil {
				break
			}
			if g.IsWater(n) {
				continue
			}
			if g.IsPassable(n) {
				if d := squaredDistance(n, from); best == nil || d < bestDist {
					best = n
					bestDist = d
				}
			}
			break
		}
	}
	if best != nil {
		return best
	}
	return g.nearestShore(from, water)
}

func (g *Graph) nearestShore(from, water *Node) *Node {
	var best *Node
	bestDist := 0
	for dy := -WaterSearchRadius; dy <= WaterSearchRadius; dy++ {
		for dx := -WaterSearchRadius; dx <= WaterSearchRadius; dx++ {
			n := g.NodeAt(water.X+dx, water.Y+dy)
			if n == nil || g.IsWater(n) || !g.IsPassable(n) || !g.touchesWater(n) {
				continue
			}
			if d := squaredDistance(n, from); best == nil || d < bestDist {
				best = n
				bestDist = d
			}
		}
	}
	return best
}

func (g *Graph) touchesWater(n *Node) bool {
	for _, nb := range g.cardinalNeighbours(n) {
		if g.IsWater(nb) {
			return true
		}
	}
	return false
}

// WaterFacing returns the water tile adjacent to stand along a cardinal
// axis, or nil. Callers face it before casting or watering.
func (g *Graph) WaterFacing(stand *Node) *Node {
	if g == nil || stand == nil {
		return nil
	}
	for _, nb := range g.cardinalNeighbours(stand) {
		if g.IsWater(nb) {
			return nb
		}
	}
	return nil
}
