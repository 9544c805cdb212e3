package interaction

import (
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/pathfinding"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/world"
)

// Interpret classifies a click for character c and plans its route on g.
// The returned context is never nil; rejected clicks carry a reason and,
// when routing failed, a no-path marker for the host to draw.
func Interpret(g *pathfinding.Graph, c world.Character, s *Session, req ClickRequest) *ClickContext {
	ctx := newContext(req)
	if c.Status.Incapacitated() {
		return reject(ctx, ReasonIncapacitated)
	}
	if s != nil && s.InputBlocked {
		return reject(ctx, ReasonInputBlocked)
	}
	start := g.NodeAtTile(c.Tile())
	clicked := ctx.ClickedTile
	if start == nil || g.NodeAtTile(clicked) == nil {
		return reject(ctx, ReasonOffMap)
	}
	if clicked == c.Tile() {
		return interpretSelf(ctx, g, c)
	}
	if resolve(g, c, s, ctx, clicked) {
		return ctx
	}
	if shifted := clicked.Add(0, 1); g.NodeAtTile(shifted) != nil && shifted != c.Tile() {
		if resolve(g, c, s, ctx, shifted) {
			ctx.Retried = true
			return ctx
		}
	}
	ctx.ClickedTile = clicked
	ctx.ActionTile = clicked
	ctx.NoPathMarker = &clicked
	return reject(ctx, ReasonNoPath)
}

// Retarget plans a fresh route from the character's tile to the tile now
// occupied by the tracked entity. It reports false when the entity is gone
// or can no longer be reached.
func Retarget(g *pathfinding.Graph, c world.Character, ctx *ClickContext, entity world.Entity) bool {
	if ctx == nil || g.NodeAtTile(entity.Tile) == nil {
		return false
	}
	ctx.ClickedTile = entity.Tile
	ctx.ActionTile = entity.Tile
	ctx.Destination = g.NodeAtTile(entity.Tile)
	ctx.Content = world.EntityContent(entity)
	ctx.Diagonal = false
	return route(g, c, ctx)
}

func reject(ctx *ClickContext, reason string) *ClickContext {
	ctx.Intent = IntentReject
	ctx.Action = ActionNone
	ctx.RejectReason = reason
	ctx.Path = nil
	ctx.Destination = nil
	return ctx
}

func interpretSelf(ctx *ClickContext, g *pathfinding.Graph, c world.Character) *ClickContext {
	ctx.Destination = g.NodeAtTile(c.Tile())
	ctx.Path = pathfinding.NewPath()
	if c.HeldTool() == world.ToolNone {
		ctx.Intent = IntentMove
		return ctx
	}
	ctx.Intent = IntentSelf
	ctx.Action = ActionUseTool
	ctx.ActOnArrival = true
	ctx.ActionTile = c.Tile().Add(c.Facing.Step().X, c.Facing.Step().Y)
	return ctx
}

// resolve runs hotspot, content and routing resolution for one tile. It
// overwrites every planning field of ctx so a failed attempt leaves nothing
// behind for the retry.
func resolve(g *pathfinding.Graph, c world.Character, s *Session, ctx *ClickContext, tile world.Tile) bool {
	w := g.World()
	ctx.ClickedTile = tile
	ctx.ActionTile = tile
	ctx.Destination = g.NodeAtTile(tile)
	ctx.Path = nil
	ctx.Intent = IntentMove
	ctx.Action = ActionNone
	ctx.ActOnArrival = false
	ctx.ActFromNeighborTile = false
	ctx.DestinationOccupied = false
	ctx.Redirected = false
	ctx.Diagonal = false
	ctx.ToolRequest = world.ToolNone
	ctx.ToolSlot = -1
	ctx.Content = world.TileContent{}
	ctx.Hotspot = nil
	ctx.Target = ""

	if hp, ok := w.(world.HotspotProvider); ok {
		if h, ok := hp.HotspotAt(tile); ok {
			hotspot := h
			ctx.Hotspot = &hotspot
			return redirect(g, c, ctx, h.Approach, decision{action: ActionDoAction, slot: -1})
		}
	}

	content := world.ContentAt(w, tile)
	ctx.Content = content
	var d decision
	switch content.Kind {
	case world.ContentEntity:
		d = classifyEntity(c, s, *content.Entity)
	case world.ContentObject:
		d = classifyObject(c, *content.Object)
	case world.ContentTerrain:
		d = classifyTerrain(c, *content.Terrain)
	case world.ContentBuilding:
		door := content.Building.Door
		ctx.ActionTile = door
		return redirect(g, c, ctx, door.Add(0, 1), decision{action: ActionDoAction, slot: -1})
	default:
		switch {
		case w.IsWater(tile):
			return resolveWater(g, c, ctx)
		case w.IsActionableTile(tile):
			d = decision{policy: policyEither, action: ActionDoAction, slot: -1}
			if !w.IsPassable(tile) {
				d.policy = policyNeighbour
			}
		case w.IsPassable(tile):
			d = decision{policy: policyMove, slot: -1}
		default:
			return false
		}
	}
	apply(w, c, ctx, d)
	return route(g, c, ctx)
}

func apply(w world.World, c world.Character, ctx *ClickContext, d decision) {
	p := d.policy
	if p == policyEither {
		p = policyOnTile
		if preferNeighbour(w, c.Tile(), ctx.ClickedTile) {
			p = policyNeighbour
		}
	}
	ctx.Action = d.action
	ctx.ToolRequest = d.tool
	ctx.ToolSlot = d.slot
	ctx.Target = d.target
	switch p {
	case policyNeighbour:
		ctx.ActFromNeighborTile = true
		ctx.Intent = IntentActFromNeighbor
	case policyOnTile:
		ctx.ActOnArrival = true
		ctx.Intent = IntentActOnTile
	default:
		ctx.Intent = IntentMove
	}
	if ctx.Action == ActionNone && ctx.Intent != IntentMove {
		ctx.Intent = IntentMove
		ctx.ActOnArrival = false
	}
}

func redirect(g *pathfinding.Graph, c world.Character, ctx *ClickContext, stand world.Tile, d decision) bool {
	node := g.NodeAtTile(stand)
	if node == nil || !g.IsPassable(node) {
		return false
	}
	ctx.Destination = node
	ctx.Redirected = true
	ctx.ActFromNeighborTile = true
	ctx.Intent = IntentActFromNeighbor
	ctx.Action = d.action
	ctx.ToolRequest = d.tool
	ctx.ToolSlot = d.slot
	if ctx.Action == ActionNone {
		ctx.Intent = IntentMove
	}
	return route(g, c, ctx)
}

func resolveWater(g *pathfinding.Graph, c world.Character, ctx *ClickContext) bool {
	water := g.NodeAtTile(ctx.ClickedTile)
	start := g.NodeAtTile(c.Tile())
	stand := g.GetNearestLandNodePerpendicularToWaterSource(start, water)
	if stand == nil {
		return false
	}
	ctx.ActionTile = facedWater(g, stand, water)
	return redirect(g, c, ctx, stand.Tile(), waterTool(c))
}

// facedWater picks the water tile next to stand, along the axis toward the
// clicked water when they line up.
func facedWater(g *pathfinding.Graph, stand, water *pathfinding.Node) world.Tile {
	if stand.X == water.X || stand.Y == water.Y {
		step := world.Tile{X: sign(water.X - stand.X), Y: sign(water.Y - stand.Y)}
		return stand.Tile().Add(step.X, step.Y)
	}
	if n := g.WaterFacing(stand); n != nil {
		return n.Tile()
	}
	return water.Tile()
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// route plans ctx.Path toward ctx.Destination. Occupied destinations are
// fake-cleared for the search only; neighbour routes then stop one tile
// short, or on a diagonal neighbour when the direct approach is walled off.
func route(g *pathfinding.Graph, c world.Character, ctx *ClickContext) bool {
	start := g.NodeAtTile(c.Tile())
	dest := ctx.Destination
	if start == nil || dest == nil {
		return false
	}
	approach := ctx.ActFromNeighborTile && !ctx.Redirected
	if approach && start.Tile().IsAdjacent(dest.Tile()) {
		ctx.DestinationOccupied = !g.IsPassable(dest)
		ctx.Path = pathfinding.NewPath()
		return true
	}

	occupied := !g.IsPassable(dest)
	ctx.DestinationOccupied = occupied
	if occupied && !approach {
		return false
	}
	g.EnsureBubbles()
	if approach && !dest.FakeClear {
		dest.FakeClear = true
		defer func() { dest.FakeClear = false }()
	}

	path := g.FindPathWithBubbleCheck(start, dest)
	ctx.Diagonal = false
	if path == nil && approach {
		path = g.FindPathToNeighborDiagonalWithBubbleCheck(start, dest)
		ctx.Diagonal = path != nil
	}
	if path == nil {
		return false
	}
	if approach && !ctx.Diagonal {
		path.DropLast()
	}
	keepTail := 0
	if approach {
		keepTail = 2
	}
	path.SmoothRightAngles(g, keepTail)
	ctx.Path = path
	return true
}
