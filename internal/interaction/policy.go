package interaction

import "github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/world"

type policy int

const (
	// policyMove walks onto the tile and does nothing else.
	policyMove policy = iota
	// policyOnTile walks onto the tile and acts there.
	policyOnTile
	// policyNeighbour stops on an adjacent tile and acts on the clicked one.
	policyNeighbour
	// policyEither lets the tie-break pick between on-tile and neighbour.
	policyEither
)

type decision struct {
	policy policy
	action Action
	tool   world.ToolKind
	slot   int
	target world.Handle
}

// toolDecision asks for kind unless it is already in hand. Characters that
// do not own the tool only walk up to the target.
func toolDecision(c world.Character, p policy, kind world.ToolKind) decision {
	if c.HeldTool() == kind {
		return decision{policy: p, action: ActionUseTool, slot: -1}
	}
	if c.FindTool(kind) < 0 {
		return decision{policy: p, action: ActionNone, slot: -1}
	}
	return decision{policy: p, action: ActionUseTool, tool: kind, slot: -1}
}

func classifyEntity(c world.Character, s *Session, e world.Entity) decision {
	d := decision{policy: policyNeighbour, action: ActionDoAction, slot: -1, target: e.Handle}
	switch e.Kind {
	case world.EntityHostile:
		if c.HeldTool().IsMelee() {
			d.action = ActionUseTool
			return d
		}
		slot := s.weaponSlot(c)
		if slot < 0 {
			d.action = ActionNone
			return d
		}
		d.action = ActionUseTool
		d.tool = c.Inventory[slot].Tool
		d.slot = slot
	case world.EntityMount:
		d.action = ActionMount
	case world.EntityFarmAnimal:
		if kind := world.ParseToolKind(e.RequiredTool); kind != world.ToolNone {
			if td := toolDecision(c, policyNeighbour, kind); td.action == ActionUseTool {
				td.target = e.Handle
				return td
			}
		}
	}
	return d
}

func classifyObject(c world.Character, o world.Object) decision {
	switch o.Kind {
	case world.ObjectChoppable:
		return toolDecision(c, policyNeighbour, world.ToolAxe)
	case world.ObjectMinable:
		return toolDecision(c, policyNeighbour, world.ToolPickaxe)
	case world.ObjectBreakable:
		if c.HeldTool().IsMelee() {
			return decision{policy: policyNeighbour, action: ActionUseTool, slot: -1}
		}
		if c.FindTool(world.ToolScythe) < 0 && c.FindTool(world.ToolMeleeWeapon) >= 0 {
			return toolDecision(c, policyNeighbour, world.ToolMeleeWeapon)
		}
		return toolDecision(c, policyNeighbour, world.ToolScythe)
	case world.ObjectGate:
		if o.Open {
			return decision{policy: policyEither, action: ActionDoAction, slot: -1}
		}
		return decision{policy: policyNeighbour, action: ActionDoAction, slot: -1}
	case world.ObjectForage:
		return decision{policy: policyEither, action: ActionDoAction, slot: -1}
	default:
		return decision{policy: policyNeighbour, action: ActionDoAction, slot: -1}
	}
}

func classifyTerrain(c world.Character, tf world.Terrain) decision {
	switch tf.Kind {
	case world.TerrainTree:
		return toolDecision(c, policyNeighbour, world.ToolAxe)
	case world.TerrainFruitTree, world.TerrainBush:
		return decision{policy: policyNeighbour, action: ActionDoAction, slot: -1}
	case world.TerrainHoeDirt:
		if tf.HasCrop && tf.Ready {
			return decision{policy: policyEither, action: ActionDoAction, slot: -1}
		}
		if d := toolDecision(c, policyNeighbour, world.ToolWateringCan); d.action == ActionUseTool {
			return d
		}
		return decision{policy: policyMove, slot: -1}
	default:
		return decision{policy: policyMove, slot: -1}
	}
}

func waterTool(c world.Character) decision {
	held := c.HeldTool()
	if held == world.ToolFishingRod || held == world.ToolWateringCan {
		return decision{policy: policyNeighbour, action: ActionUseTool, slot: -1}
	}
	if c.FindTool(world.ToolFishingRod) >= 0 {
		return toolDecision(c, policyNeighbour, world.ToolFishingRod)
	}
	return toolDecision(c, policyNeighbour, world.ToolWateringCan)
}

// preferNeighbour settles policyEither: act from the current tile only when
// the character is adjacent but cannot enter the target in one straight step.
func preferNeighbour(w world.World, from, target world.Tile) bool {
	if !from.IsAdjacent(target) {
		return false
	}
	straight := from.ManhattanDistance(target) == 1
	return !straight || !w.IsPassable(target)
}
