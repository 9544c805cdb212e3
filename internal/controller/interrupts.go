package controller

import (
	"context"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/interaction"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/telemetry"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/world"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging/navigation"
)

// attack strikes an adjacent hostile when a melee tool is held. It reports
// whether the tick was spent attacking.
func (c *Controller) attack(ctx context.Context, snap world.Character) bool {
	if !c.cfg.AutoAttack || snap.Status.UsingTool || !snap.HeldTool().IsMelee() {
		return false
	}
	if c.phase == PhaseUsingJoystick || c.phase == PhaseReleaseTool || c.phase == PhaseReachedEndOfPath {
		return false
	}
	hostile, ok := c.adjacentHostile(snap.Tile())
	if !ok {
		return false
	}
	c.actor.SetIntent(0, 0)
	c.actor.SetFacing(world.FacingToward(snap.Tile(), hostile.Tile, snap.Facing))
	c.graph.World().UseTool(snap.ID, hostile.Tile)
	c.session.RememberWeapon(snap, snap.CurrentItem)
	c.metrics.Add(telemetry.KeyAttacks, 1)
	navigation.Attack(ctx, c.publisher, c.tick, logging.CharacterRef(snap.ID),
		logging.EntityRef{ID: string(hostile.Handle), Kind: logging.EntityKindEntity},
		navigation.AttackPayload{Tile: hostile.Tile, Tool: snap.HeldTool().String()}, c.extra())
	return true
}

// adjacentHostile scans the tiles within attack range in row order.
func (c *Controller) adjacentHostile(center world.Tile) (world.Entity, bool) {
	w := c.graph.World()
	r := c.cfg.AttackRange
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			t := center.Add(dx, dy)
			if !world.InBounds(w, t) {
				continue
			}
			if e, ok := w.OccupyingEntity(t); ok && e.Kind == world.EntityHostile {
				return e, true
			}
		}
	}
	return world.Entity{}, false
}

// trackTarget re-plans the route when the tracked entity moved. It reports
// false when the interaction was reset.
func (c *Controller) trackTarget(ctx context.Context, snap world.Character) bool {
	if !c.phase.moving() || c.click == nil || c.click.Target == "" {
		return true
	}
	e, ok := c.graph.World().FindEntity(c.click.Target)
	if !ok {
		c.reset(ctx, ReasonTargetGone)
		return false
	}
	if e.Tile == c.targetTile {
		return true
	}
	c.targetTile = e.Tile
	if !interaction.Retarget(c.graph, snap, c.click, e) {
		c.reset(ctx, ReasonTargetGone)
		return false
	}
	c.path = c.click.Path
	c.phase = PhaseFollowingPath
	c.stuckCount = 0
	c.lastDistance = 0
	return true
}

// openGate opens the first closed gate on the remaining route once the
// character is within range of it.
func (c *Controller) openGate(ctx context.Context, snap world.Character) {
	if c.phase != PhaseFollowingPath || c.path.Empty() {
		return
	}
	w := c.graph.World()
	gate := c.path.ContainsGate(w)
	if gate == nil {
		return
	}
	t := gate.Tile()
	if c.gatesOpened.Has(t) || snap.Position.Distance(t.Center()) > c.cfg.GateRange {
		return
	}
	if !w.PerformAction(t, snap.ID) {
		return
	}
	c.gatesOpened.Put(t)
	c.metrics.Add(telemetry.KeyGatesOpened, 1)
	navigation.GateOpened(ctx, c.publisher, c.tick, logging.CharacterRef(snap.ID), c.click.TraceID(),
		navigation.GatePayload{Tile: t}, c.extra())
}
