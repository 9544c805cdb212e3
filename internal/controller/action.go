package controller

import (
	"context"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/interaction"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/telemetry"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/world"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging/navigation"
)

// charger is implemented by actors that show a charge pose while a tool is
// held.
type charger interface {
	BeginCharge()
}

// performAction carries out the interpreted intent at the end of the route.
// It reports whether an action fired.
func (c *Controller) performAction(ctx context.Context, snap world.Character) bool {
	click := c.click
	if click == nil || click.Action == interaction.ActionNone {
		return false
	}
	if snap.Tile() != click.ActionTile {
		c.actor.SetFacing(world.FacingToward(snap.Tile(), click.ActionTile, snap.Facing))
	}

	switch click.Action {
	case interaction.ActionUseTool:
		slot := click.ToolSlot
		if slot < 0 {
			slot = snap.FindTool(click.ToolRequest)
		}
		if slot >= 0 && slot != snap.CurrentItem {
			c.toolUndo.Push(snap.CurrentItem)
			c.actor.SelectItem(slot)
			snap = c.snapshot()
		}
		if snap.HeldTool().IsChargeable() && c.holding && c.session.Pressed() {
			if ch, ok := c.actor.(charger); ok {
				ch.BeginCharge()
			}
			c.phase = PhaseReleaseTool
			return true
		}
		c.useTool(ctx, snap)
		c.phase = PhaseUseTool
		return true
	default:
		ok := c.graph.World().PerformAction(click.ActionTile, snap.ID)
		c.recordAction(ctx, snap, click, ok)
		c.phase = PhaseDoAction
		return true
	}
}

func (c *Controller) useTool(ctx context.Context, snap world.Character) {
	click := c.click
	ok := c.graph.World().UseTool(snap.ID, click.ActionTile)
	if snap.HeldTool().IsMelee() {
		c.session.RememberWeapon(snap, snap.CurrentItem)
	}
	c.recordAction(ctx, snap, click, ok)
}

func (c *Controller) recordAction(ctx context.Context, snap world.Character, click *interaction.ClickContext, ok bool) {
	c.metrics.Add(telemetry.KeyActions, 1)
	payload := navigation.ActionPayload{
		Kind:    click.Action.String(),
		Tile:    click.ActionTile,
		Success: ok,
	}
	if click.Action == interaction.ActionUseTool {
		payload.Tool = snap.HeldTool().String()
	}
	var target logging.EntityRef
	if h := click.Content.Handle(); h != "" {
		target = logging.EntityRef{ID: string(h), Kind: contentRefKind(click.Content.Kind)}
	}
	navigation.Action(ctx, c.publisher, c.tick, logging.CharacterRef(snap.ID), target, click.TraceID(), payload, c.extra())
}

func contentRefKind(k world.ContentKind) logging.EntityKind {
	switch k {
	case world.ContentEntity:
		return logging.EntityKindEntity
	case world.ContentObject, world.ContentTerrain, world.ContentBuilding:
		return logging.EntityKindObject
	default:
		return logging.EntityKindUnknown
	}
}

// finishAction restores auto-selected tools and returns to Idle.
func (c *Controller) finishAction() {
	c.restoreTools()
	c.clearMotion()
	c.click = nil
	c.path = nil
	c.attempts = 0
	c.phase = PhaseIdle
}

// restoreTools unwinds the tool undo stack, last selection first.
func (c *Controller) restoreTools() {
	for c.toolUndo.Size() > 0 {
		c.actor.SelectItem(c.toolUndo.Pop())
	}
}
