package controller

import (
	"context"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/interaction"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/telemetry"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/world"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging/navigation"
)

// Recovery strategies reported on navigation.stuck events.
const (
	StrategyGridExact    = "grid_exact"
	StrategyInvert       = "invert"
	StrategyDismount     = "dismount"
	StrategyEntityAction = "entity_action"
	StrategyRestart      = "restart"
	StrategyHalt         = "halt"
)

func (c *Controller) follow(ctx context.Context, snap world.Character) {
	here := snap.Tile()
	for !c.path.Empty() && c.path.First().Tile() == here {
		c.path.Pop()
		c.stuckCount = 0
		c.lastDistance = 0
	}
	if c.path.Empty() {
		c.enterFinalTile(snap)
		c.onFinalTile(ctx, snap)
		return
	}

	next := c.path.First().Tile()
	target := next.Center()
	delta := target.Sub(snap.Position)
	dist := delta.Length()

	if !snap.Status.UsingTool {
		if c.lastDistance > 0 && dist > c.lastDistance-c.cfg.ProgressEpsilon {
			c.stuckCount++
		} else {
			c.stuckCount = 0
		}
		c.lastDistance = dist
	}

	switch {
	case c.stuckCount >= c.cfg.StuckGiveUpThreshold:
		c.recover(ctx, snap, next)
		return
	case c.stuckCount >= c.cfg.StuckCorrectThreshold:
		if (c.stuckCount-c.cfg.StuckCorrectThreshold)%2 == 0 {
			delta = world.Vec2{X: float64(next.X - here.X), Y: float64(next.Y - here.Y)}
			c.stuck(ctx, StrategyGridExact, here)
		} else {
			delta = world.Vec2{X: -delta.X, Y: -delta.Y}
			c.stuck(ctx, StrategyInvert, here)
		}
	}
	c.actor.SetIntent(delta.X, delta.Y)
	c.actor.SetFacing(world.DeriveFacing(delta.X, delta.Y, snap.Facing))
}

// recover runs the give-up strategies in order: dismount, poke the entity in
// the way, then restart the click until the attempt cap halts it.
func (c *Controller) recover(ctx context.Context, snap world.Character, next world.Tile) {
	w := c.graph.World()
	here := snap.Tile()
	c.stuckCount = 0
	c.lastDistance = 0

	if snap.Status.Mounted && !c.dismounted {
		c.dismounted = true
		c.actor.Dismount()
		c.stuck(ctx, StrategyDismount, here)
		return
	}
	if !c.poked {
		if _, ok := w.OccupyingEntity(next); ok {
			c.poked = true
			w.PerformAction(next, snap.ID)
			c.stuck(ctx, StrategyEntityAction, here)
			return
		}
	}
	if c.attempts >= c.cfg.MaxAttempts {
		c.stuck(ctx, StrategyHalt, here)
		c.reset(ctx, ReasonStuck)
		return
	}
	c.stuck(ctx, StrategyRestart, here)
	req := c.request
	click := interaction.Interpret(c.graph, snap, c.session, req)
	if click.Rejected() {
		c.reset(ctx, ReasonStuck)
		c.rejected(ctx, click)
		return
	}
	c.begin(ctx, req, click, c.attempts+1)
}

func (c *Controller) stuck(ctx context.Context, strategy string, at world.Tile) {
	c.metrics.Add(telemetry.KeyStuckRecoveries, 1)
	navigation.Stuck(ctx, c.publisher, c.tick, c.actorRef(), c.click.TraceID(), navigation.StuckPayload{
		Count:    c.stuckCount,
		Attempt:  c.attempts,
		Strategy: strategy,
		Tile:     at,
	}, c.extra())
}

func (c *Controller) enterFinalTile(snap world.Character) {
	c.phase = PhaseOnFinalTile
	c.standTile = snap.Tile()
	c.finalTicks = 0
	c.stuckCount = 0
	c.lastDistance = 0
}

// onFinalTile closes the remaining sub-tile distance. Neighbour actions keep
// the character inside a distance band around the action tile; everything
// else settles on the destination centre.
func (c *Controller) onFinalTile(ctx context.Context, snap world.Character) {
	click := c.click
	c.finalTicks++
	if click.Intent == interaction.IntentSelf || c.finalTicks > c.cfg.StuckGiveUpThreshold*4 {
		c.arrive()
		return
	}

	if click.ActFromNeighborTile && !click.Redirected {
		action := click.ActionTile.Center()
		dist := snap.Position.Distance(action)
		switch {
		case dist < c.cfg.TooClose*c.cfg.TileSize:
			away := snap.Position.Sub(action)
			c.actor.SetIntent(away.X, away.Y)
		case dist > c.cfg.TooFar*c.cfg.TileSize:
			toward := c.standTile.Center().Sub(snap.Position)
			c.actor.SetIntent(toward.X, toward.Y)
		default:
			c.arrive()
		}
		return
	}

	dest := snap.Tile()
	if click.Destination != nil {
		dest = click.Destination.Tile()
	}
	delta := dest.Center().Sub(snap.Position)
	if delta.Length() <= c.cfg.ArriveRadius {
		c.arrive()
		return
	}
	c.actor.SetIntent(delta.X, delta.Y)
}

func (c *Controller) arrive() {
	c.actor.SetIntent(0, 0)
	c.phase = PhaseReachedEndOfPath
}
