package controller

import (
	"context"

	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/stack"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/interaction"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/pathfinding"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/telemetry"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/world"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging/navigation"
)

// Reset reasons reported on navigation.reset events.
const (
	ReasonCancelled     = "cancelled"
	ReasonStuck         = "stuck"
	ReasonStale         = "stale_destination"
	ReasonTargetGone    = "target_gone"
	ReasonIncapacitated = "incapacitated"
	ReasonJoystick      = "joystick"
)

// Options wires a controller to its collaborators. A zero Config selects
// DefaultConfig; nil sinks discard.
type Options struct {
	Config    Config
	Publisher logging.Publisher
	Metrics   telemetry.Metrics
	Session   *interaction.Session
}

// Controller walks one character along click routes and performs the
// interpreted action on arrival. It is driven by a single goroutine: input
// edges and Update must not be called concurrently.
type Controller struct {
	cfg       Config
	graph     *pathfinding.Graph
	actor     world.Actor
	session   *interaction.Session
	publisher logging.Publisher
	metrics   telemetry.Metrics

	phase Phase
	click *interaction.ClickContext
	path  *pathfinding.Path
	// request is the click that started the interaction, kept for restarts.
	request interaction.ClickRequest

	stuckCount   int
	lastDistance float64
	attempts     int
	dismounted   bool
	poked        bool
	finalTicks   int
	standTile    world.Tile
	targetTile   world.Tile
	holding      bool

	toolUndo    *stack.Stack[int]
	gatesOpened mapset.Set[world.Tile]

	joyX, joyY float64
	noPath     *world.Tile
	tick       uint64
}

// New constructs an idle controller for actor on graph.
func New(graph *pathfinding.Graph, actor world.Actor, opts Options) *Controller {
	cfg := opts.Config
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	cfg = cfg.normalized()
	session := opts.Session
	if session == nil {
		session = interaction.NewSession()
	}
	session.HoldThreshold = cfg.HoldThreshold
	pub := opts.Publisher
	if pub == nil {
		pub = logging.NopPublisher()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}
	return &Controller{
		cfg:         cfg,
		graph:       graph,
		actor:       actor,
		session:     session,
		publisher:   pub,
		metrics:     metrics,
		toolUndo:    stack.New[int](),
		gatesOpened: mapset.New[world.Tile](),
	}
}

// OnClick interprets a click and, unless it is rejected, replaces the current
// interaction with it. The interpreted context is returned for feedback.
func (c *Controller) OnClick(ctx context.Context, req interaction.ClickRequest) *interaction.ClickContext {
	c.session.Press(req.At)
	c.holding = false
	c.metrics.Add(telemetry.KeyClicks, 1)
	return c.start(ctx, req, 1)
}

// OnClickHeld reports that the button is still down over the given point.
// A plain move held past the threshold steers the route to the hovered tile.
func (c *Controller) OnClickHeld(ctx context.Context, req interaction.ClickRequest) {
	if !c.session.Pressed() {
		return
	}
	c.holding = c.session.IsHeld(req.At)
	if !c.holding || !c.phase.moving() || c.click == nil {
		return
	}
	if c.click.Intent != interaction.IntentMove || c.click.Action != interaction.ActionNone {
		return
	}
	hovered := world.TileAt(req.Point)
	if c.click.Destination != nil && c.click.Destination.Tile() == hovered {
		return
	}
	next := interaction.Interpret(c.graph, c.snapshot(), c.session, req)
	if next.Rejected() || next.Intent != interaction.IntentMove || next.Action != interaction.ActionNone {
		return
	}
	c.begin(ctx, req, next, c.attempts)
}

// OnClickRelease reports the button going up. A charged tool fires on release.
func (c *Controller) OnClickRelease(ctx context.Context, req interaction.ClickRequest) {
	c.session.Release(req.At)
	c.holding = false
	if c.phase != PhaseReleaseTool {
		return
	}
	c.actor.ReleaseTool()
	c.useTool(ctx, c.snapshot())
	c.phase = PhasePendingComplete
}

// OnJoystick steers the character directly. A zero vector ends joystick
// control.
func (c *Controller) OnJoystick(ctx context.Context, dx, dy float64) {
	if dx == 0 && dy == 0 {
		if c.phase == PhaseUsingJoystick {
			c.actor.SetIntent(0, 0)
			c.phase = PhaseIdle
		}
		return
	}
	if c.phase != PhaseUsingJoystick {
		if c.Active() {
			c.reset(ctx, ReasonJoystick)
		}
		c.phase = PhaseUsingJoystick
	}
	c.joyX, c.joyY = dx, dy
}

// Update advances the state machine by one tick.
func (c *Controller) Update(ctx context.Context, tick uint64) {
	c.tick = tick
	snap := c.snapshot()

	if c.click != nil && c.click.Destination != nil && !c.graph.Contains(c.click.Destination) {
		c.reset(ctx, ReasonStale)
		return
	}
	if c.Active() && c.phase != PhaseUsingJoystick && snap.Status.Incapacitated() {
		c.reset(ctx, ReasonIncapacitated)
		return
	}
	if !c.phase.moving() && c.attack(ctx, snap) {
		return
	}
	if !c.trackTarget(ctx, snap) {
		return
	}
	c.openGate(ctx, snap)

	switch c.phase {
	case PhaseFollowingPath:
		c.follow(ctx, snap)
	case PhaseOnFinalTile:
		c.onFinalTile(ctx, snap)
	case PhaseReachedEndOfPath:
		if !c.performAction(ctx, snap) {
			c.halt()
		}
	case PhaseUseTool, PhasePendingComplete:
		if !snap.Status.UsingTool {
			c.phase = c.afterAnimation()
		}
	case PhaseReleaseTool:
		c.actor.SetIntent(0, 0)
	case PhaseDoAction, PhaseComplete:
		c.phase = PhaseFinishAction
	case PhaseFinishAction:
		c.finishAction()
	case PhaseUsingJoystick:
		c.actor.SetIntent(c.joyX, c.joyY)
		c.actor.SetFacing(world.DeriveFacing(c.joyX, c.joyY, snap.Facing))
	}
}

func (c *Controller) afterAnimation() Phase {
	if c.phase == PhasePendingComplete {
		return PhaseComplete
	}
	return PhaseFinishAction
}

// Reset cancels any in-progress interaction and clears the no-path marker.
// It is always safe to call.
func (c *Controller) Reset(ctx context.Context) {
	c.reset(ctx, ReasonCancelled)
	c.noPath = nil
}

// Phase reports the current state.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Active reports whether an interaction is in progress.
func (c *Controller) Active() bool {
	return c.phase != PhaseIdle
}

// Target returns the entity the current interaction tracks.
func (c *Controller) Target() (world.Handle, bool) {
	if c.click == nil || c.click.Target == "" {
		return "", false
	}
	return c.click.Target, true
}

// NoPathMarker returns the tile of the last click that could not be routed.
func (c *Controller) NoPathMarker() (world.Tile, bool) {
	if c.noPath == nil {
		return world.Tile{}, false
	}
	return *c.noPath, true
}

// Click returns the interaction being carried out, nil when idle.
func (c *Controller) Click() *interaction.ClickContext {
	return c.click
}

// RemainingPath returns the tiles still to walk.
func (c *Controller) RemainingPath() []world.Tile {
	return c.path.Tiles()
}

// Attempts reports how many times the current click has been routed.
func (c *Controller) Attempts() int {
	return c.attempts
}

// StuckCount reports the current stuck counter.
func (c *Controller) StuckCount() int {
	return c.stuckCount
}

// OpenedGates lists the gates opened during the current interaction.
func (c *Controller) OpenedGates() []world.Tile {
	var out []world.Tile
	c.gatesOpened.Each(func(t world.Tile) {
		out = append(out, t)
	})
	return out
}

// Session returns the interaction session shared with the interpreter.
func (c *Controller) Session() *interaction.Session {
	return c.session
}

// SetGraph swaps the node grid after the map was rebuilt. The current
// destination becomes stale and is dropped on the next Update.
func (c *Controller) SetGraph(g *pathfinding.Graph) {
	c.graph = g
}

func (c *Controller) snapshot() world.Character {
	return c.actor.Snapshot()
}

func (c *Controller) actorRef() logging.EntityRef {
	return logging.CharacterRef(c.snapshot().ID)
}

func (c *Controller) extra() map[string]any {
	if w := c.graph.World(); w != nil {
		return map[string]any{"location": w.Name()}
	}
	return nil
}

// start interprets req and begins following it as the given attempt.
func (c *Controller) start(ctx context.Context, req interaction.ClickRequest, attempt int) *interaction.ClickContext {
	click := interaction.Interpret(c.graph, c.snapshot(), c.session, req)
	c.metrics.Add(telemetry.KeyNodesExpanded, uint64(c.graph.LastSearchExpanded()))
	if click.Rejected() {
		c.rejected(ctx, click)
		return click
	}
	c.begin(ctx, req, click, attempt)
	return click
}

func (c *Controller) rejected(ctx context.Context, click *interaction.ClickContext) {
	if click.NoPathMarker == nil {
		c.metrics.Add(telemetry.KeyClicksRejected, 1)
		navigation.ClickRejected(ctx, c.publisher, c.tick, c.actorRef(), click.TraceID(),
			navigation.ClickRejectedPayload{Reason: click.RejectReason, Tile: click.ClickedTile}, c.extra())
		return
	}
	c.metrics.Add(telemetry.KeyPathsFailed, 1)
	marker := *click.NoPathMarker
	c.noPath = &marker
	navigation.PathRejected(ctx, c.publisher, c.tick, c.actorRef(), click.TraceID(),
		navigation.PathRejectedPayload{Tile: marker}, c.extra())
}

func (c *Controller) begin(ctx context.Context, req interaction.ClickRequest, click *interaction.ClickContext, attempt int) {
	c.restoreTools()
	c.clearMotion()
	c.request = req
	c.click = click
	c.path = click.Path
	c.attempts = attempt
	c.targetTile = click.ActionTile
	c.noPath = nil
	c.gatesOpened = mapset.New[world.Tile]()
	c.phase = PhaseFollowingPath

	dest := click.ClickedTile
	if click.Destination != nil {
		dest = click.Destination.Tile()
	}
	c.metrics.Add(telemetry.KeyPathsComputed, 1)
	payload := navigation.PathComputedPayload{
		Clicked:     click.ClickedTile,
		Destination: dest,
		Steps:       click.Path.Len(),
		Intent:      click.Intent.String(),
		Retried:     click.Retried,
		Diagonal:    click.Diagonal,
	}
	if click.Action != interaction.ActionNone {
		payload.Action = click.Action.String()
	}
	if click.ToolRequest != world.ToolNone {
		payload.Tool = click.ToolRequest.String()
	}
	navigation.PathComputed(ctx, c.publisher, c.tick, c.actorRef(), click.TraceID(), payload, c.extra())
}

// reset returns to Idle, restoring any auto-selected tool.
func (c *Controller) reset(ctx context.Context, reason string) {
	if c.Active() {
		c.metrics.Add(telemetry.KeyResets, 1)
		navigation.Reset(ctx, c.publisher, c.tick, c.actorRef(), c.click.TraceID(),
			navigation.ResetPayload{Reason: reason, Phase: c.phase.String()}, c.extra())
	}
	c.restoreTools()
	c.clearMotion()
	c.click = nil
	c.path = nil
	c.attempts = 0
	c.holding = false
	c.phase = PhaseIdle
	c.actor.SetIntent(0, 0)
}

// halt stops without an action, ending the interaction quietly.
func (c *Controller) halt() {
	c.actor.SetIntent(0, 0)
	c.restoreTools()
	c.clearMotion()
	c.click = nil
	c.path = nil
	c.attempts = 0
	c.phase = PhaseIdle
}

func (c *Controller) clearMotion() {
	c.stuckCount = 0
	c.lastDistance = 0
	c.dismounted = false
	c.poked = false
	c.finalTicks = 0
	c.joyX, c.joyY = 0, 0
}
