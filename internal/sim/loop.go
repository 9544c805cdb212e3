package sim

import (
	"context"
	"sync"
	"time"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/controller"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/interaction"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/telemetry"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/world"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging"
)

const (
	// CommandRejectQueueLimit indicates a command was dropped due to per-actor
	// queue throttling.
	CommandRejectQueueLimit = "queue_limit"
	// CommandRejectQueueFull indicates the global command buffer is saturated.
	CommandRejectQueueFull = "queue_full"
	// CommandRejectUnknownLocation indicates no controller drives the location.
	CommandRejectUnknownLocation = "unknown_location"
	// CommandRejectInvalid indicates a command missing its payload.
	CommandRejectInvalid = "invalid_command"
)

// LoopConfig tunes the command buffer and tick loop orchestration.
type LoopConfig struct {
	TickRate        int
	CatchupMaxTicks int
	CommandCapacity int
	PerActorLimit   int
}

// DefaultLoopConfig runs at sixty ticks per second.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		TickRate:        60,
		CatchupMaxTicks: 3,
		CommandCapacity: 256,
		PerActorLimit:   32,
	}
}

func (cfg LoopConfig) normalized() LoopConfig {
	def := DefaultLoopConfig()
	if cfg.TickRate <= 0 {
		cfg.TickRate = def.TickRate
	}
	if cfg.CatchupMaxTicks < 1 {
		cfg.CatchupMaxTicks = 1
	}
	if cfg.CommandCapacity < 1 {
		cfg.CommandCapacity = def.CommandCapacity
	}
	if cfg.PerActorLimit < 0 {
		cfg.PerActorLimit = 0
	}
	return cfg
}

// Body is a character the loop moves after the controllers ran.
type Body interface {
	world.Actor
	Step(dt float64)
}

// effectLog is implemented by worlds that record their mutations.
type effectLog interface {
	Effects() []world.Effect
}

// LoopTickContext describes one tick.
type LoopTickContext struct {
	Tick  uint64
	Now   time.Time
	Delta float64
}

// LoopStepResult reports what a tick did.
type LoopStepResult struct {
	Tick         uint64
	Now          time.Time
	Delta        float64
	Duration     time.Duration
	Budget       time.Duration
	ClampedDelta bool
	Commands     []Command
	Rejected     int
	Snapshot     Snapshot
}

// LoopHooks observe the loop.
type LoopHooks struct {
	AfterStep     func(LoopStepResult)
	OnCommandDrop func(reason string, cmd Command)
}

type body struct {
	actor   Body
	effects int
}

// Loop coordinates command ingestion and the fixed-timestep controller
// updates. Only the goroutine running the loop touches the registry.
type Loop struct {
	registry *controller.Registry
	buffer   *CommandBuffer
	hooks    LoopHooks
	config   LoopConfig
	clock    logging.Clock
	logger   telemetry.Logger
	metrics  *telemetry.Counters

	bodies          map[string]*body
	defaultLocation string
	tick            uint64

	queueMu       sync.Mutex
	perActorCount map[string]int
	dropCounts    map[string]uint64

	// locations mirrors the registry names for readers off the loop.
	locMu     sync.RWMutex
	locations []string
}

// LoopDeps are the collaborators of a loop.
type LoopDeps struct {
	Registry *controller.Registry
	Clock    logging.Clock
	Logger   telemetry.Logger
	Metrics  *telemetry.Counters
}

// NewLoop wraps the registry with a ring-buffer queue and ticker.
func NewLoop(cfg LoopConfig, deps LoopDeps, hooks LoopHooks) *Loop {
	if deps.Registry == nil {
		return nil
	}
	cfg = cfg.normalized()
	clock := deps.Clock
	if clock == nil {
		clock = logging.SystemClock
	}
	logger := telemetry.WithPrefix(deps.Logger, "[loop] ")
	metrics := deps.Metrics
	if metrics == nil {
		metrics = telemetry.NewCounters()
	}
	return &Loop{
		registry:      deps.Registry,
		buffer:        NewCommandBuffer(cfg.CommandCapacity, metrics),
		hooks:         hooks,
		config:        cfg,
		clock:         clock,
		logger:        logger,
		metrics:       metrics,
		bodies:        make(map[string]*body),
		perActorCount: make(map[string]int),
		dropCounts:    make(map[string]uint64),
	}
}

// AddBody registers the character moving through a location. The first
// location added receives commands that do not name one.
func (l *Loop) AddBody(location string, actor Body) {
	if l == nil || actor == nil {
		return
	}
	l.bodies[location] = &body{actor: actor}
	if l.defaultLocation == "" {
		l.defaultLocation = location
	}
	l.publishLocations(l.registry.Names())
}

// Locations returns the location names as of the last tick. It is safe to
// call from any goroutine.
func (l *Loop) Locations() []string {
	if l == nil {
		return nil
	}
	l.locMu.RLock()
	defer l.locMu.RUnlock()
	return append([]string(nil), l.locations...)
}

func (l *Loop) publishLocations(names []string) {
	l.locMu.Lock()
	l.locations = names
	l.locMu.Unlock()
}

// Config returns the normalized loop configuration.
func (l *Loop) Config() LoopConfig {
	if l == nil {
		return LoopConfig{}
	}
	return l.config
}

// Pending reports the number of staged commands.
func (l *Loop) Pending() int {
	if l == nil {
		return 0
	}
	return l.buffer.Len()
}

// Enqueue stages a command, enforcing per-actor throttling and capacity limits.
func (l *Loop) Enqueue(cmd Command) (bool, string) {
	if l == nil {
		return false, CommandRejectQueueFull
	}
	if !valid(cmd) {
		l.reportDrop(CommandRejectInvalid, cmd, 0)
		return false, CommandRejectInvalid
	}
	reason := ""
	var dropCount uint64
	l.queueMu.Lock()
	if l.config.PerActorLimit > 0 && cmd.ActorID != "" {
		count := l.perActorCount[cmd.ActorID]
		if count >= l.config.PerActorLimit {
			reason = CommandRejectQueueLimit
			dropCount = l.incrementDropLocked(cmd.ActorID)
		} else {
			l.perActorCount[cmd.ActorID] = count + 1
		}
	}
	if reason == "" && !l.buffer.Push(cmd) {
		reason = CommandRejectQueueFull
		dropCount = l.incrementDropLocked(cmd.ActorID)
	}
	l.queueMu.Unlock()
	if reason != "" {
		if reason == CommandRejectQueueLimit {
			l.metrics.Add(telemetry.KeyCommandsDropped, 1)
		}
		l.reportDrop(reason, cmd, dropCount)
		return false, reason
	}
	return true, ""
}

func valid(cmd Command) bool {
	switch cmd.Type {
	case CommandClick, CommandClickHeld, CommandClickRelease:
		return cmd.Pointer != nil
	case CommandJoystick:
		return cmd.Joystick != nil
	case CommandReset:
		return true
	default:
		return false
	}
}

// Advance executes a single tick: staged commands first, then every
// controller, then character movement.
func (l *Loop) Advance(ctx context.Context, tc LoopTickContext) LoopStepResult {
	if l == nil {
		return LoopStepResult{}
	}
	l.tick = tc.Tick
	commands := l.drainCommands()
	rejected := 0
	for _, cmd := range commands {
		if !l.apply(ctx, cmd, tc.Now) {
			rejected++
		}
	}
	l.registry.Update(ctx, tc.Tick)
	names := l.registry.Names()
	for _, name := range names {
		b, ok := l.bodies[name]
		if !ok {
			continue
		}
		b.actor.Step(tc.Delta)
		l.invalidateOnChange(name, b)
	}
	l.publishLocations(names)
	l.metrics.Add(telemetry.KeyTicks, 1)
	return LoopStepResult{
		Tick:     tc.Tick,
		Now:      tc.Now,
		Delta:    tc.Delta,
		Commands: commands,
		Rejected: rejected,
		Snapshot: l.Snapshot(),
	}
}

func (l *Loop) apply(ctx context.Context, cmd Command, now time.Time) bool {
	location := cmd.Location
	if location == "" {
		location = l.defaultLocation
	}
	pctx, ok := l.registry.Get(location)
	if !ok {
		l.metrics.Add(telemetry.KeyCommandsDropped, 1)
		l.reportDrop(CommandRejectUnknownLocation, cmd, 0)
		return false
	}
	at := cmd.IssuedAt
	if at.IsZero() {
		at = now
	}
	ctrl := pctx.Controller
	switch cmd.Type {
	case CommandClick:
		ctrl.OnClick(ctx, pointerRequest(cmd, at))
	case CommandClickHeld:
		ctrl.OnClickHeld(ctx, pointerRequest(cmd, at))
	case CommandClickRelease:
		ctrl.OnClickRelease(ctx, pointerRequest(cmd, at))
	case CommandJoystick:
		ctrl.OnJoystick(ctx, cmd.Joystick.DX, cmd.Joystick.DY)
	case CommandReset:
		ctrl.Reset(ctx)
	}
	return true
}

func pointerRequest(cmd Command, at time.Time) interaction.ClickRequest {
	return interaction.ClickRequest{
		Point: world.Vec2{X: cmd.Pointer.X, Y: cmd.Pointer.Y},
		At:    at,
	}
}

// invalidateOnChange marks connectivity stale once the world recorded a new
// effect, since chopping, mining and hoeing change traversability.
func (l *Loop) invalidateOnChange(name string, b *body) {
	pctx, ok := l.registry.Get(name)
	if !ok {
		return
	}
	recorder, ok := pctx.World.(effectLog)
	if !ok {
		return
	}
	n := len(recorder.Effects())
	if n == b.effects {
		return
	}
	b.effects = n
	l.registry.Invalidate(name)
}

// Snapshot captures every controlled character and the entities around it.
func (l *Loop) Snapshot() Snapshot {
	if l == nil {
		return Snapshot{}
	}
	snap := Snapshot{Tick: l.tick}
	for _, name := range l.registry.Names() {
		pctx, _ := l.registry.Get(name)
		b, ok := l.bodies[name]
		if !ok {
			continue
		}
		c := b.actor.Snapshot()
		ctrl := pctx.Controller
		cs := CharacterSnapshot{
			Location:    name,
			ID:          c.ID,
			X:           c.Position.X,
			Y:           c.Position.Y,
			Facing:      c.Facing,
			UsingTool:   c.Status.UsingTool,
			Phase:       ctrl.Phase().String(),
			Path:        ctrl.RemainingPath(),
			Attempts:    ctrl.Attempts(),
			StuckCount:  ctrl.StuckCount(),
			OpenedGates: ctrl.OpenedGates(),
		}
		if item, ok := c.HeldItem(); ok {
			cs.Item = item.Name
		}
		if marker, ok := ctrl.NoPathMarker(); ok {
			cs.NoPath = &marker
		}
		if target, ok := ctrl.Target(); ok {
			cs.Target = string(target)
		}
		snap.Characters = append(snap.Characters, cs)
		if lister, ok := pctx.World.(interface{ Entities() []world.Entity }); ok {
			for _, e := range lister.Entities() {
				snap.Entities = append(snap.Entities, EntitySnapshot{
					Location: name,
					Handle:   string(e.Handle),
					Kind:     e.Kind.String(),
					Tile:     e.Tile,
				})
			}
		}
	}
	return snap
}

// Run drives the fixed-timestep loop until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	if l == nil {
		return
	}
	tickRate := l.config.TickRate
	budget := time.Second / time.Duration(tickRate)
	ticker := time.NewTicker(budget)
	defer ticker.Stop()

	budgetSeconds := budget.Seconds()
	maxDt := budgetSeconds * float64(l.config.CatchupMaxTicks)
	last := l.clock.Now()
	var tick uint64

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := l.clock.Now()
			dt := now.Sub(last).Seconds()
			clamped := false
			if dt <= 0 {
				dt = budgetSeconds
			} else if dt > maxDt {
				dt = maxDt
				clamped = true
			}
			last = now
			tick++

			start := l.clock.Now()
			result := l.Advance(ctx, LoopTickContext{Tick: tick, Now: now, Delta: dt})
			result.Duration = l.clock.Now().Sub(start)
			result.Budget = budget
			result.ClampedDelta = clamped
			l.metrics.RecordTickDuration(result.Duration)
			if result.Duration > budget {
				l.logger.Printf("tick %d took %s (budget %s)", tick, result.Duration, budget)
			}

			if l.hooks.AfterStep != nil {
				l.hooks.AfterStep(result)
			}
		}
	}
}

func (l *Loop) drainCommands() []Command {
	l.queueMu.Lock()
	defer l.queueMu.Unlock()
	commands := l.buffer.Drain()
	if len(l.perActorCount) > 0 {
		l.perActorCount = make(map[string]int)
	}
	return commands
}

func (l *Loop) incrementDropLocked(actorID string) uint64 {
	if actorID == "" {
		return 0
	}
	count := l.dropCounts[actorID] + 1
	l.dropCounts[actorID] = count
	return count
}

func (l *Loop) reportDrop(reason string, cmd Command, count uint64) {
	if l.hooks.OnCommandDrop != nil {
		l.hooks.OnCommandDrop(reason, cmd)
	}
	if count > 0 && count&(count-1) == 0 {
		l.logger.Printf(
			"backpressure: dropping command actor=%s type=%s count=%d limit=%d",
			cmd.ActorID,
			cmd.Type,
			count,
			l.config.PerActorLimit,
		)
	}
}
