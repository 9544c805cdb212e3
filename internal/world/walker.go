package world

import "math"

const (
	// DefaultWalkSpeed is the walking speed in pixels per second.
	DefaultWalkSpeed = 300.0
	// WalkerHalf is half the edge of the walker's collision box.
	WalkerHalf = 16.0
)

// Walker is a simulated character that moves over a World with tile
// collision. The demo host and the controller tests drive it as their Actor.
type Walker struct {
	world     World
	character Character
	intentX   float64
	intentY   float64
	toolTicks int
	charging  bool
}

// NewWalker places a character on the world.
func NewWalker(w World, c Character) *Walker {
	if c.Speed <= 0 {
		c.Speed = DefaultWalkSpeed
	}
	if c.Facing == "" {
		c.Facing = FacingDown
	}
	return &Walker{world: w, character: c}
}

// Snapshot implements Actor.
func (wk *Walker) Snapshot() Character {
	c := wk.character
	c.Inventory = append([]Item(nil), wk.character.Inventory...)
	c.Status.UsingTool = wk.toolTicks > 0 || wk.charging
	return c
}

// SetIntent implements Actor.
func (wk *Walker) SetIntent(dx, dy float64) {
	wk.intentX = dx
	wk.intentY = dy
}

// Intent reports the last movement vector written by the controller.
func (wk *Walker) Intent() (float64, float64) {
	return wk.intentX, wk.intentY
}

// SetFacing implements Actor.
func (wk *Walker) SetFacing(f Facing) {
	if f != "" {
		wk.character.Facing = f
	}
}

// SelectItem implements Actor.
func (wk *Walker) SelectItem(index int) {
	if index < 0 || index >= len(wk.character.Inventory) {
		return
	}
	wk.character.CurrentItem = index
}

// ReleaseTool implements Actor.
func (wk *Walker) ReleaseTool() {
	if wk.charging {
		wk.charging = false
		wk.toolTicks = DefaultToolAnimationTicks
	}
}

// Dismount implements Actor.
func (wk *Walker) Dismount() {
	wk.character.Status.Mounted = false
}

// StartToolAnimation keeps the walker busy for the given number of ticks.
func (wk *Walker) StartToolAnimation(ticks int) {
	if ticks > wk.toolTicks {
		wk.toolTicks = ticks
	}
}

// BeginCharge marks a chargeable tool as held until ReleaseTool.
func (wk *Walker) BeginCharge() {
	wk.charging = true
}

// SetStatus overwrites the status flags, keeping tool state owned by the walker.
func (wk *Walker) SetStatus(s Status) {
	s.UsingTool = false
	wk.character.Status = s
}

// Teleport moves the walker without collision.
func (wk *Walker) Teleport(p Vec2) {
	wk.character.Position = p
}

// Step advances the walker by dt seconds, resolving each axis separately so
// the walker slides along walls instead of sticking to them.
func (wk *Walker) Step(dt float64) {
	if wk.toolTicks > 0 {
		wk.toolTicks--
		return
	}
	if wk.charging {
		return
	}
	dx := wk.intentX
	dy := wk.intentY
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	dx /= length
	dy /= length
	wk.character.Facing = DeriveFacing(dx, dy, wk.character.Facing)

	step := wk.character.Speed * dt
	pos := wk.character.Position
	if dx != 0 {
		next := Vec2{X: pos.X + dx*step, Y: pos.Y}
		if wk.clear(next) {
			pos = next
		}
	}
	if dy != 0 {
		next := Vec2{X: pos.X, Y: pos.Y + dy*step}
		if wk.clear(next) {
			pos = next
		}
	}
	wk.character.Position = pos
}

func (wk *Walker) clear(p Vec2) bool {
	if wk.world == nil {
		return true
	}
	corners := [...]Vec2{
		{X: p.X - WalkerHalf, Y: p.Y - WalkerHalf},
		{X: p.X + WalkerHalf - 1, Y: p.Y - WalkerHalf},
		{X: p.X - WalkerHalf, Y: p.Y + WalkerHalf - 1},
		{X: p.X + WalkerHalf - 1, Y: p.Y + WalkerHalf - 1},
	}
	own := TileAt(wk.character.Position)
	for _, corner := range corners {
		t := TileAt(corner)
		if t == own {
			continue
		}
		if !wk.world.IsPassable(t) {
			return false
		}
		if _, occupied := wk.world.OccupyingEntity(t); occupied {
			return false
		}
	}
	return true
}
