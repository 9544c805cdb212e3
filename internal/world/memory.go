package world

import "sort"

// Cell is the static description of one tile in a MemoryWorld.
type Cell struct {
	Blocked    bool
	Water      bool
	Actionable bool
	Bed        bool
	Object     *Object
	Terrain    *Terrain
}

// EffectKind distinguishes recorded effect calls.
type EffectKind string

const (
	EffectAction EffectKind = "action"
	EffectTool   EffectKind = "tool"
)

// Effect records one PerformAction/UseTool call that changed the world.
type Effect struct {
	Kind    EffectKind `json:"kind"`
	Tile    Tile       `json:"tile"`
	ActorID string     `json:"actorId"`
	Tool    ToolKind   `json:"tool,omitempty"`
	Target  Handle     `json:"target,omitempty"`
}

// DefaultToolAnimationTicks is how long a tool swing keeps the character busy.
const DefaultToolAnimationTicks = 6

type toolAnimator interface {
	StartToolAnimation(ticks int)
}

// MemoryWorld is an in-memory World used by the demo host and tests. It is
// owned by a single goroutine like the rest of the core.
type MemoryWorld struct {
	name      string
	cols      int
	rows      int
	cells     []Cell
	entities  map[Handle]*Entity
	buildings []Building
	hotspots  map[Tile]Hotspot
	interior  bool
	actors    map[string]Actor
	effects   []Effect
}

// NewMemoryWorld constructs an open map of the given size.
func NewMemoryWorld(name string, cols, rows int) *MemoryWorld {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &MemoryWorld{
		name:     name,
		cols:     cols,
		rows:     rows,
		cells:    make([]Cell, cols*rows),
		entities: make(map[Handle]*Entity),
		hotspots: make(map[Tile]Hotspot),
		actors:   make(map[string]Actor),
	}
}

func (w *MemoryWorld) cell(t Tile) *Cell {
	if w == nil || t.X < 0 || t.Y < 0 || t.X >= w.cols || t.Y >= w.rows {
		return nil
	}
	return &w.cells[t.Y*w.cols+t.X]
}

// Name implements World.
func (w *MemoryWorld) Name() string { return w.name }

// Size implements World.
func (w *MemoryWorld) Size() (int, int) { return w.cols, w.rows }

// IsPassable implements World. Entities never make a tile impassable; they
// are dynamic and handled by the follower's stuck recovery.
func (w *MemoryWorld) IsPassable(t Tile) bool {
	c := w.cell(t)
	if c == nil || c.Blocked || c.Water {
		return false
	}
	if c.Object != nil && !objectPassable(*c.Object) {
		return false
	}
	if c.Terrain != nil && !terrainPassable(*c.Terrain) {
		return false
	}
	if _, ok := w.BuildingAt(t); ok {
		return false
	}
	return true
}

func objectPassable(o Object) bool {
	switch o.Kind {
	case ObjectForage:
		return true
	case ObjectGate:
		return o.Open
	default:
		return false
	}
}

func terrainPassable(t Terrain) bool {
	switch t.Kind {
	case TerrainHoeDirt, TerrainGrass:
		return true
	default:
		return false
	}
}

// IsWater implements World.
func (w *MemoryWorld) IsWater(t Tile) bool {
	c := w.cell(t)
	return c != nil && c.Water
}

// OccupyingEntity implements World.
func (w *MemoryWorld) OccupyingEntity(t Tile) (Entity, bool) {
	for _, handle := range w.sortedHandles() {
		if e := w.entities[handle]; e.Tile == t {
			return *e, true
		}
	}
	return Entity{}, false
}

func (w *MemoryWorld) sortedHandles() []Handle {
	handles := make([]Handle, 0, len(w.entities))
	for h := range w.entities {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	return handles
}

// OccupyingObject implements World.
func (w *MemoryWorld) OccupyingObject(t Tile) (Object, bool) {
	c := w.cell(t)
	if c == nil || c.Object == nil {
		return Object{}, false
	}
	return *c.Object, true
}

// TerrainFeatureAt implements World.
func (w *MemoryWorld) TerrainFeatureAt(t Tile) (Terrain, bool) {
	c := w.cell(t)
	if c == nil || c.Terrain == nil {
		return Terrain{}, false
	}
	return *c.Terrain, true
}

// BuildingAt implements World.
func (w *MemoryWorld) BuildingAt(t Tile) (Building, bool) {
	for _, b := range w.buildings {
		if b.Contains(t) {
			return b, true
		}
	}
	return Building{}, false
}

// IsActionableTile implements World.
func (w *MemoryWorld) IsActionableTile(t Tile) bool {
	c := w.cell(t)
	return c != nil && c.Actionable
}

// FindEntity implements World.
func (w *MemoryWorld) FindEntity(h Handle) (Entity, bool) {
	e, ok := w.entities[h]
	if !ok {
		return Entity{}, false
	}
	return *e, true
}

// IsInterior implements Interior.
func (w *MemoryWorld) IsInterior() bool { return w.interior }

// IsBlockingBed implements Interior.
func (w *MemoryWorld) IsBlockingBed(t Tile) bool {
	c := w.cell(t)
	return c != nil && c.Bed
}

// HotspotAt implements HotspotProvider.
func (w *MemoryWorld) HotspotAt(t Tile) (Hotspot, bool) {
	h, ok := w.hotspots[t]
	return h, ok
}

// PerformAction implements World. It opens and closes gates, collects forage
// and machine output, harvests ready crops and acknowledges anything else
// that can be interacted with.
func (w *MemoryWorld) PerformAction(t Tile, actorID string) bool {
	c := w.cell(t)
	if c == nil {
		return false
	}
	record := func(target Handle) bool {
		w.effects = append(w.effects, Effect{Kind: EffectAction, Tile: t, ActorID: actorID, Target: target})
		return true
	}
	if e, ok := w.OccupyingEntity(t); ok {
		return record(e.Handle)
	}
	if c.Object != nil {
		obj := c.Object
		switch obj.Kind {
		case ObjectGate:
			obj.Open = !obj.Open
			return record(obj.Handle)
		case ObjectForage:
			c.Object = nil
			return record(obj.Handle)
		case ObjectMachine:
			if !obj.Ready {
				return false
			}
			obj.Ready = false
			return record(obj.Handle)
		case ObjectChest, ObjectFurniture, ObjectFence:
			return record(obj.Handle)
		default:
			return false
		}
	}
	if c.Terrain != nil {
		tf := c.Terrain
		switch tf.Kind {
		case TerrainHoeDirt:
			if !tf.HasCrop || !tf.Ready {
				return false
			}
			tf.HasCrop = false
			tf.Ready = false
			return record(tf.Handle)
		case TerrainFruitTree, TerrainBush:
			return record(tf.Handle)
		default:
			return false
		}
	}
	if b, ok := w.BuildingAt(t); ok {
		return record(b.Handle)
	}
	for _, b := range w.buildings {
		if b.Door == t {
			return record(b.Handle)
		}
	}
	if _, ok := w.hotspots[t]; ok {
		return record("")
	}
	if c.Actionable {
		return record("")
	}
	return false
}

// UseTool implements World. The held tool of the attached actor decides the
// outcome; a tool that does not match the target's requirement has no effect.
func (w *MemoryWorld) UseTool(actorID string, t Tile) bool {
	c := w.cell(t)
	if c == nil {
		return false
	}
	tool := ToolNone
	if actor, ok := w.actors[actorID]; ok && actor != nil {
		tool = actor.Snapshot().HeldTool()
		if animated, ok := actor.(toolAnimator); ok {
			animated.StartToolAnimation(DefaultToolAnimationTicks)
		}
	}
	record := func(target Handle) bool {
		w.effects = append(w.effects, Effect{Kind: EffectTool, Tile: t, ActorID: actorID, Tool: tool, Target: target})
		return true
	}
	if e, ok := w.OccupyingEntity(t); ok {
		if e.Kind == EntityHostile && tool.IsMelee() {
			delete(w.entities, e.Handle)
			return record(e.Handle)
		}
		if e.Kind == EntityFarmAnimal && e.RequiredTool != "" && ParseToolKind(e.RequiredTool) == tool {
			return record(e.Handle)
		}
		return false
	}
	if c.Object != nil {
		obj := c.Object
		if obj.RequiredTool == "" || ParseToolKind(obj.RequiredTool) != tool {
			if !(obj.Kind == ObjectBreakable && tool.IsMelee()) {
				return false
			}
		}
		c.Object = nil
		return record(obj.Handle)
	}
	if c.Terrain != nil {
		tf := c.Terrain
		switch {
		case tf.Kind == TerrainTree && tool == ToolAxe:
			c.Terrain = nil
			return record(tf.Handle)
		case tf.Kind == TerrainHoeDirt && tool == ToolWateringCan:
			return record(tf.Handle)
		case tf.Kind == TerrainGrass && tool.IsMelee():
			c.Terrain = nil
			return record(tf.Handle)
		}
		return false
	}
	if c.Water && (tool == ToolFishingRod || tool == ToolWateringCan) {
		return record("")
	}
	if tool == ToolHoe && !c.Blocked && !c.Water {
		c.Terrain = &Terrain{Kind: TerrainHoeDirt}
		return record("")
	}
	return false
}

// Effects returns a copy of the recorded effect calls.
func (w *MemoryWorld) Effects() []Effect {
	if len(w.effects) == 0 {
		return nil
	}
	out := make([]Effect, len(w.effects))
	copy(out, w.effects)
	return out
}

// Attach registers an actor so UseTool can see what it holds.
func (w *MemoryWorld) Attach(id string, actor Actor) {
	if actor == nil {
		delete(w.actors, id)
		return
	}
	w.actors[id] = actor
}

// SetBlocked marks a tile as a wall.
func (w *MemoryWorld) SetBlocked(t Tile, blocked bool) {
	if c := w.cell(t); c != nil {
		c.Blocked = blocked
	}
}

// SetWater marks a tile as water.
func (w *MemoryWorld) SetWater(t Tile, water bool) {
	if c := w.cell(t); c != nil {
		c.Water = water
	}
}

// SetActionable marks a tile as a generic action spot.
func (w *MemoryWorld) SetActionable(t Tile, actionable bool) {
	if c := w.cell(t); c != nil {
		c.Actionable = actionable
	}
}

// SetBed marks a tile as part of a bed.
func (w *MemoryWorld) SetBed(t Tile, bed bool) {
	if c := w.cell(t); c != nil {
		c.Bed = bed
	}
}

// SetInterior toggles the indoor-room rules.
func (w *MemoryWorld) SetInterior(interior bool) {
	w.interior = interior
}

// PlaceObject puts an object on a tile, replacing any previous one.
func (w *MemoryWorld) PlaceObject(t Tile, o Object) {
	if c := w.cell(t); c != nil {
		obj := o
		c.Object = &obj
	}
}

// RemoveObject clears the object on a tile.
func (w *MemoryWorld) RemoveObject(t Tile) {
	if c := w.cell(t); c != nil {
		c.Object = nil
	}
}

// PlaceTerrain puts a terrain feature on a tile.
func (w *MemoryWorld) PlaceTerrain(t Tile, tf Terrain) {
	if c := w.cell(t); c != nil {
		feature := tf
		c.Terrain = &feature
	}
}

// AddEntity registers or replaces an entity.
func (w *MemoryWorld) AddEntity(e Entity) {
	entity := e
	w.entities[e.Handle] = &entity
}

// MoveEntity relocates an entity.
func (w *MemoryWorld) MoveEntity(h Handle, t Tile) bool {
	e, ok := w.entities[h]
	if !ok {
		return false
	}
	e.Tile = t
	return true
}

// RemoveEntity deletes an entity.
func (w *MemoryWorld) RemoveEntity(h Handle) {
	delete(w.entities, h)
}

// Entities returns the entities sorted by handle.
func (w *MemoryWorld) Entities() []Entity {
	handles := w.sortedHandles()
	out := make([]Entity, 0, len(handles))
	for _, h := range handles {
		out = append(out, *w.entities[h])
	}
	return out
}

// AddBuilding registers a building footprint.
func (w *MemoryWorld) AddBuilding(b Building) {
	w.buildings = append(w.buildings, b)
}

// AddHotspot registers a hotspot.
func (w *MemoryWorld) AddHotspot(h Hotspot) {
	w.hotspots[h.Tile] = h
}
