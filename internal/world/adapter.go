package world

// World answers tile queries for a single map and carries out the side effects
// of actions. Implementations are called synchronously from the tick loop and
// may be side-effecting; a false result from an effect call means "nothing
// happened".
type World interface {
	Name() string
	Size() (cols, rows int)

	IsPassable(t Tile) bool
	IsWater(t Tile) bool
	OccupyingEntity(t Tile) (Entity, bool)
	OccupyingObject(t Tile) (Object, bool)
	TerrainFeatureAt(t Tile) (Terrain, bool)
	BuildingAt(t Tile) (Building, bool)
	IsActionableTile(t Tile) bool

	// FindEntity locates an entity by handle so followers can track it.
	FindEntity(h Handle) (Entity, bool)

	PerformAction(t Tile, actorID string) bool
	UseTool(actorID string, t Tile) bool
}

// Interior is implemented by worlds that model indoor rooms with beds.
type Interior interface {
	IsInterior() bool
	IsBlockingBed(t Tile) bool
}

// HotspotProvider is implemented by worlds with fixed warp/door/booth tiles.
type HotspotProvider interface {
	HotspotAt(t Tile) (Hotspot, bool)
}

// InBounds reports whether t lies on the map of w.
func InBounds(w World, t Tile) bool {
	if w == nil {
		return false
	}
	cols, rows := w.Size()
	return t.X >= 0 && t.Y >= 0 && t.X < cols && t.Y < rows
}

// ContentAt resolves the occupant of a tile in the fixed precedence entity,
// object, terrain feature, building. Actionable-but-empty tiles report
// ContentEmpty; callers check IsActionableTile separately.
func ContentAt(w World, t Tile) TileContent {
	if w == nil {
		return TileContent{}
	}
	if e, ok := w.OccupyingEntity(t); ok {
		return EntityContent(e)
	}
	if o, ok := w.OccupyingObject(t); ok {
		return ObjectContent(o)
	}
	if tf, ok := w.TerrainFeatureAt(t); ok {
		return TerrainContent(tf)
	}
	if b, ok := w.BuildingAt(t); ok {
		return BuildingContent(b)
	}
	return TileContent{}
}

// IsClosedGate reports whether the tile hosts a gate that is currently shut.
func IsClosedGate(w World, t Tile) bool {
	if w == nil {
		return false
	}
	o, ok := w.OccupyingObject(t)
	return ok && o.Kind == ObjectGate && !o.Open
}
