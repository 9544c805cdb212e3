package world

// Handle identifies a host-side entity, object, terrain feature or building.
// The core never interprets it beyond equality and logging.
type Handle string

// EntityKind enumerates the behavioural categories of moving occupants.
type EntityKind int

const (
	EntityNone EntityKind = iota
	EntityHostile
	EntityMount
	EntityVillager
	EntityFarmAnimal
	EntityPet
)

var entityKindNames = map[EntityKind]string{
	EntityNone:       "none",
	EntityHostile:    "hostile",
	EntityMount:      "mount",
	EntityVillager:   "villager",
	EntityFarmAnimal: "farm_animal",
	EntityPet:        "pet",
}

func (k EntityKind) String() string {
	if name, ok := entityKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ObjectKind enumerates the behavioural categories of placed objects.
type ObjectKind int

const (
	ObjectNone ObjectKind = iota
	ObjectChoppable
	ObjectMinable
	ObjectBreakable
	ObjectGate
	ObjectFence
	ObjectFurniture
	ObjectChest
	ObjectMachine
	ObjectForage
)

var objectKindNames = map[ObjectKind]string{
	ObjectNone:      "none",
	ObjectChoppable: "choppable",
	ObjectMinable:   "minable",
	ObjectBreakable: "breakable",
	ObjectGate:      "gate",
	ObjectFence:     "fence",
	ObjectFurniture: "furniture",
	ObjectChest:     "chest",
	ObjectMachine:   "machine",
	ObjectForage:    "forage",
}

func (k ObjectKind) String() string {
	if name, ok := objectKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// TerrainKind enumerates terrain features the interpreter reacts to.
type TerrainKind int

const (
	TerrainNone TerrainKind = iota
	TerrainTree
	TerrainFruitTree
	TerrainBush
	TerrainHoeDirt
	TerrainGrass
)

var terrainKindNames = map[TerrainKind]string{
	TerrainNone:      "none",
	TerrainTree:      "tree",
	TerrainFruitTree: "fruit_tree",
	TerrainBush:      "bush",
	TerrainHoeDirt:   "hoe_dirt",
	TerrainGrass:     "grass",
}

func (k TerrainKind) String() string {
	if name, ok := terrainKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Entity is a moving occupant of a tile.
type Entity struct {
	Handle       Handle
	Kind         EntityKind
	Tile         Tile
	RequiredTool string
}

// Object is a placed item occupying a tile.
type Object struct {
	Handle       Handle
	Kind         ObjectKind
	RequiredTool string
	// Open is meaningful for gates only.
	Open bool
	// Ready marks machines and forage holding something to collect.
	Ready bool
}

// Terrain is a terrain feature rooted on a tile.
type Terrain struct {
	Handle       Handle
	Kind         TerrainKind
	RequiredTool string
	// HasCrop and Ready describe hoe dirt.
	HasCrop bool
	Ready   bool
}

// Building is a structure whose footprint covers several tiles.
type Building struct {
	Handle Handle
	Origin Tile
	Width  int
	Height int
	Door   Tile
}

// Contains reports whether the tile lies inside the footprint.
func (b Building) Contains(t Tile) bool {
	return t.X >= b.Origin.X && t.X < b.Origin.X+b.Width &&
		t.Y >= b.Origin.Y && t.Y < b.Origin.Y+b.Height
}

// ContentKind tags which variant of TileContent is populated.
type ContentKind int

const (
	ContentEmpty ContentKind = iota
	ContentEntity
	ContentObject
	ContentTerrain
	ContentBuilding
)

var contentKindNames = map[ContentKind]string{
	ContentEmpty:    "empty",
	ContentEntity:   "entity",
	ContentObject:   "object",
	ContentTerrain:  "terrain",
	ContentBuilding: "building",
}

func (k ContentKind) String() string {
	if name, ok := contentKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// TileContent is the closed union of things a click can land on. Exactly one
// of the pointer fields matches Kind; the rest are nil.
type TileContent struct {
	Kind     ContentKind
	Entity   *Entity
	Object   *Object
	Terrain  *Terrain
	Building *Building
}

// Handle returns the handle of whichever variant is populated.
func (c TileContent) Handle() Handle {
	switch c.Kind {
	case ContentEntity:
		return c.Entity.Handle
	case ContentObject:
		return c.Object.Handle
	case ContentTerrain:
		return c.Terrain.Handle
	case ContentBuilding:
		return c.Building.Handle
	default:
		return ""
	}
}

// EntityContent wraps an entity in a TileContent.
func EntityContent(e Entity) TileContent {
	return TileContent{Kind: ContentEntity, Entity: &e}
}

// ObjectContent wraps an object in a TileContent.
func ObjectContent(o Object) TileContent {
	return TileContent{Kind: ContentObject, Object: &o}
}

// TerrainContent wraps a terrain feature in a TileContent.
func TerrainContent(t Terrain) TileContent {
	return TileContent{Kind: ContentTerrain, Terrain: &t}
}

// BuildingContent wraps a building in a TileContent.
func BuildingContent(b Building) TileContent {
	return TileContent{Kind: ContentBuilding, Building: &b}
}

// HotspotKind enumerates fixed single-tile interaction points.
type HotspotKind int

const (
	HotspotWarp HotspotKind = iota + 1
	HotspotTicketBooth
	HotspotDoor
)

var hotspotKindNames = map[HotspotKind]string{
	HotspotWarp:        "warp",
	HotspotTicketBooth: "ticket_booth",
	HotspotDoor:        "door",
}

func (k HotspotKind) String() string {
	if name, ok := hotspotKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Hotspot redirects a click to a canonical approach tile.
type Hotspot struct {
	Kind     HotspotKind
	Tile     Tile
	Approach Tile
}
