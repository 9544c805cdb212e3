package world

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyMap is returned when a map file has no rows.
	ErrEmptyMap = errors.New("map has no rows")
	// ErrRaggedMap is returned when map rows differ in length.
	ErrRaggedMap = errors.New("map rows differ in length")
	// ErrUnknownGlyph is returned for glyphs outside the legend.
	ErrUnknownGlyph = errors.New("unknown map glyph")
)

// MapFile is the YAML description of a map and the character standing on it.
//
//	name: farm
//	rows:
//	  - "#######"
//	  - "#..T~~#"
//	legend:
//	  X: "#"
//	entities:
//	  - {handle: horse, kind: mount, x: 2, y: 1}
//
// Legend entries alias a custom glyph to one of the built-in glyphs.
type MapFile struct {
	Name      string            `yaml:"name"`
	Interior  bool              `yaml:"interior"`
	Rows      []string          `yaml:"rows"`
	Legend    map[string]string `yaml:"legend"`
	Entities  []EntitySpec      `yaml:"entities"`
	Hotspots  []HotspotSpec     `yaml:"hotspots"`
	Buildings []BuildingSpec    `yaml:"buildings"`
	Character *CharacterSpec    `yaml:"character"`
}

// EntitySpec places an entity.
type EntitySpec struct {
	Handle       string `yaml:"handle"`
	Kind         string `yaml:"kind"`
	X            int    `yaml:"x"`
	Y            int    `yaml:"y"`
	RequiredTool string `yaml:"requiredTool"`
}

// HotspotSpec places a hotspot.
type HotspotSpec struct {
	Kind     string `yaml:"kind"`
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	Approach Tile   `yaml:"approach"`
}

// BuildingSpec places a building footprint.
type BuildingSpec struct {
	Handle string `yaml:"handle"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Door   Tile   `yaml:"door"`
}

// CharacterSpec describes the starting character.
type CharacterSpec struct {
	ID        string     `yaml:"id"`
	X         int        `yaml:"x"`
	Y         int        `yaml:"y"`
	Current   int        `yaml:"current"`
	Inventory []ItemSpec `yaml:"inventory"`
}

// ItemSpec is one inventory entry; Tool uses ToolKind names ("axe", "hoe").
type ItemSpec struct {
	Name string `yaml:"name"`
	Tool string `yaml:"tool"`
}

var glyphs = map[rune]func(c *Cell){
	'.': func(c *Cell) {},
	' ': func(c *Cell) {},
	'#': func(c *Cell) { c.Blocked = true },
	'~': func(c *Cell) { c.Water = true },
	'!': func(c *Cell) { c.Actionable = true },
	'b': func(c *Cell) { c.Bed = true },
	'T': func(c *Cell) { c.Terrain = &Terrain{Kind: TerrainTree, RequiredTool: "axe"} },
	'F': func(c *Cell) { c.Terrain = &Terrain{Kind: TerrainFruitTree} },
	'B': func(c *Cell) { c.Terrain = &Terrain{Kind: TerrainBush} },
	'h': func(c *Cell) { c.Terrain = &Terrain{Kind: TerrainHoeDirt} },
	'H': func(c *Cell) { c.Terrain = &Terrain{Kind: TerrainHoeDirt, HasCrop: true, Ready: true} },
	'"': func(c *Cell) { c.Terrain = &Terrain{Kind: TerrainGrass} },
	't': func(c *Cell) { c.Object = &Object{Kind: ObjectChoppable, RequiredTool: "axe"} },
	's': func(c *Cell) { c.Object = &Object{Kind: ObjectMinable, RequiredTool: "pickaxe"} },
	'w': func(c *Cell) { c.Object = &Object{Kind: ObjectBreakable, RequiredTool: "scythe"} },
	'g': func(c *Cell) { c.Object = &Object{Kind: ObjectGate} },
	'G': func(c *Cell) { c.Object = &Object{Kind: ObjectGate, Open: true} },
	'f': func(c *Cell) { c.Object = &Object{Kind: ObjectFence} },
	'c': func(c *Cell) { c.Object = &Object{Kind: ObjectChest} },
	'u': func(c *Cell) { c.Object = &Object{Kind: ObjectFurniture} },
	'm': func(c *Cell) { c.Object = &Object{Kind: ObjectMachine, Ready: true} },
	'o': func(c *Cell) { c.Object = &Object{Kind: ObjectForage, Ready: true} },
}

var entityKindsByName = map[string]EntityKind{
	"hostile":     EntityHostile,
	"mount":       EntityMount,
	"villager":    EntityVillager,
	"farm_animal": EntityFarmAnimal,
	"pet":         EntityPet,
}

var hotspotKindsByName = map[string]HotspotKind{
	"warp":         HotspotWarp,
	"ticket_booth": HotspotTicketBooth,
	"door":         HotspotDoor,
}

// LoadMapFile reads and parses a YAML map file.
func LoadMapFile(path string) (*MemoryWorld, *Character, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read map %s: %w", path, err)
	}
	return ParseMap(data)
}

// ParseMap decodes a YAML map. The returned character is nil when the file
// does not describe one.
func ParseMap(data []byte) (*MemoryWorld, *Character, error) {
	var file MapFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("decode map: %w", err)
	}
	return file.Build()
}

// Build converts the decoded file into a world.
func (f MapFile) Build() (*MemoryWorld, *Character, error) {
	if len(f.Rows) == 0 {
		return nil, nil, ErrEmptyMap
	}
	cols := len([]rune(f.Rows[0]))
	for i, row := range f.Rows {
		if n := len([]rune(row)); n != cols {
			return nil, nil, fmt.Errorf("row %d has %d columns, want %d: %w", i, n, cols, ErrRaggedMap)
		}
	}
	name := strings.TrimSpace(f.Name)
	if name == "" {
		name = "map"
	}
	aliases := make(map[rune]rune, len(f.Legend))
	for custom, base := range f.Legend {
		c, b := []rune(custom), []rune(base)
		if len(c) != 1 || len(b) != 1 {
			return nil, nil, fmt.Errorf("legend %q=%q must map single glyphs: %w", custom, base, ErrUnknownGlyph)
		}
		if _, ok := glyphs[b[0]]; !ok {
			return nil, nil, fmt.Errorf("legend %q=%q: %w", custom, base, ErrUnknownGlyph)
		}
		aliases[c[0]] = b[0]
	}
	w := NewMemoryWorld(name, cols, len(f.Rows))
	w.SetInterior(f.Interior)
	serial := 0
	for y, row := range f.Rows {
		for x, glyph := range []rune(row) {
			if base, ok := aliases[glyph]; ok {
				glyph = base
			}
			apply, ok := glyphs[glyph]
			if !ok {
				return nil, nil, fmt.Errorf("glyph %q at %d,%d: %w", glyph, x, y, ErrUnknownGlyph)
			}
			c := w.cell(Tile{X: x, Y: y})
			apply(c)
			if c.Object != nil {
				serial++
				c.Object.Handle = Handle(fmt.Sprintf("%s-%d", c.Object.Kind, serial))
			}
			if c.Terrain != nil {
				serial++
				c.Terrain.Handle = Handle(fmt.Sprintf("%s-%d", c.Terrain.Kind, serial))
			}
		}
	}
	for _, placed := range f.Entities {
		kind, ok := entityKindsByName[placed.Kind]
		if !ok {
			return nil, nil, fmt.Errorf("entity %q has unknown kind %q", placed.Handle, placed.Kind)
		}
		w.AddEntity(Entity{
			Handle:       Handle(placed.Handle),
			Kind:         kind,
			Tile:         Tile{X: placed.X, Y: placed.Y},
			RequiredTool: placed.RequiredTool,
		})
	}
	for _, hs := range f.Hotspots {
		kind, ok := hotspotKindsByName[hs.Kind]
		if !ok {
			return nil, nil, fmt.Errorf("hotspot at %d,%d has unknown kind %q", hs.X, hs.Y, hs.Kind)
		}
		w.AddHotspot(Hotspot{Kind: kind, Tile: Tile{X: hs.X, Y: hs.Y}, Approach: hs.Approach})
	}
	for _, b := range f.Buildings {
		w.AddBuilding(Building{
			Handle: Handle(b.Handle),
			Origin: Tile{X: b.X, Y: b.Y},
			Width:  b.Width,
			Height: b.Height,
			Door:   b.Door,
		})
	}
	if f.Character == nil {
		return w, nil, nil
	}
	character := &Character{
		ID:          f.Character.ID,
		Position:    Tile{X: f.Character.X, Y: f.Character.Y}.Center(),
		Facing:      FacingDown,
		CurrentItem: f.Character.Current,
		Speed:       DefaultWalkSpeed,
	}
	if character.ID == "" {
		character.ID = "farmer"
	}
	for _, item := range f.Character.Inventory {
		character.Inventory = append(character.Inventory, Item{Name: item.Name, Tool: ParseToolKind(item.Tool)})
	}
	return w, character, nil
}
