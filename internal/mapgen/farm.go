// Package mapgen builds the demo farm from layered simplex noise.
package mapgen

import (
	"fmt"
	"math/rand/v2"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/world"
)

// Config tunes farm generation.
type Config struct {
	Name string
	Cols int
	Rows int
	Seed string
	// WaterLevel and TreeLevel are elevation thresholds in [0, 1].
	WaterLevel float64
	TreeLevel  float64
	// GrassLevel is the moisture threshold above which grass grows.
	GrassLevel float64
	// DebrisDensity is the chance that an open tile holds a stone, twig or weed.
	DebrisDensity float64
	Hostiles      int
}

// DefaultConfig returns the farm the demo server starts with.
func DefaultConfig() Config {
	return Config{
		Name:          "Farm",
		Cols:          48,
		Rows:          32,
		Seed:          world.DefaultSeed,
		WaterLevel:    0.3,
		TreeLevel:     0.68,
		GrassLevel:    0.66,
		DebrisDensity: 0.06,
		Hostiles:      2,
	}
}

func (cfg Config) normalized() Config {
	def := DefaultConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.Cols < minSide {
		cfg.Cols = minSide
	}
	if cfg.Rows < minSide {
		cfg.Rows = minSide
	}
	if cfg.Seed == "" {
		cfg.Seed = def.Seed
	}
	if cfg.WaterLevel <= 0 || cfg.WaterLevel >= 1 {
		cfg.WaterLevel = def.WaterLevel
	}
	if cfg.TreeLevel <= cfg.WaterLevel || cfg.TreeLevel >= 1 {
		cfg.WaterLevel = def.WaterLevel
		cfg.TreeLevel = def.TreeLevel
	}
	if cfg.GrassLevel <= 0 || cfg.GrassLevel >= 1 {
		cfg.GrassLevel = def.GrassLevel
	}
	if cfg.DebrisDensity < 0 || cfg.DebrisDensity > 1 {
		cfg.DebrisDensity = def.DebrisDensity
	}
	if cfg.Hostiles < 0 {
		cfg.Hostiles = 0
	}
	return cfg
}

// minSide fits the homestead: house, crop plot and animal pen.
const minSide = 24

type cellKind int

const (
	cellOpen cellKind = iota
	cellWall
	cellWater
	cellTree
	cellGrass
	cellStone
	cellTwig
	cellWeed
)

// Generate builds a farm world and the character standing on it. The same
// configuration always yields the same farm.
func Generate(cfg Config) (*world.MemoryWorld, world.Character) {
	cfg = cfg.normalized()
	elevation := opensimplex.NewNormalized(world.DeterministicSeedValue(cfg.Seed, "elevation"))
	moisture := opensimplex.NewNormalized(world.DeterministicSeedValue(cfg.Seed, "moisture"))
	debris := world.NewDeterministicRNG(cfg.Seed, "debris")

	cells := make([]cellKind, cfg.Cols*cfg.Rows)
	for y := 0; y < cfg.Rows; y++ {
		for x := 0; x < cfg.Cols; x++ {
			idx := y*cfg.Cols + x
			if x == 0 || y == 0 || x == cfg.Cols-1 || y == cfg.Rows-1 {
				cells[idx] = cellWall
				continue
			}
			fx, fy := float64(x), float64(y)
			elev := octaveNoise(elevation, fx, fy, 3, 0.09, 0.5)
			switch {
			case elev < cfg.WaterLevel:
				cells[idx] = cellWater
			case elev > cfg.TreeLevel:
				cells[idx] = cellTree
			case octaveNoise(moisture, fx, fy, 2, 0.12, 0.5) > cfg.GrassLevel:
				cells[idx] = cellGrass
			default:
				cells[idx] = scatter(debris, cfg.DebrisDensity)
			}
		}
	}

	home := homestead(cfg)
	for y := home.Origin.Y - 1; y <= home.Origin.Y+home.Height; y++ {
		for x := home.Origin.X - 1; x <= home.Origin.X+home.Width; x++ {
			cells[y*cfg.Cols+x] = cellOpen
		}
	}

	w := world.NewMemoryWorld(cfg.Name, cfg.Cols, cfg.Rows)
	serial := 0
	handle := func(kind fmt.Stringer) world.Handle {
		serial++
		return world.Handle(fmt.Sprintf("%s-%d", kind, serial))
	}
	for y := 0; y < cfg.Rows; y++ {
		for x := 0; x < cfg.Cols; x++ {
			t := world.Tile{X: x, Y: y}
			switch cells[y*cfg.Cols+x] {
			case cellWall:
				w.SetBlocked(t, true)
			case cellWater:
				w.SetWater(t, true)
			case cellTree:
				w.PlaceTerrain(t, world.Terrain{Handle: handle(world.TerrainTree), Kind: world.TerrainTree, RequiredTool: "axe"})
			case cellGrass:
				w.PlaceTerrain(t, world.Terrain{Handle: handle(world.TerrainGrass), Kind: world.TerrainGrass})
			case cellStone:
				w.PlaceObject(t, world.Object{Handle: handle(world.ObjectMinable), Kind: world.ObjectMinable, RequiredTool: "pickaxe"})
			case cellTwig:
				w.PlaceObject(t, world.Object{Handle: handle(world.ObjectChoppable), Kind: world.ObjectChoppable, RequiredTool: "axe"})
			case cellWeed:
				w.PlaceObject(t, world.Object{Handle: handle(world.ObjectBreakable), Kind: world.ObjectBreakable, RequiredTool: "scythe"})
			}
		}
	}

	start := buildHomestead(w, home, handle)
	placeHostiles(w, cfg, home)
	return w, world.Character{
		ID:       "farmer",
		Position: start.Center(),
		Facing:   world.FacingDown,
		Inventory: []world.Item{
			{Name: "Axe", Tool: world.ToolAxe},
			{Name: "Pickaxe", Tool: world.ToolPickaxe},
			{Name: "Hoe", Tool: world.ToolHoe},
			{Name: "Watering Can", Tool: world.ToolWateringCan},
			{Name: "Scythe", Tool: world.ToolScythe},
			{Name: "Fishing Rod", Tool: world.ToolFishingRod},
			{Name: "Milk Pail", Tool: world.ToolMilkPail},
			{Name: "Rusty Sword", Tool: world.ToolMeleeWeapon},
			{Name: "Parsnip Seeds"},
		},
		CurrentItem: 8,
		Speed:       world.DefaultWalkSpeed,
	}
}

func scatter(rng *rand.Rand, density float64) cellKind {
	roll := rng.Float64()
	if roll >= density {
		return cellOpen
	}
	switch int(roll / density * 3) {
	case 0:
		return cellStone
	case 1:
		return cellTwig
	default:
		return cellWeed
	}
}

// homestead returns the cleared rectangle holding the house, crops and pen.
func homestead(cfg Config) world.Building {
	width, height := 16, 14
	return world.Building{
		Origin: world.Tile{X: (cfg.Cols - width) / 2, Y: (cfg.Rows - height) / 2},
		Width:  width,
		Height: height,
	}
}

// buildHomestead lays out the farmhouse, a crop plot and a fenced pen inside
// the cleared area and returns the starting tile in front of the house.
func buildHomestead(w *world.MemoryWorld, home world.Building, handle func(fmt.Stringer) world.Handle) world.Tile {
	ox, oy := home.Origin.X, home.Origin.Y

	house := world.Building{
		Handle: "farmhouse",
		Origin: world.Tile{X: ox + 1, Y: oy + 1},
		Width:  5,
		Height: 3,
	}
	house.Door = world.Tile{X: house.Origin.X + 2, Y: house.Origin.Y + house.Height - 1}
	w.AddBuilding(house)
	w.PlaceObject(world.Tile{X: house.Origin.X + house.Width, Y: house.Origin.Y + house.Height - 1},
		world.Object{Handle: "shipping-bin", Kind: world.ObjectChest})
	start := house.Door.Add(0, 2)

	// Crop plot right of the house: the last column is ripe.
	for y := oy + 1; y < oy+4; y++ {
		for x := ox + 8; x < ox+14; x++ {
			ripe := x == ox+13
			w.PlaceTerrain(world.Tile{X: x, Y: y}, world.Terrain{
				Handle:  handle(world.TerrainHoeDirt),
				Kind:    world.TerrainHoeDirt,
				HasCrop: true,
				Ready:   ripe,
			})
		}
	}

	// Animal pen below, gated on its top side.
	pen := world.Building{Origin: world.Tile{X: ox + 2, Y: oy + 7}, Width: 9, Height: 6}
	for x := pen.Origin.X; x < pen.Origin.X+pen.Width; x++ {
		for _, y := range []int{pen.Origin.Y, pen.Origin.Y + pen.Height - 1} {
			w.PlaceObject(world.Tile{X: x, Y: y}, world.Object{Handle: handle(world.ObjectFence), Kind: world.ObjectFence})
		}
	}
	for y := pen.Origin.Y + 1; y < pen.Origin.Y+pen.Height-1; y++ {
		for _, x := range []int{pen.Origin.X, pen.Origin.X + pen.Width - 1} {
			w.PlaceObject(world.Tile{X: x, Y: y}, world.Object{Handle: handle(world.ObjectFence), Kind: world.ObjectFence})
		}
	}
	gate := world.Tile{X: pen.Origin.X + pen.Width/2, Y: pen.Origin.Y}
	w.PlaceObject(gate, world.Object{Handle: "pen-gate", Kind: world.ObjectGate})
	w.AddEntity(world.Entity{Handle: "cow", Kind: world.EntityFarmAnimal, Tile: gate.Add(-2, 2), RequiredTool: "milk_pail"})
	w.AddEntity(world.Entity{Handle: "sheep", Kind: world.EntityFarmAnimal, Tile: gate.Add(2, 3), RequiredTool: "shears"})
	w.PlaceObject(gate.Add(2, 1), world.Object{Handle: "auto-grabber", Kind: world.ObjectMachine, Ready: true})

	w.AddEntity(world.Entity{Handle: "dog", Kind: world.EntityPet, Tile: start.Add(-3, 0)})
	w.AddEntity(world.Entity{Handle: "horse", Kind: world.EntityMount, Tile: start.Add(4, 0)})
	w.PlaceObject(start.Add(6, 1), world.Object{Handle: "salmonberry", Kind: world.ObjectForage, Ready: true})
	w.AddHotspot(world.Hotspot{Kind: world.HotspotWarp, Tile: world.Tile{X: ox + home.Width - 1, Y: oy + home.Height - 1}})
	return start
}

// placeHostiles drops slimes on random open tiles outside the homestead.
func placeHostiles(w *world.MemoryWorld, cfg Config, home world.Building) {
	rng := world.NewDeterministicRNG(cfg.Seed, "hostiles")
	yard := world.Building{
		Origin: home.Origin.Add(-2, -2),
		Width:  home.Width + 4,
		Height: home.Height + 4,
	}
	placed := 0
	for attempt := 0; placed < cfg.Hostiles && attempt < cfg.Hostiles*32; attempt++ {
		t, ok := world.RandomOpenTile(w, rng)
		if !ok {
			return
		}
		if yard.Contains(t) {
			continue
		}
		if _, occupied := w.OccupyingEntity(t); occupied {
			continue
		}
		if _, ok := w.OccupyingObject(t); ok {
			continue
		}
		placed++
		w.AddEntity(world.Entity{Handle: world.Handle(fmt.Sprintf("slime-%d", placed)), Kind: world.EntityHostile, Tile: t})
	}
}

// octaveNoise layers several frequencies of normalized noise.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}
