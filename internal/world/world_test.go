package world

import (
	"errors"
	"math"
	"testing"
)

const farmYAML = `
name: farm
rows:
  - "#######"
  - "#..T.~#"
  - "#.g.s~#"
  - "#.X..H#"
  - "#######"
legend:
  X: "#"
entities:
  - {handle: cow, kind: farm_animal, x: 1, y: 1, requiredTool: milk_pail}
hotspots:
  - {kind: warp, x: 4, y: 1, approach: {x: 4, y: 2}}
character:
  id: farmer
  x: 1
  y: 2
  inventory:
    - {name: Axe, tool: axe}
    - {name: Watering Can, tool: watering_can}
`

func TestParseMapBuildsWorldAndCharacter(t *testing.T) {
	w, c, err := ParseMap([]byte(farmYAML))
	if err != nil {
		t.Fatalf("ParseMap returned error: %v", err)
	}
	if cols, rows := w.Size(); cols != 7 || rows != 5 {
		t.Fatalf("expected 7x5 map, got %dx%d", cols, rows)
	}
	if w.Name() != "farm" {
		t.Fatalf("expected name farm, got %q", w.Name())
	}
	if w.IsPassable(Tile{X: 2, Y: 3}) {
		t.Fatalf("expected legend alias X to act as wall")
	}
	if !w.IsWater(Tile{X: 5, Y: 1}) {
		t.Fatalf("expected water at 5,1")
	}
	if tf, ok := w.TerrainFeatureAt(Tile{X: 3, Y: 1}); !ok || tf.Kind != TerrainTree {
		t.Fatalf("expected tree at 3,1, got %+v", tf)
	}
	if !IsClosedGate(w, Tile{X: 2, Y: 2}) {
		t.Fatalf("expected closed gate at 2,2")
	}
	if tf, ok := w.TerrainFeatureAt(Tile{X: 5, Y: 3}); !ok || !tf.Ready {
		t.Fatalf("expected ready crop at 5,3, got %+v", tf)
	}
	if _, ok := w.HotspotAt(Tile{X: 4, Y: 1}); !ok {
		t.Fatalf("expected hotspot at 4,1")
	}
	if c == nil {
		t.Fatalf("expected character")
	}
	if c.Tile() != (Tile{X: 1, Y: 2}) {
		t.Fatalf("expected character on 1,2, got %+v", c.Tile())
	}
	if c.FindTool(ToolWateringCan) != 1 {
		t.Fatalf("expected watering can in slot 1, got %d", c.FindTool(ToolWateringCan))
	}
}

func TestParseMapErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want error
	}{
		{name: "empty", doc: "name: x\n", want: ErrEmptyMap},
		{name: "ragged", doc: "rows: [\"...\", \"..\"]\n", want: ErrRaggedMap},
		{name: "glyph", doc: "rows: [\"..?\"]\n", want: ErrUnknownGlyph},
		{name: "legend", doc: "rows: [\"..\"]\nlegend: {Q: \"?\"}\n", want: ErrUnknownGlyph},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParseMap([]byte(tc.doc))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestContentAtPrecedence(t *testing.T) {
	w := NewMemoryWorld("test", 4, 4)
	tile := Tile{X: 1, Y: 1}
	w.PlaceTerrain(tile, Terrain{Handle: "tree", Kind: TerrainTree})
	if got := ContentAt(w, tile); got.Kind != ContentTerrain {
		t.Fatalf("expected terrain, got %v", got.Kind)
	}
	w.PlaceObject(tile, Object{Handle: "stone", Kind: ObjectMinable})
	if got := ContentAt(w, tile); got.Kind != ContentObject || got.Handle() != "stone" {
		t.Fatalf("expected object stone, got %v %q", got.Kind, got.Handle())
	}
	w.AddEntity(Entity{Handle: "slime", Kind: EntityHostile, Tile: tile})
	if got := ContentAt(w, tile); got.Kind != ContentEntity || got.Handle() != "slime" {
		t.Fatalf("expected entity slime, got %v %q", got.Kind, got.Handle())
	}

	w.AddBuilding(Building{Handle: "coop", Origin: Tile{X: 2, Y: 2}, Width: 2, Height: 1, Door: Tile{X: 2, Y: 2}})
	if got := ContentAt(w, Tile{X: 3, Y: 2}); got.Kind != ContentBuilding {
		t.Fatalf("expected building, got %v", got.Kind)
	}
	if got := ContentAt(w, Tile{X: 0, Y: 0}); got.Kind != ContentEmpty {
		t.Fatalf("expected empty, got %v", got.Kind)
	}
}

func TestMemoryWorldPassability(t *testing.T) {
	w := NewMemoryWorld("test", 5, 1)
	w.PlaceObject(Tile{X: 0}, Object{Kind: ObjectGate})
	w.PlaceObject(Tile{X: 1}, Object{Kind: ObjectForage})
	w.PlaceTerrain(Tile{X: 2}, Terrain{Kind: TerrainHoeDirt})
	w.PlaceTerrain(Tile{X: 3}, Terrain{Kind: TerrainBush})
	w.AddEntity(Entity{Handle: "dog", Kind: EntityPet, Tile: Tile{X: 4}})

	want := []bool{false, true, true, false, true}
	for x, expected := range want {
		if got := w.IsPassable(Tile{X: x}); got != expected {
			t.Fatalf("tile %d: expected passable=%v, got %v", x, expected, got)
		}
	}
	if w.IsPassable(Tile{X: -1}) || w.IsPassable(Tile{X: 5}) {
		t.Fatalf("expected off-map tiles to be impassable")
	}

	if !w.PerformAction(Tile{X: 0}, "farmer") {
		t.Fatalf("expected gate action to have effect")
	}
	if !w.IsPassable(Tile{X: 0}) {
		t.Fatalf("expected opened gate to be passable")
	}
}

func TestMemoryWorldUseToolMatchesRequirement(t *testing.T) {
	w := NewMemoryWorld("test", 3, 1)
	w.PlaceObject(Tile{X: 1}, Object{Handle: "stone", Kind: ObjectMinable, RequiredTool: "pickaxe"})
	walker := NewWalker(w, Character{
		ID:        "farmer",
		Position:  Tile{}.Center(),
		Inventory: []Item{{Name: "Axe", Tool: ToolAxe}, {Name: "Pickaxe", Tool: ToolPickaxe}},
	})
	w.Attach("farmer", walker)

	if w.UseTool("farmer", Tile{X: 1}) {
		t.Fatalf("expected axe to have no effect on stone")
	}
	walker.SelectItem(1)
	if !w.UseTool("farmer", Tile{X: 1}) {
		t.Fatalf("expected pickaxe to break stone")
	}
	if _, ok := w.OccupyingObject(Tile{X: 1}); ok {
		t.Fatalf("expected stone to be removed")
	}
	effects := w.Effects()
	if len(effects) != 1 || effects[0].Tool != ToolPickaxe || effects[0].Target != "stone" {
		t.Fatalf("expected one pickaxe effect on stone, got %+v", effects)
	}
	if !walker.Snapshot().Status.UsingTool {
		t.Fatalf("expected tool animation to mark the walker busy")
	}
}

func TestWalkerSlidesAlongWalls(t *testing.T) {
	w := NewMemoryWorld("test", 4, 4)
	w.SetBlocked(Tile{X: 2, Y: 1}, true)
	walker := NewWalker(w, Character{ID: "farmer", Position: Tile{X: 1, Y: 1}.Center()})

	walker.SetIntent(1, 0)
	walker.Step(0.1)
	if got := walker.Snapshot().Position; got != (Tile{X: 1, Y: 1}.Center()) {
		t.Fatalf("expected wall to stop the walker, got %+v", got)
	}
	if walker.Snapshot().Facing != FacingRight {
		t.Fatalf("expected walker to face right, got %s", walker.Snapshot().Facing)
	}

	walker.SetIntent(1, 1)
	walker.Step(0.1)
	pos := walker.Snapshot().Position
	start := Tile{X: 1, Y: 1}.Center()
	if pos.X != start.X {
		t.Fatalf("expected x to stay blocked, got %f", pos.X)
	}
	if want := start.Y + DefaultWalkSpeed*0.1/math.Sqrt2; math.Abs(pos.Y-want) > 1e-9 {
		t.Fatalf("expected y to advance to %f, got %f", want, pos.Y)
	}
}

func TestWalkerToolAnimationPausesMovement(t *testing.T) {
	w := NewMemoryWorld("test", 4, 4)
	walker := NewWalker(w, Character{ID: "farmer", Position: Tile{X: 1, Y: 1}.Center()})
	walker.StartToolAnimation(2)
	walker.SetIntent(0, 1)
	walker.Step(0.1)
	walker.Step(0.1)
	if got := walker.Snapshot().Position; got != (Tile{X: 1, Y: 1}.Center()) {
		t.Fatalf("expected walker to stand still while animating, got %+v", got)
	}
	walker.Step(0.1)
	if got := walker.Snapshot().Position; got == (Tile{X: 1, Y: 1}.Center()) {
		t.Fatalf("expected walker to move after the animation")
	}
}

func TestDeterministicRNGIsStable(t *testing.T) {
	a := NewDeterministicRNG("seed", "grid")
	b := NewDeterministicRNG("seed", "grid")
	c := NewDeterministicRNG("seed", "other")
	av, bv, cv := a.Int64(), b.Int64(), c.Int64()
	if av != bv {
		t.Fatalf("expected identical streams, got %d and %d", av, bv)
	}
	if av == cv {
		t.Fatalf("expected labels to separate streams")
	}
}

func TestFacingToward(t *testing.T) {
	origin := Tile{X: 2, Y: 2}
	cases := []struct {
		to   Tile
		want Facing
	}{
		{Tile{X: 3, Y: 2}, FacingRight},
		{Tile{X: 1, Y: 2}, FacingLeft},
		{Tile{X: 2, Y: 1}, FacingUp},
		{Tile{X: 2, Y: 3}, FacingDown},
		{Tile{X: 2, Y: 2}, FacingLeft},
	}
	for _, tc := range cases {
		if got := FacingToward(origin, tc.to, FacingLeft); got != tc.want {
			t.Fatalf("expected %s toward %+v, got %s", tc.want, tc.to, got)
		}
	}
}
