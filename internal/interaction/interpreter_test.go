package interaction

import (
	"testing"
	"time"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/pathfinding"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/world"
)

func farmer(at world.Tile) world.Character {
	return world.Character{
		ID:       "farmer",
		Position: at.Center(),
		Facing:   world.FacingDown,
		Inventory: []world.Item{
			{Name: "Rusty Sword", Tool: world.ToolMeleeWeapon},
			{Name: "Axe", Tool: world.ToolAxe},
			{Name: "Pickaxe", Tool: world.ToolPickaxe},
			{Name: "Scythe", Tool: world.ToolScythe},
			{Name: "Watering Can", Tool: world.ToolWateringCan},
			{Name: "Bamboo Pole", Tool: world.ToolFishingRod},
			{Name: "Parsnip"},
		},
		CurrentItem: 6,
	}
}

func click(t world.Tile) ClickRequest {
	return ClickRequest{Point: t.Center(), At: time.Unix(100, 0)}
}

func mapGraph(t *testing.T, rows ...string) (*world.MemoryWorld, *pathfinding.Graph) {
	t.Helper()
	w, _, err := world.MapFile{Name: "test", Rows: rows}.Build()
	if err != nil {
		t.Fatalf("build map: %v", err)
	}
	return w, pathfinding.NewGraph(w)
}

func TestInterpretRejects(t *testing.T) {
	w := world.NewMemoryWorld("open", 5, 5)
	g := pathfinding.NewGraph(w)
	target := world.Tile{X: 3, Y: 3}

	fainted := farmer(world.Tile{})
	fainted.Status.Fainted = true
	if ctx := Interpret(g, fainted, NewSession(), click(target)); ctx.RejectReason != ReasonIncapacitated {
		t.Fatalf("expected %s, got %q", ReasonIncapacitated, ctx.RejectReason)
	}

	session := NewSession()
	session.BlockInput(true)
	if ctx := Interpret(g, farmer(world.Tile{}), session, click(target)); ctx.RejectReason != ReasonInputBlocked {
		t.Fatalf("expected %s, got %q", ReasonInputBlocked, ctx.RejectReason)
	}

	ctx := Interpret(g, farmer(world.Tile{}), NewSession(), ClickRequest{Point: world.Vec2{X: -10, Y: 10}})
	if !ctx.Rejected() || ctx.RejectReason != ReasonOffMap {
		t.Fatalf("expected off-map rejection, got %q", ctx.RejectReason)
	}
	if ctx.ID.String() == "" || ctx.TraceID() != ctx.ID.String() {
		t.Fatalf("expected click id to be set")
	}
}

func TestInterpretSelfClick(t *testing.T) {
	g := pathfinding.NewGraph(world.NewMemoryWorld("open", 5, 5))
	c := farmer(world.Tile{X: 2, Y: 2})

	ctx := Interpret(g, c, NewSession(), click(world.Tile{X: 2, Y: 2}))
	if ctx.Intent != IntentMove || !ctx.Path.Empty() {
		t.Fatalf("expected empty-handed self click to be a no-op move, got %s", ctx.Intent)
	}

	c.CurrentItem = 4
	c.Facing = world.FacingLeft
	ctx = Interpret(g, c, NewSession(), click(world.Tile{X: 2, Y: 2}))
	if ctx.Intent != IntentSelf || ctx.Action != ActionUseTool {
		t.Fatalf("expected self tool use, got %s/%s", ctx.Intent, ctx.Action)
	}
	if ctx.ActionTile != (world.Tile{X: 1, Y: 2}) {
		t.Fatalf("expected tool aimed at 1,2, got %+v", ctx.ActionTile)
	}
}

func TestInterpretContentTable(t *testing.T) {
	target := world.Tile{X: 4, Y: 4}
	cases := []struct {
		name     string
		setup    func(w *world.MemoryWorld)
		intent   Intent
		action   Action
		tool     world.ToolKind
		neighbor bool
		target   world.Handle
	}{
		{
			name: "hostile",
			setup: func(w *world.MemoryWorld) {
				w.AddEntity(world.Entity{Handle: "slime", Kind: world.EntityHostile, Tile: target})
			},
			intent:   IntentActFromNeighbor,
			action:   ActionUseTool,
			tool:     world.ToolMeleeWeapon,
			neighbor: true,
			target:   "slime",
		},
		{
			name: "mount",
			setup: func(w *world.MemoryWorld) {
				w.AddEntity(world.Entity{Handle: "horse", Kind: world.EntityMount, Tile: target})
			},
			intent:   IntentActFromNeighbor,
			action:   ActionMount,
			neighbor: true,
			target:   "horse",
		},
		{
			name: "animal without pail",
			setup: func(w *world.MemoryWorld) {
				w.AddEntity(world.Entity{Handle: "cow", Kind: world.EntityFarmAnimal, Tile: target, RequiredTool: "milk_pail"})
			},
			intent:   IntentActFromNeighbor,
			action:   ActionDoAction,
			neighbor: true,
			target:   "cow",
		},
		{
			name: "entity over object",
			setup: func(w *world.MemoryWorld) {
				w.PlaceObject(target, world.Object{Handle: "leek", Kind: world.ObjectForage})
				w.AddEntity(world.Entity{Handle: "lewis", Kind: world.EntityVillager, Tile: target})
			},
			intent:   IntentActFromNeighbor,
			action:   ActionDoAction,
			neighbor: true,
			target:   "lewis",
		},
		{
			name: "choppable",
			setup: func(w *world.MemoryWorld) {
				w.PlaceObject(target, world.Object{Kind: world.ObjectChoppable, RequiredTool: "axe"})
			},
			intent:   IntentActFromNeighbor,
			action:   ActionUseTool,
			tool:     world.ToolAxe,
			neighbor: true,
		},
		{
			name:     "minable",
			setup:    func(w *world.MemoryWorld) { w.PlaceObject(target, world.Object{Kind: world.ObjectMinable}) },
			intent:   IntentActFromNeighbor,
			action:   ActionUseTool,
			tool:     world.ToolPickaxe,
			neighbor: true,
		},
		{
			name:     "breakable",
			setup:    func(w *world.MemoryWorld) { w.PlaceObject(target, world.Object{Kind: world.ObjectBreakable}) },
			intent:   IntentActFromNeighbor,
			action:   ActionUseTool,
			tool:     world.ToolScythe,
			neighbor: true,
		},
		{
			name:     "closed gate",
			setup:    func(w *world.MemoryWorld) { w.PlaceObject(target, world.Object{Kind: world.ObjectGate}) },
			intent:   IntentActFromNeighbor,
			action:   ActionDoAction,
			neighbor: true,
		},
		{
			name:     "chest",
			setup:    func(w *world.MemoryWorld) { w.PlaceObject(target, world.Object{Kind: world.ObjectChest}) },
			intent:   IntentActFromNeighbor,
			action:   ActionDoAction,
			neighbor: true,
		},
		{
			name:   "forage",
			setup:  func(w *world.MemoryWorld) { w.PlaceObject(target, world.Object{Kind: world.ObjectForage}) },
			intent: IntentActOnTile,
			action: ActionDoAction,
		},
		{
			name:     "tree",
			setup:    func(w *world.MemoryWorld) { w.PlaceTerrain(target, world.Terrain{Kind: world.TerrainTree}) },
			intent:   IntentActFromNeighbor,
			action:   ActionUseTool,
			tool:     world.ToolAxe,
			neighbor: true,
		},
		{
			name:     "fruit tree",
			setup:    func(w *world.MemoryWorld) { w.PlaceTerrain(target, world.Terrain{Kind: world.TerrainFruitTree}) },
			intent:   IntentActFromNeighbor,
			action:   ActionDoAction,
			neighbor: true,
		},
		{
			name: "ready crop",
			setup: func(w *world.MemoryWorld) {
				w.PlaceTerrain(target, world.Terrain{Kind: world.TerrainHoeDirt, HasCrop: true, Ready: true})
			},
			intent: IntentActOnTile,
			action: ActionDoAction,
		},
		{
			name:     "dry dirt",
			setup:    func(w *world.MemoryWorld) { w.PlaceTerrain(target, world.Terrain{Kind: world.TerrainHoeDirt}) },
			intent:   IntentActFromNeighbor,
			action:   ActionUseTool,
			tool:     world.ToolWateringCan,
			neighbor: true,
		},
		{
			name:   "grass",
			setup:  func(w *world.MemoryWorld) { w.PlaceTerrain(target, world.Terrain{Kind: world.TerrainGrass}) },
			intent: IntentMove,
		},
		{
			name:   "actionable tile",
			setup:  func(w *world.MemoryWorld) { w.SetActionable(target, true) },
			intent: IntentActOnTile,
			action: ActionDoAction,
		},
		{
			name:   "empty",
			setup:  func(w *world.MemoryWorld) {},
			intent: IntentMove,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := world.NewMemoryWorld("table", 8, 8)
			tc.setup(w)
			g := pathfinding.NewGraph(w)
			ctx := Interpret(g, farmer(world.Tile{}), NewSession(), click(target))
			if ctx.Rejected() {
				t.Fatalf("expected click to be accepted, got %q", ctx.RejectReason)
			}
			if ctx.Intent != tc.intent || ctx.Action != tc.action {
				t.Fatalf("expected %s/%s, got %s/%s", tc.intent, tc.action, ctx.Intent, ctx.Action)
			}
			if ctx.ToolRequest != tc.tool {
				t.Fatalf("expected tool request %s, got %s", tc.tool, ctx.ToolRequest)
			}
			if ctx.ActFromNeighborTile != tc.neighbor {
				t.Fatalf("expected actFromNeighborTile=%v", tc.neighbor)
			}
			if ctx.Target != tc.target {
				t.Fatalf("expected target %q, got %q", tc.target, ctx.Target)
			}
			last := ctx.Path.Last()
			if last == nil {
				t.Fatalf("expected a non-empty path")
			}
			if tc.neighbor {
				if !last.Tile().IsAdjacent(target) {
					t.Fatalf("expected path to stop next to the target, ended at %+v", last.Tile())
				}
			} else if last.Tile() != target {
				t.Fatalf("expected path to end on the target, ended at %+v", last.Tile())
			}
			if g.NodeAtTile(target).FakeClear {
				t.Fatalf("expected fake-clear override to be lifted after planning")
			}
		})
	}
}

func TestInterpretHostileUsesRememberedWeapon(t *testing.T) {
	w := world.NewMemoryWorld("open", 6, 6)
	w.AddEntity(world.Entity{Handle: "bat", Kind: world.EntityHostile, Tile: world.Tile{X: 3, Y: 3}})
	g := pathfinding.NewGraph(w)
	c := farmer(world.Tile{})
	c.Inventory = append(c.Inventory, world.Item{Name: "Steel Smallsword", Tool: world.ToolMeleeWeapon})
	session := NewSession()
	session.RememberWeapon(c, 7)

	ctx := Interpret(g, c, session, click(world.Tile{X: 3, Y: 3}))
	if ctx.ToolSlot != 7 {
		t.Fatalf("expected remembered slot 7, got %d", ctx.ToolSlot)
	}
}

func TestInterpretChoppableStopsShort(t *testing.T) {
	_, g := mapGraph(t,
		".....",
		"..t..",
		".....",
	)
	ctx := Interpret(g, farmer(world.Tile{X: 0, Y: 1}), NewSession(), click(world.Tile{X: 2, Y: 1}))
	if !ctx.ActFromNeighborTile || !ctx.DestinationOccupied {
		t.Fatalf("expected occupied neighbour approach, got %+v", ctx)
	}
	if ctx.Path.Len() != 1 || ctx.Path.Last().Tile() != (world.Tile{X: 1, Y: 1}) {
		t.Fatalf("expected single step to 1,1, got %v", ctx.Path.Tiles())
	}
	if ctx.Destination.Tile() != (world.Tile{X: 2, Y: 1}) {
		t.Fatalf("expected destination node on the stump, got %+v", ctx.Destination.Tile())
	}
}

func TestInterpretChoppableChokepointKeepsRegionsApart(t *testing.T) {
	_, g := mapGraph(t,
		"..#..",
		"..t..",
		"..#..",
	)
	g.InvalidateBubbles()
	ctx := Interpret(g, farmer(world.Tile{X: 0, Y: 1}), NewSession(), click(world.Tile{X: 2, Y: 1}))
	if ctx.Rejected() || ctx.Path.Last().Tile() != (world.Tile{X: 1, Y: 1}) {
		t.Fatalf("expected to stand on 1,1, got %q %v", ctx.RejectReason, ctx.Path.Tiles())
	}
	if g.NodeAt(2, 1).FakeClear {
		t.Fatalf("expected fake-clear override to be undone")
	}

	near, far := g.NodeAt(0, 1), g.NodeAt(4, 1)
	if pathfinding.SameBubble(near, far) {
		t.Fatalf("expected separate bubbles, both got %d", near.BubbleID)
	}
	if p := g.FindPathWithBubbleCheck(near, far); p != nil {
		t.Fatalf("expected no path past the tree")
	}
	if got := g.LastSearchExpanded(); got != 0 {
		t.Fatalf("expected bubble check to reject without searching, got %d", got)
	}
}

func TestInterpretDiagonalFallback(t *testing.T) {
	_, g := mapGraph(t,
		".....",
		"..#..",
		".#s#.",
		"..#..",
		".....",
	)
	ctx := Interpret(g, farmer(world.Tile{}), NewSession(), click(world.Tile{X: 2, Y: 2}))
	if ctx.Rejected() || !ctx.Diagonal {
		t.Fatalf("expected diagonal approach, got %q", ctx.RejectReason)
	}
	if got := ctx.Path.Last().Tile(); got != (world.Tile{X: 1, Y: 1}) {
		t.Fatalf("expected to stand on 1,1, got %+v", got)
	}
}

func TestInterpretTieBreak(t *testing.T) {
	target := world.Tile{X: 2, Y: 2}
	w := world.NewMemoryWorld("open", 5, 5)
	w.PlaceObject(target, world.Object{Kind: world.ObjectForage})
	g := pathfinding.NewGraph(w)

	ctx := Interpret(g, farmer(world.Tile{X: 1, Y: 2}), NewSession(), click(target))
	if ctx.Intent != IntentActOnTile || ctx.Path.Len() != 1 || ctx.Path.Last().Tile() != target {
		t.Fatalf("expected straight neighbour to step onto the forage, got %s %v", ctx.Intent, ctx.Path.Tiles())
	}

	ctx = Interpret(g, farmer(world.Tile{X: 1, Y: 1}), NewSession(), click(target))
	if ctx.Intent != IntentActFromNeighbor || !ctx.Path.Empty() {
		t.Fatalf("expected diagonal neighbour to act in place, got %s %v", ctx.Intent, ctx.Path.Tiles())
	}
}

func TestInterpretHotspotRedirect(t *testing.T) {
	w := world.NewMemoryWorld("town", 6, 6)
	w.SetBlocked(world.Tile{X: 4, Y: 0}, true)
	w.AddHotspot(world.Hotspot{Kind: world.HotspotWarp, Tile: world.Tile{X: 4, Y: 0}, Approach: world.Tile{X: 4, Y: 1}})
	g := pathfinding.NewGraph(w)

	ctx := Interpret(g, farmer(world.Tile{X: 0, Y: 3}), NewSession(), click(world.Tile{X: 4, Y: 0}))
	if ctx.Hotspot == nil || !ctx.Redirected || !ctx.ActFromNeighborTile {
		t.Fatalf("expected redirected hotspot click, got %+v", ctx)
	}
	if ctx.Path.Last().Tile() != (world.Tile{X: 4, Y: 1}) || ctx.ActionTile != (world.Tile{X: 4, Y: 0}) {
		t.Fatalf("expected to stand on 4,1 facing 4,0, got %v -> %+v", ctx.Path.Tiles(), ctx.ActionTile)
	}
}

func TestInterpretBuildingRedirectsToDoorStep(t *testing.T) {
	w := world.NewMemoryWorld("farm", 8, 6)
	w.AddBuilding(world.Building{Handle: "coop", Origin: world.Tile{X: 3, Y: 1}, Width: 3, Height: 2, Door: world.Tile{X: 4, Y: 2}})
	g := pathfinding.NewGraph(w)

	ctx := Interpret(g, farmer(world.Tile{X: 0, Y: 5}), NewSession(), click(world.Tile{X: 3, Y: 1}))
	if ctx.Action != ActionDoAction || ctx.ActionTile != (world.Tile{X: 4, Y: 2}) {
		t.Fatalf("expected door action on 4,2, got %s %+v", ctx.Action, ctx.ActionTile)
	}
	if ctx.Path.Last().Tile() != (world.Tile{X: 4, Y: 3}) {
		t.Fatalf("expected to stand below the door, got %v", ctx.Path.Tiles())
	}
}

func TestInterpretWater(t *testing.T) {
	_, g := mapGraph(t,
		".....~~...",
		".....~~...",
		".....~~...",
	)
	ctx := Interpret(g, farmer(world.Tile{X: 1, Y: 1}), NewSession(), click(world.Tile{X: 6, Y: 1}))
	if ctx.Action != ActionUseTool || ctx.ToolRequest != world.ToolFishingRod {
		t.Fatalf("expected fishing rod use, got %s %s", ctx.Action, ctx.ToolRequest)
	}
	if ctx.Path.Last().Tile() != (world.Tile{X: 4, Y: 1}) || ctx.ActionTile != (world.Tile{X: 5, Y: 1}) {
		t.Fatalf("expected to stand on 4,1 facing 5,1, got %v -> %+v", ctx.Path.Tiles(), ctx.ActionTile)
	}
}

func TestInterpretNoPathMarker(t *testing.T) {
	_, g := mapGraph(t,
		".....",
		".###.",
		".#.#.",
		".###.",
		".....",
	)
	ctx := Interpret(g, farmer(world.Tile{}), NewSession(), click(world.Tile{X: 2, Y: 2}))
	if !ctx.Rejected() || ctx.RejectReason != ReasonNoPath {
		t.Fatalf("expected no-path rejection, got %s %q", ctx.Intent, ctx.RejectReason)
	}
	if ctx.NoPathMarker == nil || *ctx.NoPathMarker != (world.Tile{X: 2, Y: 2}) {
		t.Fatalf("expected marker on 2,2, got %v", ctx.NoPathMarker)
	}
	if g.LastSearchExpanded() != 0 {
		t.Fatalf("expected bubble check to reject without searching, got %d", g.LastSearchExpanded())
	}
}

func TestInterpretRetriesOneRowDown(t *testing.T) {
	_, g := mapGraph(t,
		".....",
		".#...",
		".....",
	)
	ctx := Interpret(g, farmer(world.Tile{}), NewSession(), click(world.Tile{X: 1, Y: 1}))
	if ctx.Rejected() || !ctx.Retried {
		t.Fatalf("expected retry to succeed, got %q", ctx.RejectReason)
	}
	if ctx.ClickedTile != (world.Tile{X: 1, Y: 2}) || ctx.Path.Last().Tile() != (world.Tile{X: 1, Y: 2}) {
		t.Fatalf("expected route to 1,2, got %+v %v", ctx.ClickedTile, ctx.Path.Tiles())
	}
}

func TestSessionHoldThreshold(t *testing.T) {
	s := NewSession()
	start := time.Unix(0, 0)
	s.Press(start)
	if s.IsHeld(start.Add(200 * time.Millisecond)) {
		t.Fatalf("expected 200ms to count as a tap")
	}
	if !s.IsHeld(start.Add(400 * time.Millisecond)) {
		t.Fatalf("expected 400ms to count as a hold")
	}
	if held := s.Release(start.Add(500 * time.Millisecond)); held != 500*time.Millisecond {
		t.Fatalf("expected 500ms hold, got %s", held)
	}
	if s.Pressed() || s.IsHeld(start.Add(time.Second)) {
		t.Fatalf("expected release to clear the hold")
	}
}
