package controller

import (
	"context"
	"testing"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/interaction"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/telemetry"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/world"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging/navigation"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging/sinks"
)

func newLocation(t *testing.T, name string) (*world.MemoryWorld, *world.Walker) {
	t.Helper()
	w, _, err := world.MapFile{Name: name, Rows: openRows}.Build()
	if err != nil {
		t.Fatalf("build map: %v", err)
	}
	walker := world.NewWalker(w, farmerAt(world.Tile{X: 0, Y: 1}.Center(), 0, parsnip))
	w.Attach("farmer", walker)
	return w, walker
}

func TestRegistryLifecycle(t *testing.T) {
	events := sinks.NewMemorySink()
	counters := telemetry.NewCounters()
	reg := NewRegistry(DefaultConfig(), events, counters)
	ctx := context.Background()

	farm, farmWalker := newLocation(t, "Farm")
	town, _ := newLocation(t, "Town")
	session := interaction.NewSession()
	farmCtx := reg.Create(farm, farmWalker, session)
	reg.Create(town, world.NewWalker(town, farmerAt(world.Tile{X: 1, Y: 1}.Center(), 0, parsnip)), nil)

	if names := reg.Names(); len(names) != 2 || names[0] != "Farm" || names[1] != "Town" {
		t.Fatalf("unexpected names %v", names)
	}
	got, ok := reg.Get("Farm")
	if !ok || got != farmCtx {
		t.Fatalf("expected to get the farm context")
	}
	if !farmCtx.Graph.BubblesValid() {
		t.Fatalf("expected bubbles to be built on create")
	}
	if got.Controller.Session() != session {
		t.Fatalf("expected the shared session to be used")
	}

	if !reg.Invalidate("Farm") || farmCtx.Graph.BubblesValid() {
		t.Fatalf("expected invalidate to mark bubbles stale")
	}
	if reg.Invalidate("Mines") {
		t.Fatalf("expected unknown location to fail")
	}

	farmCtx.Controller.OnClick(ctx, interaction.ClickRequest{Point: world.Tile{X: 4, Y: 1}.Center(), At: clickTime})
	reg.Update(ctx, 1)
	farmWalker.Step(tickSeconds)
	if !farmCtx.Controller.Active() {
		t.Fatalf("expected the farm controller to be walking")
	}
	if counters.Value(telemetry.KeyClicks) != 1 || counters.Value(telemetry.KeyPathsComputed) != 1 {
		t.Fatalf("unexpected counters %v", counters.Snapshot())
	}

	old := farmCtx.Graph
	if !reg.Rebuild("Farm") || farmCtx.Graph == old {
		t.Fatalf("expected rebuild to replace the grid")
	}
	reg.Update(ctx, 2)
	if farmCtx.Controller.Active() {
		t.Fatalf("expected the stale destination to reset the controller")
	}
	resets := events.OfType(navigation.EventReset)
	if len(resets) != 1 || resets[0].Payload.(navigation.ResetPayload).Reason != ReasonStale {
		t.Fatalf("expected a stale reset, got %+v", resets)
	}

	click := farmCtx.Controller.OnClick(ctx, interaction.ClickRequest{Point: world.Tile{X: 3, Y: 2}.Center(), At: clickTime})
	if click.Rejected() || !farmCtx.Graph.Contains(click.Destination) {
		t.Fatalf("expected new clicks to route on the rebuilt grid")
	}

	if !reg.Evict(ctx, "Farm") {
		t.Fatalf("expected evict to succeed")
	}
	if _, ok := reg.Get("Farm"); ok {
		t.Fatalf("expected farm to be gone")
	}
	if farmCtx.Controller.Active() {
		t.Fatalf("expected eviction to cancel the interaction")
	}
	if reg.Evict(ctx, "Farm") || reg.Rebuild("Farm") {
		t.Fatalf("expected a second evict and a rebuild of a missing location to fail")
	}
}
