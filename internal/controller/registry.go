package controller

import (
	"context"
	"sort"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/interaction"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/pathfinding"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/telemetry"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/world"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging"
)

// Context is the pathfinding state of one location: its node grid and the
// controller walking the local character over it.
type Context struct {
	World      world.World
	Graph      *pathfinding.Graph
	Controller *Controller
}

// Registry owns one Context per location, keyed by location name.
type Registry struct {
	cfg       Config
	publisher logging.Publisher
	metrics   telemetry.Metrics
	contexts  map[string]*Context
}

// NewRegistry constructs an empty registry whose controllers share the given
// configuration and sinks.
func NewRegistry(cfg Config, pub logging.Publisher, metrics telemetry.Metrics) *Registry {
	return &Registry{
		cfg:       cfg,
		publisher: pub,
		metrics:   metrics,
		contexts:  make(map[string]*Context),
	}
}

// Create builds the grid and controller for w, replacing any context already
// registered under the same name.
func (r *Registry) Create(w world.World, actor world.Actor, session *interaction.Session) *Context {
	graph := pathfinding.NewGraph(w)
	graph.BuildBubbles()
	pctx := &Context{
		World: w,
		Graph: graph,
		Controller: New(graph, actor, Options{
			Config:    r.cfg,
			Publisher: r.publisher,
			Metrics:   r.metrics,
			Session:   session,
		}),
	}
	r.contexts[w.Name()] = pctx
	return pctx
}

// Get returns the context registered for a location.
func (r *Registry) Get(name string) (*Context, bool) {
	pctx, ok := r.contexts[name]
	return pctx, ok
}

// Evict drops a location that is no longer referenced, cancelling its
// interaction.
func (r *Registry) Evict(ctx context.Context, name string) bool {
	pctx, ok := r.contexts[name]
	if !ok {
		return false
	}
	pctx.Controller.Reset(ctx)
	delete(r.contexts, name)
	return true
}

// Invalidate marks the connectivity labels of a location stale after its
// traversability changed.
func (r *Registry) Invalidate(name string) bool {
	pctx, ok := r.contexts[name]
	if !ok {
		return false
	}
	pctx.Graph.InvalidateBubbles()
	return true
}

// Rebuild replaces the node grid of a location after its layout changed.
// The controller notices its stale destination on the next Update.
func (r *Registry) Rebuild(name string) bool {
	pctx, ok := r.contexts[name]
	if !ok {
		return false
	}
	pctx.Graph = pathfinding.NewGraph(pctx.World)
	pctx.Graph.BuildBubbles()
	pctx.Controller.SetGraph(pctx.Graph)
	return true
}

// Names lists the registered locations in order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.contexts))
	for name := range r.contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Update advances every controller by one tick in location order.
func (r *Registry) Update(ctx context.Context, tick uint64) {
	for _, name := range r.Names() {
		r.contexts[name].Controller.Update(ctx, tick)
	}
}
