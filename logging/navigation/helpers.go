package navigation

import (
	"context"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/world"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging"
)

const (
	// EventPathComputed is emitted when a click produced a route.
	EventPathComputed logging.EventType = "navigation.path_computed"
	// EventPathRejected is emitted when a click could not be routed.
	EventPathRejected logging.EventType = "navigation.path_rejected"
	// EventClickRejected is emitted when a click was ignored before routing.
	EventClickRejected logging.EventType = "navigation.click_rejected"
	// EventStuck is emitted when the follower stops making progress.
	EventStuck logging.EventType = "navigation.stuck"
	// EventAction is emitted when the arrival action fires.
	EventAction logging.EventType = "navigation.action"
	// EventGateOpened is emitted when a gate on the route is opened.
	EventGateOpened logging.EventType = "navigation.gate_opened"
	// EventAttack is emitted when an adjacent hostile is struck.
	EventAttack logging.EventType = "navigation.attack"
	// EventReset is emitted when an interaction is cancelled.
	EventReset logging.EventType = "navigation.reset"
)

// PathComputedPayload describes a planned route.
type PathComputedPayload struct {
	Clicked     world.Tile `json:"clicked"`
	Destination world.Tile `json:"destination"`
	Steps       int        `json:"steps"`
	Intent      string     `json:"intent"`
	Action      string     `json:"action,omitempty"`
	Tool        string     `json:"tool,omitempty"`
	Retried     bool       `json:"retried,omitempty"`
	Diagonal    bool       `json:"diagonal,omitempty"`
}

// PathRejectedPayload carries the no-path marker.
type PathRejectedPayload struct {
	Tile world.Tile `json:"tile"`
}

// ClickRejectedPayload explains why a click was ignored.
type ClickRejectedPayload struct {
	Reason string     `json:"reason"`
	Tile   world.Tile `json:"tile"`
}

// StuckPayload describes a recovery step.
type StuckPayload struct {
	Count    int        `json:"count"`
	Attempt  int        `json:"attempt"`
	Strategy string     `json:"strategy"`
	Tile     world.Tile `json:"tile"`
}

// ActionPayload describes the action performed on arrival.
type ActionPayload struct {
	Kind    string     `json:"kind"`
	Tile    world.Tile `json:"tile"`
	Tool    string     `json:"tool,omitempty"`
	Success bool       `json:"success"`
}

// GatePayload locates an opened gate.
type GatePayload struct {
	Tile world.Tile `json:"tile"`
}

// AttackPayload describes an automatic strike.
type AttackPayload struct {
	Tile world.Tile `json:"tile"`
	Tool string     `json:"tool"`
}

// ResetPayload explains why an interaction ended early.
type ResetPayload struct {
	Reason string `json:"reason"`
	Phase  string `json:"phase"`
}

func publish(ctx context.Context, pub logging.Publisher, event logging.Event) {
	if pub == nil {
		return
	}
	if event.Category == "" {
		event.Category = logging.CategoryNavigation
	}
	pub.Publish(ctx, event)
}

// PathComputed publishes a planned route.
func PathComputed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, traceID string, payload PathComputedPayload, extra map[string]any) {
	publish(ctx, pub, logging.Event{
		Type:     EventPathComputed,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Payload:  payload,
		Extra:    extra,
		TraceID:  traceID,
	})
}

// PathRejected publishes a no-path marker.
func PathRejected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, traceID string, payload PathRejectedPayload, extra map[string]any) {
	publish(ctx, pub, logging.Event{
		Type:     EventPathRejected,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Payload:  payload,
		Extra:    extra,
		TraceID:  traceID,
	})
}

// ClickRejected publishes a click ignored before routing.
func ClickRejected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, traceID string, payload ClickRejectedPayload, extra map[string]any) {
	publish(ctx, pub, logging.Event{
		Type:     EventClickRejected,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryInteraction,
		Payload:  payload,
		Extra:    extra,
		TraceID:  traceID,
	})
}

// Stuck publishes a recovery step.
func Stuck(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, traceID string, payload StuckPayload, extra map[string]any) {
	publish(ctx, pub, logging.Event{
		Type:     EventStuck,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Payload:  payload,
		Extra:    extra,
		TraceID:  traceID,
	})
}

// Action publishes the arrival action.
func Action(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, traceID string, payload ActionPayload, extra map[string]any) {
	var targets []logging.EntityRef
	if target.ID != "" {
		targets = []logging.EntityRef{target}
	}
	publish(ctx, pub, logging.Event{
		Type:     EventAction,
		Tick:     tick,
		Actor:    actor,
		Targets:  targets,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryInteraction,
		Payload:  payload,
		Extra:    extra,
		TraceID:  traceID,
	})
}

// GateOpened publishes an automatic gate opening.
func GateOpened(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, traceID string, payload GatePayload, extra map[string]any) {
	publish(ctx, pub, logging.Event{
		Type:     EventGateOpened,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Payload:  payload,
		Extra:    extra,
		TraceID:  traceID,
	})
}

// Attack publishes an automatic strike on a hostile.
func Attack(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload AttackPayload, extra map[string]any) {
	publish(ctx, pub, logging.Event{
		Type:     EventAttack,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryInteraction,
		Payload:  payload,
		Extra:    extra,
	})
}

// Reset publishes a cancelled interaction.
func Reset(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, traceID string, payload ResetPayload, extra map[string]any) {
	publish(ctx, pub, logging.Event{
		Type:     EventReset,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Payload:  payload,
		Extra:    extra,
		TraceID:  traceID,
	})
}
