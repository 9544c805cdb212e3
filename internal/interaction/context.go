package interaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/pathfinding"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/world"
)

// Intent is the classified outcome of a click.
type Intent int

const (
	IntentReject Intent = iota
	IntentMove
	IntentActOnTile
	IntentActFromNeighbor
	IntentSelf
)

var intentNames = map[Intent]string{
	IntentReject:          "reject",
	IntentMove:            "move",
	IntentActOnTile:       "act_on_tile",
	IntentActFromNeighbor: "act_from_neighbor",
	IntentSelf:            "self",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return "unknown"
}

// Action is what the controller does once the route completes.
type Action int

const (
	ActionNone Action = iota
	ActionDoAction
	ActionUseTool
	ActionMount
)

var actionNames = map[Action]string{
	ActionNone:     "none",
	ActionDoAction: "do_action",
	ActionUseTool:  "use_tool",
	ActionMount:    "mount",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Reject reasons reported on ClickContext.RejectReason.
const (
	ReasonIncapacitated = "incapacitated"
	ReasonInputBlocked  = "input_blocked"
	ReasonOffMap        = "off_map"
	ReasonNoPath        = "no_path"
)

// ClickRequest is one input edge from the host.
type ClickRequest struct {
	Point world.Vec2
	At    time.Time
}

// ClickContext is the interpreted click. It lives until the interaction
// completes or is reset.
type ClickContext struct {
	ID    uuid.UUID
	At    time.Time
	Point world.Vec2

	// ClickedTile is the tile the interpretation settled on, after any
	// vertical-shift retry.
	ClickedTile world.Tile
	// ActionTile is the tile the arrival action targets.
	ActionTile world.Tile
	// Destination is the node the route was planned toward.
	Destination *pathfinding.Node
	Path        *pathfinding.Path

	Intent Intent
	Action Action

	ActOnArrival        bool
	ActFromNeighborTile bool
	DestinationOccupied bool
	// Redirected marks destinations moved to a dedicated standing tile
	// (hotspot approach, door step, shore). Such routes end on Destination.
	Redirected bool
	// Diagonal marks routes that fell back to a diagonal neighbour.
	Diagonal bool
	Retried  bool

	ToolRequest world.ToolKind
	// ToolSlot pins the inventory slot to select; -1 resolves by ToolRequest.
	ToolSlot int

	Content world.TileContent
	Hotspot *world.Hotspot
	// Target is the entity to track while walking, if any.
	Target world.Handle

	RejectReason string
	// NoPathMarker is set when the click could not be routed; hosts draw it.
	NoPathMarker *world.Tile
}

// Rejected reports whether the click produced no interaction.
func (c *ClickContext) Rejected() bool {
	return c == nil || c.Intent == IntentReject
}

// TraceID returns the click id as a string for event correlation.
func (c *ClickContext) TraceID() string {
	if c == nil {
		return ""
	}
	return c.ID.String()
}

func newContext(req ClickRequest) *ClickContext {
	return &ClickContext{
		ID:          uuid.New(),
		At:          req.At,
		Point:       req.Point,
		ClickedTile: world.TileAt(req.Point),
		ToolSlot:    -1,
	}
}
