package sim

import "github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/world"

// CharacterSnapshot is the per-tick view of one controlled character.
type CharacterSnapshot struct {
	Location    string       `json:"location"`
	ID          string       `json:"id"`
	X           float64      `json:"x"`
	Y           float64      `json:"y"`
	Facing      world.Facing `json:"facing"`
	Item        string       `json:"item,omitempty"`
	UsingTool   bool         `json:"usingTool,omitempty"`
	Phase       string       `json:"phase"`
	Path        []world.Tile `json:"path,omitempty"`
	NoPath      *world.Tile  `json:"noPath,omitempty"`
	Target      string       `json:"target,omitempty"`
	Attempts    int          `json:"attempts,omitempty"`
	StuckCount  int          `json:"stuckCount,omitempty"`
	OpenedGates []world.Tile `json:"openedGates,omitempty"`
}

// EntitySnapshot places a moving occupant.
type EntitySnapshot struct {
	Location string     `json:"location"`
	Handle   string     `json:"handle"`
	Kind     string     `json:"kind"`
	Tile     world.Tile `json:"tile"`
}

// Snapshot captures every location after a tick.
type Snapshot struct {
	Tick       uint64              `json:"tick"`
	Characters []CharacterSnapshot `json:"characters"`
	Entities   []EntitySnapshot    `json:"entities,omitempty"`
}
