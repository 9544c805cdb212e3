package sim

import "time"

// CommandType enumerates the input edges a client can stage.
type CommandType string

const (
	CommandClick        CommandType = "Click"
	CommandClickHeld    CommandType = "ClickHeld"
	CommandClickRelease CommandType = "ClickRelease"
	CommandReset        CommandType = "Reset"
	CommandJoystick     CommandType = "Joystick"
)

// PointerCommand carries the pixel position under the cursor.
type PointerCommand struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// JoystickCommand carries a direct steering vector.
type JoystickCommand struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Command represents an input captured for processing on the next tick.
type Command struct {
	OriginTick uint64           `json:"originTick"`
	ActorID    string           `json:"actorId"`
	Location   string           `json:"location,omitempty"`
	Type       CommandType      `json:"type"`
	IssuedAt   time.Time        `json:"issuedAt"`
	Pointer    *PointerCommand  `json:"pointer,omitempty"`
	Joystick   *JoystickCommand `json:"joystick,omitempty"`
}
