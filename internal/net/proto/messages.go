package proto

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/sim"
)

const (
	// Version tracks the wire-protocol revision expected by clients.
	Version = 1
)

// Client message type identifiers.
const (
	TypeClick        = "click"
	TypeClickHeld    = "clickHeld"
	TypeClickRelease = "clickRelease"
	TypeReset        = "reset"
	TypeJoystick     = "joystick"
	TypeHeartbeat    = "heartbeat"
)

// Server message type identifiers.
const (
	TypeWelcome       = "welcome"
	TypeState         = "state"
	TypeCommandReject = "commandReject"
)

// ErrUnknownType is returned for client messages the server does not handle.
var ErrUnknownType = errors.New("unknown message type")

// ClientMessage is every message a client sends. Pointer messages carry X/Y
// in world pixels; joystick messages carry DX/DY.
type ClientMessage struct {
	Ver      int     `json:"ver,omitempty"`
	Type     string  `json:"type" jsonschema:"enum=click,enum=clickHeld,enum=clickRelease,enum=reset,enum=joystick,enum=heartbeat"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	DX       float64 `json:"dx,omitempty"`
	DY       float64 `json:"dy,omitempty"`
	Location string  `json:"location,omitempty"`
	SentAt   int64   `json:"sentAt,omitempty"`
	Seq      uint64  `json:"seq,omitempty"`
}

// MapInfo describes the location a client is looking at.
type MapInfo struct {
	Name     string  `json:"name"`
	Cols     int     `json:"cols"`
	Rows     int     `json:"rows"`
	TileSize float64 `json:"tileSize"`
}

// WelcomeMessage is sent once after the websocket upgrade.
type WelcomeMessage struct {
	Ver       int     `json:"ver"`
	Type      string  `json:"type"`
	SessionID string  `json:"sessionId"`
	TickRate  int     `json:"tickRate"`
	Map       MapInfo `json:"map"`
}

// StateMessage is broadcast after every tick.
type StateMessage struct {
	Ver        int                     `json:"ver"`
	Type       string                  `json:"type"`
	Tick       uint64                  `json:"tick"`
	ServerTime int64                   `json:"serverTime"`
	Characters []sim.CharacterSnapshot `json:"characters"`
	Entities   []sim.EntitySnapshot    `json:"entities,omitempty"`
}

// CommandRejectMessage reports a command the server refused to stage.
type CommandRejectMessage struct {
	Ver    int    `json:"ver"`
	Type   string `json:"type"`
	Seq    uint64 `json:"seq,omitempty"`
	Reason string `json:"reason"`
	Retry  bool   `json:"retry,omitempty"`
}

// HeartbeatMessage answers a client heartbeat.
type HeartbeatMessage struct {
	Ver        int    `json:"ver"`
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime"`
	RTTMillis  int64  `json:"rtt"`
}

var commandTypes = map[string]sim.CommandType{
	TypeClick:        sim.CommandClick,
	TypeClickHeld:    sim.CommandClickHeld,
	TypeClickRelease: sim.CommandClickRelease,
	TypeReset:        sim.CommandReset,
	TypeJoystick:     sim.CommandJoystick,
}

// DecodeClientMessage parses one client frame.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("decode client message: %w", err)
	}
	return msg, nil
}

// Command converts an input message into a simulation command issued by
// the given session.
func (m ClientMessage) Command(sessionID string, receivedAt time.Time) (sim.Command, error) {
	kind, ok := commandTypes[m.Type]
	if !ok {
		return sim.Command{}, fmt.Errorf("%q: %w", m.Type, ErrUnknownType)
	}
	cmd := sim.Command{
		ActorID:  sessionID,
		Location: m.Location,
		Type:     kind,
		IssuedAt: receivedAt,
	}
	switch kind {
	case sim.CommandClick, sim.CommandClickHeld, sim.CommandClickRelease:
		cmd.Pointer = &sim.PointerCommand{X: m.X, Y: m.Y}
	case sim.CommandJoystick:
		cmd.Joystick = &sim.JoystickCommand{DX: m.DX, DY: m.DY}
	}
	return cmd, nil
}

// NewStateMessage wraps a tick snapshot for broadcast.
func NewStateMessage(snap sim.Snapshot, now time.Time) StateMessage {
	characters := snap.Characters
	if characters == nil {
		characters = []sim.CharacterSnapshot{}
	}
	return StateMessage{
		Ver:        Version,
		Type:       TypeState,
		Tick:       snap.Tick,
		ServerTime: now.UnixMilli(),
		Characters: characters,
		Entities:   snap.Entities,
	}
}

// NewCommandReject builds the reply for a refused command.
func NewCommandReject(seq uint64, reason string) CommandRejectMessage {
	return CommandRejectMessage{
		Ver:    Version,
		Type:   TypeCommandReject,
		Seq:    seq,
		Reason: reason,
		Retry:  reason == sim.CommandRejectQueueLimit || reason == sim.CommandRejectQueueFull,
	}
}

// NewHeartbeat answers a heartbeat received at now.
func NewHeartbeat(clientSent int64, now time.Time) HeartbeatMessage {
	msg := HeartbeatMessage{
		Ver:        Version,
		Type:       TypeHeartbeat,
		ServerTime: now.UnixMilli(),
		ClientTime: clientSent,
	}
	if clientSent > 0 {
		if rtt := now.Sub(time.UnixMilli(clientSent)); rtt > 0 {
			msg.RTTMillis = rtt.Milliseconds()
		}
	}
	return msg
}
