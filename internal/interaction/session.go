package interaction

import (
	"time"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/world"
)

// DefaultHoldThreshold separates a held click from a tap.
const DefaultHoldThreshold = 350 * time.Millisecond

// Session carries interaction state that outlives a single click: whether a
// menu owns input, which weapon was swung last, and click timing. One
// session belongs to one player and is passed by reference.
type Session struct {
	InputBlocked bool
	// LastWeapon is the inventory slot of the last melee weapon used, -1
	// when none.
	LastWeapon int

	HoldThreshold time.Duration

	pressedAt time.Time
	pressed   bool
	lastClick time.Time
}

// NewSession returns a session with the default hold threshold.
func NewSession() *Session {
	return &Session{LastWeapon: -1, HoldThreshold: DefaultHoldThreshold}
}

// BlockInput toggles the menu/dialogue gate.
func (s *Session) BlockInput(blocked bool) {
	s.InputBlocked = blocked
}

// RememberWeapon records the slot of a melee weapon the character swung.
func (s *Session) RememberWeapon(c world.Character, slot int) {
	if slot < 0 || slot >= len(c.Inventory) || !c.Inventory[slot].Tool.IsMelee() {
		return
	}
	s.LastWeapon = slot
}

// Press records the moment the button went down.
func (s *Session) Press(at time.Time) {
	s.pressedAt = at
	s.pressed = true
	s.lastClick = at
}

// Release clears the pressed state and returns how long it was held.
func (s *Session) Release(at time.Time) time.Duration {
	held := s.HeldFor(at)
	s.pressed = false
	return held
}

// Pressed reports whether the button is currently down.
func (s *Session) Pressed() bool {
	return s.pressed
}

// HeldFor reports how long the button has been down at the given time.
func (s *Session) HeldFor(now time.Time) time.Duration {
	if !s.pressed || now.Before(s.pressedAt) {
		return 0
	}
	return now.Sub(s.pressedAt)
}

// IsHeld reports whether the press has outlasted the hold threshold.
func (s *Session) IsHeld(now time.Time) bool {
	threshold := s.HoldThreshold
	if threshold <= 0 {
		threshold = DefaultHoldThreshold
	}
	return s.pressed && s.HeldFor(now) >= threshold
}

// LastClick returns the time of the most recent press.
func (s *Session) LastClick() time.Time {
	return s.lastClick
}

// weaponSlot picks the slot to use against a hostile: the remembered weapon
// if it is still melee, otherwise the first melee weapon, then a scythe.
func (s *Session) weaponSlot(c world.Character) int {
	if s != nil && s.LastWeapon >= 0 && s.LastWeapon < len(c.Inventory) && c.Inventory[s.LastWeapon].Tool.IsMelee() {
		return s.LastWeapon
	}
	if slot := c.FindTool(world.ToolMeleeWeapon); slot >= 0 {
		return slot
	}
	return c.FindTool(world.ToolScythe)
}
