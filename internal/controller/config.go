package controller

import (
	"time"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/interaction"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/world"
)

// Config tunes the path follower. Distances are in pixels.
type Config struct {
	TileSize float64
	// ArriveRadius is the distance to the destination centre that counts as
	// arrival for routes that end on their destination.
	ArriveRadius float64
	// TooClose and TooFar bound the acceptable distance, in tiles, between
	// the character and the tile it acts on from a neighbour.
	TooClose float64
	TooFar   float64
	// ProgressEpsilon is the minimum decrease in distance that counts as
	// progress toward the next node.
	ProgressEpsilon float64

	StuckCorrectThreshold int
	StuckGiveUpThreshold  int
	MaxAttempts           int

	HoldThreshold time.Duration
	// AttackRange is the Chebyshev tile distance at which hostiles are struck.
	AttackRange int
	// GateRange is the distance to a closed gate on the route at which it is
	// opened.
	GateRange  float64
	AutoAttack bool
}

// DefaultConfig returns the tuning used by the demo host.
func DefaultConfig() Config {
	return Config{
		TileSize:              world.TileSize,
		ArriveRadius:          world.TileSize / 8,
		TooClose:              0.75,
		TooFar:                1.5,
		ProgressEpsilon:       0.1,
		StuckCorrectThreshold: 4,
		StuckGiveUpThreshold:  8,
		MaxAttempts:           2,
		HoldThreshold:         interaction.DefaultHoldThreshold,
		AttackRange:           1,
		GateRange:             1.5 * world.TileSize,
		AutoAttack:            true,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.TileSize <= 0 {
		c.TileSize = def.TileSize
	}
	if c.ArriveRadius <= 0 {
		c.ArriveRadius = def.ArriveRadius
	}
	if c.TooClose <= 0 {
		c.TooClose = def.TooClose
	}
	if c.TooFar <= c.TooClose {
		c.TooFar = def.TooFar
	}
	if c.ProgressEpsilon < 0 {
		c.ProgressEpsilon = 0
	}
	if c.StuckCorrectThreshold <= 0 {
		c.StuckCorrectThreshold = def.StuckCorrectThreshold
	}
	if c.StuckGiveUpThreshold <= c.StuckCorrectThreshold {
		c.StuckGiveUpThreshold = c.StuckCorrectThreshold + def.StuckGiveUpThreshold - def.StuckCorrectThreshold
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.HoldThreshold <= 0 {
		c.HoldThreshold = def.HoldThreshold
	}
	if c.AttackRange <= 0 {
		c.AttackRange = def.AttackRange
	}
	if c.GateRange <= 0 {
		c.GateRange = def.GateRange
	}
	return c
}
