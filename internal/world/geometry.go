package world

import "math"

// TileSize is the edge length of a map tile in pixels.
const TileSize = 64.0

// Tile addresses a single map cell.
type Tile struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Vec2 is a pixel-space position.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns t shifted by (dx, dy).
func (t Tile) Add(dx, dy int) Tile {
	return Tile{X: t.X + dx, Y: t.Y + dy}
}

// Center reports the pixel position at the middle of the tile.
func (t Tile) Center() Vec2 {
	return Vec2{
		X: (float64(t.X) + 0.5) * TileSize,
		Y: (float64(t.Y) + 0.5) * TileSize,
	}
}

// ManhattanDistance reports |dx| + |dy| between two tiles.
func (t Tile) ManhattanDistance(other Tile) int {
	return absInt(t.X-other.X) + absInt(t.Y-other.Y)
}

// ChebyshevDistance reports max(|dx|, |dy|) between two tiles.
func (t Tile) ChebyshevDistance(other Tile) int {
	dx := absInt(t.X - other.X)
	dy := absInt(t.Y - other.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// IsAdjacent reports whether other touches t orthogonally or diagonally.
func (t Tile) IsAdjacent(other Tile) bool {
	return t != other && t.ChebyshevDistance(other) == 1
}

// TileAt returns the tile containing the pixel position.
func TileAt(p Vec2) Tile {
	return Tile{
		X: int(math.Floor(p.X / TileSize)),
		Y: int(math.Floor(p.Y / TileSize)),
	}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Length reports the euclidean norm.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance reports the euclidean distance between two positions.
func (v Vec2) Distance(other Vec2) float64 {
	return math.Hypot(v.X-other.X, v.Y-other.Y)
}

// Normalized scales v to unit length. Zero vectors are returned unchanged.
func (v Vec2) Normalized() Vec2 {
	length := v.Length()
	if length == 0 {
		return v
	}
	return Vec2{X: v.X / length, Y: v.Y / length}
}

// Clamp limits value to the range [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Facing identifies the orientation of a character.
type Facing string

const (
	FacingUp    Facing = "up"
	FacingDown  Facing = "down"
	FacingLeft  Facing = "left"
	FacingRight Facing = "right"
)

// DeriveFacing picks the dominant axis of the movement vector, keeping the
// fallback when the vector is zero.
func DeriveFacing(dx, dy float64, fallback Facing) Facing {
	if dx == 0 && dy == 0 {
		return fallback
	}
	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return FacingRight
		}
		return FacingLeft
	}
	if dy > 0 {
		return FacingDown
	}
	return FacingUp
}

// FacingToward reports the facing needed to look from one tile at another.
func FacingToward(from, to Tile, fallback Facing) Facing {
	return DeriveFacing(float64(to.X-from.X), float64(to.Y-from.Y), fallback)
}

// Step returns the tile offset one step in the facing direction.
func (f Facing) Step() Tile {
	switch f {
	case FacingUp:
		return Tile{Y: -1}
	case FacingLeft:
		return Tile{X: -1}
	case FacingRight:
		return Tile{X: 1}
	default:
		return Tile{Y: 1}
	}
}

// Inverse returns the opposite facing.
func (f Facing) Inverse() Facing {
	switch f {
	case FacingUp:
		return FacingDown
	case FacingDown:
		return FacingUp
	case FacingLeft:
		return FacingRight
	case FacingRight:
		return FacingLeft
	default:
		return f
	}
}
