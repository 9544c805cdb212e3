package world

import (
	"hash/fnv"
	"math/rand/v2"
)

// DefaultSeed seeds generated maps when no seed is configured.
const DefaultSeed = "stardew-valley"

// DeterministicSeedValue hashes a root seed and a label into a non-zero
// seed. Different labels under one root never share a stream.
func DeterministicSeedValue(rootSeed, label string) int64 {
	h := fnv.New64a()
	h.Write([]byte(label))
	h.Write([]byte{'@'})
	h.Write([]byte(rootSeed))
	if sum := int64(h.Sum64()); sum != 0 {
		return sum
	}
	return 1
}

// NewDeterministicRNG returns a PCG stream for rootSeed and label.
func NewDeterministicRNG(rootSeed, label string) *rand.Rand {
	hi := uint64(DeterministicSeedValue(rootSeed, label))
	lo := uint64(DeterministicSeedValue(label, rootSeed))
	return rand.New(rand.NewPCG(hi, lo))
}

// RandomOpenTile draws tiles until one is passable. It gives up after four
// draws per tile of the map.
func RandomOpenTile(w World, rng *rand.Rand) (Tile, bool) {
	if w == nil || rng == nil {
		return Tile{}, false
	}
	cols, rows := w.Size()
	if cols <= 0 || rows <= 0 {
		return Tile{}, false
	}
	for draws := 4 * cols * rows; draws > 0; draws-- {
		t := Tile{X: rng.IntN(cols), Y: rng.IntN(rows)}
		if w.IsPassable(t) {
			return t, true
		}
	}
	return Tile{}, false
}
