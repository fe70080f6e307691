package chunk

import worldpkg "github.com/vev-studio/worldcore/engine/world"

// MudMaxDistance bounds the mud flood-fill to waves 1..MudMaxDistance.
const MudMaxDistance = 3

// mudBaseProbability is the base of the per-wave acceptance probability:
// wave w accepts with mudBaseProbability - (w-1)*0.15 (0.80 for wave 2,
// 0.65 for wave 3).
const mudBaseProbability = 0.95

// Postprocess runs the two per-chunk tile passes: mud-ring flood fill, then
// 8-neighbor adjacency packing. Deterministic for fixed (worldSeed, coord).
func Postprocess(c *Chunk, worldSeed uint64) {
	generateMud(c, worldSeed)
	computeAdjacency(c)
}

func generateMud(c *Chunk, worldSeed uint64) {
	size := worldpkg.ChunkSize

	// Wave 1: every non-water tile cardinal-adjacent to water becomes mud,
	// unconditionally.
	isMud := make([]bool, size*size)
	for ly := 0; ly < size; ly++ {
		for lx := 0; lx < size; lx++ {
			t := c.Tile(lx, ly)
			if t.Surface.IsWater() {
				continue
			}
			if cardinalHasSurface(c, lx, ly, Water) {
				isMud[idx(lx, ly)] = true
			}
		}
	}
	applyMud(c, isMud)

	// Waves 2..MudMaxDistance: extend only from existing mud, with
	// decreasing probability, collecting candidates before mutating so the
	// wave doesn't consume its own output mid-scan.
	for wave := 2; wave <= MudMaxDistance; wave++ {
		probability := mudBaseProbability - float64(wave-1)*0.15
		var candidates []int
		for ly := 0; ly < size; ly++ {
			for lx := 0; lx < size; lx++ {
				t := c.Tile(lx, ly)
				if !canBeMud(t.Surface) {
					continue
				}
				if !cardinalHasSurface(c, lx, ly, Mud) {
					continue
				}
				h := mudHash(lx, ly, worldSeed+uint64(wave)*1000)
				if hashUnit(h) < probability {
					candidates = append(candidates, idx(lx, ly))
				}
			}
		}
		for _, i := range candidates {
			isMud[i] = true
		}
		applyMudIndices(c, candidates)
	}
}

func canBeMud(s Surface) bool {
	switch s {
	case Soil, Dirt, Grass, GrassTall, GrassShort, GrassMeadow:
		return true
	default:
		return false
	}
}

func cardinalHasSurface(c *Chunk, lx, ly int, want Surface) bool {
	for _, d := range [4]Direction{N, E, S, W} {
		off := DirectionOffsets[d]
		nx, ny := lx+off[0], ly+off[1]
		if nx < 0 || ny < 0 || nx >= worldpkg.ChunkSize || ny >= worldpkg.ChunkSize {
			continue
		}
		if c.Tile(nx, ny).Surface == want {
			return true
		}
	}
	return false
}

func applyMud(c *Chunk, isMud []bool) {
	for i, m := range isMud {
		if m {
			t := c.tiles[i]
			t.Surface = Mud
			c.tiles[i] = t
		}
	}
}

func applyMudIndices(c *Chunk, indices []int) {
	for _, i := range indices {
		t := c.tiles[i]
		t.Surface = Mud
		c.tiles[i] = t
	}
}

// mudHash is a simpler mixer than the tile hash, omitting chunk-coordinate
// terms, used only for per-wave mud acceptance rolls.
func mudHash(x, y int, seed uint64) uint64 {
	h := seed
	h ^= uint64(x) * 0x85EBCA6B
	h ^= uint64(y) * 0xC2B2AE35
	h ^= h >> 33
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 33
	return h
}

func computeAdjacency(c *Chunk) {
	size := worldpkg.ChunkSize
	for ly := 0; ly < size; ly++ {
		for lx := 0; lx < size; lx++ {
			var adj Adjacency
			for d := Direction(0); d < 8; d++ {
				off := DirectionOffsets[d]
				nx, ny := lx+off[0], ly+off[1]
				code := OutOfChunk
				if nx >= 0 && ny >= 0 && nx < size && ny < size {
					code = SurfaceCode(c.Tile(nx, ny).Surface)
				}
				adj = adj.WithNeighbor(d, code)
			}
			t := c.tiles[idx(lx, ly)]
			t.Adjacency = adj
			c.tiles[idx(lx, ly)] = t
		}
	}
}
