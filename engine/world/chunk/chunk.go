package chunk

import (
	"time"

	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

// Chunk owns one 512x512 tile square of generated world state.
type Chunk struct {
	Coord     worldpkg.ChunkCoord
	WorldSeed uint64

	sample      worldpkg.ChunkSample
	sectorGrid  *SectorGrid // nil when sample.Pure
	tiles       []TileData  // len == ChunkSize*ChunkSize

	// lastAccessed is not part of logical state: it is an LRU timestamp,
	// safe to mutate through Touch under a shared reference.
	lastAccessed time.Time
}

// Generate builds a chunk's tiles from a sampled corner result. It is pure
// in (coord, sample, worldSeed): calling it twice with the same inputs
// produces byte-identical tile arrays.
func Generate(coord worldpkg.ChunkCoord, worldSeed uint64, sample worldpkg.ChunkSample) *Chunk {
	c := &Chunk{Coord: coord, WorldSeed: worldSeed, sample: sample}
	if !sample.Pure {
		c.sectorGrid = BuildSectorGrid(sample.CornerWeights)
	}
	c.tiles = make([]TileData, worldpkg.ChunkSize*worldpkg.ChunkSize)

	for ly := 0; ly < worldpkg.ChunkSize; ly++ {
		for lx := 0; lx < worldpkg.ChunkSize; lx++ {
			c.tiles[idx(lx, ly)] = c.generateTile(lx, ly)
		}
	}
	Postprocess(c, worldSeed)
	c.Touch()
	return c
}

func idx(lx, ly int) int { return ly*worldpkg.ChunkSize + lx }

func (c *Chunk) generateTile(lx, ly int) TileData {
	weights := c.weightsAt(lx, ly)
	biome := weights.Primary()
	elevation := BilinearElevation(c.sample.CornerElevations, lx, ly)
	_ = elevation // elevation feeds §4.D's sampler contract; surface uses biome+hash only.

	h := worldpkg.Hash64(c.Coord.X, c.Coord.Y, lx, ly, c.WorldSeed)
	roll := hashUnit(h)
	variantRoll := hashUnit(h*0x2545F4914F6CDD1D + 1)

	return TileData{
		Surface:  selectSurface(biome, roll, variantRoll),
		Moisture: moistureFor(biome, roll),
		Weights:  weights,
	}
}

func hashUnit(h uint64) float64 {
	h ^= h >> 33
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 33
	return float64(h>>11) / float64(1<<53)
}

func (c *Chunk) weightsAt(lx, ly int) worldpkg.Weights {
	if c.sample.Pure {
		return worldpkg.SingleBiome(c.sample.Primary)
	}
	return c.sectorGrid.WeightsAt(lx, ly)
}

// Pure reports whether all four corners of this chunk share a biome.
func (c *Chunk) Pure() bool { return c.sample.Pure }

// Tile returns a tile's data by chunk-local coordinates. Out-of-range
// coordinates return the zero TileData.
func (c *Chunk) Tile(lx, ly int) TileData {
	if lx < 0 || ly < 0 || lx >= worldpkg.ChunkSize || ly >= worldpkg.ChunkSize {
		return TileData{}
	}
	return c.tiles[idx(lx, ly)]
}

func (c *Chunk) setTile(lx, ly int, t TileData) { c.tiles[idx(lx, ly)] = t }

// Touch refreshes the chunk's last-accessed instant.
func (c *Chunk) Touch() { c.lastAccessed = now() }

// LastAccessed returns the chunk's last-accessed instant.
func (c *Chunk) LastAccessed() time.Time { return c.lastAccessed }

var now = time.Now
