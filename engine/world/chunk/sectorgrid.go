package chunk

import worldpkg "github.com/vev-studio/worldcore/engine/world"

// SectorGridSize is the resolution of the precomputed biome-weight grid
// covering a chunk; each sector covers ChunkSize/SectorGridSize tiles.
const SectorGridSize = 32

// sectorTileSpan is the number of tiles each sector edge covers.
const sectorTileSpan = worldpkg.ChunkSize / SectorGridSize

// SectorGrid precomputes a SectorGridSize x SectorGridSize grid of
// bilinearly-interpolated, normalized biome weights from the four corner
// samples, giving O(1) per-tile biome lookup without re-interpolating.
type SectorGrid struct {
	cells [SectorGridSize * SectorGridSize]worldpkg.Weights
}

// BuildSectorGrid interpolates corner weights (NW, NE, SW, SE order) across
// the sector grid and normalizes each cell.
func BuildSectorGrid(corners [4]worldpkg.Weights) *SectorGrid {
	g := &SectorGrid{}
	for sy := 0; sy < SectorGridSize; sy++ {
		v := float64(sy) / float64(SectorGridSize-1)
		for sx := 0; sx < SectorGridSize; sx++ {
			u := float64(sx) / float64(SectorGridSize-1)
			var w worldpkg.Weights
			for b := 0; b < worldpkg.BiomeCount; b++ {
				val := worldpkg.BilinearInterpolate(
					corners[0][b], corners[1][b], corners[2][b], corners[3][b], u, v,
				)
				if val > 0.001 {
					w[b] = val
				}
			}
			w.Normalize()
			g.cells[sy*SectorGridSize+sx] = w
		}
	}
	return g
}

// WeightsAt returns the precomputed weights for the sector containing a
// chunk-local tile position.
func (g *SectorGrid) WeightsAt(localX, localY int) worldpkg.Weights {
	sx := clampSector(localX / sectorTileSpan)
	sy := clampSector(localY / sectorTileSpan)
	return g.cells[sy*SectorGridSize+sx]
}

func clampSector(v int) int {
	if v < 0 {
		return 0
	}
	if v > SectorGridSize-1 {
		return SectorGridSize - 1
	}
	return v
}

// BilinearElevation interpolates the four corner elevations (NW, NE, SW, SE
// order) at a chunk-local tile position.
func BilinearElevation(corners [4]float64, localX, localY int) float64 {
	u := float64(localX) / float64(worldpkg.ChunkSize-1)
	v := float64(localY) / float64(worldpkg.ChunkSize-1)
	return worldpkg.BilinearInterpolate(corners[0], corners[1], corners[2], corners[3], u, v)
}
