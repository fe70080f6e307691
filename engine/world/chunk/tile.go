package chunk

import worldpkg "github.com/vev-studio/worldcore/engine/world"

// TileData is the per-tile generation output.
type TileData struct {
	Surface   Surface
	Moisture  uint8 // 0..255
	Weights   worldpkg.Weights
	Adjacency Adjacency
}

// selectSurface classifies a tile's ground cover from its primary biome and
// a deterministic hash roll in [0,1). Thresholds are carried from the
// original per-biome ground-cover variation percentages; the Grass result is
// further refined into density variants by a second roll.
func selectSurface(biome worldpkg.Biome, roll, variantRoll float64) Surface {
	switch biome {
	case worldpkg.Grassland, worldpkg.Forest:
		if roll < 0.98 {
			return grassVariant(variantRoll)
		}
		return Dirt
	case worldpkg.Desert:
		if roll < 0.98 {
			return Sand
		}
		return Rock
	case worldpkg.Tundra:
		if roll < 0.95 {
			return Snow
		}
		return Rock
	case worldpkg.Wetland:
		if roll < 0.95 {
			return Water
		}
		return grassVariant(variantRoll)
	case worldpkg.Mountain:
		if roll < 0.15 {
			return Snow
		}
		return Rock
	case worldpkg.Beach:
		if roll < 0.98 {
			return Sand
		}
		return Rock
	case worldpkg.Ocean:
		return Water
	default:
		return grassVariant(variantRoll)
	}
}

// grassVariant splits a "Grass" ground-cover result into one of the four
// vegetation-density surfaces, quartered evenly by roll.
func grassVariant(roll float64) Surface {
	switch {
	case roll < 0.25:
		return Grass
	case roll < 0.5:
		return GrassTall
	case roll < 0.75:
		return GrassShort
	default:
		return GrassMeadow
	}
}

// moistureFor derives a tile's 0..255 moisture from a tile-hash-derived
// fraction, adjusted per biome (deserts are drier, wetlands/oceans wetter).
func moistureFor(biome worldpkg.Biome, hashFrac float64) uint8 {
	var m float64
	switch biome {
	case worldpkg.Desert:
		m = hashFrac * 0.2
	case worldpkg.Wetland, worldpkg.Ocean:
		m = 0.8 + 0.2*hashFrac
	default:
		m = hashFrac
	}
	if m < 0 {
		m = 0
	}
	if m > 1 {
		m = 1
	}
	return uint8(m * 255)
}
