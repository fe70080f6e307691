package placement

import (
	"math/rand"

	"github.com/vev-studio/worldcore/engine/assets"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
	"github.com/vev-studio/worldcore/engine/world/chunk"
)

// chunkSeedMixA and chunkSeedMixB are the exact multipliers the original
// placement pass used to derive a per-chunk RNG seed from the world seed and
// chunk coordinate.
const (
	chunkSeedMixA uint64 = 0x9E3779B97F4A7C15
	chunkSeedMixB uint64 = 0x6C62272E07BB0143
)

// ChunkSeed derives the deterministic RNG seed for a chunk's placement pass.
func ChunkSeed(worldSeed uint64, coord worldpkg.ChunkCoord) uint64 {
	return worldSeed ^ (uint64(uint32(coord.X)) * chunkSeedMixA) ^ (uint64(uint32(coord.Y)) * chunkSeedMixB)
}

// AdjacentProvider exposes the one-ring of already-generated neighboring
// chunks' placed-entity indices, so NearSurface/Relationship rules can see
// across chunk boundaries without generating those neighbors themselves.
type AdjacentProvider interface {
	NeighborEntities(coord worldpkg.ChunkCoord) (*SpatialIndex, bool)
}

// Context bundles the read-only state a chunk's placement pass consults.
type Context struct {
	Catalog  *assets.Catalog
	Order    []string // topological order from DependencyGraph
	WorldSeed uint64
}

// ComputeChunkEntities runs the full placement pipeline for one chunk and
// returns every entity it spawned. It is the sole placement entry point;
// there is no separate legacy per-tile pass.
func ComputeChunkEntities(ctx Context, target *chunk.Chunk, adjacent AdjacentProvider) []PlacedEntity {
	rng := rand.New(rand.NewSource(int64(ChunkSeed(ctx.WorldSeed, target.Coord))))
	index := NewSpatialIndex(DefaultCellSize)

	// Entities are returned in placement order, not index-bucket order, so
	// the result sequence is reproducible for a fixed (seed, coord).
	var placed []PlacedEntity

	origin := target.Coord.Origin()
	for _, defName := range ctx.Order {
		id := ctx.Catalog.GetDefNameID(defName)
		if id == assets.InvalidID {
			continue
		}
		def, ok := ctx.Catalog.GetDefByID(id)
		if !ok || len(def.PlacementRules) == 0 {
			continue
		}
		placed = placeDefinition(ctx, def, origin, target, index, adjacent, rng, placed)
	}
	return placed
}

func placeDefinition(ctx Context, def assets.Def, origin worldpkg.Pos, target *chunk.Chunk, index *SpatialIndex, adjacent AdjacentProvider, rng *rand.Rand, placed []PlacedEntity) []PlacedEntity {
	for ly := 0; ly < worldpkg.ChunkSize; ly++ {
		for lx := 0; lx < worldpkg.ChunkSize; lx++ {
			rule, ok := def.PlacementRules[biomeNameForTile(target, lx, ly)]
			if !ok {
				continue
			}
			if rule.NearSurface != "" && !nearSurface(target, lx, ly, rule.NearSurface, rule.NearDistance) {
				continue
			}
			pos := worldpkg.Pos{
				origin[0] + float32(lx)*worldpkg.TileSize,
				origin[1] + float32(ly)*worldpkg.TileSize,
			}
			chance := rule.SpawnChance * relationshipModifier(ctx, def, pos, index, adjacent)
			if rng.Float64() >= chance {
				continue
			}
			if !requiresSatisfied(ctx, def, pos, index, adjacent) {
				continue
			}
			entity := PlacedEntity{DefName: def.DefName, Position: pos}
			if def.HasCapability(assets.Harvestable) {
				entity.ResourceCount = def.HarvestProps.TotalPool
			}
			index.Insert(entity)
			placed = append(placed, entity)
		}
	}
	return placed
}

func biomeNameForTile(c *chunk.Chunk, lx, ly int) string {
	return c.Tile(lx, ly).Weights.Primary().String()
}

func nearSurface(c *chunk.Chunk, lx, ly int, surfaceName string, dist int) bool {
	if dist <= 0 {
		dist = 1
	}
	for dy := -dist; dy <= dist; dy++ {
		for dx := -dist; dx <= dist; dx++ {
			nx, ny := lx+dx, ly+dy
			if nx < 0 || ny < 0 || nx >= worldpkg.ChunkSize || ny >= worldpkg.ChunkSize {
				continue
			}
			if c.Tile(nx, ny).Surface.String() == surfaceName {
				return true
			}
		}
	}
	return false
}

// relationshipModifier folds every Affinity/Avoids relationship into a
// single spawn-chance multiplier; Requires relationships are handled
// separately as a hard gate in requiresSatisfied.
func relationshipModifier(ctx Context, def assets.Def, pos worldpkg.Pos, index *SpatialIndex, adjacent AdjacentProvider) float64 {
	modifier := 1.0
	for _, rel := range def.Relationships {
		switch rel.Kind {
		case assets.Affinity:
			if nearbyMatches(ctx, pos, float64(rel.Distance), rel.Target, def.DefName, index, adjacent) {
				modifier *= rel.Strength
			}
		case assets.Avoids:
			if nearbyMatches(ctx, pos, float64(rel.Distance), rel.Target, def.DefName, index, adjacent) {
				modifier *= rel.Penalty
			}
		}
	}
	return modifier
}

func requiresSatisfied(ctx Context, def assets.Def, pos worldpkg.Pos, index *SpatialIndex, adjacent AdjacentProvider) bool {
	for _, rel := range def.Relationships {
		if rel.Kind != assets.Requires {
			continue
		}
		if !nearbyMatches(ctx, pos, float64(rel.Distance), rel.Target, def.DefName, index, adjacent) {
			return false
		}
	}
	return true
}

func nearbyMatches(ctx Context, pos worldpkg.Pos, radius float64, target assets.EntityRef, selfName string, index *SpatialIndex, adjacent AdjacentProvider) bool {
	var matched bool
	switch target.Kind {
	case assets.Same:
		matched = index.HasNearby(pos, radius, selfName)
	case assets.ByName:
		matched = index.HasNearby(pos, radius, target.Value)
	case assets.ByGroup:
		members := ctx.Catalog.GroupMembers(target.Value)
		set := make(map[string]bool, len(members))
		for _, id := range members {
			set[ctx.Catalog.GetDefName(id)] = true
		}
		matched = index.HasNearbyGroup(pos, radius, set)
	}
	if matched || adjacent == nil {
		return matched
	}
	return crossChunkMatch(pos, radius, target, selfName, ctx, adjacent)
}

// crossChunkMatch checks the one-ring of neighboring chunks for a match when
// the local chunk's own index came up empty, so rules near a chunk boundary
// still see entities placed in an already-generated neighbor.
func crossChunkMatch(pos worldpkg.Pos, radius float64, target assets.EntityRef, selfName string, ctx Context, adjacent AdjacentProvider) bool {
	center := worldpkg.WorldToChunk(pos)
	for dy := int32(-1); dy <= 1; dy++ {
		for dx := int32(-1); dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			neighborCoord := worldpkg.ChunkCoord{X: center.X + dx, Y: center.Y + dy}
			neighborIndex, ok := adjacent.NeighborEntities(neighborCoord)
			if !ok || neighborIndex == nil {
				continue
			}
			switch target.Kind {
			case assets.Same:
				if neighborIndex.HasNearby(pos, radius, selfName) {
					return true
				}
			case assets.ByName:
				if neighborIndex.HasNearby(pos, radius, target.Value) {
					return true
				}
			case assets.ByGroup:
				members := ctx.Catalog.GroupMembers(target.Value)
				set := make(map[string]bool, len(members))
				for _, id := range members {
					set[ctx.Catalog.GetDefName(id)] = true
				}
				if neighborIndex.HasNearbyGroup(pos, radius, set) {
					return true
				}
			}
		}
	}
	return false
}
