package placement

import (
	"testing"

	"github.com/vev-studio/worldcore/engine/assets"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

// TestComputeChunkEntitiesReproducible checks property: the same (seed,
// coord, adjacency) produces an identical entity sequence across runs.
func TestComputeChunkEntitiesReproducible(t *testing.T) {
	catalog := assets.NewCatalog(nil, []assets.Def{
		{
			DefName: "Rock",
			PlacementRules: map[string]assets.PlacementRule{
				"Grassland": {SpawnChance: 0.003},
			},
		},
		{
			DefName: "Shrub",
			PlacementRules: map[string]assets.PlacementRule{
				"Grassland": {SpawnChance: 0.002},
			},
		},
	})
	graph := BuildDependencyGraph(catalog)
	order, err := graph.TopologicalOrder()
	if err != nil {
		t.Fatalf("TopologicalOrder: %v", err)
	}
	ctx := Context{Catalog: catalog, Order: order, WorldSeed: 12345}

	target := testChunk(worldpkg.ChunkCoord{X: 2, Y: -1}, 12345)
	a := ComputeChunkEntities(ctx, target, nil)
	b := ComputeChunkEntities(ctx, target, nil)

	if len(a) == 0 {
		t.Fatal("expected some entities to place")
	}
	if len(a) != len(b) {
		t.Fatalf("runs placed %d vs %d entities", len(a), len(b))
	}
	for i := range a {
		if a[i].DefName != b[i].DefName || a[i].Position != b[i].Position {
			t.Fatalf("entity %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestChunkSeedVariesPerChunk(t *testing.T) {
	seen := make(map[uint64]worldpkg.ChunkCoord)
	for x := int32(-2); x <= 2; x++ {
		for y := int32(-2); y <= 2; y++ {
			coord := worldpkg.ChunkCoord{X: x, Y: y}
			s := ChunkSeed(9, coord)
			if prev, dup := seen[s]; dup {
				t.Fatalf("chunks %v and %v derived the same placement seed", prev, coord)
			}
			seen[s] = coord
		}
	}
}

// fakeNeighbors serves a fixed index for one neighbor coordinate.
type fakeNeighbors struct {
	coord worldpkg.ChunkCoord
	index *SpatialIndex
}

func (f *fakeNeighbors) NeighborEntities(coord worldpkg.ChunkCoord) (*SpatialIndex, bool) {
	if coord == f.coord {
		return f.index, true
	}
	return nil, false
}

// TestCrossChunkRequiresSeesNeighborEntities checks a Requires
// relationship matches entities stored in an adjacent chunk's index: the
// one-ring query that keeps relationships working at chunk seams.
func TestCrossChunkRequiresSeesNeighborEntities(t *testing.T) {
	catalog := assets.NewCatalog(nil, []assets.Def{
		{DefName: "BerryBush"},
		{
			DefName: "Butterfly",
			Relationships: []assets.Relationship{{
				Kind:     assets.Requires,
				Target:   assets.EntityRef{Kind: assets.ByName, Value: "BerryBush"},
				Distance: 3,
			}},
		},
	})
	butterfly, _ := catalog.GetDef("Butterfly")
	ctx := Context{Catalog: catalog, WorldSeed: 1}

	// A bush just across the seam, in chunk (0,0), at local (511.5, 256).
	neighborIndex := NewSpatialIndex(DefaultCellSize)
	neighborIndex.Insert(PlacedEntity{DefName: "BerryBush", Position: worldpkg.Pos{511.5, 256}})
	adjacent := &fakeNeighbors{coord: worldpkg.ChunkCoord{X: 0, Y: 0}, index: neighborIndex}

	local := NewSpatialIndex(DefaultCellSize)

	// Tile (512.5, 256) is in chunk (1,0), 1m from the bush: satisfied.
	near := worldpkg.Pos{512.5, 256}
	if !requiresSatisfied(ctx, butterfly, near, local, adjacent) {
		t.Error("Requires should match a neighbor-chunk entity within distance")
	}

	// Tile (520, 256) is 8.5m away: unsatisfied.
	far := worldpkg.Pos{520, 256}
	if requiresSatisfied(ctx, butterfly, far, local, adjacent) {
		t.Error("Requires matched an entity beyond its distance")
	}
}

// TestAffinityAndAvoidsModifiers checks the spawn-chance multipliers both
// relationship kinds apply when a matching entity is nearby.
func TestAffinityAndAvoidsModifiers(t *testing.T) {
	catalog := assets.NewCatalog(nil, []assets.Def{
		{DefName: "BerryBush"},
		{
			DefName: "Flower",
			Relationships: []assets.Relationship{{
				Kind:     assets.Affinity,
				Target:   assets.EntityRef{Kind: assets.ByName, Value: "BerryBush"},
				Distance: 3,
				Strength: 3.0,
			}},
		},
		{
			DefName: "Cactus",
			Relationships: []assets.Relationship{{
				Kind:     assets.Avoids,
				Target:   assets.EntityRef{Kind: assets.ByName, Value: "BerryBush"},
				Distance: 3,
				Penalty:  0.25,
			}},
		},
	})
	flower, _ := catalog.GetDef("Flower")
	cactus, _ := catalog.GetDef("Cactus")
	ctx := Context{Catalog: catalog, WorldSeed: 1}

	index := NewSpatialIndex(DefaultCellSize)
	index.Insert(PlacedEntity{DefName: "BerryBush", Position: worldpkg.Pos{100, 100}})

	near := worldpkg.Pos{101, 100}
	far := worldpkg.Pos{200, 200}

	if got := relationshipModifier(ctx, flower, near, index, nil); got != 3.0 {
		t.Errorf("affinity modifier near bush = %v, want 3.0", got)
	}
	if got := relationshipModifier(ctx, flower, far, index, nil); got != 1.0 {
		t.Errorf("affinity modifier far from bush = %v, want 1.0", got)
	}
	if got := relationshipModifier(ctx, cactus, near, index, nil); got != 0.25 {
		t.Errorf("avoids modifier near bush = %v, want 0.25", got)
	}
	if got := relationshipModifier(ctx, cactus, far, index, nil); got != 1.0 {
		t.Errorf("avoids modifier far from bush = %v, want 1.0", got)
	}
}

func TestSpatialIndexQueryRadiusAndFilters(t *testing.T) {
	index := NewSpatialIndex(4)
	index.Insert(PlacedEntity{DefName: "Rock", Position: worldpkg.Pos{0, 0}})
	index.Insert(PlacedEntity{DefName: "Rock", Position: worldpkg.Pos{3, 0}})
	index.Insert(PlacedEntity{DefName: "Shrub", Position: worldpkg.Pos{1, 1}})
	index.Insert(PlacedEntity{DefName: "Rock", Position: worldpkg.Pos{30, 30}})

	if got := len(index.QueryRadius(worldpkg.Pos{0, 0}, 5)); got != 3 {
		t.Errorf("unfiltered query returned %d, want 3", got)
	}
	if got := len(index.QueryRadius(worldpkg.Pos{0, 0}, 5, "Rock")); got != 2 {
		t.Errorf("Rock-filtered query returned %d, want 2", got)
	}
	if !index.HasNearby(worldpkg.Pos{0, 0}, 2, "Shrub") {
		t.Error("HasNearby missed the shrub")
	}
	if index.HasNearby(worldpkg.Pos{0, 0}, 2, "Missing") {
		t.Error("HasNearby matched a defName that was never inserted")
	}
	if !index.RemoveEntity(worldpkg.Pos{3, 0}, "Rock") {
		t.Error("RemoveEntity failed to find the rock")
	}
	if got := index.Size(); got != 3 {
		t.Errorf("size after removal = %d, want 3", got)
	}
}
