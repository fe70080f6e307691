package systems

import (
	"testing"

	"github.com/vev-studio/worldcore/engine/assets"
	"github.com/vev-studio/worldcore/engine/assets/placement"
	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
	"github.com/vev-studio/worldcore/engine/tasks"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

// fakeChunkIndexes serves spatial indices for explicitly processed coords.
type fakeChunkIndexes map[worldpkg.ChunkCoord]*placement.SpatialIndex

func (f fakeChunkIndexes) GetChunkIndex(coord worldpkg.ChunkCoord) *placement.SpatialIndex {
	return f[coord]
}

func TestVisionRemembersEntitiesInSight(t *testing.T) {
	reg := ecs.NewRegistry()
	taskReg := tasks.NewRegistry()
	e := spawnTestColonist(reg, worldpkg.Pos{100, 100})

	index := placement.NewSpatialIndex(placement.DefaultCellSize)
	nearBush := worldpkg.Pos{105, 100}
	farBush := worldpkg.Pos{400, 400}
	index.Insert(placement.PlacedEntity{DefName: "BerryBush", Position: nearBush})
	index.Insert(placement.PlacedEntity{DefName: "BerryBush", Position: farBush})

	chunks := fakeChunkIndexes{{X: 0, Y: 0}: index}
	sys := NewVisionSystem(reg, testCatalog(), chunks, taskReg)
	sys.Update(0.016)

	mem := ecs.GetComponent[components.Memory](reg, e)
	if !mem.KnowsWorldEntity(nearBush, "BerryBush") {
		t.Error("bush within sight radius not remembered")
	}
	if mem.KnowsWorldEntity(farBush, "BerryBush") {
		t.Error("bush far outside sight radius remembered")
	}

	// The harvestable sighting creates a discovery task shared by any
	// other colonist that later sees it.
	key := components.WorldEntityKey(nearBush, "BerryBush")
	if taskReg.TaskCount() != 1 {
		t.Fatalf("task count = %d, want 1 discovery task", taskReg.TaskCount())
	}
	found := taskReg.TasksMatching(func(task *tasks.Task) bool { return task.WorldEntityKey == key })
	if len(found) != 1 || !found[0].IsKnownBy(e) {
		t.Error("discovery task missing or not known by the sighting colonist")
	}

	// A second pass must not duplicate the task.
	sys.Update(0.016)
	if taskReg.TaskCount() != 1 {
		t.Errorf("task count after re-sighting = %d, want 1", taskReg.TaskCount())
	}
}

func TestVisionSkipsUnprocessedChunks(t *testing.T) {
	reg := ecs.NewRegistry()
	e := spawnTestColonist(reg, worldpkg.Pos{100, 100})

	sys := NewVisionSystem(reg, testCatalog(), fakeChunkIndexes{}, nil)
	sys.Update(0.016)

	mem := ecs.GetComponent[components.Memory](reg, e)
	if got := components.CountKnownWithCapability(mem, assets.Harvestable); got != 0 {
		t.Errorf("remembered %d entities with no processed chunks", got)
	}
}

func TestVisionRemembersDynamicEntities(t *testing.T) {
	reg := ecs.NewRegistry()
	viewer := spawnTestColonist(reg, worldpkg.Pos{0, 0})
	ecs.AddComponent(reg, viewer, components.DefaultAppearance("Colonist"))

	near := spawnTestColonist(reg, worldpkg.Pos{5, 0})
	ecs.AddComponent(reg, near, components.DefaultAppearance("Colonist"))

	far := spawnTestColonist(reg, worldpkg.Pos{500, 0})
	ecs.AddComponent(reg, far, components.DefaultAppearance("Colonist"))

	NewVisionSystem(reg, testCatalog(), fakeChunkIndexes{}, nil).Update(0.016)

	mem := ecs.GetComponent[components.Memory](reg, viewer)
	if !mem.KnowsDynamicEntity(uint64(near)) {
		t.Error("nearby colonist not remembered")
	}
	if mem.KnowsDynamicEntity(uint64(far)) {
		t.Error("colonist outside sight radius remembered")
	}
	if mem.KnowsDynamicEntity(uint64(viewer)) {
		t.Error("viewer remembered itself")
	}
}

func TestVisionMemoryFeedsCapabilityQueries(t *testing.T) {
	reg := ecs.NewRegistry()
	e := spawnTestColonist(reg, worldpkg.Pos{10, 10})

	index := placement.NewSpatialIndex(placement.DefaultCellSize)
	index.Insert(placement.PlacedEntity{DefName: "Berry", Position: worldpkg.Pos{12, 10}})
	index.Insert(placement.PlacedEntity{DefName: "Berry", Position: worldpkg.Pos{20, 10}})

	sys := NewVisionSystem(reg, testCatalog(), fakeChunkIndexes{{X: 0, Y: 0}: index}, nil)
	sys.Update(0.016)

	mem := ecs.GetComponent[components.Memory](reg, e)
	nearest, dist, ok := components.FindNearestWithCapability(mem, assets.Edible, worldpkg.Pos{10, 10})
	if !ok {
		t.Fatal("no edible remembered")
	}
	if nearest.Position != (worldpkg.Pos{12, 10}) || dist != 2 {
		t.Errorf("nearest = %v at %v, want the berry at (12,10)", nearest.Position, dist)
	}
}
