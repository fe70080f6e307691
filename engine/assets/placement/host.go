package placement

import (
	"sync"

	"github.com/vev-studio/worldcore/engine/assets"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
	"github.com/vev-studio/worldcore/engine/world/chunk"
)

// Executor is the stateful wrapper around ComputeChunkEntities: it owns the
// topological spawn order (built once from the catalog) and every
// processed chunk's resulting SpatialIndex, and implements AdjacentProvider
// against its own store so placement rules naturally see already-placed
// neighbors. Mirrors the original's PlacementExecutor, which played the
// same role around its processChunk.
//
// Safe for concurrent read/write: AsyncProcessor calls ProcessChunk from
// worker goroutines while the main thread may concurrently call
// NeighborEntities through a ComputeChunkEntities call for a different
// chunk still in flight.
type Executor struct {
	catalog *assets.Catalog

	mu      sync.RWMutex
	order   []string
	indices map[worldpkg.ChunkCoord]*SpatialIndex

	worldSeed   uint64
	initialized bool
}

// NewExecutor constructs an Executor bound to catalog. Call Initialize
// before the first ProcessChunk.
func NewExecutor(catalog *assets.Catalog, worldSeed uint64) *Executor {
	return &Executor{
		catalog:   catalog,
		indices:   make(map[worldpkg.ChunkCoord]*SpatialIndex),
		worldSeed: worldSeed,
	}
}

// Initialize builds the dependency graph from the catalog's placement
// rules and computes the topological spawn order. Must be called once,
// after every asset definition is loaded.
func (e *Executor) Initialize() error {
	graph := BuildDependencyGraph(e.catalog)
	order, err := graph.TopologicalOrder()
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.order = order
	e.initialized = true
	e.mu.Unlock()
	return nil
}

// Initialized reports whether Initialize has completed successfully.
func (e *Executor) Initialized() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.initialized
}

// SpawnOrder returns the topological spawn order computed by Initialize,
// for debugging/testing.
func (e *Executor) SpawnOrder() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// ProcessChunk runs the placement pipeline for target and stores the
// resulting SpatialIndex so later NeighborEntities calls (and GetChunkIndex
// lookups) can see it.
func (e *Executor) ProcessChunk(target *chunk.Chunk) []PlacedEntity {
	e.mu.RLock()
	ctx := Context{Catalog: e.catalog, Order: e.order, WorldSeed: e.worldSeed}
	e.mu.RUnlock()

	entities := ComputeChunkEntities(ctx, target, e)

	index := NewSpatialIndex(DefaultCellSize)
	for _, pe := range entities {
		index.Insert(pe)
	}

	e.mu.Lock()
	e.indices[target.Coord] = index
	e.mu.Unlock()

	return entities
}

// GetChunkIndex returns the spatial index for a previously processed chunk,
// or nil if it hasn't been processed (or has since been unloaded).
func (e *Executor) GetChunkIndex(coord worldpkg.ChunkCoord) *SpatialIndex {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.indices[coord]
}

// NeighborEntities implements AdjacentProvider against the executor's own
// processed-chunk store.
func (e *Executor) NeighborEntities(coord worldpkg.ChunkCoord) (*SpatialIndex, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	idx, ok := e.indices[coord]
	return idx, ok
}

// UnloadChunk drops a processed chunk's stored spatial index, releasing it
// from cross-chunk queries. Call when chunk.Store evicts the chunk.
func (e *Executor) UnloadChunk(coord worldpkg.ChunkCoord) {
	e.mu.Lock()
	delete(e.indices, coord)
	e.mu.Unlock()
}

// RemoveEntity removes a placed entity from a processed chunk's index (a
// destructive harvest consumed it, say). Returns false if the chunk hasn't
// been processed or the entity wasn't found.
func (e *Executor) RemoveEntity(coord worldpkg.ChunkCoord, pos worldpkg.Pos, defName string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx, ok := e.indices[coord]
	if !ok {
		return false
	}
	return idx.RemoveEntity(pos, defName)
}

// SetEntityCooldown finds the placed entity at pos with defName in coord's
// index and sets its regrowth cooldown. Returns false if not found.
func (e *Executor) SetEntityCooldown(coord worldpkg.ChunkCoord, pos worldpkg.Pos, defName string, cooldown float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx, ok := e.indices[coord]
	if !ok {
		return false
	}
	return idx.setCooldown(pos, defName, cooldown)
}

// DecrementResourceCount finds the placed entity at pos with defName in
// coord's index and decrements its remaining harvest pool by one,
// returning the new count and whether the entity was found. A pooled
// resource that reaches 0 is left in place with ResourceCount 0; callers
// decide whether 0 means "remove it" for their specific harvestable.
func (e *Executor) DecrementResourceCount(coord worldpkg.ChunkCoord, pos worldpkg.Pos, defName string) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx, ok := e.indices[coord]
	if !ok {
		return 0, false
	}
	return idx.decrementResourceCount(pos, defName)
}

// Clear drops every processed chunk's stored index, keeping the spawn
// order and initialization state intact.
func (e *Executor) Clear() {
	e.mu.Lock()
	e.indices = make(map[worldpkg.ChunkCoord]*SpatialIndex)
	e.mu.Unlock()
}
