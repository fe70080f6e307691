package systems

import (
	"github.com/vev-studio/worldcore/engine/assets"
	"github.com/vev-studio/worldcore/engine/assets/placement"
	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
	"github.com/vev-studio/worldcore/engine/tasks"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

// ChunkIndexSource is the processed-chunk lookup VisionSystem scans:
// placement.Executor satisfies it directly.
type ChunkIndexSource interface {
	GetChunkIndex(coord worldpkg.ChunkCoord) *placement.SpatialIndex
}

// VisionSystem updates every sighted entity's Memory from the placement
// executor's spatial indices. The MVP sight model is an unobstructed disc;
// occlusion would slot into the per-chunk query without changing call
// sites. Priority 45: after time, before needs decay and decisions.
type VisionSystem struct {
	registry *ecs.Registry
	catalog  *assets.Catalog
	chunks   ChunkIndexSource

	// taskRegistry, when non-nil, receives a discovery notification for
	// every newly seen harvestable entity so gather work can exist for it.
	taskRegistry *tasks.Registry
	clock        float32
}

// NewVisionSystem constructs a VisionSystem scanning chunks for every
// (Position, Memory) entity. taskRegistry may be nil to disable discovery
// bookkeeping.
func NewVisionSystem(registry *ecs.Registry, catalog *assets.Catalog, chunks ChunkIndexSource, taskRegistry *tasks.Registry) *VisionSystem {
	return &VisionSystem{
		registry:     registry,
		catalog:      catalog,
		chunks:       chunks,
		taskRegistry: taskRegistry,
	}
}

func (s *VisionSystem) Name() string  { return "Vision" }
func (s *VisionSystem) Priority() int { return 45 }

func (s *VisionSystem) Update(deltaTime float32) {
	s.clock += deltaTime

	for _, e := range ecs.View2[components.Position, components.Memory](s.registry) {
		s.scan(e.Entity, e.A.Value, e.B)
		s.scanDynamic(e.Entity, e.A.Value, e.B)
	}
}

// scanDynamic refreshes the viewer's memory of other mobile entities
// (colonists, loose spawned items) within sight.
func (s *VisionSystem) scanDynamic(viewer ecs.EntityID, pos worldpkg.Pos, mem *components.Memory) {
	r2 := mem.SightRadius * mem.SightRadius
	for _, other := range ecs.View2[components.Position, components.Appearance](s.registry) {
		if other.Entity == viewer {
			continue
		}
		d := other.A.Value.Sub(pos)
		if d[0]*d[0]+d[1]*d[1] > r2 {
			continue
		}
		var caps assets.Capability
		if def, ok := s.catalog.GetDef(other.B.DefName); ok {
			caps = def.Capabilities
		}
		mem.RememberDynamicEntity(uint64(other.Entity), other.A.Value, caps)
	}
}

// scan remembers every placed entity within sight of pos, walking the
// chunk rectangle the sight disc overlaps and querying each processed
// chunk's spatial index.
func (s *VisionSystem) scan(viewer ecs.EntityID, pos worldpkg.Pos, mem *components.Memory) {
	radius := mem.SightRadius
	lo := worldpkg.WorldToChunk(worldpkg.Pos{pos[0] - radius, pos[1] - radius})
	hi := worldpkg.WorldToChunk(worldpkg.Pos{pos[0] + radius, pos[1] + radius})

	for cx := lo.X; cx <= hi.X; cx++ {
		for cy := lo.Y; cy <= hi.Y; cy++ {
			index := s.chunks.GetChunkIndex(worldpkg.ChunkCoord{X: cx, Y: cy})
			if index == nil {
				continue
			}
			for _, placed := range index.QueryRadius(pos, float64(radius)) {
				s.remember(viewer, mem, placed)
			}
		}
	}
}

func (s *VisionSystem) remember(viewer ecs.EntityID, mem *components.Memory, placed placement.PlacedEntity) {
	def, ok := s.catalog.GetDef(placed.DefName)
	if !ok {
		return
	}
	firstSighting := !mem.KnowsWorldEntity(placed.Position, placed.DefName)
	mem.RememberWorldEntity(placed.Position, placed.DefName, def.Capabilities)

	if firstSighting && s.taskRegistry != nil && def.HasCapability(assets.Harvestable) {
		key := components.WorldEntityKey(placed.Position, placed.DefName)
		s.taskRegistry.OnEntityDiscovered(viewer, key, placed.DefName, placed.Position, components.TaskGather, s.clock)
	}
}
