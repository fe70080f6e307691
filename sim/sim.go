// Package sim is the root aggregate of the world simulation core: it owns
// the catalogs, chunk streaming, placement pipeline, ECS world and
// registries, wires the systems together in priority order, and exposes
// the queries a host (renderer, UI, debug tooling) reads each frame.
package sim

import (
	"log/slog"

	"github.com/vev-studio/worldcore/engine/assets"
	"github.com/vev-studio/worldcore/engine/assets/placement"
	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
	"github.com/vev-studio/worldcore/engine/ecs/systems"
	"github.com/vev-studio/worldcore/engine/goals"
	"github.com/vev-studio/worldcore/engine/render"
	"github.com/vev-studio/worldcore/engine/selection"
	"github.com/vev-studio/worldcore/engine/tasks"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
	"github.com/vev-studio/worldcore/engine/world/chunk"
)

// Sim owns every subsystem of the world simulation core. Construct with
// New, drive with Update once per frame, and Close on shutdown so
// in-flight placement workers drain before their executor goes away.
type Sim struct {
	log *slog.Logger

	Catalog *assets.Catalog
	Recipes *assets.RecipeCatalog

	World     *ecs.World
	Goals     *goals.Registry
	Tasks     *tasks.Registry
	Time      *systems.TimeSystem
	Chunks    *chunk.Store
	Executor  *placement.Executor
	Selection *selection.Resolver
	Placement *selection.PlacementState
	Extractor *render.Extractor

	processor  *placement.AsyncProcessor
	sampler    worldpkg.Sampler
	loadRadius int32

	clock float32
}

// New wires a Sim from conf. The placement dependency graph is built here;
// a cyclic dependency disables placement (empty spawn order) but the Sim
// still runs, per the fatal-at-initialize policy.
func New(conf Config) *Sim {
	log := conf.Log
	if log == nil {
		log = slog.Default()
	}
	if conf.Sampler == nil {
		conf.Sampler = worldpkg.NewMockSampler(conf.WorldSeed)
	}
	if conf.DecisionSeed == 0 {
		conf.DecisionSeed = conf.WorldSeed
	}

	catalog := assets.NewCatalog(log, conf.Defs)
	catalog.Validate()
	recipes := assets.NewRecipeCatalog(log, catalog, conf.Recipes)

	executor := placement.NewExecutor(catalog, conf.WorldSeed)
	if err := executor.Initialize(); err != nil {
		log.Error("placement disabled", "err", err)
	}

	s := &Sim{
		log:      log,
		Catalog:  catalog,
		Recipes:  recipes,
		World:    ecs.NewWorld(),
		Goals:    goals.NewRegistry(log),
		Tasks:    tasks.NewRegistry(),
		Executor: executor,
		Chunks: chunk.NewStore(chunk.StoreConfig{
			Logger:       log,
			Sampler:      conf.Sampler,
			LoadRadius:   conf.LoadRadius,
			UnloadRadius: conf.UnloadRadius,
		}),
		sampler:   conf.Sampler,
		processor: placement.NewAsyncProcessor(executor, log),
	}
	s.loadRadius = conf.LoadRadius
	if s.loadRadius <= 0 {
		s.loadRadius = 2
	}

	reg := s.World.Registry
	s.Time = systems.NewTimeSystem()
	s.World.RegisterSystem(s.Time)
	s.World.RegisterSystem(systems.NewVisionSystem(reg, catalog, executor, s.Tasks))
	s.World.RegisterSystem(systems.NewNeedsDecaySystem(reg, s.Time))
	s.World.RegisterSystem(systems.NewStorageGoalSystem(reg, s.Goals, catalog, log))
	s.World.RegisterSystem(systems.NewCraftingGoalSystem(reg, s.Goals, catalog, recipes, log))
	s.World.RegisterSystem(systems.NewBuildGoalSystem(reg, s.Goals))

	decider := systems.NewAIDecisionSystem(reg, s.Goals, catalog, conf.DecisionSeed)
	decider.Tasks = s.Tasks
	decider.DropItem = func(colonist ecs.EntityID, pos worldpkg.Pos, stack components.ItemStack) {
		s.spawnItem(stack.DefName, pos)
	}
	s.World.RegisterSystem(decider)

	s.World.RegisterSystem(systems.NewMovementSystem(reg))
	s.World.RegisterSystem(systems.NewPhysicsSystem(reg))
	s.World.RegisterSystem(systems.NewActionSystem(reg, s.Goals, s.Tasks, catalog, recipes, s.worldCallbacks(), log))

	s.Selection = selection.NewResolver(reg, catalog, s)
	s.Placement = selection.NewPlacementState(reg, catalog, selection.PlacementCallbacks{
		SpawnEntity: s.spawnItem,
		SetPackagedTarget: func(packaged ecs.EntityID, pos worldpkg.Pos) bool {
			p := ecs.GetComponent[components.Packaged](reg, packaged)
			if p == nil {
				return false
			}
			p.TargetPosition = pos
			p.HasTargetPos = true
			return true
		},
	})
	s.Extractor = render.NewExtractor(reg, s.Chunks, executor, s.Selection)
	return s
}

// Update advances the simulation by dt seconds with the camera (or other
// focus point) at center: systems tick in priority order, then chunk
// streaming follows the center and finished placement results integrate.
func (s *Sim) Update(dt float32, center worldpkg.Pos) {
	s.clock += dt
	s.World.Update(dt)

	s.Chunks.Update(center)
	centerChunk := worldpkg.WorldToChunk(center)
	for x := centerChunk.X - s.loadRadius; x <= centerChunk.X+s.loadRadius; x++ {
		for y := centerChunk.Y - s.loadRadius; y <= centerChunk.Y+s.loadRadius; y++ {
			coord := worldpkg.ChunkCoord{X: x, Y: y}
			if c := s.Chunks.GetChunk(coord); c != nil && s.Executor.GetChunkIndex(coord) == nil {
				s.processor.LaunchTask(c)
			}
		}
	}
	s.processor.PollCompleted()
	s.Tasks.ReleaseStale(s.clock, tasks.DefaultStaleTimeout)
}

// Close drains in-flight placement workers; their chunk indices are already
// stored in the Executor. A later Update launches new workers as needed.
func (s *Sim) Close() {
	s.processor.Clear()
}

// Clock returns accumulated simulation wall time in seconds.
func (s *Sim) Clock() float32 { return s.clock }

// Sampler returns the world sampler, for host-side elevation queries.
func (s *Sim) Sampler() worldpkg.Sampler { return s.sampler }

// SpawnColonist creates a colonist entity at pos with the default needs,
// memory, inventory and decision components.
func (s *Sim) SpawnColonist(name string, pos worldpkg.Pos) ecs.EntityID {
	reg := s.World.Registry
	e := reg.CreateEntity()
	ecs.AddComponent(reg, e, components.Position{Value: pos})
	ecs.AddComponent(reg, e, components.Rotation{})
	ecs.AddComponent(reg, e, components.Velocity{})
	ecs.AddComponent(reg, e, components.MovementTarget{Speed: components.DefaultMovementSpeed})
	ecs.AddComponent(reg, e, components.NewColonist(name))
	ecs.AddComponent(reg, e, components.DefaultNeeds())
	ecs.AddComponent(reg, e, components.NewMemory())
	ecs.AddComponent(reg, e, components.NewInventory(10))
	ecs.AddComponent(reg, e, components.Task{})
	ecs.AddComponent(reg, e, components.Action{})
	ecs.AddComponent(reg, e, components.DecisionTrace{})
	ecs.AddComponent(reg, e, components.DefaultAppearance("Colonist"))
	return e
}

// spawnItem creates a loose dynamic item entity at pos.
func (s *Sim) spawnItem(defName string, pos worldpkg.Pos) ecs.EntityID {
	reg := s.World.Registry
	e := reg.CreateEntity()
	ecs.AddComponent(reg, e, components.Position{Value: pos})
	ecs.AddComponent(reg, e, components.Rotation{})
	ecs.AddComponent(reg, e, components.DefaultAppearance(defName))
	return e
}

// QueryWorldEntities implements the selection resolver's chunk query
// against the executor's processed indices.
func (s *Sim) QueryWorldEntities(coord worldpkg.ChunkCoord, center worldpkg.Pos, radius float64) []selection.PlacedHit {
	index := s.Executor.GetChunkIndex(coord)
	if index == nil {
		return nil
	}
	placed := index.QueryRadius(center, radius)
	hits := make([]selection.PlacedHit, len(placed))
	for i, p := range placed {
		hits[i] = selection.PlacedHit{DefName: p.DefName, Position: p.Position}
	}
	return hits
}

func (s *Sim) worldCallbacks() systems.WorldCallbacks {
	return systems.WorldCallbacks{
		SpawnEntity: s.spawnItem,
		RemoveEntity: func(coord worldpkg.ChunkCoord, pos worldpkg.Pos, defName string) bool {
			return s.Executor.RemoveEntity(coord, pos, defName)
		},
		SetEntityCooldown: func(coord worldpkg.ChunkCoord, pos worldpkg.Pos, defName string, seconds float64) bool {
			return s.Executor.SetEntityCooldown(coord, pos, defName, seconds)
		},
		DecrementResourceCount: func(coord worldpkg.ChunkCoord, pos worldpkg.Pos, defName string) (int, bool) {
			return s.Executor.DecrementResourceCount(coord, pos, defName)
		},
		ItemCrafted: func(label string) {
			s.log.Info("item crafted", "label", label)
		},
	}
}
