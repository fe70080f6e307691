package systems

import (
	"log/slog"

	"github.com/vev-studio/worldcore/engine/assets"
	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
	"github.com/vev-studio/worldcore/engine/goals"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

// CraftingGoalSystem keeps a goal hierarchy alive per crafting station
// with pending work: a Blocked parent Craft goal, plus per recipe input a
// Harvest child (when some asset's harvest yields that input) and a Haul
// child that depends on it. Inputs nothing can harvest get an immediately
// Available Haul child instead. Each input lineage shares a fresh chain ID
// so one colonist prefers carrying its harvest through to delivery.
// Priority 56.
type CraftingGoalSystem struct {
	registry *ecs.Registry
	goals    *goals.Registry
	catalog  *assets.Catalog
	recipes  *assets.RecipeCatalog
	log      *slog.Logger

	sinceUpdate float32
	nextChainID uint64

	// harvestSources caches, per yield defName, whether any catalog entry
	// harvests into it; built lazily on first use.
	harvestSources map[string]bool
}

// NewCraftingGoalSystem constructs a CraftingGoalSystem. A nil logger
// defaults to slog.Default().
func NewCraftingGoalSystem(registry *ecs.Registry, goalRegistry *goals.Registry, catalog *assets.Catalog, recipes *assets.RecipeCatalog, log *slog.Logger) *CraftingGoalSystem {
	if log == nil {
		log = slog.Default()
	}
	return &CraftingGoalSystem{
		registry:    registry,
		goals:       goalRegistry,
		catalog:     catalog,
		recipes:     recipes,
		log:         log,
		nextChainID: 1,
	}
}

func (s *CraftingGoalSystem) Name() string  { return "CraftingGoal" }
func (s *CraftingGoalSystem) Priority() int { return 56 }

func (s *CraftingGoalSystem) Update(deltaTime float32) {
	s.sinceUpdate += deltaTime
	if s.sinceUpdate < goalProducerInterval {
		return
	}
	s.sinceUpdate = 0

	seen := make(map[ecs.EntityID]struct{})
	for _, e := range ecs.View2[components.WorkQueue, components.Position](s.registry) {
		seen[e.Entity] = struct{}{}
		s.reconcile(e.Entity, e.A, e.B)
	}

	for _, g := range s.goals.GoalsByOwner(goals.OwnerCraftingGoalSystem) {
		if g.HasParent {
			continue
		}
		if _, ok := seen[g.DestinationEntity]; !ok {
			s.goals.RemoveGoalWithChildren(g.ID)
		}
	}
}

func (s *CraftingGoalSystem) reconcile(station ecs.EntityID, queue *components.WorkQueue, pos *components.Position) {
	job := queue.CurrentJob()
	existing := s.goals.GetGoalByDestination(station)

	if job == nil {
		if existing != nil {
			s.goals.RemoveGoalWithChildren(existing.ID)
		}
		return
	}

	if existing != nil {
		s.unblockIfGathered(existing)
		return
	}

	recipe, ok := s.recipes.ByDefName(job.RecipeName)
	if !ok {
		s.log.Warn("work queue references unknown recipe", "recipe", job.RecipeName)
		return
	}
	s.buildHierarchy(station, pos.Value, recipe, job.Quantity)
}

// buildHierarchy creates the Blocked Craft parent and one material lineage
// per recipe input.
func (s *CraftingGoalSystem) buildHierarchy(station ecs.EntityID, stationPos worldpkg.Pos, recipe assets.RecipeDef, quantity int) {
	var totalInputs uint32
	for _, in := range recipe.Inputs {
		totalInputs += in.Count * uint32(quantity)
	}

	parentID := s.goals.CreateGoal(goals.Goal{
		Type:                components.TaskCraft,
		DestinationEntity:   station,
		DestinationPosition: stationPos,
		TargetAmount:        totalInputs,
		Owner:               goals.OwnerCraftingGoalSystem,
		Status:              goals.StatusBlocked,
	})

	for _, in := range recipe.Inputs {
		chainID := s.nextChainID
		s.nextChainID++
		amount := in.Count * uint32(quantity)

		haul := goals.Goal{
			Type:                components.TaskHaul,
			DestinationEntity:   station,
			DestinationPosition: stationPos,
			AcceptedDefNames:    []string{in.DefName},
			TargetAmount:        amount,
			Owner:               goals.OwnerCraftingGoalSystem,
			ParentGoalID:        parentID,
			HasParent:           true,
			Status:              goals.StatusAvailable,
			ChainID:             chainID,
			HasChainID:          true,
		}

		if s.isHarvestable(in.DefName) {
			harvestID := s.goals.CreateGoal(goals.Goal{
				Type:                components.TaskHarvest,
				DestinationEntity:   station,
				DestinationPosition: stationPos,
				TargetAmount:        amount,
				Owner:               goals.OwnerCraftingGoalSystem,
				ParentGoalID:        parentID,
				HasParent:           true,
				Status:              goals.StatusAvailable,
				YieldDefName:        in.DefName,
				ChainID:             chainID,
				HasChainID:          true,
			})
			haul.DependsOnGoalID = harvestID
			haul.HasDependsOn = true
			haul.Status = goals.StatusWaitingForItems
		}

		s.goals.CreateGoal(haul)
	}
	s.log.Debug("crafting goal hierarchy created", "station", station, "recipe", recipe.DefName, "inputs", len(recipe.Inputs))
}

// unblockIfGathered flips a Blocked Craft goal to Available once every
// material child has delivered its full amount.
func (s *CraftingGoalSystem) unblockIfGathered(parent *goals.Goal) {
	if parent.Status != goals.StatusBlocked {
		return
	}
	for _, child := range s.goals.GetChildGoals(parent.ID) {
		if child.Type == components.TaskHaul && !child.IsComplete() {
			return
		}
	}
	s.goals.UpdateGoal(parent.ID, func(g *goals.Goal) { g.Status = goals.StatusAvailable })
}

// isHarvestable reports whether any catalog entry's harvest yields defName.
func (s *CraftingGoalSystem) isHarvestable(defName string) bool {
	if s.harvestSources == nil {
		s.harvestSources = make(map[string]bool)
		for _, name := range s.catalog.DefinitionNames() {
			if def, ok := s.catalog.GetDef(name); ok && def.HarvestProps.YieldDefName != "" {
				s.harvestSources[def.HarvestProps.YieldDefName] = true
			}
		}
	}
	return s.harvestSources[defName]
}
