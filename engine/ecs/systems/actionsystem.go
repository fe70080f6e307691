package systems

import (
	"log/slog"

	"github.com/vev-studio/worldcore/engine/assets"
	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
	"github.com/vev-studio/worldcore/engine/goals"
	"github.com/vev-studio/worldcore/engine/tasks"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

// WorldCallbacks are the host-side mutators the action system invokes when
// an action completes (§6.2). Any field may be nil; the corresponding
// world effect is then skipped.
type WorldCallbacks struct {
	// SpawnEntity creates a dynamic entity for a crafted or dropped item.
	SpawnEntity func(defName string, pos worldpkg.Pos) ecs.EntityID
	// RemoveEntity deletes a placed world entity (destructive harvest).
	RemoveEntity func(coord worldpkg.ChunkCoord, pos worldpkg.Pos, defName string) bool
	// SetEntityCooldown starts a regrowth timer on a placed world entity.
	SetEntityCooldown func(coord worldpkg.ChunkCoord, pos worldpkg.Pos, defName string, seconds float64) bool
	// DecrementResourceCount drains one unit from a pooled harvestable,
	// returning the remaining pool.
	DecrementResourceCount func(coord worldpkg.ChunkCoord, pos worldpkg.Pos, defName string) (int, bool)
	// RecipeDiscovered and ItemCrafted are optional observer
	// notifications.
	RecipeDiscovered func(label string)
	ItemCrafted      func(label string)
}

// wasteDefName is what a completed Toilet action leaves behind at the
// colonist's feet.
const wasteDefName = "BioPile"

// Fixed action durations for the work actions whose timing the asset or
// recipe definitions don't supply.
const (
	pickupDuration        float32 = 1.0
	dropOffDuration       float32 = 1.0
	placePackagedDuration float32 = 2.0
)

// ActionSystem runs the per-colonist action state machine: when an
// arrived Task has no active Action it constructs one, advances it every
// tick, and on completion applies need restoration, mutates inventories
// and the world, then clears the task so the evaluator picks new work.
// Priority 350: after movement and physics have delivered the colonist.
type ActionSystem struct {
	registry *ecs.Registry
	goals    *goals.Registry
	tasks    *tasks.Registry
	catalog  *assets.Catalog
	recipes  *assets.RecipeCatalog
	log      *slog.Logger

	callbacks WorldCallbacks
}

// NewActionSystem constructs an ActionSystem. taskRegistry may be nil; a
// nil logger defaults to slog.Default().
func NewActionSystem(registry *ecs.Registry, goalRegistry *goals.Registry, taskRegistry *tasks.Registry, catalog *assets.Catalog, recipes *assets.RecipeCatalog, callbacks WorldCallbacks, log *slog.Logger) *ActionSystem {
	if log == nil {
		log = slog.Default()
	}
	return &ActionSystem{
		registry:  registry,
		goals:     goalRegistry,
		tasks:     taskRegistry,
		catalog:   catalog,
		recipes:   recipes,
		callbacks: callbacks,
		log:       log,
	}
}

func (s *ActionSystem) Name() string  { return "Action" }
func (s *ActionSystem) Priority() int { return 350 }

func (s *ActionSystem) Update(deltaTime float32) {
	for _, e := range ecs.View5[components.Position, components.Task, components.Action, components.NeedsComponent, components.Memory](s.registry) {
		pos, task, action, needs, mem := e.A, e.B, e.C, e.D, e.E

		if action.Type == components.ActionNone {
			if task.State != components.TaskStateArrived {
				continue
			}
			if !s.startAction(e.Entity, pos.Value, task, action, mem) {
				task.Clear()
				continue
			}
		}

		if action.Type == components.ActionCraft {
			s.updateCraftProgress(task, action)
		}
		if action.Advance(deltaTime) {
			s.completeAction(e.Entity, pos.Value, task, action, needs)
		}
	}
}

// updateCraftProgress mirrors the craft action's completion fraction onto
// the station's work queue for UI display.
func (s *ActionSystem) updateCraftProgress(task *components.Task, action *components.Action) {
	goal := s.goals.GetGoal(task.GoalID)
	if goal == nil {
		return
	}
	if queue := ecs.GetComponent[components.WorkQueue](s.registry, goal.DestinationEntity); queue != nil && action.Duration > 0 {
		queue.Progress = action.Elapsed / action.Duration
		if queue.Progress > 1 {
			queue.Progress = 1
		}
	}
}

// startAction constructs the Action variant an arrived task calls for.
// Returns false for task types no action can serve (the task is cleared).
func (s *ActionSystem) startAction(colonist ecs.EntityID, pos worldpkg.Pos, task *components.Task, action *components.Action, mem *components.Memory) bool {
	switch task.Type {
	case components.TaskFulfillNeed:
		return s.startNeedAction(colonist, pos, task, action, mem)
	case components.TaskHarvest:
		def, ok := s.catalog.GetDef(task.TargetDefName)
		if !ok || def.HarvestProps.YieldDefName == "" {
			return false
		}
		*action = components.Action{
			Type:     components.ActionHarvest,
			Duration: float32(def.HarvestProps.Duration),
		}
		return true
	case components.TaskHaul:
		if task.HaulItemDefName == "" {
			return false
		}
		carrying := false
		if inv := ecs.GetComponent[components.Inventory](s.registry, colonist); inv != nil {
			carrying = inv.CountOf(task.HaulItemDefName) > 0
		}
		if carrying && task.Destination == task.HaulTarget {
			*action = components.Action{Type: components.ActionDropOff, Duration: dropOffDuration}
		} else {
			*action = components.Action{Type: components.ActionPickup, Duration: pickupDuration}
		}
		return true
	case components.TaskCraft:
		goal := s.goals.GetGoal(task.GoalID)
		if goal == nil {
			return false
		}
		duration := float32(1.0)
		if queue := ecs.GetComponent[components.WorkQueue](s.registry, goal.DestinationEntity); queue != nil {
			if job := queue.CurrentJob(); job != nil {
				if recipe, ok := s.recipes.ByDefName(job.RecipeName); ok {
					duration = float32(recipe.WorkAmount)
				}
			}
		}
		*action = components.Action{Type: components.ActionCraft, Duration: duration}
		return true
	case components.TaskPlacePackaged:
		*action = components.Action{Type: components.ActionDropOff, Duration: placePackagedDuration}
		return true
	case components.TaskGather:
		// Gathering from a harvestable runs a harvest; a loose item is a
		// plain pickup.
		if def, ok := s.catalog.GetDef(task.TargetDefName); ok && def.HarvestProps.YieldDefName != "" {
			*action = components.Action{
				Type:     components.ActionHarvest,
				Duration: float32(def.HarvestProps.Duration),
			}
			return true
		}
		*action = components.Action{Type: components.ActionPickup, Duration: pickupDuration}
		return true
	default:
		return false
	}
}

func (s *ActionSystem) startNeedAction(colonist ecs.EntityID, pos worldpkg.Pos, task *components.Task, action *components.Action, mem *components.Memory) bool {
	switch task.NeedToFulfill {
	case components.Hunger:
		nutrition := components.DefaultNutrition
		if task.TargetDefName != "" {
			if def, ok := s.catalog.GetDef(task.TargetDefName); ok && def.Item.EdibleNutrition > 0 {
				nutrition = def.Item.EdibleNutrition
			}
		} else {
			nutrition = components.FindNutritionAtPosition(mem, s.catalog, task.Destination)
		}
		*action = components.NewEatAction(float32(nutrition))
		if s.carries(colonist, task.TargetDefName) {
			action.ConsumeDefName = task.TargetDefName
		}
		return true
	case components.Thirst:
		quality := float32(1.0)
		if task.TargetDefName != "" {
			if def, ok := s.catalog.GetDef(task.TargetDefName); ok && def.Item.EdibleQuality > 0 {
				quality = float32(def.Item.EdibleQuality)
			}
		}
		*action = components.NewDrinkAction(quality)
		return true
	case components.Energy:
		quality := float32(0.5)
		if task.HasTargetEntity {
			quality = 1.0
		}
		*action = components.NewSleepAction(quality)
		return true
	case components.Bladder:
		*action = components.NewToiletAction(pos)
		return true
	default:
		return false
	}
}

// completeAction applies the finished action's effects and resets the
// colonist to idle.
func (s *ActionSystem) completeAction(colonist ecs.EntityID, pos worldpkg.Pos, task *components.Task, action *components.Action, needs *components.NeedsComponent) {
	if action.RestoreAmount != 0 {
		needs.Get(action.RestoreNeed).Restore(action.RestoreAmount)
	}
	if action.HasSideEffect {
		n := needs.Get(action.SideEffectNeed)
		if action.SideEffectAmount >= 0 {
			n.Restore(action.SideEffectAmount)
		} else {
			n.Value += action.SideEffectAmount
			if n.Value < 0 {
				n.Value = 0
			}
		}
	}
	if action.ConsumeDefName != "" {
		if inv := ecs.GetComponent[components.Inventory](s.registry, colonist); inv != nil {
			inv.Consume(action.ConsumeDefName, 1)
		}
	}

	switch action.Type {
	case components.ActionToilet:
		if s.callbacks.SpawnEntity != nil {
			s.callbacks.SpawnEntity(wasteDefName, action.ToiletPosition)
		}
	case components.ActionHarvest:
		s.completeHarvest(colonist, task)
	case components.ActionPickup:
		s.completePickup(colonist, task)
	case components.ActionDropOff:
		if task.Type == components.TaskPlacePackaged {
			s.completePlacement(task)
		} else {
			s.completeDropOff(colonist, task)
		}
	case components.ActionCraft:
		s.completeCraft(task)
	}

	chainID, hasChain, step := task.ChainID, task.HasChainID, task.ChainStep
	task.Clear()
	if hasChain {
		task.ChainID, task.HasChainID = chainID, true
		task.ChainStep = step + 1
	}
	*action = components.Action{}
}

func (s *ActionSystem) completeHarvest(colonist ecs.EntityID, task *components.Task) {
	def, ok := s.catalog.GetDef(task.TargetDefName)
	if !ok {
		return
	}
	hp := def.HarvestProps
	yieldCount := uint32(hp.MinCount)
	if yieldCount == 0 {
		yieldCount = 1
	}

	if inv := ecs.GetComponent[components.Inventory](s.registry, colonist); inv != nil {
		hands := uint8(1)
		if yieldDef, ok := s.catalog.GetDef(hp.YieldDefName); ok && yieldDef.HandsRequired > 0 {
			hands = yieldDef.HandsRequired
		}
		stack := components.ItemStack{DefName: hp.YieldDefName, Quantity: yieldCount, HandsRequired: hands}
		if !inv.PickUp(stack) && s.callbacks.SpawnEntity != nil {
			s.callbacks.SpawnEntity(hp.YieldDefName, task.Destination)
		}
	}

	coord := worldpkg.WorldToChunk(task.Destination)
	destroyed := false
	switch {
	case hp.Destructive:
		destroyed = true
	case hp.TotalPool > 0:
		if s.callbacks.DecrementResourceCount != nil {
			if remaining, found := s.callbacks.DecrementResourceCount(coord, task.Destination, task.TargetDefName); found && remaining == 0 {
				destroyed = true
			}
		}
	default:
		if s.callbacks.SetEntityCooldown != nil {
			s.callbacks.SetEntityCooldown(coord, task.Destination, task.TargetDefName, hp.RegrowthSeconds)
		}
	}
	if destroyed {
		if s.callbacks.RemoveEntity != nil {
			s.callbacks.RemoveEntity(coord, task.Destination, task.TargetDefName)
		}
		if s.tasks != nil && task.HasTargetEntity {
			s.tasks.OnEntityDestroyed(task.TargetEntity)
		}
	}
}

func (s *ActionSystem) completePickup(colonist ecs.EntityID, task *components.Task) {
	if task.HaulItemDefName == "" && task.TargetDefName == "" {
		return
	}
	defName := task.HaulItemDefName
	if defName == "" {
		defName = task.TargetDefName
	}
	hands := uint8(1)
	if def, ok := s.catalog.GetDef(defName); ok && def.HandsRequired > 0 {
		hands = def.HandsRequired
	}
	if inv := ecs.GetComponent[components.Inventory](s.registry, colonist); inv != nil {
		if !inv.PickUp(components.ItemStack{DefName: defName, Quantity: 1, HandsRequired: hands}) {
			return
		}
	}
	coord := worldpkg.WorldToChunk(task.Destination)
	if s.callbacks.RemoveEntity != nil {
		s.callbacks.RemoveEntity(coord, task.Destination, defName)
	}
	if s.tasks != nil && task.HasTargetEntity {
		s.tasks.OnEntityDestroyed(task.TargetEntity)
	}
}

func (s *ActionSystem) completeDropOff(colonist ecs.EntityID, task *components.Task) {
	inv := ecs.GetComponent[components.Inventory](s.registry, colonist)
	if inv == nil || task.HaulItemDefName == "" {
		return
	}
	delivered := inv.Consume(task.HaulItemDefName, 1)
	if delivered == 0 {
		return
	}

	goal := s.goals.GetGoal(task.GoalID)
	if goal != nil {
		if container := ecs.GetComponent[components.Inventory](s.registry, goal.DestinationEntity); container != nil {
			container.Backpack = append(container.Backpack, components.ItemStack{
				DefName: task.HaulItemDefName, Quantity: delivered, HandsRequired: 1,
			})
		}
		s.goals.RecordDelivery(task.GoalID, task.TargetEntity)
		if goal.IsComplete() {
			s.goals.UpdateGoal(goal.ID, func(g *goals.Goal) { g.Status = goals.StatusComplete })
			s.goals.NotifyGoalCompleted(goal.ID)
		}
	}
}

func (s *ActionSystem) completePlacement(task *components.Task) {
	goal := s.goals.GetGoal(task.GoalID)
	if goal == nil {
		return
	}
	if packaged := ecs.GetComponent[components.Packaged](s.registry, goal.DestinationEntity); packaged != nil {
		if pos := ecs.GetComponent[components.Position](s.registry, goal.DestinationEntity); pos != nil {
			pos.Value = packaged.TargetPosition
		}
		packaged.HasTargetPos = false
		packaged.BeingCarried = false
	}
	s.goals.UpdateGoal(goal.ID, func(g *goals.Goal) { g.Status = goals.StatusComplete })
	s.goals.NotifyGoalCompleted(goal.ID)
}

func (s *ActionSystem) completeCraft(task *components.Task) {
	goal := s.goals.GetGoal(task.GoalID)
	if goal == nil {
		return
	}
	queue := ecs.GetComponent[components.WorkQueue](s.registry, goal.DestinationEntity)
	if queue == nil {
		return
	}
	job := queue.CurrentJob()
	if job == nil {
		return
	}
	recipe, ok := s.recipes.ByDefName(job.RecipeName)
	if !ok {
		return
	}

	// Consume inputs from the station's own inventory, where hauls
	// delivered them.
	if station := ecs.GetComponent[components.Inventory](s.registry, goal.DestinationEntity); station != nil {
		for _, in := range recipe.Inputs {
			station.Consume(in.DefName, in.Count)
		}
	}
	for _, out := range recipe.Outputs {
		if s.callbacks.SpawnEntity != nil {
			for i := uint32(0); i < out.Count; i++ {
				s.callbacks.SpawnEntity(out.DefName, goal.DestinationPosition)
			}
		}
	}
	if s.callbacks.ItemCrafted != nil {
		s.callbacks.ItemCrafted(recipe.Label)
	}

	job.Quantity--
	queue.Progress = 0
	if job.Quantity <= 0 {
		job.Complete = true
		queue.RemoveCompleted()
	}
	s.log.Debug("craft completed", "recipe", recipe.DefName, "remaining", job.Quantity)
}

func (s *ActionSystem) carries(colonist ecs.EntityID, defName string) bool {
	if defName == "" {
		return false
	}
	inv := ecs.GetComponent[components.Inventory](s.registry, colonist)
	return inv != nil && inv.CountOf(defName) > 0
}
