package systems

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/vev-studio/worldcore/engine/assets"
	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
	"github.com/vev-studio/worldcore/engine/goals"
	"github.com/vev-studio/worldcore/engine/tasks"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

// reevaluationInterval is how long a colonist commits to its current task
// before the evaluator reconsiders.
const reevaluationInterval float32 = 0.5

// chainContinuityBonus is added to any option continuing the colonist's
// current chain (harvest-then-haul), so mid-chain work is rarely abandoned
// for marginally better options.
const chainContinuityBonus float32 = 25

// wanderRadius bounds how far a wander target lands from the colonist.
const wanderRadius float32 = 10

// DropItemFunc is the host callback the evaluator uses to shed a 2-handed
// item that cannot be stowed when the winning option needs free hands.
type DropItemFunc func(colonist ecs.EntityID, pos worldpkg.Pos, stack components.ItemStack)

// candidate pairs a trace-visible EvaluatedOption with the task the
// evaluator would assign if it wins.
type candidate struct {
	option components.EvaluatedOption
	task   components.Task

	needsFreeHands bool
	goalID         uint64
	hasGoal        bool
	discoveryID    uint64 // task-registry ID to reserve on selection; 0 if none
}

// AIDecisionSystem is the per-colonist decision evaluator: it rebuilds a
// scored option trace when the colonist is idle, arrived, overdue for
// re-evaluation or facing a new critical need, then mirrors the winning
// option into the colonist's Task and MovementTarget. Priority 60: after
// vision and the goal producers, before movement.
type AIDecisionSystem struct {
	registry *ecs.Registry
	goals    *goals.Registry
	catalog  *assets.Catalog

	rng *rand.Rand

	// DropItem, when set, is invoked to drop an unstowable 2-handed item
	// blocking the winning option.
	DropItem DropItemFunc

	// Tasks, when set, feeds discovery-driven gather options (a berry bush
	// somebody spotted) into the trace and receives reservations for the
	// ones a colonist picks.
	Tasks *tasks.Registry

	clock float32
}

// NewAIDecisionSystem constructs an evaluator with an explicitly seeded
// RNG so wander targets are reproducible for a fixed seed and call
// sequence.
func NewAIDecisionSystem(registry *ecs.Registry, goalRegistry *goals.Registry, catalog *assets.Catalog, seed uint64) *AIDecisionSystem {
	return &AIDecisionSystem{
		registry: registry,
		goals:    goalRegistry,
		catalog:  catalog,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)),
	}
}

func (s *AIDecisionSystem) Name() string  { return "AIDecision" }
func (s *AIDecisionSystem) Priority() int { return 60 }

func (s *AIDecisionSystem) Update(deltaTime float32) {
	s.clock += deltaTime
	for _, e := range ecs.View5[components.Position, components.NeedsComponent, components.Memory, components.Task, components.MovementTarget](s.registry) {
		task := e.D
		task.TimeSinceEvaluation += deltaTime

		// A colonist mid-action is committed; the action system clears the
		// task when it finishes.
		if action := ecs.GetComponent[components.Action](s.registry, e.Entity); action != nil && action.Type != components.ActionNone {
			continue
		}
		if !s.shouldReevaluate(task, e.B, e.E) {
			continue
		}
		s.evaluate(e.Entity, e.A.Value, e.B, e.C, task, e.E)
	}
}

// shouldReevaluate applies §4.P step 1: idle, arrived, overdue, or a
// critical need the current task isn't already addressing. A wandering
// colonist mid-move is left alone short of a critical need.
func (s *AIDecisionSystem) shouldReevaluate(task *components.Task, needs *components.NeedsComponent, move *components.MovementTarget) bool {
	if task.Type == components.TaskNone {
		return true
	}
	if task.State == components.TaskStateArrived {
		return true
	}
	if needs.HasAnyCritical() && !taskAddressesCritical(task, needs) {
		return true
	}
	if task.Type == components.TaskWander && move.Active {
		return false
	}
	return task.TimeSinceEvaluation >= reevaluationInterval
}

func taskAddressesCritical(task *components.Task, needs *components.NeedsComponent) bool {
	return task.Type == components.TaskFulfillNeed && needs.Get(task.NeedToFulfill).IsCritical()
}

func (s *AIDecisionSystem) evaluate(colonist ecs.EntityID, pos worldpkg.Pos, needs *components.NeedsComponent, mem *components.Memory, task *components.Task, move *components.MovementTarget) {
	chainID, chainStep, hasChain := uint64(0), uint8(0), false
	if task.ContinuesChain() {
		chainID, chainStep, hasChain = task.ChainID, task.ChainStep, true
	}

	candidates := s.buildCandidates(colonist, pos, needs, mem)
	if hasChain {
		for i := range candidates {
			if candidates[i].task.HasChainID && candidates[i].task.ChainID == chainID {
				candidates[i].option.Priority += chainContinuityBonus
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].option.Priority > candidates[j].option.Priority
	})

	task.Clear()
	if hasChain {
		// The chain survives a re-evaluation so its bonus can still apply
		// next time, even though the task slot resets.
		task.ChainID, task.HasChainID = chainID, true
		task.ChainStep = chainStep
	}

	// Highest-scoring Available option wins; an option whose hand
	// requirement can't be met is marked unavailable and the next one is
	// considered, so a full-handed colonist still takes the best work its
	// hands allow (a chain-continuing delivery, usually).
	winner := -1
	for i := range candidates {
		w := &candidates[i]
		if w.option.Status != components.OptionAvailable {
			continue
		}
		if w.needsFreeHands && !s.freeHands(colonist, pos) {
			w.option.Status = components.OptionUnavailable
			w.option.Reason += " (hands full)"
			continue
		}
		winner = i
		w.option.Status = components.OptionSelected
		*task = w.task
		task.Reason = w.option.Reason
		if hasChain && task.HasChainID && task.ChainID == chainID {
			task.ChainStep = chainStep
		}
		if w.hasGoal {
			s.goals.UpdateGoal(w.goalID, func(g *goals.Goal) {
				if g.Status == goals.StatusAvailable {
					g.Status = goals.StatusInProgress
				}
			})
			if task.Type == components.TaskHaul && task.HasTargetEntity {
				s.goals.ReserveItem(w.goalID, task.TargetEntity, colonist)
			}
		}
		if w.discoveryID != 0 && s.Tasks != nil {
			s.Tasks.Reserve(w.discoveryID, colonist, s.clock)
		}
		break
	}

	if trace := ecs.GetComponent[components.DecisionTrace](s.registry, colonist); trace != nil {
		trace.Options = trace.Options[:0]
		for _, c := range candidates {
			if len(trace.Options) == components.MaxDisplayedOptions {
				break
			}
			trace.AddOption(c.option)
		}
	}

	if winner < 0 {
		move.Active = false
		return
	}

	if task.Destination == pos {
		task.State = components.TaskStateArrived
		move.Active = false
		return
	}
	task.State = components.TaskStateMoving
	move.Target = task.Destination
	move.Active = true
	if move.Speed == 0 {
		move.Speed = components.DefaultMovementSpeed
	}
}

// buildCandidates enumerates one option per actionable need, one per
// available goal, and the Wander fallback.
func (s *AIDecisionSystem) buildCandidates(colonist ecs.EntityID, pos worldpkg.Pos, needs *components.NeedsComponent, mem *components.Memory) []candidate {
	var out []candidate
	for _, needType := range []components.NeedType{components.Hunger, components.Thirst, components.Energy, components.Bladder, components.Digestion} {
		out = append(out, s.needCandidate(colonist, pos, needType, needs, mem))
	}
	out = append(out, s.goalCandidates(colonist, pos, mem)...)
	if c, ok := s.gatherCandidate(colonist, pos); ok {
		out = append(out, c)
	}

	wander := pos.Add(worldpkg.Pos{
		(s.rng.Float32()*2 - 1) * wanderRadius,
		(s.rng.Float32()*2 - 1) * wanderRadius,
	})
	out = append(out, candidate{
		option: components.EvaluatedOption{
			TaskType: components.TaskWander,
			Priority: components.PriorityWander,
			Status:   components.OptionAvailable,
			Reason:   "nothing better to do",
		},
		task: components.Task{Type: components.TaskWander, Destination: wander},
	})
	return out
}

// needCandidate scores one need and resolves its fulfillment target:
// carried food first for Hunger, then remembered world entities by the
// fixed need-to-capability mapping, then the ground fallback for Energy
// and Bladder.
func (s *AIDecisionSystem) needCandidate(colonist ecs.EntityID, pos worldpkg.Pos, needType components.NeedType, needs *components.NeedsComponent, mem *components.Memory) candidate {
	need := needs.Get(needType)
	opt := components.EvaluatedOption{Need: needType, TaskType: components.TaskFulfillNeed}

	if !need.NeedsAttention() {
		opt.Status = components.OptionSatisfied
		opt.Reason = needType.String() + " satisfied"
		return candidate{option: opt}
	}
	opt.Priority = components.CalculatePriority(need.Value, need.SeekThreshold, need.CriticalThreshold)

	baseTask := components.Task{Type: components.TaskFulfillNeed, NeedToFulfill: needType}

	if needType == components.Hunger {
		if defName, ok := s.carriedEdible(colonist); ok {
			opt.Status = components.OptionAvailable
			opt.Reason = "eat carried " + defName
			baseTask.Destination = pos
			baseTask.TargetDefName = defName
			return candidate{option: opt, task: baseTask}
		}
	}

	cap, mapped := needCapability(needType)
	if mapped {
		if target, _, ok := components.FindNearestWithCapability(mem, cap, pos); ok {
			opt.Status = components.OptionAvailable
			opt.Reason = fmt.Sprintf("%s at %s", needType, target.DefName)
			baseTask.Destination = target.Position
			baseTask.TargetDefName = target.DefName
			baseTask.TargetEntity = components.WorldEntityKey(target.Position, target.DefName)
			baseTask.HasTargetEntity = true
			return candidate{option: opt, task: baseTask}
		}
	}

	if needType == components.Energy || needType == components.Bladder {
		// Ground fallback: fulfill in place, at reduced quality.
		opt.Status = components.OptionAvailable
		opt.Reason = needType.String() + " on the ground"
		baseTask.Destination = pos
		return candidate{option: opt, task: baseTask}
	}

	opt.Status = components.OptionUnavailable
	opt.Reason = "no known source for " + needType.String()
	return candidate{option: opt}
}

// needCapability is the fixed need-to-capability mapping; Digestion has no
// world fulfillment and always resolves unavailable.
func needCapability(needType components.NeedType) (assets.Capability, bool) {
	switch needType {
	case components.Hunger:
		return assets.Edible, true
	case components.Thirst:
		return assets.Drinkable, true
	case components.Energy:
		return assets.Sleepable, true
	case components.Bladder:
		return assets.Toilet, true
	default:
		return 0, false
	}
}

// goalCandidates proposes work options from the shared goal registry:
// hauls the colonist can source, harvests it knows a target for, unblocked
// crafts and packaged placements.
func (s *AIDecisionSystem) goalCandidates(colonist ecs.EntityID, pos worldpkg.Pos, mem *components.Memory) []candidate {
	// InProgress goals stay workable: several colonists may serve one goal,
	// bounded by its reservation capacity.
	available := s.goals.GoalsMatching(func(g *goals.Goal) bool {
		return (g.Status == goals.StatusAvailable || g.Status == goals.StatusInProgress) && !g.IsComplete()
	})
	sort.Slice(available, func(i, j int) bool { return available[i].ID < available[j].ID })

	var out []candidate
	for _, g := range available {
		switch g.Type {
		case components.TaskHaul:
			if c, ok := s.haulCandidate(colonist, pos, mem, g); ok {
				out = append(out, c)
			}
		case components.TaskHarvest:
			if c, ok := s.harvestCandidate(pos, mem, g); ok {
				out = append(out, c)
			}
		case components.TaskCraft:
			out = append(out, candidate{
				option: components.EvaluatedOption{
					TaskType: components.TaskCraft,
					Priority: components.PriorityCraft,
					Status:   components.OptionAvailable,
					Reason:   "craft at station",
				},
				task: components.Task{
					Type:        components.TaskCraft,
					Destination: g.DestinationPosition,
					GoalID:      g.ID,
					HasGoal:     true,
				},
				hasGoal: true, goalID: g.ID,
			})
		case components.TaskPlacePackaged:
			out = append(out, candidate{
				option: components.EvaluatedOption{
					TaskType: components.TaskPlacePackaged,
					Priority: components.PriorityHaul,
					Status:   components.OptionAvailable,
					Reason:   "place " + g.DestinationDefName,
				},
				task: components.Task{
					Type:        components.TaskPlacePackaged,
					Destination: g.DestinationPosition,
					GoalID:      g.ID,
					HasGoal:     true,
				},
				needsFreeHands: true,
				hasGoal:        true, goalID: g.ID,
			})
		}
	}
	return out
}

// haulCandidate resolves a Haul goal against what the colonist carries or
// remembers: deliver if already holding an accepted item, else fetch the
// nearest remembered accepted item.
func (s *AIDecisionSystem) haulCandidate(colonist ecs.EntityID, pos worldpkg.Pos, mem *components.Memory, g *goals.Goal) (candidate, bool) {
	accepted := func(defName string) bool {
		for _, n := range g.AcceptedDefNames {
			if n == defName {
				return true
			}
		}
		if g.AcceptedCategory != assets.None {
			if def, ok := s.catalog.GetDef(defName); ok {
				return def.Category == g.AcceptedCategory
			}
		}
		return false
	}

	task := components.Task{
		Type:       components.TaskHaul,
		GoalID:     g.ID,
		HasGoal:    true,
		HaulTarget: g.DestinationPosition,
	}
	if g.HasChainID {
		task.ChainID, task.HasChainID = g.ChainID, true
	}

	if inv := ecs.GetComponent[components.Inventory](s.registry, colonist); inv != nil {
		if held := inv.HeldStack(); held != nil && accepted(held.DefName) {
			task.Destination = g.DestinationPosition
			task.HaulItemDefName = held.DefName
			// Carry the item key reserved at pickup through to delivery so
			// RecordDelivery releases the right reservation.
			for key, holder := range g.ItemReservations {
				if holder == colonist {
					task.TargetEntity = key
					task.HasTargetEntity = true
					break
				}
			}
			return candidate{
				option: components.EvaluatedOption{
					TaskType: components.TaskHaul,
					Priority: components.PriorityHaul,
					Status:   components.OptionAvailable,
					Reason:   "deliver " + held.DefName,
				},
				task:    task,
				hasGoal: true, goalID: g.ID,
			}, true
		}
	}

	bestDist := float32(0)
	var best *struct {
		pos     worldpkg.Pos
		defName string
	}
	for _, known := range components.FindKnownWithCapability(mem, assets.Carryable) {
		if !accepted(known.DefName) {
			continue
		}
		key := components.WorldEntityKey(known.Position, known.DefName)
		if g.IsItemReserved(key) && !g.IsItemReservedBy(key, colonist) {
			continue
		}
		d := pos.Sub(known.Position).Len()
		if best == nil || d < bestDist {
			best = &struct {
				pos     worldpkg.Pos
				defName string
			}{known.Position, known.DefName}
			bestDist = d
		}
	}
	if best == nil {
		return candidate{
			option: components.EvaluatedOption{
				TaskType: components.TaskHaul,
				Priority: components.PriorityHaul,
				Status:   components.OptionUnavailable,
				Reason:   "no haulable item known",
			},
		}, true
	}
	task.Destination = best.pos
	task.HaulSource = best.pos
	task.HaulItemDefName = best.defName
	task.TargetEntity = components.WorldEntityKey(best.pos, best.defName)
	task.HasTargetEntity = true
	return candidate{
		option: components.EvaluatedOption{
			TaskType: components.TaskHaul,
			Priority: components.PriorityHaul,
			Status:   components.OptionAvailable,
			Reason:   "fetch " + best.defName,
		},
		task:           task,
		needsFreeHands: true,
		hasGoal:        true, goalID: g.ID,
	}, true
}

// harvestCandidate resolves a Harvest goal to the nearest remembered
// entity whose harvest yields the goal's wanted defName.
func (s *AIDecisionSystem) harvestCandidate(pos worldpkg.Pos, mem *components.Memory, g *goals.Goal) (candidate, bool) {
	bestDist := float32(0)
	var best *struct {
		pos     worldpkg.Pos
		defName string
	}
	for _, known := range components.FindKnownWithCapability(mem, assets.Harvestable) {
		def, ok := s.catalog.GetDef(known.DefName)
		if !ok || def.HarvestProps.YieldDefName != g.YieldDefName {
			continue
		}
		d := pos.Sub(known.Position).Len()
		if best == nil || d < bestDist {
			best = &struct {
				pos     worldpkg.Pos
				defName string
			}{known.Position, known.DefName}
			bestDist = d
		}
	}
	if best == nil {
		return candidate{
			option: components.EvaluatedOption{
				TaskType: components.TaskHarvest,
				Priority: components.PriorityHarvest,
				Status:   components.OptionUnavailable,
				Reason:   "no harvest source known for " + g.YieldDefName,
			},
		}, true
	}
	task := components.Task{
		Type:            components.TaskHarvest,
		Destination:     best.pos,
		TargetDefName:   best.defName,
		TargetEntity:    components.WorldEntityKey(best.pos, best.defName),
		HasTargetEntity: true,
		GoalID:          g.ID,
		HasGoal:         true,
	}
	if g.HasChainID {
		task.ChainID, task.HasChainID = g.ChainID, true
	}
	return candidate{
		option: components.EvaluatedOption{
			TaskType: components.TaskHarvest,
			Priority: components.PriorityHarvest,
			Status:   components.OptionAvailable,
			Reason:   "harvest " + best.defName,
		},
		task:           task,
		needsFreeHands: true,
		hasGoal:        true, goalID: g.ID,
	}, true
}

// gatherCandidate proposes the nearest unreserved discovery-driven gather
// task (a harvestable somebody spotted) the colonist knows about.
func (s *AIDecisionSystem) gatherCandidate(colonist ecs.EntityID, pos worldpkg.Pos) (candidate, bool) {
	if s.Tasks == nil {
		return candidate{}, false
	}
	var best *tasks.Task
	bestDist := float32(0)
	for _, t := range s.Tasks.TasksForType(colonist, components.TaskGather) {
		if t.IsReserved() && !t.IsReservedBy(colonist) {
			continue
		}
		d := pos.Sub(t.Position).Len()
		if best == nil || d < bestDist {
			best, bestDist = t, d
		}
	}
	if best == nil {
		return candidate{}, false
	}
	return candidate{
		option: components.EvaluatedOption{
			TaskType: components.TaskGather,
			Priority: components.PriorityGatherFood,
			Status:   components.OptionAvailable,
			Reason:   "gather from " + best.DefName,
		},
		task: components.Task{
			Type:            components.TaskGather,
			Destination:     best.Position,
			TargetDefName:   best.DefName,
			TargetEntity:    best.WorldEntityKey,
			HasTargetEntity: true,
		},
		needsFreeHands: true,
		discoveryID:    best.ID,
	}, true
}

// carriedEdible returns the defName of an edible item in the colonist's
// hands or backpack, if any.
func (s *AIDecisionSystem) carriedEdible(colonist ecs.EntityID) (string, bool) {
	inv := ecs.GetComponent[components.Inventory](s.registry, colonist)
	if inv == nil {
		return "", false
	}
	isEdible := func(defName string) bool {
		def, ok := s.catalog.GetDef(defName)
		return ok && def.HasCapability(assets.Edible)
	}
	if held := inv.HeldStack(); held != nil && isEdible(held.DefName) {
		return held.DefName, true
	}
	for _, stack := range inv.Backpack {
		if isEdible(stack.DefName) {
			return stack.DefName, true
		}
	}
	return "", false
}

// freeHands tries to clear the colonist's hands for a hand-requiring
// option: a 1-handed held item is stowed into the backpack, a 2-handed
// item is dropped through the DropItem callback. Returns whether at least
// one hand is free afterwards.
func (s *AIDecisionSystem) freeHands(colonist ecs.EntityID, pos worldpkg.Pos) bool {
	inv := ecs.GetComponent[components.Inventory](s.registry, colonist)
	if inv == nil {
		return true
	}
	if inv.HandsFree() > 0 {
		return true
	}
	if inv.LeftHand != nil && inv.LeftHand == inv.RightHand {
		// 2-handed: never stowable.
		if s.DropItem == nil {
			return false
		}
		dropped := inv.PutDown()
		for _, stack := range dropped {
			s.DropItem(colonist, pos, stack)
		}
		return true
	}
	if inv.StowToBackpack(true) || inv.StowToBackpack(false) {
		return true
	}
	if s.DropItem == nil {
		return false
	}
	for _, stack := range inv.PutDown() {
		s.DropItem(colonist, pos, stack)
	}
	return true
}
