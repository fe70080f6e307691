// Package goals is the central catalog of goal-level work: storage wants
// items, crafting needs materials, a build site wants its packaged entity
// placed. Tasks live at the GOAL level, not the item level, so task counts
// are bounded by the number of goals (hundreds) rather than the number of
// discovered loose items (tens of thousands) — ported from the original's
// GoalTaskRegistry.
package goals

import (
	"log/slog"

	"golang.org/x/exp/maps"

	"github.com/vev-studio/worldcore/engine/assets"
	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

// Status tracks a goal's place in the task hierarchy and dependency chain.
type Status uint8

const (
	StatusAvailable       Status = iota // can be worked on now
	StatusInProgress                    // colonist(s) actively working
	StatusWaitingForItems               // haul waiting for harvest to create items
	StatusBlocked                       // craft waiting for all materials
	StatusComplete
)

// Owner identifies which producer system created and owns a goal's
// lifecycle.
type Owner uint8

const (
	OwnerNone Owner = iota
	OwnerStorageGoalSystem
	OwnerCraftingGoalSystem
	OwnerBuildGoalSystem
)

// Goal is one goal-level unit of work: a destination that wants items
// delivered or work performed, with item-level reservations tracked inside
// it rather than as separate per-item tasks.
type Goal struct {
	ID   uint64
	Type components.TaskType

	DestinationEntity   ecs.EntityID
	DestinationPosition worldpkg.Pos
	DestinationDefName  string

	AcceptedDefNames []string
	AcceptedCategory assets.Category

	// ItemReservations maps a worldEntityKey (hash of item position+defName,
	// see components.Memory's hashing scheme) to the colonist hauling it.
	ItemReservations map[uint64]ecs.EntityID

	TargetAmount    uint32
	DeliveredAmount uint32

	CreatedAt float32
	Owner     Owner

	ParentGoalID    uint64
	HasParent       bool
	DependsOnGoalID uint64
	HasDependsOn    bool
	Status          Status

	// YieldDefName is what a Harvest goal produces on completion (e.g. a
	// tree yields wood), read by the decision evaluator to find a
	// remembered source that harvests into it.
	YieldDefName string

	// ChainID links goals spawned together (a harvest and the haul it
	// feeds) so the decision evaluator can award a chain-continuity bonus
	// to the colonist who already did the first half.
	ChainID    uint64
	HasChainID bool
}

// IsItemReserved reports whether any colonist currently holds worldEntityKey.
func (g *Goal) IsItemReserved(worldEntityKey uint64) bool {
	_, ok := g.ItemReservations[worldEntityKey]
	return ok
}

// IsItemReservedBy reports whether colonist specifically holds worldEntityKey.
func (g *Goal) IsItemReservedBy(worldEntityKey uint64, colonist ecs.EntityID) bool {
	holder, ok := g.ItemReservations[worldEntityKey]
	return ok && holder == colonist
}

// IsComplete reports whether the goal has reached its full delivered amount.
func (g *Goal) IsComplete() bool {
	return g.TargetAmount > 0 && g.DeliveredAmount >= g.TargetAmount
}

// AvailableCapacity returns how many more items the goal can accept,
// counting in-flight reservations against the target.
func (g *Goal) AvailableCapacity() uint32 {
	inProgress := uint32(len(g.ItemReservations))
	if g.DeliveredAmount+inProgress >= g.TargetAmount {
		return 0
	}
	return g.TargetAmount - g.DeliveredAmount - inProgress
}

// Filter selects a subset of goals for GoalsMatching.
type Filter func(*Goal) bool

// Registry is the in-process store of every active goal, with indices for
// the access patterns the goal-producer and decision systems need: by
// destination, by type, by owner, by reserved item, and by parent/dependency
// for hierarchy walks. Not safe for concurrent use; all mutation happens on
// the main simulation thread, per spec.md §5.
type Registry struct {
	log *slog.Logger

	goals map[uint64]*Goal

	destinationToGoal map[ecs.EntityID]uint64
	typeToGoals        map[components.TaskType]map[uint64]struct{}
	ownerToGoals        map[Owner]map[uint64]struct{}
	itemToGoal          map[uint64]uint64
	parentToChildren     map[uint64]map[uint64]struct{}
	goalToDependents     map[uint64]map[uint64]struct{}

	nextGoalID uint64
}

// NewRegistry constructs an empty Registry. A nil logger defaults to
// slog.Default().
func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		log:                log,
		goals:              make(map[uint64]*Goal),
		destinationToGoal:  make(map[ecs.EntityID]uint64),
		typeToGoals:        make(map[components.TaskType]map[uint64]struct{}),
		ownerToGoals:       make(map[Owner]map[uint64]struct{}),
		itemToGoal:         make(map[uint64]uint64),
		parentToChildren:   make(map[uint64]map[uint64]struct{}),
		goalToDependents:   make(map[uint64]map[uint64]struct{}),
		nextGoalID:         1,
	}
}

// Clear removes every goal and resets the ID counter, for a fresh game.
func (r *Registry) Clear() {
	r.goals = make(map[uint64]*Goal)
	r.destinationToGoal = make(map[ecs.EntityID]uint64)
	r.typeToGoals = make(map[components.TaskType]map[uint64]struct{})
	r.ownerToGoals = make(map[Owner]map[uint64]struct{})
	r.itemToGoal = make(map[uint64]uint64)
	r.parentToChildren = make(map[uint64]map[uint64]struct{})
	r.goalToDependents = make(map[uint64]map[uint64]struct{})
	r.nextGoalID = 1
}

// CreateGoal assigns goal an ID and stores it. A non-child goal created for
// a destination that already has one updates the existing goal in place
// instead of creating a duplicate, preserving the original ID — matching
// goal-producer systems that re-derive the same goal shape every tick they
// run rather than diffing against what they created last time.
func (r *Registry) CreateGoal(goal Goal) uint64 {
	if !goal.HasParent {
		if existingID, ok := r.destinationToGoal[goal.DestinationEntity]; ok {
			goal.ID = existingID
			r.goals[existingID] = &goal
			r.log.Debug("goal registry: duplicate destination, updating existing goal", "goal", existingID)
			return existingID
		}
	}
	goal.ID = r.nextGoalID
	r.nextGoalID++
	r.goals[goal.ID] = &goal
	r.addToIndices(&goal)
	return goal.ID
}

// UpdateGoal applies updater to the stored goal in place, re-indexing by
// type in case updater changed it. No-op if goalID is unknown.
func (r *Registry) UpdateGoal(goalID uint64, updater func(*Goal)) {
	g, ok := r.goals[goalID]
	if !ok {
		return
	}
	removeFromSet(r.typeToGoals[g.Type], goalID)
	updater(g)
	addToSet(r.typeToGoals, g.Type, goalID)
}

// RemoveGoal deletes a single goal and its index entries. It does not
// cascade to children; use RemoveGoalWithChildren for that.
func (r *Registry) RemoveGoal(goalID uint64) {
	g, ok := r.goals[goalID]
	if !ok {
		return
	}
	r.removeFromIndices(g)
	delete(r.goals, goalID)
}

// RemoveGoalByDestination removes whatever top-level goal targets entity,
// if any — a convenience for entity-destruction cleanup.
func (r *Registry) RemoveGoalByDestination(entity ecs.EntityID) {
	if id, ok := r.destinationToGoal[entity]; ok {
		r.RemoveGoal(id)
	}
}

// ReserveItem claims worldEntityKey for colonist against goalID. Returns
// true if the reservation succeeded (including re-reservation by the same
// colonist); false if the item is held by someone else, the goal is full,
// or goalID is unknown.
func (r *Registry) ReserveItem(goalID uint64, worldEntityKey uint64, colonist ecs.EntityID) bool {
	g, ok := r.goals[goalID]
	if !ok {
		return false
	}
	if g.IsItemReserved(worldEntityKey) {
		return g.IsItemReservedBy(worldEntityKey, colonist)
	}
	if g.AvailableCapacity() == 0 {
		return false
	}
	if g.ItemReservations == nil {
		g.ItemReservations = make(map[uint64]ecs.EntityID)
	}
	g.ItemReservations[worldEntityKey] = colonist
	r.itemToGoal[worldEntityKey] = goalID
	return true
}

// ReleaseItem drops worldEntityKey's reservation against goalID, if any.
func (r *Registry) ReleaseItem(goalID uint64, worldEntityKey uint64) {
	g, ok := r.goals[goalID]
	if !ok {
		return
	}
	delete(g.ItemReservations, worldEntityKey)
	delete(r.itemToGoal, worldEntityKey)
}

// ReleaseAllForColonist drops every reservation colonist holds across every
// goal, for death or a task change.
func (r *Registry) ReleaseAllForColonist(colonist ecs.EntityID) {
	for _, g := range r.goals {
		for key, holder := range g.ItemReservations {
			if holder == colonist {
				delete(g.ItemReservations, key)
				delete(r.itemToGoal, key)
			}
		}
	}
}

// RecordDelivery releases worldEntityKey's reservation and increments
// goalID's delivered count.
func (r *Registry) RecordDelivery(goalID uint64, worldEntityKey uint64) {
	g, ok := r.goals[goalID]
	if !ok {
		return
	}
	delete(g.ItemReservations, worldEntityKey)
	delete(r.itemToGoal, worldEntityKey)
	g.DeliveredAmount++
}

// GetGoal returns the goal with goalID, or nil.
func (r *Registry) GetGoal(goalID uint64) *Goal { return r.goals[goalID] }

// GetGoalByDestination returns the top-level goal targeting entity, or nil.
func (r *Registry) GetGoalByDestination(entity ecs.EntityID) *Goal {
	if id, ok := r.destinationToGoal[entity]; ok {
		return r.goals[id]
	}
	return nil
}

// GoalsOfType returns every goal of the given type in map iteration order,
// which varies between calls — callers that need stable ordering should
// sort the result by ID themselves; the returned slice is a snapshot.
func (r *Registry) GoalsOfType(t components.TaskType) []*Goal {
	return r.goalsFromSet(r.typeToGoals[t])
}

// GoalsMatching returns every goal for which filter returns true.
func (r *Registry) GoalsMatching(filter Filter) []*Goal {
	var out []*Goal
	for _, id := range maps.Keys(r.goals) {
		g := r.goals[id]
		if filter(g) {
			out = append(out, g)
		}
	}
	return out
}

// GoalsInRadius returns every goal whose destination lies within radius of
// center.
func (r *Registry) GoalsInRadius(center worldpkg.Pos, radius float32) []*Goal {
	r2 := radius * radius
	var out []*Goal
	for _, g := range r.goals {
		dx := g.DestinationPosition[0] - center[0]
		dy := g.DestinationPosition[1] - center[1]
		if dx*dx+dy*dy <= r2 {
			out = append(out, g)
		}
	}
	return out
}

// GoalCount returns the total number of goals.
func (r *Registry) GoalCount() int { return len(r.goals) }

// GoalCountOfType returns how many goals have the given type.
func (r *Registry) GoalCountOfType(t components.TaskType) int { return len(r.typeToGoals[t]) }

// GoalsByOwner returns every goal owned by the given producer system.
func (r *Registry) GoalsByOwner(owner Owner) []*Goal {
	return r.goalsFromSet(r.ownerToGoals[owner])
}

// GoalCountByOwner returns how many goals the given producer system owns.
func (r *Registry) GoalCountByOwner(owner Owner) int { return len(r.ownerToGoals[owner]) }

// FindItemReservation returns the goal ID holding worldEntityKey, if any.
func (r *Registry) FindItemReservation(worldEntityKey uint64) (uint64, bool) {
	id, ok := r.itemToGoal[worldEntityKey]
	return id, ok
}

// GetChildGoals returns every goal whose ParentGoalID is parentID.
func (r *Registry) GetChildGoals(parentID uint64) []*Goal {
	return r.goalsFromSet(r.parentToChildren[parentID])
}

// GetDependentGoals returns every goal whose DependsOnGoalID is goalID.
func (r *Registry) GetDependentGoals(goalID uint64) []*Goal {
	return r.goalsFromSet(r.goalToDependents[goalID])
}

// RemoveGoalWithChildren removes goalID and every goal transitively parented
// under it (a Craft goal's Harvest/Haul children, for instance).
func (r *Registry) RemoveGoalWithChildren(goalID uint64) {
	queue := []uint64{goalID}
	var toRemove []uint64
	for len(queue) > 0 {
		current := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		toRemove = append(toRemove, current)
		for child := range r.parentToChildren[current] {
			queue = append(queue, child)
		}
	}
	for _, id := range toRemove {
		r.RemoveGoal(id)
	}
}

// NotifyGoalCompleted flips every dependent goal currently
// StatusWaitingForItems to StatusAvailable — e.g. a Haul goal blocked on a
// Harvest goal's output becomes workable once the harvest finishes.
func (r *Registry) NotifyGoalCompleted(completedGoalID uint64) {
	for dependentID := range r.goalToDependents[completedGoalID] {
		if g, ok := r.goals[dependentID]; ok && g.Status == StatusWaitingForItems {
			g.Status = StatusAvailable
		}
	}
}

func (r *Registry) addToIndices(g *Goal) {
	if !g.HasParent {
		r.destinationToGoal[g.DestinationEntity] = g.ID
	}
	addToSet(r.typeToGoals, g.Type, g.ID)
	addToSet(r.ownerToGoals, g.Owner, g.ID)
	if g.HasParent {
		addToSet(r.parentToChildren, g.ParentGoalID, g.ID)
	}
	if g.HasDependsOn {
		addToSet(r.goalToDependents, g.DependsOnGoalID, g.ID)
	}
}

func (r *Registry) removeFromIndices(g *Goal) {
	if !g.HasParent {
		delete(r.destinationToGoal, g.DestinationEntity)
	}
	removeFromSet(r.typeToGoals[g.Type], g.ID)
	removeFromSet(r.ownerToGoals[g.Owner], g.ID)
	if g.HasParent {
		removeFromSet(r.parentToChildren[g.ParentGoalID], g.ID)
	}
	if g.HasDependsOn {
		removeFromSet(r.goalToDependents[g.DependsOnGoalID], g.ID)
	}
	for key := range g.ItemReservations {
		delete(r.itemToGoal, key)
	}
}

func (r *Registry) goalsFromSet(set map[uint64]struct{}) []*Goal {
	out := make([]*Goal, 0, len(set))
	for id := range set {
		if g, ok := r.goals[id]; ok {
			out = append(out, g)
		}
	}
	return out
}

func addToSet[K comparable](index map[K]map[uint64]struct{}, key K, goalID uint64) {
	set, ok := index[key]
	if !ok {
		set = make(map[uint64]struct{})
		index[key] = set
	}
	set[goalID] = struct{}{}
}

func removeFromSet(set map[uint64]struct{}, goalID uint64) {
	delete(set, goalID)
}
