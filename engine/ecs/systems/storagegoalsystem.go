package systems

import (
	"log/slog"

	"github.com/vev-studio/worldcore/engine/assets"
	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
	"github.com/vev-studio/worldcore/engine/goals"
)

// goalProducerInterval throttles the goal producer systems: world state
// changes far slower than the frame rate, so reconciling goals every tick
// is wasted work.
const goalProducerInterval float32 = 0.5

// StorageGoalSystem keeps one Haul goal alive per storage container that
// wants items: target amount tracks the container's free slots, accepted
// defNames come from its specific rules and the accepted category from its
// wildcard rules. Containers with no rules get their goal retracted.
// Priority 55.
type StorageGoalSystem struct {
	registry *ecs.Registry
	goals    *goals.Registry
	catalog  *assets.Catalog
	log      *slog.Logger

	sinceUpdate float32
}

// NewStorageGoalSystem constructs a StorageGoalSystem. A nil logger
// defaults to slog.Default().
func NewStorageGoalSystem(registry *ecs.Registry, goalRegistry *goals.Registry, catalog *assets.Catalog, log *slog.Logger) *StorageGoalSystem {
	if log == nil {
		log = slog.Default()
	}
	return &StorageGoalSystem{registry: registry, goals: goalRegistry, catalog: catalog, log: log}
}

func (s *StorageGoalSystem) Name() string  { return "StorageGoal" }
func (s *StorageGoalSystem) Priority() int { return 55 }

func (s *StorageGoalSystem) Update(deltaTime float32) {
	s.sinceUpdate += deltaTime
	if s.sinceUpdate < goalProducerInterval {
		return
	}
	s.sinceUpdate = 0

	seen := make(map[ecs.EntityID]struct{})
	for _, e := range ecs.View3[components.StorageConfiguration, components.Inventory, components.Position](s.registry) {
		seen[e.Entity] = struct{}{}
		s.reconcile(e.Entity, e.A, e.B, e.C)
	}

	// Retract goals whose container entity no longer exists (or lost its
	// storage components).
	for _, g := range s.goals.GoalsByOwner(goals.OwnerStorageGoalSystem) {
		if _, ok := seen[g.DestinationEntity]; !ok {
			s.goals.RemoveGoal(g.ID)
		}
	}
}

func (s *StorageGoalSystem) reconcile(container ecs.EntityID, cfg *components.StorageConfiguration, inv *components.Inventory, pos *components.Position) {
	if len(cfg.Rules) == 0 {
		s.goals.RemoveGoalByDestination(container)
		return
	}

	availableSlots := s.availableSlots(cfg, inv)
	acceptedNames, acceptedCategory := acceptedFromRules(cfg.Rules)

	if existing := s.goals.GetGoalByDestination(container); existing != nil {
		s.goals.UpdateGoal(existing.ID, func(g *goals.Goal) {
			g.TargetAmount = uint32(availableSlots)
			g.AcceptedDefNames = acceptedNames
			g.AcceptedCategory = acceptedCategory
			g.DestinationPosition = pos.Value
			if availableSlots == 0 {
				g.Status = goals.StatusComplete
			} else if g.Status == goals.StatusComplete {
				g.Status = goals.StatusAvailable
			}
		})
		return
	}
	if availableSlots == 0 {
		return
	}

	s.goals.CreateGoal(goals.Goal{
		Type:                components.TaskHaul,
		DestinationEntity:   container,
		DestinationPosition: pos.Value,
		AcceptedDefNames:    acceptedNames,
		AcceptedCategory:    acceptedCategory,
		TargetAmount:        uint32(availableSlots),
		Owner:               goals.OwnerStorageGoalSystem,
		Status:              goals.StatusAvailable,
	})
	s.log.Debug("storage goal created", "container", container, "slots", availableSlots)
}

// availableSlots counts the container's free stack slots: its configured
// capacity (falling back to the inventory's backpack capacity) minus the
// stacks already stored.
func (s *StorageGoalSystem) availableSlots(cfg *components.StorageConfiguration, inv *components.Inventory) int {
	capacity := cfg.MaxCapacity
	if capacity == 0 {
		capacity = int(inv.BackpackCapacity)
	}
	free := capacity - len(inv.Backpack)
	if free < 0 {
		free = 0
	}
	return free
}

// acceptedFromRules splits a rule list into the specific defNames it
// accepts and the primary category its wildcard rules accept (the
// highest-priority wildcard wins when several disagree).
func acceptedFromRules(rules []components.StorageRule) ([]string, assets.Category) {
	var names []string
	category := assets.None
	bestPriority := components.PriorityLow
	haveWildcard := false
	for _, r := range rules {
		if r.DefName == "*" {
			if !haveWildcard || r.Priority > bestPriority {
				category = r.Category
				bestPriority = r.Priority
			}
			haveWildcard = true
			continue
		}
		names = append(names, r.DefName)
	}
	return names, category
}
