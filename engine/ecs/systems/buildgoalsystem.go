package systems

import (
	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
	"github.com/vev-studio/worldcore/engine/goals"
)

// BuildGoalSystem keeps one PlacePackaged goal alive per packaged entity
// whose placement target has been set, and retracts the goal when the
// target is cleared or the entity disappears. Priority 57.
type BuildGoalSystem struct {
	registry *ecs.Registry
	goals    *goals.Registry

	sinceUpdate float32
}

// NewBuildGoalSystem constructs a BuildGoalSystem.
func NewBuildGoalSystem(registry *ecs.Registry, goalRegistry *goals.Registry) *BuildGoalSystem {
	return &BuildGoalSystem{registry: registry, goals: goalRegistry}
}

func (s *BuildGoalSystem) Name() string  { return "BuildGoal" }
func (s *BuildGoalSystem) Priority() int { return 57 }

func (s *BuildGoalSystem) Update(deltaTime float32) {
	s.sinceUpdate += deltaTime
	if s.sinceUpdate < goalProducerInterval {
		return
	}
	s.sinceUpdate = 0

	wantGoal := make(map[ecs.EntityID]struct{})
	for _, e := range ecs.View2[components.Packaged, components.Position](s.registry) {
		if !e.A.HasTargetPos {
			s.goals.RemoveGoalByDestination(e.Entity)
			continue
		}
		wantGoal[e.Entity] = struct{}{}

		if existing := s.goals.GetGoalByDestination(e.Entity); existing != nil {
			target := e.A.TargetPosition
			s.goals.UpdateGoal(existing.ID, func(g *goals.Goal) {
				g.DestinationPosition = target
			})
			continue
		}
		s.goals.CreateGoal(goals.Goal{
			Type:                components.TaskPlacePackaged,
			DestinationEntity:   e.Entity,
			DestinationPosition: e.A.TargetPosition,
			DestinationDefName:  e.A.DefName,
			TargetAmount:        1,
			Owner:               goals.OwnerBuildGoalSystem,
			Status:              goals.StatusAvailable,
		})
	}

	for _, g := range s.goals.GoalsByOwner(goals.OwnerBuildGoalSystem) {
		if _, ok := wantGoal[g.DestinationEntity]; !ok {
			s.goals.RemoveGoal(g.ID)
		}
	}
}
