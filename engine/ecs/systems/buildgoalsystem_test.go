package systems

import (
	"testing"

	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
	"github.com/vev-studio/worldcore/engine/goals"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

func spawnPackaged(reg *ecs.Registry, defName string, pos worldpkg.Pos) ecs.EntityID {
	e := reg.CreateEntity()
	ecs.AddComponent(reg, e, components.Position{Value: pos})
	ecs.AddComponent(reg, e, components.Packaged{DefName: defName})
	return e
}

func TestBuildGoalFollowsPackagedTarget(t *testing.T) {
	reg := ecs.NewRegistry()
	goalReg := goals.NewRegistry(nil)
	crate := spawnPackaged(reg, "Bed", worldpkg.Pos{0, 0})

	sys := NewBuildGoalSystem(reg, goalReg)

	// No target yet: no goal.
	sys.Update(goalProducerInterval + 0.1)
	if goalReg.GetGoalByDestination(crate) != nil {
		t.Fatal("goal created for a packaged entity with no target")
	}

	// Target set: a PlacePackaged goal appears.
	packaged := ecs.GetComponent[components.Packaged](reg, crate)
	packaged.TargetPosition = worldpkg.Pos{30, 30}
	packaged.HasTargetPos = true
	sys.Update(goalProducerInterval + 0.1)

	goal := goalReg.GetGoalByDestination(crate)
	if goal == nil {
		t.Fatal("no goal after the target was set")
	}
	if goal.Type != components.TaskPlacePackaged || goal.Owner != goals.OwnerBuildGoalSystem {
		t.Fatalf("goal = %v owned by %v, want PlacePackaged/build system", goal.Type, goal.Owner)
	}
	if goal.DestinationPosition != (worldpkg.Pos{30, 30}) {
		t.Errorf("destination = %v, want the packaged target", goal.DestinationPosition)
	}

	// Target cleared: the goal retracts.
	packaged.HasTargetPos = false
	sys.Update(goalProducerInterval + 0.1)
	if goalReg.GetGoalByDestination(crate) != nil {
		t.Fatal("goal not retracted after the target was cleared")
	}
}
