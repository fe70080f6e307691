package goals

import (
	"testing"

	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
)

func TestCreateGoalAssignsIncreasingIDs(t *testing.T) {
	r := NewRegistry(nil)
	a := r.CreateGoal(Goal{Type: components.TaskHaul, DestinationEntity: ecs.MakeEntityID(1, 1)})
	b := r.CreateGoal(Goal{Type: components.TaskHaul, DestinationEntity: ecs.MakeEntityID(2, 1)})
	if a == b {
		t.Fatalf("expected distinct goal IDs, got %d and %d", a, b)
	}
	if r.GoalCount() != 2 {
		t.Fatalf("expected 2 goals, got %d", r.GoalCount())
	}
}

func TestCreateGoalDuplicateDestinationUpdatesInPlace(t *testing.T) {
	r := NewRegistry(nil)
	dest := ecs.MakeEntityID(1, 1)
	first := r.CreateGoal(Goal{Type: components.TaskHaul, DestinationEntity: dest, TargetAmount: 5})
	second := r.CreateGoal(Goal{Type: components.TaskHaul, DestinationEntity: dest, TargetAmount: 10})
	if first != second {
		t.Fatalf("expected duplicate destination to reuse goal ID %d, got %d", first, second)
	}
	if r.GoalCount() != 1 {
		t.Fatalf("expected 1 goal after duplicate create, got %d", r.GoalCount())
	}
	if r.GetGoal(first).TargetAmount != 10 {
		t.Fatalf("expected updated target amount 10, got %d", r.GetGoal(first).TargetAmount)
	}
}

func TestReserveItemCapacityAndReReservation(t *testing.T) {
	r := NewRegistry(nil)
	colonistA := ecs.MakeEntityID(1, 1)
	colonistB := ecs.MakeEntityID(2, 1)
	id := r.CreateGoal(Goal{Type: components.TaskHaul, DestinationEntity: ecs.MakeEntityID(9, 1), TargetAmount: 1})

	if !r.ReserveItem(id, 100, colonistA) {
		t.Fatalf("expected first reservation to succeed")
	}
	if !r.ReserveItem(id, 100, colonistA) {
		t.Fatalf("expected re-reservation by the same colonist to succeed")
	}
	if r.ReserveItem(id, 100, colonistB) {
		t.Fatalf("expected reservation by a different colonist to fail")
	}
	if r.ReserveItem(id, 200, colonistB) {
		t.Fatalf("expected reservation beyond capacity to fail")
	}
}

func TestRecordDeliveryReleasesReservationAndIncrementsDelivered(t *testing.T) {
	r := NewRegistry(nil)
	colonist := ecs.MakeEntityID(1, 1)
	id := r.CreateGoal(Goal{Type: components.TaskHaul, DestinationEntity: ecs.MakeEntityID(9, 1), TargetAmount: 2})
	r.ReserveItem(id, 100, colonist)

	r.RecordDelivery(id, 100)

	g := r.GetGoal(id)
	if g.DeliveredAmount != 1 {
		t.Fatalf("expected deliveredAmount 1, got %d", g.DeliveredAmount)
	}
	if g.IsItemReserved(100) {
		t.Fatalf("expected reservation to be released on delivery")
	}
	if _, ok := r.FindItemReservation(100); ok {
		t.Fatalf("expected item index entry to be cleared on delivery")
	}
}

func TestRemoveGoalWithChildrenCascades(t *testing.T) {
	r := NewRegistry(nil)
	craft := r.CreateGoal(Goal{Type: components.TaskCraft, DestinationEntity: ecs.MakeEntityID(1, 1)})
	harvest := r.CreateGoal(Goal{Type: components.TaskHarvest, DestinationEntity: ecs.MakeEntityID(1, 1), ParentGoalID: craft, HasParent: true})
	haul := r.CreateGoal(Goal{Type: components.TaskHaul, DestinationEntity: ecs.MakeEntityID(1, 1), ParentGoalID: craft, HasParent: true, DependsOnGoalID: harvest, HasDependsOn: true})

	if len(r.GetChildGoals(craft)) != 2 {
		t.Fatalf("expected 2 child goals, got %d", len(r.GetChildGoals(craft)))
	}

	r.RemoveGoalWithChildren(craft)

	if r.GoalCount() != 0 {
		t.Fatalf("expected cascade delete to remove every goal, %d remain", r.GoalCount())
	}
	if r.GetGoal(harvest) != nil || r.GetGoal(haul) != nil {
		t.Fatalf("expected child goals to be gone after cascade delete")
	}
}

func TestNotifyGoalCompletedUnblocksWaitingDependents(t *testing.T) {
	r := NewRegistry(nil)
	harvest := r.CreateGoal(Goal{Type: components.TaskHarvest, DestinationEntity: ecs.MakeEntityID(1, 1)})
	haul := r.CreateGoal(Goal{
		Type:            components.TaskHaul,
		DestinationEntity: ecs.MakeEntityID(2, 1),
		DependsOnGoalID: harvest,
		HasDependsOn:    true,
		Status:          StatusWaitingForItems,
	})

	r.NotifyGoalCompleted(harvest)

	if r.GetGoal(haul).Status != StatusAvailable {
		t.Fatalf("expected dependent goal to become Available, got %v", r.GetGoal(haul).Status)
	}
}

func TestReleaseAllForColonistClearsEveryReservation(t *testing.T) {
	r := NewRegistry(nil)
	colonist := ecs.MakeEntityID(1, 1)
	a := r.CreateGoal(Goal{Type: components.TaskHaul, DestinationEntity: ecs.MakeEntityID(1, 1), TargetAmount: 5})
	b := r.CreateGoal(Goal{Type: components.TaskHaul, DestinationEntity: ecs.MakeEntityID(2, 1), TargetAmount: 5})
	r.ReserveItem(a, 1, colonist)
	r.ReserveItem(b, 2, colonist)

	r.ReleaseAllForColonist(colonist)

	if r.GetGoal(a).IsItemReserved(1) || r.GetGoal(b).IsItemReserved(2) {
		t.Fatalf("expected every reservation by the colonist to be released")
	}
}
