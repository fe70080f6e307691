package tasks

import (
	"testing"

	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

func TestOnEntityDiscoveredSharesTaskAcrossColonists(t *testing.T) {
	r := NewRegistry()
	a := ecs.MakeEntityID(1, 1)
	b := ecs.MakeEntityID(2, 1)

	idA := r.OnEntityDiscovered(a, 100, "Tree", worldpkg.Pos{1, 2}, components.TaskHarvest, 0)
	idB := r.OnEntityDiscovered(b, 100, "Tree", worldpkg.Pos{1, 2}, components.TaskHarvest, 1)

	if idA != idB {
		t.Fatalf("expected both colonists to discover the same task, got %d and %d", idA, idB)
	}
	if r.TaskCount() != 1 {
		t.Fatalf("expected 1 task, got %d", r.TaskCount())
	}
	task := r.GetTask(idA)
	if !task.IsKnownBy(a) || !task.IsKnownBy(b) {
		t.Fatalf("expected task to be known by both colonists")
	}
}

func TestOnEntityForgottenRemovesTaskWhenLastColonistForgets(t *testing.T) {
	r := NewRegistry()
	a := ecs.MakeEntityID(1, 1)
	id := r.OnEntityDiscovered(a, 100, "Tree", worldpkg.Pos{}, components.TaskHarvest, 0)

	r.OnEntityForgotten(a, 100)

	if r.GetTask(id) != nil {
		t.Fatalf("expected task to be removed once its only colonist forgets it")
	}
	if r.TaskCount() != 0 {
		t.Fatalf("expected 0 tasks remaining, got %d", r.TaskCount())
	}
}

func TestOnEntityForgottenKeepsTaskForRemainingColonists(t *testing.T) {
	r := NewRegistry()
	a := ecs.MakeEntityID(1, 1)
	b := ecs.MakeEntityID(2, 1)
	id := r.OnEntityDiscovered(a, 100, "Tree", worldpkg.Pos{}, components.TaskHarvest, 0)
	r.OnEntityDiscovered(b, 100, "Tree", worldpkg.Pos{}, components.TaskHarvest, 0)

	r.OnEntityForgotten(a, 100)

	if r.GetTask(id) == nil {
		t.Fatalf("expected task to survive while another colonist still knows about it")
	}
	if r.GetTask(id).IsKnownBy(a) {
		t.Fatalf("expected colonist a to be removed from knownBy")
	}
}

func TestReserveRequiresKnowledgeAndRejectsOtherColonist(t *testing.T) {
	r := NewRegistry()
	a := ecs.MakeEntityID(1, 1)
	b := ecs.MakeEntityID(2, 1)
	stranger := ecs.MakeEntityID(3, 1)
	id := r.OnEntityDiscovered(a, 100, "Tree", worldpkg.Pos{}, components.TaskHarvest, 0)
	r.OnEntityDiscovered(b, 100, "Tree", worldpkg.Pos{}, components.TaskHarvest, 0)

	if r.Reserve(id, stranger, 0) {
		t.Fatalf("expected reservation by a colonist who doesn't know the task to fail")
	}
	if !r.Reserve(id, a, 0) {
		t.Fatalf("expected first known-colonist reservation to succeed")
	}
	if r.Reserve(id, b, 0) {
		t.Fatalf("expected reservation by another colonist to fail while already held")
	}
	if !r.Reserve(id, a, 1) {
		t.Fatalf("expected re-reservation by the same colonist to succeed")
	}
}

func TestReleaseStaleFreesTimedOutReservation(t *testing.T) {
	r := NewRegistry()
	a := ecs.MakeEntityID(1, 1)
	id := r.OnEntityDiscovered(a, 100, "Tree", worldpkg.Pos{}, components.TaskHarvest, 0)
	r.Reserve(id, a, 0)

	r.ReleaseStale(5, DefaultStaleTimeout)
	if !r.GetTask(id).IsReserved() {
		t.Fatalf("expected reservation to survive before the timeout elapses")
	}

	r.ReleaseStale(20, DefaultStaleTimeout)
	if r.GetTask(id).IsReserved() {
		t.Fatalf("expected reservation to be released once past the stale timeout")
	}
}

func TestOnEntityDestroyedRemovesTaskRegardlessOfKnownBy(t *testing.T) {
	r := NewRegistry()
	a := ecs.MakeEntityID(1, 1)
	b := ecs.MakeEntityID(2, 1)
	r.OnEntityDiscovered(a, 100, "Tree", worldpkg.Pos{}, components.TaskHarvest, 0)
	r.OnEntityDiscovered(b, 100, "Tree", worldpkg.Pos{}, components.TaskHarvest, 0)

	r.OnEntityDestroyed(100)

	if r.TaskCount() != 0 {
		t.Fatalf("expected entity destruction to remove the task outright, %d remain", r.TaskCount())
	}
}

func TestTasksForTypeIntersectsColonistAndType(t *testing.T) {
	r := NewRegistry()
	a := ecs.MakeEntityID(1, 1)
	r.OnEntityDiscovered(a, 100, "Tree", worldpkg.Pos{}, components.TaskHarvest, 0)
	r.OnEntityDiscovered(a, 200, "Rock", worldpkg.Pos{}, components.TaskGather, 0)

	harvestTasks := r.TasksForType(a, components.TaskHarvest)
	if len(harvestTasks) != 1 || harvestTasks[0].WorldEntityKey != 100 {
		t.Fatalf("expected exactly the harvest task, got %+v", harvestTasks)
	}
}
