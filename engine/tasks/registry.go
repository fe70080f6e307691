// Package tasks is the lightweight, per-colonist discovery bookkeeping
// layer: a task exists only for entities at least one colonist has
// actually seen, so the registry's size is bounded by what the colony has
// discovered rather than by the size of the world — ported from the
// original's GlobalTaskRegistry.
package tasks

import (
	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

// Task is one discovered unit of work: an entity (or world position) at
// least one colonist knows about, optionally reserved by a colonist
// currently acting on it.
type Task struct {
	ID             uint64
	TargetEntity   ecs.EntityID
	WorldEntityKey uint64
	Type           components.TaskType
	DefName        string

	Position worldpkg.Pos

	KnownBy map[ecs.EntityID]struct{}

	SecondaryTarget      ecs.EntityID
	HasSecondaryTarget   bool
	SecondaryPosition    worldpkg.Pos
	HasSecondaryPosition bool

	ReservedBy    ecs.EntityID
	HasReserved   bool
	ReservedAt    float32

	ChainID    uint64
	HasChainID bool
	ChainStep  uint8

	CreatedAt float32
}

// IsKnownBy reports whether colonist currently knows about this task.
func (t *Task) IsKnownBy(colonist ecs.EntityID) bool {
	_, ok := t.KnownBy[colonist]
	return ok
}

// IsReserved reports whether any colonist currently holds this task.
func (t *Task) IsReserved() bool { return t.HasReserved }

// IsReservedBy reports whether colonist specifically holds this task.
func (t *Task) IsReservedBy(colonist ecs.EntityID) bool {
	return t.HasReserved && t.ReservedBy == colonist
}

// Filter selects a subset of tasks for TasksMatching.
type Filter func(*Task) bool

// DefaultStaleTimeout is how long a reservation survives without the
// reserving colonist recording progress before ReleaseStale frees it back
// up, per SPEC_FULL.md item 5.
const DefaultStaleTimeout float32 = 10.0

// Registry is the discovery-scoped task catalog: indexed by the world
// entity a task targets, by every colonist that currently knows about it,
// and by task type. Not safe for concurrent use; all mutation happens on
// the main simulation thread, per spec.md §5.
type Registry struct {
	tasks map[uint64]*Task

	worldEntityToTask map[uint64]uint64
	colonistToTasks   map[ecs.EntityID]map[uint64]struct{}
	typeToTasks       map[components.TaskType]map[uint64]struct{}

	nextTaskID uint64
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		tasks:             make(map[uint64]*Task),
		worldEntityToTask: make(map[uint64]uint64),
		colonistToTasks:   make(map[ecs.EntityID]map[uint64]struct{}),
		typeToTasks:       make(map[components.TaskType]map[uint64]struct{}),
		nextTaskID:        1,
	}
}

// Clear removes every task and resets the ID counter.
func (r *Registry) Clear() {
	r.tasks = make(map[uint64]*Task)
	r.worldEntityToTask = make(map[uint64]uint64)
	r.colonistToTasks = make(map[ecs.EntityID]map[uint64]struct{})
	r.typeToTasks = make(map[components.TaskType]map[uint64]struct{})
	r.nextTaskID = 1
}

// OnEntityDiscovered records that colonist now knows about the world entity
// identified by worldEntityKey: it adds colonist to an existing task's
// KnownBy set, or creates a new task if this is the first colonist to see
// it. Returns the task's ID either way.
func (r *Registry) OnEntityDiscovered(colonist ecs.EntityID, worldEntityKey uint64, defName string, position worldpkg.Pos, taskType components.TaskType, currentTime float32) uint64 {
	if taskID, ok := r.worldEntityToTask[worldEntityKey]; ok {
		t := r.tasks[taskID]
		t.KnownBy[colonist] = struct{}{}
		r.addToColonistIndex(colonist, taskID)
		return taskID
	}

	taskID := r.nextTaskID
	r.nextTaskID++
	t := &Task{
		ID:             taskID,
		WorldEntityKey: worldEntityKey,
		DefName:        defName,
		Position:       position,
		Type:           taskType,
		CreatedAt:      currentTime,
		KnownBy:        map[ecs.EntityID]struct{}{colonist: {}},
	}
	r.tasks[taskID] = t
	r.addToIndices(t)
	return taskID
}

// OnEntityForgotten removes colonist from the task's KnownBy set; if no
// colonist knows about it anymore, the task is removed entirely.
func (r *Registry) OnEntityForgotten(colonist ecs.EntityID, worldEntityKey uint64) {
	taskID, ok := r.worldEntityToTask[worldEntityKey]
	if !ok {
		return
	}
	t, ok := r.tasks[taskID]
	if !ok {
		return
	}
	delete(t.KnownBy, colonist)
	if set := r.colonistToTasks[colonist]; set != nil {
		delete(set, taskID)
	}
	if len(t.KnownBy) == 0 {
		r.removeTask(taskID)
	}
}

// OnEntityDestroyed removes the task for worldEntityKey outright, if any.
func (r *Registry) OnEntityDestroyed(worldEntityKey uint64) {
	if taskID, ok := r.worldEntityToTask[worldEntityKey]; ok {
		r.removeTask(taskID)
	}
}

// Reserve claims taskID for colonist. Fails if colonist doesn't know about
// the task, or it's already reserved by someone else; re-reserving by the
// same colonist (and the timestamp refresh that implies) succeeds.
func (r *Registry) Reserve(taskID uint64, colonist ecs.EntityID, currentTime float32) bool {
	t, ok := r.tasks[taskID]
	if !ok {
		return false
	}
	if !t.IsKnownBy(colonist) {
		return false
	}
	if t.IsReserved() && !t.IsReservedBy(colonist) {
		return false
	}
	t.ReservedBy = colonist
	t.HasReserved = true
	t.ReservedAt = currentTime
	return true
}

// Release clears whatever reservation taskID holds.
func (r *Registry) Release(taskID uint64) {
	if t, ok := r.tasks[taskID]; ok {
		t.HasReserved = false
		t.ReservedAt = 0
	}
}

// ReleaseAll clears every reservation colonist holds across every task.
func (r *Registry) ReleaseAll(colonist ecs.EntityID) {
	for _, t := range r.tasks {
		if t.IsReservedBy(colonist) {
			t.HasReserved = false
			t.ReservedAt = 0
		}
	}
}

// ReleaseStale clears any reservation whose ReservedAt is more than timeout
// game-seconds behind currentTime, so a colonist that died or got stuck
// mid-task doesn't permanently lock it out for everyone else.
func (r *Registry) ReleaseStale(currentTime float32, timeout float32) {
	for _, t := range r.tasks {
		if t.IsReserved() && currentTime-t.ReservedAt > timeout {
			t.HasReserved = false
			t.ReservedAt = 0
		}
	}
}

// GetTask returns the task with taskID, or nil.
func (r *Registry) GetTask(taskID uint64) *Task { return r.tasks[taskID] }

// TasksFor returns every task colonist currently knows about.
func (r *Registry) TasksFor(colonist ecs.EntityID) []*Task {
	set := r.colonistToTasks[colonist]
	out := make([]*Task, 0, len(set))
	for id := range set {
		if t, ok := r.tasks[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// TasksForType returns every task of the given type that colonist knows
// about (the intersection of colonistToTasks and typeToTasks).
func (r *Registry) TasksForType(colonist ecs.EntityID, taskType components.TaskType) []*Task {
	colonistSet := r.colonistToTasks[colonist]
	typeSet := r.typeToTasks[taskType]
	if len(colonistSet) == 0 || len(typeSet) == 0 {
		return nil
	}
	var out []*Task
	for id := range colonistSet {
		if _, ok := typeSet[id]; ok {
			if t, ok := r.tasks[id]; ok {
				out = append(out, t)
			}
		}
	}
	return out
}

// TasksMatching returns every task for which filter returns true.
func (r *Registry) TasksMatching(filter Filter) []*Task {
	var out []*Task
	for _, t := range r.tasks {
		if filter(t) {
			out = append(out, t)
		}
	}
	return out
}

// TasksInRadius returns every task within radius of center.
func (r *Registry) TasksInRadius(center worldpkg.Pos, radius float32) []*Task {
	r2 := radius * radius
	var out []*Task
	for _, t := range r.tasks {
		dx := t.Position[0] - center[0]
		dy := t.Position[1] - center[1]
		if dx*dx+dy*dy <= r2 {
			out = append(out, t)
		}
	}
	return out
}

// TasksInRadiusFor returns every task within radius of center that colonist
// knows about.
func (r *Registry) TasksInRadiusFor(center worldpkg.Pos, radius float32, colonist ecs.EntityID) []*Task {
	r2 := radius * radius
	var out []*Task
	for id := range r.colonistToTasks[colonist] {
		t, ok := r.tasks[id]
		if !ok {
			continue
		}
		dx := t.Position[0] - center[0]
		dy := t.Position[1] - center[1]
		if dx*dx+dy*dy <= r2 {
			out = append(out, t)
		}
	}
	return out
}

// TaskCount returns the total number of tracked tasks.
func (r *Registry) TaskCount() int { return len(r.tasks) }

// TaskCountOfType returns how many tasks have the given type.
func (r *Registry) TaskCountOfType(t components.TaskType) int { return len(r.typeToTasks[t]) }

func (r *Registry) removeTask(taskID uint64) {
	t, ok := r.tasks[taskID]
	if !ok {
		return
	}
	r.removeFromIndices(t)
	delete(r.tasks, taskID)
}

func (r *Registry) addToIndices(t *Task) {
	if t.WorldEntityKey != 0 {
		r.worldEntityToTask[t.WorldEntityKey] = t.ID
	}
	for colonist := range t.KnownBy {
		r.addToColonistIndex(colonist, t.ID)
	}
	r.addToTypeIndex(t.Type, t.ID)
}

func (r *Registry) removeFromIndices(t *Task) {
	if t.WorldEntityKey != 0 {
		delete(r.worldEntityToTask, t.WorldEntityKey)
	}
	for colonist := range t.KnownBy {
		if set := r.colonistToTasks[colonist]; set != nil {
			delete(set, t.ID)
		}
	}
	if set := r.typeToTasks[t.Type]; set != nil {
		delete(set, t.ID)
	}
}

func (r *Registry) addToColonistIndex(colonist ecs.EntityID, taskID uint64) {
	set, ok := r.colonistToTasks[colonist]
	if !ok {
		set = make(map[uint64]struct{})
		r.colonistToTasks[colonist] = set
	}
	set[taskID] = struct{}{}
}

func (r *Registry) addToTypeIndex(taskType components.TaskType, taskID uint64) {
	set, ok := r.typeToTasks[taskType]
	if !ok {
		set = make(map[uint64]struct{})
		r.typeToTasks[taskType] = set
	}
	set[taskID] = struct{}{}
}
