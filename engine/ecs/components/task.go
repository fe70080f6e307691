package components

import worldpkg "github.com/vev-studio/worldcore/engine/world"

// TaskType enumerates the kinds of work a colonist's Task component can
// hold. The original tracked only FulfillNeed and Wander; this expands to
// the full set spec.md §3.6 names.
type TaskType uint8

const (
	TaskNone TaskType = iota
	TaskFulfillNeed
	TaskWander
	TaskHaul
	TaskCraft
	TaskHarvest
	TaskPlacePackaged
	TaskGather
)

func (t TaskType) String() string {
	switch t {
	case TaskFulfillNeed:
		return "FulfillNeed"
	case TaskWander:
		return "Wander"
	case TaskHaul:
		return "Haul"
	case TaskCraft:
		return "Craft"
	case TaskHarvest:
		return "Harvest"
	case TaskPlacePackaged:
		return "PlacePackaged"
	case TaskGather:
		return "Gather"
	default:
		return "None"
	}
}

// TaskState tracks a Task's progress toward its destination.
type TaskState uint8

const (
	TaskStateMoving TaskState = iota
	TaskStateArrived
	TaskStateComplete
)

// Task is the colonist's current assignment: what kind of work, where it
// leads, and (for FulfillNeed) which need it addresses. Haul assignments
// additionally carry what is being moved and between which points; chained
// assignments (harvest-then-haul) share a ChainID so the decision evaluator
// can prefer finishing the chain over switching work.
type Task struct {
	Type            TaskType
	State           TaskState
	NeedToFulfill   NeedType
	GoalID          uint64
	HasGoal         bool
	Destination     worldpkg.Pos
	TargetEntity    uint64
	HasTargetEntity bool
	TargetDefName   string

	// Reason is a short human-readable note on why this task was picked,
	// mirrored from the winning EvaluatedOption for UI display.
	Reason string

	// TimeSinceEvaluation accumulates real seconds since the decision
	// evaluator last rebuilt this colonist's trace.
	TimeSinceEvaluation float32

	ChainID    uint64
	HasChainID bool
	ChainStep  uint8

	HaulItemDefName string
	HaulSource      worldpkg.Pos
	HaulTarget      worldpkg.Pos
}

// Clear resets the task to TaskNone, used when an action completes or a
// goal is abandoned.
func (t *Task) Clear() {
	*t = Task{}
}

// ContinuesChain reports whether this task is mid-chain: it carries a
// ChainID and has already completed at least one step. Step 0 earns no
// continuity preference.
func (t *Task) ContinuesChain() bool {
	return t.HasChainID && t.ChainStep > 0
}
