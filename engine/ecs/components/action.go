package components

import worldpkg "github.com/vev-studio/worldcore/engine/world"

// ActionType enumerates the kinds of in-progress action a colonist can be
// performing. The original only modeled need-fulfillment actions (Eat,
// Drink, Sleep, Toilet); this expands to the work actions spec.md §3.7
// names.
type ActionType uint8

const (
	ActionNone ActionType = iota
	ActionEat
	ActionDrink
	ActionSleep
	ActionToilet
	ActionHarvest
	ActionPickup
	ActionDropOff
	ActionCraft
)

func (a ActionType) String() string {
	switch a {
	case ActionEat:
		return "Eat"
	case ActionDrink:
		return "Drink"
	case ActionSleep:
		return "Sleep"
	case ActionToilet:
		return "Toilet"
	case ActionHarvest:
		return "Harvest"
	case ActionPickup:
		return "Pickup"
	case ActionDropOff:
		return "DropOff"
	case ActionCraft:
		return "Craft"
	default:
		return "None"
	}
}

// ActionState tracks an Action's lifecycle: it starts, runs for Duration
// seconds, then completes and applies its effect.
type ActionState uint8

const (
	ActionStateStarting ActionState = iota
	ActionStateInProgress
	ActionStateComplete
)

// Action is a colonist's current in-progress activity: how long it takes,
// how far along it is, and what it restores on completion.
type Action struct {
	Type     ActionType
	State    ActionState
	Elapsed  float32
	Duration float32

	RestoreNeed   NeedType
	RestoreAmount float32

	SideEffectNeed   NeedType
	HasSideEffect    bool
	SideEffectAmount float32

	ToiletPosition worldpkg.Pos

	// ConsumeDefName, when set, is removed from the actor's inventory
	// (one unit) on completion — eating a carried berry, say.
	ConsumeDefName string
}

// NewEatAction builds an Eat action: 2s duration, restoring Hunger by
// nutrition*100.
func NewEatAction(nutrition float32) Action {
	return Action{
		Type:          ActionEat,
		Duration:      2.0,
		RestoreNeed:   Hunger,
		RestoreAmount: nutrition * 100,
	}
}

// NewDrinkAction builds a Drink action: 1.5s duration, restoring Thirst by
// 40*quality, with a +15 Bladder side effect.
func NewDrinkAction(quality float32) Action {
	return Action{
		Type:             ActionDrink,
		Duration:         1.5,
		RestoreNeed:      Thirst,
		RestoreAmount:    40 * quality,
		SideEffectNeed:   Bladder,
		HasSideEffect:    true,
		SideEffectAmount: 15,
	}
}

// NewSleepAction builds a Sleep action: 8s duration, restoring Energy by
// 60*quality (quality is 0.5 for a ground fallback, 1.0 for a bed).
func NewSleepAction(quality float32) Action {
	return Action{
		Type:          ActionSleep,
		Duration:      8.0,
		RestoreNeed:   Energy,
		RestoreAmount: 60 * quality,
	}
}

// NewToiletAction builds a Toilet action: 3s duration, fully restoring
// Bladder to 100.
func NewToiletAction(pos worldpkg.Pos) Action {
	return Action{
		Type:           ActionToilet,
		Duration:       3.0,
		RestoreNeed:    Bladder,
		RestoreAmount:  100,
		ToiletPosition: pos,
	}
}

// Advance steps the action's clock by dt seconds, transitioning Starting to
// InProgress on the first tick and InProgress to Complete once Elapsed
// reaches Duration. Returns true the tick the action becomes complete.
func (a *Action) Advance(dt float32) bool {
	if a.State == ActionStateStarting {
		a.State = ActionStateInProgress
	}
	a.Elapsed += dt
	if a.State == ActionStateInProgress && a.Elapsed >= a.Duration {
		a.State = ActionStateComplete
		return true
	}
	return false
}
