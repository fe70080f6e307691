package systems

import (
	"math"
	"testing"

	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

type fixedScale float32

func (f fixedScale) EffectiveTimeScale() float32 { return float32(f) }

func TestNeedsDecayScalesWithGameTime(t *testing.T) {
	reg := ecs.NewRegistry()
	e := spawnTestColonist(reg, worldpkg.Pos{})

	sys := NewNeedsDecaySystem(reg, fixedScale(1))
	sys.Update(10) // 10 game-minutes

	needs := ecs.GetComponent[components.NeedsComponent](reg, e)
	// Hunger decays 0.08/min: 100 - 0.8 = 99.2.
	if got := needs.Get(components.Hunger).Value; math.Abs(float64(got-99.2)) > 0.001 {
		t.Errorf("Hunger after 10 game-minutes = %v, want 99.2", got)
	}
	// Thirst decays 0.12/min: 100 - 1.2 = 98.8.
	if got := needs.Get(components.Thirst).Value; math.Abs(float64(got-98.8)) > 0.001 {
		t.Errorf("Thirst after 10 game-minutes = %v, want 98.8", got)
	}
}

func TestNeedsDecaySkipsWhilePaused(t *testing.T) {
	reg := ecs.NewRegistry()
	e := spawnTestColonist(reg, worldpkg.Pos{})

	sys := NewNeedsDecaySystem(reg, fixedScale(0))
	sys.Update(100)

	needs := ecs.GetComponent[components.NeedsComponent](reg, e)
	if got := needs.Get(components.Hunger).Value; got != 100 {
		t.Errorf("Hunger decayed while paused: %v", got)
	}
}

func TestNeedsDecayClampsAtZero(t *testing.T) {
	reg := ecs.NewRegistry()
	e := spawnTestColonist(reg, worldpkg.Pos{})
	needs := ecs.GetComponent[components.NeedsComponent](reg, e)
	needs.Get(components.Thirst).Value = 0.1

	NewNeedsDecaySystem(reg, fixedScale(1)).Update(60)
	if got := needs.Get(components.Thirst).Value; got != 0 {
		t.Errorf("Thirst = %v, want clamp at 0", got)
	}
}
