package systems

import (
	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
)

// TimeScaleSource is the effective-time-scale query NeedsDecaySystem needs
// from TimeSystem. The original looked this up via
// World::getSystem<TimeSystem>() at update time; Go's ecs.World has no
// service locator, so the dependency is constructor-injected instead.
type TimeScaleSource interface {
	EffectiveTimeScale() float32
}

// NeedsDecaySystem drains every entity's NeedsComponent by game-time
// elapsed, scaled by the TimeScaleSource (0 while paused). Priority 50:
// runs early, before movement decisions.
type NeedsDecaySystem struct {
	registry *ecs.Registry
	time     TimeScaleSource
}

// NewNeedsDecaySystem constructs a NeedsDecaySystem reading speed-adjusted
// time from time.
func NewNeedsDecaySystem(registry *ecs.Registry, time TimeScaleSource) *NeedsDecaySystem {
	return &NeedsDecaySystem{registry: registry, time: time}
}

func (s *NeedsDecaySystem) Name() string  { return "NeedsDecay" }
func (s *NeedsDecaySystem) Priority() int { return 50 }

// Update decays every tracked need for every entity holding a
// NeedsComponent, skipping entirely while paused.
func (s *NeedsDecaySystem) Update(deltaTime float32) {
	gameMinutes := deltaTime * s.time.EffectiveTimeScale()
	if gameMinutes <= 0 {
		return
	}

	pool := ecs.Pool[components.NeedsComponent](s.registry)
	for i := 0; i < pool.Len(); i++ {
		needs := pool.ComponentAt(i)
		for t := components.NeedType(0); t < components.NeedTypeCount; t++ {
			needs.Get(t).Decay(gameMinutes)
		}
	}
}
