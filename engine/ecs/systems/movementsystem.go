package systems

import (
	"math"

	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
)

// arrivalThreshold is how close (meters) an entity must be to its
// MovementTarget before it's considered arrived.
const arrivalThreshold = 0.1

// facingSpeedThreshold is the minimum speed before Rotation is updated to
// face the current velocity; below it, facing holds its last value rather
// than jittering while nearly stationary.
const facingSpeedThreshold = 0.01

// MovementSystem steers Velocity toward an active MovementTarget and
// updates Rotation to face the resulting velocity. It does not move
// anything itself; PhysicsSystem integrates the velocity it sets.
// Priority 100: runs before PhysicsSystem.
type MovementSystem struct {
	registry *ecs.Registry
}

// NewMovementSystem constructs a MovementSystem over registry.
func NewMovementSystem(registry *ecs.Registry) *MovementSystem {
	return &MovementSystem{registry: registry}
}

func (s *MovementSystem) Name() string  { return "Movement" }
func (s *MovementSystem) Priority() int { return 100 }

func (s *MovementSystem) Update(deltaTime float32) {
	for _, e := range ecs.View3[components.Position, components.Velocity, components.MovementTarget](s.registry) {
		if !e.C.Active {
			continue
		}

		toTarget := e.C.Target.Sub(e.A.Value)
		distance := toTarget.Len()

		if distance < arrivalThreshold {
			e.B.Value = [2]float32{}
			e.C.Active = false
			continue
		}

		direction := toTarget.Mul(1 / distance)
		e.B.Value = direction.Mul(e.C.Speed)
	}

	for _, e := range ecs.View2[components.Rotation, components.Velocity](s.registry) {
		if e.B.Value.Len() > facingSpeedThreshold {
			e.A.Radians = float32(math.Atan2(float64(e.B.Value[1]), float64(e.B.Value[0])))
		}
	}
}
