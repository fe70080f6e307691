package systems

import (
	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
)

// PhysicsSystem integrates Velocity into Position by simple Euler
// integration. Priority 200: runs after MovementSystem.
type PhysicsSystem struct {
	registry *ecs.Registry
}

// NewPhysicsSystem constructs a PhysicsSystem over registry.
func NewPhysicsSystem(registry *ecs.Registry) *PhysicsSystem {
	return &PhysicsSystem{registry: registry}
}

func (s *PhysicsSystem) Name() string  { return "Physics" }
func (s *PhysicsSystem) Priority() int { return 200 }

func (s *PhysicsSystem) Update(deltaTime float32) {
	for _, e := range ecs.View2[components.Position, components.Velocity](s.registry) {
		e.A.Value = e.A.Value.Add(e.B.Value.Mul(deltaTime))
	}
}
