// Package components holds the ECS value-type components the simulation's
// systems read and write. None hold behavior beyond small query helpers;
// all mutation happens in the systems package.
package components

import (
	"github.com/google/uuid"

	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

// Position is an entity's world-space location.
type Position struct {
	Value worldpkg.Pos
}

// Rotation is an entity's facing angle in radians; 0 faces +X, pi/2 faces +Y.
type Rotation struct {
	Radians float32
}

// Velocity is an entity's current per-second displacement.
type Velocity struct {
	Value worldpkg.Pos
}

// MovementTarget drives MovementSystem: while Active, Velocity is steered
// toward Target at Speed meters/second.
type MovementTarget struct {
	Target worldpkg.Pos
	Speed  float32
	Active bool
}

// DefaultMovementSpeed matches the original's MovementTarget default.
const DefaultMovementSpeed float32 = 2.0

// FacingDirection is a coarse cardinal/ordinal facing used by render
// extraction when an entity has no continuous Rotation.
type FacingDirection struct {
	Radians float32
}

// Appearance is the visual identity a render pass reads; the simulation
// core never interprets it beyond carrying it through.
type Appearance struct {
	DefName   string
	Scale     float32
	ColorTint [4]float32
}

// DefaultAppearance returns an Appearance with scale 1 and opaque white tint.
func DefaultAppearance(defName string) Appearance {
	return Appearance{DefName: defName, Scale: 1, ColorTint: [4]float32{1, 1, 1, 1}}
}

// Colonist marks and names a player-controlled agent entity. UUID is a
// stable external handle independent of the generational EntityID, so a
// host can correlate a colonist across ECS index reuse.
type Colonist struct {
	Name string
	UUID uuid.UUID
}

// NewColonist returns a named Colonist with a fresh UUID.
func NewColonist(name string) Colonist {
	return Colonist{Name: name, UUID: uuid.New()}
}
