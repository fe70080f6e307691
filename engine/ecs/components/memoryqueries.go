package components

import (
	"github.com/vev-studio/worldcore/engine/assets"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

// FindKnownWithCapability returns every world entity a colonist remembers
// that carries the given capability.
func FindKnownWithCapability(mem *Memory, cap assets.Capability) []knownWorldEntity {
	return mem.WorldEntitiesWithCapability(cap)
}

// FindNearestWithCapability returns the remembered world entity with the
// given capability closest to from, and the distance in meters. The second
// return is false if nothing is known with that capability.
func FindNearestWithCapability(mem *Memory, cap assets.Capability, from worldpkg.Pos) (knownWorldEntity, float32, bool) {
	candidates := mem.WorldEntitiesWithCapability(cap)
	if len(candidates) == 0 {
		return knownWorldEntity{}, 0, false
	}
	best := candidates[0]
	bestDist := from.Sub(best.Position).Len()
	for _, c := range candidates[1:] {
		d := from.Sub(c.Position).Len()
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist, true
}

// CountKnownWithCapability returns how many remembered world entities carry
// the given capability.
func CountKnownWithCapability(mem *Memory, cap assets.Capability) int {
	return len(mem.WorldEntitiesWithCapability(cap))
}

// DefaultNutrition is what an Eat action assumes when the eaten entity's
// definition is unknown.
const DefaultNutrition = 0.3

// FindNutritionAtPosition returns the catalog-defined nutrition value for
// the world entity remembered at pos, or DefaultNutrition if nothing is
// remembered there (ActionSystem's startAction falls back to this when a
// colonist eats from a ground spawn it never explicitly looked up).
func FindNutritionAtPosition(mem *Memory, catalog *assets.Catalog, pos worldpkg.Pos) float64 {
	for _, e := range mem.WorldEntitiesWithCapability(assets.Edible) {
		if e.Position == pos {
			if def, ok := catalog.GetDef(e.DefName); ok {
				return def.Item.EdibleNutrition
			}
		}
	}
	return DefaultNutrition
}
