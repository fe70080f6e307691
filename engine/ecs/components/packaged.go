package components

import worldpkg "github.com/vev-studio/worldcore/engine/world"

// Packaged marks an item entity as boxed/crated rather than placed in the
// world: it occupies no footprint until a colonist hauls it to
// TargetPosition and unpacks it. The original's Packaged was a pure
// marker; spec.md §3.6 additionally tracks a pending placement target and
// whether a colonist currently has it in hand, both needed by
// BuildGoalSystem and the Haul/PlacePackaged task pipeline.
type Packaged struct {
	DefName        string
	HasTargetPos   bool
	TargetPosition worldpkg.Pos
	BeingCarried   bool
}
