package selection

import (
	"github.com/vev-studio/worldcore/engine/assets"
	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

// Mode is the furniture-placement interaction state.
type Mode uint8

const (
	ModeNone Mode = iota
	ModeMenuOpen
	ModePlacing
)

// PlacementCallbacks are the host hooks the placement state drives: menu
// visibility, the placeable item list, ghost preview position, and the two
// commit paths. Any field may be nil.
type PlacementCallbacks struct {
	MenuVisibilityChanged func(visible bool)
	ItemListChanged       func(defNames []string)
	GhostMoved            func(defName string, pos worldpkg.Pos)

	// SpawnEntity commits a fresh placement. SetPackagedTarget instead
	// routes the placement through an existing packaged entity, which the
	// build-goal pipeline then hauls into position.
	SpawnEntity       func(defName string, pos worldpkg.Pos) ecs.EntityID
	SetPackagedTarget func(packaged ecs.EntityID, pos worldpkg.Pos) bool
}

// PlacementState tracks the placement-mode state machine: closed, menu
// open, or placing a chosen defName with a ghost preview following the
// cursor.
type PlacementState struct {
	registry *ecs.Registry
	catalog  *assets.Catalog

	mode      Mode
	placing   string // defName being placed while ModePlacing
	ghostPos  worldpkg.Pos
	callbacks PlacementCallbacks
}

// NewPlacementState constructs a PlacementState in ModeNone.
func NewPlacementState(registry *ecs.Registry, catalog *assets.Catalog, callbacks PlacementCallbacks) *PlacementState {
	return &PlacementState{registry: registry, catalog: catalog, callbacks: callbacks}
}

// Mode returns the current interaction mode.
func (p *PlacementState) Mode() Mode { return p.mode }

// PlacingDefName returns the defName being placed, or "" outside
// ModePlacing.
func (p *PlacementState) PlacingDefName() string {
	if p.mode != ModePlacing {
		return ""
	}
	return p.placing
}

// OpenMenu enters ModeMenuOpen and publishes the placeable item list:
// every catalog definition with the Storage or Craftable capability (what
// a colony can currently build).
func (p *PlacementState) OpenMenu() {
	p.mode = ModeMenuOpen
	if p.callbacks.MenuVisibilityChanged != nil {
		p.callbacks.MenuVisibilityChanged(true)
	}
	if p.callbacks.ItemListChanged != nil {
		var placeable []string
		for _, name := range p.catalog.DefinitionNames() {
			if def, ok := p.catalog.GetDef(name); ok && def.HasCapability(assets.Storage|assets.Craftable) {
				placeable = append(placeable, name)
			}
		}
		p.callbacks.ItemListChanged(placeable)
	}
}

// CloseMenu leaves whatever mode is active and returns to ModeNone.
func (p *PlacementState) CloseMenu() {
	p.mode = ModeNone
	p.placing = ""
	if p.callbacks.MenuVisibilityChanged != nil {
		p.callbacks.MenuVisibilityChanged(false)
	}
}

// StartPlacing picks a defName from the menu and enters ModePlacing.
// Returns false for a defName the catalog doesn't know.
func (p *PlacementState) StartPlacing(defName string) bool {
	if _, ok := p.catalog.GetDef(defName); !ok {
		return false
	}
	p.mode = ModePlacing
	p.placing = defName
	if p.callbacks.MenuVisibilityChanged != nil {
		p.callbacks.MenuVisibilityChanged(false)
	}
	return true
}

// MoveGhost follows the cursor with the placement preview.
func (p *PlacementState) MoveGhost(pos worldpkg.Pos) {
	if p.mode != ModePlacing {
		return
	}
	p.ghostPos = pos
	if p.callbacks.GhostMoved != nil {
		p.callbacks.GhostMoved(p.placing, pos)
	}
}

// GhostPosition returns the current preview position.
func (p *PlacementState) GhostPosition() worldpkg.Pos { return p.ghostPos }

// TryPlace commits the current placement at pos. If an unplaced packaged
// entity of the chosen defName exists, its target position is set and the
// haul pipeline takes over; otherwise the entity is spawned directly.
// Returns false outside ModePlacing or when no commit path is wired.
func (p *PlacementState) TryPlace(pos worldpkg.Pos) bool {
	if p.mode != ModePlacing {
		return false
	}

	if p.callbacks.SetPackagedTarget != nil {
		for _, e := range ecs.View2[components.Packaged, components.Position](p.registry) {
			if e.A.DefName == p.placing && !e.A.HasTargetPos {
				if p.callbacks.SetPackagedTarget(e.Entity, pos) {
					p.finish()
					return true
				}
			}
		}
	}
	if p.callbacks.SpawnEntity != nil {
		p.callbacks.SpawnEntity(p.placing, pos)
		p.finish()
		return true
	}
	return false
}

func (p *PlacementState) finish() {
	p.mode = ModeNone
	p.placing = ""
}
