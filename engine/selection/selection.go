// Package selection resolves world-space clicks into a selected entity and
// tracks the furniture-placement interaction state. It owns no rendering:
// hosts subscribe to change callbacks and draw whatever indicator or menu
// they like.
package selection

import (
	"github.com/vev-studio/worldcore/engine/assets"
	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

// colonistClickRadius is the hit-test radius around a colonist, generous
// relative to its ~1m footprint so clicks don't have to be pixel perfect.
const colonistClickRadius = 2.0

// entityClickRadius is the hit-test radius for stations, containers and
// placed world entities.
const entityClickRadius = 1.5

// Kind tags what a Selection currently holds.
type Kind uint8

const (
	KindNone Kind = iota
	KindColonist
	KindStation
	KindStorage
	KindWorldEntity
)

// Selection is the tagged result of a click resolution: at most one of the
// entity/world fields is meaningful, per Kind.
type Selection struct {
	Kind   Kind
	Entity ecs.EntityID // Colonist, Station, Storage

	// World-entity selections carry the placed entity instead of an ECS id.
	WorldEntity   placementEntity
	WorldPosition worldpkg.Pos
}

// placementEntity mirrors the fields of a placed world entity a UI needs,
// decoupled from the placement package's internal storage.
type placementEntity struct {
	DefName  string
	Position worldpkg.Pos
}

// Listener observes selection changes.
type Listener func(Selection)

// Resolver turns clicks into selections over the ECS registry, the asset
// catalog (for capability filtering of world entities) and a chunk index
// source.
type Resolver struct {
	registry *ecs.Registry
	catalog  *assets.Catalog
	chunks   worldEntityQuerier

	current   Selection
	listeners []Listener
}

// worldEntityQuerier is the minimal query the resolver needs from the
// placement executor.
type worldEntityQuerier interface {
	QueryWorldEntities(coord worldpkg.ChunkCoord, center worldpkg.Pos, radius float64) []PlacedHit
}

// PlacedHit is one static world entity a click may land on.
type PlacedHit struct {
	DefName  string
	Position worldpkg.Pos
}

// NewResolver constructs a Resolver. chunks may be nil to disable
// world-entity selection.
func NewResolver(registry *ecs.Registry, catalog *assets.Catalog, chunks worldEntityQuerier) *Resolver {
	return &Resolver{registry: registry, catalog: catalog, chunks: chunks}
}

// Current returns the active selection.
func (r *Resolver) Current() Selection { return r.current }

// AddListener registers a callback invoked on every selection change.
func (r *Resolver) AddListener(l Listener) {
	r.listeners = append(r.listeners, l)
}

// Clear resets to no selection, notifying listeners if something was
// selected.
func (r *Resolver) Clear() {
	if r.current.Kind == KindNone {
		return
	}
	r.set(Selection{})
}

// ResolveClick resolves a world-space click, in priority order: colonists,
// then crafting stations, then storage containers, then placed world
// entities with any capability. Returns the new selection (possibly
// empty).
func (r *Resolver) ResolveClick(clickPos worldpkg.Pos) Selection {
	if e, ok := r.hitColonist(clickPos); ok {
		r.set(Selection{Kind: KindColonist, Entity: e})
		return r.current
	}
	if e, ok := r.hitStation(clickPos); ok {
		r.set(Selection{Kind: KindStation, Entity: e})
		return r.current
	}
	if e, ok := r.hitStorage(clickPos); ok {
		r.set(Selection{Kind: KindStorage, Entity: e})
		return r.current
	}
	if hit, ok := r.hitWorldEntity(clickPos); ok {
		r.set(Selection{
			Kind:          KindWorldEntity,
			WorldEntity:   placementEntity{DefName: hit.DefName, Position: hit.Position},
			WorldPosition: hit.Position,
		})
		return r.current
	}
	r.set(Selection{})
	return r.current
}

func (r *Resolver) set(sel Selection) {
	r.current = sel
	for _, l := range r.listeners {
		l(sel)
	}
}

func (r *Resolver) hitColonist(clickPos worldpkg.Pos) (ecs.EntityID, bool) {
	return nearestEntity(ecs.View2[components.Position, components.Colonist](r.registry), clickPos, colonistClickRadius)
}

func (r *Resolver) hitStation(clickPos worldpkg.Pos) (ecs.EntityID, bool) {
	best, found := ecs.InvalidEntity, false
	bestDist := float32(entityClickRadius)
	for _, e := range ecs.View3[components.Position, components.Appearance, components.WorkQueue](r.registry) {
		if d := e.A.Value.Sub(clickPos).Len(); d <= bestDist {
			best, bestDist, found = e.Entity, d, true
		}
	}
	return best, found
}

func (r *Resolver) hitStorage(clickPos worldpkg.Pos) (ecs.EntityID, bool) {
	best, found := ecs.InvalidEntity, false
	bestDist := float32(entityClickRadius)
	for _, e := range ecs.View3[components.Position, components.Appearance, components.Inventory](r.registry) {
		// Colonists and stations were already offered their own pass.
		if ecs.HasComponent[components.Colonist](r.registry, e.Entity) ||
			ecs.HasComponent[components.WorkQueue](r.registry, e.Entity) {
			continue
		}
		if d := e.A.Value.Sub(clickPos).Len(); d <= bestDist {
			best, bestDist, found = e.Entity, d, true
		}
	}
	return best, found
}

func (r *Resolver) hitWorldEntity(clickPos worldpkg.Pos) (PlacedHit, bool) {
	if r.chunks == nil {
		return PlacedHit{}, false
	}
	coord := worldpkg.WorldToChunk(clickPos)
	best := PlacedHit{}
	bestDist := float32(entityClickRadius)
	found := false
	for _, hit := range r.chunks.QueryWorldEntities(coord, clickPos, entityClickRadius) {
		def, ok := r.catalog.GetDef(hit.DefName)
		if !ok || def.Capabilities == 0 {
			continue
		}
		if d := hit.Position.Sub(clickPos).Len(); d <= bestDist {
			best, bestDist, found = hit, d, true
		}
	}
	return best, found
}

func nearestEntity[T any](entries []ecs.Entry2[components.Position, T], clickPos worldpkg.Pos, radius float32) (ecs.EntityID, bool) {
	best, found := ecs.InvalidEntity, false
	bestDist := radius
	for _, e := range entries {
		if d := e.A.Value.Sub(clickPos).Len(); d <= bestDist {
			best, bestDist, found = e.Entity, d, true
		}
	}
	return best, found
}
