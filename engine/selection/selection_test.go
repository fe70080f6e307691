package selection

import (
	"testing"

	"github.com/vev-studio/worldcore/engine/assets"
	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

func testCatalog() *assets.Catalog {
	return assets.NewCatalog(nil, []assets.Def{
		{DefName: "BerryBush", Capabilities: assets.Harvestable},
		{DefName: "Pebble"}, // no capabilities: never selectable
		{DefName: "Bed", Capabilities: assets.Sleepable | assets.Storage},
	})
}

type staticHits []PlacedHit

func (s staticHits) QueryWorldEntities(worldpkg.ChunkCoord, worldpkg.Pos, float64) []PlacedHit {
	return s
}

func spawnAt(reg *ecs.Registry, pos worldpkg.Pos) ecs.EntityID {
	e := reg.CreateEntity()
	ecs.AddComponent(reg, e, components.Position{Value: pos})
	return e
}

func TestResolveClickPriorityOrder(t *testing.T) {
	reg := ecs.NewRegistry()
	click := worldpkg.Pos{10, 10}

	colonist := spawnAt(reg, worldpkg.Pos{11, 10})
	ecs.AddComponent(reg, colonist, components.Colonist{Name: "Ada"})

	station := spawnAt(reg, worldpkg.Pos{10.5, 10})
	ecs.AddComponent(reg, station, components.DefaultAppearance("CraftingSpot"))
	ecs.AddComponent(reg, station, components.WorkQueue{})

	container := spawnAt(reg, worldpkg.Pos{10.2, 10})
	ecs.AddComponent(reg, container, components.DefaultAppearance("Crate"))
	ecs.AddComponent(reg, container, components.NewInventory(10))

	r := NewResolver(reg, testCatalog(), staticHits{{DefName: "BerryBush", Position: click}})

	// All four candidates overlap the click; the colonist wins.
	sel := r.ResolveClick(click)
	if sel.Kind != KindColonist || sel.Entity != colonist {
		t.Fatalf("selection = %v/%v, want the colonist", sel.Kind, sel.Entity)
	}

	// Without the colonist, the station wins.
	reg.DestroyEntity(colonist)
	if sel := r.ResolveClick(click); sel.Kind != KindStation || sel.Entity != station {
		t.Fatalf("selection = %v/%v, want the station", sel.Kind, sel.Entity)
	}

	// Without the station, the container wins.
	reg.DestroyEntity(station)
	if sel := r.ResolveClick(click); sel.Kind != KindStorage || sel.Entity != container {
		t.Fatalf("selection = %v/%v, want the container", sel.Kind, sel.Entity)
	}

	// Finally the world entity.
	reg.DestroyEntity(container)
	if sel := r.ResolveClick(click); sel.Kind != KindWorldEntity || sel.WorldEntity.DefName != "BerryBush" {
		t.Fatalf("selection = %v/%q, want the berry bush", sel.Kind, sel.WorldEntity.DefName)
	}
}

func TestResolveClickIgnoresCapabilityFreeWorldEntities(t *testing.T) {
	reg := ecs.NewRegistry()
	click := worldpkg.Pos{0, 0}
	r := NewResolver(reg, testCatalog(), staticHits{{DefName: "Pebble", Position: click}})

	if sel := r.ResolveClick(click); sel.Kind != KindNone {
		t.Fatalf("selection = %v, want none for a capability-free entity", sel.Kind)
	}
}

func TestSelectionListenersNotified(t *testing.T) {
	reg := ecs.NewRegistry()
	colonist := spawnAt(reg, worldpkg.Pos{0, 0})
	ecs.AddComponent(reg, colonist, components.Colonist{Name: "Ada"})

	r := NewResolver(reg, testCatalog(), nil)
	var events []Kind
	r.AddListener(func(s Selection) { events = append(events, s.Kind) })

	r.ResolveClick(worldpkg.Pos{0.5, 0})
	r.Clear()
	if len(events) != 2 || events[0] != KindColonist || events[1] != KindNone {
		t.Fatalf("listener events = %v, want [colonist, none]", events)
	}
}

func TestPlacementStateMachine(t *testing.T) {
	reg := ecs.NewRegistry()
	catalog := testCatalog()

	var menuVisible bool
	var items []string
	var spawned []string
	p := NewPlacementState(reg, catalog, PlacementCallbacks{
		MenuVisibilityChanged: func(v bool) { menuVisible = v },
		ItemListChanged:       func(names []string) { items = names },
		SpawnEntity: func(defName string, pos worldpkg.Pos) ecs.EntityID {
			spawned = append(spawned, defName)
			return ecs.InvalidEntity
		},
	})

	p.OpenMenu()
	if p.Mode() != ModeMenuOpen || !menuVisible {
		t.Fatal("menu not open after OpenMenu")
	}
	if len(items) != 1 || items[0] != "Bed" {
		t.Fatalf("placeable items = %v, want [Bed]", items)
	}

	if p.StartPlacing("NoSuchThing") {
		t.Fatal("placing an unknown defName should fail")
	}
	if !p.StartPlacing("Bed") {
		t.Fatal("StartPlacing failed")
	}
	if p.Mode() != ModePlacing || menuVisible {
		t.Fatal("menu should close entering placing mode")
	}

	if !p.TryPlace(worldpkg.Pos{5, 5}) {
		t.Fatal("TryPlace failed")
	}
	if len(spawned) != 1 || spawned[0] != "Bed" {
		t.Fatalf("spawned = %v, want [Bed]", spawned)
	}
	if p.Mode() != ModeNone {
		t.Fatal("placement should finish back at ModeNone")
	}
}

func TestTryPlacePrefersPackagedEntity(t *testing.T) {
	reg := ecs.NewRegistry()
	catalog := testCatalog()

	crate := reg.CreateEntity()
	ecs.AddComponent(reg, crate, components.Position{Value: worldpkg.Pos{0, 0}})
	ecs.AddComponent(reg, crate, components.Packaged{DefName: "Bed"})

	var spawnCalls int
	p := NewPlacementState(reg, catalog, PlacementCallbacks{
		SpawnEntity: func(string, worldpkg.Pos) ecs.EntityID { spawnCalls++; return ecs.InvalidEntity },
		SetPackagedTarget: func(packaged ecs.EntityID, pos worldpkg.Pos) bool {
			c := ecs.GetComponent[components.Packaged](reg, packaged)
			c.TargetPosition = pos
			c.HasTargetPos = true
			return true
		},
	})
	p.StartPlacing("Bed")
	if !p.TryPlace(worldpkg.Pos{8, 8}) {
		t.Fatal("TryPlace failed")
	}

	c := ecs.GetComponent[components.Packaged](reg, crate)
	if !c.HasTargetPos || c.TargetPosition != (worldpkg.Pos{8, 8}) {
		t.Fatal("packaged target not routed through the existing crate")
	}
	if spawnCalls != 0 {
		t.Fatal("TryPlace spawned a fresh entity despite an unplaced packaged one")
	}
}
