package systems

import (
	"github.com/vev-studio/worldcore/engine/assets"
	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

// testCatalog is the shared asset fixture for system tests: edible
// berries, a harvestable bush yielding them, raw materials and a bed.
func testCatalog() *assets.Catalog {
	return assets.NewCatalog(nil, []assets.Def{
		{
			DefName: "Berry", Label: "Berry", Category: assets.Food,
			HandsRequired: 1,
			Capabilities:  assets.Edible | assets.Carryable,
			Item:          assets.ItemProperties{StackSize: 10, EdibleNutrition: 0.3},
		},
		{
			DefName: "BerryBush", Label: "Berry bush",
			Capabilities: assets.Harvestable,
			HarvestProps: assets.HarvestableProperties{
				YieldDefName: "Berry", MinCount: 2, MaxCount: 4,
				Duration: 2.5, RegrowthSeconds: 60,
			},
		},
		{
			DefName: "Stick", Label: "Stick", Category: assets.RawMaterial,
			HandsRequired: 1, Capabilities: assets.Carryable,
		},
		{
			DefName: "StickTree", Label: "Stick tree",
			Capabilities: assets.Harvestable,
			HarvestProps: assets.HarvestableProperties{
				YieldDefName: "Stick", MinCount: 1, MaxCount: 1, Duration: 3,
			},
		},
		{
			DefName: "Stone", Label: "Stone", Category: assets.RawMaterial,
			HandsRequired: 1, Capabilities: assets.Carryable,
		},
		{
			DefName: "Bed", Label: "Bed", Category: assets.Furniture,
			Capabilities: assets.Sleepable,
		},
	})
}

// testCatalogWithDeadTree is a fixture with a destructive harvestable for
// removal-path tests.
func testCatalogWithDeadTree() *assets.Catalog {
	return assets.NewCatalog(nil, []assets.Def{
		{
			DefName: "Stick", Label: "Stick", Category: assets.RawMaterial,
			HandsRequired: 1, Capabilities: assets.Carryable,
		},
		{
			DefName: "Stone", Label: "Stone", Category: assets.RawMaterial,
			HandsRequired: 1, Capabilities: assets.Carryable,
		},
		{
			DefName: "DeadTree", Label: "Dead tree",
			Capabilities: assets.Harvestable,
			HarvestProps: assets.HarvestableProperties{
				YieldDefName: "Stick", MinCount: 1, MaxCount: 1,
				Duration: 3, Destructive: true,
			},
		},
	})
}

func testRecipes(catalog *assets.Catalog) *assets.RecipeCatalog {
	return assets.NewRecipeCatalog(nil, catalog, []assets.RecipeDef{
		{
			DefName: "Recipe_AxePrimitive", Label: "Primitive axe",
			Inputs: []assets.Ingredient{
				{DefName: "Stick", Count: 1},
				{DefName: "Stone", Count: 1},
			},
			Outputs:    []assets.Ingredient{{DefName: "AxePrimitive", Count: 1}},
			Station:    "CraftingSpot",
			WorkAmount: 4,
		},
	})
}

// spawnTestColonist creates a colonist entity with the component set the
// AI and action systems operate on.
func spawnTestColonist(reg *ecs.Registry, pos worldpkg.Pos) ecs.EntityID {
	e := reg.CreateEntity()
	ecs.AddComponent(reg, e, components.Position{Value: pos})
	ecs.AddComponent(reg, e, components.Velocity{})
	ecs.AddComponent(reg, e, components.MovementTarget{Speed: components.DefaultMovementSpeed})
	ecs.AddComponent(reg, e, components.DefaultNeeds())
	ecs.AddComponent(reg, e, components.NewMemory())
	ecs.AddComponent(reg, e, components.NewInventory(10))
	ecs.AddComponent(reg, e, components.Task{})
	ecs.AddComponent(reg, e, components.Action{})
	ecs.AddComponent(reg, e, components.DecisionTrace{})
	return e
}

// satisfyAllNeeds pins every need to 100 so only the scenario under test
// drives the evaluator.
func satisfyAllNeeds(reg *ecs.Registry, e ecs.EntityID) {
	needs := ecs.GetComponent[components.NeedsComponent](reg, e)
	for t := components.NeedType(0); t < components.NeedTypeCount; t++ {
		needs.Get(t).Value = 100
	}
}
