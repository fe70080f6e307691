package placement

import (
	"errors"
	"testing"

	"github.com/vev-studio/worldcore/engine/assets"
)

func defWithRequires(name string, requires ...string) assets.Def {
	d := assets.Def{
		DefName: name,
		PlacementRules: map[string]assets.PlacementRule{
			"Grassland": {Biome: "Grassland", SpawnChance: 0.1},
		},
	}
	for _, r := range requires {
		d.Relationships = append(d.Relationships, assets.Relationship{
			Kind:     assets.Requires,
			Target:   assets.EntityRef{Kind: assets.ByName, Value: r},
			Distance: 5,
		})
	}
	return d
}

// TestTopologicalOrderPlacesDependenciesFirst checks property: for every
// "u requires v" edge, v appears strictly before u in the spawn order.
func TestTopologicalOrderPlacesDependenciesFirst(t *testing.T) {
	catalog := assets.NewCatalog(nil, []assets.Def{
		defWithRequires("Mushroom", "Tree"),
		defWithRequires("Tree"),
		defWithRequires("Moss", "Mushroom", "Tree"),
	})
	graph := BuildDependencyGraph(catalog)
	order, err := graph.TopologicalOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pos := make(map[string]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	edges := [][2]string{{"Mushroom", "Tree"}, {"Moss", "Mushroom"}, {"Moss", "Tree"}}
	for _, e := range edges {
		if pos[e[1]] >= pos[e[0]] {
			t.Errorf("%s must be placed before %s; order = %v", e[1], e[0], order)
		}
	}
}

func TestGroupTargetsExpandToMembers(t *testing.T) {
	treeA := defWithRequires("TreeA")
	treeA.Groups = []string{"trees"}
	treeB := defWithRequires("TreeB")
	treeB.Groups = []string{"trees"}
	moss := assets.Def{
		DefName: "Moss",
		PlacementRules: map[string]assets.PlacementRule{
			"Grassland": {Biome: "Grassland", SpawnChance: 0.1},
		},
		Relationships: []assets.Relationship{{
			Kind:   assets.Requires,
			Target: assets.EntityRef{Kind: assets.ByGroup, Value: "trees"},
		}},
	}

	catalog := assets.NewCatalog(nil, []assets.Def{moss, treeA, treeB})
	order, err := BuildDependencyGraph(catalog).TopologicalOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pos := make(map[string]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	if pos["Moss"] < pos["TreeA"] || pos["Moss"] < pos["TreeB"] {
		t.Errorf("Moss must follow every group member; order = %v", order)
	}
}

// TestCyclicDependencyDisablesPlacement checks scenario: A requires B and
// B requires A leaves the executor with an empty spawn order.
func TestCyclicDependencyDisablesPlacement(t *testing.T) {
	catalog := assets.NewCatalog(nil, []assets.Def{
		defWithRequires("A", "B"),
		defWithRequires("B", "A"),
	})

	_, err := BuildDependencyGraph(catalog).TopologicalOrder()
	var cycErr *CyclicDependencyError
	if !errors.As(err, &cycErr) {
		t.Fatalf("expected CyclicDependencyError, got %v", err)
	}

	executor := NewExecutor(catalog, 1)
	if err := executor.Initialize(); err == nil {
		t.Fatal("Initialize should surface the cycle")
	}
	if order := executor.SpawnOrder(); len(order) != 0 {
		t.Fatalf("spawn order should be empty after a cycle, got %v", order)
	}
}
