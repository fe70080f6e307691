package placement

import (
	"fmt"
	"sort"

	"github.com/vev-studio/worldcore/engine/assets"
)

// CyclicDependencyError reports a Requires cycle discovered during
// topological ordering (spec.md §7, CyclicDependency).
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("placement: cyclic dependency among definitions: %v", e.Cycle)
}

// DependencyGraph orders entity-type placement so that a definition is
// always placed after every "Requires" dependency it declares, using
// Requires edges only; Affinity/Avoids influence spawn chance, not order.
type DependencyGraph struct {
	catalog *assets.Catalog
	edges   map[assets.ID][]assets.ID // id -> ids it requires
}

// BuildDependencyGraph inspects every definition's Relationships and
// collects Requires edges: ByName targets add one edge, ByGroup targets
// expand to an edge per group member, and Same targets add none (a
// definition trivially orders against itself).
func BuildDependencyGraph(catalog *assets.Catalog) *DependencyGraph {
	g := &DependencyGraph{catalog: catalog, edges: make(map[assets.ID][]assets.ID)}
	for _, name := range catalog.DefinitionNames() {
		id := catalog.GetDefNameID(name)
		def, ok := catalog.GetDefByID(id)
		if !ok {
			continue
		}
		for _, rel := range def.Relationships {
			if rel.Kind != assets.Requires {
				continue
			}
			switch rel.Target.Kind {
			case assets.ByName:
				depID := catalog.GetDefNameID(rel.Target.Value)
				if depID == assets.InvalidID {
					continue
				}
				g.edges[id] = append(g.edges[id], depID)
			case assets.ByGroup:
				for _, depID := range catalog.GroupMembers(rel.Target.Value) {
					if depID != id {
						g.edges[id] = append(g.edges[id], depID)
					}
				}
			}
		}
	}
	return g
}

// TopologicalOrder returns defNames in an order where every Requires
// dependency precedes its dependent, breaking ties by defName for
// deterministic placement across runs with the same catalog.
func (g *DependencyGraph) TopologicalOrder() ([]string, error) {
	names := g.catalog.DefinitionNames()
	sort.Strings(names)

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[assets.ID]int, len(names))
	var order []assets.ID
	var stack []assets.ID

	var visit func(id assets.ID) error
	visit = func(id assets.ID) error {
		color[id] = gray
		stack = append(stack, id)
		deps := append([]assets.ID(nil), g.edges[id]...)
		sort.Slice(deps, func(i, j int) bool { return deps[i] < deps[j] })
		for _, dep := range deps {
			switch color[dep] {
			case white:
				if err := visit(dep); err != nil {
					return err
				}
			case gray:
				cyc := cycleNames(g.catalog, stack, dep)
				return &CyclicDependencyError{Cycle: cyc}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		order = append(order, id)
		return nil
	}

	for _, name := range names {
		id := g.catalog.GetDefNameID(name)
		if id == assets.InvalidID || color[id] != white {
			continue
		}
		if err := visit(id); err != nil {
			return nil, err
		}
	}

	out := make([]string, len(order))
	for i, id := range order {
		out[i] = g.catalog.GetDefName(id)
	}
	return out, nil
}

func cycleNames(catalog *assets.Catalog, stack []assets.ID, closeAt assets.ID) []string {
	start := 0
	for i, id := range stack {
		if id == closeAt {
			start = i
			break
		}
	}
	cyc := stack[start:]
	names := make([]string, 0, len(cyc)+1)
	for _, id := range cyc {
		names = append(names, catalog.GetDefName(id))
	}
	names = append(names, catalog.GetDefName(closeAt))
	return names
}
