package assets

import (
	"fmt"
	"log/slog"
)

// ID is an interned defName handle. 0 is reserved as invalid.
type ID uint32

// InvalidID is the reserved zero value meaning "no definition".
const InvalidID ID = 0

// Def is a single entity type's catalog entry (spec.md §3.3).
type Def struct {
	DefName       string
	Label         string
	Category      Category
	HandsRequired uint8 // 1 or 2
	Item          ItemProperties
	Capabilities  Capability
	PlacementRules map[string]PlacementRule // keyed by biome name
	Groups        []string
	Relationships []Relationship
	StorageProps  StorageProperties
	HarvestProps  HarvestableProperties
}

// HasCapability reports whether the definition carries a capability bit.
func (d Def) HasCapability(c Capability) bool { return d.Capabilities&c != 0 }

// Catalog is the read-only, post-load lookup of entity definitions. Once
// built via NewCatalog, a Catalog is never mutated except by RegisterSynthetic.
type Catalog struct {
	log *slog.Logger

	defs      []Def // index 0 unused, InvalidID sentinel
	idByName  map[string]ID
	groups    map[string][]ID // group name -> member IDs
}

// NewCatalog builds a Catalog from a set of definitions, assigning IDs
// 1..N in the order given; each ID's capability mask is read from its stored
// Def. This is a single post-load step; ID 0 stays reserved.
func NewCatalog(log *slog.Logger, defs []Def) *Catalog {
	if log == nil {
		log = slog.Default()
	}
	c := &Catalog{
		log:      log,
		defs:     make([]Def, 1, len(defs)+1),
		idByName: make(map[string]ID, len(defs)),
		groups:   make(map[string][]ID),
	}
	for _, d := range defs {
		c.defs = append(c.defs, d)
		id := ID(len(c.defs) - 1)
		c.idByName[d.DefName] = id
		for _, g := range d.Groups {
			c.groups[g] = append(c.groups[g], id)
		}
	}
	return c
}

// RegisterSynthetic adds a minimal definition at runtime (e.g. a crafted
// byproduct with no placement rules) and returns its new ID.
func (c *Catalog) RegisterSynthetic(name string, mask Capability) ID {
	if id, ok := c.idByName[name]; ok {
		return id
	}
	c.defs = append(c.defs, Def{DefName: name, Capabilities: mask})
	id := ID(len(c.defs) - 1)
	c.idByName[name] = id
	return id
}

// GetDef returns a definition by defName.
func (c *Catalog) GetDef(name string) (Def, bool) {
	id, ok := c.idByName[name]
	if !ok {
		return Def{}, false
	}
	return c.defs[id], true
}

// GetDefByID returns a definition by interned ID.
func (c *Catalog) GetDefByID(id ID) (Def, bool) {
	if id == InvalidID || int(id) >= len(c.defs) {
		return Def{}, false
	}
	return c.defs[id], true
}

// GetDefNameID interns a defName, logging and returning InvalidID if
// unknown (the MissingDefinition policy: log a warning on every such call,
// let the caller skip).
func (c *Catalog) GetDefNameID(name string) ID {
	id, ok := c.idByName[name]
	if !ok {
		c.log.Warn("missing asset definition", "defName", name)
		return InvalidID
	}
	return id
}

// GetDefName resolves an ID back to its defName.
func (c *Catalog) GetDefName(id ID) string {
	if def, ok := c.GetDefByID(id); ok {
		return def.DefName
	}
	return ""
}

// CapabilityMask returns the capability bitmask for an ID.
func (c *Catalog) CapabilityMask(id ID) Capability {
	def, _ := c.GetDefByID(id)
	return def.Capabilities
}

// HasCapability reports whether an ID's definition carries a capability.
func (c *Catalog) HasCapability(id ID, cap Capability) bool {
	return c.CapabilityMask(id)&cap != 0
}

// GroupMembers returns the IDs of every definition declaring membership in
// a named group.
func (c *Catalog) GroupMembers(group string) []ID {
	return c.groups[group]
}

// DefinitionNames returns every registered defName.
func (c *Catalog) DefinitionNames() []string {
	names := make([]string, 0, len(c.idByName))
	for name := range c.idByName {
		names = append(names, name)
	}
	return names
}

// Validate logs a warning for every relationship/harvest-yield reference
// that does not resolve to a known defName or group (the MissingDefinition
// policy applied at load time, not per-placement).
func (c *Catalog) Validate() {
	for _, d := range c.defs[1:] {
		for _, rel := range d.Relationships {
			if rel.Target.Kind == ByName {
				if _, ok := c.idByName[rel.Target.Value]; !ok {
					c.log.Warn("relationship targets unknown defName", "defName", d.DefName, "target", rel.Target.Value)
				}
			}
			if rel.Target.Kind == ByGroup {
				if _, ok := c.groups[rel.Target.Value]; !ok {
					c.log.Warn("relationship targets unknown group", "defName", d.DefName, "group", rel.Target.Value)
				}
			}
		}
		if d.HarvestProps.YieldDefName != "" {
			if _, ok := c.idByName[d.HarvestProps.YieldDefName]; !ok {
				c.log.Warn("harvestable yields unknown defName", "defName", d.DefName, "yield", d.HarvestProps.YieldDefName)
			}
		}
	}
}

// ErrMissingDefinition is an error value naming an unknown defName. No
// Catalog lookup returns it; they report a miss with InvalidID or ok=false.
type ErrMissingDefinition struct{ DefName string }

func (e ErrMissingDefinition) Error() string {
	return fmt.Sprintf("asset: no definition named %q", e.DefName)
}
