package assets

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

// defFile and recipeFile mirror Def/RecipeDef but in a TOML-friendly shape
// (flat tables, no precomputed fields) for decoding asset/recipe packs.
type defFile struct {
	DefName       string   `toml:"defName"`
	Label         string   `toml:"label"`
	Category      string   `toml:"category"`
	HandsRequired uint8    `toml:"handsRequired"`
	Groups        []string `toml:"groups"`
	Capabilities  []string `toml:"capabilities"`
}

type recipeFile struct {
	DefName    string       `toml:"defName"`
	Label      string       `toml:"label"`
	Station    string       `toml:"station"`
	Skill      string       `toml:"skill"`
	WorkAmount float64      `toml:"workAmount"`
	Innate     bool         `toml:"innate"`
	Inputs     []ingredient `toml:"inputs"`
	Outputs    []ingredient `toml:"outputs"`
}

type ingredient struct {
	DefName string `toml:"defName"`
	Count   uint32 `toml:"count"`
}

var capabilityByName = map[string]Capability{
	"Edible": Edible, "Drinkable": Drinkable, "Sleepable": Sleepable,
	"Toilet": Toilet, "Waste": Waste, "Carryable": Carryable,
	"Harvestable": Harvestable, "Craftable": Craftable, "Storage": Storage,
}

var categoryByName = map[string]Category{
	"None": None, "RawMaterial": RawMaterial, "Food": Food,
	"Tool": Tool, "Furniture": Furniture,
}

// LoadDefsTOML decodes a TOML-encoded asset definition pack from path into
// Defs suitable for NewCatalog.
func LoadDefsTOML(path string) ([]Def, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", path, err)
	}
	var parsed struct {
		Asset []defFile `toml:"asset"`
	}
	if err := toml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", path, err)
	}
	defs := make([]Def, 0, len(parsed.Asset))
	for _, f := range parsed.Asset {
		var mask Capability
		for _, name := range f.Capabilities {
			mask |= capabilityByName[name]
		}
		defs = append(defs, Def{
			DefName:       f.DefName,
			Label:         f.Label,
			Category:      categoryByName[f.Category],
			HandsRequired: f.HandsRequired,
			Groups:        f.Groups,
			Capabilities:  mask,
		})
	}
	return defs, nil
}

// LoadRecipesTOML decodes a TOML-encoded recipe pack from path.
func LoadRecipesTOML(path string) ([]RecipeDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("recipes: read %s: %w", path, err)
	}
	var parsed struct {
		Recipe []recipeFile `toml:"recipe"`
	}
	if err := toml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("recipes: decode %s: %w", path, err)
	}
	out := make([]RecipeDef, 0, len(parsed.Recipe))
	for _, f := range parsed.Recipe {
		r := RecipeDef{
			DefName: f.DefName, Label: f.Label, Station: f.Station,
			Skill: f.Skill, WorkAmount: f.WorkAmount, Innate: f.Innate,
		}
		for _, in := range f.Inputs {
			r.Inputs = append(r.Inputs, Ingredient{DefName: in.DefName, Count: in.Count})
		}
		for _, out2 := range f.Outputs {
			r.Outputs = append(r.Outputs, Ingredient{DefName: out2.DefName, Count: out2.Count})
		}
		out = append(out, r)
	}
	return out, nil
}
