package assets

import "log/slog"

// Ingredient is a {defName, count} pair referenced by interned ID once
// linked against the asset catalog.
type Ingredient struct {
	DefName string
	Count   uint32
	id      ID
}

// RecipeDef is a crafting recipe entry (spec.md §3.4).
type RecipeDef struct {
	DefName    string
	Label      string
	Inputs     []Ingredient
	Outputs    []Ingredient
	Station    string // "none" if innate
	Skill      string
	WorkAmount float64
	Innate     bool

	inputIDs []ID // precomputed
}

// InputIDs returns the recipe's precomputed input ID list.
func (r RecipeDef) InputIDs() []ID { return r.inputIDs }

// RecipeCatalog is the read-only lookup of crafting recipes, rebuilding its
// by-station and innate indices after every load.
type RecipeCatalog struct {
	log *slog.Logger

	recipes    []RecipeDef
	byName     map[string]int
	byStation  map[string][]int
	innate     []int
}

// NewRecipeCatalog links recipe ingredients against assets and builds the
// by-station/innate indices.
func NewRecipeCatalog(log *slog.Logger, catalog *Catalog, recipes []RecipeDef) *RecipeCatalog {
	if log == nil {
		log = slog.Default()
	}
	rc := &RecipeCatalog{
		log:       log,
		recipes:   recipes,
		byName:    make(map[string]int, len(recipes)),
		byStation: make(map[string][]int),
	}
	rc.rebuild(catalog)
	return rc
}

func (rc *RecipeCatalog) rebuild(catalog *Catalog) {
	rc.byName = make(map[string]int, len(rc.recipes))
	rc.byStation = make(map[string][]int)
	rc.innate = rc.innate[:0]
	for i := range rc.recipes {
		r := &rc.recipes[i]
		rc.byName[r.DefName] = i
		rc.byStation[r.Station] = append(rc.byStation[r.Station], i)
		if r.Innate {
			rc.innate = append(rc.innate, i)
		}
		r.inputIDs = r.inputIDs[:0]
		for _, in := range r.Inputs {
			id := catalog.GetDefNameID(in.DefName)
			if id == InvalidID {
				rc.log.Warn("recipe input missing asset definition", "recipe", r.DefName, "input", in.DefName)
				continue
			}
			r.inputIDs = append(r.inputIDs, id)
		}
	}
}

// ByDefName returns a recipe by name.
func (rc *RecipeCatalog) ByDefName(name string) (RecipeDef, bool) {
	i, ok := rc.byName[name]
	if !ok {
		return RecipeDef{}, false
	}
	return rc.recipes[i], true
}

// ByStation returns all recipes craftable at a station defName.
func (rc *RecipeCatalog) ByStation(station string) []RecipeDef {
	idxs := rc.byStation[station]
	out := make([]RecipeDef, len(idxs))
	for i, idx := range idxs {
		out[i] = rc.recipes[idx]
	}
	return out
}

// Innate returns every innate (station-less) recipe.
func (rc *RecipeCatalog) Innate() []RecipeDef {
	out := make([]RecipeDef, len(rc.innate))
	for i, idx := range rc.innate {
		out[i] = rc.recipes[idx]
	}
	return out
}

// KnownByColonist returns recipes whose every input defName is present in a
// supplied set of known defNames.
func (rc *RecipeCatalog) KnownByColonist(known map[string]bool) []RecipeDef {
	var out []RecipeDef
	for _, r := range rc.recipes {
		all := true
		for _, in := range r.Inputs {
			if !known[in.DefName] {
				all = false
				break
			}
		}
		if all {
			out = append(out, r)
		}
	}
	return out
}
