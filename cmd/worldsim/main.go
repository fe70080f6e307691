// Command worldsim runs the world simulation core headless: it streams
// chunks around a fixed camera, places static entities, and ticks a few
// colonists, logging what they decide. Useful for profiling generation and
// eyeballing AI behavior without a renderer.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/vev-studio/worldcore/engine/assets"
	"github.com/vev-studio/worldcore/engine/ecs"
	"github.com/vev-studio/worldcore/engine/ecs/components"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
	"github.com/vev-studio/worldcore/sim"
)

func main() {
	confPath := flag.String("config", "config.toml", "path to the TOML configuration file")
	ticks := flag.Int("ticks", 600, "number of 1/60s ticks to simulate")
	colonists := flag.Int("colonists", 3, "number of colonists to spawn")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(log)

	userConf, err := sim.ReadUserConfig(*confPath)
	if err != nil {
		log.Error("failed to read config", "err", err)
		os.Exit(1)
	}
	conf, err := userConf.Config(log)
	if err != nil {
		log.Warn("asset packs unavailable, using built-in demo definitions", "err", err)
		conf.Defs, conf.Recipes = demoDefs(), demoRecipes()
	}
	if len(conf.Defs) == 0 {
		conf.Defs, conf.Recipes = demoDefs(), demoRecipes()
	}

	s := sim.New(conf)
	defer s.Close()

	center := worldpkg.Pos{256, 256}
	for i := 0; i < *colonists; i++ {
		pos := worldpkg.Pos{center[0] + float32(i)*2, center[1]}
		s.SpawnColonist(fmt.Sprintf("Colonist %d", i+1), pos)
	}

	start := time.Now()
	const dt = float32(1.0 / 60.0)
	for i := 0; i < *ticks; i++ {
		s.Update(dt, center)
	}
	log.Info("simulation finished",
		"ticks", *ticks,
		"elapsed", time.Since(start),
		"entities", s.World.Registry.LivingCount(),
		"goals", s.Goals.GoalCount(),
		"day", s.Time.Day(),
	)

	for _, e := range ecs.View2[components.Colonist, components.Task](s.World.Registry) {
		log.Info("colonist state", "name", e.A.Name, "task", e.B.Type.String(), "reason", e.B.Reason)
	}
}

// demoDefs is a minimal built-in asset pack so the binary runs without
// external definition files.
func demoDefs() []assets.Def {
	return []assets.Def{
		{
			DefName: "BerryBush", Label: "Berry bush", Category: assets.None,
			Capabilities: assets.Harvestable,
			Groups:       []string{"bushes"},
			PlacementRules: map[string]assets.PlacementRule{
				"Grassland": {Biome: "Grassland", SpawnChance: 0.002},
				"Forest":    {Biome: "Forest", SpawnChance: 0.004},
			},
			HarvestProps: assets.HarvestableProperties{
				YieldDefName: "Berry", MinCount: 2, MaxCount: 4,
				Duration: 2.5, RegrowthSeconds: 60,
			},
		},
		{
			DefName: "Berry", Label: "Berry", Category: assets.Food,
			HandsRequired: 1,
			Capabilities:  assets.Edible | assets.Carryable,
			Item:          assets.ItemProperties{StackSize: 10, EdibleNutrition: 0.3},
		},
		{
			DefName: "Stick", Label: "Stick", Category: assets.RawMaterial,
			HandsRequired: 1,
			Capabilities:  assets.Carryable,
			PlacementRules: map[string]assets.PlacementRule{
				"Forest": {Biome: "Forest", SpawnChance: 0.003},
			},
		},
		{
			DefName: "Stone", Label: "Stone", Category: assets.RawMaterial,
			HandsRequired: 1,
			Capabilities:  assets.Carryable,
			PlacementRules: map[string]assets.PlacementRule{
				"Mountain":  {Biome: "Mountain", SpawnChance: 0.005},
				"Grassland": {Biome: "Grassland", SpawnChance: 0.0005},
			},
		},
		{
			DefName: "WaterSpring", Label: "Spring", Category: assets.None,
			Capabilities: assets.Drinkable,
			PlacementRules: map[string]assets.PlacementRule{
				"Grassland": {Biome: "Grassland", SpawnChance: 0.0002, NearSurface: "Water", NearDistance: 4},
				"Wetland":   {Biome: "Wetland", SpawnChance: 0.001},
			},
		},
	}
}

func demoRecipes() []assets.RecipeDef {
	return []assets.RecipeDef{
		{
			DefName: "Recipe_AxePrimitive", Label: "Primitive axe",
			Inputs: []assets.Ingredient{
				{DefName: "Stick", Count: 1},
				{DefName: "Stone", Count: 1},
			},
			Outputs:    []assets.Ingredient{{DefName: "AxePrimitive", Count: 1}},
			Station:    "none",
			WorkAmount: 4,
			Innate:     true,
		},
	}
}
