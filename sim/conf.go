package sim

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml"

	"github.com/vev-studio/worldcore/engine/assets"
	worldpkg "github.com/vev-studio/worldcore/engine/world"
)

// Config contains options for starting a world simulation. Zero values
// fall back to the documented defaults in New.
type Config struct {
	// Log is the Logger to use for logging information. If nil, Log is
	// set to slog.Default().
	Log *slog.Logger
	// WorldSeed drives every deterministic generator: terrain, placement
	// and tile hashing all derive from it.
	WorldSeed uint64
	// DecisionSeed seeds the colonist decision evaluator's RNG so wander
	// targets are reproducible. Defaults to WorldSeed.
	DecisionSeed uint64
	// Sampler supplies biome and elevation data. If nil, a MockSampler
	// over WorldSeed is used.
	Sampler Sampler
	// Defs and Recipes are the asset and recipe definitions to load. At
	// least one asset definition is required before placement can run.
	Defs    []assets.Def
	Recipes []assets.RecipeDef
	// LoadRadius and UnloadRadius configure chunk streaming hysteresis in
	// chunks (defaults 2 and 4).
	LoadRadius, UnloadRadius int32
}

// Sampler is re-exported here so hosts configuring a Sim don't need to
// import engine/world directly for the common case.
type Sampler = worldpkg.Sampler

// UserConfig is the TOML-friendly shape of the fields of Config a host
// operator would hand-edit. Convert to a Config with Config.
type UserConfig struct {
	World struct {
		// Seed seeds world generation and is passed to Config.WorldSeed
		// as given, 0 included.
		Seed int64
		// LoadRadius and UnloadRadius set chunk streaming hysteresis.
		LoadRadius   int
		UnloadRadius int
	}
	Assets struct {
		// Defs and Recipes are paths to TOML definition packs.
		Defs    string
		Recipes string
	}
}

// DefaultUserConfig returns a UserConfig with sensible defaults.
func DefaultUserConfig() UserConfig {
	var conf UserConfig
	conf.World.Seed = 12345
	conf.World.LoadRadius = 2
	conf.World.UnloadRadius = 4
	conf.Assets.Defs = "assets/defs.toml"
	conf.Assets.Recipes = "assets/recipes.toml"
	return conf
}

// ReadUserConfig reads a UserConfig from a TOML file at path, writing the
// defaults there first if the file does not yet exist.
func ReadUserConfig(path string) (UserConfig, error) {
	conf := DefaultUserConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		data, err := toml.Marshal(conf)
		if err != nil {
			return conf, fmt.Errorf("encode default config: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return conf, fmt.Errorf("create default config: %w", err)
		}
		return conf, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return conf, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &conf); err != nil {
		return conf, fmt.Errorf("decode config: %w", err)
	}
	return conf, nil
}

// Config converts the user configuration into a Config ready for New,
// loading the asset and recipe packs it references.
func (uc UserConfig) Config(log *slog.Logger) (Config, error) {
	conf := Config{
		Log:          log,
		WorldSeed:    uint64(uc.World.Seed),
		LoadRadius:   int32(uc.World.LoadRadius),
		UnloadRadius: int32(uc.World.UnloadRadius),
	}
	var err error
	if uc.Assets.Defs != "" {
		if conf.Defs, err = assets.LoadDefsTOML(uc.Assets.Defs); err != nil {
			return conf, err
		}
	}
	if uc.Assets.Recipes != "" {
		if conf.Recipes, err = assets.LoadRecipesTOML(uc.Assets.Recipes); err != nil {
			return conf, err
		}
	}
	return conf, nil
}
