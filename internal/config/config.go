package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mitchelldurbincs/ti4-board-generator/internal/common"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/catalog"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/core"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/layout"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/mapgen"
)

// EnvPrefix prefixes environment overrides, e.g. TI4_SEARCH_WORKERS.
const EnvPrefix = "TI4"

// Config holds all configuration for the generator
type Config struct {
	Generator GeneratorConfig `mapstructure:"generator"`
	Search    SearchConfig    `mapstructure:"search"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Output    OutputConfig    `mapstructure:"output"`
}

// GeneratorConfig describes the board to build
type GeneratorConfig struct {
	Players    int    `mapstructure:"players"`
	Game       string `mapstructure:"game"`
	Layout     string `mapstructure:"layout"`
	Aggression string `mapstructure:"aggression"`
	// Iterations is in thousands per attempt.
	Iterations int `mapstructure:"iterations"`
}

// SearchConfig tunes the search loop
type SearchConfig struct {
	MaxAttempts      int           `mapstructure:"max_attempts"`
	InitialTolerance float64       `mapstructure:"initial_tolerance"`
	ToleranceGrowth  float64       `mapstructure:"tolerance_growth"`
	Workers          int           `mapstructure:"workers"`
	Seed             int64         `mapstructure:"seed"`
	ProgressInterval time.Duration `mapstructure:"progress_interval"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	Verbose bool   `mapstructure:"verbose"`
}

// OutputConfig selects what is printed or written after the search
type OutputConfig struct {
	TTS bool   `mapstructure:"tts"`
	URL bool   `mapstructure:"url"`
	PNG string `mapstructure:"png"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"players":    "generator.players",
	"game":       "generator.game",
	"layout":     "generator.layout",
	"aggression": "generator.aggression",
	"iterations": "generator.iterations",
	"seed":       "search.seed",
	"workers":    "search.workers",
	"log-level":  "logging.level",
	"log-format": "logging.format",
	"verbose":    "logging.verbose",
	"png":        "output.png",
}

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	defaults := mapgen.DefaultOptions(0)

	// Generator defaults
	v.SetDefault("generator.players", 0)
	v.SetDefault("generator.game", catalog.VersionPoK.String())
	v.SetDefault("generator.layout", layout.SizeRegular.String())
	v.SetDefault("generator.aggression", mapgen.AggressionMedium.String())
	v.SetDefault("generator.iterations", defaults.IterationsPerAttempt/1000)

	// Search defaults
	v.SetDefault("search.max_attempts", defaults.MaxAttempts)
	v.SetDefault("search.initial_tolerance", defaults.InitialTolerance)
	v.SetDefault("search.tolerance_growth", defaults.ToleranceGrowth)
	v.SetDefault("search.workers", defaults.Workers)
	v.SetDefault("search.seed", 0)
	v.SetDefault("search.progress_interval", 5*time.Second)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.verbose", false)

	// Output defaults
	v.SetDefault("output.tts", true)
	v.SetDefault("output.url", true)
	v.SetDefault("output.png", "")
}

// Load builds the configuration from defaults, an optional YAML file,
// TI4_* environment variables and the given flags, in increasing priority.
// flags may be nil.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("mapgen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Set environment variable prefix
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file in the default locations; use defaults
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if !common.InRange(c.Generator.Players, 2, core.MaxPlayers) {
		return fmt.Errorf("generator.players must be between 2 and %d, got %d", core.MaxPlayers, c.Generator.Players)
	}
	if _, err := catalog.ParseVersion(c.Generator.Game); err != nil {
		return fmt.Errorf("generator.game: %w", err)
	}
	if _, err := layout.ParseSize(c.Generator.Layout); err != nil {
		return fmt.Errorf("generator.layout: %w", err)
	}
	if _, err := mapgen.ParseAggression(c.Generator.Aggression); err != nil {
		return fmt.Errorf("generator.aggression: %w", err)
	}
	if c.Generator.Iterations <= 0 {
		return fmt.Errorf("generator.iterations must be positive")
	}

	if c.Search.MaxAttempts <= 0 {
		return fmt.Errorf("search.max_attempts must be positive")
	}
	if c.Search.InitialTolerance <= 0 {
		return fmt.Errorf("search.initial_tolerance must be positive")
	}
	if c.Search.ToleranceGrowth < 1 {
		return fmt.Errorf("search.tolerance_growth must be at least 1")
	}
	if c.Search.Workers < 1 {
		return fmt.Errorf("search.workers must be at least 1")
	}
	if c.Search.ProgressInterval < 0 {
		return fmt.Errorf("search.progress_interval must be non-negative")
	}

	if !common.OneOf(c.Logging.Level, "debug", "info", "warn", "error") {
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	if !common.OneOf(c.Logging.Format, "console", "json") {
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// LayoutSize returns the parsed generator.layout value.
func (c *Config) LayoutSize() layout.Size {
	size, _ := layout.ParseSize(c.Generator.Layout)
	return size
}

// Options converts the generator and search sections into search options.
// The catalog version is the requested one; callers resolve it against the
// chosen layout.
func (c *Config) Options() (mapgen.Options, error) {
	version, err := catalog.ParseVersion(c.Generator.Game)
	if err != nil {
		return mapgen.Options{}, err
	}
	aggression, err := mapgen.ParseAggression(c.Generator.Aggression)
	if err != nil {
		return mapgen.Options{}, err
	}
	return mapgen.Options{
		Players:              c.Generator.Players,
		Version:              version,
		Aggression:           aggression,
		IterationsPerAttempt: c.Generator.Iterations * 1000,
		MaxAttempts:          c.Search.MaxAttempts,
		InitialTolerance:     c.Search.InitialTolerance,
		ToleranceGrowth:      c.Search.ToleranceGrowth,
		Workers:              c.Search.Workers,
	}, nil
}
