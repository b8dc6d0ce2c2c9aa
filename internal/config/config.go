package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Agent   AgentConfig   `mapstructure:"agent"`
	Game    GameConfig    `mapstructure:"game"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// AgentConfig holds the decision engine tunables
type AgentConfig struct {
	TopProducts     int     `mapstructure:"top_products"`
	GoalBonus       int     `mapstructure:"goal_bonus"`
	ExploreFraction float64 `mapstructure:"explore_fraction"`
	EarlyPhaseTurns int     `mapstructure:"early_phase_turns"`
}

// GameConfig holds the rules of a local game
type GameConfig struct {
	MaxTurns           int     `mapstructure:"max_turns"`
	StartGold          int     `mapstructure:"start_gold"`
	BlackMarketPenalty int     `mapstructure:"black_market_penalty"`
	InterestRate       float64 `mapstructure:"interest_rate"`
	HazardInterval     int     `mapstructure:"hazard_interval"`
	RumoursPerTurn     int     `mapstructure:"rumours_per_turn"`
	Seed               uint64  `mapstructure:"seed"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	LogEvents bool   `mapstructure:"log_events"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Agent defaults
	v.SetDefault("agent.top_products", 5)
	v.SetDefault("agent.goal_bonus", 10000)
	v.SetDefault("agent.explore_fraction", 0.5)
	v.SetDefault("agent.early_phase_turns", 50)

	// Game defaults
	v.SetDefault("game.max_turns", 300)
	v.SetDefault("game.start_gold", 1000)
	v.SetDefault("game.black_market_penalty", 100)
	v.SetDefault("game.interest_rate", 0.1)
	v.SetDefault("game.hazard_interval", 30)
	v.SetDefault("game.rumours_per_turn", 1)
	v.SetDefault("game.seed", 0)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.log_events", false)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/marketroyale")
	}

	v.SetEnvPrefix("MRB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing file falls back to defaults; a broken one does not
		if configPath == "" && !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		if configPath != "" && fileExists(configPath) {
			return fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml from the directory of the
// loaded config file over the current values
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)
	if used := v.ConfigFileUsed(); used != "" {
		envFile = filepath.Join(filepath.Dir(used), envFile)
	}

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("error merging environment config %s: %w", envFile, err)
	}

	next := &Config{}
	if err := v.Unmarshal(next); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}
	if err := Validate(next); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	cfg = next
	return nil
}

// Set overrides key at runtime. The override survives file reloads. A value
// that leaves the config invalid is rolled back and reported.
func Set(key string, value interface{}) error {
	previous := v.Get(key)
	v.Set(key, value)

	next := &Config{}
	err := v.Unmarshal(next)
	if err == nil {
		err = Validate(next)
	}
	if err != nil {
		v.Set(key, previous)
		return fmt.Errorf("setting %s: %w", key, err)
	}
	cfg = next
	return nil
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. Changes that fail
// validation are reported to onChange and the previous values are kept.
func WatchConfig(onChange func(*Config, error)) {
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		err := v.Unmarshal(next)
		if err == nil {
			err = Validate(next)
		}
		if err == nil {
			cfg = next
		}
		if onChange != nil {
			onChange(cfg, err)
		}
	})
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if c.Agent.TopProducts <= 0 {
		return fmt.Errorf("agent.top_products must be positive")
	}
	if c.Agent.GoalBonus < 0 {
		return fmt.Errorf("agent.goal_bonus must be non-negative")
	}
	if c.Agent.ExploreFraction < 0 || c.Agent.ExploreFraction > 1 {
		return fmt.Errorf("agent.explore_fraction must be between 0 and 1")
	}
	if c.Agent.EarlyPhaseTurns < 0 {
		return fmt.Errorf("agent.early_phase_turns must be non-negative")
	}

	if c.Game.MaxTurns <= 0 {
		return fmt.Errorf("game.max_turns must be positive")
	}
	if c.Game.BlackMarketPenalty < 0 {
		return fmt.Errorf("game.black_market_penalty must be non-negative")
	}
	if c.Game.InterestRate < 0 {
		return fmt.Errorf("game.interest_rate must be non-negative")
	}
	if c.Game.HazardInterval <= 0 {
		return fmt.Errorf("game.hazard_interval must be positive")
	}
	if c.Game.RumoursPerTurn < 0 {
		return fmt.Errorf("game.rumours_per_turn must be non-negative")
	}

	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of trace, debug, info, warn, error")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json")
	}

	return nil
}
