// Package config loads the weft CLI configuration from weft.yml with
// environment variable overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the weft CLI configuration
type Config struct {
	Registry RegistryConfig `mapstructure:"registry"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Log      LogConfig      `mapstructure:"log"`
}

// RegistryConfig configures where directive definitions are loaded from
type RegistryConfig struct {
	Paths []string    `mapstructure:"paths"`
	Cache CacheConfig `mapstructure:"cache"`
}

// CacheConfig configures the optional memoization cache
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Size    int  `mapstructure:"size"`
}

// EngineConfig configures transform behavior
type EngineConfig struct {
	StandardVersion string `mapstructure:"standard_version"`
	Strict          bool   `mapstructure:"strict"`
}

// LogConfig configures logging output
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads the configuration from weft.yml or weft.yaml
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("registry.paths", []string{"./directives"})
	v.SetDefault("registry.cache.enabled", true)
	v.SetDefault("registry.cache.size", 512)
	v.SetDefault("engine.standard_version", "")
	v.SetDefault("engine.strict", true)
	v.SetDefault("log.level", "info")

	// Set config name and paths
	v.SetConfigName("weft")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Enable environment variable support (WEFT_ENGINE_STRICT etc.)
	v.SetEnvPrefix("weft")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	if len(config.Registry.Paths) == 0 {
		return fmt.Errorf("registry.paths must name at least one directory")
	}
	switch config.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.Log.Level)
	}
	if config.Registry.Cache.Size < 0 {
		return fmt.Errorf("registry.cache.size must be non-negative, got %d", config.Registry.Cache.Size)
	}
	return nil
}
