// Package config loads mvtinspect's runtime configuration from flags,
// environment variables, and an optional config file, via viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the complete application configuration for the mvtinspect CLI
// and anything else in this module that needs defaults for decoding or
// encoding vector tiles.
type Config struct {
	Decode  DecodeConfig  `mapstructure:"decode"`
	Encode  EncodeConfig  `mapstructure:"encode"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// DecodeConfig controls how a Handler is configured when reading tiles:
// whether it asks for 3D geometry and how many geometric attributes per
// vertex it is willing to accept (spec 4.4 capability declarations).
type DecodeConfig struct {
	Dimensions             int `mapstructure:"dimensions"`
	MaxGeometricAttributes int `mapstructure:"max_geometric_attributes"`
}

// EncodeConfig holds encode-side defaults (layer version and extent). It is
// loaded and validated with the rest of the configuration; TileBuilder and
// LayerBuilder do not read it.
type EncodeConfig struct {
	DefaultVersion uint32 `mapstructure:"default_version"`
	DefaultExtent  uint32 `mapstructure:"default_extent"`
}

// LoggingConfig contains structured-logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Load reads configuration from viper (flags, environment, optional config
// file already bound by the caller) and validates it.
func Load() (*Config, error) {
	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("decode.dimensions", 2)
	viper.SetDefault("decode.max_geometric_attributes", 0)

	viper.SetDefault("encode.default_version", 3)
	viper.SetDefault("encode.default_extent", 4096)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.output", "stderr")
}
