// internal/config/validation.go - Configuration validation
package config

import (
	"fmt"
	"strings"
)

// Validate checks that every configuration section holds a legal value.
func Validate(config *Config) error {
	if err := validateDecode(&config.Decode); err != nil {
		return fmt.Errorf("decode configuration invalid: %w", err)
	}
	if err := validateEncode(&config.Encode); err != nil {
		return fmt.Errorf("encode configuration invalid: %w", err)
	}
	if err := validateLogging(&config.Logging); err != nil {
		return fmt.Errorf("logging configuration invalid: %w", err)
	}
	return nil
}

func validateDecode(config *DecodeConfig) error {
	if config.Dimensions != 2 && config.Dimensions != 3 {
		return fmt.Errorf("dimensions must be 2 or 3, got %d", config.Dimensions)
	}
	if config.MaxGeometricAttributes < 0 {
		return fmt.Errorf("max_geometric_attributes must be non-negative")
	}
	return nil
}

func validateEncode(config *EncodeConfig) error {
	if config.DefaultVersion < 1 || config.DefaultVersion > 3 {
		return fmt.Errorf("default_version must be 1, 2, or 3, got %d", config.DefaultVersion)
	}
	if config.DefaultExtent == 0 {
		return fmt.Errorf("default_extent must be positive")
	}
	return nil
}

func validateLogging(config *LoggingConfig) error {
	validLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	if !contains(validLevels, config.Level) {
		return fmt.Errorf("invalid log level: %s, must be one of %v", config.Level, validLevels)
	}

	validFormats := []string{"text", "json"}
	if !contains(validFormats, config.Format) {
		return fmt.Errorf("invalid log format: %s, must be one of %v", config.Format, validFormats)
	}

	validOutputs := []string{"stdout", "stderr", "file"}
	if !contains(validOutputs, config.Output) {
		return fmt.Errorf("invalid log output: %s, must be one of %v", config.Output, validOutputs)
	}

	return nil
}

// contains checks if a string slice contains a specific string (case-insensitive).
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
