package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied by validateConfig when the corresponding
// fields are left unset.
const (
	DefaultLogLevel         = "info"
	DefaultRepetitions      = 1
	DefaultMeasurementTimeS = 60.0
)

// ParseConfigYAML parses a Config from YAML bytes and validates it.
// This is used when the experiment definition is provided as payload
// rather than via the filesystem.
func ParseConfigYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// ParseConfigYAMLString parses a Config from a YAML string and validates it.
func ParseConfigYAMLString(yamlText string) (*Config, error) {
	return ParseConfigYAML([]byte(yamlText))
}

// LoadConfig loads and parses an experiment configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfigYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// validateConfig performs validation on the configuration and fills
// in defaults for optional fields
func validateConfig(cfg *Config) error {
	if cfg.Name == "" {
		return fmt.Errorf("experiment name cannot be empty")
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	if cfg.Repetitions == 0 {
		cfg.Repetitions = DefaultRepetitions
	}
	if cfg.Repetitions < 0 {
		return fmt.Errorf("repetitions cannot be negative, got %d", cfg.Repetitions)
	}

	if cfg.SimTMax == nil {
		return fmt.Errorf("sim_t_max must be specified")
	}
	limits, err := ExpandParameters(cfg.SimTMax)
	if err != nil {
		return fmt.Errorf("invalid sim_t_max: %w", err)
	}
	for _, t := range limits {
		if t <= 0 {
			return fmt.Errorf("sim_t_max values must be positive, got %f", t)
		}
	}

	if cfg.MeasurementTimeS == 0 {
		cfg.MeasurementTimeS = DefaultMeasurementTimeS
	}
	if cfg.MeasurementTimeS < 0 {
		return fmt.Errorf("measurement_time_s cannot be negative, got %f", cfg.MeasurementTimeS)
	}

	modules := []struct {
		section string
		m       Module
	}{
		{"pmodel", cfg.PModel},
		{"selector", cfg.Selector},
		{"predictor", cfg.Predictor},
		{"error", cfg.Error},
	}
	for _, entry := range modules {
		if entry.m.Name == "" {
			return fmt.Errorf("%s: module name cannot be empty", entry.section)
		}
	}

	return nil
}
