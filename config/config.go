// Package config provides YAML configuration parsing for districtboard.
//
// This package enables running districtboard as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	port: 8080
//
//	districts:
//	  - id: A
//	    name: North Ward
//	  - B
//	  - C
//
//	persistence:
//	  backend: file
//	  path: district-status.json
//
// The district list can instead be derived from a GeoJSON file shared with
// the map frontend:
//
//	geojson: data/city.geojson
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for districtboard.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`

	// Districts is the known-district enumeration. Each entry is either a
	// bare identifier or an {id, name} mapping. Mutually exclusive with
	// GeoJSON.
	Districts []DistrictConfig `yaml:"districts"`

	// GeoJSON is a path to a GeoJSON FeatureCollection whose feature names
	// supply the district list. Mutually exclusive with Districts.
	GeoJSON string `yaml:"geojson"`

	// Persistence selects and configures the durable snapshot backend.
	Persistence PersistenceConfig `yaml:"persistence"`
}

// DistrictConfig defines one district.
type DistrictConfig struct {
	// ID is the district identifier the status store is keyed by.
	ID string

	// Name is the optional human-readable display name.
	Name string
}

// UnmarshalYAML implements yaml.Unmarshaler for DistrictConfig. It accepts
// either a bare scalar identifier or an {id, name} mapping.
func (d *DistrictConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&d.ID)
	}

	if node.Kind == yaml.MappingNode {
		// temporary struct to avoid infinite recursion
		var raw struct {
			ID   string `yaml:"id"`
			Name string `yaml:"name"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		d.ID = raw.ID
		d.Name = raw.Name
		return nil
	}

	return fmt.Errorf("district must be a string or object, got %v", node.Kind)
}

// PersistenceConfig selects the durable snapshot backend.
type PersistenceConfig struct {
	// Backend is "file" or "redis". Defaults to "file".
	Backend string `yaml:"backend"`

	// Path is the snapshot file path for the file backend.
	// Defaults to "district-status.json".
	Path string `yaml:"path"`

	// Redis configures the redis backend.
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig configures the redis persistence backend.
type RedisConfig struct {
	// Addr is the server address, host:port.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	Addr string `yaml:"addr"`

	// DB is the redis database number.
	DB int `yaml:"db"`

	// Key is the key the snapshot document is stored under.
	// Defaults to "districtboard:status".
	Key string `yaml:"key"`
}

// Backend names accepted by PersistenceConfig.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before validation.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in paths and the redis address.
// Defaults are applied for Port (8080), Persistence.Backend ("file"), and
// Persistence.Path ("district-status.json").
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.Persistence.Backend == "" {
		cfg.Persistence.Backend = BackendFile
	}
	if cfg.Persistence.Path == "" {
		cfg.Persistence.Path = "district-status.json"
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if len(c.Districts) == 0 && c.GeoJSON == "" {
		return errors.New("either districts or geojson must be set")
	}
	if len(c.Districts) > 0 && c.GeoJSON != "" {
		return errors.New("districts and geojson are mutually exclusive")
	}

	seen := make(map[string]struct{}, len(c.Districts))
	for i, d := range c.Districts {
		if d.ID == "" {
			return fmt.Errorf("districts[%d]: id is required", i)
		}
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("districts[%d]: duplicate id %q", i, d.ID)
		}
		seen[d.ID] = struct{}{}
	}

	if c.GeoJSON != "" {
		expanded, err := expandEnvVars(c.GeoJSON)
		if err != nil {
			return fmt.Errorf("geojson: %w", err)
		}
		c.GeoJSON = expanded
	}

	switch c.Persistence.Backend {
	case BackendFile:
		expanded, err := expandEnvVars(c.Persistence.Path)
		if err != nil {
			return fmt.Errorf("persistence.path: %w", err)
		}
		c.Persistence.Path = expanded

	case BackendRedis:
		if c.Persistence.Redis.Addr == "" {
			return errors.New("persistence.redis.addr is required for the redis backend")
		}
		expanded, err := expandEnvVars(c.Persistence.Redis.Addr)
		if err != nil {
			return fmt.Errorf("persistence.redis.addr: %w", err)
		}
		c.Persistence.Redis.Addr = expanded
		if c.Persistence.Redis.DB < 0 {
			return fmt.Errorf("persistence.redis.db must not be negative, got %d", c.Persistence.Redis.DB)
		}

	default:
		return fmt.Errorf("persistence.backend must be %q or %q, got %q",
			BackendFile, BackendRedis, c.Persistence.Backend)
	}

	return nil
}
