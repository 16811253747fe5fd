// Package config loads flowkit settings from the JSON file named by a host
// environment variable.
//
// The host exports the path to a flow-level JSON settings file through an
// environment variable (SwitchConfig by default). Configuration is loaded once
// at process start and treated as immutable; components receive the Config
// value explicitly rather than reading a package-level global.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultEnvVar is the environment variable the host sets to the settings path.
const DefaultEnvVar = "SwitchConfig"

// Well-known settings keys.
const (
	KeyTempMetadataFileLocation = "TempMetadataFileLocation"
)

// Config is a flat settings mapping parsed from the host's JSON file.
type Config struct {
	source   string
	settings map[string]string
}

// Load reads the settings file named by DefaultEnvVar.
func Load() (*Config, error) {
	return LoadFromEnv(DefaultEnvVar)
}

// LoadFromEnv reads the settings file named by the given environment variable.
// The variable must be set and must point to a .json file; both are checked
// before any file I/O happens.
func LoadFromEnv(envVar string) (*Config, error) {
	path, ok := os.LookupEnv(envVar)
	if !ok || strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("environment variable %s is not set", envVar)
	}
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return nil, fmt.Errorf("config path %q must end in .json", path)
	}
	return LoadFile(path)
}

// LoadFile parses the settings file at path as a flat JSON object. Non-string
// values are rendered back to their JSON text so callers see a uniform
// string mapping.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	settings := make(map[string]string, len(raw))
	for key, val := range raw {
		var s string
		if err := json.Unmarshal(val, &s); err == nil {
			settings[key] = s
			continue
		}
		settings[key] = strings.TrimSpace(string(val))
	}

	return &Config{source: path, settings: settings}, nil
}

// Source returns the path the configuration was loaded from.
func (c *Config) Source() string {
	return c.source
}

// Get returns the value for key and whether it was present.
func (c *Config) Get(key string) (string, bool) {
	val, ok := c.settings[key]
	return val, ok
}

// GetDefault returns the value for key, or fallback when absent.
func (c *Config) GetDefault(key, fallback string) string {
	if val, ok := c.settings[key]; ok {
		return val
	}
	return fallback
}

// TempMetadataFileLocation returns the directory datasets and temp metadata
// files are written to. Empty when the host did not configure one.
func (c *Config) TempMetadataFileLocation() string {
	return c.settings[KeyTempMetadataFileLocation]
}

// Keys returns the setting names present in the file.
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.settings))
	for k := range c.settings {
		keys = append(keys, k)
	}
	return keys
}
