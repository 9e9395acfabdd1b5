// Package config provides the decoder's runtime configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/sarchlab/sicxe/cache"
	"github.com/sarchlab/sicxe/insts"
)

// SchemaVersion is the version written by SaveConfig.
const SchemaVersion = "1.0.0"

// schemaConstraint lists the schema versions this build can read.
const schemaConstraint = "^1.0.0"

// Config holds register defaults and runtime settings.
type Config struct {
	// SchemaVersion is the semantic version of the file layout.
	SchemaVersion string `json:"schema_version"`

	// PC is the program counter used for PC-relative addressing.
	// Default: 0x3000.
	PC uint32 `json:"pc"`

	// Base is the base register used for base-relative addressing.
	// Default: 0x6000.
	Base uint32 `json:"base"`

	// Sample is decoded when the user enters an empty line.
	// Default: "032600".
	Sample string `json:"sample"`

	// Workers bounds concurrent decodes when checking exercise sheets.
	// Default: 4.
	Workers int `json:"workers"`

	// CacheSets and CacheWays set the decode cache geometry.
	// Default: 64 sets, 4 ways.
	CacheSets int `json:"cache_sets"`
	CacheWays int `json:"cache_ways"`
}

// DefaultConfig returns a Config with the classroom defaults.
func DefaultConfig() *Config {
	cacheConfig := cache.DefaultConfig()

	return &Config{
		SchemaVersion: SchemaVersion,
		PC:            0x3000,
		Base:          0x6000,
		Sample:        "032600",
		Workers:       4,
		CacheSets:     cacheConfig.Sets,
		CacheWays:     cacheConfig.Ways,
	}
}

// LoadConfig loads a Config from a JSON file. Fields missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the schema version and settings.
func (c *Config) Validate() error {
	version, err := semver.NewVersion(c.SchemaVersion)
	if err != nil {
		return fmt.Errorf("invalid schema_version %q: %w", c.SchemaVersion, err)
	}
	constraint, err := semver.NewConstraint(schemaConstraint)
	if err != nil {
		return fmt.Errorf("invalid schema constraint: %w", err)
	}
	if !constraint.Check(version) {
		return fmt.Errorf("unsupported schema_version %s, want %s", version, schemaConstraint)
	}

	if c.Sample != "" {
		if _, err := insts.ParseEncoding(c.Sample); err != nil {
			return fmt.Errorf("invalid sample: %w", err)
		}
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0")
	}
	if c.CacheSets <= 0 {
		return fmt.Errorf("cache_sets must be > 0")
	}
	if c.CacheWays <= 0 {
		return fmt.Errorf("cache_ways must be > 0")
	}
	return nil
}

// CacheConfig returns the decode cache geometry.
func (c *Config) CacheConfig() cache.Config {
	return cache.Config{Sets: c.CacheSets, Ways: c.CacheWays}
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ParseRegister parses a register value given as hex, with or without a
// 0x prefix ("003000", "0x3000").
func ParseRegister(s string) (uint32, error) {
	digits := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid register value %q: %w", s, err)
	}
	return uint32(v), nil
}
