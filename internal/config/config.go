// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"nlconvert/internal/errors"
	"nlconvert/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Table contains conversion table configuration
	Table TableConfig `json:"table"`

	// Parser contains quantity parser configuration
	Parser ParserConfig `json:"parser"`

	// Format contains number formatting configuration
	Format FormatConfig `json:"format"`

	// Server contains HTTP API configuration
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format"`

	// NoColor disables ANSI colors in cli output
	NoColor bool `json:"no_color"`
}

// TableConfig contains conversion table settings
type TableConfig struct {
	// Path is an HCL unit table replacing the built-in one
	Path string `json:"path,omitempty"`

	// StrictLabels fails the table load on any label collision
	StrictLabels bool `json:"strict_labels"`
}

// ParserConfig contains quantity parser settings
type ParserConfig struct {
	// AllowZero lets a quantity of exactly 0 be converted
	AllowZero bool `json:"allow_zero"`
}

// FormatConfig contains number formatting settings
type FormatConfig struct {
	// Locale is the BCP 47 tag used for digit grouping
	Locale string `json:"locale"`
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Output: OutputConfig{
			DefaultFormat: "cli",
			NoColor:       false,
		},
		Table: TableConfig{
			StrictLabels: true,
		},
		Parser: ParserConfig{
			AllowZero: false,
		},
		Format: FormatConfig{
			Locale: "en",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns $HOME/.nlconvert.json
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".nlconvert.json"
	}
	return filepath.Join(homeDir, ".nlconvert.json")
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrapf(errors.TypeConfig, err, "read %s", path)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Wrapf(errors.TypeConfig, err, "decode %s", path)
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
