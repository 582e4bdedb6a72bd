// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/H0llyW00dzZ/tls-trust-path-builder/src/internal/x509/trustpath"
	"gopkg.in/yaml.v3"
)

// configFormat represents supported configuration file formats.
type configFormat int

const (
	// configFormatJSON represents JSON configuration format (.json)
	configFormatJSON configFormat = iota
	// configFormatYAML represents YAML configuration format (.yaml, .yml)
	configFormatYAML
)

// Config represents the MCP server configuration structure.
// It contains default settings for trust path evaluation.
//
// The configuration can be loaded from a JSON or YAML file specified by the
// MCP_TRUSTPATH_CONFIG_FILE environment variable, with defaults applied for
// any missing values. Supported file extensions: .json, .yaml, .yml
type Config struct {
	// Defaults: Default settings for trust path operations
	Defaults struct {
		// Format: Default output format for resolved trust paths
		Format string `json:"format" yaml:"format"`
		// Port: Default TLS port for remote bag capture
		Port int `json:"port" yaml:"port"`
		// Timeout: Default timeout in seconds for remote operations
		Timeout int `json:"timeoutSeconds" yaml:"timeoutSeconds"`
	} `json:"defaults" yaml:"defaults"`

	// Cache: Settings for the shared verified-link cache
	Cache struct {
		// MaxLinks: Maximum number of verified-link results to keep (0 = unlimited)
		MaxLinks int `json:"maxLinks" yaml:"maxLinks"`
	} `json:"cache" yaml:"cache"`
}

// detectConfigFormat determines the configuration file format based on file extension.
// It supports .json, .yaml, and .yml extensions for flexible configuration management.
//
// Parameters:
//   - configPath: Path to the configuration file
//
// Returns:
//   - configFormat: The detected format (configFormatJSON or configFormatYAML)
//
// The function uses case-insensitive extension matching for cross-platform compatibility.
func detectConfigFormat(configPath string) configFormat {
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		return configFormatYAML
	default:
		return configFormatJSON
	}
}

// unmarshalConfig unmarshals configuration data based on the specified format.
// It supports both JSON and YAML formats for configuration flexibility.
//
// Parameters:
//   - data: Raw configuration file contents
//   - config: Pointer to Config struct to populate
//   - format: The configuration format (configFormatJSON or configFormatYAML)
//
// Returns:
//   - error: Any parsing error encountered during unmarshaling
func unmarshalConfig(data []byte, config *Config, format configFormat) error {
	switch format {
	case configFormatYAML:
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	return nil
}

// loadConfig loads MCP server configuration from a JSON or YAML file or applies defaults.
//
// Parameters:
//   - configPath: Path to the configuration file (optional, can be empty)
//     Supported formats: .json, .yaml, .yml
//
// Returns:
//   - A pointer to the loaded Config struct with defaults applied
//   - An error if the configuration file cannot be read or parsed
//
// Configuration Priority:
//  1. Default values are set
//  2. MCP_TRUSTPATH_CONFIG_FILE environment variable is checked if configPath is empty
//  3. Config file values override defaults (if file exists and is valid)
//
// The file format is automatically detected based on the file extension
// (.json, .yaml, or .yml). The verified-link cache limit is applied as a side
// effect so every tool invocation shares the configured cache size.
func loadConfig(configPath string) (*Config, error) {
	config := &Config{}

	// Set defaults
	config.Defaults.Format = "pem"
	config.Defaults.Port = 443
	config.Defaults.Timeout = 30
	config.Cache.MaxLinks = trustpath.GetLinkCacheConfig().MaxSize

	// Check environment variable for config file path if not provided
	if configPath == "" {
		configPath = os.Getenv("MCP_TRUSTPATH_CONFIG_FILE")
	}

	// Try to load from file if path is provided
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Detect format and unmarshal accordingly
		format := detectConfigFormat(configPath)
		if err := unmarshalConfig(data, config, format); err != nil {
			return nil, err
		}

		// Validate and set defaults for invalid values
		if config.Defaults.Format == "" {
			config.Defaults.Format = "pem"
		}
		if config.Defaults.Port <= 0 || config.Defaults.Port > 65535 {
			config.Defaults.Port = 443
		}
		if config.Defaults.Timeout <= 0 {
			config.Defaults.Timeout = 30
		}
		if config.Cache.MaxLinks < 0 {
			config.Cache.MaxLinks = 0
		}
	}

	trustpath.SetLinkCacheConfig(&trustpath.LinkCacheConfig{MaxSize: config.Cache.MaxLinks})

	return config, nil
}
