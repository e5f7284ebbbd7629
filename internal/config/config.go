package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const configBaseName = ".injectgen"

// Config represents the injectgen configuration
type Config struct {
	// Code style of generated text
	Style StyleConfig `json:"style" yaml:"style" toml:"style"`

	// How files are written
	Write WriteConfig `json:"write" yaml:"write" toml:"write"`

	// Project layout used to resolve components and services
	Project ProjectConfig `json:"project" yaml:"project" toml:"project"`

	// Maximum number of files patched in parallel
	Concurrency int `json:"concurrency" yaml:"concurrency" toml:"concurrency"`
}

// StyleConfig contains code style settings
type StyleConfig struct {
	// Quote style for import specifiers: single or double
	Quote string `json:"quote" yaml:"quote" toml:"quote"`

	// Number of spaces per indentation level
	Indent int `json:"indent" yaml:"indent" toml:"indent"`

	// Whether generated constructors carry a usage comment
	UsageHint bool `json:"usage_hint" yaml:"usage_hint" toml:"usage_hint"`
}

// WriteConfig contains file writing settings
type WriteConfig struct {
	// Keep <file>.backup with the original content
	Backup bool `json:"backup" yaml:"backup" toml:"backup"`

	// Report changes without writing
	DryRun bool `json:"dry_run" yaml:"dry_run" toml:"dry_run"`

	// How long to wait for another process holding a file, e.g. "5s"
	LockTimeout string `json:"lock_timeout" yaml:"lock_timeout" toml:"lock_timeout"`
}

// ProjectConfig describes the project layout
type ProjectConfig struct {
	// Directory holding one folder per component or service
	SourceRoot string `json:"source_root" yaml:"source_root" toml:"source_root"`

	// Suffix of dependency classes and files, e.g. service
	Suffix string `json:"suffix" yaml:"suffix" toml:"suffix"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Style: StyleConfig{
			Quote:     "single",
			Indent:    2,
			UsageHint: true,
		},
		Write: WriteConfig{
			Backup:      false,
			DryRun:      false,
			LockTimeout: "5s",
		},
		Project: ProjectConfig{
			SourceRoot: filepath.Join("src", "app"),
			Suffix:     "service",
		},
		Concurrency: 4,
	}
}

// QuoteChar returns the quote character for import specifiers.
func (s StyleConfig) QuoteChar() string {
	if s.Quote == "double" {
		return `"`
	}
	return "'"
}

// IndentString returns one level of indentation.
func (s StyleConfig) IndentString() string {
	return strings.Repeat(" ", s.Indent)
}

// LockTimeoutDuration parses LockTimeout. Zero means the host default.
func (w WriteConfig) LockTimeoutDuration() (time.Duration, error) {
	if w.LockTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(w.LockTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid lock_timeout %q: %w", w.LockTimeout, err)
	}
	return d, nil
}

// Validate checks that the configuration values are usable
func (c *Config) Validate() error {
	switch c.Style.Quote {
	case "single", "double":
	default:
		return fmt.Errorf("invalid style.quote %q: must be single or double", c.Style.Quote)
	}
	if c.Style.Indent < 1 || c.Style.Indent > 8 {
		return fmt.Errorf("invalid style.indent %d: must be between 1 and 8", c.Style.Indent)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("invalid concurrency %d: must be at least 1", c.Concurrency)
	}
	if _, err := c.Write.LockTimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// LoadConfig loads configuration from a file
func LoadConfig(configPath string) (*Config, error) {
	// Start with default config
	config := DefaultConfig()

	// If no config file specified, try to find one
	if configPath == "" {
		configPath = findConfigFile()
	}

	// If still no config file, return default
	if configPath == "" {
		return config, nil
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := decode(configPath, data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return config, nil
}

func decode(path string, data []byte, config *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, config)
	case ".toml":
		_, err := toml.Decode(string(data), config)
		return err
	case ".json":
		return json.Unmarshal(data, config)
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

// Marshal encodes config in the format implied by the extension of path.
func Marshal(config *Config, path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Marshal(config)
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(config); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case ".json":
		return json.MarshalIndent(config, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

// SaveConfig saves configuration to a file
func SaveConfig(config *Config, configPath string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := Marshal(config, configPath)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

var configExtensions = []string{".yaml", ".yml", ".toml", ".json"}

// findConfigFile looks for config files in common locations
func findConfigFile() string {
	// Current directory
	if found := findIn("."); found != "" {
		return found
	}

	// Home directory
	if homeDir, err := os.UserHomeDir(); err == nil {
		return findIn(homeDir)
	}

	return ""
}

func findIn(dir string) string {
	for _, ext := range configExtensions {
		candidate := filepath.Join(dir, configBaseName+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// GetConfigPath returns the config file path to use
func GetConfigPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}

	found := findConfigFile()
	if found != "" {
		return found
	}

	// Default location
	return configBaseName + ".yaml"
}
