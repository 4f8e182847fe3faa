package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for yamldiff
type Config struct {
	Output OutputConfig `yaml:"output"`
	Diff   DiffConfig   `yaml:"diff"`
}

// OutputConfig controls how differences are rendered
type OutputConfig struct {
	// Format is the default output format: text, json or yaml
	Format string `yaml:"format"`
	// Color enables colored text output
	Color bool `yaml:"color"`
	// Context is the number of source lines shown around each change
	Context int `yaml:"context"`
	// Quiet suppresses output entirely, leaving only the exit code
	Quiet bool `yaml:"quiet"`
}

// DiffConfig controls which differences are reported
type DiffConfig struct {
	// IgnorePaths holds regex patterns; changes whose rendered path
	// matches any of them are not reported
	IgnorePaths []string `yaml:"ignore_paths"`

	// compiled patterns (not serialized)
	ignoreRegexps []*regexp.Regexp
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Context: 0,
			Quiet:   false,
		},
		Diff: DiffConfig{
			IgnorePaths: []string{},
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Compile regex patterns
	if err := cfg.compilePatterns(); err != nil {
		return nil, fmt.Errorf("failed to compile patterns: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".yamldiff.yml", ".yamldiff.yaml", "yamldiff.yml", "yamldiff.yaml"}

	// Start from current directory
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		// Move up one directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// compilePatterns compiles all regex patterns in the config
func (c *Config) compilePatterns() error {
	c.Diff.ignoreRegexps = make([]*regexp.Regexp, 0, len(c.Diff.IgnorePaths))
	for _, pattern := range c.Diff.IgnorePaths {
		regex, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid ignore pattern '%s': %w", pattern, err)
		}
		c.Diff.ignoreRegexps = append(c.Diff.ignoreRegexps, regex)
	}
	return nil
}

// AddIgnorePatterns appends additional patterns (from CLI flags) to the
// compiled ignore set
func (c *Config) AddIgnorePatterns(patterns []string) error {
	for _, pattern := range patterns {
		regex, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid ignore pattern '%s': %w", pattern, err)
		}
		c.Diff.IgnorePaths = append(c.Diff.IgnorePaths, pattern)
		c.Diff.ignoreRegexps = append(c.Diff.ignoreRegexps, regex)
	}
	return nil
}

// IgnorePatterns returns the compiled ignore patterns
func (c *Config) IgnorePatterns() []*regexp.Regexp {
	return c.Diff.ignoreRegexps
}

// CLIOverrides carries flag values together with whether each flag was
// actually given on the command line. The Set booleans let an explicit
// flag override the config file even when its value equals the flag
// default, e.g. `--format text` against a file that says json.
type CLIOverrides struct {
	Format     string
	FormatSet  bool
	Context    int
	ContextSet bool
	Quiet      bool
	QuietSet   bool
	NoColor    bool
	NoColorSet bool
	Ignore     []string
}

// LoadConfigWithCLI loads config with CLI argument precedence. The
// config file provides defaults; flags that were given on the command
// line override them.
func LoadConfigWithCLI(configPath string, overrides CLIOverrides) (*Config, error) {
	// Start with defaults
	cfg := NewConfig()

	// Load config file: explicit path, or the first one discovered
	if configPath == "" {
		configPath = FindConfigFile()
	}
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	// Apply only the flags that were explicitly given
	if overrides.FormatSet {
		cfg.Output.Format = overrides.Format
	}
	if overrides.ContextSet {
		cfg.Output.Context = overrides.Context
	}
	if overrides.QuietSet {
		cfg.Output.Quiet = overrides.Quiet
	}
	if overrides.NoColorSet {
		cfg.Output.Color = !overrides.NoColor
	}
	if err := cfg.AddIgnorePatterns(overrides.Ignore); err != nil {
		return nil, err
	}

	return cfg, nil
}
