package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultOutput is the catalog document written when no output is configured
const DefaultOutput = "feature_list.json"

// HistoryConfig represents build history configuration
type HistoryConfig struct {
	// Enabled records every catalog write in the history database
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database (relative to the home dir)
	DBPath string `yaml:"db_path"`
}

// PhaseConfig describes one build phase: its batches are added, then the
// catalog is written
type PhaseConfig struct {
	// Name labels the phase in logs and history
	Name string `yaml:"name"`

	// Sources are batch files or directories, relative to the working directory
	Sources []string `yaml:"sources"`
}

// Config represents featurelist configuration options
type Config struct {
	// Project is the catalog's project name
	Project string `yaml:"project"`

	// Version is the catalog's version string
	Version string `yaml:"version"`

	// Output is the path of the catalog document
	Output string `yaml:"output"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is where build logs are written; empty means <home>/logs
	LogDir string `yaml:"log_dir"`

	// History contains build history configuration
	History HistoryConfig `yaml:"history"`

	// Phases lists the build phases in order; empty means the embedded catalog
	Phases []PhaseConfig `yaml:"phases"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Project:  "",
		Version:  "",
		Output:   DefaultOutput,
		LogLevel: "info",
		History: HistoryConfig{
			Enabled: true,
			DBPath:  "history.db",
		},
	}
}

// UsesEmbeddedPhases reports whether the build falls back to the embedded catalog
func (c *Config) UsesEmbeddedPhases() bool {
	return len(c.Phases) == 0
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if fileCfg.Project != "" {
		cfg.Project = fileCfg.Project
	}
	if fileCfg.Version != "" {
		cfg.Version = fileCfg.Version
	}
	if fileCfg.Output != "" {
		cfg.Output = fileCfg.Output
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.LogDir != "" {
		cfg.LogDir = fileCfg.LogDir
	}
	if len(fileCfg.Phases) > 0 {
		cfg.Phases = fileCfg.Phases
	}

	// history.enabled may be an explicit false, so check which keys are present
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if historySection, exists := rawMap["history"]; exists && historySection != nil {
			historyMap, _ := historySection.(map[string]interface{})

			if _, exists := historyMap["enabled"]; exists {
				cfg.History.Enabled = fileCfg.History.Enabled
			}
			if _, exists := historyMap["db_path"]; exists {
				cfg.History.DBPath = fileCfg.History.DBPath
			}
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .featurelist/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, HomeDirName, "config.yaml"))
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(output *string, logLevel *string, noHistory *bool) {
	if output != nil {
		c.Output = *output
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if noHistory != nil && *noHistory {
		c.History.Enabled = false
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if c.Output == "" {
		return fmt.Errorf("output cannot be empty")
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history.db_path cannot be empty when history is enabled")
	}

	seen := make(map[string]bool)
	for i, p := range c.Phases {
		if p.Name == "" {
			return fmt.Errorf("phases[%d]: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("phases[%d]: duplicate phase name %q", i, p.Name)
		}
		seen[p.Name] = true
		if len(p.Sources) == 0 {
			return fmt.Errorf("phase %q: at least one source is required", p.Name)
		}
	}

	return nil
}
