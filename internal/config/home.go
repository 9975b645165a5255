package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeDirName is the per-project directory holding config and history
const HomeDirName = ".featurelist"

// HomeEnvVar overrides the home directory when set
const HomeEnvVar = "FEATURELIST_HOME"

// HomeDir returns the featurelist home directory
// Priority order:
//  1. FEATURELIST_HOME environment variable (if set)
//  2. <workDir>/.featurelist
//
// The directory is created if it doesn't exist
func HomeDir(workDir string) (string, error) {
	home := os.Getenv(HomeEnvVar)
	if home == "" {
		home = filepath.Join(workDir, HomeDirName)
	}

	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create home directory: %w", err)
	}
	return home, nil
}

// HistoryDBPath returns the absolute history database path for cfg
// Relative db_path values are resolved against the home directory
func HistoryDBPath(cfg *Config, workDir string) (string, error) {
	if cfg.History.DBPath == ":memory:" || filepath.IsAbs(cfg.History.DBPath) {
		return cfg.History.DBPath, nil
	}

	home, err := HomeDir(workDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(home, cfg.History.DBPath), nil
}

// LogDir returns the build log directory for cfg
// Relative log_dir values are resolved against workDir
func LogDir(cfg *Config, workDir string) (string, error) {
	if cfg.LogDir != "" {
		if filepath.IsAbs(cfg.LogDir) {
			return cfg.LogDir, nil
		}
		return filepath.Join(workDir, cfg.LogDir), nil
	}

	home, err := HomeDir(workDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "logs"), nil
}
