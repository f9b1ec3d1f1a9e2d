package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/stowage/internal/farkle"
)

// Config is the CLI configuration. Values come from the config file, then
// the environment, then command-line flags, each overriding the previous.
type Config struct {
	// File is the settings file the session reads and writes.
	File string `toml:"file" env:"STOWAGE_FILE"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `toml:"log_level" env:"STOWAGE_LOG_LEVEL"`

	// DefaultPackage is the package whose type names are written unqualified.
	DefaultPackage string `toml:"default_package" env:"STOWAGE_DEFAULT_PACKAGE"`
}

// defaultConfig returns the configuration used when nothing is set.
func defaultConfig() (Config, error) {
	dir, err := dataDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		File:           filepath.Join(dir, farkle.DefaultFileName),
		LogLevel:       "info",
		DefaultPackage: farkle.Package,
	}, nil
}

// loadConfig reads the config file at path (the default location when
// empty) and applies environment overrides. A missing file is not an error.
func loadConfig(path string) (Config, error) {
	cfg, err := defaultConfig()
	if err != nil {
		return Config{}, err
	}

	if path == "" {
		if path, err = configPath(); err != nil {
			return Config{}, err
		}
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// level returns the configured log level.
func (c Config) level() (log.Level, error) {
	if c.LogLevel == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/stowage/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// configPath returns the default config file location.
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// dataDir returns the data directory using XDG standard (~/.local/share/stowage/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/stowage/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
