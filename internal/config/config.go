// Package config handles launcher configuration loading and persistence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultIconURL is the launcher icon fetched on first shortcut creation.
const DefaultIconURL = "https://cdn2.steamgriddb.com/icon/8d9a15b55c2ac9becb69a52624396966.png"

// Config holds the user-adjustable launcher settings.
type Config struct {
	// BaseInstallDir is the directory game builds are installed under.
	BaseInstallDir string `toml:"base_install_dir"`

	// IconURL is where the launcher icon is downloaded from.
	IconURL string `toml:"icon_url"`

	// IconPath is where the downloaded icon is cached.
	IconPath string `toml:"icon_path"`

	// Quiet disables audio cues.
	Quiet bool `toml:"quiet"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		BaseInstallDir: filepath.Join(home, "Applications"),
		IconURL:        DefaultIconURL,
		IconPath:       filepath.Join(home, "Pictures", "pplus.png"),
		Quiet:          false,
	}
}

// Path returns the location of the config file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "projectplus-updater", "config.toml"), nil
}

// Load reads the config file at path. A missing file is not an error;
// defaults are returned instead.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	// Fill any fields the file left empty.
	def := Default()
	if cfg.BaseInstallDir == "" {
		cfg.BaseInstallDir = def.BaseInstallDir
	}
	if cfg.IconURL == "" {
		cfg.IconURL = def.IconURL
	}
	if cfg.IconPath == "" {
		cfg.IconPath = def.IconPath
	}

	return cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
