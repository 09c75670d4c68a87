package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the game cannot run with.
func (c *Config) Validate() error {
	switch c.Game.Difficulty {
	case "easy", "medium", "hard":
	default:
		return fmt.Errorf("invalid difficulty %q: want easy, medium or hard", c.Game.Difficulty)
	}
	if c.Game.Laps < 1 {
		return fmt.Errorf("invalid lap count %d", c.Game.Laps)
	}
	if c.Graphics.MSAA < 0 || c.Graphics.MSAA > 16 {
		return fmt.Errorf("invalid msaa sample count %d", c.Graphics.MSAA)
	}
	if c.Game.PowerUpDuration <= 0 {
		return fmt.Errorf("invalid power-up duration %v", c.Game.PowerUpDuration)
	}
	return nil
}

// ScenePath joins a scene file name with the configured scene directory.
func (c *Config) ScenePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Game.SceneDir, name)
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	home, err := homedir.Dir()
	if err != nil {
		home = os.TempDir()
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Racer")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Racer")
		}
		return filepath.Join(home, "AppData", "Roaming", "Racer")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "racer")
		}
		return filepath.Join(home, ".config", "racer")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
