// Package config handles game configuration loading and management.
package config

import "time"

// Config holds all game settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Game     GameConfig     `yaml:"game"`
	Debug    DebugConfig    `yaml:"debug"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	MSAA       int  `yaml:"msaa"` // samples per pixel, 0 disables
}

// GameConfig holds gameplay settings.
type GameConfig struct {
	SceneDir          string        `yaml:"scene_dir"`
	MenuScene         string        `yaml:"menu_scene"`
	RaceScene         string        `yaml:"race_scene"`
	Laps              int           `yaml:"laps"`
	Difficulty        string        `yaml:"difficulty"` // easy, medium, hard
	PowerUpDuration   time.Duration `yaml:"powerup_duration"`
	PowerUpMultiplier float32       `yaml:"powerup_multiplier"`
	WatchScenes       bool          `yaml:"watch_scenes"` // reload scene files on change
}

// DebugConfig holds developer toggles.
type DebugConfig struct {
	ShowColliders bool `yaml:"show_colliders"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			MSAA:       4,
		},
		Game: GameConfig{
			SceneDir:          "scenes",
			MenuScene:         "menu.xml",
			RaceScene:         "race.xml",
			Laps:              3,
			Difficulty:        "medium",
			PowerUpDuration:   4 * time.Second,
			PowerUpMultiplier: 1.5,
			WatchScenes:       false,
		},
		Debug: DebugConfig{
			ShowColliders: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
