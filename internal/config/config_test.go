package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 || cfg.Graphics.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}
	if cfg.Game.Laps != 3 {
		t.Errorf("expected 3 laps, got %d", cfg.Game.Laps)
	}
	if cfg.Game.Difficulty != "medium" {
		t.Errorf("expected medium difficulty, got %s", cfg.Game.Difficulty)
	}
	if cfg.Game.PowerUpDuration != 4*time.Second {
		t.Errorf("expected power-up duration 4s, got %v", cfg.Game.PowerUpDuration)
	}
	if cfg.Debug.ShowColliders {
		t.Error("expected collider wireframes off by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

game:
  scene_dir: "assets/scenes"
  race_scene: "monaco.xml"
  laps: 5
  difficulty: "hard"
  powerup_duration: 2500ms
  powerup_multiplier: 2
  watch_scenes: true

debug:
  show_colliders: true

logging:
  level: "debug"
  log_file: "race.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || !cfg.Graphics.Fullscreen || cfg.Graphics.VSync {
		t.Errorf("graphics not loaded: %+v", cfg.Graphics)
	}
	if cfg.Game.SceneDir != "assets/scenes" || cfg.Game.RaceScene != "monaco.xml" {
		t.Errorf("scene paths not loaded: %+v", cfg.Game)
	}
	if cfg.Game.MenuScene != "menu.xml" {
		t.Errorf("menu scene should keep its default, got %s", cfg.Game.MenuScene)
	}
	if cfg.Game.Laps != 5 || cfg.Game.Difficulty != "hard" {
		t.Errorf("race settings not loaded: %+v", cfg.Game)
	}
	if cfg.Game.PowerUpDuration != 2500*time.Millisecond {
		t.Errorf("expected 2.5s power-up, got %v", cfg.Game.PowerUpDuration)
	}
	if cfg.Game.PowerUpMultiplier != 2 {
		t.Errorf("expected multiplier 2, got %v", cfg.Game.PowerUpMultiplier)
	}
	if !cfg.Game.WatchScenes || !cfg.Debug.ShowColliders {
		t.Error("expected watch_scenes and show_colliders to be enabled")
	}
	if cfg.Logging.LogFile != "race.log" {
		t.Errorf("expected log file 'race.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"easy", func(c *Config) { c.Game.Difficulty = "easy" }, false},
		{"unknown difficulty", func(c *Config) { c.Game.Difficulty = "insane" }, true},
		{"zero laps", func(c *Config) { c.Game.Laps = 0 }, true},
		{"no power-up time", func(c *Config) { c.Game.PowerUpDuration = 0 }, true},
		{"msaa off", func(c *Config) { c.Graphics.MSAA = 0 }, false},
		{"too many samples", func(c *Config) { c.Graphics.MSAA = 32 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScenePath(t *testing.T) {
	cfg := Default()
	cfg.Game.SceneDir = "scenes"
	if got := cfg.ScenePath("race.xml"); got != filepath.Join("scenes", "race.xml") {
		t.Errorf("ScenePath = %s", got)
	}
	abs := filepath.Join(string(filepath.Separator), "tmp", "x.xml")
	if got := cfg.ScenePath(abs); got != abs {
		t.Errorf("absolute paths should pass through, got %s", got)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("game:\n  laps: 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Debug.ShowColliders {
					t.Error("expected collider wireframes with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "race flags",
			setup: func() {
				*flagLaps = 7
				*flagDifficulty = "easy"
				*flagSceneDir = "/data/scenes"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Game.Laps != 7 || cfg.Game.Difficulty != "easy" || cfg.Game.SceneDir != "/data/scenes" {
					t.Errorf("race flags not applied: %+v", cfg.Game)
				}
			},
			teardown: func() {
				*flagLaps = 0
				*flagDifficulty = ""
				*flagSceneDir = ""
			},
		},
		{
			name:  "watch flag",
			setup: func() { *flagWatch = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Game.WatchScenes {
					t.Error("expected watch_scenes with watch flag")
				}
			},
			teardown: func() { *flagWatch = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
game:
  laps: 4
  difficulty: easy
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagLaps = 6
	defer func() {
		*flagConfig = ""
		*flagLaps = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Game.Laps != 6 {
		t.Errorf("expected 6 laps from flag, got %d", cfg.Game.Laps)
	}
	if cfg.Game.Difficulty != "easy" {
		t.Errorf("expected easy from file, got %s", cfg.Game.Difficulty)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("game:\n  difficulty: nightmare\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected validation error for unknown difficulty")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Game.Laps = 9
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.Game.Laps != 9 {
		t.Errorf("expected 9 laps after reload, got %d", loaded.Game.Laps)
	}
}
