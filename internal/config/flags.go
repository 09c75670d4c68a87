package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging and collider wireframes")
	flagSceneDir   = flag.String("scenes", "", "Directory holding scene XML files")
	flagLaps       = flag.Int("laps", 0, "Number of laps per race")
	flagDifficulty = flag.String("difficulty", "", "Opponent difficulty: easy, medium or hard")
	flagWatch      = flag.Bool("watch", false, "Reload scene files when they change")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagSave       = flag.Bool("save-config", false, "Write the effective config to the user config directory and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveRequested reports whether --save-config was given.
func SaveRequested() bool {
	return *flagSave
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Debug.ShowColliders = true
	}
	if *flagSceneDir != "" {
		cfg.Game.SceneDir = *flagSceneDir
	}
	if *flagLaps > 0 {
		cfg.Game.Laps = *flagLaps
	}
	if *flagDifficulty != "" {
		cfg.Game.Difficulty = *flagDifficulty
	}
	if *flagWatch {
		cfg.Game.WatchScenes = true
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
}
