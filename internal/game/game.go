// Package game runs the frame loop: input, the state machine tick, scene
// hot reload and the line renderer.
package game

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/racer/internal/assets"
	"github.com/Faultbox/racer/internal/config"
	"github.com/Faultbox/racer/internal/engine/input"
	"github.com/Faultbox/racer/internal/engine/renderer"
	"github.com/Faultbox/racer/internal/engine/window"
	"github.com/Faultbox/racer/internal/game/states"
	"github.com/Faultbox/racer/internal/logger"
)

// Title is the window title prefix.
const Title = "Racer"

// maxStep caps a tick's delta time so a stall does not teleport cars.
const maxStep = 0.1

// Game is the main game instance.
type Game struct {
	cfg *config.Config

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	assets   *assets.Manager
	manager  *states.Manager
	watcher  *sceneWatcher

	running bool
	title   string
}

// New opens the window and prepares the state machine on the menu.
func New(cfg *config.Config) (*Game, error) {
	logger.Info("initializing game",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("scenes", cfg.Game.SceneDir))

	g := &Game{cfg: cfg}

	var err error
	g.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		MSAA:       cfg.Graphics.MSAA,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window created.
	g.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.input = input.New()
	g.assets = assets.NewManager(cfg.Game.SceneDir)

	width, height := g.window.GetSize()
	scenes := states.Dir{
		Path:   cfg.Game.SceneDir,
		Assets: g.assets,
		Aspect: g.window.Aspect(),
	}
	g.manager = states.NewManager(scenes, cfg.Game, width, height)
	g.manager.Change(states.NewInitialMenu(g.manager))

	if cfg.Game.WatchScenes {
		if g.watcher, err = newSceneWatcher(cfg.Game.SceneDir); err != nil {
			logger.Warn("scene hot reload disabled", zap.Error(err))
		}
	}

	logger.Info("game initialized")
	return g, nil
}

// Run drives frames until the window closes or a state fails.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := lastTime

	logger.Info("starting game loop")

	for g.running {
		now := time.Now()
		dt := min(now.Sub(lastTime).Seconds(), maxStep)
		lastTime = now

		if g.input.Update() {
			g.running = false
			break
		}
		for _, ev := range g.input.Events() {
			if ev.Type == input.EventWindowResize {
				g.renderer.Resize(ev.Width, ev.Height)
			}
			if ev.Type == input.EventKeyDown && ev.Key == sdl.SCANCODE_F1 {
				g.cfg.Debug.ShowColliders = !g.cfg.Debug.ShowColliders
			}
			g.manager.HandleInput(ev)
		}

		g.reloadChangedScenes()

		if err := g.manager.Update(dt); err != nil {
			return fmt.Errorf("update: %w", err)
		}

		g.render()
		g.window.SwapBuffers()
		g.updateTitle()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Float64("dt_ms", dt*1000),
				zap.Int("assets_pending", g.assets.Pending()))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

// reloadChangedScenes reloads the running scene if its file changed. A
// broken file is logged and the old world keeps running.
func (g *Game) reloadChangedScenes() {
	if g.watcher == nil {
		return
	}
	for _, name := range g.watcher.changed() {
		if name != g.manager.WorldName() {
			continue
		}
		hits, misses := g.assets.Stats()
		logger.Debug("asset cache", zap.Int("hits", hits), zap.Int("misses", misses))
		g.assets.Reset()
		if err := g.manager.Reload(); err != nil {
			logger.Error("scene reload failed", zap.String("scene", name), zap.Error(err))
			continue
		}
		logger.Info("scene reloaded", zap.String("scene", name))
	}
}

func (g *Game) render() {
	w := g.manager.World()
	if w == nil {
		return
	}
	cam := w.Camera()
	if cam == nil {
		return
	}
	viewProj := cam.ProjectionMatrix().Mul4(cam.ViewMatrix())
	g.renderer.Begin(w.Scene.Globals.Background, viewProj)
	for _, b := range Lines(w, g.cfg.Debug.ShowColliders) {
		g.renderer.DrawLines(b.Vertices, b.Color)
	}
	g.renderer.End()
}

// updateTitle shows the HUD in the window title, since text rendering is
// not part of the line renderer.
func (g *Game) updateTitle() {
	title := Title
	if s := g.manager.HUD.Summary(); s != "" {
		title += " | " + s
	}
	if title != g.title {
		g.title = title
		g.window.SetTitle(title)
	}
}

// Close releases the window, renderer, watcher and loaded assets.
func (g *Game) Close() {
	logger.Info("closing game")
	if g.watcher != nil {
		if err := g.watcher.close(); err != nil {
			logger.Warn("closing scene watcher", zap.Error(err))
		}
	}
	if g.assets != nil {
		hits, misses := g.assets.Stats()
		logger.Debug("asset cache", zap.Int("hits", hits), zap.Int("misses", misses))
		g.assets.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
