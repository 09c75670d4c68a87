// Package states implements the game flow: menus, car selection, obstacle
// placement and the race, driven by a Manager that owns the data shared
// between them.
package states

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/racer/internal/assets"
	"github.com/Faultbox/racer/internal/config"
	"github.com/Faultbox/racer/internal/engine/input"
	"github.com/Faultbox/racer/internal/engine/picking"
	"github.com/Faultbox/racer/internal/game/ui"
	"github.com/Faultbox/racer/internal/game/world"
	"github.com/Faultbox/racer/internal/logger"
	"github.com/Faultbox/racer/pkg/math"
)

// State is one screen of the game. Enter builds everything the state
// needs; Exit drops it.
type State interface {
	Name() string
	Enter() error
	Exit() error
	Update(dt float64) error
	HandleInput(ev input.Event)
}

// SceneSource loads worlds by scene name.
type SceneSource interface {
	Load(name string) (*world.World, error)
}

// Dir loads scene files from a directory.
type Dir struct {
	Path   string
	Assets *assets.Manager
	Aspect float32
}

// Load implements SceneSource.
func (d Dir) Load(name string) (*world.World, error) {
	return world.LoadFile(filepath.Join(d.Path, name), d.Assets, d.Aspect)
}

// Difficulty scales the opponent's pace.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ParseDifficulty maps a name to a difficulty, defaulting to Medium.
func ParseDifficulty(s string) Difficulty {
	switch d := Difficulty(s); d {
	case Easy, Medium, Hard:
		return d
	default:
		return Medium
	}
}

// Speed returns the opponent animation speed for the difficulty.
func (d Difficulty) Speed() float32 {
	switch d {
	case Easy:
		return 0.8
	case Hard:
		return 1.25
	default:
		return 1
	}
}

// Placement is an obstacle put on the track during setup.
type Placement struct {
	ID string
	At math.Vec2
}

// Results describes a finished race.
type Results struct {
	PlayerWon bool
	Winner    string // car id
	RaceTime  time.Duration
	BestLap   time.Duration
	Laps      int
}

// Manager runs the current state and keeps what outlives a single state.
type Manager struct {
	Scenes   SceneSource
	Keyboard *input.Keyboard
	HUD      *ui.HUD
	Settings config.GameConfig
	Now      func() time.Time

	Width, Height int

	// Race setup and outcome
	PlayerCar   string
	OpponentCar string
	Difficulty  Difficulty
	Laps        int
	Obstacles   []Placement
	Results     Results

	current   State
	next      State
	world     *world.World
	worldName string
}

// NewManager creates a manager for a viewport of the given size.
func NewManager(scenes SceneSource, settings config.GameConfig, width, height int) *Manager {
	m := &Manager{
		Scenes:   scenes,
		Keyboard: input.NewKeyboard(),
		Settings: settings,
		Now:      time.Now,
		Width:    width,
		Height:   height,
	}
	m.Reset()
	return m
}

// Reset forgets the race setup and outcome.
func (m *Manager) Reset() {
	m.PlayerCar = ""
	m.OpponentCar = ""
	m.Difficulty = ParseDifficulty(m.Settings.Difficulty)
	m.Laps = max(m.Settings.Laps, 1)
	m.Obstacles = nil
	m.Results = Results{}
}

// Current returns the running state.
func (m *Manager) Current() State { return m.current }

// Change schedules a switch to next at the start of the next Update.
func (m *Manager) Change(next State) { m.next = next }

// World returns the loaded world, nil before the first switch.
func (m *Manager) World() *world.World { return m.world }

// WorldName returns the scene name of the loaded world.
func (m *Manager) WorldName() string { return m.worldName }

// SwitchWorld loads a scene and makes it current. On error the previous
// world stays.
func (m *Manager) SwitchWorld(name string) error {
	w, err := m.Scenes.Load(name)
	if err != nil {
		return fmt.Errorf("switch to %s: %w", name, err)
	}
	m.install(name, w)
	return nil
}

// ensureWorld switches to name unless it is already loaded.
func (m *Manager) ensureWorld(name string) error {
	if m.world != nil && m.worldName == name {
		return nil
	}
	return m.SwitchWorld(name)
}

func (m *Manager) install(name string, w *world.World) {
	if mult := m.Settings.PowerUpMultiplier; mult > 0 {
		for _, def := range w.Scene.Racetrack.PowerUps {
			if def.Multiplier > 0 {
				continue
			}
			for _, p := range w.PowerUps {
				if p.ID == def.ID {
					p.Multiplier = mult
				}
			}
		}
	}
	for _, p := range m.Obstacles {
		if w.Scene.Obstacle(p.ID) == nil {
			continue
		}
		if _, err := w.PlaceObstacle(p.ID, p.At); err != nil {
			logger.Warn("obstacle not restored", zap.String("obstacle", p.ID), zap.Error(err))
		}
	}
	m.world = w
	m.worldName = name
	m.HUD = ui.NewHUD(w.Scene.HUD)
	logger.Info("world switched", zap.String("scene", name))
}

// Reload loads the current scene again and restarts the running state on
// it. On error the old world keeps running.
func (m *Manager) Reload() error {
	if m.worldName == "" {
		return nil
	}
	if err := m.SwitchWorld(m.worldName); err != nil {
		return err
	}
	if m.current != nil && m.next == nil {
		m.next = m.current
	}
	return nil
}

// HandleInput feeds the keyboard and passes the event to the running
// state. States only record input here; they act on it in Update.
func (m *Manager) HandleInput(ev input.Event) {
	m.Keyboard.HandleEvent(ev)
	if ev.Type == input.EventFocusLost {
		// Key releases made while unfocused never arrive.
		m.Keyboard.Reset()
	}
	if ev.Type == input.EventWindowResize && ev.Height > 0 {
		m.Width, m.Height = ev.Width, ev.Height
		if m.world != nil {
			m.world.SetAspect(float32(ev.Width) / float32(ev.Height))
		}
	}
	if m.current != nil {
		m.current.HandleInput(ev)
	}
}

// Update performs any pending state change and runs the current state.
func (m *Manager) Update(dt float64) error {
	defer m.Keyboard.EndFrame()

	if m.next != nil {
		if m.current != nil {
			if err := m.current.Exit(); err != nil {
				return fmt.Errorf("exit %s: %w", m.current.Name(), err)
			}
		}
		m.current, m.next = m.next, nil
		logger.Debug("state entered", zap.String("state", m.current.Name()))
		if err := m.current.Enter(); err != nil {
			return fmt.Errorf("enter %s: %w", m.current.Name(), err)
		}
	}

	if m.current != nil {
		return m.current.Update(dt)
	}
	return nil
}

// picker resolves clicks against a chosen set of pickable nodes and holds
// the selection until the next Update.
type picker struct {
	m        *Manager
	pm       *picking.Manager
	selected string
}

func newPicker(m *Manager, ids ...string) *picker {
	return &picker{m: m, pm: m.World().Picker(m.Width, m.Height, ids...)}
}

func (p *picker) handle(ev input.Event) {
	switch {
	case ev.Type == input.EventWindowResize:
		p.pm.Resize(ev.Width, ev.Height)
	case ev.IsClick():
		cam := p.m.World().Camera()
		if cam == nil {
			return
		}
		if name, ok := p.pm.GetNearestObject(float32(ev.MouseX), float32(ev.MouseY), cam); ok {
			p.selected = name
		}
	}
}

// take returns and clears the pending selection.
func (p *picker) take() (string, bool) {
	s := p.selected
	p.selected = ""
	return s, s != ""
}
