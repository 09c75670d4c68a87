package states

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/racer/internal/engine/input"
	"github.com/Faultbox/racer/internal/engine/picking"
	"github.com/Faultbox/racer/internal/logger"
	"github.com/Faultbox/racer/pkg/math"
)

// Camera ids used during setup.
const (
	CameraPark     = "park"
	CameraOverview = "overview"
)

// KeyObstacles toggles obstacle placement during setup.
const KeyObstacles = sdl.SCANCODE_O

// bodiesExcept returns the body node ids of every car but the one named.
func bodiesExcept(m *Manager, carID string) []string {
	var ids []string
	for _, id := range m.World().CarIDs() {
		if id != carID {
			ids = append(ids, m.World().Car(id).Def.Body)
		}
	}
	return ids
}

// PlayerPark lets the player pick a car.
type PlayerPark struct {
	m    *Manager
	pick *picker
}

// NewPlayerPark creates the player car selection.
func NewPlayerPark(m *Manager) *PlayerPark {
	return &PlayerPark{m: m}
}

// Name implements State.
func (s *PlayerPark) Name() string { return "player_park" }

// Enter points the camera at the parked cars.
func (s *PlayerPark) Enter() error {
	s.m.World().SetCamera(CameraPark)
	s.pick = newPicker(s.m, bodiesExcept(s.m, "")...)
	s.m.HUD.Hide("paused")
	s.m.HUD.Set("status", "Choose your car (O: place obstacles)")
	return nil
}

// Exit implements State.
func (s *PlayerPark) Exit() error { return nil }

// HandleInput implements State.
func (s *PlayerPark) HandleInput(ev input.Event) { s.pick.handle(ev) }

// Update records the chosen car.
func (s *PlayerPark) Update(dt float64) error {
	w := s.m.World()
	w.Update(dt)

	if s.m.Keyboard.IsKeyJustDown(KeyObstacles) {
		s.m.Change(NewPickObstacle(s.m, func() State { return NewPlayerPark(s.m) }))
		return nil
	}
	sel, ok := s.pick.take()
	if !ok {
		return nil
	}
	if car := w.CarByBody(sel); car != nil {
		s.m.PlayerCar = car.ID
		logger.Info("player car chosen", zap.String("car", car.ID))
		s.m.Change(NewOpponentPark(s.m))
	}
	return nil
}

// OpponentPark lets the player pick the opponent's car.
type OpponentPark struct {
	m    *Manager
	pick *picker
}

// NewOpponentPark creates the opponent car selection.
func NewOpponentPark(m *Manager) *OpponentPark {
	return &OpponentPark{m: m}
}

// Name implements State.
func (s *OpponentPark) Name() string { return "opponent_park" }

// Enter offers every car except the player's.
func (s *OpponentPark) Enter() error {
	s.m.World().SetCamera(CameraPark)
	s.pick = newPicker(s.m, bodiesExcept(s.m, s.m.PlayerCar)...)
	s.m.HUD.Set("status", "Choose your opponent (O: place obstacles)")
	return nil
}

// Exit implements State.
func (s *OpponentPark) Exit() error { return nil }

// HandleInput implements State.
func (s *OpponentPark) HandleInput(ev input.Event) { s.pick.handle(ev) }

// Update records the chosen opponent and starts the race.
func (s *OpponentPark) Update(dt float64) error {
	w := s.m.World()
	w.Update(dt)

	if s.m.Keyboard.IsKeyJustDown(KeyObstacles) {
		s.m.Change(NewPickObstacle(s.m, func() State { return NewOpponentPark(s.m) }))
		return nil
	}
	sel, ok := s.pick.take()
	if !ok {
		return nil
	}
	if car := w.CarByBody(sel); car != nil && car.ID != s.m.PlayerCar {
		s.m.OpponentCar = car.ID
		logger.Info("opponent car chosen", zap.String("car", car.ID))
		s.m.Change(NewRace(s.m))
	}
	return nil
}

// PickObstacle places obstacles where the player clicks on the track.
type PickObstacle struct {
	m        *Manager
	back     func() State
	obstacle string

	click *picking.Ray
}

// NewPickObstacle creates the placement state. back builds the state to
// return to.
func NewPickObstacle(m *Manager, back func() State) *PickObstacle {
	return &PickObstacle{m: m, back: back}
}

// Name implements State.
func (s *PickObstacle) Name() string { return "pick_obstacle" }

// Enter shows the track from above.
func (s *PickObstacle) Enter() error {
	w := s.m.World()
	if len(w.Scene.Obstacles) == 0 {
		logger.Warn("scene declares no obstacles")
		s.m.Change(s.back())
		return nil
	}
	s.obstacle = w.Scene.Obstacles[0].ID
	s.click = nil
	w.SetCamera(CameraOverview)
	s.m.HUD.Set("status", fmt.Sprintf("Click the track to place a %s (O: done)", s.obstacle))
	return nil
}

// Exit implements State.
func (s *PickObstacle) Exit() error { return nil }

// HandleInput records the ray under a click.
func (s *PickObstacle) HandleInput(ev input.Event) {
	if !ev.IsClick() || s.m.Width <= 0 || s.m.Height <= 0 {
		return
	}
	cam := s.m.World().Camera()
	if cam == nil {
		return
	}
	ray := picking.ScreenToRay(float32(ev.MouseX), float32(ev.MouseY),
		float32(s.m.Width), float32(s.m.Height), cam.ViewMatrix(), cam.ProjectionMatrix())
	s.click = &ray
}

// Update places an obstacle for the last click if it landed on the track.
func (s *PickObstacle) Update(dt float64) error {
	w := s.m.World()
	w.Update(dt)

	if s.m.Keyboard.IsKeyJustDown(KeyObstacles) || s.m.Keyboard.IsKeyJustDown(sdl.SCANCODE_ESCAPE) {
		s.m.Change(s.back())
		return nil
	}
	if s.click == nil {
		return nil
	}
	ray := *s.click
	s.click = nil

	x, z, ok := ray.IntersectPlaneY(0)
	if !ok || !w.Track.OnTrack(mgl32.Vec3{x, 0, z}) {
		s.m.HUD.Set("status", "Obstacles go on the track")
		return nil
	}
	at := math.V2(x, z)
	if _, err := w.PlaceObstacle(s.obstacle, at); err != nil {
		logger.Error("obstacle placement failed", zap.Error(err))
		return nil
	}
	s.m.Obstacles = append(s.m.Obstacles, Placement{ID: s.obstacle, At: at})
	s.m.HUD.Set("status", fmt.Sprintf("%d obstacles placed (O: done)", len(s.m.Obstacles)))
	return nil
}
