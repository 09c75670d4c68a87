package states

import (
	"errors"
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/racer/internal/engine/animation"
	"github.com/Faultbox/racer/internal/engine/clock"
	"github.com/Faultbox/racer/internal/engine/collision"
	"github.com/Faultbox/racer/internal/engine/input"
	"github.com/Faultbox/racer/internal/game/entity"
	"github.com/Faultbox/racer/internal/game/world"
	"github.com/Faultbox/racer/internal/logger"
	"github.com/Faultbox/racer/pkg/math"
)

// Driving keys.
const (
	KeyPause      = sdl.SCANCODE_P
	KeyAccelerate = sdl.SCANCODE_W
	KeyBrake      = sdl.SCANCODE_S
	KeyLeft       = sdl.SCANCODE_A
	KeyRight      = sdl.SCANCODE_D
)

// Grid slots relative to the start line, in quarter track widths.
const (
	playerSlot   = 1
	opponentSlot = -1
)

// Race drives the player's car against the animated opponent.
type Race struct {
	m *Manager
	w *world.World

	player   *entity.Car
	opponent *entity.Car
	run      *animation.Animation
	laps     *entity.Laps

	lapClock   *clock.Clock
	raceClock  *clock.Clock
	powerClock *clock.Clock
	stopped    []*clock.Clock // clocks halted by the pause

	respawn    math.Vec2
	respawnYaw float32

	paused  bool
	powered bool
	onTrack bool
	contact bool
	lastLap time.Duration
	bestLap time.Duration
}

// NewRace creates the race for the cars chosen on the Manager.
func NewRace(m *Manager) *Race {
	return &Race{m: m}
}

// Name implements State.
func (s *Race) Name() string { return "race" }

// Enter puts both cars on the grid and arms the opponent's run.
func (s *Race) Enter() error {
	if err := s.m.ensureWorld(s.m.Settings.RaceScene); err != nil {
		return err
	}
	w := s.m.World()
	s.w = w

	s.player = w.Car(s.m.PlayerCar)
	s.opponent = w.Car(s.m.OpponentCar)
	if s.player == nil || s.opponent == nil {
		return fmt.Errorf("race needs two cars, have player %q and opponent %q", s.m.PlayerCar, s.m.OpponentCar)
	}
	if s.player == s.opponent {
		return errors.New("player and opponent share a car")
	}
	if len(w.Track.Checkpoints) == 0 {
		return errors.New("track has no checkpoints")
	}

	for _, id := range w.CarIDs() {
		if c := w.Car(id); c.Body != nil {
			c.Body.Visible = c == s.player || c == s.opponent
		}
	}

	s.respawn, s.respawnYaw = w.Track.Grid(playerSlot)
	s.player.Reset(s.respawn, s.respawnYaw)
	s.opponent.Reset(w.Track.Grid(opponentSlot))
	w.Colliders.AddCollider(s.opponent.Collider, false)
	w.Colliders.AddCollider(s.player.Collider, false)

	s.run = w.Animations.Get(w.Scene.Racetrack.Opponent)
	if s.run == nil {
		return fmt.Errorf("opponent animation %q not loaded", w.Scene.Racetrack.Opponent)
	}
	body := s.opponent.Body
	s.run.Bind(func(string) animation.Target {
		if body == nil {
			return nil
		}
		return body
	})
	w.Animations.Stop(s.run.ID)
	w.Animations.SetSpeed(s.m.Difficulty.Speed())

	s.laps = entity.NewLaps(s.m.Laps, len(w.Track.Checkpoints))
	w.Track.MarkCheckpoints(s.laps.Current())

	s.lapClock = clock.NewWithSource(s.m.Now)
	s.raceClock = clock.NewWithSource(s.m.Now)
	s.powerClock = clock.NewWithSource(s.m.Now)
	s.stopped = nil
	s.paused, s.powered, s.onTrack, s.contact = false, false, true, false
	s.lastLap, s.bestLap = 0, 0

	if len(s.player.Mounts) > 0 {
		w.SetCamera(s.player.Mounts[0].CameraID)
	}
	w.ResetPowerUps()

	hud := s.m.HUD
	hud.Show("laps")
	hud.Show("time")
	hud.Show("speed")
	hud.Hide("paused")
	hud.Set("powerup", "")
	hud.Set("status", "")
	s.updateHUD()

	logger.Info("race started",
		zap.String("player", s.player.ID),
		zap.String("opponent", s.opponent.ID),
		zap.String("difficulty", string(s.m.Difficulty)),
		zap.Int("laps", s.m.Laps))
	return nil
}

// Exit unregisters the cars and stops the opponent.
func (s *Race) Exit() error {
	if s.w == nil {
		return nil
	}
	if s.player != nil {
		s.w.Colliders.RemoveCollider(s.player.Collider)
	}
	if s.opponent != nil {
		s.w.Colliders.RemoveCollider(s.opponent.Collider)
	}
	if s.run != nil {
		s.w.Animations.Stop(s.run.ID)
	}
	return nil
}

// HandleInput implements State. Driving reads the keyboard in Update.
func (s *Race) HandleInput(input.Event) {}

// Paused reports whether the race is paused.
func (s *Race) Paused() bool { return s.paused }

// OnTrack reports whether the player's car was over the track surface
// after the last tick.
func (s *Race) OnTrack() bool { return s.onTrack }

// Contact reports whether the player touched the opponent on the last
// tick.
func (s *Race) Contact() bool { return s.contact }

// Laps returns the player's lap counter.
func (s *Race) Laps() *entity.Laps { return s.laps }

// Player returns the player's car.
func (s *Race) Player() *entity.Car { return s.player }

// Update runs one tick of the race. Nothing moves until the world's
// textures have loaded.
func (s *Race) Update(dt float64) error {
	if !s.w.TexturesReady() {
		s.m.HUD.Set("status", "Loading")
		return nil
	}
	kb := s.m.Keyboard
	if kb.IsKeyJustDown(KeyPause) {
		s.setPaused(!s.paused)
	}
	if s.paused {
		return nil
	}

	if s.powered && s.powerClock.ElapsedTime() >= s.m.Settings.PowerUpDuration {
		s.powered = false
		s.powerClock.Stop()
		s.player.SetSpeedMultiplier(1)
		s.m.HUD.Set("powerup", "")
	}

	step := float32(dt)
	if kb.IsKeyDown(KeyAccelerate) {
		s.player.Accelerate(step)
	}
	if kb.IsKeyDown(KeyBrake) {
		s.player.Brake(step)
	} else {
		s.player.ReleaseBrake()
	}
	left, right := kb.IsKeyDown(KeyLeft), kb.IsKeyDown(KeyRight)
	switch {
	case left && !right:
		s.player.TurnTo(s.player.Def.MaxTurn)
	case right && !left:
		s.player.TurnTo(-s.player.Def.MaxTurn)
	default:
		s.player.TurnTo(0)
	}

	s.w.Update(dt)
	s.opponent.SyncFromNode()

	s.player.CalculateNextMove(step)
	s.contact = false
	if !s.resolve(s.w.Colliders.CheckCollisions(s.player.Collider)) {
		s.player.Move(step)
	}

	s.onTrack = s.w.Track.OnTrack(s.player.Position3())

	if s.checkpoint() {
		return nil
	}
	if s.run.Loops() >= s.laps.Total() {
		s.finish(false)
		return nil
	}
	s.updateHUD()
	return nil
}

// resolve reacts to the collider the tentative move hit and reports
// whether the move is blocked.
func (s *Race) resolve(hit collision.Collider) bool {
	rect, ok := hit.(*collision.Rectangle)
	if !ok || rect == nil {
		return false
	}
	switch rect.Category {
	case collision.CategoryPowerUp:
		p, ok := rect.Owner.(*entity.PowerUp)
		if ok && p.Catch() {
			s.player.SetSpeedMultiplier(p.Multiplier)
			s.powerClock.Start()
			s.powered = true
			s.m.HUD.Set("powerup", fmt.Sprintf("Boost x%.1f", p.Multiplier))
			logger.Debug("power-up caught", zap.String("powerup", p.ID))
		}
		return false
	case collision.CategoryCar:
		s.contact = true
		return false
	default:
		next := s.player.NextPosition()
		toHit := rect.Position().Sub(next)
		travel := next.Sub(s.player.Position())
		if toHit.AngleTo(travel) <= math32.Pi/2 {
			return false
		}
		// Blocked cars return to the last checkpoint passed.
		s.player.SnapBack(s.respawn, s.respawnYaw)
		logger.Debug("car blocked", zap.String("category", rect.Category.String()))
		return true
	}
}

// checkpoint tests the current gate and reports whether the race ended.
func (s *Race) checkpoint() bool {
	cp := s.w.Track.Checkpoints[s.laps.Current()]
	if cp.Collider.Collide(s.player.Collider) == nil {
		return false
	}
	ok, newLap := s.laps.Pass(cp.Index)
	if !ok {
		return false
	}
	s.respawn, s.respawnYaw = cp.Pose()
	s.w.Track.MarkCheckpoints(s.laps.Current())
	if !newLap {
		return false
	}

	s.w.ResetPowerUps()
	if s.laps.Lap() == 1 {
		s.raceClock.Start()
		s.w.Animations.PlayFromStart(s.run.ID)
	} else {
		s.lastLap = s.lapClock.ElapsedTime()
		if s.bestLap == 0 || s.lastLap < s.bestLap {
			s.bestLap = s.lastLap
		}
	}
	s.lapClock.Start()
	logger.Debug("lap started", zap.Int("lap", s.laps.Lap()), zap.Duration("last", s.lastLap))

	if s.laps.Finished() {
		s.finish(true)
		return true
	}
	return false
}

func (s *Race) finish(playerWon bool) {
	winner := s.opponent.ID
	if playerWon {
		winner = s.player.ID
	}
	s.m.Results = Results{
		PlayerWon: playerWon,
		Winner:    winner,
		RaceTime:  s.raceClock.ElapsedTime(),
		BestLap:   s.bestLap,
		Laps:      s.laps.Completed(),
	}
	logger.Info("race finished",
		zap.String("winner", winner),
		zap.Duration("time", s.m.Results.RaceTime),
		zap.Duration("best_lap", s.bestLap))
	s.m.Change(NewFinalMenu(s.m))
}

// setPaused halts or resumes the race clocks.
func (s *Race) setPaused(paused bool) {
	if paused == s.paused {
		return
	}
	s.paused = paused
	if paused {
		s.stopped = s.stopped[:0]
		for _, c := range []*clock.Clock{s.lapClock, s.raceClock, s.powerClock} {
			if c.Running() {
				c.Stop()
				s.stopped = append(s.stopped, c)
			}
		}
		s.m.HUD.Show("paused")
		return
	}
	for _, c := range s.stopped {
		c.Resume()
	}
	s.stopped = s.stopped[:0]
	s.m.HUD.Hide("paused")
}

func (s *Race) updateHUD() {
	hud := s.m.HUD
	hud.Set("laps", fmt.Sprintf("Lap %d/%d", min(max(s.laps.Lap(), 1), s.laps.Total()), s.laps.Total()))
	hud.Set("time", formatDuration(s.raceClock.ElapsedTime()))
	hud.Set("speed", fmt.Sprintf("%.0f", math32.Abs(s.player.Speed())))
	if !s.onTrack {
		hud.Set("status", "Off track")
	} else {
		hud.Set("status", "")
	}
}
