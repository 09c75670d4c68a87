package states

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/racer/internal/assets"
	"github.com/Faultbox/racer/internal/config"
	"github.com/Faultbox/racer/internal/engine/input"
	"github.com/Faultbox/racer/pkg/math"
)

const sceneDir = "../../../scenes"

// Points inside the pickable boxes of the bundled scenes.
var (
	startButton   = mgl32.Vec3{0, 7, 0}
	hardButton    = mgl32.Vec3{5, 3, 0}
	easyButton    = mgl32.Vec3{5, 5, 0}
	restartButton = mgl32.Vec3{-5, 7, 0}
	redBody       = mgl32.Vec3{-6, 0.75, -80}
	blueBody      = mgl32.Vec3{6, 0.75, -80}
)

type harness struct {
	t   *testing.T
	m   *Manager
	now time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, Dir{Path: sceneDir, Aspect: 4.0 / 3})
}

func newHarnessWith(t *testing.T, src SceneSource) *harness {
	t.Helper()
	h := &harness{t: t, now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	h.m = NewManager(src, config.Default().Game, 800, 600)
	h.m.Now = func() time.Time { return h.now }
	h.m.Change(NewInitialMenu(h.m))
	h.tick(0)
	require.Equal(t, "initial_menu", h.m.Current().Name())
	return h
}

func (h *harness) tick(dt float64) {
	h.t.Helper()
	require.NoError(h.t, h.m.Update(dt))
}

func (h *harness) advance(d time.Duration) { h.now = h.now.Add(d) }

// click sends a left click on the pixel where p appears through the active
// camera.
func (h *harness) click(p mgl32.Vec3) {
	h.t.Helper()
	cam := h.m.World().Camera()
	require.NotNil(h.t, cam)
	clip := cam.ProjectionMatrix().Mul4(cam.ViewMatrix()).Mul4x1(p.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip[3])
	x := (ndc[0] + 1) / 2 * float32(h.m.Width)
	y := (1 - ndc[1]) / 2 * float32(h.m.Height)
	h.m.HandleInput(input.Event{
		Type:   input.EventMouseDown,
		Button: sdl.BUTTON_LEFT,
		MouseX: int(x + 0.5),
		MouseY: int(y + 0.5),
	})
}

func (h *harness) press(key sdl.Scancode) {
	h.m.HandleInput(input.Event{Type: input.EventKeyDown, Key: key})
}

func (h *harness) release(key sdl.Scancode) {
	h.m.HandleInput(input.Event{Type: input.EventKeyUp, Key: key})
}

func (h *harness) tap(key sdl.Scancode) {
	h.t.Helper()
	h.press(key)
	h.tick(0)
	h.release(key)
}

// startRace walks the menus and returns the running race with red as the
// player and blue as the opponent.
func (h *harness) startRace() *Race {
	h.t.Helper()
	h.click(startButton)
	h.tick(0)
	h.tick(0)
	require.Equal(h.t, "player_park", h.m.Current().Name())

	h.click(redBody)
	h.tick(0)
	h.tick(0)
	require.Equal(h.t, "opponent_park", h.m.Current().Name())

	h.click(blueBody)
	h.tick(0)
	h.tick(0.01)
	race, ok := h.m.Current().(*Race)
	require.True(h.t, ok, "expected the race, got %s", h.m.Current().Name())
	return race
}

func TestInitialMenuSelectsDifficulty(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, Medium, h.m.Difficulty)
	assert.Equal(t, "menu.xml", h.m.WorldName())

	h.click(hardButton)
	h.tick(0)
	assert.Equal(t, Hard, h.m.Difficulty)
	assert.Equal(t, "Difficulty: hard", h.m.HUD.Text("difficulty"))

	h.click(easyButton)
	h.tick(0)
	assert.Equal(t, Easy, h.m.Difficulty)

	h.click(startButton)
	h.tick(0)
	assert.Equal(t, "race.xml", h.m.WorldName())
	h.tick(0)
	assert.Equal(t, "player_park", h.m.Current().Name())
	assert.Equal(t, CameraPark, h.m.World().CameraID())
}

func TestDifficultySpeeds(t *testing.T) {
	assert.Equal(t, float32(0.8), Easy.Speed())
	assert.Equal(t, float32(1), Medium.Speed())
	assert.Equal(t, float32(1.25), Hard.Speed())
	assert.Equal(t, Medium, ParseDifficulty("impossible"))
	assert.Equal(t, Hard, ParseDifficulty("hard"))
}

func TestParkSelection(t *testing.T) {
	h := newHarness(t)
	h.click(startButton)
	h.tick(0)
	h.tick(0)

	h.click(redBody)
	h.tick(0)
	assert.Equal(t, "red", h.m.PlayerCar)
	h.tick(0)
	require.Equal(t, "opponent_park", h.m.Current().Name())

	// The player's own car is no longer offered.
	h.click(redBody)
	h.tick(0)
	assert.Empty(t, h.m.OpponentCar)
	assert.Equal(t, "opponent_park", h.m.Current().Name())

	h.click(blueBody)
	h.tick(0)
	assert.Equal(t, "blue", h.m.OpponentCar)
	h.tick(0)
	assert.Equal(t, "race", h.m.Current().Name())
}

func TestPickObstacle(t *testing.T) {
	h := newHarness(t)
	h.click(startButton)
	h.tick(0)
	h.tick(0)

	h.tap(KeyObstacles)
	h.tick(0)
	require.Equal(t, "pick_obstacle", h.m.Current().Name())
	assert.Equal(t, CameraOverview, h.m.World().CameraID())

	// The ring passes through (50, 0).
	h.click(mgl32.Vec3{50, 0, 0})
	h.tick(0)
	require.Len(t, h.m.Obstacles, 1)
	assert.Equal(t, "cone", h.m.Obstacles[0].ID)
	assert.InDelta(t, 50, h.m.Obstacles[0].At.X, 0.5)
	assert.InDelta(t, 0, h.m.Obstacles[0].At.Y, 0.5)
	assert.Len(t, h.m.World().Obstacles, 1)

	// The infield is not track.
	h.click(mgl32.Vec3{0, 0, 0})
	h.tick(0)
	assert.Len(t, h.m.Obstacles, 1)
	assert.Equal(t, "Obstacles go on the track", h.m.HUD.Text("status"))

	h.tap(KeyObstacles)
	h.tick(0)
	assert.Equal(t, "player_park", h.m.Current().Name())

	// Placed obstacles survive a reload of the scene.
	require.NoError(t, h.m.Reload())
	h.tick(0)
	assert.Len(t, h.m.World().Obstacles, 1)
	assert.Equal(t, "player_park", h.m.Current().Name())
}

func TestRaceStartsOnFirstTick(t *testing.T) {
	h := newHarness(t)
	race := h.startRace()
	w := h.m.World()

	assert.Equal(t, 1, race.Laps().Lap())
	assert.Equal(t, 1, race.Laps().Current())
	assert.True(t, w.Animations.IsPlaying("opponent_run"))
	assert.Equal(t, Medium.Speed(), w.Animations.Speed())
	assert.True(t, race.raceClock.Running())
	assert.Equal(t, "red_chase", w.CameraID())
	assert.Equal(t, "Lap 1/3", h.m.HUD.Text("laps"))
	assert.False(t, h.m.HUD.Visible("paused"))

	respawn, yaw := w.Track.Checkpoints[0].Pose()
	assert.Equal(t, respawn, race.respawn)
	assert.Equal(t, yaw, race.respawnYaw)
	assert.True(t, race.OnTrack())
}

func TestRaceWaitsForTextures(t *testing.T) {
	gate := make(chan struct{})
	release := sync.OnceFunc(func() { close(gate) })
	t.Cleanup(release)
	am := assets.NewManagerWithReader(sceneDir, func(string) ([]byte, error) {
		<-gate
		return nil, os.ErrNotExist
	})
	h := newHarnessWith(t, Dir{Path: sceneDir, Assets: am, Aspect: 4.0 / 3})
	race := h.startRace()

	h.press(KeyAccelerate)
	h.tick(0.1)
	assert.Equal(t, "Loading", h.m.HUD.Text("status"))
	assert.Zero(t, race.Laps().Lap())
	assert.Zero(t, race.Player().Speed())
	assert.False(t, race.raceClock.Running())

	h.release(KeyAccelerate)
	release()
	require.Eventually(t, h.m.World().TexturesReady, 5*time.Second, 10*time.Millisecond)
	h.tick(0.1)
	assert.Equal(t, 1, race.Laps().Lap())
	assert.True(t, race.raceClock.Running())
	assert.NotEqual(t, "Loading", h.m.HUD.Text("status"))
}

func TestFocusLossReleasesKeys(t *testing.T) {
	h := newHarness(t)
	race := h.startRace()

	h.press(KeyAccelerate)
	h.tick(0.1)
	speed := race.Player().Speed()
	require.Greater(t, speed, float32(0))

	h.m.HandleInput(input.Event{Type: input.EventFocusLost})
	assert.False(t, h.m.Keyboard.IsKeyDown(KeyAccelerate))
	h.tick(0.1)
	assert.LessOrEqual(t, race.Player().Speed(), speed)
}

func TestRacePauseToggleOnKeyEdge(t *testing.T) {
	h := newHarness(t)
	race := h.startRace()

	h.press(KeyPause)
	h.press(KeyAccelerate)
	h.tick(0.1)
	assert.True(t, race.Paused())
	assert.True(t, h.m.HUD.Visible("paused"))
	assert.Zero(t, race.Player().Speed())

	h.advance(10 * time.Second)
	h.tick(0.1)
	assert.True(t, race.Paused(), "holding the key must not toggle again")
	assert.False(t, race.raceClock.Running())

	h.release(KeyPause)
	h.press(KeyPause)
	h.tick(0.1)
	assert.False(t, race.Paused())
	assert.False(t, h.m.HUD.Visible("paused"))
	assert.Greater(t, race.Player().Speed(), float32(0))
	assert.Zero(t, race.raceClock.ElapsedTime(), "paused time is not counted")
}

func TestRacePowerUpExpires(t *testing.T) {
	h := newHarness(t)
	race := h.startRace()
	pu := h.m.World().PowerUps[0]

	race.Player().Reset(math.V2(pu.Position[0], pu.Position[2]), 0)
	h.tick(0.01)
	assert.True(t, pu.Caught())
	assert.Equal(t, float32(1.5), race.Player().SpeedMultiplier())
	assert.Equal(t, "Boost x1.5", h.m.HUD.Text("powerup"))

	h.advance(3900 * time.Millisecond)
	h.tick(0.01)
	assert.Equal(t, float32(1.5), race.Player().SpeedMultiplier())

	h.advance(200 * time.Millisecond)
	h.tick(0.01)
	assert.Equal(t, float32(1), race.Player().SpeedMultiplier())
	assert.Empty(t, h.m.HUD.Text("powerup"))
}

func TestRaceObstacleFromBehindSnapsBack(t *testing.T) {
	h := newHarness(t)
	race := h.startRace()
	_, err := h.m.World().PlaceObstacle("cone", math.V2(19, -60))
	require.NoError(t, err)

	race.Player().Reset(math.V2(20, -60), math32.Pi/2)
	h.press(KeyAccelerate)
	h.tick(0.1)

	respawn, _ := h.m.World().Track.Checkpoints[0].Pose()
	assert.Equal(t, respawn, race.Player().Position())
	assert.Zero(t, race.Player().Speed())
}

func TestRaceObstacleAheadDoesNotBlock(t *testing.T) {
	h := newHarness(t)
	race := h.startRace()
	_, err := h.m.World().PlaceObstacle("cone", math.V2(22, -60))
	require.NoError(t, err)

	race.Player().Reset(math.V2(20, -60), math32.Pi/2)
	h.press(KeyAccelerate)
	h.tick(0.1)

	assert.InDelta(t, 20.2, race.Player().Position().X, 1e-3)
	assert.Greater(t, race.Player().Speed(), float32(0))
}

func TestRaceOpponentWins(t *testing.T) {
	h := newHarness(t)
	h.startRace()

	for i := 0; i < 100 && h.m.Current().Name() != "final_menu"; i++ {
		h.tick(1)
	}
	require.Equal(t, "final_menu", h.m.Current().Name())
	assert.False(t, h.m.Results.PlayerWon)
	assert.Equal(t, "blue", h.m.Results.Winner)
	assert.Equal(t, "menu.xml", h.m.WorldName())
	assert.Equal(t, "The opponent wins", h.m.HUD.Text("winner"))
}

func TestRacePlayerFinishesAndRestarts(t *testing.T) {
	h := newHarness(t)
	h.m.Laps = 1
	race := h.startRace()
	cps := h.m.World().Track.Checkpoints

	route := []int{1, 2, 3, 0}
	require.Len(t, cps, len(route))
	for _, i := range route {
		cp := cps[i]
		h.advance(5 * time.Second)
		race.Player().Reset(cp.Pose())
		h.tick(0.01)
	}
	assert.True(t, h.m.Results.PlayerWon)
	assert.Equal(t, "red", h.m.Results.Winner)
	assert.Equal(t, 1, h.m.Results.Laps)
	assert.Equal(t, 20*time.Second, h.m.Results.RaceTime)
	assert.Equal(t, 20*time.Second, h.m.Results.BestLap)

	h.tick(0)
	require.Equal(t, "final_menu", h.m.Current().Name())
	assert.Equal(t, "You win!", h.m.HUD.Text("winner"))

	h.click(restartButton)
	h.tick(0)
	h.tick(0)
	assert.Equal(t, "initial_menu", h.m.Current().Name())
	assert.Empty(t, h.m.PlayerCar)
	assert.Equal(t, h.m.Settings.Laps, h.m.Laps)
	assert.Equal(t, Results{}, h.m.Results)
}

func TestReloadKeepsOldWorldOnError(t *testing.T) {
	h := newHarness(t)
	before := h.m.World()

	h.m.Scenes = Dir{Path: t.TempDir()}
	assert.Error(t, h.m.Reload())
	assert.Same(t, before, h.m.World())
}
