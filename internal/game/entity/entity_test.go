package entity

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/racer/internal/engine/camera"
	"github.com/Faultbox/racer/internal/engine/collision"
	"github.com/Faultbox/racer/internal/engine/scene"
	"github.com/Faultbox/racer/pkg/formats"
	"github.com/Faultbox/racer/pkg/math"
)

func carDef() *formats.Car {
	return &formats.Car{
		ID:           "red",
		Body:         "red_body",
		Acceleration: 20,
		Brake:        30,
		MaxForward:   60,
		MaxBackward:  -20,
		MaxTurn:      0.5,
		Friction:     5,
		Width:        2,
		Depth:        4,
		Wheels:       []formats.Wheel{{Node: "front_left", Turning: true}, {Node: "rear_left"}},
		Cameras:      []formats.CarCamera{{ID: "chase", Offset: mgl32.Vec3{0, 3, -8}, LookAt: mgl32.Vec3{0, 1, 4}}},
	}
}

type cameras map[string]*camera.Camera

func (c cameras) Camera(id string) *camera.Camera { return c[id] }

func newCar(t *testing.T) (*Car, *scene.Node, cameras) {
	t.Helper()
	root := scene.NewNode("root", scene.KindGroup)
	body := scene.NewNode("red_body", scene.KindGroup)
	root.Add(body)
	body.Add(scene.NewNode("front_left", scene.KindGroup))
	body.Add(scene.NewNode("rear_left", scene.KindGroup))
	cams := cameras{"chase": {ID: "chase"}}
	return NewCar(carDef(), body, cams), body, cams
}

func TestAccelerateClampsAtMaxForward(t *testing.T) {
	c, _, _ := newCar(t)
	c.Accelerate(1)
	c.Accelerate(1)
	c.Accelerate(1)
	assert.Equal(t, float32(60), c.Speed())
	c.Accelerate(1)
	assert.Equal(t, float32(60), c.Speed())
}

func TestSpeedStaysWithinLimits(t *testing.T) {
	c, _, _ := newCar(t)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		dt := rng.Float32() * 0.5
		if rng.Intn(2) == 0 {
			c.Accelerate(dt)
		} else {
			c.Brake(dt)
		}
		require.LessOrEqual(t, c.Speed(), float32(60))
		require.GreaterOrEqual(t, c.Speed(), float32(-20))
	}
}

func TestBrakeStopsThenReverses(t *testing.T) {
	c, _, _ := newCar(t)
	c.Accelerate(0.5)
	require.Equal(t, float32(10), c.Speed())

	c.Brake(1)
	assert.Equal(t, float32(0), c.Speed(), "braking never crosses zero")
	assert.True(t, c.Braking())

	c.Brake(0.5)
	assert.Equal(t, float32(-10), c.Speed())
	c.Brake(5)
	assert.Equal(t, float32(-20), c.Speed())

	c.ReleaseBrake()
	assert.False(t, c.Braking())
}

func TestNextMoveIsTentative(t *testing.T) {
	c, body, _ := newCar(t)
	c.Accelerate(0.5)
	c.CalculateNextMove(1)

	assert.Equal(t, math.Vec2{}, c.Position())
	assert.InDelta(t, 10, c.NextPosition().Y, 1e-5)
	assert.InDelta(t, 10, c.Collider.Position().Y, 1e-5, "collider sits on the tentative pose")

	c.Move(1)
	assert.InDelta(t, 10, c.Position().Y, 1e-5)
	assert.Equal(t, float32(5), c.Speed(), "friction")
	assert.InDelta(t, 10, body.Translation().Z(), 1e-5)
}

func TestFrictionStopsAtZero(t *testing.T) {
	c, _, _ := newCar(t)
	c.Brake(0.1)
	require.Equal(t, float32(-2), c.Speed())
	c.CalculateNextMove(1)
	c.Move(1)
	assert.Equal(t, float32(0), c.Speed())
}

func TestSteeringFollowsDirectionOfTravel(t *testing.T) {
	c, _, _ := newCar(t)
	c.TurnTo(2)
	assert.Equal(t, float32(0.5), c.TurnAngle(), "clamped to max turn")

	c.CalculateNextMove(1)
	c.Move(1)
	assert.Equal(t, float32(0), c.Yaw(), "no steering at rest")

	c.Accelerate(0.5)
	c.CalculateNextMove(1)
	c.Move(1)
	assert.InDelta(t, 0.5, c.Yaw(), 1e-5)

	c.Reset(math.Vec2{}, 0)
	c.TurnTo(0.5)
	c.Brake(0.5)
	c.CalculateNextMove(1)
	c.Move(1)
	assert.InDelta(t, -0.5, c.Yaw(), 1e-5, "reversing steers the other way")
}

func TestTurnToRotatesTurningWheels(t *testing.T) {
	c, body, _ := newCar(t)
	c.TurnTo(-0.4)

	front := body.Find("front_left")
	rear := body.Find("rear_left")
	fwd := front.Rotation().Rotate(mgl32.Vec3{0, 0, 1})
	assert.InDelta(t, -0.2, math32.Atan2(fwd[0], fwd[2]), 1e-5)
	assert.Equal(t, mgl32.QuatIdent(), rear.Rotation())
}

func TestTiltIsSmoothed(t *testing.T) {
	c, _, _ := newCar(t)
	c.Accelerate(0.1)
	c.CalculateNextMove(0.016)
	c.Move(0.016)
	pitch, _ := c.Tilt()
	assert.InDelta(t, -maxPitch*TiltSmoothing, pitch, 1e-6)

	c.Accelerate(0.1)
	c.CalculateNextMove(0.016)
	c.Move(0.016)
	pitch, _ = c.Tilt()
	assert.InDelta(t, -maxPitch*(1-0.9*0.9), pitch, 1e-6)
}

func TestMountedCameraFollows(t *testing.T) {
	c, _, cams := newCar(t)
	c.Reset(math.V2(10, 0), math32.Pi/2)

	cam := cams["chase"]
	assert.InDelta(t, 2, cam.Position.X(), 1e-4)
	assert.InDelta(t, 3, cam.Position.Y(), 1e-4)
	assert.InDelta(t, 0, cam.Position.Z(), 1e-4)
	assert.InDelta(t, 14, cam.Target.X(), 1e-4)
}

func TestMissingCameraIsIgnored(t *testing.T) {
	c, _, _ := newCar(t)
	c.Mounts = append(c.Mounts, camera.Mount{CameraID: "gone"})
	assert.NotPanics(t, func() { c.Move(0.1) })
}

func TestSnapBackKeepsMultiplier(t *testing.T) {
	c, _, _ := newCar(t)
	c.SetSpeedMultiplier(1.5)
	for i := 0; i < 10; i++ {
		c.Accelerate(1)
	}
	require.Equal(t, float32(90), c.Speed())

	c.SnapBack(math.V2(1, 2), 0.3)
	assert.Equal(t, float32(0), c.Speed())
	assert.Equal(t, math.V2(1, 2), c.Position())
	assert.Equal(t, math.V2(1, 2), c.NextPosition())
	assert.Equal(t, float32(1.5), c.SpeedMultiplier())

	c.Reset(math.Vec2{}, 0)
	assert.Equal(t, float32(1), c.SpeedMultiplier())
}

func TestMultiplierExpiryClampsSpeed(t *testing.T) {
	c, _, _ := newCar(t)
	c.SetSpeedMultiplier(1.5)
	for i := 0; i < 10; i++ {
		c.Accelerate(1)
	}
	c.SetSpeedMultiplier(0)
	assert.Equal(t, float32(60), c.Speed())
}

func TestSyncFromNode(t *testing.T) {
	c, body, _ := newCar(t)
	body.SetTranslation(mgl32.Vec3{4, 0, 6})
	body.SetRotation(mgl32.QuatRotate(math32.Pi/2, mgl32.Vec3{0, 1, 0}))
	c.SyncFromNode()

	assert.InDelta(t, 4, c.Position().X, 1e-5)
	assert.InDelta(t, 6, c.Position().Y, 1e-5)
	assert.InDelta(t, math32.Pi/2, c.Yaw(), 1e-5)
	assert.InDelta(t, 4, c.Collider.Position().X, 1e-5)
}

func TestCarWithoutBody(t *testing.T) {
	c := NewCar(carDef(), nil, nil)
	assert.NotPanics(t, func() {
		c.TurnTo(0.3)
		c.Accelerate(1)
		c.CalculateNextMove(0.1)
		c.Move(0.1)
		c.SyncFromNode()
	})
	assert.Equal(t, collision.CategoryCar, c.Collider.Category)
	assert.Same(t, c, c.Collider.Owner)
}

func ringTrack() *formats.Racetrack {
	return &formats.Racetrack{
		Width:           10,
		Checkpoints:     4,
		CheckpointDepth: 1,
		Segments:        100,
		Points: []mgl32.Vec3{
			{0, 0, -50}, {50, 0, 0}, {0, 0, 50}, {-50, 0, 0},
		},
	}
}

func TestTrackCheckpoints(t *testing.T) {
	tr := NewTrack(ringTrack())
	require.Len(t, tr.Checkpoints, 4)

	want := []struct {
		pos mgl32.Vec3
		yaw float32
	}{
		{mgl32.Vec3{0, 0, -50}, math32.Pi / 2},
		{mgl32.Vec3{50, 0, 0}, 0},
		{mgl32.Vec3{0, 0, 50}, -math32.Pi / 2},
		{mgl32.Vec3{-50, 0, 0}, math32.Pi},
	}
	for i, w := range want {
		cp := tr.Checkpoints[i]
		assert.Equal(t, i, cp.Index)
		assert.InDelta(t, w.pos[0], cp.Position[0], 1e-4)
		assert.InDelta(t, w.pos[2], cp.Position[2], 1e-4)
		assert.InDelta(t, 0, math.V2(math32.Sin(w.yaw), math32.Cos(w.yaw)).Distance(math.Forward(cp.Yaw)), 1e-4)
		assert.Equal(t, collision.CategoryCheckpoint, cp.Collider.Category)
	}
}

func TestTrackCurvePassesBetweenPoints(t *testing.T) {
	tr := NewTrack(ringTrack())
	mid := tr.PointAt(0.125)
	assert.InDelta(t, 31.25, mid[0], 1e-3)
	assert.InDelta(t, -31.25, mid[2], 1e-3)
	assert.Equal(t, tr.PointAt(0), tr.PointAt(1), "the loop is closed")
}

func TestOnTrack(t *testing.T) {
	tr := NewTrack(ringTrack())
	assert.Len(t, tr.Triangles(), 200)

	for _, p := range []mgl32.Vec3{{0, 0, -50}, {0, 0, -54}, {0, 0, -46}, {50, 0, 0}, {31, 0, -31}} {
		assert.True(t, tr.OnTrack(p), "%v", p)
	}
	for _, p := range []mgl32.Vec3{{0, 0, 0}, {0, 0, -57}, {0, 0, -43}, {80, 0, 80}} {
		assert.False(t, tr.OnTrack(p), "%v", p)
	}
}

func TestGrid(t *testing.T) {
	tr := NewTrack(ringTrack())
	p, yaw := tr.Grid(1)
	assert.InDelta(t, 0, p.X, 1e-4)
	assert.InDelta(t, -52.5, p.Y, 1e-4)
	assert.InDelta(t, math32.Pi/2, yaw, 1e-4)

	p, _ = tr.Grid(-1)
	assert.InDelta(t, -47.5, p.Y, 1e-4)
}

func TestStartingCarOverlapsFirstCheckpoint(t *testing.T) {
	tr := NewTrack(ringTrack())
	c, _, _ := newCar(t)
	p, yaw := tr.Grid(1)
	c.Reset(p, yaw)

	assert.NotNil(t, c.Collider.Collide(tr.Checkpoints[0].Collider))
	assert.Nil(t, c.Collider.Collide(tr.Checkpoints[1].Collider))
}

func TestMarkCheckpoints(t *testing.T) {
	tr := NewTrack(ringTrack())
	tr.MarkCheckpoints(3)
	assert.Equal(t, MarkerCurrent, tr.Checkpoints[3].Marker)
	assert.Equal(t, MarkerNext, tr.Checkpoints[0].Marker)
	assert.Equal(t, MarkerIdle, tr.Checkpoints[1].Marker)
}

func TestLapsCyclicOrder(t *testing.T) {
	l := NewLaps(2, 4)
	assert.Equal(t, 0, l.Lap())

	ok, newLap := l.Pass(0)
	assert.True(t, ok)
	assert.True(t, newLap)
	assert.Equal(t, 1, l.Lap())

	ok, _ = l.Pass(2)
	assert.False(t, ok, "checkpoints cannot be skipped")
	ok, _ = l.Pass(0)
	assert.False(t, ok, "the same gate does not count twice")

	for k := 1; k < 4; k++ {
		require.Equal(t, k, l.Current())
		ok, newLap = l.Pass(k)
		require.True(t, ok)
		require.False(t, newLap)
	}
	assert.Equal(t, 0, l.Current())
	ok, newLap = l.Pass(0)
	assert.True(t, ok)
	assert.True(t, newLap)
	assert.Equal(t, 2, l.Lap())
	assert.Equal(t, 1, l.Completed())
	assert.False(t, l.Finished())

	for k := 1; k < 4; k++ {
		l.Pass(k)
	}
	l.Pass(0)
	assert.True(t, l.Finished())
	assert.Equal(t, 9, l.Counter())
}

func TestLapsOnlyCurrentAdvances(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	l := NewLaps(100, 5)
	for i := 0; i < 500; i++ {
		before := l.Current()
		hit := rng.Intn(5)
		ok, _ := l.Pass(hit)
		if hit == before {
			require.True(t, ok)
			require.Equal(t, (before+1)%5, l.Current())
		} else {
			require.False(t, ok)
			require.Equal(t, before, l.Current())
		}
	}
}

func TestPowerUpCatchOnce(t *testing.T) {
	node := scene.NewNode("boost", scene.KindGroup)
	p := NewPowerUp(&formats.PowerUp{ID: "boost", Position: mgl32.Vec3{3, 0, 4}}, node)
	assert.Equal(t, float32(DefaultMultiplier), p.Multiplier)
	assert.Equal(t, mgl32.Vec3{3, 0, 4}, node.Translation())
	assert.Equal(t, math.V2(3, 4), p.Collider.Position())

	assert.True(t, p.Catch())
	assert.False(t, p.Catch())
	assert.False(t, node.Visible)

	p.Reset()
	assert.False(t, p.Caught())
	assert.True(t, node.Visible)
}

func TestObstacleFollowsNode(t *testing.T) {
	node := scene.NewNode("cone", scene.KindGroup)
	node.SetTranslation(mgl32.Vec3{5, 0, 5})
	o := NewObstacle(&formats.Obstacle{ID: "cone", Node: "cone", Width: 1, Depth: 1}, node)
	o.Collider.Update()
	assert.Equal(t, math.V2(5, 5), o.Collider.Position())
	assert.Equal(t, collision.CategoryObstacle, o.Collider.Category)
}
