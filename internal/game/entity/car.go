// Package entity implements the racing entities: cars, the track with its
// checkpoints, power-ups, obstacles and lap bookkeeping.
package entity

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/racer/internal/engine/camera"
	"github.com/Faultbox/racer/internal/engine/collision"
	"github.com/Faultbox/racer/internal/engine/scene"
	"github.com/Faultbox/racer/pkg/formats"
	"github.com/Faultbox/racer/pkg/math"
)

// Tilt limits in radians and the smoothing factor applied per Move.
const (
	TiltSmoothing = 0.1
	maxPitch      = 0.06
	maxRoll       = 0.08
)

// CameraLookup resolves camera ids. Cars keep ids rather than pointers so
// a scene switch never leaves them holding stale cameras.
type CameraLookup interface {
	Camera(id string) *camera.Camera
}

// Car is a kinematic vehicle on the ground plane.
//
// A frame runs CalculateNextMove, lets the caller veto the tentative
// position, then commits it with Move.
type Car struct {
	ID   string
	Body *scene.Node
	Def  formats.Car

	Collider *collision.Rectangle
	Mounts   []camera.Mount

	wheels    []*scene.Node
	wheelBase []mgl32.Quat
	cameras   CameraLookup

	position math.Vec2
	yaw      float32
	height   float32
	next     math.Vec2
	nextYaw  float32

	speed        float32
	turn         float32
	multiplier   float32
	accelerating bool
	braking      bool

	pitch float32
	roll  float32
}

// NewCar creates a car driving body. The car starts where the body node
// currently is. body must hang off an untransformed parent.
func NewCar(def *formats.Car, body *scene.Node, cams CameraLookup) *Car {
	c := &Car{
		ID:         def.ID,
		Body:       body,
		Def:        *def,
		cameras:    cams,
		multiplier: 1,
	}
	if body != nil {
		for _, w := range def.Wheels {
			if !w.Turning {
				continue
			}
			if n := body.Find(w.Node); n != nil {
				c.wheels = append(c.wheels, n)
				c.wheelBase = append(c.wheelBase, n.Rotation())
			}
		}
		p := body.WorldPosition()
		c.position = math.V2(p[0], p[2])
		c.height = p[1]
		c.yaw = body.WorldYaw()
	}
	c.next, c.nextYaw = c.position, c.yaw
	for _, m := range def.Cameras {
		c.Mounts = append(c.Mounts, camera.Mount{CameraID: m.ID, Offset: m.Offset, LookAt: m.LookAt})
	}
	c.Collider = collision.NewRectangle(nextPose{c}, math.Vec2{}, def.Width, def.Depth, collision.CategoryCar)
	c.Collider.Owner = c
	return c
}

// nextPose places the collider on the tentative position so a move can be
// tested before it is committed.
type nextPose struct{ c *Car }

func (p nextPose) Position() math.Vec2 { return p.c.next }
func (p nextPose) Yaw() float32        { return p.c.nextYaw }

// Position returns the committed ground position.
func (c *Car) Position() math.Vec2 { return c.position }

// Position3 returns the committed position in world space.
func (c *Car) Position3() mgl32.Vec3 {
	return mgl32.Vec3{c.position.X, c.height, c.position.Y}
}

// Yaw returns the committed heading.
func (c *Car) Yaw() float32 { return c.yaw }

// NextPosition returns the tentative position from CalculateNextMove.
func (c *Car) NextPosition() math.Vec2 { return c.next }

// Speed returns the signed speed in units per second.
func (c *Car) Speed() float32 { return c.speed }

// TurnAngle returns the current wheel angle.
func (c *Car) TurnAngle() float32 { return c.turn }

// Braking reports whether brake input was given since the last release.
func (c *Car) Braking() bool { return c.braking }

// Tilt returns the smoothed body pitch and roll.
func (c *Car) Tilt() (pitch, roll float32) { return c.pitch, c.roll }

// SpeedMultiplier returns the factor applied to the top forward speed.
func (c *Car) SpeedMultiplier() float32 { return c.multiplier }

// SetSpeedMultiplier changes the top forward speed factor. Values below
// or equal to zero restore the default.
func (c *Car) SetSpeedMultiplier(m float32) {
	if m <= 0 {
		m = 1
	}
	c.multiplier = m
	c.speed = math.Clamp(c.speed, c.Def.MaxBackward, c.maxForward())
}

func (c *Car) maxForward() float32 { return c.Def.MaxForward * c.multiplier }

// TurnTo sets the wheel angle, clamped to the car's maximum. Positive
// angles steer left. Turning wheels rotate by half the angle about the
// body's vertical axis.
func (c *Car) TurnTo(angle float32) {
	c.turn = math.Clamp(angle, -c.Def.MaxTurn, c.Def.MaxTurn)
	half := mgl32.QuatRotate(c.turn/2, mgl32.Vec3{0, 1, 0})
	for i, w := range c.wheels {
		w.SetRotation(half.Mul(c.wheelBase[i]))
	}
}

// Accelerate raises the speed for dt seconds.
func (c *Car) Accelerate(dt float32) {
	c.accelerating = true
	c.speed = math.Clamp(c.speed+c.Def.Acceleration*dt, c.Def.MaxBackward, c.maxForward())
}

// Brake slows a forward-moving car and reverses a stopped one.
func (c *Car) Brake(dt float32) {
	c.braking = true
	if c.speed > 0 {
		c.speed = max(c.speed-c.Def.Brake*dt, 0)
		return
	}
	c.speed = math.Clamp(c.speed-c.Def.Acceleration*dt, c.Def.MaxBackward, c.maxForward())
}

// ReleaseBrake clears the braking flag.
func (c *Car) ReleaseBrake() { c.braking = false }

// CalculateNextMove integrates heading and position for dt seconds
// without committing them. Steering only acts while the car moves.
func (c *Car) CalculateNextMove(dt float32) {
	c.nextYaw = c.yaw + c.turn*dt*math.Sign(c.speed)
	c.next = c.position.Add(math.Forward(c.nextYaw).Scale(c.speed * dt))
	c.Collider.Update()
}

// Move commits the tentative move, applies friction and updates the body,
// its tilt and the mounted cameras.
func (c *Car) Move(dt float32) {
	c.position, c.yaw = c.next, c.nextYaw

	decay := c.Def.Friction * dt
	switch {
	case c.speed > decay:
		c.speed -= decay
	case c.speed < -decay:
		c.speed += decay
	default:
		c.speed = 0
	}

	var pitch float32
	switch {
	case c.braking && c.speed > 0:
		pitch = maxPitch
	case c.accelerating:
		pitch = -maxPitch
	}
	var roll float32
	if c.Def.MaxTurn > 0 {
		roll = -maxRoll * c.turn / c.Def.MaxTurn * math.Sign(c.speed)
	}
	c.pitch += (pitch - c.pitch) * TiltSmoothing
	c.roll += (roll - c.roll) * TiltSmoothing
	c.accelerating = false

	c.apply()
}

// Reset places the car at rest at p facing yaw.
func (c *Car) Reset(p math.Vec2, yaw float32) {
	c.position, c.yaw = p, yaw
	c.next, c.nextYaw = p, yaw
	c.speed, c.turn = 0, 0
	c.pitch, c.roll = 0, 0
	c.braking, c.accelerating = false, false
	c.multiplier = 1
	c.TurnTo(0)
	c.apply()
}

// SnapBack stops the car and puts it back at p facing yaw, keeping any
// active speed multiplier.
func (c *Car) SnapBack(p math.Vec2, yaw float32) {
	m := c.multiplier
	c.Reset(p, yaw)
	c.multiplier = m
}

// SyncFromNode takes the car's pose from its body node. Cars driven by an
// animation use it instead of CalculateNextMove and Move.
func (c *Car) SyncFromNode() {
	if c.Body == nil {
		return
	}
	p := c.Body.WorldPosition()
	c.position = math.V2(p[0], p[2])
	c.height = p[1]
	c.yaw = c.Body.WorldYaw()
	c.next, c.nextYaw = c.position, c.yaw
	c.Collider.Update()
	c.updateCameras()
}

func (c *Car) apply() {
	c.Collider.Update()
	if c.Body != nil {
		c.Body.SetTranslation(c.Position3())
		heading := mgl32.QuatRotate(c.yaw, mgl32.Vec3{0, 1, 0})
		tilt := mgl32.AnglesToQuat(c.pitch, 0, c.roll, mgl32.XYZ)
		c.Body.SetRotation(heading.Mul(tilt))
	}
	c.updateCameras()
}

func (c *Car) updateCameras() {
	if c.cameras == nil {
		return
	}
	for _, m := range c.Mounts {
		if cam := c.cameras.Camera(m.CameraID); cam != nil {
			cam.Follow(c.Position3(), c.yaw, m)
		}
	}
}
