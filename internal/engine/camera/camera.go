// Package camera provides perspective and orthographic cameras and the rigs
// that keep them behind a moving car.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/racer/pkg/formats"
)

// Projection selects how a camera projects the scene.
type Projection uint8

const (
	Perspective Projection = iota
	Orthographic
)

// Camera is a look-at camera.
type Camera struct {
	ID         string
	Projection Projection

	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	FovY   float32 // radians, perspective only
	Aspect float32
	Near   float32
	Far    float32

	// Orthographic bounds
	Left, Right, Bottom, Top float32
}

// FromDef creates a camera from a parsed declaration.
func FromDef(d *formats.Camera, aspect float32) *Camera {
	c := &Camera{
		ID:       d.ID,
		Position: d.Location,
		Target:   d.Target,
		Up:       mgl32.Vec3{0, 1, 0},
		Aspect:   aspect,
		Near:     d.Near,
		Far:      d.Far,
	}
	switch d.Kind {
	case formats.CameraOrthogonal:
		c.Projection = Orthographic
		c.Left, c.Right, c.Bottom, c.Top = d.Left, d.Right, d.Bottom, d.Top
	default:
		c.Projection = Perspective
		c.FovY = mgl32.DegToRad(d.Angle)
	}
	return c
}

// ViewMatrix returns the view matrix for this camera.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	up := c.Up
	if up.Len() == 0 {
		up = mgl32.Vec3{0, 1, 0}
	}
	return mgl32.LookAtV(c.Position, c.Target, up)
}

// ProjectionMatrix returns the projection matrix for this camera.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	if c.Projection == Orthographic {
		return mgl32.Ortho(c.Left, c.Right, c.Bottom, c.Top, c.Near, c.Far)
	}
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// SetAspect updates the aspect ratio after a window resize.
func (c *Camera) SetAspect(aspect float32) {
	c.Aspect = aspect
}

// Forward returns the unit view direction.
func (c *Camera) Forward() mgl32.Vec3 {
	d := c.Target.Sub(c.Position)
	if d.Len() == 0 {
		return mgl32.Vec3{0, 0, -1}
	}
	return d.Normalize()
}

// Mount places a camera relative to a car. Offset and LookAt are in the
// car's local frame, where +Z is forward.
type Mount struct {
	CameraID string
	Offset   mgl32.Vec3
	LookAt   mgl32.Vec3
}

// Follow moves c so it sits at the mount's offset from a car at pos facing
// yaw, looking at the mount's look-at point.
func (c *Camera) Follow(pos mgl32.Vec3, yaw float32, m Mount) {
	rot := mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0})
	c.Position = pos.Add(rot.Rotate(m.Offset))
	c.Target = pos.Add(rot.Rotate(m.LookAt))
}
