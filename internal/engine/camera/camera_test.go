package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/racer/pkg/formats"
)

func TestFromDef(t *testing.T) {
	persp := FromDef(&formats.Camera{
		Kind: formats.CameraPerspective, ID: "main", Angle: 90, Near: 0.1, Far: 100,
		Location: mgl32.Vec3{0, 5, -10},
	}, 16.0/9.0)
	if persp.Projection != Perspective || !mgl32.FloatEqual(persp.FovY, mgl32.DegToRad(90)) {
		t.Errorf("unexpected perspective camera %+v", persp)
	}

	ortho := FromDef(&formats.Camera{
		Kind: formats.CameraOrthogonal, ID: "top", Near: 0.1, Far: 100,
		Left: -10, Right: 10, Bottom: -10, Top: 10,
	}, 1)
	if ortho.Projection != Orthographic || ortho.Right != 10 {
		t.Errorf("unexpected orthographic camera %+v", ortho)
	}
	p := ortho.ProjectionMatrix().Mul4x1(mgl32.Vec4{10, 10, -0.1, 1})
	if !mgl32.FloatEqual(p[0], 1) || !mgl32.FloatEqual(p[1], 1) {
		t.Errorf("bounds should map to the clip edge, got %v", p)
	}
}

func TestFollow(t *testing.T) {
	c := &Camera{}
	m := Mount{Offset: mgl32.Vec3{0, 3, -8}, LookAt: mgl32.Vec3{0, 1, 5}}

	c.Follow(mgl32.Vec3{10, 0, 0}, 0, m)
	if !c.Position.ApproxEqual(mgl32.Vec3{10, 3, -8}) {
		t.Errorf("unexpected position %v", c.Position)
	}

	// Facing +X the camera trails along -X.
	c.Follow(mgl32.Vec3{}, mgl32.DegToRad(90), m)
	if !c.Position.ApproxEqualThreshold(mgl32.Vec3{-8, 3, 0}, 1e-4) {
		t.Errorf("unexpected position %v", c.Position)
	}
	if !c.Forward().ApproxEqualThreshold(mgl32.Vec3{13, -2, 0}.Normalize(), 1e-4) {
		t.Errorf("unexpected forward %v", c.Forward())
	}
}
