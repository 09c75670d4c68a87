package lighting

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const shadowNear = 0.1

// upFor picks an up vector that is not parallel to dir.
func upFor(dir mgl32.Vec3) mgl32.Vec3 {
	if math32.Abs(dir[1]) > 0.99 {
		return mgl32.Vec3{0, 0, 1}
	}
	return mgl32.Vec3{0, 1, 0}
}

// ShadowMatrix returns the light-space view-projection used to render the
// light's shadow map. Directional lights look from their position toward
// the origin through their orthographic shadow bounds; spot lights use a
// perspective matching their cone. Point lights and lights that cast no
// shadow report false.
func (l Light) ShadowMatrix() (mgl32.Mat4, bool) {
	if !l.Shadow.Enabled || !l.Enabled {
		return mgl32.Ident4(), false
	}
	far := l.Shadow.Far
	if far <= shadowNear {
		far = l.Position.Len() * 2
	}
	dir := l.Direction()

	switch l.Kind {
	case Directional:
		view := mgl32.LookAtV(l.Position, mgl32.Vec3{}, upFor(dir))
		s := l.Shadow
		if s.Left == s.Right || s.Bottom == s.Top {
			half := l.Position.Len()
			s.Left, s.Right, s.Bottom, s.Top = -half, half, -half, half
		}
		proj := mgl32.Ortho(s.Left, s.Right, s.Bottom, s.Top, shadowNear, far)
		return proj.Mul4(view), true
	case Spot:
		view := mgl32.LookAtV(l.Position, l.Position.Add(dir), upFor(dir))
		fov := math32.Min(2*l.Angle, mgl32.DegToRad(170))
		proj := mgl32.Perspective(fov, 1, shadowNear, far)
		return proj.Mul4(view), true
	default:
		return mgl32.Ident4(), false
	}
}

// ShadowMatrices returns the light-space matrices of the shadow casters in
// the buffer, in buffer order, with the index of each caster.
func (b *Buffer) ShadowMatrices() (matrices []mgl32.Mat4, index []int) {
	for i, l := range b.Lights {
		if m, ok := l.ShadowMatrix(); ok {
			matrices = append(matrices, m)
			index = append(index, i)
		}
	}
	return matrices, index
}
