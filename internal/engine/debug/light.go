package debug

import "github.com/go-gl/mathgl/mgl32"

// CrossVertexCount is the number of vertices for a 3-axis cross (3 lines × 2).
const CrossVertexCount = 6

// Cross creates three axis-aligned lines of length size through center.
func Cross(center mgl32.Vec3, size float32) []float32 {
	h := size / 2
	x, y, z := center[0], center[1], center[2]
	return []float32{
		x - h, y, z, x + h, y, z,
		x, y - h, z, x, y + h, z,
		x, y, z - h, x, y, z + h,
	}
}

// Frustum outlines the volume a view-projection matrix maps to the unit
// clip cube. It returns nil when the matrix cannot be inverted.
func Frustum(viewProj mgl32.Mat4) []float32 {
	if viewProj.Det() == 0 {
		return nil
	}
	inv := viewProj.Inv()
	var c [8]mgl32.Vec3
	for i := range c {
		ndc := mgl32.Vec3{-1, -1, -1}
		if i&1 != 0 {
			ndc[0] = 1
		}
		if i&2 != 0 {
			ndc[1] = 1
		}
		if i&4 != 0 {
			ndc[2] = 1
		}
		c[i] = mgl32.TransformCoordinate(ndc, inv)
	}
	// Corners differ in one bit along each edge.
	out := make([]float32, 0, BoxWireframeVertexCount*3)
	for i := range c {
		for bit := 1; bit < 8; bit <<= 1 {
			if j := i | bit; j != i {
				out = append(out, c[i][0], c[i][1], c[i][2], c[j][0], c[j][1], c[j][2])
			}
		}
	}
	return out
}
