// Package debug generates line geometry for collider and bounds overlays.
package debug

import "github.com/Faultbox/racer/pkg/math"

// ColliderHeight is the Y level collider outlines are drawn at.
const ColliderHeight = 0.05

// BoxWireframeVertexCount is the number of vertices for a box wireframe (12 edges × 2).
const BoxWireframeVertexCount = 24

// QuadWireframeVertexCount is the number of vertices for a flat quad outline (4 edges × 2).
const QuadWireframeVertexCount = 8

// BoxWireframe creates line vertices for a wireframe box.
// Format: [x, y, z] per vertex, two vertices per edge.
func BoxWireframe(minX, minY, minZ, maxX, maxY, maxZ float32) []float32 {
	return []float32{
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// QuadWireframe outlines four ground-plane corners at height y.
// Corners must be given in winding order.
func QuadWireframe(corners [4]math.Vec2, y float32) []float32 {
	out := make([]float32, 0, QuadWireframeVertexCount*3)
	for i := range corners {
		a := corners[i]
		b := corners[(i+1)%len(corners)]
		out = append(out, a.X, y, a.Y, b.X, y, b.Y)
	}
	return out
}

// RectWireframe outlines an axis-aligned ground rectangle at height y,
// expanded by padding on every side.
func RectWireframe(lo, hi math.Vec2, y, padding float32) []float32 {
	lo = lo.Sub(math.V2(padding, padding))
	hi = hi.Add(math.V2(padding, padding))
	return QuadWireframe([4]math.Vec2{
		lo,
		{X: hi.X, Y: lo.Y},
		hi,
		{X: lo.X, Y: hi.Y},
	}, y)
}
