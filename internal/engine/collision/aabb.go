package collision

import (
	"github.com/Faultbox/racer/internal/engine/debug"
	"github.com/Faultbox/racer/pkg/math"
)

// AABB is an axis-aligned box on the ground plane.
type AABB struct {
	Min math.Vec2
	Max math.Vec2
}

// BoundsOf returns the smallest AABB containing all points.
func BoundsOf(points ...math.Vec2) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	b := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min.X = min(b.Min.X, p.X)
		b.Min.Y = min(b.Min.Y, p.Y)
		b.Max.X = max(b.Max.X, p.X)
		b.Max.Y = max(b.Max.Y, p.Y)
	}
	return b
}

// Overlaps reports whether two boxes intersect. Touching edges count.
func (a AABB) Overlaps(b AABB) bool {
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X &&
		a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y
}

// Contains reports whether p lies inside or on the box.
func (a AABB) Contains(p math.Vec2) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X && p.Y >= a.Min.Y && p.Y <= a.Max.Y
}

// Union returns the smallest box containing both boxes.
func (a AABB) Union(b AABB) AABB {
	return AABB{
		Min: math.V2(min(a.Min.X, b.Min.X), min(a.Min.Y, b.Min.Y)),
		Max: math.V2(max(a.Max.X, b.Max.X), max(a.Max.Y, b.Max.Y)),
	}
}

// Center returns the midpoint of the box.
func (a AABB) Center() math.Vec2 {
	return a.Min.Add(a.Max).Scale(0.5)
}

// DebugVertices outlines the box on the ground.
func (a AABB) DebugVertices() []float32 {
	return debug.RectWireframe(a.Min, a.Max, debug.ColliderHeight, 0)
}
