package collision

import (
	"go.uber.org/zap"

	"github.com/Faultbox/racer/internal/engine/debug"
	"github.com/Faultbox/racer/internal/logger"
	"github.com/Faultbox/racer/pkg/math"
)

// Rectangle is an oriented rectangle attached to a Pose. Width runs along
// the parent's local X axis and Depth along its local Z (forward) axis.
type Rectangle struct {
	Category Category
	Owner    any // game object the collider belongs to

	parent Pose
	center math.Vec2 // offset in the parent's local frame
	width  float32
	depth  float32

	position math.Vec2
	corners  [4]math.Vec2
	bounds   AABB
}

// NewRectangle creates a rectangle collider and computes its initial
// world geometry.
func NewRectangle(parent Pose, center math.Vec2, width, depth float32, category Category) *Rectangle {
	r := &Rectangle{
		Category: category,
		parent:   parent,
		center:   center,
		width:    width,
		depth:    depth,
	}
	r.Update()
	return r
}

// Parent returns the pose the rectangle follows.
func (r *Rectangle) Parent() Pose { return r.parent }

// SetParent moves the rectangle onto another pose. World geometry is
// refreshed on the next Update.
func (r *Rectangle) SetParent(p Pose) { r.parent = p }

// Size returns width and depth.
func (r *Rectangle) Size() (width, depth float32) { return r.width, r.depth }

// Position returns the world center of the rectangle.
func (r *Rectangle) Position() math.Vec2 { return r.position }

// Bounds returns the world AABB of the four corners.
func (r *Rectangle) Bounds() AABB { return r.bounds }

// Corners returns the world corners in winding order.
func (r *Rectangle) Corners() [4]math.Vec2 { return r.corners }

// Update recomputes the world corners from the parent pose.
func (r *Rectangle) Update() {
	yaw := r.parent.Yaw()
	r.position = r.parent.Position().Add(r.center.RotateY(yaw))

	hw, hd := r.width/2, r.depth/2
	local := [4]math.Vec2{
		{X: -hw, Y: -hd},
		{X: hw, Y: -hd},
		{X: hw, Y: hd},
		{X: -hw, Y: hd},
	}
	for i, c := range local {
		r.corners[i] = r.position.Add(c.RotateY(yaw))
	}
	r.bounds = BoundsOf(r.corners[:]...)
}

// Collide returns r if it overlaps other. Composite colliders are asked
// from their side so they can prune.
func (r *Rectangle) Collide(other Collider) Collider {
	if other == nil {
		return nil
	}
	if other == Collider(r) {
		logger.Error("collider tested against itself",
			zap.String("category", r.Category.String()),
			zap.Float32("x", r.position.X),
			zap.Float32("z", r.position.Y))
		return nil
	}

	o, ok := other.(*Rectangle)
	if !ok {
		if other.Collide(r) != nil {
			return r
		}
		return nil
	}
	if !r.bounds.Overlaps(o.bounds) {
		return nil
	}
	if !overlapSAT(r.corners, o.corners) {
		return nil
	}
	return r
}

// DebugVertices outlines the rectangle on the ground.
func (r *Rectangle) DebugVertices() []float32 {
	return debug.QuadWireframe(r.corners, debug.ColliderHeight)
}

// overlapSAT runs the separating axis test on two convex quads. Touching
// counts as overlap.
func overlapSAT(a, b [4]math.Vec2) bool {
	for _, quad := range [2][4]math.Vec2{a, b} {
		for i := 0; i < 2; i++ {
			axis := quad[i+1].Sub(quad[i]).Perp()
			if axis == (math.Vec2{}) {
				continue
			}
			aMin, aMax := project(a, axis)
			bMin, bMax := project(b, axis)
			if aMax < bMin || bMax < aMin {
				return false
			}
		}
	}
	return true
}

func project(quad [4]math.Vec2, axis math.Vec2) (lo, hi float32) {
	lo = quad[0].Dot(axis)
	hi = lo
	for _, p := range quad[1:] {
		d := p.Dot(axis)
		lo = min(lo, d)
		hi = max(hi, d)
	}
	return lo, hi
}
