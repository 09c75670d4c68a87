// Package collision provides planar rectangle colliders, a pruning tree for
// static colliders and a manager answering overlap queries.
//
// All geometry lives on the ground plane: math.Vec2.X is world X and
// math.Vec2.Y is world Z.
package collision

import "github.com/Faultbox/racer/pkg/math"

// Collider is anything that can take part in overlap queries.
type Collider interface {
	// Position is the collider's reference point on the ground plane.
	Position() math.Vec2

	// Bounds is an axis-aligned box containing the whole shape.
	Bounds() AABB

	// Collide returns the collider belonging to the receiver that overlaps
	// other, or nil. For a single shape that is the receiver itself; for a
	// tree it is the leaf that was hit.
	Collide(other Collider) Collider

	// Update recomputes world-space geometry.
	Update()

	// DebugVertices returns line vertices outlining the collider.
	DebugVertices() []float32
}

// Pose is the world placement a collider follows.
type Pose interface {
	Position() math.Vec2
	Yaw() float32
}

// StaticPose is a fixed placement.
type StaticPose struct {
	At    math.Vec2
	Angle float32
}

// Position implements Pose.
func (p StaticPose) Position() math.Vec2 { return p.At }

// Yaw implements Pose.
func (p StaticPose) Yaw() float32 { return p.Angle }

// Category tags what a collider represents so collision responses can be
// chosen without inspecting owners.
type Category uint8

const (
	CategoryObstacle Category = iota
	CategoryPowerUp
	CategoryCar
	CategoryCheckpoint
)

func (c Category) String() string {
	switch c {
	case CategoryObstacle:
		return "obstacle"
	case CategoryPowerUp:
		return "powerup"
	case CategoryCar:
		return "car"
	case CategoryCheckpoint:
		return "checkpoint"
	default:
		return "unknown"
	}
}
