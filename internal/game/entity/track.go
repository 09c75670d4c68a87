package entity

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/racer/internal/engine/collision"
	"github.com/Faultbox/racer/internal/engine/picking"
	"github.com/Faultbox/racer/pkg/formats"
	"github.com/Faultbox/racer/pkg/math"
)

// Marker is how a checkpoint gate is drawn.
type Marker uint8

const (
	MarkerIdle Marker = iota
	MarkerCurrent
	MarkerNext
)

// Checkpoint is a gate across the track.
type Checkpoint struct {
	Index    int
	Position mgl32.Vec3
	Yaw      float32
	Marker   Marker
	Collider *collision.Rectangle
}

// Pose returns the gate's ground position and heading.
func (c *Checkpoint) Pose() (math.Vec2, float32) {
	return math.V2(c.Position[0], c.Position[2]), c.Yaw
}

// Track is a closed Catmull-Rom loop through the racetrack points.
type Track struct {
	Width       float32
	Points      []mgl32.Vec3
	Checkpoints []*Checkpoint

	strip [][3]mgl32.Vec3
}

// NewTrack builds the curve, its checkpoints and its surface strip.
func NewTrack(def *formats.Racetrack) *Track {
	t := &Track{
		Width:  def.Width,
		Points: def.Points,
	}

	for i := 0; i < def.Checkpoints; i++ {
		u := float32(i) / float32(def.Checkpoints)
		p := t.PointAt(u)
		yaw := t.YawAt(u)
		cp := &Checkpoint{Index: i, Position: p, Yaw: yaw}
		cp.Collider = collision.NewRectangle(
			collision.StaticPose{At: math.V2(p[0], p[2]), Angle: yaw},
			math.Vec2{}, def.Width, def.CheckpointDepth, collision.CategoryCheckpoint)
		cp.Collider.Owner = cp
		t.Checkpoints = append(t.Checkpoints, cp)
	}

	segs := def.Segments
	left := make([]mgl32.Vec3, segs)
	right := make([]mgl32.Vec3, segs)
	for i := 0; i < segs; i++ {
		u := float32(i) / float32(segs)
		p := t.PointAt(u)
		side := t.lateral(u).Mul(def.Width / 2)
		left[i] = p.Sub(side)
		right[i] = p.Add(side)
	}
	for i := 0; i < segs; i++ {
		j := (i + 1) % segs
		t.strip = append(t.strip,
			[3]mgl32.Vec3{left[i], right[i], left[j]},
			[3]mgl32.Vec3{right[i], right[j], left[j]})
	}
	return t
}

// segment maps u in [0, 1) to the four control points around it and the
// local parameter.
func (t *Track) segment(u float32) (p0, p1, p2, p3 mgl32.Vec3, local float32) {
	n := len(t.Points)
	u -= math32.Floor(u)
	s := u * float32(n)
	i := int(s)
	if i >= n {
		i = n - 1
	}
	local = s - float32(i)
	at := func(k int) mgl32.Vec3 { return t.Points[((k%n)+n)%n] }
	return at(i - 1), at(i), at(i + 1), at(i + 2), local
}

// bezier converts a uniform Catmull-Rom span into Bezier control points.
func bezier(p0, p1, p2, p3 mgl32.Vec3) (b0, b1, b2, b3 mgl32.Vec3) {
	return p1, p1.Add(p2.Sub(p0).Mul(1.0 / 6)), p2.Sub(p3.Sub(p1).Mul(1.0 / 6)), p2
}

// PointAt returns the point at u along the loop; u wraps.
func (t *Track) PointAt(u float32) mgl32.Vec3 {
	p0, p1, p2, p3, local := t.segment(u)
	b0, b1, b2, b3 := bezier(p0, p1, p2, p3)
	return mgl32.CubicBezierCurve3D(local, b0, b1, b2, b3)
}

// TangentAt returns the unit direction of travel at u.
func (t *Track) TangentAt(u float32) mgl32.Vec3 {
	p0, p1, p2, p3, s := t.segment(u)
	b0, b1, b2, b3 := bezier(p0, p1, p2, p3)
	r := 1 - s
	d := b1.Sub(b0).Mul(3 * r * r).
		Add(b2.Sub(b1).Mul(6 * r * s)).
		Add(b3.Sub(b2).Mul(3 * s * s))
	if d.Len() == 0 {
		return mgl32.Vec3{0, 0, 1}
	}
	return d.Normalize()
}

// YawAt returns the heading of the track at u.
func (t *Track) YawAt(u float32) float32 {
	d := t.TangentAt(u)
	return math.Yaw(math.V2(d[0], d[2]))
}

// lateral is the unit vector pointing left of the direction of travel.
func (t *Track) lateral(u float32) mgl32.Vec3 {
	d := t.TangentAt(u)
	return mgl32.Vec3{d[2], 0, -d[0]}
}

// Grid returns a starting position beside checkpoint zero. slot is measured
// in quarter track widths, positive to the left.
func (t *Track) Grid(slot float32) (math.Vec2, float32) {
	p := t.PointAt(0).Add(t.lateral(0).Mul(slot * t.Width / 4))
	return math.V2(p[0], p[2]), t.YawAt(0)
}

// Triangles returns the track surface.
func (t *Track) Triangles() [][3]mgl32.Vec3 { return t.strip }

// OnTrack casts a ray straight down from just above p and reports whether
// it hits the track surface.
func (t *Track) OnTrack(p mgl32.Vec3) bool {
	ray := picking.Down(p.Add(mgl32.Vec3{0, 1, 0}))
	for _, tri := range t.strip {
		if _, hit := ray.IntersectTriangle(tri[0], tri[1], tri[2]); hit {
			return true
		}
	}
	return false
}

// MarkCheckpoints highlights the current gate and the one after it.
func (t *Track) MarkCheckpoints(current int) {
	n := len(t.Checkpoints)
	for _, cp := range t.Checkpoints {
		cp.Marker = MarkerIdle
	}
	if n == 0 {
		return
	}
	t.Checkpoints[current%n].Marker = MarkerCurrent
	if n > 1 {
		t.Checkpoints[(current+1)%n].Marker = MarkerNext
	}
}
