package picking

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type box struct {
	name  string
	boxes []AABB
}

func (b box) PickName() string  { return b.name }
func (b box) PickBoxes() []AABB { return b.boxes }

type fixedViewer struct{ view, proj mgl32.Mat4 }

func (v fixedViewer) ViewMatrix() mgl32.Mat4       { return v.view }
func (v fixedViewer) ProjectionMatrix() mgl32.Mat4 { return v.proj }

func unitBoxAt(x, y, z float32) AABB {
	c := mgl32.Vec3{x, y, z}
	return NewAABB(c.Sub(mgl32.Vec3{0.5, 0.5, 0.5}), c.Add(mgl32.Vec3{0.5, 0.5, 0.5}))
}

func TestIntersectAABB(t *testing.T) {
	r := Ray{Origin: mgl32.Vec3{0, 0, -10}, Direction: mgl32.Vec3{0, 0, 1}}
	tests := []struct {
		name  string
		box   AABB
		hit   bool
		wantT float32
	}{
		{"ahead", unitBoxAt(0, 0, 0), true, 9.5},
		{"beside", unitBoxAt(3, 0, 0), false, 0},
		{"behind", unitBoxAt(0, 0, -20), false, 0},
		{"inside", NewAABB(mgl32.Vec3{-1, -1, -11}, mgl32.Vec3{1, 1, -9}), true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := r.IntersectAABB(tt.box)
			if hit != tt.hit {
				t.Fatalf("hit = %v, want %v", hit, tt.hit)
			}
			if hit && !mgl32.FloatEqual(got, tt.wantT) {
				t.Errorf("t = %v, want %v", got, tt.wantT)
			}
		})
	}
}

func TestIntersectPlaneY(t *testing.T) {
	r := Ray{Origin: mgl32.Vec3{1, 10, 2}, Direction: mgl32.Vec3{0, -1, 0}}
	x, z, ok := r.IntersectPlaneY(0)
	if !ok || x != 1 || z != 2 {
		t.Errorf("expected (1,2), got (%v,%v) ok=%v", x, z, ok)
	}
	if _, _, ok := r.IntersectPlaneY(20); ok {
		t.Error("plane behind the ray should miss")
	}
}

func TestIntersectTriangle(t *testing.T) {
	a := mgl32.Vec3{-1, 0, -1}
	b := mgl32.Vec3{1, 0, -1}
	c := mgl32.Vec3{0, 0, 1}

	tt, hit := Down(mgl32.Vec3{0, 5, 0}).IntersectTriangle(a, b, c)
	if !hit || !mgl32.FloatEqual(tt, 5) {
		t.Errorf("expected hit at 5, got %v %v", tt, hit)
	}
	if _, hit := Down(mgl32.Vec3{3, 5, 0}).IntersectTriangle(a, b, c); hit {
		t.Error("ray outside the triangle should miss")
	}
	if _, hit := Down(mgl32.Vec3{0, -5, 0}).IntersectTriangle(a, b, c); hit {
		t.Error("triangle above the ray should miss")
	}
}

func TestAABBTransform(t *testing.T) {
	b := unitBoxAt(0, 0, 0)
	m := mgl32.Translate3D(10, 0, 0).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(45)))
	w := b.Transform(m)
	if !mgl32.FloatEqualThreshold(w.Min[0], 10-0.7071, 1e-3) || !mgl32.FloatEqualThreshold(w.Max[0], 10+0.7071, 1e-3) {
		t.Errorf("unexpected transformed box %+v", w)
	}
}

func TestManagerNearest(t *testing.T) {
	m := NewManager(800, 600,
		box{"far", []AABB{unitBoxAt(0, 0, 10)}},
		box{"near", []AABB{unitBoxAt(5, 0, 0), unitBoxAt(0, 0, 3)}},
	)
	ray := Ray{Origin: mgl32.Vec3{0, 0, -10}, Direction: mgl32.Vec3{0, 0, 1}}
	name, _, ok := m.Nearest(ray)
	if !ok || name != "near" {
		t.Errorf("expected near, got %q ok=%v", name, ok)
	}

	miss := Ray{Origin: mgl32.Vec3{50, 0, -10}, Direction: mgl32.Vec3{0, 0, 1}}
	if _, _, ok := m.Nearest(miss); ok {
		t.Error("expected no hit")
	}
}

func TestGetNearestObjectCenterOfScreen(t *testing.T) {
	viewer := fixedViewer{
		view: mgl32.LookAtV(mgl32.Vec3{0, 0, -10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}),
		proj: mgl32.Perspective(mgl32.DegToRad(60), 800.0/600.0, 0.1, 100),
	}
	m := NewManager(800, 600, box{"target", []AABB{unitBoxAt(0, 0, 0)}})

	if name, ok := m.GetNearestObject(400, 300, viewer); !ok || name != "target" {
		t.Errorf("center click should pick target, got %q ok=%v", name, ok)
	}
	if _, ok := m.GetNearestObject(0, 0, viewer); ok {
		t.Error("corner click should miss")
	}
	if _, ok := m.GetNearestObject(400, 300, nil); ok {
		t.Error("nil viewer should miss")
	}
}
