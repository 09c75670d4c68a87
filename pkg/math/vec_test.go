package math

import (
	"testing"

	"github.com/chewxy/math32"
)

func near(a, b float32) bool {
	return math32.Abs(a-b) < 1e-5
}

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec2Normalize(t *testing.T) {
	v := Vec2{3, 4}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec2.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec2{}).Normalize() != (Vec2{}) {
		t.Error("zero vector should normalize to zero")
	}
}

func TestVec2RotateY(t *testing.T) {
	tests := []struct {
		name string
		in   Vec2
		yaw  float32
		want Vec2
	}{
		{"identity", Vec2{1, 2}, 0, Vec2{1, 2}},
		{"forward quarter turn", Vec2{0, 1}, math32.Pi / 2, Vec2{1, 0}},
		{"right quarter turn", Vec2{1, 0}, math32.Pi / 2, Vec2{0, -1}},
		{"half turn", Vec2{0, 1}, math32.Pi, Vec2{0, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.RotateY(tt.yaw)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
				t.Errorf("RotateY(%v) = %v, want %v", tt.yaw, got, tt.want)
			}
		})
	}
}

func TestForwardMatchesRotateY(t *testing.T) {
	for _, yaw := range []float32{-2, -0.5, 0, 0.3, 1.7, 3} {
		f := Forward(yaw)
		r := Vec2{0, 1}.RotateY(yaw)
		if !near(f.X, r.X) || !near(f.Y, r.Y) {
			t.Errorf("Forward(%v) = %v, RotateY gives %v", yaw, f, r)
		}
		if !near(Yaw(f), yaw) {
			t.Errorf("Yaw(Forward(%v)) = %v", yaw, Yaw(f))
		}
	}
}

func TestAngleTo(t *testing.T) {
	if got := (Vec2{1, 0}).AngleTo(Vec2{0, 1}); !near(got, math32.Pi/2) {
		t.Errorf("AngleTo = %v, want pi/2", got)
	}
	if got := (Vec2{1, 0}).AngleTo(Vec2{-1, 0}); !near(got, math32.Pi) {
		t.Errorf("AngleTo = %v, want pi", got)
	}
	if got := (Vec2{}).AngleTo(Vec2{1, 0}); got != 0 {
		t.Errorf("AngleTo zero = %v, want 0", got)
	}
}

func TestSignAndClamp(t *testing.T) {
	if Sign(-3) != -1 || Sign(0) != 0 || Sign(2) != 1 {
		t.Error("Sign returned wrong values")
	}
	if Clamp(5, 0, 1) != 1 || Clamp(-5, 0, 1) != 0 || Clamp(0.5, 0, 1) != 0.5 {
		t.Error("Clamp returned wrong values")
	}
}
