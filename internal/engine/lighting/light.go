// Package lighting describes the point, spot and directional lights a scene
// declares and packs them for GPU upload.
package lighting

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/racer/pkg/formats"
)

// Kind distinguishes light variants.
type Kind uint8

const (
	Point Kind = iota
	Spot
	Directional
)

func (k Kind) String() string {
	switch k {
	case Point:
		return "point"
	case Spot:
		return "spot"
	case Directional:
		return "directional"
	default:
		return "unknown"
	}
}

// Shadow holds shadow map settings. Bounds are only used by directional
// lights.
type Shadow struct {
	Enabled                  bool
	Far                      float32
	MapSize                  int
	Left, Right, Bottom, Top float32
}

// Light is a light source in its node's local frame.
type Light struct {
	Kind      Kind
	ID        string
	Enabled   bool
	Color     mgl32.Vec3
	Intensity float32
	Position  mgl32.Vec3
	Target    mgl32.Vec3 // spot only; directional lights aim at the origin
	Distance  float32    // zero means no cutoff
	Decay     float32
	Angle     float32 // spot half-angle, radians
	Penumbra  float32 // fraction of the cone that fades, 0..1
	Shadow    Shadow
}

// FromDef converts a parsed light declaration.
func FromDef(d *formats.Light) Light {
	l := Light{
		ID:        d.ID,
		Enabled:   d.Enabled,
		Color:     d.Color.Vec3(),
		Intensity: d.Intensity,
		Position:  d.Position,
		Distance:  d.Distance,
		Decay:     d.Decay,
		Shadow: Shadow{
			Enabled: d.CastShadow,
			Far:     d.ShadowFar,
			MapSize: d.ShadowMapSize,
		},
	}
	switch d.Kind {
	case formats.LightPoint:
		l.Kind = Point
	case formats.LightSpot:
		l.Kind = Spot
		l.Target = d.Target
		l.Angle = mgl32.DegToRad(d.Angle)
		l.Penumbra = mgl32.Clamp(d.Penumbra, 0, 1)
	case formats.LightDirectional:
		l.Kind = Directional
		l.Distance = 0
		l.Shadow.Left = d.ShadowLeft
		l.Shadow.Right = d.ShadowRight
		l.Shadow.Bottom = d.ShadowBottom
		l.Shadow.Top = d.ShadowTop
	}
	return l
}

// Direction returns the unit direction the light shines in. Point lights
// have no direction and return the zero vector.
func (l Light) Direction() mgl32.Vec3 {
	switch l.Kind {
	case Spot:
		return dirOrDown(l.Target.Sub(l.Position))
	case Directional:
		return dirOrDown(l.Position.Mul(-1))
	default:
		return mgl32.Vec3{}
	}
}

func dirOrDown(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return v.Normalize()
}

// Attenuation returns the intensity reaching a point at distance d, before
// any cone falloff. Directional lights do not attenuate.
func (l Light) Attenuation(d float32) float32 {
	if !l.Enabled {
		return 0
	}
	if l.Kind == Directional {
		return l.Intensity
	}
	if l.Distance > 0 {
		if d >= l.Distance {
			return 0
		}
		return l.Intensity * math32.Pow(1-d/l.Distance, l.Decay)
	}
	return l.Intensity / math32.Max(math32.Pow(d, l.Decay), 0.01)
}

// ConeFactor returns how much of a spot light reaches a direction at angle
// radians off its axis: 1 inside the inner cone, fading to 0 at the edge.
// Other kinds always return 1.
func (l Light) ConeFactor(angle float32) float32 {
	if l.Kind != Spot {
		return 1
	}
	if angle >= l.Angle {
		return 0
	}
	inner := l.Angle * (1 - l.Penumbra)
	if angle <= inner {
		return 1
	}
	t := (l.Angle - angle) / (l.Angle - inner)
	return t * t * (3 - 2*t)
}
