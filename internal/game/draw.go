package game

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/racer/internal/engine/debug"
	"github.com/Faultbox/racer/internal/engine/lighting"
	"github.com/Faultbox/racer/internal/engine/scene"
	"github.com/Faultbox/racer/internal/game/entity"
	"github.com/Faultbox/racer/internal/game/world"
)

// Batch is a line list drawn in one color.
type Batch struct {
	Color    mgl32.Vec4
	Vertices []float32
}

var (
	colorTrack      = mgl32.Vec4{0.9, 0.9, 0.9, 1}
	colorCollider   = mgl32.Vec4{1, 0.2, 0.8, 1}
	colorTreeBounds = mgl32.Vec4{0.3, 1, 1, 1}
	colorMarker     = map[entity.Marker]mgl32.Vec4{
		entity.MarkerIdle:    {0.5, 0.5, 0.5, 1},
		entity.MarkerCurrent: {0.1, 1, 0.1, 1},
		entity.MarkerNext:    {1, 1, 0.1, 1},
	}
	colorDefault = mgl32.Vec4{0.7, 0.7, 0.7, 1}
	colorShadow  = mgl32.Vec4{1, 0.6, 0.1, 1}
)

// markerHeight lifts checkpoint gates above the track outline.
const markerHeight = 0.1

// lightGizmoSize is the span of the cross drawn at each light.
const lightGizmoSize = 1.5

// Lines returns the world's line geometry for one frame: primitive bounds
// in their material color, the track edges and the checkpoint gates. With
// colliders set it adds every registered collider, the pruning tree, the
// lights and the shadow volumes of shadow-casting lights.
func Lines(w *world.World, colliders bool) []Batch {
	var out []Batch
	out = append(out, geometry(w.Root, w.TextureTint)...)
	out = append(out, Batch{Color: colorTrack, Vertices: trackEdges(w.Track)})

	for _, cp := range w.Track.Checkpoints {
		v := cp.Collider.DebugVertices()
		for i := 1; i < len(v); i += 3 {
			v[i] = markerHeight
		}
		out = append(out, Batch{Color: colorMarker[cp.Marker], Vertices: v})
	}

	if colliders {
		var v []float32
		for _, c := range w.Colliders.Colliders() {
			v = append(v, c.DebugVertices()...)
		}
		out = append(out, Batch{Color: colorCollider, Vertices: v})
		if root := w.Colliders.Static().Root(); root != nil {
			out = append(out, Batch{Color: colorTreeBounds, Vertices: root.DebugVertices()})
		}
		out = append(out, lights(w.Lights)...)
	}
	return out
}

// lights marks each light with a cross in its color and outlines the
// shadow volume of every shadow caster.
func lights(b *lighting.Buffer) []Batch {
	var out []Batch
	for _, l := range b.Lights {
		out = append(out, Batch{Color: l.Color.Vec4(1), Vertices: debug.Cross(l.Position, lightGizmoSize)})
	}
	matrices, _ := b.ShadowMatrices()
	var v []float32
	for _, m := range matrices {
		v = append(v, debug.Frustum(m)...)
	}
	if len(v) > 0 {
		out = append(out, Batch{Color: colorShadow, Vertices: v})
	}
	return out
}

// geometry outlines every visible primitive with its world bounds. A
// textured material is shaded by its texture's average color once the
// texture has decoded.
func geometry(root *scene.Node, tint func(id string) (mgl32.Vec4, bool)) []Batch {
	if root == nil {
		return nil
	}
	byColor := make(map[mgl32.Vec4][]float32)
	var order []mgl32.Vec4
	root.Walk(func(n *scene.Node) bool {
		if !n.Visible {
			return false
		}
		if n.Kind != scene.KindPrimitive {
			return true
		}
		local, ok := n.LocalBounds()
		if !ok {
			return true
		}
		b := local.Transform(n.WorldMatrix())
		color := colorDefault
		if m := n.Material; m != nil {
			color = m.Color
			if t, ok := tint(m.TextureRef); m.TextureRef != "" && ok {
				color = mgl32.Vec4{color[0] * t[0], color[1] * t[1], color[2] * t[2], color[3]}
			}
		}
		if _, seen := byColor[color]; !seen {
			order = append(order, color)
		}
		byColor[color] = append(byColor[color],
			debug.BoxWireframe(b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])...)
		return true
	})
	out := make([]Batch, 0, len(order))
	for _, c := range order {
		out = append(out, Batch{Color: c, Vertices: byColor[c]})
	}
	return out
}

// trackEdges outlines the track surface triangles.
func trackEdges(t *entity.Track) []float32 {
	tris := t.Triangles()
	out := make([]float32, 0, len(tris)*18)
	for _, tri := range tris {
		for i := range tri {
			a, b := tri[i], tri[(i+1)%3]
			out = append(out, a[0], a[1], a[2], b[0], b[1], b[2])
		}
	}
	return out
}
