package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/racer/internal/engine/picking"
	"github.com/Faultbox/racer/internal/logger"
	"github.com/Faultbox/racer/pkg/formats"
)

// modelBounds caches the decoded extent of a model asset.
type modelBounds struct {
	done bool
	ok   bool
	box  picking.AABB
}

// ShapeBounds returns the local bounds of a primitive. Models report false;
// Node.LocalBounds reads theirs from the loaded asset.
func ShapeBounds(p formats.Primitive) (picking.AABB, bool) {
	switch s := p.(type) {
	case formats.Cylinder:
		r := max(s.Base, s.Top)
		h := s.Height / 2
		return picking.NewAABB(mgl32.Vec3{-r, -h, -r}, mgl32.Vec3{r, h, r}), true
	case formats.Box:
		return picking.NewAABB(s.Corner1, s.Corner2), true
	case formats.Sphere:
		r := s.Radius
		return picking.NewAABB(mgl32.Vec3{-r, -r, -r}, mgl32.Vec3{r, r, r}), true
	case formats.Rectangle:
		return picking.NewAABB(s.Corner1.Vec3(0), s.Corner2.Vec3(0)), true
	case formats.Triangle:
		return picking.BoundsOf(s.P1, s.P2, s.P3), true
	case formats.Polygon:
		r := s.Radius
		return picking.NewAABB(mgl32.Vec3{-r, -r, 0}, mgl32.Vec3{r, r, 0}), true
	case formats.NURBS:
		if len(s.ControlPoints) == 0 {
			return picking.AABB{}, false
		}
		return picking.BoundsOf(s.ControlPoints...), true
	default:
		return picking.AABB{}, false
	}
}

// LocalBounds returns the bounds of a primitive node in its own frame. A
// model has none until its asset has loaded; a model that fails to decode
// is logged once and stays unbounded.
func (n *Node) LocalBounds() (picking.AABB, bool) {
	if _, ok := n.Shape.(formats.Model); !ok {
		return ShapeBounds(n.Shape)
	}
	if n.model.done {
		return n.model.box, n.model.ok
	}
	if n.Asset == nil || !n.Asset.Ready() {
		return picking.AABB{}, false
	}
	n.model.done = true
	lo, hi, err := n.Asset.ModelBounds()
	if err != nil {
		logger.Warn("model has no usable bounds", zap.String("path", n.Asset.Path()), zap.Error(err))
		return picking.AABB{}, false
	}
	n.model.box, n.model.ok = picking.NewAABB(lo, hi), true
	return n.model.box, true
}

// WorldBounds returns the world AABB of every visible primitive under n.
func (n *Node) WorldBounds() (picking.AABB, bool) {
	var out picking.AABB
	found := false
	for _, b := range n.primitiveBoxes(false) {
		if !found {
			out, found = b, true
			continue
		}
		out = out.Union(b)
	}
	return out, found
}

// PickName implements picking.Target.
func (n *Node) PickName() string { return n.ID }

// PickBoxes implements picking.Target. Geometry under a nested pickable
// node belongs to that node, not to n.
func (n *Node) PickBoxes() []picking.AABB {
	return n.primitiveBoxes(true)
}

func (n *Node) primitiveBoxes(stopAtPickable bool) []picking.AABB {
	var boxes []picking.AABB
	n.Walk(func(c *Node) bool {
		if !c.Visible {
			return false
		}
		if stopAtPickable && c != n && c.Pickable {
			return false
		}
		if c.Kind != KindPrimitive {
			return true
		}
		if local, ok := c.LocalBounds(); ok {
			boxes = append(boxes, local.Transform(c.WorldMatrix()))
		}
		return true
	})
	return boxes
}
