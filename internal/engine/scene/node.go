package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/racer/internal/assets"
	"github.com/Faultbox/racer/internal/engine/collision"
	"github.com/Faultbox/racer/internal/engine/lighting"
	"github.com/Faultbox/racer/pkg/formats"
	"github.com/Faultbox/racer/pkg/math"
)

// Kind is the payload a node carries.
type Kind uint8

const (
	KindGroup Kind = iota
	KindPrimitive
	KindLight
	KindLOD
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindPrimitive:
		return "primitive"
	case KindLight:
		return "light"
	case KindLOD:
		return "lod"
	default:
		return "unknown"
	}
}

// Node is a transform in the scene tree plus a kind-specific payload.
type Node struct {
	ID   string // empty for primitives and other anonymous nodes
	Kind Kind

	Visible        bool
	Pickable       bool
	CastShadows    bool
	ReceiveShadows bool
	MaterialIDs    []string // effective list after inheritance

	// Payloads
	Shape    formats.Primitive // KindPrimitive
	Material *formats.Material // KindPrimitive; nil when the shape owns its material
	Asset    *assets.Handle    // KindPrimitive models
	Light    *lighting.Light   // KindLight
	LOD      *LOD              // KindLOD
	Collider *collision.Rectangle

	parent   *Node
	children []*Node
	model    modelBounds

	translation mgl32.Vec3
	rotation    mgl32.Quat
	scale       mgl32.Vec3
}

// NewNode creates a visible node with an identity transform.
func NewNode(id string, kind Kind) *Node {
	return &Node{
		ID:       id,
		Kind:     kind,
		Visible:  true,
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Parent returns the parent node, nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the direct children.
func (n *Node) Children() []*Node { return n.children }

// Add attaches child, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child. It reports whether child was attached to n.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Find returns the first descendant (or n itself) with the given id.
func (n *Node) Find(id string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.ID == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// Translation returns the local position.
func (n *Node) Translation() mgl32.Vec3 { return n.translation }

// SetTranslation sets the local position.
func (n *Node) SetTranslation(v mgl32.Vec3) { n.translation = v }

// Rotation returns the local orientation.
func (n *Node) Rotation() mgl32.Quat { return n.rotation }

// SetRotation sets the local orientation.
func (n *Node) SetRotation(q mgl32.Quat) { n.rotation = q.Normalize() }

// Scale returns the local scale.
func (n *Node) Scale() mgl32.Vec3 { return n.scale }

// SetScale sets the local scale.
func (n *Node) SetScale(v mgl32.Vec3) { n.scale = v }

// Translate moves the node along its own rotated axes.
func (n *Node) Translate(v mgl32.Vec3) {
	n.translation = n.translation.Add(n.rotation.Rotate(v))
}

// SetEuler sets the orientation from XYZ Euler angles in degrees.
func (n *Node) SetEuler(deg mgl32.Vec3) {
	n.rotation = mgl32.AnglesToQuat(
		mgl32.DegToRad(deg[0]), mgl32.DegToRad(deg[1]), mgl32.DegToRad(deg[2]), mgl32.XYZ)
}

// ApplyTransforms runs authored transform steps in order. Order matters:
// a translate moves along the axes left by the rotations before it.
func (n *Node) ApplyTransforms(ops []formats.Transform) {
	for _, t := range ops {
		switch t.Op {
		case formats.OpTranslate:
			n.Translate(t.Value)
		case formats.OpRotate:
			n.SetEuler(t.Value)
		case formats.OpScale:
			n.SetScale(t.Value)
		}
	}
}

// LocalMatrix returns T * R * S.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(n.translation[0], n.translation[1], n.translation[2])
	s := mgl32.Scale3D(n.scale[0], n.scale[1], n.scale[2])
	return t.Mul4(n.rotation.Mat4()).Mul4(s)
}

// WorldMatrix returns the product of all local matrices from the root.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

// WorldYaw returns the heading of the node's +Z axis about world Y.
func (n *Node) WorldYaw() float32 {
	f := n.WorldMatrix().Mul4x1(mgl32.Vec4{0, 0, 1, 0})
	if f[0] == 0 && f[2] == 0 {
		return 0
	}
	return math32.Atan2(f[0], f[2])
}

// VisibleInWorld reports whether n and all its ancestors are visible.
func (n *Node) VisibleInWorld() bool {
	for p := n; p != nil; p = p.parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// Pose returns a live view of the node's ground-plane placement for
// colliders.
func (n *Node) Pose() collision.Pose { return nodePose{n} }

type nodePose struct{ n *Node }

func (p nodePose) Position() math.Vec2 {
	w := p.n.WorldPosition()
	return math.V2(w[0], w[2])
}

func (p nodePose) Yaw() float32 { return p.n.WorldYaw() }

// LOD picks one of several sub-graphs by viewer distance.
type LOD struct {
	Levels []LODLevel
}

// LODLevel is a sub-graph used from MinDistance onwards.
type LODLevel struct {
	Node        *Node
	MinDistance float32
}

// Select returns the index of the last level whose MinDistance does not
// exceed distance, or -1 when there are no levels.
func (l *LOD) Select(distance float32) int {
	if len(l.Levels) == 0 {
		return -1
	}
	idx := 0
	for i, lvl := range l.Levels {
		if distance >= lvl.MinDistance {
			idx = i
		}
	}
	return idx
}

// UpdateLOD shows only the level matching the distance from viewer to the
// LOD node.
func (n *Node) UpdateLOD(viewer mgl32.Vec3) {
	if n.LOD == nil {
		return
	}
	sel := n.LOD.Select(n.WorldPosition().Sub(viewer).Len())
	for i, lvl := range n.LOD.Levels {
		lvl.Node.Visible = i == sel
	}
}
