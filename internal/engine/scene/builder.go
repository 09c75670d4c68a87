// Package scene turns parsed scene data into a tree of transform nodes and
// indexes the result for the systems that drive it.
package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/racer/internal/assets"
	"github.com/Faultbox/racer/internal/engine/collision"
	"github.com/Faultbox/racer/internal/engine/lighting"
	"github.com/Faultbox/racer/internal/logger"
	"github.com/Faultbox/racer/pkg/formats"
	"github.com/Faultbox/racer/pkg/math"
)

// Builder instantiates node sub-graphs from a parsed scene.
type Builder struct {
	scene     *formats.Scene
	registry  *Registry
	colliders *collision.Manager
	assets    *assets.Manager

	register bool            // record nodes, pickables and colliders
	active   map[string]bool // ids on the current instantiation path
}

// NewBuilder creates a builder. colliders and am may be nil, in which case
// declared colliders are not registered and models are not loaded.
func NewBuilder(s *formats.Scene, reg *Registry, colliders *collision.Manager, am *assets.Manager) *Builder {
	reg.SetMaterials(s.Materials)
	return &Builder{
		scene:     s,
		registry:  reg,
		colliders: colliders,
		assets:    am,
		register:  true,
		active:    make(map[string]bool),
	}
}

// Build instantiates the scene's root node.
func (b *Builder) Build() *Node {
	return b.InstantiateNode(b.scene.Graph.RootID, nil)
}

// InstantiateNode builds the node with the given id and its sub-graph and
// attaches it to parent. It returns nil if the id is not declared; parent
// supplies inherited materials and shadow flags.
func (b *Builder) InstantiateNode(id string, parent *Node) *Node {
	def, ok := b.scene.Graph.Nodes[id]
	if !ok {
		logger.Debug("node not declared", zap.String("id", id))
		return nil
	}
	if b.active[id] {
		logger.Error("node references itself", zap.String("id", id))
		return nil
	}
	b.active[id] = true
	defer delete(b.active, id)

	n := NewNode(id, KindGroup)
	n.Visible = def.Visible
	n.Pickable = def.Pickable && b.register
	inherit(n, parent)
	if len(def.MaterialIDs) > 0 {
		n.MaterialIDs = def.MaterialIDs
	}
	if def.CastShadows != nil {
		n.CastShadows = *def.CastShadows
	}
	if def.ReceiveShadows != nil {
		n.ReceiveShadows = *def.ReceiveShadows
	}
	if parent != nil {
		parent.Add(n)
	}
	n.ApplyTransforms(def.Transforms)

	for _, child := range def.Children {
		switch child.Kind {
		case formats.ChildPrimitive:
			for _, p := range child.Primitives {
				b.addPrimitive(n, p)
			}
		case formats.ChildLight:
			b.addLight(n, child.Light)
		case formats.ChildLODRef:
			b.addLOD(n, child.Ref)
		case formats.ChildNodeRef:
			b.InstantiateNode(child.Ref, n)
		}
	}

	if b.register {
		b.registry.addNode(n)
		if def.Collider != nil {
			b.addCollider(n, def.Collider)
		}
	}
	return n
}

// Clone instantiates another copy of a declared sub-graph. Copies are not
// registered, so they never shadow the original in lookups, picking or
// collision.
func (b *Builder) Clone(id string, parent *Node) *Node {
	prev := b.register
	b.register = false
	defer func() { b.register = prev }()
	return b.InstantiateNode(id, parent)
}

func inherit(n, parent *Node) {
	if parent == nil {
		return
	}
	n.MaterialIDs = parent.MaterialIDs
	n.CastShadows = parent.CastShadows
	n.ReceiveShadows = parent.ReceiveShadows
}

func (b *Builder) addPrimitive(n *Node, p formats.Primitive) {
	pn := NewNode("", KindPrimitive)
	pn.Shape = p
	inherit(pn, n)

	if formats.OwnsMaterial(p) {
		if m, ok := p.(formats.Model); ok && b.assets != nil {
			pn.Asset = b.assets.LoadAsync(m.FilePath)
		}
		n.Add(pn)
		return
	}

	if len(n.MaterialIDs) == 0 {
		logger.Error("primitive has no material",
			zap.String("node", n.ID),
			zap.String("primitive", p.Kind().String()))
		return
	}
	mat := b.registry.Material(n.MaterialIDs[0])
	if mat == nil {
		logger.Error("primitive references unknown material",
			zap.String("node", n.ID),
			zap.String("material", n.MaterialIDs[0]))
		return
	}
	pn.Material = mat
	n.Add(pn)
}

func (b *Builder) addLight(n *Node, def *formats.Light) {
	l := lighting.FromDef(def)
	ln := NewNode(def.ID, KindLight)
	ln.Light = &l
	ln.CastShadows = def.CastShadow
	n.Add(ln)
	if b.register {
		b.registry.lights = append(b.registry.lights, ln)
	}
}

func (b *Builder) addLOD(n *Node, id string) {
	def, ok := b.scene.Graph.LODs[id]
	if !ok {
		logger.Debug("lod not declared", zap.String("id", id))
		return
	}
	ln := NewNode(id, KindLOD)
	ln.LOD = &LOD{}
	inherit(ln, n)
	n.Add(ln)

	for _, lvl := range def.Levels {
		child := b.InstantiateNode(lvl.NodeID, ln)
		if child == nil {
			continue
		}
		ln.LOD.Levels = append(ln.LOD.Levels, LODLevel{Node: child, MinDistance: lvl.MinDistance})
	}
	for i, lvl := range ln.LOD.Levels {
		lvl.Node.Visible = i == 0
	}
	if b.register {
		b.registry.lods = append(b.registry.lods, ln)
	}
}

func (b *Builder) addCollider(n *Node, def *formats.ColliderDesc) {
	if b.colliders == nil {
		return
	}
	r := collision.NewRectangle(n.Pose(), math.V2(def.Center[0], def.Center[1]), def.Width, def.Depth, Category(def.Category))
	r.Owner = n
	n.Collider = r
	b.colliders.AddCollider(r, def.Static)
}

// Category maps a declared collider category onto the collision package's.
func Category(c formats.ColliderCategory) collision.Category {
	switch c {
	case formats.CategoryPowerUp:
		return collision.CategoryPowerUp
	case formats.CategoryCar:
		return collision.CategoryCar
	case formats.CategoryCheckpoint:
		return collision.CategoryCheckpoint
	default:
		return collision.CategoryObstacle
	}
}
