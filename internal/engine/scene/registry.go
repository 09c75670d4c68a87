package scene

import (
	"sort"

	"github.com/Faultbox/racer/internal/assets"
	"github.com/Faultbox/racer/internal/engine/camera"
	"github.com/Faultbox/racer/internal/engine/picking"
	"github.com/Faultbox/racer/pkg/formats"
)

// Registry indexes the objects of one loaded scene. It is filled while the
// scene is built and read by animation, collision and picking afterwards.
type Registry struct {
	nodes     map[string]*Node
	pickables []*Node
	lights    []*Node
	lods      []*Node
	materials map[string]*formats.Material
	textures  map[string]*assets.Handle
	cameras   map[string]*camera.Camera
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		nodes:     make(map[string]*Node),
		materials: make(map[string]*formats.Material),
		textures:  make(map[string]*assets.Handle),
		cameras:   make(map[string]*camera.Camera),
	}
}

// Node returns the first instance of a node id, or nil.
func (r *Registry) Node(id string) *Node { return r.nodes[id] }

// NodeIDs returns all registered ids, sorted.
func (r *Registry) NodeIDs() []string {
	ids := make([]string, 0, len(r.nodes))
	for id := range r.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Pickables returns the pickable nodes in build order.
func (r *Registry) Pickables() []*Node { return r.pickables }

// PickTargets returns the pickable nodes with the given ids as picking
// targets. With no ids every pickable node is returned.
func (r *Registry) PickTargets(ids ...string) []picking.Target {
	var out []picking.Target
	for _, n := range r.pickables {
		if len(ids) == 0 || contains(ids, n.ID) {
			out = append(out, n)
		}
	}
	return out
}

// Lights returns the light nodes in build order.
func (r *Registry) Lights() []*Node { return r.lights }

// LODs returns the level-of-detail nodes in build order.
func (r *Registry) LODs() []*Node { return r.lods }

// Material returns a material by id, or nil.
func (r *Registry) Material(id string) *formats.Material { return r.materials[id] }

// SetMaterials replaces the material table.
func (r *Registry) SetMaterials(m map[string]*formats.Material) {
	r.materials = m
}

// Texture returns the load handle of a texture, or nil.
func (r *Registry) Texture(id string) *assets.Handle { return r.textures[id] }

// AddTexture registers a texture load handle.
func (r *Registry) AddTexture(id string, h *assets.Handle) { r.textures[id] = h }

// Textures returns every texture load handle by id.
func (r *Registry) Textures() map[string]*assets.Handle { return r.textures }

// TexturesReady reports whether every texture load has finished.
func (r *Registry) TexturesReady() bool {
	for _, h := range r.textures {
		if !h.Ready() {
			return false
		}
	}
	return true
}

// Camera returns a camera by id, or nil.
func (r *Registry) Camera(id string) *camera.Camera { return r.cameras[id] }

// AddCamera registers a camera under its id.
func (r *Registry) AddCamera(c *camera.Camera) { r.cameras[c.ID] = c }

// Cameras returns every registered camera.
func (r *Registry) Cameras() map[string]*camera.Camera { return r.cameras }

func (r *Registry) addNode(n *Node) {
	if _, exists := r.nodes[n.ID]; !exists {
		r.nodes[n.ID] = n
	}
	if n.Pickable {
		r.pickables = append(r.pickables, n)
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
