package picking

import "github.com/go-gl/mathgl/mgl32"

// Target is a named pickable object. PickBoxes returns the world bounds of
// the geometry that selects it.
type Target interface {
	PickName() string
	PickBoxes() []AABB
}

// Viewer supplies the matrices a click is unprojected with.
type Viewer interface {
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4
}

// Manager resolves clicks to the nearest of its targets.
type Manager struct {
	targets []Target
	width   float32
	height  float32
}

// NewManager creates a picking manager for a viewport.
func NewManager(width, height int, targets ...Target) *Manager {
	return &Manager{
		targets: targets,
		width:   float32(width),
		height:  float32(height),
	}
}

// Add registers more targets.
func (m *Manager) Add(targets ...Target) {
	m.targets = append(m.targets, targets...)
}

// Resize updates the viewport size.
func (m *Manager) Resize(width, height int) {
	m.width = float32(width)
	m.height = float32(height)
}

// Len returns the number of targets.
func (m *Manager) Len() int { return len(m.targets) }

// GetNearestObject returns the name of the nearest target under the pixel
// at (x, y), as seen by viewer.
func (m *Manager) GetNearestObject(x, y float32, viewer Viewer) (string, bool) {
	if viewer == nil || m.width <= 0 || m.height <= 0 {
		return "", false
	}
	ray := ScreenToRay(x, y, m.width, m.height, viewer.ViewMatrix(), viewer.ProjectionMatrix())
	name, _, ok := m.Nearest(ray)
	return name, ok
}

// Nearest returns the target whose geometry the ray hits first.
func (m *Manager) Nearest(ray Ray) (name string, dist float32, ok bool) {
	for _, target := range m.targets {
		for _, box := range target.PickBoxes() {
			t, hit := ray.IntersectAABB(box)
			if !hit {
				continue
			}
			if !ok || t < dist {
				name, dist, ok = target.PickName(), t, true
			}
		}
	}
	return name, dist, ok
}
