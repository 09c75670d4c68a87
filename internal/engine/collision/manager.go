package collision

// Manager owns the static and dynamic colliders of a scene.
type Manager struct {
	static  *PruningTree
	dynamic []Collider
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{static: NewPruningTree()}
}

// AddCollider registers a collider. Static colliders go into the pruning
// tree, which is rebuilt; dynamic ones are refreshed on every Update.
func (m *Manager) AddCollider(c Collider, static bool) {
	if c == nil {
		return
	}
	if static {
		m.static.Add(c)
		return
	}
	m.dynamic = append(m.dynamic, c)
}

// RemoveCollider unregisters a collider from whichever set holds it.
func (m *Manager) RemoveCollider(c Collider) {
	if m.static.Remove(c) {
		return
	}
	for i, d := range m.dynamic {
		if d == c {
			m.dynamic = append(m.dynamic[:i], m.dynamic[i+1:]...)
			return
		}
	}
}

// Update refreshes the world geometry of every dynamic collider. Static
// colliders are never refreshed after they are added.
func (m *Manager) Update(dt float64) {
	for _, c := range m.dynamic {
		c.Update()
	}
}

// CheckCollisions returns the first collider overlapping c, or nil. Static
// colliders are tested first, then dynamic ones in registration order,
// skipping c itself. c does not need to be registered.
func (m *Manager) CheckCollisions(c Collider) Collider {
	if c == nil {
		return nil
	}
	if hit := m.static.Collide(c); hit != nil {
		return hit
	}
	for _, d := range m.dynamic {
		if d == c {
			continue
		}
		if hit := d.Collide(c); hit != nil {
			return hit
		}
	}
	return nil
}

// Static returns the static pruning tree.
func (m *Manager) Static() *PruningTree { return m.static }

// Dynamic returns the dynamic colliders in registration order.
func (m *Manager) Dynamic() []Collider { return m.dynamic }

// Colliders returns every registered collider, static first.
func (m *Manager) Colliders() []Collider {
	out := make([]Collider, 0, m.static.Len()+len(m.dynamic))
	out = append(out, m.static.Leaves()...)
	return append(out, m.dynamic...)
}
