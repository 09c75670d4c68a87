package collision

import (
	"github.com/Faultbox/racer/pkg/math"
)

// PruningTree holds static colliders in a binary merge tree. Each inner node
// bounds its two children, so a query only descends where AABBs overlap.
type PruningTree struct {
	colliders []Collider
	root      Collider
}

// NewPruningTree creates an empty tree.
func NewPruningTree() *PruningTree {
	return &PruningTree{}
}

// Add inserts a collider and rebuilds the tree.
func (t *PruningTree) Add(c Collider) {
	t.colliders = append(t.colliders, c)
	t.Update()
}

// Remove deletes a collider and rebuilds the tree. It reports whether the
// collider was present.
func (t *PruningTree) Remove(c Collider) bool {
	for i, existing := range t.colliders {
		if existing == c {
			t.colliders = append(t.colliders[:i], t.colliders[i+1:]...)
			t.Update()
			return true
		}
	}
	return false
}

// Len returns the number of leaf colliders.
func (t *PruningTree) Len() int { return len(t.colliders) }

// Leaves returns the leaf colliders in insertion order.
func (t *PruningTree) Leaves() []Collider { return t.colliders }

// Root returns the root of the merge tree, nil when empty.
func (t *PruningTree) Root() Collider { return t.root }

// Position returns the root's position.
func (t *PruningTree) Position() math.Vec2 {
	if t.root == nil {
		return math.Vec2{}
	}
	return t.root.Position()
}

// Bounds returns the root's bounds.
func (t *PruningTree) Bounds() AABB {
	if t.root == nil {
		return AABB{}
	}
	return t.root.Bounds()
}

// Update rebuilds the merge tree from scratch.
func (t *PruningTree) Update() {
	t.root = buildTree(t.colliders)
}

// Collide returns the leaf overlapping other, or nil.
func (t *PruningTree) Collide(other Collider) Collider {
	if t.root == nil || other == nil {
		return nil
	}
	return collideChild(t.root, other)
}

// DebugVertices outlines every leaf.
func (t *PruningTree) DebugVertices() []float32 {
	var out []float32
	for _, c := range t.colliders {
		out = append(out, c.DebugVertices()...)
	}
	return out
}

// buildTree merges colliders pairwise until one root remains. In each round
// every unpaired collider is joined with its nearest unpaired neighbour; an
// odd one out is carried into the next round as is.
func buildTree(colliders []Collider) Collider {
	if len(colliders) == 0 {
		return nil
	}
	level := append([]Collider(nil), colliders...)
	for len(level) > 1 {
		paired := make([]bool, len(level))
		next := make([]Collider, 0, (len(level)+1)/2)
		for i, c := range level {
			if paired[i] {
				continue
			}
			paired[i] = true

			best := -1
			var bestDist float32
			for j := i + 1; j < len(level); j++ {
				if paired[j] {
					continue
				}
				d := c.Position().Distance(level[j].Position())
				if best < 0 || d < bestDist {
					best, bestDist = j, d
				}
			}
			if best < 0 {
				next = append(next, c)
				continue
			}
			paired[best] = true
			next = append(next, newTreeNode(c, level[best]))
		}
		level = next
	}
	return level[0]
}

// treeNode is an inner node of a PruningTree.
type treeNode struct {
	left, right Collider
	bounds      AABB
	position    math.Vec2
}

func newTreeNode(left, right Collider) *treeNode {
	n := &treeNode{left: left, right: right}
	n.Update()
	return n
}

func (n *treeNode) Position() math.Vec2 { return n.position }

func (n *treeNode) Bounds() AABB { return n.bounds }

// Update refreshes the node from its children without touching them.
func (n *treeNode) Update() {
	n.bounds = n.left.Bounds().Union(n.right.Bounds())
	n.position = n.left.Position().Lerp(n.right.Position(), 0.5)
}

func (n *treeNode) Collide(other Collider) Collider {
	if !n.bounds.Overlaps(other.Bounds()) {
		return nil
	}
	if hit := collideChild(n.left, other); hit != nil {
		return hit
	}
	return collideChild(n.right, other)
}

// collideChild skips the query collider itself so registered colliders can
// be tested against the tree that holds them.
func collideChild(child, other Collider) Collider {
	if child == other {
		return nil
	}
	return child.Collide(other)
}

func (n *treeNode) DebugVertices() []float32 {
	return n.bounds.DebugVertices()
}
