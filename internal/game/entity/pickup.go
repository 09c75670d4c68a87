package entity

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/racer/internal/engine/collision"
	"github.com/Faultbox/racer/internal/engine/scene"
	"github.com/Faultbox/racer/pkg/formats"
	"github.com/Faultbox/racer/pkg/math"
)

// Power-up defaults.
const (
	DefaultMultiplier = 1.5
	PowerUpSize       = 2
)

// PowerUp raises a car's top speed for a while once caught.
type PowerUp struct {
	ID         string
	Position   mgl32.Vec3
	Multiplier float32
	Node       *scene.Node // optional visual
	Collider   *collision.Rectangle

	caught bool
}

// NewPowerUp creates a power-up at its declared position.
func NewPowerUp(def *formats.PowerUp, node *scene.Node) *PowerUp {
	p := &PowerUp{
		ID:         def.ID,
		Position:   def.Position,
		Multiplier: def.Multiplier,
		Node:       node,
	}
	if p.Multiplier <= 0 {
		p.Multiplier = DefaultMultiplier
	}
	if node != nil {
		node.SetTranslation(def.Position)
	}
	p.Collider = collision.NewRectangle(
		collision.StaticPose{At: math.V2(def.Position[0], def.Position[2])},
		math.Vec2{}, PowerUpSize, PowerUpSize, collision.CategoryPowerUp)
	p.Collider.Owner = p
	return p
}

// Caught reports whether the power-up was taken this lap.
func (p *PowerUp) Caught() bool { return p.caught }

// Catch takes the power-up and hides it. It reports false if it had
// already been taken.
func (p *PowerUp) Catch() bool {
	if p.caught {
		return false
	}
	p.caught = true
	if p.Node != nil {
		p.Node.Visible = false
	}
	return true
}

// Reset makes the power-up available again.
func (p *PowerUp) Reset() {
	p.caught = false
	if p.Node != nil {
		p.Node.Visible = true
	}
}

// Obstacle is an object placed on the track that blocks cars.
type Obstacle struct {
	ID       string
	Node     *scene.Node
	Collider *collision.Rectangle
}

// NewObstacle wraps a placed obstacle node. The collider follows the node.
func NewObstacle(def *formats.Obstacle, node *scene.Node) *Obstacle {
	o := &Obstacle{ID: def.ID, Node: node}
	o.Collider = collision.NewRectangle(node.Pose(), math.Vec2{}, def.Width, def.Depth, collision.CategoryObstacle)
	o.Collider.Owner = o
	return o
}
