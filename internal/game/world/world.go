// Package world loads a scene document into the runtime objects a race
// needs and keeps them together for the lifetime of that scene.
package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/racer/internal/assets"
	"github.com/Faultbox/racer/internal/engine/animation"
	"github.com/Faultbox/racer/internal/engine/camera"
	"github.com/Faultbox/racer/internal/engine/collision"
	"github.com/Faultbox/racer/internal/engine/lighting"
	"github.com/Faultbox/racer/internal/engine/picking"
	"github.com/Faultbox/racer/internal/engine/scene"
	"github.com/Faultbox/racer/internal/game/entity"
	"github.com/Faultbox/racer/internal/logger"
	"github.com/Faultbox/racer/pkg/formats"
	"github.com/Faultbox/racer/pkg/math"
)

// World is one loaded scene.
type World struct {
	Path  string
	Scene *formats.Scene

	Root       *scene.Node
	Registry   *scene.Registry
	Colliders  *collision.Manager
	Animations *animation.Player
	Lights     *lighting.Buffer

	Track     *entity.Track
	PowerUps  []*entity.PowerUp
	Obstacles []*entity.Obstacle

	cars    map[string]*entity.Car
	carIDs  []string
	tints   map[string]tint
	builder *scene.Builder
	camera  string
}

// LoadFile parses and loads a scene file.
func LoadFile(path string, am *assets.Manager, aspect float32) (*World, error) {
	s, err := formats.LoadScene(path)
	if err != nil {
		return nil, err
	}
	w, err := Load(s, am, aspect)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	w.Path = path
	return w, nil
}

// Load builds a world from a parsed scene. Either the whole world is built
// or an error is returned; am may be nil.
func Load(s *formats.Scene, am *assets.Manager, aspect float32) (*World, error) {
	w := &World{
		Scene:      s,
		Registry:   scene.NewRegistry(),
		Colliders:  collision.NewManager(),
		Animations: animation.NewPlayer(),
		Lights:     lighting.NewBuffer(),
		cars:       make(map[string]*entity.Car),
		tints:      make(map[string]tint),
		camera:     s.Cameras.Initial,
	}

	if am != nil {
		for id, tex := range s.Textures {
			w.Registry.AddTexture(id, am.LoadAsync(tex.FilePath))
			for i, mip := range tex.Mipmaps {
				w.Registry.AddTexture(fmt.Sprintf("%s#mip%d", id, i), am.LoadAsync(mip))
			}
		}
		for face, path := range map[string]string{
			"front": s.Skybox.Front, "back": s.Skybox.Back,
			"up": s.Skybox.Up, "down": s.Skybox.Down,
			"left": s.Skybox.Left, "right": s.Skybox.Right,
		} {
			if path != "" {
				w.Registry.AddTexture("skybox#"+face, am.LoadAsync(path))
			}
		}
	}

	for _, d := range s.Cameras.List {
		w.Registry.AddCamera(camera.FromDef(d, aspect))
	}
	if w.Registry.Camera(w.camera) == nil {
		return nil, fmt.Errorf("initial camera %q not declared", w.camera)
	}

	w.builder = scene.NewBuilder(s, w.Registry, w.Colliders, am)
	w.Root = w.builder.Build()
	if w.Root == nil {
		return nil, fmt.Errorf("root node %q not declared", s.Graph.RootID)
	}

	w.Track = entity.NewTrack(&s.Racetrack)
	for _, def := range s.Racetrack.PowerUps {
		var node *scene.Node
		if def.Node != "" {
			if node = w.Registry.Node(def.Node); node == nil {
				logger.Warn("power-up node not found",
					zap.String("powerup", def.ID), zap.String("node", def.Node))
			}
		}
		p := entity.NewPowerUp(def, node)
		w.PowerUps = append(w.PowerUps, p)
		w.Colliders.AddCollider(p.Collider, true)
	}

	for _, def := range s.Cars {
		body := w.Registry.Node(def.Body)
		if body == nil {
			return nil, fmt.Errorf("car %q: body node %q not found", def.ID, def.Body)
		}
		car := entity.NewCar(def, body, w.Registry)
		w.cars[def.ID] = car
		w.carIDs = append(w.carIDs, def.ID)
	}

	for _, def := range s.Animations {
		w.Animations.Add(animation.New(def, w.Resolver()))
	}
	if id := s.Racetrack.Opponent; id != "" {
		run := w.Animations.Get(id)
		if run == nil {
			return nil, fmt.Errorf("opponent animation %q not declared", id)
		}
		// Opponent laps are counted as animation loops.
		if !run.Repeat {
			return nil, fmt.Errorf("opponent animation %q must repeat", id)
		}
	}
	for _, def := range s.Animations {
		if def.Autostart {
			w.Animations.PlayFromStart(def.ID)
		}
	}

	w.collectLights()
	logger.Info("world loaded",
		zap.Int("nodes", len(w.Registry.NodeIDs())),
		zap.Int("cars", len(w.carIDs)),
		zap.Int("checkpoints", len(w.Track.Checkpoints)),
		zap.Int("animations", w.Animations.Len()))
	return w, nil
}

// Resolver looks animation targets up by node id.
func (w *World) Resolver() animation.Resolver {
	return func(id string) animation.Target {
		if n := w.Registry.Node(id); n != nil {
			return n
		}
		return nil
	}
}

// Car returns a car by id, or nil.
func (w *World) Car(id string) *entity.Car { return w.cars[id] }

// CarIDs returns the car ids in document order.
func (w *World) CarIDs() []string { return w.carIDs }

// CarByBody returns the car whose body node has the given id, or nil.
func (w *World) CarByBody(nodeID string) *entity.Car {
	for _, id := range w.carIDs {
		if c := w.cars[id]; c.Def.Body == nodeID {
			return c
		}
	}
	return nil
}

// Camera returns the active camera.
func (w *World) Camera() *camera.Camera { return w.Registry.Camera(w.camera) }

// CameraID returns the id of the active camera.
func (w *World) CameraID() string { return w.camera }

// SetCamera switches the active camera. Unknown ids are ignored.
func (w *World) SetCamera(id string) bool {
	if w.Registry.Camera(id) == nil {
		return false
	}
	w.camera = id
	return true
}

// SetAspect updates the aspect ratio of every camera.
func (w *World) SetAspect(aspect float32) {
	for _, c := range w.Registry.Cameras() {
		c.SetAspect(aspect)
	}
}

// Picker returns a picking manager over the pickable nodes with the given
// ids, or over all pickables when none are given.
func (w *World) Picker(width, height int, ids ...string) *picking.Manager {
	return picking.NewManager(width, height, w.Registry.PickTargets(ids...)...)
}

// PlaceObstacle puts a copy of a declared obstacle at p and registers its
// collider as static.
func (w *World) PlaceObstacle(id string, p math.Vec2) (*entity.Obstacle, error) {
	def := w.Scene.Obstacle(id)
	if def == nil {
		return nil, fmt.Errorf("obstacle %q not declared", id)
	}
	node := w.builder.Clone(def.Node, w.Root)
	if node == nil {
		return nil, fmt.Errorf("obstacle %q: node %q not declared", id, def.Node)
	}
	t := node.Translation()
	node.SetTranslation(mgl32.Vec3{p.X, t[1], p.Y})

	o := entity.NewObstacle(def, node)
	o.Collider.Update()
	w.Obstacles = append(w.Obstacles, o)
	w.Colliders.AddCollider(o.Collider, true)
	return o, nil
}

// ResetPowerUps makes every power-up available again.
func (w *World) ResetPowerUps() {
	for _, p := range w.PowerUps {
		p.Reset()
	}
}

// TexturesReady reports whether all texture loads have finished.
func (w *World) TexturesReady() bool { return w.Registry.TexturesReady() }

// Update advances animations and colliders and refreshes view-dependent
// state. Callers run it once per tick.
func (w *World) Update(dt float64) {
	w.Animations.Update(dt)
	w.Colliders.Update(dt)
	w.pollTextures()
	if cam := w.Camera(); cam != nil {
		for _, n := range w.Registry.LODs() {
			n.UpdateLOD(cam.Position)
		}
	}
	w.collectLights()
}

// collectLights gathers enabled, visible lights in world space.
func (w *World) collectLights() {
	w.Lights.Clear()
	for _, n := range w.Registry.Lights() {
		if n.Light == nil || !n.Light.Enabled || !n.VisibleInWorld() {
			continue
		}
		l := *n.Light
		m := n.WorldMatrix()
		l.Position = mgl32.TransformCoordinate(l.Position, m)
		l.Target = mgl32.TransformCoordinate(l.Target, m)
		if !w.Lights.Add(l) {
			logger.Warn("too many lights", zap.String("light", l.ID), zap.Int("max", lighting.MaxLights))
			return
		}
	}
}
