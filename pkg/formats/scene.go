package formats

import "github.com/go-gl/mathgl/mgl32"

// Scene is the parsed content of a scene XML document. It is plain data;
// nothing in it references runtime objects.
type Scene struct {
	Globals    Globals
	Fog        *Fog // nil when absent
	Skybox     Skybox
	Textures   map[string]*Texture
	Materials  map[string]*Material
	Cameras    Cameras
	Graph      Graph
	Racetrack  Racetrack
	Cars       []*Car
	HUD        HUD
	Obstacles  []*Obstacle
	Animations []*Animation
}

// Car returns the car definition with the given id, or nil.
func (s *Scene) Car(id string) *Car {
	for _, c := range s.Cars {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Obstacle returns the obstacle definition with the given id, or nil.
func (s *Scene) Obstacle(id string) *Obstacle {
	for _, o := range s.Obstacles {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// Globals holds scene-wide colors.
type Globals struct {
	Background mgl32.Vec4
	Ambient    mgl32.Vec4
}

// Fog holds linear fog settings.
type Fog struct {
	Color mgl32.Vec4
	Near  float32
	Far   float32
}

// Skybox is a textured box around the scene.
type Skybox struct {
	Size      mgl32.Vec3
	Center    mgl32.Vec3
	Emissive  mgl32.Vec4
	Intensity float32
	Front     string
	Back      string
	Up        string
	Down      string
	Left      string
	Right     string
}

// Texture references an image or video file.
type Texture struct {
	ID       string
	FilePath string
	IsVideo  bool
	Mipmaps  []string // explicit mipmap levels, may be empty
}

// Shading selects the lighting model of a material.
type Shading uint8

const (
	ShadingSmooth Shading = iota
	ShadingFlat
	ShadingNone
)

// Material describes surface appearance.
type Material struct {
	ID          string
	Color       mgl32.Vec4
	Specular    mgl32.Vec4
	Emissive    mgl32.Vec4
	Shininess   float32
	Transparent bool
	Opacity     float32
	Wireframe   bool
	Shading     Shading
	TextureRef  string
	TexLengthS  float32
	TexLengthT  float32
	TwoSided    bool
	BumpRef     string
	BumpScale   float32
	SpecularRef string
}

// CameraKind distinguishes camera projections.
type CameraKind uint8

const (
	CameraPerspective CameraKind = iota
	CameraOrthogonal
)

// Camera is a camera declaration.
type Camera struct {
	Kind     CameraKind
	ID       string
	Angle    float32 // vertical field of view in degrees (perspective)
	Near     float32
	Far      float32
	Location mgl32.Vec3
	Target   mgl32.Vec3
	Left     float32 // orthogonal bounds
	Right    float32
	Bottom   float32
	Top      float32
}

// Cameras lists the declared cameras in document order.
type Cameras struct {
	Initial string
	List    []*Camera
}

// ByID returns the camera with the given id, or nil.
func (c Cameras) ByID(id string) *Camera {
	for _, cam := range c.List {
		if cam.ID == id {
			return cam
		}
	}
	return nil
}

// Graph is the node table of a scene.
type Graph struct {
	RootID string
	Nodes  map[string]*Node
	LODs   map[string]*LOD
}

// TransformOp is one authored transform step.
type TransformOp uint8

const (
	OpTranslate TransformOp = iota
	OpRotate
	OpScale
)

// Transform is an authored transform entry. Rotations are in degrees.
type Transform struct {
	Op    TransformOp
	Value mgl32.Vec3
}

// ColliderCategory tags what a collider represents in the race.
type ColliderCategory uint8

const (
	CategoryObstacle ColliderCategory = iota
	CategoryPowerUp
	CategoryCar
	CategoryCheckpoint
)

// ColliderDesc declares a rectangle collider on a node.
type ColliderDesc struct {
	Center   mgl32.Vec2
	Width    float32
	Depth    float32
	Static   bool
	Category ColliderCategory
}

// Node is a scene graph node declaration.
type Node struct {
	ID             string
	Transforms     []Transform
	MaterialIDs    []string // empty means inherit from the parent
	CastShadows    *bool    // nil means inherit
	ReceiveShadows *bool    // nil means inherit
	Pickable       bool
	Visible        bool
	Collider       *ColliderDesc
	Children       []Child
}

// ChildKind distinguishes the entries of a node's children list.
type ChildKind uint8

const (
	ChildNodeRef ChildKind = iota
	ChildLODRef
	ChildPrimitive
	ChildLight
)

// Child is one entry of a node's children list.
type Child struct {
	Kind       ChildKind
	Ref        string      // ChildNodeRef, ChildLODRef
	Primitives []Primitive // ChildPrimitive
	Light      *Light      // ChildLight
}

// LOD is a level-of-detail declaration.
type LOD struct {
	ID     string
	Levels []LODLevel
}

// LODLevel references the node used from MinDistance onwards.
type LODLevel struct {
	NodeID      string
	MinDistance float32
}

// LightKind distinguishes light declarations.
type LightKind uint8

const (
	LightPoint LightKind = iota
	LightSpot
	LightDirectional
)

// Light is a light declaration. Fields that do not apply to Kind are zero.
type Light struct {
	Kind          LightKind
	ID            string
	Enabled       bool
	Color         mgl32.Vec4
	Intensity     float32
	Distance      float32
	Decay         float32
	Position      mgl32.Vec3
	Target        mgl32.Vec3
	Angle         float32 // degrees
	Penumbra      float32
	CastShadow    bool
	ShadowFar     float32
	ShadowMapSize int
	ShadowLeft    float32
	ShadowRight   float32
	ShadowBottom  float32
	ShadowTop     float32
}

// Racetrack describes the closed racing line and its pickups.
type Racetrack struct {
	Width           float32
	Checkpoints     int
	CheckpointDepth float32
	Segments        int
	Opponent        string // animation id driving the opponent car
	Points          []mgl32.Vec3
	PowerUps        []*PowerUp
}

// PowerUp is a pickup placed on the track.
type PowerUp struct {
	ID         string
	Position   mgl32.Vec3
	Node       string
	Multiplier float32 // 0 means the game default
}

// Car is a vehicle definition.
type Car struct {
	ID           string
	Body         string
	Acceleration float32
	Brake        float32
	MaxForward   float32
	MaxBackward  float32 // negative
	MaxTurn      float32 // radians
	Friction     float32
	Width        float32
	Depth        float32
	Wheels       []Wheel
	Cameras      []CarCamera
}

// Wheel references a wheel node inside a car body.
type Wheel struct {
	Node    string
	Turning bool
}

// CarCamera mounts a declared camera on a car.
type CarCamera struct {
	ID     string
	Offset mgl32.Vec3
	LookAt mgl32.Vec3
}

// HUD lists the screen elements states can bind values to.
type HUD struct {
	Elements []HUDElement
}

// HUDElement is one screen element.
type HUDElement struct {
	ID       string
	Position mgl32.Vec2
	Scale    float32
	Text     string
}

// Obstacle is an obstacle the player can place on the track.
type Obstacle struct {
	ID    string
	Node  string
	Width float32
	Depth float32
}

// Interpolation selects how a track blends between keyframes.
type Interpolation uint8

const (
	InterpolationLinear Interpolation = iota
	InterpolationSmooth
	InterpolationDiscrete
)

// Animation is a keyframe animation declaration.
type Animation struct {
	ID        string
	Duration  float32
	Repeat    bool
	Autostart bool
	Tracks    []AnimationTrack
	Keyframes []Keyframe // sorted by Time
}

// AnimationTrack binds a named track to target node ids.
type AnimationTrack struct {
	ID            string
	Targets       []string
	Interpolation Interpolation
}

// Keyframe assigns transform deltas to tracks at Time seconds.
type Keyframe struct {
	Time       float32
	Transforms []KeyTransform
}

// KeyTransform holds the deltas a keyframe sets on one track. Nil fields
// are left to interpolation from neighbouring keys.
type KeyTransform struct {
	Track     string
	Translate *mgl32.Vec3
	Rotate    *mgl32.Vec3 // degrees
	Scale     *mgl32.Vec3
}
