package formats

import "github.com/go-gl/mathgl/mgl32"

// PrimitiveKind enumerates the primitive shapes.
type PrimitiveKind uint8

const (
	PrimCylinder PrimitiveKind = iota
	PrimBox
	PrimSphere
	PrimRectangle
	PrimTriangle
	PrimPolygon
	PrimNURBS
	PrimModel
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimCylinder:
		return "cylinder"
	case PrimBox:
		return "box"
	case PrimSphere:
		return "sphere"
	case PrimRectangle:
		return "rectangle"
	case PrimTriangle:
		return "triangle"
	case PrimPolygon:
		return "polygon"
	case PrimNURBS:
		return "nurbs"
	case PrimModel:
		return "model"
	default:
		return "unknown"
	}
}

// Primitive is one of the primitive shape declarations below.
type Primitive interface {
	Kind() PrimitiveKind
}

// Cylinder is a (possibly truncated) cone.
type Cylinder struct {
	Base, Top, Height float32
	Slices, Stacks    int
	CapsClose         bool
	ThetaStart        float32 // degrees
	ThetaLength       float32 // degrees
}

// Box is an axis-aligned box between two corners.
type Box struct {
	Corner1, Corner2       mgl32.Vec3
	PartsX, PartsY, PartsZ int
}

// Sphere is a UV sphere.
type Sphere struct {
	Radius         float32
	Slices, Stacks int
	ThetaStart     float32
	ThetaLength    float32
	PhiStart       float32
	PhiLength      float32
}

// Rectangle is a quad in the local XY plane.
type Rectangle struct {
	Corner1, Corner2 mgl32.Vec2
	PartsX, PartsY   int
}

// Triangle is a single triangle.
type Triangle struct {
	P1, P2, P3 mgl32.Vec3
}

// Polygon is a disc with colors interpolated from center to periphery. It
// carries its own material.
type Polygon struct {
	Radius         float32
	Stacks, Slices int
	ColorCenter    mgl32.Vec4
	ColorPeriphery mgl32.Vec4
}

// NURBS is a surface patch with (DegreeU+1)*(DegreeV+1) control points
// ordered U-major.
type NURBS struct {
	DegreeU, DegreeV int
	PartsU, PartsV   int
	ControlPoints    []mgl32.Vec3
}

// Model is an externally loaded 3D model. It carries its own material.
type Model struct {
	FilePath string
}

func (Cylinder) Kind() PrimitiveKind  { return PrimCylinder }
func (Box) Kind() PrimitiveKind       { return PrimBox }
func (Sphere) Kind() PrimitiveKind    { return PrimSphere }
func (Rectangle) Kind() PrimitiveKind { return PrimRectangle }
func (Triangle) Kind() PrimitiveKind  { return PrimTriangle }
func (Polygon) Kind() PrimitiveKind   { return PrimPolygon }
func (NURBS) Kind() PrimitiveKind     { return PrimNURBS }
func (Model) Kind() PrimitiveKind     { return PrimModel }

// OwnsMaterial reports whether the primitive ignores the node's material.
func OwnsMaterial(p Primitive) bool {
	switch p.Kind() {
	case PrimPolygon, PrimModel:
		return true
	default:
		return false
	}
}
