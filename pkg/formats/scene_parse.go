package formats

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Scene defaults for optional attributes.
const (
	DefaultCheckpoints     = 10
	DefaultCheckpointDepth = 1.0
	DefaultTrackSegments   = 100
)

// LoadScene reads and parses a scene file.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	scene, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return scene, nil
}

// ParseScene parses and validates a scene document. Any unknown element or
// attribute, missing required element or attribute, or vector of the wrong
// arity fails the whole parse.
func ParseScene(data []byte) (*Scene, error) {
	root, err := parseTree(data)
	if err != nil {
		return nil, err
	}
	if root.name != "scene" {
		return nil, fmt.Errorf("%w: root is <%s>, want <scene>", ErrUnknownElement, root.name)
	}
	if err := root.allow(); err != nil {
		return nil, err
	}

	s := &Scene{
		Textures:  make(map[string]*Texture),
		Materials: make(map[string]*Material),
	}
	seen := make(map[string]bool)
	for _, el := range root.children {
		switch el.name {
		case "car":
			car, err := parseCar(el)
			if err != nil {
				return nil, err
			}
			if s.Car(car.ID) != nil {
				return nil, fmt.Errorf("%w: car %q", ErrDuplicateID, car.ID)
			}
			s.Cars = append(s.Cars, car)
			continue
		case "animation":
			anim, err := parseAnimation(el)
			if err != nil {
				return nil, err
			}
			for _, other := range s.Animations {
				if other.ID == anim.ID {
					return nil, fmt.Errorf("%w: animation %q", ErrDuplicateID, anim.ID)
				}
			}
			s.Animations = append(s.Animations, anim)
			continue
		}

		if seen[el.name] {
			return nil, fmt.Errorf("%w <%s> in %s", ErrDuplicateElement, el.name, root)
		}
		seen[el.name] = true

		var err error
		switch el.name {
		case "globals":
			s.Globals, err = parseGlobals(el)
		case "fog":
			s.Fog, err = parseFog(el)
		case "skybox":
			s.Skybox, err = parseSkybox(el)
		case "textures":
			err = parseTextures(el, s.Textures)
		case "materials":
			err = parseMaterials(el, s.Materials)
		case "cameras":
			s.Cameras, err = parseCameras(el)
		case "graph":
			s.Graph, err = parseGraph(el)
		case "racetrack":
			s.Racetrack, err = parseRacetrack(el)
		case "hud":
			s.HUD, err = parseHUD(el)
		case "obstacles":
			s.Obstacles, err = parseObstacles(el)
		default:
			err = unknownElement(el, root)
		}
		if err != nil {
			return nil, err
		}
	}

	for _, name := range []string{"globals", "skybox", "textures", "materials", "cameras", "graph", "racetrack", "hud"} {
		if !seen[name] {
			return nil, missingElement(name, root)
		}
	}
	if len(s.Cars) == 0 {
		return nil, missingElement("car", root)
	}
	return s, nil
}

func parseGlobals(el *element) (Globals, error) {
	a := el.read("background", "ambient")
	g := Globals{
		Background: a.rgba("background"),
		Ambient:    a.rgba("ambient"),
	}
	if a.err != nil {
		return g, a.err
	}
	return g, el.noChildren()
}

func parseFog(el *element) (*Fog, error) {
	a := el.read("color", "near", "far")
	f := &Fog{
		Color: a.rgba("color"),
		Near:  a.float("near"),
		Far:   a.float("far"),
	}
	if a.err != nil {
		return nil, a.err
	}
	return f, el.noChildren()
}

func parseSkybox(el *element) (Skybox, error) {
	a := el.read("size", "center", "emissive", "intensity", "front", "back", "up", "down", "left", "right")
	s := Skybox{
		Size:      a.vec3("size"),
		Center:    a.vec3("center"),
		Emissive:  a.rgba("emissive"),
		Intensity: a.float("intensity"),
		Front:     a.str("front"),
		Back:      a.str("back"),
		Up:        a.str("up"),
		Down:      a.str("down"),
		Left:      a.str("left"),
		Right:     a.str("right"),
	}
	if a.err != nil {
		return s, a.err
	}
	return s, el.noChildren()
}

func parseTextures(el *element, out map[string]*Texture) error {
	if err := el.allow(); err != nil {
		return err
	}
	for _, c := range el.children {
		if c.name != "texture" {
			return unknownElement(c, el)
		}
		a := c.read("id", "filepath", "isVideo",
			"mipmap0", "mipmap1", "mipmap2", "mipmap3", "mipmap4", "mipmap5", "mipmap6", "mipmap7")
		t := &Texture{
			ID:       a.str("id"),
			FilePath: a.str("filepath"),
			IsVideo:  a.optBool("isVideo", false),
		}
		for i := 0; i < 8; i++ {
			if m := a.optStr(fmt.Sprintf("mipmap%d", i), ""); m != "" {
				t.Mipmaps = append(t.Mipmaps, m)
			}
		}
		if a.err != nil {
			return a.err
		}
		if err := c.noChildren(); err != nil {
			return err
		}
		if _, dup := out[t.ID]; dup {
			return fmt.Errorf("%w: texture %q", ErrDuplicateID, t.ID)
		}
		out[t.ID] = t
	}
	return nil
}

func parseMaterials(el *element, out map[string]*Material) error {
	if err := el.allow(); err != nil {
		return err
	}
	for _, c := range el.children {
		if c.name != "material" {
			return unknownElement(c, el)
		}
		a := c.read("id", "color", "specular", "emissive", "shininess", "transparent", "opacity",
			"wireframe", "shading", "textureref", "texlength_s", "texlength_t", "twosided",
			"bumpref", "bumpscale", "specularref")
		m := &Material{
			ID:          a.str("id"),
			Color:       a.rgba("color"),
			Specular:    a.optRGBA("specular", mgl32.Vec4{0, 0, 0, 1}),
			Emissive:    a.optRGBA("emissive", mgl32.Vec4{0, 0, 0, 1}),
			Shininess:   a.optFloat("shininess", 30),
			Transparent: a.optBool("transparent", false),
			Opacity:     a.optFloat("opacity", 1),
			Wireframe:   a.optBool("wireframe", false),
			TextureRef:  a.optStr("textureref", ""),
			TexLengthS:  a.optFloat("texlength_s", 1),
			TexLengthT:  a.optFloat("texlength_t", 1),
			TwoSided:    a.optBool("twosided", false),
			BumpRef:     a.optStr("bumpref", ""),
			BumpScale:   a.optFloat("bumpscale", 1),
			SpecularRef: a.optStr("specularref", ""),
		}
		switch sh := a.optStr("shading", "smooth"); sh {
		case "smooth":
			m.Shading = ShadingSmooth
		case "flat":
			m.Shading = ShadingFlat
		case "none":
			m.Shading = ShadingNone
		default:
			a.fail(fmt.Errorf("%w: shading=%q on %s", ErrBadValue, sh, c))
		}
		if a.err != nil {
			return a.err
		}
		if err := c.noChildren(); err != nil {
			return err
		}
		if _, dup := out[m.ID]; dup {
			return fmt.Errorf("%w: material %q", ErrDuplicateID, m.ID)
		}
		out[m.ID] = m
	}
	return nil
}

func parseCameras(el *element) (Cameras, error) {
	a := el.read("initial")
	cams := Cameras{Initial: a.str("initial")}
	if a.err != nil {
		return cams, a.err
	}
	for _, c := range el.children {
		var cam *Camera
		switch c.name {
		case "perspective":
			ca := c.read("id", "angle", "near", "far", "location", "target")
			cam = &Camera{
				Kind:     CameraPerspective,
				ID:       ca.str("id"),
				Angle:    ca.float("angle"),
				Near:     ca.float("near"),
				Far:      ca.float("far"),
				Location: ca.vec3("location"),
				Target:   ca.vec3("target"),
			}
			if ca.err != nil {
				return cams, ca.err
			}
		case "orthogonal":
			ca := c.read("id", "near", "far", "location", "target", "left", "right", "bottom", "top")
			cam = &Camera{
				Kind:     CameraOrthogonal,
				ID:       ca.str("id"),
				Near:     ca.float("near"),
				Far:      ca.float("far"),
				Location: ca.vec3("location"),
				Target:   ca.vec3("target"),
				Left:     ca.float("left"),
				Right:    ca.float("right"),
				Bottom:   ca.float("bottom"),
				Top:      ca.float("top"),
			}
			if ca.err != nil {
				return cams, ca.err
			}
		default:
			return cams, unknownElement(c, el)
		}
		if err := c.noChildren(); err != nil {
			return cams, err
		}
		if cams.ByID(cam.ID) != nil {
			return cams, fmt.Errorf("%w: camera %q", ErrDuplicateID, cam.ID)
		}
		cams.List = append(cams.List, cam)
	}
	if len(cams.List) == 0 {
		return cams, missingElement("perspective", el)
	}
	if cams.ByID(cams.Initial) == nil {
		return cams, fmt.Errorf("%w: initial camera %q is not declared", ErrMissingElement, cams.Initial)
	}
	return cams, nil
}

func parseGraph(el *element) (Graph, error) {
	a := el.read("rootid")
	g := Graph{
		RootID: a.str("rootid"),
		Nodes:  make(map[string]*Node),
		LODs:   make(map[string]*LOD),
	}
	if a.err != nil {
		return g, a.err
	}
	for _, c := range el.children {
		switch c.name {
		case "node":
			n, err := parseNode(c)
			if err != nil {
				return g, err
			}
			if _, dup := g.Nodes[n.ID]; dup {
				return g, fmt.Errorf("%w: node %q", ErrDuplicateID, n.ID)
			}
			g.Nodes[n.ID] = n
		case "lod":
			l, err := parseLOD(c)
			if err != nil {
				return g, err
			}
			if _, dup := g.LODs[l.ID]; dup {
				return g, fmt.Errorf("%w: lod %q", ErrDuplicateID, l.ID)
			}
			g.LODs[l.ID] = l
		default:
			return g, unknownElement(c, el)
		}
	}
	if _, ok := g.Nodes[g.RootID]; !ok {
		return g, fmt.Errorf("%w: root node %q is not declared", ErrMissingElement, g.RootID)
	}
	return g, nil
}

func parseNode(el *element) (*Node, error) {
	a := el.read("id", "castshadows", "receiveshadows", "pickable", "visible")
	n := &Node{
		ID:             a.str("id"),
		CastShadows:    a.optBoolPtr("castshadows"),
		ReceiveShadows: a.optBoolPtr("receiveshadows"),
		Pickable:       a.optBool("pickable", false),
		Visible:        a.optBool("visible", true),
	}
	if a.err != nil {
		return nil, a.err
	}

	var sawChildren bool
	for _, c := range el.children {
		switch c.name {
		case "transforms":
			ts, err := parseTransforms(c)
			if err != nil {
				return nil, err
			}
			n.Transforms = append(n.Transforms, ts...)
		case "materialref":
			ma := c.read("id")
			id := ma.str("id")
			if ma.err != nil {
				return nil, ma.err
			}
			if err := c.noChildren(); err != nil {
				return nil, err
			}
			n.MaterialIDs = append(n.MaterialIDs, id)
		case "collider":
			desc, err := parseColliderDesc(c)
			if err != nil {
				return nil, err
			}
			if n.Collider != nil {
				return nil, fmt.Errorf("%w <collider> in %s", ErrDuplicateElement, el)
			}
			n.Collider = desc
		case "children":
			if sawChildren {
				return nil, fmt.Errorf("%w <children> in %s", ErrDuplicateElement, el)
			}
			sawChildren = true
			children, err := parseChildren(c)
			if err != nil {
				return nil, err
			}
			n.Children = children
		default:
			return nil, unknownElement(c, el)
		}
	}
	if !sawChildren {
		return nil, missingElement("children", el)
	}
	return n, nil
}

func parseTransforms(el *element) ([]Transform, error) {
	if err := el.allow(); err != nil {
		return nil, err
	}
	out := make([]Transform, 0, len(el.children))
	for _, c := range el.children {
		var op TransformOp
		switch c.name {
		case "translate":
			op = OpTranslate
		case "rotate":
			op = OpRotate
		case "scale":
			op = OpScale
		default:
			return nil, unknownElement(c, el)
		}
		a := c.read("value3")
		v := a.vec3("value3")
		if a.err != nil {
			return nil, a.err
		}
		if err := c.noChildren(); err != nil {
			return nil, err
		}
		out = append(out, Transform{Op: op, Value: v})
	}
	return out, nil
}

func parseColliderDesc(el *element) (*ColliderDesc, error) {
	a := el.read("center", "width", "depth", "static", "category")
	d := &ColliderDesc{
		Center: a.optVec2("center", mgl32.Vec2{}),
		Width:  a.float("width"),
		Depth:  a.float("depth"),
		Static: a.optBool("static", true),
	}
	switch cat := a.optStr("category", "obstacle"); cat {
	case "obstacle":
		d.Category = CategoryObstacle
	case "powerup":
		d.Category = CategoryPowerUp
	case "car":
		d.Category = CategoryCar
	case "checkpoint":
		d.Category = CategoryCheckpoint
	default:
		a.fail(fmt.Errorf("%w: category=%q on %s", ErrBadValue, cat, el))
	}
	if a.err != nil {
		return nil, a.err
	}
	if d.Width <= 0 || d.Depth <= 0 {
		return nil, fmt.Errorf("%w: collider on %s must have positive size", ErrBadValue, el)
	}
	return d, el.noChildren()
}

func parseChildren(el *element) ([]Child, error) {
	if err := el.allow(); err != nil {
		return nil, err
	}
	var out []Child
	for _, c := range el.children {
		switch c.name {
		case "noderef", "lodref":
			a := c.read("id")
			id := a.str("id")
			if a.err != nil {
				return nil, a.err
			}
			if err := c.noChildren(); err != nil {
				return nil, err
			}
			kind := ChildNodeRef
			if c.name == "lodref" {
				kind = ChildLODRef
			}
			out = append(out, Child{Kind: kind, Ref: id})
		case "primitive":
			prims, err := parsePrimitive(c)
			if err != nil {
				return nil, err
			}
			out = append(out, Child{Kind: ChildPrimitive, Primitives: prims})
		case "pointlight", "spotlight", "directionallight":
			l, err := parseLight(c)
			if err != nil {
				return nil, err
			}
			out = append(out, Child{Kind: ChildLight, Light: l})
		default:
			return nil, unknownElement(c, el)
		}
	}
	return out, nil
}

func parseLOD(el *element) (*LOD, error) {
	a := el.read("id")
	l := &LOD{ID: a.str("id")}
	if a.err != nil {
		return nil, a.err
	}
	for _, c := range el.children {
		if c.name != "noderef" {
			return nil, unknownElement(c, el)
		}
		ca := c.read("id", "mindist")
		lvl := LODLevel{NodeID: ca.str("id"), MinDistance: ca.float("mindist")}
		if ca.err != nil {
			return nil, ca.err
		}
		if err := c.noChildren(); err != nil {
			return nil, err
		}
		l.Levels = append(l.Levels, lvl)
	}
	if len(l.Levels) == 0 {
		return nil, missingElement("noderef", el)
	}
	return l, nil
}

func parseLight(el *element) (*Light, error) {
	common := []string{"id", "enabled", "color", "intensity", "position", "castshadow", "shadowfar", "shadowmapsize"}
	var a *attrs
	l := &Light{}
	switch el.name {
	case "pointlight":
		a = el.read(append(common, "distance", "decay")...)
		l.Kind = LightPoint
		l.Distance = a.optFloat("distance", 1000)
		l.Decay = a.optFloat("decay", 2)
	case "spotlight":
		a = el.read(append(common, "target", "distance", "angle", "decay", "penumbra")...)
		l.Kind = LightSpot
		l.Target = a.vec3("target")
		l.Distance = a.optFloat("distance", 1000)
		l.Angle = a.float("angle")
		l.Decay = a.optFloat("decay", 2)
		l.Penumbra = a.optFloat("penumbra", 1)
	case "directionallight":
		a = el.read(append(common, "shadowleft", "shadowright", "shadowbottom", "shadowtop")...)
		l.Kind = LightDirectional
		l.ShadowLeft = a.optFloat("shadowleft", -5)
		l.ShadowRight = a.optFloat("shadowright", 5)
		l.ShadowBottom = a.optFloat("shadowbottom", -5)
		l.ShadowTop = a.optFloat("shadowtop", 5)
	}
	l.ID = a.str("id")
	l.Enabled = a.optBool("enabled", true)
	l.Color = a.rgba("color")
	l.Intensity = a.optFloat("intensity", 1)
	l.Position = a.vec3("position")
	l.CastShadow = a.optBool("castshadow", false)
	l.ShadowFar = a.optFloat("shadowfar", 500)
	l.ShadowMapSize = a.optInt("shadowmapsize", 512)
	if a.err != nil {
		return nil, a.err
	}
	return l, el.noChildren()
}

func parsePrimitive(el *element) ([]Primitive, error) {
	if err := el.allow(); err != nil {
		return nil, err
	}
	if len(el.children) == 0 {
		return nil, missingElement("box", el)
	}
	out := make([]Primitive, 0, len(el.children))
	for _, c := range el.children {
		p, err := parseShape(c, el)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func parseShape(el, parent *element) (Primitive, error) {
	var p Primitive
	var a *attrs
	switch el.name {
	case "cylinder":
		a = el.read("base", "top", "height", "slices", "stacks", "capsclose", "thetastart", "thetalength")
		p = Cylinder{
			Base:        a.float("base"),
			Top:         a.float("top"),
			Height:      a.float("height"),
			Slices:      a.integer("slices"),
			Stacks:      a.integer("stacks"),
			CapsClose:   a.optBool("capsclose", false),
			ThetaStart:  a.optFloat("thetastart", 0),
			ThetaLength: a.optFloat("thetalength", 360),
		}
	case "box":
		a = el.read("xyz1", "xyz2", "parts_x", "parts_y", "parts_z")
		p = Box{
			Corner1: a.vec3("xyz1"),
			Corner2: a.vec3("xyz2"),
			PartsX:  a.optInt("parts_x", 1),
			PartsY:  a.optInt("parts_y", 1),
			PartsZ:  a.optInt("parts_z", 1),
		}
	case "sphere":
		a = el.read("radius", "slices", "stacks", "thetastart", "thetalength", "phistart", "philength")
		p = Sphere{
			Radius:      a.float("radius"),
			Slices:      a.integer("slices"),
			Stacks:      a.integer("stacks"),
			ThetaStart:  a.optFloat("thetastart", 0),
			ThetaLength: a.optFloat("thetalength", 180),
			PhiStart:    a.optFloat("phistart", 0),
			PhiLength:   a.optFloat("philength", 360),
		}
	case "rectangle":
		a = el.read("xy1", "xy2", "parts_x", "parts_y")
		p = Rectangle{
			Corner1: a.vec2("xy1"),
			Corner2: a.vec2("xy2"),
			PartsX:  a.optInt("parts_x", 1),
			PartsY:  a.optInt("parts_y", 1),
		}
	case "triangle":
		a = el.read("xyz1", "xyz2", "xyz3")
		p = Triangle{P1: a.vec3("xyz1"), P2: a.vec3("xyz2"), P3: a.vec3("xyz3")}
	case "polygon":
		a = el.read("radius", "stacks", "slices", "color_c", "color_p")
		p = Polygon{
			Radius:         a.float("radius"),
			Stacks:         a.integer("stacks"),
			Slices:         a.integer("slices"),
			ColorCenter:    a.rgba("color_c"),
			ColorPeriphery: a.rgba("color_p"),
		}
	case "model":
		a = el.read("filepath")
		p = Model{FilePath: a.str("filepath")}
	case "nurbs":
		return parseNURBS(el)
	default:
		return nil, unknownElement(el, parent)
	}
	if a.err != nil {
		return nil, a.err
	}
	return p, el.noChildren()
}

func parseNURBS(el *element) (Primitive, error) {
	a := el.read("degree_u", "degree_v", "parts_u", "parts_v")
	n := NURBS{
		DegreeU: a.integer("degree_u"),
		DegreeV: a.integer("degree_v"),
		PartsU:  a.integer("parts_u"),
		PartsV:  a.integer("parts_v"),
	}
	if a.err != nil {
		return nil, a.err
	}
	for _, c := range el.children {
		if c.name != "controlpoint" {
			return nil, unknownElement(c, el)
		}
		ca := c.read("xx", "yy", "zz")
		pt := mgl32.Vec3{ca.float("xx"), ca.float("yy"), ca.float("zz")}
		if ca.err != nil {
			return nil, ca.err
		}
		if err := c.noChildren(); err != nil {
			return nil, err
		}
		n.ControlPoints = append(n.ControlPoints, pt)
	}
	want := (n.DegreeU + 1) * (n.DegreeV + 1)
	if len(n.ControlPoints) != want {
		return nil, fmt.Errorf("%w: %s has %d control points, want %d", ErrBadArity, el, len(n.ControlPoints), want)
	}
	return n, nil
}

func parseRacetrack(el *element) (Racetrack, error) {
	a := el.read("width", "checkpoints", "checkpointdepth", "segments", "opponent")
	rt := Racetrack{
		Width:           a.float("width"),
		Checkpoints:     a.optInt("checkpoints", DefaultCheckpoints),
		CheckpointDepth: a.optFloat("checkpointdepth", DefaultCheckpointDepth),
		Segments:        a.optInt("segments", DefaultTrackSegments),
		Opponent:        a.optStr("opponent", ""),
	}
	if a.err != nil {
		return rt, a.err
	}
	for _, c := range el.children {
		switch c.name {
		case "point":
			ca := c.read("value3")
			v := ca.vec3("value3")
			if ca.err != nil {
				return rt, ca.err
			}
			if err := c.noChildren(); err != nil {
				return rt, err
			}
			rt.Points = append(rt.Points, v)
		case "powerup":
			ca := c.read("id", "position", "node", "multiplier")
			pu := &PowerUp{
				ID:         ca.str("id"),
				Position:   ca.vec3("position"),
				Node:       ca.optStr("node", ""),
				Multiplier: ca.optFloat("multiplier", 0),
			}
			if ca.err != nil {
				return rt, ca.err
			}
			if err := c.noChildren(); err != nil {
				return rt, err
			}
			rt.PowerUps = append(rt.PowerUps, pu)
		default:
			return rt, unknownElement(c, el)
		}
	}
	if len(rt.Points) < 3 {
		return rt, fmt.Errorf("%w: %s needs at least 3 points, has %d", ErrMissingElement, el, len(rt.Points))
	}
	if rt.Width <= 0 || rt.Checkpoints < 1 || rt.Segments < len(rt.Points) {
		return rt, fmt.Errorf("%w: %s has non-positive width, checkpoints or too few segments", ErrBadValue, el)
	}
	return rt, nil
}

func parseCar(el *element) (*Car, error) {
	a := el.read("id", "body", "acceleration", "brake", "maxforward", "maxbackward", "maxturn",
		"friction", "width", "depth")
	car := &Car{
		ID:           a.str("id"),
		Body:         a.str("body"),
		Acceleration: a.optFloat("acceleration", 20),
		Brake:        a.optFloat("brake", 30),
		MaxForward:   a.optFloat("maxforward", 60),
		MaxBackward:  a.optFloat("maxbackward", -20),
		MaxTurn:      mgl32.DegToRad(a.optFloat("maxturn", 30)),
		Friction:     a.optFloat("friction", 5),
		Width:        a.optFloat("width", 2),
		Depth:        a.optFloat("depth", 4),
	}
	if a.err != nil {
		return nil, a.err
	}
	if car.MaxBackward > 0 {
		car.MaxBackward = -car.MaxBackward
	}
	for _, c := range el.children {
		switch c.name {
		case "wheel":
			ca := c.read("node", "turning")
			w := Wheel{Node: ca.str("node"), Turning: ca.optBool("turning", false)}
			if ca.err != nil {
				return nil, ca.err
			}
			if err := c.noChildren(); err != nil {
				return nil, err
			}
			car.Wheels = append(car.Wheels, w)
		case "camera":
			ca := c.read("id", "offset", "lookat")
			cc := CarCamera{
				ID:     ca.str("id"),
				Offset: ca.vec3("offset"),
				LookAt: ca.optVec3("lookat", mgl32.Vec3{}),
			}
			if ca.err != nil {
				return nil, ca.err
			}
			if err := c.noChildren(); err != nil {
				return nil, err
			}
			car.Cameras = append(car.Cameras, cc)
		default:
			return nil, unknownElement(c, el)
		}
	}
	return car, nil
}

func parseHUD(el *element) (HUD, error) {
	var h HUD
	if err := el.allow(); err != nil {
		return h, err
	}
	ids := make(map[string]bool)
	for _, c := range el.children {
		if c.name != "element" {
			return h, unknownElement(c, el)
		}
		a := c.read("id", "position", "scale", "text")
		e := HUDElement{
			ID:       a.str("id"),
			Position: a.vec2("position"),
			Scale:    a.optFloat("scale", 1),
			Text:     a.optStr("text", ""),
		}
		if a.err != nil {
			return h, a.err
		}
		if err := c.noChildren(); err != nil {
			return h, err
		}
		if ids[e.ID] {
			return h, fmt.Errorf("%w: hud element %q", ErrDuplicateID, e.ID)
		}
		ids[e.ID] = true
		h.Elements = append(h.Elements, e)
	}
	return h, nil
}

func parseObstacles(el *element) ([]*Obstacle, error) {
	if err := el.allow(); err != nil {
		return nil, err
	}
	var out []*Obstacle
	ids := make(map[string]bool)
	for _, c := range el.children {
		if c.name != "obstacle" {
			return nil, unknownElement(c, el)
		}
		a := c.read("id", "node", "width", "depth")
		o := &Obstacle{
			ID:    a.str("id"),
			Node:  a.str("node"),
			Width: a.float("width"),
			Depth: a.float("depth"),
		}
		if a.err != nil {
			return nil, a.err
		}
		if err := c.noChildren(); err != nil {
			return nil, err
		}
		if ids[o.ID] {
			return nil, fmt.Errorf("%w: obstacle %q", ErrDuplicateID, o.ID)
		}
		ids[o.ID] = true
		out = append(out, o)
	}
	return out, nil
}

func parseAnimation(el *element) (*Animation, error) {
	a := el.read("id", "duration", "repeat", "autostart")
	anim := &Animation{
		ID:        a.str("id"),
		Duration:  a.float("duration"),
		Repeat:    a.optBool("repeat", false),
		Autostart: a.optBool("autostart", false),
	}
	if a.err != nil {
		return nil, a.err
	}
	if anim.Duration <= 0 {
		return nil, fmt.Errorf("%w: %s duration must be positive", ErrBadValue, el)
	}

	tracks := make(map[string]bool)
	for _, c := range el.children {
		switch c.name {
		case "track":
			ca := c.read("id", "targets", "interpolation")
			tr := AnimationTrack{
				ID:      ca.str("id"),
				Targets: strings.Fields(ca.str("targets")),
			}
			switch mode := ca.optStr("interpolation", "linear"); mode {
			case "linear":
				tr.Interpolation = InterpolationLinear
			case "smooth":
				tr.Interpolation = InterpolationSmooth
			case "discrete":
				tr.Interpolation = InterpolationDiscrete
			default:
				ca.fail(fmt.Errorf("%w: interpolation=%q on %s", ErrBadValue, mode, c))
			}
			if ca.err != nil {
				return nil, ca.err
			}
			if err := c.noChildren(); err != nil {
				return nil, err
			}
			if tracks[tr.ID] {
				return nil, fmt.Errorf("%w: track %q in animation %q", ErrDuplicateID, tr.ID, anim.ID)
			}
			tracks[tr.ID] = true
			anim.Tracks = append(anim.Tracks, tr)
		case "keyframe":
			kf, err := parseKeyframe(c)
			if err != nil {
				return nil, err
			}
			anim.Keyframes = append(anim.Keyframes, kf)
		default:
			return nil, unknownElement(c, el)
		}
	}

	for _, kf := range anim.Keyframes {
		if kf.Time < 0 || kf.Time > anim.Duration {
			return nil, fmt.Errorf("%w: keyframe at %v outside animation %q duration %v", ErrBadValue, kf.Time, anim.ID, anim.Duration)
		}
		for _, kt := range kf.Transforms {
			if !tracks[kt.Track] {
				return nil, fmt.Errorf("%w: keyframe references undeclared track %q in animation %q", ErrMissingElement, kt.Track, anim.ID)
			}
		}
	}
	sort.SliceStable(anim.Keyframes, func(i, j int) bool {
		return anim.Keyframes[i].Time < anim.Keyframes[j].Time
	})
	return anim, nil
}

func parseKeyframe(el *element) (Keyframe, error) {
	a := el.read("time")
	kf := Keyframe{Time: a.float("time")}
	if a.err != nil {
		return kf, a.err
	}
	for _, c := range el.children {
		if c.name != "transform" {
			return kf, unknownElement(c, el)
		}
		ca := c.read("track", "translate", "rotate", "scale")
		kt := KeyTransform{
			Track:     ca.str("track"),
			Translate: ca.optVec3Ptr("translate"),
			Rotate:    ca.optVec3Ptr("rotate"),
			Scale:     ca.optVec3Ptr("scale"),
		}
		if ca.err != nil {
			return kf, ca.err
		}
		if err := c.noChildren(); err != nil {
			return kf, err
		}
		kf.Transforms = append(kf.Transforms, kt)
	}
	return kf, nil
}
