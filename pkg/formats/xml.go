package formats

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Scene XML errors. Every parse error wraps exactly one of these.
var (
	ErrUnknownElement   = errors.New("unknown element")
	ErrUnknownAttribute = errors.New("unknown attribute")
	ErrMissingElement   = errors.New("missing required element")
	ErrMissingAttribute = errors.New("missing required attribute")
	ErrDuplicateElement = errors.New("duplicate element")
	ErrDuplicateID      = errors.New("duplicate id")
	ErrBadArity         = errors.New("wrong number of components")
	ErrBadValue         = errors.New("invalid value")
	ErrMalformedXML     = errors.New("malformed XML")
)

// element is a generic XML element with its source line.
type element struct {
	name     string
	attrs    []xml.Attr
	children []*element
	line     int
}

// parseTree reads a whole document into an element tree.
func parseTree(data []byte) (*element, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var stack []*element
	var root *element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			line, _ := dec.InputPos()
			el := &element{name: t.Name.Local, attrs: t.Attr, line: line}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: second root <%s> at line %d", ErrMalformedXML, el.name, line)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 && len(bytes.TrimSpace(t)) > 0 {
				el := stack[len(stack)-1]
				return nil, fmt.Errorf("%w: unexpected text inside <%s> at line %d", ErrBadValue, el.name, el.line)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedXML)
	}
	return root, nil
}

func (e *element) String() string {
	return fmt.Sprintf("<%s> (line %d)", e.name, e.line)
}

// attr returns the raw value of an attribute.
func (e *element) attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// allow fails on any attribute not listed.
func (e *element) allow(names ...string) error {
	for _, a := range e.attrs {
		known := false
		for _, n := range names {
			if a.Name.Local == n {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%w %q on %s", ErrUnknownAttribute, a.Name.Local, e)
		}
	}
	return nil
}

// noChildren fails if the element has any child elements.
func (e *element) noChildren() error {
	if len(e.children) > 0 {
		return unknownElement(e.children[0], e)
	}
	return nil
}

// single returns the only child with the given name, nil if absent.
func (e *element) single(name string) (*element, error) {
	var found *element
	for _, c := range e.children {
		if c.name != name {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w <%s> in %s", ErrDuplicateElement, name, e)
		}
		found = c
	}
	return found, nil
}

func unknownElement(child, parent *element) error {
	return fmt.Errorf("%w <%s> in %s at line %d", ErrUnknownElement, child.name, parent, child.line)
}

func missingElement(name string, parent *element) error {
	return fmt.Errorf("%w <%s> in %s", ErrMissingElement, name, parent)
}

// attrs decodes typed attribute values. The first failure sticks and all
// later reads return zero values, so a decoder can read every field and
// check err once.
type attrs struct {
	el  *element
	err error
}

func (e *element) read(allowed ...string) *attrs {
	return &attrs{el: e, err: e.allow(allowed...)}
}

func (a *attrs) fail(err error) {
	if a.err == nil {
		a.err = err
	}
}

func (a *attrs) raw(name string, required bool) (string, bool) {
	if a.err != nil {
		return "", false
	}
	v, ok := a.el.attr(name)
	if !ok && required {
		a.fail(fmt.Errorf("%w %q on %s", ErrMissingAttribute, name, a.el))
	}
	return strings.TrimSpace(v), ok
}

func (a *attrs) str(name string) string {
	v, _ := a.raw(name, true)
	return v
}

func (a *attrs) optStr(name, def string) string {
	if v, ok := a.raw(name, false); ok {
		return v
	}
	return def
}

func (a *attrs) parseFloat(name, v string) float32 {
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		a.fail(fmt.Errorf("%w: %s=%q on %s is not a number", ErrBadValue, name, v, a.el))
		return 0
	}
	return float32(f)
}

func (a *attrs) float(name string) float32 {
	if v, ok := a.raw(name, true); ok {
		return a.parseFloat(name, v)
	}
	return 0
}

func (a *attrs) optFloat(name string, def float32) float32 {
	if v, ok := a.raw(name, false); ok {
		return a.parseFloat(name, v)
	}
	return def
}

func (a *attrs) parseInt(name, v string) int {
	i, err := strconv.Atoi(v)
	if err != nil {
		a.fail(fmt.Errorf("%w: %s=%q on %s is not an integer", ErrBadValue, name, v, a.el))
		return 0
	}
	return i
}

func (a *attrs) integer(name string) int {
	if v, ok := a.raw(name, true); ok {
		return a.parseInt(name, v)
	}
	return 0
}

func (a *attrs) optInt(name string, def int) int {
	if v, ok := a.raw(name, false); ok {
		return a.parseInt(name, v)
	}
	return def
}

func (a *attrs) parseBool(name, v string) bool {
	switch v {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	a.fail(fmt.Errorf("%w: %s=%q on %s is not a boolean", ErrBadValue, name, v, a.el))
	return false
}

func (a *attrs) optBool(name string, def bool) bool {
	if v, ok := a.raw(name, false); ok {
		return a.parseBool(name, v)
	}
	return def
}

// optBoolPtr returns nil when the attribute is absent.
func (a *attrs) optBoolPtr(name string) *bool {
	if v, ok := a.raw(name, false); ok {
		b := a.parseBool(name, v)
		return &b
	}
	return nil
}

func (a *attrs) components(name, v string, n int) []float32 {
	fields := strings.Fields(strings.ReplaceAll(v, ",", " "))
	if len(fields) != n {
		a.fail(fmt.Errorf("%w: %s on %s has %d components, want %d", ErrBadArity, name, a.el, len(fields), n))
		return make([]float32, n)
	}
	out := make([]float32, n)
	for i, f := range fields {
		out[i] = a.parseFloat(name, f)
	}
	return out
}

func (a *attrs) vec2(name string) mgl32.Vec2 {
	v, ok := a.raw(name, true)
	if !ok {
		return mgl32.Vec2{}
	}
	c := a.components(name, v, 2)
	return mgl32.Vec2{c[0], c[1]}
}

func (a *attrs) optVec2(name string, def mgl32.Vec2) mgl32.Vec2 {
	if _, ok := a.el.attr(name); !ok {
		return def
	}
	return a.vec2(name)
}

func (a *attrs) vec3(name string) mgl32.Vec3 {
	v, ok := a.raw(name, true)
	if !ok {
		return mgl32.Vec3{}
	}
	c := a.components(name, v, 3)
	return mgl32.Vec3{c[0], c[1], c[2]}
}

func (a *attrs) optVec3(name string, def mgl32.Vec3) mgl32.Vec3 {
	if _, ok := a.el.attr(name); !ok {
		return def
	}
	return a.vec3(name)
}

// optVec3Ptr returns nil when the attribute is absent.
func (a *attrs) optVec3Ptr(name string) *mgl32.Vec3 {
	if _, ok := a.el.attr(name); !ok {
		return nil
	}
	v := a.vec3(name)
	return &v
}

func (a *attrs) rgba(name string) mgl32.Vec4 {
	v, ok := a.raw(name, true)
	if !ok {
		return mgl32.Vec4{}
	}
	c := a.components(name, v, 4)
	return mgl32.Vec4{c[0], c[1], c[2], c[3]}
}

func (a *attrs) optRGBA(name string, def mgl32.Vec4) mgl32.Vec4 {
	if _, ok := a.el.attr(name); !ok {
		return def
	}
	return a.rgba(name)
}
