package lighting

import "github.com/go-gl/mathgl/mgl32"

// MaxLights is the maximum number of lights supported in shaders.
const MaxLights = 16

// Buffer holds world-space lights for GPU upload.
type Buffer struct {
	Lights []Light
	Count  int
}

// NewBuffer creates an empty light buffer.
func NewBuffer() *Buffer {
	return &Buffer{
		Lights: make([]Light, 0, MaxLights),
	}
}

// Clear removes all lights from the buffer.
func (b *Buffer) Clear() {
	b.Lights = b.Lights[:0]
	b.Count = 0
}

// Add appends an enabled light whose position and target are already in
// world space. Returns false if the buffer is full or the light is off.
func (b *Buffer) Add(l Light) bool {
	if !l.Enabled || b.Count >= MaxLights {
		return false
	}
	b.Lights = append(b.Lights, l)
	b.Count++
	return true
}

// Positions returns positions as a flat slice: [x0, y0, z0, x1, ...].
func (b *Buffer) Positions() []float32 {
	return b.flatten(func(l Light) mgl32.Vec3 { return l.Position })
}

// Directions returns unit directions as a flat slice; point lights are zero.
func (b *Buffer) Directions() []float32 {
	return b.flatten(Light.Direction)
}

// Colors returns colors premultiplied by intensity as a flat slice.
func (b *Buffer) Colors() []float32 {
	return b.flatten(func(l Light) mgl32.Vec3 { return l.Color.Mul(l.Intensity) })
}

// Kinds returns the light kinds as shader-friendly integers.
func (b *Buffer) Kinds() []int32 {
	out := make([]int32, MaxLights)
	for i, l := range b.Lights {
		out[i] = int32(l.Kind)
	}
	return out
}

func (b *Buffer) flatten(get func(Light) mgl32.Vec3) []float32 {
	out := make([]float32, MaxLights*3)
	for i, l := range b.Lights {
		v := get(l)
		copy(out[i*3:], v[:])
	}
	return out
}
