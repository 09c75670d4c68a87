// Package renderer draws the game's line geometry with OpenGL: the track
// outline, car and obstacle footprints, and optional collider overlays.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/racer/internal/engine/shader"
	"github.com/Faultbox/racer/internal/logger"
)

const lineVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uViewProj;

void main() {
	gl_Position = uViewProj * vec4(aPos, 1.0);
}
`

const lineFragmentShader = `
#version 410 core

uniform vec4 uColor;
out vec4 FragColor;

void main() {
	FragColor = uColor;
}
`

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer batches line lists into one streaming vertex buffer.
type Renderer struct {
	config Config

	program   uint32
	locMatrix int32
	locColor  int32

	vao      uint32
	vbo      uint32
	capacity int // floats the buffer can hold

	viewProj mgl32.Mat4
}

// New creates a renderer. The OpenGL context must already exist.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	program, err := shader.CompileProgram(lineVertexShader, lineFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("line shader: %w", err)
	}

	r := &Renderer{
		config:    cfg,
		program:   program,
		locMatrix: shader.MustGetUniform(program, "uViewProj"),
		locColor:  shader.MustGetUniform(program, "uColor"),
		viewProj:  mgl32.Ident4(),
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)

	gl.Enable(gl.MULTISAMPLE)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	return r, nil
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	logger.Debug("closing renderer")
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// Resize updates the viewport.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Begin clears the frame to background and sets the camera for the lines
// drawn until End.
func (r *Renderer) Begin(background mgl32.Vec4, viewProj mgl32.Mat4) {
	gl.ClearColor(background[0], background[1], background[2], background[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.viewProj = viewProj
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.locMatrix, 1, false, &r.viewProj[0])
	gl.BindVertexArray(r.vao)
}

// DrawLines draws a line list: xyz per vertex, two vertices per segment.
func (r *Renderer) DrawLines(vertices []float32, color mgl32.Vec4) {
	if len(vertices) < 6 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	if len(vertices) > r.capacity {
		r.capacity = len(vertices)
		gl.BufferData(gl.ARRAY_BUFFER, r.capacity*4, unsafe.Pointer(&vertices[0]), gl.STREAM_DRAW)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, unsafe.Pointer(&vertices[0]))
	}
	gl.Uniform4fv(r.locColor, 1, &color[0])
	gl.DrawArrays(gl.LINES, 0, int32(len(vertices)/3))
}

// End finishes the frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
}
