// Package renderer draws the collision world with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/groundwalk/internal/engine/collision"
	"github.com/Faultbox/groundwalk/internal/logger"
	"github.com/Faultbox/groundwalk/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer draws one static world mesh, flat shaded or as wireframe.
type Renderer struct {
	config Config
	log    *zap.Logger

	program     uint32
	locView     int32
	locProj     int32
	locLight    int32
	locWire     int32
	worldVAO    uint32
	worldVBO    uint32
	vertexCount int32

	wireframe bool
	lightDir  math.Vec3
}

// New creates a renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		log:      logger.Named("renderer"),
		lightDir: math.Vec3{X: -0.4, Y: -1, Z: -0.3}.Normalize(),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.53, 0.66, 0.80, 1.0) // Sky

	var err error
	r.program, err = compileProgram(worldVertexShader, worldFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.locView = uniform(r.program, "uView")
	r.locProj = uniform(r.program, "uProjection")
	r.locLight = uniform(r.program, "uLightDir")
	r.locWire = uniform(r.program, "uWireframe")

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.freeWorld()
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// SetWorld uploads the world triangles, replacing any previous mesh.
func (r *Renderer) SetWorld(tris []collision.Triangle, owners []int) {
	r.freeWorld()
	mesh := BuildMesh(tris, owners)
	r.vertexCount = mesh.Count
	if mesh.Count == 0 {
		return
	}

	gl.GenVertexArrays(1, &r.worldVAO)
	gl.BindVertexArray(r.worldVAO)

	gl.GenBuffers(1, &r.worldVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.worldVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*4, unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	const stride = floatsPerVertex * 4
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(6*4)))
	gl.EnableVertexAttribArray(2)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	r.log.Debug("world mesh uploaded",
		zap.Int32("vertices", mesh.Count),
		zap.Uint32("vao", r.worldVAO))
}

func (r *Renderer) freeWorld() {
	if r.worldVAO != 0 {
		gl.DeleteVertexArrays(1, &r.worldVAO)
		r.worldVAO = 0
	}
	if r.worldVBO != 0 {
		gl.DeleteBuffers(1, &r.worldVBO)
		r.worldVBO = 0
	}
	r.vertexCount = 0
}

// SetWireframe switches between filled and line rendering.
func (r *Renderer) SetWireframe(on bool) {
	r.wireframe = on
}

// ToggleWireframe flips the wireframe mode and returns the new state.
func (r *Renderer) ToggleWireframe() bool {
	r.wireframe = !r.wireframe
	return r.wireframe
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawWorld draws the uploaded world mesh.
func (r *Renderer) DrawWorld(view, projection math.Mat4) {
	if r.vertexCount == 0 {
		return
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.locView, 1, false, view.Ptr())
	gl.UniformMatrix4fv(r.locProj, 1, false, projection.Ptr())
	gl.Uniform3f(r.locLight, r.lightDir.X, r.lightDir.Y, r.lightDir.Z)

	if r.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		gl.Uniform1i(r.locWire, 1)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		gl.Uniform1i(r.locWire, 0)
	}

	gl.BindVertexArray(r.worldVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, r.vertexCount)
	gl.BindVertexArray(0)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}
