// Package glgpu implements gpu.Device on OpenGL 3.3 core, sharing the
// context of the host window.
package glgpu

import (
	"fmt"
	"strings"
	"unsafe"

	"city-viewer/internal/gpu"
	"github.com/go-gl/gl/v3.3-core/gl"
)

// Device issues GL calls on the current context. It must only be used from
// the thread that owns the context.
type Device struct {
	flush func()
}

var _ gpu.Device = (*Device)(nil)

// New loads the GL entry points for the current context. flush, when set, is
// called before and after scene drawing so the host can submit its own
// batched draws first.
func New(flush func()) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}
	return &Device{flush: flush}, nil
}

// Version returns the GL version string of the current context.
func (d *Device) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// LinkProgram compiles both shader stages and links them into a program.
func (d *Device) LinkProgram(vertexSrc, fragmentSrc string) (gpu.ProgramID, error) {
	vert, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	defer gl.DeleteShader(vert)
	frag, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}
	defer gl.DeleteShader(frag)

	prog := gl.CreateProgram()
	if prog == 0 {
		return 0, fmt.Errorf("create program: %w", gpu.ErrResourceCreation)
	}
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %s: %w", strings.TrimRight(log, "\x00"), gpu.ErrResourceCreation)
	}
	return gpu.ProgramID(prog), nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	if shader == 0 {
		return 0, fmt.Errorf("create shader: %w", gpu.ErrResourceCreation)
	}
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %s: %w", strings.TrimRight(log, "\x00"), gpu.ErrResourceCreation)
	}
	return shader, nil
}

// AttribLocation returns the location of a vertex attribute, or -1.
func (d *Device) AttribLocation(p gpu.ProgramID, name string) int32 {
	return gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00"))
}

// UniformLocation returns the location of a uniform, or -1.
func (d *Device) UniformLocation(p gpu.ProgramID, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

// CreateVertexBuffer uploads data into a static vertex buffer.
func (d *Device) CreateVertexBuffer(data []float32) (gpu.BufferID, error) {
	if len(data) == 0 {
		return d.upload(0, nil)
	}
	return d.upload(len(data)*4, gl.Ptr(data))
}

// CreateIndexBuffer uploads through the array target so no vertex array
// needs to be bound; the buffer is bound as element array at draw time.
func (d *Device) CreateIndexBuffer(data []uint32) (gpu.BufferID, error) {
	if len(data) == 0 {
		return d.upload(0, nil)
	}
	return d.upload(len(data)*4, gl.Ptr(data))
}

func (d *Device) upload(size int, ptr unsafe.Pointer) (gpu.BufferID, error) {
	var buf uint32
	gl.GenBuffers(1, &buf)
	if buf == 0 {
		return 0, fmt.Errorf("gen buffer: %w", gpu.ErrResourceCreation)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	gl.BufferData(gl.ARRAY_BUFFER, size, ptr, gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	if e := gl.GetError(); e == gl.OUT_OF_MEMORY {
		gl.DeleteBuffers(1, &buf)
		return 0, fmt.Errorf("buffer data (%d bytes): %w", size, gpu.ErrResourceCreation)
	}
	return gpu.BufferID(buf), nil
}

// CreateVertexArray records the attribute layout in a new vertex array.
func (d *Device) CreateVertexArray(attrs ...gpu.Attribute) (gpu.VertexArrayID, error) {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	if vao == 0 {
		return 0, fmt.Errorf("gen vertex array: %w", gpu.ErrResourceCreation)
	}
	gl.BindVertexArray(vao)
	for _, a := range attrs {
		if a.Location < 0 {
			continue
		}
		gl.BindBuffer(gl.ARRAY_BUFFER, uint32(a.Buffer))
		gl.EnableVertexAttribArray(uint32(a.Location))
		gl.VertexAttribPointerWithOffset(uint32(a.Location), a.Size, gl.FLOAT, false, 0, 0)
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return gpu.VertexArrayID(vao), nil
}

// UseProgram makes p the current program.
func (d *Device) UseProgram(p gpu.ProgramID) { gl.UseProgram(uint32(p)) }

// SetUniformMat4 uploads a column-major matrix to the current program.
func (d *Device) SetUniformMat4(location int32, m [16]float32) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

// SetUniformVec4 uploads a vector to the current program.
func (d *Device) SetUniformVec4(location int32, v [4]float32) {
	gl.Uniform4f(location, v[0], v[1], v[2], v[3])
}

// BindVertexArray binds v for the next draw.
func (d *Device) BindVertexArray(v gpu.VertexArrayID) { gl.BindVertexArray(uint32(v)) }

// BindIndexBuffer binds b as the element array buffer.
func (d *Device) BindIndexBuffer(b gpu.BufferID) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(b))
}

// DrawTriangles draws count indices from the bound index buffer.
func (d *Device) DrawTriangles(count int32) {
	if count <= 0 {
		return
	}
	gl.DrawElementsWithOffset(gl.TRIANGLES, count, gl.UNSIGNED_INT, 0)
}

// DeleteBuffer releases b.
func (d *Device) DeleteBuffer(b gpu.BufferID) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

// DeleteVertexArray releases v.
func (d *Device) DeleteVertexArray(v gpu.VertexArrayID) {
	id := uint32(v)
	gl.DeleteVertexArrays(1, &id)
}

// DeleteProgram releases p.
func (d *Device) DeleteProgram(p gpu.ProgramID) { gl.DeleteProgram(uint32(p)) }

// BeginScene sets blending (src alpha, one minus src alpha), back-face
// culling and a LESS depth test, sizes the viewport and clears depth.
func (d *Device) BeginScene(width, height int32) {
	if d.flush != nil {
		d.flush()
	}
	gl.Viewport(0, 0, max(width, 1), max(height, 1))
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearDepth(1)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
}

// EndScene unbinds scene state and disables depth testing for 2D overlays.
func (d *Device) EndScene() {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
	gl.Disable(gl.DEPTH_TEST)
	if d.flush != nil {
		d.flush()
	}
}
