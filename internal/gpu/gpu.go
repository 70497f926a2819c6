// Package gpu defines the GPU services the renderer consumes: program
// linking, buffer and vertex-array creation, uniforms and indexed draws.
// The renderer never talks to a graphics API directly.
package gpu

import "errors"

// ErrResourceCreation is returned when the device refuses to create a shader,
// program, buffer or vertex array.
var ErrResourceCreation = errors.New("gpu resource creation failed")

// ProgramID, BufferID and VertexArrayID are opaque device handles. Zero is never a valid handle.
type (
	ProgramID     uint32
	BufferID      uint32
	VertexArrayID uint32
)

// Attribute binds a float buffer to a vertex attribute location.
// Size is the number of components per vertex (3 for positions and normals).
type Attribute struct {
	Location int32
	Buffer   BufferID
	Size     int32
}

// Device is the GPU service boundary. Implementations are not safe for
// concurrent use; all calls happen on the render thread.
type Device interface {
	// LinkProgram compiles both shader stages and links them.
	LinkProgram(vertexSrc, fragmentSrc string) (ProgramID, error)
	// AttribLocation and UniformLocation return -1 when name is not active in p.
	AttribLocation(p ProgramID, name string) int32
	UniformLocation(p ProgramID, name string) int32

	CreateVertexBuffer(data []float32) (BufferID, error)
	CreateIndexBuffer(data []uint32) (BufferID, error)
	CreateVertexArray(attrs ...Attribute) (VertexArrayID, error)

	UseProgram(p ProgramID)
	SetUniformMat4(location int32, m [16]float32)
	SetUniformVec4(location int32, v [4]float32)
	BindVertexArray(v VertexArrayID)
	BindIndexBuffer(b BufferID)
	// DrawTriangles issues an indexed triangle draw of count uint32 indices.
	DrawTriangles(count int32)

	DeleteBuffer(b BufferID)
	DeleteVertexArray(v VertexArrayID)
	DeleteProgram(p ProgramID)

	// BeginScene sets the viewport and the depth/blend/cull state for scene
	// drawing and clears depth. EndScene restores the host's state.
	BeginScene(width, height int32)
	EndScene()
}
