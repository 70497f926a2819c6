// Package gputest provides an in-memory gpu.Device for tests.
package gputest

import (
	"fmt"
	"strings"

	"city-viewer/internal/gpu"
)

// Draw captures the state in effect when DrawTriangles was called.
type Draw struct {
	Program     gpu.ProgramID
	VertexArray gpu.VertexArrayID
	IndexBuffer gpu.BufferID
	Count       int32
	Mat4        map[string][16]float32
	Vec4        map[string][4]float32
}

type program struct {
	vertex, fragment string
	uniforms         map[string]int32
	names            map[int32]string
	mat4             map[string][16]float32
	vec4             map[string][4]float32
}

// Recorder implements gpu.Device by keeping every resource in maps and
// recording draws. Set Fail to make an operation return gpu.ErrResourceCreation,
// keyed by method name (e.g. "CreateIndexBuffer").
type Recorder struct {
	Fail map[string]bool

	Ops           []string
	VertexBuffers map[gpu.BufferID][]float32
	IndexBuffers  map[gpu.BufferID][]uint32
	VertexArrays  map[gpu.VertexArrayID][]gpu.Attribute
	Draws         []Draw
	Scenes        int

	programs map[gpu.ProgramID]*program
	next     uint32

	current     gpu.ProgramID
	boundVAO    gpu.VertexArrayID
	boundIndex  gpu.BufferID
	inScene     bool
	sceneWidth  int32
	sceneHeight int32
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{
		Fail:          make(map[string]bool),
		VertexBuffers: make(map[gpu.BufferID][]float32),
		IndexBuffers:  make(map[gpu.BufferID][]uint32),
		VertexArrays:  make(map[gpu.VertexArrayID][]gpu.Attribute),
		programs:      make(map[gpu.ProgramID]*program),
	}
}

func (r *Recorder) id() uint32 {
	r.next++
	return r.next
}

func (r *Recorder) fail(op string) error {
	r.Ops = append(r.Ops, op)
	if r.Fail[op] {
		return fmt.Errorf("gputest: %s: %w", op, gpu.ErrResourceCreation)
	}
	return nil
}

// Programs returns the number of live programs.
func (r *Recorder) Programs() int { return len(r.programs) }

// Live returns the number of live buffers and vertex arrays.
func (r *Recorder) Live() int {
	return len(r.VertexBuffers) + len(r.IndexBuffers) + len(r.VertexArrays)
}

// Viewport returns the size passed to the last BeginScene.
func (r *Recorder) Viewport() (int32, int32) { return r.sceneWidth, r.sceneHeight }

func (r *Recorder) LinkProgram(vertexSrc, fragmentSrc string) (gpu.ProgramID, error) {
	if err := r.fail("LinkProgram"); err != nil {
		return 0, err
	}
	id := gpu.ProgramID(r.id())
	r.programs[id] = &program{
		vertex:   vertexSrc,
		fragment: fragmentSrc,
		uniforms: make(map[string]int32),
		names:    make(map[int32]string),
		mat4:     make(map[string][16]float32),
		vec4:     make(map[string][4]float32),
	}
	return id, nil
}

// AttribLocation reports an attribute as active when the vertex source mentions it.
func (r *Recorder) AttribLocation(p gpu.ProgramID, name string) int32 {
	prog, ok := r.programs[p]
	if !ok || !strings.Contains(prog.vertex, name) {
		return -1
	}
	switch name {
	case "position":
		return 0
	case "normal":
		return 1
	}
	return 2
}

func (r *Recorder) UniformLocation(p gpu.ProgramID, name string) int32 {
	prog, ok := r.programs[p]
	if !ok || !strings.Contains(prog.vertex+prog.fragment, name) {
		return -1
	}
	if loc, ok := prog.uniforms[name]; ok {
		return loc
	}
	loc := int32(len(prog.uniforms))
	prog.uniforms[name] = loc
	prog.names[loc] = name
	return loc
}

func (r *Recorder) CreateVertexBuffer(data []float32) (gpu.BufferID, error) {
	if err := r.fail("CreateVertexBuffer"); err != nil {
		return 0, err
	}
	id := gpu.BufferID(r.id())
	r.VertexBuffers[id] = append([]float32(nil), data...)
	return id, nil
}

func (r *Recorder) CreateIndexBuffer(data []uint32) (gpu.BufferID, error) {
	if err := r.fail("CreateIndexBuffer"); err != nil {
		return 0, err
	}
	id := gpu.BufferID(r.id())
	r.IndexBuffers[id] = append([]uint32(nil), data...)
	return id, nil
}

func (r *Recorder) CreateVertexArray(attrs ...gpu.Attribute) (gpu.VertexArrayID, error) {
	if err := r.fail("CreateVertexArray"); err != nil {
		return 0, err
	}
	for _, a := range attrs {
		if _, ok := r.VertexBuffers[a.Buffer]; !ok {
			return 0, fmt.Errorf("gputest: unknown buffer %d: %w", a.Buffer, gpu.ErrResourceCreation)
		}
	}
	id := gpu.VertexArrayID(r.id())
	r.VertexArrays[id] = append([]gpu.Attribute(nil), attrs...)
	return id, nil
}

func (r *Recorder) UseProgram(p gpu.ProgramID) {
	r.Ops = append(r.Ops, "UseProgram")
	r.current = p
}

func (r *Recorder) SetUniformMat4(location int32, m [16]float32) {
	if prog, ok := r.programs[r.current]; ok && location >= 0 {
		prog.mat4[prog.names[location]] = m
	}
}

func (r *Recorder) SetUniformVec4(location int32, v [4]float32) {
	if prog, ok := r.programs[r.current]; ok && location >= 0 {
		prog.vec4[prog.names[location]] = v
	}
}

func (r *Recorder) BindVertexArray(v gpu.VertexArrayID) { r.boundVAO = v }

func (r *Recorder) BindIndexBuffer(b gpu.BufferID) { r.boundIndex = b }

func (r *Recorder) DrawTriangles(count int32) {
	r.Ops = append(r.Ops, "DrawTriangles")
	d := Draw{
		Program:     r.current,
		VertexArray: r.boundVAO,
		IndexBuffer: r.boundIndex,
		Count:       count,
		Mat4:        make(map[string][16]float32),
		Vec4:        make(map[string][4]float32),
	}
	if prog, ok := r.programs[r.current]; ok {
		for k, v := range prog.mat4 {
			d.Mat4[k] = v
		}
		for k, v := range prog.vec4 {
			d.Vec4[k] = v
		}
	}
	r.Draws = append(r.Draws, d)
}

func (r *Recorder) DeleteBuffer(b gpu.BufferID) {
	delete(r.VertexBuffers, b)
	delete(r.IndexBuffers, b)
}

func (r *Recorder) DeleteVertexArray(v gpu.VertexArrayID) { delete(r.VertexArrays, v) }

func (r *Recorder) DeleteProgram(p gpu.ProgramID) { delete(r.programs, p) }

func (r *Recorder) BeginScene(width, height int32) {
	r.inScene = true
	r.sceneWidth, r.sceneHeight = width, height
	r.Scenes++
}

func (r *Recorder) EndScene() { r.inScene = false }

// InScene reports whether BeginScene was called without a matching EndScene.
func (r *Recorder) InScene() bool { return r.inScene }
