// Package layer implements the renderable city layers. A layer owns its
// geometry and the GPU buffers uploaded from it; the two variants differ in
// the program they select and the vertex attributes they bind.
package layer

import (
	"fmt"

	"city-viewer/internal/gpu"
	"city-viewer/internal/view"
)

// Drawable is a layer that can draw itself with a frame's matrices.
// Implemented only by *Flat and *Building.
type Drawable interface {
	Kind() Kind
	Geometry() Geometry
	Color() Color
	// Draw selects the layer's program, sets its uniforms from f, binds its
	// geometry and issues one indexed triangle draw. It does not mutate the layer.
	Draw(dev gpu.Device, f view.Frame)
	// Release deletes the layer's GPU resources. The layer must not be drawn afterwards.
	Release(dev gpu.Device)

	sealed()
}

// mesh is the part shared by both variants.
type mesh struct {
	geom  Geometry
	color Color
	prog  *Program

	vertexBuffer gpu.BufferID
	indexBuffer  gpu.BufferID
	vao          gpu.VertexArrayID
}

func (m *mesh) Geometry() Geometry { return m.geom }
func (m *mesh) Color() Color       { return m.color }
func (m *mesh) sealed()            {}

func (m *mesh) Draw(dev gpu.Device, f view.Frame) {
	dev.UseProgram(m.prog.ID)
	dev.SetUniformVec4(m.prog.Color, m.color)
	dev.SetUniformMat4(m.prog.Model, f.Model)
	dev.SetUniformMat4(m.prog.View, f.View)
	dev.SetUniformMat4(m.prog.Projection, f.Projection)
	dev.BindVertexArray(m.vao)
	dev.BindIndexBuffer(m.indexBuffer)
	dev.DrawTriangles(int32(len(m.geom.Indices)))
}

func (m *mesh) Release(dev gpu.Device) {
	if m.vao != 0 {
		dev.DeleteVertexArray(m.vao)
		m.vao = 0
	}
	if m.vertexBuffer != 0 {
		dev.DeleteBuffer(m.vertexBuffer)
		m.vertexBuffer = 0
	}
	if m.indexBuffer != 0 {
		dev.DeleteBuffer(m.indexBuffer)
		m.indexBuffer = 0
	}
}

// upload creates the position and index buffers.
func (m *mesh) upload(dev gpu.Device) error {
	var err error
	if m.vertexBuffer, err = dev.CreateVertexBuffer(m.geom.Positions); err != nil {
		return fmt.Errorf("vertex buffer: %w", err)
	}
	if m.indexBuffer, err = dev.CreateIndexBuffer(m.geom.Indices); err != nil {
		return fmt.Errorf("index buffer: %w", err)
	}
	return nil
}

// Flat is a layer without normals: water, parks, surface.
type Flat struct {
	mesh
}

func (*Flat) Kind() Kind { return KindFlat }

// Building is a layer with a normal per vertex, drawn with the normal-aware program.
type Building struct {
	mesh
	normalBuffer gpu.BufferID
}

func (*Building) Kind() Kind { return KindBuilding }

func (b *Building) Release(dev gpu.Device) {
	b.mesh.Release(dev)
	if b.normalBuffer != 0 {
		dev.DeleteBuffer(b.normalBuffer)
		b.normalBuffer = 0
	}
}

// NewFlat validates geom and uploads it with the flat program.
func NewFlat(dev gpu.Device, progs *Programs, geom Geometry, color Color) (*Flat, error) {
	if err := geom.Validate(KindFlat); err != nil {
		return nil, err
	}
	prog, err := progs.Get(KindFlat)
	if err != nil {
		return nil, err
	}
	l := &Flat{mesh{geom: Geometry{Positions: geom.Positions, Indices: geom.Indices}, color: color, prog: prog}}
	if err := l.mesh.upload(dev); err != nil {
		l.Release(dev)
		return nil, err
	}
	l.vao, err = dev.CreateVertexArray(gpu.Attribute{Location: prog.Position, Buffer: l.vertexBuffer, Size: 3})
	if err != nil {
		l.Release(dev)
		return nil, fmt.Errorf("vertex array: %w", err)
	}
	return l, nil
}

// NewBuilding validates geom, including its normals, and uploads it with the building program.
func NewBuilding(dev gpu.Device, progs *Programs, geom Geometry, color Color) (*Building, error) {
	if err := geom.Validate(KindBuilding); err != nil {
		return nil, err
	}
	prog, err := progs.Get(KindBuilding)
	if err != nil {
		return nil, err
	}
	l := &Building{mesh: mesh{geom: geom, color: color, prog: prog}}
	if err := l.mesh.upload(dev); err != nil {
		l.Release(dev)
		return nil, err
	}
	if l.normalBuffer, err = dev.CreateVertexBuffer(geom.Normals); err != nil {
		l.Release(dev)
		return nil, fmt.Errorf("normal buffer: %w", err)
	}
	l.vao, err = dev.CreateVertexArray(
		gpu.Attribute{Location: prog.Position, Buffer: l.vertexBuffer, Size: 3},
		gpu.Attribute{Location: prog.Normal, Buffer: l.normalBuffer, Size: 3},
	)
	if err != nil {
		l.Release(dev)
		return nil, fmt.Errorf("vertex array: %w", err)
	}
	return l, nil
}

// New constructs the variant matching kind.
func New(dev gpu.Device, progs *Programs, kind Kind, geom Geometry, color Color) (Drawable, error) {
	var (
		d   Drawable
		err error
	)
	switch kind {
	case KindFlat:
		var l *Flat
		if l, err = NewFlat(dev, progs, geom, color); err == nil {
			d = l
		}
	case KindBuilding:
		var l *Building
		if l, err = NewBuilding(dev, progs, geom, color); err == nil {
			d = l
		}
	default:
		err = fmt.Errorf("unknown layer kind %v: %w", kind, ErrInvalidGeometry)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}
