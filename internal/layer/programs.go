package layer

import (
	"fmt"

	"city-viewer/internal/gpu"
	"city-viewer/internal/shaders"
)

// Program is a linked program with its attribute and uniform locations
// resolved once at creation. A location of -1 means the name is not active.
type Program struct {
	ID         gpu.ProgramID
	Position   int32
	Normal     int32
	Model      int32
	View       int32
	Projection int32
	Color      int32
}

// Programs maps each layer kind to its program. Programs are linked on first
// use so that the device calls happen after the GL context exists, and are
// shared by every layer of that kind.
type Programs struct {
	dev   gpu.Device
	cache map[Kind]*Program
}

// NewPrograms returns an empty program registry for dev.
func NewPrograms(dev gpu.Device) *Programs {
	return &Programs{dev: dev, cache: make(map[Kind]*Program)}
}

// Get returns the program for kind, linking it if needed.
func (p *Programs) Get(kind Kind) (*Program, error) {
	if prog, ok := p.cache[kind]; ok {
		return prog, nil
	}
	var vs string
	switch kind {
	case KindFlat:
		vs = shaders.FlatVertex
	case KindBuilding:
		vs = shaders.BuildingVertex
	default:
		return nil, fmt.Errorf("no program for %v: %w", kind, gpu.ErrResourceCreation)
	}
	id, err := p.dev.LinkProgram(vs, shaders.Fragment)
	if err != nil {
		return nil, fmt.Errorf("%v program: %w", kind, err)
	}
	prog := &Program{
		ID:         id,
		Position:   p.dev.AttribLocation(id, "position"),
		Normal:     p.dev.AttribLocation(id, "normal"),
		Model:      p.dev.UniformLocation(id, "uModel"),
		View:       p.dev.UniformLocation(id, "uView"),
		Projection: p.dev.UniformLocation(id, "uProjection"),
		Color:      p.dev.UniformLocation(id, "uColor"),
	}
	if prog.Position < 0 || (kind == KindBuilding && prog.Normal < 0) {
		p.dev.DeleteProgram(id)
		return nil, fmt.Errorf("%v program is missing vertex attributes: %w", kind, gpu.ErrResourceCreation)
	}
	p.cache[kind] = prog
	return prog, nil
}

// Release deletes every linked program.
func (p *Programs) Release() {
	for k, prog := range p.cache {
		p.dev.DeleteProgram(prog.ID)
		delete(p.cache, k)
	}
}
